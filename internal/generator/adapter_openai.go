package generator

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultOpenAIBaseURL = "http://127.0.0.1:8081/v1/"

// openAIAdapter talks to any server exposing the OpenAI legacy completions
// endpoint (text-generation-inference, vLLM, llama.cpp server). The raw
// completions API is used so the instruction template reaches the model
// verbatim.
type openAIAdapter struct {
	client openai.Client
}

// NewOpenAIAdapter constructs a completions-backed adapter. An empty baseURL
// targets a local inference server; httpClient may be nil.
func NewOpenAIAdapter(baseURL, apiKey string, httpClient *http.Client) Adapter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultOpenAIBaseURL
	}
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/"),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &openAIAdapter{client: openai.NewClient(opts...)}
}

func (a *openAIAdapter) Name() string { return "openai" }

func (a *openAIAdapter) Start(model string, params Params) (Session, error) {
	return &openAISession{adapter: a, model: strings.TrimSpace(model), params: params}, nil
}

type openAISession struct {
	adapter *openAIAdapter
	model   string
	params  Params
}

func (s *openAISession) Generate(ctx context.Context, prompt string) (FinalResult, error) {
	req := openai.CompletionNewParams{
		Model:  openai.CompletionNewParamsModel(s.model),
		Prompt: openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
	}
	if s.params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(int64(s.params.MaxTokens))
	}
	if s.params.Temperature > 0 {
		req.Temperature = openai.Float(float64(s.params.Temperature))
	}
	if len(s.params.Stop) > 0 {
		req.Stop = openai.CompletionNewParamsStopUnion{OfStringArray: s.params.Stop}
	}
	completion, err := s.adapter.client.Completions.New(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return FinalResult{}, &UpstreamError{Backend: "openai", Status: apiErr.StatusCode, Err: err}
		}
		return FinalResult{}, err
	}
	if completion == nil || len(completion.Choices) == 0 {
		return FinalResult{}, ErrEmptyOutput
	}
	choice := completion.Choices[0]
	return FinalResult{Content: choice.Text, FinishReason: string(choice.FinishReason)}, nil
}

func (s *openAISession) Close() error { return nil }
