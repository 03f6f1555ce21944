package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/replicate/replicate-go"
)

// replicateAdapter runs the model as a Replicate prediction and blocks until
// it finishes.
type replicateAdapter struct {
	client *replicate.Client
}

// NewReplicateAdapter constructs a Replicate-backed adapter. Without a token
// the adapter is unavailable rather than failing startup, so the service
// still answers in demo mode.
func NewReplicateAdapter(token, baseURL string) (Adapter, error) {
	if strings.TrimSpace(token) == "" {
		return NewUnavailableAdapter("replicate token not configured"), nil
	}
	opts := []replicate.ClientOption{replicate.WithToken(token)}
	if baseURL != "" {
		opts = append(opts, replicate.WithBaseURL(baseURL))
	}
	client, err := replicate.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("replicate client: %w", err)
	}
	return &replicateAdapter{client: client}, nil
}

func (a *replicateAdapter) Name() string { return "replicate" }

func (a *replicateAdapter) Start(model string, params Params) (Session, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("replicate: model identifier is empty")
	}
	return &replicateSession{client: a.client, model: model, params: params}, nil
}

type replicateSession struct {
	client *replicate.Client
	model  string
	params Params
}

func (s *replicateSession) Generate(ctx context.Context, prompt string) (FinalResult, error) {
	out, err := s.client.RunWithOptions(ctx, s.model, replicateInput(prompt, s.params), nil, replicate.WithBlockUntilDone())
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, fmt.Errorf("replicate run: %w", err)
	}
	return FinalResult{Content: joinOutput(out), FinishReason: "stop"}, nil
}

func (s *replicateSession) Close() error { return nil }

// replicateInput disables Replicate's own prompt template: the prompt already
// carries the instruction wrapper.
func replicateInput(prompt string, params Params) replicate.PredictionInput {
	input := replicate.PredictionInput{
		"prompt":          prompt,
		"prompt_template": "{prompt}",
	}
	if params.MaxTokens > 0 {
		input["max_new_tokens"] = params.MaxTokens
	}
	if params.Temperature > 0 {
		input["temperature"] = params.Temperature
	}
	return input
}

// joinOutput flattens a prediction output. Language models on Replicate
// return a list of token strings; some return a single string.
func joinOutput(out replicate.PredictionOutput) string {
	switch v := out.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, "")
	case []any:
		var b strings.Builder
		for _, item := range v {
			if s, ok := item.(string); ok {
				b.WriteString(s)
			}
		}
		return b.String()
	default:
		return fmt.Sprint(v)
	}
}
