//go:build llama

package generator

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaAdapter loads the GGUF file for the requested model on every Start
// and frees it on Close.
type llamaAdapter struct {
	resolve ModelResolver
	ctxSize int
	threads int
	gpu     int
}

// NewLlamaAdapter constructs the in-process adapter.
func NewLlamaAdapter(resolve ModelResolver, ctxSize, threads, gpuLayers int) Adapter {
	return &llamaAdapter{resolve: resolve, ctxSize: ctxSize, threads: threads, gpu: gpuLayers}
}

func (a *llamaAdapter) Name() string { return "llama" }

func (a *llamaAdapter) Start(model string, params Params) (Session, error) {
	if a.resolve == nil {
		return nil, ErrDependencyUnavailable("llama: no models directory configured")
	}
	path, err := a.resolve(model)
	if err != nil {
		return nil, ErrDependencyUnavailable("llama: " + err.Error())
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	mo := []llama.ModelOption{
		llama.SetContext(zn(a.ctxSize, 4096)),
	}
	if a.gpu > 0 {
		mo = append(mo, llama.SetGPULayers(a.gpu))
	}
	m, err := llama.New(path, mo...)
	if err != nil {
		// Most commonly: no accelerator / not enough memory for the model.
		return nil, ErrDependencyUnavailable("llama load: " + err.Error())
	}
	return &llamaSession{model: m, threads: a.threads, params: params}, nil
}

// llamaSession owns the loaded model
type llamaSession struct {
	model   *llama.LLama
	threads int
	params  Params
}

func (s *llamaSession) Generate(ctx context.Context, prompt string) (FinalResult, error) {
	if s.model == nil {
		return FinalResult{}, errors.New("llama model not initialized")
	}
	// Stop generation when the request goes away.
	s.model.SetTokenCallback(func(string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := s.model.Predict(prompt, predictOptions(s.params, s.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return FinalResult{}, ctx.Err()
		}
		return FinalResult{}, err
	}
	if ctx.Err() != nil {
		return FinalResult{}, ctx.Err()
	}
	return FinalResult{Content: text, FinishReason: "stop"}, nil
}

func (s *llamaSession) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// predictOptions converts Params into go-llama.cpp options.
func predictOptions(params Params, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(zn(params.MaxTokens, DefaultMaxTokens)),
		llama.SetThreads(zn(threads, 4)),
		llama.SetTemperature(zf(params.Temperature, llama.DefaultOptions.Temperature)),
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
