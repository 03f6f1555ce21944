package generator

import "context"

// Adapter abstracts a model backend. Start is called once per request.
type Adapter interface {
	// Name identifies the backend in logs, metrics and /status.
	Name() string
	// Start prepares a session for the given model name (hub id, Replicate
	// identifier or local GGUF name, depending on the backend).
	Start(model string, params Params) (Session, error)
}

// Session is a single generation. Close releases whatever Start loaded.
type Session interface {
	Generate(ctx context.Context, prompt string) (FinalResult, error)
	Close() error
}

// Params captures generation parameters passed to the adapter.
type Params struct {
	MaxTokens   int
	Temperature float32
	Stop        []string
}

// FinalResult is the raw, uncleaned model output.
type FinalResult struct {
	Content      string
	FinishReason string
}

// unavailableAdapter always fails; used for the "none" backend so every
// request is served in demo mode.
type unavailableAdapter struct{ reason string }

// NewUnavailableAdapter returns an adapter whose Start always fails with a
// dependency-unavailable error.
func NewUnavailableAdapter(reason string) Adapter {
	if reason == "" {
		reason = "no model backend configured"
	}
	return unavailableAdapter{reason: reason}
}

func (a unavailableAdapter) Name() string { return "none" }

func (a unavailableAdapter) Start(string, Params) (Session, error) {
	return nil, ErrDependencyUnavailable(a.reason)
}

// ModelResolver maps a model name to a local file path.
type ModelResolver func(model string) (string, error)

// LlamaBuilt reports whether in-process llama support is compiled in.
func LlamaBuilt() bool { return llamaBuilt }
