//go:build !llama

package generator

// This file provides a no-CGO stub for the llama adapter. It is compiled when
// the 'llama' build tag is NOT set; every request then takes the fallback path.

// llamaBuilt indicates this binary was compiled without llama support.
var llamaBuilt = false

type llamaAdapter struct{}

// NewLlamaAdapter returns an adapter that refuses to run inference without the
// 'llama' build tag.
func NewLlamaAdapter(resolve ModelResolver, ctxSize, threads, gpuLayers int) Adapter {
	return llamaAdapter{}
}

func (llamaAdapter) Name() string { return "llama" }

func (llamaAdapter) Start(string, Params) (Session, error) {
	return nil, ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}
