// Package generator turns prompts into PlantUML markup. It is structured into
// small files by concern:
//
//   - generator.go: Generator, its config and the fallback policy.
//   - result.go: the typed Result (model output vs fallback).
//   - errors.go: error types and helpers (IsDependencyUnavailable, UpstreamError).
//   - adapter_iface.go: the Adapter/Session contract every backend implements.
//   - adapter_openai.go: OpenAI-compatible /v1/completions (TGI, vLLM, llama.cpp server).
//   - adapter_replicate.go: Replicate predictions.
//   - adapter_llama.go: in-process go-llama.cpp, built with `-tags=llama`.
//     A no-CGO stub is compiled otherwise: adapter_llama_stub.go.
//   - limiter.go: token-bucket wrapper around any Adapter.
//   - metrics.go: Prometheus counters for generation outcomes.
//
// Backends are started per call and closed afterwards; nothing is cached
// between requests.
package generator
