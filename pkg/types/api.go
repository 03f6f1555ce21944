package types

// GenerateRequest is the payload for POST /generate.
type GenerateRequest struct {
	// Natural-language description of the diagram. May be empty.
	// example: A patient registers at the front desk of a clinic.
	Prompt string `json:"prompt" example:"A patient registers at the front desk of a clinic."`
	// Optional session key. When omitted the X-Session-ID header is used,
	// then the shared "default" session.
	// example: 2b7c1d5e-8f3a-4c7e-9d1b-0a6f5e4d3c2b
	SessionID string `json:"session_id,omitempty" example:"2b7c1d5e-8f3a-4c7e-9d1b-0a6f5e4d3c2b"`
}

// GenerateResponse is returned by POST /generate. It is always 200, including
// when the fallback diagram was served.
type GenerateResponse struct {
	// Generated PlantUML markup (or the fallback diagram).
	// example: @startuml\nAlice -> Bob: hello\n@enduml
	Response string `json:"response" example:"@startuml\nAlice -> Bob: hello\n@enduml"`
	// Where the markup came from: model or fallback.
	// example: model
	Source string `json:"source" example:"model"`
	// Model name the backend was asked for.
	// example: jost/mistral7b_plantuml
	Model string `json:"model,omitempty" example:"jost/mistral7b_plantuml"`
	// Session the markup was stored under.
	// example: default
	SessionID string `json:"session_id" example:"default"`
}

// ConvertRequest is the optional payload for POST /convert-to-diagram.
type ConvertRequest struct {
	// Session whose markup should be rendered.
	// example: default
	SessionID string `json:"session_id,omitempty" example:"default"`
	// Output format: png (default), img, svg or txt.
	// example: png
	Format string `json:"format,omitempty" example:"png"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall state (ready, degraded).
	// example: ready
	State string `json:"state" example:"ready"`
	// Generation backend (openai, replicate, llama, none).
	// example: openai
	Backend string `json:"backend" example:"openai"`
	// Model name passed to the backend.
	// example: jost/mistral7b_plantuml
	Model string `json:"model" example:"jost/mistral7b_plantuml"`
	// Renderer kind (plantuml, kroki).
	// example: plantuml
	Renderer string `json:"renderer" example:"plantuml"`
	// Session store kind (memory, redis).
	// example: memory
	Store string `json:"store" example:"memory"`
	// Total generation requests served.
	// example: 12
	GenerationsTotal uint64 `json:"generations_total" example:"12"`
	// Generation requests answered with the fallback diagram.
	// example: 3
	FallbacksTotal uint64 `json:"fallbacks_total" example:"3"`
	// Successful renders.
	// example: 7
	RendersTotal uint64 `json:"renders_total" example:"7"`
	// Last generation or render failure (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
