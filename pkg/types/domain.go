package types

// ModelFile is a local GGUF model discovered in the models directory.
type ModelFile struct {
	// Filename including extension.
	// example: mistral7b_plantuml.Q4_K_M.gguf
	ID string `json:"id" example:"mistral7b_plantuml.Q4_K_M.gguf"`
	// Filename without the .gguf extension.
	// example: mistral7b_plantuml.Q4_K_M
	Name string `json:"name" example:"mistral7b_plantuml.Q4_K_M"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/llm/mistral7b_plantuml.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/llm/mistral7b_plantuml.Q4_K_M.gguf"`
	// File size in bytes.
	// example: 4368439584
	SizeBytes int64 `json:"size_bytes" example:"4368439584"`
}
