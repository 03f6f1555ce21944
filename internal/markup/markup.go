// Package markup prepares prompts for the PlantUML model and turns raw model
// output back into diagram markup.
package markup

import "strings"

const (
	instOpen  = "[INST]"
	instClose = "[/INST]"

	seqStart = "<s>"
	seqEnd   = "</s>"
)

// Template wraps a prompt in the Mistral instruction format the model was
// tuned on.
func Template(prompt string) string {
	return instOpen + " " + prompt + " " + instClose
}

// Clean removes the echoed template and the sequence markers from raw model
// output.
func Clean(raw, template string) string {
	s := raw
	if template != "" {
		s = strings.ReplaceAll(s, template, "")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, seqStart)
	s = strings.TrimSuffix(s, seqEnd)
	return strings.TrimSpace(s)
}

// Postprocess runs Clean followed by Extract.
func Postprocess(raw, template string) string {
	return Extract(Clean(raw, template))
}
