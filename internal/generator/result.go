package generator

import "time"

// Source tells where a Result's text came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Result is the outcome of one generation. Cause is set only for fallbacks.
type Result struct {
	Text     string
	Source   Source
	Model    string
	Cause    error
	Duration time.Duration
}

// Fallback reports whether the canned diagram was served.
func (r Result) Fallback() bool { return r.Source == SourceFallback }
