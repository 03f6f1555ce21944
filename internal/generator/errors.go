package generator

import (
	"errors"
	"fmt"
)

// ErrEmptyOutput is returned when the model produced nothing usable after
// cleanup.
var ErrEmptyOutput = errors.New("model returned no diagram markup")

// dependencyUnavailableError signals a missing runtime dependency (no
// accelerator, llama support not built, no credentials).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var de dependencyUnavailableError
	return errors.As(err, &de)
}

// UpstreamError is a non-2xx answer from a remote model backend.
type UpstreamError struct {
	Backend string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream status %d: %v", e.Backend, e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// StatusCode returns the upstream HTTP status.
func (e *UpstreamError) StatusCode() int { return e.Status }

// Kind classifies a fallback cause for logs and metrics.
func Kind(err error) string {
	var ue *UpstreamError
	switch {
	case err == nil:
		return ""
	case IsDependencyUnavailable(err):
		return "dependency_unavailable"
	case errors.Is(err, ErrEmptyOutput):
		return "empty_output"
	case errors.As(err, &ue):
		return "upstream"
	case isContextErr(err):
		return "timeout"
	default:
		return "error"
	}
}
