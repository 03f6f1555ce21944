package render

import (
	"fmt"
	"net/http"
)

// UpstreamError is a non-2xx answer from the rendering server.
type UpstreamError struct {
	Renderer string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: render server returned %d", e.Renderer, e.Status)
	}
	return fmt.Sprintf("%s: render server returned %d: %s", e.Renderer, e.Status, e.Body)
}

// StatusCode maps every renderer failure to 502 for API clients.
func (e *UpstreamError) StatusCode() int { return http.StatusBadGateway }

// UnreachableError wraps transport failures talking to the rendering server.
type UnreachableError struct {
	Renderer string
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: render server unreachable: %v", e.Renderer, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

func (e *UnreachableError) StatusCode() int { return http.StatusBadGateway }
