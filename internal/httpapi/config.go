package httpapi

import (
	"time"

	"diagramd/internal/render"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// generateTimeout and renderTimeout bound a single request. Zero means no
// additional timeout beyond server/connection timeouts.
var (
	generateTimeout time.Duration
	renderTimeout   time.Duration
)

// SetTimeouts sets the per-endpoint request timeouts (0 disables).
func SetTimeouts(generate, rendering time.Duration) {
	generateTimeout = max(generate, 0)
	renderTimeout = max(rendering, 0)
}

// defaultFormat is used when a render request names no format.
var defaultFormat = render.DefaultFormat

// SetDefaultFormat changes the render format used when a request names none.
func SetDefaultFormat(f render.Format) {
	if f == "" {
		f = render.DefaultFormat
	}
	defaultFormat = f
}

// CORS configuration. The browser frontend runs on localhost:3000 by default
// and sends credentials.
var (
	corsEnabled          = true
	corsAllowedOrigins   = []string{"http://localhost:3000"}
	corsAllowedMethods   = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}
	corsAllowedHeaders   = []string{"*"}
	corsAllowCredentials = true
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty method
// or header lists allow everything.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
	if len(corsAllowedMethods) == 0 {
		corsAllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"}
	}
	if len(corsAllowedHeaders) == 0 {
		corsAllowedHeaders = []string{"*"}
	}
}

// SetCORSCredentials toggles Access-Control-Allow-Credentials.
func SetCORSCredentials(allow bool) { corsAllowCredentials = allow }
