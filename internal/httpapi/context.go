package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// errShuttingDown is the cancel cause of in-flight requests when the server
// base context ends.
var errShuttingDown = errors.New("server shutting down")

// serverBaseCtx ends on shutdown. Handlers derive their work contexts from it
// and from the request so that a stopping server abandons slow backends.
var serverBaseCtx = context.Background()

// SetBaseContext installs the process-level context; nil resets it.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// requestContext returns the context for a generation or render call. It
// ends with the request, with the base context (cause errShuttingDown) or
// after timeout when positive.
func requestContext(r *http.Request, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(r.Context())
	stop := context.AfterFunc(serverBaseCtx, func() { cancel(errShuttingDown) })
	release := func() {
		stop()
		cancel(context.Canceled)
	}
	if timeout <= 0 {
		return ctx, release
	}
	tctx, tcancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		tcancel()
		release()
	}
}

// aborted reports whether nobody is left to read the response.
func aborted(r *http.Request) bool {
	return r.Context().Err() != nil || serverBaseCtx.Err() != nil
}
