package httpapi

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by the HTTP layer. Nop until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// global default, read once
var defaultLogLevel = func() LogLevel {
	v, ok := os.LookupEnv("DIAGRAMD_LOG_LEVEL")
	if !ok {
		return LevelInfo
	}
	return parseLevel(v)
}()

// SetDefaultLogLevel overrides the request log level used when a request
// carries no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

func requestLogLevel(r *http.Request) LogLevel {
	// Per-request overrides
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// reqLog carries the per-request level and start time for start/end lines.
type reqLog struct {
	lvl   LogLevel
	op    string
	rid   string
	start time.Time
}

func startLog(r *http.Request, op string) reqLog {
	l := reqLog{lvl: requestLogLevel(r), op: op, rid: middleware.GetReqID(r.Context()), start: time.Now()}
	if l.lvl >= LevelInfo {
		z := zlog.Info().Str("path", r.URL.Path)
		if l.rid != "" {
			z = z.Str("request_id", l.rid)
		}
		z.Msg(op + " start")
	}
	return l
}

func (l reqLog) debug() *zerolog.Event {
	if l.lvl < LevelDebug {
		return nil
	}
	return zlog.Debug().Str("request_id", l.rid)
}

// end logs the outcome; errors are logged at LevelError and above.
func (l reqLog) end(status int, err error) {
	if l.lvl == LevelOff || (err == nil && l.lvl < LevelInfo) {
		return
	}
	var z *zerolog.Event
	if err != nil {
		z = zlog.Error().Err(err)
	} else {
		z = zlog.Info()
	}
	z = z.Int("status", status).Dur("dur", time.Since(l.start))
	if l.rid != "" {
		z = z.Str("request_id", l.rid)
	}
	z.Msg(l.op + " end")
}
