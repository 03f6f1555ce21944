package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"diagramd/internal/generator"
	"diagramd/internal/render"
	"diagramd/pkg/types"
)

// SessionHeader carries the session key when the body names none.
const SessionHeader = "X-Session-ID"

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Generate(ctx context.Context, key, prompt string) (generator.Result, string, error)
	Render(ctx context.Context, key string, format render.Format) (render.Rendering, error)
	Status() types.StatusResponse
	Ready(ctx context.Context) bool
}

type api struct{ svc Service }

func NewMux(svc Service) http.Handler {
	a := &api{svc: svc}
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   corsAllowedOrigins,
			AllowedMethods:   corsAllowedMethods,
			AllowedHeaders:   corsAllowedHeaders,
			ExposedHeaders:   []string{SessionHeader, "X-Request-Id"},
			AllowCredentials: corsAllowCredentials,
			MaxAge:           300,
		}))
	}

	r.Post("/generate", a.generate)
	r.Post("/convert-to-diagram", a.convert)
	r.Get("/status", a.status)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if svc.Ready(ctx) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("unavailable"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// isJSON accepts application/json and a missing Content-Type.
func isJSON(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if strings.TrimSpace(ct) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ct)
	return err == nil && strings.EqualFold(mt, "application/json")
}

// generate godoc
// @Summary      Generate PlantUML markup
// @Description  Wraps the prompt in the instruction template and asks the model for diagram markup. Backend failures are answered with a fixed fallback diagram and source "fallback"; the status stays 200.
// @Tags         diagrams
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header    string                 false  "Session key (defaults to the shared default session)"
// @Param        request       body      types.GenerateRequest  true   "Prompt"
// @Success      200           {object}  types.GenerateResponse
// @Failure      400           {object}  types.ErrorResponse
// @Failure      415           {object}  types.ErrorResponse
// @Failure      500           {object}  types.ErrorResponse
// @Router       /generate [post]
func (a *api) generate(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Oversized bodies also land here; the size limit is not disclosed.
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	key := req.SessionID
	if key == "" {
		key = r.Header.Get(SessionHeader)
	}

	lg := startLog(r, "generate")
	ctx, cancel := requestContext(r, generateTimeout)
	defer cancel()
	res, key, err := a.svc.Generate(ctx, key, req.Prompt)
	if err != nil {
		if aborted(r) {
			return
		}
		status := statusFor(err)
		writeJSONError(w, status, err.Error())
		lg.end(status, err)
		return
	}
	lg.debug().Str("session", key).Str("source", string(res.Source)).Int("chars", len(res.Text)).Msg("generate result")
	w.Header().Set(SessionHeader, key)
	writeJSON(w, types.GenerateResponse{
		Response:  res.Text,
		Source:    string(res.Source),
		Model:     res.Model,
		SessionID: key,
	})
	lg.end(http.StatusOK, nil)
}

// convert godoc
// @Summary      Render the last generated markup
// @Description  Renders the session's most recent markup through the configured PlantUML server and streams the image.
// @Tags         diagrams
// @Accept       json
// @Produce      png
// @Produce      image/svg+xml
// @Produce      plain
// @Param        X-Session-ID  header    string                false  "Session key"
// @Param        session_id    query     string                false  "Session key"
// @Param        format        query     string                false  "png, img, svg or txt"
// @Param        request       body      types.ConvertRequest  false  "Optional session and format"
// @Success      200           {file}    file
// @Failure      400           {object}  types.ErrorResponse
// @Failure      404           {object}  types.ErrorResponse
// @Failure      500           {object}  types.ErrorResponse
// @Failure      502           {object}  types.ErrorResponse
// @Router       /convert-to-diagram [post]
func (a *api) convert(w http.ResponseWriter, r *http.Request) {
	var req types.ConvertRequest
	if r.Body != nil && isJSON(r) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	q := r.URL.Query()
	key := firstNonEmpty(req.SessionID, q.Get("session_id"), r.Header.Get(SessionHeader))
	format := defaultFormat
	if f := firstNonEmpty(req.Format, q.Get("format")); f != "" {
		parsed, err := render.ParseFormat(f)
		if err != nil {
			writeJSONError(w, statusFor(err), err.Error())
			return
		}
		format = parsed
	}

	lg := startLog(r, "render")
	ctx, cancel := requestContext(r, renderTimeout)
	defer cancel()
	out, err := a.svc.Render(ctx, key, format)
	if err != nil {
		if aborted(r) {
			return
		}
		status := statusFor(err)
		writeJSONError(w, status, err.Error())
		lg.end(status, err)
		return
	}
	// The rendered file is single use.
	defer func() { _ = os.Remove(out.Path) }()

	f, err := os.Open(out.Path)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "rendered image missing")
		lg.end(http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", out.ContentType)
	if out.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(out.Size, 10))
	}
	w.Header().Set("Content-Disposition", `inline; filename="diagram`+out.Format.Ext()+`"`)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	n, err := io.Copy(w, f)
	renderedBytesTotal.WithLabelValues(string(out.Format)).Add(float64(n))
	if err != nil {
		lg.end(http.StatusOK, err)
		return
	}
	lg.debug().Str("format", string(out.Format)).Int64("bytes", n).Msg("render streamed")
	lg.end(http.StatusOK, nil)
}

// status godoc
// @Summary      Service status
// @Tags         system
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (a *api) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.svc.Status())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
