// Package diagram ties generation, the session store and rendering together
// behind the two API operations.
package diagram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"diagramd/internal/common/fsutil"
	"diagramd/internal/events"
	"diagramd/internal/generator"
	"diagramd/internal/render"
	"diagramd/internal/session"
	"diagramd/pkg/types"
)

// ErrNoContent is returned by Render when the session has no markup yet.
var ErrNoContent = errors.New("no diagram markup generated yet")

// Config wires the collaborators of a Service.
type Config struct {
	Generator *generator.Generator
	Store     session.Store
	Renderer  render.Renderer
	Events    events.Publisher
	// WorkDir holds temporary markup files; empty means the OS temp dir.
	WorkDir string
	Logger  zerolog.Logger
}

// Service implements generate and render for the HTTP layer and the CLI.
type Service struct {
	gen      *generator.Generator
	store    session.Store
	renderer render.Renderer
	events   events.Publisher
	workDir  string
	log      zerolog.Logger

	start       time.Time
	generations atomic.Uint64
	fallbacks   atomic.Uint64
	renders     atomic.Uint64

	mu      sync.RWMutex
	lastErr string
	closed  bool
}

// New validates cfg and constructs a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Generator == nil {
		return nil, errors.New("diagram: generator is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("diagram: renderer is required")
	}
	dir, err := fsutil.WorkDir(cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	s := &Service{
		gen:      cfg.Generator,
		store:    cfg.Store,
		renderer: cfg.Renderer,
		events:   cfg.Events,
		workDir:  dir,
		log:      cfg.Logger,
		start:    time.Now(),
	}
	if s.store == nil {
		s.store = session.NewMemoryStore(0)
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	return s, nil
}

// Generate produces markup for prompt and stores it under the session key.
// The result is always usable; the only error is a store failure.
func (s *Service) Generate(ctx context.Context, key, prompt string) (generator.Result, string, error) {
	key = session.NormalizeKey(key)
	res := s.gen.Generate(ctx, prompt)
	s.generations.Add(1)
	if res.Fallback() {
		s.fallbacks.Add(1)
		s.setLastErr(res.Cause)
	}
	entry := session.Entry{
		Text:      res.Text,
		Source:    string(res.Source),
		Model:     res.Model,
		Prompt:    prompt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(ctx, key, entry); err != nil {
		s.setLastErr(err)
		return res, key, fmt.Errorf("store session %q: %w", key, err)
	}
	s.events.Publish(events.Event{
		Name:      events.Generated,
		SessionID: key,
		Time:      entry.UpdatedAt,
		Fields: map[string]any{
			"source":  entry.Source,
			"model":   entry.Model,
			"backend": s.gen.Backend(),
			"chars":   len(res.Text),
		},
	})
	return res, key, nil
}

// Render writes the session's markup to a temporary .puml file and submits
// it to the renderer. The returned file belongs to the caller.
func (s *Service) Render(ctx context.Context, key string, format render.Format) (render.Rendering, error) {
	key = session.NormalizeKey(key)
	entry, err := s.store.Get(ctx, key)
	if errors.Is(err, session.ErrNotFound) {
		return render.Rendering{}, fmt.Errorf("session %q: %w", key, ErrNoContent)
	}
	if err != nil {
		s.setLastErr(err)
		return render.Rendering{}, fmt.Errorf("load session %q: %w", key, err)
	}

	src, err := fsutil.WriteUnique(s.workDir, "diagram", ".puml", []byte(entry.Text))
	if err != nil {
		s.setLastErr(err)
		return render.Rendering{}, fmt.Errorf("write markup: %w", err)
	}
	defer func() { _ = os.Remove(src) }()

	out, err := s.renderer.Render(ctx, src, format)
	if err != nil {
		s.setLastErr(err)
		s.log.Warn().Err(err).Str("session", key).Str("renderer", s.renderer.Kind()).Msg("render failed")
		s.events.Publish(events.Event{
			Name:      events.Failed,
			SessionID: key,
			Time:      time.Now().UTC(),
			Fields:    map[string]any{"error": err.Error(), "format": string(format)},
		})
		return render.Rendering{}, err
	}
	s.renders.Add(1)
	s.events.Publish(events.Event{
		Name:      events.Rendered,
		SessionID: key,
		Time:      time.Now().UTC(),
		Fields: map[string]any{
			"format": string(out.Format),
			"bytes":  out.Size,
			"source": entry.Source,
		},
	})
	return out, nil
}

// pinger is implemented by stores with a remote connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// Ready reports whether the service can take requests. Generation always
// works (fallback), so only a closed service or an unreachable store count.
func (s *Service) Ready(ctx context.Context) bool {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return false
	}
	if p, ok := s.store.(pinger); ok {
		return p.Ping(ctx) == nil
	}
	return true
}

// Status builds a status response for /status.
func (s *Service) Status() types.StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := "ready"
	if s.closed {
		state = "closed"
	} else if s.gen.Backend() == "none" {
		state = "degraded"
	}
	now := time.Now()
	return types.StatusResponse{
		State:            state,
		Backend:          s.gen.Backend(),
		Model:            s.gen.Model(),
		Renderer:         s.renderer.Kind(),
		Store:            s.store.Kind(),
		GenerationsTotal: s.generations.Load(),
		FallbacksTotal:   s.fallbacks.Load(),
		RendersTotal:     s.renders.Load(),
		LastError:        s.lastErr,
		UptimeSeconds:    int64(now.Sub(s.start).Seconds()),
		ServerTimeUnix:   now.Unix(),
	}
}

// Close releases the session store. Further calls are no-ops.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.store.Close()
}

func (s *Service) setLastErr(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}
