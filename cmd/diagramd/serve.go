package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"diagramd/internal/config"
	"diagramd/internal/diagram"
	"diagramd/internal/events"
	"diagramd/internal/generator"
	"diagramd/internal/httpapi"
	"diagramd/internal/registry"
	"diagramd/internal/render"
	"diagramd/internal/session"
)

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.serve()
		},
	}
	f := cmd.Flags()
	defAddr := config.DefaultAddr
	if v := os.Getenv("DIAGRAMD_ADDR"); v != "" {
		defAddr = v
	}
	f.StringVar(&c.flags.Addr, "addr", defAddr, "HTTP listen address, e.g. :5000")
	f.StringVar(&c.corsCSV, "cors-origins", config.DefaultCORSOrigin, "Comma-separated allowed CORS origins")
	f.Int64Var(&c.flags.MaxBodyBytes, "max-body-bytes", config.DefaultMaxBodyBytes, "Maximum JSON request body size")
	f.StringVar(&c.flags.SessionStore, "session-store", config.DefaultSessionStore, "Session store: memory|redis")
	f.StringVar(&c.flags.RedisURL, "redis-url", "", "Redis URL for the redis session store")
	f.DurationVar(&c.flags.SessionTTL.Duration, "session-ttl", 0, "Expire stored markup after this long (0 = never)")
	f.StringVar(&c.flags.NatsURL, "nats-url", "", "Publish lifecycle events to this NATS server")
	f.StringVar(&c.flags.NatsSubject, "nats-subject-prefix", "", "Subject prefix for events (default diagramd)")
	return cmd
}

func (c *cli) serve() error {
	cfg, log := c.cfg, c.log

	svc, closeAll, err := buildService(cfg, log)
	if err != nil {
		return err
	}
	defer closeAll()

	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetDefaultLogLevel(requestLogLevel(cfg.LogLevel))
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetTimeouts(cfg.GenerateTimeout.Duration, cfg.RenderTimeout.Duration)
	httpapi.SetDefaultFormat(format)
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		st := svc.Status()
		log.Info().
			Str("addr", cfg.Addr).
			Str("backend", st.Backend).
			Str("model", st.Model).
			Str("renderer", st.Renderer).
			Str("store", st.Store).
			Msg("diagramd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

// requestLogLevel maps the process log level to the HTTP per-request level.
func requestLogLevel(level string) string {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return "debug"
	case "warn", "error", "fatal", "panic":
		return "error"
	case "off", "disabled":
		return "off"
	default:
		return "info"
	}
}

// buildService wires generator, store, renderer and events from cfg. The
// returned func releases everything that was opened.
func buildService(cfg config.Config, log zerolog.Logger) (*diagram.Service, func(), error) {
	gen, err := buildGenerator(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	renderer, err := buildRenderer(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	var store session.Store
	switch strings.ToLower(cfg.SessionStore) {
	case "redis":
		rs, err := session.NewRedisStore(cfg.RedisURL, cfg.SessionTTL.Duration)
		if err != nil {
			return nil, nil, err
		}
		store = rs
	default:
		store = session.NewMemoryStore(cfg.SessionTTL.Duration)
	}

	var pub events.Publisher = events.Noop{}
	var natsPub *events.NatsPublisher
	if cfg.NatsURL != "" {
		natsPub, err = events.NewNatsPublisher(cfg.NatsURL, cfg.NatsSubject, log.With().Str("component", "events").Logger())
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect nats: %w", err)
		}
		pub = natsPub
	}

	svc, err := diagram.New(diagram.Config{
		Generator: gen,
		Store:     store,
		Renderer:  renderer,
		Events:    pub,
		WorkDir:   cfg.WorkDir,
		Logger:    log.With().Str("component", "diagram").Logger(),
	})
	if err != nil {
		_ = store.Close()
		natsPub.Close()
		return nil, nil, err
	}
	return svc, func() {
		_ = svc.Close()
		natsPub.Close()
	}, nil
}

func buildGenerator(cfg config.Config, log zerolog.Logger) (*generator.Generator, error) {
	adapter, err := buildAdapter(cfg)
	if err != nil {
		return nil, err
	}
	adapter = generator.NewLimitedAdapter(generator.NewLimiter(cfg.RateLimit), adapter)
	return generator.New(generator.Config{
		Adapter:     adapter,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.GenerateTimeout.Duration,
		Logger:      log.With().Str("component", "generator").Logger(),
	}), nil
}

func buildAdapter(cfg config.Config) (generator.Adapter, error) {
	switch strings.ToLower(cfg.Backend) {
	case "openai":
		return generator.NewOpenAIAdapter(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, &http.Client{Timeout: 10 * time.Minute}), nil
	case "replicate":
		return generator.NewReplicateAdapter(cfg.ReplicateToken, cfg.ReplicateURL)
	case "llama":
		reg := registry.New(cfg.ModelsDir)
		resolve := func(model string) (string, error) {
			mf, err := reg.Resolve(model)
			return mf.Path, err
		}
		return generator.NewLlamaAdapter(resolve, cfg.LlamaCtx, cfg.LlamaThreads, cfg.LlamaGPULayers), nil
	case "none":
		return generator.NewUnavailableAdapter("model backend disabled"), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func buildRenderer(cfg config.Config, log zerolog.Logger) (render.Renderer, error) {
	return render.New(render.Options{
		Kind:    cfg.Renderer,
		URL:     cfg.RenderURL,
		WorkDir: cfg.WorkDir,
		Client:  renderClient(cfg.RenderTimeout.Duration),
		Logger:  log.With().Str("component", "render").Logger(),
	})
}

// renderClient leaves the request context in charge of the render timeout;
// the client limit only catches a hung server.
func renderClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return &http.Client{}
	}
	return &http.Client{Timeout: timeout + 5*time.Second}
}
