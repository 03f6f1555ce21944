package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"diagramd/internal/markup"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultModel     = "jost/mistral7b_plantuml"
	DefaultMaxTokens = 500
)

// Config encapsulates all tunables for Generator construction.
type Config struct {
	Adapter     Adapter
	Model       string
	MaxTokens   int
	Temperature float32
	// Timeout bounds a single backend call; zero means no timeout.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Generator formats prompts, invokes the backend and falls back to the canned
// diagram on any failure.
type Generator struct {
	adapter     Adapter
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	log         zerolog.Logger
}

// New constructs a Generator from Config. A nil Adapter means demo mode.
func New(cfg Config) *Generator {
	g := &Generator{
		adapter:     cfg.Adapter,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		log:         cfg.Logger,
	}
	if g.adapter == nil {
		g.adapter = NewUnavailableAdapter("")
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	return g
}

// Backend returns the adapter name.
func (g *Generator) Backend() string { return g.adapter.Name() }

// Model returns the model name passed to the adapter.
func (g *Generator) Model() string { return g.model }

// Generate never fails: backend errors, empty output and panics all produce
// the fallback diagram with Cause set.
func (g *Generator) Generate(ctx context.Context, prompt string) Result {
	start := time.Now()
	tmpl := markup.Template(prompt)
	raw, err := g.invoke(ctx, tmpl)
	var text string
	if err == nil {
		text = markup.Postprocess(raw, tmpl)
		if strings.TrimSpace(text) == "" {
			err = ErrEmptyOutput
		}
	}
	res := Result{Model: g.model, Duration: time.Since(start)}
	if err != nil {
		g.log.Warn().Err(err).
			Str("backend", g.Backend()).
			Str("model", g.model).
			Str("kind", Kind(err)).
			Msg("generation failed, serving fallback diagram")
		res.Text = markup.Fallback
		res.Source = SourceFallback
		res.Cause = err
	} else {
		g.log.Debug().Str("backend", g.Backend()).Int("chars", len(text)).Dur("dur", res.Duration).Msg("generation done")
		res.Text = text
		res.Source = SourceModel
	}
	observe(g.Backend(), res)
	return res
}

func (g *Generator) invoke(ctx context.Context, prompt string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s adapter panic: %v", g.Backend(), r)
		}
	}()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	sess, err := g.adapter.Start(g.model, Params{MaxTokens: g.maxTokens, Temperature: g.temperature})
	if err != nil {
		return "", err
	}
	defer func() { _ = sess.Close() }()
	final, err := sess.Generate(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
			return "", fmt.Errorf("%w: %v", ctx.Err(), err)
		}
		return "", err
	}
	return final.Content, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
