package generator

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

type limitedAdapter struct {
	limiter *rate.Limiter
	adapter Adapter
}

// NewLimitedAdapter throttles sessions of a through l. A nil limiter returns
// a unchanged.
func NewLimitedAdapter(l *rate.Limiter, a Adapter) Adapter {
	if l == nil {
		return a
	}
	return &limitedAdapter{limiter: l, adapter: a}
}

// NewLimiter builds a token bucket allowing perSecond generations with an
// equal burst. Non-positive values disable limiting.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (a *limitedAdapter) Name() string { return a.adapter.Name() }

func (a *limitedAdapter) Start(model string, params Params) (Session, error) {
	return &limitedSession{limiter: a.limiter, start: func() (Session, error) { return a.adapter.Start(model, params) }}, nil
}

// limitedSession defers the inner Start until a token is available so a
// queued request never holds a loaded model.
type limitedSession struct {
	limiter *rate.Limiter
	start   func() (Session, error)
	inner   Session
}

func (s *limitedSession) Generate(ctx context.Context, prompt string) (FinalResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return FinalResult{}, fmt.Errorf("rate limit: %w", err)
	}
	inner, err := s.start()
	if err != nil {
		return FinalResult{}, err
	}
	s.inner = inner
	return inner.Generate(ctx, prompt)
}

func (s *limitedSession) Close() error {
	if s.inner == nil {
		return nil
	}
	return s.inner.Close()
}
