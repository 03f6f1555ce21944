package generator

import (
	"context"
	"errors"
	"sync/atomic"
)

// fakeAdapter is a lightweight in-memory adapter used for tests.
type fakeAdapter struct {
	out      string
	startErr error
	genErr   error
	panicMsg string
	block    bool

	starts atomic.Int32
	closes atomic.Int32
	last   atomic.Value // prompt string
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) Start(model string, params Params) (Session, error) {
	f.starts.Add(1)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &fakeSession{a: f}, nil
}

type fakeSession struct{ a *fakeAdapter }

func (s *fakeSession) Generate(ctx context.Context, prompt string) (FinalResult, error) {
	s.a.last.Store(prompt)
	if s.a.panicMsg != "" {
		panic(s.a.panicMsg)
	}
	if s.a.block {
		<-ctx.Done()
		return FinalResult{}, ctx.Err()
	}
	if s.a.genErr != nil {
		return FinalResult{}, s.a.genErr
	}
	return FinalResult{Content: s.a.out, FinishReason: "stop"}, nil
}

func (s *fakeSession) Close() error {
	s.a.closes.Add(1)
	return nil
}

var errBoom = errors.New("CUDA not available")
