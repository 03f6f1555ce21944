package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewLimiter(t *testing.T) {
	require.Nil(t, NewLimiter(0))
	require.Nil(t, NewLimiter(-1))
	l := NewLimiter(0.5)
	require.NotNil(t, l)
	require.Equal(t, 1, l.Burst())
	require.Equal(t, 3, NewLimiter(3).Burst())
}

func TestNewLimitedAdapter_NilLimiterPassesThrough(t *testing.T) {
	fa := &fakeAdapter{}
	require.Same(t, Adapter(fa), NewLimitedAdapter(nil, fa))
}

func TestLimitedAdapter_DefersStartUntilToken(t *testing.T) {
	fa := &fakeAdapter{out: "@startuml\n@enduml"}
	a := NewLimitedAdapter(rate.NewLimiter(rate.Every(time.Hour), 1), fa)
	require.Equal(t, "fake", a.Name())

	// First call consumes the burst.
	g := New(Config{Adapter: a})
	res := g.Generate(context.Background(), "x")
	require.Equal(t, SourceModel, res.Source)

	// Second call cannot get a token before its deadline and never loads the model.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res = g.Generate(ctx, "y")
	require.True(t, res.Fallback())
	require.Contains(t, res.Cause.Error(), "rate limit")
	require.EqualValues(t, 1, fa.starts.Load())
}
