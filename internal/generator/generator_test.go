package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"diagramd/internal/markup"
)

func TestGenerate_ModelOutputIsCleaned(t *testing.T) {
	tmpl := markup.Template("draw a login")
	fa := &fakeAdapter{out: "<s> " + tmpl + " @startuml\nUser -> App: login\n@enduml</s>"}
	g := New(Config{Adapter: fa})

	res := g.Generate(context.Background(), "draw a login")
	require.Equal(t, SourceModel, res.Source)
	require.False(t, res.Fallback())
	require.NoError(t, res.Cause)
	require.Equal(t, "@startuml\nUser -> App: login\n@enduml", res.Text)
	require.Equal(t, DefaultModel, res.Model)
	require.Equal(t, tmpl, fa.last.Load())
	require.EqualValues(t, 1, fa.starts.Load())
	require.EqualValues(t, 1, fa.closes.Load())
}

func TestGenerate_StartFailureFallsBack(t *testing.T) {
	g := New(Config{Adapter: &fakeAdapter{startErr: ErrDependencyUnavailable("no GPU")}})
	res := g.Generate(context.Background(), "anything")
	require.True(t, res.Fallback())
	require.Equal(t, markup.Fallback, res.Text)
	require.True(t, IsDependencyUnavailable(res.Cause))
}

func TestGenerate_GenerateFailureFallsBack(t *testing.T) {
	fa := &fakeAdapter{genErr: errBoom}
	res := New(Config{Adapter: fa}).Generate(context.Background(), "")
	require.Equal(t, markup.Fallback, res.Text)
	require.ErrorIs(t, res.Cause, errBoom)
	require.EqualValues(t, 1, fa.closes.Load())
}

func TestGenerate_EmptyOutputFallsBack(t *testing.T) {
	res := New(Config{Adapter: &fakeAdapter{out: "<s>  </s>"}}).Generate(context.Background(), "x")
	require.True(t, res.Fallback())
	require.ErrorIs(t, res.Cause, ErrEmptyOutput)
}

func TestGenerate_PanicFallsBack(t *testing.T) {
	res := New(Config{Adapter: &fakeAdapter{panicMsg: "segfault in kernel"}}).Generate(context.Background(), "x")
	require.True(t, res.Fallback())
	require.Contains(t, res.Cause.Error(), "segfault in kernel")
}

func TestGenerate_TimeoutFallsBack(t *testing.T) {
	g := New(Config{Adapter: &fakeAdapter{block: true}, Timeout: 20 * time.Millisecond})
	res := g.Generate(context.Background(), "x")
	require.True(t, res.Fallback())
	require.ErrorIs(t, res.Cause, context.DeadlineExceeded)
	require.Equal(t, "timeout", Kind(res.Cause))
}

func TestGenerate_NilAdapterIsDemoMode(t *testing.T) {
	g := New(Config{})
	require.Equal(t, "none", g.Backend())
	res := g.Generate(context.Background(), "x")
	require.Equal(t, markup.Fallback, res.Text)
	require.Equal(t, "dependency_unavailable", Kind(res.Cause))
}

func TestGenerate_CountsFallbacks(t *testing.T) {
	before := testutil.ToFloat64(generateResultsTotal.WithLabelValues("none", "fallback"))
	New(Config{}).Generate(context.Background(), "x")
	after := testutil.ToFloat64(generateResultsTotal.WithLabelValues("none", "fallback"))
	require.GreaterOrEqual(t, after, before+1)
}

func TestKind(t *testing.T) {
	require.Equal(t, "", Kind(nil))
	require.Equal(t, "upstream", Kind(&UpstreamError{Backend: "openai", Status: 503, Err: errBoom}))
	require.Equal(t, "empty_output", Kind(ErrEmptyOutput))
	require.Equal(t, "timeout", Kind(context.Canceled))
	require.Equal(t, "error", Kind(errors.New("x")))
}

func TestUpstreamError(t *testing.T) {
	err := &UpstreamError{Backend: "openai", Status: 502, Err: errBoom}
	require.Equal(t, 502, err.StatusCode())
	require.ErrorIs(t, err, errBoom)
	require.Contains(t, err.Error(), "upstream status 502")
}

func TestLlamaStubWithoutTag(t *testing.T) {
	if LlamaBuilt() {
		t.Skip("built with llama support")
	}
	a := NewLlamaAdapter(nil, 0, 0, 0)
	_, err := a.Start(DefaultModel, Params{})
	require.True(t, IsDependencyUnavailable(err))
}
