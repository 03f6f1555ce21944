package events

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisher(t *testing.T) {
	p := NewMemoryPublisher()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Publish(Event{Name: Generated})
		}()
	}
	wg.Wait()
	p.Publish(Event{Name: Rendered, SessionID: "s"})
	require.Len(t, p.Events(), 9)
	names := p.Names()
	require.Equal(t, Rendered, names[len(names)-1])

	// Events returns a copy.
	evs := p.Events()
	evs[0].Name = "mutated"
	require.Equal(t, Generated, p.Events()[0].Name)
}

func TestNoop(t *testing.T) {
	require.NotPanics(t, func() { Noop{}.Publish(Event{Name: Generated}) })
}

func TestSubject(t *testing.T) {
	require.Equal(t, "diagramd.diagram.generated", Subject("", Generated))
	require.Equal(t, "acme.diagram.rendered", Subject(" .acme. ", Rendered))
}

func TestNatsPublisher_NilSafe(t *testing.T) {
	var p *NatsPublisher
	require.ErrorIs(t, p.publish(Event{Name: Generated}), errNilConn)
	require.NotPanics(t, func() { p.Publish(Event{Name: Generated}) })
	require.NotPanics(t, p.Close)
}

func TestNewNatsPublisher_Unreachable(t *testing.T) {
	_, err := NewNatsPublisher("nats://127.0.0.1:1", "", zerologDiscard())
	require.Error(t, err)
}

func zerologDiscard() zerolog.Logger { return zerolog.Nop() }
