package events

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const defaultSubjectPrefix = "diagramd"

var errNilConn = errors.New("nats publisher not initialized")

// NatsPublisher publishes events as JSON on <prefix>.<event name>.
type NatsPublisher struct {
	nc     *nats.Conn
	prefix string
	log    zerolog.Logger
}

// NewNatsPublisher dials NATS at url.
func NewNatsPublisher(url, prefix string, log zerolog.Logger) (*NatsPublisher, error) {
	opts := []nats.Option{
		nats.Name("diagramd-events"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected to NATS")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info().Msg("NATS connection closed")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{nc: nc, prefix: normalizePrefix(prefix), log: log}, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return defaultSubjectPrefix
	}
	return prefix
}

// Subject returns the subject an event name is published on.
func Subject(prefix, name string) string {
	return normalizePrefix(prefix) + "." + name
}

// Publish drops the event with a log line when the connection is unusable.
func (p *NatsPublisher) Publish(e Event) {
	if err := p.publish(e); err != nil && p != nil {
		p.log.Warn().Err(err).Str("event", e.Name).Msg("publish event")
	}
}

func (p *NatsPublisher) publish(e Event) error {
	if p == nil || p.nc == nil {
		return errNilConn
	}
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.nc.Publish(Subject(p.prefix, e.Name), data)
}

// Close drains the connection.
func (p *NatsPublisher) Close() {
	if p != nil && p.nc != nil {
		_ = p.nc.Drain()
	}
}
