package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// msgPublisher is the part of *nats.Conn the publisher needs
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSPublisher publishes domain events as JSON envelopes on
// <prefix>.<event type> subjects
type NATSPublisher struct {
	conn   *nats.Conn
	pub    msgPublisher
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher connects to the configured server
func NewNATSPublisher(cfg config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	if cfg.URL == "" {
		return nil, errors.New("nats url is required")
	}
	wait := cfg.ConnectWait
	if wait <= 0 {
		wait = 5 * time.Second
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(wait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSPublisher{
		conn:   conn,
		pub:    conn,
		prefix: cfg.SubjectPrefix,
		logger: logger,
	}, nil
}

// Publish sends every event. The first failure stops the batch.
func (p *NATSPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		env, err := NewEnvelope(e)
		if err != nil {
			return err
		}
		data, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("failed to marshal envelope: %w", err)
		}

		msg := nats.NewMsg(Subject(p.prefix, e.EventType()))
		msg.Data = data
		// JetStream streams dedupe on this header
		msg.Header.Set(nats.MsgIdHdr, e.EventID().String())
		if err := p.pub.PublishMsg(msg); err != nil {
			return fmt.Errorf("failed to publish %s: %w", e.EventType(), err)
		}
		p.logger.Debug("Event published",
			zap.String("subject", msg.Subject),
			zap.String("event_id", e.EventID().String()))
	}
	return nil
}

// Ping reports whether the connection is up
func (p *NATSPublisher) Ping(_ context.Context) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return errors.New("nats not connected")
	}
	return nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

var _ shared.EventPublisher = (*NATSPublisher)(nil)
