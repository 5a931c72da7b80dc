package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingConn struct {
	msgs []*nats.Msg
	err  error
}

func (r *recordingConn) PublishMsg(m *nats.Msg) error {
	if r.err != nil {
		return r.err
	}
	r.msgs = append(r.msgs, m)
	return nil
}

func newPartnerEvent(t *testing.T) *partner.PartnerRegisteredEvent {
	t.Helper()
	p, err := partner.NewPartner("Bloom & Co", "bloom-co", partner.BusinessTypeFlorist, "hello@bloom.co")
	require.NoError(t, err)
	return partner.NewPartnerRegisteredEvent(p)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "atelier.events.partner.registered", Subject("atelier.events", "partner.registered"))
	assert.Equal(t, "partner.registered", Subject("", "partner.registered"))
}

func TestNewEnvelope(t *testing.T) {
	e := newPartnerEvent(t)

	env, err := NewEnvelope(e)
	require.NoError(t, err)
	assert.Equal(t, e.EventID(), env.ID)
	assert.Equal(t, partner.EventTypePartnerRegistered, env.Type)
	require.NotNil(t, env.PartnerID)
	assert.Equal(t, e.PartnerID(), *env.PartnerID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "bloom-co", payload["slug"])
}

func TestNATSPublisher_Publish(t *testing.T) {
	conn := &recordingConn{}
	p := &NATSPublisher{pub: conn, prefix: "atelier.events", logger: zap.NewNop()}
	e := newPartnerEvent(t)

	require.NoError(t, p.Publish(context.Background(), e))
	require.Len(t, conn.msgs, 1)

	msg := conn.msgs[0]
	assert.Equal(t, "atelier.events.partner.registered", msg.Subject)
	assert.Equal(t, e.EventID().String(), msg.Header.Get(nats.MsgIdHdr))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Data, &env))
	assert.Equal(t, e.AggregateID(), env.AggregateID)
}

func TestNATSPublisher_PublishError(t *testing.T) {
	conn := &recordingConn{err: errors.New("connection closed")}
	p := &NATSPublisher{pub: conn, logger: zap.NewNop()}

	err := p.Publish(context.Background(), newPartnerEvent(t))
	assert.ErrorContains(t, err, "connection closed")
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	conn := &recordingConn{}
	p := &NATSPublisher{pub: conn, logger: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Publish(ctx, newPartnerEvent(t)), context.Canceled)
	assert.Empty(t, conn.msgs)
}

func TestNewNATSPublisher_RequiresURL(t *testing.T) {
	_, err := NewNATSPublisher(config.NATSConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestNATSPublisher_PingWithoutConnection(t *testing.T) {
	p := &NATSPublisher{logger: zap.NewNop()}
	assert.Error(t, p.Ping(context.Background()))
	assert.NoError(t, p.Close())
}

func TestLogPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := NewLogPublisher(zap.New(core))

	require.NoError(t, p.Publish(context.Background(), newPartnerEvent(t), newPartnerEvent(t)))
	assert.Equal(t, 2, logs.FilterMessage("Domain event").Len())
}
