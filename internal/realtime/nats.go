package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const progressMessageType = "run.progress"

// NATSBridge subscribes to NATS subjects and pushes messages into the Hub.
type NATSBridge struct {
	conn     *nats.Conn
	hub      *Hub
	tenantID string
	logger   zerolog.Logger
}

func NewNATSBridge(natsURL, tenantID string, hub *Hub, logger zerolog.Logger) (*NATSBridge, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSBridge{conn: nc, hub: hub, tenantID: tenantID, logger: logger}, nil
}

// Subscribe listens for progress messages on tenant.<tenantID>.run.*.progress
func (b *NATSBridge) Subscribe() error {
	subject := progressWildcard(b.tenantID)
	_, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		b.forward(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %q: %w", subject, err)
	}

	b.logger.Info().Str("subject", subject).Msg("NATS bridge subscribed")
	return nil
}

func (b *NATSBridge) forward(subject string, data []byte) {
	msg, err := wrapProgress(subject, data)
	if err != nil {
		b.logger.Warn().Err(err).Str("subject", subject).Msg("dropping progress message")
		return
	}
	b.hub.broadcast <- msg
}

// wrapProgress builds the websocket envelope for a raw progress payload.
func wrapProgress(subject string, data []byte) (broadcastMsg, error) {
	runID, err := parseRunIDFromSubject(subject)
	if err != nil {
		return broadcastMsg{}, fmt.Errorf("bad subject: %w", err)
	}
	if !json.Valid(data) {
		return broadcastMsg{}, fmt.Errorf("payload is not JSON")
	}

	envelope, err := json.Marshal(outgoingMsg{
		Type:    progressMessageType,
		RunID:   runID,
		Payload: json.RawMessage(data),
	})
	if err != nil {
		return broadcastMsg{}, fmt.Errorf("marshal envelope: %w", err)
	}
	return broadcastMsg{runID: runID, payload: envelope}, nil
}

// Close drains the NATS connection.
func (b *NATSBridge) Close() {
	if err := b.conn.Drain(); err != nil {
		b.logger.Warn().Err(err).Msg("nats drain")
	}
}
