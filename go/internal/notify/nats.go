package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	natsMaxReconnects = 10
	natsReconnectWait = 2 * time.Second
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the message body published for each transition.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type transitionPayload struct {
	RoundID       int    `json:"round_id"`
	Number        int    `json:"number"`
	Stage         string `json:"stage"`
	PreviousStage string `json:"previous_stage,omitempty"`
	Generation    uint64 `json:"generation"`
	Message       string `json:"message"`
}

// NATSNotifier publishes transitions on <prefix>.round.<stage>.
type NATSNotifier struct {
	publisher Publisher
	prefix    string
}

func NewNATSNotifier(publisher Publisher, prefix string) *NATSNotifier {
	if prefix == "" {
		prefix = "tournament"
	}
	return &NATSNotifier{publisher: publisher, prefix: prefix}
}

// ConnectNATS dials natsURL with reconnect logging.
func ConnectNATS(natsURL string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("tournament-notify"),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}

func (n *NATSNotifier) Name() string { return "nats" }

// Subject returns the subject a transition to stage is published on.
func (n *NATSNotifier) Subject(stage string) string {
	return fmt.Sprintf("%s.round.%s", n.prefix, stage)
}

func (n *NATSNotifier) Notify(ctx context.Context, t Transition) error {
	payload := transitionPayload{
		RoundID:    t.Round.RoundID,
		Number:     t.Round.Number,
		Stage:      string(t.Round.Stage),
		Generation: t.Generation,
		Message:    Message(t),
	}
	if t.Previous != nil {
		payload.PreviousStage = string(t.Previous.Stage)
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	timestamp := t.At
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	messageBytes, err := json.Marshal(Envelope{
		EventID:   uuid.New().String(),
		EventType: "RoundChanged",
		Timestamp: timestamp.UTC(),
		Payload:   payloadBytes,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := n.Subject(string(t.Round.Stage))
	if err := n.publisher.Publish(subject, messageBytes); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Int("size", len(messageBytes)).
		Msg("published round transition")
	return nil
}
