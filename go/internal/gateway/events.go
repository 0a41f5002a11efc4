package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/google/uuid"
)

// RoundEvent is the envelope sent to every WebSocket client
type RoundEvent struct {
	ID        string          `json:"id"`        // Event UUID
	Topic     string          `json:"topic"`     // Connection pool the event targets
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of round event
type EventType string

const (
	EventTypeRoundSnapshot EventType = "RoundSnapshot"
	EventTypeRoundUpdated  EventType = "RoundUpdated"
	EventTypeRoundChanged  EventType = "RoundChanged"
	EventTypeRoundError    EventType = "RoundError"
)

// RoundPayload carries the round after a successful poll
type RoundPayload struct {
	Round      *models.Round `json:"round"`
	Previous   *models.Round `json:"previous,omitempty"`
	Generation uint64        `json:"generation"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// RoundErrorPayload is sent when a poll failed; the last known round is kept
type RoundErrorPayload struct {
	Message string        `json:"message"`
	Error   string        `json:"error"`
	Round   *models.Round `json:"round,omitempty"`
}

// NewRoundEvent marshals payload into a new event
func NewRoundEvent(topic string, eventType EventType, payload any) (*RoundEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &RoundEvent{
		ID:        uuid.New().String(),
		Topic:     topic,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// EventFromUpdate maps a store update to the event clients should see.
// Updates that carry nothing new for clients return nil.
func EventFromUpdate(topic string, u roundinfo.Update) (*RoundEvent, error) {
	state := u.State
	switch {
	case u.Transition:
		return NewRoundEvent(topic, EventTypeRoundChanged, RoundPayload{
			Round:      state.Round,
			Previous:   u.Previous,
			Generation: state.Generation,
			UpdatedAt:  state.UpdatedAt,
		})
	case state.Err != nil:
		return NewRoundEvent(topic, EventTypeRoundError, RoundErrorPayload{
			Message: state.ErrorMessage(),
			Error:   state.Err.Error(),
			Round:   state.Round,
		})
	case state.Round != nil && !state.Loading:
		return NewRoundEvent(topic, EventTypeRoundUpdated, RoundPayload{
			Round:      state.Round,
			Generation: state.Generation,
			UpdatedAt:  state.UpdatedAt,
		})
	}
	return nil, nil
}

// SnapshotEvent describes the current state for a client that just connected
func SnapshotEvent(topic string, state roundinfo.State) (*RoundEvent, error) {
	return NewRoundEvent(topic, EventTypeRoundSnapshot, RoundPayload{
		Round:      state.Round,
		Generation: state.Generation,
		UpdatedAt:  state.UpdatedAt,
	})
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *RoundEvent) (any, error) {
	switch event.Type {
	case EventTypeRoundSnapshot, EventTypeRoundUpdated, EventTypeRoundChanged:
		var payload RoundPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	case EventTypeRoundError:
		var payload RoundErrorPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil

	default:
		return nil, nil // Unknown event type
	}
}
