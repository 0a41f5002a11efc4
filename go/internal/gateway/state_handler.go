package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// StateProvider exposes the round state held by the poller's store
type StateProvider interface {
	State() roundinfo.State
}

// RoundStateResponse is the JSON body of GET /api/round
type RoundStateResponse struct {
	Round      *models.Round `json:"round"`
	Loading    bool          `json:"loading"`
	Changed    bool          `json:"changed"`
	Generation uint64        `json:"generation"`
	UpdatedAt  *time.Time    `json:"updated_at,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// NewRoundStateResponse converts a store snapshot for clients
func NewRoundStateResponse(state roundinfo.State) RoundStateResponse {
	resp := RoundStateResponse{
		Round:      state.Round,
		Loading:    state.Loading,
		Changed:    state.Changed,
		Generation: state.Generation,
		Error:      state.ErrorMessage(),
	}
	if !state.UpdatedAt.IsZero() {
		updatedAt := state.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// StateHandler handles HTTP requests for round state
type StateHandler struct {
	stateProvider StateProvider
}

// NewStateHandler creates a new state handler
func NewStateHandler(provider StateProvider) *StateHandler {
	return &StateHandler{
		stateProvider: provider,
	}
}

// HandleGetRound handles GET /api/round
func (h *StateHandler) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	resp := NewRoundStateResponse(h.stateProvider.State())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode round state response")
	}
}

// RegisterStateRoutes registers state-related HTTP routes
func (h *StateHandler) RegisterStateRoutes(r chi.Router) {
	r.Get("/api/round", h.HandleGetRound)
}
