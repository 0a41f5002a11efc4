package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for round updates
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	stateProvider     StateProvider
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, provider StateProvider) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		stateProvider:     provider,
	}
}

// HandleRoundConnection upgrades the request and sends the current round right away
func (h *WebSocketHandler) HandleRoundConnection(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = DefaultTopic
	}

	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		playerID = "anonymous"
	}

	conn, err := h.connectionManager.UpgradeConnection(w, r, playerID, topic)
	if err != nil {
		// the upgrader has already replied to the client
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("player_id", playerID).
			Msg("failed to upgrade WebSocket connection")
		return
	}

	snapshot, err := SnapshotEvent(topic, h.stateProvider.State())
	if err != nil {
		log.Error().Err(err).Msg("failed to build round snapshot")
		return
	}
	if !h.connectionManager.SendTo(conn, snapshot) {
		log.Warn().Str("connection_id", conn.ID).Msg("could not queue round snapshot")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/round", h.HandleRoundConnection)
	r.Get("/ws/stats", h.HandleConnectionStats)
}
