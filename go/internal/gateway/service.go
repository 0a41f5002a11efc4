package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Service relays the round store to WebSocket clients and serves it over HTTP
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	store             *roundinfo.Store
	config            Config
}

// Config holds configuration for the gateway service
type Config struct {
	Addr             string           `yaml:"addr"`
	Topic            string           `yaml:"topic"`
	AllowedOrigins   []string         `yaml:"allowed_origins"`
	ConnectionConfig ConnectionConfig `yaml:"websocket"`
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		Addr:             ":8081",
		Topic:            DefaultTopic,
		AllowedOrigins:   []string{"*"},
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// NewService creates a new gateway service
func NewService(config Config, store *roundinfo.Store) *Service {
	if config.Topic == "" {
		config.Topic = DefaultTopic
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"*"}
	}

	connectionManager := NewConnectionManager(config.ConnectionConfig)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager, store),
		stateHandler:      NewStateHandler(store),
		store:             store,
		config:            config,
	}
}

// Start relays store updates until ctx is done
func (s *Service) Start(ctx context.Context) error {
	log.Info().Str("topic", s.config.Topic).Msg("starting round gateway")

	updates, unsubscribe := s.store.Subscribe(16)
	defer unsubscribe()

	go s.connectionManager.Start(ctx)

	var lastSeq uint64
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("round gateway shutting down")
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			// acknowledgements change nothing clients can see
			if !u.Transition && u.State.Seq == lastSeq {
				continue
			}
			lastSeq = u.State.Seq

			event, err := EventFromUpdate(s.config.Topic, u)
			if err != nil {
				log.Error().Err(err).Msg("failed to build round event")
				continue
			}
			if event != nil {
				s.connectionManager.Broadcast(event)
			}
		}
	}
}

// Router returns the gateway routes, including /health
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	s.wsHandler.RegisterRoutes(r)
	s.stateHandler.RegisterStateRoutes(r)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
	log.Debug().Msg("round gateway routes registered")
	return r
}

// Handler wraps the router with CORS and HTTP/2 cleartext support
func (s *Service) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodOptions,
		},
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return h2c.NewHandler(c.Handler(s.Router()), &http2.Server{})
}

// NewServer returns an http.Server listening on the configured address
func (s *Service) NewServer() *http.Server {
	return &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
