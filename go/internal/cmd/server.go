package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bday2025/tournament/go/internal/gateway"
	"github.com/bday2025/tournament/go/internal/notify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the backend and relay round updates over WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Gateway.Addr = addr
			}
			return runServer(cmd.Context(), cfg.Gateway, setupServices(cfg))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env: TOURNAMENT_GATEWAY_ADDR)")
	return cmd
}

func runServer(parent context.Context, cfg gateway.Config, services *Services) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer services.Close()

	gw := gateway.NewService(cfg, services.Store)
	server := gw.NewServer()

	updates, unsubscribe := services.Store.Subscribe(8)
	defer unsubscribe()
	go notify.Run(ctx, updates, services.Notifiers...)

	go func() {
		if err := gw.Start(ctx); err != nil {
			log.Error().Err(err).Msg("round gateway failed")
		}
	}()

	services.Poller.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("backend", services.Client.BaseURL()).
			Msg("round gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down round gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
