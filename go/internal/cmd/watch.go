package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/bday2025/tournament/go/internal/notify"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll the round and announce every stage change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			cfg.Notify.Log = true
			services := setupServices(cfg)
			defer services.Close()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			updates, unsubscribe := services.Store.Subscribe(8)
			defer unsubscribe()

			services.Poller.Start(ctx)
			notify.Run(ctx, updates, services.Notifiers...)
			return nil
		},
	}
}
