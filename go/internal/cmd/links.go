package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/bday2025/tournament/go/clients"
	"github.com/bday2025/tournament/go/internal/models"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

const qrSize = 256

func newLinksCmd(opts *rootOptions) *cobra.Command {
	var (
		qrDir      string
		allSources bool
	)

	cmd := &cobra.Command{
		Use:   "links",
		Short: "Print every team's player link, optionally as QR codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services := setupServices(opts.cfg)
			defer services.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			teams, err := services.Client.GetAllTeams(ctx)
			if err != nil {
				return fmt.Errorf("failed to get teams: %w", err)
			}
			sort.SliceStable(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })

			sources := []clients.BackendSourceConfig{opts.cfg.BackendSource()}
			if allSources {
				sources = sources[:0]
				for _, src := range clients.GetActiveBackendSources() {
					sources = append(sources, src)
				}
				sort.Slice(sources, func(i, j int) bool { return sources[i].Priority > sources[j].Priority })
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range teams {
				for _, src := range sources {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, src.Name, src.PlayerLink(t.Identifier))
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if qrDir == "" {
				return nil
			}
			paths, err := writeQRCodes(qrDir, teams, sources)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d QR codes to %s\n", len(paths), qrDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&qrDir, "qr-dir", "", "write a PNG QR code per link into this directory")
	cmd.Flags().BoolVar(&allSources, "all-sources", false, "print links for every active backend source")
	return cmd
}

func writeQRCodes(dir string, teams []models.Team, sources []clients.BackendSourceConfig) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var paths []string
	for _, t := range teams {
		for _, src := range sources {
			path := filepath.Join(dir, fmt.Sprintf("team-%d-%s.png", t.ID, src.Source))
			if err := qrcode.WriteFile(src.PlayerLink(t.Identifier), qrcode.Medium, qrSize, path); err != nil {
				return paths, fmt.Errorf("failed to write QR code for %s: %w", t.Name, err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}
