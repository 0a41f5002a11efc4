package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bday2025/tournament/go/internal/views"
	"github.com/go-andiamo/splitter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const playHelp = `Commands:
  show                    print the current page
  page <name>             track, bet, joust, bonus, dashboard or results
  refresh                 poll the round now
  bet <team>              bet on a team
  mark <winner>           report who won your joust
  bonus <type> [target]   use your bonus
  quit                    leave
`

func newPlayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Interactive session that follows the round as it happens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePlayer(opts); err != nil {
				return err
			}
			services := setupServices(opts.cfg)
			defer services.Close()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runPlay(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), services, opts.cfg.Player.Identifier)
		},
	}
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer, s *Services, identifier string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// team names may contain spaces, so quoted arguments stay together
	argSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return fmt.Errorf("failed to create splitter: %w", err)
	}

	go func() {
		if err := s.Navigator.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("navigator stopped")
		}
	}()
	s.Poller.Start(ctx)

	if err := s.Navigator.Navigate(ctx, views.PageTrack); err != nil {
		return err
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprint(out, playHelp)
	for {
		fmt.Fprint(out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := handlePlayLine(ctx, out, s, identifier, argSplitter, line)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

func handlePlayLine(ctx context.Context, out io.Writer, s *Services, identifier string, sp splitter.Splitter, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	parts, err := sp.Split(line)
	if err != nil {
		return false, fmt.Errorf("could not parse %q: %w", line, err)
	}
	args := parts[:0]
	for _, p := range parts {
		if p = strings.Trim(strings.TrimSpace(p), `"“”`); p != "" {
			args = append(args, p)
		}
	}
	if len(args) == 0 {
		return false, nil
	}

	switch command, args := strings.ToLower(args[0]), args[1:]; command {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(out, playHelp)
	case "show":
		renderPage(out, s)
	case "page":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: page <name>")
		}
		if err := s.Navigator.Navigate(ctx, views.PageName(strings.ToLower(args[0]))); err != nil {
			return false, err
		}
		renderPage(out, s)
	case "refresh":
		if !s.Poller.Refresh() {
			fmt.Fprintln(out, "Slow down, refreshing too often.")
		}
	case "bet":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: bet <team>")
		}
		return false, placeBet(ctx, out, s, args[0])
	case "mark":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: mark <winner>")
		}
		return false, markGame(ctx, out, s, identifier, args[0])
	case "bonus":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("usage: bonus <type> [target]")
		}
		target := ""
		if len(args) == 2 {
			target = args[1]
		}
		return false, useBonus(ctx, out, s, args[0], target)
	default:
		return false, fmt.Errorf("unknown command %q, try help", command)
	}
	return false, nil
}
