package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/bday2025/tournament/go/internal/betting"
	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/views"
	"github.com/spf13/cobra"
)

var errNoGameToMark = errors.New("no open game for your team this round")

// withRound runs fn once the current round is known.
func withRound(cmd *cobra.Command, opts *rootOptions, needsPlayer bool, fn func(ctx context.Context, s *Services) error) error {
	if needsPlayer {
		if err := requirePlayer(opts); err != nil {
			return err
		}
	}
	services := setupServices(opts.cfg)
	defer services.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := services.Poller.PollOnce(ctx); err != nil {
		return fmt.Errorf("failed to get round info: %w", err)
	}
	return fn(ctx, services)
}

func placeBet(ctx context.Context, w io.Writer, s *Services, query string) error {
	teams, err := s.Client.GetAllTeams(ctx)
	if err != nil {
		return fmt.Errorf("failed to get teams: %w", err)
	}
	team, err := findTeam(query, teams)
	if err != nil {
		return err
	}
	quote, quoted := betQuote(s, team.ID)
	if _, err := s.Submitter.PlaceBet(ctx, team.ID); err != nil {
		return err
	}
	if quoted {
		fmt.Fprintf(w, "Bet placed on %s at %g/%g.\n", team.Name, quote.Odds.Odd1, quote.Odds.Odd2)
		return nil
	}
	fmt.Fprintf(w, "Bet placed on %s.\n", team.Name)
	return nil
}

// betQuote reads the odds for teamID from the loaded bet page. Bet.Odds from
// the backend is a row reference, not a payout.
func betQuote(s *Services, teamID int) (betting.Row, bool) {
	if !s.Bet.Mounted() {
		return betting.Row{}, false
	}
	snap := s.Bet.Snapshot()
	if !snap.Loaded {
		return betting.Row{}, false
	}
	return snap.Data.Table.Row(teamID)
}

// markableGame finds the unfinished game the player's team plays this round.
func markableGame(ctx context.Context, s *Services, identifier string) (*models.Game, []models.Team, error) {
	round := s.Store.State().Round
	if round == nil {
		return nil, nil, errors.New("round info not loaded yet")
	}
	self, err := s.Client.GetTeamByIdentifier(ctx, identifier)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player team: %w", err)
	}
	games, err := s.Client.GetGamesForRound(ctx, round.RoundID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get games: %w", err)
	}
	teams, err := s.Client.GetAllTeams(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get teams: %w", err)
	}
	for i := range games {
		if games[i].Involves(self.ID) && !games[i].Finished {
			return &games[i], teams, nil
		}
	}
	return nil, nil, errNoGameToMark
}

func markGame(ctx context.Context, w io.Writer, s *Services, identifier, winnerQuery string) error {
	game, teams, err := markableGame(ctx, s, identifier)
	if err != nil {
		return err
	}
	var candidates []models.Team
	for _, t := range teams {
		if game.Involves(t.ID) {
			candidates = append(candidates, t)
		}
	}
	winner, err := findTeam(winnerQuery, candidates)
	if err != nil {
		return err
	}
	if _, err := s.Submitter.MarkGame(ctx, game.ID, winner.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Game %d marked: %s won.\n", game.ID, winner.Name)
	return nil
}

func useBonus(ctx context.Context, w io.Writer, s *Services, bonusType, target string) error {
	bt := models.BonusType(bonusType)
	if bt.NeedsTarget() && target != "" {
		teams, err := s.Client.GetAllTeams(ctx)
		if err != nil {
			return fmt.Errorf("failed to get teams: %w", err)
		}
		team, err := findTeam(target, teams)
		if err != nil {
			return err
		}
		target = strconv.Itoa(team.ID)
	}
	if _, err := s.Submitter.UseBonus(ctx, bt, target); err != nil {
		return err
	}
	fmt.Fprintf(w, "Bonus %s used.\n", bt)
	return nil
}

func newBetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bet <team>",
		Short: "Bet on a team during the betting stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRound(cmd, opts, true, func(ctx context.Context, s *Services) error {
				return placeBet(ctx, cmd.OutOrStdout(), s, args[0])
			})
		},
	}
}

func newMarkCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <winner>",
		Short: "Report who won your joust",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRound(cmd, opts, true, func(ctx context.Context, s *Services) error {
				return markGame(ctx, cmd.OutOrStdout(), s, opts.cfg.Player.Identifier, args[0])
			})
		},
	}
}

func newBonusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bonus <type> [target]",
		Short: "Use your bonus: move_ahead, extra_bet, opponent_back or double_win",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) == 2 {
				target = args[1]
			}
			return withRound(cmd, opts, true, func(ctx context.Context, s *Services) error {
				return useBonus(ctx, cmd.OutOrStdout(), s, args[0], target)
			})
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [page]",
		Short: "Print a page once: track, bet, joust, bonus, dashboard or results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRound(cmd, opts, false, func(ctx context.Context, s *Services) error {
				name := views.PageTrack
				if len(args) == 1 {
					name = views.PageName(args[0])
				} else if opts.cfg.Player.Identifier != "" {
					name = views.PageForStage(s.Store.State().Round.Stage)
				}
				if name != views.PageTrack && name != views.PageDashboard && name != views.PageResults {
					if err := requirePlayer(opts); err != nil {
						return err
					}
				}
				if err := s.Navigator.Navigate(ctx, name); err != nil {
					return err
				}
				renderPage(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}
