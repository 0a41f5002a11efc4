package views

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bday2025/tournament/go/clients"
	"github.com/bday2025/tournament/go/internal/betting"
	"github.com/bday2025/tournament/go/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// API is the subset of the tournament client the pages read from.
type API interface {
	GetAllTeams(ctx context.Context) ([]models.Team, error)
	GetTeamByIdentifier(ctx context.Context, identifier string) (*models.Team, error)
	GetBettingTable(ctx context.Context, identifier string, roundID int) (*models.BettingTable, error)
	GetOddsForRound(ctx context.Context, roundID int) ([]models.Odds, error)
	GetPlayerBets(ctx context.Context, teamID, roundID int) ([]models.Bet, error)
	GetNextOpponent(ctx context.Context, identifier string, roundID int) (*models.NextOpponent, error)
	GetGamesForRound(ctx context.Context, roundID int) ([]models.Game, error)
	GetBonusForTeam(ctx context.Context, teamID, roundID int) (*models.Bonus, error)
	GetTournamentResults(ctx context.Context) (*models.TournamentResults, error)
	GetTeamStageStatuses(ctx context.Context, roundID int) (models.TeamStageStatuses, error)
}

// TrackRow is one lane of the race track.
type TrackRow struct {
	Team     models.Team `json:"team"`
	Progress float64     `json:"progress"`
	Self     bool        `json:"self"`
}

type TrackData struct {
	Rows   []TrackRow   `json:"rows"`
	Leader *models.Team `json:"leader,omitempty"`
	Winner *models.Team `json:"winner,omitempty"`
}

// NewTrackPage shows every team ordered by distance.
func NewTrackPage(api API, identifier string) *View[TrackData] {
	return NewView(PageTrack, identifier, func(ctx context.Context, key Key, _ models.Round) (TrackData, error) {
		teams, err := api.GetAllTeams(ctx)
		if err != nil {
			return TrackData{}, err
		}
		sortByDistance(teams)

		data := TrackData{Rows: make([]TrackRow, 0, len(teams))}
		for i := range teams {
			t := teams[i]
			data.Rows = append(data.Rows, TrackRow{
				Team:     t,
				Progress: t.Progress(),
				Self:     key.Identifier != "" && t.Identifier == key.Identifier,
			})
			if t.HasWon() && data.Winner == nil {
				data.Winner = &t
			}
		}
		if len(teams) > 0 {
			data.Leader = &teams[0]
		}
		return data, nil
	})
}

type BetData struct {
	Self  models.Team   `json:"self"`
	Table betting.Table `json:"table"`
}

// NewBetPage loads the betting table, teams, odds and the player's bets in parallel.
func NewBetPage(api API, identifier string) *View[BetData] {
	return NewView(PageBet, identifier, func(ctx context.Context, key Key, round models.Round) (BetData, error) {
		self, err := api.GetTeamByIdentifier(ctx, key.Identifier)
		if err != nil {
			return BetData{}, fmt.Errorf("failed to get player team: %w", err)
		}

		var (
			server *models.BettingTable
			teams  []models.Team
			odds   []models.Odds
			bets   []models.Bet
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			table, err := api.GetBettingTable(gctx, key.Identifier, key.RoundID)
			if err != nil {
				// the page still works from teams and odds
				log.Warn().Err(err).Int("round_id", key.RoundID).Msg("betting table unavailable")
				return nil
			}
			server = table
			return nil
		})
		g.Go(func() error {
			var err error
			teams, err = api.GetAllTeams(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			odds, err = api.GetOddsForRound(gctx, key.RoundID)
			return err
		})
		g.Go(func() error {
			var err error
			bets, err = api.GetPlayerBets(gctx, self.ID, key.RoundID)
			return err
		})
		if err := g.Wait(); err != nil {
			return BetData{}, err
		}

		return BetData{
			Self: *self,
			Table: betting.Reconcile(betting.Input{
				Round:  round,
				Self:   *self,
				Teams:  teams,
				Odds:   odds,
				Bets:   bets,
				Server: server,
			}),
		}, nil
	})
}

type JoustData struct {
	Self     models.Team          `json:"self"`
	Next     *models.NextOpponent `json:"next,omitempty"`
	Games    []models.Game        `json:"games"`
	Markable *models.Game         `json:"markable,omitempty"`
	CanMark  bool                 `json:"can_mark"`
}

// NewJoustPage shows the player's opponent and the round's games.
func NewJoustPage(api API, identifier string) *View[JoustData] {
	return NewView(PageJoust, identifier, func(ctx context.Context, key Key, round models.Round) (JoustData, error) {
		self, err := api.GetTeamByIdentifier(ctx, key.Identifier)
		if err != nil {
			return JoustData{}, fmt.Errorf("failed to get player team: %w", err)
		}

		var data JoustData
		data.Self = *self
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			data.Next, err = api.GetNextOpponent(gctx, key.Identifier, key.RoundID)
			return err
		})
		g.Go(func() error {
			var err error
			data.Games, err = api.GetGamesForRound(gctx, key.RoundID)
			return err
		})
		if err := g.Wait(); err != nil {
			return JoustData{}, err
		}

		for i := range data.Games {
			game := data.Games[i]
			if game.Involves(self.ID) && !game.Finished {
				data.Markable = &game
				break
			}
		}
		data.CanMark = round.Stage == models.StageJoust && data.Markable != nil
		return data, nil
	})
}

type BonusData struct {
	Self    models.Team   `json:"self"`
	Bonus   *models.Bonus `json:"bonus,omitempty"`
	Targets []models.Team `json:"targets"`
	CanUse  bool          `json:"can_use"`
}

// NewBonusPage shows the player's bonus for the round and the teams it can target.
func NewBonusPage(api API, identifier string) *View[BonusData] {
	return NewView(PageBonus, identifier, func(ctx context.Context, key Key, round models.Round) (BonusData, error) {
		self, err := api.GetTeamByIdentifier(ctx, key.Identifier)
		if err != nil {
			return BonusData{}, fmt.Errorf("failed to get player team: %w", err)
		}

		var (
			bonus *models.Bonus
			teams []models.Team
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			bonus, err = api.GetBonusForTeam(gctx, self.ID, key.RoundID)
			return err
		})
		g.Go(func() error {
			var err error
			teams, err = api.GetAllTeams(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return BonusData{}, err
		}

		targets := make([]models.Team, 0, len(teams))
		for _, t := range teams {
			if t.ID != self.ID {
				targets = append(targets, t)
			}
		}
		sortByDistance(targets)

		return BonusData{
			Self:    *self,
			Bonus:   bonus,
			Targets: targets,
			CanUse:  round.Stage == models.StageBonus && bonus.Available(),
		}, nil
	})
}

// DashboardRow is one team on the organiser dashboard.
type DashboardRow struct {
	Team   models.Team            `json:"team"`
	Status models.TeamStageStatus `json:"status"`
	Link   string                 `json:"link"`
}

type DashboardData struct {
	Rows   []DashboardRow              `json:"rows"`
	Source clients.BackendSourceConfig `json:"source"`
}

// NewDashboardPage lists every team with its stage status and player link.
// Statuses are left unknown when the backend cannot report them.
func NewDashboardPage(api API, source clients.BackendSourceConfig) *View[DashboardData] {
	return NewView(PageDashboard, "", func(ctx context.Context, key Key, _ models.Round) (DashboardData, error) {
		teams, err := api.GetAllTeams(ctx)
		if err != nil {
			return DashboardData{}, err
		}

		statuses, err := api.GetTeamStageStatuses(ctx, key.RoundID)
		if err != nil {
			log.Warn().Err(err).Int("round_id", key.RoundID).Msg("team stage statuses unavailable")
			statuses = nil
		}

		sort.SliceStable(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
		rows := make([]DashboardRow, 0, len(teams))
		for _, t := range teams {
			rows = append(rows, DashboardRow{
				Team:   t,
				Status: statuses[strconv.Itoa(t.ID)],
				Link:   source.PlayerLink(t.Identifier),
			})
		}
		return DashboardData{Rows: rows, Source: source}, nil
	})
}

type ResultsData struct {
	Results models.TournamentResults `json:"results"`
}

// NewResultsPage shows the final standings.
func NewResultsPage(api API, identifier string) *View[ResultsData] {
	return NewView(PageResults, identifier, func(ctx context.Context, _ Key, _ models.Round) (ResultsData, error) {
		results, err := api.GetTournamentResults(ctx)
		if err != nil {
			return ResultsData{}, err
		}
		if results == nil {
			return ResultsData{}, nil
		}
		return ResultsData{Results: *results}, nil
	})
}

func sortByDistance(teams []models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Distance != teams[j].Distance {
			return teams[i].Distance > teams[j].Distance
		}
		return strings.ToLower(teams[i].Name) < strings.ToLower(teams[j].Name)
	})
}

// PageForStage is the page a player should see during stage.
func PageForStage(stage models.Stage) PageName {
	switch stage {
	case models.StageBetting:
		return PageBet
	case models.StageJoust:
		return PageJoust
	case models.StageBonus:
		return PageBonus
	case models.StageFinal, models.StageFinalMultipleTies, models.StageFinished:
		return PageResults
	}
	return PageTrack
}
