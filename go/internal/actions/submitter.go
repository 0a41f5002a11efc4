package actions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/rs/zerolog/log"
)

var (
	ErrWrongStage       = errors.New("action not allowed in the current stage")
	ErrActionLocked     = errors.New("action already in progress")
	ErrAlreadySubmitted = errors.New("action already submitted this round")
	ErrNoRound          = errors.New("round info not loaded yet")
	ErrNoTeam           = errors.New("player team not found")
	ErrInvalidBonus     = errors.New("invalid bonus")
)

// Kind names an action a player can submit.
type Kind string

const (
	KindPlaceBet Kind = "place_bet"
	KindMarkGame Kind = "mark_game"
	KindUseBonus Kind = "use_bonus"
)

// Stage returns the round stage in which k is allowed.
func (k Kind) Stage() models.Stage {
	switch k {
	case KindPlaceBet:
		return models.StageBetting
	case KindMarkGame:
		return models.StageJoust
	case KindUseBonus:
		return models.StageBonus
	}
	return ""
}

// oncePerRound reports whether k can only succeed once per round.
func (k Kind) oncePerRound() bool {
	return k == KindMarkGame || k == KindUseBonus
}

// API is the subset of the tournament client used to submit actions.
type API interface {
	GetTeamByIdentifier(ctx context.Context, identifier string) (*models.Team, error)
	PlaceBet(ctx context.Context, req models.PlaceBetRequest) (*models.Bet, error)
	MarkGame(ctx context.Context, req models.MarkGameRequest) (*models.Game, error)
	UseBonus(ctx context.Context, req models.UseBonusRequest) (*models.Bonus, error)
}

// RoundSource provides the current round.
type RoundSource interface {
	State() roundinfo.State
}

// Refresher requests an out-of-band round poll.
type Refresher interface {
	Refresh() bool
}

// PageRefetcher reloads whatever page is showing.
type PageRefetcher interface {
	RefetchCurrent(ctx context.Context) error
}

// Submitter sends player actions, one at a time per kind.
type Submitter struct {
	api        API
	rounds     RoundSource
	identifier string
	refresher  Refresher
	pages      PageRefetcher

	mu     sync.Mutex
	team   *models.Team
	locked map[Kind]bool
	done   map[Kind]int // round id of the last success
}

// Option customizes a Submitter
type Option func(*Submitter)

// WithRefresher triggers a round refresh after each successful action.
func WithRefresher(r Refresher) Option {
	return func(s *Submitter) {
		s.refresher = r
	}
}

// WithPageRefetcher reloads the current page after each successful action.
func WithPageRefetcher(p PageRefetcher) Option {
	return func(s *Submitter) {
		s.pages = p
	}
}

// NewSubmitter creates a submitter acting for the team with identifier.
func NewSubmitter(api API, rounds RoundSource, identifier string, opts ...Option) *Submitter {
	s := &Submitter{
		api:        api,
		rounds:     rounds,
		identifier: identifier,
		locked:     make(map[Kind]bool),
		done:       make(map[Kind]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locked reports whether a submission of kind is in flight.
func (s *Submitter) Locked(kind Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked[kind]
}

// Submitted reports whether kind already succeeded in the current round.
func (s *Submitter) Submitted(kind Kind) bool {
	round := s.rounds.State().Round
	if round == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.done[kind]
	return ok && id == round.RoundID
}

// PlaceBet bets on another team in the current betting round.
func (s *Submitter) PlaceBet(ctx context.Context, betOnTeamID int) (*models.Bet, error) {
	round, team, err := s.begin(ctx, KindPlaceBet)
	if err != nil {
		return nil, err
	}

	bet, err := s.api.PlaceBet(ctx, models.PlaceBetRequest{
		TeamID:      team.ID,
		BetOnTeamID: betOnTeamID,
		RoundID:     round.RoundID,
	})
	s.finish(ctx, KindPlaceBet, round, err)
	if err != nil {
		return nil, fmt.Errorf("failed to place bet: %w", err)
	}
	return bet, nil
}

// MarkGame reports the winner of the player's joust.
func (s *Submitter) MarkGame(ctx context.Context, gameID, winnerID int) (*models.Game, error) {
	round, team, err := s.begin(ctx, KindMarkGame)
	if err != nil {
		return nil, err
	}

	game, err := s.api.MarkGame(ctx, models.MarkGameRequest{
		TeamID:   team.ID,
		GameID:   gameID,
		WinnerID: winnerID,
		RoundID:  round.RoundID,
	})
	s.finish(ctx, KindMarkGame, round, err)
	if err != nil {
		return nil, fmt.Errorf("failed to mark game: %w", err)
	}
	return game, nil
}

// UseBonus spends the player's bonus for the round. target is required for
// bonuses that act on another team.
func (s *Submitter) UseBonus(ctx context.Context, bonusType models.BonusType, target string) (*models.Bonus, error) {
	if !bonusType.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidBonus, bonusType)
	}
	if bonusType.NeedsTarget() && target == "" {
		return nil, fmt.Errorf("%w: %s needs a target team", ErrInvalidBonus, bonusType)
	}

	round, team, err := s.begin(ctx, KindUseBonus)
	if err != nil {
		return nil, err
	}

	req := models.UseBonusRequest{
		TeamID:    team.ID,
		BonusType: bonusType,
		RoundID:   round.RoundID,
	}
	if bonusType.NeedsTarget() {
		req.BonusTarget = target
	}
	bonus, err := s.api.UseBonus(ctx, req)
	s.finish(ctx, KindUseBonus, round, err)
	if err != nil {
		return nil, fmt.Errorf("failed to use bonus: %w", err)
	}
	return bonus, nil
}

// begin checks the stage and takes the lock for kind.
func (s *Submitter) begin(ctx context.Context, kind Kind) (models.Round, models.Team, error) {
	state := s.rounds.State()
	if state.Round == nil {
		return models.Round{}, models.Team{}, ErrNoRound
	}
	round := *state.Round
	if round.Stage != kind.Stage() {
		return round, models.Team{}, fmt.Errorf("%w: %s needs %s, round is in %s", ErrWrongStage, kind, kind.Stage(), round.Stage)
	}

	s.mu.Lock()
	if s.locked[kind] {
		s.mu.Unlock()
		return round, models.Team{}, ErrActionLocked
	}
	if id, ok := s.done[kind]; ok && kind.oncePerRound() && id == round.RoundID {
		s.mu.Unlock()
		return round, models.Team{}, ErrAlreadySubmitted
	}
	s.locked[kind] = true
	s.mu.Unlock()

	team, err := s.playerTeam(ctx)
	if err != nil {
		s.unlock(kind)
		return round, models.Team{}, err
	}
	return round, team, nil
}

func (s *Submitter) playerTeam(ctx context.Context) (models.Team, error) {
	s.mu.Lock()
	cached := s.team
	s.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	team, err := s.api.GetTeamByIdentifier(ctx, s.identifier)
	if err != nil {
		return models.Team{}, fmt.Errorf("%w: %w", ErrNoTeam, err)
	}
	if team == nil {
		return models.Team{}, ErrNoTeam
	}

	s.mu.Lock()
	s.team = team
	s.mu.Unlock()
	return *team, nil
}

func (s *Submitter) unlock(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locked, kind)
}

// finish releases the lock and, on success, refreshes the page and the round.
func (s *Submitter) finish(ctx context.Context, kind Kind, round models.Round, err error) {
	s.mu.Lock()
	delete(s.locked, kind)
	if err == nil {
		s.done[kind] = round.RoundID
	}
	s.mu.Unlock()

	if err != nil {
		log.Warn().
			Err(err).
			Str("action", string(kind)).
			Int("round_id", round.RoundID).
			Msg("action failed")
		return
	}

	log.Info().
		Str("action", string(kind)).
		Str("player", s.identifier).
		Int("round_id", round.RoundID).
		Msg("action submitted")

	if s.pages != nil {
		if err := s.pages.RefetchCurrent(ctx); err != nil {
			log.Warn().Err(err).Str("action", string(kind)).Msg("failed to refetch page after action")
		}
	}
	if s.refresher != nil {
		s.refresher.Refresh()
	}
}
