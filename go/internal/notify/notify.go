package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/rs/zerolog/log"
)

// Transition is a move to a new round or stage.
type Transition struct {
	Round      models.Round
	Previous   *models.Round
	Generation uint64
	At         time.Time
}

// Notifier announces a transition somewhere.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, t Transition) error
}

// Message is the human readable announcement for t.
func Message(t Transition) string {
	switch t.Round.Stage {
	case models.StageBetting:
		return fmt.Sprintf("Round %d: betting is open", t.Round.Number)
	case models.StageJoust:
		return fmt.Sprintf("Round %d: time to joust", t.Round.Number)
	case models.StageBonus:
		return fmt.Sprintf("Round %d: bonus time", t.Round.Number)
	case models.StageFinal:
		return "The final is on"
	case models.StageFinalMultipleTies:
		return "The final is on, several teams are tied"
	case models.StageFinished:
		return "The tournament is finished"
	}
	return fmt.Sprintf("Round %d: %s", t.Round.Number, t.Round.Stage)
}

// Run fans every transition from updates out to notifiers until ctx is done
// or updates is closed. Failures are logged and never retried.
func Run(ctx context.Context, updates <-chan roundinfo.Update, notifiers ...Notifier) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if !u.Transition || u.State.Round == nil {
				continue
			}
			t := Transition{
				Round:      *u.State.Round,
				Previous:   u.Previous,
				Generation: u.State.Generation,
				At:         u.State.UpdatedAt,
			}
			for _, n := range notifiers {
				if err := n.Notify(ctx, t); err != nil {
					log.Warn().
						Err(err).
						Str("notifier", n.Name()).
						Int("round", t.Round.Number).
						Str("stage", string(t.Round.Stage)).
						Msg("failed to send notification")
				}
			}
		}
	}
}

// LogNotifier writes transitions to the global logger.
type LogNotifier struct{}

func (LogNotifier) Name() string { return "log" }

func (LogNotifier) Notify(ctx context.Context, t Transition) error {
	ev := log.Info().
		Int("round", t.Round.Number).
		Int("round_id", t.Round.RoundID).
		Str("stage", string(t.Round.Stage)).
		Uint64("generation", t.Generation)
	if t.Previous != nil {
		ev = ev.Str("previous_stage", string(t.Previous.Stage))
	}
	ev.Msg(Message(t))
	return nil
}
