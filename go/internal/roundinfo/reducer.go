package roundinfo

import (
	"time"

	"github.com/bday2025/tournament/go/internal/models"
)

// Changed reports whether next is a different round or stage than prev.
// The first snapshot after an unknown one counts as a change; a missing
// next snapshot never does.
func Changed(prev, next *models.Round) bool {
	if next == nil {
		return false
	}
	if prev == nil {
		return true
	}
	return next.Number != prev.Number || next.Stage != prev.Stage
}

// State is the round snapshot every page view reads from.
type State struct {
	Round   *models.Round `json:"round,omitempty"`
	Loading bool          `json:"loading"`
	Err     error         `json:"-"`

	// Changed is set by the fetch that produced a transition and cleared by
	// Acknowledge for the same generation.
	Changed    bool      `json:"changed"`
	Generation uint64    `json:"generation"`
	Seq        uint64    `json:"seq"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// InitialState is the state before any fetch has settled.
func InitialState() State {
	return State{Loading: true}
}

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// FetchStarted marks a poll as issued.
type FetchStarted struct {
	Seq uint64
}

// FetchSucceeded carries a fresh snapshot.
type FetchSucceeded struct {
	Seq   uint64
	Round *models.Round
	At    time.Time
}

// FetchFailed records a failed poll.
type FetchFailed struct {
	Seq uint64
	Err error
	At  time.Time
}

// Acknowledge clears the transient change flag once consumers have reacted.
type Acknowledge struct {
	Generation uint64
}

func (FetchStarted) isAction()   {}
func (FetchSucceeded) isAction() {}
func (FetchFailed) isAction()    {}
func (Acknowledge) isAction()    {}

// Reduce applies a to s. It never mutates s and never performs I/O.
// Results older than the last applied fetch are ignored.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchStarted:
		// nothing to record until the fetch settles
		return s

	case FetchSucceeded:
		if a.Seq <= s.Seq || a.Round == nil {
			return s
		}
		next := s
		next.Seq = a.Seq
		next.Loading = false
		next.Err = nil
		next.UpdatedAt = a.At
		if Changed(s.Round, a.Round) {
			next.Changed = true
			next.Generation++
		}
		next.Round = a.Round.Clone()
		return next

	case FetchFailed:
		if a.Seq <= s.Seq {
			return s
		}
		next := s
		next.Seq = a.Seq
		next.Loading = false
		next.Err = a.Err
		next.UpdatedAt = a.At
		return next

	case Acknowledge:
		if a.Generation != s.Generation || !s.Changed {
			return s
		}
		next := s
		next.Changed = false
		return next
	}
	return s
}

// ErrorMessage is the user-facing text for the last fetch error.
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return "Failed to fetch tournament information"
}
