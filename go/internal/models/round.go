package models

// Stage defines the phase of a tournament round.
type Stage string

const (
	StageBetting           Stage = "betting"
	StageJoust             Stage = "joust"
	StageBonus             Stage = "bonus"
	StageFinal             Stage = "final"
	StageFinalMultipleTies Stage = "final-multiple-ties"
	StageFinished          Stage = "finished"
)

// Valid reports whether s is one of the stages the backend emits.
func (s Stage) Valid() bool {
	switch s {
	case StageBetting, StageJoust, StageBonus, StageFinal, StageFinalMultipleTies, StageFinished:
		return true
	}
	return false
}

// Terminal reports whether no further rounds follow this stage.
func (s Stage) Terminal() bool {
	return s == StageFinished
}

// Round is the snapshot returned by get-round-info.
type Round struct {
	RoundID int   `json:"round_id"`
	Number  int   `json:"number"`
	Stage   Stage `json:"stage"`
}

// Clone returns a copy of r, or nil when r is nil.
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
