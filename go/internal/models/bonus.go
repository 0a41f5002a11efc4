package models

// BonusType names a reward a team can pick during the bonus stage.
type BonusType string

const (
	BonusMoveAhead    BonusType = "move_ahead"
	BonusExtraBet     BonusType = "extra_bet"
	BonusOpponentBack BonusType = "opponent_back"
	BonusDoubleWin    BonusType = "double_win"
)

// BonusTypes lists the choices in display order.
var BonusTypes = []BonusType{BonusMoveAhead, BonusExtraBet, BonusOpponentBack, BonusDoubleWin}

// Valid reports whether b is a known bonus type.
func (b BonusType) Valid() bool {
	for _, t := range BonusTypes {
		if b == t {
			return true
		}
	}
	return false
}

// NeedsTarget reports whether the bonus applies to another team.
func (b BonusType) NeedsTarget() bool {
	return b == BonusOpponentBack
}

// Bonus is a team's bonus slot for a round. Finished means used or not granted.
type Bonus struct {
	ID          int        `json:"id"`
	Team        int        `json:"team"`
	Round       int        `json:"round"`
	Finished    bool       `json:"finished"`
	Description string     `json:"description"`
	Type        *BonusType `json:"bonus_type,omitempty"`
	Target      *string    `json:"bonus_target,omitempty"`
}

// Available reports whether the bonus can still be used.
func (b *Bonus) Available() bool {
	return b != nil && !b.Finished
}

// UseBonusRequest is the body of use-bonus.
type UseBonusRequest struct {
	TeamID      int       `json:"team_id"`
	BonusType   BonusType `json:"bonus_type"`
	RoundID     int       `json:"round_id"`
	BonusTarget string    `json:"bonus_target,omitempty"`
}

// MarkGameRequest is the body of mark-game.
type MarkGameRequest struct {
	TeamID   int `json:"team_id"`
	GameID   int `json:"game_id"`
	WinnerID int `json:"winner_id"`
	RoundID  int `json:"round_id"`
}
