package models

// Game is a joust between two teams within a round.
type Game struct {
	ID       int     `json:"id"`
	Team1    int     `json:"team1"`
	Team2    int     `json:"team2"`
	Winner   *int    `json:"winner,omitempty"`
	Win      *bool   `json:"win,omitempty"` // true when team1 won
	Round    int     `json:"round"`
	Location *string `json:"location,omitempty"`
	Finished bool    `json:"finished"`
}

// WinnerID returns the winning team id, if the result is known.
func (g Game) WinnerID() (int, bool) {
	if g.Winner != nil {
		return *g.Winner, true
	}
	if g.Win != nil {
		if *g.Win {
			return g.Team1, true
		}
		return g.Team2, true
	}
	return 0, false
}

// Involves reports whether teamID plays in g.
func (g Game) Involves(teamID int) bool {
	return g.Team1 == teamID || g.Team2 == teamID
}

// OpponentOf returns the other team in g.
func (g Game) OpponentOf(teamID int) (int, bool) {
	switch teamID {
	case g.Team1:
		return g.Team2, true
	case g.Team2:
		return g.Team1, true
	}
	return 0, false
}

// NextOpponent is returned by get-next-opponent.
type NextOpponent struct {
	Game     *Game `json:"game,omitempty"`
	Opponent *Team `json:"opponent,omitempty"`
}
