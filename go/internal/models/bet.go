package models

// Odds are published per team for each betting round.
type Odds struct {
	ID    int     `json:"id"`
	Round int     `json:"round"`
	Team  int     `json:"team"`
	Odd1  float64 `json:"odd1"`
	Odd2  float64 `json:"odd2"`
}

// Bet is a wager a team placed on another team.
type Bet struct {
	ID        int  `json:"id"`
	Team      int  `json:"team"`
	BetOnTeam int  `json:"bet_on_team"`
	Round     int  `json:"round"`
	Odds      int  `json:"odds"`
	Finished  bool `json:"bet_finish"`
}

// BettingRow is one line of the server-side betting table.
type BettingRow struct {
	TeamID     int     `json:"team_id"`
	TeamName   string  `json:"team_name"`
	Distance   int     `json:"distance"`
	Odd1       float64 `json:"odd1"`
	Odd2       float64 `json:"odd2"`
	BetsPlaced int     `json:"bets_placed"`
}

// BettingTable is returned by get-betting-table.
type BettingTable struct {
	BetsAvailable int          `json:"bets_available"`
	Rows          []BettingRow `json:"rows"`
}

// PlaceBetRequest is the body of place-bet.
type PlaceBetRequest struct {
	TeamID      int `json:"team_id"`
	BetOnTeamID int `json:"bet_on_team_id"`
	RoundID     int `json:"round_id"`
}
