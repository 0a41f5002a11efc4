package betting

import (
	"sort"
	"strings"

	"github.com/bday2025/tournament/go/internal/models"
)

// OddsSource records where a row's odds came from.
type OddsSource string

const (
	OddsSourceServer    OddsSource = "server"
	OddsSourceRound     OddsSource = "round"
	OddsSourceProjected OddsSource = "projected"
)

// Row is one team the player can bet on.
type Row struct {
	TeamID     int        `json:"team_id"`
	TeamName   string     `json:"team_name"`
	Distance   int        `json:"distance"`
	Odds       Odds       `json:"odds"`
	OddsSource OddsSource `json:"odds_source"`
	MyBets     int        `json:"my_bets"`
	TotalBets  int        `json:"total_bets"`
}

// Table is the reconciled betting view for one player.
type Table struct {
	Rows          []Row `json:"rows"`
	BetsAvailable int   `json:"bets_available"`
	BetsPlaced    int   `json:"bets_placed"`
	CanBet        bool  `json:"can_bet"`
}

// Input gathers everything fetched for the bet page.
type Input struct {
	Round  models.Round
	Self   models.Team
	Teams  []models.Team
	Odds   []models.Odds
	Bets   []models.Bet
	Server *models.BettingTable // optional
}

// Reconcile merges the server betting table, the round's published odds and
// the player's own bets into one table.
//
// Rows cover every team except the player's own. Odds prefer the server
// table, then the round's odds, then a projection from current distances.
// The player's bet count always comes from the bets list.
func Reconcile(in Input) Table {
	serverRows := make(map[int]models.BettingRow)
	betsAvailable := in.Self.BetsAvailable
	if in.Server != nil {
		for _, r := range in.Server.Rows {
			serverRows[r.TeamID] = r
		}
		betsAvailable = in.Server.BetsAvailable
	}

	roundOdds := make(map[int]models.Odds)
	for _, o := range in.Odds {
		if o.Round == 0 || o.Round == in.Round.RoundID {
			roundOdds[o.Team] = o
		}
	}

	distances := make([]int, len(in.Teams))
	for i, t := range in.Teams {
		distances[i] = t.Distance
	}
	projected := ProjectedOdds(distances)

	myBets := make(map[int]int)
	placed := 0
	for _, b := range in.Bets {
		if b.Team != in.Self.ID {
			continue
		}
		if b.Round != 0 && b.Round != in.Round.RoundID {
			continue
		}
		myBets[b.BetOnTeam]++
		placed++
	}

	rows := make([]Row, 0, len(in.Teams))
	for i, t := range in.Teams {
		if t.ID == in.Self.ID {
			continue
		}
		row := Row{
			TeamID:   t.ID,
			TeamName: t.Name,
			Distance: t.Distance,
			MyBets:   myBets[t.ID],
		}
		if sr, ok := serverRows[t.ID]; ok {
			row.Odds = Odds{Odd1: sr.Odd1, Odd2: sr.Odd2}
			row.OddsSource = OddsSourceServer
			row.TotalBets = sr.BetsPlaced
			if sr.TeamName != "" {
				row.TeamName = sr.TeamName
			}
		} else if o, ok := roundOdds[t.ID]; ok {
			row.Odds = Odds{Odd1: o.Odd1, Odd2: o.Odd2}
			row.OddsSource = OddsSourceRound
		} else {
			row.Odds = projected[i]
			row.OddsSource = OddsSourceProjected
		}
		if row.TotalBets < row.MyBets {
			row.TotalBets = row.MyBets
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Distance != rows[j].Distance {
			return rows[i].Distance > rows[j].Distance
		}
		return strings.ToLower(rows[i].TeamName) < strings.ToLower(rows[j].TeamName)
	})

	return Table{
		Rows:          rows,
		BetsAvailable: betsAvailable,
		BetsPlaced:    placed,
		CanBet:        in.Round.Stage == models.StageBetting && betsAvailable > 0,
	}
}

// Row returns the row for teamID.
func (t Table) Row(teamID int) (Row, bool) {
	for _, r := range t.Rows {
		if r.TeamID == teamID {
			return r, true
		}
	}
	return Row{}, false
}
