package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/bday2025/tournament/go/internal/views"
)

func renderRound(w io.Writer, state roundinfo.State) {
	switch {
	case state.Round == nil && state.Loading:
		fmt.Fprintln(w, "Loading round info...")
	case state.Round == nil:
		fmt.Fprintln(w, state.ErrorMessage())
	default:
		fmt.Fprintf(w, "Round %d · %s\n", state.Round.Number, state.Round.Stage)
		if state.Err != nil {
			fmt.Fprintf(w, "(%s)\n", state.ErrorMessage())
		}
	}
}

func renderSnapshotHeader[T any](w io.Writer, snap views.Snapshot[T]) bool {
	if snap.Err != nil {
		fmt.Fprintf(w, "error: %v\n", snap.Err)
	}
	if !snap.Loaded {
		if snap.Loading {
			fmt.Fprintln(w, "Loading...")
		}
		return false
	}
	return true
}

func progressBar(p float64) string {
	const width = 12
	filled := int(p*width + 0.5)
	return strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
}

func renderTrack(w io.Writer, snap views.Snapshot[views.TrackData]) {
	if !renderSnapshotHeader(w, snap) {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range snap.Data.Rows {
		marker := " "
		if row.Self {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\n", marker, row.Team.Name, progressBar(row.Progress), row.Team.Distance, models.TrackLength)
	}
	tw.Flush()
	if snap.Data.Winner != nil {
		fmt.Fprintf(w, "Winner: %s\n", snap.Data.Winner.Name)
	}
}

func renderBet(w io.Writer, snap views.Snapshot[views.BetData]) {
	if !renderSnapshotHeader(w, snap) {
		return
	}
	table := snap.Data.Table
	fmt.Fprintf(w, "Bets available: %d, placed this round: %d\n", table.BetsAvailable, table.BetsPlaced)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEAM\tDIST\tODDS\tMINE\tALL")
	for _, row := range table.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%g/%g\t%d\t%d\n",
			row.TeamID, row.TeamName, row.Distance, row.Odds.Odd1, row.Odds.Odd2, row.MyBets, row.TotalBets)
	}
	tw.Flush()
	if !table.CanBet {
		fmt.Fprintln(w, "Betting is closed for you right now.")
	}
}

func renderJoust(w io.Writer, snap views.Snapshot[views.JoustData]) {
	if !renderSnapshotHeader(w, snap) {
		return
	}
	data := snap.Data
	if data.Next != nil && data.Next.Opponent != nil {
		fmt.Fprintf(w, "Next opponent: %s\n", data.Next.Opponent.Name)
		if data.Next.Game != nil && data.Next.Game.Location != nil {
			fmt.Fprintf(w, "Location: %s\n", *data.Next.Game.Location)
		}
	} else {
		fmt.Fprintln(w, "No opponent this round.")
	}
	for _, g := range data.Games {
		status := "pending"
		if winner, ok := g.WinnerID(); ok {
			status = fmt.Sprintf("won by %d", winner)
		}
		fmt.Fprintf(w, "  game %d: %d vs %d, %s\n", g.ID, g.Team1, g.Team2, status)
	}
	if data.CanMark {
		fmt.Fprintf(w, "Mark the result of game %d with: mark <winner>\n", data.Markable.ID)
	}
}

func renderBonus(w io.Writer, snap views.Snapshot[views.BonusData]) {
	if !renderSnapshotHeader(w, snap) {
		return
	}
	data := snap.Data
	switch {
	case data.Bonus == nil:
		fmt.Fprintln(w, "No bonus this round.")
	case data.Bonus.Finished:
		fmt.Fprintln(w, "Bonus already used.")
	default:
		fmt.Fprintln(w, "You have a bonus! Choose one of:")
		for _, t := range models.BonusTypes {
			fmt.Fprintf(w, "  %s\n", t)
		}
	}
	if data.Bonus != nil && data.Bonus.Description != "" {
		fmt.Fprintln(w, data.Bonus.Description)
	}
}

func tri(b *bool) string {
	if b == nil {
		return "?"
	}
	if *b {
		return "yes"
	}
	return "no"
}

func renderDashboard(w io.Writer, snap views.Snapshot[views.DashboardData]) {
	if !renderSnapshotHeader(w, snap) {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTEAM\tDIST\tBET\tJOUST\tBONUS\tLINK")
	for _, row := range snap.Data.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\n",
			row.Team.ID, row.Team.Name, row.Team.Distance,
			tri(row.Status.BetFinished), tri(row.Status.JoustFinished), tri(row.Status.BonusUsed),
			row.Link)
	}
	tw.Flush()
}

func renderResults(w io.Writer, snap views.Snapshot[views.ResultsData]) {
	if !renderSnapshotHeader(w, snap) {
		return
	}
	results := snap.Data.Results
	if results.Winner != nil {
		fmt.Fprintf(w, "Winner: %s\n", results.Winner.Name)
	} else if !results.Finished {
		fmt.Fprintln(w, "The tournament is still running.")
	}
	for i, t := range results.Standings {
		fmt.Fprintf(w, "%2d. %s (%d)\n", i+1, t.Name, t.Distance)
	}
}

// renderPage prints whichever page is current.
func renderPage(w io.Writer, s *Services) {
	renderRound(w, s.Store.State())
	page := s.Navigator.Current()
	if page == nil {
		return
	}
	switch page.Name() {
	case views.PageTrack:
		renderTrack(w, s.Track.Snapshot())
	case views.PageBet:
		renderBet(w, s.Bet.Snapshot())
	case views.PageJoust:
		renderJoust(w, s.Joust.Snapshot())
	case views.PageBonus:
		renderBonus(w, s.Bonus.Snapshot())
	case views.PageDashboard:
		renderDashboard(w, s.Dashboard.Snapshot())
	case views.PageResults:
		renderResults(w, s.Results.Snapshot())
	}
}
