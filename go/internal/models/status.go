package models

// TeamStageStatus tracks what a team has done in the current round.
// A nil field means the backend did not report it.
type TeamStageStatus struct {
	BetFinished   *bool `json:"bet_finished"`
	JoustFinished *bool `json:"joust_finished"`
	BonusUsed     *bool `json:"bonus_used"`
}

// TeamStageStatuses is keyed by team id as the backend encodes it.
type TeamStageStatuses map[string]TeamStageStatus

// TournamentResults is returned by get-tournament-results.
type TournamentResults struct {
	Finished  bool   `json:"finished"`
	Winner    *Team  `json:"winner,omitempty"`
	Standings []Team `json:"standings"`
}
