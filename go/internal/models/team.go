package models

const (
	// TrackLength is the distance shown as the finish line on the track.
	TrackLength = 12
)

// Team represents a competing pair of players
type Team struct {
	ID            int    `json:"id"`
	Identifier    string `json:"identifier"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Distance      int    `json:"distance"`
	BetsAvailable int    `json:"bets_available"`
}

// Progress returns the share of the track covered, capped at 1.
func (t Team) Progress() float64 {
	p := float64(t.Distance) / float64(TrackLength)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// HasWon mirrors the backend rule: a team wins once it is past the finish line.
func (t Team) HasWon() bool {
	return t.Distance > TrackLength
}

// BetsAvailableResponse is returned by get-bets-available.
type BetsAvailableResponse struct {
	BetsAvailable int `json:"bets_available"`
}
