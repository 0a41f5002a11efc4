package betting

import "math"

// Odds is a pair of payout multipliers.
type Odds struct {
	Odd1 float64 `json:"odd1"`
	Odd2 float64 `json:"odd2"`
}

const (
	baseMultiplier = 3.0
	spreadFactor   = 28.0
	secondOddRatio = 0.7
)

// ProjectedOdds computes the odds the backend would publish for teams at
// the given distances, in the same order.
//
// The leader pays nothing. When every team is level, all but the last team
// get 2/1 and the last gets 0/0. Otherwise odds grow with the square of the
// gap to the leader.
func ProjectedOdds(distances []int) []Odds {
	if len(distances) == 0 {
		return []Odds{}
	}

	maxDistance, minDistance := distances[0], distances[0]
	for _, d := range distances[1:] {
		maxDistance = max(maxDistance, d)
		minDistance = min(minDistance, d)
	}

	results := make([]Odds, len(distances))
	if maxDistance == minDistance {
		for i := range distances {
			if i < len(distances)-1 {
				results[i] = Odds{Odd1: 2, Odd2: 1}
			}
		}
		return results
	}

	distanceRange := float64(maxDistance - minDistance)
	for i, d := range distances {
		if d == maxDistance {
			continue
		}
		relative := float64(d-minDistance) / distanceRange
		positionFactor := 1 - relative

		odd1 := math.Max(0, baseMultiplier+positionFactor*positionFactor*spreadFactor)
		odd2 := math.Max(0, odd1*secondOddRatio)

		results[i] = Odds{
			Odd1: math.RoundToEven(odd1),
			Odd2: math.RoundToEven(odd2),
		}
	}
	return results
}
