package betting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectedOdds(t *testing.T) {
	tests := []struct {
		name      string
		distances []int
		want      []Odds
	}{
		{
			name:      "empty",
			distances: nil,
			want:      []Odds{},
		},
		{
			name:      "single team",
			distances: []int{4},
			want:      []Odds{{0, 0}},
		},
		{
			name:      "everyone level",
			distances: []int{2, 2, 2},
			want:      []Odds{{2, 1}, {2, 1}, {0, 0}},
		},
		{
			name:      "spread field",
			distances: []int{3, 4, 5, 6, 7},
			want:      []Odds{{31, 22}, {19, 13}, {10, 7}, {5, 3}, {0, 0}},
		},
		{
			name:      "shared lead",
			distances: []int{8, 0, 8},
			want:      []Odds{{0, 0}, {31, 22}, {0, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectedOdds(tt.distances))
		})
	}
}

func TestProjectedOdds_TrailingTeamsPayMore(t *testing.T) {
	odds := ProjectedOdds([]int{0, 1, 2, 3, 4, 5, 6, 12})
	for i := 1; i < len(odds)-1; i++ {
		assert.GreaterOrEqual(t, odds[i-1].Odd1, odds[i].Odd1)
		assert.Less(t, odds[i].Odd2, odds[i].Odd1)
	}
}
