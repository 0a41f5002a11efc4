package roundinfo

import (
	"errors"
	"testing"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func round(id, number int, stage models.Stage) *models.Round {
	return &models.Round{RoundID: id, Number: number, Stage: stage}
}

func TestChanged(t *testing.T) {
	tests := []struct {
		name string
		prev *models.Round
		next *models.Round
		want bool
	}{
		{"identical snapshots", round(1, 1, models.StageBetting), round(1, 1, models.StageBetting), false},
		{"stage advanced", round(1, 1, models.StageBetting), round(2, 1, models.StageJoust), true},
		{"number advanced", round(3, 1, models.StageBonus), round(4, 2, models.StageBonus), true},
		{"new round id only", round(1, 1, models.StageJoust), round(9, 1, models.StageJoust), false},
		{"first snapshot", nil, round(1, 1, models.StageBetting), true},
		{"missing next", round(1, 1, models.StageBetting), nil, false},
		{"both missing", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Changed(tt.prev, tt.next))
		})
	}
}

func TestReduce_FirstSuccess(t *testing.T) {
	at := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	s := Reduce(InitialState(), FetchSucceeded{Seq: 1, Round: round(1, 1, models.StageBetting), At: at})

	assert.False(t, s.Loading)
	assert.True(t, s.Changed)
	assert.Equal(t, uint64(1), s.Generation)
	assert.Equal(t, at, s.UpdatedAt)
	assert.Equal(t, models.StageBetting, s.Round.Stage)
}

func TestReduce_IdenticalSnapshotKeepsGeneration(t *testing.T) {
	s := Reduce(InitialState(), FetchSucceeded{Seq: 1, Round: round(1, 1, models.StageBetting)})
	s = Reduce(s, Acknowledge{Generation: s.Generation})
	require.False(t, s.Changed)

	s = Reduce(s, FetchSucceeded{Seq: 2, Round: round(1, 1, models.StageBetting)})
	assert.False(t, s.Changed)
	assert.Equal(t, uint64(1), s.Generation)
	assert.Equal(t, uint64(2), s.Seq)
}

func TestReduce_StaleResultIgnored(t *testing.T) {
	s := Reduce(InitialState(), FetchSucceeded{Seq: 2, Round: round(2, 1, models.StageJoust)})
	s = Reduce(s, FetchSucceeded{Seq: 1, Round: round(1, 1, models.StageBetting)})

	assert.Equal(t, models.StageJoust, s.Round.Stage)
	assert.Equal(t, uint64(2), s.Seq)

	s = Reduce(s, FetchFailed{Seq: 1, Err: errors.New("late failure")})
	assert.NoError(t, s.Err)
}

func TestReduce_FailureKeepsRound(t *testing.T) {
	s := Reduce(InitialState(), FetchSucceeded{Seq: 1, Round: round(1, 1, models.StageBetting)})
	s = Reduce(s, FetchFailed{Seq: 2, Err: errors.New("timeout")})

	require.Error(t, s.Err)
	assert.Equal(t, "Failed to fetch tournament information", s.ErrorMessage())
	assert.Equal(t, models.StageBetting, s.Round.Stage)
	assert.Equal(t, uint64(1), s.Generation)

	s = Reduce(s, FetchSucceeded{Seq: 3, Round: round(1, 1, models.StageBetting)})
	assert.NoError(t, s.Err)
	assert.Empty(t, s.ErrorMessage())
}

func TestReduce_FailureBeforeFirstSnapshot(t *testing.T) {
	s := Reduce(InitialState(), FetchFailed{Seq: 1, Err: errors.New("down")})

	assert.False(t, s.Loading)
	assert.Nil(t, s.Round)
	assert.False(t, s.Changed)
}

func TestReduce_AcknowledgeOnlyMatchingGeneration(t *testing.T) {
	s := Reduce(InitialState(), FetchSucceeded{Seq: 1, Round: round(1, 1, models.StageBetting)})
	s = Reduce(s, FetchSucceeded{Seq: 2, Round: round(2, 1, models.StageJoust)})
	require.Equal(t, uint64(2), s.Generation)

	s = Reduce(s, Acknowledge{Generation: 1})
	assert.True(t, s.Changed)

	s = Reduce(s, Acknowledge{Generation: 2})
	assert.False(t, s.Changed)
}

func TestReduce_DoesNotAliasRound(t *testing.T) {
	r := round(1, 1, models.StageBetting)
	s := Reduce(InitialState(), FetchSucceeded{Seq: 1, Round: r})

	r.Stage = models.StageFinished
	assert.Equal(t, models.StageBetting, s.Round.Stage)
}
