package views

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func round(id, number int, stage models.Stage) models.Round {
	return models.Round{RoundID: id, Number: number, Stage: stage}
}

func countingView(calls *atomic.Int32) *View[int] {
	return NewView(PageTrack, "abc", func(ctx context.Context, key Key, _ models.Round) (int, error) {
		return int(calls.Add(1)), nil
	})
}

func TestView_MountLoads(t *testing.T) {
	var calls atomic.Int32
	v := countingView(&calls)

	require.NoError(t, v.Mount(context.Background(), round(3, 1, models.StageBetting)))

	snap := v.Snapshot()
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	assert.Equal(t, 1, snap.Data)
	assert.Equal(t, Key{RoundID: 3, Stage: models.StageBetting, Identifier: "abc"}, snap.Key)
}

func TestView_Sync(t *testing.T) {
	var calls atomic.Int32
	v := countingView(&calls)
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx, round(3, 1, models.StageBetting)))

	fetched, err := v.Sync(ctx, round(3, 1, models.StageBetting), false)
	require.NoError(t, err)
	assert.False(t, fetched, "same key must not refetch")

	fetched, err = v.Sync(ctx, round(3, 1, models.StageBetting), true)
	require.NoError(t, err)
	assert.True(t, fetched, "changed flag forces a refetch")

	fetched, err = v.Sync(ctx, round(3, 1, models.StageJoust), false)
	require.NoError(t, err)
	assert.True(t, fetched, "new stage refetches")
	assert.Equal(t, models.StageJoust, v.Snapshot().Key.Stage)
	assert.Equal(t, int32(3), calls.Load())
}

func TestView_SyncUnmounted(t *testing.T) {
	var calls atomic.Int32
	v := countingView(&calls)

	fetched, err := v.Sync(context.Background(), round(1, 1, models.StageBetting), true)
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Zero(t, calls.Load())
	assert.ErrorIs(t, v.Refetch(context.Background()), ErrNotMounted)
}

func TestView_ErrorKeepsPreviousData(t *testing.T) {
	var fail atomic.Bool
	v := NewView(PageTrack, "", func(ctx context.Context, key Key, _ models.Round) (string, error) {
		if fail.Load() {
			return "", errors.New("boom")
		}
		return "teams", nil
	})
	ctx := context.Background()
	require.NoError(t, v.Mount(ctx, round(1, 1, models.StageBetting)))

	fail.Store(true)
	err := v.Refetch(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load track page")

	snap := v.Snapshot()
	assert.Equal(t, "teams", snap.Data)
	assert.EqualError(t, snap.Err, "boom")
}

// gatedLoader blocks each call until released and returns the round id it was asked for.
type gatedLoader struct {
	mu    sync.Mutex
	gates []chan struct{}
	calls chan int
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{calls: make(chan int, 8)}
}

func (g *gatedLoader) load(ctx context.Context, key Key, _ models.Round) (int, error) {
	gate := make(chan struct{})
	g.mu.Lock()
	g.gates = append(g.gates, gate)
	g.mu.Unlock()
	g.calls <- key.RoundID
	<-gate
	return key.RoundID, nil
}

func (g *gatedLoader) release(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	close(g.gates[i])
}

func (g *gatedLoader) waitCall(t *testing.T) int {
	t.Helper()
	select {
	case id := <-g.calls:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("loader was not called")
		return 0
	}
}

func TestView_StaleFetchIsDiscarded(t *testing.T) {
	g := newGatedLoader()
	v := NewView(PageBet, "abc", g.load)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() { firstDone <- v.Mount(ctx, round(1, 1, models.StageBetting)) }()
	g.waitCall(t)

	secondDone := make(chan error, 1)
	go func() {
		_, err := v.Sync(ctx, round(2, 2, models.StageBetting), false)
		secondDone <- err
	}()
	g.waitCall(t)

	g.release(1)
	require.NoError(t, <-secondDone)
	assert.Equal(t, 2, v.Snapshot().Data)

	g.release(0)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 2, v.Snapshot().Data, "older fetch must not overwrite newer data")
	assert.Equal(t, 2, v.Snapshot().Key.RoundID)
}

func TestView_UnmountDiscardsInFlight(t *testing.T) {
	g := newGatedLoader()
	v := NewView(PageJoust, "abc", g.load)

	done := make(chan error, 1)
	go func() { done <- v.Mount(context.Background(), round(5, 1, models.StageJoust)) }()
	g.waitCall(t)

	v.Unmount()
	g.release(0)
	require.NoError(t, <-done)

	assert.False(t, v.Mounted())
	assert.False(t, v.Snapshot().Loaded)
}
