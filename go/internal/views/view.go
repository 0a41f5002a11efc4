package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownPage is returned when navigating to a page that was never registered.
	ErrUnknownPage = errors.New("unknown page")
	// ErrNotMounted is returned by Refetch on an unmounted view.
	ErrNotMounted = errors.New("view not mounted")
)

// PageName identifies a page.
type PageName string

const (
	PageTrack     PageName = "track"
	PageBet       PageName = "bet"
	PageJoust     PageName = "joust"
	PageBonus     PageName = "bonus"
	PageDashboard PageName = "dashboard"
	PageResults   PageName = "results"
)

// Key decides when page data is stale.
type Key struct {
	RoundID    int          `json:"round_id"`
	Stage      models.Stage `json:"stage"`
	Identifier string       `json:"identifier"`
}

// Loader fetches page data for a round.
type Loader[T any] func(ctx context.Context, key Key, round models.Round) (T, error)

// Snapshot is what a page currently shows.
type Snapshot[T any] struct {
	Key       Key
	Data      T
	Loaded    bool
	Loading   bool
	Err       error
	FetchedAt time.Time
}

// Page is the type-erased view the navigator drives.
type Page interface {
	Name() PageName
	Mount(ctx context.Context, round models.Round) error
	Sync(ctx context.Context, round models.Round, changed bool) (bool, error)
	Refetch(ctx context.Context) error
	Unmount()
	Mounted() bool
}

// View holds the data of one page and refetches it when the round moves on.
type View[T any] struct {
	name       PageName
	identifier string
	load       Loader[T]
	now        func() time.Time

	mu      sync.Mutex
	mounted bool
	round   models.Round
	key     Key
	seq     uint64
	snap    Snapshot[T]
}

// NewView creates an unmounted view.
func NewView[T any](name PageName, identifier string, load Loader[T]) *View[T] {
	return &View[T]{
		name:       name,
		identifier: identifier,
		load:       load,
		now:        time.Now,
	}
}

func (v *View[T]) Name() PageName {
	return v.name
}

func (v *View[T]) keyFor(round models.Round) Key {
	return Key{RoundID: round.RoundID, Stage: round.Stage, Identifier: v.identifier}
}

// Mount marks the view visible and loads it for round.
func (v *View[T]) Mount(ctx context.Context, round models.Round) error {
	v.mu.Lock()
	v.mounted = true
	v.round = round
	v.key = v.keyFor(round)
	v.mu.Unlock()
	return v.Refetch(ctx)
}

// Sync refetches when round has a different key than the loaded data, or
// when changed is set. It reports whether a fetch ran.
func (v *View[T]) Sync(ctx context.Context, round models.Round, changed bool) (bool, error) {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return false, nil
	}
	key := v.keyFor(round)
	if key == v.key && !changed {
		v.mu.Unlock()
		return false, nil
	}
	v.round = round
	v.key = key
	v.mu.Unlock()
	return true, v.Refetch(ctx)
}

// Refetch loads the page again for the current key. Results of an older
// fetch, or of a fetch that finished after the key moved or the view was
// unmounted, are discarded.
func (v *View[T]) Refetch(ctx context.Context) error {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return ErrNotMounted
	}
	v.seq++
	seq, key, round := v.seq, v.key, v.round
	v.snap.Loading = true
	v.mu.Unlock()

	data, err := v.load(ctx, key, round)

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || seq != v.seq || key != v.key {
		log.Debug().
			Str("page", string(v.name)).
			Uint64("seq", seq).
			Msg("discarding stale page data")
		return nil
	}

	v.snap.Loading = false
	v.snap.Key = key
	v.snap.FetchedAt = v.now()
	if err != nil {
		v.snap.Err = err
		log.Warn().Err(err).Str("page", string(v.name)).Int("round_id", key.RoundID).Msg("failed to load page")
		return fmt.Errorf("failed to load %s page: %w", v.name, err)
	}
	v.snap.Err = nil
	v.snap.Data = data
	v.snap.Loaded = true
	return nil
}

// Unmount drops the data and invalidates fetches still in flight.
func (v *View[T]) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = false
	v.seq++
	v.key = Key{}
	v.snap = Snapshot[T]{}
}

func (v *View[T]) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

// Snapshot returns the current page state.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}
