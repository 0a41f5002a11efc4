package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type navFixture struct {
	api   *fakeAPI
	store *roundinfo.Store
	nav   *Navigator
	seq   uint64
}

func newNavFixture(t *testing.T, opts ...NavigatorOption) *navFixture {
	t.Helper()
	api := newFakeAPI()
	store := roundinfo.NewStore()
	pages := []Page{
		NewTrackPage(api, "aaa"),
		NewBetPage(api, "aaa"),
		NewJoustPage(api, "aaa"),
		NewBonusPage(api, "aaa"),
		NewResultsPage(api, "aaa"),
	}
	api.results = &models.TournamentResults{}
	return &navFixture{api: api, store: store, nav: NewNavigator(store, pages, opts...)}
}

func (f *navFixture) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.nav.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, func() bool { return f.store.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
}

func (f *navFixture) publish(r models.Round) {
	f.seq++
	f.store.Dispatch(roundinfo.FetchSucceeded{Seq: f.seq, Round: &r, At: time.Now()})
}

func TestNavigator_UnknownPage(t *testing.T) {
	f := newNavFixture(t)
	assert.ErrorIs(t, f.nav.Navigate(context.Background(), PageDashboard), ErrUnknownPage)
	assert.Nil(t, f.nav.Current())
}

func TestNavigator_MountsOnFirstRound(t *testing.T) {
	f := newNavFixture(t)
	require.NoError(t, f.nav.Navigate(context.Background(), PageTrack))
	assert.False(t, f.nav.Current().Mounted())

	f.run(t)
	f.publish(round(1, 1, models.StageBetting))

	require.Eventually(t, func() bool { return f.nav.Current().Mounted() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.api.teamLoads())
}

func TestNavigator_RefetchesOnTransitionOnly(t *testing.T) {
	f := newNavFixture(t)
	f.publish(round(1, 1, models.StageBetting))
	require.NoError(t, f.nav.Navigate(context.Background(), PageTrack))
	require.Equal(t, 1, f.api.teamLoads())
	f.store.Acknowledge(f.store.State().Generation)

	f.run(t)

	// same round again: no transition, no refetch
	f.publish(round(1, 1, models.StageBetting))
	require.Eventually(t, func() bool { return !f.store.State().Changed }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.api.teamLoads())

	f.publish(round(1, 1, models.StageJoust))
	require.Eventually(t, func() bool { return f.api.teamLoads() == 2 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return !f.store.State().Changed }, time.Second, 5*time.Millisecond)
	assert.Equal(t, PageTrack, f.nav.Current().Name())
}

func TestNavigator_FollowStage(t *testing.T) {
	f := newNavFixture(t, FollowStage(true))
	require.NoError(t, f.nav.Navigate(context.Background(), PageTrack))
	track := f.nav.Current()
	f.run(t)

	f.publish(round(1, 1, models.StageBetting))
	require.Eventually(t, func() bool {
		cur := f.nav.Current()
		return cur.Name() == PageBet && cur.Mounted()
	}, time.Second, 5*time.Millisecond)
	assert.False(t, track.Mounted())

	f.publish(round(1, 1, models.StageJoust))
	require.Eventually(t, func() bool { return f.nav.Current().Name() == PageJoust }, time.Second, 5*time.Millisecond)

	f.publish(round(1, 1, models.StageFinished))
	require.Eventually(t, func() bool { return f.nav.Current().Name() == PageResults }, time.Second, 5*time.Millisecond)

	bet, _ := f.nav.Page(PageBet)
	assert.False(t, bet.Mounted())
}

type roundSource struct {
	mu    sync.Mutex
	round models.Round
}

func (s *roundSource) GetRoundInfo(ctx context.Context) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.round
	return &r, nil
}

func TestNavigator_NavigationDoesNotLeakIntervals(t *testing.T) {
	f := newNavFixture(t)
	clock := clockwork.NewFakeClock()
	poller := roundinfo.NewPoller(&roundSource{round: round(1, 1, models.StageBetting)}, f.store, roundinfo.DefaultConfig(), roundinfo.WithClock(clock))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.True(t, poller.Start(ctx))
	t.Cleanup(func() { _ = poller.Stop() })

	f.run(t)
	require.Eventually(t, func() bool { return f.store.State().Round != nil }, time.Second, 5*time.Millisecond)

	for _, name := range []PageName{PageTrack, PageBet, PageJoust, PageTrack, PageBonus} {
		require.NoError(t, f.nav.Navigate(ctx, name))
	}
	assert.False(t, poller.Start(ctx), "poller must still be the only interval")

	waitCtx, waitCancel := context.WithTimeout(ctx, 2*time.Second)
	defer waitCancel()
	require.NoError(t, clock.BlockUntilContext(waitCtx, 1))

	clock.Advance(10 * time.Second)
	require.Eventually(t, func() bool { return poller.Polls() == 2 }, time.Second, 5*time.Millisecond)

	clock.Advance(10 * time.Second)
	require.Eventually(t, func() bool { return poller.Polls() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(3), poller.Polls())
}

// slowPage widens the window between checking and changing mount state.
type slowPage struct {
	Page
}

func (p slowPage) Mounted() bool {
	time.Sleep(time.Millisecond)
	return p.Page.Mounted()
}

func TestNavigator_ConcurrentNavigateLeavesOnlyCurrentMounted(t *testing.T) {
	api := newFakeAPI()
	store := roundinfo.NewStore()
	store.Dispatch(roundinfo.FetchSucceeded{Seq: 1, Round: &models.Round{RoundID: 1, Number: 1, Stage: models.StageBetting}, At: time.Now()})

	track := slowPage{NewTrackPage(api, "aaa")}
	bet := slowPage{NewBetPage(api, "aaa")}
	nav := NewNavigator(store, []Page{track, bet})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, nav.Navigate(ctx, PageTrack))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, nav.Navigate(ctx, PageBet))
		}()
		wg.Wait()

		cur := nav.Current()
		require.NotNil(t, cur)
		assert.True(t, cur.Mounted())
		for _, p := range []Page{track, bet} {
			if p.Name() != cur.Name() {
				assert.False(t, p.Mounted(), "iteration %d: %s mounted while %s is current", i, p.Name(), cur.Name())
			}
		}
	}
}

func TestNavigator_RenavigateUsesLatestRound(t *testing.T) {
	f := newNavFixture(t)
	f.publish(round(1, 1, models.StageBetting))
	require.NoError(t, f.nav.Navigate(context.Background(), PageTrack))

	track, _ := f.nav.Page(PageTrack)
	view := track.(*View[TrackData])
	assert.Equal(t, 1, view.Snapshot().Key.RoundID)

	f.publish(round(2, 2, models.StageBetting))
	require.NoError(t, f.nav.Navigate(context.Background(), PageTrack))
	assert.Equal(t, 2, view.Snapshot().Key.RoundID)
	assert.Equal(t, 2, f.api.teamLoads())

	require.NoError(t, f.nav.Navigate(context.Background(), PageBet))
	f.publish(round(3, 3, models.StageBetting))
	require.NoError(t, f.nav.Navigate(context.Background(), PageTrack))
	assert.Equal(t, 3, view.Snapshot().Key.RoundID)
}
