package roundinfo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrNotRunning is returned by Stop when the poller was never started.
var ErrNotRunning = errors.New("round poller not running")

// RoundFetcher defines what the poller needs from the backend client
type RoundFetcher interface {
	GetRoundInfo(ctx context.Context) (*models.Round, error)
}

// Config holds poller timings
type Config struct {
	Interval     time.Duration `yaml:"interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	RefreshEvery time.Duration `yaml:"refresh_every"` // minimum spacing of out-of-band refreshes
	RefreshBurst int           `yaml:"refresh_burst"`
}

// DefaultConfig polls every 10 seconds with a 5 second fetch timeout.
func DefaultConfig() Config {
	return Config{
		Interval:     10 * time.Second,
		FetchTimeout: 5 * time.Second,
		RefreshEvery: time.Second,
		RefreshBurst: 3,
	}
}

// Poller keeps the store in sync with get-round-info.
type Poller struct {
	fetcher    RoundFetcher
	store      *Store
	config     Config
	clock      clockwork.Clock
	limiter    *rate.Limiter
	instanceID string

	seq       atomic.Uint64
	polls     atomic.Uint64
	refreshCh chan struct{}

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option customizes a Poller
type Option func(*Poller)

// WithClock replaces the real clock, mainly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(p *Poller) {
		p.clock = clock
	}
}

// NewPoller creates a poller that writes into store.
func NewPoller(fetcher RoundFetcher, store *Store, config Config, opts ...Option) *Poller {
	defaults := DefaultConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.FetchTimeout <= 0 {
		config.FetchTimeout = defaults.FetchTimeout
	}
	if config.RefreshEvery <= 0 {
		config.RefreshEvery = defaults.RefreshEvery
	}
	if config.RefreshBurst <= 0 {
		config.RefreshBurst = defaults.RefreshBurst
	}

	p := &Poller{
		fetcher:    fetcher,
		store:      store,
		config:     config,
		clock:      clockwork.NewRealClock(),
		limiter:    rate.NewLimiter(rate.Every(config.RefreshEvery), config.RefreshBurst),
		instanceID: uuid.New().String()[:8],
		refreshCh:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the store the poller writes to.
func (p *Poller) Store() *Store {
	return p.store
}

// Start launches the poll loop. Calling Start on a running poller is a
// no-op and reports false, so there is never more than one interval.
func (p *Poller) Start(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		log.Debug().Str("instance", p.instanceID).Msg("round poller already running")
		return false
	}

	// drop a refresh left over from the previous run
	select {
	case <-p.refreshCh:
	default:
	}

	loopCtx, cancel := context.WithCancel(ctx)
	ticker := p.clock.NewTicker(p.config.Interval)
	done := make(chan struct{})

	p.running = true
	p.cancel = cancel
	p.done = done

	go p.run(loopCtx, ticker, done)

	log.Info().
		Str("instance", p.instanceID).
		Dur("interval", p.config.Interval).
		Msg("round poller started")
	return true
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done

	log.Info().Str("instance", p.instanceID).Msg("round poller stopped")
	return nil
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Polls returns how many fetches have been issued.
func (p *Poller) Polls() uint64 {
	return p.polls.Load()
}

// Refresh asks the loop for an immediate poll. Requests are coalesced and
// throttled; it reports whether the request was accepted. A stopped poller
// accepts nothing.
func (p *Poller) Refresh() bool {
	if !p.Running() {
		return false
	}
	if !p.limiter.AllowN(p.clock.Now(), 1) {
		log.Debug().Str("instance", p.instanceID).Msg("round refresh throttled")
		return false
	}
	select {
	case p.refreshCh <- struct{}{}:
	default:
		// one refresh already pending
	}
	return true
}

// PollOnce fetches synchronously. It shares sequence numbers with the loop,
// so a slower concurrent fetch can never overwrite this result.
func (p *Poller) PollOnce(ctx context.Context) error {
	seq := p.seq.Add(1)
	p.polls.Add(1)
	p.store.Dispatch(FetchStarted{Seq: seq})

	fetchCtx, cancel := context.WithTimeout(ctx, p.config.FetchTimeout)
	defer cancel()

	round, err := p.fetcher.GetRoundInfo(fetchCtx)
	if err == nil && round == nil {
		err = errors.New("empty round info")
	}
	if err != nil {
		log.Warn().
			Err(err).
			Str("instance", p.instanceID).
			Uint64("seq", seq).
			Msg("failed to fetch round info")
		p.store.Dispatch(FetchFailed{Seq: seq, Err: err, At: p.clock.Now()})
		return err
	}

	log.Debug().
		Str("instance", p.instanceID).
		Uint64("seq", seq).
		Int("round", round.Number).
		Str("stage", string(round.Stage)).
		Msg("fetched round info")
	p.store.Dispatch(FetchSucceeded{Seq: seq, Round: round, At: p.clock.Now()})
	return nil
}

func (p *Poller) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer func() {
		ticker.Stop()
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		close(done)
	}()

	// Poll immediately on start
	_ = p.PollOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			_ = p.PollOnce(ctx)
		case <-p.refreshCh:
			_ = p.PollOnce(ctx)
		}
	}
}
