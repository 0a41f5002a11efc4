package views

import (
	"context"
	"sync"

	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/rs/zerolog/log"
)

// Navigator owns the current page and keeps it in step with the round store.
// It only subscribes to the store; the poll interval belongs to the poller.
type Navigator struct {
	store  *roundinfo.Store
	pages  map[PageName]Page
	follow bool

	// nav serializes navigation with page syncs so only the current page is
	// ever mounted.
	nav sync.Mutex

	mu      sync.Mutex
	current Page
}

// NavigatorOption customizes a Navigator
type NavigatorOption func(*Navigator)

// FollowStage switches pages automatically when the stage changes.
func FollowStage(follow bool) NavigatorOption {
	return func(n *Navigator) {
		n.follow = follow
	}
}

// NewNavigator registers pages by name.
func NewNavigator(store *roundinfo.Store, pages []Page, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		store: store,
		pages: make(map[PageName]Page, len(pages)),
	}
	for _, p := range pages {
		n.pages[p.Name()] = p
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Current returns the page being shown, or nil.
func (n *Navigator) Current() Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Page looks up a registered page.
func (n *Navigator) Page(name PageName) (Page, bool) {
	p, ok := n.pages[name]
	return p, ok
}

// Navigate unmounts the current page and mounts name. Without a round yet,
// the page is mounted once the first snapshot arrives. Navigating to the
// page already shown reloads it for the latest round.
func (n *Navigator) Navigate(ctx context.Context, name PageName) error {
	next, ok := n.pages[name]
	if !ok {
		return ErrUnknownPage
	}

	n.nav.Lock()
	defer n.nav.Unlock()
	return n.navigateLocked(ctx, next)
}

func (n *Navigator) navigateLocked(ctx context.Context, next Page) error {
	n.mu.Lock()
	prev := n.current
	n.current = next
	n.mu.Unlock()

	if prev != nil && prev != next {
		prev.Unmount()
	}

	round := n.store.State().Round
	if round == nil {
		log.Debug().Str("page", string(next.Name())).Msg("waiting for round info before loading page")
		return nil
	}
	if next.Mounted() {
		_, err := next.Sync(ctx, *round, true)
		return err
	}
	return next.Mount(ctx, *round)
}

// RefetchCurrent reloads the current page, if it is mounted.
func (n *Navigator) RefetchCurrent(ctx context.Context) error {
	n.nav.Lock()
	defer n.nav.Unlock()

	page := n.Current()
	if page == nil || !page.Mounted() {
		return nil
	}
	return page.Refetch(ctx)
}

// Run follows store updates until ctx is done.
func (n *Navigator) Run(ctx context.Context) error {
	updates, unsubscribe := n.store.Subscribe(4)
	defer unsubscribe()

	// catch up with a round fetched before we subscribed
	if state := n.store.State(); state.Round != nil {
		n.apply(ctx, roundinfo.Update{State: state, Transition: state.Changed})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			n.apply(ctx, u)
		}
	}
}

func (n *Navigator) apply(ctx context.Context, u roundinfo.Update) {
	round := u.State.Round
	if round == nil {
		return
	}

	n.nav.Lock()
	defer n.nav.Unlock()

	if u.Transition && n.follow {
		target := PageForStage(round.Stage)
		if cur := n.Current(); cur == nil || cur.Name() != target {
			if next, ok := n.pages[target]; ok {
				if err := n.navigateLocked(ctx, next); err != nil {
					log.Warn().Err(err).Str("page", string(target)).Msg("failed to follow stage")
				}
				n.store.Acknowledge(u.State.Generation)
				return
			}
		}
	}

	page := n.Current()
	if page == nil {
		return
	}
	var err error
	if !page.Mounted() {
		err = page.Mount(ctx, *round)
	} else {
		_, err = page.Sync(ctx, *round, u.Transition)
	}
	if err != nil {
		log.Warn().Err(err).Str("page", string(page.Name())).Msg("failed to sync page")
	}
	if u.Transition {
		n.store.Acknowledge(u.State.Generation)
	}
}
