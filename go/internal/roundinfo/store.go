package roundinfo

import (
	"sync"

	"github.com/bday2025/tournament/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Update is delivered to subscribers after every dispatch that altered state.
type Update struct {
	State    State
	Previous *models.Round

	// Transition is true only for the dispatch that moved to a new round or stage.
	Transition bool
}

// Store holds the round state and fans updates out to subscribers.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[uint64]chan Update
	nextID uint64
}

// NewStore creates a store in the loading state.
func NewStore() *Store {
	return &Store{
		state: InitialState(),
		subs:  make(map[uint64]chan Update),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch runs the reducer and notifies subscribers when the state moved.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next

	if sameState(prev, next) {
		s.mu.Unlock()
		return next
	}

	update := Update{
		State:      next,
		Transition: next.Generation != prev.Generation,
		Previous:   prev.Round.Clone(),
	}
	// delivery never blocks, so it is safe under the lock and keeps
	// subscribers from seeing updates out of order
	for _, ch := range s.subs {
		deliver(ch, update)
	}
	s.mu.Unlock()

	if update.Transition {
		ev := log.Info().Int("generation", int(next.Generation))
		if next.Round != nil {
			ev = ev.Int("round", next.Round.Number).Str("stage", string(next.Round.Stage))
		}
		ev.Msg("round changed")
	}
	return next
}

func sameState(a, b State) bool {
	return a.Seq == b.Seq &&
		a.Generation == b.Generation &&
		a.Changed == b.Changed &&
		a.Loading == b.Loading
}

// deliver sends u without blocking; when the buffer is full the oldest
// pending update is dropped so the newest one always gets through.
func deliver(ch chan Update, u Update) {
	for {
		select {
		case ch <- u:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Subscribe registers a listener. The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Update, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Update, buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of registered listeners.
func (s *Store) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Acknowledge clears the change flag for generation.
func (s *Store) Acknowledge(generation uint64) State {
	return s.Dispatch(Acknowledge{Generation: generation})
}
