package state

import (
	"sync"
	"time"

	"skoview/internal/preselect"

	"github.com/rs/zerolog/log"
)

// Observer is notified after every reduction with the states on both sides of it.
// Observers run while the store is locked and must not dispatch.
type Observer interface {
	Observe(a Action, before, after State, elapsed time.Duration)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(a Action, before, after State, elapsed time.Duration)

func (f ObserverFunc) Observe(a Action, before, after State, elapsed time.Duration) {
	f(a, before, after, elapsed)
}

// Store holds the current snapshot and applies actions one at a time.
type Store struct {
	mu        sync.Mutex
	reducer   Reducer
	current   State
	observers []Observer
}

// NewStore creates a store starting from the initial state of reg.
func NewStore(reg *preselect.Registry, observers ...Observer) *Store {
	return &Store{
		reducer:   NewReducer(reg),
		current:   Initial(reg),
		observers: observers,
	}
}

// Dispatch reduces a against the current snapshot, installs the result and returns it.
// Concurrent callers are serialized; no two reductions interleave.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.current
	start := time.Now()
	after := s.reducer.Reduce(before, a)
	elapsed := time.Since(start)
	s.current = after

	for _, o := range s.observers {
		o.Observe(a, before, after, elapsed)
	}
	return after
}

// Current returns the latest snapshot.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Preselects exposes the registry the store's reducer was built with.
func (s *Store) Preselects() *preselect.Registry {
	return s.reducer.Preselects
}

// LogObserver traces every reduction at debug level.
var LogObserver = ObserverFunc(func(a Action, before, after State, elapsed time.Duration) {
	ev := log.Debug().
		Str("action", a.Tag()).
		Dur("elapsed", elapsed)
	if before.ErrorMessage != after.ErrorMessage && after.ErrorMessage != "" {
		ev = ev.Str("errorMessage", after.ErrorMessage)
	}
	if before.View != after.View {
		ev = ev.Str("view", string(after.View))
	}
	ev.Msg("Reduced action")
})
