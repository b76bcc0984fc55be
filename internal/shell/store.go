package shell

import "sync"

// Store is the single authoritative holder of a session's State. Dispatch
// serializes transitions: they never interleave, apply in lock-acquisition
// order, and the new state is installed before Dispatch returns. The store
// owns no goroutines, timers or I/O.
type Store struct {
	mu    sync.Mutex
	state State
	subs  []chan struct{}
}

// NewStore creates a store with an empty transcript, an empty command
// table, an empty stack and input enabled.
func NewStore() *Store {
	return &Store{state: State{Commands: CommandTable{}}}
}

// Dispatch applies the action and wakes subscribers. Safe for concurrent
// use from any goroutine.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	subs := s.subs
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
			// A wakeup is already pending; the reader will re-snapshot.
		}
	}
}

// Snapshot returns the current state. Reduce never mutates shared memory,
// so the returned value can be read and extended freely.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a wakeup channel signalled after every Dispatch.
// Wakeups coalesce: a burst of dispatches may deliver a single signal, so
// readers must re-read via Snapshot rather than count messages.
// Subscriptions last for the life of the store.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}
