package store

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/connect/internal/shallow"
)

// Action describes a state transition.
type Action struct {
	Type    string
	Payload any
}

// Reducer computes the next state. It must not mutate state and must return
// state itself when the action does not apply.
type Reducer func(state any, action Action) any

// DispatchFunc dispatches an action and returns it.
type DispatchFunc func(action Action) Action

// Store is the contract the bindings consume. All methods must be safe to
// call from listeners.
type Store interface {
	// GetState returns the current state. It never blocks on listeners.
	GetState() any

	// Dispatch applies action and then notifies every subscriber.
	Dispatch(action Action) Action

	// Subscribe registers listener for change notifications. The returned
	// function removes it; calling it more than once is a no-op.
	Subscribe(listener func()) (unsubscribe func())
}

var _ Store = (*Reference)(nil)

// InitAction is dispatched by New to let the reducer produce its initial
// state.
const InitAction = "@@connect/INIT"

// Option configures a reference store.
type Option func(*Reference)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reference) {
		r.logger = logger
	}
}

// Reference is the reducer-based store returned by New.
type Reference struct {
	reducer Reducer
	logger  *slog.Logger

	// mu guards state and listeners so GetState may be called from any
	// goroutine.
	mu          sync.Mutex
	state       any
	listeners   []*listener
	dispatching atomic.Bool
	nextID      uint64
}

type listener struct {
	id     uint64
	fn     func()
	active atomic.Bool
}

// New creates a reference store. The reducer receives InitAction once with
// initial before New returns.
func New(reducer Reducer, initial any, opts ...Option) *Reference {
	r := &Reference{
		reducer: reducer,
		state:   initial,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.state = reducer(initial, Action{Type: InitAction})
	return r
}

// GetState returns the current state.
func (r *Reference) GetState() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Dispatch runs the reducer and notifies listeners registered at the time
// of the dispatch. Dispatch is not reentrant from reducers (that panics) and
// must be called from one goroutine at a time; listeners may dispatch.
func (r *Reference) Dispatch(action Action) Action {
	if r.dispatching.Load() {
		panic("store: reducers may not dispatch actions")
	}

	snapshot := r.reduce(action)

	r.logger.Debug("store dispatch", "action", action.Type, "listeners", len(snapshot))

	for _, l := range snapshot {
		// A listener removed by an earlier listener in this round is skipped.
		if l.active.Load() {
			l.fn()
		}
	}
	return action
}

// reduce applies action under the lock and returns the listeners to notify.
func (r *Reference) reduce(action Action) []*listener {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dispatching.Store(true)
	defer r.dispatching.Store(false)

	r.state = r.reducer(r.state, action)

	snapshot := make([]*listener, len(r.listeners))
	copy(snapshot, r.listeners)
	return snapshot
}

// Subscribe registers listener. The returned unsubscribe is idempotent.
func (r *Reference) Subscribe(fn func()) func() {
	r.mu.Lock()
	r.nextID++
	l := &listener{id: r.nextID, fn: fn}
	l.active.Store(true)
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()

	return func() {
		if !l.active.CompareAndSwap(true, false) {
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, other := range r.listeners {
			if other.id == l.id {
				r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of active subscriptions.
func (r *Reference) ListenerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Combine builds a reducer for map[string]any state where each key is owned
// by its own reducer. The combined state keeps its reference when no
// sub-reducer changed its slice.
func Combine(reducers map[string]Reducer) Reducer {
	return func(state any, action Action) any {
		prev, _ := state.(map[string]any)
		var next map[string]any
		for key, reducer := range reducers {
			before := prev[key]
			after := reducer(before, action)
			if next == nil && (prev == nil || !shallow.Identical(before, after)) {
				next = make(map[string]any, len(reducers))
				for k, v := range prev {
					next[k] = v
				}
			}
			if next != nil {
				next[key] = after
			}
		}
		if next == nil {
			return prev
		}
		// Keys processed before the first change were copied from prev.
		return next
	}
}
