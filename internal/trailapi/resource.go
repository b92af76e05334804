package trailapi

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/pkordes/trails/internal/domain"
)

// Status is the phase of a Resource's fetch lifecycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Reason classifies the error of a State in StatusError.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonRequest
	ReasonValidation
)

func (r Reason) String() string {
	switch r {
	case ReasonRequest:
		return "request_error"
	case ReasonValidation:
		return "validation_error"
	default:
		return "none"
	}
}

// State is a snapshot of a Resource. Trails is set only in StatusSuccess and
// Err only in StatusError.
type State struct {
	Status Status
	Trails []domain.Trail
	Err    error
}

// Reason reports why the state is an error, or ReasonNone.
func (s State) Reason() Reason {
	switch {
	case s.Status != StatusError:
		return ReasonNone
	case errors.Is(s.Err, domain.ErrValidation):
		return ReasonValidation
	default:
		return ReasonRequest
	}
}

// FetchFunc loads the current trail list.
type FetchFunc func(ctx context.Context) ([]domain.Trail, error)

// Resource holds the latest result of a trail fetch and notifies subscribers
// on every transition. At most one fetch is in flight at a time.
type Resource struct {
	fetch FetchFunc

	mu       sync.Mutex
	state    State
	done     chan struct{} // non-nil while a fetch is in flight
	subs     map[int]func(State)
	nextID   int
	pending  []notification
	draining bool
}

// notification is a queued delivery of state to the subscribers in ids.
type notification struct {
	state State
	ids   []int
}

// NewResource returns an idle Resource backed by fetch.
func NewResource(fetch FetchFunc) *Resource {
	return &Resource{fetch: fetch, subs: make(map[int]func(State))}
}

// State returns the current snapshot without blocking.
func (r *Resource) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.clone()
}

// Load returns the settled state, starting the first fetch if the resource
// is still idle and joining a fetch already in flight. A settled resource is
// returned as-is; use Reload to fetch again.
//
// If ctx ends before the fetch settles, Load returns the current (loading)
// state. A fetch started by Load runs under ctx, so cancelling it settles the
// resource in StatusError.
func (r *Resource) Load(ctx context.Context) State {
	return r.run(ctx, false)
}

// Reload starts a new fetch and waits for it to settle. If a fetch is
// already in flight, Reload waits for that one instead of starting another.
func (r *Resource) Reload(ctx context.Context) State {
	return r.run(ctx, true)
}

// Subscribe registers fn for state transitions. fn first receives the state
// current at subscription and then every later transition, in order.
// Callbacks are never run concurrently with each other, but may run on
// whichever goroutine is delivering. The returned function removes the
// subscription.
func (r *Resource) Subscribe(fn func(State)) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.pending = append(r.pending, notification{state: r.state.clone(), ids: []int{id}})
	r.mu.Unlock()
	r.deliver()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

func (r *Resource) run(ctx context.Context, force bool) State {
	r.mu.Lock()
	if r.done != nil {
		done := r.done
		r.mu.Unlock()
		return r.wait(ctx, done)
	}
	if !force && r.state.Status != StatusIdle {
		s := r.state.clone()
		r.mu.Unlock()
		return s
	}

	done := make(chan struct{})
	r.done = done
	r.transitionLocked(State{Status: StatusLoading})
	r.mu.Unlock()
	r.deliver()

	go r.complete(ctx, done)
	return r.wait(ctx, done)
}

// complete performs the fetch and settles the resource. It runs on its own
// goroutine so a waiter whose context ends can return early.
func (r *Resource) complete(ctx context.Context, done chan struct{}) {
	trails, err := r.fetch(ctx)

	next := State{Status: StatusSuccess, Trails: trails}
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrRequest) {
			err = &domain.RequestError{Err: err}
		}
		next = State{Status: StatusError, Err: err}
	} else if next.Trails == nil {
		next.Trails = []domain.Trail{}
	}

	r.mu.Lock()
	r.done = nil
	r.transitionLocked(next)
	r.mu.Unlock()

	// Subscribers hear about the settled state before waiters wake, unless
	// another goroutine is mid-delivery and takes it over.
	r.deliver()
	close(done)
}

// transitionLocked stores s and queues it for every current subscriber.
// Callers hold mu and call deliver after releasing it.
func (r *Resource) transitionLocked(s State) {
	r.state = s
	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	r.pending = append(r.pending, notification{state: s.clone(), ids: ids})
}

// deliver drains the notification queue. Only one goroutine drains at a
// time; others return immediately and leave their notifications to it.
func (r *Resource) deliver() {
	r.mu.Lock()
	if r.draining {
		r.mu.Unlock()
		return
	}
	r.draining = true
	for len(r.pending) > 0 {
		n := r.pending[0]
		r.pending = r.pending[1:]
		fns := make([]func(State), 0, len(n.ids))
		for _, id := range n.ids {
			if fn, ok := r.subs[id]; ok {
				fns = append(fns, fn)
			}
		}
		r.mu.Unlock()
		for _, fn := range fns {
			fn(n.state.clone())
		}
		r.mu.Lock()
	}
	r.draining = false
	r.mu.Unlock()
}

func (r *Resource) wait(ctx context.Context, done <-chan struct{}) State {
	select {
	case <-done:
	case <-ctx.Done():
	}
	return r.State()
}

func (s State) clone() State {
	if s.Trails != nil {
		s.Trails = slices.Clone(s.Trails)
	}
	return s
}
