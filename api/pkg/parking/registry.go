package parking

import (
	"sync"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog/log"
)

// transitions is the finite state machine's transition table: source state
// to the set of states a user-requested transition may land on. Rollback
// operates outside this table entirely (see rollback.go).
var transitions = map[types.RequestState][]types.RequestState{
	types.StateRequested: {types.StateAllocated, types.StateCancelled},
	types.StateAllocated: {types.StateOccupied, types.StateCancelled},
	types.StateOccupied:  {types.StateReleased},
	types.StateReleased:  {},
	types.StateCancelled: {},
}

func allowed(from, to types.RequestState) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Registry holds request records keyed by id and enforces the FSM in
// §4.2: every mutation to a request's state goes through here. The
// id->record map is an *xsync.MapOf, the same concurrent map this
// codebase's scheduler package keys its runner and slot records by; a
// plain mutex only remains around `order`, which a concurrent map can't
// give us for free.
type Registry struct {
	mu       sync.Mutex
	requests *xsync.MapOf[string, *types.Request]
	order    []string
}

// NewRegistry returns an empty request registry.
func NewRegistry() *Registry {
	return &Registry{
		requests: xsync.NewMapOf[string, *types.Request](),
	}
}

// Create inserts a brand new request in REQUESTED, the FSM's only initial
// state.
func (r *Registry) Create(req *types.Request) {
	req.State = types.StateRequested
	r.requests.Store(req.ID, req)

	r.mu.Lock()
	r.order = append(r.order, req.ID)
	r.mu.Unlock()
}

// Get returns a copy of the request, or ErrNotFound.
func (r *Registry) Get(id string) (*types.Request, error) {
	req, ok := r.requests.Load(id)
	if !ok {
		return nil, notFoundf("request %q", id)
	}
	return req.Clone(), nil
}

// All returns every request ever created, in creation order. Terminal-state
// requests are never removed, so analytics can walk the full history.
func (r *Registry) All() []*types.Request {
	r.mu.Lock()
	order := append([]string(nil), r.order...)
	r.mu.Unlock()

	out := make([]*types.Request, 0, len(order))
	for _, id := range order {
		if req, ok := r.requests.Load(id); ok {
			out = append(out, req.Clone())
		}
	}
	return out
}

// transition validates and applies a user-requested FSM move, running
// mutate only if the move is legal. mutate sees the live request so
// side-effects from §4.2 (timestamps, slot fields) land atomically with
// the state change.
func (r *Registry) transition(id string, to types.RequestState, mutate func(*types.Request)) (*types.Request, error) {
	req, ok := r.requests.Load(id)
	if !ok {
		return nil, notFoundf("request %q", id)
	}

	if !allowed(req.State, to) {
		return nil, invalidTransitionf(req.State, to)
	}

	from := req.State
	req.State = to
	if mutate != nil {
		mutate(req)
	}

	log.Trace().Str("request_id", id).Str("from", string(from)).Str("to", string(to)).Msg("request transitioned")

	return req.Clone(), nil
}

// restore is rollback's entry point: it bypasses the transition table
// entirely, per §4.2, to drive a request back to a previously recorded
// state.
func (r *Registry) restore(id string, to types.RequestState, mutate func(*types.Request)) error {
	req, ok := r.requests.Load(id)
	if !ok {
		return notFoundf("request %q", id)
	}
	req.State = to
	if mutate != nil {
		mutate(req)
	}
	return nil
}
