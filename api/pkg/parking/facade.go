// Package parking implements the Smart Parking Allocation engine's core:
// a deterministic, single-process, in-memory resource allocator that binds
// parking requests to slots under a same-zone-first / adjacent-zone
// fallback policy, drives each request through a strict lifecycle state
// machine, and supports bounded undo of prior allocations.
package parking

import (
	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/rs/zerolog/log"
)

// Engine is the façade described in the design doc: the only exported
// entry point for mutating state. Topology, Registry, Allocator, and
// RollbackLog are internal collaborators it owns and wires together so
// invariants stay centralized instead of duplicated across callers.
type Engine struct {
	topology  *Topology
	registry  *Registry
	allocator *Allocator
	log       *RollbackLog
	analytics *Analytics
	clock     Clock
	reqIDs    *IDGenerator
	vehicles  map[string]types.Vehicle
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	clock   Clock
	penalty int
}

// WithClock overrides the default system clock; tests use this to get a
// deterministic, strictly increasing timestamp sequence.
func WithClock(c Clock) Option {
	return func(cfg *engineConfig) { cfg.clock = c }
}

// WithCrossZonePenalty overrides DefaultCrossZonePenalty.
func WithCrossZonePenalty(p int) Option {
	return func(cfg *engineConfig) { cfg.penalty = p }
}

// NewEngine wires the four core components (plus analytics) in dependency
// order: Topology Store, Request Registry, Rollback Log, Allocation
// Engine, façade.
func NewEngine(opts ...Option) *Engine {
	cfg := engineConfig{clock: SystemClock, penalty: DefaultCrossZonePenalty}
	for _, opt := range opts {
		opt(&cfg)
	}

	topology := NewTopology()
	registry := NewRegistry()
	rollbackLog := NewRollbackLog(topology, registry)
	allocator := NewAllocator(topology, registry, rollbackLog, cfg.clock, cfg.penalty)

	return &Engine{
		topology:  topology,
		registry:  registry,
		allocator: allocator,
		log:       rollbackLog,
		analytics: NewAnalytics(topology, registry),
		clock:     cfg.clock,
		reqIDs:    NewIDGenerator("REQ"),
		vehicles:  make(map[string]types.Vehicle),
	}
}

// AddZone is topology admin: it loads (or, by re-adding an id, replaces) a
// zone before operations are driven against it. Re-adding an id with live
// references is the host's responsibility, per the design doc.
func (e *Engine) AddZone(zone types.Zone) {
	e.topology.AddZone(zone)
}

// AddVehicle is topology admin for the vehicle catalog.
func (e *Engine) AddVehicle(vehicle types.Vehicle) {
	e.vehicles[vehicle.ID] = vehicle
}

// CreateRequest always succeeds for well-formed ids: it produces a request
// in REQUESTED, assigns a stable id, and records the request time.
func (e *Engine) CreateRequest(vehicleID, requestedZoneID string) (*types.Request, error) {
	if vehicleID == "" || requestedZoneID == "" {
		return nil, ErrMalformedInput
	}

	req := &types.Request{
		ID:              e.reqIDs.Next(),
		VehicleID:       vehicleID,
		RequestedZoneID: requestedZoneID,
		RequestTime:     e.clock(),
	}
	e.registry.Create(req)

	log.Trace().Str("request_id", req.ID).Str("vehicle_id", vehicleID).Str("zone_id", requestedZoneID).Msg("request created")

	return req.Clone(), nil
}

// Allocate binds requestID to a slot per the same-zone/adjacent-zone
// policy. Possible failures: NotFound, InvalidTransition, NoAvailableSlots.
func (e *Engine) Allocate(requestID string) (*types.Result, error) {
	req, msg, err := e.allocator.Allocate(requestID)
	if err != nil {
		return nil, err
	}
	return &types.Result{Success: true, Message: msg, Request: req}, nil
}

// Occupy marks an allocated request as occupied. Failures: NotFound,
// InvalidTransition.
func (e *Engine) Occupy(requestID string) (*types.Result, error) {
	now := e.clock()
	req, err := e.registry.transition(requestID, types.StateOccupied, func(r *types.Request) {
		r.OccupiedTime = now
	})
	if err != nil {
		return nil, err
	}
	return &types.Result{Success: true, Message: "request occupied", Request: req}, nil
}

// Release frees the slot held by an occupied request. Failures: NotFound,
// InvalidTransition.
func (e *Engine) Release(requestID string) (*types.Result, error) {
	now := e.clock()

	req, err := e.registry.Get(requestID)
	if err != nil {
		return nil, err
	}
	slotID := req.AllocatedSlotID

	updated, err := e.registry.transition(requestID, types.StateReleased, func(r *types.Request) {
		r.ReleaseTime = now
	})
	if err != nil {
		return nil, err
	}

	if slotID != "" {
		if serr := e.topology.setSlotAvailability(slotID, true); serr != nil {
			log.Warn().Err(serr).Str("slot_id", slotID).Msg("release could not free slot")
		}
	}

	return &types.Result{Success: true, Message: "request released", Request: updated}, nil
}

// Cancel aborts a request that has not yet been occupied. If a slot was
// already allocated (REQUESTED->CANCELLED never holds a slot; only
// ALLOCATED->CANCELLED does), it is freed. AllocatedSlotID is kept as a
// historical record and not cleared. Failures: NotFound, InvalidTransition.
func (e *Engine) Cancel(requestID string) (*types.Result, error) {
	before, err := e.registry.Get(requestID)
	if err != nil {
		return nil, err
	}
	hadSlot := before.State == types.StateAllocated
	slotID := before.AllocatedSlotID

	updated, err := e.registry.transition(requestID, types.StateCancelled, nil)
	if err != nil {
		return nil, err
	}

	if hadSlot && slotID != "" {
		if serr := e.topology.setSlotAvailability(slotID, true); serr != nil {
			log.Warn().Err(serr).Str("slot_id", slotID).Msg("cancel could not free slot")
		}
	}

	return &types.Result{Success: true, Message: "request cancelled", Request: updated}, nil
}

// Rollback undoes up to k allocation operations. It never fails in a
// structured sense; asking for more than the log holds just undoes
// everything available.
func (e *Engine) Rollback(k int) types.RollbackResult {
	return e.log.Rollback(k)
}

// Analytics returns the current derived statistics.
func (e *Engine) Analytics() types.Analytics {
	return e.analytics.Compute()
}

// Zones returns the loaded zones in declared order.
func (e *Engine) Zones() []types.Zone {
	return e.topology.Zones()
}

// Vehicles returns the loaded vehicle catalog. Order is not contractual.
func (e *Engine) Vehicles() []types.Vehicle {
	out := make([]types.Vehicle, 0, len(e.vehicles))
	for _, v := range e.vehicles {
		out = append(out, v)
	}
	return out
}

// Requests returns every request ever created, in creation order.
func (e *Engine) Requests() []*types.Request {
	return e.registry.All()
}

// History returns the rollback log's entries in append order.
func (e *Engine) History() []types.OperationRecord {
	return e.log.Snapshot()
}
