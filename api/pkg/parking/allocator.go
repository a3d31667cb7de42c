package parking

import (
	"errors"
	"fmt"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/rs/zerolog/log"
)

// DefaultCrossZonePenalty is the penalty applied when a request falls back
// to an adjacent zone, used unless the engine is constructed with another
// value.
const DefaultCrossZonePenalty = 10

// Allocator implements the same-zone-first / adjacent-zone-fallback policy
// described in the design doc. It never considers vehicle preference,
// occupancy history, or zones beyond the requested zone's direct
// neighbors; tie-break is strictly declared order.
type Allocator struct {
	topology *Topology
	registry *Registry
	log      *RollbackLog
	clock    Clock
	opIDs    *IDGenerator
	penalty  int
}

// NewAllocator wires the allocation engine to its collaborators.
func NewAllocator(topology *Topology, registry *Registry, log *RollbackLog, clock Clock, penalty int) *Allocator {
	return &Allocator{
		topology: topology,
		registry: registry,
		log:      log,
		clock:    clock,
		opIDs:    NewIDGenerator("OP"),
		penalty:  penalty,
	}
}

// Allocate assigns a free slot to requestID, preferring the requested zone
// and falling back to the first adjacent zone (in stored order) that has
// any available slot. It writes exactly one rollback-log entry on success.
func (a *Allocator) Allocate(requestID string) (*types.Request, string, error) {
	req, err := a.registry.Get(requestID)
	if err != nil {
		return nil, "", err
	}
	if req.State != types.StateRequested {
		return nil, "", invalidTransitionf(req.State, types.StateAllocated)
	}

	slot, zoneID, crossZone, err := a.pickSlot(req.RequestedZoneID)
	if err != nil {
		return nil, "", err
	}

	penalty := 0
	if crossZone {
		penalty = a.penalty
	}

	preSlotState := slot.Available // true, captured before the mutation below
	preReqState := req.State
	now := a.clock()

	if err := a.topology.setSlotAvailability(slot.ID, false); err != nil {
		return nil, "", err
	}

	updated, err := a.registry.transition(requestID, types.StateAllocated, func(r *types.Request) {
		r.AllocatedSlotID = slot.ID
		r.AllocatedZoneID = zoneID
		r.AllocationTime = now
		r.CrossZone = crossZone
		r.CrossZonePenalty = penalty
	})
	if err != nil {
		// Undo the slot flip: the façade operation must be all-or-nothing.
		if rerr := a.topology.setSlotAvailability(slot.ID, true); rerr != nil {
			log.Error().Err(rerr).Str("slot_id", slot.ID).Msg("failed to roll back partial allocation")
		}
		return nil, "", err
	}

	a.log.append(operationEntry{
		record: types.OperationRecord{
			ID:                a.opIDs.Next(),
			RequestID:         requestID,
			SlotID:            slot.ID,
			PreviousSlotState: preSlotState,
			PreviousReqState:  preReqState,
			Timestamp:         now,
		},
	})

	msg := fmt.Sprintf("allocated slot %s in zone %s", slot.ID, zoneID)
	if crossZone {
		msg = fmt.Sprintf("allocated slot %s in adjacent zone %s (cross-zone penalty %d)", slot.ID, zoneID, penalty)
	}

	log.Trace().
		Str("request_id", requestID).
		Str("slot_id", slot.ID).
		Str("zone_id", zoneID).
		Bool("cross_zone", crossZone).
		Msg("allocation succeeded")

	return updated, msg, nil
}

// pickSlot applies the same-zone/adjacent-zone policy and returns the
// chosen slot, the zone it came from, and whether that zone was a fallback.
func (a *Allocator) pickSlot(requestedZoneID string) (types.Slot, string, bool, error) {
	available, err := a.topology.AvailableSlotsInZone(requestedZoneID)
	if err != nil {
		return types.Slot{}, "", false, err
	}
	if len(available) > 0 {
		return available[0], requestedZoneID, false, nil
	}

	adjacent, err := a.topology.AdjacentZones(requestedZoneID)
	if err != nil {
		return types.Slot{}, "", false, err
	}

	for _, zoneID := range adjacent {
		slots, err := a.topology.AvailableSlotsInZone(zoneID)
		if err != nil {
			// An adjacency entry pointing at a zone the host never loaded is
			// treated as an empty zone, not a hard failure.
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return types.Slot{}, "", false, err
		}
		if len(slots) > 0 {
			return slots[0], zoneID, true, nil
		}
	}

	return types.Slot{}, "", false, fmt.Errorf("zone %q and its adjacent zones: %w", requestedZoneID, ErrNoAvailableSlots)
}
