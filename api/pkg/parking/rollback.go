package parking

import (
	"sync"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/rs/zerolog/log"
)

// operationEntry is the rollback log's unit of work: enough information to
// invert one successful allocation.
type operationEntry struct {
	record types.OperationRecord
}

// RollbackLog is a last-in-first-out ordered log of allocation operations.
// It never records occupy/release/cancel — per the design doc, allocation
// is the only reversible operation this core supports.
type RollbackLog struct {
	mu       sync.Mutex
	entries  []operationEntry
	topology *Topology
	registry *Registry
}

// NewRollbackLog wires the log to the two components it rewinds.
func NewRollbackLog(topology *Topology, registry *Registry) *RollbackLog {
	return &RollbackLog{
		topology: topology,
		registry: registry,
	}
}

// append records one successful allocation. Called only by the allocator.
func (l *RollbackLog) append(e operationEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Size returns the number of undoable operations currently logged.
func (l *RollbackLog) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Snapshot returns the log's entries in append order.
func (l *RollbackLog) Snapshot() []types.OperationRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]types.OperationRecord, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.record
	}
	return out
}

// Rollback pops up to k entries (fewer if the log is shorter) and inverts
// each one against the Topology Store and Request Registry: it restores
// the slot's prior availability and resets the request to its prior
// state, clearing the allocation fields when that prior state is
// REQUESTED. Rollback always reports success; asking for more than the log
// holds just undoes everything available.
func (l *RollbackLog) Rollback(k int) types.RollbackResult {
	l.mu.Lock()
	n := k
	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n < 0 {
		n = 0
	}
	popped := l.entries[len(l.entries)-n:]
	l.entries = l.entries[:len(l.entries)-n]
	l.mu.Unlock()

	// Undo most-recent-first.
	for _, entry := range Reverse(popped) {
		rec := entry.record

		if err := l.topology.setSlotAvailability(rec.SlotID, rec.PreviousSlotState); err != nil {
			log.Warn().Err(err).Str("slot_id", rec.SlotID).Msg("rollback could not restore slot availability")
		}

		restoreTo := rec.PreviousReqState
		err := l.registry.restore(rec.RequestID, restoreTo, func(r *types.Request) {
			if restoreTo == types.StateRequested {
				r.AllocatedSlotID = ""
				r.AllocatedZoneID = ""
				r.AllocationTime = 0
				r.CrossZone = false
				r.CrossZonePenalty = 0
			}
		})
		if err != nil {
			log.Warn().Err(err).Str("request_id", rec.RequestID).Msg("rollback could not restore request state")
		}
	}

	return types.RollbackResult{RolledBack: len(popped)}
}
