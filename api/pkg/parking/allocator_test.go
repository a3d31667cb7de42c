package parking

import (
	"testing"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClock(start int64) Clock {
	t := start
	return func() int64 {
		t++
		return t
	}
}

func newTestAllocator(t *testing.T) (*Allocator, *Topology, *Registry, *RollbackLog) {
	t.Helper()
	top := NewTopology()
	reg := NewRegistry()
	rb := NewRollbackLog(top, reg)
	alloc := NewAllocator(top, reg, rb, testClock(0), DefaultCrossZonePenalty)
	return alloc, top, reg, rb
}

func TestAllocator_SameZoneFirst(t *testing.T) {
	alloc, top, reg, _ := newTestAllocator(t)
	top.AddZone(oneZone("zone-a", 1))
	reg.Create(newTestRequest("req-1"))

	req, msg, err := alloc.Allocate("req-1")
	require.NoError(t, err)
	assert.Equal(t, types.StateAllocated, req.State)
	assert.Equal(t, "zone-a-slot-a", req.AllocatedSlotID)
	assert.Equal(t, "zone-a", req.AllocatedZoneID)
	assert.False(t, req.CrossZone)
	assert.Zero(t, req.CrossZonePenalty)
	assert.Contains(t, msg, "zone-a-slot-a")
}

func TestAllocator_FallsBackToAdjacentZone(t *testing.T) {
	alloc, top, reg, _ := newTestAllocator(t)
	top.AddZone(oneZone("zone-a", 0, "zone-b"))
	top.AddZone(oneZone("zone-b", 1))
	reg.Create(newTestRequest("req-1"))

	req, _, err := alloc.Allocate("req-1")
	require.NoError(t, err)
	assert.True(t, req.CrossZone)
	assert.Equal(t, DefaultCrossZonePenalty, req.CrossZonePenalty)
	assert.Equal(t, "zone-b", req.AllocatedZoneID)
	assert.Equal(t, "zone-b-slot-a", req.AllocatedSlotID)
}

func TestAllocator_AdjacentZoneOrderIsDeclaredOrder(t *testing.T) {
	alloc, top, reg, _ := newTestAllocator(t)
	top.AddZone(oneZone("zone-a", 0, "zone-b", "zone-c"))
	top.AddZone(oneZone("zone-b", 0))
	top.AddZone(oneZone("zone-c", 1))
	reg.Create(newTestRequest("req-1"))

	req, _, err := alloc.Allocate("req-1")
	require.NoError(t, err)
	assert.Equal(t, "zone-c", req.AllocatedZoneID)
}

func TestAllocator_NoAvailableSlotsAnywhere(t *testing.T) {
	alloc, top, reg, _ := newTestAllocator(t)
	top.AddZone(oneZone("zone-a", 0, "zone-b"))
	top.AddZone(oneZone("zone-b", 0))
	reg.Create(newTestRequest("req-1"))

	_, _, err := alloc.Allocate("req-1")
	require.ErrorIs(t, err, ErrNoAvailableSlots)
	assert.True(t, Retryable(err))
}

func TestAllocator_UnknownAdjacentZoneIsTreatedAsEmpty(t *testing.T) {
	alloc, top, reg, _ := newTestAllocator(t)
	top.AddZone(oneZone("zone-a", 0, "zone-ghost"))
	reg.Create(newTestRequest("req-1"))

	_, _, err := alloc.Allocate("req-1")
	require.ErrorIs(t, err, ErrNoAvailableSlots)
}

func TestAllocator_RejectsNonRequestedRequest(t *testing.T) {
	alloc, top, reg, _ := newTestAllocator(t)
	top.AddZone(oneZone("zone-a", 1))
	req := newTestRequest("req-1")
	req.State = types.StateAllocated
	reg.requests.Store("req-1", req)
	reg.order = []string{"req-1"}

	_, _, err := alloc.Allocate("req-1")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAllocator_RecordsOneRollbackEntryPerAllocation(t *testing.T) {
	alloc, top, reg, rb := newTestAllocator(t)
	top.AddZone(oneZone("zone-a", 1))
	reg.Create(newTestRequest("req-1"))

	_, _, err := alloc.Allocate("req-1")
	require.NoError(t, err)
	assert.Equal(t, 1, rb.Size())
}

func TestAllocator_UnknownRequestedZone(t *testing.T) {
	alloc, _, reg, _ := newTestAllocator(t)
	reg.Create(newTestRequest("req-1"))

	_, _, err := alloc.Allocate("req-1")
	require.ErrorIs(t, err, ErrNotFound)
}
