package parking

import (
	"testing"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics_EmptyEngine(t *testing.T) {
	top := NewTopology()
	reg := NewRegistry()
	a := NewAnalytics(top, reg)

	out := a.Compute()
	assert.Zero(t, out.TotalRequests)
	assert.Zero(t, out.CompletedRequests)
	assert.Zero(t, out.CancelledRequests)
	assert.Zero(t, out.AverageParkingDuration)
	assert.Empty(t, out.PeakUsageZones)
}

func TestAnalytics_ZoneUtilizationAndPeakZones(t *testing.T) {
	top := NewTopology()
	reg := NewRegistry()
	top.AddZone(oneZone("zone-a", 2))
	top.AddZone(oneZone("zone-b", 2))
	top.AddZone(oneZone("zone-c", 2))

	require.NoError(t, top.setSlotAvailability("zone-a-slot-a", false))
	require.NoError(t, top.setSlotAvailability("zone-b-slot-a", false))
	require.NoError(t, top.setSlotAvailability("zone-b-slot-b", false))

	a := NewAnalytics(top, reg)
	out := a.Compute()

	assert.Equal(t, 50.0, out.ZoneUtilization["zone-a"])
	assert.Equal(t, 100.0, out.ZoneUtilization["zone-b"])
	assert.Equal(t, 0.0, out.ZoneUtilization["zone-c"])
	assert.Equal(t, []string{"zone-b", "zone-a", "zone-c"}, out.PeakUsageZones)
}

func TestAnalytics_PeakZonesBreakTiesByDeclaredOrder(t *testing.T) {
	top := NewTopology()
	reg := NewRegistry()
	top.AddZone(oneZone("zone-a", 1))
	top.AddZone(oneZone("zone-b", 1))

	a := NewAnalytics(top, reg)
	out := a.Compute()

	assert.Equal(t, []string{"zone-a", "zone-b"}, out.PeakUsageZones)
}

func TestAnalytics_AverageParkingDurationAndCounts(t *testing.T) {
	top := NewTopology()
	reg := NewRegistry()

	completed := newTestRequest("req-1")
	completed.State = types.StateReleased
	completed.OccupiedTime = 10
	completed.ReleaseTime = 30
	reg.requests.Store("req-1", completed)
	reg.order = append(reg.order, "req-1")

	cancelled := newTestRequest("req-2")
	cancelled.State = types.StateCancelled
	reg.requests.Store("req-2", cancelled)
	reg.order = append(reg.order, "req-2")

	crossZone := newTestRequest("req-3")
	crossZone.State = types.StateAllocated
	crossZone.CrossZone = true
	reg.requests.Store("req-3", crossZone)
	reg.order = append(reg.order, "req-3")

	a := NewAnalytics(top, reg)
	out := a.Compute()

	assert.Equal(t, 3, out.TotalRequests)
	assert.Equal(t, 1, out.CompletedRequests)
	assert.Equal(t, 1, out.CancelledRequests)
	assert.Equal(t, 1, out.CrossZoneAllocations)
	assert.Equal(t, 20.0, out.AverageParkingDuration)
}
