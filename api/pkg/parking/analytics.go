package parking

import "github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"

// Analytics derives aggregate statistics from the registry and topology's
// current state. Nothing here is cached: every call walks live state so it
// can never drift out of sync with allocation, release, cancel, or
// rollback.
type Analytics struct {
	topology *Topology
	registry *Registry
}

// NewAnalytics wires the aggregator to the state it reads.
func NewAnalytics(topology *Topology, registry *Registry) *Analytics {
	return &Analytics{topology: topology, registry: registry}
}

// Compute returns the current snapshot described in the design doc.
func (a *Analytics) Compute() types.Analytics {
	requests := a.registry.All()

	out := types.Analytics{
		TotalRequests:   len(requests),
		ZoneUtilization: make(map[string]float64),
	}

	var durationSum float64
	var durationCount int

	for _, req := range requests {
		switch req.State {
		case types.StateReleased:
			out.CompletedRequests++
			if req.OccupiedTime != 0 && req.ReleaseTime != 0 {
				durationSum += float64(req.ReleaseTime - req.OccupiedTime)
				durationCount++
			}
		case types.StateCancelled:
			out.CancelledRequests++
		}
		if req.CrossZone {
			out.CrossZoneAllocations++
		}
	}

	if durationCount > 0 {
		out.AverageParkingDuration = durationSum / float64(durationCount)
	}

	zones := a.topology.Zones()
	for _, zone := range zones {
		total := a.topology.TotalSlotsInZone(zone.ID)
		if total == 0 {
			out.ZoneUtilization[zone.ID] = 0
			continue
		}
		available, err := a.topology.AvailableSlotsInZone(zone.ID)
		if err != nil {
			out.ZoneUtilization[zone.ID] = 0
			continue
		}
		out.ZoneUtilization[zone.ID] = 100 * float64(total-len(available)) / float64(total)
	}

	out.PeakUsageZones = peakZones(zones, out.ZoneUtilization, 3)

	return out
}

// peakZones returns up to n zone ids sorted by utilization descending,
// breaking ties by encounter order (the order zones were declared), never
// by an unstable sort that would reorder equal-utilization zones.
func peakZones(zones []types.Zone, utilization map[string]float64, n int) []string {
	order := make([]string, len(zones))
	for i, z := range zones {
		order[i] = z.ID
	}

	ranked := append([]string(nil), order...)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && utilization[ranked[j]] > utilization[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
