package parking

import (
	"sync"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/puzpuzpuz/xsync/v3"
)

// slotLocation pins a slot id to its position inside the zone/area tree so
// findSlot stays O(1) instead of a linear scan, per the design doc.
type slotLocation struct {
	zoneID  string
	areaIdx int
	slotIdx int
}

// Topology owns the zone/area/slot graph and the adjacency list. It is the
// only component that mutates slot availability; everything else goes
// through setSlotAvailability so the invariant "availability only changes
// here" stays centralized.
type Topology struct {
	mu        sync.RWMutex
	zones     map[string]*types.Zone
	zoneOrder []string
	index     *xsync.MapOf[string, slotLocation]
}

// NewTopology returns an empty topology ready for AddZone calls.
func NewTopology() *Topology {
	return &Topology{
		zones: make(map[string]*types.Zone),
		index: xsync.NewMapOf[string, slotLocation](),
	}
}

// AddZone loads (or replaces) a zone. Re-adding an id is a host
// responsibility per the design doc's open question: the caller must avoid
// leaving dangling references (e.g. requests allocated against slots that
// vanish with the old zone).
func (t *Topology) AddZone(zone types.Zone) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, exists := t.zones[zone.ID]; exists {
		for _, area := range old.Areas {
			for _, slot := range area.Slots {
				t.index.Delete(slot.ID)
			}
		}
	} else {
		t.zoneOrder = append(t.zoneOrder, zone.ID)
	}

	cp := zone
	cp.Areas = append([]types.Area(nil), zone.Areas...)
	for ai := range cp.Areas {
		cp.Areas[ai].ZoneID = zone.ID
		cp.Areas[ai].Slots = append([]types.Slot(nil), cp.Areas[ai].Slots...)
		for si := range cp.Areas[ai].Slots {
			cp.Areas[ai].Slots[si].ZoneID = zone.ID
			cp.Areas[ai].Slots[si].AreaID = cp.Areas[ai].ID
			t.index.Store(cp.Areas[ai].Slots[si].ID, slotLocation{zoneID: zone.ID, areaIdx: ai, slotIdx: si})
		}
	}
	cp.AdjacentZones = append([]string(nil), zone.AdjacentZones...)

	t.zones[zone.ID] = &cp
}

// Zones returns the loaded zones in declared (insertion) order. Each zone
// is deep-copied — Areas and their Slots are cloned, not aliased — so a
// caller holding the result can't flip Available outside
// setSlotAvailability, matching every other read path in this package.
func (t *Topology) Zones() []types.Zone {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.Zone, 0, len(t.zoneOrder))
	for _, id := range t.zoneOrder {
		out = append(out, cloneZone(t.zones[id]))
	}
	return out
}

// cloneZone deep-copies a zone so its Areas/Slots no longer alias the
// Topology's backing arrays.
func cloneZone(zone *types.Zone) types.Zone {
	cp := *zone
	cp.AdjacentZones = append([]string(nil), zone.AdjacentZones...)
	cp.Areas = make([]types.Area, len(zone.Areas))
	for i, area := range zone.Areas {
		cp.Areas[i] = area
		cp.Areas[i].Slots = append([]types.Slot(nil), area.Slots...)
	}
	return cp
}

// FindSlot returns a copy of the slot for id, or ErrNotFound.
func (t *Topology) FindSlot(slotID string) (types.Slot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	loc, ok := t.index.Load(slotID)
	if !ok {
		return types.Slot{}, notFoundf("slot %q", slotID)
	}
	zone := t.zones[loc.zoneID]
	return zone.Areas[loc.areaIdx].Slots[loc.slotIdx], nil
}

// AvailableSlotsInZone returns available slots in declared order: areas in
// zone order, slots in area order. Unknown zones are ErrNotFound.
func (t *Topology) AvailableSlotsInZone(zoneID string) ([]types.Slot, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	zone, ok := t.zones[zoneID]
	if !ok {
		return nil, notFoundf("zone %q", zoneID)
	}

	var available []types.Slot
	for _, area := range zone.Areas {
		for _, slot := range area.Slots {
			if slot.Available {
				available = append(available, slot)
			}
		}
	}
	return available, nil
}

// TotalSlotsInZone counts every slot regardless of availability. An unknown
// zone counts as 0, so utilization math over all zones stays total.
func (t *Topology) TotalSlotsInZone(zoneID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	zone, ok := t.zones[zoneID]
	if !ok {
		return 0
	}
	total := 0
	for _, area := range zone.Areas {
		total += len(area.Slots)
	}
	return total
}

// AdjacentZones returns the stored adjacency list in its declared order.
// Unknown zones are ErrNotFound.
func (t *Topology) AdjacentZones(zoneID string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	zone, ok := t.zones[zoneID]
	if !ok {
		return nil, notFoundf("zone %q", zoneID)
	}
	return append([]string(nil), zone.AdjacentZones...), nil
}

// setSlotAvailability is the narrow mutation every other component funnels
// through to flip a slot's availability.
func (t *Topology) setSlotAvailability(slotID string, available bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	loc, ok := t.index.Load(slotID)
	if !ok {
		return notFoundf("slot %q", slotID)
	}
	t.zones[loc.zoneID].Areas[loc.areaIdx].Slots[loc.slotIdx].Available = available
	return nil
}
