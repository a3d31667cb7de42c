package config

import (
	"testing"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/parking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTopology = `
zones:
  - id: zone-a
    name: Zone A
    adjacentZones: [zone-b]
    areas:
      - id: area-a1
        name: Area A1
        slots:
          - id: slot-a1-1
          - id: slot-a1-2
            occupied: true
  - id: zone-b
    name: Zone B
    areas:
      - id: area-b1
        slots:
          - id: slot-b1-1
vehicles:
  - id: vehicle-1
    licensePlate: ABC-123
    preferredZone: zone-a
`

func TestParseTopology_BuildsZonesInDeclaredOrder(t *testing.T) {
	zones, vehicles, err := ParseTopology([]byte(sampleTopology))
	require.NoError(t, err)

	require.Len(t, zones, 2)
	assert.Equal(t, "zone-a", zones[0].ID)
	assert.Equal(t, []string{"zone-b"}, zones[0].AdjacentZones)
	require.Len(t, zones[0].Areas[0].Slots, 2)

	require.Len(t, vehicles, 1)
	assert.Equal(t, "vehicle-1", vehicles[0].ID)
}

func TestParseTopology_SlotZeroValueIsAvailable(t *testing.T) {
	zones, _, err := ParseTopology([]byte(sampleTopology))
	require.NoError(t, err)

	slots := zones[0].Areas[0].Slots
	assert.True(t, slots[0].Available, "omitted occupied field must default to available")
	assert.False(t, slots[1].Available, "occupied: true must mark the slot unavailable")
}

func TestParseTopology_InvalidYAML(t *testing.T) {
	_, _, err := ParseTopology([]byte("zones: [this is not a zone list"))
	require.Error(t, err)
}

func TestLoadTopology_MissingFile(t *testing.T) {
	_, _, err := LoadTopology("/does/not/exist.yaml")
	require.Error(t, err)
}

func TestApplyTopology_SeedsEngine(t *testing.T) {
	zones, vehicles, err := ParseTopology([]byte(sampleTopology))
	require.NoError(t, err)

	engine := parking.NewEngine()
	ApplyTopology(engine, zones, vehicles)

	assert.Len(t, engine.Zones(), 2)
	assert.Len(t, engine.Vehicles(), 1)
}
