package config

import (
	"fmt"
	"os"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/parking"
	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"gopkg.in/yaml.v2"
)

// topologySeed mirrors the YAML shape a host writes to describe a parking
// facility: zones (nested areas/slots, plus an adjacency list) and the
// vehicle catalog. It deliberately does not reuse types.Zone/Area/Slot
// directly, the way this codebase's ProcessYAMLConfig keeps its wire
// shape separate from the domain structs it produces.
type topologySeed struct {
	Zones    []zoneSeed    `yaml:"zones"`
	Vehicles []vehicleSeed `yaml:"vehicles"`
}

type zoneSeed struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	AdjacentZones []string   `yaml:"adjacentZones"`
	Areas         []areaSeed `yaml:"areas"`
}

type areaSeed struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Slots []slotSeed `yaml:"slots"`
}

// slotSeed's zero value (Occupied: false) is a free slot, so a seed file
// that omits the field gets an available slot, not an unavailable one.
type slotSeed struct {
	ID       string `yaml:"id"`
	Occupied bool   `yaml:"occupied"`
}

type vehicleSeed struct {
	ID            string `yaml:"id"`
	LicensePlate  string `yaml:"licensePlate"`
	PreferredZone string `yaml:"preferredZone"`
}

// ParseTopology parses a YAML topology seed into the domain types the
// engine's admin operations expect, in declared order.
func ParseTopology(data []byte) ([]types.Zone, []types.Vehicle, error) {
	var doc topologySeed
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing topology seed: %w", err)
	}

	zones := make([]types.Zone, 0, len(doc.Zones))
	for _, zs := range doc.Zones {
		zone := types.Zone{
			ID:            zs.ID,
			Name:          zs.Name,
			AdjacentZones: append([]string(nil), zs.AdjacentZones...),
		}
		for _, as := range zs.Areas {
			area := types.Area{ID: as.ID, Name: as.Name}
			for _, ss := range as.Slots {
				area.Slots = append(area.Slots, types.Slot{
					ID:        ss.ID,
					Available: !ss.Occupied,
				})
			}
			zone.Areas = append(zone.Areas, area)
		}
		zones = append(zones, zone)
	}

	vehicles := make([]types.Vehicle, 0, len(doc.Vehicles))
	for _, vs := range doc.Vehicles {
		vehicles = append(vehicles, types.Vehicle{
			ID:            vs.ID,
			LicensePlate:  vs.LicensePlate,
			PreferredZone: vs.PreferredZone,
		})
	}

	return zones, vehicles, nil
}

// LoadTopology reads and parses a topology seed file from disk.
func LoadTopology(path string) ([]types.Zone, []types.Vehicle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading topology seed %q: %w", path, err)
	}
	return ParseTopology(data)
}

// ApplyTopology drives AddZone/AddVehicle against engine in file order,
// the host responsibility the design doc assigns to topology admin.
func ApplyTopology(engine *parking.Engine, zones []types.Zone, vehicles []types.Vehicle) {
	for _, zone := range zones {
		engine.AddZone(zone)
	}
	for _, vehicle := range vehicles {
		engine.AddVehicle(vehicle)
	}
}
