package scenario

import "github.com/sandeepkv93/cosmicsim/cosmology"

// The catalog types describe deep-sky scenery reported alongside a
// simulation. Inventory entries never join a universe; they have no
// dynamics.

// Nebula is a diffuse cloud described by rough bulk numbers.
type Nebula struct {
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Mass   float64 `json:"mass"`
	Radius float64 `json:"radius"`
}

// GlobularCluster is a dense star cluster summarized by population and
// total mass.
type GlobularCluster struct {
	Name      string  `json:"name"`
	StarCount int     `json:"star_count"`
	Mass      float64 `json:"mass"`
}

// Quasar is an active galactic nucleus summarized by luminosity.
type Quasar struct {
	Name       string  `json:"name"`
	Luminosity float64 `json:"luminosity"`
}

// GalaxyInventory groups the scenery of one galaxy.
type GalaxyInventory struct {
	Name             string            `json:"name"`
	CentralBlackHole string            `json:"central_black_hole"`
	CentralMass      float64           `json:"central_mass"`
	Nebulae          []Nebula          `json:"nebulae"`
	Clusters         []GlobularCluster `json:"clusters"`
	Quasar           *Quasar           `json:"quasar,omitempty"`
}

// MilkyWay returns the bundled home-galaxy inventory.
func MilkyWay() GalaxyInventory {
	return GalaxyInventory{
		Name:             "milky-way",
		CentralBlackHole: "sagittarius-a",
		CentralMass:      4e6 * cosmology.SolarMass,
		Nebulae: []Nebula{
			{Name: "orion", Type: "emission", Mass: 2e31, Radius: 1.1e17},
			{Name: "crab", Type: "supernova-remnant", Mass: 4.6e29, Radius: 5.2e16},
		},
		Clusters: []GlobularCluster{
			{Name: "m13", StarCount: 300000, Mass: 6e35},
			{Name: "omega-centauri", StarCount: 10000000, Mass: 4e36},
		},
		Quasar: &Quasar{Name: "3c-273", Luminosity: 4e40},
	}
}
