package universe

import (
	"math"

	"github.com/sandeepkv93/cosmicsim/celestial"
	"github.com/sandeepkv93/cosmicsim/cosmology"
)

// Statistics summarizes the dynamical state of a universe. Separations are
// reported as zero when fewer than two bodies exist.
type Statistics struct {
	BodyCount       int               `json:"body_count"`
	KineticEnergy   float64           `json:"kinetic_energy"`
	PotentialEnergy float64           `json:"potential_energy"`
	TotalEnergy     float64           `json:"total_energy"`
	CenterOfMass    celestial.Vector3 `json:"center_of_mass"`
	Momentum        celestial.Vector3 `json:"momentum"`
	MaxSpeed        float64           `json:"max_speed"`
	MinSeparation   float64           `json:"min_separation"`
	MeanSeparation  float64           `json:"mean_separation"`
	MaxSeparation   float64           `json:"max_separation"`
}

// Statistics computes energy, momentum and separation aggregates over a
// consistent view of every body, moons included.
func (u *Universe) Statistics() Statistics {
	u.mu.RLock()
	defer u.mu.RUnlock()

	set := u.simulationSet()
	stats := Statistics{BodyCount: len(set)}
	if len(set) == 0 {
		return stats
	}

	totalMass := 0.0
	weighted := celestial.Vector3{}
	for _, b := range set {
		stats.KineticEnergy += b.KineticEnergy()
		stats.Momentum = stats.Momentum.Add(b.Velocity.Scale(b.Mass))
		if speed := b.Speed(); speed > stats.MaxSpeed {
			stats.MaxSpeed = speed
		}
		totalMass += b.Mass
		weighted = weighted.Add(b.Position.Cartesian().Scale(b.Mass))
	}
	stats.CenterOfMass = weighted.Div(totalMass)

	if len(set) >= 2 {
		stats.MinSeparation = math.Inf(1)
		sum := 0.0
		pairs := 0
		for i := 0; i < len(set); i++ {
			for j := i + 1; j < len(set); j++ {
				d := set[i].DistanceTo(set[j])
				if d > 0 {
					stats.PotentialEnergy -= cosmology.GravitationalConstant * set[i].Mass * set[j].Mass / d
				}
				if d < stats.MinSeparation {
					stats.MinSeparation = d
				}
				if d > stats.MaxSeparation {
					stats.MaxSeparation = d
				}
				sum += d
				pairs++
			}
		}
		stats.MeanSeparation = sum / float64(pairs)
	}

	stats.TotalEnergy = stats.KineticEnergy + stats.PotentialEnergy
	return stats
}
