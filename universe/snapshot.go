package universe

import (
	"github.com/sandeepkv93/cosmicsim/celestial"
	"github.com/sandeepkv93/cosmicsim/cosmology"
)

// Snapshot is an immutable view of a universe at the end of a step. It is
// built from plain values, safe to hand to other goroutines and to
// serialize as is.
type Snapshot struct {
	Time   float64          `json:"time"`
	Steps  int              `json:"steps"`
	Params cosmology.Params `json:"params"`
	Bodies []BodyState      `json:"bodies"`
}

// BodyState is the per-body slice of a snapshot. Position is converted to
// Cartesian for display; variant-specific fields are zero for bodies of
// other kinds. ParentID is set for moons and nil for root bodies.
type BodyState struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Kind         string            `json:"kind"`
	Mass         float64           `json:"mass"`
	Position     celestial.Vector3 `json:"position"`
	Velocity     celestial.Vector3 `json:"velocity"`
	Speed        float64           `json:"speed"`
	Age          float64           `json:"age"`
	ProperTime   float64           `json:"proper_time"`
	Temperature  float64           `json:"temperature"`
	StellarType  string            `json:"stellar_type,omitempty"`
	Luminosity   float64           `json:"luminosity,omitempty"`
	Lifespan     float64           `json:"lifespan,omitempty"`
	PlanetType   string            `json:"planet_type,omitempty"`
	EventHorizon float64           `json:"event_horizon,omitempty"`
	ParentID     *int              `json:"parent_id,omitempty"`
}

// Snapshot returns the current state of the universe, moons included.
func (u *Universe) Snapshot() Snapshot {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.snapshotLocked()
}

func (u *Universe) snapshotLocked() Snapshot {
	set := u.simulationSet()
	states := make([]BodyState, len(set))
	for i, b := range set {
		states[i] = newBodyState(b)
	}
	return Snapshot{
		Time:   u.time,
		Steps:  u.steps,
		Params: u.cfg.Params,
		Bodies: states,
	}
}

func newBodyState(b *celestial.Body) BodyState {
	state := BodyState{
		ID:           b.ID,
		Name:         b.Name,
		Kind:         b.Kind.String(),
		Mass:         b.Mass,
		Position:     b.Position.Cartesian(),
		Velocity:     b.Velocity,
		Speed:        b.Speed(),
		Age:          b.Age,
		ProperTime:   b.ProperTime,
		Temperature:  b.Temperature,
		StellarType:  b.StellarType,
		Luminosity:   b.Luminosity,
		Lifespan:     b.Lifespan,
		PlanetType:   b.PlanetType,
		EventHorizon: b.EventHorizon(),
	}
	if parent := b.Parent(); parent != nil {
		id := parent.ID
		state.ParentID = &id
	}
	return state
}
