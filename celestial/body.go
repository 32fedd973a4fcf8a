package celestial

import (
	"errors"
	"fmt"
	"math"

	"github.com/sandeepkv93/cosmicsim/cosmology"
)

// Kind identifies the variant of a celestial body.
type Kind int

const (
	KindGeneric Kind = iota
	KindStar
	KindPlanet
	KindBlackHole
)

func (k Kind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindBlackHole:
		return "black_hole"
	default:
		return "generic"
	}
}

var (
	// ErrNonPositiveMass is returned when a body is built with zero or
	// negative mass.
	ErrNonPositiveMass = errors.New("celestial: mass must be positive")

	// ErrInvalidCoordinate is returned when a body is built with a
	// malformed spherical coordinate.
	ErrInvalidCoordinate = errors.New("celestial: invalid spherical coordinate")

	// ErrNilBody is returned when nil is passed where a body is required.
	ErrNilBody = errors.New("celestial: nil body")

	// ErrNotPlanet is returned when a moon is attached to anything that is
	// not a planet.
	ErrNotPlanet = errors.New("celestial: moons can only orbit planets")

	// ErrMoonCycle is returned when attaching a moon would make a body its
	// own descendant.
	ErrMoonCycle = errors.New("celestial: moon would create an ownership cycle")

	// ErrAlreadyOwned is returned when a body that already belongs to a
	// universe or a moon list is claimed again.
	ErrAlreadyOwned = errors.New("celestial: body is already owned")
)

// Body is a single simulated mass. Position is stored in spherical
// coordinates and velocity in Cartesian coordinates; the integrator
// round-trips positions through Cartesian space every step.
//
// The zero value is not usable. Bodies come from the New* constructors,
// which validate mass and coordinates and derive the variant-specific
// fields exactly once. Derived fields (Luminosity, Lifespan, StellarType,
// SchwarzschildRadius) are never recomputed afterwards.
//
// A Body is not safe for concurrent mutation; the owning universe
// serializes all access during stepping.
type Body struct {
	ID   int
	Name string
	Kind Kind

	Mass     float64 // kg
	Position Spherical
	Velocity Vector3 // m/s

	// Age and ProperTime advance by the body's dilated time step, so both
	// lag the universal clock in deep gravity wells.
	Age        float64
	ProperTime float64

	// Temperature in K. Stars derive it from luminosity; everything else
	// starts at the microwave background and may be overwritten freely.
	Temperature float64

	// Star fields, derived from mass at construction.
	StellarType string
	Luminosity  float64 // W
	Lifespan    float64 // simulated time units

	// Planet fields. Atmosphere and Rings are opaque descriptors with no
	// effect on dynamics.
	PlanetType string
	Atmosphere string
	Rings      string

	// Black hole field, derived from mass at construction.
	SchwarzschildRadius float64 // m

	moons  []*Body
	parent *Body
	owned  bool
}

func newBody(id int, name string, kind Kind, mass float64, pos Spherical, vel Vector3) (*Body, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("%w: %q has mass %g", ErrNonPositiveMass, name, mass)
	}
	if !pos.Valid() {
		return nil, fmt.Errorf("%w: %q at r=%g theta=%g phi=%g", ErrInvalidCoordinate, name, pos.R, pos.Theta, pos.Phi)
	}
	return &Body{
		ID:          id,
		Name:        name,
		Kind:        kind,
		Mass:        mass,
		Position:    pos,
		Velocity:    vel,
		Temperature: cosmology.MicrowaveBackground,
	}, nil
}

// NewBody constructs a generic body: an asteroid, a stellar remnant, or
// anything else without variant-specific behavior.
func NewBody(id int, name string, mass float64, pos Spherical, vel Vector3) (*Body, error) {
	return newBody(id, name, KindGeneric, mass, pos, vel)
}

// NewStar constructs a star. Luminosity scales with mass to the 3.5 power,
// surface temperature with the fourth root of luminosity, and lifespan
// inversely with mass to the 2.5 power, all relative to solar values.
func NewStar(id int, name string, mass float64, pos Spherical, vel Vector3) (*Body, error) {
	b, err := newBody(id, name, KindStar, mass, pos, vel)
	if err != nil {
		return nil, err
	}
	ratio := mass / cosmology.SolarMass
	b.Luminosity = cosmology.SolarLuminosity * math.Pow(ratio, 3.5)
	b.Temperature = cosmology.SolarSurfaceTemperature * math.Pow(b.Luminosity/cosmology.SolarLuminosity, 0.25)
	b.Lifespan = cosmology.SolarLifespan * math.Pow(cosmology.SolarMass/mass, 2.5)
	b.StellarType = stellarClass(ratio)
	return b, nil
}

// stellarClass maps a solar-mass ratio to a main-sequence spectral class.
func stellarClass(solarMasses float64) string {
	switch {
	case solarMasses >= 16:
		return "O"
	case solarMasses >= 2.1:
		return "B"
	case solarMasses >= 1.4:
		return "A"
	case solarMasses >= 1.04:
		return "F"
	case solarMasses >= 0.8:
		return "G"
	case solarMasses >= 0.45:
		return "K"
	default:
		return "M"
	}
}

// NewPlanet constructs a planet. planetType is a free-form tag; the bundled
// scenarios use terrestrial, gas_giant, ice, volcanic and barren.
func NewPlanet(id int, name string, mass float64, pos Spherical, vel Vector3, planetType string) (*Body, error) {
	b, err := newBody(id, name, KindPlanet, mass, pos, vel)
	if err != nil {
		return nil, err
	}
	b.PlanetType = planetType
	return b, nil
}

// NewBlackHole constructs a black hole. The Schwarzschild radius
// 2*G*m/c^2 is derived once and doubles as the event horizon radius.
func NewBlackHole(id int, name string, mass float64, pos Spherical, vel Vector3) (*Body, error) {
	b, err := newBody(id, name, KindBlackHole, mass, pos, vel)
	if err != nil {
		return nil, err
	}
	c := cosmology.SpeedOfLight
	b.SchwarzschildRadius = 2 * cosmology.GravitationalConstant * mass / (c * c)
	return b, nil
}

// EventHorizon returns the event horizon radius in meters, zero for
// anything that is not a black hole.
func (b *Body) EventHorizon() float64 {
	return b.SchwarzschildRadius
}

// Speed returns the magnitude of the body's velocity.
func (b *Body) Speed() float64 {
	return b.Velocity.Magnitude()
}

// KineticEnergy returns the body's kinetic energy in joules.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.MagnitudeSq()
}

// DistanceTo returns the Euclidean distance to another body. It is
// recomputed from the current coordinates on every call, since positions
// move every step.
func (b *Body) DistanceTo(other *Body) float64 {
	return b.Position.Cartesian().Distance(other.Position.Cartesian())
}

// TimeDilationFactor returns the multiplier applied to this body's local
// time step, evaluated against the given neighbors. Black holes always
// report the fixed deep-well factor. Every other body sums the weak-field
// potential G*m/d of each neighbor and maps it through
// sqrt(|1 - 2*potential/c^2|), floored so a local clock never stops.
//
// The neighbor slice must hold the bodies themselves, not copies: the body
// is skipped by identity.
func (b *Body) TimeDilationFactor(neighbors []*Body) float64 {
	if b.Kind == KindBlackHole {
		return cosmology.BlackHoleDilation
	}
	potential := 0.0
	for _, other := range neighbors {
		if other == b {
			continue
		}
		potential += cosmology.GravitationalConstant * other.Mass / b.DistanceTo(other)
	}
	c := cosmology.SpeedOfLight
	factor := math.Sqrt(math.Abs(1 - 2*potential/(c*c)))
	if factor < cosmology.DilationFloor {
		return cosmology.DilationFloor
	}
	return factor
}

// AddMoon attaches a moon to the planet. Moon lists form a strict ownership
// tree: a body is owned at most once, and a moon may not be the planet
// itself or any ancestor of it. Moons take part in gravitation like every
// other body once the planet belongs to a universe.
func (b *Body) AddMoon(moon *Body) error {
	if b.Kind != KindPlanet {
		return fmt.Errorf("%w: %q is a %s", ErrNotPlanet, b.Name, b.Kind)
	}
	if moon == nil {
		return ErrNilBody
	}
	for p := b; p != nil; p = p.parent {
		if p == moon {
			return fmt.Errorf("%w: %q", ErrMoonCycle, moon.Name)
		}
	}
	if moon.owned {
		return fmt.Errorf("%w: %q", ErrAlreadyOwned, moon.Name)
	}
	moon.owned = true
	moon.parent = b
	b.moons = append(b.moons, moon)
	return nil
}

// Moons returns the planet's moons in insertion order. The slice is a copy;
// the bodies are shared.
func (b *Body) Moons() []*Body {
	if len(b.moons) == 0 {
		return nil
	}
	out := make([]*Body, len(b.moons))
	copy(out, b.moons)
	return out
}

// Parent returns the planet that owns this body as a moon, or nil.
func (b *Body) Parent() *Body {
	return b.parent
}

// Claim marks the body as belonging to a container. A universe claims each
// root body it admits; planets claim their moons through AddMoon. Claiming
// an owned body fails, which is what keeps a body from existing in two
// places at once.
func (b *Body) Claim() error {
	if b.owned {
		return fmt.Errorf("%w: %q", ErrAlreadyOwned, b.Name)
	}
	b.owned = true
	return nil
}

// Copy returns a deep copy of the body. Moons are copied recursively. The
// copy is detached: it is unowned and can be claimed by a new container,
// and mutating it has no effect on the original.
func (b *Body) Copy() *Body {
	clone := *b
	clone.owned = false
	clone.parent = nil
	clone.moons = nil
	for _, m := range b.moons {
		mc := m.Copy()
		mc.owned = true
		mc.parent = &clone
		clone.moons = append(clone.moons, mc)
	}
	return &clone
}
