// Package cosmology holds the physical constants and global parameters the
// simulation is built on. Every value is fixed at compile time; nothing in
// the engine ever mutates or overrides them.
package cosmology

// Fundamental constants in SI units.
const (
	// SpeedOfLight in m/s. Doubles as the hard cap on body speed.
	SpeedOfLight = 2.99792458e8

	// GravitationalConstant in N*m^2/kg^2.
	GravitationalConstant = 6.6743e-11

	// PlanckConstant in J*s. Reported alongside the other constants; the
	// classical engine itself has no use for it.
	PlanckConstant = 6.62607015e-34
)

// Solar reference values. Stellar luminosity, surface temperature and
// lifespan are all derived from mass relative to these.
const (
	SolarMass               = 1.989e30 // kg
	SolarLuminosity         = 3.828e26 // W
	SolarLifespan           = 10e9     // simulated time units
	SolarSurfaceTemperature = 5778     // K
)

// Numerical safeguards used by the integration engine.
const (
	// Softening is added to every squared pair distance before the force
	// division, so even exactly coincident bodies produce a finite force.
	Softening = 1e-10

	// DilationFloor is the smallest time-dilation factor a non-black-hole
	// body can report. Local clocks slow down near heavy masses but never
	// stop outright.
	DilationFloor = 0.1

	// BlackHoleDilation is the fixed time-dilation factor for black holes.
	BlackHoleDilation = 0.01
)

// MicrowaveBackground is the ambient temperature in K assigned to bodies
// that have no internally derived temperature.
const MicrowaveBackground = 2.725

// Distance and time scales used when assembling and reporting scenarios.
const (
	AstronomicalUnit = 1.496e11  // m
	LightYear        = 9.4607e15 // m
	Day              = 86400.0   // s
	Year             = 3.15576e7 // s, Julian year
)

// Params describes the large-scale parameters of a universe. They are
// carried for reporting and have no feedback into body dynamics.
type Params struct {
	// Radius is the comoving radius of the observable region in meters.
	Radius float64 `json:"radius"`

	// HubbleConstant is the expansion rate in 1/s.
	HubbleConstant float64 `json:"hubble_constant"`

	// Density fractions of the total energy budget.
	DarkEnergyDensity     float64 `json:"dark_energy_density"`
	DarkMatterDensity     float64 `json:"dark_matter_density"`
	BaryonicMatterDensity float64 `json:"baryonic_matter_density"`
}

// DefaultParams returns present-day observational values.
func DefaultParams() Params {
	return Params{
		Radius:                4.4e26,
		HubbleConstant:        2.18e-18, // ~67.4 km/s/Mpc
		DarkEnergyDensity:     0.685,
		DarkMatterDensity:     0.265,
		BaryonicMatterDensity: 0.049,
	}
}
