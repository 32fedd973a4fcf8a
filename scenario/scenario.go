// Package scenario assembles ready-made body sets: a toy solar system, a
// perturbed twin of it for sensitivity experiments, a binary pair, a random
// cloud and a galactic-center configuration. Builders return root bodies in
// insertion order; the caller owns the universe they go into.
package scenario

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sandeepkv93/cosmicsim/celestial"
	"github.com/sandeepkv93/cosmicsim/cosmology"
)

func at(x, y, z float64) celestial.Spherical {
	return celestial.SphericalFromCartesian(celestial.Vector3{X: x, Y: y, Z: z})
}

// orbitalSpeed returns the circular orbital speed around a central mass.
func orbitalSpeed(centralMass, radius float64) float64 {
	return math.Sqrt(cosmology.GravitationalConstant * centralMass / radius)
}

// SolarSystem builds a compact solar system: the sun, three planets with
// the moon attached to the third body, an asteroid, and two far stellar
// remnants inbound on eccentric paths.
func SolarSystem() ([]*celestial.Body, error) {
	sun, err := celestial.NewStar(0, "sun", cosmology.SolarMass, celestial.Spherical{}, celestial.Vector3{})
	if err != nil {
		return nil, err
	}

	venus, err := celestial.NewPlanet(1, "venus", 4.867e24, at(1.082e11, 0, 0),
		celestial.Vector3{Y: 35020}, "volcanic")
	if err != nil {
		return nil, err
	}
	venus.Atmosphere = "carbon-dioxide"

	earth, err := celestial.NewPlanet(2, "earth", 5.972e24, at(cosmology.AstronomicalUnit, 0, 0),
		celestial.Vector3{Y: 29780}, "terrestrial")
	if err != nil {
		return nil, err
	}
	earth.Atmosphere = "nitrogen-oxygen"

	moon, err := celestial.NewBody(3, "moon", 7.348e22, at(cosmology.AstronomicalUnit+3.84e8, 0, 0),
		celestial.Vector3{Y: 29780 + 1022})
	if err != nil {
		return nil, err
	}
	if err := earth.AddMoon(moon); err != nil {
		return nil, err
	}

	mars, err := celestial.NewPlanet(4, "mars", 6.39e23, at(2.279e11, 0, 0),
		celestial.Vector3{Y: 24077}, "terrestrial")
	if err != nil {
		return nil, err
	}
	mars.Atmosphere = "thin-carbon-dioxide"

	ceres, err := celestial.NewBody(5, "ceres", 9.4e20, at(4.14e11, 0, 0),
		celestial.Vector3{Y: 17882})
	if err != nil {
		return nil, err
	}

	whiteDwarf, err := celestial.NewBody(6, "white-dwarf", 0.6*cosmology.SolarMass, at(-5e11, 0, 0),
		celestial.Vector3{Y: -15000})
	if err != nil {
		return nil, err
	}

	neutronStar, err := celestial.NewBody(7, "neutron-star", 1.4*cosmology.SolarMass, at(6e11, 0, 0),
		celestial.Vector3{Y: 12000})
	if err != nil {
		return nil, err
	}

	return []*celestial.Body{sun, venus, earth, mars, ceres, whiteDwarf, neutronStar}, nil
}

// Perturbed builds the solar system with every position and velocity nudged
// by seeded uniform noise. Position components move within about 10% of
// magnitude, velocities within about 2%. The same seed always yields the
// same sky, which is what makes divergence experiments repeatable.
func Perturbed(magnitude float64, seed int64) ([]*celestial.Body, error) {
	bodies, err := SolarSystem()
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	for _, b := range bodies {
		perturbBody(rng, b, magnitude)
	}
	return bodies, nil
}

func perturbBody(rng *rand.Rand, b *celestial.Body, magnitude float64) {
	pos := b.Position.Cartesian()
	pos.X = perturb(rng, pos.X, magnitude, 0.05)
	pos.Y = perturb(rng, pos.Y, magnitude, 0.05)
	pos.Z = perturb(rng, pos.Z, magnitude, 0.05)
	b.Position = celestial.SphericalFromCartesian(pos)

	b.Velocity.X = perturb(rng, b.Velocity.X, magnitude, 0.01)
	b.Velocity.Y = perturb(rng, b.Velocity.Y, magnitude, 0.01)
	b.Velocity.Z = perturb(rng, b.Velocity.Z, magnitude, 0.01)

	for _, m := range b.Moons() {
		perturbBody(rng, m, magnitude)
	}
}

// perturb scales a value by two independent uniform draws in
// [-magnitude*scale, magnitude*scale]. Zero values stay zero.
func perturb(rng *rand.Rand, value, magnitude, scale float64) float64 {
	a := (rng.Float64()*2 - 1) * magnitude * scale
	b := (rng.Float64()*2 - 1) * magnitude * scale
	return value * (1 + a + b)
}

// Binary builds two equal stars on a circular mutual orbit around the
// origin.
func Binary() ([]*celestial.Body, error) {
	const mass = 1e30
	const separation = 2e11

	speed := math.Sqrt(cosmology.GravitationalConstant*mass/separation) / 2

	alpha, err := celestial.NewStar(0, "alpha", mass, at(-separation/2, 0, 0),
		celestial.Vector3{Y: -speed})
	if err != nil {
		return nil, err
	}
	beta, err := celestial.NewStar(1, "beta", mass, at(separation/2, 0, 0),
		celestial.Vector3{Y: speed})
	if err != nil {
		return nil, err
	}
	return []*celestial.Body{alpha, beta}, nil
}

// RandomCloud builds n generic bodies scattered uniformly through a cube of
// the given edge length, with small random velocities. The same seed always
// yields the same cloud.
func RandomCloud(n int, size float64, seed int64) ([]*celestial.Body, error) {
	rng := rand.New(rand.NewSource(seed))

	bodies := make([]*celestial.Body, 0, n)
	for i := 0; i < n; i++ {
		pos := at(
			(rng.Float64()-0.5)*size,
			(rng.Float64()-0.5)*size,
			(rng.Float64()-0.5)*size,
		)
		vel := celestial.Vector3{
			X: (rng.Float64() - 0.5) * 1000,
			Y: (rng.Float64() - 0.5) * 1000,
			Z: (rng.Float64() - 0.5) * 1000,
		}
		mass := rng.Float64()*1e24 + 1e20

		b, err := celestial.NewBody(i, fmt.Sprintf("body-%d", i), mass, pos, vel)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// GalacticCenter builds a supermassive black hole with two stars on tight
// circular orbits. Proper time at the hole runs at a hundredth of the
// universal clock, so a few steps are enough to watch the clocks diverge.
func GalacticCenter() ([]*celestial.Body, error) {
	centralMass := 4e6 * cosmology.SolarMass

	hole, err := celestial.NewBlackHole(0, "sagittarius-a", centralMass, celestial.Spherical{}, celestial.Vector3{})
	if err != nil {
		return nil, err
	}

	s2Radius := 1.4e14
	s2, err := celestial.NewStar(1, "s2", 14*cosmology.SolarMass, at(s2Radius, 0, 0),
		celestial.Vector3{Y: orbitalSpeed(centralMass, s2Radius)})
	if err != nil {
		return nil, err
	}

	s8Radius := 2.5e14
	s8, err := celestial.NewStar(2, "s8", 10*cosmology.SolarMass, at(0, -s8Radius, 0),
		celestial.Vector3{X: orbitalSpeed(centralMass, s8Radius)})
	if err != nil {
		return nil, err
	}

	return []*celestial.Body{hole, s2, s8}, nil
}
