package celestial

import (
	"math"
	"math/rand"
	"testing"
)

func TestCartesianConversion(t *testing.T) {
	cases := []struct {
		name     string
		in       Spherical
		expected Vector3
	}{
		{"x axis", Spherical{R: 1, Theta: math.Pi / 2, Phi: 0}, Vector3{X: 1}},
		{"y axis", Spherical{R: 1, Theta: math.Pi / 2, Phi: math.Pi / 2}, Vector3{Y: 1}},
		{"z axis", Spherical{R: 2, Theta: 0, Phi: 0}, Vector3{Z: 2}},
		{"negative x", Spherical{R: 3, Theta: math.Pi / 2, Phi: math.Pi}, Vector3{X: -3}},
		{"origin", Spherical{}, Vector3{}},
	}

	for _, tc := range cases {
		got := tc.in.Cartesian()
		if math.Abs(got.X-tc.expected.X) > 1e-12 ||
			math.Abs(got.Y-tc.expected.Y) > 1e-12 ||
			math.Abs(got.Z-tc.expected.Z) > 1e-12 {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.expected, got)
		}
	}
}

func TestSphericalFromCartesianOrigin(t *testing.T) {
	s := SphericalFromCartesian(Vector3{})

	if s.R != 0 || s.Theta != 0 || s.Phi != 0 {
		t.Errorf("Expected degenerate pole for origin, got r=%g theta=%g phi=%g", s.R, s.Theta, s.Phi)
	}
}

func TestPhiRange(t *testing.T) {
	points := []Vector3{
		{X: 1, Y: 1},
		{X: -1, Y: 1},
		{X: -1, Y: -1},
		{X: 1, Y: -1},
		{X: 1},
		{X: -1},
		{Y: -1},
	}

	for _, p := range points {
		s := SphericalFromCartesian(p)
		if s.Phi < 0 || s.Phi >= 2*math.Pi {
			t.Errorf("Phi out of [0, 2*pi) for %v: got %g", p, s.Phi)
		}
	}
}

func TestRoundTripCartesian(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		original := Vector3{
			X: (rng.Float64() - 0.5) * 2000,
			Y: (rng.Float64() - 0.5) * 2000,
			Z: (rng.Float64() - 0.5) * 2000,
		}

		back := SphericalFromCartesian(original).Cartesian()

		if math.Abs(back.X-original.X) > 1e-9 ||
			math.Abs(back.Y-original.Y) > 1e-9 ||
			math.Abs(back.Z-original.Z) > 1e-9 {
			t.Errorf("Round trip drifted: %v became %v", original, back)
		}
	}
}

func TestRoundTripSpherical(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 100; i++ {
		original := Spherical{
			R:     0.1 + rng.Float64()*1000,
			Theta: 0.01 + rng.Float64()*(math.Pi-0.02),
			Phi:   rng.Float64() * 2 * math.Pi,
		}

		back := SphericalFromCartesian(original.Cartesian())

		if math.Abs(back.R-original.R) > 1e-9 ||
			math.Abs(back.Theta-original.Theta) > 1e-9 ||
			math.Abs(back.Phi-original.Phi) > 1e-9 {
			t.Errorf("Round trip drifted: %+v became %+v", original, back)
		}
	}
}

func TestPoleRoundTrip(t *testing.T) {
	// At the poles the azimuth is unrecoverable, but radius and polar
	// angle must survive the trip.
	north := Spherical{R: 5, Theta: 0, Phi: 0}
	back := SphericalFromCartesian(north.Cartesian())
	if math.Abs(back.R-5) > 1e-9 || math.Abs(back.Theta) > 1e-9 {
		t.Errorf("North pole drifted: %+v", back)
	}

	south := Spherical{R: 5, Theta: math.Pi, Phi: 0}
	back = SphericalFromCartesian(south.Cartesian())
	if math.Abs(back.R-5) > 1e-9 || math.Abs(back.Theta-math.Pi) > 1e-6 {
		t.Errorf("South pole drifted: %+v", back)
	}
}

func TestSphericalValid(t *testing.T) {
	valid := []Spherical{
		{},
		{R: 1, Theta: math.Pi / 2, Phi: 0},
		{R: 1e12, Theta: math.Pi, Phi: 6.28},
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Expected %+v to be valid", s)
		}
	}

	invalid := []Spherical{
		{R: -1},
		{R: 1, Theta: -0.1},
		{R: 1, Theta: math.Pi + 0.1},
		{R: 1, Phi: -0.1},
		{R: 1, Phi: 2 * math.Pi},
		{R: 0, Theta: 1},
		{R: math.NaN()},
		{R: math.Inf(1)},
		{R: 1, Theta: math.NaN()},
		{R: 1, Phi: math.NaN()},
	}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("Expected %+v to be invalid", s)
		}
	}
}
