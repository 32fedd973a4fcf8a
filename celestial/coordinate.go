package celestial

import "math"

// Spherical is a position in spherical coordinates: radial distance R in
// meters, polar angle Theta in [0, pi] measured from the +Z axis, and
// azimuthal angle Phi in [0, 2*pi) measured from the +X axis. The origin is
// represented by the degenerate pole R=0, Theta=0, Phi=0.
type Spherical struct {
	R     float64 `json:"r"`
	Theta float64 `json:"theta"`
	Phi   float64 `json:"phi"`
}

// Cartesian converts the coordinate to a Cartesian vector. The conversion
// is recomputed on every call; nothing is cached anywhere.
func (s Spherical) Cartesian() Vector3 {
	sinTheta := math.Sin(s.Theta)
	return Vector3{
		X: s.R * sinTheta * math.Cos(s.Phi),
		Y: s.R * sinTheta * math.Sin(s.Phi),
		Z: s.R * math.Cos(s.Theta),
	}
}

// SphericalFromCartesian converts a Cartesian vector to spherical
// coordinates, normalizing Phi into [0, 2*pi). The origin maps to the
// degenerate pole.
func SphericalFromCartesian(v Vector3) Spherical {
	r := v.Magnitude()
	if r == 0 {
		return Spherical{}
	}
	phi := math.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return Spherical{
		R:     r,
		Theta: math.Acos(v.Z / r),
		Phi:   phi,
	}
}

// Valid reports whether the coordinate is well formed: finite components,
// R >= 0, Theta in [0, pi], Phi in [0, 2*pi), and Theta fixed at zero for
// the degenerate pole.
func (s Spherical) Valid() bool {
	if math.IsNaN(s.R) || math.IsInf(s.R, 0) ||
		math.IsNaN(s.Theta) || math.IsInf(s.Theta, 0) ||
		math.IsNaN(s.Phi) || math.IsInf(s.Phi, 0) {
		return false
	}
	if s.R < 0 || s.Theta < 0 || s.Theta > math.Pi || s.Phi < 0 || s.Phi >= 2*math.Pi {
		return false
	}
	if s.R == 0 && s.Theta != 0 {
		return false
	}
	return true
}
