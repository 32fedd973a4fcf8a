// Package celestial defines the bodies that populate a universe: their
// coordinates, their variants and the per-body physics that does not depend
// on the rest of the system.
package celestial

import "math"

// Vector3 is a Cartesian vector. Positions are in meters, velocities in
// meters per second, forces in newtons.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum of two vectors.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns the component-wise difference of two vectors.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns the vector multiplied by a scalar.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Div returns the vector divided by a scalar.
func (v Vector3) Div(s float64) Vector3 {
	return Vector3{v.X / s, v.Y / s, v.Z / s}
}

// Magnitude returns the Euclidean length of the vector.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// MagnitudeSq returns the squared length, avoiding the square root.
func (v Vector3) MagnitudeSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the unit vector in the same direction. The zero vector
// normalizes to itself.
func (v Vector3) Normalize() Vector3 {
	mag := v.Magnitude()
	if mag == 0 {
		return Vector3{}
	}
	return v.Div(mag)
}

// Distance returns the Euclidean distance between two points.
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Magnitude()
}

// DistanceSq returns the squared distance between two points.
func (v Vector3) DistanceSq(other Vector3) float64 {
	return v.Sub(other).MagnitudeSq()
}
