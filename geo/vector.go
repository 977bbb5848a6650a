// Package geo provides the geometric primitives shared by the orbital model
// and the connection-topology subsystem: 3-vectors, axis rotations, and
// ground-coordinate distance.
package geo

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Vec3 is a 3-element Euclidean vector.
type Vec3 [3]float64

// Norm returns the Euclidean norm of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Unit returns the unit vector of v. The zero vector maps to itself.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec3{v[0] / n, v[1] / n, v[2] / n}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the inner product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Distance returns the Euclidean distance between v and w.
func (v Vec3) Distance(w Vec3) float64 {
	return v.Sub(w).Norm()
}

// RotY returns the vector rotated about the Y axis by θ radians.
func RotY(v Vec3, θ float64) Vec3 {
	return mulDense(rotY(θ), v)
}

// RotX returns the vector rotated about the X axis by θ radians.
func RotX(v Vec3, θ float64) Vec3 {
	return mulDense(rotX(θ), v)
}

// RotZ returns the vector rotated about the Z axis by θ radians.
func RotZ(v Vec3, θ float64) Vec3 {
	return mulDense(rotZ(θ), v)
}

// rotY builds the rotation matrix about the Y axis, matching the
// convention used throughout the orbital model (longitude, inclination,
// argument-of-latitude composition in that order).
func rotY(θ float64) *mat64.Dense {
	s, c := math.Sincos(θ)
	return mat64.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func rotX(θ float64) *mat64.Dense {
	s, c := math.Sincos(θ)
	return mat64.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func rotZ(θ float64) *mat64.Dense {
	s, c := math.Sincos(θ)
	return mat64.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}

// mulDense multiplies a 3x3 dense matrix by a Vec3, no dimension check
// (callers always pass 3x3/3x1, mirroring the teacher's MxV33).
func mulDense(m *mat64.Dense, v Vec3) Vec3 {
	vVec := mat64.NewVector(3, []float64{v[0], v[1], v[2]})
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return Vec3{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// ComposeRotation computes RotY(longitude) · RotX(inclination) ·
// RotY(argLat) · (r, 0, 0): the vector is first rotated about Y by argLat
// (argPeriapsis+trueAnomaly), then about X by inclination, then about Y by
// longitude. This is the exact composition spec.md §3 specifies for
// satellite position.
func ComposeRotation(r, longitude, inclination, argLat float64) Vec3 {
	v := Vec3{r, 0, 0}
	v = RotY(v, argLat)
	v = RotX(v, inclination)
	v = RotY(v, longitude)
	return v
}
