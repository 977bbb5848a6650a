// Package orbit implements the circular two-body Keplerian model: orbital
// planes, satellites, and the constellation builder. No perturbations, no
// eccentricity — see SPEC_FULL.md §4.1 and Non-goals.
package orbit

import "math"

// GM is Earth's standard gravitational parameter, in m^3/s^2.
const GM = 3.986004418e14

// Plane is a circular orbit shared read-only by every satellite riding on
// it. It is created once at constellation build time and never mutated.
type Plane struct {
	ID                       int
	SemimajorAxis            float64 // meters
	Inclination              float64 // radians
	LongitudeAscendingNode   float64 // radians
	orbitalSpeed             float64 // m/s, derived
	angularSpeed             float64 // rad/s, derived
}

// NewPlane builds a Plane and precomputes its derived orbital/angular
// speed, matching the teacher's pattern of caching values that are pure
// functions of immutable inputs (see orbit.Orbit.Elements caching).
func NewPlane(id int, semimajorAxis, inclination, longitude float64) *Plane {
	speed := math.Sqrt(GM / semimajorAxis)
	return &Plane{
		ID:                     id,
		SemimajorAxis:          semimajorAxis,
		Inclination:            inclination,
		LongitudeAscendingNode: longitude,
		orbitalSpeed:           speed,
		angularSpeed:           speed / semimajorAxis,
	}
}

// OrbitalSpeed returns sqrt(GM/a), constant for the life of the plane.
func (p *Plane) OrbitalSpeed() float64 { return p.orbitalSpeed }

// AngularSpeed returns OrbitalSpeed/a, the rate at which true anomaly
// advances.
func (p *Plane) AngularSpeed() float64 { return p.angularSpeed }
