package orbit

import (
	"math"

	"github.com/nrayman/satlink/geo"
)

// HalfAngle is the view-cone half-angle used for the ground-link
// footprint model (spec.md §4.3).
const HalfAngle = 60 * math.Pi / 180

// Satellite is a single node in a Plane. It holds a non-owning back
// reference to its Plane (the plane outlives every satellite riding on it
// and is never mutated by a satellite) and a cached position that is
// recomputed once per tick by the simulation driver.
type Satellite struct {
	ID           int
	Plane        *Plane // back-reference, non-owning
	ArgPeriapsis float64
	position     geo.Vec3
	Alive        bool
}

// NewSatellite constructs a satellite at rest (zero position, to be filled
// in by the first RecalculatePosition call) in the given Plane.
func NewSatellite(id int, plane *Plane, argPeriapsis float64) *Satellite {
	return &Satellite{ID: id, Plane: plane, ArgPeriapsis: argPeriapsis, Alive: true}
}

// Status reports "alive" or "dead", matching the vocabulary of spec.md §3.
func (s *Satellite) Status() string {
	if s.Alive {
		return "alive"
	}
	return "dead"
}

// Position returns the cached position, in meters, in the Earth-centered
// inertial frame.
func (s *Satellite) Position() geo.Vec3 { return s.position }

// RecalculatePosition updates the cached position for simulation time t
// (seconds). True anomaly advances linearly; no modulo is applied to
// ArgPeriapsis itself (see DESIGN.md, Open Question resolution).
func (s *Satellite) RecalculatePosition(t float64) {
	trueAnomaly := math.Mod(t*s.Plane.angularSpeed, 2*math.Pi)
	s.position = geo.ComposeRotation(
		s.Plane.SemimajorAxis,
		s.Plane.LongitudeAscendingNode,
		s.Plane.Inclination,
		s.ArgPeriapsis+trueAnomaly,
	)
}

// Velocity returns the tangential velocity vector consistent with the
// circular-orbit assumption: orbital_speed * (position rotated 90°).
func (s *Satellite) Velocity() geo.Vec3 {
	direction := geo.RotY(s.position.Unit(), math.Pi/2)
	return direction.Scale(s.Plane.orbitalSpeed)
}

// HasLineOfSight reports whether the open segment from s's position to
// point does not intersect the Earth sphere (spec.md §4.3).
func (s *Satellite) HasLineOfSight(point geo.Vec3) bool {
	p0 := s.position
	distanceToPoint := p0.Distance(point)
	direction := point.Sub(p0).Unit()

	d := -direction.Dot(p0)
	nabla := math.Pow(direction.Dot(p0), 2) - p0.Dot(p0) + geo.EarthRadius*geo.EarthRadius

	inSegment := func(s float64) bool { return s > 0 && s < distanceToPoint }

	if nabla < 0 {
		return true
	}
	if nabla == 0 {
		return !inSegment(d)
	}
	root := math.Sqrt(nabla)
	return !(inSegment(d-root) || inSegment(d+root))
}

// IsInViewCone reports whether point lies within the satellite's 60°
// half-angle, Earth-pointing footprint cone, within the cone's maximum
// slant range.
func (s *Satellite) IsInViewCone(point geo.Vec3) bool {
	maxDistance := s.Plane.SemimajorAxis * math.Cos(HalfAngle)

	coneAxis := s.position.Unit().Scale(-1)
	toPoint := point.Sub(s.position)

	distance := toPoint.Norm()
	pointAngle := math.Acos(toPoint.Unit().Dot(coneAxis))

	return pointAngle <= HalfAngle && distance <= maxDistance
}
