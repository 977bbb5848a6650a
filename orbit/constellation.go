package orbit

import (
	"math"

	"github.com/nrayman/satlink/geo"
)

// EarthRotationPeriod is the rotation period (one 24-hour day) used to
// spin ground coordinates with the planet, in seconds.
const EarthRotationPeriod = 86400

// ConstellationType controls how ascending nodes are spread across planes.
type ConstellationType int

const (
	// Delta spreads plane ascending nodes over the full 2π.
	Delta ConstellationType = iota
	// Star spreads plane ascending nodes over π.
	Star
)

// Angle returns the total angular spread used to space plane ascending
// nodes: 2π for Delta, π for Star.
func (c ConstellationType) Angle() float64 {
	switch c {
	case Star:
		return math.Pi
	default:
		return 2 * math.Pi
	}
}

func (c ConstellationType) String() string {
	switch c {
	case Star:
		return "star"
	default:
		return "delta"
	}
}

// ConstellationTypeFromString parses the config-file constellation type
// name ("delta" or "star").
// Returns false if the string is not recognized.
func ConstellationTypeFromString(s string) (ConstellationType, bool) {
	switch s {
	case "delta":
		return Delta, true
	case "star":
		return Star, true
	default:
		return 0, false
	}
}

// Model holds every Plane and Satellite created for a run. Planes and
// satellites are created once here and never destroyed — see spec.md §3
// Lifecycle.
type Model struct {
	Planes         []*Plane
	Satellites     []*Satellite
	MaxConnections int
	t              float64
}

// BuildConstellation creates the planes and satellites described by
// spec.md §4.2: plane i's longitude is type.Angle()*i/numPlanes; satellite
// (i,j)'s id is i*satsPerPlane+j and its argument of periapsis is
// phasing*π*i/(numPlanes*satsPerPlane) + 2π*j/satsPerPlane. Ids are
// allocated plane-major, which is observable via the message encoders.
func BuildConstellation(numPlanes, satsPerPlane int, inclination float64, ctype ConstellationType, phasing int, semimajorAxis float64, maxConnections int) *Model {
	totalSatellites := numPlanes * satsPerPlane
	m := &Model{
		Planes:         make([]*Plane, 0, numPlanes),
		Satellites:     make([]*Satellite, 0, totalSatellites),
		MaxConnections: maxConnections,
	}

	for i := 0; i < numPlanes; i++ {
		longitude := ctype.Angle() * float64(i) / float64(numPlanes)
		plane := NewPlane(i, semimajorAxis, inclination, longitude)
		m.Planes = append(m.Planes, plane)

		for j := 0; j < satsPerPlane; j++ {
			id := i*satsPerPlane + j
			argPeriapsis := float64(phasing)*math.Pi*float64(i)/float64(totalSatellites) + 2*math.Pi*float64(j)/float64(satsPerPlane)
			m.Satellites = append(m.Satellites, NewSatellite(id, plane, argPeriapsis))
		}
	}

	return m
}

// T returns the current simulation time, in seconds.
func (m *Model) T() float64 { return m.t }

// Advance moves simulation time forward by timeStep and recomputes every
// satellite's cached position (spec.md §4.5 step 1).
func (m *Model) Advance(timeStep float64) {
	m.t += timeStep
	for _, sat := range m.Satellites {
		sat.RecalculatePosition(m.t)
	}
}

// SatsPerPlane returns the number of satellites in each plane (constant
// across planes by construction).
func (m *Model) SatsPerPlane() int {
	if len(m.Planes) == 0 {
		return 0
	}
	return len(m.Satellites) / len(m.Planes)
}

// SurfacePoint returns the Earth-centered inertial position of a ground
// coordinate at the model's current time, accounting for Earth's rotation
// (spec.md §4.6 step 1).
func (m *Model) SurfacePoint(c geo.Coordinates) geo.Vec3 {
	angleY := math.Mod((m.t/EarthRotationPeriod)*2*math.Pi+c.Longitude()*math.Pi/180, 2*math.Pi)
	angleZ := c.Latitude() * math.Pi / 180

	v := geo.Vec3{geo.EarthRadius, 0, 0}
	v = geo.RotY(v, angleY)
	v = geo.RotZ(v, angleZ)
	return v
}
