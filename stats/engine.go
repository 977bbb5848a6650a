// Package stats computes the per-refresh network-quality statistics
// published alongside each topology rebuild: connected components,
// articulation points, density, failure ratio, and fixed-city-pair RTTs
// (spec.md §4.7).
package stats

import (
	"math"

	"github.com/nrayman/satlink/geo"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/rtt"
	"github.com/nrayman/satlink/topology"
)

// Fixed ground locations tracked on every refresh (spec.md §4.7).
var (
	london       = geo.NewCoordinates(51.5074, -0.1278)
	newYork      = geo.NewCoordinates(40.7128, -74.0060)
	singapore    = geo.NewCoordinates(1.3521, 103.8198)
	johannesburg = geo.NewCoordinates(-26.2041, 28.0473)
)

var cityPairs = []struct {
	name string
	a, b geo.Coordinates
}{
	{"london_nyc", london, newYork},
	{"london_singapore", london, singapore},
	{"london_johannesburg", london, johannesburg},
}

// CityPairStat is one fixed ground-location route. RTTMillis and
// LatencyPerMeter are both nil when the route is currently unreachable
// (spec.md §7 "Unreachable RTT": absent, never an error).
type CityPairStat struct {
	Name            string
	RTTMillis       *float64
	LatencyPerMeter *float64
}

// Record is the statistics snapshot published once per topology refresh.
type Record struct {
	T                   float64
	ConnectedComponents int
	ArticulationPoints  int
	GraphDensity        float64
	ActiveConnections   int
	FailureRatio        float64
	CityPairs           []CityPairStat
}

// Engine computes Records from a model/topology snapshot. It holds no
// state of its own; RTT computation is delegated to rtt.Engine.
type Engine struct {
	RTT rtt.Engine
}

// Compute builds a Record for the given snapshot (spec.md §4.7). t is
// rounded to 3 decimal places, matching the wire format.
func (e Engine) Compute(model *orbit.Model, t float64, topo *topology.Graph) Record {
	nodeCount := topo.NodeCount()
	edgeCount := topo.EdgeCount()

	var density float64
	if nodeCount > 1 {
		density = 2 * float64(edgeCount) / (float64(nodeCount) * float64(nodeCount-1))
	}

	dead := 0
	for _, sat := range model.Satellites {
		if !sat.Alive {
			dead++
		}
	}
	var failureRatio float64
	if total := len(model.Satellites); total > 0 {
		failureRatio = float64(dead) / float64(total) * 100
	}

	stats := make([]CityPairStat, 0, len(cityPairs))
	for _, p := range cityPairs {
		stats = append(stats, e.cityPairStat(model, topo, p.name, p.a, p.b))
	}

	return Record{
		T:                   math.Round(t*1000) / 1000,
		ConnectedComponents: connectedComponents(topo),
		ArticulationPoints:  len(articulationPoints(topo)),
		GraphDensity:        density,
		ActiveConnections:   edgeCount,
		FailureRatio:        failureRatio,
		CityPairs:           stats,
	}
}

func (e Engine) cityPairStat(model *orbit.Model, topo *topology.Graph, name string, a, b geo.Coordinates) CityPairStat {
	stat := CityPairStat{Name: name}

	seconds, ok := e.RTT.RTT(model, topo, a, b)
	if !ok {
		return stat
	}

	millis := seconds * 1000
	stat.RTTMillis = &millis

	if dist := a.HaversineDistance(b); dist > 0 {
		latency := millis / dist
		stat.LatencyPerMeter = &latency
	}
	return stat
}
