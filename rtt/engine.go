// Package rtt computes end-to-end round-trip time between two ground
// locations across the current, time-varying connection graph (spec.md
// §4.6).
package rtt

import (
	"github.com/nrayman/satlink/geo"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/topology"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// SpeedOfLight is the speed of light in vacuum, in meters per second.
const SpeedOfLight = 299792458

// Engine computes RTTs against a given model and topology snapshot. It
// holds no mutable state of its own.
type Engine struct{}

// RTT returns the round-trip time, in seconds, between c1 and c2 routed
// across topo, or false if no path exists. It never mutates topo: the
// graph is cloned, re-weighted against current satellite positions, and
// extended with two virtual ground nodes before the search runs (spec.md
// §4.6, §9 "RTT mutation isolation").
func (Engine) RTT(model *orbit.Model, topo *topology.Graph, c1, c2 geo.Coordinates) (float64, bool) {
	clone := topo.Clone()
	clone.RefreshWeights(model)

	p1 := model.SurfacePoint(c1)
	p2 := model.SurfacePoint(c2)

	id1 := len(model.Satellites)
	id2 := id1 + 1

	clone.AddNode(id1)
	clone.AddNode(id2)

	for _, satID := range clone.Nodes() {
		if satID == id1 || satID == id2 {
			continue
		}
		sat := model.Satellites[satID]
		if sat.IsInViewCone(p1) {
			clone.AddEdge(id1, satID, p1.Distance(sat.Position()))
		}
		if sat.IsInViewCone(p2) {
			clone.AddEdge(satID, id2, sat.Position().Distance(p2))
		}
	}

	heuristic := func(n, _ graph.Node) float64 {
		switch id := int(n.ID()); id {
		case id1:
			return p1.Distance(p2)
		case id2:
			return 0
		default:
			return model.Satellites[id].Position().Distance(p2)
		}
	}

	shortest, _ := path.AStar(simple.Node(id1), simple.Node(id2), clone.Underlying(), heuristic)
	nodes, cost := shortest.To(int64(id2))
	if len(nodes) < 2 {
		return 0, false
	}

	return 2 * cost / SpeedOfLight, true
}
