package topology

import "github.com/nrayman/satlink/orbit"

// Strategy produces a fresh ConnectionGraph from the current model
// snapshot (spec.md §4.4). Implementations must respect the edge-validity
// predicate in isEdgeValid: every returned graph satisfies the invariants
// in spec.md §3 (alive endpoints, degree bound, line of sight).
type Strategy interface {
	Run(model *orbit.Model) *Graph
}

// isEdgeValid reports whether an edge between satellites a and b may be
// added to topology under construction: both alive, neither endpoint
// already at maxConnections degree, and a has line of sight to b.
func isEdgeValid(topology *Graph, model *orbit.Model, maxConnections, a, b int) bool {
	satA := model.Satellites[a]
	satB := model.Satellites[b]

	bothAlive := satA.Alive && satB.Alive
	roomAvailable := topology.Degree(a) < maxConnections && topology.Degree(b) < maxConnections

	return bothAlive && roomAvailable && satA.HasLineOfSight(satB.Position())
}

// addEdge adds the edge (a, b) to topology if isEdgeValid allows it,
// weighted by the current Euclidean distance between the satellites.
func addEdge(topology *Graph, model *orbit.Model, maxConnections, a, b int) {
	if !isEdgeValid(topology, model, maxConnections, a, b) {
		return
	}
	length := model.Satellites[a].Position().Distance(model.Satellites[b].Position())
	topology.AddEdge(a, b, length)
}

func maxConnectionsOf(model *orbit.Model) int {
	return model.MaxConnections
}
