package topology

import "github.com/nrayman/satlink/orbit"

// NearestNeighbor connects each alive satellite, in ascending id order, to
// its nearest valid candidates until it reaches MaxConnections degree
// (spec.md §4.4). Candidate order is ascending squared distance with ties
// broken by ascending id, produced by a k-d tree over alive-satellite
// positions.
type NearestNeighbor struct{}

// Run implements Strategy.
func (NearestNeighbor) Run(model *orbit.Model) *Graph {
	topology := NewGraph()

	points := make([]kdPoint, 0, len(model.Satellites))
	for _, sat := range model.Satellites {
		if sat.Alive {
			topology.AddNode(sat.ID)
			points = append(points, kdPoint{id: sat.ID, position: sat.Position()})
		}
	}
	tree := newKDTree(points)
	maxConnections := maxConnectionsOf(model)

	for _, sat := range model.Satellites {
		if !sat.Alive {
			continue
		}
		for _, candidate := range tree.candidatesByDistance(sat.ID, sat.Position()) {
			if topology.Degree(sat.ID) == maxConnections {
				break
			}
			addEdge(topology, model, maxConnections, sat.ID, candidate)
		}
	}

	return topology
}
