package topology

import "github.com/nrayman/satlink/orbit"

// Grid connects satellites in a fixed ring-plus-seam lattice: an
// intra-plane ring and an inter-plane seam offset by Offset (spec.md
// §4.4). Offset 0 connects plane i's satellite j to plane i+1's
// satellite j; Offset k shifts the seam by k satellites.
type Grid struct {
	Offset int
}

// Run implements Strategy.
func (g Grid) Run(model *orbit.Model) *Graph {
	topology := NewGraph()
	for _, sat := range model.Satellites {
		if sat.Alive {
			topology.AddNode(sat.ID)
		}
	}

	planes := len(model.Planes)
	satsPerPlane := model.SatsPerPlane()
	maxConnections := maxConnectionsOf(model)

	for i := 0; i < planes; i++ {
		for j := 0; j < satsPerPlane; j++ {
			a := i*satsPerPlane + j
			b := i*satsPerPlane + (j+1)%satsPerPlane
			addEdge(topology, model, maxConnections, a, b)
		}
	}

	for j := 0; j < satsPerPlane; j++ {
		for i := 0; i < planes; i++ {
			a := i*satsPerPlane + j
			nextPlane := (i + 1) % planes
			nextSat := ((j+g.Offset)%satsPerPlane + satsPerPlane) % satsPerPlane
			b := nextPlane*satsPerPlane + nextSat
			addEdge(topology, model, maxConnections, a, b)
		}
	}

	return topology
}
