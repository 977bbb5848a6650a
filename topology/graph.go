// Package topology builds and represents the inter-satellite connection
// graph: the pluggable connection strategies, the edge-validity predicate,
// and the graph type itself.
package topology

import (
	"github.com/nrayman/satlink/orbit"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Graph is an undirected, weighted connection graph over satellite ids.
// Edge weight is the Euclidean distance between the two satellites at the
// time the edge was created (spec.md §3 ConnectionGraph).
type Graph struct {
	g *simple.WeightedUndirectedGraph
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{g: simple.NewWeightedUndirectedGraph(0, 0)}
}

// AddNode ensures id is present in the graph with no edges.
func (gr *Graph) AddNode(id int) {
	if gr.g.Node(int64(id)) == nil {
		gr.g.AddNode(simple.Node(id))
	}
}

// AddEdge adds a weighted edge between a and b. Both endpoints must
// already have been added via AddNode.
func (gr *Graph) AddEdge(a, b int, weight float64) {
	gr.g.SetWeightedEdge(simple.WeightedEdge{
		F: simple.Node(a),
		T: simple.Node(b),
		W: weight,
	})
}

// RemoveNode removes id and every edge incident to it.
func (gr *Graph) RemoveNode(id int) {
	gr.g.RemoveNode(int64(id))
}

// HasNode reports whether id is present.
func (gr *Graph) HasNode(id int) bool {
	return gr.g.Node(int64(id)) != nil
}

// Degree returns the number of edges incident to id. Returns 0 if id is
// absent.
func (gr *Graph) Degree(id int) int {
	if !gr.HasNode(id) {
		return 0
	}
	return gr.g.From(int64(id)).Len()
}

// Nodes returns every node id currently in the graph.
func (gr *Graph) Nodes() []int {
	it := gr.g.Nodes()
	out := make([]int, 0, it.Len())
	for it.Next() {
		out = append(out, int(it.Node().ID()))
	}
	return out
}

// Neighbors returns the ids adjacent to id.
func (gr *Graph) Neighbors(id int) []int {
	it := gr.g.From(int64(id))
	out := make([]int, 0, it.Len())
	for it.Next() {
		out = append(out, int(it.Node().ID()))
	}
	return out
}

// Edges returns every edge as (a, b, weight) with a < b, each pair
// reported once.
func (gr *Graph) Edges() []Edge {
	it := gr.g.Edges()
	out := make([]Edge, 0, it.Len())
	for it.Next() {
		e := it.Edge().(simple.WeightedEdge)
		a, b := int(e.From().ID()), int(e.To().ID())
		if a > b {
			a, b = b, a
		}
		out = append(out, Edge{A: a, B: b, Weight: e.Weight()})
	}
	return out
}

// EdgeCount returns the number of edges in the graph.
func (gr *Graph) EdgeCount() int {
	return len(gr.Edges())
}

// NodeCount returns the number of nodes in the graph.
func (gr *Graph) NodeCount() int {
	return gr.g.Nodes().Len()
}

// SetWeight overwrites the weight of an existing edge.
func (gr *Graph) SetWeight(a, b int, weight float64) {
	gr.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(a), T: simple.Node(b), W: weight})
}

// Clone returns a deep copy of the graph, suitable for re-weighting
// without mutating the canonical topology (spec.md §4.6, §9 "RTT mutation
// isolation").
func (gr *Graph) Clone() *Graph {
	clone := NewGraph()
	for _, n := range gr.Nodes() {
		clone.AddNode(n)
	}
	for _, e := range gr.Edges() {
		clone.AddEdge(e.A, e.B, e.Weight)
	}
	return clone
}

// Underlying exposes the gonum graph.WeightedUndirected view, used by the
// rtt package to run A* without duplicating the graph traversal API.
func (gr *Graph) Underlying() graph.WeightedUndirected {
	return gr.g
}

// Edge is a materialized (a, b, weight) triple.
type Edge struct {
	A, B   int
	Weight float64
}

// RefreshWeights re-weights every edge against the current satellite
// positions in model (spec.md §4.6 step 2). Mutates gr in place — callers
// computing RTT must Clone first.
func (gr *Graph) RefreshWeights(model *orbit.Model) {
	for _, e := range gr.Edges() {
		a := model.Satellites[e.A].Position()
		b := model.Satellites[e.B].Position()
		gr.SetWeight(e.A, e.B, a.Distance(b))
	}
}
