package topology

import (
	"math"
	"testing"

	"github.com/nrayman/satlink/geo"
	"github.com/nrayman/satlink/orbit"
)

func buildModel(p, s, maxConnections int) *orbit.Model {
	m := orbit.BuildConstellation(p, s, 53*math.Pi/180, orbit.Delta, 0, geo.EarthRadius+550e3, maxConnections)
	m.Advance(0)
	return m
}

// TestGridTopologyClosure is scenario S1: P=10, S=20, max_connections=4,
// offset=0, no failures: first refresh produces 2*P*S edges, degree 4
// everywhere, single connected component.
func TestGridTopologyClosure(t *testing.T) {
	m := buildModel(10, 20, 4)
	g := Grid{Offset: 0}.Run(m)

	wantEdges := 2 * 10 * 20
	if got := g.EdgeCount(); got != wantEdges {
		t.Fatalf("edge count = %d, want %d", got, wantEdges)
	}
	for _, sat := range m.Satellites {
		if d := g.Degree(sat.ID); d != 4 {
			t.Fatalf("satellite %d degree = %d, want 4", sat.ID, d)
		}
	}
	if n := countComponents(g); n != 1 {
		t.Fatalf("connected components = %d, want 1", n)
	}
}

// TestGridPhasingSeam is scenario S2.
func TestGridPhasingSeam(t *testing.T) {
	m := buildModel(10, 20, 4)
	g := Grid{Offset: 1}.Run(m)
	for _, sat := range m.Satellites {
		if d := g.Degree(sat.ID); d != 4 {
			t.Fatalf("satellite %d degree = %d, want 4", sat.ID, d)
		}
	}
}

// TestMaxDegreeNeverExceeded checks invariant 1 against both strategies.
func TestMaxDegreeNeverExceeded(t *testing.T) {
	m := buildModel(6, 6, 3)
	for _, strat := range []Strategy{Grid{Offset: 0}, NearestNeighbor{}} {
		g := strat.Run(m)
		for _, sat := range m.Satellites {
			if d := g.Degree(sat.ID); d > 3 {
				t.Fatalf("%T: satellite %d degree = %d, want <= 3", strat, sat.ID, d)
			}
		}
	}
}

// TestDeadSatellitesNeverLinked checks invariant 2.
func TestDeadSatellitesNeverLinked(t *testing.T) {
	m := buildModel(6, 6, 3)
	m.Satellites[5].Alive = false
	for _, strat := range []Strategy{Grid{Offset: 0}, NearestNeighbor{}} {
		g := strat.Run(m)
		if g.HasNode(5) {
			t.Fatalf("%T: dead satellite 5 should not be a node", strat)
		}
		for _, e := range g.Edges() {
			if e.A == 5 || e.B == 5 {
				t.Fatalf("%T: edge incident to dead satellite 5", strat)
			}
		}
	}
}

// TestLineOfSightRejection is scenario S3: no edge is added between
// satellites on opposite sides of the Earth.
func TestLineOfSightRejection(t *testing.T) {
	m := buildModel(2, 1, 4)
	a := m.Satellites[0]
	b := m.Satellites[1]
	a.Plane.LongitudeAscendingNode = 0
	b.Plane.LongitudeAscendingNode = math.Pi
	a.RecalculatePosition(m.T())
	b.RecalculatePosition(m.T())

	g := NewGraph()
	g.AddNode(a.ID)
	g.AddNode(b.ID)
	if isEdgeValid(g, m, m.MaxConnections, a.ID, b.ID) {
		t.Fatal("expected edge invalid across opposite sides of Earth")
	}
}

func countComponents(g *Graph) int {
	visited := make(map[int]bool)
	count := 0
	for _, n := range g.Nodes() {
		if visited[n] {
			continue
		}
		count++
		stack := []int{n}
		visited[n] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range g.Neighbors(cur) {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
	}
	return count
}
