package stats

import (
	"math"
	"testing"

	"github.com/nrayman/satlink/geo"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/topology"
)

func TestComputeFullyAlive(t *testing.T) {
	model := orbit.BuildConstellation(10, 20, 53*math.Pi/180, orbit.Delta, 0, geo.EarthRadius+550e3, 4)
	model.Advance(0)
	topo := topology.Grid{Offset: 0}.Run(model)

	rec := (Engine{}).Compute(model, model.T(), topo)

	if rec.ConnectedComponents != 1 {
		t.Fatalf("connected components = %d, want 1", rec.ConnectedComponents)
	}
	if rec.ActiveConnections != topo.EdgeCount() {
		t.Fatalf("active connections = %d, want %d", rec.ActiveConnections, topo.EdgeCount())
	}
	if rec.FailureRatio != 0 {
		t.Fatalf("failure ratio = %f, want 0", rec.FailureRatio)
	}
	if len(rec.CityPairs) != 3 {
		t.Fatalf("city pairs = %d, want 3", len(rec.CityPairs))
	}
}

func TestComputeFailureRatio(t *testing.T) {
	model := orbit.BuildConstellation(5, 4, 53*math.Pi/180, orbit.Delta, 0, geo.EarthRadius+550e3, 3)
	model.Advance(0)
	for i := 0; i < 2; i++ {
		model.Satellites[i].Alive = false
	}
	topo := topology.Grid{Offset: 0}.Run(model)

	rec := (Engine{}).Compute(model, model.T(), topo)
	want := 2.0 / 20.0 * 100
	if rec.FailureRatio != want {
		t.Fatalf("failure ratio = %f, want %f", rec.FailureRatio, want)
	}
}

func TestComputeTRoundedToThreeDecimals(t *testing.T) {
	model := orbit.BuildConstellation(4, 4, 53*math.Pi/180, orbit.Delta, 0, geo.EarthRadius+550e3, 2)
	model.Advance(0)
	topo := topology.Grid{Offset: 0}.Run(model)

	rec := (Engine{}).Compute(model, 12.345678, topo)
	if rec.T != 12.346 {
		t.Fatalf("t = %v, want 12.346", rec.T)
	}
}

// TestGraphDensityMatchesFormula is spec.md invariant 8:
// graph_density = 2|E| / (|V|(|V|-1)).
func TestGraphDensityMatchesFormula(t *testing.T) {
	model := orbit.BuildConstellation(10, 20, 53*math.Pi/180, orbit.Delta, 0, geo.EarthRadius+550e3, 4)
	model.Advance(0)
	topo := topology.Grid{Offset: 0}.Run(model)

	rec := (Engine{}).Compute(model, model.T(), topo)

	n := float64(topo.NodeCount())
	e := float64(topo.EdgeCount())
	want := 2 * e / (n * (n - 1))
	if rec.GraphDensity != want {
		t.Fatalf("graph density = %v, want %v", rec.GraphDensity, want)
	}
}
