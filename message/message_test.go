package message

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/nrayman/satlink/geo"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/stats"
	"github.com/nrayman/satlink/topology"
)

func testModel() *orbit.Model {
	m := orbit.BuildConstellation(3, 4, 53*math.Pi/180, orbit.Delta, 0, geo.EarthRadius+550e3, 2)
	m.Advance(0)
	return m
}

func TestEncodeInitShape(t *testing.T) {
	m := testModel()
	init := EncodeInit(m, 2.5)

	if init.MsgType != "init" {
		t.Fatalf("msg_type = %q, want init", init.MsgType)
	}
	if len(init.OrbitalPlanes) != 3 {
		t.Fatalf("orbital_planes len = %d, want 3", len(init.OrbitalPlanes))
	}
	if len(init.Satellites) != 12 {
		t.Fatalf("satellites len = %d, want 12", len(init.Satellites))
	}

	raw, err := json.Marshal(init)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTrip map[string]interface{}
	if err := json.Unmarshal(raw, &roundTrip); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := roundTrip["semimajor_axis"]; !ok {
		t.Fatal("missing semimajor_axis field in wire record")
	}
}

func TestEncodeUpdateOmitsConnectionsWithoutRefresh(t *testing.T) {
	m := testModel()
	u := EncodeUpdate(m, m.T(), nil)

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTrip map[string]interface{}
	json.Unmarshal(raw, &roundTrip)
	if _, present := roundTrip["connections"]; present {
		t.Fatal("connections field present on a non-refresh update")
	}
}

func TestEncodeUpdateIncludesConnectionsOnRefresh(t *testing.T) {
	m := testModel()
	topo := topology.Grid{Offset: 0}.Run(m)
	u := EncodeUpdate(m, m.T(), topo)

	if u.Connections == nil {
		t.Fatal("connections field missing on a refresh update")
	}
	if len(u.Connections) != topo.EdgeCount() {
		t.Fatalf("connections len = %d, want %d", len(u.Connections), topo.EdgeCount())
	}
}

func TestEncodeStatisticsOmitsAbsentRTT(t *testing.T) {
	rec := stats.Record{
		T:         1.0,
		CityPairs: []stats.CityPairStat{{Name: "london_nyc"}},
	}
	s := EncodeStatistics(rec)

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTrip map[string]interface{}
	json.Unmarshal(raw, &roundTrip)
	pairs := roundTrip["city_pairs"].([]interface{})
	pair := pairs[0].(map[string]interface{})
	if _, present := pair["rtt_ms"]; present {
		t.Fatal("rtt_ms present for an unreachable route")
	}
}
