// Package message builds the JSON wire records exchanged with the
// visualization and statistics streams (spec.md §6, §4.8). Every encoder
// here is a pure function of its arguments and takes no lock itself.
// EncodeInit and EncodeUpdate read the model passed in, so callers run them
// inside simulation.State.Snapshot; the records they return hold copies
// and keep no reference to the model.
package message

import (
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/stats"
	"github.com/nrayman/satlink/topology"
)

// Init is sent once, before any Update, on a new visualization connection.
type Init struct {
	MsgType         string           `json:"msg_type"`
	SemimajorAxis   float64          `json:"semimajor_axis"`
	Inclination     float64          `json:"inclination"`
	SimulationSpeed float64          `json:"simulation_speed"`
	OrbitalPlanes   []OrbitalPlane   `json:"orbital_planes"`
	Satellites      []InitSatellite  `json:"satellites"`
}

// OrbitalPlane is one entry of Init's orbital_planes array.
type OrbitalPlane struct {
	Longitude float64 `json:"longitude"`
}

// InitSatellite is one entry of Init's satellites array.
type InitSatellite struct {
	OrbitalPlane int     `json:"orbital_plane"`
	ArgPeriapsis float64 `json:"arg_periapsis"`
}

// EncodeInit builds the one-time Init record for model (spec.md §6). All
// satellites share the same semimajor axis and inclination by
// construction, so the first plane's values are representative.
func EncodeInit(model *orbit.Model, simulationSpeed float64) Init {
	planes := make([]OrbitalPlane, 0, len(model.Planes))
	for _, p := range model.Planes {
		planes = append(planes, OrbitalPlane{Longitude: p.LongitudeAscendingNode})
	}

	sats := make([]InitSatellite, 0, len(model.Satellites))
	for _, s := range model.Satellites {
		sats = append(sats, InitSatellite{
			OrbitalPlane: s.Plane.ID,
			ArgPeriapsis: s.ArgPeriapsis,
		})
	}

	var semimajorAxis, inclination float64
	if len(model.Planes) > 0 {
		semimajorAxis = model.Planes[0].SemimajorAxis
		inclination = model.Planes[0].Inclination
	}

	return Init{
		MsgType:         "init",
		SemimajorAxis:   semimajorAxis,
		Inclination:     inclination,
		SimulationSpeed: simulationSpeed,
		OrbitalPlanes:   planes,
		Satellites:      sats,
	}
}

// Update is sent repeatedly after Init, at the visualization server's own
// update interval. Connections is present only when EncodeUpdate is given
// a topology: the visualization server passes one on a connection's first
// update and whenever the topology has been rebuilt since its previous
// update (spec.md §6).
type Update struct {
	MsgType     string             `json:"msg_type"`
	T           float64            `json:"t"`
	Satellites  []UpdateSatellite  `json:"satellites"`
	Connections [][2]int           `json:"connections,omitempty"`
}

// UpdateSatellite is one entry of Update's satellites array.
type UpdateSatellite struct {
	Position [3]float64 `json:"position"`
	Status   bool       `json:"status"`
}

// EncodeUpdate builds an Update record. Pass a nil topo on ticks that did
// not refresh the topology, so Connections is omitted from the wire
// record (spec.md §6 "present only on refresh ticks").
func EncodeUpdate(model *orbit.Model, t float64, topo *topology.Graph) Update {
	sats := make([]UpdateSatellite, 0, len(model.Satellites))
	for _, s := range model.Satellites {
		pos := s.Position()
		sats = append(sats, UpdateSatellite{
			Position: [3]float64{pos[0], pos[1], pos[2]},
			Status:   s.Alive,
		})
	}

	u := Update{MsgType: "update", T: t, Satellites: sats}
	if topo != nil {
		edges := topo.Edges()
		conns := make([][2]int, 0, len(edges))
		for _, e := range edges {
			conns = append(conns, [2]int{e.A, e.B})
		}
		u.Connections = conns
	}
	return u
}

// SimulateFailure is the single client-to-server command accepted on the
// visualization connection (spec.md §6).
type SimulateFailure struct {
	MsgType     string `json:"msg_type"`
	SatelliteID int    `json:"satellite_id"`
}

// Statistics is published once per topology refresh on the statistics
// stream (spec.md §4.7).
type Statistics struct {
	T                   float64           `json:"t"`
	ConnectedComponents int               `json:"connected_components"`
	ArticulationPoints  int               `json:"articulation_points"`
	GraphDensity        float64           `json:"graph_density"`
	ActiveConnections   int               `json:"active_connections"`
	FailureRatio        float64           `json:"failure_ratio"`
	CityPairs           []StatisticsRoute `json:"city_pairs"`
}

// StatisticsRoute is one fixed city-pair entry in a Statistics record.
// RTTMillis and LatencyPerMeter are both absent (nil) when the route is
// currently unreachable (spec.md §7 "Unreachable RTT").
type StatisticsRoute struct {
	Name            string   `json:"name"`
	RTTMillis       *float64 `json:"rtt_ms,omitempty"`
	LatencyPerMeter *float64 `json:"latency,omitempty"`
}

// EncodeStatistics converts a stats.Record into its wire shape.
func EncodeStatistics(rec stats.Record) Statistics {
	routes := make([]StatisticsRoute, 0, len(rec.CityPairs))
	for _, cp := range rec.CityPairs {
		routes = append(routes, StatisticsRoute{
			Name:            cp.Name,
			RTTMillis:       cp.RTTMillis,
			LatencyPerMeter: cp.LatencyPerMeter,
		})
	}

	return Statistics{
		T:                   rec.T,
		ConnectedComponents: rec.ConnectedComponents,
		ArticulationPoints:  rec.ArticulationPoints,
		GraphDensity:        rec.GraphDensity,
		ActiveConnections:   rec.ActiveConnections,
		FailureRatio:        rec.FailureRatio,
		CityPairs:           routes,
	}
}
