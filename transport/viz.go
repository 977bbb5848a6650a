package transport

import (
	"encoding/json"
	"net"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/nrayman/satlink/message"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/simulation"
	"github.com/nrayman/satlink/topology"
)

// VizServer is the visualization stream (spec.md §6, port 2000): one
// accept loop, one goroutine per connection, sampling the shared
// simulation state at its own cadence and opportunistically parsing
// inbound simulate_failure commands.
type VizServer struct {
	Addr           string
	State          *simulation.State
	UpdateInterval time.Duration
	Logger         log.Logger
}

// ListenAndServe binds Addr and accepts connections forever; accept errors
// are logged and the loop continues. It returns only when Addr cannot be
// bound.
func (s *VizServer) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	s.Logger.Log("level", "info", "event", "listening", "addr", s.Addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.Logger.Log("level", "error", "event", "accept", "err", err)
			continue
		}
		go s.handleConn(conn)
	}
}

func (s *VizServer) handleConn(conn net.Conn) {
	defer conn.Close()

	var initMsg message.Init
	s.State.Snapshot(func(model *orbit.Model, _ float64, _ *topology.Graph, simSpeed float64) {
		initMsg = message.EncodeInit(model, simSpeed)
	})
	if err := WriteFrame(conn, initMsg); err != nil {
		s.Logger.Log("level", "info", "event", "disconnect", "stage", "init", "err", err)
		return
	}

	var lastTopo *topology.Graph
	ticker := time.NewTicker(s.UpdateInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.tryReadCommand(conn)

		var update message.Update
		s.State.Snapshot(func(model *orbit.Model, t float64, topo *topology.Graph, _ float64) {
			var refreshed *topology.Graph
			if topo != lastTopo {
				refreshed = topo
				lastTopo = topo
			}
			update = message.EncodeUpdate(model, t, refreshed)
		})

		if err := WriteFrame(conn, update); err != nil {
			s.Logger.Log("level", "info", "event", "disconnect", "stage", "update", "err", err)
			return
		}
	}
}

// tryReadCommand attempts a single non-blocking command read: malformed
// or absent input is ignored, the connection stays open either way
// (spec.md §7 "Malformed client command").
func (s *VizServer) tryReadCommand(conn net.Conn) {
	conn.SetReadDeadline(time.Now().Add(5 * time.Millisecond))
	defer conn.SetReadDeadline(time.Time{})

	body, err := ReadFrame(conn)
	if err != nil {
		return
	}

	var cmd message.SimulateFailure
	if err := json.Unmarshal(body, &cmd); err != nil || cmd.MsgType != "simulate_failure" {
		return
	}

	s.State.SimulateFailure(cmd.SatelliteID)
	s.Logger.Log("level", "notice", "event", "simulate_failure", "satellite", cmd.SatelliteID)
}
