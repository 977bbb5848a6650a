package transport

import (
	"encoding/json"
	"math"
	"net"
	"testing"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/nrayman/satlink/geo"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/simulation"
	"github.com/nrayman/satlink/topology"
)

func testState(t *testing.T) *simulation.State {
	t.Helper()
	model := orbit.BuildConstellation(4, 4, 53*math.Pi/180, orbit.Delta, 0, geo.EarthRadius+550e3, 2)
	seed := int64(7)
	cfg := simulation.Config{
		TimeStep:                  10,
		SimulationSpeed:           1,
		ConnectionRefreshInterval: 30,
		RNGSeed:                   &seed,
	}
	return simulation.New(model, topology.Grid{Offset: 0}, cfg, nil, kitlog.NewNopLogger())
}

func TestVizServerSendsInitThenUpdates(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	s := &VizServer{
		Addr:           ln.Addr().String(),
		State:          testState(t),
		UpdateInterval: 10 * time.Millisecond,
		Logger:         kitlog.NewNopLogger(),
	}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		s.handleConn(conn)
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * time.Second))

	initBody, err := ReadFrame(conn)
	if err != nil {
		t.Fatalf("read init: %v", err)
	}
	var init map[string]interface{}
	if err := json.Unmarshal(initBody, &init); err != nil {
		t.Fatalf("unmarshal init: %v", err)
	}
	if init["msg_type"] != "init" {
		t.Fatalf("msg_type = %v, want init", init["msg_type"])
	}

	updateBody, err := ReadFrame(conn)
	if err != nil {
		t.Fatalf("read update: %v", err)
	}
	var update map[string]interface{}
	if err := json.Unmarshal(updateBody, &update); err != nil {
		t.Fatalf("unmarshal update: %v", err)
	}
	if update["msg_type"] != "update" {
		t.Fatalf("msg_type = %v, want update", update["msg_type"])
	}
}
