// Command satlink runs the constellation simulation driver together with
// its visualization and statistics streams (spec.md §6 "CLI").
package main

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/nrayman/satlink/config"
	"github.com/nrayman/satlink/geo"
	"github.com/nrayman/satlink/logging"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/simulation"
	"github.com/nrayman/satlink/stats"
	"github.com/nrayman/satlink/topology"
	"github.com/nrayman/satlink/transport"
)

const (
	vizAddr   = "127.0.0.1:2000"
	statsAddr = "127.0.0.1:2001"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New("driver")

	model := orbit.BuildConstellation(
		cfg.Constellation.NumOrbitalPlanes,
		cfg.Constellation.SatellitesPerPlane,
		cfg.Constellation.Inclination*math.Pi/180,
		constellationType(cfg.Constellation.Type),
		cfg.Constellation.Phasing,
		geo.EarthRadius+cfg.Constellation.Altitude,
		cfg.Constellation.MaxConnections,
	)

	strategy := buildStrategy(cfg.Strategy)

	simCfg := simulation.Config{
		TimeStep:                  1 / cfg.Simulation.UpdateFrequency,
		SimulationSpeed:           cfg.Simulation.SimulationSpeed,
		ConnectionRefreshInterval: cfg.Simulation.ConnectionRefreshInterval,
		RNGSeed:                   cfg.Simulation.RNGSeed,
		StartingFailureP:          cfg.Simulation.StartingFailureProbability,
		RecurrentFailureP:         cfg.Simulation.RecurrentFailureProbability,
	}

	snapshotter := func(m *orbit.Model, t float64, topo *topology.Graph) simulation.StatisticsRecord {
		return (stats.Engine{}).Compute(m, t, topo)
	}

	state := simulation.New(model, strategy, simCfg, snapshotter, logger)

	// The viz server has no natural end: it serves until the process is
	// killed, same as an unbounded run (spec.md §5 "Cancellation"). Only
	// the statistics sink is joined below, so its drain-to-completion on
	// a finite (steps-bounded) run is not cut short.
	go func() {
		viz := &transport.VizServer{
			Addr:           vizAddr,
			State:          state,
			UpdateInterval: time.Duration(float64(time.Second) / cfg.Simulation.UpdateFrequencyServer),
			Logger:         logging.New("viz-server"),
		}
		if err := viz.ListenAndServe(); err != nil {
			logger.Log("level", "error", "event", "viz_server_exit", "err", err)
		}
	}()

	var statsWG sync.WaitGroup
	statsWG.Add(1)
	go func() {
		defer statsWG.Done()
		sink := &transport.StatsSink{
			Addr:     statsAddr,
			FilePath: cfg.Simulation.FilePath,
			State:    state,
			Logger:   logging.New("stats-sink"),
		}
		if err := sink.Run(); err != nil {
			logger.Log("level", "error", "event", "stats_sink_exit", "err", err)
		}
	}()

	runDriver(state, cfg, logger)
	statsWG.Wait() // Don't return until every queued statistics record has been written.
}

func loadConfig(args []string) (config.Config, error) {
	switch len(args) {
	case 0:
		return config.Default(), nil
	case 1:
		return config.Load(args[0])
	default:
		return config.Config{}, fmt.Errorf("satlink: unexpected arguments: %v", args[1:])
	}
}

func constellationType(s string) orbit.ConstellationType {
	t, ok := orbit.ConstellationTypeFromString(s)
	if !ok {
		return orbit.Delta
	}
	return t
}

func buildStrategy(s config.Strategy) topology.Strategy {
	if s.Type == "nearest_neighbor" {
		return topology.NearestNeighbor{}
	}
	return topology.Grid{Offset: s.Offset}
}

// runDriver advances the simulation at its configured cadence: zero delay
// in file-recording mode (spec.md §5 "Suspension points"), otherwise
// sleeping 1/update_frequency seconds between ticks. It returns once
// Steps ticks have run, or never if Steps is unset. On exit it closes
// state's statistics producer so the stats sink drains its queue and
// returns instead of blocking on StatsChannel forever.
func runDriver(state *simulation.State, cfg config.Config, logger kitlog.Logger) {
	fileRecording := cfg.Simulation.FilePath != ""
	interval := time.Duration(float64(time.Second) / cfg.Simulation.UpdateFrequency)

	tick := 0
	for {
		state.Tick()
		tick++

		if cfg.Simulation.Steps != nil && tick >= *cfg.Simulation.Steps {
			logger.Log("level", "info", "event", "driver_exit", "ticks", tick)
			state.Close()
			return
		}
		if !fileRecording {
			time.Sleep(interval)
		}
	}
}
