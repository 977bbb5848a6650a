// Package simulation drives the constellation forward in time: position
// updates, periodic topology refresh, and the failure model. State is
// the single authoritative owner of the model and topology; every other
// goroutine reads it through the exported, mutex-guarded accessors.
package simulation

import (
	"math/rand"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/nrayman/satlink/orbit"
	"github.com/nrayman/satlink/topology"
	"sync"
)

// StatisticsRecord is published on the stats channel once per refresh. Its
// concrete shape lives in the message package; simulation only needs to
// move an opaque value through the channel.
type StatisticsRecord interface{}

// Snapshotter builds a StatisticsRecord from a model/topology snapshot.
// It is called with the state's write lock already held by the refresh
// path, so it must not call back into State — it receives everything it
// needs as plain arguments instead. Injected so that simulation does not
// need to import the stats/message packages; it only depends on the orbit
// and topology packages whose types appear in the signature.
type Snapshotter func(model *orbit.Model, t float64, topo *topology.Graph) StatisticsRecord

// Config bundles the constructor parameters that come straight from the
// configuration file (spec.md §6 [simulation] table).
type Config struct {
	TimeStep                  float64
	SimulationSpeed           float64
	ConnectionRefreshInterval float64
	RNGSeed                   *int64
	StartingFailureP          float64
	RecurrentFailureP         float64
}

// State is the simulation's authoritative, mutex-guarded model. Tick (the
// driver) and SimulateFailure (inbound commands from the visualization
// server) mutate it under the write lock; any number of readers may call
// the snapshot accessors concurrently.
type State struct {
	mu sync.RWMutex

	model              *orbit.Model
	t                  float64
	timeStep           float64
	simulationSpeed    float64
	refreshInterval    float64
	lastRefreshTime    float64
	topology           *topology.Graph
	strategy           topology.Strategy
	rng                *rand.Rand
	recurrentFailureP  float64
	statsIn            chan<- StatisticsRecord
	statsOut           <-chan StatisticsRecord
	closeStats         func()
	snapshot           Snapshotter
	logger             log.Logger
}

// New constructs a State: builds the starting-failure set, then computes
// the initial topology (spec.md §4.5 "At construction").
func New(model *orbit.Model, strategy topology.Strategy, cfg Config, snapshot Snapshotter, logger log.Logger) *State {
	var rng *rand.Rand
	if cfg.RNGSeed != nil {
		rng = rand.New(rand.NewSource(*cfg.RNGSeed))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if cfg.StartingFailureP > 0 {
		for _, sat := range model.Satellites {
			if rng.Float64() < cfg.StartingFailureP {
				sat.Alive = false
			}
		}
	}

	statsIn, statsOut, closeStats := newStatsQueue()

	s := &State{
		model:             model,
		timeStep:          cfg.TimeStep,
		simulationSpeed:   cfg.SimulationSpeed,
		refreshInterval:   cfg.ConnectionRefreshInterval,
		strategy:          strategy,
		rng:               rng,
		recurrentFailureP: cfg.RecurrentFailureP,
		statsIn:           statsIn,
		statsOut:          statsOut,
		closeStats:        closeStats,
		snapshot:          snapshot,
		logger:            logger,
	}
	s.refreshTopology()
	return s
}

// StatsChannel returns the channel the statistics sink drains. It closes
// once Close has been called and every already-published record has been
// forwarded — no record queued before Close is ever dropped (spec.md §5
// "Records cannot be dropped").
func (s *State) StatsChannel() <-chan StatisticsRecord {
	return s.statsOut
}

// Close stops accepting new statistics records. It must be called exactly
// once, after the driver's tick loop has made its last call to Tick, and
// does not block: StatsChannel continues to deliver everything already
// queued before closing itself (spec.md §5 "Records cannot be dropped").
func (s *State) Close() {
	s.closeStats()
}

// newStatsQueue returns a producer/consumer pair backed by an internal,
// memory-bounded-only queue: sends on in never block on the consumer
// draining out, so a stalled statistics client cannot stall a caller
// holding s.mu in Tick (spec.md §5 "Critical sections are bounded by
// model size, not by network latency"). closeFn closes in; out is closed
// once every buffered record has been forwarded.
func newStatsQueue() (in chan<- StatisticsRecord, out <-chan StatisticsRecord, closeFn func()) {
	inCh := make(chan StatisticsRecord)
	outCh := make(chan StatisticsRecord)
	var closeOnceGuard sync.Once

	go func() {
		defer close(outCh)
		var pending []StatisticsRecord
		src := inCh
		for {
			if len(pending) == 0 {
				if src == nil {
					return
				}
				v, ok := <-src
				if !ok {
					return
				}
				pending = append(pending, v)
				continue
			}

			select {
			case v, ok := <-src:
				if !ok {
					src = nil
					continue
				}
				pending = append(pending, v)
			case outCh <- pending[0]:
				pending = pending[1:]
			}
		}
	}()

	return inCh, outCh, func() {
		closeOnceGuard.Do(func() {
			close(inCh)
		})
	}
}

// Tick advances simulation time by one time step and, at refresh
// boundaries, injects recurrent failures and recomputes the topology
// (spec.md §4.5).
func (s *State) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model.Advance(s.timeStep)
	s.t = s.model.T()

	if s.t-s.lastRefreshTime >= s.refreshInterval {
		if s.recurrentFailureP > 0 {
			for _, sat := range s.model.Satellites {
				if sat.Alive && s.rng.Float64() < s.recurrentFailureP {
					sat.Alive = false
				}
			}
		}
		s.refreshTopology()
	}
}

// refreshTopology must be called with s.mu held for writing. It replaces
// the topology wholesale and publishes a statistics record.
func (s *State) refreshTopology() {
	s.lastRefreshTime = s.t
	s.topology = s.strategy.Run(s.model)
	if s.snapshot != nil {
		s.statsIn <- s.snapshot(s.model, s.t, s.topology)
		s.logger.Log("level", "info", "subsys", "topology", "t", s.t, "edges", s.topology.EdgeCount())
	}
}

// SimulateFailure marks a satellite dead out-of-band and removes it (and
// its incident edges) from the current topology immediately; the next
// refresh rebuilds around the loss (spec.md §4.5 "simulate_failure").
func (s *State) SimulateFailure(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 0 || id >= len(s.model.Satellites) {
		return
	}
	s.model.Satellites[id].Alive = false
	s.topology.RemoveNode(id)
	s.logger.Log("level", "notice", "subsys", "failure", "satellite", id)
}

// Snapshot runs fn with the state's read lock held, for a short, bounded
// critical section (spec.md §5 "Lock discipline"). fn must not perform
// network I/O.
func (s *State) Snapshot(fn func(model *orbit.Model, t float64, topo *topology.Graph, simSpeed float64)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.model, s.t, s.topology, s.simulationSpeed)
}

// T returns the current simulation time under a read lock.
func (s *State) T() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t
}

// TimeStep returns the configured per-tick time advance, in seconds.
func (s *State) TimeStep() float64 { return s.timeStep }

// SimulationSpeed returns the configured simulation speed multiplier.
func (s *State) SimulationSpeed() float64 { return s.simulationSpeed }
