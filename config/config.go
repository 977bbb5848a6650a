// Package config loads and validates the TOML configuration document
// described in spec.md §6, in the teacher's viper-based style (see
// smd.smdConfig). Every failure here is a configuration error: fatal at
// startup with a descriptive message (spec.md §7).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Constellation mirrors the `[constellation]` table.
type Constellation struct {
	Altitude           float64
	NumOrbitalPlanes   int
	SatellitesPerPlane int
	Inclination        float64
	MaxConnections     int
	Type               string
	Phasing            int
}

// Simulation mirrors the `[simulation]` table.
type Simulation struct {
	SimulationSpeed            float64
	UpdateFrequency            float64
	UpdateFrequencyServer      float64
	ConnectionRefreshInterval  float64
	RNGSeed                    *int64
	StartingFailureProbability float64
	RecurrentFailureProbability float64
	FilePath                   string
	Steps                      *int
}

// Strategy mirrors the optional `[strategy]` table.
type Strategy struct {
	Type   string
	Offset int
}

// Config is the fully loaded and defaulted configuration document.
type Config struct {
	Constellation Constellation
	Simulation    Simulation
	Strategy      Strategy
}

// Error reports a configuration problem: a missing required field, an
// out-of-range value, or an unrecognized strategy (spec.md §7).
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// Default returns the built-in configuration used for a zero-argument CLI
// invocation (spec.md §6 "CLI").
func Default() Config {
	return Config{
		Constellation: Constellation{
			Altitude:           550e3,
			NumOrbitalPlanes:   10,
			SatellitesPerPlane: 20,
			Inclination:        53,
			MaxConnections:     4,
			Type:               "delta",
			Phasing:            0,
		},
		Simulation: Simulation{
			SimulationSpeed:           1.0,
			UpdateFrequency:           10,
			UpdateFrequencyServer:     10,
			ConnectionRefreshInterval: 10,
		},
		Strategy: Strategy{Type: "grid", Offset: 0},
	}
}

// Load reads and validates the TOML document at path, applying the
// defaults listed in spec.md §6.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, &Error{Field: "file", Msg: err.Error()}
	}

	v.SetDefault("simulation.simulation_speed", 1.0)
	v.SetDefault("simulation.update_frequency", 10.0)
	v.SetDefault("simulation.connection_refresh_interval", 10.0)
	v.SetDefault("simulation.starting_failure_probability", 0.0)
	v.SetDefault("simulation.recurrent_failure_probability", 0.0)
	v.SetDefault("constellation.type", "delta")
	v.SetDefault("constellation.phasing", 0)
	v.SetDefault("strategy.type", "grid")
	v.SetDefault("strategy.offset", 0)

	cfg := Config{
		Constellation: Constellation{
			Altitude:           v.GetFloat64("constellation.altitude"),
			NumOrbitalPlanes:   v.GetInt("constellation.num_orbital_planes"),
			SatellitesPerPlane: v.GetInt("constellation.satellites_per_plane"),
			Inclination:        v.GetFloat64("constellation.inclination"),
			MaxConnections:     v.GetInt("constellation.max_connections"),
			Type:               v.GetString("constellation.type"),
			Phasing:            v.GetInt("constellation.phasing"),
		},
		Simulation: Simulation{
			SimulationSpeed:             v.GetFloat64("simulation.simulation_speed"),
			UpdateFrequency:             v.GetFloat64("simulation.update_frequency"),
			ConnectionRefreshInterval:   v.GetFloat64("simulation.connection_refresh_interval"),
			StartingFailureProbability:  v.GetFloat64("simulation.starting_failure_probability"),
			RecurrentFailureProbability: v.GetFloat64("simulation.recurrent_failure_probability"),
			FilePath:                    v.GetString("simulation.file_path"),
		},
		Strategy: Strategy{
			Type:   v.GetString("strategy.type"),
			Offset: v.GetInt("strategy.offset"),
		},
	}

	if v.IsSet("simulation.update_frequency_server") {
		cfg.Simulation.UpdateFrequencyServer = v.GetFloat64("simulation.update_frequency_server")
	} else {
		cfg.Simulation.UpdateFrequencyServer = cfg.Simulation.UpdateFrequency
	}

	if v.IsSet("simulation.rng_seed") {
		seed := v.GetInt64("simulation.rng_seed")
		cfg.Simulation.RNGSeed = &seed
	}
	if v.IsSet("simulation.steps") {
		steps := v.GetInt("simulation.steps")
		cfg.Simulation.Steps = &steps
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	c := cfg.Constellation
	if c.Altitude <= 0 {
		return &Error{"constellation.altitude", "must be greater than zero"}
	}
	if c.NumOrbitalPlanes <= 0 {
		return &Error{"constellation.num_orbital_planes", "must be greater than zero"}
	}
	if c.SatellitesPerPlane <= 0 {
		return &Error{"constellation.satellites_per_plane", "must be greater than zero"}
	}
	if c.MaxConnections <= 0 {
		return &Error{"constellation.max_connections", "must be greater than zero"}
	}
	if c.Type != "delta" && c.Type != "star" {
		return &Error{"constellation.type", fmt.Sprintf("unknown constellation type %q", c.Type)}
	}
	if c.Phasing < 0 || c.Phasing >= c.NumOrbitalPlanes {
		return &Error{"constellation.phasing", "must satisfy 0 <= phasing < num_orbital_planes"}
	}

	s := cfg.Simulation
	if s.StartingFailureProbability < 0 || s.StartingFailureProbability > 1 {
		return &Error{"simulation.starting_failure_probability", "must be in [0, 1]"}
	}
	if s.RecurrentFailureProbability < 0 || s.RecurrentFailureProbability > 1 {
		return &Error{"simulation.recurrent_failure_probability", "must be in [0, 1]"}
	}
	if s.FilePath != "" && s.Steps == nil {
		return &Error{"simulation.steps", "required when simulation.file_path is set"}
	}

	strat := cfg.Strategy
	if strat.Type != "grid" && strat.Type != "nearest_neighbor" {
		return &Error{"strategy.type", fmt.Sprintf("unknown strategy type %q", strat.Type)}
	}

	return nil
}
