package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "satlink.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[constellation]
altitude = 550000
num_orbital_planes = 10
satellites_per_plane = 20
inclination = 53
max_connections = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Constellation.Type != "delta" {
		t.Fatalf("type = %q, want delta", cfg.Constellation.Type)
	}
	if cfg.Simulation.SimulationSpeed != 1.0 {
		t.Fatalf("simulation_speed = %v, want 1.0", cfg.Simulation.SimulationSpeed)
	}
	if cfg.Simulation.UpdateFrequencyServer != cfg.Simulation.UpdateFrequency {
		t.Fatalf("update_frequency_server = %v, want %v", cfg.Simulation.UpdateFrequencyServer, cfg.Simulation.UpdateFrequency)
	}
}

func TestLoadRejectsMissingRequiredField(t *testing.T) {
	path := writeConfig(t, `
[constellation]
num_orbital_planes = 10
satellites_per_plane = 20
inclination = 53
max_connections = 4
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing altitude")
	}
}

func TestLoadRejectsBadPhasing(t *testing.T) {
	path := writeConfig(t, `
[constellation]
altitude = 550000
num_orbital_planes = 4
satellites_per_plane = 20
inclination = 53
max_connections = 4
phasing = 4
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for phasing == num_orbital_planes")
	}
}

func TestLoadRequiresStepsWithFilePath(t *testing.T) {
	path := writeConfig(t, `
[constellation]
altitude = 550000
num_orbital_planes = 10
satellites_per_plane = 20
inclination = 53
max_connections = 4

[simulation]
file_path = "out.jsonl"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected error: file_path without steps")
	}
}

func TestLoadAcceptsFilePathWithSteps(t *testing.T) {
	path := writeConfig(t, `
[constellation]
altitude = 550000
num_orbital_planes = 10
satellites_per_plane = 20
inclination = 53
max_connections = 4

[simulation]
file_path = "out.jsonl"
steps = 100
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Steps == nil || *cfg.Simulation.Steps != 100 {
		t.Fatalf("steps = %v, want 100", cfg.Simulation.Steps)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := validate(Default()); err != nil {
		t.Fatalf("built-in default config failed validation: %v", err)
	}
}
