package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.Size != 1000 {
		t.Errorf("world size = %v, want 1000", cfg.World.Size)
	}
	if cfg.World.GridSize != 100 {
		t.Errorf("grid size = %d, want 100", cfg.World.GridSize)
	}
	if cfg.Population.Count != 1000 {
		t.Errorf("population = %d, want 1000", cfg.Population.Count)
	}
	if cfg.Physics.DT != 0.016 {
		t.Errorf("dt = %v, want 0.016", cfg.Physics.DT)
	}
	if cfg.Physics.MaxSpeed != 5 {
		t.Errorf("max speed = %v, want 5", cfg.Physics.MaxSpeed)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Simulation.Seed)
	}
	if cfg.Chaos.Enabled {
		t.Error("chaos should be disabled by default")
	}
}

func TestLoadDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Derived.CellSize != 10 {
		t.Errorf("cell size = %v, want 10", cfg.Derived.CellSize)
	}
	if cfg.Derived.WorldSize != 1000 {
		t.Errorf("derived world size = %v, want 1000", cfg.Derived.WorldSize)
	}
	if cfg.Derived.DT32 != 0.016 {
		t.Errorf("derived dt = %v, want 0.016", cfg.Derived.DT32)
	}
}

func TestLoadOverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "population:\n  count: 25\nsimulation:\n  seed: 7\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Population.Count != 25 {
		t.Errorf("population = %d, want overridden 25", cfg.Population.Count)
	}
	if cfg.Simulation.Seed != 7 {
		t.Errorf("seed = %d, want overridden 7", cfg.Simulation.Seed)
	}
	// Untouched sections keep defaults.
	if cfg.World.Size != 1000 {
		t.Errorf("world size = %v, want default 1000", cfg.World.Size)
	}
	if cfg.Physics.DT != 0.016 {
		t.Errorf("dt = %v, want default 0.016", cfg.Physics.DT)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Population.Count = 123

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if back.Population.Count != 123 {
		t.Errorf("population after roundtrip = %d, want 123", back.Population.Count)
	}
}
