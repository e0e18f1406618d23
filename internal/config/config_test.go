package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxIterations != DefaultMaxIterations {
		t.Errorf("max_iterations %d, want %d", cfg.MaxIterations, DefaultMaxIterations)
	}
	if cfg.RTol != DefaultRTol {
		t.Errorf("rtol %v, want %v", cfg.RTol, DefaultRTol)
	}
	if cfg.Penalty != DefaultPenalty {
		t.Errorf("penalty %v, want %v", cfg.Penalty, DefaultPenalty)
	}
	if cfg.Catalog != "" {
		t.Errorf("catalog should default to the built-in data, got %q", cfg.Catalog)
	}
}

func TestLoadOverridesFieldByField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinfit.yaml")
	content := []byte("max_iterations: 99\nrtol: 1.0e-6\nworkers: 2\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.MaxIterations != 99 {
		t.Errorf("max_iterations %d, want 99", cfg.MaxIterations)
	}
	if cfg.RTol != 1e-6 {
		t.Errorf("rtol %v, want 1e-6", cfg.RTol)
	}
	if cfg.Workers != 2 {
		t.Errorf("workers %d, want 2", cfg.Workers)
	}

	// Unmentioned fields keep their defaults.
	if cfg.CostTol != DefaultCostTol {
		t.Errorf("cost_tol %v, want default %v", cfg.CostTol, DefaultCostTol)
	}
	if cfg.Penalty != DefaultPenalty {
		t.Errorf("penalty %v, want default %v", cfg.Penalty, DefaultPenalty)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinfit.yaml")

	orig := DefaultConfig()
	orig.MaxIterations = 123
	orig.Seed = 9

	if err := Save(path, orig); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if *loaded != *orig {
		t.Errorf("round trip changed config: %+v != %+v", loaded, orig)
	}
}

func TestEstimatorOptionsMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 42
	cfg.CostTol = 1e-9

	opts := cfg.EstimatorOptions()
	if opts.MaxIterations != 42 {
		t.Errorf("max iterations %d, want 42", opts.MaxIterations)
	}
	if opts.CostTol != 1e-9 {
		t.Errorf("cost tol %v, want 1e-9", opts.CostTol)
	}
}

func TestEngineConfigMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RTol = 1e-6
	cfg.Workers = 3

	ec := cfg.EngineConfig()
	if ec.Solver.RTol != 1e-6 {
		t.Errorf("rtol %v, want 1e-6", ec.Solver.RTol)
	}
	if ec.Workers != 3 {
		t.Errorf("workers %d, want 3", ec.Workers)
	}
	if ec.Solver.MinStep <= 0 {
		t.Error("min step must stay positive after mapping")
	}
	if ec.Solver.MaxSteps <= 0 {
		t.Error("step budget must stay positive after mapping")
	}
}

func TestPresets(t *testing.T) {
	for _, name := range []string{"quick", "accurate"} {
		if GetPreset(name) == nil {
			t.Errorf("preset %q missing", name)
		}
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should return nil")
	}

	// GetPreset hands out a copy, not the shared map entry.
	p := GetPreset("quick")
	p.MaxIterations = -1
	if GetPreset("quick").MaxIterations == -1 {
		t.Error("mutating a preset copy leaked into the shared preset")
	}

	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("ListPresets returned %d names, want %d", len(names), len(Presets))
	}
}
