package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.System != "exchange2q" {
		t.Errorf("expected default system exchange2q, got %s", cfg.System)
	}
	if cfg.Tslots != DefaultTslots {
		t.Errorf("expected %d tslots, got %d", DefaultTslots, cfg.Tslots)
	}
	if cfg.Termination.FidErrTarg != DefaultFidErrTarg {
		t.Errorf("expected target %g, got %g", DefaultFidErrTarg, cfg.Termination.FidErrTarg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.System = "ising2q"
	cfg.Tslots = 48
	cfg.Pulse.NumCoeffs = 7
	cfg.Pulse.Bounded = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.System != "ising2q" || loaded.Tslots != 48 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Pulse.NumCoeffs != 7 || !loaded.Pulse.Bounded {
		t.Errorf("round trip lost pulse fields: %+v", loaded.Pulse)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("system: spinflip\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.System != "spinflip" {
		t.Errorf("expected spinflip, got %s", cfg.System)
	}
	if cfg.Termination.MaxIter != DefaultMaxIter {
		t.Errorf("expected default max_iter %d, got %d", DefaultMaxIter, cfg.Termination.MaxIter)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("exchange2q", "quick")
	if cfg == nil {
		t.Fatal("expected quick preset")
	}
	if cfg.Tslots != 16 {
		t.Errorf("expected 16 tslots, got %d", cfg.Tslots)
	}
	if GetPreset("exchange2q", "nope") != nil {
		t.Error("expected nil for unknown preset")
	}
	if GetPreset("nope", "quick") != nil {
		t.Error("expected nil for unknown system")
	}
}

func TestExperimentConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	ec := cfg.ExperimentConfig()
	if ec.System != cfg.System || ec.Seed != 42 {
		t.Errorf("flattening lost fields: %+v", ec)
	}
	if ec.MaxIter != cfg.Termination.MaxIter || ec.NumCoeffs != cfg.Pulse.NumCoeffs {
		t.Errorf("flattening lost nested fields: %+v", ec)
	}
}
