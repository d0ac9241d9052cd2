package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/samar-v/pulseopt/internal/optim"
	"github.com/samar-v/pulseopt/internal/systems"
)

func spinFlipConfig() Config {
	return Config{
		System:       "spinflip",
		Fidelity:     "PSU",
		Tslots:       16,
		EvoTime:      2.0,
		FidErrTarg:   1e-3,
		MaxIter:      2000,
		FTol:         1e-10,
		NumCoeffs:    2,
		CoeffScaling: 1.0,
		GuessShape:   "zero",
		Ramp:         "none",
		Seed:         7,
	}
}

func TestLookupSystem(t *testing.T) {
	sys, err := LookupSystem("exchange2q")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if sys.Dim() != 4 {
		t.Errorf("expected dim 4, got %d", sys.Dim())
	}

	if _, err := LookupSystem("nope"); err == nil {
		t.Error("expected error for unknown system")
	}
}

func TestListSystems(t *testing.T) {
	names := ListSystems()
	if len(names) != 4 {
		t.Fatalf("expected 4 systems, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	cfg := spinFlipConfig()
	cfg.Fidelity = "nope"
	if err := New(cfg).Setup(systems.NewSpinFlip()); err == nil {
		t.Error("expected error for unknown fidelity kind")
	}

	cfg = spinFlipConfig()
	cfg.GuessShape = "nope"
	if err := New(cfg).Setup(systems.NewSpinFlip()); err == nil {
		t.Error("expected error for unknown guess shape")
	}

	cfg = spinFlipConfig()
	cfg.Tslots = 0
	if err := New(cfg).Setup(systems.NewSpinFlip()); err == nil {
		t.Error("expected error for zero tslots")
	}
}

func TestRunRequiresSetup(t *testing.T) {
	if _, err := New(spinFlipConfig()).Run(context.Background(), nil); err == nil {
		t.Error("expected error for run before setup")
	}
}

func TestSpinFlipOptimization(t *testing.T) {
	cfg := spinFlipConfig()
	exp := New(cfg)
	if err := exp.Setup(systems.NewSpinFlip()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	progressCalls := 0
	result, err := exp.Run(context.Background(), func(p optim.Progress) {
		progressCalls++
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.FinalErr >= result.InitialErr {
		t.Errorf("optimization did not improve: initial %f, final %f", result.InitialErr, result.FinalErr)
	}
	if result.FinalErr > 0.2 {
		t.Errorf("expected final error below 0.2, got %f", result.FinalErr)
	}

	if len(result.Times) != cfg.Tslots {
		t.Errorf("expected %d times, got %d", cfg.Tslots, len(result.Times))
	}
	if len(result.InitialAmps) != cfg.Tslots || len(result.FinalAmps) != cfg.Tslots {
		t.Errorf("expected %d amplitude rows", cfg.Tslots)
	}
	if len(result.FinalAmps[0]) != 1 {
		t.Errorf("expected 1 control column, got %d", len(result.FinalAmps[0]))
	}
	if result.Reason == "" {
		t.Error("expected a stop reason")
	}
	if result.Iterations == 0 || result.FuncEvals == 0 {
		t.Errorf("expected nonzero cost stats, got %d iters %d evals", result.Iterations, result.FuncEvals)
	}
	if result.Runtime <= 0 {
		t.Error("expected positive runtime")
	}
	if len(result.Trace) == 0 || progressCalls == 0 {
		t.Error("expected progress trace")
	}
	if result.SlotsComputed == 0 {
		t.Error("expected computed propagator slots")
	}
	if _, ok := result.Metrics["fluence"]; !ok {
		t.Errorf("expected fluence metric, got %v", result.Metrics)
	}
}

func TestObjectiveFailureScoresWorst(t *testing.T) {
	cfg := spinFlipConfig()
	cfg.Fidelity = "SU" // SU errors range up to 2
	exp := New(cfg)
	if err := exp.Setup(systems.NewSpinFlip()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	good := make([]float64, exp.numParams())
	if v := exp.objective(good); math.IsInf(v, 1) || math.IsNaN(v) {
		t.Fatalf("valid coefficients scored %f", v)
	}

	bad := make([]float64, exp.numParams())
	for i := range bad {
		bad[i] = math.NaN()
	}
	if v := exp.objective(bad); !math.IsInf(v, 1) {
		t.Errorf("failing coefficients must rank below any fidelity error, got %f", v)
	}
}

func TestRunReproducibleWithSeed(t *testing.T) {
	run := func() float64 {
		exp := New(spinFlipConfig())
		if err := exp.Setup(systems.NewSpinFlip()); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		result, err := exp.Run(context.Background(), nil)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return result.InitialErr
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed gave different initial errors: %g vs %g", a, b)
	}
}
