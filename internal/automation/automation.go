// Package automation scripts multi-run optimization workflows: YAML
// batches, parameter sweeps, and multistart searches over random seeds.
package automation

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/samar-v/pulseopt/internal/experiment"
)

// Scenario defines a scripted batch of optimization runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single optimization in a scenario.
type ScenarioStep struct {
	System       string  `yaml:"system"`
	Fidelity     string  `yaml:"fidelity"`
	Tslots       int     `yaml:"tslots"`
	EvoTime      float64 `yaml:"evo_time"`
	FidErrTarg   float64 `yaml:"fid_err_targ"`
	MaxIter      int     `yaml:"max_iter"`
	NumCoeffs    int     `yaml:"num_coeffs"`
	CoeffScaling float64 `yaml:"coeff_scaling"`
	GuessShape   string  `yaml:"guess_shape"`
	Ramp         string  `yaml:"ramp"`
	Seed         int64   `yaml:"seed"`
}

// StepResult pairs a finished step with the parameters that produced it.
type StepResult struct {
	Config experiment.Config
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s ScenarioStep) config() experiment.Config {
	cfg := experiment.Config{
		System:       s.System,
		Fidelity:     s.Fidelity,
		Tslots:       s.Tslots,
		EvoTime:      s.EvoTime,
		FidErrTarg:   s.FidErrTarg,
		MaxIter:      s.MaxIter,
		NumCoeffs:    s.NumCoeffs,
		CoeffScaling: s.CoeffScaling,
		GuessShape:   s.GuessShape,
		Ramp:         s.Ramp,
		Seed:         s.Seed,
	}
	if cfg.Fidelity == "" {
		cfg.Fidelity = "PSU"
	}
	if cfg.GuessShape == "" {
		cfg.GuessShape = "sine"
	}
	if cfg.Ramp == "" {
		cfg.Ramp = "sine"
	}
	if cfg.CoeffScaling == 0 {
		cfg.CoeffScaling = 1
	}
	return cfg
}

// RunScenario executes all steps in order, stopping at the first error.
func RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg := step.config()

		result, err := runOne(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, cfg.System, err)
		}
		results = append(results, StepResult{Config: cfg, Result: result})
	}
	return results, nil
}

func runOne(ctx context.Context, cfg experiment.Config) (*experiment.Result, error) {
	sys, err := experiment.LookupSystem(cfg.System)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(sys); err != nil {
		return nil, err
	}
	return exp.Run(ctx, nil)
}

// Sweep varies one run parameter over a range, re-optimizing at each
// point. Sweeping evo_time maps out how short the transfer window can
// get before the achievable fidelity collapses.
type Sweep struct {
	Base     experiment.Config
	Param    string // evo_time, tslots, or num_coeffs
	Min      float64
	Max      float64
	NumSteps int
}

type SweepPoint struct {
	ParamValue float64
	FinalErr   float64
	Iterations int
	Reason     string
}

func RunSweep(ctx context.Context, sweep *Sweep) ([]SweepPoint, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	points := make([]SweepPoint, 0, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*step

		cfg := sweep.Base
		switch sweep.Param {
		case "evo_time":
			cfg.EvoTime = val
		case "tslots":
			cfg.Tslots = int(val)
		case "num_coeffs":
			cfg.NumCoeffs = int(val)
		default:
			return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.Param)
		}

		result, err := runOne(ctx, cfg)
		if err != nil {
			return points, err
		}
		points = append(points, SweepPoint{
			ParamValue: val,
			FinalErr:   result.FinalErr,
			Iterations: result.Iterations,
			Reason:     result.Reason,
		})
	}
	return points, nil
}

// Multistart runs the same optimization under different seeds. The
// basis frequencies are randomized per seed, so restarts explore
// genuinely different search spaces.
type Multistart struct {
	Base      experiment.Config
	NumTrials int
	SeedStart int64
}

type TrialResult struct {
	TrialID  int
	Seed     int64
	FinalErr float64
	Runtime  time.Duration
	Reason   string
	Result   *experiment.Result
}

// Run executes all trials concurrently and returns them ordered by
// trial id.
func (m *Multistart) Run(ctx context.Context) ([]TrialResult, error) {
	trials := make([]TrialResult, m.NumTrials)
	errs := make([]error, m.NumTrials)

	var wg sync.WaitGroup
	for i := 0; i < m.NumTrials; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := m.Base
			cfg.Seed = m.SeedStart + int64(idx)

			result, err := runOne(ctx, cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			trials[idx] = TrialResult{
				TrialID:  idx,
				Seed:     cfg.Seed,
				FinalErr: result.FinalErr,
				Runtime:  result.Runtime,
				Reason:   result.Reason,
				Result:   result,
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return trials, nil
}

// Best returns the trial with the lowest fidelity error.
func Best(trials []TrialResult) (TrialResult, error) {
	if len(trials) == 0 {
		return TrialResult{}, fmt.Errorf("no trials")
	}
	best := trials[0]
	for _, t := range trials[1:] {
		if t.FinalErr < best.FinalErr {
			best = t
		}
	}
	return best, nil
}

// SuccessCount reports how many trials reached the fidelity error target.
func SuccessCount(trials []TrialResult, target float64) int {
	n := 0
	for _, t := range trials {
		if t.FinalErr <= target {
			n++
		}
	}
	return n
}
