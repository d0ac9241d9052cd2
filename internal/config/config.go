package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samar-v/pulseopt/internal/experiment"
)

const (
	DefaultTslots       = 32
	DefaultEvoTime      = 10.0
	DefaultFidErrTarg   = 1e-3
	DefaultMaxIter      = 500
	DefaultMaxWallTime  = 120.0
	DefaultNumCoeffs    = 4
	DefaultCoeffScaling = 1.0
	DefaultFTol         = 1e-8
)

type Config struct {
	System   string  `yaml:"system"`
	Fidelity string  `yaml:"fidelity"`
	Tslots   int     `yaml:"tslots"`
	EvoTime  float64 `yaml:"evo_time"`
	Seed     int64   `yaml:"seed"`

	Termination TerminationConfig `yaml:"termination"`
	Pulse       PulseConfig       `yaml:"pulse"`
}

type TerminationConfig struct {
	FidErrTarg   float64 `yaml:"fid_err_targ"`
	MaxIter      int     `yaml:"max_iter"`
	MaxWallTime  float64 `yaml:"max_wall_time"`
	MaxFuncEvals int     `yaml:"max_func_evals"`
	FTol         float64 `yaml:"ftol"`
}

type PulseConfig struct {
	NumCoeffs    int     `yaml:"num_coeffs"`
	CoeffScaling float64 `yaml:"coeff_scaling"`
	GuessShape   string  `yaml:"guess_shape"`
	GuessScaling float64 `yaml:"guess_scaling"`
	GuessOffset  float64 `yaml:"guess_offset"`
	GuessWaves   float64 `yaml:"guess_waves"`
	Ramp         string  `yaml:"ramp"`
	AmpLBound    float64 `yaml:"amp_lbound"`
	AmpUBound    float64 `yaml:"amp_ubound"`
	Bounded      bool    `yaml:"bounded"`
}

func DefaultConfig() *Config {
	return &Config{
		System:   "exchange2q",
		Fidelity: "PSU",
		Tslots:   DefaultTslots,
		EvoTime:  DefaultEvoTime,
		Termination: TerminationConfig{
			FidErrTarg:  DefaultFidErrTarg,
			MaxIter:     DefaultMaxIter,
			MaxWallTime: DefaultMaxWallTime,
			FTol:        DefaultFTol,
		},
		Pulse: PulseConfig{
			NumCoeffs:    DefaultNumCoeffs,
			CoeffScaling: DefaultCoeffScaling,
			GuessShape:   "sine",
			GuessScaling: 1.0,
			GuessWaves:   1.0,
			Ramp:         "sine",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ExperimentConfig flattens the file layout into the run parameters.
func (c *Config) ExperimentConfig() experiment.Config {
	return experiment.Config{
		System:       c.System,
		Fidelity:     c.Fidelity,
		Tslots:       c.Tslots,
		EvoTime:      c.EvoTime,
		FidErrTarg:   c.Termination.FidErrTarg,
		MaxIter:      c.Termination.MaxIter,
		MaxWallTime:  c.Termination.MaxWallTime,
		MaxFuncEvals: c.Termination.MaxFuncEvals,
		FTol:         c.Termination.FTol,
		NumCoeffs:    c.Pulse.NumCoeffs,
		CoeffScaling: c.Pulse.CoeffScaling,
		GuessShape:   c.Pulse.GuessShape,
		GuessScaling: c.Pulse.GuessScaling,
		GuessOffset:  c.Pulse.GuessOffset,
		GuessWaves:   c.Pulse.GuessWaves,
		Ramp:         c.Pulse.Ramp,
		AmpLBound:    c.Pulse.AmpLBound,
		AmpUBound:    c.Pulse.AmpUBound,
		Bounded:      c.Pulse.Bounded,
		Seed:         c.Seed,
	}
}
