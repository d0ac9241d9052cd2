package config

var Presets = map[string]map[string]*Config{
	"exchange2q": {
		"quick": {
			System: "exchange2q", Fidelity: "PSU", Tslots: 16, EvoTime: 6.0,
			Termination: TerminationConfig{FidErrTarg: 1e-2, MaxIter: 300, MaxWallTime: 30, FTol: 1e-6},
			Pulse:       PulseConfig{NumCoeffs: 2, CoeffScaling: 1.0, GuessShape: "sine", GuessScaling: 1.0, GuessWaves: 1.0, Ramp: "sine"},
		},
		"precise": {
			System: "exchange2q", Fidelity: "PSU", Tslots: 64, EvoTime: 10.0,
			Termination: TerminationConfig{FidErrTarg: 1e-4, MaxIter: 3000, MaxWallTime: 300, FTol: 1e-10},
			Pulse:       PulseConfig{NumCoeffs: 6, CoeffScaling: 1.0, GuessShape: "sine", GuessScaling: 1.0, GuessWaves: 1.0, Ramp: "sine"},
		},
		"bounded": {
			System: "exchange2q", Fidelity: "PSU", Tslots: 32, EvoTime: 10.0,
			Termination: TerminationConfig{FidErrTarg: 1e-3, MaxIter: 1500, MaxWallTime: 120, FTol: 1e-8},
			Pulse: PulseConfig{NumCoeffs: 4, CoeffScaling: 0.5, GuessShape: "sine", GuessScaling: 0.5, GuessWaves: 1.0,
				Ramp: "sine", AmpLBound: -1.0, AmpUBound: 1.0, Bounded: true},
		},
	},
	"exchange2q_bell": {
		"entangle": {
			System: "exchange2q_bell", Fidelity: "PSU", Tslots: 32, EvoTime: 8.0,
			Termination: TerminationConfig{FidErrTarg: 1e-3, MaxIter: 2000, MaxWallTime: 180, FTol: 1e-8},
			Pulse:       PulseConfig{NumCoeffs: 4, CoeffScaling: 1.0, GuessShape: "sine", GuessScaling: 1.0, GuessWaves: 1.0, Ramp: "gaussian_edge"},
		},
	},
	"ising2q": {
		"flip": {
			System: "ising2q", Fidelity: "PSU", Tslots: 32, EvoTime: 12.0,
			Termination: TerminationConfig{FidErrTarg: 1e-3, MaxIter: 2000, MaxWallTime: 180, FTol: 1e-8},
			Pulse:       PulseConfig{NumCoeffs: 4, CoeffScaling: 1.0, GuessShape: "zero", Ramp: "sine"},
		},
	},
	"spinflip": {
		"demo": {
			System: "spinflip", Fidelity: "PSU", Tslots: 16, EvoTime: 2.0,
			Termination: TerminationConfig{FidErrTarg: 1e-3, MaxIter: 1000, MaxWallTime: 20, FTol: 1e-8},
			Pulse:       PulseConfig{NumCoeffs: 2, CoeffScaling: 1.0, GuessShape: "zero", Ramp: "none"},
		},
	},
}

func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	return names
}
