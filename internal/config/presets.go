package config

var Presets = map[string]*Config{
	"subthreshold": {
		Stimulus: Stimulus{Shape: "step", TStart: 20, TEnd: 170, Amplitude: 1.5},
		Dt:       0.1, Duration: 200.0,
	},
	"rheobase": {
		Stimulus: Stimulus{Shape: "constant", Amplitude: 2.0},
		Dt:       0.1, Duration: 100.0,
	},
	"tonic": {
		Stimulus: Stimulus{Shape: "constant", Amplitude: 3.0},
		Dt:       0.1, Duration: 500.0,
	},
	"burst": {
		Stimulus: Stimulus{Shape: "pulse", TStart: 10, TEnd: 490, Period: 100, Width: 40, Amplitude: 4.0},
		Dt:       0.1, Duration: 500.0,
	},
	"rampup": {
		Stimulus: Stimulus{Shape: "ramp", TStart: 0, TEnd: 400, From: 0, To: 5},
		Dt:       0.1, Duration: 400.0,
	},
	"wobble": {
		Stimulus: Stimulus{Shape: "sine", Offset: 2.0, Amplitude: 1.0, Period: 50},
		Dt:       0.1, Duration: 400.0,
	},
	"noisy": {
		Stimulus: Stimulus{Shape: "noise", TStart: 0, TEnd: 500, Mean: 2.2, Sigma: 0.8, Hold: 2},
		Dt:       0.1, Duration: 500.0, Seed: 1,
	},
}

// GetPreset returns a copy of the named preset with the default neuron
// filled in, or nil when unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Neuron = Default().Neuron
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
