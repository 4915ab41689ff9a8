// Package config loads and saves experiment definitions.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

const (
	DefaultDt       = 0.1   // ms
	DefaultDuration = 200.0 // ms
)

// Stimulus describes the injected-current waveform by name plus its
// defining parameters. Only the fields relevant to the named shape are
// read.
type Stimulus struct {
	Shape     string  `yaml:"shape"`     // zero, constant, step, ramp, pulse, sine, noise
	TStart    float64 `yaml:"t_start"`   // support start (ms)
	TEnd      float64 `yaml:"t_end"`     // support end (ms)
	Amplitude float64 `yaml:"amplitude"` // nA
	From      float64 `yaml:"from"`      // ramp start amplitude (nA)
	To        float64 `yaml:"to"`        // ramp end amplitude (nA)
	Period    float64 `yaml:"period"`    // pulse/sine period (ms)
	Width     float64 `yaml:"width"`     // pulse width (ms)
	Offset    float64 `yaml:"offset"`    // sine offset (nA)
	Mean      float64 `yaml:"mean"`      // noise mean (nA)
	Sigma     float64 `yaml:"sigma"`     // noise std dev (nA)
	Hold      float64 `yaml:"hold"`      // noise hold time per bin (ms)
}

// Config is one complete experiment definition.
type Config struct {
	Neuron   neuron.Parameters `yaml:"neuron"`
	Stimulus Stimulus          `yaml:"stimulus"`
	Dt       float64           `yaml:"dt"`
	Duration float64           `yaml:"duration"`
	Seed     int64             `yaml:"seed"`
}

// Default returns the standard neuron driven by a 2.5 nA step.
func Default() *Config {
	return &Config{
		Neuron: neuron.Default(),
		Stimulus: Stimulus{
			Shape:     "step",
			TStart:    20,
			TEnd:      170,
			Amplitude: 2.5,
		},
		Dt:       DefaultDt,
		Duration: DefaultDuration,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
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

// Waveform builds the configured stimulus. Noise shapes take their seed
// from the config so the whole experiment stays reproducible.
func (c *Config) Waveform() (waveform.Waveform, error) {
	s := c.Stimulus
	switch s.Shape {
	case "", "zero":
		return waveform.Zero(), nil
	case "constant":
		return waveform.Constant(s.Amplitude)
	case "step":
		return waveform.Step(s.TStart, s.TEnd, s.Amplitude)
	case "ramp":
		return waveform.Ramp(s.TStart, s.TEnd, s.From, s.To)
	case "pulse":
		return waveform.PulseTrain(s.TStart, s.TEnd, s.Period, s.Width, s.Amplitude)
	case "sine":
		return waveform.Sinusoid(s.Offset, s.Amplitude, s.Period)
	case "noise":
		return waveform.Noise(s.TStart, s.TEnd, s.Mean, s.Sigma, s.Hold, c.Seed)
	default:
		return nil, fmt.Errorf("%w: unknown shape %q", waveform.ErrInvalidWaveform, s.Shape)
	}
}
