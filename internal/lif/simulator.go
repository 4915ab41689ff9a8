package lif

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

// ErrInvalidConfiguration indicates inconsistent simulation inputs
// (duration<=0, dt<=0, dt>=duration, missing input waveform).
var ErrInvalidConfiguration = errors.New("lif: invalid configuration")

// Config holds the run settings. Times are in ms.
type Config struct {
	Dt       float64
	Duration float64
}

// Observer is notified after each recorded sample. Observers see the run
// but never affect it.
type Observer interface {
	OnStep(t, u float64, fired bool)
}

// phase is the explicit state of the spike-and-reset machine.
type phase int

const (
	integrating phase = iota
	refractory
)

// Simulator runs one neuron driven by one input waveform over a full grid.
// Instances are not safe for concurrent use; independent runs should use
// independent simulators.
type Simulator struct {
	params    neuron.Parameters
	input     waveform.Waveform
	observers []Observer
}

func New(params neuron.Parameters, input waveform.Waveform) *Simulator {
	return &Simulator{params: params, input: input}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Simulate runs one neuron over [0, duration] with step dt and returns the
// fully materialized result.
func Simulate(ctx context.Context, params neuron.Parameters, input waveform.Waveform, duration, dt float64) (*Result, error) {
	return New(params, input).Run(ctx, Config{Dt: dt, Duration: duration})
}

// Run integrates over [0, cfg.Duration] on the grid t_k = k*dt,
// k = 0..floor(duration/dt). All validation happens before the first step;
// once stepping begins the iteration cannot fail, though it polls ctx so
// long sweeps can be cancelled cooperatively.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	trace := newStateTrace(steps + 1)
	spikes := newSpikeLog()
	st := newStepper(s.params, s.input, cfg.Dt)

	trace.append(0, st.Voltage())
	s.notify(0, st.Voltage(), false)

	for k := 0; k < steps; k++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		t, u, fired := st.Step()
		if fired {
			spikes.append(t)
		}
		trace.append(t, u)
		s.notify(t, u, fired)
	}

	return &Result{Params: s.params, Input: s.input, Trace: trace, Spikes: spikes}, nil
}

func (s *Simulator) validate(cfg Config) error {
	if err := s.params.Validate(); err != nil {
		return err
	}
	if s.input == nil {
		return fmt.Errorf("%w: input waveform is nil", ErrInvalidConfiguration)
	}
	if math.IsNaN(cfg.Duration) || cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfiguration, cfg.Duration)
	}
	if math.IsNaN(cfg.Dt) || cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfiguration, cfg.Dt)
	}
	if cfg.Dt >= cfg.Duration {
		return fmt.Errorf("%w: dt (%g) must be smaller than duration (%g)", ErrInvalidConfiguration, cfg.Dt, cfg.Duration)
	}
	return nil
}

func (s *Simulator) notify(t, u float64, fired bool) {
	for _, o := range s.observers {
		o.OnStep(t, u, fired)
	}
}
