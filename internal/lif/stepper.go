package lif

import (
	"fmt"
	"math"

	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

// Stepper advances one neuron a single grid step at a time, for incremental
// consumers like the live view. Run drives the same machine over a full
// grid; the two share every numeric detail.
type Stepper struct {
	p             neuron.Parameters
	input         waveform.Waveform
	dt            float64
	k             int
	u             float64
	ph            phase
	refractoryEnd float64
	spikes        int
}

// NewStepper validates its inputs and returns a stepper positioned at t=0
// with u = u_rest.
func NewStepper(params neuron.Parameters, input waveform.Waveform, dt float64) (*Stepper, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, fmt.Errorf("%w: input waveform is nil", ErrInvalidConfiguration)
	}
	if math.IsNaN(dt) || dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfiguration, dt)
	}
	return newStepper(params, input, dt), nil
}

func newStepper(params neuron.Parameters, input waveform.Waveform, dt float64) *Stepper {
	return &Stepper{p: params, input: input, dt: dt, u: params.URest, ph: integrating}
}

// Step advances one grid step and returns the new time, the recorded
// voltage, and whether a spike fired at that time.
func (s *Stepper) Step() (t, u float64, fired bool) {
	// Times come from the grid index, not accumulation, so identical
	// inputs always land on identical grids.
	tPrev := float64(s.k) * s.dt
	tNext := float64(s.k+1) * s.dt
	s.k++

	if s.ph == refractory {
		if tNext < s.refractoryEnd {
			// Locked: input ignored, voltage held, no spikes possible.
			s.u = s.p.UReset
			return tNext, s.u, false
		}
		s.ph = integrating
		s.u = s.p.UReset
	}

	next := s.u + s.dt/s.p.TauM*(-(s.u-s.p.URest)+s.p.R*s.input(tPrev))
	if next >= s.p.Threshold {
		// Crossing at tNext. Recorded sample is u_reset (see doc.go).
		s.u = s.p.UReset
		s.ph = refractory
		s.refractoryEnd = tNext + s.p.Refractory
		s.spikes++
		return tNext, s.u, true
	}

	s.u = next
	return tNext, s.u, false
}

// Time returns the time of the last produced sample.
func (s *Stepper) Time() float64 { return float64(s.k) * s.dt }

// Voltage returns the most recent recorded voltage.
func (s *Stepper) Voltage() float64 { return s.u }

// Spikes returns the number of spikes fired so far.
func (s *Stepper) Spikes() int { return s.spikes }

// SetInput swaps the input waveform for subsequent steps. Used by the live
// view to adjust the stimulus mid-run; batch runs never change inputs.
func (s *Stepper) SetInput(input waveform.Waveform) {
	if input != nil {
		s.input = input
	}
}
