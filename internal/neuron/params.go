package neuron

import (
	"fmt"
	"math"
)

// Parameters holds the physical constants of one LIF neuron. Values are
// fixed at construction and never mutated by the simulator.
type Parameters struct {
	URest      float64 `yaml:"u_rest" json:"u_rest"`           // resting potential (mV)
	UReset     float64 `yaml:"u_reset" json:"u_reset"`         // post-spike reset potential (mV)
	Threshold  float64 `yaml:"threshold" json:"threshold"`     // firing threshold (mV)
	R          float64 `yaml:"r" json:"r"`                     // membrane resistance (MΩ)
	TauM       float64 `yaml:"tau_m" json:"tau_m"`             // membrane time constant (ms)
	Refractory float64 `yaml:"refractory" json:"refractory"`   // absolute refractory period (ms)
}

// Default returns the standard textbook neuron used when no explicit
// parameters are given.
func Default() Parameters {
	return Parameters{
		URest:      -70.0,
		UReset:     -65.0,
		Threshold:  -50.0,
		R:          10.0,
		TauM:       10.0,
		Refractory: 5.0,
	}
}

// Validate checks the physical and ordering invariants. It returns an error
// wrapping ErrInvalidParameter naming the first violated field.
func (p Parameters) Validate() error {
	for _, f := range []struct {
		name string
		val  float64
	}{
		{"u_rest", p.URest},
		{"u_reset", p.UReset},
		{"threshold", p.Threshold},
		{"r", p.R},
		{"tau_m", p.TauM},
		{"refractory", p.Refractory},
	} {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParameter, f.name)
		}
	}
	if p.R <= 0 {
		return fmt.Errorf("%w: r must be positive, got %g", ErrInvalidParameter, p.R)
	}
	if p.TauM <= 0 {
		return fmt.Errorf("%w: tau_m must be positive, got %g", ErrInvalidParameter, p.TauM)
	}
	if p.Refractory < 0 {
		return fmt.Errorf("%w: refractory must be non-negative, got %g", ErrInvalidParameter, p.Refractory)
	}
	if p.UReset > p.Threshold {
		return fmt.Errorf("%w: u_reset (%g) exceeds threshold (%g)", ErrInvalidParameter, p.UReset, p.Threshold)
	}
	return nil
}

// Rheobase returns the minimal constant current (nA) that drives the
// membrane asymptotically to the threshold: (threshold - u_rest) / R.
// A constant input at exactly this amplitude never fires in finite time.
func (p Parameters) Rheobase() float64 {
	return (p.Threshold - p.URest) / p.R
}
