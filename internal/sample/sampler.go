// Package sample draws reproducible "unknown neuron" parameter sets for
// estimation exercises.
package sample

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/lifsim/internal/neuron"
)

// ErrInvalidRangeConfiguration indicates the declared ranges cannot produce
// a valid parameter set.
var ErrInvalidRangeConfiguration = errors.New("sample: invalid range configuration")

// maxAttempts bounds the deterministic resampling of draws whose
// u_reset/threshold ordering came out invalid.
const maxAttempts = 64

// Range is a closed interval of admissible values for one field.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (r Range) empty() bool {
	return math.IsNaN(r.Min) || math.IsNaN(r.Max) ||
		math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) || r.Min > r.Max
}

func (r Range) draw(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Ranges declares the admissible interval per parameter field.
type Ranges struct {
	URest      Range `yaml:"u_rest" json:"u_rest"`
	UReset     Range `yaml:"u_reset" json:"u_reset"`
	Threshold  Range `yaml:"threshold" json:"threshold"`
	R          Range `yaml:"r" json:"r"`
	TauM       Range `yaml:"tau_m" json:"tau_m"`
	Refractory Range `yaml:"refractory" json:"refractory"`
}

// Defaults returns the ranges used by the estimation exercise.
func Defaults() Ranges {
	return Ranges{
		URest:      Range{-75, -65},
		UReset:     Range{-70, -60},
		Threshold:  Range{-55, -45},
		R:          Range{1, 20},
		TauM:       Range{5, 30},
		Refractory: Range{1, 8},
	}
}

func (r Ranges) validate() error {
	for _, f := range []struct {
		name string
		rng  Range
	}{
		{"u_rest", r.URest},
		{"u_reset", r.UReset},
		{"threshold", r.Threshold},
		{"r", r.R},
		{"tau_m", r.TauM},
		{"refractory", r.Refractory},
	} {
		if f.rng.empty() {
			return fmt.Errorf("%w: %s range [%g, %g] is empty", ErrInvalidRangeConfiguration, f.name, f.rng.Min, f.rng.Max)
		}
	}
	if r.R.Max <= 0 {
		return fmt.Errorf("%w: r range [%g, %g] admits no positive resistance", ErrInvalidRangeConfiguration, r.R.Min, r.R.Max)
	}
	if r.TauM.Max <= 0 {
		return fmt.Errorf("%w: tau_m range [%g, %g] admits no positive time constant", ErrInvalidRangeConfiguration, r.TauM.Min, r.TauM.Max)
	}
	if r.Refractory.Max < 0 {
		return fmt.Errorf("%w: refractory range [%g, %g] is negative", ErrInvalidRangeConfiguration, r.Refractory.Min, r.Refractory.Max)
	}
	if r.UReset.Min > r.Threshold.Max {
		return fmt.Errorf("%w: u_reset can never be at or below threshold", ErrInvalidRangeConfiguration)
	}
	return nil
}

// Draw produces a parameter set from the seed and ranges. The generator is
// local to the call, fields are drawn in a fixed order, and a draw whose
// combination is invalid (u_reset above threshold, non-positive r or tau_m)
// is discarded and redrawn from the same stream, up to maxAttempts. Same
// seed + same ranges therefore always yields bit-identical output.
func Draw(seed int64, ranges Ranges) (neuron.Parameters, error) {
	if err := ranges.validate(); err != nil {
		return neuron.Parameters{}, err
	}

	rng := rand.New(rand.NewSource(seed))
	for attempt := 0; attempt < maxAttempts; attempt++ {
		p := neuron.Parameters{
			URest:      ranges.URest.draw(rng),
			UReset:     ranges.UReset.draw(rng),
			Threshold:  ranges.Threshold.draw(rng),
			R:          ranges.R.draw(rng),
			TauM:       ranges.TauM.draw(rng),
			Refractory: ranges.Refractory.draw(rng),
		}
		if p.Validate() == nil {
			return p, nil
		}
	}
	return neuron.Parameters{}, fmt.Errorf("%w: no valid draw after %d attempts (seed %d)",
		ErrInvalidRangeConfiguration, maxAttempts, seed)
}
