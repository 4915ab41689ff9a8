// Package sweep drives batches of independent simulation runs, such as the
// amplitude sweep behind an f-I curve.
package sweep

import (
	"context"
	"runtime"
	"sync"

	"github.com/san-kum/lifsim/internal/lif"
	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

// Point is one entry of an f-I curve.
type Point struct {
	Amplitude float64 `json:"amplitude"` // constant input current (nA)
	Rate      float64 `json:"rate"`      // firing rate (spikes/ms)
	Spikes    int     `json:"spikes"`
}

// FICurve simulates one constant-current run per amplitude and returns the
// resulting rates in input order. Runs share no mutable state and execute
// across at most `workers` goroutines (NumCPU when workers <= 0). The first
// error cancels the batch.
func FICurve(ctx context.Context, params neuron.Parameters, amplitudes []float64, duration, dt float64, workers int) ([]Point, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(amplitudes) {
		workers = len(amplitudes)
	}

	points := make([]Point, len(amplitudes))
	errs := make([]error, len(amplitudes))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				points[idx], errs[idx] = runOne(ctx, params, amplitudes[idx], duration, dt)
			}
		}()
	}

	for i := range amplitudes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

func runOne(ctx context.Context, params neuron.Parameters, amp, duration, dt float64) (Point, error) {
	in, err := waveform.Constant(amp)
	if err != nil {
		return Point{}, err
	}
	res, err := lif.Simulate(ctx, params, in, duration, dt)
	if err != nil {
		return Point{}, err
	}
	return Point{Amplitude: amp, Rate: res.FiringRate(), Spikes: res.Spikes.Count()}, nil
}

// Amplitudes builds a uniform amplitude grid [from, to] with n points,
// for assembling sweeps from CLI flags.
func Amplitudes(from, to float64, n int) []float64 {
	if n <= 1 {
		return []float64{from}
	}
	out := make([]float64, n)
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}
