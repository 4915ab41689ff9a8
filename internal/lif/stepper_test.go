package lif

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

// The stepper and Run share the machine; stepping manually must reproduce a
// full run exactly.
func TestStepperMatchesRun(t *testing.T) {
	in, err := waveform.Step(10, 80, 4.0)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Simulate(context.Background(), neuron.Default(), in, 100, 0.1)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	st, err := NewStepper(neuron.Default(), in, 0.1)
	if err != nil {
		t.Fatalf("stepper failed: %v", err)
	}

	times := res.Trace.Times()
	volts := res.Trace.Voltages()
	fired := 0
	for i := 1; i < res.Trace.Len(); i++ {
		tm, u, f := st.Step()
		if tm != times[i] || u != volts[i] {
			t.Fatalf("step %d: stepper (%g, %g), run (%g, %g)", i, tm, u, times[i], volts[i])
		}
		if f {
			fired++
		}
	}
	if fired != res.Spikes.Count() {
		t.Errorf("stepper fired %d, run logged %d", fired, res.Spikes.Count())
	}
	if st.Spikes() != fired {
		t.Errorf("Spikes() = %d, want %d", st.Spikes(), fired)
	}
}

func TestStepperValidation(t *testing.T) {
	bad := neuron.Default()
	bad.R = 0
	if _, err := NewStepper(bad, waveform.Zero(), 0.1); !errors.Is(err, neuron.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if _, err := NewStepper(neuron.Default(), nil, 0.1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for nil input, got %v", err)
	}
	if _, err := NewStepper(neuron.Default(), waveform.Zero(), 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration for zero dt, got %v", err)
	}
}

func TestStepperSetInput(t *testing.T) {
	st, err := NewStepper(neuron.Default(), waveform.Zero(), 0.1)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		st.Step()
	}
	if st.Voltage() != neuron.Default().URest {
		t.Fatalf("zero input moved the membrane to %g", st.Voltage())
	}

	strong, _ := waveform.Constant(5.0)
	st.SetInput(strong)
	fired := false
	for i := 0; i < 1000; i++ {
		if _, _, f := st.Step(); f {
			fired = true
			break
		}
	}
	if !fired {
		t.Error("strong input after SetInput never fired")
	}
}
