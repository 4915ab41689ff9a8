package lif

import (
	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

// Sample is one recorded (time, voltage) point.
type Sample struct {
	Time    float64 `json:"t"`
	Voltage float64 `json:"u"`
}

// StateTrace is the ordered voltage recording of one run, one sample per
// grid point including both endpoints. It is append-only during the run and
// read-only afterwards.
type StateTrace struct {
	times    []float64
	voltages []float64
}

func newStateTrace(capacity int) *StateTrace {
	return &StateTrace{
		times:    make([]float64, 0, capacity),
		voltages: make([]float64, 0, capacity),
	}
}

func (tr *StateTrace) append(t, u float64) {
	tr.times = append(tr.times, t)
	tr.voltages = append(tr.voltages, u)
}

// Len returns the number of recorded samples.
func (tr *StateTrace) Len() int { return len(tr.times) }

// Times returns the sample times in nondecreasing order. The slice is owned
// by the trace; callers must not modify it.
func (tr *StateTrace) Times() []float64 { return tr.times }

// Voltages returns the recorded voltages, aligned with Times. The slice is
// owned by the trace; callers must not modify it.
func (tr *StateTrace) Voltages() []float64 { return tr.voltages }

// Samples returns the recording as (time, voltage) pairs.
func (tr *StateTrace) Samples() []Sample {
	out := make([]Sample, len(tr.times))
	for i := range tr.times {
		out[i] = Sample{Time: tr.times[i], Voltage: tr.voltages[i]}
	}
	return out
}

// SpikeLog records the times at which the threshold crossing fired, in
// strictly increasing order.
type SpikeLog struct {
	times []float64
}

func newSpikeLog() *SpikeLog {
	return &SpikeLog{times: make([]float64, 0)}
}

func (sl *SpikeLog) append(t float64) { sl.times = append(sl.times, t) }

// Times returns the spike times. The slice is owned by the log; callers
// must not modify it.
func (sl *SpikeLog) Times() []float64 { return sl.times }

// Count returns the number of spikes.
func (sl *SpikeLog) Count() int { return len(sl.times) }

// Result pairs the two recordings of one run with the inputs that produced
// them.
type Result struct {
	Params neuron.Parameters
	Input  waveform.Waveform
	Trace  *StateTrace
	Spikes *SpikeLog
}

// Duration returns the time of the last recorded sample.
func (r *Result) Duration() float64 {
	if r.Trace.Len() == 0 {
		return 0
	}
	return r.Trace.times[r.Trace.Len()-1]
}

// FiringRate returns spikes per millisecond over the run.
func (r *Result) FiringRate() float64 {
	d := r.Duration()
	if d == 0 {
		return 0
	}
	return float64(r.Spikes.Count()) / d
}
