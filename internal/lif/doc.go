// Package lif implements the leaky integrate-and-fire simulation engine.
//
// The simulator integrates the membrane equation
//
//	tau_m * du/dt = -(u - u_rest) + R*I(t)
//
// on a uniform time grid with an explicit first-order update, applying
// spike-and-reset dynamics through a two-phase state machine
// (integrating / refractory). One call to Run is a total function of its
// inputs: validation happens before any stepping and the bounded step count
// guarantees termination.
//
// Recorded voltage policy: the sample at the spike step is u_reset, not the
// clamped threshold. The spike time itself lies inside the refractory hold
// window [s, s+refractory), which must read u_reset exactly; the SpikeLog
// carries the crossing for anything that wants to mark it.
package lif
