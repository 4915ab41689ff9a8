// Package neuron defines the physical parameters of a leaky integrate-and-fire
// point neuron.
//
// All quantities are plain float64 values in one fixed unit system:
// millivolts (mV), milliseconds (ms), megaohms (MΩ), nanoamperes (nA).
// MΩ·nA = mV, so the membrane equation needs no conversion factors as long
// as every call site agrees on these units.
package neuron
