package lif_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifsim/internal/lif"
	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

func mustConstant(amp float64) waveform.Waveform {
	w, err := waveform.Constant(amp)
	Expect(err).NotTo(HaveOccurred())
	return w
}

func run(p neuron.Parameters, in waveform.Waveform, duration, dt float64) *lif.Result {
	res, err := lif.Simulate(context.Background(), p, in, duration, dt)
	Expect(err).NotTo(HaveOccurred())
	return res
}

var _ = Describe("membrane dynamics", func() {
	var p neuron.Parameters

	BeforeEach(func() {
		p = neuron.Default()
	})

	Describe("with zero input current", func() {
		It("stays at rest and never fires", func() {
			res := run(p, waveform.Zero(), 200, 0.1)
			Expect(res.Spikes.Count()).To(BeZero())
			for _, u := range res.Trace.Voltages() {
				Expect(u).To(Equal(p.URest))
			}
		})

		It("decays monotonically toward rest after a transient stimulus", func() {
			in, err := waveform.Step(0, 20, 1.5)
			Expect(err).NotTo(HaveOccurred())
			res := run(p, in, 120, 0.1)
			Expect(res.Spikes.Count()).To(BeZero())

			// After the step switches off, |u - u_rest| shrinks every step.
			times := res.Trace.Times()
			volts := res.Trace.Voltages()
			prev := -1.0
			for i := range times {
				if times[i] <= 20 {
					continue
				}
				dist := volts[i] - p.URest
				Expect(dist).To(BeNumerically(">=", 0))
				if prev >= 0 {
					Expect(dist).To(BeNumerically("<=", prev))
				}
				prev = dist
			}
			final := volts[len(volts)-1]
			Expect(final).To(BeNumerically("~", p.URest, 0.01))
		})
	})

	Describe("at the rheobase boundary", func() {
		It("approaches threshold without ever crossing", func() {
			// I = (threshold - u_rest) / R = 2 nA exactly.
			res := run(p, mustConstant(p.Rheobase()), 100, 0.1)
			Expect(res.Spikes.Count()).To(BeZero())
			for _, u := range res.Trace.Voltages() {
				Expect(u).To(BeNumerically("<", p.Threshold))
			}
			final := res.Trace.Voltages()[res.Trace.Len()-1]
			Expect(final).To(BeNumerically("<", -50.0))
			Expect(final).To(BeNumerically(">", -51.0), "should have climbed close to threshold")
		})
	})

	Describe("above rheobase", func() {
		It("fires at least once at 2.5 nA over 100 ms", func() {
			res := run(p, mustConstant(2.5), 100, 0.1)
			Expect(res.Spikes.Count()).To(BeNumerically(">=", 1))
		})
	})

	Describe("refractory lock", func() {
		It("holds u_reset and blocks spikes for the whole window", func() {
			res := run(p, mustConstant(5.0), 500, 0.1)
			Expect(res.Spikes.Count()).To(BeNumerically(">", 1))

			times := res.Trace.Times()
			volts := res.Trace.Voltages()
			for _, s := range res.Spikes.Times() {
				for i := range times {
					if times[i] >= s && times[i] < s+p.Refractory {
						Expect(volts[i]).To(Equal(p.UReset),
							"sample at t=%g inside window of spike at %g", times[i], s)
					}
				}
			}

			spikes := res.Spikes.Times()
			for i := 1; i < len(spikes); i++ {
				Expect(spikes[i] - spikes[i-1]).To(BeNumerically(">=", p.Refractory))
			}
		})
	})

	Describe("firing rate", func() {
		rate := func(amp float64) float64 {
			return run(p, mustConstant(amp), 1000, 0.1).FiringRate()
		}

		It("saturates at 1/refractory and never exceeds it", func() {
			limit := 1.0 / p.Refractory
			for _, amp := range []float64{5, 10, 50, 200} {
				Expect(rate(amp)).To(BeNumerically("<=", limit))
			}
			Expect(rate(200)).To(BeNumerically(">=", 0.9*limit))
		})

		It("is non-decreasing in the input amplitude", func() {
			prev := 0.0
			for amp := 1.0; amp <= 6.0; amp += 0.5 {
				r := rate(amp)
				Expect(r).To(BeNumerically(">=", prev), "rate dropped at amp=%g", amp)
				prev = r
			}
		})
	})
})
