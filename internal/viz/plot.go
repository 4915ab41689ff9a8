// Package viz renders voltage traces, spike rasters and f-I curves as
// console graphs.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/sweep"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

// VoltageTrace plots the recorded membrane potential against time, with a
// spike raster line underneath.
func VoltageTrace(times, voltages, spikeTimes []float64, params neuron.Parameters) string {
	if len(voltages) == 0 {
		return "no samples"
	}

	graph := asciigraph.Plot(downsample(voltages, plotWidth*4),
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("membrane potential (mV), threshold %.1f, rest %.1f",
			params.Threshold, params.URest)),
	)

	var b strings.Builder
	b.WriteString(GraphStyle.Render(graph))
	b.WriteString("\n")
	b.WriteString(SpikeStyle.Render(raster(times, spikeTimes)))
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render(fmt.Sprintf("spikes: %d   span: %.1f ms", len(spikeTimes), last(times))))
	return b.String()
}

// FICurve plots firing rate against constant input amplitude.
func FICurve(points []sweep.Point) string {
	if len(points) == 0 {
		return "no points"
	}
	rates := make([]float64, len(points))
	for i, p := range points {
		rates[i] = p.Rate * 1000 // spikes/s reads better on a console axis
	}
	graph := asciigraph.Plot(rates,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(fmt.Sprintf("firing rate (Hz) for I in [%.2f, %.2f] nA",
			points[0].Amplitude, points[len(points)-1].Amplitude)),
	)
	return GraphStyle.Render(graph)
}

// raster marks each spike time with a | on a line spanning the run.
func raster(times, spikeTimes []float64) string {
	row := []rune(strings.Repeat("-", plotWidth))
	span := last(times)
	if span <= 0 {
		return string(row)
	}
	for _, s := range spikeTimes {
		col := int(s / span * float64(plotWidth-1))
		if col >= 0 && col < plotWidth {
			row[col] = '|'
		}
	}
	return "spikes  " + string(row)
}

func downsample(data []float64, max int) []float64 {
	if len(data) <= max {
		return data
	}
	out := make([]float64, max)
	for i := range out {
		out[i] = data[i*len(data)/max]
	}
	return out
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}
