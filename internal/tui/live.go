// Package tui provides the live membrane-potential view.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/lifsim/internal/lif"
	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/viz"
	"github.com/san-kum/lifsim/internal/waveform"
)

const (
	graphWidth      = 80
	graphHeight     = 14
	historyCapacity = 600
	stepsPerFrame   = 20
)

type TickMsg time.Time

// Model drives one neuron in real time and graphs the rolling voltage
// history.
type Model struct {
	params  neuron.Parameters
	stepper *lif.Stepper
	dt      float64
	amp     float64
	history []float64
	running bool
	err     error
}

// NewModel initializes the live view with a constant stimulus of the given
// amplitude.
func NewModel(params neuron.Parameters, amp, dt float64) (Model, error) {
	in, err := waveform.Constant(amp)
	if err != nil {
		return Model{}, err
	}
	st, err := lif.NewStepper(params, in, dt)
	if err != nil {
		return Model{}, err
	}
	return Model{
		params:  params,
		stepper: st,
		dt:      dt,
		amp:     amp,
		history: make([]float64, 0, historyCapacity),
		running: true,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "+", "=":
			m.setAmplitude(m.amp + 0.25)
		case "-", "_":
			m.setAmplitude(m.amp - 0.25)
		case "r":
			in, _ := waveform.Constant(m.amp)
			st, err := lif.NewStepper(m.params, in, m.dt)
			if err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.stepper = st
			m.history = m.history[:0]
		}
		return m, nil

	case TickMsg:
		if m.running {
			for i := 0; i < stepsPerFrame; i++ {
				_, u, _ := m.stepper.Step()
				m.history = append(m.history, u)
			}
			if len(m.history) > historyCapacity {
				m.history = m.history[len(m.history)-historyCapacity:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) setAmplitude(amp float64) {
	if amp < 0 {
		amp = 0
	}
	in, err := waveform.Constant(amp)
	if err != nil {
		return
	}
	m.amp = amp
	m.stepper.SetInput(in)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(viz.HeaderStyle.Render("lifsim live"))
	b.WriteString("\n\n")

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
		)
		b.WriteString(viz.GraphStyle.Render(graph))
	} else {
		b.WriteString(viz.LabelStyle.Render("collecting samples..."))
	}
	b.WriteString("\n\n")

	status := "running"
	if !m.running {
		status = "paused"
	}
	rate := 0.0
	if t := m.stepper.Time(); t > 0 {
		rate = float64(m.stepper.Spikes()) / t * 1000
	}
	b.WriteString(viz.LabelStyle.Render("t") + viz.ValueStyle.Render(fmt.Sprintf("  %8.1f ms", m.stepper.Time())) + "\n")
	b.WriteString(viz.LabelStyle.Render("u") + viz.ValueStyle.Render(fmt.Sprintf("  %8.2f mV", m.stepper.Voltage())) + "\n")
	b.WriteString(viz.LabelStyle.Render("I") + viz.ValueStyle.Render(fmt.Sprintf("  %8.2f nA", m.amp)) + "\n")
	b.WriteString(viz.LabelStyle.Render("spikes") + viz.ValueStyle.Render(fmt.Sprintf("  %d (%.1f Hz)", m.stepper.Spikes(), rate)) + "\n")
	b.WriteString(viz.LabelStyle.Render("status") + viz.ValueStyle.Render("  "+status) + "\n")

	b.WriteString(viz.HelpStyle.Render("\nspace pause  +/- stimulus  r reset  q quit"))
	return b.String()
}

// Run starts the live view and blocks until it exits.
func Run(params neuron.Parameters, amp, dt float64) error {
	m, err := NewModel(params, amp, dt)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
}
