package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/lifsim/internal/config"
	"github.com/san-kum/lifsim/internal/lif"
	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/sample"
	"github.com/san-kum/lifsim/internal/store"
	"github.com/san-kum/lifsim/internal/sweep"
	"github.com/san-kum/lifsim/internal/tui"
	"github.com/san-kum/lifsim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	amplitude  float64
	seed       int64
	configFile string
	preset     string
	label      string
	// sweep flags
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
	workers     int
	sweepSeed   int64
	// sample flags
	sampleSeed int64
	reveal     bool
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifsim",
		Short: "leaky integrate-and-fire neuron lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lifsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (ms)")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (ms)")
	runCmd.Flags().Float64Var(&amplitude, "amp", 2.5, "step amplitude (nA)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "seed for noise stimuli")
	runCmd.Flags().StringVar(&configFile, "config", "", "experiment file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&label, "label", "", "label stored with the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "build an f-I curve over constant input amplitudes",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first amplitude (nA)")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 6, "last amplitude (nA)")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 25, "number of amplitudes")
	sweepCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (ms)")
	sweepCmd.Flags().Float64Var(&duration, "time", 1000, "duration per run (ms)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = NumCPU)")
	sweepCmd.Flags().Int64Var(&sweepSeed, "seed", -1, "sweep a sampled neuron instead of the default (-1 = default)")

	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "draw a reproducible unknown neuron from a seed",
		RunE:  runSample,
	}
	sampleCmd.Flags().Int64Var(&sampleSeed, "seed", 1, "sampler seed")
	sampleCmd.Flags().BoolVar(&reveal, "reveal", false, "print the drawn parameter values")
	sampleCmd.Flags().StringVar(&outFile, "out", "", "write an experiment file with the drawn neuron")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the membrane potential live",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(neuron.Default(), amplitude, dt)
		},
	}
	liveCmd.Flags().Float64Var(&amplitude, "amp", 2.5, "stimulus amplitude (nA)")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (ms)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, sweepCmd, sampleCmd, listCmd, plotCmd, exportJSONCmd, exportCSVCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override file and preset values.
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("amp") {
		cfg.Stimulus.Amplitude = amplitude
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	in, err := cfg.Waveform()
	if err != nil {
		return err
	}

	st, err := store.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	start := time.Now()
	simCfg := lif.Config{Dt: cfg.Dt, Duration: cfg.Duration}
	result, err := lif.New(cfg.Neuron, in).Run(context.Background(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	shape := cfg.Stimulus.Shape
	if shape == "" {
		shape = "zero"
	}
	runID, err := st.Save(context.Background(), label, shape, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", result.Trace.Len())
	fmt.Printf("spikes: %d\n", result.Spikes.Count())
	fmt.Printf("rate: %.1f Hz\n", result.FiringRate()*1000)
	fmt.Println()
	fmt.Println(viz.VoltageTrace(result.Trace.Times(), result.Trace.Voltages(), result.Spikes.Times(), result.Params))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	params := neuron.Default()
	if sweepSeed >= 0 {
		p, err := sample.Draw(sweepSeed, sample.Defaults())
		if err != nil {
			return err
		}
		params = p
		fmt.Printf("sweeping sampled neuron (seed %d)\n", sweepSeed)
	}

	amps := sweep.Amplitudes(sweepFrom, sweepTo, sweepPoints)
	points, err := sweep.FICurve(context.Background(), params, amps, duration, dt, workers)
	if err != nil {
		return err
	}

	fmt.Println(viz.FICurve(points))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AMP (nA)\tRATE (Hz)\tSPIKES")
	for _, pt := range points {
		fmt.Fprintf(w, "%.2f\t%.1f\t%d\n", pt.Amplitude, pt.Rate*1000, pt.Spikes)
	}
	return w.Flush()
}

func runSample(cmd *cobra.Command, args []string) error {
	p, err := sample.Draw(sampleSeed, sample.Defaults())
	if err != nil {
		return err
	}

	fmt.Printf("drew neuron for seed %d\n", sampleSeed)
	if reveal {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "u_rest\t%.3f mV\n", p.URest)
		fmt.Fprintf(w, "u_reset\t%.3f mV\n", p.UReset)
		fmt.Fprintf(w, "threshold\t%.3f mV\n", p.Threshold)
		fmt.Fprintf(w, "r\t%.3f MΩ\n", p.R)
		fmt.Fprintf(w, "tau_m\t%.3f ms\n", p.TauM)
		fmt.Fprintf(w, "refractory\t%.3f ms\n", p.Refractory)
		if err := w.Flush(); err != nil {
			return err
		}
	} else {
		fmt.Println("values hidden; estimate them from f-I sweeps, or pass --reveal")
	}

	if outFile != "" {
		cfg := config.Default()
		cfg.Neuron = p
		cfg.Seed = sampleSeed
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := store.Open(dataDir)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTIMULUS\tTIME\tDURATION\tDT\tSPIKES\tLABEL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fms\t%.2fms\t%d\t%s\n",
			run.ID,
			run.Stimulus,
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.SpikeCount,
			run.Label,
		)
	}
	return w.Flush()
}

func loadRun(id string) (*store.Run, func(), error) {
	st, err := store.Open(dataDir)
	if err != nil {
		return nil, nil, err
	}
	run, err := st.Load(context.Background(), id)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return run, func() { st.Close() }, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, done, err := loadRun(args[0])
	if err != nil {
		return err
	}
	defer done()

	times := make([]float64, len(run.Samples))
	volts := make([]float64, len(run.Samples))
	for i, s := range run.Samples {
		times[i] = s.Time
		volts[i] = s.Voltage
	}

	fmt.Printf("run: %s\n", run.ID)
	fmt.Printf("stimulus: %s\n", run.Stimulus)
	fmt.Printf("samples: %d\n\n", len(run.Samples))
	fmt.Println(viz.VoltageTrace(times, volts, run.SpikeTimes, run.Params))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	run, done, err := loadRun(args[0])
	if err != nil {
		return err
	}
	defer done()
	return store.ExportJSON(os.Stdout, run)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	run, done, err := loadRun(args[0])
	if err != nil {
		return err
	}
	defer done()
	return store.ExportCSV(os.Stdout, run)
}
