package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/san-kum/lifsim/internal/lif"
	"github.com/san-kum/lifsim/internal/neuron"
	"github.com/san-kum/lifsim/internal/waveform"
)

func simulate(t *testing.T) (*lif.Result, lif.Config) {
	t.Helper()
	in, err := waveform.Constant(3.0)
	if err != nil {
		t.Fatal(err)
	}
	cfg := lif.Config{Dt: 0.1, Duration: 100}
	res, err := lif.New(neuron.Default(), in).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("simulation failed: %v", err)
	}
	return res, cfg
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	res, cfg := simulate(t)

	id, err := s.Save(ctx, "test run", "constant", cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	run, err := s.Load(ctx, id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if run.Params != res.Params {
		t.Errorf("parameters changed through persistence:\nsaved  %+v\nloaded %+v", res.Params, run.Params)
	}
	if len(run.Samples) != res.Trace.Len() {
		t.Errorf("sample count %d, want %d", len(run.Samples), res.Trace.Len())
	}
	if run.SpikeCount != res.Spikes.Count() {
		t.Errorf("spike count %d, want %d", run.SpikeCount, res.Spikes.Count())
	}
	for i, st := range run.SpikeTimes {
		if st != res.Spikes.Times()[i] {
			t.Errorf("spike %d time %g, want %g", i, st, res.Spikes.Times()[i])
		}
	}
	if run.Label != "test run" || run.Stimulus != "constant" {
		t.Errorf("metadata mismatch: %+v", run)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	res, cfg := simulate(t)

	if _, err := s.Save(ctx, "a", "constant", cfg, res); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(ctx, "b", "step", cfg, res); err != nil {
		t.Fatal(err)
	}

	runs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	for _, r := range runs {
		if len(r.Samples) != 0 {
			t.Error("list should not carry trace payloads")
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	s := openStore(t)
	if _, err := s.Load(context.Background(), "missing_1"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	res, cfg := simulate(t)

	id, err := s.Save(ctx, "", "constant", cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	run, err := s.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, run); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "time_ms,voltage_mv,spike" {
		t.Errorf("bad header: %q", lines[0])
	}
	if got, want := len(lines)-1, res.Trace.Len(); got != want {
		t.Errorf("%d data rows, want %d", got, want)
	}
	marked := 0
	for _, l := range lines[1:] {
		if strings.HasSuffix(l, ",1") {
			marked++
		}
	}
	if marked != res.Spikes.Count() {
		t.Errorf("%d spike rows, want %d", marked, res.Spikes.Count())
	}
}

func TestExportJSON(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	res, cfg := simulate(t)

	id, err := s.Save(ctx, "", "constant", cfg, res)
	if err != nil {
		t.Fatal(err)
	}
	run, err := s.Load(ctx, id)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, run); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	var back Run
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if back.Params != run.Params {
		t.Error("parameters changed through JSON export")
	}
}
