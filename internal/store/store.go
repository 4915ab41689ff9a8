// Package store persists simulation runs in a SQLite database under the
// data directory and exports them to CSV or JSON.
package store

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/san-kum/lifsim/internal/lif"
	"github.com/san-kum/lifsim/internal/neuron"
)

// Store is a SQLite-backed archive of completed runs.
type Store struct {
	db  *sql.DB
	dir string
}

// Run is one archived simulation run.
type Run struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Label      string            `json:"label,omitempty"`
	Stimulus   string            `json:"stimulus"`
	Dt         float64           `json:"dt"`
	Duration   float64           `json:"duration"`
	SpikeCount int               `json:"spike_count"`
	Params     neuron.Parameters `json:"params"`
	Samples    []lif.Sample      `json:"samples,omitempty"`
	SpikeTimes []float64         `json:"spike_times,omitempty"`
}

// Open creates the data directory if needed and opens the run database.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lifsim.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with a single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, dir: dataDir}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save archives a completed run and returns its generated id.
func (s *Store) Save(ctx context.Context, label, stimulus string, cfg lif.Config, result *lif.Result) (string, error) {
	id := fmt.Sprintf("%s_%d", stimulus, time.Now().UnixNano())

	paramsJSON, err := json.Marshal(result.Params)
	if err != nil {
		return "", err
	}
	traceJSON, err := json.Marshal(result.Trace.Samples())
	if err != nil {
		return "", err
	}
	spikesJSON, err := json.Marshal(result.Spikes.Times())
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, label, stimulus, dt, duration, spike_count, params_json, trace_json, spikes_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339Nano), label, stimulus,
		cfg.Dt, cfg.Duration, result.Spikes.Count(),
		string(paramsJSON), string(traceJSON), string(spikesJSON))
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// List returns run metadata (no trace payload), newest first.
func (s *Store) List(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, label, stimulus, dt, duration, spike_count, params_json
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created, paramsJSON string
		if err := rows.Scan(&r.ID, &created, &r.Label, &r.Stimulus, &r.Dt, &r.Duration, &r.SpikeCount, &paramsJSON); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("run %s has bad timestamp: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(paramsJSON), &r.Params); err != nil {
			return nil, fmt.Errorf("run %s has bad params: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Load returns one archived run with its full trace.
func (s *Store) Load(ctx context.Context, id string) (*Run, error) {
	var r Run
	var created, paramsJSON, traceJSON, spikesJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, label, stimulus, dt, duration, spike_count, params_json, trace_json, spikes_json
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &created, &r.Label, &r.Stimulus, &r.Dt, &r.Duration, &r.SpikeCount, &paramsJSON, &traceJSON, &spikesJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("unknown run: %s", id)
	}
	if err != nil {
		return nil, err
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("run %s has bad timestamp: %w", id, err)
	}
	if err := json.Unmarshal([]byte(paramsJSON), &r.Params); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(traceJSON), &r.Samples); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(spikesJSON), &r.SpikeTimes); err != nil {
		return nil, err
	}
	return &r, nil
}

// ExportJSON writes the run as indented JSON.
func ExportJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// ExportCSV writes the voltage trace as time,voltage,spike rows.
func ExportCSV(w io.Writer, run *Run) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"time_ms", "voltage_mv", "spike"}); err != nil {
		return err
	}

	spikes := make(map[float64]bool, len(run.SpikeTimes))
	for _, t := range run.SpikeTimes {
		spikes[t] = true
	}

	for _, s := range run.Samples {
		mark := "0"
		if spikes[s.Time] {
			mark = "1"
		}
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Voltage, 'f', 6, 64),
			mark,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
