// Package store persists optimization runs as directories: metadata
// plus text amplitude tables and a convergence trace.
package store

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samar-v/pulseopt/internal/experiment"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Tslots     int                `json:"tslots"`
	EvoTime    float64            `json:"evo_time"`
	FidErrTarg float64            `json:"fid_err_targ"`
	NumCoeffs  int                `json:"num_coeffs"`
	Fidelity   string             `json:"fidelity"`
	GuessShape string             `json:"guess_shape"`
	Labels     []string           `json:"labels"`
	InitialErr float64            `json:"initial_err"`
	FinalErr   float64            `json:"final_err"`
	Reason     string             `json:"reason"`
	Runtime    float64            `json:"runtime_seconds"`
	Iterations int                `json:"iterations"`
	FuncEvals  int                `json:"func_evals"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes one run directory: metadata.json, the initial and final
// control amplitude tables, and the per-iteration convergence trace.
func (s *Store) Save(cfg experiment.Config, result *experiment.Result) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", err
	}

	// second-resolution stamps collide when runs are saved back to back
	// (scenario batches save every step in one loop), so suffix until the
	// directory is fresh
	stamp := time.Now().Unix()
	runID := fmt.Sprintf("%s_%d", cfg.System, stamp)
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", cfg.System, stamp, n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta := RunMetadata{
		ID:         runID,
		System:     cfg.System,
		Timestamp:  time.Now(),
		Seed:       cfg.Seed,
		Tslots:     cfg.Tslots,
		EvoTime:    cfg.EvoTime,
		FidErrTarg: cfg.FidErrTarg,
		NumCoeffs:  cfg.NumCoeffs,
		Fidelity:   cfg.Fidelity,
		GuessShape: cfg.GuessShape,
		Labels:     result.Labels,
		InitialErr: result.InitialErr,
		FinalErr:   result.FinalErr,
		Reason:     result.Reason,
		Runtime:    result.Runtime.Seconds(),
		Iterations: result.Iterations,
		FuncEvals:  result.FuncEvals,
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeAmps(filepath.Join(runDir, "initial_amps.txt"), result.Times, result.Labels, result.InitialAmps); err != nil {
		return "", err
	}
	if err := writeAmps(filepath.Join(runDir, "final_amps.txt"), result.Times, result.Labels, result.FinalAmps); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, "convergence.csv"), result.Trace); err != nil {
		return "", err
	}

	return runID, nil
}

// writeAmps emits a tab-separated table, one row per time slot, with a
// commented header line naming the control channels.
func writeAmps(path string, times []float64, labels []string, amps [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	defer w.Flush()

	fmt.Fprintf(w, "# time\t%s\n", strings.Join(labels, "\t"))
	for k, row := range amps {
		fmt.Fprintf(w, "%.6f", times[k])
		for _, u := range row {
			fmt.Fprintf(w, "\t%.6f", u)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeTrace(path string, trace []experiment.TracePoint) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"iteration", "fid_err"}); err != nil {
		return err
	}
	for _, p := range trace {
		row := []string{
			strconv.Itoa(p.Iteration),
			strconv.FormatFloat(p.FidErr, 'e', 9, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadAmps reads an amplitude table back. which is "initial" or "final".
func (s *Store) LoadAmps(runID, which string) ([]float64, [][]float64, error) {
	path := filepath.Join(s.baseDir, runID, which+"_amps.txt")
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	var times []float64
	var amps [][]float64

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			continue
		}
		row := make([]float64, 0, len(fields)-1)
		for _, f := range fields[1:] {
			u, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad amplitude %q in %s: %w", f, path, err)
			}
			row = append(row, u)
		}
		times = append(times, t)
		amps = append(amps, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return times, amps, nil
}

func (s *Store) LoadTrace(runID string) ([]experiment.TracePoint, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "convergence.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	trace := make([]experiment.TracePoint, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		iter, err := strconv.Atoi(records[i][0])
		if err != nil {
			continue
		}
		ferr, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			continue
		}
		trace = append(trace, experiment.TracePoint{Iteration: iter, FidErr: ferr})
	}
	return trace, nil
}
