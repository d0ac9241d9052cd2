package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/samar-v/pulseopt/internal/experiment"
)

type ExportData struct {
	System      string             `json:"system"`
	Fidelity    string             `json:"fidelity"`
	Tslots      int                `json:"tslots"`
	EvoTime     float64            `json:"evo_time"`
	Seed        int64              `json:"seed"`
	Labels      []string           `json:"labels"`
	Times       []float64          `json:"times"`
	InitialAmps [][]float64        `json:"initial_amps"`
	FinalAmps   [][]float64        `json:"final_amps"`
	InitialErr  float64            `json:"initial_err"`
	FinalErr    float64            `json:"final_err"`
	Reason      string             `json:"reason"`
	Runtime     float64            `json:"runtime_seconds"`
	Iterations  int                `json:"iterations"`
	FuncEvals   int                `json:"func_evals"`
	Metrics     map[string]float64 `json:"metrics"`
}

func exportData(cfg experiment.Config, result *experiment.Result) ExportData {
	return ExportData{
		System:      cfg.System,
		Fidelity:    cfg.Fidelity,
		Tslots:      cfg.Tslots,
		EvoTime:     cfg.EvoTime,
		Seed:        cfg.Seed,
		Labels:      result.Labels,
		Times:       result.Times,
		InitialAmps: result.InitialAmps,
		FinalAmps:   result.FinalAmps,
		InitialErr:  result.InitialErr,
		FinalErr:    result.FinalErr,
		Reason:      result.Reason,
		Runtime:     result.Runtime.Seconds(),
		Iterations:  result.Iterations,
		FuncEvals:   result.FuncEvals,
		Metrics:     result.Metrics,
	}
}

func exportTo(w io.Writer, cfg experiment.Config, result *experiment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(cfg, result))
}

func ExportJSON(path string, cfg experiment.Config, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportTo(file, cfg, result)
}

func ExportJSONStdout(cfg experiment.Config, result *experiment.Result) error {
	return exportTo(os.Stdout, cfg, result)
}
