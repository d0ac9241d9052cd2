package viz

import (
	"strings"
	"testing"
)

func TestPlotAmplitudes(t *testing.T) {
	amps := [][]float64{{0.1, 1.0}, {0.2, 0.5}, {0.3, 0.0}}
	out := PlotAmplitudes([]string{"X1", "Y1"}, amps, 20, 4)

	if !strings.Contains(out, "X1") || !strings.Contains(out, "Y1") {
		t.Errorf("expected channel captions, got:\n%s", out)
	}
}

func TestPlotAmplitudesEmpty(t *testing.T) {
	if out := PlotAmplitudes(nil, nil, 20, 4); out != "" {
		t.Errorf("expected empty plot, got %q", out)
	}
}

func TestPlotConvergence(t *testing.T) {
	out := PlotConvergence([]float64{1, 0.1, 0.01, 0}, 20, 4)
	if !strings.Contains(out, "log10 fidelity error") {
		t.Errorf("expected caption, got:\n%s", out)
	}

	if out := PlotConvergence([]float64{1}, 20, 4); !strings.Contains(out, "not enough") {
		t.Errorf("expected short-trace message, got %q", out)
	}
}

func TestSparklineChart(t *testing.T) {
	if out := SparklineChart(nil, 5); !strings.Contains(out, "─") {
		t.Errorf("expected flat line for empty input, got %q", out)
	}
	if out := SparklineChart([]float64{1, 0.5, 0.1}, 3); out == "" {
		t.Error("expected non-empty sparkline")
	}
}
