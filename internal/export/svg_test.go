package export

import (
	"strings"
	"testing"
)

func TestPulseToSVG(t *testing.T) {
	times := []float64{0, 0.5, 1.0, 1.5}
	amps := [][]float64{{0.1, -1}, {0.5, 0}, {0.9, 1}, {0.2, 0.5}}

	svg := PulseToSVG(times, []string{"X1", "Y1"}, amps, 400, 200)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML header")
	}
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "</svg>") {
		t.Error("malformed SVG document")
	}
	if strings.Count(svg, "<path") != 2 {
		t.Errorf("expected 2 channel paths, got %d", strings.Count(svg, "<path"))
	}
	if !strings.Contains(svg, ">X1</text>") || !strings.Contains(svg, ">Y1</text>") {
		t.Error("missing channel labels")
	}
	// amplitudes straddle zero, so the axis line should be drawn
	if !strings.Contains(svg, "<line") {
		t.Error("missing zero axis")
	}
}

func TestPulseToSVGTooShort(t *testing.T) {
	if svg := PulseToSVG([]float64{0}, nil, [][]float64{{1}}, 100, 100); svg != "" {
		t.Error("expected empty output for single-slot table")
	}
}

func TestTraceToSVG(t *testing.T) {
	svg := TraceToSVG([]float64{1, 0.5, 0.1, 0.01}, 300, 100)
	if !strings.HasPrefix(svg, `<?xml version="1.0"`) || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete SVG document")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("missing trace path")
	}
	if svg := TraceToSVG([]float64{1}, 300, 100); svg != "" {
		t.Error("expected empty output for single point")
	}
}
