package metrics

import (
	"math"
	"testing"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe([]float64{1, -2}, 0)
	m.Observe([]float64{3, 0}, 0.1)

	// (|1| + |-2| + |3| + |0|) / 2 samples
	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected effort 3, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero effort after reset")
	}
}

func TestFluence(t *testing.T) {
	m := NewFluence(0.5)
	m.Observe([]float64{2}, 0)
	m.Observe([]float64{-2}, 0.5)

	// 2 slots of u^2 * dt = 4 * 0.5 each
	if math.Abs(m.Value()-4) > 1e-12 {
		t.Errorf("expected fluence 4, got %f", m.Value())
	}
}

func TestPeak(t *testing.T) {
	m := NewPeak()
	m.Observe([]float64{0.5, -3}, 0)
	m.Observe([]float64{1, 2}, 0.1)

	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected peak 3, got %f", m.Value())
	}
}

func TestSmoothness(t *testing.T) {
	m := NewSmoothness()
	m.Observe([]float64{0}, 0)
	m.Observe([]float64{1}, 0.1)
	m.Observe([]float64{1}, 0.2)

	// jumps of 1 and 0 over 2 transitions
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected smoothness 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero smoothness after reset")
	}
}

func TestEvaluate(t *testing.T) {
	amps := [][]float64{{1}, {-1}, {1}}
	times := []float64{0, 0.1, 0.2}

	vals := Evaluate([]Metric{NewControlEffort(), NewPeak()}, amps, times)

	if math.Abs(vals["control_effort"]-1) > 1e-12 {
		t.Errorf("expected effort 1, got %f", vals["control_effort"])
	}
	if math.Abs(vals["peak_amplitude"]-1) > 1e-12 {
		t.Errorf("expected peak 1, got %f", vals["peak_amplitude"])
	}
}
