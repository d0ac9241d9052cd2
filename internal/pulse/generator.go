package pulse

import (
	"fmt"
	"math"
	"math/rand"
)

// Shape names a guess pulse generator.
type Shape string

const (
	ShapeZero     Shape = "zero"
	ShapeSine     Shape = "sine"
	ShapeSquare   Shape = "square"
	ShapeSaw      Shape = "saw"
	ShapeTriangle Shape = "triangle"
	ShapeGaussian Shape = "gaussian"
	ShapeRandom   Shape = "random"
)

func ParseShape(s string) (Shape, error) {
	switch Shape(s) {
	case ShapeZero, ShapeSine, ShapeSquare, ShapeSaw, ShapeTriangle, ShapeGaussian, ShapeRandom:
		return Shape(s), nil
	default:
		return "", fmt.Errorf("unknown pulse shape: %s", s)
	}
}

// Guess describes the initial pulse fed to the optimizer before the
// basis correction is added.
type Guess struct {
	Shape    Shape
	Scaling  float64
	Offset   float64
	NumWaves float64
}

// Sample evaluates the guess pulse at the center of each timeslot.
func (g Guess) Sample(rng *rand.Rand, tslots int, evoTime float64) ([]float64, error) {
	if tslots <= 0 || evoTime <= 0 {
		return nil, fmt.Errorf("tslots and evo_time must be positive, got %d and %f", tslots, evoTime)
	}
	waves := g.NumWaves
	if waves == 0 {
		waves = 1
	}

	dt := evoTime / float64(tslots)
	out := make([]float64, tslots)
	for k := range out {
		t := (float64(k) + 0.5) * dt
		phase := waves * t / evoTime // cycles elapsed

		var v float64
		switch g.Shape {
		case ShapeZero:
			v = 0
		case ShapeSine:
			v = math.Sin(2 * math.Pi * phase)
		case ShapeSquare:
			if math.Sin(2*math.Pi*phase) >= 0 {
				v = 1
			} else {
				v = -1
			}
		case ShapeSaw:
			v = 2*(phase-math.Floor(phase)) - 1
		case ShapeTriangle:
			v = 2/math.Pi*math.Asin(math.Sin(2*math.Pi*phase))
		case ShapeGaussian:
			sigma := evoTime / 6
			d := t - evoTime/2
			v = math.Exp(-d * d / (2 * sigma * sigma))
		case ShapeRandom:
			v = 2*rng.Float64() - 1
		default:
			return nil, fmt.Errorf("unknown pulse shape: %s", g.Shape)
		}

		out[k] = g.Scaling*v + g.Offset
	}
	return out, nil
}

// Ramp names an envelope that pins the pulse edges toward zero so
// optimized waveforms switch on and off smoothly.
type Ramp string

const (
	RampNone         Ramp = "none"
	RampSine         Ramp = "sine"
	RampGaussianEdge Ramp = "gaussian_edge"
)

func ParseRamp(s string) (Ramp, error) {
	switch Ramp(s) {
	case RampNone, RampSine, RampGaussianEdge:
		return Ramp(s), nil
	default:
		return "", fmt.Errorf("unknown ramp: %s", s)
	}
}

// Envelope samples the ramp at the center of each timeslot.
func Envelope(r Ramp, tslots int, evoTime float64) ([]float64, error) {
	if tslots <= 0 || evoTime <= 0 {
		return nil, fmt.Errorf("tslots and evo_time must be positive, got %d and %f", tslots, evoTime)
	}

	dt := evoTime / float64(tslots)
	out := make([]float64, tslots)
	for k := range out {
		t := (float64(k) + 0.5) * dt
		switch r {
		case RampSine:
			out[k] = math.Sin(math.Pi * t / evoTime)
		case RampGaussianEdge:
			tau := evoTime / 10
			rise := 1 - math.Exp(-(t*t)/(2*tau*tau))
			fall := 1 - math.Exp(-((evoTime-t)*(evoTime-t))/(2*tau*tau))
			out[k] = rise * fall
		case RampNone:
			out[k] = 1
		default:
			return nil, fmt.Errorf("unknown ramp: %s", r)
		}
	}
	return out, nil
}
