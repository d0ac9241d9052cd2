package metrics

import "math"

// Peak tracks the largest absolute amplitude on any control.
type Peak struct {
	name string
	max  float64
}

func NewPeak() *Peak {
	return &Peak{
		name: "peak_amplitude",
	}
}

func (p *Peak) Name() string {
	return p.name
}

func (p *Peak) Observe(u []float64, t float64) {
	for _, val := range u {
		if math.Abs(val) > p.max {
			p.max = math.Abs(val)
		}
	}
}

func (p *Peak) Value() float64 {
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
}
