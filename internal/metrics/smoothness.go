package metrics

// Smoothness accumulates the mean squared slot-to-slot amplitude jump.
// Lower is smoother; hardware with limited slew rates cares about this.
type Smoothness struct {
	name    string
	prev    []float64
	sum     float64
	samples int
}

func NewSmoothness() *Smoothness {
	return &Smoothness{
		name: "smoothness",
	}
}

func (s *Smoothness) Name() string {
	return s.name
}

func (s *Smoothness) Observe(u []float64, t float64) {
	if s.prev != nil && len(s.prev) == len(u) {
		for i, val := range u {
			d := val - s.prev[i]
			s.sum += d * d
		}
		s.samples++
	}
	s.prev = append(s.prev[:0], u...)
}

func (s *Smoothness) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Smoothness) Reset() {
	s.prev = nil
	s.sum = 0
	s.samples = 0
}
