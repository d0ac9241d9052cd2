// Package metrics scores optimized control waveforms. Each metric
// observes the amplitude table one timeslot at a time and reduces to a
// single value for the run report.
package metrics

type Metric interface {
	Name() string
	Observe(u []float64, t float64)
	Value() float64
	Reset()
}

// Evaluate runs every metric over an amplitude table
// (amps[timeslot][control]) and collects the results by name.
func Evaluate(ms []Metric, amps [][]float64, times []float64) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	for k, row := range amps {
		t := 0.0
		if k < len(times) {
			t = times[k]
		}
		for _, m := range ms {
			m.Observe(row, t)
		}
	}

	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
