package metrics

// Fluence integrates the squared amplitude over the pulse, summed
// across controls.
type Fluence struct {
	name string
	dt   float64
	sum  float64
}

func NewFluence(dt float64) *Fluence {
	return &Fluence{
		name: "fluence",
		dt:   dt,
	}
}

func (f *Fluence) Name() string {
	return f.name
}

func (f *Fluence) Observe(u []float64, t float64) {
	for _, val := range u {
		f.sum += val * val * f.dt
	}
}

func (f *Fluence) Value() float64 {
	return f.sum
}

func (f *Fluence) Reset() {
	f.sum = 0
}
