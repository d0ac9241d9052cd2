package pulse

import (
	"fmt"
	"math"
	"math/rand"
)

// Basis is a chopped random Fourier basis for one control channel:
//
//	u(t) = guess(t) + ramp(t) * sum_k [ a_k sin(w_k t) + b_k cos(w_k t) ]
//
// with w_k = 2*pi*k*(1+r_k)/T and r_k drawn uniformly from [-0.5, 0.5).
// The randomized frequency offsets are what keep the small basis from
// locking onto commensurate harmonics of the evolution window.
type Basis struct {
	numCoeffs    int
	tslots       int
	evoTime      float64
	coeffScaling float64

	freqs []float64
	guess []float64
	ramp  []float64

	lbound, ubound float64
	bounded        bool
}

// BasisConfig collects the per-control basis parameters. Guess and Ramp
// must already be sampled on the same timeslot grid.
type BasisConfig struct {
	NumCoeffs    int
	CoeffScaling float64
	Guess        []float64
	Ramp         []float64
	LBound       float64
	UBound       float64
	Bounded      bool
}

func NewBasis(cfg BasisConfig, tslots int, evoTime float64, rng *rand.Rand) (*Basis, error) {
	if cfg.NumCoeffs <= 0 {
		return nil, fmt.Errorf("num_coeffs must be positive, got %d", cfg.NumCoeffs)
	}
	if tslots <= 0 || evoTime <= 0 {
		return nil, fmt.Errorf("tslots and evo_time must be positive, got %d and %f", tslots, evoTime)
	}
	if len(cfg.Guess) != tslots || len(cfg.Ramp) != tslots {
		return nil, fmt.Errorf("guess and ramp must have %d samples, got %d and %d", tslots, len(cfg.Guess), len(cfg.Ramp))
	}
	if cfg.Bounded && cfg.LBound >= cfg.UBound {
		return nil, fmt.Errorf("amplitude bounds must satisfy lower < upper, got [%f, %f]", cfg.LBound, cfg.UBound)
	}

	scaling := cfg.CoeffScaling
	if scaling == 0 {
		scaling = 1
	}

	b := &Basis{
		numCoeffs:    cfg.NumCoeffs,
		tslots:       tslots,
		evoTime:      evoTime,
		coeffScaling: scaling,
		freqs:        make([]float64, cfg.NumCoeffs),
		guess:        cfg.Guess,
		ramp:         cfg.Ramp,
		lbound:       cfg.LBound,
		ubound:       cfg.UBound,
		bounded:      cfg.Bounded,
	}
	for k := range b.freqs {
		offset := rng.Float64() - 0.5
		b.freqs[k] = 2 * math.Pi * float64(k+1) * (1 + offset) / evoTime
	}
	return b, nil
}

// NumParams returns the coefficient count the outer optimizer searches
// over for this control: a sin and a cos weight per basis frequency.
func (b *Basis) NumParams() int {
	return 2 * b.numCoeffs
}

// InitialCoeffs draws a random starting point scaled by the coefficient
// scaling factor.
func (b *Basis) InitialCoeffs(rng *rand.Rand) []float64 {
	coeffs := make([]float64, b.NumParams())
	for i := range coeffs {
		coeffs[i] = (2*rng.Float64() - 1) * b.coeffScaling
	}
	return coeffs
}

// Amplitudes expands the coefficient vector into per-timeslot control
// amplitudes, evaluated at slot centers.
func (b *Basis) Amplitudes(coeffs []float64) ([]float64, error) {
	if len(coeffs) != b.NumParams() {
		return nil, fmt.Errorf("expected %d coefficients, got %d", b.NumParams(), len(coeffs))
	}

	dt := b.evoTime / float64(b.tslots)
	amps := make([]float64, b.tslots)
	for k := range amps {
		t := (float64(k) + 0.5) * dt
		var sum float64
		for i, w := range b.freqs {
			sum += coeffs[2*i]*math.Sin(w*t) + coeffs[2*i+1]*math.Cos(w*t)
		}
		u := b.guess[k] + b.ramp[k]*sum
		if b.bounded {
			u = math.Max(b.lbound, math.Min(b.ubound, u))
		}
		amps[k] = u
	}
	return amps, nil
}
