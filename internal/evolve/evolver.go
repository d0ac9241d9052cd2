package evolve

import (
	"fmt"

	"github.com/samar-v/pulseopt/internal/quant"
)

// Evolver propagates a state through piecewise-constant dynamics:
// for timeslot k the generator is H_k = drift + sum_j amps[k][j]*ctrl_j
// and the slot propagator is U_k = exp(-i H_k dt).
//
// Per-slot propagators and intermediate states are cached between
// evaluations; only slots whose amplitudes changed, and everything after
// the first change, are recomputed.
type Evolver struct {
	drift  *quant.Operator
	ctrls  []*quant.Operator
	psi0   quant.State
	tslots int
	dt     float64

	lastAmps [][]float64
	props    []*quant.Operator
	states   []quant.State

	slotsComputed int
	slotsReused   int
}

func New(drift *quant.Operator, ctrls []*quant.Operator, psi0 quant.State, tslots int, evoTime float64) (*Evolver, error) {
	if tslots <= 0 || evoTime <= 0 {
		return nil, fmt.Errorf("%w: tslots=%d evo_time=%f", ErrBadTimeslicing, tslots, evoTime)
	}
	dim := drift.N
	if len(psi0) != dim {
		return nil, fmt.Errorf("%w: drift is %dx%d but state has %d amplitudes", ErrDimensionMismatch, dim, dim, len(psi0))
	}
	for i, c := range ctrls {
		if c.N != dim {
			return nil, fmt.Errorf("%w: control %d is %dx%d", ErrDimensionMismatch, i, c.N, c.N)
		}
	}

	e := &Evolver{
		drift:  drift,
		ctrls:  ctrls,
		psi0:   psi0.Clone(),
		tslots: tslots,
		dt:     evoTime / float64(tslots),
		props:  make([]*quant.Operator, tslots),
		states: make([]quant.State, tslots+1),
	}
	e.states[0] = e.psi0.Clone()
	return e, nil
}

func (e *Evolver) Tslots() int       { return e.tslots }
func (e *Evolver) Dt() float64       { return e.dt }
func (e *Evolver) NumControls() int  { return len(e.ctrls) }
func (e *Evolver) SlotsComputed() int { return e.slotsComputed }
func (e *Evolver) SlotsReused() int   { return e.slotsReused }

// Times returns the start time of each timeslot.
func (e *Evolver) Times() []float64 {
	times := make([]float64, e.tslots)
	for k := range times {
		times[k] = float64(k) * e.dt
	}
	return times
}

// Evolve propagates the initial state through all timeslots with the
// given amplitude table (amps[timeslot][control]) and returns the final
// state.
func (e *Evolver) Evolve(amps [][]float64) (quant.State, error) {
	if len(amps) != e.tslots {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrBadAmplitudes, len(amps), e.tslots)
	}
	for k, row := range amps {
		if len(row) != len(e.ctrls) {
			return nil, fmt.Errorf("%w: row %d has %d amplitudes, want %d", ErrBadAmplitudes, k, len(row), len(e.ctrls))
		}
	}

	first := e.firstChangedSlot(amps)
	e.slotsReused += first

	for k := first; k < e.tslots; k++ {
		h := e.drift.Clone()
		for j, c := range e.ctrls {
			h.AddScaled(complex(amps[k][j], 0), c)
		}
		e.props[k] = h.Scale(complex(0, -e.dt)).Expm()
		e.states[k+1] = e.props[k].MulVec(e.states[k])
		e.slotsComputed++
	}

	e.rememberAmps(amps)

	final := e.states[e.tslots]
	if !final.IsValid() {
		return nil, ErrInvalidState
	}
	return final.Clone(), nil
}

func (e *Evolver) firstChangedSlot(amps [][]float64) int {
	if e.lastAmps == nil {
		return 0
	}
	for k := 0; k < e.tslots; k++ {
		for j := range e.ctrls {
			if amps[k][j] != e.lastAmps[k][j] {
				return k
			}
		}
	}
	return e.tslots
}

func (e *Evolver) rememberAmps(amps [][]float64) {
	if e.lastAmps == nil {
		e.lastAmps = make([][]float64, e.tslots)
		for k := range e.lastAmps {
			e.lastAmps[k] = make([]float64, len(e.ctrls))
		}
	}
	for k := range amps {
		copy(e.lastAmps[k], amps[k])
	}
}
