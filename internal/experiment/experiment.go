package experiment

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/samar-v/pulseopt/internal/evolve"
	"github.com/samar-v/pulseopt/internal/metrics"
	"github.com/samar-v/pulseopt/internal/optim"
	"github.com/samar-v/pulseopt/internal/pulse"
	"github.com/samar-v/pulseopt/internal/systems"
)

// Config collects every parameter a single optimization run needs.
type Config struct {
	System   string
	Fidelity string

	Tslots  int
	EvoTime float64

	FidErrTarg   float64
	MaxIter      int
	MaxWallTime  float64 // seconds
	MaxFuncEvals int
	FTol         float64

	NumCoeffs    int
	CoeffScaling float64

	GuessShape   string
	GuessScaling float64
	GuessOffset  float64
	GuessWaves   float64
	Ramp         string

	AmpLBound float64
	AmpUBound float64
	Bounded   bool

	Seed int64
}

type TracePoint struct {
	Iteration int
	FidErr    float64
}

// Result carries everything a finished run reports: the amplitude
// tables before and after optimization, the achieved fidelity error,
// why the search stopped, and its cost.
type Result struct {
	Times       []float64
	Labels      []string
	InitialAmps [][]float64
	FinalAmps   [][]float64

	InitialErr float64
	FinalErr   float64

	Iterations int
	FuncEvals  int
	Runtime    time.Duration
	Reason     string

	Trace []TracePoint

	SlotsComputed int
	SlotsReused   int

	Metrics map[string]float64
}

type Experiment struct {
	cfg        Config
	sys        *systems.System
	evolver    *evolve.Evolver
	bases      []*pulse.Basis
	fid        evolve.Kind
	randSource *rand.Rand
}

func New(cfg Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup builds the evolver and one randomized basis per control channel.
func (e *Experiment) Setup(sys *systems.System) error {
	fid, err := evolve.ParseKind(e.cfg.Fidelity)
	if err != nil {
		return err
	}

	shape, err := pulse.ParseShape(e.cfg.GuessShape)
	if err != nil {
		return err
	}
	ramp, err := pulse.ParseRamp(e.cfg.Ramp)
	if err != nil {
		return err
	}

	evolver, err := evolve.New(sys.Drift, sys.Controls, sys.Initial, e.cfg.Tslots, e.cfg.EvoTime)
	if err != nil {
		return err
	}

	env, err := pulse.Envelope(ramp, e.cfg.Tslots, e.cfg.EvoTime)
	if err != nil {
		return err
	}

	guess := pulse.Guess{
		Shape:    shape,
		Scaling:  e.cfg.GuessScaling,
		Offset:   e.cfg.GuessOffset,
		NumWaves: e.cfg.GuessWaves,
	}

	bases := make([]*pulse.Basis, sys.NumControls())
	for j := range bases {
		guessSamples, err := guess.Sample(e.randSource, e.cfg.Tslots, e.cfg.EvoTime)
		if err != nil {
			return err
		}
		bases[j], err = pulse.NewBasis(pulse.BasisConfig{
			NumCoeffs:    e.cfg.NumCoeffs,
			CoeffScaling: e.cfg.CoeffScaling,
			Guess:        guessSamples,
			Ramp:         env,
			LBound:       e.cfg.AmpLBound,
			UBound:       e.cfg.AmpUBound,
			Bounded:      e.cfg.Bounded,
		}, e.cfg.Tslots, e.cfg.EvoTime, e.randSource)
		if err != nil {
			return fmt.Errorf("basis for control %s: %w", sys.Labels[j], err)
		}
	}

	e.sys = sys
	e.evolver = evolver
	e.bases = bases
	e.fid = fid
	return nil
}

// Run searches the basis coefficients for a pulse minimizing the
// transfer fidelity error.
func (e *Experiment) Run(ctx context.Context, onProgress func(optim.Progress)) (*Result, error) {
	if e.evolver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := make([]float64, 0, e.numParams())
	for _, b := range e.bases {
		x0 = append(x0, b.InitialCoeffs(e.randSource)...)
	}

	initialAmps, err := e.amplitudeTable(x0)
	if err != nil {
		return nil, err
	}
	initialErr, err := e.evaluate(initialAmps)
	if err != nil {
		return nil, err
	}

	var trace []TracePoint
	progress := func(p optim.Progress) {
		trace = append(trace, TracePoint{Iteration: p.Iteration, FidErr: p.BestErr})
		if onProgress != nil {
			onProgress(p)
		}
	}

	opt, err := optim.Minimize(ctx, e.objective, x0, optim.Settings{
		MaxIter:      e.cfg.MaxIter,
		MaxWallTime:  time.Duration(e.cfg.MaxWallTime * float64(time.Second)),
		MaxFuncEvals: e.cfg.MaxFuncEvals,
		FTol:         e.cfg.FTol,
		TargetErr:    e.cfg.FidErrTarg,
	}, progress)
	if opt == nil {
		return nil, err
	}

	finalAmps, tableErr := e.amplitudeTable(opt.Coeffs)
	if tableErr != nil {
		return nil, tableErr
	}

	result := &Result{
		Times:         e.evolver.Times(),
		Labels:        e.sys.Labels,
		InitialAmps:   initialAmps,
		FinalAmps:     finalAmps,
		InitialErr:    initialErr,
		FinalErr:      opt.Err,
		Iterations:    opt.Iterations,
		FuncEvals:     opt.FuncEvals,
		Runtime:       opt.Runtime,
		Reason:        opt.Reason,
		Trace:         trace,
		SlotsComputed: e.evolver.SlotsComputed(),
		SlotsReused:   e.evolver.SlotsReused(),
		Metrics:       metrics.Evaluate(DefaultMetrics(e.evolver.Dt()), finalAmps, e.evolver.Times()),
	}
	return result, err
}

// objective scores a flat coefficient vector. A vector the evolver
// rejects must rank below every legitimate point, so failures score
// +Inf (SU fidelity errors legitimately reach 2, so a finite sentinel
// like 1 would beat them).
func (e *Experiment) objective(coeffs []float64) float64 {
	amps, err := e.amplitudeTable(coeffs)
	if err != nil {
		return math.Inf(1)
	}
	ferr, err := e.evaluate(amps)
	if err != nil {
		return math.Inf(1)
	}
	return ferr
}

func (e *Experiment) numParams() int {
	n := 0
	for _, b := range e.bases {
		n += b.NumParams()
	}
	return n
}

// amplitudeTable expands the flat coefficient vector (all controls
// concatenated) into the slot-major table the evolver consumes.
func (e *Experiment) amplitudeTable(coeffs []float64) ([][]float64, error) {
	amps := make([][]float64, e.cfg.Tslots)
	for k := range amps {
		amps[k] = make([]float64, len(e.bases))
	}

	offset := 0
	for j, b := range e.bases {
		col, err := b.Amplitudes(coeffs[offset : offset+b.NumParams()])
		if err != nil {
			return nil, err
		}
		for k := range col {
			amps[k][j] = col[k]
		}
		offset += b.NumParams()
	}
	return amps, nil
}

func (e *Experiment) evaluate(amps [][]float64) (float64, error) {
	psi, err := e.evolver.Evolve(amps)
	if err != nil {
		return 0, err
	}
	return evolve.TransferError(e.fid, e.sys.Target, psi)
}
