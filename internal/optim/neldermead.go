// Package optim drives the outer coefficient search. The simplex method
// itself comes from gonum; this package maps pulse-optimization
// termination conditions (fidelity error target, iteration/evaluation/
// wall-time limits, ftol convergence) onto gonum's settings and statuses.
package optim

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/optimize"
)

// Stop reasons reported in results and run metadata.
const (
	ReasonTargetReached = "fidelity error target reached"
	ReasonMaxIter       = "iteration limit reached"
	ReasonWallTime      = "wall time limit reached"
	ReasonFuncEvals     = "function evaluation limit reached"
	ReasonConverged     = "function change below ftol"
	ReasonCanceled      = "canceled"
)

var statusTargetReached = optimize.NewStatus("FidelityErrorTargetReached", true, nil)

const convergeWindow = 50

// Settings bounds the search. Zero values disable the corresponding
// limit, except FTol which falls back to a conservative default.
type Settings struct {
	MaxIter      int
	MaxWallTime  time.Duration
	MaxFuncEvals int
	FTol         float64
	TargetErr    float64
}

// Progress is delivered to the caller once per simplex iteration.
type Progress struct {
	Iteration int
	FuncEvals int
	BestErr   float64
	Elapsed   time.Duration
}

type Result struct {
	Coeffs     []float64
	Err        float64
	Iterations int
	FuncEvals  int
	Runtime    time.Duration
	Reason     string
}

type progressRecorder struct {
	fn    func(Progress)
	start time.Time
}

func (r *progressRecorder) Init() error {
	r.start = time.Now()
	return nil
}

func (r *progressRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	r.fn(Progress{
		Iteration: stats.MajorIterations,
		FuncEvals: stats.FuncEvaluations,
		BestErr:   loc.F,
		Elapsed:   time.Since(r.start),
	})
	return nil
}

// Minimize searches for coefficients minimizing the objective with
// Nelder-Mead starting from x0. onProgress may be nil.
func Minimize(ctx context.Context, objective func([]float64) float64, x0 []float64, s Settings, onProgress func(Progress)) (*Result, error) {
	if len(x0) == 0 {
		return nil, fmt.Errorf("empty starting point")
	}

	best := objective(x0)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v := objective(x)
			if v < best {
				best = v
			}
			return v
		},
		Status: func() (optimize.Status, error) {
			select {
			case <-ctx.Done():
				return optimize.Failure, ctx.Err()
			default:
			}
			if s.TargetErr > 0 && best <= s.TargetErr {
				return statusTargetReached, nil
			}
			return optimize.NotTerminated, nil
		},
	}

	ftol := s.FTol
	if ftol <= 0 {
		ftol = 1e-10
	}
	settings := &optimize.Settings{
		MajorIterations: s.MaxIter,
		Runtime:         s.MaxWallTime,
		FuncEvaluations: s.MaxFuncEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   ftol,
			Iterations: convergeWindow,
		},
	}
	if onProgress != nil {
		settings.Recorder = &progressRecorder{fn: onProgress}
	}

	res, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if res == nil {
		return nil, err
	}

	result := &Result{
		Coeffs:     append([]float64(nil), res.X...),
		Err:        res.F,
		Iterations: res.Stats.MajorIterations,
		FuncEvals:  res.Stats.FuncEvaluations,
		Runtime:    res.Stats.Runtime,
		Reason:     stopReason(res.Status, err),
	}
	if err != nil && ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, err
}

func stopReason(status optimize.Status, err error) string {
	switch status {
	case statusTargetReached:
		return ReasonTargetReached
	case optimize.IterationLimit:
		return ReasonMaxIter
	case optimize.RuntimeLimit:
		return ReasonWallTime
	case optimize.FunctionEvaluationLimit:
		return ReasonFuncEvals
	case optimize.FunctionConvergence:
		return ReasonConverged
	case optimize.Failure:
		if err != nil {
			return ReasonCanceled
		}
	}
	return status.String()
}
