package optim

import (
	"context"
	"math"
	"testing"
	"time"
)

func bowl(x []float64) float64 {
	dx := x[0] - 1
	dy := x[1] + 2
	return dx*dx + dy*dy
}

func TestMinimizeQuadratic(t *testing.T) {
	res, err := Minimize(context.Background(), bowl, []float64{0, 0}, Settings{
		MaxIter:   2000,
		TargetErr: 1e-8,
	}, nil)
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}

	if math.Abs(res.Coeffs[0]-1) > 1e-3 || math.Abs(res.Coeffs[1]+2) > 1e-3 {
		t.Errorf("expected minimum near (1, -2), got %v", res.Coeffs)
	}
	if res.Reason != ReasonTargetReached {
		t.Errorf("expected target reason, got %q", res.Reason)
	}
	if res.FuncEvals == 0 || res.Iterations == 0 {
		t.Errorf("expected evaluation statistics, got %+v", res)
	}
}

func TestMinimizeIterationLimit(t *testing.T) {
	res, err := Minimize(context.Background(), bowl, []float64{10, 10}, Settings{
		MaxIter: 3,
	}, nil)
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if res.Reason != ReasonMaxIter {
		t.Errorf("expected iteration limit reason, got %q", res.Reason)
	}
}

func TestMinimizeFuncEvalLimit(t *testing.T) {
	res, err := Minimize(context.Background(), bowl, []float64{10, 10}, Settings{
		MaxFuncEvals: 5,
	}, nil)
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if res.Reason != ReasonFuncEvals {
		t.Errorf("expected evaluation limit reason, got %q", res.Reason)
	}
}

func TestMinimizeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Minimize(ctx, bowl, []float64{10, 10}, Settings{MaxIter: 1000}, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
	if res != nil && res.Reason != ReasonCanceled {
		t.Errorf("expected canceled reason, got %q", res.Reason)
	}
}

func TestMinimizeProgress(t *testing.T) {
	var calls int
	var lastErr float64
	_, err := Minimize(context.Background(), bowl, []float64{3, 3}, Settings{
		MaxIter: 100,
	}, func(p Progress) {
		calls++
		lastErr = p.BestErr
	})
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if calls == 0 {
		t.Fatal("expected progress callbacks")
	}
	if lastErr > bowl([]float64{3, 3}) {
		t.Errorf("expected progress to improve on start, got %f", lastErr)
	}
}

func TestMinimizeWallTime(t *testing.T) {
	slow := func(x []float64) float64 {
		time.Sleep(2 * time.Millisecond)
		return bowl(x)
	}
	res, err := Minimize(context.Background(), slow, []float64{10, 10}, Settings{
		MaxWallTime: 10 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if res.Reason != ReasonWallTime {
		t.Errorf("expected wall time reason, got %q", res.Reason)
	}
}

func TestMinimizeEmptyStart(t *testing.T) {
	if _, err := Minimize(context.Background(), bowl, nil, Settings{}, nil); err == nil {
		t.Error("expected error for empty starting point")
	}
}
