package pulse

import (
	"math"
	"math/rand"
	"testing"
)

func testBasis(t *testing.T, tslots int, evoTime float64, seed int64, cfg BasisConfig) *Basis {
	t.Helper()
	if cfg.Guess == nil {
		cfg.Guess = make([]float64, tslots)
	}
	if cfg.Ramp == nil {
		cfg.Ramp = make([]float64, tslots)
		for i := range cfg.Ramp {
			cfg.Ramp[i] = 1
		}
	}
	b, err := NewBasis(cfg, tslots, evoTime, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("new basis: %v", err)
	}
	return b
}

func TestNumParams(t *testing.T) {
	b := testBasis(t, 16, 4.0, 1, BasisConfig{NumCoeffs: 3})
	if b.NumParams() != 6 {
		t.Errorf("expected 6 params, got %d", b.NumParams())
	}
}

func TestZeroCoeffsReturnGuess(t *testing.T) {
	guess := []float64{0.1, 0.2, 0.3, 0.4}
	b := testBasis(t, 4, 2.0, 1, BasisConfig{NumCoeffs: 2, Guess: guess})

	amps, err := b.Amplitudes(make([]float64, b.NumParams()))
	if err != nil {
		t.Fatalf("amplitudes: %v", err)
	}
	for i := range guess {
		if math.Abs(amps[i]-guess[i]) > 1e-12 {
			t.Errorf("slot %d: expected guess %f, got %f", i, guess[i], amps[i])
		}
	}
}

func TestSeedReproducibility(t *testing.T) {
	coeffs := []float64{0.5, -0.3, 0.2, 0.1}

	a := testBasis(t, 32, 10.0, 7, BasisConfig{NumCoeffs: 2})
	b := testBasis(t, 32, 10.0, 7, BasisConfig{NumCoeffs: 2})

	ampsA, err := a.Amplitudes(coeffs)
	if err != nil {
		t.Fatalf("amplitudes: %v", err)
	}
	ampsB, err := b.Amplitudes(coeffs)
	if err != nil {
		t.Fatalf("amplitudes: %v", err)
	}
	for i := range ampsA {
		if ampsA[i] != ampsB[i] {
			t.Fatalf("same seed should reproduce slot %d: %f vs %f", i, ampsA[i], ampsB[i])
		}
	}

	c := testBasis(t, 32, 10.0, 8, BasisConfig{NumCoeffs: 2})
	ampsC, err := c.Amplitudes(coeffs)
	if err != nil {
		t.Fatalf("amplitudes: %v", err)
	}
	same := true
	for i := range ampsA {
		if ampsA[i] != ampsC[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should randomize basis frequencies")
	}
}

func TestAmplitudeBounds(t *testing.T) {
	b := testBasis(t, 16, 4.0, 3, BasisConfig{
		NumCoeffs: 2,
		Bounded:   true,
		LBound:    -0.5,
		UBound:    0.5,
	})

	amps, err := b.Amplitudes([]float64{5, 5, 5, 5})
	if err != nil {
		t.Fatalf("amplitudes: %v", err)
	}
	for i, v := range amps {
		if v < -0.5 || v > 0.5 {
			t.Errorf("slot %d: amplitude %f escapes bounds", i, v)
		}
	}
}

func TestInitialCoeffsScaling(t *testing.T) {
	b := testBasis(t, 8, 2.0, 1, BasisConfig{NumCoeffs: 4, CoeffScaling: 0.1})
	coeffs := b.InitialCoeffs(rand.New(rand.NewSource(5)))
	if len(coeffs) != b.NumParams() {
		t.Fatalf("expected %d coefficients, got %d", b.NumParams(), len(coeffs))
	}
	for i, c := range coeffs {
		if math.Abs(c) > 0.1 {
			t.Errorf("coefficient %d: %f exceeds scaling", i, c)
		}
	}
}

func TestBasisValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NewBasis(BasisConfig{NumCoeffs: 0}, 8, 1.0, rng); err == nil {
		t.Error("expected error for zero coefficients")
	}

	guess := make([]float64, 8)
	ramp := make([]float64, 8)
	if _, err := NewBasis(BasisConfig{NumCoeffs: 2, Guess: guess, Ramp: ramp, Bounded: true, LBound: 1, UBound: -1}, 8, 1.0, rng); err == nil {
		t.Error("expected error for inverted bounds")
	}

	b := testBasis(t, 8, 1.0, 1, BasisConfig{NumCoeffs: 2})
	if _, err := b.Amplitudes([]float64{1, 2, 3}); err == nil {
		t.Error("expected error for wrong coefficient count")
	}
}
