// Package analysis provides frequency-domain views of optimized pulses.
package analysis

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns the magnitude of each Fourier coefficient of
// the waveform, DC first.
func PowerSpectrum(samples []float64) ([]float64, error) {
	if len(samples) < 2 {
		return nil, fmt.Errorf("need at least 2 samples, got %d", len(samples))
	}

	fft := fourier.NewFFT(len(samples))
	coeffs := fft.Coefficients(nil, samples)

	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps, nil
}

// DominantFrequency returns the non-DC frequency (in cycles per time
// unit) carrying the most power, given the sample spacing dt.
func DominantFrequency(ps []float64, n int, dt float64) float64 {
	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 {
		return 0
	}
	return float64(maxIdx) / (float64(n) * dt)
}
