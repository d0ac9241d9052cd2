package quant

import (
	"math"
	"math/cmplx"
)

type State []complex128

// Basis returns the computational basis ket |k> in a dim-dimensional space.
func Basis(dim, k int) State {
	s := make(State, dim)
	s[k] = 1
	return s
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}

func (s State) Normalize() State {
	norm := s.Norm()
	if norm == 0 {
		return s.Clone()
	}
	result := make(State, len(s))
	for i, v := range s {
		result[i] = v / complex(norm, 0)
	}
	return result
}

// Overlap returns the inner product <a|b>.
func Overlap(a, b State) complex128 {
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum
}
