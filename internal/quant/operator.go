package quant

import (
	"math"
	"math/cmplx"
)

// Operator is a dense n x n complex matrix in row-major order.
type Operator struct {
	N int
	A []complex128
}

func NewOperator(n int) *Operator {
	return &Operator{N: n, A: make([]complex128, n*n)}
}

func Identity(n int) *Operator {
	op := NewOperator(n)
	for i := 0; i < n; i++ {
		op.A[i*n+i] = 1
	}
	return op
}

func SigmaX() *Operator {
	return &Operator{N: 2, A: []complex128{
		0, 1,
		1, 0,
	}}
}

func SigmaY() *Operator {
	return &Operator{N: 2, A: []complex128{
		0, -1i,
		1i, 0,
	}}
}

func SigmaZ() *Operator {
	return &Operator{N: 2, A: []complex128{
		1, 0,
		0, -1,
	}}
}

func (m *Operator) At(i, j int) complex128 {
	return m.A[i*m.N+j]
}

func (m *Operator) Set(i, j int, v complex128) {
	m.A[i*m.N+j] = v
}

func (m *Operator) Clone() *Operator {
	c := NewOperator(m.N)
	copy(c.A, m.A)
	return c
}

func (m *Operator) Add(other *Operator) *Operator {
	result := m.Clone()
	for i := range result.A {
		result.A[i] += other.A[i]
	}
	return result
}

func (m *Operator) Scale(factor complex128) *Operator {
	result := m.Clone()
	for i := range result.A {
		result.A[i] *= factor
	}
	return result
}

// AddScaled accumulates factor*other into m in place.
func (m *Operator) AddScaled(factor complex128, other *Operator) {
	for i := range m.A {
		m.A[i] += factor * other.A[i]
	}
}

func (m *Operator) Mul(other *Operator) *Operator {
	n := m.N
	result := NewOperator(n)
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			a := m.A[i*n+k]
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				result.A[i*n+j] += a * other.A[k*n+j]
			}
		}
	}
	return result
}

func (m *Operator) Dagger() *Operator {
	n := m.N
	result := NewOperator(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			result.A[j*n+i] = cmplx.Conj(m.A[i*n+j])
		}
	}
	return result
}

func (m *Operator) MulVec(v State) State {
	n := m.N
	result := make(State, n)
	for i := 0; i < n; i++ {
		var sum complex128
		for j := 0; j < n; j++ {
			sum += m.A[i*n+j] * v[j]
		}
		result[i] = sum
	}
	return result
}

// InfNorm returns the maximum absolute row sum.
func (m *Operator) InfNorm() float64 {
	n := m.N
	max := 0.0
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < n; j++ {
			sum += cmplx.Abs(m.A[i*n+j])
		}
		if sum > max {
			max = sum
		}
	}
	return max
}

// Tensor returns the Kronecker product a (x) b.
func Tensor(a, b *Operator) *Operator {
	na, nb := a.N, b.N
	n := na * nb
	result := NewOperator(n)
	for ia := 0; ia < na; ia++ {
		for ja := 0; ja < na; ja++ {
			va := a.A[ia*na+ja]
			if va == 0 {
				continue
			}
			for ib := 0; ib < nb; ib++ {
				for jb := 0; jb < nb; jb++ {
					result.A[(ia*nb+ib)*n+(ja*nb+jb)] = va * b.A[ib*nb+jb]
				}
			}
		}
	}
	return result
}

const (
	expmMaxTerms = 48
	expmTol      = 1e-14
)

// Expm computes the matrix exponential exp(m) by scaling and squaring
// with a truncated Taylor series. Intended for the small anti-Hermitian
// generators -i*H*dt that piecewise-constant propagators need.
func (m *Operator) Expm() *Operator {
	n := m.N

	s := 0
	norm := m.InfNorm()
	for norm > 0.5 {
		norm /= 2
		s++
	}
	a := m.Scale(complex(math.Ldexp(1, -s), 0))

	result := Identity(n)
	term := Identity(n)
	for k := 1; k <= expmMaxTerms; k++ {
		term = term.Mul(a).Scale(complex(1/float64(k), 0))
		result = result.Add(term)
		if term.InfNorm() < expmTol {
			break
		}
	}

	for i := 0; i < s; i++ {
		result = result.Mul(result)
	}
	return result
}
