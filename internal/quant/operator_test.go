package quant

import (
	"math"
	"math/cmplx"
	"testing"
)

func opsClose(t *testing.T, a, b *Operator, tol float64) {
	t.Helper()
	if a.N != b.N {
		t.Fatalf("dimension mismatch: %d vs %d", a.N, b.N)
	}
	for i := range a.A {
		if cmplx.Abs(a.A[i]-b.A[i]) > tol {
			t.Fatalf("element %d: expected %v, got %v", i, b.A[i], a.A[i])
		}
	}
}

func TestPauliAlgebra(t *testing.T) {
	x, y, z := SigmaX(), SigmaY(), SigmaZ()
	id := Identity(2)

	opsClose(t, x.Mul(x), id, 1e-12)
	opsClose(t, y.Mul(y), id, 1e-12)
	opsClose(t, z.Mul(z), id, 1e-12)

	// XY = iZ
	opsClose(t, x.Mul(y), z.Scale(1i), 1e-12)
}

func TestPauliHermitian(t *testing.T) {
	for name, op := range map[string]*Operator{"x": SigmaX(), "y": SigmaY(), "z": SigmaZ()} {
		opsClose(t, op.Dagger(), op, 1e-12)
		_ = name
	}
}

func TestTensorDimensions(t *testing.T) {
	xx := Tensor(SigmaX(), SigmaX())
	if xx.N != 4 {
		t.Fatalf("expected dim 4, got %d", xx.N)
	}

	// X(x)X flips both qubits: |00> -> |11>
	psi := xx.MulVec(Basis(4, 0))
	if cmplx.Abs(psi[3]-1) > 1e-12 {
		t.Errorf("expected |11> amplitude 1, got %v", psi[3])
	}
}

func TestTensorIdentity(t *testing.T) {
	zi := Tensor(SigmaZ(), Identity(2))
	want := &Operator{N: 4, A: []complex128{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, -1, 0,
		0, 0, 0, -1,
	}}
	opsClose(t, zi, want, 1e-12)
}

func TestExpmRotation(t *testing.T) {
	// exp(-i theta/2 X) = cos(theta/2) I - i sin(theta/2) X
	theta := 0.7
	gen := SigmaX().Scale(complex(0, -theta/2))
	u := gen.Expm()

	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	want := Identity(2).Scale(c).Add(SigmaX().Scale(s))

	opsClose(t, u, want, 1e-10)
}

func TestExpmUnitary(t *testing.T) {
	// H = 0.5(XX + YY + ZZ) is Hermitian, so exp(-i H dt) is unitary.
	h := Tensor(SigmaX(), SigmaX()).
		Add(Tensor(SigmaY(), SigmaY())).
		Add(Tensor(SigmaZ(), SigmaZ())).
		Scale(0.5)
	u := h.Scale(complex(0, -0.3)).Expm()

	opsClose(t, u.Dagger().Mul(u), Identity(4), 1e-10)
}

func TestExpmLargeNorm(t *testing.T) {
	// scaling and squaring must handle generators with norm above 1
	gen := SigmaX().Scale(complex(0, -5.0))
	u := gen.Expm()
	opsClose(t, u.Dagger().Mul(u), Identity(2), 1e-9)
}
