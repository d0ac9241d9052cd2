// Package systems defines the fixed Hamiltonian configurations the
// optimizer can be pointed at: drift and control generators plus the
// initial and target kets of a state-to-state transfer.
package systems

import (
	"math"

	"github.com/samar-v/pulseopt/internal/quant"
)

type System struct {
	Name     string
	Drift    *quant.Operator
	Controls []*quant.Operator
	Labels   []string
	Initial  quant.State
	Target   quant.State
}

func (s *System) Dim() int         { return s.Drift.N }
func (s *System) NumControls() int { return len(s.Controls) }

// NewExchangePair is the flagship two-qubit configuration: an isotropic
// exchange drift with local x/y controls on each qubit, driving
// |00> -> |11>.
func NewExchangePair() *System {
	sys := exchangeBase("exchange2q")
	sys.Target = quant.Basis(4, 3)
	return sys
}

// NewExchangePairBell keeps the exchange drift and controls but targets
// the Bell state (|00> + |11>)/sqrt(2).
func NewExchangePairBell() *System {
	sys := exchangeBase("exchange2q_bell")
	inv := complex(1/math.Sqrt2, 0)
	sys.Target = quant.State{inv, 0, 0, inv}
	return sys
}

func exchangeBase(name string) *System {
	x, y, z := quant.SigmaX(), quant.SigmaY(), quant.SigmaZ()
	id := quant.Identity(2)

	drift := quant.Tensor(x, x).
		Add(quant.Tensor(y, y)).
		Add(quant.Tensor(z, z)).
		Scale(0.5)

	return &System{
		Name:  name,
		Drift: drift,
		Controls: []*quant.Operator{
			quant.Tensor(x, id),
			quant.Tensor(y, id),
			quant.Tensor(id, x),
			quant.Tensor(id, y),
		},
		Labels:  []string{"x1", "y1", "x2", "y2"},
		Initial: quant.Basis(4, 0),
	}
}

// NewIsingPair couples the qubits with a ZZ drift of the given strength
// and drives them with local x controls, |00> -> |11>.
func NewIsingPair(coupling float64) *System {
	x, z := quant.SigmaX(), quant.SigmaZ()
	id := quant.Identity(2)

	return &System{
		Name:  "ising2q",
		Drift: quant.Tensor(z, z).Scale(complex(coupling, 0)),
		Controls: []*quant.Operator{
			quant.Tensor(x, id),
			quant.Tensor(id, x),
		},
		Labels:  []string{"x1", "x2"},
		Initial: quant.Basis(4, 0),
		Target:  quant.Basis(4, 3),
	}
}

// NewSpinFlip is a single qubit with a z drift and one x control,
// |0> -> |1>. Small enough to serve as the fast test target.
func NewSpinFlip() *System {
	return &System{
		Name:     "spinflip",
		Drift:    quant.SigmaZ().Scale(0.5),
		Controls: []*quant.Operator{quant.SigmaX()},
		Labels:   []string{"x"},
		Initial:  quant.Basis(2, 0),
		Target:   quant.Basis(2, 1),
	}
}
