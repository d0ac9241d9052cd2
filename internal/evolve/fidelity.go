package evolve

import (
	"fmt"
	"math/cmplx"

	"github.com/samar-v/pulseopt/internal/quant"
)

// Kind selects how the overlap between evolved and target state is
// turned into a fidelity error.
type Kind string

const (
	// PSU ignores global phase: err = 1 - |<target|psi>|.
	PSU Kind = "PSU"
	// SU is phase sensitive: err = 1 - Re<target|psi>.
	SU Kind = "SU"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case PSU:
		return PSU, nil
	case SU:
		return SU, nil
	default:
		return "", fmt.Errorf("unknown fidelity kind: %s", s)
	}
}

// TransferError returns the state-transfer fidelity error between the
// target and the evolved state.
func TransferError(kind Kind, target, psi quant.State) (float64, error) {
	if len(target) != len(psi) {
		return 0, fmt.Errorf("%w: target has %d amplitudes, state has %d", ErrDimensionMismatch, len(target), len(psi))
	}
	overlap := quant.Overlap(target, psi)
	switch kind {
	case SU:
		return 1 - real(overlap), nil
	default:
		return 1 - cmplx.Abs(overlap), nil
	}
}
