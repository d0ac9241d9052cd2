package experiment

import (
	"fmt"
	"sort"

	"github.com/samar-v/pulseopt/internal/metrics"
	"github.com/samar-v/pulseopt/internal/systems"
)

type systemFactory func() *systems.System

var registry = map[string]systemFactory{
	"exchange2q":      systems.NewExchangePair,
	"exchange2q_bell": systems.NewExchangePairBell,
	"spinflip":        systems.NewSpinFlip,
}

func init() {
	registry["ising2q"] = func() *systems.System { return systems.NewIsingPair(1.0) }
}

// LookupSystem returns the named model Hamiltonian, or an error listing
// the known names.
func LookupSystem(name string) (*systems.System, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown system %q (have: %v)", name, ListSystems())
	}
	return factory(), nil
}

func ListSystems() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the pulse quality measures reported after
// every run.
func DefaultMetrics(dt float64) []metrics.Metric {
	return []metrics.Metric{
		metrics.NewControlEffort(),
		metrics.NewFluence(dt),
		metrics.NewPeak(),
		metrics.NewSmoothness(),
	}
}
