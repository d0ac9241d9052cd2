package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// PlotAmplitudes renders one terminal chart per control channel from a
// slot-major amplitude table.
func PlotAmplitudes(labels []string, amps [][]float64, width, height int) string {
	if len(amps) == 0 {
		return ""
	}

	var s strings.Builder
	for j := 0; j < len(amps[0]); j++ {
		col := make([]float64, len(amps))
		for k := range amps {
			col[k] = amps[k][j]
		}
		label := fmt.Sprintf("u%d", j)
		if j < len(labels) {
			label = labels[j]
		}
		chart := asciigraph.Plot(col,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Caption(label))
		s.WriteString(chart + "\n\n")
	}
	return s.String()
}

// PlotConvergence renders the fidelity error trace on a log10 axis so
// late-stage improvements stay visible.
func PlotConvergence(errs []float64, width, height int) string {
	if len(errs) < 2 {
		return "(not enough trace points to plot)"
	}

	const floor = 1e-16
	logErrs := make([]float64, len(errs))
	for i, e := range errs {
		if e < floor {
			e = floor
		}
		logErrs[i] = math.Log10(e)
	}
	return asciigraph.Plot(logErrs,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("log10 fidelity error"))
}
