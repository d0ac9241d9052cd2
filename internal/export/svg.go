// Package export renders amplitude tables to standalone SVG documents.
package export

import (
	"fmt"
	"strings"
)

var channelColors = []string{"#00ff88", "#00ccff", "#ffcc00", "#ff66cc", "#ff4444", "#aa88ff"}

// PulseToSVG draws every control channel of a slot-major amplitude
// table as a step waveform over time.
func PulseToSVG(times []float64, labels []string, amps [][]float64, width, height int) string {
	if len(amps) < 2 || len(times) != len(amps) {
		return ""
	}
	numControls := len(amps[0])

	minU, maxU := amps[0][0], amps[0][0]
	for _, row := range amps {
		for _, u := range row {
			if u < minU {
				minU = u
			}
			if u > maxU {
				maxU = u
			}
		}
	}
	rangeU := maxU - minU
	if rangeU == 0 {
		rangeU = 1
	}
	minU -= rangeU * 0.1
	maxU += rangeU * 0.1
	rangeU = maxU - minU

	minT := times[0]
	dt := times[1] - times[0]
	rangeT := times[len(times)-1] + dt - minT

	toX := func(t float64) float64 { return (t - minT) / rangeT * float64(width) }
	toY := func(u float64) float64 { return float64(height) - (u-minU)/rangeU*float64(height) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// zero axis
	if minU < 0 && maxU > 0 {
		y := toY(0)
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333344" stroke-width="1"/>
`, y, width, y))
	}

	for j := 0; j < numControls; j++ {
		color := channelColors[j%len(channelColors)]

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for k, row := range amps {
			x0, x1 := toX(times[k]), toX(times[k]+dt)
			y := toY(row[j])
			if k == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x0, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x0, y))
			}
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x1, y))
		}
		sb.WriteString("\"/>\n")

		label := fmt.Sprintf("u%d", j)
		if j < len(labels) {
			label = labels[j]
		}
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16+j*16, color, label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TraceToSVG draws the fidelity error convergence as a polyline.
func TraceToSVG(errs []float64, width, height int) string {
	if len(errs) < 2 {
		return ""
	}

	minE, maxE := errs[0], errs[0]
	for _, e := range errs {
		if e < minE {
			minE = e
		}
		if e > maxE {
			maxE = e
		}
	}
	rangeE := maxE - minE
	if rangeE == 0 {
		rangeE = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ccff" stroke-width="1.5" d="M`, width, height, width, height))

	for i, e := range errs {
		x := float64(i) / float64(len(errs)-1) * float64(width)
		y := float64(height) - (e-minE)/rangeE*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
