// Package export writes metric series as standalone SVG charts.
package export

import (
	"fmt"
	"os"
	"strings"
)

// SeriesToSVG renders a per-tick metric series as an SVG line chart with the
// metric name as caption.
func SeriesToSVG(series []float64, width, height int, strokeColor, caption string) string {
	if len(series) < 2 {
		return ""
	}

	min, max := series[0], series[0]
	for _, v := range series {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rng := max - min
	if rng == 0 {
		rng = 1
	}
	min -= rng * 0.1
	max += rng * 0.1
	rng = max - min

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="10" y="20" fill="#888899" font-family="monospace" font-size="14">%s</text>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, caption, strokeColor))

	for i, v := range series {
		x := float64(i) / float64(len(series)-1) * float64(width)
		y := float64(height) - (v-min)/rng*float64(height)

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

// WriteSeriesSVG renders a series chart directly to a file.
func WriteSeriesSVG(path string, series []float64, width, height int, caption string) error {
	svg := SeriesToSVG(series, width, height, "#00ccff", caption)
	if svg == "" {
		return fmt.Errorf("export: series too short to chart")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
