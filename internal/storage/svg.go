package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/flightdyn/internal/sim"
)

// ExportSVG draws the vertical flight profile, ground distance along +Z
// against altitude, as a single SVG path.
func ExportSVG(w io.Writer, samples []sim.Sample, width, height int, stroke string) error {
	if len(samples) < 2 {
		return fmt.Errorf("storage: need at least 2 samples for a profile, got %d", len(samples))
	}

	minX, maxX := samples[0].Position.Z(), samples[0].Position.Z()
	minY, maxY := samples[0].Altitude, samples[0].Altitude
	for _, s := range samples {
		minX = min(minX, s.Position.Z())
		maxX = max(maxX, s.Position.Z())
		minY = min(minY, s.Altitude)
		maxY = max(maxY, s.Altitude)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	minY -= rangeY * 0.1
	rangeX *= 1.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke)

	for i, s := range samples {
		x := (s.Position.Z() - minX) / rangeX * float64(width)
		y := float64(height) - (s.Altitude-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
