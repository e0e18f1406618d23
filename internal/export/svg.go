package export

import (
	"fmt"
	"strings"
)

// Point is one sample in data coordinates.
type Point struct {
	X, Y float64
}

// FitSVG draws a fitted concentration trajectory as a path with the
// observed samples overlaid as dots, on a dark background.
func FitSVG(curve, observed []Point, width, height int, title string) string {
	if len(curve) < 2 {
		return ""
	}

	minX, maxX := curve[0].X, curve[0].X
	minY, maxY := curve[0].Y, curve[0].Y
	all := append(append([]Point(nil), curve...), observed...)
	for _, p := range all {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	toPx := func(p Point) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#cccccc" font-family="monospace" font-size="12">%s</text>
<path fill="none" stroke="#00ff88" stroke-width="1.5" d="M`,
		width, height, width, height, title))

	for i, p := range curve {
		x, y := toPx(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n<g fill=\"#ff6666\">\n")

	for _, p := range observed {
		x, y := toPx(p)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2.5"/>
`, x, y))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
