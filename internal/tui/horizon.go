package tui

import (
	"math"
	"strings"
)

// Horizon is a character-cell attitude indicator.
type Horizon struct {
	width, height int
	canvas        [][]rune
}

func NewHorizon(width, height int) *Horizon {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &Horizon{width: width, height: height, canvas: canvas}
}

// Draw renders the horizon for the given pitch and bank in radians. Pitch
// shifts the line vertically by pitchScale rows per radian.
func (h *Horizon) Draw(pitch, bank float64, onGround bool) string {
	h.clear()

	const pitchScale = 20.0
	cx, cy := h.width/2, h.height/2
	offset := pitch * pitchScale

	// Terminal cells are roughly twice as tall as wide.
	slope := -math.Tan(bank) / 2
	ground := '.'
	if onGround {
		ground = '='
	}
	for x := 0; x < h.width; x++ {
		y := int(math.Round(float64(cy) + offset + slope*float64(x-cx)))
		for yy := y + 1; yy < h.height; yy++ {
			h.set(x, yy, ground)
		}
		h.set(x, y, '-')
	}

	h.line(cx-6, cy, cx-2, cy, '_')
	h.line(cx+2, cy, cx+6, cy, '_')
	h.set(cx, cy, 'o')

	var b strings.Builder
	for i, row := range h.canvas {
		b.WriteString(string(row))
		if i < len(h.canvas)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (h *Horizon) clear() {
	for y := range h.canvas {
		for x := range h.canvas[y] {
			h.canvas[y][x] = ' '
		}
	}
}

func (h *Horizon) set(x, y int, c rune) {
	if x >= 0 && x < h.width && y >= 0 && y < h.height {
		h.canvas[y][x] = c
	}
}

func (h *Horizon) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		h.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
