package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/rundash/internal/sim"
)

const gridSpacing = 40 // field units between grid lines

// layer orders what a cell shows when several things share it.
type layer uint8

const (
	layerNone layer = iota
	layerGrid
	layerPath
	layerCursor
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// canvas is a Braille dot grid: each terminal cell holds 2x4 dots.
type canvas struct {
	cols, rows int
	bits       []uint8
	layers     []layer
}

func newCanvas(cols, rows int) *canvas {
	cols = max(cols, 1)
	rows = max(rows, 1)
	return &canvas{
		cols:   cols,
		rows:   rows,
		bits:   make([]uint8, cols*rows),
		layers: make([]layer, cols*rows),
	}
}

func (c *canvas) dotWidth() int  { return c.cols * 2 }
func (c *canvas) dotHeight() int { return c.rows * 4 }

func (c *canvas) set(dx, dy int, l layer) {
	if dx < 0 || dy < 0 || dx >= c.dotWidth() || dy >= c.dotHeight() {
		return
	}
	i := (dy/4)*c.cols + dx/2
	c.bits[i] |= 1 << brailleBits[dx%2][dy%4]
	if l > c.layers[i] {
		c.layers[i] = l
	}
}

// line draws a Bresenham line between two dots.
func (c *canvas) line(x0, y0, x1, y1 int, l layer) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, l)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) render() string {
	rows := make([]string, c.rows)
	for row := range c.rows {
		var line strings.Builder
		var run strings.Builder
		runLayer := layerNone
		flush := func() {
			if run.Len() == 0 {
				return
			}
			line.WriteString(layerStyle(runLayer).Render(run.String()))
			run.Reset()
		}
		for col := range c.cols {
			i := row*c.cols + col
			l := c.layers[i]
			if l != runLayer {
				flush()
				runLayer = l
			}
			if c.bits[i] == 0 {
				run.WriteByte(' ')
			} else {
				run.WriteRune(rune(0x2800 + int(c.bits[i])))
			}
		}
		flush()
		rows[row] = line.String()
	}
	return strings.Join(rows, "\n")
}

func layerStyle(l layer) lipgloss.Style {
	switch l {
	case layerGrid:
		return gridStyle
	case layerPath:
		return pathStyle
	case layerCursor:
		return cursorStyle
	default:
		return lipgloss.NewStyle()
	}
}

// fieldSize picks a canvas size for the available terminal width that keeps
// the field's aspect ratio (a cell is roughly twice as tall as it is wide).
func fieldSize(opts sim.Options, width int) (cols, rows int) {
	cols = min(max(width, 20), 96)
	rows = int(float64(cols) * opts.Height / (2 * opts.Width))
	return cols, max(rows, 4)
}

// toDot maps a field point onto the canvas.
func toDot(p sim.Point, opts sim.Options, c *canvas) (int, int) {
	x := int(p.X / opts.Width * float64(c.dotWidth()-1))
	y := int(p.Y / opts.Height * float64(c.dotHeight()-1))
	return x, y
}

// renderField draws the grid, the path polyline and the cursor marker.
func renderField(path []sim.Point, cursor sim.Point, opts sim.Options, cols, rows int) string {
	return drawField(path, cursor, opts, cols, rows).render()
}

func drawField(path []sim.Point, cursor sim.Point, opts sim.Options, cols, rows int) *canvas {
	c := newCanvas(cols, rows)

	// dotted grid
	for fx := 0.0; fx < opts.Width; fx += gridSpacing {
		x, _ := toDot(sim.Point{X: fx}, opts, c)
		for y := 0; y < c.dotHeight(); y += 2 {
			c.set(x, y, layerGrid)
		}
	}
	for fy := 0.0; fy < opts.Height; fy += gridSpacing {
		_, y := toDot(sim.Point{Y: fy}, opts, c)
		for x := 0; x < c.dotWidth(); x += 2 {
			c.set(x, y, layerGrid)
		}
	}

	if len(path) > 1 {
		px, py := toDot(path[0], opts, c)
		for _, p := range path[1:] {
			x, y := toDot(p, opts, c)
			c.line(px, py, x, y, layerPath)
			px, py = x, y
		}
	}

	if len(path) > 0 {
		x, y := toDot(cursor, opts, c)
		for _, d := range [][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			c.set(x+d[0], y+d[1], layerCursor)
		}
	}

	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
