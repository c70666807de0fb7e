package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/particle-portfolio/internal/config"
)

const (
	dotCols = 2
	dotRows = 4
	dotW    = config.CellPixelWidth / dotCols  // virtual pixels per dot, horizontally
	dotH    = config.CellPixelHeight / dotRows // and vertically
)

// brailleBits[row][col] is the bit for the dot at that position in a
// U+2800 braille cell.
var brailleBits = [dotRows][dotCols]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type cell struct {
	dots uint8
	c    color.NRGBA
}

// BrailleSurface rasterises onto a grid of terminal cells. Each cell covers
// CellPixelWidth×CellPixelHeight virtual pixels and shows 2×4 braille dots;
// its colour is the most opaque colour drawn into it this frame.
type BrailleSurface struct {
	width, height int // virtual pixels
	cols, rows    int
	cells         []cell
}

func NewBrailleSurface(width, height int) *BrailleSurface {
	s := &BrailleSurface{}
	s.Resize(width, height)
	return s
}

func (s *BrailleSurface) Size() (int, int) { return s.width, s.height }

func (s *BrailleSurface) Cols() int { return s.cols }

func (s *BrailleSurface) Rows() int { return s.rows }

func (s *BrailleSurface) Resize(width, height int) {
	s.width, s.height = max(width, 0), max(height, 0)
	s.cols = (s.width + config.CellPixelWidth - 1) / config.CellPixelWidth
	s.rows = (s.height + config.CellPixelHeight - 1) / config.CellPixelHeight
	s.cells = make([]cell, s.cols*s.rows)
}

func (s *BrailleSurface) Clear() { clear(s.cells) }

// setDot lights the dot at dot-grid coordinates (dx, dy).
func (s *BrailleSurface) setDot(dx, dy int, c color.NRGBA) {
	if dx < 0 || dy < 0 {
		return
	}
	col, row := dx/dotCols, dy/dotRows
	if col >= s.cols || row >= s.rows {
		return
	}
	ce := &s.cells[row*s.cols+col]
	ce.dots |= brailleBits[dy%dotRows][dx%dotCols]
	if c.A >= ce.c.A {
		ce.c = c
	}
}

func toDot(x, y float64) (int, int) {
	return int(math.Floor(x / dotW)), int(math.Floor(y / dotH))
}

// FillCircle lights the dot under the centre plus every dot whose centre
// lies within r.
func (s *BrailleSurface) FillCircle(x, y, r float64, c color.NRGBA) {
	cx, cy := toDot(x, y)
	s.setDot(cx, cy, c)

	x0, y0 := toDot(x-r, y-r)
	x1, y1 := toDot(x+r, y+r)
	for dy := y0; dy <= y1; dy++ {
		for dx := x0; dx <= x1; dx++ {
			px := (float64(dx) + 0.5) * dotW
			py := (float64(dy) + 0.5) * dotH
			if math.Hypot(px-x, py-y) <= r {
				s.setDot(dx, dy, c)
			}
		}
	}
}

// StrokeLine draws a one-dot Bresenham line. width is ignored; a dot is
// already wider than any line the background draws.
func (s *BrailleSurface) StrokeLine(x0, y0, x1, y1, _ float64, c color.NRGBA) {
	ax, ay := toDot(x0, y0)
	bx, by := toDot(x1, y1)

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	e := dx + dy
	for {
		s.setDot(ax, ay, c)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Cell returns the glyph and colour at (col, row). Empty cells are a space.
func (s *BrailleSurface) Cell(col, row int) (rune, color.NRGBA) {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return ' ', color.NRGBA{}
	}
	ce := s.cells[row*s.cols+col]
	if ce.dots == 0 {
		return ' ', color.NRGBA{}
	}
	return rune(0x2800 + int(ce.dots)), ce.c
}

// shade composites c over black. The alpha is square-rooted first: a
// single dot carries far less light than the antialiased line it stands
// for.
func shade(c color.NRGBA) tcell.Color {
	f := math.Sqrt(float64(c.A) / 255)
	return tcell.NewRGBColor(int32(float64(c.R)*f), int32(float64(c.G)*f), int32(float64(c.B)*f))
}

// Blit copies the cells to screen.
func (s *BrailleSurface) Blit(screen tcell.Screen, base tcell.Style) {
	for row := range s.rows {
		for col := range s.cols {
			r, c := s.Cell(col, row)
			st := base
			if r != ' ' {
				st = st.Foreground(shade(c))
			}
			screen.SetContent(col, row, r, nil, st)
		}
	}
}
