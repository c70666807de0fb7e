package particles

import (
	"image/color"
	"math"

	"github.com/iburimskiy/particle-portfolio/internal/config"
)

// Surface is a 2D drawing target. Colours are non-premultiplied.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int)
	Clear()
	FillCircle(x, y, r float64, c color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
}

// Style controls colours for Render.
type Style struct {
	Color         color.NRGBA // alpha is ignored; see the fields below
	ParticleAlpha float64
	LineWidth     float64
}

// DefaultStyle is the teal accent used by the portfolio.
func DefaultStyle() Style {
	return Style{
		Color:         color.NRGBA{R: 33, G: 212, B: 180, A: 255},
		ParticleAlpha: config.ParticleAlpha,
		LineWidth:     1,
	}
}

// Render clears s, draws every particle as a disc and every link as a line.
// It returns the number of links drawn.
func Render(s Surface, ps []Particle, t Tuning, st Style) int {
	s.Clear()

	dot := withAlpha(st.Color, st.ParticleAlpha)
	for _, p := range ps {
		s.FillCircle(p.X, p.Y, p.Radius, dot)
	}

	links := Connections(ps, t)
	for _, l := range links {
		a, b := ps[l.I], ps[l.J]
		s.StrokeLine(a.X, a.Y, b.X, b.Y, st.LineWidth, withAlpha(st.Color, l.Alpha))
	}
	return len(links)
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(clamp(alpha, 0, 1) * 255))
	return c
}
