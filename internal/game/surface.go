package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Surface is an offscreen ebiten image the background renders into. Draw
// composites it onto the screen each tick.
type Surface struct {
	img *ebiten.Image
}

func NewSurface(width, height int) *Surface {
	s := &Surface{}
	s.Resize(width, height)
	return s
}

func (s *Surface) Image() *ebiten.Image { return s.img }

func (s *Surface) Size() (int, int) {
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the backing image. ebiten rejects empty images, so the
// minimum is 1×1.
func (s *Surface) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if w, h := s.Size(); w == width && h == height {
		return
	}
	if s.img != nil {
		s.img.Deallocate()
	}
	s.img = ebiten.NewImage(width, height)
}

func (s *Surface) Clear() { s.img.Clear() }

func (s *Surface) FillCircle(x, y, r float64, c color.NRGBA) {
	vector.DrawFilledCircle(s.img, float32(x), float32(y), float32(r), c, true)
}

func (s *Surface) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}
