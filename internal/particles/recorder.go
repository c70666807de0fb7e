package particles

import "image/color"

// Circle is a recorded FillCircle call.
type Circle struct {
	X, Y, R float64
	Color   color.NRGBA
}

// Line is a recorded StrokeLine call.
type Line struct {
	X0, Y0, X1, Y1 float64
	Width          float64
	Color          color.NRGBA
}

// Recorder is a headless Surface that keeps the draw calls of the last
// frame. Clear drops them.
type Recorder struct {
	Width, Height int
	Clears        int
	Circles       []Circle
	Lines         []Line
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) Resize(width, height int) {
	r.Width, r.Height = width, height
}

func (r *Recorder) Clear() {
	r.Clears++
	r.Circles = r.Circles[:0]
	r.Lines = r.Lines[:0]
}

func (r *Recorder) FillCircle(x, y, radius float64, c color.NRGBA) {
	r.Circles = append(r.Circles, Circle{X: x, Y: y, R: radius, Color: c})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	r.Lines = append(r.Lines, Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: c})
}
