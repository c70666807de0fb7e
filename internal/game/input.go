package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input is the slice of ebiten's input state the host reads every tick.
type Input interface {
	CursorPosition() (x, y int)
	Focused() bool
	JustPressed(k ebiten.Key) bool
}

type ebitenInput struct{}

func (ebitenInput) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (ebitenInput) Focused() bool { return ebiten.IsFocused() }

func (ebitenInput) JustPressed(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }
