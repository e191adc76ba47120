//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostInput struct {
	ch chan Event

	lastX, lastY int
	moved        bool
}

func newHostInput() *hostInput {
	return &hostInput{ch: make(chan Event, eventQueueSize)}
}

var keyMap = []struct {
	from ebiten.Key
	to   KeyCode
}{
	{ebiten.KeyArrowUp, KeyUp},
	{ebiten.KeyArrowDown, KeyDown},
	{ebiten.KeyArrowLeft, KeyLeft},
	{ebiten.KeyArrowRight, KeyRight},
	{ebiten.KeyPageUp, KeyPageUp},
	{ebiten.KeyPageDown, KeyPageDown},
	{ebiten.KeyEscape, KeyEscape},
	{ebiten.KeyA, KeyA},
	{ebiten.KeyH, KeyH},
	{ebiten.KeyQ, KeyQ},
	{ebiten.KeyR, KeyR},
	{ebiten.KeyS, KeyS},
	{ebiten.KeyW, KeyW},
}

var buttonMap = []struct {
	from ebiten.MouseButton
	to   ButtonID
}{
	{ebiten.MouseButtonLeft, ButtonPrimary},
	{ebiten.MouseButtonRight, ButtonSecondary},
}

// poll translates this tick's ebiten input state into queued events.
func (in *hostInput) poll() {
	if ebiten.IsWindowBeingClosed() {
		in.push(CloseEvent())
	}

	x, y := ebiten.CursorPosition()
	if !in.moved || x != in.lastX || y != in.lastY {
		in.lastX, in.lastY, in.moved = x, y, true
		in.push(PointerMoveEvent(float32(x), float32(y)))
	}

	for _, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(b.from) {
			in.push(ButtonEvent(b.to, Press))
		}
		if inpututil.IsMouseButtonJustReleased(b.from) {
			in.push(ButtonEvent(b.to, Release))
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		in.push(ScrollEvent(float32(dx), float32(dy)))
	}

	for _, k := range keyMap {
		if inpututil.IsKeyJustPressed(k.from) {
			in.push(KeyEvent(k.to, Press))
		}
		if inpututil.IsKeyJustReleased(k.from) {
			in.push(KeyEvent(k.to, Release))
		}
	}
}
