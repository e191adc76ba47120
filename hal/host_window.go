//go:build cgo

package hal

import (
	"errors"
	"image"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	TPS    int
}

// RunWindow opens a resizable desktop window that shows the framebuffer and
// forwards pointer, wheel and keyboard input. It blocks until the window
// closes or the application terminates.
func RunWindow(cfg WindowConfig, newApp AppFactory) error {
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	h := newHost(cfg.Width, cfg.Height, os.Stdout)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step, dirty: true}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.TPS)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type hostGame struct {
	h     *hostHAL
	img   *image.RGBA
	fbImg *ebiten.Image
	step  Step
	dirty bool
}

func (g *hostGame) Update() error {
	g.h.in.poll()
	if g.step == nil {
		return nil
	}
	drawn, err := g.step()
	if errors.Is(err, ErrTerminated) {
		return ebiten.Termination
	}
	if err != nil {
		return err
	}
	if drawn {
		g.dirty = true
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.dirty {
		g.img = fb.snapshot(g.img)
		b := g.img.Bounds()
		if g.fbImg == nil || g.fbImg.Bounds() != b {
			if g.fbImg != nil {
				g.fbImg.Deallocate()
			}
			g.fbImg = ebiten.NewImage(b.Dx(), b.Dy())
		}
		g.fbImg.WritePixels(g.img.Pix)
		g.dirty = false
	}
	if g.fbImg != nil {
		screen.DrawImage(g.fbImg, nil)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.h.fb.resize(outsideWidth, outsideHeight) {
		g.h.in.push(ResizeEvent(g.h.fb.width, g.h.fb.height))
	}
	return g.h.fb.width, g.h.fb.height
}
