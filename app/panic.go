package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"fluxcore/hal"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// PanicError is returned by a guarded step that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("fluxcore panic: %v", e.Value) }

// guard turns a panic inside step into a PanicError. The panic is logged
// and painted over the framebuffer; later calls keep returning it.
func guard(h hal.HAL, log *slog.Logger, step hal.Step) hal.Step {
	var failed *PanicError
	return func() (drawn bool, err error) {
		if failed != nil {
			return false, failed
		}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			failed = &PanicError{Value: v, Stack: debug.Stack()}
			log.Error("panic", "value", v)
			for _, line := range stackLines(failed.Stack) {
				log.Error(line)
			}
			drawn = paintPanic(h, failed)
			err = failed
		}()
		return step()
	}
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// paintPanic writes the panic report onto the framebuffer, wrapping long
// lines and stopping at the bottom edge.
func paintPanic(h hal.HAL, p *PanicError) bool {
	disp := h.Display()
	if disp == nil {
		return false
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return false
	}

	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	fontHeight := int16(font.GetYAdvance())
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 || fontHeight <= 0 {
		_ = fb.Present()
		return true
	}

	lines := []string{
		"fluxcore panic:",
		fmt.Sprintf("panic: %v", p.Value),
	}
	if stack := stackLines(p.Stack); len(stack) > 0 {
		lines = append(lines, "stack:")
		lines = append(lines, stack...)
	} else {
		lines = append(lines, "stack: unavailable")
	}

	d := panicDisplay{fb: fb}
	fg := color.RGBA{A: 255}
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+fontHeight > int16(fb.Height()) {
				_ = fb.Present()
				return true
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, font, fontWidth, fontHeight, 0, y, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
	return true
}

func drawTextLine(
	d panicDisplay,
	font tinyfont.Fonter,
	fontWidth, baseline int16,
	x0, y0 int16,
	s string,
	fg color.RGBA,
) {
	drawX := x0
	for _, r := range s {
		tinyfont.DrawChar(d, font, drawX, y0+baseline-2, r, fg)
		drawX += fontWidth
	}
}

// panicDisplay draws straight into an RGBA8888 framebuffer.
type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGBA8888 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	off := iy*d.fb.StrideBytes() + ix*4
	if off < 0 || off+3 >= len(buf) {
		return
	}
	buf[off], buf[off+1], buf[off+2], buf[off+3] = c.R, c.G, c.B, 255
}

func (d panicDisplay) Display() error { return nil }

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
