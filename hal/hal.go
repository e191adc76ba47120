package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrTerminated is returned by a Step once the application asked to exit.
	// Runners treat it as a clean shutdown.
	ErrTerminated = errors.New("terminated")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp, bytes in R, G, B, A order.
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides the event queue. Events are delivered in arrival order.
type Input interface {
	Events() <-chan Event
}

// HAL provides the only contact point between the viewer and the outside
// world: the graphics context, input and logging.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}

// Step runs one iteration of the application loop and reports whether a
// frame was drawn.
type Step func() (drawn bool, err error)

// AppFactory builds the application on top of an acquired HAL.
type AppFactory func(h HAL) (Step, error)
