package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const eventQueueSize = 256

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	in     *hostInput
}

// New returns a host HAL with a width x height framebuffer.
func New(width, height int) HAL {
	return newHost(width, height, os.Stdout)
}

func newHost(width, height int, w io.Writer) *hostHAL {
	return &hostHAL{
		logger: &hostLogger{w: w},
		fb:     newHostFramebuffer(width, height),
		in:     newHostInput(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return h.in }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// LogWriter adapts a Logger to an io.Writer, one line per Write with the
// trailing newline trimmed. It is the sink for slog handlers.
func LogWriter(l Logger) io.Writer { return logWriter{l: l} }

type logWriter struct {
	l Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.l.WriteLineBytes(p)
	return n, nil
}

// push queues an event without blocking; events beyond the queue size are
// dropped.
func (in *hostInput) push(ev Event) {
	select {
	case in.ch <- ev:
	default:
	}
}

func (in *hostInput) Events() <-chan Event { return in.ch }
