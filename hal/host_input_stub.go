//go:build !cgo

package hal

type hostInput struct {
	ch chan Event
}

func newHostInput() *hostInput {
	return &hostInput{ch: make(chan Event, eventQueueSize)}
}

func (in *hostInput) poll() {
	// No pointer or keyboard without the window backend.
}
