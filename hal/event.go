package hal

// EventKind tags an Event.
type EventKind uint8

const (
	EventResize EventKind = iota + 1
	EventPointerMove
	EventButton
	EventScroll
	EventKey
	EventClose
)

// ButtonID identifies a pointer button.
type ButtonID uint8

const (
	ButtonPrimary ButtonID = iota
	ButtonSecondary
)

// Action is a press or a release.
type Action uint8

const (
	Press Action = iota
	Release
)

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyPageUp
	KeyPageDown
	KeyEscape
	KeyA
	KeyH
	KeyQ
	KeyR
	KeyS
	KeyW
)

// Event is an input event. Only the fields of its Kind are meaningful.
type Event struct {
	Kind EventKind

	// EventResize
	Width  int
	Height int

	// EventPointerMove
	X, Y float32

	// EventScroll
	DX, DY float32

	// EventButton
	Button ButtonID

	// EventKey
	Key KeyCode

	// EventButton, EventKey
	Action Action
}

func ResizeEvent(w, h int) Event { return Event{Kind: EventResize, Width: w, Height: h} }

func PointerMoveEvent(x, y float32) Event { return Event{Kind: EventPointerMove, X: x, Y: y} }

func ButtonEvent(b ButtonID, a Action) Event { return Event{Kind: EventButton, Button: b, Action: a} }

func ScrollEvent(dx, dy float32) Event { return Event{Kind: EventScroll, DX: dx, DY: dy} }

func KeyEvent(k KeyCode, a Action) Event { return Event{Kind: EventKey, Key: k, Action: a} }

func CloseEvent() Event { return Event{Kind: EventClose} }
