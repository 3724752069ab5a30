package platform

import "time"

// EventKind names a raw platform event. Values follow DOM event names.
type EventKind string

const (
	KeyDown             EventKind = "keydown"
	KeyUp               EventKind = "keyup"
	MouseDown           EventKind = "mousedown"
	MouseUp             EventKind = "mouseup"
	MouseMove           EventKind = "mousemove"
	ContextMenu         EventKind = "contextmenu"
	TouchStart          EventKind = "touchstart"
	TouchMove           EventKind = "touchmove"
	TouchEnd            EventKind = "touchend"
	TouchCancel         EventKind = "touchcancel"
	GamepadConnected    EventKind = "gamepadconnected"
	GamepadDisconnected EventKind = "gamepaddisconnected"
	Blur                EventKind = "blur"
)

// Mouse button indices as reported by MouseDown/MouseUp.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// Target describes the element an event originated from.
type Target struct {
	Tag             string
	ContentEditable bool
}

// Editable reports whether the target accepts text input.
func (t Target) Editable() bool {
	switch t.Tag {
	case "input", "textarea", "select":
		return true
	}
	return t.ContentEditable
}

// GamepadState is a snapshot of one connected pad.
type GamepadState struct {
	Index     int
	ID        string
	Mapping   string
	Connected bool
	Buttons   []float64
	Axes      []float64
}

// Event is a single raw input event.
type Event struct {
	Kind EventKind
	Time time.Time

	// Code is the physical key code for keyboard events ("KeyW", "Space").
	Code string
	// Button is the mouse button index for MouseDown/MouseUp.
	Button int

	X, Y   float64
	DX, DY float64

	TouchID int
	Target  Target

	Gamepad *GamepadState

	prevented bool
}

// PreventDefault marks the event as claimed by the game.
func (e *Event) PreventDefault() {
	if e == nil {
		return
	}
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e != nil && e.prevented
}
