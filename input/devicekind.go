package input

import "regexp"

// DeviceKind is the closed set of physical device classes.
type DeviceKind int

const (
	KindKeyboard DeviceKind = iota
	KindMouse
	KindTouch
	KindGamepad
)

// String returns the default device name for the kind.
func (k DeviceKind) String() string {
	switch k {
	case KindKeyboard:
		return "keyboard"
	case KindMouse:
		return "mouse"
	case KindTouch:
		return "touch"
	case KindGamepad:
		return "gamepad"
	default:
		return "unknown"
	}
}

var gamepadControlPattern = regexp.MustCompile(`^(button|axis)\d+$`)

// ClassifyControl infers the device kind from a control name. Mouse control
// names and button<N>/axis<N> are recognised; everything else is a key code.
func ClassifyControl(name string) DeviceKind {
	switch name {
	case MouseLeftButton, MouseMiddleButton, MouseRightButton, MousePosition, MouseVelocity:
		return KindMouse
	}
	if gamepadControlPattern.MatchString(name) {
		return KindGamepad
	}
	return KindKeyboard
}
