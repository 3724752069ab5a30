package input

import (
	"math"

	"github.com/milk9111/inputkit/platform"
)

// Mouse control names.
const (
	MouseLeftButton   = "leftButton"
	MouseMiddleButton = "middleButton"
	MouseRightButton  = "rightButton"
	MousePosition     = "position"
	MouseVelocity     = "velocity"
)

// Mouse exposes three buttons plus position and velocity vectors.
type Mouse struct {
	*Device
}

func NewMouse(name string, source platform.Source) *Mouse {
	m := &Mouse{Device: NewDevice(name, source)}
	m.Handle(platform.MouseDown, m.onButton)
	m.Handle(platform.MouseUp, m.onButton)
	m.Handle(platform.MouseMove, m.onMove)
	m.Handle(platform.ContextMenu, m.onContextMenu)
	m.Handle(platform.Blur, m.ReleaseAll)
	return m
}

func mouseButtonName(button int) string {
	switch button {
	case platform.ButtonLeft:
		return MouseLeftButton
	case platform.ButtonMiddle:
		return MouseMiddleButton
	case platform.ButtonRight:
		return MouseRightButton
	default:
		return ""
	}
}

func (m *Mouse) onButton(ev *platform.Event) {
	name := mouseButtonName(ev.Button)
	if name == "" {
		return
	}
	c, err := m.FindOrCreateControl(ButtonControl, ControlParams{Name: name})
	if err != nil {
		return
	}
	m.PreventDefault(ev, c)
	if ev.Kind == platform.MouseDown {
		c.Press(ev)
		return
	}
	c.Release(ev)
}

func (m *Mouse) onMove(ev *platform.Event) {
	if pos := m.vectorControl(MousePosition); pos != nil {
		pos.SetVector(ev.X, ev.Y, ev)
	}
	if vel := m.vectorControl(MouseVelocity); vel != nil {
		vel.SetVector(ev.DX, ev.DY, ev)
	}
}

// onContextMenu force-releases the right button; browsers may open the
// menu without sending mouseup first.
func (m *Mouse) onContextMenu(ev *platform.Event) {
	c := m.Control(MouseRightButton)
	if c == nil {
		return
	}
	m.PreventDefault(ev, c)
	if c.IsPressed() {
		c.Release(ev)
	}
}

// vectorControl returns a continuous control that never reports pressed.
func (m *Mouse) vectorControl(name string) *Control {
	c, err := m.FindOrCreateControl(Vector2Control, ControlParams{Name: name, PressThreshold: math.Inf(1)})
	if err != nil {
		return nil
	}
	return c
}
