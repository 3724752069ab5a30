package input

import (
	"math"

	"github.com/milk9111/inputkit/platform"
	"golang.org/x/image/math/f64"
)

// DefaultPressThreshold is the value at or above which a control counts as pressed.
const DefaultPressThreshold = 0.1

// ControlKind selects how a control interprets its value.
type ControlKind int

const (
	// ButtonControl is a digital or analog button in [0, 1].
	ButtonControl ControlKind = iota
	// AxisControl is a signed scalar such as a stick axis.
	AxisControl
	// Vector2Control is a 2D value; its scalar value is the vector magnitude.
	Vector2Control
)

func (k ControlKind) String() string {
	switch k {
	case ButtonControl:
		return "button"
	case AxisControl:
		return "axis"
	case Vector2Control:
		return "vector2"
	default:
		return "unknown"
	}
}

// ControlParams configures a new control. A zero PressThreshold means
// DefaultPressThreshold.
type ControlParams struct {
	Name           string
	PressThreshold float64
}

// Pressed is emitted when a control crosses its threshold upward.
type Pressed struct {
	Event *platform.Event
}

// Released is emitted when a control crosses its threshold downward.
type Released struct {
	Event *platform.Event
}

// Updated is emitted whenever a control's value changes.
type Updated struct {
	Value    float64
	OldValue float64
	Event    *platform.Event
}

// Control is a single named input value with threshold based edges.
type Control struct {
	name      string
	kind      ControlKind
	threshold float64

	value    float64
	oldValue float64
	vec      f64.Vec2

	Pressed  Signal[Pressed]
	Released Signal[Released]
	Updated  Signal[Updated]
}

// NewControl builds a control. The name is required.
func NewControl(kind ControlKind, params ControlParams) (*Control, error) {
	if params.Name == "" {
		return nil, ErrUnnamedControl
	}
	threshold := params.PressThreshold
	if threshold == 0 {
		threshold = DefaultPressThreshold
	}
	return &Control{name: params.Name, kind: kind, threshold: threshold}, nil
}

func (c *Control) Name() string { return c.name }
func (c *Control) Kind() ControlKind { return c.kind }
func (c *Control) PressThreshold() float64 { return c.threshold }
func (c *Control) Value() float64 { return c.value }
func (c *Control) OldValue() float64 { return c.oldValue }
func (c *Control) IsPressed() bool { return c.value >= c.threshold }
func (c *Control) WasPressed() bool { return c.oldValue >= c.threshold }
func (c *Control) Vector() f64.Vec2 { return c.vec }

// SetValue stores value and emits Updated, Pressed and Released as needed.
// It reports whether the value changed.
func (c *Control) SetValue(value float64, ev *platform.Event) bool {
	c.oldValue = c.value
	c.value = value
	changed := c.value != c.oldValue
	c.emit(changed, ev)
	return changed
}

// SetVector stores a 2D value. The scalar value becomes the vector length.
func (c *Control) SetVector(x, y float64, ev *platform.Event) bool {
	prev := c.vec
	c.vec = f64.Vec2{x, y}
	c.oldValue = c.value
	c.value = math.Hypot(x, y)
	changed := prev != c.vec
	c.emit(changed, ev)
	return changed
}

// Press sets the value to 1.
func (c *Control) Press(ev *platform.Event) bool {
	return c.SetValue(1, ev)
}

// Release sets the value to 0.
func (c *Control) Release(ev *platform.Event) bool {
	if c.kind == Vector2Control {
		return c.SetVector(0, 0, ev)
	}
	return c.SetValue(0, ev)
}

func (c *Control) emit(changed bool, ev *platform.Event) {
	if changed {
		c.Updated.Emit(Updated{Value: c.value, OldValue: c.oldValue, Event: ev})
	}
	now, was := c.IsPressed(), c.WasPressed()
	switch {
	case now && !was:
		c.Pressed.Emit(Pressed{Event: ev})
	case !now && was:
		c.Released.Emit(Released{Event: ev})
	}
}
