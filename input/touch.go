package input

import (
	"math"
	"time"

	"github.com/milk9111/inputkit/platform"
)

// Touch control names.
const (
	TouchSwipeUp    = "swipeUp"
	TouchSwipeDown  = "swipeDown"
	TouchSwipeLeft  = "swipeLeft"
	TouchSwipeRight = "swipeRight"
	TouchPosition   = "position"
	TouchDelta      = "delta"
	TouchTap        = "tap"
)

// Touch follows a single active touch and derives swipe and tap controls.
type Touch struct {
	*Device
	cfg TouchConfig

	active    bool
	id        int
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	startTime time.Time
}

func NewTouch(name string, source platform.Source, cfg TouchConfig) *Touch {
	t := &Touch{Device: NewDevice(name, source), cfg: cfg}
	t.Handle(platform.TouchStart, t.onStart)
	t.Handle(platform.TouchMove, t.onMove)
	t.Handle(platform.TouchEnd, t.onEnd)
	t.Handle(platform.TouchCancel, t.onCancel)
	return t
}

// Active reports whether a touch is being tracked.
func (t *Touch) Active() bool { return t.active }

func (t *Touch) onStart(ev *platform.Event) {
	if t.active {
		return
	}
	t.active = true
	t.id = ev.TouchID
	t.startX, t.startY = ev.X, ev.Y
	t.lastX, t.lastY = ev.X, ev.Y
	t.startTime = ev.Time

	if pos := t.vectorControl(TouchPosition); pos != nil {
		t.PreventDefault(ev, pos)
		pos.SetVector(ev.X, ev.Y, ev)
	}
	if delta := t.vectorControl(TouchDelta); delta != nil {
		delta.SetVector(0, 0, ev)
	}
}

func (t *Touch) onMove(ev *platform.Event) {
	if !t.tracking(ev) {
		return
	}
	if delta := t.vectorControl(TouchDelta); delta != nil {
		delta.SetVector(ev.X-t.lastX, ev.Y-t.lastY, ev)
	}
	if pos := t.vectorControl(TouchPosition); pos != nil {
		t.PreventDefault(ev, pos)
		pos.SetVector(ev.X, ev.Y, ev)
	}
	t.lastX, t.lastY = ev.X, ev.Y

	t.swipeAxis(ev.X-t.startX, TouchSwipeLeft, TouchSwipeRight, ev)
	// screen y grows downward
	t.swipeAxis(ev.Y-t.startY, TouchSwipeUp, TouchSwipeDown, ev)
}

func (t *Touch) onEnd(ev *platform.Event) {
	if !t.tracking(ev) {
		return
	}
	t.finish(ev)

	dist := math.Hypot(ev.X-t.startX, ev.Y-t.startY)
	if dist < t.cfg.TapThreshold && ev.Time.Sub(t.startTime) < t.cfg.TapMaxDuration {
		if tap := t.button(TouchTap); tap != nil {
			tap.Press(ev)
			tap.Release(ev)
		}
	}
}

func (t *Touch) onCancel(ev *platform.Event) {
	if !t.tracking(ev) {
		return
	}
	t.finish(ev)
}

// Stop drops the tracked touch along with the platform listeners.
func (t *Touch) Stop() {
	t.Device.Stop()
	t.active = false
}

func (t *Touch) tracking(ev *platform.Event) bool {
	return t.active && ev.TouchID == t.id
}

func (t *Touch) finish(ev *platform.Event) {
	for _, name := range []string{TouchSwipeUp, TouchSwipeDown, TouchSwipeLeft, TouchSwipeRight} {
		if c := t.Control(name); c != nil {
			c.Release(ev)
		}
	}
	if delta := t.Control(TouchDelta); delta != nil {
		delta.SetVector(0, 0, ev)
	}
	t.active = false
}

// swipeAxis keeps the two directions of one axis mutually exclusive; the
// opposite direction is released before the new one is pressed.
func (t *Touch) swipeAxis(d float64, negative, positive string, ev *platform.Event) {
	neg, pos := t.button(negative), t.button(positive)
	if neg == nil || pos == nil {
		return
	}
	switch {
	case d <= -t.cfg.SwipeThreshold:
		pos.Release(ev)
		t.PreventDefault(ev, neg)
		neg.Press(ev)
	case d >= t.cfg.SwipeThreshold:
		neg.Release(ev)
		t.PreventDefault(ev, pos)
		pos.Press(ev)
	default:
		neg.Release(ev)
		pos.Release(ev)
	}
}

func (t *Touch) button(name string) *Control {
	c, err := t.FindOrCreateControl(ButtonControl, ControlParams{Name: name})
	if err != nil {
		return nil
	}
	return c
}

func (t *Touch) vectorControl(name string) *Control {
	c, err := t.FindOrCreateControl(Vector2Control, ControlParams{Name: name, PressThreshold: math.Inf(1)})
	if err != nil {
		return nil
	}
	return c
}

// Dispose removes every control and forgets the tracked touch.
func (t *Touch) Dispose() {
	t.Device.Dispose()
	t.active = false
}
