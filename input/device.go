package input

import (
	"fmt"

	"github.com/milk9111/inputkit/platform"
)

// ControlEvent carries a control edge re-emitted by a device.
type ControlEvent struct {
	Control *Control
	Event   *platform.Event
	Device  *Device
}

// ControlUpdate carries a control value change re-emitted by a device.
type ControlUpdate struct {
	Control  *Control
	Value    float64
	OldValue float64
	Event    *platform.Event
	Device   *Device
}

// PreventFunc decides whether the platform default for ev should be suppressed.
type PreventFunc func(ev *platform.Event, c *Control, d *Device) bool

// InputDevice is implemented by Device and by every adapter embedding it.
type InputDevice interface {
	Base() *Device
	Start()
	Stop()
	Dispose()
}

// Poller is implemented by devices that sample state instead of receiving events.
type Poller interface {
	Poll()
}

type controlEntry struct {
	control *Control
	conns   []*Connection
}

// Device owns a named set of controls and tracks which of them are pressed.
type Device struct {
	name      string
	source    platform.Source
	threshold float64

	controls map[string]*controlEntry
	order    []string
	pressed  []string

	handlers map[platform.EventKind]platform.Handler
	cancels  []func()
	running  bool

	prevent     bool
	preventFunc PreventFunc

	ControlPressed  Signal[ControlEvent]
	ControlReleased Signal[ControlEvent]
	ControlUpdated  Signal[ControlUpdate]
}

// NewDevice creates a device that listens on source once started.
func NewDevice(name string, source platform.Source) *Device {
	return &Device{
		name:     name,
		source:   source,
		controls: make(map[string]*controlEntry),
		handlers: make(map[platform.EventKind]platform.Handler),
	}
}

func (d *Device) Base() *Device { return d }

func (d *Device) Name() string { return d.name }

func (d *Device) Source() platform.Source { return d.source }

// SetPressThreshold sets the threshold used for controls created by
// FindOrCreateControl without an explicit one.
func (d *Device) SetPressThreshold(v float64) {
	d.threshold = v
}

// Handle registers fn for a platform event kind. Handlers are attached on Start.
func (d *Device) Handle(kind platform.EventKind, fn platform.Handler) {
	if fn == nil {
		return
	}
	d.handlers[kind] = fn
	if d.running && d.source != nil {
		d.cancels = append(d.cancels, d.source.Subscribe(kind, fn))
	}
}

// Start attaches platform listeners.
func (d *Device) Start() {
	if d.running {
		return
	}
	d.running = true
	if d.source == nil {
		return
	}
	for kind, fn := range d.handlers {
		d.cancels = append(d.cancels, d.source.Subscribe(kind, fn))
	}
}

// Stop detaches platform listeners. Control state is kept.
func (d *Device) Stop() {
	if !d.running {
		return
	}
	d.running = false
	for _, cancel := range d.cancels {
		cancel()
	}
	d.cancels = nil
}

// Running reports whether platform listeners are attached.
func (d *Device) Running() bool { return d.running }

// Dispose stops the device and removes every control.
func (d *Device) Dispose() {
	d.Stop()
	for _, name := range append([]string(nil), d.order...) {
		d.RemoveControl(name)
	}
}

// RegisterControl adds c to the device. It returns false without changes
// when a control with the same name exists.
func (d *Device) RegisterControl(c *Control) (bool, error) {
	if c == nil || c.Name() == "" {
		return false, ErrUnnamedControl
	}
	if _, ok := d.controls[c.Name()]; ok {
		return false, nil
	}

	entry := &controlEntry{control: c}
	entry.conns = []*Connection{
		c.Pressed.Connect(func(p Pressed) {
			d.markPressed(c.Name())
			d.ControlPressed.Emit(ControlEvent{Control: c, Event: p.Event, Device: d})
		}),
		c.Released.Connect(func(r Released) {
			d.unmarkPressed(c.Name())
			d.ControlReleased.Emit(ControlEvent{Control: c, Event: r.Event, Device: d})
		}),
		c.Updated.Connect(func(u Updated) {
			d.ControlUpdated.Emit(ControlUpdate{Control: c, Value: u.Value, OldValue: u.OldValue, Event: u.Event, Device: d})
		}),
	}
	d.controls[c.Name()] = entry
	d.order = append(d.order, c.Name())
	if c.IsPressed() {
		d.markPressed(c.Name())
	}
	return true, nil
}

// FindOrCreateControl returns the named control, creating it if needed.
func (d *Device) FindOrCreateControl(kind ControlKind, params ControlParams) (*Control, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("input: device %s: %w", d.name, ErrUnnamedControl)
	}
	if entry, ok := d.controls[params.Name]; ok {
		return entry.control, nil
	}
	if params.PressThreshold == 0 {
		params.PressThreshold = d.threshold
	}
	c, err := NewControl(kind, params)
	if err != nil {
		return nil, err
	}
	if _, err := d.RegisterControl(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveControl detaches and forgets the named control. The name is dropped
// from the pressed set without emitting a release.
func (d *Device) RemoveControl(name string) bool {
	entry, ok := d.controls[name]
	if !ok {
		return false
	}
	for _, conn := range entry.conns {
		conn.Disconnect()
	}
	delete(d.controls, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.unmarkPressed(name)
	return true
}

// Control returns the named control or nil.
func (d *Device) Control(name string) *Control {
	if entry, ok := d.controls[name]; ok {
		return entry.control
	}
	return nil
}

// Controls returns the controls in registration order.
func (d *Device) Controls() []*Control {
	out := make([]*Control, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.controls[name].control)
	}
	return out
}

func (d *Device) IsPressed(name string) bool {
	for _, n := range d.pressed {
		if n == name {
			return true
		}
	}
	return false
}

// ValueFor returns the value of the named control and whether it exists.
func (d *Device) ValueFor(name string) (float64, bool) {
	c := d.Control(name)
	if c == nil {
		return 0, false
	}
	return c.Value(), true
}

// PressedNames returns a snapshot of the pressed control names.
func (d *Device) PressedNames() []string {
	return append([]string(nil), d.pressed...)
}

// PressedControls returns the controls that are currently pressed.
func (d *Device) PressedControls() []*Control {
	out := make([]*Control, 0, len(d.pressed))
	for _, name := range d.pressed {
		out = append(out, d.controls[name].control)
	}
	return out
}

// ReleaseAll releases every pressed control, emitting release edges.
func (d *Device) ReleaseAll(ev *platform.Event) {
	for _, c := range d.PressedControls() {
		c.Release(ev)
	}
}

// SetPreventDefault claims (or stops claiming) every control of this device.
func (d *Device) SetPreventDefault(v bool) {
	d.prevent = v
	d.preventFunc = nil
}

// SetPreventDefaultFunc installs a per-event policy. It overrides SetPreventDefault.
func (d *Device) SetPreventDefaultFunc(fn PreventFunc) {
	d.preventFunc = fn
}

func (d *Device) ShouldPreventDefaultFor(ev *platform.Event, c *Control) bool {
	if ev == nil {
		return false
	}
	if d.preventFunc != nil {
		return d.preventFunc(ev, c, d)
	}
	return d.prevent
}

// PreventDefault suppresses the platform default for ev when the policy claims c.
func (d *Device) PreventDefault(ev *platform.Event, c *Control) {
	if d.ShouldPreventDefaultFor(ev, c) {
		ev.PreventDefault()
	}
}

func (d *Device) markPressed(name string) {
	if d.IsPressed(name) {
		return
	}
	d.pressed = append(d.pressed, name)
}

func (d *Device) unmarkPressed(name string) {
	for i, n := range d.pressed {
		if n == name {
			d.pressed = append(d.pressed[:i], d.pressed[i+1:]...)
			return
		}
	}
}
