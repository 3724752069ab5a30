package input

import (
	"log"
	"math"

	"github.com/milk9111/inputkit/platform"
	"golang.org/x/image/math/f64"
)

// System wires a Manager and a Binder together and hands resolved actions
// to a Dispatcher.
type System struct {
	cfg        Config
	source     platform.Source
	manager    *Manager
	binder     *Binder
	dispatcher Dispatcher

	keyboard *Keyboard
	mouse    *Mouse

	conns []*Connection
}

// NewSystem creates a system with a keyboard and a mouse registered under
// their default names.
func NewSystem(source platform.Source, dispatcher Dispatcher, cfg Config) *System {
	s := &System{
		cfg:        cfg.withDefaults(),
		source:     source,
		manager:    NewManager(),
		binder:     NewBinder(),
		dispatcher: dispatcher,
	}
	s.keyboard = NewKeyboard(KindKeyboard.String(), source)
	s.mouse = NewMouse(KindMouse.String(), source)
	_ = s.RegisterDevice(KindKeyboard.String(), s.keyboard)
	_ = s.RegisterDevice(KindMouse.String(), s.mouse)

	s.conns = []*Connection{
		s.manager.ControlPressed.Connect(func(ce ControlEvent) { s.resolve(ce, EventPressed) }),
		s.manager.ControlReleased.Connect(func(ce ControlEvent) { s.resolve(ce, EventReleased) }),
	}
	return s
}

func (s *System) Config() Config { return s.cfg }
func (s *System) Manager() *Manager { return s.manager }
func (s *System) Binder() *Binder { return s.binder }
func (s *System) Keyboard() *Keyboard { return s.keyboard }
func (s *System) Mouse() *Mouse { return s.mouse }
func (s *System) Source() platform.Source { return s.source }

// SetDispatcher replaces the action dispatcher.
func (s *System) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// RegisterDevice adds dev to the manager and claims default platform
// behaviour only for controls that have bindings.
func (s *System) RegisterDevice(name string, dev InputDevice) error {
	if err := s.manager.RegisterDevice(name, dev); err != nil {
		return err
	}
	dev.Base().SetPreventDefaultFunc(s.claimed)
	dev.Base().SetPressThreshold(s.cfg.PressThreshold)
	return nil
}

// AddTouch registers a touch device configured from the system config.
func (s *System) AddTouch(name string) (*Touch, error) {
	t := NewTouch(name, s.source, s.cfg.Touch)
	if err := s.RegisterDevice(name, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddGamepad registers a gamepad device configured from the system config.
func (s *System) AddGamepad(name string, reader GamepadReader) (*Gamepad, error) {
	g := NewGamepad(name, s.source, reader, s.cfg.Gamepad)
	if err := s.RegisterDevice(name, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *System) claimed(_ *platform.Event, c *Control, d *Device) bool {
	if c == nil {
		return false
	}
	name, ok := s.manager.DeviceKeyFor(d)
	return ok && s.binder.IsClaimed(name, c.Name())
}

func (s *System) resolve(ce ControlEvent, eventType EventType) {
	deviceName, ok := s.manager.DeviceKeyFor(ce.Device)
	if !ok {
		return
	}
	ref := ControlRef{Device: deviceName, Control: ce.Control.Name()}
	for _, b := range s.binder.BindingsForInput(deviceName, ref.Control, eventType) {
		if !s.qualifies(b, eventType, ref) {
			continue
		}
		if s.cfg.Debug {
			log.Printf("input: dispatch action=%s controller=%q event=%s input=%s", b.ActionName(), b.ControllerName(), eventType, ref)
		}
		if s.dispatcher != nil {
			s.dispatcher.Dispatch(b, ce.Event, ce.Device)
		}
	}
}

// qualifies evaluates a binding's trigger condition for an edge on ref.
// A released chord fires when its first constituent is let go while the
// rest are still held.
func (s *System) qualifies(b *Binding, eventType EventType, ref ControlRef) bool {
	if eventType == EventReleased && b.Composite() {
		return b.completedBy(s.manager, ref)
	}
	return b.Triggered(s.manager)
}

// BindInput adds a binding described by d.
func (s *System) BindInput(d Descriptor) (*Binding, error) {
	return s.binder.Bind(d)
}

// BindCombo adds a chord binding.
func (s *System) BindCombo(controls []string, action, controller string, eventType EventType) (*Binding, error) {
	return s.binder.BindCombo(controls, action, controller, eventType)
}

func (s *System) Unbind(q Query) bool {
	return s.binder.Unbind(q)
}

func (s *System) IsPressed(deviceName, controlName string) bool {
	return s.manager.IsPressed(deviceName, controlName)
}

func (s *System) IsPressedAny(controlName string) bool {
	return s.manager.IsPressedAny(controlName)
}

func (s *System) ValueFor(deviceName, controlName string) (float64, bool) {
	return s.manager.ValueFor(deviceName, controlName)
}

// IsActionPressed reports whether any pressed binding for action, under any
// controller, is held right now.
func (s *System) IsActionPressed(action string) bool {
	return s.anyActive(s.binder.BindingsForAction(action, EventPressed))
}

// IsActionPressedFor is IsActionPressed restricted to one controller.
func (s *System) IsActionPressedFor(action, controller string) bool {
	return s.anyActive(s.binder.BindingsForController(action, controller, EventPressed))
}

func (s *System) anyActive(bindings []*Binding) bool {
	for _, b := range bindings {
		if b.Active(s.manager) {
			return true
		}
	}
	return false
}

// Direction combines {name}Up/Down/Left/Right into a unit vector with
// positive y pointing up. Opposing actions cancel to the zero vector.
func (s *System) Direction(name string) f64.Vec2 {
	return direction(
		s.IsActionPressed(name+"Up"),
		s.IsActionPressed(name+"Down"),
		s.IsActionPressed(name+"Left"),
		s.IsActionPressed(name+"Right"),
	)
}

// DirectionFor is Direction restricted to one controller.
func (s *System) DirectionFor(name, controller string) f64.Vec2 {
	return direction(
		s.IsActionPressedFor(name+"Up", controller),
		s.IsActionPressedFor(name+"Down", controller),
		s.IsActionPressedFor(name+"Left", controller),
		s.IsActionPressedFor(name+"Right", controller),
	)
}

func direction(up, down, left, right bool) f64.Vec2 {
	v := f64.Vec2{axisValue(left, right), axisValue(down, up)}
	if v[0] == 0 && v[1] == 0 {
		return v
	}
	l := math.Hypot(v[0], v[1])
	return f64.Vec2{v[0] / l, v[1] / l}
}

func axisValue(negative, positive bool) float64 {
	v := 0.0
	if positive {
		v++
	}
	if negative {
		v--
	}
	return v
}

// Update dispatches queued platform events and polls sampling devices.
func (s *System) Update() {
	if f, ok := s.source.(interface{ Flush() }); ok {
		f.Flush()
	}
	s.manager.Poll()
}

func (s *System) Start() { s.manager.Start() }

func (s *System) Stop() { s.manager.Stop() }

// Dispose disposes every device and detaches the system from the manager.
func (s *System) Dispose() {
	s.manager.Dispose()
	for _, conn := range s.conns {
		conn.Disconnect()
	}
	s.conns = nil
}
