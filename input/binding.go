package input

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EventType selects which edge a binding reacts to.
type EventType string

const (
	EventPressed  EventType = "pressed"
	EventReleased EventType = "released"
)

// CompositeDevice is the device name every composite binding reports.
const CompositeDevice = "composite"

func (t EventType) orDefault() EventType {
	if t == "" {
		return EventPressed
	}
	return t
}

// ControlRef names one control on one device.
type ControlRef struct {
	Device  string `yaml:"device" json:"device"`
	Control string `yaml:"control" json:"control"`
}

func (r ControlRef) String() string {
	return r.Device + ":" + r.Control
}

// MarshalYAML writes the ref in its compact "device:control" form.
func (r ControlRef) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// UnmarshalYAML accepts "device:control", a bare control name, or a
// mapping with device and control keys.
func (r *ControlRef) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		ref, err := ParseControlRef(n.Value)
		if err != nil {
			return err
		}
		*r = ref
		return nil
	}
	type plain ControlRef
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*r = ControlRef(p)
	return nil
}

// PressedState answers live pressed queries. Manager implements it.
type PressedState interface {
	IsPressed(deviceName, controlName string) bool
}

// Binding maps a physical control, or a chord of controls, plus an edge to
// a named action. An empty controller name means the binding is global.
type Binding struct {
	device     string
	control    string
	action     string
	controller string
	eventType  EventType
	controls   []ControlRef
}

// NewBinding creates a single-control binding.
func NewBinding(device, control, action, controller string, eventType EventType) (*Binding, error) {
	if action == "" {
		return nil, ErrInvalidAction
	}
	if control == "" {
		return nil, fmt.Errorf("input: bind %s: %w", action, ErrMissingControl)
	}
	if device == "" {
		device = ClassifyControl(control).String()
	}
	return &Binding{
		device:     device,
		control:    control,
		action:     action,
		controller: controller,
		eventType:  eventType.orDefault(),
	}, nil
}

// NewCompositeBinding creates a chord binding that triggers only while every
// constituent is pressed.
func NewCompositeBinding(controls []ControlRef, action, controller string, eventType EventType) (*Binding, error) {
	if action == "" {
		return nil, ErrInvalidAction
	}
	if len(controls) < 2 {
		return nil, fmt.Errorf("input: bind %s: %w", action, ErrTooFewControls)
	}
	refs := make([]ControlRef, len(controls))
	for i, ref := range controls {
		if ref.Control == "" || ref.Device == "" {
			return nil, fmt.Errorf("input: bind %s: control %d: %w", action, i, ErrMalformedControl)
		}
		refs[i] = ref
	}
	return &Binding{
		device:     CompositeDevice,
		control:    comboName(refs),
		action:     action,
		controller: controller,
		eventType:  eventType.orDefault(),
		controls:   refs,
	}, nil
}

func comboName(refs []ControlRef) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = ref.String()
	}
	return "combo(" + strings.Join(parts, "+") + ")"
}

func (b *Binding) DeviceName() string { return b.device }
func (b *Binding) ControlName() string { return b.control }
func (b *Binding) ActionName() string { return b.action }
func (b *Binding) ControllerName() string { return b.controller }
func (b *Binding) EventType() EventType { return b.eventType }

// Composite reports whether b is a chord binding.
func (b *Binding) Composite() bool { return len(b.controls) > 0 }

// Controls returns a copy of the chord constituents.
func (b *Binding) Controls() []ControlRef {
	return append([]ControlRef(nil), b.controls...)
}

// Key is the action-qualified identity: eventType:action[:controller].
func (b *Binding) Key() string {
	key := string(b.eventType) + ":" + b.action
	if b.controller != "" {
		key += ":" + b.controller
	}
	return key
}

// ID is the physical-input key that is unique within a Binder.
func (b *Binding) ID() string {
	return bindingID(b.device, b.control, b.eventType, b.action, b.controller)
}

func (b *Binding) String() string {
	return b.ID()
}

// Triggered reports whether a matching edge should dispatch b. Single-control
// bindings always qualify; chords require every constituent to be pressed.
func (b *Binding) Triggered(state PressedState) bool {
	if !b.Composite() {
		return true
	}
	return b.allPressed(state, ControlRef{})
}

// Active reports whether b's input is currently held.
func (b *Binding) Active(state PressedState) bool {
	if state == nil {
		return false
	}
	if !b.Composite() {
		return state.IsPressed(b.device, b.control)
	}
	return b.allPressed(state, ControlRef{})
}

// completedBy reports whether releasing ref ends a chord that was complete
// until now: ref is a constituent and every other constituent is held.
func (b *Binding) completedBy(state PressedState, ref ControlRef) bool {
	if !b.Composite() {
		return true
	}
	found := false
	for _, c := range b.controls {
		if c == ref {
			found = true
			break
		}
	}
	return found && b.allPressed(state, ref)
}

func (b *Binding) allPressed(state PressedState, skip ControlRef) bool {
	if state == nil {
		return false
	}
	for _, c := range b.controls {
		if c == skip {
			continue
		}
		if !state.IsPressed(c.Device, c.Control) {
			return false
		}
	}
	return true
}

// Descriptor returns the serializable form of b.
func (b *Binding) Descriptor() Descriptor {
	d := Descriptor{
		Action:     b.action,
		Controller: b.controller,
		Event:      b.eventType,
	}
	if b.Composite() {
		d.Controls = b.Controls()
		return d
	}
	d.Device = b.device
	d.Control = b.control
	return d
}

func inputKey(device, control string, eventType EventType) string {
	return device + ":" + control + ":" + string(eventType)
}

func bindingID(device, control string, eventType EventType, action, controller string) string {
	return inputKey(device, control, eventType) + ":" + action + ":" + controller
}
