package input

import (
	"fmt"
	"strings"
)

// Descriptor is the serializable form of a binding.
type Descriptor struct {
	Device     string       `yaml:"device,omitempty" json:"device,omitempty"`
	Control    string       `yaml:"control,omitempty" json:"control,omitempty"`
	Controls   []ControlRef `yaml:"controls,omitempty" json:"controls,omitempty"`
	Action     string       `yaml:"action" json:"action"`
	Controller string       `yaml:"controller,omitempty" json:"controller,omitempty"`
	Event      EventType    `yaml:"event,omitempty" json:"event,omitempty"`
}

// Snapshot is the exported binding list.
type Snapshot struct {
	Bindings []Descriptor `yaml:"bindings" json:"bindings"`
}

// Query selects a binding for Binding and Unbind. With Device and Control
// (or Controls) set it is an exact lookup; otherwise it resolves through the
// action index.
type Query struct {
	Device     string
	Control    string
	Controls   []ControlRef
	Action     string
	Controller string
	Event      EventType
}

// Binder stores bindings and keeps three lookup indexes in sync with them.
type Binder struct {
	bindings map[string]*Binding
	order    []string

	byInput     map[string][]*Binding
	byAction    map[string][]*Binding
	byActionAny map[string][]*Binding

	Added   Signal[*Binding]
	Removed Signal[*Binding]
}

func NewBinder() *Binder {
	return &Binder{
		bindings:    make(map[string]*Binding),
		byInput:     make(map[string][]*Binding),
		byAction:    make(map[string][]*Binding),
		byActionAny: make(map[string][]*Binding),
	}
}

// Bind builds a binding from d and stores it. Rebinding an identical
// device/control/event/action/controller tuple replaces the old binding.
func (b *Binder) Bind(d Descriptor) (*Binding, error) {
	nb, err := newFromDescriptor(d)
	if err != nil {
		return nil, err
	}
	b.insert(nb)
	return nb, nil
}

// BindCombo binds a chord. Each entry is "device:control" or a bare control
// name whose device is inferred.
func (b *Binder) BindCombo(controls []string, action, controller string, eventType EventType) (*Binding, error) {
	if len(controls) < 2 {
		return nil, fmt.Errorf("input: bind combo %s: %w", action, ErrTooFewControls)
	}
	if action == "" {
		return nil, ErrInvalidAction
	}
	refs := make([]ControlRef, 0, len(controls))
	for i, raw := range controls {
		ref, err := ParseControlRef(raw)
		if err != nil {
			return nil, fmt.Errorf("input: bind combo %s: control %d: %w", action, i, err)
		}
		refs = append(refs, ref)
	}
	nb, err := NewCompositeBinding(refs, action, controller, eventType)
	if err != nil {
		return nil, err
	}
	b.insert(nb)
	return nb, nil
}

// ParseControlRef parses "device:control" or a bare control name.
func ParseControlRef(raw string) (ControlRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ControlRef{}, ErrMalformedControl
	}
	device, control, ok := strings.Cut(raw, ":")
	if !ok {
		return ControlRef{Device: ClassifyControl(raw).String(), Control: raw}, nil
	}
	if device == "" || control == "" {
		return ControlRef{}, fmt.Errorf("%w: %q", ErrMalformedControl, raw)
	}
	return ControlRef{Device: device, Control: control}, nil
}

func newFromDescriptor(d Descriptor) (*Binding, error) {
	if d.Action == "" {
		return nil, ErrInvalidAction
	}
	if d.Controls != nil {
		refs := make([]ControlRef, len(d.Controls))
		for i, ref := range d.Controls {
			if ref.Device == "" && ref.Control != "" {
				ref.Device = ClassifyControl(ref.Control).String()
			}
			refs[i] = ref
		}
		return NewCompositeBinding(refs, d.Action, d.Controller, d.Event)
	}
	return NewBinding(d.Device, d.Control, d.Action, d.Controller, d.Event)
}

func (b *Binder) insert(nb *Binding) {
	if old, ok := b.bindings[nb.ID()]; ok {
		b.remove(old)
	}
	b.bindings[nb.ID()] = nb
	b.order = append(b.order, nb.ID())

	for _, key := range inputKeysFor(nb) {
		b.byInput[key] = append(b.byInput[key], nb)
	}
	ak := actionKey(nb.action, nb.eventType, nb.controller)
	b.byAction[ak] = append(b.byAction[ak], nb)
	anyKey := actionAnyKey(nb.action, nb.eventType)
	b.byActionAny[anyKey] = append(b.byActionAny[anyKey], nb)

	b.Added.Emit(nb)
}

func (b *Binder) remove(old *Binding) {
	delete(b.bindings, old.ID())
	for i, id := range b.order {
		if id == old.ID() {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	for _, key := range inputKeysFor(old) {
		dropFromIndex(b.byInput, key, old)
	}
	dropFromIndex(b.byAction, actionKey(old.action, old.eventType, old.controller), old)
	dropFromIndex(b.byActionAny, actionAnyKey(old.action, old.eventType), old)
}

func dropFromIndex(index map[string][]*Binding, key string, target *Binding) {
	list := index[key]
	for i, existing := range list {
		if existing == target {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(index, key)
		return
	}
	index[key] = list
}

// inputKeysFor lists every input-index key a binding is reachable from.
func inputKeysFor(nb *Binding) []string {
	if !nb.Composite() {
		return []string{inputKey(nb.device, nb.control, nb.eventType)}
	}
	keys := make([]string, 0, len(nb.controls)+1)
	seen := make(map[string]bool, len(nb.controls)+1)
	for _, ref := range nb.controls {
		key := inputKey(ref.Device, ref.Control, nb.eventType)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return append(keys, inputKey(nb.device, nb.control, nb.eventType))
}

func actionKey(action string, eventType EventType, controller string) string {
	return action + ":" + string(eventType) + ":" + controller
}

func actionAnyKey(action string, eventType EventType) string {
	return action + ":" + string(eventType)
}

// Unbind removes the binding selected by q and reports whether one existed.
func (b *Binder) Unbind(q Query) bool {
	target := b.Binding(q)
	if target == nil {
		return false
	}
	b.remove(target)
	b.Removed.Emit(target)
	return true
}

// Binding resolves q to a stored binding, or nil.
func (b *Binder) Binding(q Query) *Binding {
	eventType := q.Event.orDefault()
	device, control := q.Device, q.Control
	if len(q.Controls) > 0 {
		device, control = CompositeDevice, comboName(q.Controls)
	} else if device == "" && control != "" {
		device = ClassifyControl(control).String()
	}
	if device != "" && control != "" {
		return b.bindings[bindingID(device, control, eventType, q.Action, q.Controller)]
	}
	if q.Action == "" {
		return nil
	}
	list := b.byAction[actionKey(q.Action, eventType, q.Controller)]
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// BindingsForInput returns the bindings a control edge can trigger. Direct
// bindings come before composite ones.
func (b *Binder) BindingsForInput(device, control string, eventType EventType) []*Binding {
	list := b.byInput[inputKey(device, control, eventType.orDefault())]
	if len(list) == 0 {
		return nil
	}
	out := make([]*Binding, 0, len(list))
	for _, nb := range list {
		if !nb.Composite() {
			out = append(out, nb)
		}
	}
	for _, nb := range list {
		if nb.Composite() {
			out = append(out, nb)
		}
	}
	return out
}

// BindingsForAction returns the bindings for action across all controllers.
func (b *Binder) BindingsForAction(action string, eventType EventType) []*Binding {
	return append([]*Binding(nil), b.byActionAny[actionAnyKey(action, eventType.orDefault())]...)
}

// BindingsForController returns the bindings for action scoped to controller.
// An empty controller selects global bindings only.
func (b *Binder) BindingsForController(action, controller string, eventType EventType) []*Binding {
	return append([]*Binding(nil), b.byAction[actionKey(action, eventType.orDefault(), controller)]...)
}

// IsClaimed reports whether any binding listens to the given control.
func (b *Binder) IsClaimed(device, control string) bool {
	return len(b.byInput[inputKey(device, control, EventPressed)]) > 0 ||
		len(b.byInput[inputKey(device, control, EventReleased)]) > 0
}

// AllBindings returns every binding in insertion order.
func (b *Binder) AllBindings() []*Binding {
	out := make([]*Binding, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.bindings[id])
	}
	return out
}

func (b *Binder) Len() int { return len(b.order) }

// Clear removes every binding, emitting Removed for each.
func (b *Binder) Clear() {
	for _, nb := range b.AllBindings() {
		b.remove(nb)
		b.Removed.Emit(nb)
	}
}

// Export returns the bindings as plain descriptors.
func (b *Binder) Export() Snapshot {
	all := b.AllBindings()
	s := Snapshot{Bindings: make([]Descriptor, 0, len(all))}
	for _, nb := range all {
		s.Bindings = append(s.Bindings, nb.Descriptor())
	}
	return s
}

// Import binds every descriptor in s. Nothing is bound if any descriptor is invalid.
func (b *Binder) Import(s Snapshot) error {
	built := make([]*Binding, 0, len(s.Bindings))
	for i, d := range s.Bindings {
		nb, err := newFromDescriptor(d)
		if err != nil {
			return fmt.Errorf("input: import binding %d: %w", i, err)
		}
		built = append(built, nb)
	}
	for _, nb := range built {
		b.insert(nb)
	}
	return nil
}
