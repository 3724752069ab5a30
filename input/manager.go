package input

import (
	"fmt"
	"log"
)

type deviceEntry struct {
	device InputDevice
	conns  []*Connection
}

// Manager owns the registered devices and forwards their control events.
type Manager struct {
	devices map[string]*deviceEntry
	order   []string
	running bool

	started  Signal[struct{}]
	stopped  Signal[struct{}]
	disposed Signal[struct{}]

	ControlPressed  Signal[ControlEvent]
	ControlReleased Signal[ControlEvent]
	ControlUpdated  Signal[ControlUpdate]
}

func NewManager() *Manager {
	return &Manager{devices: make(map[string]*deviceEntry)}
}

// RegisterDevice stores dev under name. An existing device with the same
// name is detached from the manager and superseded.
func (m *Manager) RegisterDevice(name string, dev InputDevice) error {
	if dev == nil || dev.Base() == nil {
		return ErrNilDevice
	}
	if name == "" {
		return fmt.Errorf("input: register device: %w", ErrUnnamedDevice)
	}

	if old, ok := m.devices[name]; ok {
		for _, conn := range old.conns {
			conn.Disconnect()
		}
		if old.device.Base() != dev.Base() {
			log.Printf("input: device %q replaced", name)
		}
	} else {
		m.order = append(m.order, name)
	}

	base := dev.Base()
	entry := &deviceEntry{device: dev}
	entry.conns = []*Connection{
		m.started.Connect(func(struct{}) { dev.Start() }),
		m.stopped.Connect(func(struct{}) { dev.Stop() }),
		m.disposed.Connect(func(struct{}) { dev.Dispose() }),
		base.ControlPressed.Connect(m.ControlPressed.Emit),
		base.ControlReleased.Connect(m.ControlReleased.Emit),
		base.ControlUpdated.Connect(m.ControlUpdated.Emit),
	}
	m.devices[name] = entry

	if m.running {
		dev.Start()
	}
	return nil
}

// Device returns the device registered under name, or nil.
func (m *Manager) Device(name string) InputDevice {
	if entry, ok := m.devices[name]; ok {
		return entry.device
	}
	return nil
}

func (m *Manager) base(name string) *Device {
	if entry, ok := m.devices[name]; ok {
		return entry.device.Base()
	}
	return nil
}

// Devices returns the registered devices in registration order.
func (m *Manager) Devices() []InputDevice {
	out := make([]InputDevice, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.devices[name].device)
	}
	return out
}

// DeviceNames returns the registered names in registration order.
func (m *Manager) DeviceNames() []string {
	return append([]string(nil), m.order...)
}

// DeviceKeyFor returns the name d is registered under.
func (m *Manager) DeviceKeyFor(d *Device) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, name := range m.order {
		if m.devices[name].device.Base() == d {
			return name, true
		}
	}
	return "", false
}

func (m *Manager) IsPressed(deviceName, controlName string) bool {
	d := m.base(deviceName)
	return d != nil && d.IsPressed(controlName)
}

func (m *Manager) ValueFor(deviceName, controlName string) (float64, bool) {
	d := m.base(deviceName)
	if d == nil {
		return 0, false
	}
	return d.ValueFor(controlName)
}

func (m *Manager) Control(deviceName, controlName string) *Control {
	d := m.base(deviceName)
	if d == nil {
		return nil
	}
	return d.Control(controlName)
}

// IsPressedAny reports whether any device has controlName pressed.
func (m *Manager) IsPressedAny(controlName string) bool {
	for _, name := range m.order {
		if m.devices[name].device.Base().IsPressed(controlName) {
			return true
		}
	}
	return false
}

// ValueAny returns the value of controlName on the first device that has it.
func (m *Manager) ValueAny(controlName string) (float64, bool) {
	if c := m.ControlAny(controlName); c != nil {
		return c.Value(), true
	}
	return 0, false
}

// ControlAny returns controlName from the first device that has it.
func (m *Manager) ControlAny(controlName string) *Control {
	for _, name := range m.order {
		if c := m.devices[name].device.Base().Control(controlName); c != nil {
			return c
		}
	}
	return nil
}

// AllPressed returns every device with controlName pressed, in registration order.
func (m *Manager) AllPressed(controlName string) []*Device {
	out := []*Device{}
	for _, name := range m.order {
		if d := m.devices[name].device.Base(); d.IsPressed(controlName) {
			out = append(out, d)
		}
	}
	return out
}

// AllValues returns the value of controlName on every device that has it.
func (m *Manager) AllValues(controlName string) []float64 {
	out := []float64{}
	for _, name := range m.order {
		if v, ok := m.devices[name].device.Base().ValueFor(controlName); ok {
			out = append(out, v)
		}
	}
	return out
}

// Poll samples every device that implements Poller.
func (m *Manager) Poll() {
	for _, name := range m.order {
		if p, ok := m.devices[name].device.(Poller); ok {
			p.Poll()
		}
	}
}

func (m *Manager) Start() {
	m.running = true
	m.started.Emit(struct{}{})
}

func (m *Manager) Stop() {
	m.running = false
	m.stopped.Emit(struct{}{})
}

// Dispose disposes every device and forgets them.
func (m *Manager) Dispose() {
	m.running = false
	m.disposed.Emit(struct{}{})
	for _, entry := range m.devices {
		for _, conn := range entry.conns {
			conn.Disconnect()
		}
	}
	m.devices = make(map[string]*deviceEntry)
	m.order = nil
}
