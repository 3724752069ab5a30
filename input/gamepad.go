package input

import (
	"math"
	"strconv"

	"github.com/milk9111/inputkit/platform"
)

// GamepadReader supplies gamepad snapshots for polling.
type GamepadReader interface {
	Gamepads() []platform.GamepadState
}

// GamepadInfo describes a connected pad.
type GamepadInfo struct {
	Index   int
	ID      string
	Mapping string
	Buttons int
	Axes    int
}

// Gamepad mirrors one pad's buttons and axes as button<N>/axis<N> controls.
type Gamepad struct {
	*Device
	cfg    GamepadConfig
	reader GamepadReader

	connected bool
	info      GamepadInfo

	Connected    Signal[GamepadInfo]
	Disconnected Signal[GamepadInfo]
}

func NewGamepad(name string, source platform.Source, reader GamepadReader, cfg GamepadConfig) *Gamepad {
	g := &Gamepad{Device: NewDevice(name, source), cfg: cfg, reader: reader}
	g.Handle(platform.GamepadConnected, g.onConnected)
	g.Handle(platform.GamepadDisconnected, g.onDisconnected)
	return g
}

func GamepadButtonName(i int) string { return "button" + strconv.Itoa(i) }

func GamepadAxisName(i int) string { return "axis" + strconv.Itoa(i) }

// IsConnected reports whether the configured pad is connected.
func (g *Gamepad) IsConnected() bool { return g.connected }

// Info returns the last known description of the pad.
func (g *Gamepad) Info() GamepadInfo { return g.info }

// Axis returns the deadzone-filtered value of axis i.
func (g *Gamepad) Axis(i int) float64 {
	v, _ := g.ValueFor(GamepadAxisName(i))
	return g.deadzone(v)
}

// Poll merges the current snapshot of the configured pad.
func (g *Gamepad) Poll() {
	if g.reader == nil || !g.Running() {
		return
	}
	for _, state := range g.reader.Gamepads() {
		if state.Index != g.cfg.Index || !state.Connected {
			continue
		}
		if !g.connected {
			g.connect(state)
		}
		g.apply(state, nil)
		return
	}
	if g.connected {
		g.disconnect(nil)
	}
}

func (g *Gamepad) onConnected(ev *platform.Event) {
	if ev.Gamepad == nil || ev.Gamepad.Index != g.cfg.Index {
		return
	}
	g.connect(*ev.Gamepad)
	g.apply(*ev.Gamepad, ev)
}

func (g *Gamepad) onDisconnected(ev *platform.Event) {
	if ev.Gamepad == nil || ev.Gamepad.Index != g.cfg.Index || !g.connected {
		return
	}
	g.disconnect(ev)
}

func (g *Gamepad) connect(state platform.GamepadState) {
	g.connected = true
	g.info = GamepadInfo{
		Index:   state.Index,
		ID:      state.ID,
		Mapping: state.Mapping,
		Buttons: len(state.Buttons),
		Axes:    len(state.Axes),
	}
	g.Connected.Emit(g.info)
}

func (g *Gamepad) disconnect(ev *platform.Event) {
	g.ReleaseAll(ev)
	for _, c := range g.Controls() {
		if c.Kind() == AxisControl {
			c.SetValue(0, ev)
		}
	}
	g.connected = false
	g.Disconnected.Emit(g.info)
}

func (g *Gamepad) apply(state platform.GamepadState, ev *platform.Event) {
	for i, v := range state.Buttons {
		c, err := g.FindOrCreateControl(ButtonControl, ControlParams{Name: GamepadButtonName(i)})
		if err != nil {
			continue
		}
		c.SetValue(v, ev)
	}
	for i, v := range state.Axes {
		c, err := g.FindOrCreateControl(AxisControl, ControlParams{Name: GamepadAxisName(i)})
		if err != nil {
			continue
		}
		c.SetValue(g.deadzone(v), ev)
	}
}

func (g *Gamepad) deadzone(v float64) float64 {
	if math.Abs(v) < g.cfg.Deadzone {
		return 0
	}
	return v
}
