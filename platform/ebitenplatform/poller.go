package ebitenplatform

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/inputkit/platform"
)

var mouseButtons = []struct {
	button ebiten.MouseButton
	index  int
}{
	{ebiten.MouseButtonLeft, platform.ButtonLeft},
	{ebiten.MouseButtonMiddle, platform.ButtonMiddle},
	{ebiten.MouseButtonRight, platform.ButtonRight},
}

type point struct {
	x, y int
}

// Poller samples ebiten input once per tick and queues the changes on a
// platform bus as DOM-style events. It must be updated from the game's
// Update, before the bus is flushed.
type Poller struct {
	bus *platform.Bus

	keys     []ebiten.Key
	touchIDs []ebiten.TouchID
	padIDs   []ebiten.GamepadID

	cursor    point
	hasCursor bool
	focused   bool
	touches   map[ebiten.TouchID]point
	pads      map[ebiten.GamepadID]platform.GamepadState
}

func NewPoller(bus *platform.Bus) *Poller {
	return &Poller{
		bus:     bus,
		focused: true,
		touches: make(map[ebiten.TouchID]point),
		pads:    make(map[ebiten.GamepadID]platform.GamepadState),
	}
}

// Update queues every input change since the previous tick.
func (p *Poller) Update() {
	now := time.Now()
	p.pollFocus(now)
	p.pollKeys(now)
	p.pollMouse(now)
	p.pollTouches(now)
	p.pollGamepads(now)
}

// KeyCode converts an ebiten key to the DOM code naming used for controls.
func KeyCode(k ebiten.Key) string {
	s := k.String()
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		return "Key" + s
	}
	return s
}

func (p *Poller) pollFocus(now time.Time) {
	focused := ebiten.IsFocused()
	if p.focused && !focused {
		p.bus.Push(&platform.Event{Kind: platform.Blur, Time: now})
	}
	p.focused = focused
}

func (p *Poller) pollKeys(now time.Time) {
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.bus.Push(&platform.Event{Kind: platform.KeyDown, Code: KeyCode(k), Time: now})
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.bus.Push(&platform.Event{Kind: platform.KeyUp, Code: KeyCode(k), Time: now})
	}
}

func (p *Poller) pollMouse(now time.Time) {
	x, y := ebiten.CursorPosition()
	if !p.hasCursor || x != p.cursor.x || y != p.cursor.y {
		dx, dy := 0, 0
		if p.hasCursor {
			dx, dy = x-p.cursor.x, y-p.cursor.y
		}
		p.bus.Push(&platform.Event{
			Kind: platform.MouseMove,
			X:    float64(x), Y: float64(y),
			DX: float64(dx), DY: float64(dy),
			Time: now,
		})
		p.cursor = point{x, y}
		p.hasCursor = true
	}

	for _, mb := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(mb.button) {
			p.bus.Push(&platform.Event{Kind: platform.MouseDown, Button: mb.index, X: float64(x), Y: float64(y), Time: now})
		}
		if inpututil.IsMouseButtonJustReleased(mb.button) {
			p.bus.Push(&platform.Event{Kind: platform.MouseUp, Button: mb.index, X: float64(x), Y: float64(y), Time: now})
		}
	}
}

func (p *Poller) pollTouches(now time.Time) {
	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		p.touches[id] = point{x, y}
		p.bus.Push(&platform.Event{Kind: platform.TouchStart, TouchID: int(id), X: float64(x), Y: float64(y), Time: now})
	}

	for id, last := range p.touches {
		if inpututil.IsTouchJustReleased(id) {
			p.bus.Push(&platform.Event{Kind: platform.TouchEnd, TouchID: int(id), X: float64(last.x), Y: float64(last.y), Time: now})
			delete(p.touches, id)
			continue
		}
		x, y := ebiten.TouchPosition(id)
		if x == last.x && y == last.y {
			continue
		}
		p.touches[id] = point{x, y}
		p.bus.Push(&platform.Event{Kind: platform.TouchMove, TouchID: int(id), X: float64(x), Y: float64(y), Time: now})
	}
}

func (p *Poller) pollGamepads(now time.Time) {
	p.padIDs = inpututil.AppendJustConnectedGamepadIDs(p.padIDs[:0])
	for _, id := range p.padIDs {
		state := gamepadState(id)
		p.pads[id] = state
		p.bus.Push(&platform.Event{Kind: platform.GamepadConnected, Gamepad: &state, Time: now})
	}
	for id, state := range p.pads {
		if !inpututil.IsGamepadJustDisconnected(id) {
			continue
		}
		state.Connected = false
		delete(p.pads, id)
		p.bus.Push(&platform.Event{Kind: platform.GamepadDisconnected, Gamepad: &state, Time: now})
	}
}

// Gamepads returns a snapshot of every connected pad.
func (p *Poller) Gamepads() []platform.GamepadState {
	p.padIDs = ebiten.AppendGamepadIDs(p.padIDs[:0])
	out := make([]platform.GamepadState, 0, len(p.padIDs))
	for _, id := range p.padIDs {
		out = append(out, gamepadState(id))
	}
	return out
}

func gamepadState(id ebiten.GamepadID) platform.GamepadState {
	state := platform.GamepadState{
		Index:     int(id),
		ID:        ebiten.GamepadName(id),
		Connected: true,
	}
	if ebiten.IsStandardGamepadLayoutAvailable(id) {
		state.Mapping = "standard"
	}

	buttons := ebiten.GamepadButtonCount(id)
	state.Buttons = make([]float64, buttons)
	for b := 0; b < buttons; b++ {
		if ebiten.IsGamepadButtonPressed(id, ebiten.GamepadButton(b)) {
			state.Buttons[b] = 1
		}
	}

	axes := ebiten.GamepadAxisCount(id)
	state.Axes = make([]float64, axes)
	for a := 0; a < axes; a++ {
		state.Axes[a] = ebiten.GamepadAxis(id, a)
	}
	return state
}
