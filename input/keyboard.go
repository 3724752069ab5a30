package input

import "github.com/milk9111/inputkit/platform"

// Keyboard turns key events into button controls named by key code.
type Keyboard struct {
	*Device
}

func NewKeyboard(name string, source platform.Source) *Keyboard {
	k := &Keyboard{Device: NewDevice(name, source)}
	k.Handle(platform.KeyDown, k.onKeyDown)
	k.Handle(platform.KeyUp, k.onKeyUp)
	k.Handle(platform.Blur, k.ReleaseAll)
	return k
}

func (k *Keyboard) onKeyDown(ev *platform.Event) {
	if c := k.keyControl(ev); c != nil {
		k.PreventDefault(ev, c)
		c.Press(ev)
	}
}

func (k *Keyboard) onKeyUp(ev *platform.Event) {
	if c := k.keyControl(ev); c != nil {
		k.PreventDefault(ev, c)
		c.Release(ev)
	}
}

// keyControl ignores events typed into text fields.
func (k *Keyboard) keyControl(ev *platform.Event) *Control {
	if ev == nil || ev.Code == "" || ev.Target.Editable() {
		return nil
	}
	c, err := k.FindOrCreateControl(ButtonControl, ControlParams{Name: ev.Code})
	if err != nil {
		return nil
	}
	return c
}
