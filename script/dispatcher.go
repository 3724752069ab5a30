package script

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/inputkit/input"
	"github.com/milk9111/inputkit/platform"
	"golang.org/x/image/math/f64"
)

var ErrNoHandler = errors.New("script: on_action is not defined")

// ActionState is the live query surface scripts can read. *input.System
// implements it.
type ActionState interface {
	IsActionPressed(action string) bool
	Direction(name string) f64.Vec2
}

// Scripts define on_action(engine, state, ctx). This tail calls it once per
// dispatched binding.
const dispatchScript = `
on_action(__engine, __state, __ctx)
`

// Dispatcher runs a tengo handler for every resolved binding. The script's
// state map survives between calls and across Reload.
type Dispatcher struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map

	// Actions backs engine.is_pressed and engine.direction. May be nil.
	Actions ActionState
	// OnCommand receives every engine.emit call along with the binding
	// that triggered the run.
	OnCommand func(cmd string, b *input.Binding)
}

// Load compiles the script at path.
func Load(path string) (*Dispatcher, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}
	return New(path, src)
}

// New compiles src. name is only used in log lines and errors.
func New(name string, src []byte) (*Dispatcher, error) {
	d := &Dispatcher{
		name:  name,
		state: &tengo.Map{Value: map[string]tengo.Object{}},
	}
	if err := d.Reload(src); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dispatcher) Name() string { return d.name }

// Reload swaps in a newly compiled script. On error the previous one stays active.
func (d *Dispatcher) Reload(src []byte) error {
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", d.name, err)
	}
	d.compiled = compiled
	return nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript([]byte(string(src) + "\n" + dispatchScript))
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	_ = s.Add("__ctx", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		if strings.Contains(err.Error(), "unresolved reference 'on_action'") {
			return nil, ErrNoHandler
		}
		return nil, err
	}
	return compiled, nil
}

// Dispatch implements input.Dispatcher.
func (d *Dispatcher) Dispatch(b *input.Binding, ev *platform.Event, dev *input.Device) {
	if d == nil || d.compiled == nil || b == nil {
		return
	}
	if err := d.run(b, ev, dev); err != nil {
		log.Printf("script: %s action=%s error: %v", d.name, b.ActionName(), err)
	}
}

func (d *Dispatcher) run(b *input.Binding, ev *platform.Event, dev *input.Device) error {
	if err := d.compiled.Set("__engine", d.engine(b)); err != nil {
		return err
	}
	if err := d.compiled.Set("__state", d.state); err != nil {
		return err
	}
	if err := d.compiled.Set("__ctx", callContext(b, ev, dev)); err != nil {
		return err
	}
	return d.compiled.Run()
}

func callContext(b *input.Binding, ev *platform.Event, dev *input.Device) map[string]any {
	ctx := map[string]any{
		"action":     b.ActionName(),
		"controller": b.ControllerName(),
		"event":      string(b.EventType()),
		"device":     b.DeviceName(),
		"control":    b.ControlName(),
		"composite":  b.Composite(),
	}
	if dev != nil {
		ctx["device"] = dev.Name()
	}
	if ev != nil {
		ctx["kind"] = string(ev.Kind)
		ctx["x"] = ev.X
		ctx["y"] = ev.Y
		ctx["time"] = ev.Time.UnixMilli()
	}
	return ctx
}

func (d *Dispatcher) engine(b *input.Binding) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["emit"] = &tengo.UserFunction{Name: "emit", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if d.OnCommand == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		cmd := strings.TrimSpace(objectAsString(args[0]))
		if cmd == "" {
			return tengo.FalseValue, nil
		}
		d.OnCommand(cmd, b)
		return tengo.TrueValue, nil
	}}

	values["is_pressed"] = &tengo.UserFunction{Name: "is_pressed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if d.Actions == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		if d.Actions.IsActionPressed(objectAsString(args[0])) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["direction"] = &tengo.UserFunction{Name: "direction", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var v f64.Vec2
		if d.Actions != nil && len(args) > 0 {
			v = d.Actions.Direction(objectAsString(args[0]))
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v[0]}, &tengo.Float{Value: v[1]}}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		log.Printf("script: %s: %s", d.name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(o tengo.Object) string {
	if s, ok := tengo.ToString(o); ok {
		return s
	}
	return ""
}
