package input

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/inputkit/platform"
)

type edgeLog struct {
	pressed  int
	released int
	updated  []Updated
}

func watchControl(c *Control) *edgeLog {
	l := &edgeLog{}
	c.Pressed.Connect(func(Pressed) { l.pressed++ })
	c.Released.Connect(func(Released) { l.released++ })
	c.Updated.Connect(func(u Updated) { l.updated = append(l.updated, u) })
	return l
}

func mustControl(t *testing.T, kind ControlKind, name string) *Control {
	t.Helper()
	c, err := NewControl(kind, ControlParams{Name: name})
	if err != nil {
		t.Fatalf("NewControl(%q): %v", name, err)
	}
	return c
}

func TestNewControlRequiresName(t *testing.T) {
	if _, err := NewControl(ButtonControl, ControlParams{}); !errors.Is(err, ErrUnnamedControl) {
		t.Fatalf("expected ErrUnnamedControl, got %v", err)
	}
	c := mustControl(t, ButtonControl, "Space")
	if c.PressThreshold() != DefaultPressThreshold {
		t.Fatalf("expected default threshold %v, got %v", DefaultPressThreshold, c.PressThreshold())
	}
}

func TestControlEdges(t *testing.T) {
	cases := []struct {
		name         string
		values       []float64
		wantPressed  int
		wantReleased int
		wantUpdated  int
	}{
		{"press_release", []float64{1, 0}, 1, 1, 2},
		{"repeat_press_is_idempotent", []float64{1, 1, 1}, 1, 0, 1},
		{"analog_above_threshold_no_extra_edges", []float64{0.5, 0.8, 1}, 1, 0, 3},
		{"below_threshold_never_presses", []float64{0.05, 0.09, 0}, 0, 0, 3},
		{"exact_threshold_counts_as_pressed", []float64{DefaultPressThreshold}, 1, 0, 1},
		{"double_cycle", []float64{1, 0, 1, 0}, 2, 2, 4},
		{"release_without_press", []float64{0, 0}, 0, 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ctrl := mustControl(t, ButtonControl, "KeyA")
			l := watchControl(ctrl)
			for _, v := range c.values {
				ctrl.SetValue(v, nil)
			}
			if l.pressed != c.wantPressed || l.released != c.wantReleased || len(l.updated) != c.wantUpdated {
				t.Fatalf("pressed=%d released=%d updated=%d, want %d/%d/%d",
					l.pressed, l.released, len(l.updated), c.wantPressed, c.wantReleased, c.wantUpdated)
			}
		})
	}
}

func TestControlUpdatedPayload(t *testing.T) {
	ctrl := mustControl(t, ButtonControl, "KeyA")
	l := watchControl(ctrl)
	ev := &platform.Event{Kind: platform.KeyDown, Code: "KeyA"}

	if changed := ctrl.SetValue(0.5, ev); !changed {
		t.Fatalf("expected SetValue to report a change")
	}
	if changed := ctrl.SetValue(0.5, ev); changed {
		t.Fatalf("expected identical value to report no change")
	}
	if len(l.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(l.updated))
	}
	u := l.updated[0]
	if u.Value != 0.5 || u.OldValue != 0 || u.Event != ev {
		t.Fatalf("unexpected update payload %+v", u)
	}
	if !ctrl.IsPressed() || !ctrl.WasPressed() {
		t.Fatalf("expected pressed and was-pressed after repeated 0.5")
	}
}

func TestVectorControl(t *testing.T) {
	ctrl, err := NewControl(Vector2Control, ControlParams{Name: "delta"})
	if err != nil {
		t.Fatalf("NewControl: %v", err)
	}
	l := watchControl(ctrl)

	ctrl.SetVector(3, 4, nil)
	if ctrl.Value() != 5 {
		t.Fatalf("expected magnitude 5, got %v", ctrl.Value())
	}
	if v := ctrl.Vector(); v[0] != 3 || v[1] != 4 {
		t.Fatalf("unexpected vector %v", v)
	}
	if l.pressed != 1 {
		t.Fatalf("expected press edge on non-zero vector, got %d", l.pressed)
	}
	ctrl.Release(nil)
	if ctrl.Value() != 0 || l.released != 1 {
		t.Fatalf("expected release to zero the vector, value=%v released=%d", ctrl.Value(), l.released)
	}
}

func TestInfiniteThresholdNeverPresses(t *testing.T) {
	ctrl, err := NewControl(Vector2Control, ControlParams{Name: "position", PressThreshold: math.Inf(1)})
	if err != nil {
		t.Fatalf("NewControl: %v", err)
	}
	l := watchControl(ctrl)
	ctrl.SetVector(640, 480, nil)
	if ctrl.IsPressed() || l.pressed != 0 {
		t.Fatalf("position control must never press")
	}
	if len(l.updated) != 1 {
		t.Fatalf("expected an update, got %d", len(l.updated))
	}
}

func TestSignalDisconnect(t *testing.T) {
	var s Signal[int]
	got := 0
	conn := s.Connect(func(v int) { got += v })
	s.Emit(2)
	conn.Disconnect()
	conn.Disconnect()
	s.Emit(3)
	if got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no listeners, got %d", s.Len())
	}
}

func TestSignalDisconnectDuringEmit(t *testing.T) {
	var s Signal[struct{}]
	calls := 0
	var second *Connection
	s.Connect(func(struct{}) {
		calls++
		second.Disconnect()
	})
	second = s.Connect(func(struct{}) { calls++ })
	s.Emit(struct{}{})
	if calls != 2 {
		t.Fatalf("listeners connected at emit time should all run, got %d", calls)
	}
	s.Emit(struct{}{})
	if calls != 3 {
		t.Fatalf("expected disconnected listener to be skipped, got %d", calls)
	}
}
