package input

import (
	"errors"
	"testing"
)

func mustBind(t *testing.T, b *Binder, d Descriptor) *Binding {
	t.Helper()
	nb, err := b.Bind(d)
	if err != nil {
		t.Fatalf("Bind(%+v): %v", d, err)
	}
	return nb
}

// indexesConsistent checks that every indexed binding is stored and every
// stored binding is reachable from each index.
func indexesConsistent(b *Binder) bool {
	stored := make(map[*Binding]bool)
	for _, nb := range b.AllBindings() {
		stored[nb] = true
	}
	for _, index := range []map[string][]*Binding{b.byInput, b.byAction, b.byActionAny} {
		for _, list := range index {
			for _, nb := range list {
				if !stored[nb] {
					return false
				}
			}
		}
	}
	for nb := range stored {
		found := false
		for _, candidate := range b.BindingsForInput(nb.DeviceName(), nb.ControlName(), nb.EventType()) {
			if candidate == nb {
				found = true
			}
		}
		if !found {
			return false
		}
		if len(b.BindingsForController(nb.ActionName(), nb.ControllerName(), nb.EventType())) == 0 {
			return false
		}
	}
	return true
}

func TestClassifyControl(t *testing.T) {
	cases := []struct {
		name string
		want DeviceKind
	}{
		{"KeyW", KindKeyboard},
		{"Space", KindKeyboard},
		{"leftButton", KindMouse},
		{"middleButton", KindMouse},
		{"rightButton", KindMouse},
		{"position", KindMouse},
		{"velocity", KindMouse},
		{"button0", KindGamepad},
		{"button12", KindGamepad},
		{"axis3", KindGamepad},
		{"button", KindKeyboard},
		{"axisX", KindKeyboard},
		{"mybutton1", KindKeyboard},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyControl(c.name); got != c.want {
				t.Fatalf("ClassifyControl(%q) = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestBindInfersDevice(t *testing.T) {
	b := NewBinder()
	cases := []struct {
		control string
		device  string
	}{
		{"Space", "keyboard"},
		{"leftButton", "mouse"},
		{"button0", "gamepad"},
	}
	for _, c := range cases {
		t.Run(c.control, func(t *testing.T) {
			nb := mustBind(t, b, Descriptor{Control: c.control, Action: "act"})
			if nb.DeviceName() != c.device {
				t.Fatalf("device = %q, want %q", nb.DeviceName(), c.device)
			}
			if nb.EventType() != EventPressed {
				t.Fatalf("default event type should be pressed, got %q", nb.EventType())
			}
		})
	}
}

func TestBindErrors(t *testing.T) {
	b := NewBinder()
	cases := []struct {
		name string
		desc Descriptor
		want error
	}{
		{"no_action", Descriptor{Control: "Space"}, ErrInvalidAction},
		{"no_control", Descriptor{Action: "jump"}, ErrMissingControl},
		{"one_constituent", Descriptor{Action: "save", Controls: []ControlRef{{Device: "keyboard", Control: "KeyS"}}}, ErrTooFewControls},
		{"empty_constituent", Descriptor{Action: "save", Controls: []ControlRef{{Device: "keyboard", Control: "KeyS"}, {}}}, ErrMalformedControl},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := b.Bind(c.desc); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
			if b.Len() != 0 {
				t.Fatalf("failed bind must not store anything")
			}
		})
	}
}

func TestBindComboErrors(t *testing.T) {
	b := NewBinder()
	cases := []struct {
		name     string
		controls []string
		action   string
		want     error
	}{
		{"too_few", []string{"KeyS"}, "save", ErrTooFewControls},
		{"empty_action", []string{"ControlLeft", "KeyS"}, "", ErrInvalidAction},
		{"empty_entry", []string{"ControlLeft", ""}, "save", ErrMalformedControl},
		{"missing_control", []string{"keyboard:", "KeyS"}, "save", ErrMalformedControl},
		{"missing_device", []string{":KeyS", "KeyA"}, "save", ErrMalformedControl},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := b.BindCombo(c.controls, c.action, "", EventPressed); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestBindComboNormalizes(t *testing.T) {
	b := NewBinder()
	nb, err := b.BindCombo([]string{"ControlLeft", "mouse:leftButton", "button3"}, "grab", "p1", "")
	if err != nil {
		t.Fatalf("BindCombo: %v", err)
	}
	want := []ControlRef{
		{Device: "keyboard", Control: "ControlLeft"},
		{Device: "mouse", Control: "leftButton"},
		{Device: "gamepad", Control: "button3"},
	}
	got := nb.Controls()
	if len(got) != len(want) {
		t.Fatalf("controls = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("control %d = %v, want %v", i, got[i], want[i])
		}
	}
	if nb.DeviceName() != CompositeDevice {
		t.Fatalf("composite device = %q", nb.DeviceName())
	}
	if nb.ControlName() != "combo(keyboard:ControlLeft+mouse:leftButton+gamepad:button3)" {
		t.Fatalf("unexpected combo name %q", nb.ControlName())
	}
	if nb.Key() != "pressed:grab:p1" {
		t.Fatalf("unexpected key %q", nb.Key())
	}
}

func TestBindOverwrites(t *testing.T) {
	b := NewBinder()
	first := mustBind(t, b, Descriptor{Control: "Space", Action: "jump"})
	second := mustBind(t, b, Descriptor{Control: "Space", Action: "jump"})
	mustBind(t, b, Descriptor{Control: "Space", Action: "jump", Controller: "p2"})
	mustBind(t, b, Descriptor{Control: "Space", Action: "dash"})

	if b.Len() != 3 {
		t.Fatalf("expected 3 bindings, got %d", b.Len())
	}
	got := b.BindingsForInput("keyboard", "Space", EventPressed)
	if len(got) != 3 {
		t.Fatalf("expected 3 bindings for Space, got %d", len(got))
	}
	for _, nb := range got {
		if nb == first {
			t.Fatalf("overwritten binding still indexed")
		}
	}
	if b.Binding(Query{Device: "keyboard", Control: "Space", Action: "jump"}) != second {
		t.Fatalf("expected last write to win")
	}
	if !indexesConsistent(b) {
		t.Fatalf("indexes out of sync after overwrite")
	}
}

func TestBindingsForInputOrdersDirectFirst(t *testing.T) {
	b := NewBinder()
	combo, err := b.BindCombo([]string{"ControlLeft", "KeyS"}, "save", "editor", EventPressed)
	if err != nil {
		t.Fatalf("BindCombo: %v", err)
	}
	direct := mustBind(t, b, Descriptor{Control: "KeyS", Action: "moveDown"})

	got := b.BindingsForInput("keyboard", "KeyS", EventPressed)
	if len(got) != 2 || got[0] != direct || got[1] != combo {
		t.Fatalf("expected direct before composite, got %v", got)
	}
	if got := b.BindingsForInput("keyboard", "ControlLeft", EventPressed); len(got) != 1 || got[0] != combo {
		t.Fatalf("composite must be reachable from each constituent, got %v", got)
	}
	if got := b.BindingsForInput(CompositeDevice, combo.ControlName(), EventPressed); len(got) != 1 || got[0] != combo {
		t.Fatalf("composite must be reachable from its combo key, got %v", got)
	}
	if got := b.BindingsForInput("keyboard", "KeyS", EventReleased); len(got) != 0 {
		t.Fatalf("released lookup should be empty, got %v", got)
	}
}

func TestBindingsForAction(t *testing.T) {
	b := NewBinder()
	global := mustBind(t, b, Descriptor{Control: "Space", Action: "jump"})
	p1 := mustBind(t, b, Descriptor{Control: "KeyW", Action: "jump", Controller: "player1"})
	p2 := mustBind(t, b, Descriptor{Control: "ArrowUp", Action: "jump", Controller: "player2"})
	mustBind(t, b, Descriptor{Control: "Space", Action: "jump", Event: EventReleased})

	if got := b.BindingsForAction("jump", EventPressed); len(got) != 3 {
		t.Fatalf("any-controller lookup = %v", got)
	}
	if got := b.BindingsForController("jump", "", EventPressed); len(got) != 1 || got[0] != global {
		t.Fatalf("global lookup = %v", got)
	}
	if got := b.BindingsForController("jump", "player1", EventPressed); len(got) != 1 || got[0] != p1 {
		t.Fatalf("player1 lookup = %v", got)
	}
	if got := b.BindingsForController("jump", "player2", EventPressed); len(got) != 1 || got[0] != p2 {
		t.Fatalf("player2 lookup = %v", got)
	}
	if got := b.BindingsForAction("jump", EventReleased); len(got) != 1 {
		t.Fatalf("released lookup = %v", got)
	}
	if got := b.BindingsForAction("missing", EventPressed); len(got) != 0 {
		t.Fatalf("unknown action should be empty, got %v", got)
	}
}

func TestBindingLookup(t *testing.T) {
	b := NewBinder()
	first := mustBind(t, b, Descriptor{Control: "KeyW", Action: "moveUp"})
	mustBind(t, b, Descriptor{Control: "ArrowUp", Action: "moveUp"})

	if got := b.Binding(Query{Action: "moveUp"}); got != first {
		t.Fatalf("action lookup should return first inserted, got %v", got)
	}
	if got := b.Binding(Query{Control: "ArrowUp", Action: "moveUp"}); got == nil || got.ControlName() != "ArrowUp" {
		t.Fatalf("exact lookup failed, got %v", got)
	}
	if got := b.Binding(Query{Action: "nope"}); got != nil {
		t.Fatalf("unknown action should be nil, got %v", got)
	}
	if got := b.Binding(Query{}); got != nil {
		t.Fatalf("empty query should be nil, got %v", got)
	}
}

func TestUnbind(t *testing.T) {
	b := NewBinder()
	mustBind(t, b, Descriptor{Control: "Space", Action: "jump"})
	combo, _ := b.BindCombo([]string{"ControlLeft", "KeyS"}, "save", "", EventPressed)

	var removed []*Binding
	b.Removed.Connect(func(nb *Binding) { removed = append(removed, nb) })

	if b.Unbind(Query{Control: "Space", Action: "dash"}) {
		t.Fatalf("unbinding a missing binding should return false")
	}
	if b.Len() != 2 || len(removed) != 0 {
		t.Fatalf("failed unbind must not change state")
	}
	if !b.Unbind(Query{Controls: combo.Controls(), Action: "save"}) {
		t.Fatalf("expected composite unbind to succeed")
	}
	if got := b.BindingsForInput("keyboard", "ControlLeft", EventPressed); len(got) != 0 {
		t.Fatalf("composite constituent index not cleared: %v", got)
	}
	if !b.Unbind(Query{Action: "jump"}) {
		t.Fatalf("expected action unbind to succeed")
	}
	if b.Len() != 0 || len(removed) != 2 {
		t.Fatalf("expected empty binder and 2 removals, got %d/%d", b.Len(), len(removed))
	}
	if len(b.byInput) != 0 || len(b.byAction) != 0 || len(b.byActionAny) != 0 {
		t.Fatalf("indexes must be empty")
	}
}

func TestBinderIndexConsistency(t *testing.T) {
	b := NewBinder()
	ops := []func(){
		func() { b.Bind(Descriptor{Control: "KeyA", Action: "left"}) },
		func() { b.Bind(Descriptor{Control: "KeyD", Action: "right", Controller: "p1"}) },
		func() { b.BindCombo([]string{"KeyA", "KeyD"}, "both", "p1", EventPressed) },
		func() { b.Bind(Descriptor{Control: "KeyA", Action: "left"}) },
		func() { b.Unbind(Query{Control: "KeyD", Action: "right", Controller: "p1"}) },
		func() { b.BindCombo([]string{"KeyA", "KeyA"}, "double", "", EventReleased) },
		func() { b.Unbind(Query{Action: "both", Controller: "p1"}) },
		func() { b.Unbind(Query{Action: "never"}) },
	}
	for i, op := range ops {
		op()
		if !indexesConsistent(b) {
			t.Fatalf("indexes out of sync after op %d", i)
		}
	}
	if got := b.BindingsForInput("keyboard", "KeyA", EventReleased); len(got) != 1 {
		t.Fatalf("duplicate constituent must be indexed once, got %d", len(got))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := NewBinder()
	mustBind(t, src, Descriptor{Control: "Space", Action: "jump"})
	mustBind(t, src, Descriptor{Control: "Space", Action: "jump", Event: EventReleased})
	mustBind(t, src, Descriptor{Control: "button0", Action: "jump", Controller: "player2"})
	if _, err := src.BindCombo([]string{"ControlLeft", "KeyS"}, "save", "editor", EventPressed); err != nil {
		t.Fatalf("BindCombo: %v", err)
	}

	dst := NewBinder()
	if err := dst.Import(src.Export()); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if dst.Len() != src.Len() {
		t.Fatalf("expected %d bindings, got %d", src.Len(), dst.Len())
	}
	for _, nb := range src.AllBindings() {
		twin := dst.Binding(Query{Device: nb.DeviceName(), Control: nb.ControlName(), Action: nb.ActionName(), Controller: nb.ControllerName(), Event: nb.EventType()})
		if twin == nil || twin.ID() != nb.ID() {
			t.Fatalf("binding %s missing after import", nb.ID())
		}
		if len(dst.BindingsForInput(nb.DeviceName(), nb.ControlName(), nb.EventType())) !=
			len(src.BindingsForInput(nb.DeviceName(), nb.ControlName(), nb.EventType())) {
			t.Fatalf("input resolution differs for %s", nb.ID())
		}
		for _, ref := range nb.Controls() {
			if len(dst.BindingsForInput(ref.Device, ref.Control, nb.EventType())) !=
				len(src.BindingsForInput(ref.Device, ref.Control, nb.EventType())) {
				t.Fatalf("constituent resolution differs for %s", ref)
			}
		}
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	b := NewBinder()
	err := b.Import(Snapshot{Bindings: []Descriptor{
		{Control: "Space", Action: "jump"},
		{Control: "KeyX"},
	}})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("failed import must not bind anything, got %d", b.Len())
	}
}

func TestBinderClear(t *testing.T) {
	b := NewBinder()
	mustBind(t, b, Descriptor{Control: "Space", Action: "jump"})
	mustBind(t, b, Descriptor{Control: "KeyE", Action: "use"})
	removed := 0
	b.Removed.Connect(func(*Binding) { removed++ })
	b.Clear()
	if b.Len() != 0 || removed != 2 || b.IsClaimed("keyboard", "Space") {
		t.Fatalf("Clear left state behind: len=%d removed=%d", b.Len(), removed)
	}
}
