package main

import (
	_ "embed"
	"fmt"
	"image/color"
	"log"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/inputkit/bindings"
	"github.com/milk9111/inputkit/input"
	"github.com/milk9111/inputkit/platform"
	"github.com/milk9111/inputkit/platform/ebitenplatform"
	"github.com/milk9111/inputkit/script"
	"golang.design/x/clipboard"
)

const (
	screenWidth  = 960
	screenHeight = 540
	moveSpeed    = 240.0
	dashScale    = 2.0
	bodySize     = 16.0
	maxLogLines  = 10
)

//go:embed actions.tengo
var defaultScript []byte

type options struct {
	profile string
	script  string
	debug   bool
	watch   bool
}

type Game struct {
	bus     *platform.Bus
	poller  *ebitenplatform.Poller
	sys     *input.System
	actions *script.Dispatcher
	watcher *bindings.Watcher

	profilePath string
	clipboardOK bool

	space *cp.Space
	body  *cp.Body

	lines []string
	quit  bool
}

func NewGame(opts options) (*Game, error) {
	profile, err := loadProfile(opts.profile)
	if err != nil {
		return nil, err
	}
	cfg := profile.Settings
	if opts.debug {
		cfg.Debug = true
	}

	g := &Game{profilePath: opts.profile}
	g.bus = platform.NewBus()
	g.poller = ebitenplatform.NewPoller(g.bus)
	g.sys = input.NewSystem(g.bus, nil, cfg)

	if _, err := g.sys.AddTouch("touch"); err != nil {
		return nil, err
	}
	if _, err := g.sys.AddGamepad("gamepad", g.poller); err != nil {
		return nil, err
	}
	if err := bindings.Apply(g.sys.Binder(), profile, true); err != nil {
		return nil, err
	}

	g.actions, err = loadScript(opts.script)
	if err != nil {
		return nil, err
	}
	g.actions.Actions = g.sys
	g.actions.OnCommand = g.onCommand
	g.sys.SetDispatcher(input.MultiDispatcher{input.DispatcherFunc(g.onAction), g.actions})

	if opts.watch && opts.profile != "" {
		w, err := bindings.NewWatcher(filepath.Dir(opts.profile))
		if err != nil {
			log.Printf("inputdemo: watch %s: %v", opts.profile, err)
		} else {
			g.watcher = w
		}
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("inputdemo: clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	g.space = cp.NewSpace()
	g.body = g.space.AddBody(cp.NewKinematicBody())
	g.body.SetPosition(cp.Vector{X: screenWidth / 2, Y: screenHeight / 2})

	g.sys.Start()
	return g, nil
}

func loadProfile(path string) (*bindings.Profile, error) {
	if path == "" {
		return bindings.Load(bindings.DefaultProfile)
	}
	return bindings.LoadFile(path)
}

func loadScript(path string) (*script.Dispatcher, error) {
	if path == "" {
		return script.New("actions.tengo", defaultScript)
	}
	return script.Load(path)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.sys.Dispose()
}

func (g *Game) Update() error {
	g.poller.Update()
	g.sys.Update()
	g.checkWatcher()

	if g.quit {
		return ebiten.Termination
	}

	dir := g.sys.Direction("move")
	speed := moveSpeed
	if g.sys.IsActionPressed("dash") {
		speed *= dashScale
	}
	// Screen y grows downward.
	g.body.SetVelocity(dir[0]*speed, -dir[1]*speed)
	g.space.Step(1.0 / 60.0)

	pos := g.body.Position()
	pos.X = cp.Clamp(pos.X, bodySize/2, screenWidth-bodySize/2)
	pos.Y = cp.Clamp(pos.Y, bodySize/2, screenHeight-bodySize/2)
	g.body.SetPosition(pos)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	pos := g.body.Position()
	vector.FillRect(screen, float32(pos.X-bodySize/2), float32(pos.Y-bodySize/2), bodySize, bodySize, color.RGBA{R: 80, G: 200, B: 120, A: 255}, false)

	dir := g.sys.Direction("move")
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  move: (%.2f, %.2f)  bindings: %d\n", ebiten.ActualFPS(), dir[0], dir[1], g.sys.Binder().Len())
	fmt.Fprintf(&b, "held: %s\n\n", strings.Join(g.held(), " "))
	for _, line := range g.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	ebitenutil.DebugPrint(screen, b.String())
}

// held lists pressed controls as device:control.
func (g *Game) held() []string {
	var out []string
	for _, dev := range g.sys.Manager().Devices() {
		d := dev.Base()
		for _, name := range d.PressedNames() {
			out = append(out, d.Name()+":"+name)
		}
	}
	return out
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func (g *Game) onAction(b *input.Binding, _ *platform.Event, d *input.Device) {
	dev := b.DeviceName()
	if d != nil {
		dev = d.Name()
	}
	g.logf("%s %s (%s:%s)", b.ActionName(), b.EventType(), dev, b.ControlName())

	if b.EventType() != input.EventPressed {
		return
	}
	switch b.ActionName() {
	case "copyBindings":
		g.copyBindings()
	case "reload":
		g.reload()
	case "quit":
		g.quit = true
	}
}

func (g *Game) onCommand(cmd string, _ *input.Binding) {
	g.logf("script: %s", cmd)
}

func (g *Game) copyBindings() {
	data, err := bindings.Marshal(bindings.NewProfile(g.sys.Config(), g.sys.Binder()))
	if err != nil {
		g.logf("copy failed: %v", err)
		return
	}
	if !g.clipboardOK {
		log.Printf("inputdemo: bindings\n%s", data)
		g.logf("clipboard unavailable, bindings written to log")
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.logf("copied %d bindings", g.sys.Binder().Len())
}

func (g *Game) reload() {
	if g.profilePath == "" {
		g.logf("reload: no profile file")
		return
	}
	p, err := bindings.LoadFile(g.profilePath)
	if err != nil {
		g.logf("reload failed: %v", err)
		return
	}
	if err := bindings.Apply(g.sys.Binder(), p, true); err != nil {
		g.logf("reload failed: %v", err)
		return
	}
	g.logf("reloaded %d bindings", g.sys.Binder().Len())
}

func (g *Game) checkWatcher() {
	if g.watcher == nil {
		return
	}
	for _, path := range g.watcher.Changed() {
		if filepath.Clean(path) == filepath.Clean(g.profilePath) {
			g.reload()
		}
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("inputdemo: watch error: %v", err)
	default:
	}
}

func (g *Game) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if g.sys.Config().Debug {
		log.Printf("inputdemo: %s", line)
	}
	g.lines = append(g.lines, line)
	if len(g.lines) > maxLogLines {
		g.lines = g.lines[len(g.lines)-maxLogLines:]
	}
}
