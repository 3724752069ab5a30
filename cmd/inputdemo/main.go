package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	profile := flag.String("profile", "", "bindings profile YAML on disk (embedded default when empty)")
	scriptPath := flag.String("script", "", "tengo action script (embedded default when empty)")
	debug := flag.Bool("debug", false, "log every resolved binding")
	watch := flag.Bool("watch", true, "reload the profile when its file changes")
	flag.Parse()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("inputdemo")

	game, err := NewGame(options{
		profile: *profile,
		script:  *scriptPath,
		debug:   *debug,
		watch:   *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
