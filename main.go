package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ggcrunchy/solar2d-boilerplate/config"
	"github.com/ggcrunchy/solar2d-boilerplate/level"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults apply when empty)")
	levelArg := flag.String("level", "", "level to load at startup: a catalog number or a JSON file path")
	debug := flag.Bool("debug", false, "enable debug mode (FPS readout, overlays suppressed)")
	editor := flag.Bool("editor", false, "enter levels as the editor (watches level files, skips overlays)")
	quickTest := flag.Bool("quicktest", false, "enter levels as a quick test from the editor")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = c
	}

	origin := level.OriginNormal
	switch {
	case *editor:
		origin = level.OriginEditor
	case *quickTest:
		origin = level.OriginQuickTest
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("solar2d-boilerplate")

	game, err := NewGame(cfg, origin, *levelArg, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if game.watcher != nil {
			_ = game.watcher.Close()
		}
	}()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
