package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ggcrunchy/solar2d-boilerplate/common"
	"github.com/ggcrunchy/solar2d-boilerplate/config"
	"github.com/ggcrunchy/solar2d-boilerplate/event"
	"github.com/ggcrunchy/solar2d-boilerplate/level"
	"github.com/ggcrunchy/solar2d-boilerplate/leveldata"
	"github.com/ggcrunchy/solar2d-boilerplate/obj"
	"github.com/ggcrunchy/solar2d-boilerplate/scene"
	"github.com/ggcrunchy/solar2d-boilerplate/script"
	"github.com/ggcrunchy/solar2d-boilerplate/ui"
	"github.com/ggcrunchy/solar2d-boilerplate/watch"
)

type Game struct {
	frames int
	debug  bool
	paused bool

	cfg        *config.Config
	bus        *event.Bus
	scenes     *scene.Manager
	presenter  *ui.Presenter
	controller *level.Controller
	catalog    *leveldata.Catalog
	hooks      level.Hooks
	watcher    *watch.Watcher
	pauseUI    *ebitenui.UI

	// root is the display group the current level builds into; a fresh one
	// is made for every load.
	root *obj.Group
	// lastLevel is what was last handed to LoadLevel, kept for hot reload.
	lastLevel any
}

func NewGame(cfg *config.Config, origin level.Origin, levelArg string, debug bool) (*Game, error) {
	g := &Game{
		cfg:       cfg,
		debug:     debug,
		bus:       event.NewBus(),
		scenes:    scene.NewManager(),
		presenter: ui.NewPresenter(cfg.Overlays.Start),
	}

	if cfg.LevelsDir != "" {
		g.catalog = leveldata.NewCatalogFS(os.DirFS(cfg.LevelsDir))
	} else {
		g.catalog = leveldata.NewCatalog()
	}

	g.hooks = level.Hooks{
		BeforeEntering: obj.Prepare,
		AddThings:      obj.BuildThings,
		Cleanup:        func(*level.Context) { g.root = nil },
	}
	if cfg.HookScript != "" {
		rt, err := script.Load(cfg.HookScript)
		if err != nil {
			return nil, fmt.Errorf("hook script %s: %w", cfg.HookScript, err)
		}
		g.hooks = rt.Hooks()
		cleanup := g.hooks.Cleanup
		g.hooks.Cleanup = func(ctx *level.Context) {
			if cleanup != nil {
				cleanup(ctx)
			}
			g.root = nil
		}
	}
	scriptReset := g.hooks.ResetLevel
	g.hooks.ResetLevel = func() {
		if scriptReset != nil {
			scriptReset()
		}
		g.reloadLevel()
	}

	g.controller = level.NewController(level.Options{
		Bus:                g.bus,
		Navigator:          g.scenes,
		Source:             g.catalog,
		Presenter:          g.presenter,
		Hooks:              g.hooks,
		Destinations:       cfg.DestinationMap(),
		DefaultDestination: cfg.Destinations.Default,
		StartOverlay:       cfg.Overlays.Start,
		WonOverlay:         cfg.Overlays.Won,
		LostOverlay:        cfg.Overlays.Lost,
		EndOfLevelDelay:    cfg.EndOfLevelDelay,
		TransitionEffect:   cfg.TransitionEffect,
		SuppressOverlays:   cfg.SuppressOverlays || debug,
		NewGroup:           func(name string) level.Node { return obj.NewGroup(name) },
		OnFailure: func(err *level.StageError) {
			log.Printf("level failed during %s: %v", err.Step, err)
		},
	})
	g.controller.SetOrigin(origin)

	g.pauseUI = NewPauseUI(g)
	g.scenes.Register(&titleScene{game: g})
	g.scenes.Register(&playScene{game: g})
	g.scenes.GoTo("title", "")

	if origin != level.OriginNormal && cfg.LevelsDir != "" {
		w, err := watch.NewWatcher(cfg.LevelsDir)
		if err != nil {
			log.Printf("level watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	if levelArg != "" {
		if err := g.startLevel(levelArg); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// startLevel kicks off a load from a command-line argument: a bare number
// picks a catalog level, anything else is read from disk and decoded.
func (g *Game) startLevel(arg string) error {
	if n, err := strconv.Atoi(arg); err == nil {
		return g.loadLevel(n)
	}
	blob, err := os.ReadFile(arg)
	if err != nil {
		return fmt.Errorf("read level %s: %w", arg, err)
	}
	return g.loadLevel(string(blob))
}

func (g *Game) loadLevel(which any) error {
	g.root = obj.NewGroup("root")
	g.lastLevel = which
	g.scenes.GoTo("play", "")
	return g.controller.LoadLevel(g.root, which)
}

// reloadLevel tears the current level down without ceremony and loads it
// again from disk. Editor and quick-test sessions use it when a watched
// file changes.
func (g *Game) reloadLevel() {
	if g.lastLevel == nil {
		return
	}
	if g.controller.Context() != nil {
		g.bus.Dispatch(level.EventLevelUnloaded, nil)
	}
	if err := g.loadLevel(g.lastLevel); err != nil {
		log.Printf("reload: %v", err)
	}
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		select {
		case name := <-g.watcher.Events:
			log.Printf("changed: %s", name)
			g.hooks.ResetLevel()
		case err := <-g.watcher.Errors:
			log.Printf("watch: %v", err)
		default:
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.controller.Context() != nil {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && g.presenter.Active() {
		g.presenter.Dismiss()
	}

	g.presenter.Update()
	g.controller.Update()
	if g.root != nil {
		g.root.Update()
	}
	return g.scenes.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scenes.Draw(screen)
	g.presenter.Draw(screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
