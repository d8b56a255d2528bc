package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ggcrunchy/solar2d-boilerplate/common"
	"github.com/ggcrunchy/solar2d-boilerplate/level"
)

// titleScene is the front menu and the landing place after a level ends.
// Arriving here from play is what tells the controller its old level is
// truly gone.
type titleScene struct {
	game *Game
}

func (s *titleScene) Name() string { return "title" }

func (s *titleScene) Enter(from string) {
	if from == "play" {
		s.game.bus.Dispatch(level.EventLevelUnloaded, nil)
	}
}

func (s *titleScene) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if err := s.game.loadLevel(1); err != nil {
			log.Printf("load: %v", err)
		}
	}
	return nil
}

func (s *titleScene) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Press Space to start", common.BaseWidth/2-60, common.BaseHeight/2)
}

func (s *titleScene) Leave() {}

// playScene hosts the loaded level. The controller builds the display
// groups; this scene just points the camera at them and feeds teardown
// reasons back when the session ends.
type playScene struct {
	game   *Game
	camera *common.Camera
}

func (s *playScene) Name() string { return "play" }

func (s *playScene) Enter(from string) {
	s.camera = common.NewCamera(common.BaseWidth, common.BaseHeight, 1)
}

func (s *playScene) Update() error {
	g := s.game
	ctx := g.controller.Context()
	if ctx == nil || !ctx.IsLoaded() {
		return nil
	}

	s.camera.SetWorldBounds(ctx.Cols*ctx.TileW, ctx.Rows*ctx.TileH)
	s.camera.Update(float64(ctx.Cols*ctx.TileW)/2, float64(ctx.Rows*ctx.TileH)/2)

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		s.unload(level.ReasonWon)
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		s.unload(level.ReasonLost)
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		s.unload(level.ReasonQuit)
	}
	return nil
}

func (s *playScene) unload(reason string) {
	if err := s.game.controller.UnloadLevel(reason); err != nil {
		log.Printf("unload: %v", err)
	}
}

func (s *playScene) Draw(screen *ebiten.Image) {
	g := s.game
	if g.root == nil {
		return
	}
	camX, camY := s.camera.ViewTopLeft()
	g.root.Draw(screen, camX, camY, s.camera.Zoom())
}

func (s *playScene) Leave() {}
