package obj

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ggcrunchy/solar2d-boilerplate/common"
)

// Sprite is a single placed object drawn as a filled square at a tile
// position. Entity kinds map to fixed colors; unknown kinds draw magenta so
// a bad placement is obvious.
type Sprite struct {
	name string
	kind string
	X, Y int // tile coordinates
	size int

	img *ebiten.Image
}

var spriteColors = map[string]string{
	"spawn":  "#78c850",
	"trophy": "#f8d030",
	"spike":  "#f85030",
}

// NewSprite creates a sprite for an entity kind at tile x,y.
func NewSprite(name, kind string, x, y int) *Sprite {
	return &Sprite{name: name, kind: kind, X: x, Y: y, size: common.TileSize}
}

func (s *Sprite) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Kind returns the entity type the sprite was built from.
func (s *Sprite) Kind() string {
	if s == nil {
		return ""
	}
	return s.kind
}

func (s *Sprite) Update() {}

func (s *Sprite) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if s == nil {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	if s.img == nil {
		hex, ok := spriteColors[s.kind]
		if !ok {
			hex = "#ff00ff"
		}
		s.img = layerImageFromHex(s.size, hex)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(zoom, zoom)
	op.GeoM.Translate((float64(s.X*s.size)-camX)*zoom, (float64(s.Y*s.size)-camY)*zoom)
	screen.DrawImage(s.img, op)
}
