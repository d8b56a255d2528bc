package obj

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ggcrunchy/solar2d-boilerplate/common"
)

// TileLayer renders one flat tile array (row-major, Width*Height) with an
// optional parallax factor. Tile value 0 is empty; any other value draws the
// layer's tile image.
type TileLayer struct {
	name     string
	width    int
	height   int
	tileSize int
	parallax float64
	tiles    []int
	colorHex string

	// built on first draw so layers can be constructed headless
	tileImg *ebiten.Image
}

// NewTileLayer builds a layer from tile data. tileSize of zero falls back to
// the default tile size; parallax of zero means locked to the camera.
func NewTileLayer(name string, width, height, tileSize int, tiles []int, colorHex string, parallax float64) *TileLayer {
	if tileSize <= 0 {
		tileSize = common.TileSize
	}
	if parallax <= 0 {
		parallax = 1.0
	}
	return &TileLayer{
		name:     name,
		width:    width,
		height:   height,
		tileSize: tileSize,
		parallax: parallax,
		tiles:    tiles,
		colorHex: colorHex,
	}
}

func (ly *TileLayer) Name() string {
	if ly == nil {
		return ""
	}
	return ly.name
}

// TileAt returns the tile value at x,y, or 0 out of bounds.
func (ly *TileLayer) TileAt(x, y int) int {
	if ly == nil || x < 0 || y < 0 || x >= ly.width || y >= ly.height {
		return 0
	}
	idx := y*ly.width + x
	if idx >= len(ly.tiles) {
		return 0
	}
	return ly.tiles[idx]
}

// Update is a placeholder for per-layer update logic (e.g., animated tiles).
func (ly *TileLayer) Update() {}

// Draw renders the layer. camX/camY are the camera view's top-left in world
// coordinates.
func (ly *TileLayer) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	if ly == nil || len(ly.tiles) != ly.width*ly.height {
		return
	}
	if zoom <= 0 {
		zoom = 1
	}
	if ly.tileImg == nil {
		ly.tileImg = layerImageFromHex(ly.tileSize, ly.colorHex)
	}
	offsetX := -camX * ly.parallax
	offsetY := -camY * ly.parallax

	for y := 0; y < ly.height; y++ {
		for x := 0; x < ly.width; x++ {
			if ly.tiles[y*ly.width+x] == 0 {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(zoom, zoom)
			op.GeoM.Translate((float64(x*ly.tileSize)+offsetX)*zoom, (float64(y*ly.tileSize)+offsetY)*zoom)
			screen.DrawImage(ly.tileImg, op)
		}
	}
}

// layerImageFromHex creates an image filled with the provided hex color ("#rrggbb").
func layerImageFromHex(size int, hex string) *ebiten.Image {
	img := ebiten.NewImage(size, size)
	img.Fill(parseHexColor(hex))
	return img
}

// parseHexColor parses a color in the form #rrggbb. Returns opaque blue if parse fails.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x00, 0x00, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
