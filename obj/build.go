package obj

import (
	"fmt"

	"github.com/ggcrunchy/solar2d-boilerplate/level"
	"github.com/ggcrunchy/solar2d-boilerplate/leveldata"
)

// Built-in group names registered during level preparation.
const (
	GroupTiles  = "tiles"
	GroupThings = "things"
	GroupHUD    = "hud"
)

// Prepare is the default before-entering hook: it hangs the level's
// structural groups off the view and files their handles on the context.
func Prepare(view any, ctx *level.Context, data *leveldata.Level) error {
	root, err := viewGroup(view)
	if err != nil {
		return err
	}
	for _, name := range []string{GroupTiles, GroupThings, GroupHUD} {
		g := NewGroup(name)
		root.Add(g)
		ctx.AddGroup(name, g)
	}
	return nil
}

// BuildThings is the default add-things hook: it builds a tile layer per
// level layer into the tiles group, registers each layer on the context, and
// places entity sprites into the things group. Named entities are published
// in the deferred-reference registry so other objects can find them.
func BuildThings(view any, params *level.Params, data *leveldata.Level) error {
	if params == nil || data == nil {
		return nil
	}
	ctx := params.Context()

	tiles, err := containerGroup(params.GetGroup(GroupTiles))
	if err != nil {
		return fmt.Errorf("obj: tiles group: %w", err)
	}
	for i, layer := range data.Layers {
		name := data.LayerName(i)
		var colorHex string
		var parallax float64
		if i < len(data.LayerMeta) {
			colorHex = data.LayerMeta[i].Color
			parallax = data.LayerMeta[i].Parallax
		}
		ly := NewTileLayer(name, data.Width, data.Height, data.TileW, layer, colorHex, parallax)
		tiles.Add(ly)
		ctx.AddLayer(name, ly)
	}

	things, err := containerGroup(params.GetGroup(GroupThings))
	if err != nil {
		return fmt.Errorf("obj: things group: %w", err)
	}
	for _, ent := range data.Entities {
		sp := NewSprite(ent.Name, ent.Type, ent.X, ent.Y)
		things.Add(sp)
		if ent.Name != "" {
			params.Publish(ent.Name, sp)
		}
	}
	return nil
}

func viewGroup(view any) (*Group, error) {
	g, ok := view.(*Group)
	if !ok || g == nil {
		return nil, fmt.Errorf("obj: view is not a display group (%T)", view)
	}
	return g, nil
}

func containerGroup(n level.Node) (*Group, error) {
	g, ok := n.(*Group)
	if !ok || g == nil {
		return nil, fmt.Errorf("obj: container is not a display group (%T)", n)
	}
	return g, nil
}
