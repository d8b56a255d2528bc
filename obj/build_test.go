package obj

import (
	"testing"

	"github.com/ggcrunchy/solar2d-boilerplate/event"
	"github.com/ggcrunchy/solar2d-boilerplate/level"
	"github.com/ggcrunchy/solar2d-boilerplate/leveldata"
)

func buildLevel(t *testing.T, blob string) (*level.Controller, *Group) {
	t.Helper()
	root := NewGroup("view")
	c := level.NewController(level.Options{
		Bus:    event.NewBus(),
		Source: leveldata.NewCatalog(),
		Hooks: level.Hooks{
			BeforeEntering: Prepare,
			AddThings:      BuildThings,
		},
		NewGroup: func(name string) level.Node { return NewGroup(name) },
	})
	if err := c.LoadLevel(root, blob); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	for i := 0; i < 32 && !c.Context().IsLoaded(); i++ {
		c.Update()
	}
	if !c.Context().IsLoaded() {
		t.Fatalf("load did not finish: %v", c.Err())
	}
	return c, root
}

func TestPrepareRegistersGroups(t *testing.T) {
	c, root := buildLevel(t, `{"width":2,"height":2,"layers":[[0,0,1,1]]}`)
	ctx := c.Context()

	for _, name := range []string{GroupTiles, GroupThings, GroupHUD} {
		if ctx.Group(name) == nil {
			t.Fatalf("group %q not registered on the context", name)
		}
		if root.Child(name) == nil {
			t.Fatalf("group %q not attached to the view", name)
		}
	}
}

func TestBuildThingsLayersAndEntities(t *testing.T) {
	blob := `{
		"width": 2, "height": 2,
		"layers": [[0,0,1,1],[1,0,0,0]],
		"layer_meta": [{"name":"ground"},{"name":"decor","parallax":0.5}],
		"entities": [
			{"type":"spawn","name":"start","x":0,"y":0},
			{"type":"trophy","name":"goal","x":1,"y":1},
			{"type":"spike","x":1,"y":0}
		]
	}`
	c, root := buildLevel(t, blob)
	ctx := c.Context()

	ground, ok := ctx.Layer("ground").(*TileLayer)
	if !ok {
		t.Fatalf("expected ground tile layer, got %T", ctx.Layer("ground"))
	}
	if ground.TileAt(0, 1) != 1 || ground.TileAt(0, 0) != 0 {
		t.Fatalf("ground layer tiles misplaced")
	}
	if ctx.Layer("decor") == nil {
		t.Fatalf("decor layer not registered")
	}

	tiles := root.Child(GroupTiles).(*Group)
	if tiles.Len() != 2 {
		t.Fatalf("expected 2 tile layers in the tiles group, got %d", tiles.Len())
	}
	things := root.Child(GroupThings).(*Group)
	if things.Len() != 3 {
		t.Fatalf("expected 3 sprites in the things group, got %d", things.Len())
	}
	goal, ok := things.Child("goal").(*Sprite)
	if !ok || goal.Kind() != "trophy" {
		t.Fatalf("goal sprite missing or wrong kind: %#v", goal)
	}
}

func TestNamedEntitiesPublished(t *testing.T) {
	var resolved any
	root := NewGroup("view")
	bus := event.NewBus()
	c := level.NewController(level.Options{
		Bus:    bus,
		Source: leveldata.NewCatalog(),
		Hooks: level.Hooks{
			BeforeEntering: Prepare,
			AddThings: func(view any, params *level.Params, data *leveldata.Level) error {
				if err := BuildThings(view, params, data); err != nil {
					return err
				}
				params.Defer("goal", func(obj any) { resolved = obj })
				return nil
			},
		},
	})
	blob := `{"width":1,"height":1,"layers":[[1]],"entities":[{"type":"trophy","name":"goal","x":0,"y":0}]}`
	if err := c.LoadLevel(root, blob); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	for i := 0; i < 32 && !c.Context().IsLoaded(); i++ {
		c.Update()
	}
	sp, ok := resolved.(*Sprite)
	if !ok || sp.Name() != "goal" {
		t.Fatalf("deferred lookup should resolve to the published sprite, got %#v", resolved)
	}
}

func TestGroupChildManagement(t *testing.T) {
	g := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	g.Add(a)
	g.Add(b)
	if g.Len() != 2 || g.Child("b") != Node(b) {
		t.Fatalf("unexpected group contents")
	}
	g.Remove(a)
	if g.Len() != 1 || g.Child("a") != nil {
		t.Fatalf("remove should drop the child")
	}
}
