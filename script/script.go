package script

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/ggcrunchy/solar2d-boilerplate/level"
	"github.com/ggcrunchy/solar2d-boilerplate/leveldata"
	"github.com/ggcrunchy/solar2d-boilerplate/obj"
)

// Hook scripts define a top-level `hooks` map with any subset of the
// lifecycle functions:
//
//	hooks := {
//	    before_entering: func(engine, state) { ... },
//	    add_things:      func(engine, state) { ... },
//	    on_decode:       func(blob) { ... },  // returns a level record
//	    cleanup:         func(engine, state) { ... },
//	    reset_level:     func(engine, state) { ... }
//	}
//
// Absent entries are no-ops. The dispatch trampoline below selects the phase
// per run.
const hookDispatchScript = `
__result = undefined
if __phase == "on_decode" {
	fn := hooks["on_decode"]
	if !is_undefined(fn) {
		__result = fn(__blob)
	}
} else if __phase != "" {
	fn := hooks[__phase]
	if !is_undefined(fn) {
		fn(__engine, __state)
	}
}
`

// Runtime is a compiled hook script. The state map persists across phases of
// one runtime, so before_entering can stash values add_things reads later.
type Runtime struct {
	compiled *tengo.Compiled
	state    *tengo.Map
	resolved map[string]any
}

// Load reads and compiles a hook script from disk.
func Load(path string) (*Runtime, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return New(src)
}

// New compiles hook script source.
func New(src []byte) (*Runtime, error) {
	full := string(src) + "\n" + hookDispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	_ = s.Add("__blob", "")
	_ = s.Add("__result", nil)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return &Runtime{
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		resolved: map[string]any{},
	}, nil
}

// Resolved returns the objects captured by the script's deferred lookups,
// keyed by reference name.
func (r *Runtime) Resolved() map[string]any {
	if r == nil {
		return nil
	}
	return r.resolved
}

// Hooks adapts the runtime into the controller's hook set.
func (r *Runtime) Hooks() level.Hooks {
	return level.Hooks{
		BeforeEntering: func(view any, ctx *level.Context, data *leveldata.Level) error {
			_, err := r.call("before_entering", &env{view: view, ctx: ctx, data: data, rt: r})
			return err
		},
		AddThings: func(view any, params *level.Params, data *leveldata.Level) error {
			_, err := r.call("add_things", &env{view: view, ctx: params.Context(), params: params, data: data, rt: r})
			return err
		},
		OnDecode: func(blob string) (*leveldata.Level, error) {
			return r.decode(blob)
		},
		Cleanup: func(ctx *level.Context) {
			if _, err := r.call("cleanup", &env{ctx: ctx, rt: r}); err != nil {
				log.Printf("script: cleanup hook: %v", err)
			}
		},
		ResetLevel: func() {
			if _, err := r.call("reset_level", &env{rt: r}); err != nil {
				log.Printf("script: reset_level hook: %v", err)
			}
		},
	}
}

// decode runs the script's on_decode function and converts its result into a
// level record via a JSON round trip. An absent function falls back to the
// plain JSON decoder.
func (r *Runtime) decode(blob string) (*leveldata.Level, error) {
	res, err := r.call("on_decode", &env{rt: r, blob: blob})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return leveldata.Decode(blob)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("script: on_decode result: %w", err)
	}
	return leveldata.Decode(string(b))
}

func (r *Runtime) call(phase string, e *env) (any, error) {
	if r == nil || r.compiled == nil {
		return nil, fmt.Errorf("script: nil runtime")
	}
	if err := r.compiled.Set("__phase", phase); err != nil {
		return nil, err
	}
	if err := r.compiled.Set("__engine", buildEngine(e)); err != nil {
		return nil, err
	}
	if err := r.compiled.Set("__state", r.state); err != nil {
		return nil, err
	}
	if err := r.compiled.Set("__blob", e.blob); err != nil {
		return nil, err
	}
	if err := r.compiled.Run(); err != nil {
		return nil, fmt.Errorf("script: %s: %w", phase, err)
	}
	v := r.compiled.Get("__result")
	if v == nil || v.IsUndefined() {
		return nil, nil
	}
	return v.Value(), nil
}

// env is the per-call context exposed to the script through the engine
// functions. Fields absent in a given phase leave the matching functions as
// no-ops.
type env struct {
	rt     *Runtime
	view   any
	ctx    *level.Context
	params *level.Params
	data   *leveldata.Level
	blob   string
}

func (e *env) root() *obj.Group {
	g, _ := e.view.(*obj.Group)
	return g
}

func buildEngine(e *env) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["set_dims"] = &tengo.UserFunction{Name: "set_dims", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.ctx == nil || len(args) < 4 {
			return tengo.FalseValue, nil
		}
		e.ctx.SetDims(asInt(args[0]), asInt(args[1]), asInt(args[2]), asInt(args[3]))
		return tengo.TrueValue, nil
	}}

	values["dims"] = &tengo.UserFunction{Name: "dims", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.data == nil {
			return &tengo.Array{Value: []tengo.Object{&tengo.Int{}, &tengo.Int{}}}, nil
		}
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Int{Value: int64(e.data.Width)},
			&tengo.Int{Value: int64(e.data.Height)},
		}}, nil
	}}

	values["group"] = &tengo.UserFunction{Name: "group", Value: func(args ...tengo.Object) (tengo.Object, error) {
		root := e.root()
		if e.ctx == nil || root == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := asString(args[0])
		if name == "" {
			return tengo.FalseValue, nil
		}
		if e.ctx.Group(name) == nil {
			g := obj.NewGroup(name)
			root.Add(g)
			e.ctx.AddGroup(name, g)
		}
		return &tengo.String{Value: name}, nil
	}}

	values["tile_layer"] = &tengo.UserFunction{Name: "tile_layer", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.ctx == nil || e.data == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		idx := asInt(args[0])
		if idx < 0 || idx >= len(e.data.Layers) {
			return tengo.FalseValue, nil
		}
		name := e.data.LayerName(idx)
		if len(args) > 1 {
			name = asString(args[1])
		}
		var colorHex string
		var parallax float64
		if idx < len(e.data.LayerMeta) {
			colorHex = e.data.LayerMeta[idx].Color
			parallax = e.data.LayerMeta[idx].Parallax
		}
		ly := obj.NewTileLayer(name, e.data.Width, e.data.Height, e.data.TileW, e.data.Layers[idx], colorHex, parallax)
		if tiles, ok := e.ctx.Group(obj.GroupTiles).(*obj.Group); ok {
			tiles.Add(ly)
		} else if root := e.root(); root != nil {
			root.Add(ly)
		}
		e.ctx.AddLayer(name, ly)
		return &tengo.String{Value: name}, nil
	}}

	values["sprite"] = &tengo.UserFunction{Name: "sprite", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.ctx == nil || len(args) < 4 {
			return tengo.FalseValue, nil
		}
		name, kind := asString(args[0]), asString(args[1])
		sp := obj.NewSprite(name, kind, asInt(args[2]), asInt(args[3]))
		if things, ok := e.ctx.Group(obj.GroupThings).(*obj.Group); ok {
			things.Add(sp)
		} else if root := e.root(); root != nil {
			root.Add(sp)
		}
		if name != "" && e.params != nil {
			e.params.Publish(name, sp)
		}
		return tengo.TrueValue, nil
	}}

	values["publish"] = &tengo.UserFunction{Name: "publish", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.params == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		name := asString(args[0])
		if name == "" {
			return tengo.FalseValue, nil
		}
		e.params.Publish(name, tengo.ToInterface(args[1]))
		return tengo.TrueValue, nil
	}}

	values["deferred"] = &tengo.UserFunction{Name: "deferred", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.params == nil || e.rt == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := asString(args[0])
		if name == "" {
			return tengo.FalseValue, nil
		}
		e.params.Defer(name, func(o any) { e.rt.resolved[name] = o })
		return tengo.TrueValue, nil
	}}

	values["set_data"] = &tengo.UserFunction{Name: "set_data", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.ctx == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		table, ok := e.ctx.GetOrAddData(asString(args[0]), level.DataTable, nil).(map[string]any)
		if !ok {
			return tengo.FalseValue, nil
		}
		table[asString(args[1])] = tengo.ToInterface(args[2])
		return tengo.TrueValue, nil
	}}

	values["get_data"] = &tengo.UserFunction{Name: "get_data", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if e.ctx == nil || len(args) < 2 {
			return tengo.UndefinedValue, nil
		}
		table, ok := e.ctx.GetOrAddData(asString(args[0]), level.DataTable, nil).(map[string]any)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		v, err := tengo.FromInterface(table[asString(args[1])])
		if err != nil {
			return tengo.UndefinedValue, nil
		}
		return v, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func asString(o tengo.Object) string {
	if s, ok := o.(*tengo.String); ok {
		return s.Value
	}
	if s, ok := tengo.ToString(o); ok {
		return s
	}
	return ""
}

func asInt(o tengo.Object) int {
	if i, ok := tengo.ToInt(o); ok {
		return i
	}
	return 0
}
