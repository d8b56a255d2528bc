package level

import (
	"fmt"
	"log"
	"strconv"

	"github.com/ggcrunchy/solar2d-boilerplate/leveldata"
)

// Origin describes how the current scene was entered. It selects the
// return-to destination and the overlay policy.
type Origin string

const (
	OriginNormal    Origin = "normal"
	OriginEditor    Origin = "editor"
	OriginQuickTest Origin = "quick_test"
)

// Bus dispatches named events to registered listeners.
type Bus interface {
	Dispatch(name string, payload any)
	Subscribe(name string, h func(payload any))
}

// Navigator switches the host to another scene.
type Navigator interface {
	GoTo(dest, effect string)
}

// Source yields level data by index or decodes a pre-encoded blob.
type Source interface {
	ByIndex(i int) (*leveldata.Level, error)
	Decode(blob string) (*leveldata.Level, error)
}

// Hooks are the optional lifecycle callbacks supplied by the application.
// Absent hooks are no-ops, never errors.
type Hooks struct {
	// BeforeEntering prepares the nascent context; it runs after the
	// controller seeds the dimensions from the level data.
	BeforeEntering func(view any, ctx *Context, data *leveldata.Level) error
	// AddThings populates the level with runtime objects via the facade.
	AddThings func(view any, params *Params, data *leveldata.Level) error
	// OnDecode overrides the external decoder for blob loads.
	OnDecode func(blob string) (*leveldata.Level, error)
	// Cleanup runs when the slot is released by the external unloaded
	// notification.
	Cleanup func(ctx *Context)
	// ResetLevel is the application's hot-reload hook; the controller never
	// calls it itself.
	ResetLevel func()
}

// Payload is the record carried by every lifecycle event. Each event hands
// listeners the same evolving Context, so they observe cumulative state
// rather than a snapshot.
type Payload struct {
	Ctx    *Context
	Data   *leveldata.Level // load events only
	Params *Params          // load events only
	Reason string           // unload events only
}

// Options configures a Controller. Destinations, overlay names, and the
// end-of-level delay come from the configuration surface loaded at startup.
type Options struct {
	Bus       Bus
	Navigator Navigator
	Source    Source
	Presenter Presenter
	Hooks     Hooks

	// Destinations maps an entry origin to the scene to return to after a
	// level ends; Default covers unrecognized origins. DestinationFunc,
	// when set, resolves the destination from the teardown reason instead.
	Destinations       map[Origin]string
	DefaultDestination string
	DestinationFunc    func(reason string) string

	StartOverlay string
	WonOverlay   string
	LostOverlay  string

	// EndOfLevelDelay is the number of scheduling ticks to wait before the
	// scene transition; zero transitions immediately.
	EndOfLevelDelay  int
	TransitionEffect string

	// SuppressOverlays converts all overlay waits into immediate
	// completion (debug toggle).
	SuppressOverlays bool

	// NewGroup builds the display group used for DataGroup auxiliary
	// entries.
	NewGroup func(name string) Node

	// OnFailure receives fatal stage failures in addition to the log; a
	// half-constructed level is unsafe to keep running, so the process
	// handler is expected to surface these loudly.
	OnFailure func(*StageError)
}

type controllerState int

const (
	stateEmpty controllerState = iota
	stateLoading
	stateLoaded
	stateUnloading
)

// Controller sequences level loading, readiness, and teardown. It owns
// exactly one Context slot and is driven by per-frame Update ticks.
type Controller struct {
	opts    Options
	sched   *Scheduler
	overlay *OverlaySync

	ctx      *Context
	state    controllerState
	origin   Origin
	suppress bool
	lastErr  *StageError
}

// NewController wires a controller to its collaborators and subscribes it to
// the external unloaded notification.
func NewController(opts Options) *Controller {
	c := &Controller{
		opts:     opts,
		origin:   OriginNormal,
		suppress: opts.SuppressOverlays,
	}
	c.sched = NewScheduler(c.onStageFailure)
	c.overlay = &OverlaySync{
		presenter:  opts.Presenter,
		suppressed: func() bool { return c.suppress },
		normalPlay: func() bool { return c.origin == OriginNormal },
	}
	if opts.Bus != nil {
		opts.Bus.Subscribe(EventLevelUnloaded, c.onUnloaded)
	}
	return c
}

// SetOrigin records how the current scene was entered.
func (c *Controller) SetOrigin(o Origin) {
	if c != nil {
		c.origin = o
	}
}

// Origin returns the recorded entry origin.
func (c *Controller) Origin() Origin {
	if c == nil {
		return OriginNormal
	}
	return c.origin
}

// SuppressOverlays toggles the debug flag that completes overlay requests
// synchronously.
func (c *Controller) SuppressOverlays(v bool) {
	if c != nil {
		c.suppress = v
	}
}

// Context returns the live context, or nil when the slot is empty.
func (c *Controller) Context() *Context {
	if c == nil {
		return nil
	}
	return c.ctx
}

// Err returns the fatal failure of the most recent run, if any. It clears
// when the slot is reset.
func (c *Controller) Err() error {
	if c == nil || c.lastErr == nil {
		return nil
	}
	return c.lastErr
}

// Update advances the active staged procedure by one tick. Call once per
// frame.
func (c *Controller) Update() {
	if c != nil {
		c.sched.Tick()
	}
}

// LoadLevel begins the staged load of a level. which is either an int level
// index or an encoded blob string. The call returns once the run is
// scheduled; progress is reported through lifecycle events only.
func (c *Controller) LoadLevel(view any, which any) error {
	if c == nil {
		return fmt.Errorf("level: nil controller")
	}
	switch c.state {
	case stateLoading, stateUnloading:
		return ErrAlreadyLoading
	case stateLoaded:
		return ErrAlreadyLoaded
	}
	if c.ctx != nil {
		// A failed load leaves the slot occupied until an explicit reset.
		return ErrAlreadyLoading
	}

	var id, blob string
	switch v := which.(type) {
	case int:
		id = strconv.Itoa(v)
	case string:
		blob = v
	default:
		return fmt.Errorf("level: load wants an index or an encoded blob, got %T", which)
	}

	ctx := newContext(id, c.opts.NewGroup)
	c.ctx = ctx
	c.state = stateLoading
	c.lastErr = nil

	var (
		data             *leveldata.Level
		params           *Params
		overlayRequested bool
		overlayDone      bool
	)

	steps := []step{
		{name: "resolve_data", run: func() (stepResult, error) {
			var err error
			if ctx.ID == "" {
				if c.opts.Hooks.OnDecode != nil {
					data, err = c.opts.Hooks.OnDecode(blob)
				} else if c.opts.Source != nil {
					data, err = c.opts.Source.Decode(blob)
				} else {
					err = fmt.Errorf("level: no decoder for blob load")
				}
				blob = ""
			} else {
				i, convErr := strconv.Atoi(ctx.ID)
				if convErr != nil {
					return 0, convErr
				}
				if c.opts.Source == nil {
					return 0, fmt.Errorf("level: no catalog for index load")
				}
				data, err = c.opts.Source.ByIndex(i)
			}
			return stepDone, err
		}},
		{name: "before_entering", run: func() (stepResult, error) {
			if data != nil {
				ctx.SetDims(data.Width, data.Height, data.TileW, data.TileH)
			}
			if h := c.opts.Hooks.BeforeEntering; h != nil {
				return stepDone, h(view, ctx, data)
			}
			return stepDone, nil
		}},
		{name: "make_params", run: func() (stepResult, error) {
			params = newParams(ctx)
			return stepDone, nil
		}},
		{name: "enter_level", run: func() (stepResult, error) {
			c.publish(EventEnterLevel, StageEnterLevel, data, params)
			return stepDone, nil
		}},
		{name: "add_things", run: func() (stepResult, error) {
			if h := c.opts.Hooks.AddThings; h != nil {
				return stepDone, h(view, params, data)
			}
			return stepDone, nil
		}},
		{name: "resolve_refs", run: func() (stepResult, error) {
			ctx.refs.resolve()
			ctx.refs = nil
			return stepDone, nil
		}},
		{name: "things_loaded", run: func() (stepResult, error) {
			c.publish(EventThingsLoaded, StageThingsLoaded, data, params)
			return stepDone, nil
		}},
		// Yield one full tick so elapsed construction time is not charged
		// to freshly created objects' own timers.
		{name: "settle", run: func() (stepResult, error) {
			return stepDone, nil
		}},
		{name: "ready_to_draw", run: func() (stepResult, error) {
			c.publish(EventReadyToDraw, StageReadyToDraw, data, params)
			return stepDone, nil
		}},
		{name: "start_overlay", run: func() (stepResult, error) {
			if !overlayRequested {
				overlayRequested = true
				c.overlay.Request(c.opts.StartOverlay, func(any) { overlayDone = true }, ctx)
			}
			if overlayDone {
				return stepDone, nil
			}
			return stepAgain, nil
		}},
		{name: "settle_after_overlay", run: func() (stepResult, error) {
			return stepDone, nil
		}},
		{name: "ready_to_go", run: func() (stepResult, error) {
			c.publish(EventReadyToGo, StageReadyToGo, data, params)
			ctx.loaded = true
			c.state = stateLoaded
			return stepDone, nil
		}},
	}
	return c.sched.Start("load", steps)
}

// UnloadLevel begins the staged teardown of the loaded level. reason is one
// of won, lost, or quit. Calling it on a context whose load has not completed
// (or whose unload is already in progress) is a silent no-op; calling it with
// no context or mid-load is a guard error.
func (c *Controller) UnloadLevel(reason string) error {
	if c == nil {
		return fmt.Errorf("level: nil controller")
	}
	if c.ctx == nil {
		return ErrUnloadWithoutLoad
	}
	if c.state == stateLoading && c.sched.Running() {
		return ErrUnloadWhileLoading
	}
	if !c.ctx.loaded {
		return nil
	}

	ctx := c.ctx
	ctx.loaded = false
	ctx.Reason = reason
	c.state = stateUnloading

	var overlayName string
	switch reason {
	case ReasonWon:
		overlayName = c.opts.WonOverlay
	case ReasonLost:
		overlayName = c.opts.LostOverlay
	}

	var (
		overlayRequested bool
		overlayDone      bool
		dest             string
		delay            = c.opts.EndOfLevelDelay
	)

	steps := []step{
		{name: "level_done", run: func() (stepResult, error) {
			c.publishUnload(EventLevelDone, reason)
			return stepDone, nil
		}},
		{name: "end_overlay", run: func() (stepResult, error) {
			if !overlayRequested {
				overlayRequested = true
				c.overlay.Request(overlayName, func(any) { overlayDone = true }, ctx)
			}
			if overlayDone {
				return stepDone, nil
			}
			return stepAgain, nil
		}},
		{name: "pre_leave_level", run: func() (stepResult, error) {
			c.publishUnload(EventPreLeaveLevel, reason)
			return stepDone, nil
		}},
		{name: "leave_level", run: func() (stepResult, error) {
			c.publishUnload(EventLeaveLevel, reason)
			return stepDone, nil
		}},
		{name: "resolve_destination", run: func() (stepResult, error) {
			dest = c.destination(reason)
			return stepDone, nil
		}},
		{name: "depart", run: func() (stepResult, error) {
			if delay > 0 {
				delay--
				return stepAgain, nil
			}
			if c.opts.Navigator != nil {
				c.opts.Navigator.GoTo(dest, c.opts.TransitionEffect)
			}
			return stepDone, nil
		}},
	}
	return c.sched.Start("unload", steps)
}

// destination resolves where to go after the level ends: the configured
// resolver when present, otherwise the per-origin mapping with a default for
// unrecognized origins.
func (c *Controller) destination(reason string) string {
	if c.opts.DestinationFunc != nil {
		return c.opts.DestinationFunc(reason)
	}
	if d, ok := c.opts.Destinations[c.origin]; ok && d != "" {
		return d
	}
	return c.opts.DefaultDestination
}

// publish tags the context with stage and dispatches a load lifecycle event
// carrying the live context, the level data, and the facade.
func (c *Controller) publish(name string, stage Stage, data *leveldata.Level, params *Params) {
	if stage != StageNone {
		c.ctx.Stage = stage
	}
	if c.opts.Bus != nil {
		c.opts.Bus.Dispatch(name, Payload{Ctx: c.ctx, Data: data, Params: params})
	}
}

// publishUnload dispatches an unload lifecycle event carrying the reason.
func (c *Controller) publishUnload(name, reason string) {
	if c.opts.Bus != nil {
		c.opts.Bus.Dispatch(name, Payload{Ctx: c.ctx, Reason: reason})
	}
}

// onUnloaded handles the external unloaded/reset notification: it forces the
// slot back to empty unconditionally, abandoning any active run, and invokes
// the cleanup hook if a context existed.
func (c *Controller) onUnloaded(any) {
	ctx := c.ctx
	c.ctx = nil
	c.state = stateEmpty
	c.lastErr = nil
	c.sched.reset()
	if ctx != nil && c.opts.Hooks.Cleanup != nil {
		c.opts.Hooks.Cleanup(ctx)
	}
}

// onStageFailure records and surfaces a fatal step failure. The slot stays
// occupied: a half-constructed level is unsafe to continue running, and a new
// load is rejected until an explicit reset.
func (c *Controller) onStageFailure(err *StageError) {
	c.lastErr = err
	log.Printf("%v\n%s", err, err.Stack)
	if c.opts.OnFailure != nil {
		c.opts.OnFailure(err)
	}
}
