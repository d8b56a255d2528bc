package level

// Stage is the lifecycle stage a level context has most recently reached.
// It is monotone within one load and resets only when a new load begins.
type Stage string

const (
	StageNone         Stage = ""
	StageEnterLevel   Stage = "enter_level"
	StageThingsLoaded Stage = "things_loaded"
	StageReadyToDraw  Stage = "ready_to_draw"
	StageReadyToGo    Stage = "ready_to_go"
)

// Lifecycle event names dispatched on the bus.
const (
	EventEnterLevel    = "enter_level"
	EventThingsLoaded  = "things_loaded"
	EventReadyToDraw   = "ready_to_draw"
	EventReadyToGo     = "ready_to_go"
	EventLevelDone     = "level_done"
	EventPreLeaveLevel = "pre_leave_level"
	EventLeaveLevel    = "leave_level"
	// EventLevelUnloaded is the external notification that the departed
	// level has been fully torn down; it releases the controller's slot.
	EventLevelUnloaded = "level_unloaded"
)

// Unload reasons.
const (
	ReasonWon  = "won"
	ReasonLost = "lost"
	ReasonQuit = "quit"
)

// Auxiliary-data constructor kinds accepted by GetOrAddData.
const (
	DataTable = "table"
	DataGroup = "group"
)

// Node is a named handle to a structural display container (a group or a
// layer). The renderer side owns the concrete object tree; the controller
// only files handles away and exposes them through the params facade.
type Node interface {
	Name() string
}

// Context describes one in-flight or loaded level. At most one exists at a
// time and it is exclusively owned by the Controller: mutated only inside the
// staged load (while loading) or the teardown sequence (while unloading).
type Context struct {
	// ID is the decimal level index, or "" when the level was loaded from
	// an encoded blob. Immutable after creation.
	ID string

	// Structural dimensions, set once in the before-entering step.
	Cols, Rows   int
	TileW, TileH int

	// Stage tags outgoing lifecycle events. Reason carries the unload
	// reason once teardown begins.
	Stage  Stage
	Reason string

	// Extra is an open slot for hook-specific data.
	Extra any

	groups   map[string]Node
	layers   map[string]Node
	data     map[string]any
	refs     *Refs
	newGroup func(name string) Node
	dimsSet  bool
	loaded   bool
}

func newContext(id string, newGroup func(name string) Node) *Context {
	return &Context{ID: id, newGroup: newGroup}
}

// SetDims records the level's structural dimensions. They are set once; later
// calls are ignored.
func (c *Context) SetDims(cols, rows, tileW, tileH int) {
	if c == nil || c.dimsSet {
		return
	}
	c.Cols, c.Rows = cols, rows
	c.TileW, c.TileH = tileW, tileH
	c.dimsSet = true
}

// IsLoaded reports whether the full staged load has completed. It is false
// during construction and again once unload begins.
func (c *Context) IsLoaded() bool {
	return c != nil && c.loaded
}

// AddGroup files a named group handle. First write wins.
func (c *Context) AddGroup(name string, n Node) {
	if c == nil || name == "" || n == nil {
		return
	}
	if c.groups == nil {
		c.groups = map[string]Node{}
	}
	if _, ok := c.groups[name]; !ok {
		c.groups[name] = n
	}
}

// AddLayer files a named layer handle. First write wins.
func (c *Context) AddLayer(name string, n Node) {
	if c == nil || name == "" || n == nil {
		return
	}
	if c.layers == nil {
		c.layers = map[string]Node{}
	}
	if _, ok := c.layers[name]; !ok {
		c.layers[name] = n
	}
}

// Group returns the named group handle, or nil.
func (c *Context) Group(name string) Node {
	if c == nil {
		return nil
	}
	return c.groups[name]
}

// Layer returns the named layer handle, or nil.
func (c *Context) Layer(name string) Node {
	if c == nil {
		return nil
	}
	return c.layers[name]
}

// GetOrAddData returns the auxiliary-data entry for name, creating it on
// first request. kind selects the constructor: DataTable builds an empty
// map[string]any, DataGroup builds a display group through the controller's
// group factory, and a non-nil factory overrides both. Once created an entry
// is never replaced; the constructor arguments are ignored on a cache hit.
func (c *Context) GetOrAddData(name, kind string, factory func() any) any {
	if c == nil || name == "" {
		return nil
	}
	if v, ok := c.data[name]; ok {
		return v
	}
	var v any
	switch {
	case factory != nil:
		v = factory()
	case kind == DataGroup && c.newGroup != nil:
		v = c.newGroup(name)
	default:
		v = map[string]any{}
	}
	if c.data == nil {
		c.data = map[string]any{}
	}
	c.data[name] = v
	return v
}
