package level

// Params is the parameter-lookup facade handed to object-construction hooks.
// It is bound to the live Context for the duration of one load and carries
// the deferred-reference registry objects use to find each other.
type Params struct {
	ctx  *Context
	refs *Refs
}

func newParams(ctx *Context) *Params {
	refs := NewRefs()
	ctx.refs = refs
	return &Params{ctx: ctx, refs: refs}
}

// Context returns the level context the facade is bound to.
func (p *Params) Context() *Context {
	if p == nil {
		return nil
	}
	return p.ctx
}

// GetData fetches or default-initializes an auxiliary-data entry. See
// Context.GetOrAddData for the constructor-kind semantics.
func (p *Params) GetData(name, kind string, factory func() any) any {
	if p == nil {
		return nil
	}
	return p.ctx.GetOrAddData(name, kind, factory)
}

// GetGroup returns the named group handle, or nil.
func (p *Params) GetGroup(name string) Node {
	if p == nil {
		return nil
	}
	return p.ctx.Group(name)
}

// GetLayer returns the named layer handle, or nil.
func (p *Params) GetLayer(name string) Node {
	if p == nil {
		return nil
	}
	return p.ctx.Layer(name)
}

// Publish records obj under name in the deferred-reference registry.
func (p *Params) Publish(name string, obj any) {
	if p == nil {
		return
	}
	p.refs.Publish(name, obj)
}

// Defer records fn to run with the object published under name once all
// objects have been added, before things_loaded fires.
func (p *Params) Defer(name string, fn func(obj any)) {
	if p == nil {
		return
	}
	p.refs.Defer(name, fn)
}
