package level

import "log"

// Refs is a deferred-resolution registry of cross-references recorded while a
// level's runtime objects are being constructed. An object publishes itself
// under a name; other objects defer a lookup against that name instead of
// depending on construction order. Resolution happens exactly once, after all
// objects are added and before listeners hear that things are loaded.
type Refs struct {
	published map[string]any
	deferred  []deferredRef
	resolved  bool
}

type deferredRef struct {
	name string
	fn   func(obj any)
}

// NewRefs creates an empty registry.
func NewRefs() *Refs {
	return &Refs{}
}

// Publish records obj under name for later resolution.
func (r *Refs) Publish(name string, obj any) {
	if r == nil || name == "" || r.resolved {
		return
	}
	if r.published == nil {
		r.published = map[string]any{}
	}
	r.published[name] = obj
}

// Defer records fn to be invoked with the object published under name once
// every object exists.
func (r *Refs) Defer(name string, fn func(obj any)) {
	if r == nil || name == "" || fn == nil || r.resolved {
		return
	}
	r.deferred = append(r.deferred, deferredRef{name: name, fn: fn})
}

// resolve dispatches every deferred lookup and discards the registry's
// contents. A second call is a no-op.
func (r *Refs) resolve() {
	if r == nil || r.resolved {
		return
	}
	r.resolved = true
	for _, d := range r.deferred {
		obj, ok := r.published[d.name]
		if !ok {
			log.Printf("level: unresolved reference %q", d.name)
			continue
		}
		d.fn(obj)
	}
	r.published = nil
	r.deferred = nil
}
