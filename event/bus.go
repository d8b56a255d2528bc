package event

// Handler receives the payload of a dispatched event. It is an alias so any
// func(payload any) subscribes directly.
type Handler = func(payload any)

// Bus routes named events to registered handlers. Dispatch is synchronous:
// handlers run in registration order before Dispatch returns, so a handler
// invoked mid-frame observes the sender's current state.
type Bus struct {
	handlers map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for the named event.
func (b *Bus) Subscribe(name string, h Handler) {
	if b == nil || name == "" || h == nil {
		return
	}
	if b.handlers == nil {
		b.handlers = map[string][]Handler{}
	}
	b.handlers[name] = append(b.handlers[name], h)
}

// Dispatch delivers payload to every handler registered for name.
func (b *Bus) Dispatch(name string, payload any) {
	if b == nil || b.handlers == nil {
		return
	}
	for _, h := range b.handlers[name] {
		if h != nil {
			h(payload)
		}
	}
}
