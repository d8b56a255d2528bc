package level

// Presenter shows a modal overlay. The implementation must invoke onDone
// exactly once per request, with the argument it was handed.
type Presenter interface {
	ShowOverlay(name string, onDone func(arg any), arg any)
}

// OverlaySync coordinates optional modal overlays with the staged procedures
// so loading and end-of-level visuals never race object construction. It
// holds no state between requests; repeated requests are independent.
type OverlaySync struct {
	presenter Presenter
	// suppressed reports the debug flag that converts overlay waits into
	// immediate completion.
	suppressed func() bool
	// normalPlay reports whether the current entry context is normal play;
	// editor and quick-test runs skip overlays.
	normalPlay func() bool
}

// Request shows the named overlay and arranges for onDone(arg) to run when it
// completes. With an empty name, a non-normal entry context, a set
// suppression flag, or no presenter, completion is synchronous.
func (o *OverlaySync) Request(name string, onDone func(arg any), arg any) {
	if o == nil || name == "" || o.presenter == nil ||
		(o.suppressed != nil && o.suppressed()) ||
		(o.normalPlay != nil && !o.normalPlay()) {
		if onDone != nil {
			onDone(arg)
		}
		return
	}
	o.presenter.ShowOverlay(name, onDone, arg)
}
