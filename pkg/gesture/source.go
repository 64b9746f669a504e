package gesture

// HandlerFunc consumes recognizer events.
type HandlerFunc func(Event)

// Handle identifies one registration with its source.
type Handle struct {
	Kind Kind
	ID   uint64
}

// Option configures a registration.
type Option func(*registration)

// SimultaneousWith declares recognizer kinds this registration is
// allowed to run at the same time as. Without it a source should treat
// overlapping gestures as exclusive.
func SimultaneousWith(kinds ...Kind) Option {
	return func(r *registration) {
		for _, k := range kinds {
			r.simultaneous[k] = true
		}
	}
}

// WaitFor declares recognizer kinds whose failure must be known before
// events for this registration are delivered. The classic use is a tap
// waiting out the double-tap window.
func WaitFor(kinds ...Kind) Option {
	return func(r *registration) {
		for _, k := range kinds {
			r.waitFor[k] = true
		}
	}
}

// Source produces gesture events. Implementations deliver each event to
// every handler registered for its kind, in registration order, and
// honour the declared relationship hints as far as the platform allows.
type Source interface {
	Register(kind Kind, fn HandlerFunc, opts ...Option) Handle
	Unregister(Handle)
}

type registration struct {
	id           uint64
	fn           HandlerFunc
	simultaneous map[Kind]bool
	waitFor      map[Kind]bool
}

// Registry is the bookkeeping shared by Source implementations.
// Registration IDs are scoped to the registry instance, so two sources
// never hand out clashing handles from shared state.
//
// Registry is not safe for concurrent use; sources drive it from the
// UI thread like everything else in this package.
type Registry struct {
	nextID   uint64
	handlers map[Kind][]registration
}

func (r *Registry) Register(kind Kind, fn HandlerFunc, opts ...Option) Handle {
	if r.handlers == nil {
		r.handlers = make(map[Kind][]registration)
	}
	r.nextID++
	reg := registration{
		id:           r.nextID,
		fn:           fn,
		simultaneous: make(map[Kind]bool),
		waitFor:      make(map[Kind]bool),
	}
	for _, opt := range opts {
		opt(&reg)
	}
	r.handlers[kind] = append(r.handlers[kind], reg)
	return Handle{Kind: kind, ID: reg.id}
}

func (r *Registry) Unregister(h Handle) {
	regs := r.handlers[h.Kind]
	for i, reg := range regs {
		if reg.id == h.ID {
			r.handlers[h.Kind] = append(regs[:i], regs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev to every handler registered for kind.
func (r *Registry) Dispatch(kind Kind, ev Event) {
	ev.Kind = kind
	for _, reg := range r.handlers[kind] {
		reg.fn(ev)
	}
}

// HandlerCount reports how many handlers are registered for kind.
func (r *Registry) HandlerCount(kind Kind) int {
	return len(r.handlers[kind])
}

// WaitsFor reports whether any handler of kind asked to wait for other.
func (r *Registry) WaitsFor(kind, other Kind) bool {
	for _, reg := range r.handlers[kind] {
		if reg.waitFor[other] {
			return true
		}
	}
	return false
}

// AllowsSimultaneous reports whether any handler of kind declared it can
// run together with other.
func (r *Registry) AllowsSimultaneous(kind, other Kind) bool {
	for _, reg := range r.handlers[kind] {
		if reg.simultaneous[other] {
			return true
		}
	}
	return false
}
