package core

import "sync"

// State is the long-lived private state of a stateful widget. It is created
// by [StatefulWidget.CreateState] on first mount, kept across every congruent
// resync, and disposed exactly once when its element unmounts.
type State interface {
	// InitState is called once, after the state is bound to its element and
	// before the first build.
	InitState()
	// Build produces the child widget for the current state.
	Build(ctx BuildContext) Widget
	// DidUpdateWidget is called when a congruent resync replaced the
	// element's widget. The element already holds the new widget.
	DidUpdateWidget(old StatefulWidget)
	// DidChangeDependencies is called when an inherited widget this state's
	// element depends on changed.
	DidChangeDependencies()
	// Dispose releases resources. Called exactly once, on unmount.
	Dispose()
}

// MountObserver receives deferred mount-status notifications. After each
// flush (and after a root mount or unmount), the owner walks the elements
// whose mount status flipped and invokes the hook once per flip, in the
// order the flips occurred.
type MountObserver interface {
	DidMount()
	DidUnmount()
}

// stateBase is satisfied by any struct that embeds StateBase.
// Hooks and NewManaged accept stateBase so callers can pass s directly.
type stateBase interface {
	state() *StateBase
}

func (s *StateBase) state() *StateBase { return s }

// StateBase provides common functionality for stateful widget states.
// Embed this struct in your state to eliminate boilerplate.
//
// Example:
//
//	type myState struct {
//	    core.StateBase
//	    count int
//	}
type StateBase struct {
	owner     *BuildOwner
	id        ElementID
	disposers []func()
	disposed  bool
	mu        sync.Mutex
}

// SetElement binds the state to its element. Called by the framework
// during mount.
func (s *StateBase) SetElement(owner *BuildOwner, id ElementID) {
	s.owner = owner
	s.id = id
}

// Element returns the ID of the element owning this state, or NoElement
// before mount.
func (s *StateBase) Element() ElementID {
	return s.id
}

// Owner returns the BuildOwner driving this state's tree, or nil before
// mount.
func (s *StateBase) Owner() *BuildOwner {
	return s.owner
}

// CurrentWidget returns the widget currently mounted on this state's
// element.
func (s *StateBase) CurrentWidget() Widget {
	if s.owner == nil {
		return nil
	}
	return s.owner.WidgetOf(s.id)
}

// SetState executes the given function and schedules a rebuild.
// Safe to call after disposal (becomes a no-op).
//
// SetState is NOT safe for concurrent use. It must only be called from the
// goroutine driving the tree; to update state from a background goroutine,
// post through the owning loop.
func (s *StateBase) SetState(fn func()) {
	if s.disposed {
		return
	}
	if fn != nil {
		fn()
	}
	if s.owner != nil {
		s.owner.MarkNeedsBuild(s.id)
	}
}

// OnDispose registers a cleanup function to be called when the state is
// disposed. Returns an unregister function. The cleanup runs at most once.
func (s *StateBase) OnDispose(cleanup func()) func() {
	if cleanup == nil {
		return func() {}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		// Already disposed, run cleanup immediately
		cleanup()
		return func() {}
	}

	index := len(s.disposers)
	s.disposers = append(s.disposers, cleanup)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if index < len(s.disposers) {
			s.disposers[index] = nil
		}
	}
}

// RunDisposers executes all registered disposers in reverse order.
// Called automatically by Dispose.
func (s *StateBase) RunDisposers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}
	s.disposed = true

	// LIFO, mirroring acquisition order
	for i := len(s.disposers) - 1; i >= 0; i-- {
		if s.disposers[i] != nil {
			s.disposers[i]()
		}
	}
	s.disposers = nil
}

// Dispose cleans up resources. Override if you need custom cleanup, but
// always call s.RunDisposers() or s.StateBase.Dispose() in your override.
func (s *StateBase) Dispose() {
	s.RunDisposers()
}

// IsDisposed returns true if this state has been disposed.
func (s *StateBase) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// InitState is a no-op default implementation.
func (s *StateBase) InitState() {}

// Build is a no-op default implementation that returns nil.
func (s *StateBase) Build(ctx BuildContext) Widget {
	return nil
}

// DidChangeDependencies is a no-op default implementation.
func (s *StateBase) DidChangeDependencies() {}

// DidUpdateWidget is a no-op default implementation.
func (s *StateBase) DidUpdateWidget(old StatefulWidget) {}
