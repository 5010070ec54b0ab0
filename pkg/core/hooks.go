package core

import "sync"

// Disposable is anything holding resources that must be released when its
// owning state leaves the tree.
type Disposable interface {
	Dispose()
}

// Listenable is a minimal change-notification source. AddListener returns
// the unsubscribe function.
type Listenable interface {
	AddListener(listener func()) func()
}

// Observable holds a value and notifies listeners when it changes.
// Observable is safe for concurrent use; listeners run on the goroutine
// that calls Set.
type Observable[T any] struct {
	mu        sync.Mutex
	value     T
	nextToken int
	listeners map[int]func(T)
}

// NewObservable creates an observable holding the initial value.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set stores a new value and notifies all listeners.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	o.value = value
	listeners := make([]func(T), 0, len(o.listeners))
	for _, l := range o.listeners {
		listeners = append(listeners, l)
	}
	o.mu.Unlock()
	for _, l := range listeners {
		l(value)
	}
}

// AddListener registers a listener and returns its unsubscribe function.
func (o *Observable[T]) AddListener(listener func(T)) func() {
	o.mu.Lock()
	token := o.nextToken
	o.nextToken++
	o.listeners[token] = listener
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.listeners, token)
		o.mu.Unlock()
	}
}

// UseDisposable creates a resource in InitState and registers it for
// automatic disposal when the state is disposed.
//
// Example:
//
//	func (s *feedState) InitState() {
//	    s.conn = core.UseDisposable(s, func() *feedConn {
//	        return dialFeed(s.CurrentWidget().(Feed).URL)
//	    })
//	}
func UseDisposable[D Disposable](s stateBase, create func() D) D {
	base := s.state()
	resource := create()
	base.OnDispose(func() {
		resource.Dispose()
	})
	return resource
}

// UseListenable subscribes the state to a listenable so notifications
// trigger rebuilds. Call this once in InitState; the subscription is
// released when the state is disposed.
func UseListenable(s stateBase, listenable Listenable) {
	base := s.state()
	unsub := listenable.AddListener(func() {
		base.SetState(nil)
	})
	base.OnDispose(unsub)
}

// UseObservable subscribes the state to an observable so value changes
// trigger rebuilds. Call this once in InitState; the subscription is
// released when the state is disposed.
func UseObservable[T any](s stateBase, obs *Observable[T]) {
	base := s.state()
	unsub := obs.AddListener(func(T) {
		base.SetState(nil)
	})
	base.OnDispose(unsub)
}

// Managed holds a value for a single state and triggers that state's
// rebuild when it changes. Unlike Observable it is not thread-safe; update
// it only from the owner's scheduling goroutine.
type Managed[T any] struct {
	base  *StateBase
	value T
}

// NewManaged creates a managed value bound to the given state.
func NewManaged[T any](s stateBase, initial T) *Managed[T] {
	return &Managed[T]{
		base:  s.state(),
		value: initial,
	}
}

// Value returns the current value.
func (m *Managed[T]) Value() T {
	return m.value
}

// Set stores a new value and triggers a rebuild.
func (m *Managed[T]) Set(value T) {
	m.value = value
	m.base.SetState(nil)
}

// Update applies a transformation and triggers a rebuild.
func (m *Managed[T]) Update(transform func(T) T) {
	m.value = transform(m.value)
	m.base.SetState(nil)
}
