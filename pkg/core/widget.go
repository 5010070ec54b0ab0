package core

import (
	"reflect"

	"github.com/go-weft/weft/pkg/render"
)

// Widget is an immutable description of one position in the tree.
//
// Two widgets are congruent when their runtime types are identical and their
// keys compare equal; congruent widgets update the same element in place,
// anything else unmounts the old element and inflates a fresh one.
type Widget interface {
	// Key distinguishes this widget from same-typed siblings. Nil keys are
	// matched positionally; non-nil keys must be unique among siblings.
	Key() any
}

// StatelessWidget composes other widgets and carries no mutable state.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget owns a long-lived State that survives congruent resyncs.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// InheritedWidget exposes a value to every descendant until shadowed by a
// nested inherited widget of the same type. Descendants subscribe through
// [BuildContext.DependOnInherited].
type InheritedWidget interface {
	Widget
	// ChildWidget returns the subtree below this scope.
	ChildWidget() Widget
	// UpdateShouldNotify reports whether the payload changed, by value,
	// relative to the previously mounted widget. Dependents are only
	// notified when it returns true.
	UpdateShouldNotify(old InheritedWidget) bool
}

// RenderWidget owns a node in the backing render tree. Its element creates
// the handle on mount, attaches it at the element's insertion slot, and
// detaches it on unmount.
//
// A render widget exposes its subtree through one of two optional shapes:
// a Child() Widget method for a single child, or a Children() []Widget
// method for an ordered sibling list (diffed by key).
type RenderWidget interface {
	Widget
	// CreateHandle creates the backing handle. Called once per element
	// lifetime, before the first attach.
	CreateHandle(ctx BuildContext) render.Handle
	// UpdateHandle pushes the widget's current field values into the handle.
	// Called on every rebuild; must not restructure the backing tree.
	UpdateHandle(ctx BuildContext, handle render.Handle)
}

// BuildContext is handed to build methods and identifies the element being
// built.
type BuildContext interface {
	// DependOnInherited returns the nearest ancestor inherited widget whose
	// runtime type matches inheritedType, registering the caller for change
	// notification until its next rebuild. Returns nil when no such
	// ancestor exists.
	DependOnInherited(inheritedType reflect.Type) InheritedWidget

	// AncestorWidget walks up the tree and returns the first ancestor
	// widget matching the predicate, or nil.
	AncestorWidget(predicate func(Widget) bool) Widget

	// Element returns the ID of the element being built.
	Element() ElementID

	// Owner returns the BuildOwner driving this tree.
	Owner() *BuildOwner
}

// canUpdate reports whether an existing widget's element can absorb the next
// widget in place.
func canUpdate(existing, next Widget) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

// isComparable reports whether the key can be used in a map lookup.
// Non-comparable keys (slices, maps, funcs) degrade to positional matching
// rather than panicking inside the key index.
func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

// sameWidget reports whether next is literally the widget the element
// already holds. Only pointer widgets carry identity; value widgets are
// recreated every build and always resync.
func sameWidget(current, next Widget) bool {
	if current == nil || next == nil {
		return false
	}
	t := reflect.TypeOf(next)
	if t != reflect.TypeOf(current) || t.Kind() != reflect.Ptr {
		return false
	}
	return current == next
}

// StatelessBase provides a default Key implementation for stateless widgets.
// Embed it in your widget struct:
//
//	type Greeting struct {
//	    core.StatelessBase
//	    Name string
//	}
//
//	func (g Greeting) Build(ctx core.BuildContext) core.Widget { ... }
type StatelessBase struct{}

// Key returns nil (no key).
func (StatelessBase) Key() any { return nil }

// StatefulBase provides a default Key implementation for stateful widgets.
type StatefulBase struct{}

// Key returns nil (no key).
func (StatefulBase) Key() any { return nil }

// InheritedBase provides a default Key implementation for inherited widgets.
// Embed it along with a Child field and implement
// [InheritedWidget.ChildWidget] and [InheritedWidget.UpdateShouldNotify]:
//
//	type UserScope struct {
//	    core.InheritedBase
//	    User  *User
//	    Child core.Widget
//	}
//
//	func (u UserScope) ChildWidget() core.Widget { return u.Child }
//
//	func (u UserScope) UpdateShouldNotify(old core.InheritedWidget) bool {
//	    return u.User != old.(UserScope).User
//	}
type InheritedBase struct{}

// Key returns nil (no key).
func (InheritedBase) Key() any { return nil }

// RenderBase provides a default Key implementation for render widgets.
type RenderBase struct{}

// Key returns nil (no key).
func (RenderBase) Key() any { return nil }

// singleUse is implemented by pointer widgets that may occupy at most one
// tree position. Updating a mounted element consumes the incoming widget, so
// a stale instance can never later be inflated as an independent element.
type singleUse interface {
	markUsed()
	isUsed() bool
}

// Stateful creates an inline stateful widget from closures. Use it for
// small, self-contained fragments that don't need lifecycle hooks or
// StateBase features.
//
//	widget := core.Stateful(
//	    func() int { return 0 },
//	    func(count int, ctx core.BuildContext, setState func(func(int) int)) core.Widget {
//	        return label{text: fmt.Sprintf("Count: %d", count)}
//	    },
//	)
//
// The returned widget has identity (it is a pointer) and is consumed by the
// position that mounts or absorbs it; reusing a consumed instance as a second
// tree position panics with a configuration error.
func Stateful[S any](
	init func() S,
	build func(state S, ctx BuildContext, setState func(func(S) S)) Widget,
) Widget {
	return &inlineStatefulWidget[S]{
		initFn:  init,
		buildFn: build,
	}
}

type inlineStatefulWidget[S any] struct {
	initFn  func() S
	buildFn func(state S, ctx BuildContext, setState func(func(S) S)) Widget
	used    bool
}

func (w *inlineStatefulWidget[S]) Key() any { return nil }

func (w *inlineStatefulWidget[S]) markUsed() { w.used = true }

func (w *inlineStatefulWidget[S]) isUsed() bool { return w.used }

func (w *inlineStatefulWidget[S]) CreateState() State {
	return &inlineStatefulState[S]{
		initFn:  w.initFn,
		buildFn: w.buildFn,
	}
}

type inlineStatefulState[S any] struct {
	StateBase
	value   S
	initFn  func() S
	buildFn func(state S, ctx BuildContext, setState func(func(S) S)) Widget
}

func (s *inlineStatefulState[S]) InitState() {
	s.value = s.initFn()
}

func (s *inlineStatefulState[S]) Build(ctx BuildContext) Widget {
	return s.buildFn(s.value, ctx, func(update func(S) S) {
		s.SetState(func() {
			s.value = update(s.value)
		})
	})
}

func (s *inlineStatefulState[S]) DidUpdateWidget(old StatefulWidget) {
	// The build closure may capture fresh values from the parent's build.
	if w, ok := s.CurrentWidget().(*inlineStatefulWidget[S]); ok {
		s.buildFn = w.buildFn
	}
}
