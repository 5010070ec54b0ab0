package core

import (
	"reflect"
	"time"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/render"
)

// ElementID addresses an element within its owner's arena. The zero value,
// NoElement, addresses nothing. IDs are never reused within an owner.
type ElementID int32

// NoElement is the null element ID.
const NoElement ElementID = 0

// elementKind tags the closed set of element variants. Behavior dispatches
// through the opsFor table rather than per-variant types.
type elementKind uint8

const (
	kindStateless elementKind = iota
	kindStateful
	kindInherited
	kindRender
	kindCount
)

func (k elementKind) String() string {
	switch k {
	case kindStateless:
		return "stateless"
	case kindStateful:
		return "stateful"
	case kindInherited:
		return "inherited"
	case kindRender:
		return "render"
	default:
		return "unknown"
	}
}

// element is one live tree position. All variants share this struct; the
// kind tag selects behavior.
type element struct {
	id     ElementID
	parent ElementID // upward traversal only, never ownership
	kind   elementKind
	owner  *BuildOwner
	widget Widget
	slot   render.Handle // insertion locator this element was mounted at
	order  int           // monotonic build-sequence order

	dirty    bool
	building bool
	mounted  bool

	child    ElementID   // stateless, stateful, inherited, single-child render
	children []ElementID // multi-child render

	state  State         // stateful only
	handle render.Handle // render only

	dependents   map[ElementID]struct{} // inherited only: registered dependents
	dependencies []ElementID            // inherited elements this element registered with
}

// kindOps is one row of the element dispatch table.
type kindOps struct {
	mount   func(e *element)
	update  func(e *element, next Widget)
	rebuild func(e *element)
	unmount func(e *element)
}

// opsFor is populated in init: the mount ops recurse through rebuildElement,
// which indexes the table, so a composite-literal initializer would cycle.
var opsFor [kindCount]kindOps

func init() {
	opsFor = [kindCount]kindOps{
		kindStateless: {mount: mountStateless, update: updateStateless, rebuild: rebuildStateless, unmount: unmountStateless},
		kindStateful:  {mount: mountStateful, update: updateStateful, rebuild: rebuildStateful, unmount: unmountStateful},
		kindInherited: {mount: mountInherited, update: updateInherited, rebuild: rebuildInherited, unmount: unmountInherited},
		kindRender:    {mount: mountRender, update: updateRender, rebuild: rebuildRender, unmount: unmountRender},
	}
}

// kindOf classifies a widget. A widget must implement exactly one of the
// behavior interfaces; stateless is checked last so wrapper types that also
// embed a Build method by accident still resolve deterministically.
func kindOf(w Widget) (elementKind, bool) {
	switch w.(type) {
	case StatefulWidget:
		return kindStateful, true
	case InheritedWidget:
		return kindInherited, true
	case RenderWidget:
		return kindRender, true
	case StatelessWidget:
		return kindStateless, true
	}
	return 0, false
}

// updateChild is the single-child reconciler.
//
// A nil widget unmounts the existing element. An existing element congruent
// with the widget absorbs it in place. Anything else unmounts the old
// element and inflates a fresh one at the given slot.
func updateChild(o *BuildOwner, existing ElementID, w Widget, parent ElementID, slot render.Handle) ElementID {
	if w == nil {
		if e := o.at(existing); e != nil {
			o.unmountElement(e)
		}
		return NoElement
	}
	if e := o.at(existing); e != nil {
		if canUpdate(e.widget, w) {
			o.updateElement(e, w)
			return existing
		}
		// The replacement takes over the old subtree's position. The slot
		// passed in dates from the parent's own mount and may be stale, so
		// attach the fresh node in front of the old one before tearing the
		// old one down.
		if h := o.subtreeHandle(existing); h != nil {
			slot = h
		}
		fresh := o.inflate(w, parent, slot)
		o.unmountElement(e)
		return fresh.id
	}
	return o.inflate(w, parent, slot).id
}

// inflate allocates a fresh element for the widget and mounts it.
func (o *BuildOwner) inflate(w Widget, parent ElementID, slot render.Handle) *element {
	kind, ok := kindOf(w)
	if !ok {
		panic(&errors.ConfigurationError{
			Op:     "core.inflate",
			Detail: "widget " + reflect.TypeOf(w).String() + " implements none of the widget behavior interfaces",
		})
	}
	if su, ok := w.(singleUse); ok {
		if su.isUsed() {
			panic(&errors.ConfigurationError{
				Op:     "core.inflate",
				Detail: "widget " + reflect.TypeOf(w).String() + " was already consumed by another tree position",
			})
		}
		su.markUsed()
	}

	o.nextID++
	e := &element{
		id:    o.nextID,
		kind:  kind,
		owner: o,
		order: o.currentOrder,
	}
	o.elements[e.id] = e
	o.mountElement(e, parent, slot, w)
	return e
}

// mountElement runs the shared mount prologue, then kind-specific mounting.
func (o *BuildOwner) mountElement(e *element, parent ElementID, slot render.Handle, w Widget) {
	e.widget = w
	e.parent = parent
	e.slot = slot
	e.mounted = true
	o.recordFlip(e, true)
	opsFor[e.kind].mount(e)
}

// updateElement absorbs a congruent widget into a mounted element. A widget
// that is literally the one the element already holds is a no-op: pointer
// widgets have identity, and an identical instance cannot carry new field
// values.
func (o *BuildOwner) updateElement(e *element, next Widget) {
	if sameWidget(e.widget, next) {
		return
	}
	if su, ok := next.(singleUse); ok {
		// Disqualify the transient wrapper from ever mounting on its own.
		su.markUsed()
	}
	opsFor[e.kind].update(e, next)
}

// unmountElement tears an element down: kind-specific unmount (children
// first), dependency cleanup, then arena release.
func (o *BuildOwner) unmountElement(e *element) {
	if !e.mounted {
		return
	}
	e.mounted = false
	o.recordFlip(e, false)
	opsFor[e.kind].unmount(e)
	o.clearDependencies(e)
	delete(o.elements, e.id)
}

// rebuildElement re-expands a dirty element's subtree. Elements queued but
// unmounted (or cleaned) by earlier work are skipped, not failed.
func (o *BuildOwner) rebuildElement(e *element) {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false

	// Registrations from the previous build are discarded; the build
	// re-creates exactly the set it still queries.
	o.clearDependencies(e)

	saved := o.currentOrder
	o.orderCounter++
	o.currentOrder = o.orderCounter

	e.building = true
	opsFor[e.kind].rebuild(e)
	e.building = false

	o.currentOrder = saved
}

// markNeedsBuild marks an element dirty and schedules a flush. Marking an
// element that is currently running its own build is a programming error.
func (o *BuildOwner) markNeedsBuild(e *element) {
	if e.building {
		panic(&errors.StateMutationError{
			Op:     "core.MarkNeedsBuild",
			Widget: reflect.TypeOf(e.widget).String(),
			Detail: "element marked dirty while its own build is running",
		})
	}
	if e.dirty || !e.mounted {
		return
	}
	e.dirty = true
	o.scheduleBuild(e.id)
}

// safeBuild executes application build code with panic recovery. Framework
// invariant violations propagate; application failures are reported and
// replaced with the owner's fallback widget (or nothing).
func (o *BuildOwner) safeBuild(e *element, buildFn func() Widget) Widget {
	var built Widget
	var failure *errors.BoundaryError

	func() {
		defer func() {
			if r := recover(); r != nil {
				switch r.(type) {
				case *errors.ConfigurationError, *errors.StateMutationError:
					panic(r)
				}
				failure = &errors.BoundaryError{
					Widget:     reflect.TypeOf(e.widget).String(),
					Phase:      "build",
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
			}
		}()
		built = buildFn()
	}()

	if failure != nil {
		errors.ReportBoundaryError(failure)
		if o.OnBuildFailure != nil {
			return o.OnBuildFailure(failure)
		}
		return nil
	}
	return built
}

// subtreeHandle returns the backing handle of the nearest render element in
// the subtree rooted at id, or nil when the subtree has no backing node.
func (o *BuildOwner) subtreeHandle(id ElementID) render.Handle {
	e := o.at(id)
	if e == nil {
		return nil
	}
	if e.kind == kindRender {
		return e.handle
	}
	if e.child != NoElement {
		if h := o.subtreeHandle(e.child); h != nil {
			return h
		}
	}
	for _, childID := range e.children {
		if h := o.subtreeHandle(childID); h != nil {
			return h
		}
	}
	return nil
}

// --- stateless ---

func mountStateless(e *element) {
	e.dirty = true
	e.owner.rebuildElement(e)
}

func updateStateless(e *element, next Widget) {
	e.widget = next
	e.owner.markNeedsBuild(e)
}

func rebuildStateless(e *element) {
	o := e.owner
	w := e.widget.(StatelessWidget)
	built := o.safeBuild(e, func() Widget {
		return w.Build(e)
	})
	e.child = updateChild(o, e.child, built, e.id, e.slot)
}

func unmountStateless(e *element) {
	o := e.owner
	if child := o.at(e.child); child != nil {
		o.unmountElement(child)
	}
	e.child = NoElement
}

// --- stateful ---

func mountStateful(e *element) {
	o := e.owner
	w := e.widget.(StatefulWidget)
	e.state = w.CreateState()
	if binder, ok := e.state.(interface {
		SetElement(*BuildOwner, ElementID)
	}); ok {
		binder.SetElement(o, e.id)
	}
	e.state.InitState()
	e.dirty = true
	o.rebuildElement(e)
}

func updateStateful(e *element, next Widget) {
	old := e.widget.(StatefulWidget)
	e.widget = next
	e.state.DidUpdateWidget(old)
	e.owner.markNeedsBuild(e)
}

func rebuildStateful(e *element) {
	o := e.owner
	built := o.safeBuild(e, func() Widget {
		return e.state.Build(e)
	})
	e.child = updateChild(o, e.child, built, e.id, e.slot)
}

func unmountStateful(e *element) {
	o := e.owner
	if child := o.at(e.child); child != nil {
		o.unmountElement(child)
	}
	e.child = NoElement
	if e.state != nil {
		e.state.Dispose()
	}
}

// --- inherited ---

func mountInherited(e *element) {
	e.dependents = make(map[ElementID]struct{})
	e.dirty = true
	e.owner.rebuildElement(e)
}

func updateInherited(e *element, next Widget) {
	o := e.owner
	old := e.widget.(InheritedWidget)
	e.widget = next
	if next.(InheritedWidget).UpdateShouldNotify(old) {
		o.notifyDependents(e)
	}
	o.markNeedsBuild(e)
}

func rebuildInherited(e *element) {
	o := e.owner
	w := e.widget.(InheritedWidget)
	e.child = updateChild(o, e.child, w.ChildWidget(), e.id, e.slot)
}

func unmountInherited(e *element) {
	o := e.owner
	if child := o.at(e.child); child != nil {
		o.unmountElement(child)
	}
	e.child = NoElement
	e.dependents = nil
}

// --- render ---

func mountRender(e *element) {
	o := e.owner
	w := e.widget.(RenderWidget)
	e.handle = w.CreateHandle(e)
	if e.handle != nil {
		o.adapter.Attach(e.handle, e.slot)
	}
	e.dirty = true
	o.rebuildElement(e)
}

func updateRender(e *element, next Widget) {
	e.widget = next
	e.owner.markNeedsBuild(e)
}

func rebuildRender(e *element) {
	o := e.owner
	w := e.widget.(RenderWidget)
	w.UpdateHandle(e, e.handle)

	switch typed := e.widget.(type) {
	case interface{ Child() Widget }:
		// Children of a render element insert inside its own handle; the
		// parent-relative slot does not propagate past it.
		e.child = updateChild(o, e.child, typed.Child(), e.id, nil)
	case interface{ Children() []Widget }:
		o.syncChildren(e, typed.Children())
	}
}

func unmountRender(e *element) {
	o := e.owner
	if child := o.at(e.child); child != nil {
		o.unmountElement(child)
	}
	e.child = NoElement
	for _, childID := range e.children {
		if child := o.at(childID); child != nil {
			o.unmountElement(child)
		}
	}
	e.children = nil
	if e.handle != nil {
		o.adapter.Detach(e.handle)
		e.handle = nil
	}
}

// --- BuildContext ---

func (e *element) DependOnInherited(inheritedType reflect.Type) InheritedWidget {
	return dependOnInherited(e, inheritedType)
}

func (e *element) AncestorWidget(predicate func(Widget) bool) Widget {
	o := e.owner
	for id := e.parent; id != NoElement; {
		ancestor := o.at(id)
		if ancestor == nil {
			break
		}
		if predicate(ancestor.widget) {
			return ancestor.widget
		}
		id = ancestor.parent
	}
	return nil
}

func (e *element) Element() ElementID {
	return e.id
}

func (e *element) Owner() *BuildOwner {
	return e.owner
}
