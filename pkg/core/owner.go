package core

import (
	"reflect"
	"slices"
	"sync"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/render"
)

// Scheduler defers a flush to the host's next scheduling slot.
//
// ScheduleOnce must run the callback exactly once, after the current
// synchronous work completes and before the next external input is
// processed. [loop.Loop] is one implementation; tests usually supply a
// manual queue.
type Scheduler interface {
	ScheduleOnce(callback func())
}

// mountFlip records one mount-status change for the post-flush
// notification pass.
type mountFlip struct {
	id      ElementID
	widget  Widget
	state   State
	mounted bool
}

// BuildOwner owns one mounted tree: the element arena, the dirty set, and
// the flush machinery. Construct one per tree; there is no package-level
// owner, and owners are not safe to share between trees.
type BuildOwner struct {
	adapter   render.Adapter
	scheduler Scheduler

	elements map[ElementID]*element
	nextID   ElementID

	// Build-sequence ordering. orderCounter increases once per build;
	// currentOrder is stamped on every element that build inflates.
	orderCounter int
	currentOrder int

	mu             sync.Mutex
	dirty          []ElementID
	dirtySet       map[ElementID]struct{}
	flushScheduled bool
	flushing       bool

	flips []mountFlip

	// OnBuildFailure supplies a fallback widget for an element whose build
	// panicked. When nil, the failed element renders nothing.
	OnBuildFailure func(*errors.BoundaryError) Widget
}

// NewBuildOwner creates a BuildOwner driving the given backing-tree adapter.
//
// The scheduler may be nil, in which case dirty marks accumulate until the
// caller invokes FlushBuild itself.
func NewBuildOwner(adapter render.Adapter, scheduler Scheduler) *BuildOwner {
	if adapter == nil {
		panic(&errors.ConfigurationError{
			Op:     "core.NewBuildOwner",
			Detail: "nil adapter",
		})
	}
	return &BuildOwner{
		adapter:   adapter,
		scheduler: scheduler,
		elements:  make(map[ElementID]*element),
		dirtySet:  make(map[ElementID]struct{}),
	}
}

// MountRoot inflates a widget as the tree root and returns its element ID.
// A nil widget is a configuration error.
func (o *BuildOwner) MountRoot(w Widget) ElementID {
	if w == nil {
		panic(&errors.ConfigurationError{
			Op:     "core.MountRoot",
			Detail: "nil root widget",
		})
	}
	o.orderCounter++
	o.currentOrder = o.orderCounter
	root := o.inflate(w, NoElement, nil)
	o.notifyFlips()
	return root.id
}

// Unmount tears down the subtree rooted at id. Unmounting an ID that is no
// longer alive is a no-op.
func (o *BuildOwner) Unmount(id ElementID) {
	e := o.at(id)
	if e == nil {
		return
	}
	o.unmountElement(e)
	o.notifyFlips()
}

// MarkNeedsBuild marks the element dirty and schedules a flush. Marks on
// dead elements are ignored; marks on an element whose own build is running
// panic with a StateMutationError.
func (o *BuildOwner) MarkNeedsBuild(id ElementID) {
	e := o.at(id)
	if e == nil {
		return
	}
	o.markNeedsBuild(e)
}

// scheduleBuild queues a dirty element and arranges exactly one flush for
// the current quiescent period. Marks arriving before that flush runs are
// absorbed without scheduling again.
func (o *BuildOwner) scheduleBuild(id ElementID) {
	o.mu.Lock()
	if _, queued := o.dirtySet[id]; queued {
		o.mu.Unlock()
		return
	}
	o.dirtySet[id] = struct{}{}
	o.dirty = append(o.dirty, id)
	schedule := !o.flushScheduled && !o.flushing && o.scheduler != nil
	if schedule {
		o.flushScheduled = true
	}
	o.mu.Unlock()

	if schedule {
		o.scheduler.ScheduleOnce(o.flushCallback)
	}
}

func (o *BuildOwner) flushCallback() {
	o.mu.Lock()
	o.flushScheduled = false
	o.mu.Unlock()
	o.FlushBuild()
}

// FlushBuild rebuilds all dirty elements in ascending build order,
// ancestors strictly before descendants. Rebuilds triggered by the flush
// itself are drained within the same flush; an element surfacing twice is a
// consistency violation, not wasted work. Flushes never interleave.
func (o *BuildOwner) FlushBuild() {
	o.mu.Lock()
	if o.flushing {
		o.mu.Unlock()
		return
	}
	o.flushing = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.flushing = false
		o.mu.Unlock()
	}()

	processed := make(map[ElementID]struct{})
	for {
		o.mu.Lock()
		if len(o.dirty) == 0 {
			o.mu.Unlock()
			break
		}
		slices.SortFunc(o.dirty, func(a, b ElementID) int {
			return o.orderOf(a) - o.orderOf(b)
		})
		batch := o.dirty
		o.dirty = nil
		clear(o.dirtySet)
		o.mu.Unlock()

		for _, id := range batch {
			e := o.at(id)
			// Earlier work in this flush may have unmounted or already
			// rebuilt the element; both are cancellations, not errors.
			if e == nil || !e.mounted || !e.dirty {
				continue
			}
			if _, done := processed[id]; done {
				panic(&errors.StateMutationError{
					Op:     "core.FlushBuild",
					Widget: reflect.TypeOf(e.widget).String(),
					Detail: "element queued twice within a single flush",
				})
			}
			processed[id] = struct{}{}
			o.rebuildElement(e)
		}
	}

	o.notifyFlips()
}

// at resolves an element ID, returning nil for released or null IDs.
func (o *BuildOwner) at(id ElementID) *element {
	if id == NoElement {
		return nil
	}
	return o.elements[id]
}

func (o *BuildOwner) orderOf(id ElementID) int {
	if e := o.at(id); e != nil {
		return e.order
	}
	return 0
}

// recordFlip captures a mount-status change for the deferred notification
// pass. The widget and state are snapshotted because an unmounted element
// is released from the arena before the pass runs. Mount flips resolve the
// state again at notify time: the flip is recorded before kind-specific
// mounting, so a stateful element has no state yet.
func (o *BuildOwner) recordFlip(e *element, mounted bool) {
	o.flips = append(o.flips, mountFlip{
		id:      e.id,
		widget:  e.widget,
		state:   e.state,
		mounted: mounted,
	})
}

// notifyFlips invokes MountObserver hooks once per recorded flip, in the
// order the flips occurred.
func (o *BuildOwner) notifyFlips() {
	flips := o.flips
	o.flips = nil
	for _, flip := range flips {
		state := flip.state
		if flip.mounted {
			if e := o.at(flip.id); e != nil {
				state = e.state
			}
		}
		observer, ok := state.(MountObserver)
		if !ok {
			observer, ok = flip.widget.(MountObserver)
		}
		if !ok {
			continue
		}
		if flip.mounted {
			observer.DidMount()
		} else {
			observer.DidUnmount()
		}
	}
}

// WidgetOf returns the widget mounted at id, or nil.
func (o *BuildOwner) WidgetOf(id ElementID) Widget {
	if e := o.at(id); e != nil {
		return e.widget
	}
	return nil
}

// StateOf returns the state owned by the stateful element at id, or nil.
func (o *BuildOwner) StateOf(id ElementID) State {
	if e := o.at(id); e != nil {
		return e.state
	}
	return nil
}

// IsMounted reports whether id addresses a live, mounted element.
func (o *BuildOwner) IsMounted(id ElementID) bool {
	e := o.at(id)
	return e != nil && e.mounted
}

// ChildrenOf returns the element's children in order.
func (o *BuildOwner) ChildrenOf(id ElementID) []ElementID {
	e := o.at(id)
	if e == nil {
		return nil
	}
	if e.child != NoElement {
		return []ElementID{e.child}
	}
	return append([]ElementID(nil), e.children...)
}

// VisitDescendants walks the subtree below id in document order. Returning
// false from the visitor prunes the walk below that element.
func (o *BuildOwner) VisitDescendants(id ElementID, visit func(ElementID, Widget) bool) {
	e := o.at(id)
	if e == nil {
		return
	}
	o.walkSubtree(e, func(d *element) bool {
		return visit(d.id, d.widget)
	})
}

// walkSubtree visits every descendant of e (not e itself), pruning where
// the visitor returns false.
func (o *BuildOwner) walkSubtree(e *element, visit func(*element) bool) {
	var walk func(id ElementID)
	walk = func(id ElementID) {
		d := o.at(id)
		if d == nil {
			return
		}
		if !visit(d) {
			return
		}
		if d.child != NoElement {
			walk(d.child)
		}
		for _, childID := range d.children {
			walk(childID)
		}
	}
	if e.child != NoElement {
		walk(e.child)
	}
	for _, childID := range e.children {
		walk(childID)
	}
}
