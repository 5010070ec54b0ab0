package core

import (
	"reflect"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/render"
)

// syncChildren diffs an ordered widget list against a multi-child render
// element's current children, issuing the minimal set of adapter mutations.
//
// The pass runs in three phases: a common-tail fast path that absorbs
// unchanged trailing siblings without touching the adapter, a forward pass
// over the remaining range that matches positionally at a cursor or by key
// anywhere in the range (keyed matches move their backing handle in front of
// the insertion point), and a final sweep that unmounts every old element
// the pass never matched.
//
// Nil-key widgets are only ever matched positionally at the cursor, never
// through the key index. Two structurally different unkeyed subtrees can
// therefore swap state across a reorder; callers that reorder must key their
// children. Duplicate non-nil keys are rejected before any adapter mutation.
// Nil entries in the list produce no element.
func (o *BuildOwner) syncChildren(e *element, widgets []Widget) {
	widgets = withoutNilChildren(widgets)
	assertUniqueKeys(widgets)

	old := e.children
	oldLen := len(old)
	tailOld := oldLen
	tailNew := len(widgets)

	// Trailing siblings that already line up sync in place.
	for tailOld > 0 && tailNew > 0 {
		child := o.at(old[tailOld-1])
		w := widgets[tailNew-1]
		if child == nil || !canUpdate(child.widget, w) {
			break
		}
		o.updateElement(child, w)
		tailOld--
		tailNew--
	}

	// Insertions past the diffed range land before the synced tail.
	var tailAnchor render.Handle
	for i := tailOld; i < oldLen; i++ {
		if h := o.subtreeHandle(old[i]); h != nil {
			tailAnchor = h
			break
		}
	}

	// Key index over the remaining old range. Sibling keys are unique, so
	// one entry per key.
	index := make(map[any]ElementID)
	for _, id := range old[:tailOld] {
		child := o.at(id)
		if child == nil {
			continue
		}
		if key := child.widget.Key(); key != nil && isComparable(key) {
			index[key] = id
		}
	}

	consumed := make(map[ElementID]struct{})
	result := make([]ElementID, 0, tailNew+oldLen-tailOld)
	cursor := 0

	// skipConsumed advances the cursor past elements already matched by key.
	skipConsumed := func() {
		for cursor < tailOld {
			if _, ok := consumed[old[cursor]]; !ok {
				return
			}
			cursor++
		}
	}

	// anchorHandle locates the backing handle the current insertion point
	// sits in front of: the first unconsumed old element with a handle, or
	// the synced tail.
	anchorHandle := func() render.Handle {
		for i := cursor; i < tailOld; i++ {
			if _, ok := consumed[old[i]]; ok {
				continue
			}
			if h := o.subtreeHandle(old[i]); h != nil {
				return h
			}
		}
		return tailAnchor
	}

	for _, w := range widgets[:tailNew] {
		skipConsumed()

		// Positional match at the cursor: sync in place, no move.
		if cursor < tailOld {
			if child := o.at(old[cursor]); child != nil && canUpdate(child.widget, w) {
				if key := w.Key(); key != nil && isComparable(key) {
					delete(index, key)
				}
				o.updateElement(child, w)
				consumed[child.id] = struct{}{}
				result = append(result, child.id)
				cursor++
				continue
			}
		}

		// Keyed match anywhere in the remaining range: transfer the backing
		// handle in front of the insertion point, then sync. Non-comparable
		// keys never reach the index and fall through to fresh inflation.
		if key := w.Key(); key != nil && isComparable(key) {
			if id, ok := index[key]; ok {
				if child := o.at(id); child != nil && canUpdate(child.widget, w) {
					delete(index, key)
					anchor := anchorHandle()
					if h := o.subtreeHandle(id); h != nil {
						o.adapter.Move(h, anchor)
					}
					o.updateElement(child, w)
					consumed[id] = struct{}{}
					result = append(result, id)
					continue
				}
			}
		}

		// No match: a fresh element inserts before the insertion point.
		result = append(result, o.inflate(w, e.id, anchorHandle()).id)
	}

	// Everything the pass never matched is gone.
	for _, id := range old[:tailOld] {
		if _, ok := consumed[id]; ok {
			continue
		}
		if child := o.at(id); child != nil {
			o.unmountElement(child)
		}
	}

	e.children = append(result, old[tailOld:]...)
}

// withoutNilChildren drops nil entries from a child list. The common all
// non-nil case returns the slice unchanged.
func withoutNilChildren(widgets []Widget) []Widget {
	for i, w := range widgets {
		if w != nil {
			continue
		}
		out := make([]Widget, i, len(widgets)-1)
		copy(out, widgets[:i])
		for _, rest := range widgets[i+1:] {
			if rest != nil {
				out = append(out, rest)
			}
		}
		return out
	}
	return widgets
}

// assertUniqueKeys rejects duplicate non-nil sibling keys before the diff
// touches the backing tree.
func assertUniqueKeys(widgets []Widget) {
	var seen map[any]struct{}
	for _, w := range widgets {
		if w == nil {
			continue
		}
		key := w.Key()
		if key == nil || !isComparable(key) {
			continue
		}
		if seen == nil {
			seen = make(map[any]struct{}, len(widgets))
		}
		if _, dup := seen[key]; dup {
			panic(&errors.ConfigurationError{
				Op:     "core.syncChildren",
				Detail: "duplicate sibling key on widget " + reflect.TypeOf(w).String(),
				Key:    key,
			})
		}
		seen[key] = struct{}{}
	}
}
