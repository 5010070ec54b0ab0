package testing

import (
	"fmt"
	"reflect"

	"github.com/go-weft/weft/pkg/core"
)

// Finder locates elements in the mounted tree.
type Finder interface {
	// Evaluate returns all matching elements under the tester's root in
	// depth-first pre-order.
	Evaluate(t *Tester) []core.ElementID
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	ids    []core.ElementID
	finder Finder
}

// First returns the first match. Panics if there are none.
func (r FinderResult) First() core.ElementID {
	if len(r.ids) == 0 {
		panic(fmt.Sprintf("finder found no elements: %s", r.finder.Description()))
	}
	return r.ids[0]
}

// FirstOrNone returns the first match, or NoElement.
func (r FinderResult) FirstOrNone() core.ElementID {
	if len(r.ids) == 0 {
		return core.NoElement
	}
	return r.ids[0]
}

// All returns every match in traversal order.
func (r FinderResult) All() []core.ElementID {
	return append([]core.ElementID(nil), r.ids...)
}

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.ids) }

// Find evaluates a finder against the current tree.
func (t *Tester) Find(f Finder) FinderResult {
	return FinderResult{ids: f.Evaluate(t), finder: f}
}

type predicateFinder struct {
	desc  string
	match func(core.Widget) bool
}

func (f predicateFinder) Description() string { return f.desc }

func (f predicateFinder) Evaluate(t *Tester) []core.ElementID {
	var ids []core.ElementID
	t.Owner().VisitDescendants(t.Root(), func(id core.ElementID, w core.Widget) bool {
		if f.match(w) {
			ids = append(ids, id)
		}
		return true
	})
	return ids
}

// ByType finds widgets with the same dynamic type as the sample.
func ByType(sample core.Widget) Finder {
	want := reflect.TypeOf(sample)
	return predicateFinder{
		desc: fmt.Sprintf("widgets of type %v", want),
		match: func(w core.Widget) bool {
			return reflect.TypeOf(w) == want
		},
	}
}

// ByKey finds widgets carrying the given key.
func ByKey(key any) Finder {
	return predicateFinder{
		desc: fmt.Sprintf("widgets with key %v", key),
		match: func(w core.Widget) bool {
			return reflect.DeepEqual(w.Key(), key)
		},
	}
}

// ByPredicate finds widgets matching an arbitrary predicate.
func ByPredicate(description string, match func(core.Widget) bool) Finder {
	return predicateFinder{desc: description, match: match}
}
