package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/render"
)

func keyed(keys ...string) []Widget {
	out := make([]Widget, len(keys))
	for i, k := range keys {
		out[i] = leaf{K: k, Label: k}
	}
	return out
}

// childLabels reads the recorder order below the box handle.
func childLabels(h *harness) []string {
	labels := h.labels()
	require.NotEmpty(h.t, labels)
	require.Equal(h.t, "box", labels[0])
	return labels[1:]
}

func opCount(ops []render.Op, kind render.OpKind) int {
	n := 0
	for _, op := range ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func TestSyncChildren_IdenticalList_NoAdapterOps(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b", "c")})
	h.rec.TakeOps()

	h.set(box{Kids: keyed("a", "b", "c")})

	assert.Empty(t, h.rec.TakeOps(), "resyncing an identical list must not touch the adapter")
	assert.Equal(t, []string{"a", "b", "c"}, childLabels(h))
}

func TestSyncChildren_KeyedRotation_SingleMove(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b", "c")})
	h.rec.TakeOps()

	h.set(box{Kids: keyed("c", "a", "b")})

	ops := h.rec.TakeOps()
	assert.Equal(t, 1, opCount(ops, render.OpMove), "rotating by one should cost one move")
	assert.Zero(t, opCount(ops, render.OpAttach))
	assert.Zero(t, opCount(ops, render.OpDetach))
	assert.Equal(t, []string{"c", "a", "b"}, childLabels(h))
}

func TestSyncChildren_Swap_PreservesElements(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b")})
	before := h.rec.Order()
	h.rec.TakeOps()

	h.set(box{Kids: keyed("b", "a")})

	ops := h.rec.TakeOps()
	assert.Zero(t, opCount(ops, render.OpAttach), "a keyed swap must not inflate fresh elements")
	assert.Zero(t, opCount(ops, render.OpDetach))
	assert.Equal(t, []string{"b", "a"}, childLabels(h))
	assert.ElementsMatch(t, before, h.rec.Order(), "handles must be the same objects, reordered")
}

func TestSyncChildren_InsertMiddle(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "c")})
	h.rec.TakeOps()

	h.set(box{Kids: keyed("a", "b", "c")})

	ops := h.rec.TakeOps()
	assert.Equal(t, 1, opCount(ops, render.OpAttach))
	assert.Zero(t, opCount(ops, render.OpDetach))
	assert.Zero(t, opCount(ops, render.OpMove))
	assert.Equal(t, []string{"a", "b", "c"}, childLabels(h))
}

func TestSyncChildren_RemoveMiddle(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b", "c")})
	h.rec.TakeOps()

	h.set(box{Kids: keyed("a", "c")})

	ops := h.rec.TakeOps()
	assert.Equal(t, 1, opCount(ops, render.OpDetach))
	assert.Zero(t, opCount(ops, render.OpAttach))
	assert.Zero(t, opCount(ops, render.OpMove))
	assert.Equal(t, []string{"a", "c"}, childLabels(h))
}

func TestSyncChildren_ClearAll(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b", "c")})

	h.set(box{Kids: nil})

	assert.Empty(t, childLabels(h))
}

func TestSyncChildren_DuplicateKeys_PanicBeforeMutation(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b")})
	h.rec.TakeOps()

	func() {
		defer func() {
			err, ok := recover().(*errors.ConfigurationError)
			require.True(t, ok, "expected a ConfigurationError panic")
			assert.Equal(t, "dup", err.Key)
		}()
		h.set(box{Kids: keyed("a", "dup", "dup")})
	}()

	assert.Empty(t, h.rec.TakeOps(), "validation must run before any adapter mutation")
	assert.Equal(t, []string{"a", "b"}, childLabels(h), "old children must be untouched")
}

func TestSyncChildren_UnkeyedPositionalReuse(t *testing.T) {
	// Unkeyed congruent children pair up by position: reordering the widget
	// list updates existing elements in place rather than moving handles.
	h := newHarness(t, box{Kids: []Widget{
		leaf{Label: "a"},
		leaf{Label: "b"},
	}})
	h.rec.TakeOps()

	h.set(box{Kids: []Widget{
		leaf{Label: "b"},
		leaf{Label: "a"},
	}})

	ops := h.rec.TakeOps()
	assert.Empty(t, ops, "positional pairing absorbs unkeyed reorders in place")

	handles := h.rec.Order()[1:]
	require.Len(t, handles, 2)
	// The handles keep their original creation labels; only UpdateHandle ran.
	assert.Equal(t, "a", handles[0].(*fakeNode).label)
	assert.Equal(t, "b", handles[1].(*fakeNode).label)
	assert.GreaterOrEqual(t, handles[0].(*fakeNode).updates, 1)
}

func TestSyncChildren_MixedKeyedAndFresh(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b", "c")})
	h.rec.TakeOps()

	h.set(box{Kids: []Widget{
		leaf{K: "c", Label: "c"},
		leaf{K: "x", Label: "x"},
		leaf{K: "a", Label: "a"},
	}})

	ops := h.rec.TakeOps()
	assert.Equal(t, 1, opCount(ops, render.OpAttach), "x is new")
	assert.Equal(t, 1, opCount(ops, render.OpDetach), "b is gone")
	assert.Equal(t, []string{"c", "x", "a"}, childLabels(h))
}

func TestSyncChildren_KeyedState_TravelsWithKey(t *testing.T) {
	first := &counterState{}
	second := &counterState{}
	h := newHarness(t, box{Kids: []Widget{
		counter{K: "one", state: first, Label: "one"},
		counter{K: "two", state: second, Label: "two"},
	}})
	first.value = 11
	second.value = 22

	h.set(box{Kids: []Widget{
		counter{K: "two", state: second, Label: "two"},
		counter{K: "one", state: first, Label: "one"},
	}})

	kids := h.owner.ChildrenOf(h.owner.ChildrenOf(h.root)[0])
	require.Len(t, kids, 2)
	assert.Same(t, second, h.owner.StateOf(kids[0]))
	assert.Same(t, first, h.owner.StateOf(kids[1]))
	assert.Equal(t, 11, first.value)
	assert.Equal(t, 22, second.value)
	assert.Equal(t, 1, first.inits)
	assert.Equal(t, 1, second.inits)
}

func TestSyncChildren_NonComparableKeysMatchPositionally(t *testing.T) {
	// Slice keys cannot enter the key index; they degrade to positional
	// matching instead of panicking.
	h := newHarness(t, box{Kids: []Widget{
		leaf{K: []int{1}, Label: "a"},
		leaf{K: []int{2}, Label: "b"},
	}})

	h.set(box{Kids: []Widget{
		leaf{K: []int{2}, Label: "b"},
		leaf{K: []int{1}, Label: "a"},
	}})

	assert.Len(t, childLabels(h), 2)
}

func TestIsComparable(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, true},
		{"string", "hello", true},
		{"int", 42, true},
		{"struct", struct{ x int }{1}, true},
		{"slice", []int{1, 2, 3}, false},
		{"map", map[string]int{"a": 1}, false},
		{"func", func() {}, false},
		{"pointer", new(int), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isComparable(tc.value))
		})
	}
}

func TestSyncChildren_TailStable_NoTailOps(t *testing.T) {
	h := newHarness(t, box{Kids: keyed("a", "b", "x", "y", "z")})
	h.rec.TakeOps()

	h.set(box{Kids: keyed("b", "a", "x", "y", "z")})

	ops := h.rec.TakeOps()
	for _, op := range ops {
		if node, ok := op.Handle.(*fakeNode); ok {
			assert.NotContains(t, []string{"x", "y", "z"}, node.label,
				"stable tail must not be touched")
		}
	}
	assert.Equal(t, []string{"b", "a", "x", "y", "z"}, childLabels(h))
}

func TestSyncChildren_NilEntriesProduceNoElements(t *testing.T) {
	h := newHarness(t, box{Kids: []Widget{
		leaf{K: "a", Label: "a"},
		nil,
		leaf{K: "b", Label: "b"},
	}})
	assert.Equal(t, []string{"a", "b"}, childLabels(h))

	h.rec.TakeOps()
	h.set(box{Kids: []Widget{leaf{K: "a", Label: "a"}, leaf{K: "b", Label: "b"}, nil}})
	assert.Empty(t, h.rec.TakeOps(), "moving a nil entry must not touch the adapter")
	assert.Equal(t, []string{"a", "b"}, childLabels(h))
}

func TestWithoutNilChildren(t *testing.T) {
	a, b := leaf{Label: "a"}, leaf{Label: "b"}
	all := []Widget{a, b}
	assert.Equal(t, all, withoutNilChildren(all))
	assert.Equal(t, []Widget{a, b}, withoutNilChildren([]Widget{nil, a, nil, b, nil}))
	assert.Empty(t, withoutNilChildren([]Widget{nil, nil}))
}
