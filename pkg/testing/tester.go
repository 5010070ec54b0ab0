// Package testing provides an isolated harness for exercising widget trees
// without a real host: a recording backing-tree adapter, a manual scheduler,
// and finders plus golden snapshots over the mounted tree.
package testing

import (
	"testing"

	"github.com/go-weft/weft/pkg/core"
	"github.com/go-weft/weft/pkg/render"
)

// Tester drives a widget tree against a recording adapter. Rebuild flushes
// are queued instead of scheduled, so tests control exactly when the tree
// settles.
type Tester struct {
	owner    *core.BuildOwner
	recorder *render.Recorder
	queue    []func()
	root     core.ElementID
	host     *hostState
}

// NewTester creates a tester with an empty tree. Call Cleanup when done, or
// use NewTesterWithT instead.
func NewTester() *Tester {
	t := &Tester{recorder: render.NewRecorder()}
	t.owner = core.NewBuildOwner(t.recorder, t)
	return t
}

// NewTesterWithT creates a tester that unmounts its tree via t.Cleanup.
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T) *Tester {
	tester := NewTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree. Must be called if not using NewTesterWithT.
func (t *Tester) Cleanup() {
	if t.root != core.NoElement {
		t.owner.Unmount(t.root)
		t.root = core.NoElement
		t.host = nil
	}
	t.queue = nil
}

// ScheduleOnce implements core.Scheduler by queueing the flush callback
// until the next Pump.
func (t *Tester) ScheduleOnce(callback func()) {
	t.queue = append(t.queue, callback)
}

// Owner exposes the tester's build owner.
func (t *Tester) Owner() *core.BuildOwner { return t.owner }

// Recorder exposes the recording adapter for op and order assertions.
func (t *Tester) Recorder() *render.Recorder { return t.recorder }

// Root returns the mounted root element, or NoElement before PumpWidget.
func (t *Tester) Root() core.ElementID { return t.root }

// hostState anchors the pumped widget so later pumps resync through the
// reconciler instead of remounting from scratch.
type hostState struct {
	core.StateBase
	child core.Widget
}

func (s *hostState) Build(ctx core.BuildContext) core.Widget { return s.child }

type hostWidget struct {
	core.StatefulBase
	state *hostState
}

func (w hostWidget) CreateState() core.State { return w.state }

// PumpWidget mounts the widget on first call; later calls replace the
// previous widget through a normal resync and settle the tree.
func (t *Tester) PumpWidget(w core.Widget) {
	if t.host == nil {
		t.host = &hostState{child: w}
		t.root = t.owner.MountRoot(hostWidget{state: t.host})
		t.Pump()
		return
	}
	t.host.SetState(func() { t.host.child = w })
	t.Pump()
}

// Pump runs queued flush callbacks until the tree settles.
func (t *Tester) Pump() {
	for len(t.queue) > 0 {
		next := t.queue[0]
		t.queue = t.queue[1:]
		next()
	}
}
