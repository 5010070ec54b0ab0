package core

import (
	"testing"

	"github.com/go-weft/weft/pkg/render"
)

// manualScheduler queues flush callbacks for explicit draining.
type manualScheduler struct {
	queue     []func()
	scheduled int
}

func (s *manualScheduler) ScheduleOnce(callback func()) {
	s.scheduled++
	s.queue = append(s.queue, callback)
}

func (s *manualScheduler) drain() {
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		next()
	}
}

// fakeNode is the backing handle used by test render widgets.
type fakeNode struct {
	label   string
	updates int
}

// box is a render widget hosting an ordered list of children.
type box struct {
	RenderBase
	Kids []Widget
}

func (w box) CreateHandle(ctx BuildContext) render.Handle {
	return &fakeNode{label: "box"}
}

func (w box) UpdateHandle(ctx BuildContext, handle render.Handle) {
	handle.(*fakeNode).updates++
}

func (w box) Children() []Widget { return w.Kids }

// leaf is a childless render widget with an optional key.
type leaf struct {
	RenderBase
	K     any
	Label string
}

func (w leaf) Key() any { return w.K }

func (w leaf) CreateHandle(ctx BuildContext) render.Handle {
	return &fakeNode{label: w.Label}
}

func (w leaf) UpdateHandle(ctx BuildContext, handle render.Handle) {
	handle.(*fakeNode).updates++
}

// plain is a stateless widget delegating to a build function.
type plain struct {
	StatelessBase
	K     any
	build func(BuildContext) Widget
}

func (w plain) Key() any { return w.K }

func (w plain) Build(ctx BuildContext) Widget {
	if w.build != nil {
		return w.build(ctx)
	}
	return nil
}

// counter is a stateful widget whose state tracks lifecycle calls.
type counter struct {
	StatefulBase
	K     any
	Label string
	state *counterState
	build func(*counterState, BuildContext) Widget
}

func (w counter) Key() any { return w.K }

func (w counter) CreateState() State {
	if w.state != nil {
		return w.state
	}
	return &counterState{}
}

type counterState struct {
	StateBase
	value       int
	inits       int
	builds      int
	disposals   int
	depChanges  int
	widgetSwaps int
}

func (s *counterState) InitState() { s.inits++ }

func (s *counterState) Build(ctx BuildContext) Widget {
	s.builds++
	w := s.CurrentWidget().(counter)
	if w.build != nil {
		return w.build(s, ctx)
	}
	return leaf{Label: w.Label}
}

func (s *counterState) DidUpdateWidget(old StatefulWidget) { s.widgetSwaps++ }

func (s *counterState) DidChangeDependencies() { s.depChanges++ }

func (s *counterState) Dispose() {
	s.disposals++
	s.StateBase.Dispose()
}

// swapHost anchors a mutable subtree so tests can replace the widget below
// the root through a normal rebuild.
type swapHost struct {
	StatefulBase
	initial Widget
	state   *swapHostState
}

func (w swapHost) CreateState() State {
	w.state.child = w.initial
	return w.state
}

type swapHostState struct {
	StateBase
	child Widget
}

func (s *swapHostState) Build(ctx BuildContext) Widget { return s.child }

// harness wires an owner, a recording adapter, and a manual scheduler
// around a swappable root subtree.
type harness struct {
	t     *testing.T
	owner *BuildOwner
	rec   *render.Recorder
	sched *manualScheduler
	host  *swapHostState
	root  ElementID
}

func newHarness(t *testing.T, initial Widget) *harness {
	t.Helper()
	rec := render.NewRecorder()
	sched := &manualScheduler{}
	owner := NewBuildOwner(rec, sched)
	host := &swapHostState{}
	root := owner.MountRoot(swapHost{initial: initial, state: host})
	sched.drain()
	return &harness{t: t, owner: owner, rec: rec, sched: sched, host: host, root: root}
}

// set replaces the hosted subtree and drains the resulting flush.
func (h *harness) set(w Widget) {
	h.t.Helper()
	h.host.SetState(func() { h.host.child = w })
	h.sched.drain()
}

// labels projects the recorder's sibling order to fakeNode labels.
func (h *harness) labels() []string {
	var out []string
	for _, handle := range h.rec.Order() {
		out = append(out, handle.(*fakeNode).label)
	}
	return out
}
