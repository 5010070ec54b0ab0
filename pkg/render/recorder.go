package render

// OpKind identifies a recorded adapter mutation.
type OpKind uint8

const (
	// OpAttach records an Attach call.
	OpAttach OpKind = iota
	// OpDetach records a Detach call.
	OpDetach
	// OpMove records a Move call.
	OpMove
)

func (k OpKind) String() string {
	switch k {
	case OpAttach:
		return "attach"
	case OpDetach:
		return "detach"
	case OpMove:
		return "move"
	default:
		return "unknown"
	}
}

// Op is one recorded adapter mutation.
type Op struct {
	Kind   OpKind
	Handle Handle
	Before Handle
}

// Recorder is an Adapter that records every mutation and maintains the
// resulting sibling order. It backs the widget tester and reconciler tests;
// real embedders supply their own Adapter.
type Recorder struct {
	ops   []Op
	order []Handle
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Attach implements Adapter.
func (r *Recorder) Attach(handle, before Handle) {
	r.ops = append(r.ops, Op{Kind: OpAttach, Handle: handle, Before: before})
	r.insert(handle, before)
}

// Detach implements Adapter.
func (r *Recorder) Detach(handle Handle) {
	r.ops = append(r.ops, Op{Kind: OpDetach, Handle: handle})
	r.remove(handle)
}

// Move implements Adapter.
func (r *Recorder) Move(handle, before Handle) {
	r.ops = append(r.ops, Op{Kind: OpMove, Handle: handle, Before: before})
	r.remove(handle)
	r.insert(handle, before)
}

// Ops returns all mutations recorded so far.
func (r *Recorder) Ops() []Op {
	return append([]Op(nil), r.ops...)
}

// TakeOps returns the recorded mutations and clears the log. The sibling
// order is preserved.
func (r *Recorder) TakeOps() []Op {
	ops := r.ops
	r.ops = nil
	return ops
}

// Order returns the current sibling order of attached handles.
func (r *Recorder) Order() []Handle {
	return append([]Handle(nil), r.order...)
}

func (r *Recorder) insert(handle, before Handle) {
	if before == nil {
		r.order = append(r.order, handle)
		return
	}
	for i, h := range r.order {
		if h == before {
			r.order = append(r.order[:i], append([]Handle{handle}, r.order[i:]...)...)
			return
		}
	}
	r.order = append(r.order, handle)
}

func (r *Recorder) remove(handle Handle) {
	for i, h := range r.order {
		if h == handle {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
