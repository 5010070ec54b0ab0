package testing

import (
	"path/filepath"
	"testing"

	"github.com/go-weft/weft/pkg/core"
	"github.com/go-weft/weft/pkg/render"
)

type node struct {
	label string
}

type row struct {
	core.RenderBase
	Kids []core.Widget
}

func (w row) CreateHandle(ctx core.BuildContext) render.Handle {
	return &node{label: "row"}
}

func (w row) UpdateHandle(ctx core.BuildContext, handle render.Handle) {}

func (w row) Children() []core.Widget { return w.Kids }

type label struct {
	core.RenderBase
	K    any
	Text string
}

func (w label) Key() any { return w.K }

func (w label) CreateHandle(ctx core.BuildContext) render.Handle {
	return &node{label: w.Text}
}

func (w label) UpdateHandle(ctx core.BuildContext, handle render.Handle) {
	handle.(*node).label = w.Text
}

type greeting struct {
	core.StatelessBase
	Name string
}

func (w greeting) Build(ctx core.BuildContext) core.Widget {
	return label{Text: "hello " + w.Name}
}

func TestPumpWidget_MountsTree(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpWidget(row{Kids: []core.Widget{
		label{Text: "a"},
		greeting{Name: "b"},
	}})

	order := tester.Recorder().Order()
	if len(order) != 3 {
		t.Fatalf("expected 3 attached handles, got %d", len(order))
	}
	if order[2].(*node).label != "hello b" {
		t.Errorf("expected trailing handle 'hello b', got %q", order[2].(*node).label)
	}
}

func TestPumpWidget_RepumpResyncsInPlace(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpWidget(label{Text: "one"})
	before := tester.Recorder().Order()

	tester.PumpWidget(label{Text: "two"})
	after := tester.Recorder().Order()

	if len(before) != 1 || len(after) != 1 || before[0] != after[0] {
		t.Fatal("re-pumping a congruent widget should keep the backing handle")
	}
	if after[0].(*node).label != "two" {
		t.Errorf("handle text = %q, want two", after[0].(*node).label)
	}
}

func TestFind_ByTypeAndKey(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpWidget(row{Kids: []core.Widget{
		label{K: "x", Text: "x"},
		label{K: "y", Text: "y"},
		greeting{Name: "z"},
	}})

	if got := tester.Find(ByType(label{})).Count(); got != 3 {
		// Two direct labels plus the one greeting builds.
		t.Errorf("ByType(label) found %d, want 3", got)
	}
	if got := tester.Find(ByKey("y")).Count(); got != 1 {
		t.Errorf("ByKey(y) found %d, want 1", got)
	}
	if got := tester.Find(ByKey("missing")).FirstOrNone(); got != core.NoElement {
		t.Errorf("expected NoElement for a missing key, got %v", got)
	}

	found := tester.Find(ByPredicate("greetings named z", func(w core.Widget) bool {
		g, ok := w.(greeting)
		return ok && g.Name == "z"
	}))
	if found.Count() != 1 {
		t.Fatalf("predicate found %d, want 1", found.Count())
	}
	if tester.Owner().WidgetOf(found.First()).(greeting).Name != "z" {
		t.Error("First returned the wrong element")
	}
}

func TestSnapshot_RoundTripsThroughGolden(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpWidget(row{Kids: []core.Widget{
		label{K: "x", Text: "x"},
		greeting{Name: "z"},
	}})

	path := filepath.Join(t.TempDir(), "tree.json")
	snap := tester.CaptureSnapshot()
	if err := snap.UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	snap.MatchesFile(t, path)

	if snap.Tree == nil || snap.Tree.Type != "testing.row" {
		t.Fatalf("unexpected snapshot root: %+v", snap.Tree)
	}
	if len(snap.Tree.Children) != 2 || snap.Tree.Children[0].Key != "x" {
		t.Fatalf("unexpected snapshot children: %+v", snap.Tree.Children)
	}
}

type failRecorder struct {
	failed bool
}

func (f *failRecorder) Helper()               {}
func (f *failRecorder) Errorf(string, ...any) { f.failed = true }
func (f *failRecorder) Fatalf(string, ...any) { f.failed = true }
func (f *failRecorder) Name() string          { return "failRecorder" }

func TestSnapshot_MismatchReported(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.PumpWidget(label{Text: "a"})

	path := filepath.Join(t.TempDir(), "tree.json")
	if err := tester.CaptureSnapshot().UpdateFile(path); err != nil {
		t.Fatalf("UpdateFile: %v", err)
	}

	tester.PumpWidget(row{Kids: []core.Widget{label{Text: "a"}}})
	rec := &failRecorder{}
	tester.CaptureSnapshot().MatchesFile(rec, path)

	if !rec.failed {
		t.Fatal("expected a snapshot mismatch to be reported")
	}
}
