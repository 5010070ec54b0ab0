package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/go-weft/weft/pkg/core"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing test
// doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// WidgetNode is one node of a serialized widget tree.
type WidgetNode struct {
	Type     string        `json:"type"`
	Key      any           `json:"key,omitempty"`
	Children []*WidgetNode `json:"children,omitempty"`
}

// Snapshot captures the mounted widget tree structure.
type Snapshot struct {
	Tree *WidgetNode `json:"tree"`
}

// CaptureSnapshot serializes the current widget tree, starting below the
// tester's internal host.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	if t.Root() == core.NoElement {
		return snap
	}
	roots := t.captureChildren(t.Root())
	if len(roots) == 1 {
		snap.Tree = roots[0]
	} else if len(roots) > 1 {
		snap.Tree = &WidgetNode{Type: "root", Children: roots}
	}
	return snap
}

func (t *Tester) captureChildren(id core.ElementID) []*WidgetNode {
	var nodes []*WidgetNode
	for _, childID := range t.Owner().ChildrenOf(id) {
		w := t.Owner().WidgetOf(childID)
		node := &WidgetNode{
			Type:     reflect.TypeOf(w).String(),
			Key:      w.Key(),
			Children: t.captureChildren(childID),
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// MatchesFile compares the snapshot against a golden file. On mismatch it
// reports both trees and how to update. When WEFT_UPDATE_SNAPSHOTS=1 is
// set, the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("WEFT_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read snapshot %s: %v\nrun with WEFT_UPDATE_SNAPSHOTS=1 to create it", path, err)
		return
	}

	got, err := s.marshal()
	if err != nil {
		t.Fatalf("failed to serialize snapshot: %v", err)
		return
	}

	if !bytes.Equal(bytes.TrimSpace(want), bytes.TrimSpace(got)) {
		t.Errorf("snapshot mismatch for %s\n--- want\n%s\n--- got\n%s\nrun with WEFT_UPDATE_SNAPSHOTS=1 to update", path, want, got)
	}
}

// UpdateFile writes the snapshot to the golden file, creating parent
// directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	data, err := s.marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Snapshot) marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}
