// Package core provides the widget and element framework: descriptors,
// reconciliation, build scheduling, and inherited-value propagation.
//
// It follows a declarative UI model: widgets are immutable descriptions of
// what the tree should look like, and the framework updates a mounted element
// tree to match, retaining elements (and their state) wherever the old and
// new widgets agree on runtime type and key.
//
// # Core Types
//
// Widget is an immutable description of one tree position. Widgets are
// lightweight configuration values that can be created on every build without
// performance concerns. A widget implements exactly one of the behavior
// interfaces: [StatelessWidget], [StatefulWidget], [InheritedWidget], or
// [RenderWidget].
//
// Element is the live instantiation of a widget at a particular location.
// Elements live in an arena owned by a [BuildOwner] and are addressed by
// [ElementID]; parent references are IDs, never owning pointers.
//
// # Ownership
//
// Every mounted tree is driven by exactly one [BuildOwner], constructed with
// a backing-tree adapter and a scheduler. There is no package-level owner:
// all mount, dirty-mark, and unmount traffic flows through the owner the
// caller holds.
//
// # Stateful Widgets
//
// For widgets that need mutable state, embed StateBase in your state struct:
//
//	type counterState struct {
//	    core.StateBase
//	    count int
//	}
//
//	func (s *counterState) Build(ctx core.BuildContext) core.Widget {
//	    return label{text: fmt.Sprintf("Count: %d", s.count)}
//	}
//
// State survives any resync whose incoming widget is congruent (same type,
// same key) with the mounted one, and is disposed exactly once on unmount.
//
// # Hooks
//
// Managed, Observable, UseObservable, and UseDisposable help manage values
// and subscriptions with automatic rebuilds and cleanup on disposal.
package core
