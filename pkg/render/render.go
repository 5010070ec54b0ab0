// Package render defines the contract between the element tree and the
// backing render tree.
//
// The framework core never lays out or paints anything itself. Each render
// widget owns exactly one Handle, and the reconciler drives an Adapter with a
// minimal set of structural mutations: attach, detach, move. Everything else
// about the backing tree (geometry, painting, hit-testing) belongs to the
// adapter implementation.
package render

// Handle is an opaque reference to a node in the backing render tree.
//
// A handle is owned by exactly one element at a time. A keyed move transfers
// the handle's position in a single Move call; a handle must never be
// attached in two places simultaneously.
type Handle any

// Adapter mutates the backing render tree on behalf of the reconciler.
//
// The before argument is an insertion locator: insert immediately before that
// sibling handle, or at the end when nil. Adapters are called from a single
// goroutine and do not need to be safe for concurrent use.
type Adapter interface {
	// Attach inserts a newly created handle at the given position.
	Attach(handle, before Handle)

	// Detach removes the handle from the backing tree. The handle is never
	// reused after a detach.
	Detach(handle Handle)

	// Move reinserts an already attached handle at a new position.
	Move(handle, before Handle)
}
