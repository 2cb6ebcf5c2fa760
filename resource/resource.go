package resource

import (
	"fmt"

	"github.com/gogpu/framegraph/depgraph"
)

// UsageBits is the constraint satisfied by every resource kind's usage
// bitmask type (TextureUsage, BufferUsage, ...): a uint32-based type
// combined with the ordinary bitwise operators.
type UsageBits interface {
	~uint32
}

// Kind is the capability a concrete backend-owned resource type (e.g.
// *TextureBackend) must provide to back a Typed[D, U, K]. Create and
// Destroy are the only points where this package talks to an Allocator.
type Kind[D any, U UsageBits] interface {
	Create(alloc Allocator, name string, desc D, usage U) error
	Destroy(alloc Allocator) error
}

// VirtualResource is the type-erased capability set the frame graph core
// needs from a resource, regardless of its concrete kind. Concrete
// instantiations of Typed satisfy it; the core (package framegraph)
// never depends on D, U or K directly.
type VirtualResource interface {
	Name() string
	ID() uint32
	Imported() bool

	Version() uint32
	BumpVersion() uint32

	First() depgraph.NodeID
	SetFirst(id depgraph.NodeID)
	Last() depgraph.NodeID
	SetLast(id depgraph.NodeID)

	RefCount() uint32
	AddRefCount(n uint32)
	ResetRefCount()

	// Parent reports the id of the VirtualResource this one is a
	// sub-resource of, and whether it has one at all.
	Parent() (id uint32, ok bool)

	Descriptor() any
	ConcreteAny() any

	// ResolveUsage ORs the usage of every edge in edges whose endpoints
	// both survived culling into this resource's accumulated usage. The
	// frame graph core calls it twice per surviving ResourceNode: once
	// with its outgoing reader edges, once with its single incoming
	// writer edge (if any).
	ResolveUsage(g *depgraph.Graph, edges []*ResourceEdge)

	// Devirtualize materializes the concrete backend resource. A no-op
	// for imported resources, except for the usage-conflict check.
	Devirtualize(alloc Allocator) error

	// Destroy releases the concrete backend resource. A no-op for
	// imported resources, whose lifetime the caller owns.
	Destroy(alloc Allocator) error

	// DestroyEdge is the teardown hook for an edge held by one of this
	// resource's nodes; the VirtualResource is the nominal sole owner of
	// the concrete edge subtype. Nothing in this module calls it: Go's
	// garbage collector reclaims edges, and ResourceNode has no
	// teardown step of its own.
	DestroyEdge(e *ResourceEdge)
}

// Typed is the single generic VirtualResource implementation every
// concrete resource kind (TextureResource, BufferResource) instantiates.
// D is the static descriptor type, U the usage bitmask type, K the
// backend-owned concrete type satisfying Kind[D, U].
type Typed[D any, U UsageBits, K Kind[D, U]] struct {
	name       string
	id         uint32
	descriptor D
	usage      U

	imported    bool
	importUsage U

	version     uint32
	first, last depgraph.NodeID
	refcount    uint32

	parentID  uint32
	hasParent bool

	concrete    K
	newConcrete func() K
}

// NewTyped declares a resource the frame graph must create and destroy
// itself. newConcrete produces a fresh zero-valued K each time
// Devirtualize runs; it exists because K is a type parameter and Go has
// no generic "new(K)" for an interface-constrained type.
func NewTyped[D any, U UsageBits, K Kind[D, U]](name string, id uint32, desc D, newConcrete func() K) *Typed[D, U, K] {
	return &Typed[D, U, K]{
		name:        name,
		id:          id,
		descriptor:  desc,
		first:       depgraph.NoNode,
		last:        depgraph.NoNode,
		newConcrete: newConcrete,
	}
}

// NewImportedTyped wraps an already-existing concrete resource (e.g. a
// swapchain backbuffer) as a VirtualResource. grantedUsage is the usage
// the caller promises the concrete object supports; Devirtualize checks
// the frame graph's accumulated usage against it and fails rather than
// silently using the resource outside its promised capabilities.
func NewImportedTyped[D any, U UsageBits, K Kind[D, U]](name string, id uint32, desc D, concrete K, grantedUsage U) *Typed[D, U, K] {
	return &Typed[D, U, K]{
		name:        name,
		id:          id,
		descriptor:  desc,
		imported:    true,
		importUsage: grantedUsage,
		concrete:    concrete,
		first:       depgraph.NoNode,
		last:        depgraph.NoNode,
	}
}

func (t *Typed[D, U, K]) Name() string    { return t.name }
func (t *Typed[D, U, K]) ID() uint32      { return t.id }
func (t *Typed[D, U, K]) Imported() bool  { return t.imported }
func (t *Typed[D, U, K]) Version() uint32 { return t.version }

// BumpVersion advances the resource to a new version, mirroring a write
// on an already-written handle, and returns the new value.
func (t *Typed[D, U, K]) BumpVersion() uint32 {
	t.version++
	return t.version
}

func (t *Typed[D, U, K]) First() depgraph.NodeID { return t.first }

// SetFirst records pass id as this resource's first surviving user,
// but only the first time it's called — subsequent calls (later passes
// in declaration order) are no-ops, matching compile()'s `first ?? pass`.
func (t *Typed[D, U, K]) SetFirst(id depgraph.NodeID) {
	if t.first == depgraph.NoNode {
		t.first = id
	}
}

func (t *Typed[D, U, K]) Last() depgraph.NodeID { return t.last }

// SetLast unconditionally overwrites the last surviving user, so the
// final call in declaration order wins.
func (t *Typed[D, U, K]) SetLast(id depgraph.NodeID) { t.last = id }

func (t *Typed[D, U, K]) RefCount() uint32     { return t.refcount }
func (t *Typed[D, U, K]) AddRefCount(n uint32) { t.refcount += n }

// ResetRefCount clears the resource-level bookkeeping compile()
// recomputes every frame: refcount, first/last, and accumulated usage.
func (t *Typed[D, U, K]) ResetRefCount() {
	t.refcount = 0
	t.first = depgraph.NoNode
	t.last = depgraph.NoNode
	var zero U
	t.usage = zero
}

func (t *Typed[D, U, K]) Parent() (uint32, bool) { return t.parentID, t.hasParent }

// SetParent records that this resource is a sub-resource of parentID,
// per create_subresource's child-depends-on-parent convention.
func (t *Typed[D, U, K]) SetParent(parentID uint32) {
	t.parentID, t.hasParent = parentID, true
}

func (t *Typed[D, U, K]) Descriptor() any  { return t.descriptor }
func (t *Typed[D, U, K]) Usage() U         { return t.usage }
func (t *Typed[D, U, K]) ConcreteAny() any { return t.concrete }

// Concrete returns the backend-owned object, valid only between a
// successful Devirtualize and the matching Destroy.
func (t *Typed[D, U, K]) Concrete() K { return t.concrete }

// ResolveUsage implements VirtualResource.ResolveUsage: it ignores any
// edge whose endpoints didn't both survive culling, matching invariant 5.
func (t *Typed[D, U, K]) ResolveUsage(g *depgraph.Graph, edges []*ResourceEdge) {
	for _, e := range edges {
		if !g.IsEdgeValid(&e.Edge) {
			continue
		}
		if u, ok := e.Usage.(U); ok {
			t.usage |= u
		}
	}
}

// Devirtualize creates the concrete backend resource, or for an imported
// resource just validates that the accumulated usage stayed within the
// usage granted at import time.
func (t *Typed[D, U, K]) Devirtualize(alloc Allocator) error {
	if t.imported {
		if t.usage&^t.importUsage != 0 {
			return fmt.Errorf("resource %q: usage %v exceeds import grant %v: %w",
				t.name, t.usage, t.importUsage, ErrImportConflict)
		}
		return nil
	}
	t.concrete = t.newConcrete()
	if err := t.concrete.Create(alloc, t.name, t.descriptor, t.usage); err != nil {
		return fmt.Errorf("resource %q: devirtualize: %w", t.name, err)
	}
	return nil
}

// Destroy releases the concrete backend resource. A no-op for imported
// resources, whose lifetime the importer owns.
func (t *Typed[D, U, K]) Destroy(alloc Allocator) error {
	if t.imported {
		return nil
	}
	if err := t.concrete.Destroy(alloc); err != nil {
		return fmt.Errorf("resource %q: destroy: %w", t.name, err)
	}
	return nil
}

// DestroyEdge is a structural no-op: Go's garbage collector reclaims
// edges once nothing references them. The hook exists so callers that
// walk the ownership chain (and any future backend needing explicit
// edge teardown) have a place to hang that logic.
func (t *Typed[D, U, K]) DestroyEdge(*ResourceEdge) {}
