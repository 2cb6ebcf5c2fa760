package framegraph

import (
	"github.com/gogpu/framegraph/depgraph"
	"github.com/gogpu/framegraph/resource"
)

// Builder is scoped to exactly one pass's setup callback. It never
// outlives that callback — the execute callback must not capture
// references into it.
type Builder struct {
	fg     *FrameGraph
	passID depgraph.NodeID
}

// Create declares a brand-new virtual resource of kind
// resource.Typed[D, U, K], returning a Handle at version 0.
func Create[D any, U resource.UsageBits, K resource.Kind[D, U]](b *Builder, name string, desc D, newConcrete func() K) Handle[resource.Typed[D, U, K]] {
	vr := resource.NewTyped[D, U, K](name, 0, desc, newConcrete)
	slotIndex := b.fg.registerResource(vr)
	return Handle[resource.Typed[D, U, K]]{index: slotIndex, version: 0}
}

// CreateSubresource declares a resource that is a view onto *parent: it
// performs a write on *parent (bumping its version, exactly like any
// other write) and records the new resource's parent back-reference,
// per the chosen "child depends on parent" convention (see DESIGN.md).
// *parent is updated in place to the post-write handle, mirroring the
// pointer-parameter shape of the original createSubresource — the
// caller's old parent handle is stale the instant this returns, same as
// any other write.
func CreateSubresource[D any, U resource.UsageBits, K resource.Kind[D, U]](
	b *Builder, parent *Handle[resource.Typed[D, U, K]], name string, desc D, newConcrete func() K, usage U,
) Handle[resource.Typed[D, U, K]] {
	vr := resource.NewTyped[D, U, K](name, 0, desc, newConcrete)
	parentIndex := b.fg.slots[parent.index].resourceIndex
	vr.SetParent(parentIndex)

	slotIndex := b.fg.registerResource(vr)
	*parent = Write(b, *parent, usage)
	return Handle[resource.Typed[D, U, K]]{index: slotIndex, version: 0}
}

// Read declares a read of h with usage, creating a reader edge from h's
// current node to this pass. The returned handle is identical to h —
// reads never change a resource's version.
func Read[D any, U resource.UsageBits, K resource.Kind[D, U]](b *Builder, h Handle[resource.Typed[D, U, K]], usage U) Handle[resource.Typed[D, U, K]] {
	b.fg.checkHandle("Read", h.index, h.version)
	b.fg.read(b.passID, h.index, usage)
	return h
}

// Write declares a write of h with usage. If h's current node has no
// writer yet, this pass becomes that writer and h is returned
// unchanged. Otherwise a new ResourceNode is allocated at the next
// version, the resource's slot is redirected to it, and the returned
// handle carries that new version — the input handle becomes stale
// (see IsValid).
func Write[D any, U resource.UsageBits, K resource.Kind[D, U]](b *Builder, h Handle[resource.Typed[D, U, K]], usage U) Handle[resource.Typed[D, U, K]] {
	b.fg.checkHandle("Write", h.index, h.version)
	newVersion := b.fg.write(b.passID, h.index, usage)
	return Handle[resource.Typed[D, U, K]]{index: h.index, version: newVersion}
}

// SideEffect marks the current pass as a graph target: it survives
// culling (and, transitively, so does everything it reads) even if
// nothing downstream ever reads its outputs. A resource version it
// writes is still culled when no surviving pass reads that version.
func (b *Builder) SideEffect() {
	b.fg.graph.Node(b.passID).MakeTarget()
}

// GetDescriptor returns the static descriptor h's resource was declared
// with.
func GetDescriptor[D any, U resource.UsageBits, K resource.Kind[D, U]](b *Builder, h Handle[resource.Typed[D, U, K]]) D {
	b.fg.checkHandle("GetDescriptor", h.index, h.version)
	vr := b.fg.resourceAt(h.index).(*resource.Typed[D, U, K])
	return vr.Descriptor().(D)
}

// CreateTexture is the resource.TextureResource specialization of Create.
func CreateTexture(b *Builder, name string, desc resource.TextureDescriptor) Handle[resource.TextureResource] {
	return Create[resource.TextureDescriptor, resource.TextureUsage, *resource.TextureBackend](
		b, name, desc, func() *resource.TextureBackend { return &resource.TextureBackend{} },
	)
}

// ReadTexture is the resource.TextureResource specialization of Read.
func ReadTexture(b *Builder, h Handle[resource.TextureResource], usage resource.TextureUsage) Handle[resource.TextureResource] {
	return Read[resource.TextureDescriptor, resource.TextureUsage, *resource.TextureBackend](b, h, usage)
}

// WriteTexture is the resource.TextureResource specialization of Write.
func WriteTexture(b *Builder, h Handle[resource.TextureResource], usage resource.TextureUsage) Handle[resource.TextureResource] {
	return Write[resource.TextureDescriptor, resource.TextureUsage, *resource.TextureBackend](b, h, usage)
}

// CreateBuffer is the resource.BufferResource specialization of Create.
func CreateBuffer(b *Builder, name string, desc resource.BufferDescriptor) Handle[resource.BufferResource] {
	return Create[resource.BufferDescriptor, resource.BufferUsage, *resource.BufferBackend](
		b, name, desc, func() *resource.BufferBackend { return &resource.BufferBackend{} },
	)
}

// ReadBuffer is the resource.BufferResource specialization of Read.
func ReadBuffer(b *Builder, h Handle[resource.BufferResource], usage resource.BufferUsage) Handle[resource.BufferResource] {
	return Read[resource.BufferDescriptor, resource.BufferUsage, *resource.BufferBackend](b, h, usage)
}

// WriteBuffer is the resource.BufferResource specialization of Write.
func WriteBuffer(b *Builder, h Handle[resource.BufferResource], usage resource.BufferUsage) Handle[resource.BufferResource] {
	return Write[resource.BufferDescriptor, resource.BufferUsage, *resource.BufferBackend](b, h, usage)
}
