package framegraph

import (
	"github.com/gogpu/framegraph/depgraph"
	"github.com/gogpu/framegraph/resource"
)

// Resources is the execution-phase accessor passed to each pass's
// execute callback, scoped to that one pass. It maps handles to
// concrete resources devirtualize already created.
type Resources struct {
	fg       *FrameGraph
	passID   depgraph.NodeID
	passName string
}

// PassName returns the name of the pass this Resources is scoped to.
func (r *Resources) PassName() string { return r.passName }

// RenderTarget returns the discard-flag-resolved attachment info for
// the render target this pass declared under name during setup, or nil
// if no such declaration exists.
func (r *Resources) RenderTarget(name string) []AttachmentInfo {
	pass, ok := r.fg.graph.Node(r.passID).(*renderPassNode)
	if !ok {
		return nil
	}
	for _, decl := range pass.targets {
		if decl.name != name {
			continue
		}
		infos := make([]AttachmentInfo, len(decl.attachments))
		for i, a := range decl.attachments {
			infos[i] = r.fg.attachmentInfo(a)
		}
		return infos
	}
	return nil
}

// Get returns the concrete backend resource behind h, valid only
// between its VirtualResource's Devirtualize and Destroy calls.
// Get does not enforce the stale-handle contract Read/Write/GetDescriptor
// do: a pass's own handles remain valid execution-time keys into its
// resources for that pass's whole lifetime regardless of what later
// passes went on to do to the same resource during setup.
func Get[D any, U resource.UsageBits, K resource.Kind[D, U]](r *Resources, h Handle[resource.Typed[D, U, K]]) K {
	r.fg.checkHandleIndex("Get", h.index)
	vr := r.fg.resourceAt(h.index).(*resource.Typed[D, U, K])
	return vr.Concrete()
}

// Descriptor returns h's static descriptor.
func Descriptor[D any, U resource.UsageBits, K resource.Kind[D, U]](r *Resources, h Handle[resource.Typed[D, U, K]]) D {
	r.fg.checkHandleIndex("Descriptor", h.index)
	vr := r.fg.resourceAt(h.index).(*resource.Typed[D, U, K])
	return vr.Descriptor().(D)
}

// Usage returns h's resolved, accumulated usage bitmask.
func Usage[D any, U resource.UsageBits, K resource.Kind[D, U]](r *Resources, h Handle[resource.Typed[D, U, K]]) U {
	r.fg.checkHandleIndex("Usage", h.index)
	vr := r.fg.resourceAt(h.index).(*resource.Typed[D, U, K])
	return vr.Usage()
}

// GetTexture is the resource.TextureResource specialization of Get.
func GetTexture(r *Resources, h Handle[resource.TextureResource]) *resource.TextureBackend {
	return Get[resource.TextureDescriptor, resource.TextureUsage, *resource.TextureBackend](r, h)
}

// GetBuffer is the resource.BufferResource specialization of Get.
func GetBuffer(r *Resources, h Handle[resource.BufferResource]) *resource.BufferBackend {
	return Get[resource.BufferDescriptor, resource.BufferUsage, *resource.BufferBackend](r, h)
}
