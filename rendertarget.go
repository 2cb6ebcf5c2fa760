package framegraph

import (
	"github.com/gogpu/framegraph/depgraph"
	"github.com/gogpu/framegraph/resource"
)

// AttachmentSlot identifies one of a render target's fixed attachment
// points: up to four color attachments plus depth and stencil.
type AttachmentSlot int

// Attachment slots.
const (
	Color0 AttachmentSlot = iota
	Color1
	Color2
	Color3
	Depth
	Stencil
)

func (s AttachmentSlot) usage() resource.TextureUsage {
	if s == Depth || s == Stencil {
		return resource.TextureUsageDepthStencilAttachment
	}
	return resource.TextureUsageColorAttachment
}

// attachmentDecl pairs the ResourceNode before (incoming) and after
// (outgoing) this render pass's write to one attachment. firstWrite
// records whether incoming had no writer of its own before this
// declaration — the resource has no prior content to load in that case.
type attachmentDecl struct {
	slot       AttachmentSlot
	incoming   depgraph.NodeID
	outgoing   depgraph.NodeID
	firstWrite bool
}

// renderTargetDecl is one pass's full set of attachment declarations.
type renderTargetDecl struct {
	name        string
	attachments []*attachmentDecl
}

// AttachmentInfo is what Resources hands the pass's execute callback for
// each declared attachment, so the callback can build the concrete GPU
// render target itself — object creation is outside this package's
// scope (§1 Non-goals); only the discard-flag bookkeeping is ours.
type AttachmentInfo struct {
	Slot         AttachmentSlot
	LoadDiscard  bool
	StoreDiscard bool
}

// RenderTargetAttachments is a full set of color + depth/stencil
// texture handles a pass wants to write as a unit.
type RenderTargetAttachments struct {
	Colors  [4]*Handle[resource.TextureResource]
	Depth   *Handle[resource.TextureResource]
	Stencil *Handle[resource.TextureResource]
}

// UseAsRenderTarget performs a write per declared attachment with the
// attachment-specific usage bit and records the pre/post-write
// ResourceNode pair for each, so Execute can derive discard flags once
// the whole graph's survivorship is known. Returns the (possibly
// version-bumped) handle for each attachment it was given.
func UseAsRenderTarget(b *Builder, name string, in RenderTargetAttachments) RenderTargetAttachments {
	decl := &renderTargetDecl{name: name}
	out := RenderTargetAttachments{}

	writeOne := func(slot AttachmentSlot, h *Handle[resource.TextureResource]) *Handle[resource.TextureResource] {
		if h == nil {
			return nil
		}
		before := b.fg.currentNode(h.index)
		firstWrite := !before.HasWriter()

		// A re-used attachment loads its prior content, so that prior
		// version is a real read dependency of this pass — without this,
		// a node nobody else reads would be culled out from under its
		// producer even though this pass still needs to load it.
		if !firstWrite {
			b.fg.read(b.passID, h.index, slot.usage())
		}

		written := WriteTexture(b, *h, slot.usage())
		after := b.fg.currentNode(written.index)

		decl.attachments = append(decl.attachments, &attachmentDecl{
			slot:       slot,
			incoming:   before.ID(),
			outgoing:   after.ID(),
			firstWrite: firstWrite,
		})
		return &written
	}

	for i := range in.Colors {
		out.Colors[i] = writeOne(AttachmentSlot(i), in.Colors[i])
	}
	out.Depth = writeOne(Depth, in.Depth)
	out.Stencil = writeOne(Stencil, in.Stencil)

	pass := b.fg.graph.Node(b.passID).(*renderPassNode)
	pass.targets = append(pass.targets, decl)
	return out
}

// attachmentInfo derives an attachment's discard flags once cull and
// first/last computation have run: LoadDiscard is true when there is no
// meaningful prior content (the node had no earlier writer, or that
// prior node was culled away); StoreDiscard is true when no surviving
// reader ever consumes the written version.
func (fg *FrameGraph) attachmentInfo(a *attachmentDecl) AttachmentInfo {
	info := AttachmentInfo{Slot: a.slot}

	info.LoadDiscard = a.firstWrite
	if incoming, ok := fg.graph.Node(a.incoming).(*resource.ResourceNode); ok && incoming.IsCulled() {
		info.LoadDiscard = true
	}

	info.StoreDiscard = true
	if outgoing, ok := fg.graph.Node(a.outgoing).(*resource.ResourceNode); ok {
		for _, e := range outgoing.Readers() {
			if fg.graph.IsEdgeValid(&e.Edge) {
				info.StoreDiscard = false
				break
			}
		}
	}

	return info
}
