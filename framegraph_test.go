package framegraph

import (
	"errors"
	"testing"

	"github.com/gogpu/framegraph/depgraph"
	"github.com/gogpu/framegraph/driver"
	"github.com/gogpu/framegraph/resource"
)

type fakeAllocator struct {
	trace []string
}

func (a *fakeAllocator) CreateTexture(name string, desc resource.TextureDescriptor, usage resource.TextureUsage) (*resource.TextureBackend, error) {
	a.trace = append(a.trace, "create:"+name)
	return &resource.TextureBackend{ID: uint64(len(a.trace)), Desc: desc}, nil
}

func (a *fakeAllocator) DestroyTexture(tex *resource.TextureBackend) error {
	a.trace = append(a.trace, "destroy")
	return nil
}

func (a *fakeAllocator) CreateBuffer(name string, desc resource.BufferDescriptor, usage resource.BufferUsage) (*resource.BufferBackend, error) {
	a.trace = append(a.trace, "create:"+name)
	return &resource.BufferBackend{Desc: desc}, nil
}

func (a *fakeAllocator) DestroyBuffer(buf *resource.BufferBackend) error {
	a.trace = append(a.trace, "destroy")
	return nil
}

type fakeDriver struct {
	trace []string
}

func (d *fakeDriver) PushGroupMarker(name string) { d.trace = append(d.trace, "push:"+name) }
func (d *fakeDriver) PopGroupMarker()             { d.trace = append(d.trace, "pop") }
func (d *fakeDriver) Flush()                      { d.trace = append(d.trace, "flush") }

func noopExec(*Resources, driver.Driver) error { return nil }

// TestCompile_CullsUnreachablePass is scenario S4: pass A writes X, pass
// B reads X and writes Y, pass C reads X and writes Z. present(Y).
// After compile, A and B survive but C is culled and its execute
// callback never runs.
func TestCompile_CullsUnreachablePass(t *testing.T) {
	alloc := &fakeAllocator{}
	fg := New(alloc)

	var x, y Handle[resource.TextureResource]
	cExecuted := false

	fg.AddPass("A", func(b *Builder) {
		x = CreateTexture(b, "X", resource.TextureDescriptor{Width: 4, Height: 4})
		x = WriteTexture(b, x, resource.TextureUsageColorAttachment)
	}, noopExec)

	fg.AddPass("B", func(b *Builder) {
		x = ReadTexture(b, x, resource.TextureUsageSampled)
		y = CreateTexture(b, "Y", resource.TextureDescriptor{Width: 4, Height: 4})
		y = WriteTexture(b, y, resource.TextureUsageColorAttachment)
	}, noopExec)

	fg.AddPass("C", func(b *Builder) {
		x = ReadTexture(b, x, resource.TextureUsageSampled)
		z := CreateTexture(b, "Z", resource.TextureDescriptor{Width: 4, Height: 4})
		WriteTexture(b, z, resource.TextureUsageColorAttachment)
	}, func(r *Resources, d driver.Driver) error {
		cExecuted = true
		return nil
	})

	Present(fg, y, resource.TextureUsageColorAttachment)
	fg.Compile()

	passA, passB, passC := fg.passes[0], fg.passes[1], fg.passes[2]
	if passA.IsCulled() {
		t.Error("pass A should survive compile")
	}
	if passB.IsCulled() {
		t.Error("pass B should survive compile")
	}
	if !passC.IsCulled() {
		t.Error("pass C should be culled: nothing downstream of present(Y) reads Z")
	}

	if err := fg.Execute(&fakeDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cExecuted {
		t.Error("culled pass C's execute callback must never run")
	}
}

// TestCompile_DepthPrepassLifetime is scenario S5: pass P writes depth D;
// pass C reads D, writes D again, and writes color Col; present(Col).
// D's first user must be P, its last user C, and its accumulated usage
// the OR of every surviving edge that touched it.
func TestCompile_DepthPrepassLifetime(t *testing.T) {
	alloc := &fakeAllocator{}
	fg := New(alloc)

	var depth, col Handle[resource.TextureResource]
	var depthAfterP Handle[resource.TextureResource]

	fg.AddPass("P", func(b *Builder) {
		depth = CreateTexture(b, "D", resource.TextureDescriptor{Width: 4, Height: 4, Format: resource.TextureFormatDepth32Float})
		depth = WriteTexture(b, depth, resource.TextureUsageDepthStencilAttachment)
		depthAfterP = depth
	}, func(r *Resources, d driver.Driver) error {
		if GetTexture(r, depthAfterP) == nil {
			t.Error("depth texture must be devirtualized before P executes")
		}
		return nil
	})

	fg.AddPass("C", func(b *Builder) {
		depth = ReadTexture(b, depth, resource.TextureUsageSampled)
		depth = WriteTexture(b, depth, resource.TextureUsageDepthStencilAttachment)
		col = CreateTexture(b, "Col", resource.TextureDescriptor{Width: 4, Height: 4, Format: resource.TextureFormatRGBA8Unorm})
		col = WriteTexture(b, col, resource.TextureUsageColorAttachment)
	}, noopExec)

	Present(fg, col, resource.TextureUsageColorAttachment)
	fg.Compile()

	passP, passC := fg.passes[0], fg.passes[1]

	depthRes := fg.resources[0].(*resource.TextureResource)
	if depthRes.First() != passP.ID() {
		t.Errorf("D.first = %v, want P (%v)", depthRes.First(), passP.ID())
	}
	if depthRes.Last() != passC.ID() {
		t.Errorf("D.last = %v, want C (%v)", depthRes.Last(), passC.ID())
	}

	wantUsage := resource.TextureUsageDepthStencilAttachment | resource.TextureUsageSampled
	if depthRes.Usage() != wantUsage {
		t.Errorf("D.usage = %v, want %v", depthRes.Usage(), wantUsage)
	}

	d := &fakeDriver{}
	if err := fg.Execute(d); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if alloc.trace[0] != "create:D" {
		t.Errorf("expected D to devirtualize before anything else, got trace %v", alloc.trace)
	}
	// D's last user is C, so it must be destroyed only once C's execute
	// has run — i.e. strictly after Col (created inside C) devirtualizes.
	destroyIdx, colCreateIdx := -1, -1
	for i, entry := range alloc.trace {
		if entry == "destroy" && destroyIdx == -1 {
			destroyIdx = i
		}
		if entry == "create:Col" {
			colCreateIdx = i
		}
	}
	if destroyIdx == -1 || colCreateIdx == -1 || destroyIdx < colCreateIdx {
		t.Errorf("expected D's destroy after Col's create in trace %v", alloc.trace)
	}
}

// TestWrite_VersioningInvalidatesOldHandles is scenario S6: a first
// write leaves the handle's version unchanged (no prior writer to
// version past), a second write bumps it, and the pre-bump handle
// becomes stale.
func TestWrite_VersioningInvalidatesOldHandles(t *testing.T) {
	fg := New(&fakeAllocator{})

	var h0, h1, h2 Handle[resource.TextureResource]
	fg.AddPass("only", func(b *Builder) {
		h0 = CreateTexture(b, "X", resource.TextureDescriptor{Width: 1, Height: 1})
		h1 = WriteTexture(b, h0, resource.TextureUsageColorAttachment)
		if h1.version != h0.version {
			t.Errorf("first write on a handle with no prior writer must not bump version: h0=%d h1=%d", h0.version, h1.version)
		}
		h2 = WriteTexture(b, h1, resource.TextureUsageColorAttachment)
		if h2.version != h1.version+1 {
			t.Errorf("second write must bump version: h1=%d h2=%d", h1.version, h2.version)
		}
	}, noopExec)

	if IsValid(fg, h1) {
		t.Error("h1 should be stale after the second write bumped the resource's version")
	}
	if !IsValid(fg, h2) {
		t.Error("h2 should be valid: it names the resource's current version")
	}
}

// TestRead_StaleHandlePanics is invariant 6: using a handle whose
// version no longer matches its resource's current version is a fatal
// contract violation, not a silently-ignored no-op.
func TestRead_StaleHandlePanics(t *testing.T) {
	fg := New(&fakeAllocator{})

	var stale Handle[resource.TextureResource]
	fg.AddPass("writer", func(b *Builder) {
		h := CreateTexture(b, "X", resource.TextureDescriptor{Width: 1, Height: 1})
		stale = WriteTexture(b, h, resource.TextureUsageColorAttachment)
		WriteTexture(b, stale, resource.TextureUsageColorAttachment) // bumps past stale
	}, noopExec)

	defer func() {
		if recover() == nil {
			t.Fatal("expected reading a stale handle to panic")
		}
	}()
	fg.AddPass("reader", func(b *Builder) {
		ReadTexture(b, stale, resource.TextureUsageSampled)
	}, noopExec)
}

// TestCompile_ProducesNoSurvivingPassWithoutPresent covers the edge case
// that culling everything, including all passes, is not an error.
func TestCompile_ProducesNoSurvivingPassWithoutPresent(t *testing.T) {
	fg := New(&fakeAllocator{})

	fg.AddPass("orphan", func(b *Builder) {
		h := CreateTexture(b, "X", resource.TextureDescriptor{Width: 1, Height: 1})
		WriteTexture(b, h, resource.TextureUsageColorAttachment)
	}, noopExec)

	fg.Compile()
	if !fg.passes[0].IsCulled() {
		t.Error("a pass nobody presents or side-effects should be culled")
	}
	if err := fg.Execute(&fakeDriver{}); err != nil {
		t.Fatalf("execute on an all-culled graph should not error: %v", err)
	}
}

// TestImport_PresentEndToEnd covers the canonical imported-resource use
// case: a swapchain-backbuffer-like resource is imported, written by a
// pass, and presented. The allocator must never be asked to create or
// destroy it — its lifetime belongs to whoever passed it in.
func TestImport_PresentEndToEnd(t *testing.T) {
	alloc := &fakeAllocator{}
	fg := New(alloc)

	concrete := &resource.TextureBackend{ID: 99}
	backbuffer := ImportTexture(fg, "backbuffer", resource.TextureDescriptor{Width: 800, Height: 600}, concrete, resource.TextureUsageColorAttachment)

	fg.AddPass("blit", func(b *Builder) {
		backbuffer = WriteTexture(b, backbuffer, resource.TextureUsageColorAttachment)
	}, noopExec)

	Present(fg, backbuffer, resource.TextureUsageColorAttachment)
	fg.Compile()

	if err := fg.Execute(&fakeDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(alloc.trace) != 0 {
		t.Errorf("an imported resource must never be created or destroyed by the allocator, got trace %v", alloc.trace)
	}
}

// TestImport_UsageConflictFailsExecute is the other half of invariant
// "Imported-resource conflicts" (§7): accumulated usage that exceeds the
// grant promised at import time must fail, not silently proceed.
func TestImport_UsageConflictFailsExecute(t *testing.T) {
	alloc := &fakeAllocator{}
	fg := New(alloc)

	concrete := &resource.TextureBackend{ID: 7}
	backbuffer := ImportTexture(fg, "backbuffer", resource.TextureDescriptor{Width: 800, Height: 600}, concrete, resource.TextureUsageColorAttachment)

	Present(fg, backbuffer, resource.TextureUsageSampled)
	fg.Compile()

	if err := fg.Execute(&fakeDriver{}); !errors.Is(err, ErrImportConflict) {
		t.Fatalf("expected ErrImportConflict, got %v", err)
	}
}

// TestCompile_SideEffectPassSurvivesButWriteNodeCulled exercises §9's
// devirtualize-FIXME policy: a pass kept alive only by SideEffect may
// still have the ResourceNode for one of its writes culled away, if
// nothing downstream ever reads that version. Compile's first/last
// computation only looks at a surviving pass's still-valid edges, so
// such a resource must never be devirtualized at all.
func TestCompile_SideEffectPassSurvivesButWriteNodeCulled(t *testing.T) {
	alloc := &fakeAllocator{}
	fg := New(alloc)

	fg.AddPass("sideeffect", func(b *Builder) {
		h := CreateTexture(b, "X", resource.TextureDescriptor{Width: 4, Height: 4})
		WriteTexture(b, h, resource.TextureUsageColorAttachment)
		b.SideEffect()
	}, noopExec)

	fg.Compile()

	pass := fg.passes[0]
	if pass.IsCulled() {
		t.Fatal("a SideEffect pass must survive compile regardless of what happens to its resources")
	}

	xRes := fg.resources[0]
	if xRes.First() != depgraph.NoNode {
		t.Errorf("X.first = %v, want NoNode: nothing reads the written node so it should be culled and never devirtualized", xRes.First())
	}
	if xRes.Last() != depgraph.NoNode {
		t.Errorf("X.last = %v, want NoNode", xRes.Last())
	}

	if err := fg.Execute(&fakeDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(alloc.trace) != 0 {
		t.Errorf("expected no allocator calls for a resource whose only write node was culled, got %v", alloc.trace)
	}
}

// TestUseAsRenderTarget_DiscardFlags covers the supplemented
// RenderTarget feature end to end: P writes a fresh depth attachment (no
// prior content, so LoadDiscard), Q reuses it as its own depth
// attachment (content must be loaded, so !LoadDiscard) and also writes a
// fresh color attachment that ends up presented (so !StoreDiscard on
// color, but StoreDiscard on the now-unused depth).
func TestUseAsRenderTarget_DiscardFlags(t *testing.T) {
	alloc := &fakeAllocator{}
	fg := New(alloc)

	var depth, color Handle[resource.TextureResource]
	var pInfos, qInfos []AttachmentInfo

	fg.AddPass("P", func(b *Builder) {
		depth = CreateTexture(b, "depth", resource.TextureDescriptor{Width: 4, Height: 4, Format: resource.TextureFormatDepth32Float})
		out := UseAsRenderTarget(b, "gbuffer", RenderTargetAttachments{Depth: &depth})
		depth = *out.Depth
	}, func(r *Resources, d driver.Driver) error {
		pInfos = r.RenderTarget("gbuffer")
		return nil
	})

	fg.AddPass("Q", func(b *Builder) {
		color = CreateTexture(b, "color", resource.TextureDescriptor{Width: 4, Height: 4, Format: resource.TextureFormatRGBA8Unorm})
		out := UseAsRenderTarget(b, "final", RenderTargetAttachments{
			Colors: [4]*Handle[resource.TextureResource]{&color},
			Depth:  &depth,
		})
		color = *out.Colors[0]
		depth = *out.Depth
	}, func(r *Resources, d driver.Driver) error {
		qInfos = r.RenderTarget("final")
		return nil
	})

	Present(fg, color, resource.TextureUsageColorAttachment)
	fg.Compile()

	if err := fg.Execute(&fakeDriver{}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(pInfos) != 1 {
		t.Fatalf("expected one attachment info for gbuffer, got %d", len(pInfos))
	}
	if !pInfos[0].LoadDiscard {
		t.Error("P's depth write has no prior content: LoadDiscard should be true")
	}
	if pInfos[0].StoreDiscard {
		t.Error("P's depth output is reused by Q as its own depth attachment: StoreDiscard should be false")
	}

	if len(qInfos) != 2 {
		t.Fatalf("expected two attachment infos for final (color, depth), got %d", len(qInfos))
	}
	if !qInfos[0].LoadDiscard {
		t.Error("Q's color write is a fresh resource with no prior content: LoadDiscard should be true")
	}
	if qInfos[0].StoreDiscard {
		t.Error("Q's color output is presented: StoreDiscard should be false")
	}
	if qInfos[1].LoadDiscard {
		t.Error("Q's depth write reuses P's depth content: LoadDiscard should be false")
	}
	if !qInfos[1].StoreDiscard {
		t.Error("Q's depth output is never read again: StoreDiscard should be true")
	}
}

// TestCreateSubresource_WriteBumpsParent covers the chosen
// child-depends-on-parent convention: creating a subresource writes the
// parent, bumping its version in place through the pointer parameter,
// so the caller's pre-subresource parent handle becomes stale.
func TestCreateSubresource_WriteBumpsParent(t *testing.T) {
	fg := New(&fakeAllocator{})

	var parent, child Handle[resource.TextureResource]
	var staleParent Handle[resource.TextureResource]

	fg.AddPass("only", func(b *Builder) {
		parent = CreateTexture(b, "atlas", resource.TextureDescriptor{Width: 256, Height: 256})
		parent = WriteTexture(b, parent, resource.TextureUsageColorAttachment)
		staleParent = parent

		child = CreateSubresource(b, &parent, "atlas-view", resource.TextureDescriptor{Width: 64, Height: 64}, func() *resource.TextureBackend { return &resource.TextureBackend{} }, resource.TextureUsageColorAttachment)
	}, noopExec)

	if parent.Version() != staleParent.Version()+1 {
		t.Errorf("parent.version = %d, want %d: creating a subresource must bump the parent's version", parent.Version(), staleParent.Version()+1)
	}
	if IsValid(fg, staleParent) {
		t.Error("the pre-subresource parent handle should be stale after the subresource bumped the parent's version")
	}
	if !IsValid(fg, parent) {
		t.Error("the in-place-updated parent handle should be valid")
	}

	childRes := fg.resourceAt(child.index)
	parentID, ok := childRes.Parent()
	if !ok {
		t.Fatal("child resource should record a parent back-reference")
	}
	if parentID != fg.slots[parent.index].resourceIndex {
		t.Errorf("child's recorded parent id = %d, want %d", parentID, fg.slots[parent.index].resourceIndex)
	}
}
