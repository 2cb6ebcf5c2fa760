package framegraph

import (
	"fmt"

	"github.com/gogpu/framegraph/depgraph"
	"github.com/gogpu/framegraph/driver"
	"github.com/gogpu/framegraph/resource"
)

// slot is the indirection from a handle's stable index to the
// (resource, node) pair it currently points at. Its nodeID is
// overwritten whenever the resource is written, redirecting subsequent
// reads to the newest version's node.
type slot struct {
	resourceIndex uint32
	nodeID        depgraph.NodeID
}

// FrameGraph is the top-level façade: handle allocation, the builder
// API, and the two-phase Compile/Execute cycle. Build one per frame,
// Compile it, Execute it, then Reset it for the next frame.
type FrameGraph struct {
	graph     *depgraph.Graph
	allocator resource.Allocator

	resources     []resource.VirtualResource
	resourceNodes []*resource.ResourceNode // every version ever created, across all resources
	slots         []slot
	passes        []PassNode // declaration order

	compiled bool
}

// New constructs an empty FrameGraph that devirtualizes and destroys
// concrete resources through alloc.
func New(alloc resource.Allocator) *FrameGraph {
	return &FrameGraph{
		graph:     depgraph.New(),
		allocator: alloc,
	}
}

// Graph exposes the underlying dependency graph, mainly so callers can
// export it to Graphviz for debugging (see ExportGraphviz).
func (fg *FrameGraph) Graph() *depgraph.Graph { return fg.graph }

func (fg *FrameGraph) isValid(index, version uint32) bool {
	if int(index) >= len(fg.slots) {
		return false
	}
	r := fg.resources[fg.slots[index].resourceIndex]
	return r.Version() == version
}

// checkHandle panics with a ContractError if index/version no longer
// names a live resource — the stale-handle contract violation called
// out by §7: a handle returned by a prior Write is invalidated the
// instant a later Write bumps that resource's version again.
func (fg *FrameGraph) checkHandle(op string, index, version uint32) {
	fg.checkHandleIndex(op, index)
	got := fg.resources[fg.slots[index].resourceIndex].Version()
	if got != version {
		panic(staleHandle(op, index, version, got))
	}
}

// checkHandleIndex enforces only the out-of-range half of the handle
// contract, for execution-phase accessors that don't otherwise care
// about version staleness (see Get's doc comment).
func (fg *FrameGraph) checkHandleIndex(op string, index uint32) {
	if int(index) >= len(fg.slots) {
		panic(&ContractError{Op: op, Msg: fmt.Sprintf("handle index %d out of range", index)})
	}
}

// registerResource stores vr, gives it an initial ResourceNode at its
// current version, and returns the slot index a handle should carry.
func (fg *FrameGraph) registerResource(vr resource.VirtualResource) uint32 {
	resourceIndex := uint32(len(fg.resources))
	fg.resources = append(fg.resources, vr)

	node := resource.NewResourceNode(resourceIndex, vr.Name(), vr.Version())
	fg.graph.Register(node)
	fg.resourceNodes = append(fg.resourceNodes, node)

	slotIndex := uint32(len(fg.slots))
	fg.slots = append(fg.slots, slot{resourceIndex: resourceIndex, nodeID: node.ID()})
	return slotIndex
}

func (fg *FrameGraph) currentNode(slotIndex uint32) *resource.ResourceNode {
	s := fg.slots[slotIndex]
	return fg.graph.Node(s.nodeID).(*resource.ResourceNode)
}

func (fg *FrameGraph) resourceAt(slotIndex uint32) resource.VirtualResource {
	if int(slotIndex) >= len(fg.slots) {
		panic(&ContractError{Op: "resourceAt", Msg: "handle index out of range"})
	}
	return fg.resources[fg.slots[slotIndex].resourceIndex]
}

// write implements Write's versioning contract against
// slotIndex on behalf of pass passID, returning the (possibly new)
// node's version.
func (fg *FrameGraph) write(passID depgraph.NodeID, slotIndex uint32, usage any) uint32 {
	node := fg.currentNode(slotIndex)
	if !node.HasWriter() {
		edge := &resource.ResourceEdge{Edge: depgraph.Edge{From: passID, To: node.ID()}, Usage: usage}
		fg.graph.Link(&edge.Edge)
		node.SetIncomingEdge(edge)
		return node.Version()
	}

	res := fg.resourceAt(slotIndex)
	newVersion := res.BumpVersion()
	newNode := resource.NewResourceNode(fg.slots[slotIndex].resourceIndex, res.Name(), newVersion)
	fg.graph.Register(newNode)
	fg.resourceNodes = append(fg.resourceNodes, newNode)

	edge := &resource.ResourceEdge{Edge: depgraph.Edge{From: passID, To: newNode.ID()}, Usage: usage}
	fg.graph.Link(&edge.Edge)
	newNode.SetIncomingEdge(edge)

	fg.slots[slotIndex].nodeID = newNode.ID()
	return newVersion
}

// read implements Read: a reader edge from slotIndex's current
// node to passID. The handle's version never changes.
func (fg *FrameGraph) read(passID depgraph.NodeID, slotIndex uint32, usage any) {
	node := fg.currentNode(slotIndex)
	edge := &resource.ResourceEdge{Edge: depgraph.Edge{From: node.ID(), To: passID}, Usage: usage}
	fg.graph.Link(&edge.Edge)
	node.AddOutgoingEdge(edge)
}

// AddPass registers a render pass. setup runs synchronously against a
// fresh Builder scoped to this pass; exec runs later, during Execute,
// once per surviving pass in declaration order.
func (fg *FrameGraph) AddPass(name string, setup func(b *Builder), exec func(r *Resources, d driver.Driver) error) {
	pass := &renderPassNode{name: name, exec: exec}
	fg.graph.Register(pass)
	fg.passes = append(fg.passes, pass)

	b := &Builder{fg: fg, passID: pass.ID()}
	setup(b)
}

// Present records a read of h inside a synthetic present pass and marks
// that pass as a graph target, anchoring the cull traversal at whatever
// ultimately produced h (see DESIGN.md for why the present pass, not
// the resource node, is the thing made a target).
func Present[D any, U resource.UsageBits, K resource.Kind[D, U]](fg *FrameGraph, h Handle[resource.Typed[D, U, K]], usage U) {
	pass := &presentPassNode{name: "present"}
	fg.graph.Register(pass)
	fg.passes = append(fg.passes, pass)

	fg.read(pass.ID(), h.index, usage)
	pass.MakeTarget()
}

// Import registers an already-existing concrete resource (e.g. a
// swapchain backbuffer) as a VirtualResource at version 0 and returns a
// handle usable anywhere a Create'd handle would be — including
// Present. Unlike Create, the frame graph never calls Create/
// Destroy on it; Devirtualize instead checks that the graph's
// accumulated usage never exceeds grantedUsage, failing with
// ErrImportConflict if it does (see resource.NewImportedTyped).
func Import[D any, U resource.UsageBits, K resource.Kind[D, U]](fg *FrameGraph, name string, desc D, concrete K, grantedUsage U) Handle[resource.Typed[D, U, K]] {
	vr := resource.NewImportedTyped[D, U, K](name, 0, desc, concrete, grantedUsage)
	slotIndex := fg.registerResource(vr)
	return Handle[resource.Typed[D, U, K]]{index: slotIndex, version: 0}
}

// ImportTexture is the resource.TextureResource specialization of Import.
func ImportTexture(fg *FrameGraph, name string, desc resource.TextureDescriptor, concrete *resource.TextureBackend, grantedUsage resource.TextureUsage) Handle[resource.TextureResource] {
	return Import[resource.TextureDescriptor, resource.TextureUsage, *resource.TextureBackend](fg, name, desc, concrete, grantedUsage)
}

// ImportBuffer is the resource.BufferResource specialization of Import.
func ImportBuffer(fg *FrameGraph, name string, desc resource.BufferDescriptor, concrete *resource.BufferBackend, grantedUsage resource.BufferUsage) Handle[resource.BufferResource] {
	return Import[resource.BufferDescriptor, resource.BufferUsage, *resource.BufferBackend](fg, name, desc, concrete, grantedUsage)
}

// Compile culls the dependency graph, accumulates resource refcounts
// and usages, and computes first/last surviving users — in that order,
// exactly as described by the spec's compile() steps 1–3.
func (fg *FrameGraph) Compile() {
	log := Logger()

	fg.graph.Cull()

	for _, vr := range fg.resources {
		vr.ResetRefCount()
	}

	// Step 2: accumulate refcounts and usages across every version node
	// each resource ever had this frame, not just its current one.
	for _, node := range fg.resourceNodes {
		res := fg.resources[node.ResourceID()]

		res.AddRefCount(node.RefCount())
		if node.IsCulled() {
			continue
		}
		res.ResolveUsage(fg.graph, node.Readers())
		if node.Writer() != nil {
			res.ResolveUsage(fg.graph, []*resource.ResourceEdge{node.Writer()})
		}
	}

	// Step 3: first/last users, walking surviving passes in declaration
	// order and only ever looking at their own surviving edges — this is
	// the policy that sidesteps the devirtualize-FIXME open question
	// (see DESIGN.md).
	survivors := 0
	for _, pass := range fg.passes {
		if pass.IsCulled() {
			log.Debug("framegraph: culled pass", "pass", pass.Name())
			continue
		}
		survivors++

		for _, e := range fg.graph.IncomingEdges(pass.ID()) {
			if !fg.graph.IsEdgeValid(e) {
				continue
			}
			fg.markFirstLast(e.From, pass.ID())
		}
		for _, e := range fg.graph.OutgoingEdges(pass.ID()) {
			if !fg.graph.IsEdgeValid(e) {
				continue
			}
			fg.markFirstLast(e.To, pass.ID())
		}
	}

	fg.compiled = true
	if survivors == 0 {
		log.Warn("framegraph: compile produced no surviving pass")
	} else {
		log.Debug("framegraph: compiled", "passes", len(fg.passes), "surviving_passes", survivors, "resources", len(fg.resources))
	}
}

// markFirstLast records pass as a first/last user of the resource owning
// resourceNodeID, looking the owning resource up by the node's
// ResourceID field.
func (fg *FrameGraph) markFirstLast(resourceNodeID depgraph.NodeID, pass depgraph.NodeID) {
	node, ok := fg.graph.Node(resourceNodeID).(*resource.ResourceNode)
	if !ok {
		return
	}
	res := fg.resources[node.ResourceID()]
	res.SetFirst(pass)
	res.SetLast(pass)
}

// Execute walks surviving passes in declaration order, devirtualizing
// resources at their first-use boundary, invoking the pass's execute
// callback, and destroying resources at their last-use boundary.
func (fg *FrameGraph) Execute(d driver.Driver) error {
	if !fg.compiled {
		panic(&ContractError{Op: "Execute", Msg: "Execute called before Compile"})
	}
	log := Logger()

	for _, pass := range fg.passes {
		if pass.IsCulled() {
			continue
		}

		for _, res := range fg.resources {
			if res.First() == pass.ID() {
				if err := res.Devirtualize(fg.allocator); err != nil {
					return err
				}
				log.Debug("framegraph: devirtualized", "resource", res.Name(), "pass", pass.Name())
			}
		}

		d.PushGroupMarker(pass.Name())
		resources := &Resources{fg: fg, passID: pass.ID(), passName: pass.Name()}
		if err := pass.execute(resources, d); err != nil {
			d.PopGroupMarker()
			return err
		}
		d.PopGroupMarker()

		for _, res := range fg.resources {
			if res.Last() == pass.ID() {
				if err := res.Destroy(fg.allocator); err != nil {
					return err
				}
				log.Debug("framegraph: destroyed", "resource", res.Name(), "pass", pass.Name())
			}
		}
	}

	d.Flush()
	return nil
}

// Reset clears pass nodes, resource nodes, resources, and slots, in
// that order, so the FrameGraph can be rebuilt for the next frame.
// Nodes may back-reference their resources on destruction, which is
// why the order matters.
func (fg *FrameGraph) Reset() {
	fg.passes = nil
	fg.graph.Clear()
	fg.resourceNodes = nil
	fg.resources = nil
	fg.slots = nil
	fg.compiled = false
}

// ExportGraphviz renders the current dependency graph as Graphviz DOT
// text, per §6's format.
func (fg *FrameGraph) ExportGraphviz(name string) string {
	return fg.graph.ExportGraphviz(name)
}
