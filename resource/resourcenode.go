package resource

import (
	"fmt"

	"github.com/gogpu/framegraph/depgraph"
)

// ResourceEdge is the typed edge between a PassNode and a ResourceNode.
// Usage carries the concrete usage bitmask (TextureUsage, BufferUsage,
// ...) as any; each resource kind type-asserts it back in ResolveUsage,
// the same trade of static safety for a single concrete edge type that
// database/sql makes with driver.Value.
type ResourceEdge struct {
	depgraph.Edge
	Usage any
}

// ResourceNode is a depgraph.Node representing one version of a
// VirtualResource. It tracks at most one incoming writer edge and any
// number of outgoing reader edges, and knows which VirtualResource (by
// id) and which version of it that is.
type ResourceNode struct {
	depgraph.Base

	resourceID   uint32
	resourceName string
	version      uint32

	writer  *ResourceEdge
	readers []*ResourceEdge
}

// NewResourceNode constructs a ResourceNode for version of the
// VirtualResource identified by resourceID. Callers register it with a
// depgraph.Graph immediately after construction.
func NewResourceNode(resourceID uint32, resourceName string, version uint32) *ResourceNode {
	return &ResourceNode{
		resourceID:   resourceID,
		resourceName: resourceName,
		version:      version,
	}
}

// ResourceID returns the id of the VirtualResource this node is a
// version of.
func (n *ResourceNode) ResourceID() uint32 { return n.resourceID }

// Version returns which write-version of the resource this node is.
func (n *ResourceNode) Version() uint32 { return n.version }

// Name renders as "<resource> v<version>" for debug output.
func (n *ResourceNode) Name() string {
	return fmt.Sprintf("%s v%d", n.resourceName, n.version)
}

// HasWriter reports whether a writer edge has been set on this node.
func (n *ResourceNode) HasWriter() bool { return n.writer != nil }

// Writer returns the node's single incoming writer edge, or nil.
func (n *ResourceNode) Writer() *ResourceEdge { return n.writer }

// Readers returns the node's outgoing reader edges.
func (n *ResourceNode) Readers() []*ResourceEdge { return n.readers }

// SetIncomingEdge records e as this node's writer. Calling it a second
// time is a programmer contract violation (§7): a ResourceNode is a
// single write-version of a resource by construction, so a second
// writer means the caller bypassed Builder.write's versioning and must
// be stopped immediately rather than silently overwriting the first.
func (n *ResourceNode) SetIncomingEdge(e *ResourceEdge) {
	if n.writer != nil {
		panic(&depgraph.ContractError{
			Op:  "ResourceNode.SetIncomingEdge",
			Msg: fmt.Sprintf("%s already has a writer edge", n.Name()),
		})
	}
	n.writer = e
}

// AddOutgoingEdge appends e as one more reader of this node.
func (n *ResourceNode) AddOutgoingEdge(e *ResourceEdge) {
	n.readers = append(n.readers, e)
}

// Graphvizify renders this node per the spec's styling: skyblue when
// alive, skyblue4 once culled.
func (n *ResourceNode) Graphvizify() string {
	color := "skyblue"
	if n.IsCulled() {
		color = "skyblue4"
	}
	return fmt.Sprintf(`[label="%s" style=filled fontcolor=white fillcolor=%s]`, n.Name(), color)
}
