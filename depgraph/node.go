package depgraph

import "fmt"

// NodeID is a dense index into a Graph's node table, assigned in
// registration order. NodeIDs are never reused until the Graph is Cleared.
type NodeID uint32

// NoNode is the sentinel "no node" value used by callers that track an
// optional NodeID (e.g. a VirtualResource's first/last surviving pass)
// without importing a pointer type.
const NoNode NodeID = ^NodeID(0)

// refTarget is the sentinel refcount bit that marks a node as a
// permanent graph target: it is never culled, no matter how many (zero
// or more) edges point away from it.
const refTarget uint32 = 1 << 31

// Node is the capability set every graph node must provide. Concrete
// node kinds embed Base for the refcount bookkeeping (ID, RefCount,
// IsTarget, IsCulled, MakeTarget) and shadow Name, OnCulled and
// Graphvizify themselves.
//
// Node carries two unexported methods so that only types embedding Base
// can satisfy it — this is intentional: the culling algorithm's
// bookkeeping must not be forged by a type outside this package.
type Node interface {
	ID() NodeID
	RefCount() uint32
	IsTarget() bool
	IsCulled() bool
	MakeTarget()
	OnCulled(g *Graph)
	Name() string
	Graphvizify() string

	setID(NodeID)
	incRef()
	decRef() uint32
}

// Base provides the refcount/target/culled bookkeeping shared by every
// node kind. Embed it in concrete node types; Register assigns its ID.
type Base struct {
	id       NodeID
	refcount uint32
}

func (b *Base) setID(id NodeID) { b.id = id }
func (b *Base) incRef()         { b.refcount++ }
func (b *Base) decRef() uint32  { b.refcount--; return b.refcount }

// ID returns this node's dense index in the owning Graph.
func (b *Base) ID() NodeID { return b.id }

// RefCount reports 1 for target nodes even though their internal counter
// holds the refTarget sentinel rather than a real edge count — mirroring
// how a target always looks "alive" to callers regardless of how it got
// that way.
func (b *Base) RefCount() uint32 {
	if b.refcount&refTarget != 0 {
		return 1
	}
	return b.refcount
}

// IsTarget reports whether MakeTarget has been called on this node.
func (b *Base) IsTarget() bool { return b.refcount >= refTarget }

// IsCulled reports whether the node's raw refcount reached zero during
// Graph.Cull (or it was never referenced at all and Cull has run).
func (b *Base) IsCulled() bool { return b.refcount == 0 }

// MakeTarget marks the node as a permanent graph target, exempting it
// and its transitive producers from culling. Legal only from refcount 0:
// calling it a second time, or after the node has already accumulated a
// reference from a linked edge, is a programmer error.
func (b *Base) MakeTarget() {
	if b.refcount != 0 {
		panic(&ContractError{
			Op:  "MakeTarget",
			Msg: fmt.Sprintf("node %d already has a non-zero refcount (%d)", b.id, b.refcount),
		})
	}
	b.refcount = refTarget
}

// Name returns a default placeholder name; concrete node kinds should
// shadow this with something meaningful for debug output.
func (b *Base) Name() string { return "unknown" }

// OnCulled is a no-op default hook; concrete node kinds may shadow it to
// react exactly once to becoming culled.
func (b *Base) OnCulled(*Graph) {}

// Graphvizify returns an empty attribute list by default; concrete node
// kinds should shadow this to produce a meaningful DOT label.
func (b *Base) Graphvizify() string { return "[]" }

// Edge is a directed graph edge between two nodes. Concrete edge kinds
// (see resource.ResourceEdge) embed Edge and add a typed Usage payload.
type Edge struct {
	From, To NodeID
}
