package depgraph

import (
	"fmt"
	"io"
	"strings"
)

// Graph is a generic, untyped bipartite DAG of Nodes linked by Edges.
// It knows nothing about the meaning of a node or edge; the frame graph
// core builds its pass↔resource semantics on top of this.
type Graph struct {
	nodes []Node
	edges []*Edge
}

// New returns an empty Graph with modest pre-allocated capacity, mirroring
// the reasonable defaults Filament's DependencyGraph constructor reserves.
func New() *Graph {
	return &Graph{
		nodes: make([]Node, 0, 8),
		edges: make([]*Edge, 0, 16),
	}
}

// Register assigns n a dense NodeID (its position in the node table) and
// adds it to the graph. NodeIDs are handed out in registration order and
// never reused until Clear empties the node table.
func (g *Graph) Register(n Node) NodeID {
	id := NodeID(len(g.nodes))
	n.setID(id)
	g.nodes = append(g.nodes, n)
	return id
}

// Link appends e to the graph's edge list. No duplicate check is
// performed — duplicate edges are harmless to the cull algorithm, just
// slightly wasteful, and callers never have a reason to create them.
func (g *Graph) Link(e *Edge) {
	g.edges = append(g.edges, e)
}

// Node returns the node registered under id.
func (g *Graph) Node(id NodeID) Node { return g.nodes[id] }

// NumNodes reports how many nodes have been registered.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// IsEdgeValid reports whether both of e's endpoints survived culling.
func (g *Graph) IsEdgeValid(e *Edge) bool {
	return !g.nodes[e.From].IsCulled() && !g.nodes[e.To].IsCulled()
}

// IncomingEdges returns every edge whose To endpoint is id, via a linear
// scan. Acceptable: frame-graph pass/resource counts are small, and
// indexing edges by endpoint is an optional optimisation this core
// doesn't need.
func (g *Graph) IncomingEdges(id NodeID) []*Edge {
	var result []*Edge
	for _, e := range g.edges {
		if e.To == id {
			result = append(result, e)
		}
	}
	return result
}

// OutgoingEdges returns every edge whose From endpoint is id.
func (g *Graph) OutgoingEdges(id NodeID) []*Edge {
	var result []*Edge
	for _, e := range g.edges {
		if e.From == id {
			result = append(result, e)
		}
	}
	return result
}

// Cull eliminates every node not transitively required by a target,
// using reverse reference counting:
//
//  1. Every edge increments the refcount of its From node — out-degree
//     becomes the refcount, so a node is alive only if something
//     downstream depends on it.
//  2. Every node left at refcount 0 is pushed onto a worklist.
//  3. Popping a node decrements the refcount of each source of its
//     incoming edges, pushing any that newly reached 0, then invokes the
//     popped node's OnCulled hook exactly once.
//
// Nodes marked via MakeTarget hold the refTarget sentinel and never
// reach 0, so they (and their transitive producers) survive.
func (g *Graph) Cull() {
	for _, e := range g.edges {
		g.nodes[e.From].incRef()
	}

	stack := make([]NodeID, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n.IsCulled() {
			stack = append(stack, n.ID())
		}
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := g.nodes[id]

		for _, e := range g.IncomingEdges(id) {
			src := g.nodes[e.From]
			if src.decRef() == 0 {
				stack = append(stack, src.ID())
			}
		}
		n.OnCulled(g)
	}
}

// Clear drops every node and edge, releasing their backing slices so a
// Graph can be reused for the next frame without retaining references.
func (g *Graph) Clear() {
	g.nodes = nil
	g.edges = nil
}

// ExportGraphviz renders the graph as Graphviz DOT text, in declaration
// order, for deterministic output. Node labels and fill colors come from
// each node's own Graphvizify; edges with both endpoints alive render
// solid red2, edges with a culled endpoint render dashed red4.
func (g *Graph) ExportGraphviz(name string) string {
	if name == "" {
		name = "graph"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", name)
	b.WriteString("rankdir=LR;\n")
	b.WriteString("bgcolor=black;\n")
	b.WriteString("node [shape=rectangle, fontname=\"helvetica\", fontsize=10];\n\n")

	for _, n := range g.nodes {
		fmt.Fprintf(&b, "\"N%d\" %s\n", n.ID(), n.Graphvizify())
	}
	b.WriteString("\n")

	for _, n := range g.nodes {
		id := n.ID()
		var valid, invalid []NodeID
		for _, e := range g.OutgoingEdges(id) {
			if g.IsEdgeValid(e) {
				valid = append(valid, e.To)
			} else {
				invalid = append(invalid, e.To)
			}
		}
		writeTargets := func(targets []NodeID, style string) {
			if len(targets) == 0 {
				return
			}
			fmt.Fprintf(&b, "N%d -> { ", id)
			for _, to := range targets {
				fmt.Fprintf(&b, "N%d ", to)
			}
			fmt.Fprintf(&b, "} [%s]\n", style)
		}
		writeTargets(valid, "color=red2")
		writeTargets(invalid, "color=red4 style=dashed")
	}

	b.WriteString("}\n")
	return b.String()
}

// WriteGraphviz is a convenience wrapper around ExportGraphviz for
// callers that already hold an io.Writer (e.g. a log file or os.Stdout).
func (g *Graph) WriteGraphviz(w io.Writer, name string) error {
	_, err := io.WriteString(w, g.ExportGraphviz(name))
	return err
}
