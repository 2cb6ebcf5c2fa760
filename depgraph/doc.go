// Package depgraph implements a generic bipartite dependency DAG with
// reverse-reference-count culling and Graphviz export.
//
// # Overview
//
// depgraph knows nothing about passes or resources; it only knows about
// Node and Edge. The frame graph core (package framegraph, and its
// resource package) builds a bipartite pass↔resource graph on top of
// depgraph by registering two concrete node kinds and linking typed
// edges between them.
//
// # Culling
//
// Graph.Cull implements reverse reference counting: every node's
// refcount is the number of edges pointing away from it (its out-degree),
// so a node is "alive" only if something downstream still needs it.
// Nodes explicitly marked with Node.MakeTarget are never culled and
// shield their transitive producers. See Graph.Cull for the algorithm.
//
// # Node contract
//
// Every node embeds Base, which provides the refcount/target bookkeeping.
// Concrete node kinds shadow Base's Name, OnCulled and Graphvizify methods
// to customize debug output and culling side effects; the rest of the
// Node interface (ID, RefCount, IsTarget, IsCulled, MakeTarget) is fixed
// bookkeeping that concrete kinds should not need to override.
package depgraph
