// Package framegraph implements a per-frame declarative scheduler for
// GPU work. Client code declares passes and the virtual resources each
// pass reads and writes; the frame graph determines which passes are
// actually needed to produce the requested outputs, computes each
// resource's lifetime across the surviving passes, resolves its
// cumulative usage bitmask, and drives concrete resource instantiation
// and destruction tightly around the passes that need it — invoking the
// caller's execute callbacks in declaration order.
//
// # Architecture
//
//   - Package depgraph is the generic bipartite dependency DAG with
//     reverse-refcount culling; this package and package resource build
//     their pass↔resource semantics on top of it.
//   - Package resource defines VirtualResource and its two concrete
//     kinds (TextureResource, BufferResource), plus the Allocator a
//     frame graph delegates concrete GPU allocation to.
//   - Package driver is the execution-time collaborator: group markers
//     and a flush hook around each pass's execute callback.
//   - This package (framegraph) is the façade: handle allocation, the
//     two-phase Builder/execute callback API, and Compile/Execute.
//
// # Two-phase passes
//
// AddPass takes two callbacks. setup runs synchronously, scoped to a
// Builder for that pass: it declares reads, writes, and render targets,
// and captures whatever pass-local data the execute callback will need.
// exec runs later, during Execute, once per surviving pass in
// declaration order, and must not reach back into the Builder.
//
// # Write-aliasing
//
// Writing to a resource that hasn't been written by this frame yet just
// attaches a writer edge to its existing node. Writing to a resource
// that already has a writer allocates a new ResourceNode at the next
// version and redirects the resource's slot to it — this is what makes
// the pass↔resource graph a DAG despite in-place mutation semantics: a
// write produces a logically new value.
package framegraph
