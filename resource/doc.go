// Package resource provides the frame graph's virtual resource layer:
// typed, versioned GPU resource descriptions that live as ResourceNodes
// on a depgraph.Graph and only materialize into real backend objects
// (via an Allocator) once Compile decides they survive culling.
//
// # Virtual vs. concrete
//
// A VirtualResource never touches the GPU itself. It carries a
// descriptor (the static parameters a concrete instantiation would
// need: texture dimensions and format, buffer size, and so on) plus
// enough bookkeeping for the frame graph core to resolve accumulated
// usage flags and decide whether the resource is imported, is a
// sub-resource of another, or needs to be created and destroyed for
// this frame. The generic Typed type implements VirtualResource over
// any concrete Kind — Texture and Buffer are the two kinds this
// package ships, mirroring gpucore's texture/buffer split.
//
// # Usage accumulation
//
// Every read or write of a resource attaches an edge carrying a
// usage value (TextureUsage or BufferUsage — a bitmask, not an
// enum). VirtualResource.ResolveUsage ORs together the usage from every
// surviving edge touching the resource's nodes, so the concrete resource is created with
// exactly the capabilities its surviving readers and writers need and
// nothing more.
package resource
