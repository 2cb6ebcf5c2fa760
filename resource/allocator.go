package resource

// Allocator is the concrete-resource collaborator the frame graph core
// delegates GPU allocation to. It never appears in the dependency graph
// itself — VirtualResource.Devirtualize/Destroy call into it once per
// surviving resource, exactly at the first/last pass boundary compile
// computed. A real implementation lives in package gpuallocator; tests
// in this module use a fake that just counts calls.
type Allocator interface {
	CreateTexture(name string, desc TextureDescriptor, usage TextureUsage) (*TextureBackend, error)
	DestroyTexture(tex *TextureBackend) error

	CreateBuffer(name string, desc BufferDescriptor, usage BufferUsage) (*BufferBackend, error)
	DestroyBuffer(buf *BufferBackend) error
}
