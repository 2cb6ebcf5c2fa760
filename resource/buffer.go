package resource

// BufferUsage is a bitmask describing how a devirtualized buffer will be
// used, mirroring gpucore.BufferUsage's 1<<iota convention.
type BufferUsage uint32

// Buffer usage flags.
const (
	BufferUsageMapRead BufferUsage = 1 << iota
	BufferUsageMapWrite
	BufferUsageCopySrc
	BufferUsageCopyDst
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageUniform
	BufferUsageStorage
	BufferUsageIndirect
)

// BufferDescriptor is the static shape of a buffer a pass declares.
type BufferDescriptor struct {
	Size uint64
}

// BufferBackend is the concrete, backend-owned object a devirtualized
// BufferResource wraps. It is the zero value until Create succeeds.
type BufferBackend struct {
	ID   uint64
	Desc BufferDescriptor
}

// Create asks alloc to allocate the concrete buffer and copies the
// result into b.
func (b *BufferBackend) Create(alloc Allocator, name string, desc BufferDescriptor, usage BufferUsage) error {
	created, err := alloc.CreateBuffer(name, desc, usage)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// Destroy releases the concrete buffer through alloc.
func (b *BufferBackend) Destroy(alloc Allocator) error {
	return alloc.DestroyBuffer(b)
}

// BufferResource is the VirtualResource specialization for buffers.
type BufferResource = Typed[BufferDescriptor, BufferUsage, *BufferBackend]

// NewBuffer declares a buffer the frame graph will create and destroy
// itself.
func NewBuffer(name string, id uint32, desc BufferDescriptor) *BufferResource {
	return NewTyped[BufferDescriptor, BufferUsage, *BufferBackend](
		name, id, desc, func() *BufferBackend { return &BufferBackend{} },
	)
}

// ImportBuffer wraps an already-existing concrete buffer as a
// VirtualResource, granting it grantedUsage.
func ImportBuffer(name string, id uint32, desc BufferDescriptor, concrete *BufferBackend, grantedUsage BufferUsage) *BufferResource {
	return NewImportedTyped[BufferDescriptor, BufferUsage, *BufferBackend](name, id, desc, concrete, grantedUsage)
}
