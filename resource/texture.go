package resource

// TextureUsage is a bitmask describing how a devirtualized texture will
// be used, accumulated from every surviving edge that touches it. Bit
// layout mirrors gpucore.TextureUsage's 1<<iota convention.
type TextureUsage uint32

// Texture usage flags.
const (
	TextureUsageCopySrc TextureUsage = 1 << iota
	TextureUsageCopyDst
	TextureUsageSampled
	TextureUsageStorage
	TextureUsageColorAttachment
	TextureUsageDepthStencilAttachment
)

// TextureFormat specifies a texture's pixel format.
type TextureFormat uint32

// Supported texture formats.
const (
	TextureFormatRGBA8Unorm TextureFormat = iota + 1
	TextureFormatBGRA8Unorm
	TextureFormatDepth32Float
	TextureFormatDepth24PlusStencil8
)

// TextureDescriptor is the static shape of a texture a pass declares —
// independent of how any particular pass ends up using it.
type TextureDescriptor struct {
	Width, Height uint32
	Format        TextureFormat
	SampleCount   uint32
	MipLevelCount uint32
}

// TextureBackend is the concrete, backend-owned object a devirtualized
// TextureResource wraps. It is the zero value until Create succeeds.
type TextureBackend struct {
	ID   uint64
	Desc TextureDescriptor
}

// Create asks alloc to allocate the concrete texture and copies the
// result into t.
func (t *TextureBackend) Create(alloc Allocator, name string, desc TextureDescriptor, usage TextureUsage) error {
	created, err := alloc.CreateTexture(name, desc, usage)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// Destroy releases the concrete texture through alloc.
func (t *TextureBackend) Destroy(alloc Allocator) error {
	return alloc.DestroyTexture(t)
}

// TextureResource is the VirtualResource specialization for textures.
type TextureResource = Typed[TextureDescriptor, TextureUsage, *TextureBackend]

// NewTexture declares a texture the frame graph will create and destroy
// itself.
func NewTexture(name string, id uint32, desc TextureDescriptor) *TextureResource {
	return NewTyped[TextureDescriptor, TextureUsage, *TextureBackend](
		name, id, desc, func() *TextureBackend { return &TextureBackend{} },
	)
}

// ImportTexture wraps an already-existing concrete texture (e.g. a
// swapchain backbuffer) as a VirtualResource, granting it grantedUsage.
func ImportTexture(name string, id uint32, desc TextureDescriptor, concrete *TextureBackend, grantedUsage TextureUsage) *TextureResource {
	return NewImportedTyped[TextureDescriptor, TextureUsage, *TextureBackend](name, id, desc, concrete, grantedUsage)
}
