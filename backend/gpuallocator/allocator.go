// Package gpuallocator adapts gogpu/gogpu's gpu.Backend — the same
// device/queue bridge gg's own GoGPUAdapter wraps — into a
// resource.Allocator, so a FrameGraph can devirtualize and destroy real
// GPU textures and buffers through it.
package gpuallocator

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gogpu/gpu"
	"github.com/gogpu/gogpu/gpu/types"

	"github.com/gogpu/framegraph/resource"
)

// Allocator implements resource.Allocator over backend/device/queue.
// Native GPU handles are kept behind a generated ID, the same approach
// gg's GoGPUAdapter uses for its gpucore.BufferID/TextureID maps, so
// resource.TextureBackend/BufferBackend (which carry only an ID) never
// need to know the concrete handle type.
type Allocator struct {
	backend gpu.Backend
	device  types.Device
	queue   types.Queue

	mu       sync.Mutex
	nextID   atomic.Uint64
	textures map[uint64]types.Texture
	buffers  map[uint64]types.Buffer
}

// New wraps an already-created backend/device/queue triple, normally
// supplied by the host application exactly as it would construct a
// GoGPUAdapter.
func New(backend gpu.Backend, device types.Device, queue types.Queue) *Allocator {
	return &Allocator{
		backend:  backend,
		device:   device,
		queue:    queue,
		textures: make(map[uint64]types.Texture),
		buffers:  make(map[uint64]types.Buffer),
	}
}

func (a *Allocator) newID() uint64 { return a.nextID.Add(1) }

// CreateTexture implements resource.Allocator.
func (a *Allocator) CreateTexture(name string, desc resource.TextureDescriptor, usage resource.TextureUsage) (*resource.TextureBackend, error) {
	backendDesc := &types.TextureDescriptor{
		Label:         name,
		Size:          types.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: orOne(desc.MipLevelCount),
		SampleCount:   orOne(desc.SampleCount),
		Dimension:     types.TextureDimension2D,
		Format:        convertTextureFormat(desc.Format),
		Usage:         convertTextureUsage(usage),
	}

	tex, err := a.backend.CreateTexture(a.device, backendDesc)
	if err != nil {
		return nil, fmt.Errorf("gpuallocator: create texture %q: %w", name, err)
	}

	id := a.newID()
	a.mu.Lock()
	a.textures[id] = tex
	a.mu.Unlock()

	return &resource.TextureBackend{ID: id, Desc: desc}, nil
}

// DestroyTexture implements resource.Allocator.
func (a *Allocator) DestroyTexture(tex *resource.TextureBackend) error {
	a.mu.Lock()
	native, ok := a.textures[tex.ID]
	delete(a.textures, tex.ID)
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("gpuallocator: texture %d not found", tex.ID)
	}
	a.backend.ReleaseTexture(native)
	return nil
}

// CreateBuffer implements resource.Allocator.
func (a *Allocator) CreateBuffer(name string, desc resource.BufferDescriptor, usage resource.BufferUsage) (*resource.BufferBackend, error) {
	backendDesc := &types.BufferDescriptor{
		Label: name,
		Size:  desc.Size,
		Usage: convertBufferUsage(usage),
	}

	buf, err := a.backend.CreateBuffer(a.device, backendDesc)
	if err != nil {
		return nil, fmt.Errorf("gpuallocator: create buffer %q: %w", name, err)
	}

	id := a.newID()
	a.mu.Lock()
	a.buffers[id] = buf
	a.mu.Unlock()

	return &resource.BufferBackend{ID: id, Desc: desc}, nil
}

// DestroyBuffer implements resource.Allocator.
func (a *Allocator) DestroyBuffer(buf *resource.BufferBackend) error {
	a.mu.Lock()
	native, ok := a.buffers[buf.ID]
	delete(a.buffers, buf.ID)
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("gpuallocator: buffer %d not found", buf.ID)
	}
	a.backend.ReleaseBuffer(native)
	return nil
}

func orOne(n uint32) uint32 {
	if n == 0 {
		return 1
	}
	return n
}

var _ resource.Allocator = (*Allocator)(nil)
