package gpuallocator

import (
	"github.com/gogpu/gogpu/gpu/types"

	"github.com/gogpu/framegraph/resource"
)

// convertTextureFormat maps a resource.TextureFormat onto its types
// equivalent, the same style of exhaustive switch adapter.go uses for
// gpucore.TextureFormat.
func convertTextureFormat(format resource.TextureFormat) types.TextureFormat {
	switch format {
	case resource.TextureFormatRGBA8Unorm:
		return types.TextureFormatRGBA8Unorm
	case resource.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm
	case resource.TextureFormatDepth32Float:
		return types.TextureFormatDepth32Float
	case resource.TextureFormatDepth24PlusStencil8:
		return types.TextureFormatDepth24PlusStencil8
	default:
		return types.TextureFormatRGBA8Unorm
	}
}

// convertTextureUsage ORs in one types.TextureUsage bit per
// resource.TextureUsage bit set in usage.
func convertTextureUsage(usage resource.TextureUsage) types.TextureUsage {
	var result types.TextureUsage
	if usage&resource.TextureUsageCopySrc != 0 {
		result |= types.TextureUsageCopySrc
	}
	if usage&resource.TextureUsageCopyDst != 0 {
		result |= types.TextureUsageCopyDst
	}
	if usage&resource.TextureUsageSampled != 0 {
		result |= types.TextureUsageTextureBinding
	}
	if usage&resource.TextureUsageStorage != 0 {
		result |= types.TextureUsageStorageBinding
	}
	if usage&resource.TextureUsageColorAttachment != 0 {
		result |= types.TextureUsageRenderAttachment
	}
	if usage&resource.TextureUsageDepthStencilAttachment != 0 {
		result |= types.TextureUsageRenderAttachment
	}
	return result
}

// convertBufferUsage mirrors adapter.go's convertBufferUsage bit-for-bit,
// modulo the two usage enums' differing bit orders.
func convertBufferUsage(usage resource.BufferUsage) types.BufferUsage {
	var result types.BufferUsage
	if usage&resource.BufferUsageMapRead != 0 {
		result |= types.BufferUsageMapRead
	}
	if usage&resource.BufferUsageMapWrite != 0 {
		result |= types.BufferUsageMapWrite
	}
	if usage&resource.BufferUsageCopySrc != 0 {
		result |= types.BufferUsageCopySrc
	}
	if usage&resource.BufferUsageCopyDst != 0 {
		result |= types.BufferUsageCopyDst
	}
	if usage&resource.BufferUsageIndex != 0 {
		result |= types.BufferUsageIndex
	}
	if usage&resource.BufferUsageVertex != 0 {
		result |= types.BufferUsageVertex
	}
	if usage&resource.BufferUsageUniform != 0 {
		result |= types.BufferUsageUniform
	}
	if usage&resource.BufferUsageStorage != 0 {
		result |= types.BufferUsageStorage
	}
	if usage&resource.BufferUsageIndirect != 0 {
		result |= types.BufferUsageIndirect
	}
	return result
}
