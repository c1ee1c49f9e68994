// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (for example a gogpu.App) implements DeviceHandle and passes it
// to a backend constructor, so the tile map shares the host's GPU device
// instead of creating its own. Backends that need raw HAL access assert the
// provider for HalDevice()/HalQueue() methods.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a local
// name for the interface while staying compatible with the gpucontext
// ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// TextureDescriptor describes an atlas texture to create.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the atlas dimensions in pixels.
	Width  int
	Height int

	// Format is the pixel format of Pixels. The zero value means
	// gputypes.TextureFormatRGBA8Unorm, the only format every backend
	// must support.
	Format gputypes.TextureFormat

	// Pixels is the initial texture content, tightly packed rows, 4 bytes
	// per pixel for RGBA8. May be nil to create an empty texture.
	Pixels []byte
}

// Texture is a shared atlas texture held by a tileset and referenced,
// non-owning, by every chunk batch that draws from it. Only the tileset
// that created it calls Destroy.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Destroy releases the texture. Destroy is idempotent.
	Destroy()
}

// BatchDescriptor describes a chunk draw batch to create.
type BatchDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Capacity is the maximum instance count the batch must hold. For a
	// chunk of side length n this is n*n.
	Capacity int

	// Texture is the atlas the batch samples from. May be nil when the
	// owning tileset has no texture attached.
	Texture Texture

	// OriginX and OriginY are the world-space minimum corner of the
	// chunk's bounding box. Instance transforms are chunk-local; drawing
	// composes view ∘ translate(origin) ∘ instance.
	OriginX float32
	OriginY float32
}

// Batch is one chunk's GPU-side instance data: a per-instance transform
// buffer and a parallel per-instance UV buffer. A batch belongs to exactly
// one chunk and is never shared.
//
// Batches follow the chunk's two-phase mutation model: the chunk accumulates
// edits CPU-side and calls Upload once per frame for all of them, so a batch
// sees at most one sync per frame however many tiles changed.
type Batch interface {
	// Upload replaces the batch's instance data. Only the first count
	// entries of each slice are meaningful; count never exceeds the
	// descriptor capacity. The slices are borrowed for the duration of
	// the call only.
	Upload(count int, transforms []Affine, uvs []Rect) error

	// Destroy releases the batch's buffers. Destroy is idempotent.
	Destroy()
}

// Device creates the GPU-side resources the tile map core needs. The core
// never submits draw calls itself; it only fills batches and leaves drawing
// to the backend that created them.
//
// Implementations live in backend/soft (pure CPU), backend/gpu (gogpu/wgpu
// HAL) and backend/ebiten (Ebitengine). A nil Device is valid everywhere in
// the core: chunks then keep their instance data CPU-side only.
type Device interface {
	// CreateTexture creates an atlas texture from the descriptor.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateBatch creates an instance batch for one chunk.
	CreateBatch(desc BatchDescriptor) (Batch, error)
}
