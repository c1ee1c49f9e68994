// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package soft is a pure-CPU render device: atlas textures are plain RGBA
// images and batches composite their instances into an *image.RGBA with
// nearest-neighbor sampling. It needs no GPU, no window and no cgo, which
// makes it the reference device for tests, headless tools and golden-image
// rendering.
//
// Import it blank to make it available through the backend registry:
//
//	import _ "github.com/gogpu/tilemap/backend/soft"
//
// or construct one directly:
//
//	dev := soft.New()
//	m, err := tilemap.New(data, tilemap.WithDevice(dev))
package soft

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tilemap/backend"
	"github.com/gogpu/tilemap/render"
)

// init registers the soft device on package import.
func init() {
	backend.Register(backend.BackendSoft, func(backend.Options) (render.Device, error) {
		return New(), nil
	})
}

// Device is a CPU compositing device. The device itself is stateless;
// textures and batches own all data.
type Device struct{}

// New creates a soft device.
func New() *Device { return &Device{} }

// CreateTexture builds an in-memory RGBA atlas from the descriptor. Only
// RGBA8 pixel data is supported.
func (d *Device) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if desc.Format != gputypes.TextureFormatUndefined && desc.Format != gputypes.TextureFormatRGBA8Unorm {
		return nil, ErrUnsupportedFormat
	}
	img := image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height))
	if desc.Pixels != nil {
		if len(desc.Pixels) != desc.Width*desc.Height*4 {
			return nil, ErrBadPixelData
		}
		copy(img.Pix, desc.Pixels)
	}
	return &Texture{img: img}, nil
}

// CreateBatch allocates CPU-side instance storage for one chunk. A nil
// descriptor texture is allowed; such a batch holds data but draws nothing.
func (d *Device) CreateBatch(desc render.BatchDescriptor) (render.Batch, error) {
	var tex *Texture
	if desc.Texture != nil {
		t, ok := desc.Texture.(*Texture)
		if !ok {
			return nil, ErrForeignTexture
		}
		tex = t
	}
	capacity := desc.Capacity
	if capacity < 0 {
		capacity = 0
	}
	return &Batch{
		tex:        tex,
		originX:    desc.OriginX,
		originY:    desc.OriginY,
		capacity:   capacity,
		transforms: make([]render.Affine, 0, capacity),
		uvs:        make([]render.Rect, 0, capacity),
	}, nil
}

// Texture is an atlas held as a plain RGBA image.
type Texture struct {
	img *image.RGBA
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dx()
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	if t.img == nil {
		return 0
	}
	return t.img.Bounds().Dy()
}

// Image returns the backing image. Mutating it changes what batches sample
// on their next Draw.
func (t *Texture) Image() *image.RGBA { return t.img }

// Destroy drops the backing image. Destroy is idempotent.
func (t *Texture) Destroy() { t.img = nil }
