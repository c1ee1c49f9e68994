// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ebiten is a render device backed by Ebitengine. Atlas textures
// become *ebiten.Image values and batches draw their instances with
// DrawTriangles, four vertices and six indices per tile, so a whole chunk
// is one draw call.
//
// Import it blank to make it available through the backend registry:
//
//	import _ "github.com/gogpu/tilemap/backend/ebiten"
//
// or construct one directly:
//
//	dev := ebiten.New()
//	m, err := tilemap.New(data, tilemap.WithDevice(dev))
//
// Inside the game's Draw callback, walk the map's chunks and draw each
// batch:
//
//	m.EachChunk(func(l *tilemap.Layer, c *tilemap.Chunk) bool {
//		c.Batch().(*ebiten.Batch).Draw(screen)
//		return true
//	})
package ebiten

import (
	"github.com/gogpu/gputypes"
	eb "github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/tilemap/backend"
	"github.com/gogpu/tilemap/render"
)

// init registers the ebiten device on package import.
func init() {
	backend.Register(backend.BackendEbiten, func(backend.Options) (render.Device, error) {
		return New(), nil
	})
}

// Device creates Ebitengine images and vertex batches. The device itself is
// stateless; textures and batches own all data.
type Device struct{}

// New creates an ebiten device.
func New() *Device { return &Device{} }

// CreateTexture builds an Ebitengine atlas image from the descriptor. Only
// RGBA8 pixel data is supported.
func (d *Device) CreateTexture(desc render.TextureDescriptor) (render.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if desc.Format != gputypes.TextureFormatUndefined && desc.Format != gputypes.TextureFormatRGBA8Unorm {
		return nil, ErrUnsupportedFormat
	}
	if desc.Pixels != nil && len(desc.Pixels) != desc.Width*desc.Height*4 {
		return nil, ErrBadPixelData
	}
	img := eb.NewImage(desc.Width, desc.Height)
	if desc.Pixels != nil {
		img.WritePixels(desc.Pixels)
	}
	return &Texture{img: img}, nil
}

// CreateBatch allocates the vertex and index storage for one chunk. A nil
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
	quads := capacity
	if quads > maxTilesPerDraw {
		quads = maxTilesPerDraw
	}
	return &Batch{
		tex:      tex,
		originX:  desc.OriginX,
		originY:  desc.OriginY,
		capacity: capacity,
		vertices: make([]eb.Vertex, capacity*4),
		boxes:    make([]quadBox, capacity),
		indices:  quadIndices(quads),
	}, nil
}

// Texture is an atlas held as an Ebitengine image.
type Texture struct {
	img *eb.Image
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
func (t *Texture) Image() *eb.Image { return t.img }

// Destroy releases the image. Destroy is idempotent.
func (t *Texture) Destroy() {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}
