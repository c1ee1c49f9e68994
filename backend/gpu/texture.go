// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tilemap/render"
)

// CreateTexture creates an RGBA8 HAL texture plus a sampling view and
// uploads the initial pixels. Only RGBA8 pixel data is supported.
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

	width := uint32(desc.Width)
	height := uint32(desc.Height)
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + " view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create texture view: %w", err)
	}

	if desc.Pixels != nil {
		d.queue.WriteTexture(
			&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
			desc.Pixels,
			&hal.ImageDataLayout{Offset: 0, BytesPerRow: width * 4, RowsPerImage: height},
			&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		)
	}

	return &Texture{
		device: d.device,
		tex:    tex,
		view:   view,
		width:  desc.Width,
		height: desc.Height,
	}, nil
}

// Texture is an atlas held as a HAL texture with a sampling view.
type Texture struct {
	device hal.Device
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	if t.tex == nil {
		return 0
	}
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	if t.tex == nil {
		return 0
	}
	return t.height
}

// Handle returns the underlying HAL texture for bind group construction.
// It is nil after Destroy.
func (t *Texture) Handle() hal.Texture { return t.tex }

// View returns the sampling view for bind group construction. It is nil
// after Destroy.
func (t *Texture) View() hal.TextureView { return t.view }

// Destroy releases the view and texture. Destroy is idempotent.
func (t *Texture) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		t.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
