// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tilemap/render"
)

// Per-instance strides in bytes. A transform packs the six affine
// coefficients plus two padding floats so a shader reads it as two vec4s;
// a UV rectangle is exactly one vec4.
const (
	transformStride = 32
	uvStride        = 16
)

// CreateBatch allocates the two per-instance vertex buffers for one chunk.
// A nil descriptor texture is allowed; such a batch holds instance data but
// has no atlas to bind.
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

	b := &Batch{
		device:   d.device,
		queue:    d.queue,
		tex:      tex,
		originX:  desc.OriginX,
		originY:  desc.OriginY,
		capacity: capacity,
	}
	if capacity == 0 {
		return b, nil
	}

	transformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label + " transforms",
		Size:  uint64(capacity * transformStride),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create transform buffer: %w", err)
	}
	uvBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label + " uvs",
		Size:  uint64(capacity * uvStride),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.device.DestroyBuffer(transformBuf)
		return nil, fmt.Errorf("gpu: create uv buffer: %w", err)
	}

	b.transformBuf = transformBuf
	b.uvBuf = uvBuf
	b.scratch = make([]byte, capacity*transformStride)
	return b, nil
}

// Batch is one chunk's instance data as two GPU vertex buffers. The host
// render pipeline binds TransformBuffer and UVBuffer as per-instance vertex
// streams and draws Count instances.
type Batch struct {
	device hal.Device
	queue  hal.Queue

	tex      *Texture
	originX  float32
	originY  float32
	capacity int
	count    int

	transformBuf hal.Buffer
	uvBuf        hal.Buffer
	scratch      []byte
}

// Upload packs the first count instances and writes both buffers through
// the queue; the caller keeps ownership of the slices.
func (b *Batch) Upload(count int, transforms []render.Affine, uvs []render.Rect) error {
	if count > b.capacity {
		return ErrCapacityExceeded
	}
	if count < 0 {
		count = 0
	}
	b.count = count
	if count == 0 || b.transformBuf == nil {
		return nil
	}

	for i := 0; i < count; i++ {
		putTransform(b.scratch[i*transformStride:], transforms[i])
	}
	b.queue.WriteBuffer(b.transformBuf, 0, b.scratch[:count*transformStride])

	for i := 0; i < count; i++ {
		putUV(b.scratch[i*uvStride:], uvs[i])
	}
	b.queue.WriteBuffer(b.uvBuf, 0, b.scratch[:count*uvStride])
	return nil
}

// Count returns the uploaded instance count.
func (b *Batch) Count() int { return b.count }

// Capacity returns the maximum instance count the buffers hold.
func (b *Batch) Capacity() int { return b.capacity }

// Origin returns the world-space minimum corner of the chunk's bounding
// box, for the host to fold into its view uniform.
func (b *Batch) Origin() (x, y float32) { return b.originX, b.originY }

// TransformBuffer returns the per-instance transform vertex buffer. It is
// nil for zero-capacity batches and after Destroy.
func (b *Batch) TransformBuffer() hal.Buffer { return b.transformBuf }

// UVBuffer returns the per-instance UV vertex buffer. It is nil for
// zero-capacity batches and after Destroy.
func (b *Batch) UVBuffer() hal.Buffer { return b.uvBuf }

// Texture returns the atlas the batch samples from, or nil.
func (b *Batch) Texture() *Texture { return b.tex }

// Destroy releases both buffers. Destroy is idempotent and never touches
// the atlas texture, which the owning tileset destroys.
func (b *Batch) Destroy() {
	if b.transformBuf != nil {
		b.device.DestroyBuffer(b.transformBuf)
		b.transformBuf = nil
	}
	if b.uvBuf != nil {
		b.device.DestroyBuffer(b.uvBuf)
		b.uvBuf = nil
	}
	b.scratch = nil
	b.count = 0
	b.capacity = 0
	b.tex = nil
}

// putTransform writes the six affine coefficients plus two zero floats as
// little-endian f32, matching the WGSL instance layout.
func putTransform(buf []byte, tr render.Affine) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(tr.A))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(tr.B))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(tr.C))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(tr.D))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(tr.E))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(tr.F))
	binary.LittleEndian.PutUint32(buf[24:28], 0)
	binary.LittleEndian.PutUint32(buf[28:32], 0)
}

// putUV writes the UV rectangle as one little-endian vec4.
func putUV(buf []byte, uv render.Rect) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(uv.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(uv.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(uv.Width))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(uv.Height))
}
