// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ebiten

import (
	"math"

	eb "github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/tilemap/render"
)

// maxTilesPerDraw is the maximum number of instances per DrawTriangles
// call. Limited by the uint16 index buffer: 65535 / 4 vertices per quad.
const maxTilesPerDraw = 16383

// quadBox is one instance's world-space rectangle, minimum corner with
// world Y pointing up.
type quadBox struct {
	x, y float32
	w, h float32
}

// Batch holds one chunk's instance data as a prebuilt vertex buffer and
// draws it with DrawTriangles. It implements render.Batch.
type Batch struct {
	tex      *Texture
	originX  float32
	originY  float32
	capacity int
	count    int

	vertices []eb.Vertex // 4 per instance
	boxes    []quadBox   // world-space placement, resolved at Draw
	indices  []uint16    // 6 per instance, topology never changes
}

// Upload rebuilds the vertex buffer from the first count instances; the
// caller keeps ownership of the slices. Screen positions are resolved at
// Draw time, so uploads are independent of the destination size.
func (b *Batch) Upload(count int, transforms []render.Affine, uvs []render.Rect) error {
	if count > b.capacity {
		return ErrCapacityExceeded
	}
	if count < 0 {
		count = 0
	}
	b.count = count
	if count == 0 || b.tex == nil || b.tex.img == nil {
		return nil
	}

	texW := float32(b.tex.Width())
	texH := float32(b.tex.Height())
	for i := 0; i < count; i++ {
		tr := transforms[i]
		halfW := float32(math.Abs(float64(tr.A))) / 2
		halfH := float32(math.Abs(float64(tr.E))) / 2
		b.boxes[i] = quadBox{
			x: b.originX + tr.C - halfW,
			y: b.originY + tr.F - halfH,
			w: halfW * 2,
			h: halfH * 2,
		}
		setQuadUV(b.vertices[i*4:], uvs[i], texW, texH)
	}
	return nil
}

// Count returns the uploaded instance count.
func (b *Batch) Count() int { return b.count }

// Destroy releases the vertex storage. Destroy is idempotent and never
// touches the atlas texture, which the owning tileset destroys.
func (b *Batch) Destroy() {
	b.vertices = nil
	b.boxes = nil
	b.indices = nil
	b.count = 0
	b.capacity = 0
	b.tex = nil
}

// Draw composites every instance into dst, one DrawTriangles call per
// 16383 instances.
//
// World Y points up while image Y points down, so the batch flips around
// the destination height: world (0,0) lands at dst's bottom-left corner.
// Sampling orientation comes from the UV rectangle alone (see
// render.Affine). A batch with no texture draws nothing.
func (b *Batch) Draw(dst *eb.Image) {
	if dst == nil || b.tex == nil || b.tex.img == nil || b.count == 0 {
		return
	}
	dstH := float32(dst.Bounds().Dy())
	for i := 0; i < b.count; i++ {
		placeQuad(b.vertices[i*4:], b.boxes[i], dstH)
	}
	op := &eb.DrawTrianglesOptions{}
	for offset := 0; offset < b.count; offset += maxTilesPerDraw {
		end := offset + maxTilesPerDraw
		if end > b.count {
			end = b.count
		}
		dst.DrawTriangles(b.vertices[offset*4:end*4], b.indices[:(end-offset)*6], b.tex.img, op)
	}
}

// quadIndices builds the two-triangle index pattern for n quads:
// TL, TR, BL and TR, BR, BL.
func quadIndices(n int) []uint16 {
	idx := make([]uint16, n*6)
	for i := 0; i < n; i++ {
		base := uint16(i * 4)
		off := i * 6
		idx[off+0] = base + 0
		idx[off+1] = base + 1
		idx[off+2] = base + 2
		idx[off+3] = base + 1
		idx[off+4] = base + 3
		idx[off+5] = base + 2
	}
	return idx
}

// setQuadUV writes atlas texel coordinates for one quad's four corners,
// swapping corners for mirrored regions, and sets an opaque white tint.
// Vertex order is TL, TR, BL, BR.
func setQuadUV(verts []eb.Vertex, uvr render.Rect, texW, texH float32) {
	uv, mirrorX, mirrorY := uvr.Canonical()
	u0 := uv.X * texW
	u1 := (uv.X + uv.Width) * texW
	v0 := uv.Y * texH
	v1 := (uv.Y + uv.Height) * texH
	if mirrorX {
		u0, u1 = u1, u0
	}
	if mirrorY {
		v0, v1 = v1, v0
	}
	verts[0].SrcX, verts[0].SrcY = u0, v0
	verts[1].SrcX, verts[1].SrcY = u1, v0
	verts[2].SrcX, verts[2].SrcY = u0, v1
	verts[3].SrcX, verts[3].SrcY = u1, v1
	for k := 0; k < 4; k++ {
		verts[k].ColorR = 1
		verts[k].ColorG = 1
		verts[k].ColorB = 1
		verts[k].ColorA = 1
	}
}

// placeQuad writes screen-space corners for one world box. Image Y points
// down, so the box flips around the destination height.
func placeQuad(verts []eb.Vertex, box quadBox, dstH float32) {
	left := box.x
	top := dstH - (box.y + box.h)
	verts[0].DstX, verts[0].DstY = left, top
	verts[1].DstX, verts[1].DstY = left+box.w, top
	verts[2].DstX, verts[2].DstY = left, top+box.h
	verts[3].DstX, verts[3].DstY = left+box.w, top+box.h
}
