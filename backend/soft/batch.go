// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/tilemap/render"
)

// Batch holds one chunk's instance data CPU-side and composites it into an
// image on Draw. It implements render.Batch.
type Batch struct {
	tex      *Texture
	originX  float32
	originY  float32
	capacity int
	count    int

	transforms []render.Affine
	uvs        []render.Rect
}

// Upload replaces the batch's instance data with copies of the first count
// entries; the caller keeps ownership of the slices.
func (b *Batch) Upload(count int, transforms []render.Affine, uvs []render.Rect) error {
	if count > b.capacity {
		return ErrCapacityExceeded
	}
	if count < 0 {
		count = 0
	}
	b.transforms = append(b.transforms[:0], transforms[:count]...)
	b.uvs = append(b.uvs[:0], uvs[:count]...)
	b.count = count
	return nil
}

// Count returns the uploaded instance count.
func (b *Batch) Count() int { return b.count }

// Destroy releases the instance storage. Destroy is idempotent.
func (b *Batch) Destroy() {
	b.transforms = nil
	b.uvs = nil
	b.count = 0
	b.capacity = 0
	b.tex = nil
}

// Draw composites every instance into dst with nearest-neighbor sampling.
//
// World Y points up while image Y points down, so the batch flips around the
// destination height: world (0,0) lands at dst's bottom-left corner. Each
// instance covers the axis-aligned box of its transformed unit quad, and
// sampling orientation comes from the UV rectangle alone (see render.Affine).
// A batch with no texture draws nothing.
func (b *Batch) Draw(dst *image.RGBA) {
	if dst == nil || b.tex == nil || b.tex.img == nil || b.count == 0 {
		return
	}
	src := b.tex.img
	texW := float64(src.Bounds().Dx())
	texH := float64(src.Bounds().Dy())
	dstH := float64(dst.Bounds().Dy())

	for i := 0; i < b.count; i++ {
		tr := b.transforms[i]
		uv, mirrorX, mirrorY := b.uvs[i].Canonical()

		// World-space box of the instance quad.
		cx := float64(b.originX + tr.C)
		cy := float64(b.originY + tr.F)
		halfW := math.Abs(float64(tr.A)) / 2
		halfH := math.Abs(float64(tr.E)) / 2
		x0 := cx - halfW
		y0 := dstH - (cy + halfH) // screen top edge = world max Y

		// Atlas pixel rectangle.
		sr := image.Rect(
			int(math.Round(float64(uv.X)*texW)),
			int(math.Round(float64(uv.Y)*texH)),
			int(math.Round(float64(uv.X+uv.Width)*texW)),
			int(math.Round(float64(uv.Y+uv.Height)*texH)),
		)
		if sr.Empty() {
			continue
		}

		sx := 2 * halfW / float64(sr.Dx())
		sy := 2 * halfH / float64(sr.Dy())
		m := f64.Aff3{
			sx, 0, x0 - float64(sr.Min.X)*sx,
			0, sy, y0 - float64(sr.Min.Y)*sy,
		}
		if mirrorX {
			m[0] = -sx
			m[2] = x0 + float64(sr.Max.X)*sx
		}
		if mirrorY {
			m[4] = -sy
			m[5] = y0 + float64(sr.Max.Y)*sy
		}
		xdraw.NearestNeighbor.Transform(dst, m, src, sr, xdraw.Over, nil)
	}
}
