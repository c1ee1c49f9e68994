// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Affine is a row-major 2x3 affine transformation:
//
//	| A B C |   x' = A*x + B*y + C
//	| D E F |   y' = D*x + E*y + F
//
// Chunk instance transforms are always axis-aligned (translation and scale
// only, B and D zero). Negative A or E mirror the quad geometry; because a
// mirrored axis-aligned quad covers the same pixels, backends may treat the
// transformed unit quad as its axis-aligned bounding box and take sampling
// orientation from the UV rectangle alone.
type Affine struct {
	A, B, C float32
	D, E, F float32
}

// IdentityAffine returns the identity transformation.
func IdentityAffine() Affine {
	return Affine{A: 1, E: 1}
}

// TranslateAffine creates a translation transformation.
func TranslateAffine(x, y float32) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// ScaleAffine creates a scaling transformation.
func ScaleAffine(x, y float32) Affine {
	return Affine{A: x, E: y}
}

// Mul returns the composition a∘b: the transform that applies b first,
// then a.
func (a Affine) Mul(b Affine) Affine {
	return Affine{
		A: a.A*b.A + a.B*b.D,
		B: a.A*b.B + a.B*b.E,
		C: a.A*b.C + a.B*b.F + a.C,
		D: a.D*b.A + a.E*b.D,
		E: a.D*b.B + a.E*b.E,
		F: a.D*b.C + a.E*b.F + a.F,
	}
}

// Apply transforms the point (x, y).
func (a Affine) Apply(x, y float32) (float32, float32) {
	return a.A*x + a.B*y + a.C, a.D*x + a.E*y + a.F
}

// Rect is a rectangle in normalized texture coordinates. X and Y locate one
// corner of the sampled atlas region; Width and Height extend from it. A
// negative Width or Height means the region is sampled mirrored along that
// axis: the rect still covers the same texels, read in reverse.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Canonical returns the same region with non-negative extents, plus whether
// the original was mirrored on each axis.
func (r Rect) Canonical() (out Rect, mirrorX, mirrorY bool) {
	out = r
	if out.Width < 0 {
		out.X += out.Width
		out.Width = -out.Width
		mirrorX = true
	}
	if out.Height < 0 {
		out.Y += out.Height
		out.Height = -out.Height
		mirrorY = true
	}
	return out, mirrorX, mirrorY
}
