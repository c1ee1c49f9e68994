// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

// Point is a 2D point in world units.
type Point struct {
	X, Y float64
}

// ShapeType discriminates collision shape geometry.
type ShapeType uint8

const (
	// ShapeRect is an axis-aligned rectangle anchored at its minimum
	// corner.
	ShapeRect ShapeType = iota
	// ShapeEllipse is an axis-aligned ellipse inscribed in its bounding
	// box.
	ShapeEllipse
	// ShapePolygon is a closed point loop.
	ShapePolygon
	// ShapePolyline is an open point chain.
	ShapePolyline
)

// String returns the shape type name.
func (t ShapeType) String() string {
	switch t {
	case ShapeRect:
		return "rect"
	case ShapeEllipse:
		return "ellipse"
	case ShapePolygon:
		return "polygon"
	case ShapePolyline:
		return "polyline"
	}
	return "unknown"
}

// CollisionShape is one collision primitive. Inside a TileDef the
// coordinates are tile-local; in the list produced by collision extraction
// they are world-space, Y-up.
//
// Rect and ellipse shapes use X, Y, Width, Height; polygon and polyline
// shapes use Points with absolute coordinates (X and Y then hold the shape's
// anchor, kept for reference).
type CollisionShape struct {
	Type ShapeType

	X, Y          float64
	Width, Height float64

	Points []Point
}

// Bounds is an axis-aligned box in world units, min-corner inclusive,
// max-corner exclusive.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether the point lies inside the half-open box.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x < b.MaxX && y >= b.MinY && y < b.MaxY
}

// Width returns the box extent along X.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box extent along Y.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }
