// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import (
	"image/color"

	"github.com/gogpu/tilemap/render"
)

// MapData is the loader-facing description of a whole map. Loaders (the tmx
// package, or any other producer) fill it in; New consumes it. The core
// assumes the record has already been validated by its producer.
type MapData struct {
	// Width and Height are the map dimensions in tiles.
	Width  int
	Height int

	// TileWidth and TileHeight are the tile dimensions in pixels, which
	// the core treats as world units.
	TileWidth  int
	TileHeight int

	// Orientation is the source map orientation ("orthogonal" is the only
	// one the chunk pipeline lays out; others pass through as metadata).
	Orientation string

	// RenderOrder is the source tile render order, e.g. "right-down".
	RenderOrder string

	// Infinite marks maps stored as open-ended chunks in the source
	// document. Infinite sources must be flattened by the loader.
	Infinite bool

	Tilesets     []*TilesetData
	Layers       []*TileLayerData
	ObjectLayers []*ObjectLayerData

	Properties map[string]any
}

// TilesetData describes one tileset: a contiguous range of packed tile ids
// mapped onto a texture atlas grid, plus sparse per-tile definitions.
type TilesetData struct {
	Name string

	// FirstGID is the first packed id this tileset owns. The tileset owns
	// [FirstGID, FirstGID+TileCount).
	FirstGID uint32

	// TileWidth and TileHeight are the dimensions of one tile in the
	// atlas, in pixels.
	TileWidth  int
	TileHeight int

	// ImageWidth and ImageHeight are the atlas dimensions in pixels.
	ImageWidth  int
	ImageHeight int

	// Columns is the number of tile columns in the atlas grid. Zero means
	// derive from the image width, tile width, margin and spacing.
	Columns int

	// TileCount is the number of tiles in the set. Zero means derive from
	// the grid.
	TileCount int

	// Spacing and Margin are the atlas grid gaps in pixels: Margin
	// surrounds the whole grid, Spacing separates adjacent tiles.
	Spacing int
	Margin  int

	// Tiles holds sparse per-tile definitions keyed by local id. Ids
	// without an entry resolve purely from grid position.
	Tiles map[uint32]*TileDef

	// Texture is the shared atlas texture, already loaded and uploaded by
	// the caller. May be nil for headless use.
	Texture render.Texture

	Properties map[string]any
}

// TileDef is a per-tile definition inside a tileset, keyed by local id.
type TileDef struct {
	// UV is the tile's atlas rectangle in normalized coordinates. A zero
	// UV is backfilled from grid position when the tileset is built.
	UV render.Rect

	// Shapes are collision shapes in tile-local coordinates, relative to
	// the tile's own origin.
	Shapes []CollisionShape

	// Animation is the ordered frame list; empty means not animated.
	Animation []Frame

	Properties map[string]any
}

// Frame is one animation step: show the tile with local id TileID for
// DurationMs milliseconds.
type Frame struct {
	TileID     uint32
	DurationMs float64
}

// TileLayerData is one tile layer's grid and paint metadata. The layer that
// owns it mutates GIDs in place on tile edits; the grid is never resized
// after construction.
type TileLayerData struct {
	Name string
	ID   int

	// Width and Height are the layer dimensions in tiles.
	Width  int
	Height int

	// GIDs is the row-major tile grid, top-left origin, Y-down, of length
	// Width*Height. Values carry flip bits; 0 is empty.
	GIDs []GID

	// OffsetX and OffsetY shift the layer in pixels at draw time. The
	// offset is paint metadata: it is not baked into chunk geometry.
	OffsetX float64
	OffsetY float64

	Opacity    float64
	Visible    bool
	ParallaxX  float64
	ParallaxY  float64
	Tint       color.RGBA
	Properties map[string]any
}

// ObjectLayerData is a layer of freeform positioned objects. Object layers
// are retained verbatim by the map; layers whose name contains "collision"
// or "solid" feed collision extraction.
type ObjectLayerData struct {
	Name       string
	ID         int
	Objects    []*ObjectData
	Properties map[string]any
}

// ObjectData is one object in an object layer, in the source document's
// Y-down pixel coordinates.
type ObjectData struct {
	ID   int
	Name string
	Type string

	X, Y          float64
	Width, Height float64
	Rotation      float64

	// Polygon and Polyline are point lists relative to (X, Y). At most
	// one is set.
	Polygon  []Point
	Polyline []Point

	// Ellipse marks the bounding box as an ellipse; PointObject marks a
	// dimensionless point marker.
	Ellipse     bool
	PointObject bool

	Properties map[string]any
}
