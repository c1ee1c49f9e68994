// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import (
	"errors"
	"fmt"

	"github.com/gogpu/tilemap/render"
)

var (
	// ErrNilTilesetData is returned when constructing a tileset from nil.
	ErrNilTilesetData = errors.New("tilemap: tileset data is nil")

	// ErrBadTileset is returned when a tileset's grid geometry cannot be
	// established (no usable column or tile count).
	ErrBadTileset = errors.New("tilemap: invalid tileset geometry")
)

// Tileset is an immutable catalog mapping a contiguous range of packed tile
// ids onto atlas UV rectangles, optional per-tile collision shapes, and
// optional animation frame tables.
//
// A tileset owns packed ids in [FirstGID, FirstGID+TileCount); the local id
// of a tile is its packed id minus FirstGID. All lookup methods take packed
// ids (flip bits already stripped); callers check ContainsGID first when the
// owner is in doubt, since lookups never fail, they only return absent or
// meaningless results for ids the set does not own.
//
// Lifecycle: constructed once from loader data, immutable afterwards except
// for Close, which releases the atlas texture and leaves the set unusable.
type Tileset struct {
	name      string
	firstGID  uint32
	tileW     int
	tileH     int
	imageW    int
	imageH    int
	columns   int
	tileCount int
	spacing   int
	margin    int

	tiles   map[uint32]*TileDef
	texture render.Texture

	closed bool
}

// newTileset builds a Tileset from its loader record, deriving grid geometry
// that the record leaves at zero and backfilling zero-valued definition UVs
// from grid position.
func newTileset(data *TilesetData) (*Tileset, error) {
	if data == nil {
		return nil, ErrNilTilesetData
	}

	columns := data.Columns
	if columns <= 0 && data.TileWidth > 0 {
		columns = (data.ImageWidth - 2*data.Margin + data.Spacing) / (data.TileWidth + data.Spacing)
	}
	tileCount := data.TileCount
	if tileCount <= 0 && columns > 0 && data.TileHeight > 0 {
		rows := (data.ImageHeight - 2*data.Margin + data.Spacing) / (data.TileHeight + data.Spacing)
		tileCount = columns * rows
	}
	if columns <= 0 || tileCount <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrBadTileset, data.Name)
	}

	t := &Tileset{
		name:      data.Name,
		firstGID:  data.FirstGID,
		tileW:     data.TileWidth,
		tileH:     data.TileHeight,
		imageW:    data.ImageWidth,
		imageH:    data.ImageHeight,
		columns:   columns,
		tileCount: tileCount,
		spacing:   data.Spacing,
		margin:    data.Margin,
		tiles:     data.Tiles,
		texture:   data.Texture,
	}
	for local, def := range t.tiles {
		if def != nil && def.UV == (render.Rect{}) {
			def.UV = t.gridUV(local)
		}
	}
	return t, nil
}

// gridUV computes a tile's normalized atlas rectangle purely from its grid
// position, applying margin and spacing.
func (t *Tileset) gridUV(local uint32) render.Rect {
	col := int(local) % t.columns
	row := int(local) / t.columns
	px := t.margin + col*(t.tileW+t.spacing)
	py := t.margin + row*(t.tileH+t.spacing)
	return render.Rect{
		X:      float32(px) / float32(t.imageW),
		Y:      float32(py) / float32(t.imageH),
		Width:  float32(t.tileW) / float32(t.imageW),
		Height: float32(t.tileH) / float32(t.imageH),
	}
}

// localID converts a packed id to this set's local id space. Ids below
// FirstGID wrap around; the resulting lookups simply miss.
func (t *Tileset) localID(gid GID) uint32 {
	return uint32(gid&GIDMask) - t.firstGID
}

// UV resolves a packed id to its normalized atlas rectangle: the custom
// definition's rectangle when one exists, otherwise the grid position.
// UV never fails; ids outside the owned range produce meaningless but
// non-crashing results, so callers check ContainsGID first when unsure.
func (t *Tileset) UV(gid GID) render.Rect {
	local := t.localID(gid)
	if def, ok := t.tiles[local]; ok && def != nil {
		return def.UV
	}
	return t.gridUV(local)
}

// Tile returns the custom definition for a packed id, or nil when the tile
// has none. Absence is not an error.
func (t *Tileset) Tile(gid GID) *TileDef {
	return t.tiles[t.localID(gid)]
}

// IsAnimated reports whether the packed id has an animation frame table.
func (t *Tileset) IsAnimated(gid GID) bool {
	def := t.tiles[t.localID(gid)]
	return def != nil && len(def.Animation) > 0
}

// Animation returns the packed id's frame table, or nil when not animated.
func (t *Tileset) Animation(gid GID) []Frame {
	def := t.tiles[t.localID(gid)]
	if def == nil {
		return nil
	}
	return def.Animation
}

// ContainsGID reports whether this set owns the packed id:
// 0 ≤ id − FirstGID < TileCount.
func (t *Tileset) ContainsGID(gid GID) bool {
	id := uint32(gid & GIDMask)
	return id >= t.firstGID && id-t.firstGID < uint32(t.tileCount)
}

// displayGID converts a local id back to the packed id shown for it, used
// when an animation frame substitutes another tile of the same set.
func (t *Tileset) displayGID(local uint32) GID {
	return GID(t.firstGID + local)
}

// Name returns the tileset name.
func (t *Tileset) Name() string { return t.name }

// FirstGID returns the first packed id this set owns.
func (t *Tileset) FirstGID() uint32 { return t.firstGID }

// TileCount returns the number of tiles in the set.
func (t *Tileset) TileCount() int { return t.tileCount }

// Columns returns the atlas grid column count.
func (t *Tileset) Columns() int { return t.columns }

// TileSize returns the dimensions of one tile in pixels.
func (t *Tileset) TileSize() (w, h int) { return t.tileW, t.tileH }

// Texture returns the shared atlas texture, or nil when headless.
func (t *Tileset) Texture() render.Texture { return t.texture }

// Close releases the atlas texture reference. The tileset is unusable
// afterward. Close is idempotent.
func (t *Tileset) Close() {
	if t.closed {
		return
	}
	t.closed = true
	if t.texture != nil {
		t.texture.Destroy()
		t.texture = nil
	}
}
