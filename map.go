// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import (
	"errors"
	"math"

	"github.com/gogpu/tilemap/render"
)

var (
	// ErrNilMapData is returned by New when given nil map data.
	ErrNilMapData = errors.New("tilemap: map data is nil")

	// ErrNoTilesets is returned by New when the map data carries no
	// tilesets; layers cannot resolve tiles without at least one.
	ErrNoTilesets = errors.New("tilemap: map data has no tilesets")
)

// Map is the aggregate over tilesets, tile layers and object layers: it
// resolves which tileset owns a GID, drives per-frame animation across all
// layers, converts between world and tile coordinates, and derives the
// unified collision shape list.
//
// Thread safety: none. The core is single-threaded and synchronous; all
// mutation (tile edits, animation ticks, rebuilds) happens on the thread
// that issues draw calls, between frames.
//
// Lifecycle: construct with New, tick with Update once per frame, release
// with Close. Close disposes every layer, then every tileset (which releases
// the shared atlas textures).
type Map struct {
	data     *MapData
	tilesets []*Tileset
	layers   []*Layer

	// objectLayers are retained verbatim from the source document; the
	// map reads them during collision extraction but never mutates them.
	objectLayers []*ObjectLayerData

	// collision is derived data, recomputed wholesale by
	// ExtractCollisionData and never hand-edited.
	collision []CollisionShape

	device    render.Device
	chunkSize int
	closed    bool
}

// New builds a Map from loader-produced map data: all tilesets first, then
// one layer per tile layer record. Each layer renders from the tileset that
// owns its first non-empty cell's GID, falling back to the first tileset
// when no cell resolves; a partially wrong render beats refusing to build.
func New(data *MapData, opts ...Option) (*Map, error) {
	if data == nil {
		return nil, ErrNilMapData
	}
	if len(data.Tilesets) == 0 {
		return nil, ErrNoTilesets
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &Map{
		data:         data,
		device:       o.device,
		chunkSize:    o.chunkSize,
		objectLayers: data.ObjectLayers,
	}
	for _, td := range data.Tilesets {
		ts, err := newTileset(td)
		if err != nil {
			return nil, err
		}
		m.tilesets = append(m.tilesets, ts)
	}
	for _, ld := range data.Layers {
		layer, err := newLayer(ld, m.layerTileset(ld), o.chunkSize,
			float64(data.TileWidth), float64(data.TileHeight), o.device)
		if err != nil {
			return nil, err
		}
		m.layers = append(m.layers, layer)
	}
	if o.collision {
		m.ExtractCollisionData()
	}
	return m, nil
}

// layerTileset resolves the tileset a layer renders from: the owner of the
// first non-empty cell's GID, or the first tileset as fallback.
func (m *Map) layerTileset(ld *TileLayerData) *Tileset {
	if ld != nil {
		for _, gid := range ld.GIDs {
			if gid&GIDMask == 0 {
				continue
			}
			if ts := m.TilesetForGID(gid); ts != nil {
				return ts
			}
			break
		}
	}
	return m.tilesets[0]
}

// TilesetForGID returns the tileset owning a GID's packed id, searching in
// reverse order so that later tilesets win when ranges are ambiguous after
// external edits. Flip bits are ignored. Returns nil for empty GIDs and for
// ids no tileset owns.
func (m *Map) TilesetForGID(gid GID) *Tileset {
	if gid&GIDMask == 0 {
		return nil
	}
	for i := len(m.tilesets) - 1; i >= 0; i-- {
		if m.tilesets[i].ContainsGID(gid) {
			return m.tilesets[i]
		}
	}
	return nil
}

// Update advances animation on every layer in order. Layers animate
// independently; no cross-layer synchronization exists or is needed.
func (m *Map) Update(deltaMs float64) {
	if m.closed {
		return
	}
	for _, l := range m.layers {
		l.Update(deltaMs)
	}
}

// WorldToTile converts a Y-up world position to tile coordinates in the
// source's Y-down convention.
func (m *Map) WorldToTile(wx, wy float64) (tileX, tileY int) {
	tileX = int(math.Floor(wx / float64(m.data.TileWidth)))
	tileY = m.data.Height - 1 - int(math.Floor(wy/float64(m.data.TileHeight)))
	return tileX, tileY
}

// TileToWorld converts tile coordinates to the world-space minimum corner of
// that tile, inverting the Y axis.
func (m *Map) TileToWorld(tileX, tileY int) (wx, wy float64) {
	wx = float64(tileX) * float64(m.data.TileWidth)
	wy = float64(m.data.Height-1-tileY) * float64(m.data.TileHeight)
	return wx, wy
}

// Layer returns the first layer with the given name, or nil.
func (m *Map) Layer(name string) *Layer {
	for _, l := range m.layers {
		if l.Name() == name {
			return l
		}
	}
	return nil
}

// LayerAt returns the layer at an index, or nil when out of range.
func (m *Map) LayerAt(i int) *Layer {
	if i < 0 || i >= len(m.layers) {
		return nil
	}
	return m.layers[i]
}

// Tileset returns the first tileset with the given name, or nil.
func (m *Map) Tileset(name string) *Tileset {
	for _, ts := range m.tilesets {
		if ts.Name() == name {
			return ts
		}
	}
	return nil
}

// Tilesets returns the map's tilesets in source order.
func (m *Map) Tilesets() []*Tileset { return m.tilesets }

// ObjectLayers returns the source object layer records, unmodified.
func (m *Map) ObjectLayers() []*ObjectLayerData { return m.objectLayers }

// LayerCount returns the number of tile layers.
func (m *Map) LayerCount() int { return len(m.layers) }

// TotalTileCount returns the instance count summed over all layers.
func (m *Map) TotalTileCount() int {
	n := 0
	for _, l := range m.layers {
		n += l.TileCount()
	}
	return n
}

// TotalChunkCount returns the live chunk count summed over all layers.
func (m *Map) TotalChunkCount() int {
	n := 0
	for _, l := range m.layers {
		n += l.ChunkCount()
	}
	return n
}

// Size returns the map dimensions in tiles.
func (m *Map) Size() (w, h int) { return m.data.Width, m.data.Height }

// TileSize returns the tile dimensions in world units.
func (m *Map) TileSize() (w, h int) { return m.data.TileWidth, m.data.TileHeight }

// PixelSize returns the map dimensions in world units.
func (m *Map) PixelSize() (w, h float64) {
	return float64(m.data.Width * m.data.TileWidth), float64(m.data.Height * m.data.TileHeight)
}

// Properties returns the map's custom properties, possibly nil.
func (m *Map) Properties() map[string]any { return m.data.Properties }

// EachChunk calls fn for every live chunk, layers in order, chunks in each
// layer's stable coordinate order. Returning false stops the walk. Renderers
// use this to cull against chunk bounds and draw batches.
func (m *Map) EachChunk(fn func(*Layer, *Chunk) bool) {
	for _, l := range m.layers {
		for _, ch := range l.Chunks() {
			if !fn(l, ch) {
				return
			}
		}
	}
}

// Close disposes every layer, then every tileset. Close is idempotent.
func (m *Map) Close() {
	if m.closed {
		return
	}
	m.closed = true
	for _, l := range m.layers {
		l.Close()
	}
	for _, ts := range m.tilesets {
		ts.Close()
	}
}
