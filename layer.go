// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import (
	"errors"
	"fmt"
	"image/color"
	"sort"

	"github.com/gogpu/tilemap/render"
)

var (
	// ErrNilLayerData is returned when constructing a layer from nil.
	ErrNilLayerData = errors.New("tilemap: layer data is nil")

	// ErrBadLayerGrid is returned when a layer's GID array length does
	// not match its width*height.
	ErrBadLayerGrid = errors.New("tilemap: layer grid length does not match dimensions")
)

// animTimer is the shared animation state for one base id. Every instance of
// the same animated tile type advances from the same timer, so timer count
// is bounded by distinct animated tile types, not by instance count.
type animTimer struct {
	frames  []Frame
	elapsed float64
	frame   int
}

// animInstance routes one animated grid cell to its instance slot: which
// chunk holds it, which slot inside that chunk, which base id keys its
// timer, and the id it currently displays.
type animInstance struct {
	base     GID
	resolved GID
	coord    ChunkCoord
	slot     int
}

// Layer owns one tile layer's grid and its spatial partition into chunks.
//
// Construction decodes the flat GID array once: each non-empty cell is
// assigned to the chunk at floor(tileX/chunkSize), floor(tileY/chunkSize),
// converted from the source's Y-down rows to Y-up world space, and animated
// cells are registered with a per-base-id shared timer. After construction
// the layer is mutated through SetTileAt (single-chunk rebuild) and Update
// (animation ticking).
type Layer struct {
	data      *TileLayerData
	tileset   *Tileset
	device    render.Device
	chunkSize int
	maxChunkY int
	tileW     float64
	tileH     float64

	chunks map[ChunkCoord]*Chunk

	// timers is keyed by base id; animated routes one flat grid index to
	// its chunk slot and timer.
	timers   map[GID]*animTimer
	animated map[int]*animInstance

	closed bool
}

// newLayer partitions the layer grid into chunks and registers animated
// tiles. The tileset is the layer's resolved tileset; dev may be nil for
// headless operation.
func newLayer(data *TileLayerData, ts *Tileset, chunkSize int, tileW, tileH float64, dev render.Device) (*Layer, error) {
	if data == nil {
		return nil, ErrNilLayerData
	}
	if data.Width <= 0 || data.Height <= 0 || len(data.GIDs) != data.Width*data.Height {
		return nil, fmt.Errorf("%w: %q (%dx%d, %d gids)",
			ErrBadLayerGrid, data.Name, data.Width, data.Height, len(data.GIDs))
	}

	l := &Layer{
		data:      data,
		tileset:   ts,
		device:    dev,
		chunkSize: chunkSize,
		maxChunkY: (data.Height+chunkSize-1)/chunkSize - 1,
		tileW:     tileW,
		tileH:     tileH,
		chunks:    make(map[ChunkCoord]*Chunk),
		timers:    make(map[GID]*animTimer),
		animated:  make(map[int]*animInstance),
	}

	groups := make(map[ChunkCoord][]TileInstance)
	var order []ChunkCoord
	for ty := 0; ty < data.Height; ty++ {
		for tx := 0; tx < data.Width; tx++ {
			idx := ty*data.Width + tx
			ref := DecodeGID(data.GIDs[idx])
			if ref.ID == 0 {
				continue
			}
			coord := l.chunkCoordFor(tx, ty)
			if _, ok := groups[coord]; !ok {
				order = append(order, coord)
			}
			slot := len(groups[coord])
			groups[coord] = append(groups[coord], l.instanceFor(tx, ty, ref))
			l.registerAnimated(idx, GID(ref.ID), coord, slot)
		}
	}
	for _, coord := range order {
		ch := newChunk(coord, chunkSize, tileW, tileH, ts, dev)
		ch.SetTiles(groups[coord])
		ch.Upload()
		l.chunks[coord] = ch
	}
	Logger().Debug("tilemap: layer built",
		"layer", data.Name, "chunks", len(l.chunks), "animated", len(l.animated))
	return l, nil
}

// chunkCoordFor maps a tile cell to its chunk coordinate. Chunk columns
// follow tile columns; chunk rows are inverted (maxChunkY − row) so chunk Y
// grows upward with world Y, for the same reason individual tile Y is
// inverted.
func (l *Layer) chunkCoordFor(tileX, tileY int) ChunkCoord {
	return ChunkCoord{
		X: tileX / l.chunkSize,
		Y: l.maxChunkY - tileY/l.chunkSize,
	}
}

// instanceFor builds the chunk-local instance for a grid cell: world X from
// the column, world Y from the Y-inverted row, both relative to the owning
// chunk's bounding-box origin.
func (l *Layer) instanceFor(tileX, tileY int, ref TileRef) TileInstance {
	coord := l.chunkCoordFor(tileX, tileY)
	worldX := float64(tileX) * l.tileW
	worldY := float64(l.data.Height-1-tileY) * l.tileH
	return TileInstance{
		X:     worldX - float64(coord.X*l.chunkSize)*l.tileW,
		Y:     worldY - float64(coord.Y*l.chunkSize)*l.tileH,
		GID:   GID(ref.ID),
		FlipH: ref.FlipH,
		FlipV: ref.FlipV,
		FlipD: ref.FlipD,
	}
}

// registerAnimated records an animated cell's route and ensures its base id
// has a shared timer. Cells whose base id is not animated, or whose frame
// table has no positive total duration, are left unregistered.
func (l *Layer) registerAnimated(idx int, base GID, coord ChunkCoord, slot int) {
	if l.tileset == nil || !l.tileset.IsAnimated(base) {
		return
	}
	if _, ok := l.timers[base]; !ok {
		frames := l.tileset.Animation(base)
		total := 0.0
		for _, f := range frames {
			total += f.DurationMs
		}
		if total <= 0 {
			Logger().Warn("tilemap: animation with no positive duration skipped",
				"layer", l.data.Name, "base", uint32(base))
			return
		}
		l.timers[base] = &animTimer{frames: frames}
	}
	l.animated[idx] = &animInstance{base: base, resolved: base, coord: coord, slot: slot}
}

// Update advances every animation timer by deltaMs milliseconds. A timer
// moves to its next frame, wrapping modulo the frame count, each time its
// accumulated elapsed time reaches the current frame's duration; distinct
// base ids advance independently. For every timer that advanced, all its
// registered instances are patched, grouped so each affected chunk receives
// one batched patch and one Upload per call.
func (l *Layer) Update(deltaMs float64) {
	if l.closed || len(l.timers) == 0 {
		return
	}
	advanced := make(map[GID]bool)
	for base, t := range l.timers {
		t.elapsed += deltaMs
		moved := false
		for t.elapsed >= t.frames[t.frame].DurationMs {
			t.elapsed -= t.frames[t.frame].DurationMs
			t.frame = (t.frame + 1) % len(t.frames)
			moved = true
		}
		if moved {
			advanced[base] = true
		}
	}
	if len(advanced) == 0 {
		return
	}

	patches := make(map[ChunkCoord]map[int]GID)
	for _, inst := range l.animated {
		if !advanced[inst.base] {
			continue
		}
		t := l.timers[inst.base]
		display := l.tileset.displayGID(t.frames[t.frame].TileID)
		inst.resolved = display
		p := patches[inst.coord]
		if p == nil {
			p = make(map[int]GID)
			patches[inst.coord] = p
		}
		p[inst.slot] = display
	}
	for coord, p := range patches {
		ch := l.chunks[coord]
		if ch == nil {
			continue
		}
		ch.UpdateAnimatedTiles(p)
		ch.Upload()
	}
}

// TileAt returns the raw GID at a tile coordinate (source Y-down
// convention, flip bits included). Out-of-range reads return 0.
func (l *Layer) TileAt(tileX, tileY int) GID {
	if tileX < 0 || tileY < 0 || tileX >= l.data.Width || tileY >= l.data.Height {
		return 0
	}
	return l.data.GIDs[tileY*l.data.Width+tileX]
}

// SetTileAt writes a raw GID at a tile coordinate and rebuilds the single
// chunk containing that tile. Out-of-range writes are silently ignored.
// Writing the same value twice is idempotent.
func (l *Layer) SetTileAt(tileX, tileY int, gid GID) {
	if l.closed || tileX < 0 || tileY < 0 || tileX >= l.data.Width || tileY >= l.data.Height {
		return
	}
	l.data.GIDs[tileY*l.data.Width+tileX] = gid
	l.rebuildChunk(tileX, tileY)
}

// rebuildChunk re-scans the tile range of the chunk containing (tileX,
// tileY), regenerates its instance list and animation routes, and then
// updates, creates, or prunes the chunk depending on whether it still has
// tiles. A full single-chunk rescan, not an O(1) patch: edits are rare next
// to per-frame animation ticks.
func (l *Layer) rebuildChunk(tileX, tileY int) {
	coord := l.chunkCoordFor(tileX, tileY)
	for idx, inst := range l.animated {
		if inst.coord == coord {
			delete(l.animated, idx)
		}
	}

	x0 := (tileX / l.chunkSize) * l.chunkSize
	y0 := (tileY / l.chunkSize) * l.chunkSize
	x1 := min(x0+l.chunkSize, l.data.Width)
	y1 := min(y0+l.chunkSize, l.data.Height)

	var tiles []TileInstance
	for ty := y0; ty < y1; ty++ {
		for tx := x0; tx < x1; tx++ {
			idx := ty*l.data.Width + tx
			ref := DecodeGID(l.data.GIDs[idx])
			if ref.ID == 0 {
				continue
			}
			slot := len(tiles)
			tiles = append(tiles, l.instanceFor(tx, ty, ref))
			l.registerAnimated(idx, GID(ref.ID), coord, slot)
		}
	}
	l.pruneTimers()

	ch := l.chunks[coord]
	switch {
	case len(tiles) == 0:
		if ch != nil {
			ch.Close()
			delete(l.chunks, coord)
			Logger().Debug("tilemap: chunk pruned", "layer", l.data.Name, "chunk", coord)
		}
	case ch == nil:
		ch = newChunk(coord, l.chunkSize, l.tileW, l.tileH, l.tileset, l.device)
		ch.SetTiles(tiles)
		ch.Upload()
		l.chunks[coord] = ch
		Logger().Debug("tilemap: chunk created", "layer", l.data.Name, "chunk", coord)
	default:
		ch.SetTiles(tiles)
		ch.Upload()
	}
}

// pruneTimers drops timers whose base id no longer has any registered
// instance, so edited-away animations stop ticking.
func (l *Layer) pruneTimers() {
	used := make(map[GID]bool, len(l.timers))
	for _, inst := range l.animated {
		used[inst.base] = true
	}
	for base := range l.timers {
		if !used[base] {
			delete(l.timers, base)
		}
	}
}

// ChunkCount returns the number of live (non-empty) chunks.
func (l *Layer) ChunkCount() int { return len(l.chunks) }

// TileCount returns the total instance count across all chunks, which
// equals the number of non-empty cells in the grid.
func (l *Layer) TileCount() int {
	n := 0
	for _, ch := range l.chunks {
		n += ch.count
	}
	return n
}

// ChunkAt returns the chunk at a chunk coordinate, or nil when that cell of
// the chunk grid is empty.
func (l *Layer) ChunkAt(coord ChunkCoord) *Chunk { return l.chunks[coord] }

// Chunks returns the live chunks ordered by coordinate (Y, then X), a
// stable order for drawing and tests.
func (l *Layer) Chunks() []*Chunk {
	coords := make([]ChunkCoord, 0, len(l.chunks))
	for coord := range l.chunks {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})
	out := make([]*Chunk, len(coords))
	for i, coord := range coords {
		out[i] = l.chunks[coord]
	}
	return out
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.data.Name }

// ID returns the layer's source document id.
func (l *Layer) ID() int { return l.data.ID }

// Size returns the layer dimensions in tiles.
func (l *Layer) Size() (w, h int) { return l.data.Width, l.data.Height }

// Visible reports whether the layer should be drawn.
func (l *Layer) Visible() bool { return l.data.Visible }

// Opacity returns the layer draw opacity.
func (l *Layer) Opacity() float64 { return l.data.Opacity }

// Offset returns the layer's pixel draw offset. The offset is paint
// metadata for the renderer; chunk geometry does not include it.
func (l *Layer) Offset() (x, y float64) { return l.data.OffsetX, l.data.OffsetY }

// Parallax returns the layer's parallax factors.
func (l *Layer) Parallax() (x, y float64) { return l.data.ParallaxX, l.data.ParallaxY }

// Tint returns the layer's tint color.
func (l *Layer) Tint() color.RGBA { return l.data.Tint }

// Properties returns the layer's custom properties, possibly nil.
func (l *Layer) Properties() map[string]any { return l.data.Properties }

// Tileset returns the tileset this layer resolves tiles against.
func (l *Layer) Tileset() *Tileset { return l.tileset }

// Close disposes every chunk and clears animation bookkeeping. Close is
// idempotent.
func (l *Layer) Close() {
	if l.closed {
		return
	}
	l.closed = true
	for _, ch := range l.chunks {
		ch.Close()
	}
	l.chunks = nil
	l.timers = nil
	l.animated = nil
}
