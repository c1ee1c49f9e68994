// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import (
	"fmt"

	"github.com/gogpu/tilemap/render"
)

// ChunkCoord identifies a chunk's position in chunk-grid space (not tile
// space, not world space). Chunk Y grows upward, matching world Y.
type ChunkCoord struct {
	X, Y int
}

// TileInstance is the ephemeral description of one tile while a chunk is
// built or rebuilt: its chunk-local Y-up position, the resolved packed id
// (flip bits already stripped), and the three flip flags.
type TileInstance struct {
	// X and Y are the tile's minimum corner relative to the chunk's
	// bounding-box origin, in world units.
	X, Y float64

	// GID is the packed id to display.
	GID GID

	FlipH bool
	FlipV bool
	FlipD bool
}

// Chunk is a fixed-size square batch of tile instances: the unit of GPU
// upload and of culling. It owns two parallel per-instance buffers, one
// transform and one UV rectangle per instance, plus a world-space bounding
// box fixed at construction.
//
// Chunks follow a two-phase mutation model: SetTiles and UpdateAnimatedTiles
// mark the chunk dirty, and Upload pushes the buffers to the GPU batch once
// per frame no matter how many edits accumulated. A chunk owns its batch
// exclusively and holds a non-owning reference to the tileset's atlas.
//
// Thread safety: none. Chunks are mutated and drawn from the single render
// loop thread, like the rest of the core.
type Chunk struct {
	coord    ChunkCoord
	size     int
	tileW    float64
	tileH    float64
	capacity int
	count    int
	bounds   Bounds

	transforms []render.Affine
	uvs        []render.Rect

	tileset *Tileset
	batch   render.Batch

	dirty  bool
	closed bool
}

// newChunk allocates a chunk at the given chunk coordinate with capacity
// size². The bounding box is fixed from coord, size and tile dimensions.
// When a device is present the chunk creates its GPU batch immediately; a
// batch creation failure degrades the chunk to CPU-only with a warning.
func newChunk(coord ChunkCoord, size int, tileW, tileH float64, ts *Tileset, dev render.Device) *Chunk {
	capacity := size * size
	c := &Chunk{
		coord:    coord,
		size:     size,
		tileW:    tileW,
		tileH:    tileH,
		capacity: capacity,
		bounds: Bounds{
			MinX: float64(coord.X*size) * tileW,
			MinY: float64(coord.Y*size) * tileH,
			MaxX: float64((coord.X+1)*size) * tileW,
			MaxY: float64((coord.Y+1)*size) * tileH,
		},
		transforms: make([]render.Affine, capacity),
		uvs:        make([]render.Rect, capacity),
		tileset:    ts,
	}
	if dev != nil {
		var tex render.Texture
		if ts != nil {
			tex = ts.Texture()
		}
		batch, err := dev.CreateBatch(render.BatchDescriptor{
			Label:    fmt.Sprintf("tilemap chunk %d,%d", coord.X, coord.Y),
			Capacity: capacity,
			Texture:  tex,
			OriginX:  float32(c.bounds.MinX),
			OriginY:  float32(c.bounds.MinY),
		})
		if err != nil {
			Logger().Warn("tilemap: chunk batch creation failed",
				"chunk", coord, "err", err)
		} else {
			c.batch = batch
		}
	}
	return c
}

// SetTiles replaces the chunk's entire instance list. The instance count
// becomes min(len(tiles), capacity): excess tiles are silently dropped,
// since chunk capacity is a partitioning invariant the caller respects.
// Marks the chunk dirty; call Upload to sync.
func (c *Chunk) SetTiles(tiles []TileInstance) {
	if c.closed {
		return
	}
	n := len(tiles)
	if n > c.capacity {
		n = c.capacity
	}
	for i := 0; i < n; i++ {
		c.transforms[i] = c.instanceTransform(tiles[i])
		c.uvs[i] = c.instanceUV(tiles[i])
	}
	c.count = n
	c.dirty = true
}

// instanceTransform places a unit quad at the tile's chunk-local center,
// scaled to tile dimensions. Horizontal and vertical flips negate the
// matching scale axis; diagonal flip is not represented in the transform.
func (c *Chunk) instanceTransform(t TileInstance) render.Affine {
	sx := float32(c.tileW)
	if t.FlipH {
		sx = -sx
	}
	sy := float32(c.tileH)
	if t.FlipV {
		sy = -sy
	}
	return render.Affine{
		A: sx, C: float32(t.X + c.tileW/2),
		E: sy, F: float32(t.Y + c.tileH/2),
	}
}

// instanceUV resolves the tile's atlas rectangle and mirrors it on each
// flipped axis by shifting the offset and negating the extent, so sampling
// reads the same texels in reverse.
func (c *Chunk) instanceUV(t TileInstance) render.Rect {
	uv := c.tileset.UV(t.GID)
	if t.FlipH {
		uv.X += uv.Width
		uv.Width = -uv.Width
	}
	if t.FlipV {
		uv.Y += uv.Height
		uv.Height = -uv.Height
	}
	return uv
}

// UpdateAnimatedTiles overwrites the UV rectangle of each patched instance
// slot with the rectangle of its new displayed id, leaving transforms
// untouched. Mirroring is preserved: a slot showing a flipped tile keeps the
// flip across frame substitutions. Slots outside the current instance count
// are ignored. Marks the chunk dirty if any patch applied.
func (c *Chunk) UpdateAnimatedTiles(patches map[int]GID) {
	if c.closed || len(patches) == 0 {
		return
	}
	applied := false
	for slot, gid := range patches {
		if slot < 0 || slot >= c.count {
			continue
		}
		uv := c.tileset.UV(gid)
		if c.uvs[slot].Width < 0 {
			uv.X += uv.Width
			uv.Width = -uv.Width
		}
		if c.uvs[slot].Height < 0 {
			uv.Y += uv.Height
			uv.Height = -uv.Height
		}
		c.uvs[slot] = uv
		applied = true
	}
	if applied {
		c.dirty = true
	}
}

// Upload syncs the instance count and both buffers to the GPU batch. It is
// a no-op unless the chunk is dirty, so many logical edits within one frame
// coalesce into a single sync. On upload failure the chunk stays dirty and
// retries on the next call.
func (c *Chunk) Upload() {
	if c.closed || !c.dirty {
		return
	}
	if c.batch != nil {
		err := c.batch.Upload(c.count, c.transforms[:c.count], c.uvs[:c.count])
		if err != nil {
			Logger().Warn("tilemap: chunk upload failed",
				"chunk", c.coord, "err", err)
			return
		}
	}
	c.dirty = false
}

// ContainsWorldPosition reports whether a world-space point falls inside the
// chunk's bounding box. The box is half-open: the minimum edges are inside,
// the maximum edges are not.
func (c *Chunk) ContainsWorldPosition(x, y float64) bool {
	return c.bounds.Contains(x, y)
}

// Coord returns the chunk's position in chunk-grid space.
func (c *Chunk) Coord() ChunkCoord { return c.coord }

// Bounds returns the chunk's fixed world-space bounding box.
func (c *Chunk) Bounds() Bounds { return c.bounds }

// Count returns the current instance count.
func (c *Chunk) Count() int { return c.count }

// Capacity returns the maximum instance count (size²).
func (c *Chunk) Capacity() int { return c.capacity }

// Transforms returns a read-only view of the live per-instance transforms.
// The slice is valid until the next mutation.
func (c *Chunk) Transforms() []render.Affine { return c.transforms[:c.count] }

// UVs returns a read-only view of the live per-instance UV rectangles.
// The slice is valid until the next mutation.
func (c *Chunk) UVs() []render.Rect { return c.uvs[:c.count] }

// Batch returns the chunk's GPU batch, or nil when running headless.
func (c *Chunk) Batch() render.Batch { return c.batch }

// Close releases the chunk's GPU batch. Close is idempotent; a closed chunk
// ignores all further mutation.
func (c *Chunk) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.batch != nil {
		c.batch.Destroy()
		c.batch = nil
	}
	c.count = 0
}
