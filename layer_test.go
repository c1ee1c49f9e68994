// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import (
	"errors"
	"testing"

	"github.com/gogpu/tilemap/render"
)

func testLayer(t *testing.T, w, h int, gids []GID, dev *fakeDevice) (*Layer, *Tileset) {
	t.Helper()
	ts := grassTileset(t)
	data := &TileLayerData{Name: "ground", Width: w, Height: h, GIDs: gids}
	var rd render.Device
	if dev != nil {
		rd = dev
	}
	l, err := newLayer(data, ts, 2, 16, 16, rd)
	if err != nil {
		t.Fatalf("newLayer() error = %v", err)
	}
	return l, ts
}

func TestLayerConstructionErrors(t *testing.T) {
	ts := grassTileset(t)
	if _, err := newLayer(nil, ts, 2, 16, 16, nil); !errors.Is(err, ErrNilLayerData) {
		t.Errorf("newLayer(nil) error = %v, want ErrNilLayerData", err)
	}
	bad := &TileLayerData{Name: "bad", Width: 4, Height: 4, GIDs: make([]GID, 15)}
	if _, err := newLayer(bad, ts, 2, 16, 16, nil); !errors.Is(err, ErrBadLayerGrid) {
		t.Errorf("newLayer(short grid) error = %v, want ErrBadLayerGrid", err)
	}
}

func TestLayerPartition(t *testing.T) {
	// 4x4 grid, chunk size 2: tiles in the top-left, top-right and
	// bottom-left corners land in three distinct chunks.
	gids := make([]GID, 16)
	gids[0] = 1  // (0,0) top-left row
	gids[3] = 2  // (3,0)
	gids[12] = 9 // (0,3) bottom row
	l, _ := testLayer(t, 4, 4, gids, nil)

	if l.ChunkCount() != 3 {
		t.Fatalf("ChunkCount() = %d, want 3", l.ChunkCount())
	}
	if l.TileCount() != 3 {
		t.Fatalf("TileCount() = %d, want 3", l.TileCount())
	}

	// Row 0 is the top of the grid, so its tiles go to chunk Y 1; row 3 is
	// the bottom, chunk Y 0.
	tests := []struct {
		name  string
		coord ChunkCoord
	}{
		{"top-left", ChunkCoord{X: 0, Y: 1}},
		{"top-right", ChunkCoord{X: 1, Y: 1}},
		{"bottom-left", ChunkCoord{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := l.ChunkAt(tt.coord)
			if ch == nil {
				t.Fatalf("ChunkAt(%+v) = nil, want chunk", tt.coord)
			}
			if ch.Count() != 1 {
				t.Errorf("chunk %+v Count() = %d, want 1", tt.coord, ch.Count())
			}
		})
	}
	if ch := l.ChunkAt(ChunkCoord{X: 1, Y: 0}); ch != nil {
		t.Errorf("ChunkAt(empty coord) = %v, want nil", ch)
	}
}

func TestLayerYInversion(t *testing.T) {
	// The top source row renders at the highest world Y.
	gids := make([]GID, 16)
	gids[0] = 1  // (0,0): world Y (4-1-0)*16 = 48
	gids[12] = 2 // (0,3): world Y 0
	l, _ := testLayer(t, 4, 4, gids, nil)

	top := l.ChunkAt(ChunkCoord{X: 0, Y: 1})
	// Chunk {0,1} starts at world Y 32, so the tile sits 16 above it; the
	// transform holds the tile center.
	if got := top.Transforms()[0]; got.C != 8 || got.F != 24 {
		t.Errorf("top tile center = (%v, %v), want (8, 24)", got.C, got.F)
	}
	bottom := l.ChunkAt(ChunkCoord{X: 0, Y: 0})
	if got := bottom.Transforms()[0]; got.C != 8 || got.F != 8 {
		t.Errorf("bottom tile center = (%v, %v), want (8, 8)", got.C, got.F)
	}
}

func TestLayerPartialChunkWorldPlacement(t *testing.T) {
	// A height that is not a multiple of the chunk size leaves the chunk
	// grid misaligned with the tile grid. Bounding boxes stay grid-aligned
	// for culling, but render positions must stay world-correct: chunk
	// origin plus instance offset equals the tile's world position.
	gids := []GID{1, 2, 5, 9, 1} // 1x5 column, all rows filled
	l, _ := testLayer(t, 1, 5, gids, nil)

	for ty := 0; ty < 5; ty++ {
		wantY := float64(5-1-ty) * 16
		coord := l.chunkCoordFor(0, ty)
		ch := l.ChunkAt(coord)
		if ch == nil {
			t.Fatalf("row %d: no chunk at %+v", ty, coord)
		}
		slot := ty % 2 // rows pair up inside each chunk, top row first
		tr := ch.Transforms()[slot]
		gotY := ch.Bounds().MinY + float64(tr.F) - 8
		if gotY != wantY {
			t.Errorf("row %d: world Y = %v, want %v", ty, gotY, wantY)
		}
	}
}

func TestLayerAnimationSequence(t *testing.T) {
	// Base GID 3 animates through frames of 100ms, 200ms and 50ms showing
	// local tiles 2, 3 and 4. Four 100ms ticks must land on frames
	// 1, 1, 2, 0.
	dev := &fakeDevice{}
	l, ts := testLayer(t, 2, 2, []GID{3, 0, 0, 0}, dev)
	ch := l.ChunkAt(ChunkCoord{X: 0, Y: 0})
	b := dev.batches[0]
	if b.uploads != 1 {
		t.Fatalf("uploads after construction = %d, want 1", b.uploads)
	}

	steps := []struct {
		wantGID     GID
		wantUploads int
	}{
		{4, 2}, // 100ms: frame 0 exhausted, advance to frame 1
		{4, 2}, // 200ms: 100 of 200ms elapsed, no advance, no upload
		{5, 3}, // 300ms: frame 1 exhausted, advance to frame 2
		{3, 4}, // 400ms: frame 2 (50ms) exhausted, wrap to frame 0
	}
	for i, step := range steps {
		l.Update(100)
		if got, want := ch.UVs()[0], ts.UV(step.wantGID); got != want {
			t.Errorf("tick %d: uv = %v, want %v (gid %d)", i+1, got, want, step.wantGID)
		}
		if b.uploads != step.wantUploads {
			t.Errorf("tick %d: uploads = %d, want %d", i+1, b.uploads, step.wantUploads)
		}
	}
}

func TestLayerAnimationSharedTimer(t *testing.T) {
	// Two cells with the same animated base share one timer and advance in
	// lockstep within one batched patch.
	dev := &fakeDevice{}
	l, ts := testLayer(t, 2, 2, []GID{3, 3, 0, 0}, dev)
	if len(l.timers) != 1 {
		t.Fatalf("timers = %d, want 1 shared timer", len(l.timers))
	}
	ch := l.ChunkAt(ChunkCoord{X: 0, Y: 0})
	b := dev.batches[0]

	l.Update(100)
	want := ts.UV(4)
	for slot := 0; slot < 2; slot++ {
		if got := ch.UVs()[slot]; got != want {
			t.Errorf("slot %d uv = %v, want %v", slot, got, want)
		}
	}
	if b.uploads != 2 {
		t.Errorf("uploads = %d, want 2 (construction + one batched patch)", b.uploads)
	}
}

func TestLayerAnimationPreservesFlip(t *testing.T) {
	flipped := GID(3) | FlipHorizontal
	l, ts := testLayer(t, 2, 2, []GID{flipped, 0, 0, 0}, nil)
	ch := l.ChunkAt(ChunkCoord{X: 0, Y: 0})

	l.Update(100)
	base := ts.UV(4)
	uv := ch.UVs()[0]
	if uv.X != base.X+base.Width || uv.Width != -base.Width {
		t.Errorf("flipped animated uv = %v, want mirror of %v", uv, base)
	}
}

func TestLayerZeroDurationAnimationSkipped(t *testing.T) {
	ts, err := newTileset(&TilesetData{
		Name: "frozen", FirstGID: 1,
		TileWidth: 16, TileHeight: 16,
		ImageWidth: 64, ImageHeight: 64,
		Columns: 4, TileCount: 16,
		Tiles: map[uint32]*TileDef{
			0: {Animation: []Frame{{TileID: 0, DurationMs: 0}, {TileID: 1, DurationMs: 0}}},
		},
	})
	if err != nil {
		t.Fatalf("newTileset() error = %v", err)
	}
	data := &TileLayerData{Name: "ice", Width: 1, Height: 1, GIDs: []GID{1}}
	l, err := newLayer(data, ts, 2, 16, 16, nil)
	if err != nil {
		t.Fatalf("newLayer() error = %v", err)
	}
	if len(l.timers) != 0 {
		t.Fatalf("timers = %d, want 0 for zero-duration animation", len(l.timers))
	}
	l.Update(1000) // must not spin or panic
	ch := l.ChunkAt(ChunkCoord{X: 0, Y: 0})
	if got, want := ch.UVs()[0], ts.UV(1); got != want {
		t.Errorf("uv = %v, want base %v", got, want)
	}
}

func TestLayerTileAt(t *testing.T) {
	flipped := GID(2) | FlipVertical
	l, _ := testLayer(t, 4, 4, []GID{
		1, flipped, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	}, nil)

	if got := l.TileAt(1, 0); got != flipped {
		t.Errorf("TileAt(1,0) = %#x, want raw gid %#x with flip bits", got, flipped)
	}
	oob := []struct{ x, y int }{{-1, 0}, {0, -1}, {4, 0}, {0, 4}}
	for _, p := range oob {
		if got := l.TileAt(p.x, p.y); got != 0 {
			t.Errorf("TileAt(%d,%d) = %d, want 0 for out of range", p.x, p.y, got)
		}
	}
}

func TestLayerSetTileAt(t *testing.T) {
	dev := &fakeDevice{}
	gids := make([]GID, 16)
	gids[0] = 1
	l, _ := testLayer(t, 4, 4, gids, dev)
	if l.ChunkCount() != 1 {
		t.Fatalf("ChunkCount() = %d, want 1", l.ChunkCount())
	}

	t.Run("update existing chunk", func(t *testing.T) {
		l.SetTileAt(1, 0, 5)
		ch := l.ChunkAt(ChunkCoord{X: 0, Y: 1})
		if ch.Count() != 2 {
			t.Errorf("chunk count = %d, want 2", ch.Count())
		}
		if got := l.TileAt(1, 0); got != 5 {
			t.Errorf("TileAt(1,0) = %d, want 5", got)
		}
	})

	t.Run("create chunk", func(t *testing.T) {
		l.SetTileAt(3, 3, 2)
		if l.ChunkCount() != 2 {
			t.Errorf("ChunkCount() = %d, want 2", l.ChunkCount())
		}
		ch := l.ChunkAt(ChunkCoord{X: 1, Y: 0})
		if ch == nil || ch.Count() != 1 {
			t.Errorf("new chunk at {1,0} = %v", ch)
		}
	})

	t.Run("prune chunk", func(t *testing.T) {
		batches := len(dev.batches)
		pruned := dev.batches[batches-1] // chunk {1,0} created last
		l.SetTileAt(3, 3, 0)
		if l.ChunkCount() != 1 {
			t.Errorf("ChunkCount() = %d, want 1 after clearing", l.ChunkCount())
		}
		if pruned.destroys != 1 {
			t.Errorf("pruned chunk batch destroys = %d, want 1", pruned.destroys)
		}
	})

	t.Run("out of range ignored", func(t *testing.T) {
		before := l.TileCount()
		l.SetTileAt(-1, 0, 9)
		l.SetTileAt(0, 4, 9)
		if l.TileCount() != before {
			t.Errorf("TileCount() changed by out-of-range write")
		}
	})

	t.Run("same write twice is idempotent", func(t *testing.T) {
		l.SetTileAt(1, 1, 7)
		wantTile := l.TileAt(1, 1)
		wantCount := l.ChunkAt(ChunkCoord{X: 0, Y: 1}).Count()
		l.SetTileAt(1, 1, 7)
		if got := l.TileAt(1, 1); got != wantTile {
			t.Errorf("TileAt(1,1) after repeat write = %d, want %d", got, wantTile)
		}
		if got := l.ChunkAt(ChunkCoord{X: 0, Y: 1}).Count(); got != wantCount {
			t.Errorf("chunk count after repeat write = %d, want %d", got, wantCount)
		}
	})

	t.Run("flip bits survive round trip", func(t *testing.T) {
		raw := GID(2) | FlipHorizontal | FlipDiagonal
		l.SetTileAt(2, 2, raw)
		if got := l.TileAt(2, 2); got != raw {
			t.Errorf("TileAt(2,2) = %#x, want %#x", got, raw)
		}
	})
}

func TestLayerSetTileAtAnimationBookkeeping(t *testing.T) {
	l, _ := testLayer(t, 2, 2, make([]GID, 4), nil)
	if len(l.timers) != 0 {
		t.Fatalf("timers = %d on empty layer, want 0", len(l.timers))
	}

	// Writing an animated tile creates its timer; clearing the last
	// instance prunes it.
	l.SetTileAt(0, 0, 3)
	if len(l.timers) != 1 || len(l.animated) != 1 {
		t.Fatalf("after write: timers = %d animated = %d, want 1 and 1",
			len(l.timers), len(l.animated))
	}
	l.SetTileAt(0, 0, 0)
	if len(l.timers) != 0 || len(l.animated) != 0 {
		t.Errorf("after clear: timers = %d animated = %d, want 0 and 0",
			len(l.timers), len(l.animated))
	}
}

func TestLayerChunksOrdered(t *testing.T) {
	gids := make([]GID, 16)
	gids[0] = 1  // chunk {0,1}
	gids[3] = 1  // chunk {1,1}
	gids[12] = 1 // chunk {0,0}
	gids[15] = 1 // chunk {1,0}
	l, _ := testLayer(t, 4, 4, gids, nil)

	want := []ChunkCoord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	chunks := l.Chunks()
	if len(chunks) != len(want) {
		t.Fatalf("Chunks() returned %d, want %d", len(chunks), len(want))
	}
	for i, ch := range chunks {
		if ch.Coord() != want[i] {
			t.Errorf("Chunks()[%d].Coord() = %+v, want %+v", i, ch.Coord(), want[i])
		}
	}
}

func TestLayerClose(t *testing.T) {
	dev := &fakeDevice{}
	gids := make([]GID, 4)
	gids[0] = 3
	l, _ := testLayer(t, 2, 2, gids, dev)
	b := dev.batches[0]

	l.Close()
	l.Close() // idempotent
	if b.destroys != 1 {
		t.Errorf("batch destroys = %d, want 1", b.destroys)
	}
	if l.ChunkCount() != 0 {
		t.Errorf("ChunkCount() after Close = %d, want 0", l.ChunkCount())
	}

	// A closed layer ignores further mutation.
	l.Update(100)
	l.SetTileAt(0, 0, 1)
	if b.uploads != 1 {
		t.Errorf("closed layer uploaded again (uploads = %d)", b.uploads)
	}
}
