// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import (
	"errors"
	"reflect"
	"testing"
)

// grassData returns a fresh 8x8-tile atlas description: tile 5 carries a
// collision rect, tile 2 a three-frame animation. Fresh per call because
// tileset construction fills in derived fields.
func grassData() *TilesetData {
	return &TilesetData{
		Name:        "grass",
		FirstGID:    1,
		TileWidth:   16,
		TileHeight:  16,
		ImageWidth:  128,
		ImageHeight: 128,
		Columns:     8,
		TileCount:   64,
		Tiles: map[uint32]*TileDef{
			5: {
				Shapes: []CollisionShape{
					{Type: ShapeRect, X: 2, Y: 2, Width: 4, Height: 4},
				},
			},
			2: {
				Animation: []Frame{
					{TileID: 2, DurationMs: 100},
					{TileID: 3, DurationMs: 200},
					{TileID: 4, DurationMs: 50},
				},
			},
		},
	}
}

func propsData() *TilesetData {
	return &TilesetData{
		Name:        "props",
		FirstGID:    65,
		TileWidth:   16,
		TileHeight:  16,
		ImageWidth:  64,
		ImageHeight: 64,
		Columns:     4,
		TileCount:   16,
	}
}

func testMapData(w, h int, gids []GID) *MapData {
	return &MapData{
		Width:      w,
		Height:     h,
		TileWidth:  16,
		TileHeight: 16,
		Tilesets:   []*TilesetData{grassData()},
		Layers: []*TileLayerData{
			{Name: "ground", Width: w, Height: h, GIDs: gids, Visible: true, Opacity: 1},
		},
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		data *MapData
		want error
	}{
		{"nil data", nil, ErrNilMapData},
		{"no tilesets", &MapData{Width: 1, Height: 1, TileWidth: 16, TileHeight: 16}, ErrNoTilesets},
		{
			"nil tileset",
			&MapData{Width: 1, Height: 1, TileWidth: 16, TileHeight: 16,
				Tilesets: []*TilesetData{nil}},
			ErrNilTilesetData,
		},
		{
			"nil layer",
			&MapData{Width: 1, Height: 1, TileWidth: 16, TileHeight: 16,
				Tilesets: []*TilesetData{grassData()},
				Layers:   []*TileLayerData{nil}},
			ErrNilLayerData,
		},
		{
			"bad layer grid",
			&MapData{Width: 2, Height: 2, TileWidth: 16, TileHeight: 16,
				Tilesets: []*TilesetData{grassData()},
				Layers: []*TileLayerData{
					{Name: "short", Width: 2, Height: 2, GIDs: make([]GID, 3)},
				}},
			ErrBadLayerGrid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMapPartition(t *testing.T) {
	// 4x4 map, chunk size 2. Two tiles on the top row share the top-left
	// chunk; one bottom-row tile gets its own. Two chunks, three instances.
	m, err := New(testMapData(4, 4, []GID{
		1, 2, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		3, 0, 0, 0,
	}), WithChunkSize(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	if m.TotalChunkCount() != 2 {
		t.Errorf("TotalChunkCount() = %d, want 2", m.TotalChunkCount())
	}
	if m.TotalTileCount() != 3 {
		t.Errorf("TotalTileCount() = %d, want 3", m.TotalTileCount())
	}
	l := m.LayerAt(0)
	if ch := l.ChunkAt(ChunkCoord{X: 0, Y: 1}); ch == nil || ch.Count() != 2 {
		t.Errorf("top-left chunk = %v, want 2 instances", ch)
	}
	if ch := l.ChunkAt(ChunkCoord{X: 0, Y: 0}); ch == nil || ch.Count() != 1 {
		t.Errorf("bottom-left chunk = %v, want 1 instance", ch)
	}
}

func TestMapPartitionCorners(t *testing.T) {
	// Tiles in three different corners occupy three distinct chunks.
	m, err := New(testMapData(4, 4, []GID{
		1, 0, 0, 2,
		0, 0, 0, 0,
		0, 0, 0, 0,
		3, 0, 0, 0,
	}), WithChunkSize(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	if m.TotalChunkCount() != 3 {
		t.Errorf("TotalChunkCount() = %d, want 3", m.TotalChunkCount())
	}
	l := m.LayerAt(0)
	for _, coord := range []ChunkCoord{{0, 1}, {1, 1}, {0, 0}} {
		if ch := l.ChunkAt(coord); ch == nil || ch.Count() != 1 {
			t.Errorf("chunk %+v = %v, want 1 instance", coord, ch)
		}
	}
}

func TestMapCoordinateRoundTrip(t *testing.T) {
	m, err := New(testMapData(4, 4, make([]GID, 16)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	// The top source row has the highest world Y.
	if wx, wy := m.TileToWorld(2, 0); wx != 32 || wy != 48 {
		t.Errorf("TileToWorld(2,0) = (%v, %v), want (32, 48)", wx, wy)
	}
	if tx, ty := m.WorldToTile(0, 0); tx != 0 || ty != 3 {
		t.Errorf("WorldToTile(0,0) = (%d, %d), want (0, 3)", tx, ty)
	}
	// Interior points of a tile map to that tile.
	if tx, ty := m.WorldToTile(33, 50); tx != 2 || ty != 0 {
		t.Errorf("WorldToTile(33,50) = (%d, %d), want (2, 0)", tx, ty)
	}

	for ty := 0; ty < 4; ty++ {
		for tx := 0; tx < 4; tx++ {
			wx, wy := m.TileToWorld(tx, ty)
			gx, gy := m.WorldToTile(wx, wy)
			if gx != tx || gy != ty {
				t.Errorf("round trip (%d,%d) -> (%v,%v) -> (%d,%d)", tx, ty, wx, wy, gx, gy)
			}
		}
	}
}

func TestMapTilesetForGID(t *testing.T) {
	// overlay deliberately overlaps both other ranges; later tilesets win
	// ambiguous ids.
	overlay := &TilesetData{
		Name:        "overlay",
		FirstGID:    60,
		TileWidth:   16,
		TileHeight:  16,
		ImageWidth:  64,
		ImageHeight: 32,
		Columns:     4,
		TileCount:   8,
	}
	data := testMapData(2, 2, make([]GID, 4))
	data.Tilesets = []*TilesetData{grassData(), propsData(), overlay}
	m, err := New(data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	tests := []struct {
		name string
		gid  GID
		want string // tileset name, "" for nil
	}{
		{"empty", 0, ""},
		{"empty with flips", FlipHorizontal | FlipVertical, ""},
		{"grass range", 10, "grass"},
		{"last before overlay", 59, "grass"},
		{"ambiguous goes to later", 62, "overlay"},
		{"overlay end", 67, "overlay"},
		{"props after overlay", 68, "props"},
		{"props end", 80, "props"},
		{"beyond all ranges", 81, ""},
		{"flip bits ignored", 10 | FlipDiagonal, "grass"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := m.TilesetForGID(tt.gid)
			switch {
			case tt.want == "" && ts != nil:
				t.Errorf("TilesetForGID(%#x) = %q, want nil", tt.gid, ts.Name())
			case tt.want != "" && ts == nil:
				t.Errorf("TilesetForGID(%#x) = nil, want %q", tt.gid, tt.want)
			case tt.want != "" && ts.Name() != tt.want:
				t.Errorf("TilesetForGID(%#x) = %q, want %q", tt.gid, ts.Name(), tt.want)
			}
		})
	}
}

func TestMapLayerTilesetResolution(t *testing.T) {
	data := &MapData{
		Width: 2, Height: 2, TileWidth: 16, TileHeight: 16,
		Tilesets: []*TilesetData{grassData(), propsData()},
		Layers: []*TileLayerData{
			{Name: "deco", Width: 2, Height: 2, GIDs: []GID{0, 70, 0, 0}},
			{Name: "ghost", Width: 2, Height: 2, GIDs: []GID{500, 0, 0, 0}},
			{Name: "void", Width: 2, Height: 2, GIDs: make([]GID, 4)},
		},
	}
	m, err := New(data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	tests := []struct {
		layer string
		want  string
	}{
		{"deco", "props"},  // first non-empty gid owns it
		{"ghost", "grass"}, // unowned gid falls back to the first tileset
		{"void", "grass"},  // empty layer falls back too
	}
	for _, tt := range tests {
		t.Run(tt.layer, func(t *testing.T) {
			l := m.Layer(tt.layer)
			if l == nil {
				t.Fatalf("Layer(%q) = nil", tt.layer)
			}
			if got := l.Tileset().Name(); got != tt.want {
				t.Errorf("layer %q tileset = %q, want %q", tt.layer, got, tt.want)
			}
		})
	}
}

func TestMapCollisionFromTiles(t *testing.T) {
	// Tile 6 (grass local 5) carries a 4x4 rect at tile-local (2,2). Placed
	// at tile (2,0) its world position is (32,48), so the shape lands at
	// (34,50); at tile (0,3) the world position is the origin.
	gids := make([]GID, 16)
	gids[2] = 6  // (2,0)
	gids[12] = 6 // (0,3)
	m, err := New(testMapData(4, 4, gids))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	shapes := m.ExtractCollisionData()
	want := []CollisionShape{
		{Type: ShapeRect, X: 34, Y: 50, Width: 4, Height: 4},
		{Type: ShapeRect, X: 2, Y: 2, Width: 4, Height: 4},
	}
	if !reflect.DeepEqual(shapes, want) {
		t.Errorf("ExtractCollisionData() = %+v, want %+v", shapes, want)
	}
}

func TestMapCollisionFromObjects(t *testing.T) {
	data := testMapData(4, 4, make([]GID, 16)) // 64x64 world units
	data.ObjectLayers = []*ObjectLayerData{
		{
			Name: "Collision",
			Objects: []*ObjectData{
				{ID: 1, X: 16, Y: 32, Width: 16, Height: 16},
				{ID: 2, X: 0, Y: 0, Width: 32, Height: 16, Ellipse: true},
				{ID: 3, X: 8, Y: 8, Polygon: []Point{{0, 0}, {16, 0}, {8, 8}}},
				{ID: 4, X: 0, Y: 64, Polyline: []Point{{0, 0}, {64, 0}}},
				{ID: 5, X: 5, Y: 5, PointObject: true}, // never collidable
			},
		},
		{
			Name: "Decor", // not a collision source
			Objects: []*ObjectData{
				{ID: 6, X: 0, Y: 0, Width: 64, Height: 64},
			},
		},
	}
	m, err := New(data, WithCollision(true))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	want := []CollisionShape{
		{Type: ShapeRect, X: 16, Y: 16, Width: 16, Height: 16},
		{Type: ShapeEllipse, X: 0, Y: 48, Width: 32, Height: 16},
		{Type: ShapePolygon, X: 8, Y: 56, Points: []Point{{8, 56}, {24, 56}, {16, 48}}},
		{Type: ShapePolyline, X: 0, Y: 0, Points: []Point{{0, 0}, {64, 0}}},
	}
	got := m.CollisionShapes()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollisionShapes() = %+v, want %+v", got, want)
	}
	if len(m.ObjectLayers()) != 2 {
		t.Errorf("ObjectLayers() = %d layers, want 2", len(m.ObjectLayers()))
	}
}

func TestMapCollisionLayerNames(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Collision", true},
		{"collision", true},
		{"world collision boxes", true},
		{"Solid", true},
		{"solid-ground", true},
		{"Decor", false},
		{"objects", false},
	}
	for _, tt := range tests {
		if got := isCollisionLayerName(tt.name); got != tt.want {
			t.Errorf("isCollisionLayerName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMapCollisionRecomputed(t *testing.T) {
	gids := make([]GID, 16)
	gids[0] = 6
	m, err := New(testMapData(4, 4, gids))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	// Not extracted until asked.
	if got := m.CollisionShapes(); got != nil {
		t.Fatalf("CollisionShapes() before extraction = %v, want nil", got)
	}
	if n := len(m.ExtractCollisionData()); n != 1 {
		t.Fatalf("first extraction = %d shapes, want 1", n)
	}

	// Wholesale recompute: editing the grid changes the result, nothing
	// accumulates across calls.
	m.LayerAt(0).SetTileAt(1, 1, 6)
	if n := len(m.ExtractCollisionData()); n != 2 {
		t.Errorf("after edit = %d shapes, want 2", n)
	}
	if n := len(m.ExtractCollisionData()); n != 2 {
		t.Errorf("repeat extraction = %d shapes, want 2", n)
	}
}

func TestMapUpdatePropagates(t *testing.T) {
	data := testMapData(2, 2, []GID{3, 0, 0, 0})
	data.Layers = append(data.Layers, &TileLayerData{
		Name: "overlay", Width: 2, Height: 2, GIDs: []GID{0, 0, 0, 3},
	})
	m, err := New(data, WithChunkSize(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	m.Update(100) // both layers advance to frame 1 (local tile 3, gid 4)
	want := m.Tilesets()[0].UV(4)
	for i := 0; i < m.LayerCount(); i++ {
		l := m.LayerAt(i)
		ch := l.ChunkAt(ChunkCoord{X: 0, Y: 0})
		if got := ch.UVs()[0]; got != want {
			t.Errorf("layer %q uv = %v, want %v", l.Name(), got, want)
		}
	}
}

func TestMapEachChunk(t *testing.T) {
	data := testMapData(4, 4, []GID{
		1, 0, 0, 2,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
	})
	data.Layers = append(data.Layers, &TileLayerData{
		Name: "overlay", Width: 4, Height: 4,
		GIDs: append(make([]GID, 12), 5, 0, 0, 0),
	})
	m, err := New(data, WithChunkSize(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	type visit struct {
		layer string
		coord ChunkCoord
	}
	var visits []visit
	m.EachChunk(func(l *Layer, ch *Chunk) bool {
		visits = append(visits, visit{l.Name(), ch.Coord()})
		return true
	})
	want := []visit{
		{"ground", ChunkCoord{0, 1}},
		{"ground", ChunkCoord{1, 1}},
		{"overlay", ChunkCoord{0, 0}},
	}
	if !reflect.DeepEqual(visits, want) {
		t.Errorf("EachChunk order = %+v, want %+v", visits, want)
	}

	// Returning false stops the walk.
	n := 0
	m.EachChunk(func(*Layer, *Chunk) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("EachChunk early stop visited %d chunks, want 1", n)
	}
}

func TestMapAccessors(t *testing.T) {
	data := testMapData(4, 4, make([]GID, 16))
	data.Properties = map[string]any{"theme": "meadow"}
	m, err := New(data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer m.Close()

	if w, h := m.Size(); w != 4 || h != 4 {
		t.Errorf("Size() = (%d, %d), want (4, 4)", w, h)
	}
	if w, h := m.TileSize(); w != 16 || h != 16 {
		t.Errorf("TileSize() = (%d, %d), want (16, 16)", w, h)
	}
	if w, h := m.PixelSize(); w != 64 || h != 64 {
		t.Errorf("PixelSize() = (%v, %v), want (64, 64)", w, h)
	}
	if m.Properties()["theme"] != "meadow" {
		t.Errorf("Properties()[theme] = %v, want meadow", m.Properties()["theme"])
	}
	if m.LayerCount() != 1 {
		t.Errorf("LayerCount() = %d, want 1", m.LayerCount())
	}
	if m.Layer("ground") == nil {
		t.Error("Layer(ground) = nil")
	}
	if m.Layer("nope") != nil {
		t.Error("Layer(nope) != nil")
	}
	if m.LayerAt(-1) != nil || m.LayerAt(1) != nil {
		t.Error("LayerAt out of range != nil")
	}
	if m.Tileset("grass") == nil {
		t.Error("Tileset(grass) = nil")
	}
	if m.Tileset("nope") != nil {
		t.Error("Tileset(nope) != nil")
	}
}

func TestMapClose(t *testing.T) {
	dev := &fakeDevice{}
	tex := &fakeTexture{w: 128, h: 128}
	data := testMapData(2, 2, []GID{1, 0, 0, 0})
	data.Tilesets[0].Texture = tex
	m, err := New(data, WithDevice(dev), WithChunkSize(2))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(dev.batches) != 1 {
		t.Fatalf("created %d batches, want 1", len(dev.batches))
	}

	m.Close()
	m.Close() // idempotent
	if dev.batches[0].destroys != 1 {
		t.Errorf("batch destroys = %d, want 1", dev.batches[0].destroys)
	}
	if tex.destroys != 1 {
		t.Errorf("texture destroys = %d, want 1", tex.destroys)
	}

	m.Update(100) // closed map ignores ticks
	if dev.batches[0].uploads != 1 {
		t.Errorf("closed map uploaded again (uploads = %d)", dev.batches[0].uploads)
	}
}
