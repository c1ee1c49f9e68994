// Package tilemap renders large tile-based 2D maps by partitioning each
// layer into fixed-size spatial chunks, each drawn as one GPU-instanced
// batch.
//
// # Overview
//
// tilemap is a Pure Go tile map core for the GoGPU ecosystem. It covers the
// data-and-rendering pipeline between a loaded map document and a batch
// renderer: GID encoding (packed id + flip bits, Tiled-compatible), tileset
// UV resolution and animation tables, chunk instance-buffer management,
// per-layer partitioning with incremental rebuild on tile edits, shared
// animation timers, and collision geometry extraction from tiles and object
// layers.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/tilemap"
//	    "github.com/gogpu/tilemap/tmx"
//	)
//
//	// Load a Tiled document into the data model
//	data, err := tmx.LoadFile("level1.tmx")
//
//	// Build the map (headless here; pass WithDevice for GPU batches)
//	m, err := tilemap.New(data, tilemap.WithCollision(true))
//	defer m.Close()
//
//	// Per frame: tick animations, then draw every chunk's batch
//	m.Update(deltaMs)
//	m.EachChunk(func(l *tilemap.Layer, c *tilemap.Chunk) bool {
//	    // cull against c.Bounds(), draw c.Batch()
//	    return true
//	})
//
// # Architecture
//
// The library is organized into:
//   - Public API: Map, Layer, Chunk, Tileset, GID/TileRef, CollisionShape
//   - render: the batch-renderer contract (Device, Batch, Texture, Affine)
//   - Backends: backend/soft (CPU), backend/gpu (gogpu/wgpu HAL),
//     backend/ebiten (Ebitengine)
//   - tmx: Tiled TMX/JSON loader producing the data model
//
// # Coordinate System
//
// Source documents are row-major, top-left origin, Y-down. World space is
// Y-up: a tile at row ty sits at worldY = (layerHeight-1-ty) * tileHeight,
// and chunk rows are inverted the same way. TileAt/SetTileAt speak the
// source convention; Chunk bounds, collision shapes and WorldToTile speak
// world space.
//
// # Concurrency
//
// The core is single-threaded and synchronous: no internal locking, no
// background goroutines. Tile edits, animation ticks and chunk rebuilds all
// happen on the render-loop thread between frames.
package tilemap

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
