// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

import "github.com/gogpu/tilemap/render"

// DefaultChunkSize is the chunk side length, in tiles, used when no
// WithChunkSize option is given.
const DefaultChunkSize = 16

// Option configures a Map during creation.
// Use functional options to customize Map behavior.
//
// Example:
//
//	// Headless, default chunking
//	m, err := tilemap.New(data)
//
//	// GPU-backed batches (dependency injection)
//	m, err := tilemap.New(data, tilemap.WithDevice(dev), tilemap.WithChunkSize(32))
type Option func(*mapOptions)

// mapOptions holds optional configuration for Map creation.
type mapOptions struct {
	device    render.Device
	chunkSize int
	collision bool
}

// defaultOptions returns the default map options.
func defaultOptions() mapOptions {
	return mapOptions{
		device:    nil, // headless: chunks keep CPU-side buffers only
		chunkSize: DefaultChunkSize,
	}
}

// WithDevice sets the render device chunks create their batches on.
// Use this for dependency injection of a backend (backend/soft, backend/gpu,
// backend/ebiten, or any other render.Device). A nil device keeps the map
// headless.
func WithDevice(dev render.Device) Option {
	return func(o *mapOptions) {
		o.device = dev
	}
}

// WithChunkSize sets the chunk side length in tiles. Values below 1 are
// ignored and leave the default in place.
func WithChunkSize(size int) Option {
	return func(o *mapOptions) {
		if size >= 1 {
			o.chunkSize = size
		}
	}
}

// WithCollision controls whether collision shapes are extracted during Map
// construction. Extraction can also be run at any time by calling
// Map.ExtractCollisionData.
func WithCollision(enabled bool) Option {
	return func(o *mapOptions) {
		o.collision = enabled
	}
}
