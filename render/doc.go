// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the batch-renderer contract between the tile map
// core and its rendering backends.
//
// The core produces, per chunk, an instance count and two parallel buffers:
// a per-instance transform (Affine) and a per-instance atlas UV rectangle
// (Rect). A backend implements Device to own the GPU-side mirror of that
// data (Batch) and the shared atlas texture (Texture). The core calls
// Batch.Upload when a chunk's data changed; everything above that, pipelines
// and draw submission, belongs to the backend and the host application.
//
// # Instance conventions
//
// An instance transform places a unit quad, corners (±0.5, ±0.5), at the
// tile's chunk-local center, scaled to the tile dimensions. Horizontal and
// vertical flips negate the corresponding scale axis and mirror the UV
// rectangle (negative Rect.Width or Rect.Height). Since a mirrored
// axis-aligned quad is pixel-identical to the unmirrored one, conforming
// backends take flip orientation from the UV rectangle alone and may treat
// the transformed quad as its bounding box. World space is Y-up; a backend's
// view transform converts to its own target convention.
package render
