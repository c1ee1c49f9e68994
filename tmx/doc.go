// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tmx loads Tiled map documents into the tilemap data model.
//
// Both the XML format (.tmx) and the JSON format (.tmj) are supported. The
// loader produces a *tilemap.MapData ready for tilemap.New; it performs no
// rendering and creates no GPU resources itself. Atlas textures are created
// through an optional WithTextureLoader callback, so the caller decides how
// image files become render.Texture values.
//
// Unlike the core, which never fails past construction, the loader fails
// hard: a malformed document, an unsupported layer encoding or an external
// tileset reference returns an error rather than a partial map.
package tmx
