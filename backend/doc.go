// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a pluggable registry of render devices.
//
// The backend package lets a program pick how tile batches reach the screen
// without the core knowing: each device package registers a factory under a
// well-known name, and callers open one by name or take the best available.
//
// # Registration
//
// Devices are registered via init() functions and selected at runtime.
// Import the backends the build should carry:
//
//	import (
//		_ "github.com/gogpu/tilemap/backend/ebiten"
//		_ "github.com/gogpu/tilemap/backend/soft"
//	)
//
// # Selection
//
// Use Default to get the best available device, or Open to request a
// specific one by name:
//
//	dev, err := backend.Default(backend.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	m, err := tilemap.New(data, tilemap.WithDevice(dev))
//
// The gpu backend rides an existing gogpu device and needs a provider:
//
//	dev, err := backend.Open(backend.BackendGPU, backend.Options{
//		Provider: provider,
//	})
//
// # Available Backends
//
// - "soft": CPU compositing into an image (always available)
// - "gpu": instance buffers on a gogpu/wgpu device (needs a provider)
// - "ebiten": Ebitengine images and triangle batches
package backend
