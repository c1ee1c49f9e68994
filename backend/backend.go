// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"

	"github.com/gogpu/tilemap/render"
)

// Device name constants.
const (
	// BackendSoft is the name of the CPU compositing device.
	BackendSoft = "soft"
	// BackendGPU is the name of the gogpu/wgpu buffer device.
	BackendGPU = "gpu"
	// BackendEbiten is the name of the Ebitengine device.
	BackendEbiten = "ebiten"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered, or when no registered backend can be opened.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Options carries what a device factory may need. The zero value is valid
// for self-contained devices.
type Options struct {
	// Provider hands an existing gogpu device/queue pair to backends that
	// ride one. Required by the gpu backend, ignored by the others.
	Provider render.DeviceHandle
}

// Factory creates a ready-to-use device. Factories must not panic when an
// option they need is missing; they return an error and let selection move
// on to the next backend.
type Factory func(Options) (render.Device, error)
