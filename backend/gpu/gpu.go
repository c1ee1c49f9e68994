// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu is a render device backed by the gogpu/wgpu HAL. Atlas
// textures become sampled GPU textures and batches become per-instance
// vertex buffers, one for transforms and one for UV rectangles, that a host
// render pipeline binds and draws.
//
// The package never creates its own GPU device. The host passes a
// gpucontext.DeviceProvider whose concrete type also exposes the raw HAL
// handles through HalDevice/HalQueue methods, as gogpu application contexts
// do. Import it blank to make it available through the backend registry:
//
//	import _ "github.com/gogpu/tilemap/backend/gpu"
//
//	dev, err := backend.Open(backend.BackendGPU, backend.Options{Provider: app})
//
// or wrap HAL handles directly:
//
//	dev := gpu.NewDeviceFromHAL(halDevice, halQueue)
package gpu

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tilemap/backend"
	"github.com/gogpu/tilemap/render"
)

// init registers the gpu device on package import.
func init() {
	backend.Register(backend.BackendGPU, func(opts backend.Options) (render.Device, error) {
		return NewDevice(opts.Provider)
	})
}

// halProvider is the extended provider surface the backend needs. Concrete
// gogpu providers expose the raw HAL handles through these methods; the
// any returns keep gpucontext free of a HAL dependency.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Device creates HAL textures and instance buffers on the host's GPU
// device. It implements render.Device.
type Device struct {
	device hal.Device
	queue  hal.Queue
}

// NewDevice extracts the HAL device and queue from the host's provider.
// It returns ErrNoProvider when provider is nil and ErrBadProvider when the
// provider's concrete type does not expose usable HAL handles.
func NewDevice(provider render.DeviceHandle) (*Device, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrBadProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrBadProvider
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrBadProvider
	}
	return &Device{device: device, queue: queue}, nil
}

// NewDeviceFromHAL wraps existing HAL handles directly, bypassing provider
// extraction. The caller keeps ownership of the device and queue.
func NewDeviceFromHAL(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue}
}
