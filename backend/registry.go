// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"sync"

	"github.com/gogpu/tilemap/render"
)

// registry holds registered device factories.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for device selection (first that opens wins).
	// GPU > Ebiten > Soft (Soft is the always-available fallback).
	priority = []string{BackendGPU, BackendEbiten, BackendSoft}
)

// Register registers a device factory with the given name.
// This is typically called from init() functions in backend packages.
// If a factory with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a factory from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns a list of registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open creates a device from the named backend.
func Open(name string, opts Options) (render.Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return factory(opts)
}

// Default opens the best available device based on priority, falling back
// to any registered backend when none of the preferred ones open.
func Default(opts Options) (render.Device, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		factory, ok := factories[name]
		if !ok {
			continue
		}
		if dev, err := factory(opts); err == nil {
			return dev, nil
		}
	}

	// Fallback: first registered backend that opens.
	for _, factory := range factories {
		if dev, err := factory(opts); err == nil {
			return dev, nil
		}
	}

	return nil, ErrBackendNotAvailable
}
