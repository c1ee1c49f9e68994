// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// Package errors for the gpu backend.
var (
	// ErrNoProvider is returned when the backend is opened without a
	// device provider.
	ErrNoProvider = errors.New("gpu: no device provider")

	// ErrBadProvider is returned when the provider's concrete type does
	// not expose a usable HAL device and queue.
	ErrBadProvider = errors.New("gpu: provider does not expose a HAL device")

	// ErrInvalidDimensions is returned when a texture width or height is
	// not positive.
	ErrInvalidDimensions = errors.New("gpu: invalid texture dimensions")

	// ErrBadPixelData is returned when pixel data length does not match
	// the texture dimensions.
	ErrBadPixelData = errors.New("gpu: pixel data does not match dimensions")

	// ErrUnsupportedFormat is returned for texture formats other than
	// RGBA8.
	ErrUnsupportedFormat = errors.New("gpu: unsupported texture format")

	// ErrForeignTexture is returned when a batch descriptor carries a
	// texture created by a different backend.
	ErrForeignTexture = errors.New("gpu: texture was not created by this backend")

	// ErrCapacityExceeded is returned when an upload carries more
	// instances than the batch capacity.
	ErrCapacityExceeded = errors.New("gpu: upload exceeds batch capacity")
)
