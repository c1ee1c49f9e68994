// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package soft

import "errors"

// Package errors for the soft backend.
var (
	// ErrInvalidDimensions is returned when a texture width or height is
	// not positive.
	ErrInvalidDimensions = errors.New("soft: invalid texture dimensions")

	// ErrBadPixelData is returned when pixel data length does not match
	// the texture dimensions.
	ErrBadPixelData = errors.New("soft: pixel data does not match dimensions")

	// ErrUnsupportedFormat is returned for texture formats other than
	// RGBA8.
	ErrUnsupportedFormat = errors.New("soft: unsupported texture format")

	// ErrForeignTexture is returned when a batch descriptor carries a
	// texture created by a different backend.
	ErrForeignTexture = errors.New("soft: texture was not created by this backend")

	// ErrCapacityExceeded is returned when an upload carries more
	// instances than the batch capacity.
	ErrCapacityExceeded = errors.New("soft: upload exceeds batch capacity")
)
