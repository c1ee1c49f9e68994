// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tmx

import "errors"

// Package errors. Malformed documents fail loading; nothing is skipped
// silently.
var (
	// ErrUnsupportedEncoding is returned for layer data encodings other
	// than csv and base64.
	ErrUnsupportedEncoding = errors.New("tmx: unsupported encoding scheme")

	// ErrUnsupportedCompression is returned for compression methods other
	// than gzip and zlib, or any compression combined with csv.
	ErrUnsupportedCompression = errors.New("tmx: unsupported compression method")

	// ErrBadDataLength is returned when decoded layer data does not match
	// the layer dimensions.
	ErrBadDataLength = errors.New("tmx: decoded data length does not match layer size")

	// ErrExternalTileset is returned for tilesets referenced by source
	// file. Tilesets must be embedded in the document.
	ErrExternalTileset = errors.New("tmx: external tilesets are not supported")

	// ErrBadPoints is returned for malformed polygon or polyline points
	// attributes.
	ErrBadPoints = errors.New("tmx: malformed points attribute")
)
