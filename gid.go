// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tilemap

// GID is a global tile identifier as stored in layer data.
//
// The top three bits carry flip flags and the remaining 29 bits carry the
// packed tile id. Packed id ranges are partitioned across tilesets by each
// tileset's first id. A GID of 0 means "empty, no tile". The bit layout is a
// fixed wire contract shared with the Tiled map format and must not change:
//
//	bit 31  flip horizontally
//	bit 30  flip vertically
//	bit 29  flip diagonally (anti-diagonal axis)
//	0..28   packed tile id
type GID uint32

const (
	// FlipHorizontal marks a tile mirrored along the vertical axis.
	FlipHorizontal GID = 0x80000000
	// FlipVertical marks a tile mirrored along the horizontal axis.
	FlipVertical GID = 0x40000000
	// FlipDiagonal marks a tile mirrored along its anti-diagonal.
	FlipDiagonal GID = 0x20000000

	// GIDMask extracts the packed tile id from a raw GID.
	GIDMask GID = 0x1FFFFFFF
)

// TileRef is a decoded tile reference: the packed id with the flip flags
// unpacked into booleans. All code past the decode boundary works with
// TileRef values; raw GIDs only appear in layer grids and wire data.
type TileRef struct {
	// ID is the packed tile id with all flip bits stripped. Zero means empty.
	ID uint32

	FlipH bool
	FlipV bool
	FlipD bool
}

// DecodeGID unpacks a raw GID into a TileRef.
func DecodeGID(gid GID) TileRef {
	return TileRef{
		ID:    uint32(gid & GIDMask),
		FlipH: gid&FlipHorizontal != 0,
		FlipV: gid&FlipVertical != 0,
		FlipD: gid&FlipDiagonal != 0,
	}
}

// Encode packs the reference back into the wire GID layout.
// DecodeGID(r.Encode()) recovers r exactly for any in-range ID.
func (r TileRef) Encode() GID {
	gid := GID(r.ID) & GIDMask
	if r.FlipH {
		gid |= FlipHorizontal
	}
	if r.FlipV {
		gid |= FlipVertical
	}
	if r.FlipD {
		gid |= FlipDiagonal
	}
	return gid
}
