// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package wire implements the fixed-layout binary encoding of a Hailstorm
// cluster: the header, path descriptor, chunk table, and resource table.
// All multi-byte integers are little-endian and every structure is packed
// at its natural alignment with no implicit padding beyond what the format
// documents.
package wire

import "encoding/binary"

const (
	// MagicISHS is the base header's constant magic tag, the ASCII bytes
	// "ISHS" read as a little-endian u32.
	MagicISHS uint32 = 0x53_48_53_49
	// HeaderVersionHSC0 is the only header version this package decodes.
	HeaderVersionHSC0 uint32 = 0x30_43_53_48

	// BaseHeaderSize is the size in bytes of the magic/version/header_size
	// prefix shared by every header version.
	BaseHeaderSize = 16
	// HeaderSize is the size in bytes of the v1 header, base included.
	HeaderSize = 64
	// PathsInfoSize is the size in bytes of the path descriptor.
	PathsInfoSize = 8
	// ChunkSize is the size in bytes of one chunk table entry.
	ChunkSize = 32
	// ResourceSize is the size in bytes of one resource table entry.
	ResourceSize = 36

	// MaxHeaderSize is the upper bound read_header enforces on header_size
	// before it will trust the rest of the header.
	MaxHeaderSize = 1 << 30 // 1 GiB
)

// AlignUp rounds x up to the nearest multiple of alignment, which must be a
// power of two. This is the one correct formulation of the format's
// alignment arithmetic; a sibling formula built around the "alignment
// miss" distance is not used here because it produces the wrong result
// when x is already aligned.
func AlignUp(x, alignment uint64) uint64 {
	return x + ((-x) & (alignment - 1))
}

// AlignUp32 is AlignUp for 32-bit quantities.
func AlignUp32(x, alignment uint32) uint32 {
	return x + ((-x) & (alignment - 1))
}

func putUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func putUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
func getUint16(b []byte) uint16    { return binary.LittleEndian.Uint16(b) }
func getUint32(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }
func getUint64(b []byte) uint64    { return binary.LittleEndian.Uint64(b) }
