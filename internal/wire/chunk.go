// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wire

// Type is the two-bit chunk-type tag that determines what a chunk may
// hold: resource data, resource metadata, both, or application-specific
// bytes the core never interprets.
type Type uint8

const (
	TypeAppSpecific Type = 0
	TypeMetadata    Type = 1
	TypeData        Type = 2
	TypeMixed       Type = 3
)

// Chunk is the 32-byte on-wire chunk table entry.
type Chunk struct {
	Offset         uint64
	Size           uint64
	Align          uint32
	Type           Type
	Persistence    uint8 // 2 bits
	ChunkFlags     uint8 // 4 bits
	AppCustomValue uint32
	CountEntries   uint32
}

func (c Chunk) Encode(buf []byte) {
	_ = buf[ChunkSize-1]
	putUint64(buf[0:8], c.Offset)
	putUint64(buf[8:16], c.Size)
	putUint32(buf[16:20], c.Align)
	buf[20] = uint8(c.Type&0x3) | uint8(c.Persistence&0x3)<<2 | uint8(c.ChunkFlags&0xf)<<4
	buf[21], buf[22], buf[23] = 0, 0, 0
	putUint32(buf[24:28], c.AppCustomValue)
	putUint32(buf[28:32], c.CountEntries)
}

func DecodeChunk(buf []byte) Chunk {
	_ = buf[ChunkSize-1]
	tag := buf[20]
	return Chunk{
		Offset:         getUint64(buf[0:8]),
		Size:           getUint64(buf[8:16]),
		Align:          getUint32(buf[16:20]),
		Type:           Type(tag & 0x3),
		Persistence:    (tag >> 2) & 0x3,
		ChunkFlags:     (tag >> 4) & 0xf,
		AppCustomValue: getUint32(buf[24:28]),
		CountEntries:   getUint32(buf[28:32]),
	}
}
