// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wire

// Resource is the 36-byte on-wire resource table entry.
type Resource struct {
	Chunk            uint32
	MetaChunk        uint32
	Offset           uint32
	Size             uint32
	SizeOrigin       uint32
	MetaOffset       uint32
	MetaSize         uint32
	PathOffset       uint32
	PathSize         uint16
	CompressionType  uint8 // 5 bits
	CompressionLevel uint8 // 3 bits
	CompressionParam uint8
}

func (r Resource) Encode(buf []byte) {
	_ = buf[ResourceSize-1]
	putUint32(buf[0:4], r.Chunk)
	putUint32(buf[4:8], r.MetaChunk)
	putUint32(buf[8:12], r.Offset)
	putUint32(buf[12:16], r.Size)
	putUint32(buf[16:20], r.SizeOrigin)
	putUint32(buf[20:24], r.MetaOffset)
	putUint32(buf[24:28], r.MetaSize)
	putUint32(buf[28:32], r.PathOffset)
	putUint16(buf[32:34], r.PathSize)
	buf[34] = (r.CompressionType & 0x1f) | (r.CompressionLevel&0x7)<<5
	buf[35] = r.CompressionParam
}

func DecodeResource(buf []byte) Resource {
	_ = buf[ResourceSize-1]
	comp := buf[34]
	return Resource{
		Chunk:            getUint32(buf[0:4]),
		MetaChunk:        getUint32(buf[4:8]),
		Offset:           getUint32(buf[8:12]),
		Size:             getUint32(buf[12:16]),
		SizeOrigin:       getUint32(buf[16:20]),
		MetaOffset:       getUint32(buf[20:24]),
		MetaSize:         getUint32(buf[24:28]),
		PathOffset:       getUint32(buf[28:32]),
		PathSize:         getUint16(buf[32:34]),
		CompressionType:  comp & 0x1f,
		CompressionLevel: (comp >> 5) & 0x7,
		CompressionParam: buf[35],
	}
}
