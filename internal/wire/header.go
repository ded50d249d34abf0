// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package wire

import "fmt"

// Flags carries the v1 header's four documented 1-bit markers; the
// remaining four bits of the containing byte are reserved.
type Flags uint8

const (
	FlagEncrypted Flags = 1 << 0
	FlagExpansion Flags = 1 << 1
	FlagPatch     Flags = 1 << 2
	FlagBaked     Flags = 1 << 3
)

// Header is the on-wire v1 Hailstorm header, base fields included.
type Header struct {
	Magic              uint32
	HeaderVersion      uint32
	HeaderSize         uint64
	OffsetNext         uint64
	OffsetData         uint64
	Version            [3]uint8
	Flags              Flags
	CountChunks        uint16
	CountResources     uint16
	PackSliceAlignment uint32
	PackID             uint32
	PackExpansionVer   uint16
	PackPatchVer       uint16
	AppCustomValues    [2]uint32
}

// NewHeader returns a Header with the magic and version tags populated,
// as a writer would before filling in the rest of the fields.
func NewHeader() Header {
	return Header{
		Magic:         MagicISHS,
		HeaderVersion: HeaderVersionHSC0,
	}
}

// Encode writes the 64-byte wire representation of h into buf, which must
// be at least HeaderSize bytes long.
func (h Header) Encode(buf []byte) {
	_ = buf[HeaderSize-1] // bounds check elimination
	putUint32(buf[0:4], h.Magic)
	putUint32(buf[4:8], h.HeaderVersion)
	putUint64(buf[8:16], h.HeaderSize)
	putUint64(buf[16:24], h.OffsetNext)
	putUint64(buf[24:32], h.OffsetData)
	copy(buf[32:35], h.Version[:])
	buf[35] = uint8(h.Flags)
	putUint16(buf[36:38], h.CountChunks)
	putUint16(buf[38:40], h.CountResources)
	putUint32(buf[40:44], h.PackSliceAlignment)
	putUint32(buf[44:48], h.PackID)
	putUint16(buf[48:50], h.PackExpansionVer)
	putUint16(buf[50:52], h.PackPatchVer)
	putUint32(buf[52:56], h.AppCustomValues[0])
	putUint32(buf[56:60], h.AppCustomValues[1])
	// buf[60:64] is reserved trailing padding; left zero.
	for i := 60; i < 64; i++ {
		buf[i] = 0
	}
}

// DecodeBaseHeader reads only the 16-byte base header (magic, version,
// header_size), the prefix read_header validates before trusting anything
// else about the input.
func DecodeBaseHeader(buf []byte) (magic, headerVersion uint32, headerSize uint64) {
	_ = buf[BaseHeaderSize-1]
	magic = getUint32(buf[0:4])
	headerVersion = getUint32(buf[4:8])
	headerSize = getUint64(buf[8:16])
	return
}

// DecodeHeader reads the full 64-byte v1 header from buf. Callers must
// have already validated the base header and that len(buf) >= HeaderSize.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("wire: header buffer too short: %d < %d", len(buf), HeaderSize)
	}
	var h Header
	h.Magic = getUint32(buf[0:4])
	h.HeaderVersion = getUint32(buf[4:8])
	h.HeaderSize = getUint64(buf[8:16])
	h.OffsetNext = getUint64(buf[16:24])
	h.OffsetData = getUint64(buf[24:32])
	copy(h.Version[:], buf[32:35])
	h.Flags = Flags(buf[35])
	h.CountChunks = getUint16(buf[36:38])
	h.CountResources = getUint16(buf[38:40])
	h.PackSliceAlignment = getUint32(buf[40:44])
	h.PackID = getUint32(buf[44:48])
	h.PackExpansionVer = getUint16(buf[48:50])
	h.PackPatchVer = getUint16(buf[50:52])
	h.AppCustomValues[0] = getUint32(buf[52:56])
	h.AppCustomValues[1] = getUint32(buf[56:60])
	return h, nil
}

// PathsInfo is the 8-byte path block descriptor.
type PathsInfo struct {
	Offset uint32
	Size   uint32
}

func (p PathsInfo) Encode(buf []byte) {
	_ = buf[PathsInfoSize-1]
	putUint32(buf[0:4], p.Offset)
	putUint32(buf[4:8], p.Size)
}

func DecodePathsInfo(buf []byte) PathsInfo {
	_ = buf[PathsInfoSize-1]
	return PathsInfo{
		Offset: getUint32(buf[0:4]),
		Size:   getUint32(buf[4:8]),
	}
}
