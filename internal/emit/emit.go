// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package emit

import (
	"fmt"
	"math"

	"github.com/iceshard-engine/hailstorm/internal/planner"
	"github.com/iceshard-engine/hailstorm/internal/wire"
	"github.com/iceshard-engine/hailstorm/internal/zero"
)

const sentinel = math.MaxUint32

// Offsets is the set of absolute byte offsets the layout computer derives
// from a finished plan, before any chunk has been positioned.
type Offsets struct {
	Header    int64
	PathsInfo int64
	Chunks    int64
	Resources int64
	PathsData int64
	Data      int64
}

// ComputeOffsets lays out the fixed-size regions that precede the
// variable-length path block and chunk payloads.
func ComputeOffsets(chunkCount, resourceCount int, pathBlockSize uint32) Offsets {
	header := int64(0)
	pathsInfo := header + wire.HeaderSize
	chunks := pathsInfo + wire.PathsInfoSize
	resources := chunks + int64(chunkCount)*wire.ChunkSize
	pathsData := resources + int64(resourceCount)*wire.ResourceSize
	data := alignUp64(pathsData+int64(pathBlockSize), 8)
	return Offsets{
		Header:    header,
		PathsInfo: pathsInfo,
		Chunks:    chunks,
		Resources: resources,
		PathsData: pathsData,
		Data:      data,
	}
}

func alignUp64(x, alignment int64) int64 {
	return x + ((-x) & (alignment - 1))
}

// PlaceChunks assigns each chunk's final, 8-byte-aligned offset in
// declaration order starting at dataOffset, and returns the offset one
// past the last chunk -- the cluster's total size.
func PlaceChunks(chunks []wire.Chunk, dataOffset int64) (total int64) {
	running := uint64(dataOffset)
	for i := range chunks {
		chunks[i].Offset = running
		padded := wire.AlignUp(chunks[i].Size, 8)
		running += padded
	}
	return int64(running)
}

// HeaderFields carries the write-data-supplied header fields that the
// planner and layout computer have no opinion about.
type HeaderFields struct {
	Version            [3]uint8
	Flags              wire.Flags
	PackSliceAlignment uint32
	PackID             uint32
	PackExpansionVer   uint16
	PackPatchVer       uint16
	AppCustomValues    [2]uint32
}

// Input is everything the emitter needs to drive the second pass.
type Input struct {
	Chunks        []wire.Chunk
	References    []planner.Reference
	PathBlockSize uint32
	Paths         []string
	Metadata      [][]byte
	DataAligns    []uint32 // per-resource data alignment, input order
	DataSizes     []uint32 // per-resource data size, input order
	Mapping       []uint32 // nil means identity
	Header        HeaderFields
	Sink          Sink
}

// Emit performs the second pass: it finalizes chunk offsets, writes the
// header and tables, walks every resource writing its metadata, blob,
// and path, writes every application-specific chunk, and finalizes the
// sink. It returns the produced bytes (nil for sinks with none to give
// back) and whether every step succeeded.
func Emit(in Input) ([]byte, bool) {
	chunks := make([]wire.Chunk, len(in.Chunks))
	copy(chunks, in.Chunks)

	offsets := ComputeOffsets(len(chunks), len(in.References), in.PathBlockSize)
	total := PlaceChunks(chunks, offsets.Data)

	h := wire.NewHeader()
	h.HeaderSize = uint64(offsets.PathsData)
	h.OffsetNext = uint64(total)
	h.OffsetData = uint64(offsets.Data)
	h.Version = in.Header.Version
	h.Flags = in.Header.Flags
	h.CountChunks = uint16(len(chunks))
	h.CountResources = uint16(len(in.References))
	h.PackSliceAlignment = in.Header.PackSliceAlignment
	h.PackID = in.Header.PackID
	h.PackExpansionVer = in.Header.PackExpansionVer
	h.PackPatchVer = in.Header.PackPatchVer
	h.AppCustomValues = in.Header.AppCustomValues

	finalized := false
	finalize := func() []byte {
		if finalized {
			return nil
		}
		finalized = true
		return in.Sink.Finalize()
	}
	abort := func() ([]byte, bool) {
		finalize()
		return nil, false
	}

	var headerBuf [wire.HeaderSize]byte
	h.Encode(headerBuf[:])
	if !in.Sink.WriteRegion(headerBuf[:], offsets.Header) {
		return abort()
	}

	var pathsInfoBuf [wire.PathsInfoSize]byte
	pathsInfo := wire.PathsInfo{Offset: uint32(offsets.PathsData), Size: in.PathBlockSize}
	pathsInfo.Encode(pathsInfoBuf[:])
	if !in.Sink.WriteRegion(pathsInfoBuf[:], offsets.PathsInfo) {
		return abort()
	}

	chunkTable := make([]byte, len(chunks)*wire.ChunkSize)
	for i, c := range chunks {
		c.Encode(chunkTable[i*wire.ChunkSize : (i+1)*wire.ChunkSize])
	}
	if !in.Sink.WriteRegion(chunkTable, offsets.Chunks) {
		return abort()
	}

	n := len(in.References)
	resourceTable := make([]byte, n*wire.ResourceSize)
	pathBlock := make([]byte, in.PathBlockSize)

	// used tracks, per chunk, the next free byte in that chunk's single
	// byte stream -- shared between data and metadata writes when a
	// mixed chunk holds both, exactly as the planner's own bookkeeping
	// does.
	used := make([]uint64, len(chunks))
	var tracker []uint32
	if in.Mapping != nil {
		tracker = make([]uint32, len(in.Metadata))
		zero.FillU32(tracker, sentinel)
	}

	type emitted struct {
		chunk, metaChunk, offset, size, metaOffset, metaSize, pathOffset uint32
		pathSize                                                         uint16
	}
	rows := make([]emitted, n)

	runningPathOffset := uint32(0)
	for i := 0; i < n; i++ {
		ref := in.References[i]
		row := emitted{chunk: ref.DataChunk, metaChunk: ref.MetaChunk}

		m := i
		if in.Mapping != nil {
			m = int(in.Mapping[i])
		}

		var prev uint32 = sentinel
		if tracker != nil {
			prev = tracker[m]
			tracker[m] = uint32(i)
		}

		if prev == sentinel {
			metaBytes := in.Metadata[m]
			metaOff := wire.AlignUp(used[ref.MetaChunk], 8)
			row.metaOffset = uint32(metaOff)
			row.metaSize = uint32(len(metaBytes))
			dest := int64(chunks[ref.MetaChunk].Offset) + int64(metaOff)
			if !in.Sink.WriteMetadata(metaBytes, m, dest) {
				return abort()
			}
			used[ref.MetaChunk] = metaOff + uint64(len(metaBytes))
		} else {
			row.metaOffset = rows[prev].metaOffset
			row.metaSize = rows[prev].metaSize
		}

		align := in.DataAligns[i]
		if align == 0 {
			align = 1
		}
		if align > chunks[ref.DataChunk].Align {
			panic(fmt.Sprintf("emit: resource %d data alignment %d exceeds chunk %d alignment %d", i, align, ref.DataChunk, chunks[ref.DataChunk].Align))
		}
		dataOff := wire.AlignUp(used[ref.DataChunk], uint64(align))
		row.offset = uint32(dataOff)
		row.size = in.DataSizes[i]
		dest := int64(chunks[ref.DataChunk].Offset) + int64(dataOff)
		if !in.Sink.WriteResource(i, dest) {
			return abort()
		}
		used[ref.DataChunk] = dataOff + uint64(row.size)

		path := in.Paths[i]
		row.pathOffset = runningPathOffset
		row.pathSize = uint16(len(path))
		copy(pathBlock[runningPathOffset:], path)
		pathBlock[runningPathOffset+uint32(len(path))] = 0
		runningPathOffset += uint32(len(path)) + 1

		rows[i] = row
	}

	for i, row := range rows {
		r := wire.Resource{
			Chunk:      row.chunk,
			MetaChunk:  row.metaChunk,
			Offset:     row.offset,
			Size:       row.size,
			SizeOrigin: row.size,
			MetaOffset: row.metaOffset,
			MetaSize:   row.metaSize,
			PathOffset: row.pathOffset,
			PathSize:   row.pathSize,
		}
		r.Encode(resourceTable[i*wire.ResourceSize : (i+1)*wire.ResourceSize])
	}

	for ci, c := range chunks {
		if c.Type != wire.TypeAppSpecific {
			continue
		}
		if !in.Sink.WriteCustomChunk(ci, int64(c.Offset)) {
			return abort()
		}
	}

	// tail of the path scratch past the last written path is already
	// zero from make([]byte, ...); nothing further to zero-fill.

	if !in.Sink.WriteRegion(resourceTable, offsets.Resources) {
		return abort()
	}
	if !in.Sink.WriteRegion(pathBlock, offsets.PathsData) {
		return abort()
	}

	return finalize(), true
}
