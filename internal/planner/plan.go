// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package planner implements the two-pass chunk-assignment algorithm: the
// first pass of a cluster write, which decides which chunk each
// resource's data and metadata will live in, growing the chunk set on
// demand through caller-supplied heuristics.
package planner

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/iceshard-engine/hailstorm/internal/wire"
	"github.com/iceshard-engine/hailstorm/internal/zero"
)

const sentinel = math.MaxUint32

// metadataMinAlign is the alignment pad a metadata record's start is
// always rounded up to, independent of any resource's own data alignment.
const metadataMinAlign = 8

// DataView mirrors a resource's blob: Bytes is nil when the resource is
// streamed (its bytes are produced later by a caller write callback), in
// which case Size must still be set.
type DataView struct {
	Bytes []byte
	Size  uint32
	Align uint32
}

func (d DataView) size() uint64 {
	if d.Bytes != nil {
		return uint64(len(d.Bytes))
	}
	return uint64(d.Size)
}

// ChunkRef is the result of a chunk-selection heuristic: which chunk a
// resource's data and metadata should land in, and whether either chunk
// must first be created.
type ChunkRef struct {
	DataChunk  int
	MetaChunk  int
	DataCreate bool
	MetaCreate bool
}

// SelectFunc picks the chunk(s) a resource's data and metadata belong in.
type SelectFunc func(meta []byte, data DataView, chunks []wire.Chunk) ChunkRef

// CreateFunc produces a brand-new chunk, seeded from a base chunk (the one
// selected before the grow was requested, or the zero Chunk when the
// selected index names no existing chunk).
type CreateFunc func(meta []byte, data DataView, base wire.Chunk) wire.Chunk

// Reference records, per input resource, the chunk indices its data and
// metadata ultimately landed in.
type Reference struct {
	DataChunk      uint32
	MetaChunk      uint32
	SharedMetadata bool
}

// Input is everything the planner needs to assign chunks.
type Input struct {
	Paths               []string
	Data                []DataView
	Metadata            [][]byte
	Mapping             []uint32 // nil means the identity mapping i -> i
	InitialChunks       []wire.Chunk
	Select              SelectFunc
	Create              CreateFunc
	EstimatedChunkCount int
	Logger              *slog.Logger
}

// Plan is the planner's output: the grown chunk set (capacity finalized,
// offsets not yet assigned -- that is the layout computer's job), a
// per-resource chunk reference, and the padded path-block size.
type Plan struct {
	Chunks                        []wire.Chunk
	References                    []Reference
	PathBlockSize                 uint32
	RequiresResourceWriteCallback bool
}

// Build runs the two-pass chunk assignment described by the format: for
// each resource, select a chunk, grow the chunk set if the selection says
// so (restarting the selection for that resource without advancing),
// then record the final chunk reference and fold the resource into the
// chunks' running used-byte totals.
//
// Build panics on caller-contract violations -- a mismatched mapping
// length, or a heuristic returning a chunk of the wrong type -- since
// those cannot happen for a correct caller and are not meant to be
// recovered from.
func Build(in Input) Plan {
	logger := in.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	n := len(in.Data)
	if len(in.Paths) != n {
		panic(fmt.Sprintf("planner: data/paths length mismatch: %d paths, %d data", len(in.Paths), n))
	}
	if in.Mapping != nil && len(in.Mapping) != n {
		panic(fmt.Sprintf("planner: mapping length %d does not match resource count %d", len(in.Mapping), n))
	}

	chunks := make([]wire.Chunk, len(in.InitialChunks))
	copy(chunks, in.InitialChunks)
	used := make([]uint64, len(chunks))

	var tracker []uint32
	if in.Mapping != nil {
		tracker = make([]uint32, len(in.Metadata))
		zero.FillU32(tracker, sentinel)
	}

	estimate := in.EstimatedChunkCount
	if estimate < len(chunks) {
		estimate = len(chunks)
	}
	if cap(chunks) < estimate {
		grown := make([]wire.Chunk, len(chunks), estimate)
		copy(grown, chunks)
		chunks = grown
	}

	references := make([]Reference, n)
	pathBlockSize := uint64(8)
	requiresCallback := false

	for i := 0; i < n; {
		m := i
		if in.Mapping != nil {
			m = int(in.Mapping[i])
		}

		ref := in.Select(in.Metadata[m], in.Data[i], chunks)
		dataCreate, metaCreate := ref.DataCreate, ref.MetaCreate
		sharedMetadata := false

		if !dataCreate && !metaCreate {
			if tracker != nil && tracker[m] != sentinel {
				sharedMetadata = true
				ref.MetaChunk = int(references[tracker[m]].MetaChunk)
			}

			dataSize := in.Data[i].size()
			metaSize := uint64(len(in.Metadata[m]))
			if sharedMetadata {
				metaSize = 0
			}

			dataAlign := uint64(alignOrOne(in.Data[i].Align))
			dataPad := wire.AlignUp(used[ref.DataChunk], dataAlign) - used[ref.DataChunk]

			if ref.DataChunk == ref.MetaChunk {
				var metaPad uint64
				if !sharedMetadata {
					metaPad = wire.AlignUp(used[ref.DataChunk], metadataMinAlign) - used[ref.DataChunk]
				}
				remaining := int64(chunks[ref.DataChunk].Size) - int64(used[ref.DataChunk])
				dataCreate = dataCreate || remaining-int64(metaPad)-int64(metaSize)-int64(dataPad) < int64(dataSize)
			} else {
				remainingData := int64(chunks[ref.DataChunk].Size) - int64(used[ref.DataChunk]) - int64(dataPad)
				dataCreate = dataCreate || remainingData < int64(dataSize)
				if !sharedMetadata {
					metaPad := wire.AlignUp(used[ref.MetaChunk], metadataMinAlign) - used[ref.MetaChunk]
					remainingMeta := int64(chunks[ref.MetaChunk].Size) - int64(used[ref.MetaChunk]) - int64(metaPad)
					metaCreate = metaCreate || remainingMeta < int64(metaSize)
				}
			}
		}

		if dataCreate || metaCreate {
			origDataIdx, origMetaIdx := ref.DataChunk, ref.MetaChunk
			dataChunkIdx, metaChunkIdx := origDataIdx, origMetaIdx

			if dataCreate {
				var base wire.Chunk
				if origDataIdx < len(chunks) {
					base = chunks[origDataIdx]
				}
				nc := in.Create(in.Metadata[m], in.Data[i], base)
				nc.Offset, nc.CountEntries = 0, 0
				if nc.Type != wire.TypeData && nc.Type != wire.TypeMixed {
					panic(fmt.Sprintf("planner: create_chunk returned type %d for a data chunk", nc.Type))
				}
				chunks = append(chunks, nc)
				used = append(used, 0)
				dataChunkIdx = len(chunks) - 1
				logger.Debug("hailstorm: planner created data chunk", "index", dataChunkIdx, "type", nc.Type)

				if origMetaIdx == origDataIdx {
					metaChunkIdx = dataChunkIdx
					metaCreate = false
				}
			}
			if metaCreate {
				if sharedMetadata {
					panic("planner: a chunk creation was requested for metadata that is already shared")
				}
				var base wire.Chunk
				if origMetaIdx < len(chunks) {
					base = chunks[origMetaIdx]
				}
				nc := in.Create(in.Metadata[m], in.Data[i], base)
				nc.Offset, nc.CountEntries = 0, 0
				if nc.Type != wire.TypeMetadata {
					panic(fmt.Sprintf("planner: create_chunk returned type %d for a metadata chunk", nc.Type))
				}
				chunks = append(chunks, nc)
				used = append(used, 0)
				metaChunkIdx = len(chunks) - 1
				logger.Debug("hailstorm: planner created metadata chunk", "index", metaChunkIdx)
			}

			// Restart selection for the same resource against the grown
			// chunk set; do not advance i.
			continue
		}

		dataChunkIdx, metaChunkIdx := ref.DataChunk, ref.MetaChunk
		references[i] = Reference{
			DataChunk:      uint32(dataChunkIdx),
			MetaChunk:      uint32(metaChunkIdx),
			SharedMetadata: sharedMetadata,
		}
		if tracker != nil && tracker[m] == sentinel {
			tracker[m] = uint32(i)
		}

		chunks[dataChunkIdx].CountEntries++
		if metaChunkIdx != dataChunkIdx && !sharedMetadata {
			chunks[metaChunkIdx].CountEntries++
		}

		if !sharedMetadata {
			used[metaChunkIdx] = wire.AlignUp(used[metaChunkIdx], 8) + uint64(len(in.Metadata[m]))
		}
		used[dataChunkIdx] = wire.AlignUp(used[dataChunkIdx], uint64(in.Data[i].Align)) + in.Data[i].size()

		pathBlockSize += uint64(len(in.Paths[i])) + 1
		if in.Data[i].Bytes == nil {
			requiresCallback = true
		}
		i++
	}

	pathBlockSize = wire.AlignUp(pathBlockSize, 8)
	for idx := range chunks {
		chunks[idx].Size = wire.AlignUp(used[idx], uint64(alignOrOne(chunks[idx].Align)))
	}

	logger.Debug("hailstorm: planner finished", "chunks", len(chunks), "resources", n, "path_block_size", pathBlockSize)

	return Plan{
		Chunks:                        chunks,
		References:                    references,
		PathBlockSize:                 uint32(pathBlockSize),
		RequiresResourceWriteCallback: requiresCallback,
	}
}

func alignOrOne(align uint32) uint32 {
	if align == 0 {
		return 1
	}
	return align
}
