// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

// ChunkRef is a chunk-selection heuristic's answer: which chunk a
// resource's data and metadata belong in, and whether either must first
// be created. DataChunk and MetaChunk are indices into the chunk slice the
// heuristic was called with; when the matching create flag is set, they
// name the chunk create_chunk is given as a template. An index past the
// end of the slice (as DefaultChunkSelect returns for an empty set) gives
// create_chunk the zero Chunk as its template instead.
type ChunkRef struct {
	DataChunk  int
	MetaChunk  int
	DataCreate bool
	MetaCreate bool
}

// ChunkSelectFunc picks the chunk(s) a resource's data and metadata
// belong in, given the chunks assembled so far.
type ChunkSelectFunc func(meta, data Data, chunks []Chunk) ChunkRef

// ChunkCreateFunc produces a new chunk, seeded from a base chunk (the one
// a selection heuristic named before requesting a create, or the zero
// Chunk when that index names no existing chunk). The returned
// chunk's Type must be TypeData or TypeMixed when called for a resource's
// data, and TypeMetadata when called for its metadata; a mismatch is a
// caller-contract violation and panics.
type ChunkCreateFunc func(meta, data Data, base Chunk) Chunk

// DefaultChunkSize is the capacity a freshly created chunk is given by
// DefaultChunkCreate when the triggering resource's data fits within it.
const DefaultChunkSize = 32 * MiB

// DefaultChunkSelect always selects the last chunk in the current set for
// both data and metadata, requesting creation of an initial chunk when
// none exist yet. It is the heuristic WriteParams uses when the caller
// supplies none.
func DefaultChunkSelect(_, _ Data, chunks []Chunk) ChunkRef {
	if len(chunks) == 0 {
		return ChunkRef{DataChunk: 0, MetaChunk: 0, DataCreate: true, MetaCreate: false}
	}
	last := len(chunks) - 1
	return ChunkRef{DataChunk: last, MetaChunk: last}
}

// DefaultChunkCreate returns a Mixed chunk sized DefaultChunkSize, or
// large enough to hold the triggering resource's data when that alone
// exceeds DefaultChunkSize.
func DefaultChunkCreate(_, data Data, _ Chunk) Chunk {
	size := uint64(DefaultChunkSize)
	if need := uint64(data.effectiveSize()); need > size {
		size = need
	}
	return Chunk{
		Size:        size,
		Align:       8,
		Type:        TypeMixed,
		Persistence: 1,
	}
}
