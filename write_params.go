// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import (
	"io"
	"log/slog"
)

// ResourceWriteFunc fills dest with resource resourceIndex's blob bytes.
// It is invoked only when that resource's Data.Bytes is nil, letting a
// caller stream bytes directly into the destination instead of handing
// the core an owned copy up front.
type ResourceWriteFunc func(data WriteData, resourceIndex int, dest []byte) bool

// CustomChunkWriteFunc fills dest with an application-specific (TypeAppSpecific)
// chunk's bytes.
type CustomChunkWriteFunc func(data WriteData, chunk Chunk, dest []byte) bool

// WriteData is the resource list and cluster-wide metadata a write
// operation packs into a cluster.
type WriteData struct {
	// Paths, Data, and Metadata all have one entry per resource, in the
	// order resources will appear in the resource table.
	Paths    []string
	Data     []Data
	Metadata []Data

	// MetaMapping, when non-nil, must have one entry per resource:
	// MetaMapping[i] is the index into Metadata that resource i's
	// metadata actually lives at, letting resources share metadata
	// records. Nil means the identity mapping (resource i uses
	// Metadata[i]).
	MetaMapping []uint32

	Version            [3]uint8
	Flags              Flags
	PackID             uint32
	PackSliceAlignment uint32
	PackExpansionVer   uint16
	PackPatchVer       uint16
	AppCustomValues    [2]uint32
}

// WriteParams configures a synchronous WriteCluster call.
type WriteParams struct {
	InitialChunks []Chunk
	SelectChunk   ChunkSelectFunc
	CreateChunk   ChunkCreateFunc

	// ResourceWrite is required whenever at least one resource's
	// Data.Bytes is nil; calling WriteCluster without one in that case
	// is a caller-contract violation and panics.
	ResourceWrite ResourceWriteFunc
	// CustomChunkWrite is required whenever the planned chunk set
	// contains a TypeAppSpecific chunk.
	CustomChunkWrite CustomChunkWriteFunc

	// EstimatedChunkCount sizes the planner's initial chunk-slice
	// capacity; it is only a hint.
	EstimatedChunkCount int

	Allocator Allocator
	Logger    *slog.Logger
}

func (p WriteParams) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (p WriteParams) selectChunk() ChunkSelectFunc {
	if p.SelectChunk != nil {
		return p.SelectChunk
	}
	return DefaultChunkSelect
}

func (p WriteParams) createChunk() ChunkCreateFunc {
	if p.CreateChunk != nil {
		return p.CreateChunk
	}
	return DefaultChunkCreate
}

func (p WriteParams) allocator() Allocator {
	if p.Allocator != nil {
		return p.Allocator
	}
	return DefaultAllocator
}

// AsyncSink is the caller-supplied destination WriteClusterAsync drives.
// Every method reports whether the write succeeded; a single false
// return aborts the whole operation. Open is called once before any
// other method; if Open reports failure, no other method is called.
// After a successful Open, Close is called exactly once on every exit
// path, success or failure.
type AsyncSink interface {
	Open(totalSize int) bool
	WriteHeader(b []byte, offset int64) bool
	WriteMetadata(data WriteData, metaIndex int, offset int64) bool
	WriteResource(data WriteData, resourceIndex int, offset int64) bool
	WriteCustomChunk(data WriteData, chunk Chunk, offset int64) bool
	Close() bool
}

// AsyncWriteParams configures a WriteClusterAsync call.
type AsyncWriteParams struct {
	InitialChunks []Chunk
	SelectChunk   ChunkSelectFunc
	CreateChunk   ChunkCreateFunc

	Sink AsyncSink

	EstimatedChunkCount int
	Logger              *slog.Logger
}

func (p AsyncWriteParams) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (p AsyncWriteParams) selectChunk() ChunkSelectFunc {
	if p.SelectChunk != nil {
		return p.SelectChunk
	}
	return DefaultChunkSelect
}

func (p AsyncWriteParams) createChunk() ChunkCreateFunc {
	if p.CreateChunk != nil {
		return p.CreateChunk
	}
	return DefaultChunkCreate
}
