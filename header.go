// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import (
	"math"

	"github.com/iceshard-engine/hailstorm/internal/wire"
)

// ClusterData is the view ReadHeader produces: the decoded header, the
// chunk and resource tables decoded into newly allocated slices, and the
// path block as a slice borrowed from the caller's bytes (not a copy).
// PathData is valid for as long as the source bytes are kept alive;
// ReadHeader never mutates them.
type ClusterData struct {
	Header    Header
	Chunks    []Chunk
	Resources []Resource
	PathData  []byte
}

// ReadHeader validates and decodes the fixed-layout header, path
// descriptor, chunk table, and resource table from data. The path block
// is exposed as a borrowed view only when data contains enough trailing
// bytes to hold it in full; otherwise PathData is empty (a header-only
// read still succeeds).
func ReadHeader(data []byte) (*ClusterData, error) {
	if data == nil || len(data) < wire.BaseHeaderSize {
		return nil, ErrInvalidPackData
	}

	magic, headerVersion, headerSize := wire.DecodeBaseHeader(data)
	if magic != wire.MagicISHS || headerVersion != wire.HeaderVersionHSC0 || headerSize >= wire.MaxHeaderSize {
		return nil, ErrInvalidPackData
	}

	if uint64(len(data)) < headerSize {
		return nil, ErrIncompleteHeaderData
	}
	if len(data) < wire.HeaderSize {
		return nil, ErrIncompleteHeaderData
	}

	h, err := wire.DecodeHeader(data)
	if err != nil {
		return nil, ErrInvalidPackData
	}
	if h.CountChunks == 0 {
		return nil, ErrEmptyPack
	}

	pathsInfoOff := wire.HeaderSize
	chunksOff := pathsInfoOff + wire.PathsInfoSize
	resourcesOff := chunksOff + int(h.CountChunks)*wire.ChunkSize
	pathDataOff := resourcesOff + int(h.CountResources)*wire.ResourceSize

	pathsInfo := wire.DecodePathsInfo(data[pathsInfoOff : pathsInfoOff+wire.PathsInfoSize])

	chunks := make([]Chunk, h.CountChunks)
	for i := range chunks {
		off := chunksOff + i*wire.ChunkSize
		chunks[i] = wire.DecodeChunk(data[off : off+wire.ChunkSize])
	}

	lastChunk := chunks[len(chunks)-1]
	if lastChunk.Offset > math.MaxInt64-lastChunk.Size {
		return nil, ErrLargePackNotSupported
	}

	resources := make([]Resource, h.CountResources)
	for i := range resources {
		off := resourcesOff + i*wire.ResourceSize
		resources[i] = wire.DecodeResource(data[off : off+wire.ResourceSize])
	}

	var pathData []byte
	if len(data) >= pathDataOff+int(pathsInfo.Size) {
		pathData = data[pathDataOff : pathDataOff+int(pathsInfo.Size)]
	}

	return &ClusterData{
		Header:    h,
		Chunks:    chunks,
		Resources: resources,
		PathData:  pathData,
	}, nil
}
