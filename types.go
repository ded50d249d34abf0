// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import "github.com/iceshard-engine/hailstorm/internal/wire"

// Byte-size constants, used throughout chunk-sizing heuristics.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
)

// Type is a chunk's payload classification.
type Type = wire.Type

const (
	TypeAppSpecific Type = wire.TypeAppSpecific
	TypeMetadata    Type = wire.TypeMetadata
	TypeData        Type = wire.TypeData
	TypeMixed       Type = wire.TypeMixed
)

// Flags carries the header's encrypted/expansion/patch/baked markers.
type Flags = wire.Flags

const (
	FlagEncrypted Flags = wire.FlagEncrypted
	FlagExpansion Flags = wire.FlagExpansion
	FlagPatch     Flags = wire.FlagPatch
	FlagBaked     Flags = wire.FlagBaked
)

// Header is the decoded v1 Hailstorm header.
type Header = wire.Header

// PathsInfo is the path block descriptor.
type PathsInfo = wire.PathsInfo

// Chunk describes one chunk table entry: a contiguous byte region holding
// metadata and/or blob bytes for a subset of resources.
type Chunk = wire.Chunk

// Resource describes one resource table entry.
type Resource = wire.Resource

// Data is a read-only view of a resource's blob: Bytes is nil when the
// caller wants the core to stream the blob in later through a
// ResourceWriteFunc, in which case Size must be set explicitly.
type Data struct {
	Bytes []byte
	Size  uint32
	Align uint32
}

// NewData wraps an in-memory blob at the given alignment.
func NewData(b []byte, align uint32) Data {
	return Data{Bytes: b, Size: uint32(len(b)), Align: align}
}

func (d Data) effectiveSize() uint32 {
	if d.Bytes != nil {
		return uint32(len(d.Bytes))
	}
	return d.Size
}

// Memory is an owned, allocator-backed byte buffer.
type Memory struct {
	Bytes []byte
}

// Allocator abstracts allocation of the cluster buffer WriteCluster
// returns. The format documents the allocator as an injected
// collaborator rather than something the core owns; DefaultAllocator is
// a plain GC-backed implementation used when a caller supplies none.
type Allocator interface {
	Allocate(size int) Memory
	Deallocate(m Memory)
}

type defaultAllocator struct{}

func (defaultAllocator) Allocate(size int) Memory { return Memory{Bytes: make([]byte, size)} }
func (defaultAllocator) Deallocate(Memory)        {}

// DefaultAllocator is the Allocator used when WriteParams.Allocator is nil.
var DefaultAllocator Allocator = defaultAllocator{}
