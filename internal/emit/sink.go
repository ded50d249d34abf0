// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package emit drives the second pass of a cluster write: given a
// finished plan, it computes absolute byte offsets and performs a
// sequence of positioned writes against a Sink, the same code path for
// both an owned in-memory buffer and a caller-driven asynchronous
// destination.
package emit

// Sink is the destination for a cluster's bytes. Every write is
// positioned by an absolute offset from the start of the cluster and
// returns whether it succeeded; a single false return aborts the whole
// operation.
//
// WriteResource and WriteCustomChunk take an index rather than bytes
// because their data may not exist yet -- a resource with no bytes ready
// is filled in by a caller-supplied streaming callback, and a sink
// implementation decides how that callback is reached.
type Sink interface {
	// WriteRegion writes a fully-formed table or block -- the header,
	// the path descriptor, the chunk table, the resource table, or the
	// path block -- as a single span of bytes at an absolute offset.
	WriteRegion(b []byte, offset int64) bool
	WriteMetadata(b []byte, metaIndex int, offset int64) bool
	WriteResource(resourceIndex int, offset int64) bool
	WriteCustomChunk(chunkIndex int, offset int64) bool
	// Finalize ends the write, releasing or yielding whatever the sink
	// holds, and returns the produced bytes (nil for a sink that has no
	// bytes to hand back, such as the async sink).
	Finalize() []byte
}

// ResourceWriteFunc fills dest with a resource's bytes when the caller
// did not supply them up front, mirroring the synchronous
// resource-write callback the format documents.
type ResourceWriteFunc func(resourceIndex int, dest []byte) bool

// CustomChunkWriteFunc fills dest with an application-specific chunk's
// bytes.
type CustomChunkWriteFunc func(chunkIndex int, dest []byte) bool

// ResourceView is the subset of a resource's data the buffer sink needs
// to satisfy a write: its bytes when ready, or just its size when the
// bytes are streamed in by a callback.
type ResourceView struct {
	Bytes []byte
	Size  uint32
}

// BufferSink owns a single allocation sized to the whole cluster and
// satisfies every write with a memcpy (or, for a streamed resource, by
// invoking the caller's write callback directly into the destination
// slice).
type BufferSink struct {
	buf              []byte
	data             []ResourceView
	chunkSizes       []uint64
	resourceWrite    ResourceWriteFunc
	customChunkWrite CustomChunkWriteFunc
	released         bool
}

// NewBufferSink wraps a caller-supplied, already-sized buffer (its
// allocation is the caller's business, letting WriteCluster route it
// through a caller's Allocator). data must have one entry per resource
// in input order; chunkSizes must have one entry per chunk, used to
// bound custom-chunk destination slices.
func NewBufferSink(buf []byte, data []ResourceView, chunkSizes []uint64, resourceWrite ResourceWriteFunc, customChunkWrite CustomChunkWriteFunc) *BufferSink {
	return &BufferSink{
		buf:              buf,
		data:             data,
		chunkSizes:       chunkSizes,
		resourceWrite:    resourceWrite,
		customChunkWrite: customChunkWrite,
	}
}

func (s *BufferSink) WriteRegion(b []byte, offset int64) bool {
	copy(s.buf[offset:], b)
	return true
}

func (s *BufferSink) WriteMetadata(b []byte, _ int, offset int64) bool {
	copy(s.buf[offset:], b)
	return true
}

func (s *BufferSink) WriteResource(resourceIndex int, offset int64) bool {
	rv := s.data[resourceIndex]
	dest := s.buf[offset : offset+int64(rv.Size)]
	if rv.Bytes == nil {
		if s.resourceWrite == nil {
			panic("emit: resource requires a streaming write but none was supplied")
		}
		return s.resourceWrite(resourceIndex, dest)
	}
	copy(dest, rv.Bytes)
	return true
}

func (s *BufferSink) WriteCustomChunk(chunkIndex int, offset int64) bool {
	size := s.chunkSizes[chunkIndex]
	dest := s.buf[offset : offset+int64(size)]
	if s.customChunkWrite == nil {
		panic("emit: app-specific chunk requires a write callback but none was supplied")
	}
	return s.customChunkWrite(chunkIndex, dest)
}

// Finalize yields ownership of the backing buffer to the caller. Once
// called, the sink no longer holds a reference to it.
func (s *BufferSink) Finalize() []byte {
	buf := s.buf
	s.buf = nil
	s.released = true
	return buf
}

// Bytes exposes the buffer sink's current backing storage without
// transferring ownership, for tests and diagnostics.
func (s *BufferSink) Bytes() []byte {
	return s.buf
}
