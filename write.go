// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import (
	"github.com/iceshard-engine/hailstorm/internal/emit"
	"github.com/iceshard-engine/hailstorm/internal/planner"
	"github.com/iceshard-engine/hailstorm/internal/wire"
)

func toDataViews(ds []Data) []planner.DataView {
	views := make([]planner.DataView, len(ds))
	for i, d := range ds {
		views[i] = planner.DataView{Bytes: d.Bytes, Size: d.Size, Align: d.Align}
	}
	return views
}

func toMetadataBytes(ds []Data) [][]byte {
	out := make([][]byte, len(ds))
	for i, d := range ds {
		out[i] = d.Bytes
	}
	return out
}

func adaptSelect(f ChunkSelectFunc) planner.SelectFunc {
	return func(meta []byte, data planner.DataView, chunks []wire.Chunk) planner.ChunkRef {
		ref := f(Data{Bytes: meta, Size: uint32(len(meta))}, Data{Bytes: data.Bytes, Size: data.Size, Align: data.Align}, chunks)
		return planner.ChunkRef{
			DataChunk:  ref.DataChunk,
			MetaChunk:  ref.MetaChunk,
			DataCreate: ref.DataCreate,
			MetaCreate: ref.MetaCreate,
		}
	}
}

func adaptCreate(f ChunkCreateFunc) planner.CreateFunc {
	return func(meta []byte, data planner.DataView, base wire.Chunk) wire.Chunk {
		return f(Data{Bytes: meta, Size: uint32(len(meta))}, Data{Bytes: data.Bytes, Size: data.Size, Align: data.Align}, base)
	}
}

func headerFields(data WriteData) emit.HeaderFields {
	return emit.HeaderFields{
		Version:            data.Version,
		Flags:              data.Flags,
		PackSliceAlignment: data.PackSliceAlignment,
		PackID:             data.PackID,
		PackExpansionVer:   data.PackExpansionVer,
		PackPatchVer:       data.PackPatchVer,
		AppCustomValues:    data.AppCustomValues,
	}
}

func buildPlan(params WriteParams, data WriteData) planner.Plan {
	in := planner.Input{
		Paths:               data.Paths,
		Data:                toDataViews(data.Data),
		Metadata:            toMetadataBytes(data.Metadata),
		Mapping:             data.MetaMapping,
		InitialChunks:       append([]Chunk(nil), params.InitialChunks...),
		Select:              adaptSelect(params.selectChunk()),
		Create:              adaptCreate(params.createChunk()),
		EstimatedChunkCount: params.EstimatedChunkCount,
		Logger:              params.logger(),
	}
	return planner.Build(in)
}

func perResourceSizes(data WriteData) (aligns, sizes []uint32) {
	n := len(data.Data)
	aligns = make([]uint32, n)
	sizes = make([]uint32, n)
	for i, d := range data.Data {
		aligns[i] = d.Align
		sizes[i] = d.effectiveSize()
	}
	return
}

// totalSize lays out a copy of the planned chunks exactly as Emit will,
// purely to learn the cluster's final byte size before the destination
// buffer is allocated.
func totalSize(plan planner.Plan, resourceCount int) int64 {
	offsets := emit.ComputeOffsets(len(plan.Chunks), resourceCount, plan.PathBlockSize)
	scratch := append([]wire.Chunk(nil), plan.Chunks...)
	return emit.PlaceChunks(scratch, offsets.Data)
}

// WriteCluster packs data into a single in-memory cluster buffer,
// running the planner's two-pass chunk assignment and then emitting
// every region and resource through an owned buffer sink. The returned
// buffer was obtained from params.Allocator (DefaultAllocator when
// params.Allocator is nil); the caller owns it.
func WriteCluster(params WriteParams, data WriteData) ([]byte, error) {
	plan := buildPlan(params, data)
	n := len(data.Data)

	if plan.RequiresResourceWriteCallback && params.ResourceWrite == nil {
		panic("hailstorm: WriteCluster requires a ResourceWrite callback for streamed resource data")
	}
	for _, c := range plan.Chunks {
		if c.Type == TypeAppSpecific && params.CustomChunkWrite == nil {
			panic("hailstorm: WriteCluster requires a CustomChunkWrite callback for an app-specific chunk")
		}
	}

	resourceViews := make([]emit.ResourceView, n)
	for i, d := range data.Data {
		resourceViews[i] = emit.ResourceView{Bytes: d.Bytes, Size: d.effectiveSize()}
	}
	chunkSizes := make([]uint64, len(plan.Chunks))
	for i, c := range plan.Chunks {
		chunkSizes[i] = c.Size
	}

	var resourceWrite emit.ResourceWriteFunc
	if params.ResourceWrite != nil {
		resourceWrite = func(resourceIndex int, dest []byte) bool {
			return params.ResourceWrite(data, resourceIndex, dest)
		}
	}
	var customChunkWrite emit.CustomChunkWriteFunc
	if params.CustomChunkWrite != nil {
		customChunkWrite = func(chunkIndex int, dest []byte) bool {
			return params.CustomChunkWrite(data, plan.Chunks[chunkIndex], dest)
		}
	}

	total := totalSize(plan, n)
	alloc := params.allocator()
	mem := alloc.Allocate(int(total))

	sink := emit.NewBufferSink(mem.Bytes, resourceViews, chunkSizes, resourceWrite, customChunkWrite)

	dataAligns, dataSizes := perResourceSizes(data)
	buf, ok := emit.Emit(emit.Input{
		Chunks:        plan.Chunks,
		References:    plan.References,
		PathBlockSize: plan.PathBlockSize,
		Paths:         data.Paths,
		Metadata:      toMetadataBytes(data.Metadata),
		DataAligns:    dataAligns,
		DataSizes:     dataSizes,
		Mapping:       data.MetaMapping,
		Header:        headerFields(data),
		Sink:          sink,
	})
	if !ok {
		alloc.Deallocate(mem)
		return nil, ErrWriteAborted
	}
	return buf, nil
}

// asyncSinkAdapter bridges a caller's AsyncSink -- whose write methods
// take the whole WriteData plus an index, so it can look up whatever it
// needs to stream -- into emit.Sink, whose methods the emitter calls
// with only bytes it already has in hand or a bare index.
type asyncSinkAdapter struct {
	sink        AsyncSink
	data        WriteData
	plan        planner.Plan
	closeFailed bool
}

func (a *asyncSinkAdapter) WriteRegion(b []byte, offset int64) bool {
	return a.sink.WriteHeader(b, offset)
}

func (a *asyncSinkAdapter) WriteMetadata(b []byte, metaIndex int, offset int64) bool {
	return a.sink.WriteMetadata(a.data, metaIndex, offset)
}

func (a *asyncSinkAdapter) WriteResource(resourceIndex int, offset int64) bool {
	return a.sink.WriteResource(a.data, resourceIndex, offset)
}

func (a *asyncSinkAdapter) WriteCustomChunk(chunkIndex int, offset int64) bool {
	return a.sink.WriteCustomChunk(a.data, a.plan.Chunks[chunkIndex], offset)
}

func (a *asyncSinkAdapter) Finalize() []byte {
	if !a.sink.Close() {
		a.closeFailed = true
	}
	return nil
}

// WriteClusterAsync drives the same planner and emitter as WriteCluster,
// but against a caller-supplied AsyncSink instead of an owned buffer --
// the caller decides where bytes ultimately land (a file, a socket, a
// staged upload) and streams a resource's or metadata record's bytes
// itself rather than handing the core an in-memory copy.
func WriteClusterAsync(params AsyncWriteParams, data WriteData) error {
	wp := WriteParams{
		InitialChunks:       params.InitialChunks,
		SelectChunk:         params.SelectChunk,
		CreateChunk:         params.CreateChunk,
		EstimatedChunkCount: params.EstimatedChunkCount,
		Logger:              params.Logger,
	}
	plan := buildPlan(wp, data)
	n := len(data.Data)

	total := totalSize(plan, n)
	if !params.Sink.Open(int(total)) {
		return ErrWriteAborted
	}

	adapter := &asyncSinkAdapter{sink: params.Sink, data: data, plan: plan}

	dataAligns, dataSizes := perResourceSizes(data)
	_, ok := emit.Emit(emit.Input{
		Chunks:        plan.Chunks,
		References:    plan.References,
		PathBlockSize: plan.PathBlockSize,
		Paths:         data.Paths,
		Metadata:      toMetadataBytes(data.Metadata),
		DataAligns:    dataAligns,
		DataSizes:     dataSizes,
		Mapping:       data.MetaMapping,
		Header:        headerFields(data),
		Sink:          adapter,
	})
	if !ok || adapter.closeFailed {
		return ErrWriteAborted
	}
	return nil
}
