// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceshard-engine/hailstorm/internal/wire"
)

const testChunkCapacity = 32 * 1024

func selectLast(_ []byte, _ DataView, chunks []wire.Chunk) ChunkRef {
	if len(chunks) == 0 {
		return ChunkRef{DataCreate: true}
	}
	last := len(chunks) - 1
	return ChunkRef{DataChunk: last, MetaChunk: last}
}

func createMixed(_ []byte, _ DataView, _ wire.Chunk) wire.Chunk {
	return wire.Chunk{Size: testChunkCapacity, Align: 8, Type: wire.TypeMixed, Persistence: 1}
}

// TestScenarioS1 mirrors a single resource with 4-byte data (align 4)
// and 4 bytes of metadata landing in one mixed chunk: metadata is
// written first, so the data starts right after it at offset 4.
func TestScenarioS1(t *testing.T) {
	plan := Build(Input{
		Paths:    []string{"a"},
		Data:     []DataView{{Bytes: []byte{1, 2, 3, 4}, Align: 4}},
		Metadata: [][]byte{{9, 9, 9, 9}},
		Select:   selectLast,
		Create:   createMixed,
	})

	require.Len(t, plan.Chunks, 1)
	require.Equal(t, wire.TypeMixed, plan.Chunks[0].Type)
	require.Len(t, plan.References, 1)
	require.EqualValues(t, 0, plan.References[0].DataChunk)
	require.EqualValues(t, 0, plan.References[0].MetaChunk)
}

// TestScenarioS3 mirrors three 12 KiB resources forcing a second chunk
// once the chunk's capacity (smaller here so the test stays cheap) is
// exceeded.
func TestScenarioS3(t *testing.T) {
	const resourceSize = 12 * 1024
	data := make([]byte, resourceSize)

	plan := Build(Input{
		Paths: []string{"a", "b", "c"},
		Data: []DataView{
			{Bytes: data, Align: 8},
			{Bytes: data, Align: 8},
			{Bytes: data, Align: 8},
		},
		Metadata: [][]byte{{}, {}, {}},
		Select:   selectLast,
		Create:   createMixed,
	})

	require.Len(t, plan.Chunks, 2)
	require.EqualValues(t, 0, plan.References[0].DataChunk)
	require.EqualValues(t, 0, plan.References[1].DataChunk)
	require.EqualValues(t, 1, plan.References[2].DataChunk)
}

func TestSharedMetadataMapping(t *testing.T) {
	plan := Build(Input{
		Paths: []string{"a", "b"},
		Data: []DataView{
			{Bytes: []byte{1, 2, 3, 4}, Align: 4},
			{Bytes: []byte{5, 6, 7, 8}, Align: 4},
		},
		Metadata: [][]byte{{9, 9, 9, 9}},
		Mapping:  []uint32{0, 0},
		Select:   selectLast,
		Create:   createMixed,
	})

	require.Len(t, plan.Chunks, 1)
	require.False(t, plan.References[0].SharedMetadata)
	require.True(t, plan.References[1].SharedMetadata)
	require.Equal(t, plan.References[0].MetaChunk, plan.References[1].MetaChunk)
}

func TestStreamedResourceRequiresCallback(t *testing.T) {
	plan := Build(Input{
		Paths:    []string{"a"},
		Data:     []DataView{{Size: 16, Align: 4}},
		Metadata: [][]byte{nil},
		Select:   selectLast,
		Create:   createMixed,
	})
	require.True(t, plan.RequiresResourceWriteCallback)
}

func TestPathsDataLengthMismatchPanics(t *testing.T) {
	require.Panics(t, func() {
		Build(Input{
			Paths:    []string{"a", "b"},
			Data:     []DataView{{Bytes: []byte{1}, Align: 1}},
			Metadata: [][]byte{{}},
			Select:   selectLast,
			Create:   createMixed,
		})
	})
}

// TestRemainingCapacityAccountsForAlignmentPad pins down a chunk whose
// used bytes sit within one alignment unit of its declared capacity: a
// remaining-capacity check that ignores the pad the next entry's
// alignment would require wrongly judges it as fitting and packs the
// resource past the chunk's capacity instead of growing the chunk set.
func TestRemainingCapacityAccountsForAlignmentPad(t *testing.T) {
	initial := []wire.Chunk{{Size: 16, Align: 8, Type: wire.TypeMixed}}

	plan := Build(Input{
		Paths: []string{"a", "b"},
		Data: []DataView{
			{Bytes: make([]byte, 9), Align: 1},
			{Bytes: make([]byte, 7), Align: 8},
		},
		Metadata:      [][]byte{{}, {}},
		InitialChunks: initial,
		Select:        selectLast,
		Create:        createMixed,
	})

	require.Len(t, plan.Chunks, 2)
	require.EqualValues(t, 0, plan.References[0].DataChunk)
	require.EqualValues(t, 1, plan.References[1].DataChunk)
}

func TestCreateChunkWrongTypePanics(t *testing.T) {
	badCreate := func(_ []byte, _ DataView, _ wire.Chunk) wire.Chunk {
		return wire.Chunk{Size: testChunkCapacity, Align: 8, Type: wire.TypeMetadata}
	}
	require.Panics(t, func() {
		Build(Input{
			Paths:    []string{"a"},
			Data:     []DataView{{Bytes: []byte{1, 2, 3, 4}, Align: 4}},
			Metadata: [][]byte{{}},
			Select:   selectLast,
			Create:   badCreate,
		})
	})
}
