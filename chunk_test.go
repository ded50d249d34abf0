// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultChunkSelectRequestsCreateOnEmptySet(t *testing.T) {
	ref := DefaultChunkSelect(Data{}, Data{}, nil)
	require.True(t, ref.DataCreate)
	require.False(t, ref.MetaCreate)
	require.EqualValues(t, 0, ref.DataChunk)
	require.EqualValues(t, 0, ref.MetaChunk)
}

func TestDefaultChunkSelectPicksLastChunk(t *testing.T) {
	chunks := []Chunk{{}, {}, {}}
	ref := DefaultChunkSelect(Data{}, Data{}, chunks)
	require.EqualValues(t, 2, ref.DataChunk)
	require.EqualValues(t, 2, ref.MetaChunk)
	require.False(t, ref.DataCreate)
	require.False(t, ref.MetaCreate)
}

func TestDefaultChunkCreateSizesToDefault(t *testing.T) {
	c := DefaultChunkCreate(Data{}, NewData([]byte{1, 2, 3, 4}, 4), Chunk{})
	require.EqualValues(t, DefaultChunkSize, c.Size)
	require.Equal(t, TypeMixed, c.Type)
	require.EqualValues(t, 8, c.Align)
}

func TestDefaultChunkCreateGrowsForOversizedResource(t *testing.T) {
	big := make([]byte, DefaultChunkSize+1024)
	c := DefaultChunkCreate(Data{}, NewData(big, 8), Chunk{})
	require.EqualValues(t, len(big), c.Size)
}
