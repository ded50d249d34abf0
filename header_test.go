// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceshard-engine/hailstorm/internal/wire"
)

func TestReadHeaderRejectsShortInput(t *testing.T) {
	_, err := ReadHeader(nil)
	require.ErrorIs(t, err, ErrInvalidPackData)

	_, err = ReadHeader([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidPackData)
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, 64)
	_, err := ReadHeader(buf)
	require.ErrorIs(t, err, ErrInvalidPackData)
}

func TestReadHeaderRejectsUnrecognizedHeaderVersion(t *testing.T) {
	params := WriteParams{}
	data := WriteData{
		Paths:    []string{"a"},
		Data:     []Data{NewData([]byte{1, 2, 3, 4}, 4)},
		Metadata: []Data{NewData([]byte{9, 9, 9, 9}, 4)},
	}
	buf, err := WriteCluster(params, data)
	require.NoError(t, err)

	buf[4] = 0xFF
	_, err = ReadHeader(buf)
	require.ErrorIs(t, err, ErrInvalidPackData)
}

func TestReadHeaderRejectsTruncatedHeader(t *testing.T) {
	params := WriteParams{}
	data := WriteData{
		Paths:    []string{"a"},
		Data:     []Data{NewData([]byte{1, 2, 3, 4}, 4)},
		Metadata: []Data{NewData([]byte{9, 9, 9, 9}, 4)},
	}
	buf, err := WriteCluster(params, data)
	require.NoError(t, err)

	_, err = ReadHeader(buf[:32])
	require.ErrorIs(t, err, ErrIncompleteHeaderData)
}

func TestReadHeaderRejectsEmptyPack(t *testing.T) {
	params := WriteParams{}
	data := WriteData{
		Paths:    []string{"a"},
		Data:     []Data{NewData([]byte{1, 2, 3, 4}, 4)},
		Metadata: []Data{NewData([]byte{9, 9, 9, 9}, 4)},
	}
	buf, err := WriteCluster(params, data)
	require.NoError(t, err)

	binary.LittleEndian.PutUint16(buf[36:38], 0)
	_, err = ReadHeader(buf)
	require.ErrorIs(t, err, ErrEmptyPack)
}

func TestReadHeaderRejectsOversizedLastChunk(t *testing.T) {
	params := WriteParams{}
	data := WriteData{
		Paths:    []string{"a"},
		Data:     []Data{NewData([]byte{1, 2, 3, 4}, 4)},
		Metadata: []Data{NewData([]byte{9, 9, 9, 9}, 4)},
	}
	buf, err := WriteCluster(params, data)
	require.NoError(t, err)

	chunksOff := wire.HeaderSize + wire.PathsInfoSize
	binary.LittleEndian.PutUint64(buf[chunksOff:chunksOff+8], math.MaxUint64)
	_, err = ReadHeader(buf)
	require.ErrorIs(t, err, ErrLargePackNotSupported)
}

func TestReadHeaderRoundTripsWriteCluster(t *testing.T) {
	params := WriteParams{}
	data := WriteData{
		Paths: []string{"a", "b"},
		Data: []Data{
			NewData([]byte{1, 2, 3, 4}, 4),
			NewData([]byte{5, 6, 7, 8, 9, 10}, 2),
		},
		Metadata: []Data{
			NewData([]byte{0xAA, 0xBB}, 1),
			NewData([]byte{0xCC, 0xDD}, 1),
		},
	}
	buf, err := WriteCluster(params, data)
	require.NoError(t, err)

	cluster, err := ReadHeader(buf)
	require.NoError(t, err)
	require.EqualValues(t, 1, cluster.Header.CountChunks)
	require.EqualValues(t, 2, cluster.Header.CountResources)
	require.Len(t, cluster.Chunks, 1)
	require.Len(t, cluster.Resources, 2)
	require.Equal(t, "a", cluster.Path(0))
	require.Equal(t, "b", cluster.Path(1))

	require.NoError(t, ValidatePathBlock(cluster.Resources, cluster.PathData))
}
