// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceshard-engine/hailstorm"
)

func TestCompressDecompressRoundTripNone(t *testing.T) {
	orig := []byte("uncompressed payload")
	compressed, size, err := Compress(AlgorithmNone, 0, orig)
	require.NoError(t, err)
	require.EqualValues(t, len(orig), size)
	require.Equal(t, orig, compressed)

	out, err := Decompress(AlgorithmNone, compressed, size)
	require.NoError(t, err)
	require.Equal(t, orig, out)
}

func TestCompressDecompressRoundTripZstd(t *testing.T) {
	orig := bytes.Repeat([]byte("hailstorm resource payload "), 64)
	compressed, size, err := Compress(AlgorithmZstd, 3, orig)
	require.NoError(t, err)
	require.EqualValues(t, len(orig), size)
	require.Less(t, len(compressed), len(orig))

	out, err := Decompress(AlgorithmZstd, compressed, size)
	require.NoError(t, err)
	require.Equal(t, orig, out)
}

func TestDecompressRejectsUnknownAlgorithm(t *testing.T) {
	_, err := Decompress(Algorithm(99), nil, 0)
	require.Error(t, err)
}

func TestDecompressResourceUsesResourceFields(t *testing.T) {
	orig := bytes.Repeat([]byte("blob"), 32)
	compressed, size, err := Compress(AlgorithmZstd, 1, orig)
	require.NoError(t, err)

	r := hailstorm.Resource{CompressionType: uint8(AlgorithmZstd), SizeOrigin: size}
	out, err := DecompressResource(r, compressed)
	require.NoError(t, err)
	require.Equal(t, orig, out)
}

func TestReaderForStreamsZstd(t *testing.T) {
	orig := bytes.Repeat([]byte("stream"), 128)
	compressed, _, err := Compress(AlgorithmZstd, 1, orig)
	require.NoError(t, err)

	rc, err := ReaderFor(AlgorithmZstd, bytes.NewReader(compressed))
	require.NoError(t, err)
	defer rc.Close()

	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, orig, out)
}

func TestReaderForNoneReturnsUnderlyingReader(t *testing.T) {
	orig := []byte("raw")
	rc, err := ReaderFor(AlgorithmNone, bytes.NewReader(orig))
	require.NoError(t, err)
	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, orig, out)
}
