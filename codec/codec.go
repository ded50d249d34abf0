// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package codec implements optional per-resource (de)compression keyed
// by a resource's CompressionType, as a caller-side sibling to the core
// write/read path -- the core itself never looks inside a resource's
// bytes.
package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/iceshard-engine/hailstorm"
)

// Algorithm identifies a resource's compression scheme, stored in the
// low 5 bits of a Resource's on-wire compression byte.
type Algorithm uint8

const (
	AlgorithmNone Algorithm = 0
	AlgorithmZstd Algorithm = 1
)

// Compress encodes b with algo at the given zstd level (ignored for
// AlgorithmNone), returning the compressed bytes and the original,
// uncompressed size -- callers use the latter to populate a resource's
// SizeOrigin field.
func Compress(algo Algorithm, level int, b []byte) (compressed []byte, originalSize uint32, err error) {
	switch algo {
	case AlgorithmNone:
		return b, uint32(len(b)), nil
	case AlgorithmZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		if err != nil {
			return nil, 0, fmt.Errorf("codec: new zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(b, nil), uint32(len(b)), nil
	default:
		return nil, 0, fmt.Errorf("codec: unknown compression algorithm %d", algo)
	}
}

// Decompress reverses Compress, given the resource's declared compressed
// and original sizes.
func Decompress(algo Algorithm, compressed []byte, originalSize uint32) ([]byte, error) {
	switch algo {
	case AlgorithmNone:
		return compressed, nil
	case AlgorithmZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("codec: new zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(compressed, make([]byte, 0, originalSize))
		if err != nil {
			return nil, fmt.Errorf("codec: zstd decode: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("codec: unknown compression algorithm %d", algo)
	}
}

// DecompressResource reverses Compress for resource r's bytes, sliced
// out of a cluster's chunk region.
func DecompressResource(r hailstorm.Resource, blob []byte) ([]byte, error) {
	return Decompress(Algorithm(r.CompressionType), blob, r.SizeOrigin)
}

// ReaderFor wraps r in a streaming zstd decompressor when algo requires
// one, for callers that want to avoid materializing the whole blob.
func ReaderFor(algo Algorithm, r io.Reader) (io.ReadCloser, error) {
	switch algo {
	case AlgorithmNone:
		return io.NopCloser(r), nil
	case AlgorithmZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("codec: new zstd decoder: %w", err)
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("codec: unknown compression algorithm %d", algo)
	}
}
