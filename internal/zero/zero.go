// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package zero provides functions to zero slices of specific types, and
// to fill a []uint32 with a sentinel value.
package zero

func Bytes(b []byte) {
	for i := 0; i < len(b); i++ {
		b[i] = 0
	}
}

func ByteSlices(b [][]byte) {
	for i := 0; i < len(b); i++ {
		b[i] = nil
	}
}

func U32(b []uint32) {
	for i := 0; i < len(b); i++ {
		b[i] = 0
	}
}

// FillU32 sets every element of b to v, for scratch arrays whose "empty"
// sentinel isn't the zero value -- the planner's and emitter's
// first-occurrence trackers use math.MaxUint32 for that reason.
func FillU32(b []uint32, v uint32) {
	for i := range b {
		b[i] = v
	}
}
