// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package integrity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyAcceptsMatchingDigest(t *testing.T) {
	b := []byte("resource bytes")
	require.True(t, Verify(b, Digest(b)))
}

func TestVerifyRejectsTamperedBytes(t *testing.T) {
	b := []byte("resource bytes")
	d := Digest(b)
	require.False(t, Verify([]byte("resource Bytes"), d))
}

func TestNewManifestRejectsMismatchedLengths(t *testing.T) {
	_, err := NewManifest([]string{"a", "b"}, [][]byte{{1}})
	require.Error(t, err)
}

func TestVerifyAllPassesWhenEveryEntryMatches(t *testing.T) {
	paths := []string{"a", "b"}
	blobs := [][]byte{[]byte("one"), []byte("two")}
	m, err := NewManifest(paths, blobs)
	require.NoError(t, err)

	bad, err := VerifyAll(m, paths, blobs)
	require.NoError(t, err)
	require.Equal(t, "", bad)
}

func TestVerifyAllReportsFirstMismatch(t *testing.T) {
	paths := []string{"a", "b"}
	blobs := [][]byte{[]byte("one"), []byte("two")}
	m, err := NewManifest(paths, blobs)
	require.NoError(t, err)

	tampered := [][]byte{[]byte("one"), []byte("TWO")}
	bad, err := VerifyAll(m, paths, tampered)
	require.Error(t, err)
	require.Equal(t, "b", bad)
}

func TestVerifyAllReportsUnknownPath(t *testing.T) {
	m, err := NewManifest([]string{"a"}, [][]byte{[]byte("one")})
	require.NoError(t, err)

	bad, err := VerifyAll(m, []string{"missing"}, [][]byte{[]byte("one")})
	require.Error(t, err)
	require.Equal(t, "missing", bad)
}
