// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package integrity computes and verifies content digests over resource
// bytes. The core format carries no checksum field of its own (per
// spec.md's read-error taxonomy, corruption is the caller's problem);
// this package is a pure caller-side helper a packer or loader can use
// on top of WriteCluster/ReadHeader.
package integrity

import (
	"fmt"

	"github.com/opencontainers/go-digest"
)

// Digest returns the canonical (SHA-256) content digest of b.
func Digest(b []byte) digest.Digest {
	return digest.FromBytes(b)
}

// Verify reports whether b matches the expected digest.
func Verify(b []byte, want digest.Digest) bool {
	return Digest(b) == want
}

// Manifest pairs each resource's path with the digest of its stored
// (possibly compressed) bytes, letting a packer record a side-channel
// integrity manifest alongside a cluster without growing the wire
// format.
type Manifest struct {
	Entries map[string]digest.Digest
}

// NewManifest builds a Manifest from parallel paths/blobs slices.
func NewManifest(paths []string, blobs [][]byte) (*Manifest, error) {
	if len(paths) != len(blobs) {
		return nil, fmt.Errorf("integrity: %d paths but %d blobs", len(paths), len(blobs))
	}
	m := &Manifest{Entries: make(map[string]digest.Digest, len(paths))}
	for i, p := range paths {
		m.Entries[p] = Digest(blobs[i])
	}
	return m, nil
}

// VerifyAll checks each blob in blobs against the digest m records for
// the matching path in paths, returning the first path that fails to
// verify, or "" if all match. Entries of m whose path is not in paths
// are not checked.
func VerifyAll(m *Manifest, paths []string, blobs [][]byte) (string, error) {
	if len(paths) != len(blobs) {
		return "", fmt.Errorf("integrity: %d paths but %d blobs", len(paths), len(blobs))
	}
	for i, p := range paths {
		want, ok := m.Entries[p]
		if !ok {
			return p, fmt.Errorf("integrity: no digest recorded for %q", p)
		}
		if !Verify(blobs[i], want) {
			return p, fmt.Errorf("integrity: digest mismatch for %q", p)
		}
	}
	return "", nil
}
