// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmapfile opens a Hailstorm cluster file read-only through an
// mmap'd view, the way a long-lived asset server would rather than
// copying every cluster into heap memory on load.
package mmapfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/iceshard-engine/hailstorm"
)

// File is a read-only, mmap-backed view of a cluster on disk.
type File struct {
	data []byte
}

// Open maps path into memory and madvises the kernel that access will be
// random, matching how a resource pack is actually read: scattered
// lookups by offset, not a sequential scan.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("mmapfile: stat %s: %w", path, err)
	}
	size := info.Size()
	if size == 0 {
		return nil, fmt.Errorf("mmapfile: %s is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmapfile: mmap %s: %w", path, err)
	}

	if err := unix.Madvise(data, unix.MADV_RANDOM); err != nil {
		_ = unix.Munmap(data)
		return nil, fmt.Errorf("mmapfile: madvise %s: %w", path, err)
	}

	return &File{data: data}, nil
}

// Bytes returns the mapped cluster bytes. The returned slice is valid
// only until Close.
func (f *File) Bytes() []byte {
	return f.data
}

// Cluster parses the mapped bytes with hailstorm.ReadHeader, returning a
// view borrowed from the mapping.
func (f *File) Cluster() (*hailstorm.ClusterData, error) {
	return hailstorm.ReadHeader(f.data)
}

// Close unmaps the file. The File and any ClusterData or slices borrowed
// from it must not be used afterward.
func (f *File) Close() error {
	if f.data == nil {
		return nil
	}
	err := unix.Munmap(f.data)
	f.data = nil
	return err
}
