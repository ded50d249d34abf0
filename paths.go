// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import (
	"fmt"

	"github.com/iceshard-engine/hailstorm/internal/bytesutil"
	"github.com/iceshard-engine/hailstorm/internal/unsafestring"
)

// Path returns resource i's path as a string borrowed, without copying,
// from c's path block. The string is valid only as long as the bytes
// ReadHeader was given remain alive and unmodified.
func (c *ClusterData) Path(i int) string {
	r := c.Resources[i]
	b := c.PathData[r.PathOffset : r.PathOffset+uint32(r.PathSize)]
	return unsafestring.ToString(b)
}

// ValidatePathBlock cross-checks every resource's declared path against
// the NUL-terminated strings actually laid out in pathData, walking the
// block independently of the resource table's offsets the way a
// corruption check would. It returns an error naming the first resource
// whose recorded path disagrees with the block's contents.
func ValidatePathBlock(resources []Resource, pathData []byte) error {
	rest := pathData
	for i, r := range resources {
		path, tail, ok := bytesutil.Cut(rest, 0)
		if !ok {
			return fmt.Errorf("hailstorm: path block ends before resource %d's path", i)
		}
		if r.PathOffset != uint32(len(pathData)-len(rest)) {
			return fmt.Errorf("hailstorm: resource %d path_offset %d does not match block position %d", i, r.PathOffset, len(pathData)-len(rest))
		}
		if int(r.PathSize) != len(path) {
			return fmt.Errorf("hailstorm: resource %d path_size %d does not match block entry length %d", i, r.PathSize, len(path))
		}
		rest = tail
	}
	return nil
}
