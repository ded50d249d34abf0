// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

// PrefixedResourcePathsSize returns the path-block size PrefixResourcePaths
// needs to rewrite count resources' paths with prefix prepended: the
// current block size plus one prefix per resource.
func PrefixedResourcePathsSize(paths PathsInfo, count int, prefix string) int {
	return int(paths.Size) + count*len(prefix)
}

// PrefixResourcePaths rewrites resources' paths in place, right to left,
// prepending prefix to each one within the single buf buffer. buf must be
// the cluster buffer the path block at paths.Offset lives in, sized at
// least PrefixedResourcePathsSize(paths, len(resources), prefix) bytes
// beyond paths.Offset; resources must be in the same order the path
// block's offsets were originally assigned in.
//
// The right-to-left walk means every byte it copies moves strictly
// forward, so source and destination ranges never alias destructively
// even though they overlap.
func PrefixResourcePaths(paths PathsInfo, resources []Resource, buf []byte, prefix string) bool {
	count := len(resources)
	pathsStart := int(paths.Offset)
	needed := PrefixedResourcePathsSize(paths, count, prefix)
	if len(buf) < pathsStart+needed {
		return false
	}

	block := buf[pathsStart : pathsStart+int(paths.Size)]
	lastNonZero := -1
	for i := len(block) - 1; i >= 0; i-- {
		if block[i] != 0 {
			lastNonZero = i
			break
		}
	}
	pathsEnd := lastNonZero + 1
	exEnd := pathsEnd + count*len(prefix)

	for i := count - 1; i >= 0; i-- {
		r := &resources[i]
		buf[pathsStart+exEnd] = 0

		exEnd -= int(r.PathSize)
		copy(buf[pathsStart+exEnd:], buf[pathsStart+int(r.PathOffset):pathsStart+int(r.PathOffset)+int(r.PathSize)])

		exEnd -= len(prefix)
		copy(buf[pathsStart+exEnd:], prefix)

		r.PathOffset = uint32(exEnd)
		r.PathSize += uint16(len(prefix))

		exEnd--
	}

	return exEnd+1 == 0
}
