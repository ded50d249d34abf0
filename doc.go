// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package hailstorm reads and writes Hailstorm clusters: single-file
// binary archives that group many named resources -- a blob and an
// optional metadata record each -- into fixed-layout chunks.
//
// A cluster is laid out as:
//
//	+--------+-------------+-------------+----------------+------------+------------------+
//	| header | paths_info  | chunk table | resource table | path block | chunk payloads   |
//	| 64B    | 8B          | 32B*count   | 36B*count      | padded/8   | each padded/8    |
//	+--------+-------------+-------------+----------------+------------+------------------+
//
// Building a cluster is a two-pass operation. The first pass (package
// internal/planner) walks the resource list once, deciding which chunk
// each resource's blob and metadata belong in and growing the chunk set
// on demand through caller-supplied heuristics. The second pass (package
// internal/emit) computes absolute byte offsets from the finished plan
// and performs a sequence of positioned writes against a Sink -- either
// an owned buffer (WriteCluster) or a caller-driven destination
// (WriteClusterAsync). Both sinks drive the identical write sequence.
package hailstorm
