// Copyright 2024 The Hailstorm Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package hailstorm

import "errors"

// Read-error taxonomy. ReadHeader returns one of these (unwrapped, so
// errors.Is comparisons stay direct) whenever the input fails validation;
// it never mutates its output on failure.
var (
	ErrInvalidArgument      = errors.New("hailstorm: invalid argument")
	ErrInvalidPackData      = errors.New("hailstorm: invalid pack data")
	ErrIncompleteHeaderData = errors.New("hailstorm: incomplete header data")

	// ErrIncompatiblePackData names pack data that doesn't match the
	// library version that produced it. ReadHeader never returns it: a
	// recognized magic with an unrecognized header version is data this
	// package doesn't know how to read at all, which is ErrInvalidPackData,
	// not a version it understands but declines to trust.
	ErrIncompatiblePackData  = errors.New("hailstorm: incompatible pack data")
	ErrLargePackNotSupported = errors.New("hailstorm: large pack not supported")
	ErrEmptyPack             = errors.New("hailstorm: empty pack")

	// ErrWriteAborted is returned by WriteCluster and WriteClusterAsync
	// when a sink collaborator (a resource, custom-chunk, or async write
	// callback) reports failure.
	ErrWriteAborted = errors.New("hailstorm: write aborted by sink")
)
