// Copyright 2021 The bit Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package unsafestring

import (
	"reflect"
	"unsafe"
)

// ToString returns a string referring to the contents of b, without
// copying. SAFETY: b must not be modified for as long as the returned
// string is in use -- used to hand back a resource's path as a string
// without copying out of a borrowed mmap'd or otherwise caller-owned
// buffer.
func ToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	var s string
	sh := (*reflect.StringHeader)(unsafe.Pointer(&s))
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = bh.Data
	sh.Len = bh.Len
	return s
}
