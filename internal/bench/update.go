// Copyright 2026 The gups Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bench

import (
	"fmt"
	"unsafe"
)

// supportedGranularity reports whether g is a valid update width in bytes.
func supportedGranularity(g int) bool {
	switch g {
	case 1, 2, 4, 8, 16:
		return true
	}
	return false
}

// updateAt performs one non-atomic wrapping increment of the g-byte unsigned
// integer at element idx of buf. Offsets idx*g are naturally g-aligned, so
// the reinterpreting casts never produce unaligned accesses. The increments
// are plain loads and stores on purpose: workers race on the buffer and the
// written values are not meaningful, only the operation count is.
func updateAt(buf []byte, g int, idx int64) {
	switch g {
	case 1:
		buf[idx]++
	case 2:
		p := (*uint16)(unsafe.Pointer(&buf[idx*2]))
		*p++
	case 4:
		p := (*uint32)(unsafe.Pointer(&buf[idx*4]))
		*p++
	case 8:
		p := (*uint64)(unsafe.Pointer(&buf[idx*8]))
		*p++
	case 16:
		// 128-bit counter as two native-endian 64-bit halves with carry.
		lo := (*uint64)(unsafe.Pointer(&buf[idx*16]))
		*lo++
		if *lo == 0 {
			hi := (*uint64)(unsafe.Pointer(&buf[idx*16+8]))
			*hi++
		}
	default:
		panic(fmt.Sprintf("bench: unsupported granularity %d", g))
	}
}
