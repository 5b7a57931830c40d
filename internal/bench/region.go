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

	"golang.org/x/sys/unix"
)

// Region is the single shared memory buffer all updates target. It is an
// anonymous private mapping rather than a Go-heap allocation so its address
// is stable for the process lifetime (the GC never moves it) and so it
// corresponds to exactly one entry in /proc/<pid>/maps for residency
// sampling.
type Region struct {
	buf []byte
}

// regionFill is the byte every freshly mapped region is primed with; the
// writes fault every page in so the first iteration does not measure page
// allocation.
const regionFill = 0xdd

// NewRegion maps and primes a buffer of the given length.
func NewRegion(length int64) (*Region, error) {
	if length <= 0 {
		return nil, fmt.Errorf("region: length must be positive, got %d", length)
	}
	buf, err := unix.Mmap(-1, 0, int(length), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("region: mmap %d bytes: %w", length, err)
	}
	for i := range buf {
		buf[i] = regionFill
	}
	return &Region{buf: buf}, nil
}

// Bytes returns the backing slice. Workers write to it concurrently without
// synchronization; after a run its contents are not meaningful.
func (r *Region) Bytes() []byte { return r.buf }

// Addr returns the region's starting virtual address.
func (r *Region) Addr() uintptr { return uintptr(unsafe.Pointer(&r.buf[0])) }

// Len returns the region length in bytes.
func (r *Region) Len() int64 { return int64(len(r.buf)) }

// Close unmaps the region. The region must not be used afterwards.
func (r *Region) Close() error {
	if r.buf == nil {
		return nil
	}
	err := unix.Munmap(r.buf)
	r.buf = nil
	return err
}
