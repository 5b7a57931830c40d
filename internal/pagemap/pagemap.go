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

package pagemap

import (
	"encoding/binary"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Entry is one 64-bit /proc/<pid>/pagemap record for a single virtual page.
// Bit 63 is the present flag; bits 0..54 hold the physical frame number.
// Reading the PFN bits requires CAP_SYS_ADMIN; without it the kernel
// reports them as zero.
type Entry uint64

const (
	entrySize  = 8
	presentBit = 1 << 63
	pfnMask    = (1 << 55) - 1
)

// Present reports whether the page is currently backed by a physical frame.
func (e Entry) Present() bool { return e&presentBit != 0 }

// PFN returns the physical frame number backing the page. Only meaningful
// when Present() is true.
func (e Entry) PFN() uint64 { return uint64(e) & pfnMask }

// PageSize returns the system page size in bytes.
func PageSize() uint64 { return uint64(unix.Getpagesize()) }

// ReadEntries reads one page-table entry per virtual page across the region,
// in address order. Entries are fetched from the kernel on every call and
// never cached; residency is expected to change between samples.
func ReadEntries(pid int, region Region) ([]Entry, error) {
	pageSize := PageSize()
	if region.Len() == 0 || region.Start%pageSize != 0 {
		return nil, fmt.Errorf("pagemap: region %#x-%#x is not page aligned", region.Start, region.End)
	}
	f, err := os.Open(fmt.Sprintf("/proc/%d/pagemap", pid))
	if err != nil {
		return nil, fmt.Errorf("pagemap: open pagemap of pid %d: %w", pid, err)
	}
	defer f.Close()

	pages := region.Len() / pageSize
	buf := make([]byte, pages*entrySize)
	offset := int64(region.Start / pageSize * entrySize)
	if _, err := f.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("pagemap: read %d entries at offset %d: %w", pages, offset, err)
	}
	entries := make([]Entry, pages)
	for i := range entries {
		entries[i] = Entry(binary.LittleEndian.Uint64(buf[i*entrySize:]))
	}
	return entries, nil
}
