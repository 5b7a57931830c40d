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

// Package pagemap resolves which physical frames back a process's virtual
// memory. It reads /proc/<pid>/maps to locate the mapping that contains a
// given address, /proc/<pid>/pagemap for per-page presence and physical
// frame numbers, and an external privileged helper for the frame-number
// range of the fast memory tier. Everything here is blocking file and
// process I/O; callers that multiplex events must offload these calls.
package pagemap

import (
	"fmt"

	"github.com/prometheus/procfs"
)

// Region is a virtual address range [Start, End), page aligned, belonging
// to one mapping of a process.
type Region struct {
	Start uint64
	End   uint64
}

// Len returns the length of the region in bytes.
func (r Region) Len() uint64 { return r.End - r.Start }

// Contains reports whether addr falls inside the region.
func (r Region) Contains(addr uint64) bool { return addr >= r.Start && addr < r.End }

// Resolve scans the memory mappings of pid for the one containing addr.
// The benchmark buffer's address is stable for the process lifetime, but
// callers re-resolve per iteration anyway since mappings can merge or split.
func Resolve(pid int, addr uintptr) (Region, error) {
	proc, err := procfs.NewProc(pid)
	if err != nil {
		return Region{}, fmt.Errorf("pagemap: open proc %d: %w", pid, err)
	}
	maps, err := proc.ProcMaps()
	if err != nil {
		return Region{}, fmt.Errorf("pagemap: read maps of pid %d: %w", pid, err)
	}
	for _, m := range maps {
		if addr >= m.StartAddr && addr < m.EndAddr {
			return Region{Start: uint64(m.StartAddr), End: uint64(m.EndAddr)}, nil
		}
	}
	return Region{}, fmt.Errorf("pagemap: address %#x not found in any mapped region of pid %d", addr, pid)
}
