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

import "fmt"

// SampleResidency computes, for each consecutive chunk of chunkBytes within
// the region, the fraction of its pages that are present and backed by a
// fast-tier frame. Ratios are returned in address order; the last chunk may
// cover fewer pages and is divided by its own page count. Each call reads
// the page-table entries afresh.
//
// This is a blocking call (file reads plus, on first use ever, the
// privileged helper); run it off any event loop.
func SampleResidency(pid int, region Region, chunkBytes uint64) ([]float64, error) {
	fastTier, err := FastTierRange()
	if err != nil {
		return nil, err
	}
	entries, err := ReadEntries(pid, region)
	if err != nil {
		return nil, err
	}
	pagesPerChunk := chunkBytes / PageSize()
	if pagesPerChunk == 0 {
		return nil, fmt.Errorf("pagemap: residency chunk %d bytes is smaller than a page", chunkBytes)
	}
	return chunkRatios(entries, fastTier, int(pagesPerChunk)), nil
}

func chunkRatios(entries []Entry, fastTier FrameRange, pagesPerChunk int) []float64 {
	ratios := make([]float64, 0, (len(entries)+pagesPerChunk-1)/pagesPerChunk)
	for start := 0; start < len(entries); start += pagesPerChunk {
		end := start + pagesPerChunk
		if end > len(entries) {
			end = len(entries)
		}
		fast := 0
		for _, e := range entries[start:end] {
			if e.Present() && fastTier.Contains(e.PFN()) {
				fast++
			}
		}
		ratios = append(ratios, float64(fast)/float64(end-start))
	}
	return ratios
}
