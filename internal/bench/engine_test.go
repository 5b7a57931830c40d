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
	"math/rand/v2"
	"testing"
	"unsafe"

	"gups"
)

// fixedSampler always returns the same element index. With a single worker
// this makes engine output fully deterministic.
type fixedSampler struct{ idx int64 }

func (f fixedSampler) Sample(*rand.Rand) int64 { return f.idx }

func runEngine(t *testing.T, e *Engine) int64 {
	t.Helper()
	progress := make(chan int, e.ProgressCapacity())
	go func() {
		e.Run(progress)
		close(progress)
	}()
	var total int64
	for n := range progress {
		if n <= 0 {
			t.Errorf("progress record = %d, want positive", n)
		}
		total += int64(n)
	}
	return total
}

func counterAt(buf []byte, granularity int, idx int64) (lo, hi uint64) {
	p := unsafe.Pointer(&buf[idx*int64(granularity)])
	switch granularity {
	case 1:
		return uint64(*(*uint8)(p)), 0
	case 2:
		return uint64(*(*uint16)(p)), 0
	case 4:
		return uint64(*(*uint32)(p)), 0
	case 8:
		return *(*uint64)(p), 0
	case 16:
		return *(*uint64)(p), *(*uint64)(unsafe.Add(p, 8))
	}
	panic("unsupported granularity")
}

func TestNewEngine_Validation(t *testing.T) {
	buf := make([]byte, 64)
	sampler := fixedSampler{}
	testCases := []struct {
		name        string
		workers     int
		updates     int64
		granularity int
		buf         []byte
	}{
		{"ZeroWorkers", 0, 10, 1, buf},
		{"NegativeUpdates", 1, -1, 1, buf},
		{"BadGranularity", 1, 10, 3, buf},
		{"BufferTooSmall", 1, 10, 16, make([]byte, 8)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewEngine(tc.workers, tc.updates, tc.granularity, tc.buf, sampler, 1); err == nil {
				t.Error("NewEngine succeeded, want error")
			}
		})
	}
}

// TestEngine_SingleWorkerCounts hammers one element per granularity and
// checks the counter value afterwards. counterAt reads with the engine's own
// element layout, so the check is endianness independent.
func TestEngine_SingleWorkerCounts(t *testing.T) {
	const updates = 1000
	for _, g := range []int{1, 2, 4, 8, 16} {
		buf := make([]byte, 64)
		e, err := NewEngine(1, updates, g, buf, fixedSampler{idx: 2}, 1)
		if err != nil {
			t.Fatalf("g=%d: NewEngine returned error: %v", g, err)
		}
		if total := runEngine(t, e); total != updates {
			t.Errorf("g=%d: progress total = %d, want %d", g, total, updates)
		}
		lo, hi := counterAt(buf, g, 2)
		var want uint64 = updates
		if g == 1 {
			want = updates % 256
		}
		if lo != want || hi != 0 {
			t.Errorf("g=%d: counter = (%d, %d), want (%d, 0)", g, lo, hi, want)
		}
	}
}

// TestEngine_Wraparound prefills one element with its maximum value and
// verifies a single update rolls it over to zero. For 16-byte elements the
// carry must propagate into the high half.
func TestEngine_Wraparound(t *testing.T) {
	for _, g := range []int{1, 2, 4, 8, 16} {
		buf := make([]byte, 32)
		carry := g
		if g == 16 {
			// Saturate only the low half so the carry lands in the high one.
			carry = 8
		}
		for i := 0; i < carry; i++ {
			buf[i] = 0xff
		}
		e, err := NewEngine(1, 1, g, buf, fixedSampler{idx: 0}, 1)
		if err != nil {
			t.Fatalf("g=%d: NewEngine returned error: %v", g, err)
		}
		runEngine(t, e)
		lo, hi := counterAt(buf, g, 0)
		wantLo, wantHi := uint64(0), uint64(0)
		if g == 16 {
			wantHi = 1
		}
		if lo != wantLo || hi != wantHi {
			t.Errorf("g=%d: counter = (%d, %d), want (%d, %d)", g, lo, hi, wantLo, wantHi)
		}
	}
}

// TestEngine_ProgressTotal verifies the sum of progress records equals the
// configured update count exactly, including counts that are not multiples
// of the chunk size, across worker counts.
func TestEngine_ProgressTotal(t *testing.T) {
	sampler, err := gups.NewUniform(0, 1<<12)
	if err != nil {
		t.Fatalf("NewUniform returned error: %v", err)
	}
	buf := make([]byte, 1<<12)
	for _, workers := range []int{1, 2, 8} {
		for _, updates := range []int64{0, 1, progressChunk, progressChunk + 1, 100003} {
			e, err := NewEngine(workers, updates, 1, buf, sampler, 42)
			if err != nil {
				t.Fatalf("NewEngine returned error: %v", err)
			}
			if total := runEngine(t, e); total != updates {
				t.Errorf("workers=%d updates=%d: progress total = %d", workers, updates, total)
			}
		}
	}
}

// TestEngine_TouchesAllElements runs enough uniform updates over a tiny
// region that every element should be hit at least once.
func TestEngine_TouchesAllElements(t *testing.T) {
	const elems = 16
	sampler, err := gups.NewUniform(0, elems)
	if err != nil {
		t.Fatalf("NewUniform returned error: %v", err)
	}
	buf := make([]byte, elems*8)
	e, err := NewEngine(4, 20000, 8, buf, sampler, 7)
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	runEngine(t, e)
	for i := int64(0); i < elems; i++ {
		if lo, _ := counterAt(buf, 8, i); lo == 0 {
			t.Errorf("element %d was never updated", i)
		}
	}
}
