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
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"gups"
)

// progressChunk is how many updates a worker completes between progress
// records. It bounds both reporting latency and channel traffic.
const progressChunk = 4096

// Engine drives the parallel update loop: a fixed pool of workers claims
// chunks of the remaining update budget from a shared counter, so fast
// workers naturally take more work and no static pre-partitioning of the
// operations exists.
//
// Every worker writes to the whole buffer. There is deliberately no lock,
// no atomic and no partitioning on the data path: the benchmark measures
// gross update throughput, colliding writes are accepted, and adding
// synchronization would change the quantity being measured. The buffer's
// final contents are not meaningful; only the counted operations are.
type Engine struct {
	workers     int
	updates     int64
	granularity int
	buf         []byte
	sampler     gups.Sampler
	seed        uint64
}

// NewEngine validates the configuration and builds an engine. Pool
// construction fails fast, before any work begins, on a non-positive worker
// count or an unsupported granularity.
func NewEngine(workers int, updates int64, granularity int, buf []byte, sampler gups.Sampler, seed uint64) (*Engine, error) {
	if workers < 1 {
		return nil, fmt.Errorf("engine: worker count must be at least 1, got %d", workers)
	}
	if !supportedGranularity(granularity) {
		return nil, fmt.Errorf("engine: unsupported granularity %d, want one of 1/2/4/8/16", granularity)
	}
	if updates < 0 {
		return nil, fmt.Errorf("engine: update count must be non-negative, got %d", updates)
	}
	if int64(len(buf)) < int64(granularity) {
		return nil, fmt.Errorf("engine: buffer of %d bytes cannot hold a %d-byte element", len(buf), granularity)
	}
	return &Engine{
		workers:     workers,
		updates:     updates,
		granularity: granularity,
		buf:         buf,
		sampler:     sampler,
		seed:        seed,
	}, nil
}

// ProgressCapacity returns a channel capacity large enough to hold every
// progress record a run can produce, so worker sends never block no matter
// how far the consumer falls behind. The buffer is paid up front: one int
// slot per 4096 updates, which at very large update counts (2^40 updates,
// ~2 GiB of channel buffer) dominates the process footprint next to the
// region itself.
func (e *Engine) ProgressCapacity() int {
	return int(e.updates/progressChunk) + e.workers + 1
}

// Run executes all updates and sends one progress record per completed
// chunk. It blocks until every worker has finished; the caller owns closing
// the progress channel afterwards, which is the reporter's termination
// signal. The sum of all records sent equals the configured update count
// exactly.
func (e *Engine) Run(progress chan<- int) {
	var remaining atomic.Int64
	remaining.Store(e.updates)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			// Each worker owns its generator; only the sampler is shared.
			rng := rand.New(rand.NewPCG(e.seed, uint64(id)))
			for {
				n := int64(progressChunk)
				left := remaining.Add(-progressChunk)
				if left < 0 {
					n += left
					if n <= 0 {
						return
					}
				}
				for i := int64(0); i < n; i++ {
					updateAt(e.buf, e.granularity, e.sampler.Sample(rng))
				}
				progress <- int(n)
			}
		}(w)
	}
	wg.Wait()
}
