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
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"gups/internal/pagemap"
	"gups/internal/sink"
)

// normChunk converts raw updates/second into GUPS (gibi-updates/second).
const normChunk = 1 << 30

// Reporter is the single cooperative loop of an iteration. It multiplexes
// three event sources: worker progress records, the periodic throughput
// tick, and the result of an offloaded residency sample. Residency sampling
// blocks on kernel files (and, on first use, on the privileged helper), so
// each sample runs in its own goroutine and only its result re-enters the
// loop; the loop itself never blocks on anything but the select.
type Reporter struct {
	Label          string
	ReportEvery    time.Duration // 0 disables throughput ticks
	ResidencyEvery time.Duration // 0 disables residency ticks
	ResidencyChunk uint64        // bytes per residency ratio chunk
	Pid            int
	Region         pagemap.Region
	Sink           sink.Sink

	// sampleResidency is swapped by tests; nil selects
	// pagemap.SampleResidency.
	sampleResidency func(pid int, region pagemap.Region, chunkBytes uint64) ([]float64, error)
}

// Run consumes progress records until the channel closes, which is the sole
// termination signal: all producers are gone once every update has been
// issued. It returns the cumulative number of updates observed.
func (r *Reporter) Run(progress <-chan int) int64 {
	var gupsTick, residencyTick <-chan time.Time
	if r.ReportEvery > 0 {
		t := time.NewTicker(r.ReportEvery)
		defer t.Stop()
		gupsTick = t.C
	}
	if r.ResidencyEvery > 0 {
		t := time.NewTicker(r.ResidencyEvery)
		defer t.Stop()
		residencyTick = t.C
	}

	sample := r.sampleResidency
	if sample == nil {
		sample = pagemap.SampleResidency
	}

	// Result channel for offloaded residency samples. Capacity 1 so a
	// sample finishing right as the loop exits never leaks its goroutine.
	results := make(chan []float64, 1)
	sampling := false

	var total, interval int64
	start := time.Now()
	log.Infof("iteration %s reporting loop started", r.Label)

loop:
	for {
		select {
		case c, ok := <-progress:
			if !ok {
				// All workers finished; designed completion, not an error.
				break loop
			}
			total += int64(c)
			interval += int64(c)
			observeProgress(r.Label, c)

		case <-gupsTick:
			hitherto := float64(total) / time.Since(start).Seconds() / normChunk
			instantaneous := float64(interval) / r.ReportEvery.Seconds() / normChunk
			log.WithFields(logrus.Fields{
				"iteration":     r.Label,
				"hitherto":      hitherto,
				"instantaneous": instantaneous,
			}).Infof("GUPS: iteration %s hitherto %.6f instantaneous %.6f", r.Label, hitherto, instantaneous)
			observeRates(r.Label, hitherto, instantaneous)
			interval = 0

		case <-residencyTick:
			if sampling {
				// Previous sample still in flight; skip this tick rather
				// than queue overlapping reads of the same page tables.
				continue
			}
			sampling = true
			go func(region pagemap.Region, chunk uint64) {
				ratios, err := sample(r.Pid, region, chunk)
				if err != nil {
					// Residency introspection failures are fatal to the
					// run: the benchmark was asked to measure something
					// it cannot.
					log.Fatalf("residency sample failed: %v", err)
				}
				results <- ratios
			}(r.Region, r.ResidencyChunk)

		case ratios := <-results:
			sampling = false
			log.Infof("iteration %s fast-tier portion per chunk: %v", r.Label, ratios)
			observeResidency(r.Label, ratios)
		}
	}

	elapsed := time.Since(start)
	rate := float64(total) / elapsed.Seconds() / normChunk
	log.WithFields(logrus.Fields{
		"iteration": r.Label,
		"gups":      rate,
		"elapsed":   elapsed,
	}).Infof("GUPS: iteration %s final %.6f elapsed %v", r.Label, rate, elapsed)

	if r.Sink != nil {
		summary := sink.Summary{
			Iteration: r.Label,
			Updates:   total,
			Elapsed:   elapsed,
			Rate:      rate,
			When:      time.Now(),
		}
		if err := r.Sink.Record(context.Background(), summary); err != nil {
			log.Warnf("recording summary for iteration %s: %v", r.Label, err)
		}
	}
	return total
}
