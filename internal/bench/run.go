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

// Package bench composes workloads into samplers, drives the parallel
// update engine over a shared memory region, and reports throughput and
// fast-tier residency per iteration.
package bench

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"gups/internal/pagemap"
	"gups/internal/sink"
)

var log = logrus.StandardLogger()

// iterationLabels name the three sequential passes over the same buffer:
// two warm-ups and the measured run.
var iterationLabels = [3]string{"first", "warm up", "last"}

// Config is the resolved benchmark configuration. It is immutable once a
// run starts.
type Config struct {
	Threads     int
	Updates     int64
	Len         int64 // region length in bytes
	Granularity int   // bytes per update: 1, 2, 4, 8 or 16

	Report    time.Duration // throughput report interval; 0 disables
	DRAMRatio time.Duration // residency report interval; 0 disables

	// ResidencyChunk is the byte span each residency ratio covers.
	// Defaults to 1 GiB when zero.
	ResidencyChunk uint64

	Seed     uint64
	Workload Workload
	Sink     sink.Sink
}

// Validate checks the configuration coherently, before any resource is
// allocated or any worker starts.
func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("config: thread count must be at least 1, got %d", c.Threads)
	}
	if !supportedGranularity(c.Granularity) {
		return fmt.Errorf("config: unsupported granularity %d, want one of 1/2/4/8/16", c.Granularity)
	}
	if c.Len < int64(c.Granularity) {
		return fmt.Errorf("config: region length %d cannot hold a %d-byte element", c.Len, c.Granularity)
	}
	if c.Updates < 1 {
		return fmt.Errorf("config: update count must be at least 1, got %d", c.Updates)
	}
	if c.Workload == nil {
		return fmt.Errorf("config: no workload selected")
	}
	return nil
}

// Run executes the whole benchmark: it allocates the region once, then runs
// the three iterations strictly sequentially against it. Any error is a
// configuration or introspection failure and aborts the run; iterations
// themselves cannot fail once started.
func Run(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.ResidencyChunk == 0 {
		cfg.ResidencyChunk = 1 << 30
	}
	if cfg.DRAMRatio > 0 {
		// Force the one-time helper resolution now so a broken helper
		// aborts before any memory is touched.
		if _, err := pagemap.FastTierRange(); err != nil {
			return err
		}
	}

	region, err := NewRegion(cfg.Len)
	if err != nil {
		return err
	}
	defer region.Close()
	log.Infof("memory %#x length %s (%d bytes)", region.Addr(), humanize.IBytes(uint64(region.Len())), region.Len())

	for _, label := range iterationLabels {
		log.Infof("iteration %s start", label)
		if err := runIteration(label, cfg, region); err != nil {
			return err
		}
	}
	return nil
}

// runIteration composes the sampler, resolves the region descriptor, and
// runs engine and reporter to completion. The descriptor is re-resolved at
// the start of each iteration; the buffer address does not change but the
// kernel mapping metadata can.
func runIteration(label string, cfg Config, region *Region) error {
	sampler, err := cfg.Workload.Compose(cfg.Granularity, region.Len())
	if err != nil {
		return err
	}
	pid := os.Getpid()
	descriptor, err := pagemap.Resolve(pid, region.Addr())
	if err != nil {
		return err
	}

	engine, err := NewEngine(cfg.Threads, cfg.Updates, cfg.Granularity, region.Bytes(), sampler, cfg.Seed)
	if err != nil {
		return err
	}
	progress := make(chan int, engine.ProgressCapacity())
	go func() {
		engine.Run(progress)
		// Dropping the producing side is the reporter's termination signal.
		close(progress)
	}()

	reporter := &Reporter{
		Label:          label,
		ReportEvery:    cfg.Report,
		ResidencyEvery: cfg.DRAMRatio,
		ResidencyChunk: cfg.ResidencyChunk,
		Pid:            pid,
		Region:         descriptor,
		Sink:           cfg.Sink,
	}
	total := reporter.Run(progress)
	if total != cfg.Updates {
		// Progress accounting is exact by construction; a mismatch means
		// a bug in the engine, not in the configuration.
		return fmt.Errorf("bench: iteration %s delivered %d progress updates, want %d", label, total, cfg.Updates)
	}
	return nil
}
