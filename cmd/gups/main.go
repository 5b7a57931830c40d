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

// gups is a synthetic memory benchmark. It issues a fixed number of
// read-modify-write updates at pseudo-random offsets of a large anonymous
// mapping and reports throughput in giga-updates per second, where one
// "giga" is 2^30 updates. The access pattern is selected per subcommand:
//
//	gups [flags] random
//	gups [flags] hotset -hot 1GiB -weight 9 [-reverse]
//	gups [flags] zipf -exponent 1.07 [-reverse]
//
// Each run performs three identical iterations labelled "first", "warm up"
// and "last" against the same buffer, so the effect of page placement (and
// of any external migration daemon) shows up as a rate difference between
// them. With -dram-ratio the benchmark additionally samples, at the given
// interval, what portion of the buffer is resident in the fast memory tier,
// using /proc/<pid>/pagemap and a privileged helper that prints the fast
// tier's physical frame range.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "net/http/pprof"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"gups/internal/bench"
	"gups/internal/pagemap"
	"gups/internal/sink"
)

var log = logrus.StandardLogger()

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(), "Usage: gups [flags] <random|hotset|zipf> [subcommand flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
}

func main() {
	log.SetFormatter(&logrus.TextFormatter{PadLevelText: true})

	fs := flag.NewFlagSet("gups", flag.ExitOnError)
	fs.Usage = usage(fs)
	threads := fs.Int("thread", 1, "number of worker threads")
	updates := fs.Int64("update", 1<<24, "total number of updates per iteration; progress buffering allocates 8 bytes per 4096 updates up front")
	length := fs.String("len", "1GiB", "region length (accepts size suffixes, e.g. 512MiB, 4GiB)")
	granularity := fs.Int("granularity", 8, "bytes per update: 1, 2, 4, 8 or 16")
	report := fs.Duration("report", 0, "throughput report interval; 0 disables periodic reports")
	dramRatio := fs.Duration("dram-ratio", 0, "fast-tier residency report interval; 0 disables")
	dramChunk := fs.String("dram-chunk", "1GiB", "byte span each residency ratio covers")
	dramHelper := fs.String("dram-helper", "", "override for the fast-tier range helper command")
	seed := fs.Uint64("seed", 0, "base seed for the per-worker generators; 0 derives one from the clock")
	metricsAddr := fs.String("metrics-addr", "", "listen address for Prometheus metrics and pprof; empty disables")
	redisAddr := fs.String("redis-addr", "", "Redis address for publishing iteration summaries; empty logs only")
	redisStream := fs.String("redis-stream", sink.DefaultStream, "Redis stream the summaries are appended to")
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(2)
	}

	workload, err := parseWorkload(fs.Args())
	if err != nil {
		log.Fatalf("%v", err)
	}

	regionLen, err := humanize.ParseBytes(*length)
	if err != nil {
		log.Fatalf("parsing -len: %v", err)
	}
	chunk, err := humanize.ParseBytes(*dramChunk)
	if err != nil {
		log.Fatalf("parsing -dram-chunk: %v", err)
	}
	if *dramHelper != "" {
		pagemap.SetHelperCommand(strings.Fields(*dramHelper))
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	if *metricsAddr != "" {
		bench.ServeMetrics(*metricsAddr)
	}

	cfg := bench.Config{
		Threads:        *threads,
		Updates:        *updates,
		Len:            int64(regionLen),
		Granularity:    *granularity,
		Report:         *report,
		DRAMRatio:      *dramRatio,
		ResidencyChunk: chunk,
		Seed:           *seed,
		Workload:       workload,
		Sink:           sink.Build(*redisAddr, *redisStream),
	}
	log.Infof("workload %s threads %d updates %d granularity %d", workload, cfg.Threads, cfg.Updates, cfg.Granularity)
	if err := bench.Run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// parseWorkload dispatches on the subcommand and parses its flags.
func parseWorkload(args []string) (bench.Workload, error) {
	name, rest := args[0], args[1:]
	switch name {
	case "random":
		fs := flag.NewFlagSet("random", flag.ExitOnError)
		fs.Parse(rest)
		return bench.Random{}, nil
	case "hotset":
		fs := flag.NewFlagSet("hotset", flag.ExitOnError)
		hot := fs.String("hot", "64MiB", "hot region length (accepts size suffixes)")
		weight := fs.Int64("weight", 9, "hit-frequency ratio of the hot region to the rest")
		reverse := fs.Bool("reverse", false, "place the hot region at the end of the buffer")
		fs.Parse(rest)
		hotLen, err := humanize.ParseBytes(*hot)
		if err != nil {
			return nil, fmt.Errorf("parsing -hot: %w", err)
		}
		return bench.Hotset{Hot: int64(hotLen), Weight: *weight, Reverse: *reverse}, nil
	case "zipf":
		fs := flag.NewFlagSet("zipf", flag.ExitOnError)
		exponent := fs.Float64("exponent", 1.07, "Zipf exponent; must be positive")
		reverse := fs.Bool("reverse", false, "make the last element the most frequent")
		fs.Parse(rest)
		return bench.Zipf{Exponent: *exponent, Reverse: *reverse}, nil
	default:
		return nil, fmt.Errorf("unknown workload %q, want random, hotset or zipf", name)
	}
}
