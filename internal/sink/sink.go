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

// Package sink records final per-iteration benchmark summaries to an
// external destination so runs can be collected and compared across hosts.
// The default sink only logs; a Redis-backed sink is selected when an
// address is configured. Sinks are best-effort: a failed record never
// aborts a benchmark run.
package sink

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Summary is one iteration's final result.
type Summary struct {
	Iteration string        // "first", "warm up" or "last"
	Updates   int64         // total updates completed
	Elapsed   time.Duration // wall time of the iteration
	Rate      float64       // aggregate GUPS (updates / second / 2^30)
	When      time.Time     // completion timestamp
}

// Sink receives iteration summaries.
type Sink interface {
	Record(ctx context.Context, s Summary) error
}

// LogSink writes summaries to the process log. It is the dependency-free
// default so the benchmark runs without any infrastructure.
type LogSink struct{}

func (LogSink) Record(_ context.Context, s Summary) error {
	logrus.WithFields(logrus.Fields{
		"iteration": s.Iteration,
		"updates":   s.Updates,
		"elapsed":   s.Elapsed,
		"gups":      s.Rate,
	}).Info("run summary recorded")
	return nil
}

// Build constructs a Sink from a string selector. An empty redisAddr yields
// the logging sink; otherwise summaries are appended to a Redis stream at
// the given address.
func Build(redisAddr, stream string) Sink {
	if redisAddr == "" {
		return LogSink{}
	}
	return NewRedisSink(redisAddr, stream)
}
