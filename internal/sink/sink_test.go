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

package sink

import (
	"context"
	"errors"
	"testing"
	"time"
)

// capturingAdder records XAdd calls in memory and can be toggled to fail.
type capturingAdder struct {
	stream    string
	values    map[string]interface{}
	returnErr bool
}

func (c *capturingAdder) XAdd(_ context.Context, stream string, values map[string]interface{}) error {
	if c.returnErr {
		return errors.New("forced adder error")
	}
	c.stream = stream
	c.values = values
	return nil
}

// TestRedisSink_Record verifies the stream entry layout: iteration label,
// update count, elapsed nanoseconds, rate, and timestamp.
func TestRedisSink_Record(t *testing.T) {
	adder := &capturingAdder{}
	s := NewRedisSinkWithClient(adder, "")

	when := time.Unix(1700000000, 42)
	sum := Summary{
		Iteration: "last",
		Updates:   1 << 20,
		Elapsed:   1500 * time.Millisecond,
		Rate:      0.000976,
		When:      when,
	}
	if err := s.Record(context.Background(), sum); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if adder.stream != DefaultStream {
		t.Errorf("stream = %q, want %q", adder.stream, DefaultStream)
	}
	if got := adder.values["iteration"]; got != "last" {
		t.Errorf("iteration = %v, want \"last\"", got)
	}
	if got := adder.values["updates"]; got != int64(1<<20) {
		t.Errorf("updates = %v, want %d", got, int64(1<<20))
	}
	if got := adder.values["elapsed_ns"]; got != sum.Elapsed.Nanoseconds() {
		t.Errorf("elapsed_ns = %v, want %d", got, sum.Elapsed.Nanoseconds())
	}
	if got := adder.values["ts_ns"]; got != when.UnixNano() {
		t.Errorf("ts_ns = %v, want %d", got, when.UnixNano())
	}
}

// TestRedisSink_Error verifies that adder failures are surfaced, not
// swallowed, so the caller can decide to log and continue.
func TestRedisSink_Error(t *testing.T) {
	s := NewRedisSinkWithClient(&capturingAdder{returnErr: true}, "runs")
	if err := s.Record(context.Background(), Summary{Iteration: "first"}); err == nil {
		t.Fatal("Record succeeded, want error")
	}
}

// TestBuild verifies sink selection: empty address means logging sink,
// non-empty means Redis.
func TestBuild(t *testing.T) {
	if _, ok := Build("", "").(LogSink); !ok {
		t.Error("Build(\"\") did not return a LogSink")
	}
	if _, ok := Build("127.0.0.1:6379", "runs").(*RedisSink); !ok {
		t.Error("Build(addr) did not return a RedisSink")
	}
}

// TestLogSink smoke-tests the dependency-free default.
func TestLogSink(t *testing.T) {
	if err := (LogSink{}).Record(context.Background(), Summary{Iteration: "warm up", Updates: 10}); err != nil {
		t.Fatalf("LogSink.Record returned error: %v", err)
	}
}
