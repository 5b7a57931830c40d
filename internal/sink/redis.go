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
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream summaries are appended to when the
// caller does not name one.
const DefaultStream = "gups:results"

// RedisStreamAdder abstracts the minimal surface we need from a Redis
// client. Implementations may wrap github.com/redis/go-redis/v9 or any
// equivalent.
type RedisStreamAdder interface {
	XAdd(ctx context.Context, stream string, values map[string]interface{}) error
}

// RedisSink appends one stream entry per iteration summary. Entries carry
// the iteration label, update count, elapsed nanoseconds and the aggregate
// rate, so downstream collectors can reassemble whole runs in order.
type RedisSink struct {
	client RedisStreamAdder
	stream string
}

// NewRedisSink returns a sink backed by a real Redis client at addr, e.g.
// "127.0.0.1:6379".
func NewRedisSink(addr, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	c := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisSink{client: &goRedisAdder{c: c}, stream: stream}
}

// NewRedisSinkWithClient wires an explicit client; used by tests and by
// callers that manage their own connection pool.
func NewRedisSinkWithClient(client RedisStreamAdder, stream string) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream}
}

func (s *RedisSink) Record(ctx context.Context, sum Summary) error {
	values := map[string]interface{}{
		"iteration":  sum.Iteration,
		"updates":    sum.Updates,
		"elapsed_ns": sum.Elapsed.Nanoseconds(),
		"gups":       sum.Rate,
		"ts_ns":      sum.When.UnixNano(),
	}
	if err := s.client.XAdd(ctx, s.stream, values); err != nil {
		return fmt.Errorf("sink: xadd to %s: %w", s.stream, err)
	}
	return nil
}

type goRedisAdder struct{ c *redis.Client }

func (g *goRedisAdder) XAdd(ctx context.Context, stream string, values map[string]interface{}) error {
	return g.c.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: values}).Err()
}
