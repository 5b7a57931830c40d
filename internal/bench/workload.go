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

	"gups"
)

// Workload is an immutable access-pattern selection. Compose resolves it
// into one concrete sampler over element indices [0, regionLen/granularity)
// at the start of an iteration; composition failures are configuration
// errors and must surface before any worker starts.
type Workload interface {
	Compose(granularity int, regionLen int64) (gups.Sampler, error)
	String() string
}

// Hotset splits the region into a hot prefix and the rest, with the hot
// subrange receiving Weight times as many hits per unit length. Reverse
// mirrors the split so the hot subrange sits at the far end.
type Hotset struct {
	Hot     int64 // hot region length in bytes
	Weight  int64 // hit-frequency ratio of hot region to the rest
	Reverse bool
}

func (h Hotset) Compose(granularity int, regionLen int64) (gups.Sampler, error) {
	end := regionLen / int64(granularity)
	split := h.Hot / int64(granularity)
	if split < 1 {
		return nil, fmt.Errorf("compose hotset: hot length %d is smaller than granularity %d", h.Hot, granularity)
	}
	if split >= end {
		return nil, fmt.Errorf("compose hotset: hot length %d must be smaller than region length %d", h.Hot, regionLen)
	}
	if h.Weight < 1 {
		return nil, fmt.Errorf("compose hotset: weight must be positive, got %d", h.Weight)
	}
	hot, err := gups.NewUniform(0, split)
	if err != nil {
		return nil, fmt.Errorf("compose hotset: %w", err)
	}
	rest, err := gups.NewUniform(split, end)
	if err != nil {
		return nil, fmt.Errorf("compose hotset: %w", err)
	}
	mix, err := gups.NewMix([]gups.Sampler{hot, rest}, []int64{h.Weight, 1})
	if err != nil {
		return nil, fmt.Errorf("compose hotset: %w", err)
	}
	d, err := gups.NewMod(mix, end)
	if err != nil {
		return nil, fmt.Errorf("compose hotset: %w", err)
	}
	if h.Reverse {
		return gups.NewBackwards(d, end-1), nil
	}
	return d, nil
}

func (h Hotset) String() string {
	return fmt.Sprintf("hotset{hot=%d weight=%d reverse=%t}", h.Hot, h.Weight, h.Reverse)
}

// Zipf accesses element ranks with Zipfian frequency; rank 0 (or the last
// rank when Reverse is set) is the most frequent.
type Zipf struct {
	Exponent float64
	Reverse  bool
}

func (z Zipf) Compose(granularity int, regionLen int64) (gups.Sampler, error) {
	nelems := regionLen / int64(granularity)
	d, err := gups.NewZipf(nelems, z.Exponent)
	if err != nil {
		return nil, fmt.Errorf("compose zipf: %w", err)
	}
	if z.Reverse {
		return gups.NewBackwards(d, nelems-1), nil
	}
	return d, nil
}

func (z Zipf) String() string {
	return fmt.Sprintf("zipf{exponent=%g reverse=%t}", z.Exponent, z.Reverse)
}

// Random accesses all elements uniformly.
type Random struct{}

func (Random) Compose(granularity int, regionLen int64) (gups.Sampler, error) {
	end := regionLen / int64(granularity)
	d, err := gups.NewUniform(0, end)
	if err != nil {
		return nil, fmt.Errorf("compose random: %w", err)
	}
	return d, nil
}

func (Random) String() string { return "random" }
