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

// Package gups provides composable access-index distributions for the GUPS
// memory benchmark. A distribution is anything that can produce an integer
// index given a random source; concrete distributions (Uniform, Zipf) and
// decorators that reshape an inner distribution (Mod, Backwards, Mix)
// all share the single-method Sampler interface, so workloads are built by
// plain composition.
//
// Samplers are immutable after construction and safe for concurrent use as
// long as each caller supplies its own *rand.Rand; no sampler holds a random
// source of its own.
package gups

import (
	"fmt"
	"math/rand/v2"
)

// Sampler produces one access index per call from the supplied random source.
type Sampler interface {
	Sample(r *rand.Rand) int64
}

// Uniform samples uniformly from a half-open range.
type Uniform struct {
	lo, hi int64
}

// NewUniform returns a uniform sampler over [lo, hi).
func NewUniform(lo, hi int64) (*Uniform, error) {
	if hi <= lo {
		return nil, fmt.Errorf("uniform: empty range [%d, %d)", lo, hi)
	}
	return &Uniform{lo: lo, hi: hi}, nil
}

func (u *Uniform) Sample(r *rand.Rand) int64 {
	return u.lo + r.Int64N(u.hi-u.lo)
}

// Mod wraps an inner sampler and reduces its samples modulo n, guaranteeing
// results in [0, n) regardless of the inner sampler's natural range.
type Mod struct {
	base Sampler
	n    int64
}

// NewMod returns a sampler producing base.Sample() mod n.
func NewMod(base Sampler, n int64) (*Mod, error) {
	if n <= 0 {
		return nil, fmt.Errorf("mod: modulus must be positive, got %d", n)
	}
	return &Mod{base: base, n: n}, nil
}

func (m *Mod) Sample(r *rand.Rand) int64 {
	v := m.base.Sample(r) % m.n
	if v < 0 {
		v += m.n
	}
	return v
}

// Backwards mirrors an inner sampler across a fixed point: each sample x
// becomes minuend - x. Over samples in [0, m] the composition
// Backwards(Backwards(d, m), m) is the identity.
type Backwards struct {
	base    Sampler
	minuend int64
}

// NewBackwards returns a sampler producing minuend - base.Sample().
func NewBackwards(base Sampler, minuend int64) *Backwards {
	return &Backwards{base: base, minuend: minuend}
}

func (b *Backwards) Sample(r *rand.Rand) int64 {
	return b.minuend - b.base.Sample(r)
}

// Mix draws each sample from one of k sibling samplers, choosing sampler i
// with probability weights[i] / sum(weights).
type Mix struct {
	samplers []Sampler
	cum      []int64 // cumulative weights; cum[len-1] == total
	total    int64
}

// NewMix returns a weighted union of the given samplers. Weights must be
// positive integers, one per sampler.
func NewMix(samplers []Sampler, weights []int64) (*Mix, error) {
	if len(samplers) == 0 {
		return nil, fmt.Errorf("mix: at least one sampler required")
	}
	if len(samplers) != len(weights) {
		return nil, fmt.Errorf("mix: %d samplers but %d weights", len(samplers), len(weights))
	}
	cum := make([]int64, len(weights))
	var total int64
	for i, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("mix: weight %d must be positive, got %d", i, w)
		}
		total += w
		cum[i] = total
	}
	return &Mix{samplers: samplers, cum: cum, total: total}, nil
}

func (m *Mix) Sample(r *rand.Rand) int64 {
	x := r.Int64N(m.total)
	for i, c := range m.cum {
		if x < c {
			return m.samplers[i].Sample(r)
		}
	}
	// Unreachable: x < total == cum[len-1].
	return m.samplers[len(m.samplers)-1].Sample(r)
}
