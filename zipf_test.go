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

package gups

import "testing"

// TestZipf_Construction verifies the parameter checks: at least one element
// and a strictly positive exponent.
func TestZipf_Construction(t *testing.T) {
	testCases := []struct {
		name     string
		n        int64
		exponent float64
		wantErr  bool
	}{
		{"Valid", 1000, 0.99, false},
		{"ExponentOne", 1000, 1.0, false},
		{"SteepExponent", 1000, 3.5, false},
		{"SingleElement", 1, 1.0, false},
		{"ZeroElements", 0, 1.0, true},
		{"ZeroExponent", 1000, 0, true},
		{"NegativeExponent", 1000, -0.5, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewZipf(tc.n, tc.exponent)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewZipf(%d, %g) error = %v, wantErr %t", tc.n, tc.exponent, err, tc.wantErr)
			}
		})
	}
}

// TestZipf_Range checks that every sample falls in [0, n) across a spread of
// exponents, including the exponent == 1 special case of the sampler's
// integral helpers.
func TestZipf_Range(t *testing.T) {
	for _, exponent := range []float64{0.5, 0.99, 1.0, 1.07, 2.5} {
		z, err := NewZipf(512, exponent)
		if err != nil {
			t.Fatalf("NewZipf(512, %g) returned error: %v", exponent, err)
		}
		r := newRand(7)
		for i := 0; i < 100000; i++ {
			if v := z.Sample(r); v < 0 || v >= 512 {
				t.Fatalf("exponent %g: Sample() = %d, want value in [0, 512)", exponent, v)
			}
		}
	}
}

// TestZipf_RankZeroMostFrequent verifies the defining Zipfian property: over
// a large draw count, rank 0 is sampled strictly more often than any other
// rank, and low ranks dominate high ranks.
func TestZipf_RankZeroMostFrequent(t *testing.T) {
	const n = 100
	const draws = 500000
	z, err := NewZipf(n, 1.07)
	if err != nil {
		t.Fatalf("NewZipf returned error: %v", err)
	}
	r := newRand(8)
	counts := make([]int, n)
	for i := 0; i < draws; i++ {
		counts[z.Sample(r)]++
	}
	for rank := 1; rank < n; rank++ {
		if counts[0] <= counts[rank] {
			t.Errorf("rank 0 count %d not greater than rank %d count %d", counts[0], rank, counts[rank])
		}
	}
	// The head of the distribution should clearly dominate the tail.
	var head, tail int
	for rank := 0; rank < 10; rank++ {
		head += counts[rank]
	}
	for rank := n - 10; rank < n; rank++ {
		tail += counts[rank]
	}
	if head <= 5*tail {
		t.Errorf("head (%d) does not dominate tail (%d) as expected for a Zipfian", head, tail)
	}
}

// TestZipf_Reversed checks the composition used by reversed Zipf workloads:
// Backwards(Zipf(n, e), n-1) makes rank n-1 the most frequent.
func TestZipf_Reversed(t *testing.T) {
	const n = 100
	const draws = 200000
	z, err := NewZipf(n, 1.2)
	if err != nil {
		t.Fatalf("NewZipf returned error: %v", err)
	}
	b := NewBackwards(z, n-1)
	r := newRand(9)
	counts := make([]int, n)
	for i := 0; i < draws; i++ {
		v := b.Sample(r)
		if v < 0 || v >= n {
			t.Fatalf("Sample() = %d, want value in [0, %d)", v, n)
		}
		counts[v]++
	}
	for rank := 0; rank < n-1; rank++ {
		if counts[n-1] <= counts[rank] {
			t.Errorf("rank %d count %d not greater than rank %d count %d", n-1, counts[n-1], rank, counts[rank])
		}
	}
}
