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

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Zipf samples ranks in [0, n) with probability proportional to
// 1/(rank+1)^exponent, so rank 0 is the most frequent. It uses
// rejection-inversion sampling (Hörmann & Derflinger), which needs no
// per-rank table and therefore works for region sizes in the billions,
// and accepts any exponent > 0.
type Zipf struct {
	n        int64
	exponent float64

	// Precomputed sampling constants over internal ranks 1..n.
	hX1     float64 // hIntegral(1.5) - 1
	hN      float64 // hIntegral(n + 0.5)
	qaccept float64 // quick-accept distance threshold
}

// NewZipf returns a Zipfian sampler over [0, n) with the given skew exponent.
func NewZipf(n int64, exponent float64) (*Zipf, error) {
	if n < 1 {
		return nil, fmt.Errorf("zipf: number of elements must be at least 1, got %d", n)
	}
	if exponent <= 0 || math.IsNaN(exponent) {
		return nil, fmt.Errorf("zipf: exponent must be greater than 0, got %g", exponent)
	}
	z := &Zipf{n: n, exponent: exponent}
	z.hX1 = z.hIntegral(1.5) - 1
	z.hN = z.hIntegral(float64(n) + 0.5)
	z.qaccept = 2 - z.hIntegralInverse(z.hIntegral(2.5)-z.h(2))
	return z, nil
}

func (z *Zipf) Sample(r *rand.Rand) int64 {
	for {
		u := z.hN + r.Float64()*(z.hX1-z.hN)
		x := z.hIntegralInverse(u)
		k := int64(x + 0.5)
		if k < 1 {
			k = 1
		} else if k > z.n {
			k = z.n
		}
		if float64(k)-x <= z.qaccept || u >= z.hIntegral(float64(k)+0.5)-z.h(float64(k)) {
			return k - 1
		}
	}
}

// hIntegral is the antiderivative of h(x) = x^-exponent, shifted so the
// exponent == 1 case (log x) is the continuous limit.
func (z *Zipf) hIntegral(x float64) float64 {
	logX := math.Log(x)
	return helperExpm1((1-z.exponent)*logX) * logX
}

func (z *Zipf) h(x float64) float64 {
	return math.Exp(-z.exponent * math.Log(x))
}

func (z *Zipf) hIntegralInverse(x float64) float64 {
	t := x * (1 - z.exponent)
	if t < -1 {
		// Limit due to floating-point rounding; the exact lower bound is -1.
		t = -1
	}
	return math.Exp(helperLog1p(t) * x)
}

// helperLog1p computes log1p(x)/x, continuous at x == 0.
func helperLog1p(x float64) float64 {
	if math.Abs(x) > 1e-8 {
		return math.Log1p(x) / x
	}
	return 1 - x/2 + x*x/3
}

// helperExpm1 computes expm1(x)/x, continuous at x == 0.
func helperExpm1(x float64) float64 {
	if math.Abs(x) > 1e-8 {
		return math.Expm1(x) / x
	}
	return 1 + x/2 + x*x/6
}
