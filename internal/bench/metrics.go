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
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics mirror the log output so long runs can be watched from an
// external scraper instead of tailing logs. Label cardinality is bounded:
// iteration labels are the three fixed names and chunk indices are bounded
// by region size / residency chunk size.
var (
	updatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gups_updates_total",
		Help: "Total memory updates completed, by iteration",
	}, []string{"iteration"})
	hithertoRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gups_rate_hitherto",
		Help: "Updates per second since iteration start, normalized to 2^30 (GUPS)",
	}, []string{"iteration"})
	instantaneousRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gups_rate_instantaneous",
		Help: "Updates per second over the last report interval, normalized to 2^30 (GUPS)",
	}, []string{"iteration"})
	fastTierRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gups_fast_tier_ratio",
		Help: "Fraction of the region chunk physically resident in the fast memory tier",
	}, []string{"iteration", "chunk"})
)

func init() {
	prometheus.MustRegister(updatesTotal, hithertoRate, instantaneousRate, fastTierRatio)
}

func observeProgress(iteration string, count int) {
	updatesTotal.WithLabelValues(iteration).Add(float64(count))
}

func observeRates(iteration string, hitherto, instantaneous float64) {
	hithertoRate.WithLabelValues(iteration).Set(hitherto)
	instantaneousRate.WithLabelValues(iteration).Set(instantaneous)
}

func observeResidency(iteration string, ratios []float64) {
	for i, ratio := range ratios {
		fastTierRatio.WithLabelValues(iteration, strconv.Itoa(i)).Set(ratio)
	}
}

// ServeMetrics exposes /metrics on the default mux and starts an HTTP
// server on addr in the background. Importing net/http/pprof in the main
// package adds the profiling endpoints to the same server. Serve errors
// are logged, not fatal: the benchmark result does not depend on the
// metrics endpoint.
func ServeMetrics(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Errorf("metrics server on %s: %v", addr, err)
		}
	}()
}
