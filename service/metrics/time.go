// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "substrate_rosetta"

// Time records the durations of node requests of one network.
type Time struct {
	durations *prometheus.HistogramVec
}

// NewTime creates the request duration histogram for a network and registers
// it with the registerer.
func NewTime(registerer prometheus.Registerer, network string) *Time {

	opts := prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        "node_request_seconds",
		Help:        "duration of node requests",
		ConstLabels: prometheus.Labels{"network": network},
		Buckets:     prometheus.ExponentialBuckets(0.001, 2, 14),
	}
	durations := promauto.With(registerer).NewHistogramVec(opts, []string{"request"})

	t := Time{
		durations: durations,
	}

	return &t
}

// Duration starts timing the request with the given name, and returns the
// function that records its duration.
func (t *Time) Duration(request string) func() {
	start := time.Now()
	return func() {
		t.durations.WithLabelValues(request).Observe(time.Since(start).Seconds())
	}
}
