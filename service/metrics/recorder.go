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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder counts the outcomes of block translations of one network.
type Recorder struct {
	blocks       prometheus.Counter
	transactions prometheus.Counter
	unresolved   *prometheus.CounterVec
	undecodable  prometheus.Counter
	fallbacks    prometheus.Counter
}

// NewRecorder creates the translation counters for a network and registers
// them with the registerer.
func NewRecorder(registerer prometheus.Registerer, network string) *Recorder {

	factory := promauto.With(registerer)
	labels := prometheus.Labels{"network": network}

	blocksOpts := prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "translated_blocks_total",
		Help:        "number of translated blocks",
		ConstLabels: labels,
	}
	blocks := factory.NewCounter(blocksOpts)

	transactionsOpts := prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "translated_transactions_total",
		Help:        "number of translated transactions",
		ConstLabels: labels,
	}
	transactions := factory.NewCounter(transactionsOpts)

	unresolvedOpts := prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "unresolved_events_total",
		Help:        "number of events that could not be turned into operations",
		ConstLabels: labels,
	}
	unresolved := factory.NewCounterVec(unresolvedOpts, []string{"event"})

	undecodableOpts := prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "undecodable_extrinsics_total",
		Help:        "number of extrinsics skipped because they could not be decoded",
		ConstLabels: labels,
	}
	undecodable := factory.NewCounter(undecodableOpts)

	fallbacksOpts := prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "fee_quote_fallbacks_total",
		Help:        "number of fee quotes that failed and were replaced by zero",
		ConstLabels: labels,
	}
	fallbacks := factory.NewCounter(fallbacksOpts)

	r := Recorder{
		blocks:       blocks,
		transactions: transactions,
		unresolved:   unresolved,
		undecodable:  undecodable,
		fallbacks:    fallbacks,
	}

	return &r
}

// Translated records a translated block with the given number of transactions.
func (r *Recorder) Translated(transactions int) {
	r.blocks.Inc()
	r.transactions.Add(float64(transactions))
}

// Unresolved records an event that could not be resolved.
func (r *Recorder) Unresolved(key string) {
	r.unresolved.WithLabelValues(key).Inc()
}

// Undecodable records an extrinsic that could not be decoded.
func (r *Recorder) Undecodable() {
	r.undecodable.Inc()
}

// QuoteFallback records a failed fee quote.
func (r *Recorder) QuoteFallback() {
	r.fallbacks.Inc()
}
