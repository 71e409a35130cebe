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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/testing/mocks"
)

// chainNode combines the chain and node mocks into a full node.
type chainNode struct {
	*mocks.Chain
	*mocks.Runtime
	node *mocks.Node
}

func (c chainNode) Nonce(address string) (uint64, error) {
	return c.node.Nonce(address)
}

func (c chainNode) Submit(extrinsic []byte) (substrate.Hash, error) {
	return c.node.Submit(extrinsic)
}

// samples returns the number of observations recorded for the request.
func samples(t *testing.T, registry *prometheus.Registry, request string) uint64 {
	t.Helper()

	families, err := registry.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != namespace+"_node_request_seconds" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "request" && label.GetValue() == request {
					return metric.GetHistogram().GetSampleCount()
				}
			}
		}
	}

	return 0
}

func TestRecorder(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()
		r := NewRecorder(registry, mocks.GenericNetwork.Network)

		r.Translated(3)
		r.Translated(2)
		r.Unresolved("balances.withdraw")
		r.Unresolved("balances.withdraw")
		r.Unresolved("system.remarked")
		r.Undecodable()
		r.QuoteFallback()

		assert.Equal(t, float64(2), testutil.ToFloat64(r.blocks))
		assert.Equal(t, float64(5), testutil.ToFloat64(r.transactions))
		assert.Equal(t, float64(2), testutil.ToFloat64(r.unresolved.WithLabelValues("balances.withdraw")))
		assert.Equal(t, float64(1), testutil.ToFloat64(r.unresolved.WithLabelValues("system.remarked")))
		assert.Equal(t, float64(1), testutil.ToFloat64(r.undecodable))
		assert.Equal(t, float64(1), testutil.ToFloat64(r.fallbacks))
	})

	t.Run("supports several networks", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()

		assert.NotPanics(t, func() {
			NewRecorder(registry, "first")
			NewRecorder(registry, "second")
		})
	})
}

func TestNode(t *testing.T) {
	t.Run("times requests", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()
		time := NewTime(registry, mocks.GenericNetwork.Network)
		n := NewNode(chainNode{Chain: mocks.BaselineChain(t), Runtime: mocks.BaselineRuntime(t), node: mocks.BaselineNode(t)}, time)

		_, err := n.BlockHash(mocks.GenericHeight)
		require.NoError(t, err)
		_, err = n.Header(mocks.GenericHash(0))
		require.NoError(t, err)
		_, err = n.Header(mocks.GenericHash(1))
		require.NoError(t, err)
		_, err = n.Block(mocks.GenericHash(0))
		require.NoError(t, err)
		_, err = n.Storage(mocks.GenericBytes, mocks.GenericHash(0))
		require.NoError(t, err)
		_, err = n.FeeQuote(mocks.GenericBytes, mocks.GenericHash(0))
		require.NoError(t, err)
		_, err = n.Finalized()
		require.NoError(t, err)
		_, err = n.Nonce(mocks.GenericAddress(0))
		require.NoError(t, err)
		_, err = n.Submit(mocks.GenericBytes)
		require.NoError(t, err)
		_, _, err = n.RuntimeVersion(mocks.GenericHash(0))
		require.NoError(t, err)
		_, err = n.Metadata(mocks.GenericHash(0))
		require.NoError(t, err)

		assert.Equal(t, uint64(1), samples(t, registry, "block_hash"))
		assert.Equal(t, uint64(2), samples(t, registry, "header"))
		assert.Equal(t, uint64(1), samples(t, registry, "block"))
		assert.Equal(t, uint64(1), samples(t, registry, "storage"))
		assert.Equal(t, uint64(1), samples(t, registry, "fee_quote"))
		assert.Equal(t, uint64(1), samples(t, registry, "finalized"))
		assert.Equal(t, uint64(1), samples(t, registry, "nonce"))
		assert.Equal(t, uint64(1), samples(t, registry, "runtime_version"))
		assert.Equal(t, uint64(1), samples(t, registry, "metadata"))
		assert.Equal(t, uint64(1), samples(t, registry, "submit"))
	})

	t.Run("forwards errors", func(t *testing.T) {
		t.Parallel()

		registry := prometheus.NewRegistry()
		chain := mocks.BaselineChain(t)
		chain.BlockFunc = func(substrate.Hash) (*substrate.Block, error) {
			return nil, mocks.GenericError
		}
		n := NewNode(chainNode{Chain: chain, node: mocks.BaselineNode(t)}, NewTime(registry, mocks.GenericNetwork.Network))

		_, err := n.Block(mocks.GenericHash(0))

		assert.ErrorIs(t, err, mocks.GenericError)
		assert.Equal(t, uint64(1), samples(t, registry, "block"))
	})
}
