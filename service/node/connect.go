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

package node

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/client"
	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"

	"github.com/optakt/substrate-rosetta/codec/zbor"
)

// Connect dials the node at the given address and creates a node adapter with
// a ristretto block cache.
func Connect(log zerolog.Logger, address string, options ...Option) (*Node, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	// Ristretto recommends keeping ten times as many counters as items in the
	// cache when full. Assuming an average item size of 1 kilobyte, this is
	// what we get.
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CacheSize) / 1000 * 10,
		MaxCost:     int64(cfg.CacheSize),
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("could not initialize cache: %w", err)
	}

	cli, err := client.Connect(address)
	if err != nil {
		return nil, fmt.Errorf("could not connect to node (%s): %w", address, err)
	}

	return New(log, cli, cache, zbor.NewCodec()), nil
}
