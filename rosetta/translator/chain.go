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

package translator

import (
	"math/big"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// Chain gives access to the blocks and the state of a Substrate node. Block
// lookups return substrate.ErrNotFound for blocks the node does not know.
type Chain interface {
	BlockHash(height uint64) (substrate.Hash, error)
	// Header returns the header of the block with the given hash. Its Hash field
	// is always set to the requested hash.
	Header(hash substrate.Hash) (*substrate.Header, error)
	Block(hash substrate.Hash) (*substrate.Block, error)
	// Storage returns nil without error when the storage entry is absent.
	Storage(key []byte, at substrate.Hash) ([]byte, error)
	FeeQuote(extrinsic []byte, at substrate.Hash) (*big.Int, error)
	Finalized() (substrate.Hash, error)
}

// Recorder keeps track of translation statistics.
type Recorder interface {
	Translated(transactions int)
	Unresolved(key string)
	Undecodable()
	QuoteFallback()
}

type noopRecorder struct{}

func (noopRecorder) Translated(int)    {}
func (noopRecorder) Unresolved(string) {}
func (noopRecorder) Undecodable()      {}
func (noopRecorder) QuoteFallback()    {}
