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

package mocks

import (
	"math/big"
	"testing"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

type Chain struct {
	BlockHashFunc func(height uint64) (substrate.Hash, error)
	HeaderFunc    func(hash substrate.Hash) (*substrate.Header, error)
	BlockFunc     func(hash substrate.Hash) (*substrate.Block, error)
	StorageFunc   func(key []byte, at substrate.Hash) ([]byte, error)
	FeeQuoteFunc  func(extrinsic []byte, at substrate.Hash) (*big.Int, error)
	FinalizedFunc func() (substrate.Hash, error)
}

func BaselineChain(t *testing.T) *Chain {
	t.Helper()

	c := Chain{
		BlockHashFunc: func(uint64) (substrate.Hash, error) {
			return GenericHash(0), nil
		},
		HeaderFunc: func(hash substrate.Hash) (*substrate.Header, error) {
			header := substrate.Header{
				Hash:       hash,
				ParentHash: GenericHash(1),
				Number:     GenericHeight,
			}
			return &header, nil
		},
		BlockFunc: func(hash substrate.Hash) (*substrate.Block, error) {
			block := substrate.Block{
				Header: substrate.Header{
					Hash:       hash,
					ParentHash: GenericHash(1),
					Number:     GenericHeight,
				},
			}
			return &block, nil
		},
		StorageFunc: func([]byte, substrate.Hash) ([]byte, error) {
			return nil, nil
		},
		FeeQuoteFunc: func([]byte, substrate.Hash) (*big.Int, error) {
			return GenericAmount(0), nil
		},
		FinalizedFunc: func() (substrate.Hash, error) {
			return GenericHash(0), nil
		},
	}

	return &c
}

func (c *Chain) BlockHash(height uint64) (substrate.Hash, error) {
	return c.BlockHashFunc(height)
}

func (c *Chain) Header(hash substrate.Hash) (*substrate.Header, error) {
	return c.HeaderFunc(hash)
}

func (c *Chain) Block(hash substrate.Hash) (*substrate.Block, error) {
	return c.BlockFunc(hash)
}

func (c *Chain) Storage(key []byte, at substrate.Hash) ([]byte, error) {
	return c.StorageFunc(key, at)
}

func (c *Chain) FeeQuote(extrinsic []byte, at substrate.Hash) (*big.Int, error) {
	return c.FeeQuoteFunc(extrinsic, at)
}

func (c *Chain) Finalized() (substrate.Hash, error) {
	return c.FinalizedFunc()
}
