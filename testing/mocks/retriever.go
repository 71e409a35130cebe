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
	"testing"

	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
)

type Retriever struct {
	GenesisFunc     func() identifier.Block
	CurrentFunc     func() (identifier.Block, int64, error)
	BlockFunc       func(id identifier.Block) (*object.Block, error)
	TransactionFunc func(block identifier.Block, transaction identifier.Transaction) (*object.Transaction, error)
	BalanceFunc     func(block identifier.Block, account identifier.Account) (identifier.Block, []object.Amount, error)
}

func BaselineRetriever(t *testing.T) *Retriever {
	t.Helper()

	r := Retriever{
		GenesisFunc: func() identifier.Block {
			return GenericBlockID(0)
		},
		CurrentFunc: func() (identifier.Block, int64, error) {
			return GenericBlockID(GenericHeight), GenericTimestamp, nil
		},
		BlockFunc: func(id identifier.Block) (*object.Block, error) {
			block := object.Block{
				ID:        GenericBlockID(GenericHeight),
				ParentID:  GenericBlockID(GenericHeight - 1),
				Timestamp: GenericTimestamp,
				Transactions: []*object.Transaction{
					GenericTransaction(),
				},
			}
			return &block, nil
		},
		TransactionFunc: func(identifier.Block, identifier.Transaction) (*object.Transaction, error) {
			return GenericTransaction(), nil
		},
		BalanceFunc: func(identifier.Block, identifier.Account) (identifier.Block, []object.Amount, error) {
			amounts := []object.Amount{{
				Value:    GenericAmount(0).String(),
				Currency: GenericCurrency,
			}}
			return GenericBlockID(GenericHeight), amounts, nil
		},
	}

	return &r
}

func (r *Retriever) Genesis() identifier.Block {
	return r.GenesisFunc()
}

func (r *Retriever) Current() (identifier.Block, int64, error) {
	return r.CurrentFunc()
}

func (r *Retriever) Block(id identifier.Block) (*object.Block, error) {
	return r.BlockFunc(id)
}

func (r *Retriever) Transaction(block identifier.Block, transaction identifier.Transaction) (*object.Transaction, error) {
	return r.TransactionFunc(block, transaction)
}

func (r *Retriever) Balance(block identifier.Block, account identifier.Account) (identifier.Block, []object.Amount, error) {
	return r.BalanceFunc(block, account)
}
