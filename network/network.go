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

package network

import (
	"io"

	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
)

// Retriever gives access to the Rosetta view of the chain data of a network.
type Retriever interface {
	Genesis() identifier.Block
	Current() (identifier.Block, int64, error)
	Block(id identifier.Block) (*object.Block, error)
	Transaction(block identifier.Block, transaction identifier.Transaction) (*object.Transaction, error)
	Balance(block identifier.Block, account identifier.Account) (identifier.Block, []object.Amount, error)
}

// Constructor implements the construction flow of a network.
type Constructor interface {
	Preprocess(operations []object.Operation) (object.Options, []identifier.Account, error)
	Metadata(options object.Options) (object.Metadata, error)
	Payloads(operations []object.Operation, metadata object.Metadata) (string, []object.SigningPayload, error)
	Combine(unsigned string, signatures []object.Signature) (string, error)
	Parse(transaction string, signed bool) ([]object.Operation, []identifier.Account, *object.Metadata, error)
	Hash(signed string) (identifier.Transaction, error)
	Submit(signed string) (identifier.Transaction, error)
	Derive(key object.PublicKey) (identifier.Account, error)
}

// Network is one supported network, with everything needed to serve its
// data and construction requests.
type Network struct {
	ID        identifier.Network
	Retrieve  Retriever
	Construct Constructor

	// Closer releases the node connection of the network, if any.
	Closer io.Closer
}
