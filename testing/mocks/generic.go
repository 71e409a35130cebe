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
	"errors"
	"io"
	"math/big"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/networks"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/ss58"
)

// Global variables that can be used for testing. They are non-nil valid values for the types commonly needed
// to test the Rosetta components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericHeight = uint64(42)

	GenericBytes = []byte(`test`)

	GenericEpoch = uint64(7)

	GenericNonce = uint64(3)

	GenericTimestamp = int64(1650000000000)

	GenericURL = "ws://127.0.0.1:9944"

	GenericHex      = "deadbeef"
	GenericUnsigned = "a1unsigned"
	GenericSigned   = "a1signed"

	GenericCurrency = identifier.Currency{
		Symbol:   "AVAIL",
		Decimals: 18,
	}

	GenericNetwork = identifier.Network{
		Blockchain: "Avail",
		Network:    "Development Node",
	}

	GenericHeader = &substrate.Header{
		Hash:       GenericHash(0),
		ParentHash: GenericHash(1),
		Number:     GenericHeight,
	}
)

// GenericFile returns the development node network file.
func GenericFile(t *testing.T) *networks.File {
	t.Helper()

	file, err := networks.Parse(networks.DevNode())
	require.NoError(t, err)

	return file
}

// GenericRegistry returns a registry for the development node network.
func GenericRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	file := GenericFile(t)
	reg, err := registry.Build(file.Descriptor, file.Metadata)
	require.NoError(t, err)

	return reg
}

func GenericAccountIDs(number int) []substrate.AccountID {
	ids := make([]substrate.AccountID, 0, number)
	for i := 0; i < number; i++ {
		ids = append(ids, GenericAccountID(i))
	}
	return ids
}

// GenericAccountID returns the development account of Alice for index 0, the
// one of Bob for index 1, and an arbitrary account ID for any other index.
func GenericAccountID(index int) substrate.AccountID {
	switch index {
	case 0:
		return substrate.AccountID{0xd4, 0x35, 0x93, 0xc7, 0x15, 0xfd, 0xd3, 0x1c, 0x61, 0x14, 0x1a, 0xbd, 0x04, 0xa9, 0x9f, 0xd6, 0x82, 0x2c, 0x85, 0x58, 0x85, 0x4c, 0xcd, 0xe3, 0x9a, 0x56, 0x84, 0xe7, 0xa5, 0x6d, 0xa2, 0x7d}
	case 1:
		return substrate.AccountID{0x8e, 0xaf, 0x04, 0x15, 0x16, 0x87, 0x73, 0x63, 0x26, 0xc9, 0xfe, 0xa1, 0x7e, 0x25, 0xfc, 0x52, 0x87, 0x61, 0x36, 0x93, 0xc9, 0x12, 0x90, 0x9c, 0xb2, 0x26, 0xaa, 0x47, 0x94, 0xf2, 0x6a, 0x48}
	}
	var id substrate.AccountID
	for i := range id {
		id[i] = byte(index + i)
	}
	return id
}

// GenericAddress returns the generic account ID for the index, encoded with
// the generic substrate address format.
func GenericAddress(index int) string {
	id := GenericAccountID(index)
	address, _ := ss58.Encode(id[:], 42)
	return address
}

func GenericHashes(number int) []substrate.Hash {
	hashes := make([]substrate.Hash, 0, number)
	for i := 0; i < number; i++ {
		hashes = append(hashes, GenericHash(i))
	}
	return hashes
}

func GenericHash(index int) substrate.Hash {
	return substrate.HashOf([]byte{byte(index), 0x2a})
}

// GenericAmount returns a new amount for each call, so that callers are free
// to modify it.
func GenericAmount(index int) *big.Int {
	return big.NewInt(int64(1000 * (index + 1)))
}

// GenericOperations returns a transfer of 1000 units from the generic account
// at index 0 to the one at index 1.
func GenericOperations() []object.Operation {
	return []object.Operation{
		{
			ID:        identifier.Operation{Index: 0},
			Type:      configuration.OperationTransfer,
			AccountID: identifier.Account{Address: GenericAddress(0)},
			Amount:    object.Amount{Value: "-1000", Currency: GenericCurrency},
		},
		{
			ID:        identifier.Operation{Index: 1},
			Type:      configuration.OperationTransfer,
			AccountID: identifier.Account{Address: GenericAddress(1)},
			Amount:    object.Amount{Value: "1000", Currency: GenericCurrency},
		},
	}
}

// GenericBlockID returns a complete block identifier for the given height.
func GenericBlockID(height uint64) identifier.Block {
	return identifier.Block{
		Index: &height,
		Hash:  GenericHash(int(height)).Hex(),
	}
}

func GenericTransaction() *object.Transaction {
	transaction := object.Transaction{
		ID:         identifier.Transaction{Hash: GenericHash(2).String()},
		Operations: GenericOperations(),
	}
	return &transaction
}

func GenericMetadata() object.Metadata {
	return object.Metadata{
		Nonce:       GenericNonce,
		BlockHash:   GenericHash(0).Hex(),
		BlockNumber: GenericHeight,
		EraPeriod:   64,
	}
}
