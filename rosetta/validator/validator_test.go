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

package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/rosetta/request"
	"github.com/optakt/substrate-rosetta/rosetta/validator"
	"github.com/optakt/substrate-rosetta/testing/mocks"
)

func TestValidator_Request(t *testing.T) {
	height := mocks.GenericHeight
	blockID := identifier.Block{Index: &height, Hash: mocks.GenericHash(0).Hex()}
	account := identifier.Account{Address: mocks.GenericAddress(0)}
	transactionID := identifier.Transaction{Hash: mocks.GenericHash(2).String()}

	tests := []struct {
		name    string
		request interface{}
		wantErr string
	}{
		{
			name:    "valid block request",
			request: request.Block{NetworkID: mocks.GenericNetwork, BlockID: blockID},
		},
		{
			name:    "valid block request without identifier",
			request: request.Block{NetworkID: mocks.GenericNetwork},
		},
		{
			name:    "valid networks request",
			request: request.Networks{},
		},
		{
			name:    "missing blockchain",
			request: request.Status{NetworkID: identifier.Network{Network: mocks.GenericNetwork.Network}},
			wantErr: "network identifier has empty blockchain field",
		},
		{
			name:    "missing network",
			request: request.Options{NetworkID: identifier.Network{Blockchain: mocks.GenericNetwork.Blockchain}},
			wantErr: "network identifier has empty network field",
		},
		{
			name: "invalid block hash",
			request: request.Block{
				NetworkID: mocks.GenericNetwork,
				BlockID:   identifier.Block{Hash: "0x1234"},
			},
			wantErr: "block identifier has invalid hash field",
		},
		{
			name: "valid balance request",
			request: request.Balance{
				NetworkID:  mocks.GenericNetwork,
				BlockID:    blockID,
				AccountID:  account,
				Currencies: []identifier.Currency{mocks.GenericCurrency},
			},
		},
		{
			name: "missing address",
			request: request.Balance{
				NetworkID: mocks.GenericNetwork,
				BlockID:   blockID,
			},
			wantErr: "account identifier has empty address field",
		},
		{
			name: "missing currency symbol",
			request: request.Balance{
				NetworkID:  mocks.GenericNetwork,
				AccountID:  account,
				Currencies: []identifier.Currency{{Decimals: 18}},
			},
			wantErr: "currency identifier has empty symbol field",
		},
		{
			name: "valid transaction request",
			request: request.Transaction{
				NetworkID:     mocks.GenericNetwork,
				BlockID:       blockID,
				TransactionID: transactionID,
			},
		},
		{
			name: "missing transaction hash",
			request: request.Transaction{
				NetworkID: mocks.GenericNetwork,
				BlockID:   blockID,
			},
			wantErr: "transaction identifier has empty hash field",
		},
		{
			name: "invalid transaction hash",
			request: request.Transaction{
				NetworkID:     mocks.GenericNetwork,
				BlockID:       blockID,
				TransactionID: identifier.Transaction{Hash: "deadbeef"},
			},
			wantErr: "transaction identifier has invalid hash field",
		},
		{
			name:    "missing operations",
			request: request.Preprocess{NetworkID: mocks.GenericNetwork},
			wantErr: "operation list is empty",
		},
		{
			name:    "missing sender",
			request: request.Metadata{NetworkID: mocks.GenericNetwork},
			wantErr: "options have empty sender field",
		},
		{
			name: "invalid metadata",
			request: request.Payloads{
				NetworkID:  mocks.GenericNetwork,
				Operations: mocks.GenericOperations(),
			},
			wantErr: "metadata has invalid block hash field",
		},
		{
			name: "valid payloads request",
			request: request.Payloads{
				NetworkID:  mocks.GenericNetwork,
				Operations: mocks.GenericOperations(),
				Metadata:   mocks.GenericMetadata(),
			},
		},
		{
			name: "missing signatures",
			request: request.Combine{
				NetworkID:           mocks.GenericNetwork,
				UnsignedTransaction: mocks.GenericUnsigned,
			},
			wantErr: "signature list is empty",
		},
		{
			name:    "missing parse transaction",
			request: request.Parse{NetworkID: mocks.GenericNetwork, Signed: true},
			wantErr: "transaction text is empty",
		},
		{
			name:    "missing hash transaction",
			request: request.Hash{NetworkID: mocks.GenericNetwork},
			wantErr: "transaction text is empty",
		},
		{
			name:    "missing submit transaction",
			request: request.Submit{NetworkID: mocks.GenericNetwork},
			wantErr: "transaction text is empty",
		},
		{
			name: "missing curve type",
			request: request.Derive{
				NetworkID: mocks.GenericNetwork,
				PublicKey: object.PublicKey{HexBytes: mocks.GenericHex},
			},
			wantErr: "public key has empty curve type field",
		},
	}

	v := validator.New()
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			err := v.Request(test.request)

			if test.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var invalid failure.InvalidFormat
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, test.wantErr, invalid.Description.Text)
		})
	}

	t.Run("handles invalid usage", func(t *testing.T) {
		t.Parallel()

		err := v.Request("not a struct")

		var invalid failure.InvalidFormat
		assert.Error(t, err)
		assert.False(t, errors.As(err, &invalid))
	})
}
