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

package transactor_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/codec/zbor"
	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/transactor"
	"github.com/optakt/substrate-rosetta/testing/mocks"
)

func genericParams() transactor.Params {
	return transactor.Params{
		Sender:      mocks.GenericAddress(0),
		Receiver:    mocks.GenericAddress(1),
		Value:       big.NewInt(1000),
		Nonce:       mocks.GenericNonce,
		EraPeriod:   64,
		BlockNumber: 100,
		BlockHash:   mocks.GenericHash(0),
	}
}

func TestTransactor_Build(t *testing.T) {
	reg := mocks.GenericRegistry(t)
	desc := reg.Descriptor()

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env, payload, err := tr.Build(genericParams())
		require.NoError(t, err)

		assert.Equal(t, uint8(transactor.EnvelopeVersion), env.Version)
		assert.Equal(t, transactor.TransferMethod, env.Method)
		assert.Equal(t, mocks.GenericAddress(0), env.Sender)
		assert.Equal(t, mocks.GenericAddress(1), env.Receiver)
		assert.Equal(t, "1000", env.Value)
		assert.Equal(t, "0", env.Tip)
		assert.Equal(t, mocks.GenericNonce, env.Nonce)
		assert.Equal(t, desc.Genesis, env.GenesisHash)
		assert.Equal(t, desc.SpecVersion, env.SpecVersion)
		assert.Equal(t, desc.TransactionVersion, env.TransactionVersion)
		assert.False(t, env.Signed())

		call, err := reg.NewCall(transactor.TransferMethod, mocks.GenericAccountID(1), big.NewInt(1000))
		require.NoError(t, err)
		encoded, err := reg.EncodeCall(call)
		require.NoError(t, err)
		want, err := reg.SigningPayload(encoded, registry.Params{
			Era:        substrate.NewMortalEra(100, 64),
			Nonce:      mocks.GenericNonce,
			Tip:        big.NewInt(0),
			Checkpoint: mocks.GenericHash(0),
		})
		require.NoError(t, err)
		assert.Equal(t, want, payload)
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env1, payload1, err := tr.Build(genericParams())
		require.NoError(t, err)
		env2, payload2, err := tr.Build(genericParams())
		require.NoError(t, err)

		assert.Equal(t, env1, env2)
		assert.Equal(t, payload1, payload2)

		encoded1, err := tr.Encode(env1)
		require.NoError(t, err)
		encoded2, err := tr.Encode(env2)
		require.NoError(t, err)
		assert.Equal(t, encoded1, encoded2)
	})

	t.Run("handles invalid sender", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		params := genericParams()
		params.Sender = "invalid"
		_, _, err := tr.Build(params)

		var invalid failure.InvalidAccount
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "invalid", invalid.Address)
	})

	t.Run("handles negative value", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		params := genericParams()
		params.Value = big.NewInt(-1)
		_, _, err := tr.Build(params)

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestTransactor_Encode(t *testing.T) {
	reg := mocks.GenericRegistry(t)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env, payload, err := tr.Build(genericParams())
		require.NoError(t, err)
		env.Signature = &transactor.Signature{
			Signer: env.Sender,
			Type:   registry.SignatureEd25519,
			Bytes:  make([]byte, 64),
		}

		encoded, err := tr.Encode(env)
		require.NoError(t, err)
		decoded, err := tr.Decode(encoded)
		require.NoError(t, err)

		assert.Equal(t, env, decoded)

		got, err := tr.Payload(decoded)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	})

	t.Run("handles codec failure", func(t *testing.T) {
		t.Parallel()

		codec := mocks.BaselineCodec(t)
		codec.EncodeFunc = func(interface{}) ([]byte, error) {
			return nil, mocks.GenericError
		}
		tr := transactor.New(reg, codec)

		_, err := tr.Encode(&transactor.Envelope{})

		assert.ErrorIs(t, err, mocks.GenericError)
	})

	t.Run("handles invalid hex", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		_, err := tr.Decode("not hex")

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles invalid encoding", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		_, err := tr.Decode("deadbeef")

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles unsupported version", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env, _, err := tr.Build(genericParams())
		require.NoError(t, err)
		env.Version = 2
		encoded, err := tr.Encode(env)
		require.NoError(t, err)

		_, err = tr.Decode(encoded)

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestTransactor_Extrinsic(t *testing.T) {
	reg := mocks.GenericRegistry(t)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env, _, err := tr.Build(genericParams())
		require.NoError(t, err)
		signature := make([]byte, 64)
		signature[0] = 0x2a
		env.Signature = &transactor.Signature{
			Signer: env.Sender,
			Type:   registry.SignatureEd25519,
			Bytes:  signature,
		}

		data, err := tr.Extrinsic(env)
		require.NoError(t, err)

		ext, err := reg.DecodeExtrinsic(data)
		require.NoError(t, err)

		assert.True(t, ext.Signed)
		assert.Equal(t, mocks.GenericAccountID(0), ext.Signer)
		assert.Equal(t, signature, ext.Signature)
		assert.Equal(t, mocks.GenericNonce, ext.Params.Nonce)
		assert.Equal(t, substrate.NewMortalEra(100, 64), ext.Params.Era)
		assert.Equal(t, "balances.transferkeepalive", ext.Call.Key())
	})

	t.Run("handles unsigned envelope", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env, _, err := tr.Build(genericParams())
		require.NoError(t, err)

		_, err = tr.Extrinsic(env)

		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles unsupported method", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env, _, err := tr.Build(genericParams())
		require.NoError(t, err)
		env.Method = "Balances.transfer_all"

		_, err = tr.Payload(env)

		var unsupported failure.UnsupportedExtrinsic
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "Balances.transfer_all", unsupported.Method)
	})

	t.Run("handles other runtime", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		env, _, err := tr.Build(genericParams())
		require.NoError(t, err)
		env.SpecVersion++

		_, err = tr.Payload(env)

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestTransactor_DeriveIntent(t *testing.T) {
	reg := mocks.GenericRegistry(t)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		got, err := tr.DeriveIntent(mocks.GenericOperations())

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericAddress(0), got.From)
		assert.Equal(t, mocks.GenericAddress(1), got.To)
		assert.Equal(t, big.NewInt(1000), got.Amount)
	})

	t.Run("reversed operations", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[0], ops[1] = ops[1], ops[0]
		got, err := tr.DeriveIntent(ops)

		require.NoError(t, err)
		assert.Equal(t, mocks.GenericAddress(0), got.From)
		assert.Equal(t, mocks.GenericAddress(1), got.To)
	})

	t.Run("handles invalid number of operations", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		_, err := tr.DeriveIntent(mocks.GenericOperations()[:1])

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles mismatching amounts", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[1].Amount.Value = "999"
		_, err := tr.DeriveIntent(ops)

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles missing withdrawal", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[0].Amount.Value = "0"
		ops[1].Amount.Value = "0"
		_, err := tr.DeriveIntent(ops)

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles unparseable amount", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[0].Amount.Value = "-1000.5"
		_, err := tr.DeriveIntent(ops)

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles invalid currency", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[1].Amount.Currency.Symbol = "DOT"
		_, err := tr.DeriveIntent(ops)

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles invalid operation type", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[0].Type = "FEE"
		_, err := tr.DeriveIntent(ops)

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles invalid account", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[1].AccountID.Address = "invalid"
		_, err := tr.DeriveIntent(ops)

		var invalid failure.InvalidAccount
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "invalid", invalid.Address)
	})

	t.Run("handles transfer to self", func(t *testing.T) {
		t.Parallel()

		tr := transactor.New(reg, zbor.NewCodec())

		ops := mocks.GenericOperations()
		ops[1].AccountID = ops[0].AccountID
		_, err := tr.DeriveIntent(ops)

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})
}
