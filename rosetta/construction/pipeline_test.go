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

package construction_test

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/codec/zbor"
	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/construction"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/rosetta/transactor"
	"github.com/optakt/substrate-rosetta/testing/mocks"
)

// signer is an ed25519 key pair with its account address.
type signer struct {
	key     ed25519.PrivateKey
	address string
}

func genericSigner(t *testing.T, reg *registry.Registry) signer {
	t.Helper()

	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	key := ed25519.NewKeyFromSeed(seed)

	var id substrate.AccountID
	copy(id[:], key.Public().(ed25519.PublicKey))

	return signer{key: key, address: reg.Address(id)}
}

func transfer(from string, to string, value string) []object.Operation {
	return []object.Operation{
		{
			ID:        identifier.Operation{Index: 0},
			Type:      configuration.OperationTransfer,
			AccountID: identifier.Account{Address: from},
			Amount:    object.Amount{Value: "-" + value, Currency: mocks.GenericCurrency},
		},
		{
			ID:        identifier.Operation{Index: 1},
			Type:      configuration.OperationTransfer,
			AccountID: identifier.Account{Address: to},
			Amount:    object.Amount{Value: value, Currency: mocks.GenericCurrency},
		},
	}
}

func sign(t *testing.T, s signer, payload object.SigningPayload) object.Signature {
	t.Helper()

	data, err := hex.DecodeString(payload.HexBytes)
	require.NoError(t, err)

	sig := object.Signature{
		SigningPayload: payload,
		SignatureType:  construction.SignatureEd25519,
		HexBytes:       hex.EncodeToString(ed25519.Sign(s.key, data)),
		PublicKey: object.PublicKey{
			HexBytes:  hex.EncodeToString(s.key.Public().(ed25519.PublicKey)),
			CurveType: construction.CurveEdwards25519,
		},
	}

	return sig
}

func pipeline(t *testing.T, reg *registry.Registry, node construction.Node) *construction.Pipeline {
	t.Helper()

	return construction.New(reg, transactor.New(reg, zbor.NewCodec()), node)
}

// unsigned runs the pipeline up to the payloads step for a transfer from the
// signer to the second generic account.
func unsigned(t *testing.T, p *construction.Pipeline, s signer) (string, []object.SigningPayload) {
	t.Helper()

	ops := transfer(s.address, mocks.GenericAddress(1), "1000")
	options, _, err := p.Preprocess(ops)
	require.NoError(t, err)
	metadata, err := p.Metadata(options)
	require.NoError(t, err)
	tx, payloads, err := p.Payloads(ops, metadata)
	require.NoError(t, err)

	return tx, payloads
}

func TestPipeline_RoundTrip(t *testing.T) {
	reg := mocks.GenericRegistry(t)
	s := genericSigner(t, reg)

	var submitted []byte
	node := mocks.BaselineNode(t)
	node.SubmitFunc = func(extrinsic []byte) (substrate.Hash, error) {
		submitted = extrinsic
		return substrate.HashOf(extrinsic), nil
	}
	p := pipeline(t, reg, node)

	ops := transfer(s.address, mocks.GenericAddress(1), "1000")

	options, required, err := p.Preprocess(ops)
	require.NoError(t, err)
	assert.Equal(t, s.address, options.From)
	assert.Equal(t, []identifier.Account{{Address: s.address}, {Address: mocks.GenericAddress(1)}}, required)

	metadata, err := p.Metadata(options)
	require.NoError(t, err)
	assert.Equal(t, mocks.GenericNonce, metadata.Nonce)
	assert.Equal(t, mocks.GenericHash(0).Hex(), metadata.BlockHash)
	assert.Equal(t, mocks.GenericHeight, metadata.BlockNumber)
	assert.Equal(t, uint64(construction.EraPeriod), metadata.EraPeriod)

	tx, payloads, err := p.Payloads(ops, metadata)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, s.address, payloads[0].AccountID.Address)
	assert.Equal(t, construction.SignatureEd25519, payloads[0].SignatureType)

	parsed, signers, parsedMeta, err := p.Parse(tx, false)
	require.NoError(t, err)
	assert.Equal(t, ops, parsed)
	assert.Empty(t, signers)
	assert.Equal(t, metadata, *parsedMeta)

	signed, err := p.Combine(tx, []object.Signature{sign(t, s, payloads[0])})
	require.NoError(t, err)

	parsed, signers, _, err = p.Parse(signed, true)
	require.NoError(t, err)
	assert.Equal(t, ops, parsed)
	assert.Equal(t, []identifier.Account{{Address: s.address}}, signers)

	hash, err := p.Hash(signed)
	require.NoError(t, err)
	again, err := p.Hash(signed)
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	submittedID, err := p.Submit(signed)
	require.NoError(t, err)
	assert.Equal(t, hash, submittedID)
	require.NotEmpty(t, submitted)
	assert.Equal(t, substrate.HashOf(submitted).String(), hash.Hash)

	// The submitted extrinsic can also be parsed in its raw form.
	parsed, signers, parsedMeta, err = p.Parse("0x"+hex.EncodeToString(submitted), true)
	require.NoError(t, err)
	assert.Equal(t, ops, parsed)
	assert.Equal(t, []identifier.Account{{Address: s.address}}, signers)
	assert.Equal(t, mocks.GenericNonce, parsedMeta.Nonce)
	assert.Equal(t, uint64(construction.EraPeriod), parsedMeta.EraPeriod)

	ext, err := reg.DecodeExtrinsic(submitted)
	require.NoError(t, err)
	assert.True(t, ext.Signed)
	assert.Equal(t, registry.SignatureEd25519, ext.SignatureType)
	assert.Equal(t, transactor.TransferMethod, ext.Call.Method())
}

func TestPipeline_Preprocess(t *testing.T) {
	reg := mocks.GenericRegistry(t)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))

		options, required, err := p.Preprocess(transfer(mocks.GenericAddress(0), mocks.GenericAddress(1), "500"))
		require.NoError(t, err)
		assert.Equal(t, mocks.GenericAddress(0), options.From)
		require.Len(t, required, 2)
		assert.Equal(t, []identifier.Account{{Address: mocks.GenericAddress(0)}, {Address: mocks.GenericAddress(1)}}, required)
	})

	t.Run("works offline", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		options, _, err := p.Preprocess(transfer(mocks.GenericAddress(0), mocks.GenericAddress(1), "500"))
		require.NoError(t, err)
		assert.Equal(t, mocks.GenericAddress(0), options.From)
	})

	t.Run("handles invalid intent", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))

		ops := transfer(mocks.GenericAddress(0), mocks.GenericAddress(1), "500")
		_, _, err := p.Preprocess(ops[:1])

		var invalid failure.InvalidIntent
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestPipeline_Metadata(t *testing.T) {
	reg := mocks.GenericRegistry(t)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		var requested string
		node := mocks.BaselineNode(t)
		node.NonceFunc = func(address string) (uint64, error) {
			requested = address
			return 9, nil
		}
		p := pipeline(t, reg, node)

		metadata, err := p.Metadata(object.Options{From: mocks.GenericAddress(0)})
		require.NoError(t, err)
		assert.Equal(t, mocks.GenericAddress(0), requested)
		assert.Equal(t, uint64(9), metadata.Nonce)
	})

	t.Run("handles offline mode", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		_, err := p.Metadata(object.Options{From: mocks.GenericAddress(0)})

		var offline failure.OfflineMode
		assert.True(t, errors.As(err, &offline))
	})

	t.Run("handles invalid sender", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))

		_, err := p.Metadata(object.Options{From: "invalid"})

		var invalid failure.InvalidAccount
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles node failure", func(t *testing.T) {
		t.Parallel()

		node := mocks.BaselineNode(t)
		node.FinalizedFunc = func() (substrate.Hash, error) {
			return substrate.ZeroHash, mocks.GenericError
		}
		p := pipeline(t, reg, node)

		_, err := p.Metadata(object.Options{From: mocks.GenericAddress(0)})
		assert.ErrorIs(t, err, mocks.GenericError)
	})
}

func TestPipeline_Combine(t *testing.T) {
	reg := mocks.GenericRegistry(t)
	s := genericSigner(t, reg)

	t.Run("handles signature count", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)
		sig := sign(t, s, payloads[0])

		_, err := p.Combine(tx, nil)
		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))

		_, err = p.Combine(tx, []object.Signature{sig, sig})
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles payload mismatch", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)

		payload := payloads[0]
		payload.HexBytes = hex.EncodeToString(mocks.GenericBytes)
		_, err := p.Combine(tx, []object.Signature{sign(t, s, payload)})

		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles wrong signer", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)

		payload := payloads[0]
		payload.AccountID = identifier.Account{Address: mocks.GenericAddress(1)}
		_, err := p.Combine(tx, []object.Signature{sign(t, s, payload)})

		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles bad signature", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)

		sig := sign(t, s, payloads[0])
		sig.HexBytes = hex.EncodeToString(make([]byte, ed25519.SignatureSize))
		_, err := p.Combine(tx, []object.Signature{sig})

		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles unsupported signature type", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)

		sig := sign(t, s, payloads[0])
		sig.SignatureType = "bls12381"
		_, err := p.Combine(tx, []object.Signature{sig})

		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("accepts schnorrkel signature", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)

		sig := sign(t, s, payloads[0])
		sig.SignatureType = construction.SignatureSchnorrkel
		signed, err := p.Combine(tx, []object.Signature{sig})
		require.NoError(t, err)

		_, signers, _, err := p.Parse(signed, true)
		require.NoError(t, err)
		assert.Equal(t, []identifier.Account{{Address: s.address}}, signers)
	})

	t.Run("handles already signed transaction", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)
		sig := sign(t, s, payloads[0])

		signed, err := p.Combine(tx, []object.Signature{sig})
		require.NoError(t, err)
		_, err = p.Combine(signed, []object.Signature{sig})

		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestPipeline_Parse(t *testing.T) {
	reg := mocks.GenericRegistry(t)
	s := genericSigner(t, reg)

	t.Run("handles signed flag mismatch", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, _ := unsigned(t, p, s)

		_, _, _, err := p.Parse(tx, true)

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles invalid transaction", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))

		_, _, _, err := p.Parse("not hex", false)

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles invalid extrinsic", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))

		_, _, _, err := p.Parse("0xzz", true)

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestPipeline_Hash(t *testing.T) {
	reg := mocks.GenericRegistry(t)
	s := genericSigner(t, reg)

	t.Run("raw signed extrinsic", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, payloads := unsigned(t, p, s)
		signed, err := p.Combine(tx, []object.Signature{sign(t, s, payloads[0])})
		require.NoError(t, err)

		want, err := p.Hash(signed)
		require.NoError(t, err)

		var submitted []byte
		node := mocks.BaselineNode(t)
		node.SubmitFunc = func(extrinsic []byte) (substrate.Hash, error) {
			submitted = extrinsic
			return substrate.HashOf(extrinsic), nil
		}
		_, err = pipeline(t, reg, node).Submit(signed)
		require.NoError(t, err)

		got, err := p.Hash("0x" + hex.EncodeToString(submitted))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("handles arbitrary bytes", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))

		_, err := p.Hash("0x" + hex.EncodeToString(mocks.GenericBytes))

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})

	t.Run("handles unsigned extrinsic", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))

		call, err := reg.NewCall("System.remark", mocks.GenericBytes)
		require.NoError(t, err)
		encoded, err := reg.EncodeCall(call)
		require.NoError(t, err)
		body := append([]byte{0x04}, encoded...)
		data := append([]byte{byte(len(body) << 2)}, body...)

		_, err = p.Hash("0x" + hex.EncodeToString(data))

		var invalid failure.InvalidPayload
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestPipeline_Submit(t *testing.T) {
	reg := mocks.GenericRegistry(t)
	s := genericSigner(t, reg)

	t.Run("handles offline mode", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		_, err := p.Submit("0x00")

		var offline failure.OfflineMode
		assert.True(t, errors.As(err, &offline))
	})

	t.Run("handles rejected transaction", func(t *testing.T) {
		t.Parallel()

		node := mocks.BaselineNode(t)
		node.SubmitFunc = func([]byte) (substrate.Hash, error) {
			return substrate.ZeroHash, mocks.GenericError
		}
		p := pipeline(t, reg, node)
		tx, payloads := unsigned(t, p, s)
		signed, err := p.Combine(tx, []object.Signature{sign(t, s, payloads[0])})
		require.NoError(t, err)

		_, err = p.Submit(signed)

		var broadcast failure.Broadcast
		require.True(t, errors.As(err, &broadcast))
		hash, err := p.Hash(signed)
		require.NoError(t, err)
		assert.Equal(t, hash.Hash, broadcast.Hash)
	})

	t.Run("handles unsigned transaction", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, mocks.BaselineNode(t))
		tx, _ := unsigned(t, p, s)

		_, err := p.Submit(tx)

		var invalid failure.InvalidSignature
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestPipeline_Derive(t *testing.T) {
	reg := mocks.GenericRegistry(t)

	t.Run("schnorrkel key", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		account, err := p.Derive(object.PublicKey{
			HexBytes:  "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
			CurveType: construction.CurveSchnorrkel,
		})
		require.NoError(t, err)
		assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", account.Address)
	})

	t.Run("ed25519 curve name", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		account, err := p.Derive(object.PublicKey{
			HexBytes:  "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
			CurveType: construction.CurveEd25519,
		})
		require.NoError(t, err)
		assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", account.Address)
	})

	t.Run("edwards25519 key", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		id := mocks.GenericAccountID(1)
		account, err := p.Derive(object.PublicKey{
			HexBytes:  hex.EncodeToString(id[:]),
			CurveType: construction.CurveEdwards25519,
		})
		require.NoError(t, err)
		assert.Equal(t, mocks.GenericAddress(1), account.Address)
	})

	t.Run("secp256k1 key", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		key := make([]byte, 33)
		key[0] = 0x02
		account, err := p.Derive(object.PublicKey{
			HexBytes:  hex.EncodeToString(key),
			CurveType: construction.CurveSecp256k1,
		})
		require.NoError(t, err)

		want := reg.Address(substrate.AccountID(substrate.HashOf(key)))
		assert.Equal(t, want, account.Address)
	})

	t.Run("handles invalid length", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		_, err := p.Derive(object.PublicKey{
			HexBytes:  "d435",
			CurveType: construction.CurveSchnorrkel,
		})

		var invalid failure.InvalidKey
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, 2, invalid.Length)
	})

	t.Run("handles unknown curve", func(t *testing.T) {
		t.Parallel()

		p := pipeline(t, reg, nil)

		_, err := p.Derive(object.PublicKey{
			HexBytes:  "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
			CurveType: "pallas",
		})

		var invalid failure.InvalidKey
		assert.True(t, errors.As(err, &invalid))
	})
}
