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

package registry_test

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/networks"
	"github.com/optakt/substrate-rosetta/registry"
)

var (
	alice = substrate.AccountID{0xd4, 0x35, 0x93, 0xc7, 0x15, 0xfd, 0xd3, 0x1c, 0x61, 0x14, 0x1a, 0xbd, 0x04, 0xa9, 0x9f, 0xd6, 0x82, 0x2c, 0x85, 0x58, 0x85, 0x4c, 0xcd, 0xe3, 0x9a, 0x56, 0x84, 0xe7, 0xa5, 0x6d, 0xa2, 0x7d}
	bob   = substrate.AccountID{0x8e, 0xaf, 0x04, 0x15, 0x16, 0x87, 0x73, 0x63, 0x26, 0xc9, 0xfe, 0xa1, 0x7e, 0x25, 0xfc, 0x52, 0x87, 0x61, 0x36, 0x93, 0xc9, 0x12, 0x90, 0x9c, 0xb2, 0x26, 0xaa, 0x47, 0x94, 0xf2, 0x6a, 0x48}
)

func devNode(t *testing.T) *registry.Registry {
	t.Helper()

	file, err := networks.Parse(networks.DevNode())
	require.NoError(t, err)
	reg, err := registry.Build(file.Descriptor, file.Metadata)
	require.NoError(t, err)

	return reg
}

func TestBuild(t *testing.T) {
	file, err := networks.Parse(networks.DevNode())
	require.NoError(t, err)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		reg, err := registry.Build(file.Descriptor, file.Metadata)

		require.NoError(t, err)
		assert.Equal(t, file.Descriptor, reg.Descriptor())
		assert.NotZero(t, reg.Fingerprint())
	})

	t.Run("handles spec version mismatch", func(t *testing.T) {
		t.Parallel()

		desc := file.Descriptor
		desc.SpecVersion++

		_, err := registry.Build(desc, file.Metadata)

		assert.ErrorIs(t, err, registry.ErrSpecMismatch)
	})

	t.Run("handles unknown signed extension", func(t *testing.T) {
		t.Parallel()

		desc := file.Descriptor
		desc.SignedExtensions = append([]string{}, desc.SignedExtensions...)
		desc.SignedExtensions = append(desc.SignedExtensions, "CheckUnknown")

		_, err := registry.Build(desc, file.Metadata)

		assert.ErrorIs(t, err, registry.ErrUnknownExtension)
	})

	t.Run("handles malformed metadata", func(t *testing.T) {
		t.Parallel()

		_, err := registry.Build(file.Descriptor, []byte(`{"spec_name": `))

		assert.Error(t, err)
	})

	t.Run("handles unknown type", func(t *testing.T) {
		t.Parallel()

		metadata := []byte(`{
			"spec_name": "avail",
			"spec_version": 30,
			"pallets": [{"name": "Balances", "index": 6, "events": [{"name": "Transfer", "args": ["Missing"]}]}]
		}`)

		_, err := registry.Build(file.Descriptor, metadata)

		assert.ErrorIs(t, err, registry.ErrUnknownType)
	})

	t.Run("handles circular alias", func(t *testing.T) {
		t.Parallel()

		metadata := []byte(`{
			"spec_name": "avail",
			"spec_version": 30,
			"types": {"A": {"alias": "B"}, "B": {"alias": "A"}},
			"pallets": [{"name": "System", "index": 0}]
		}`)

		_, err := registry.Build(file.Descriptor, metadata)

		assert.Error(t, err)
	})
}

func TestRegistry_Codec(t *testing.T) {
	reg := devNode(t)

	t.Run("struct round trip", func(t *testing.T) {
		t.Parallel()

		info := registry.Struct{
			Names: []string{"weight", "class", "pays_fee"},
			Values: []registry.Value{
				uint64(123456),
				registry.Variant{Name: "Normal"},
				registry.Variant{Name: "Yes"},
			},
		}

		data, err := reg.Encode("DispatchInfo", info)
		require.NoError(t, err)
		assert.Len(t, data, 10)

		got, err := reg.Decode("DispatchInfo", data)
		require.NoError(t, err)

		decoded, ok := got.(registry.Struct)
		require.True(t, ok)
		fee, ok := decoded.Field("pays_fee")
		require.True(t, ok)
		assert.Equal(t, "Yes", fee.(registry.Variant).Name)
		weight, _ := decoded.Field("weight")
		assert.Equal(t, uint64(123456), weight)
	})

	t.Run("compact and u128", func(t *testing.T) {
		t.Parallel()

		data, err := reg.Encode("Compact<Balance>", 1000)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xa1, 0x0f}, data)

		data, err = reg.Encode("Balance", big.NewInt(500))
		require.NoError(t, err)
		assert.Len(t, data, 16)

		got, err := reg.Decode("Balance", data)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(500), got)
	})

	t.Run("vectors, options and tuples", func(t *testing.T) {
		t.Parallel()

		value := []registry.Value{
			[]registry.Value{uint64(1), true},
			[]registry.Value{uint64(2), false},
		}
		data, err := reg.Encode("Vec<(u32, bool)>", value)
		require.NoError(t, err)

		got, err := reg.Decode("Vec<(u32,bool)>", data)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		data, err = reg.Encode("Option<AccountId>", nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{0}, data)

		got, err = reg.Decode("Option<AccountId>", append([]byte{1}, alice[:]...))
		require.NoError(t, err)
		assert.Equal(t, alice, got)
	})

	t.Run("handles overflow", func(t *testing.T) {
		t.Parallel()

		_, err := reg.Encode("u8", 256)
		assert.Error(t, err)
	})

	t.Run("handles trailing bytes", func(t *testing.T) {
		t.Parallel()

		_, err := reg.Decode("u32", []byte{1, 0, 0, 0, 0})
		assert.Error(t, err)
	})

	t.Run("handles unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := reg.Decode("Missing", []byte{0})
		assert.ErrorIs(t, err, registry.ErrUnknownType)
	})
}

func TestRegistry_StorageKey(t *testing.T) {
	reg := devNode(t)

	t.Run("plain values", func(t *testing.T) {
		t.Parallel()

		key, err := reg.StorageKey("Timestamp", "Now")
		require.NoError(t, err)
		assert.Equal(t, "f0c365c3cf59d671eb72da0e7a4113c49f1f0515f462cdcf84e0f1d6045dfcbb", hex.EncodeToString(key))

		key, err = reg.StorageKey("System", "Events")
		require.NoError(t, err)
		assert.Equal(t, "26aa394eea5630e07c48ae0c9558cef780d41e5e16056765bc8461851072c9d7", hex.EncodeToString(key))
	})

	t.Run("maps", func(t *testing.T) {
		t.Parallel()

		key, err := reg.StorageKey("System", "Account", alice)
		require.NoError(t, err)

		prefix := "26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9"
		assert.Equal(t, prefix, hex.EncodeToString(key[:32]))
		assert.Len(t, key, 32+16+32)
		assert.Equal(t, alice[:], key[48:])

		key, err = reg.StorageKey("PoAModule", "Epochs", uint32(7))
		require.NoError(t, err)
		assert.Len(t, key, 32+8+4)
		assert.Equal(t, []byte{7, 0, 0, 0}, key[40:])
	})

	t.Run("handles missing key", func(t *testing.T) {
		t.Parallel()

		_, err := reg.StorageKey("System", "Account")
		assert.Error(t, err)
	})

	t.Run("handles unknown entry", func(t *testing.T) {
		t.Parallel()

		_, err := reg.StorageKey("System", "Missing")
		assert.Error(t, err)
	})
}

func TestRegistry_Extrinsic(t *testing.T) {
	reg := devNode(t)

	call, err := reg.NewCall("Balances.transfer_keep_alive", bob, big.NewInt(1000))
	require.NoError(t, err)
	encodedCall, err := reg.EncodeCall(call)
	require.NoError(t, err)

	params := registry.Params{
		Era:        substrate.NewMortalEra(100, 64),
		Nonce:      5,
		Tip:        big.NewInt(0),
		Checkpoint: substrate.HashOf([]byte("checkpoint")),
	}

	t.Run("call encoding", func(t *testing.T) {
		t.Parallel()

		want := append([]byte{6, 3, 0}, bob[:]...)
		want = append(want, 0xa1, 0x0f)
		assert.Equal(t, want, encodedCall)

		decoded, err := reg.DecodeCall(encodedCall)
		require.NoError(t, err)
		assert.Equal(t, "balances.transferkeepalive", decoded.Key())
		assert.Equal(t, "Balances.transfer_keep_alive", decoded.Method())
	})

	t.Run("signed round trip", func(t *testing.T) {
		t.Parallel()

		signature := bytes.Repeat([]byte{0xab}, 64)
		data, err := reg.EncodeExtrinsic(encodedCall, alice, registry.SignatureEd25519, signature, params)
		require.NoError(t, err)

		ext, err := reg.DecodeExtrinsic(data)
		require.NoError(t, err)

		assert.True(t, ext.Signed)
		assert.Equal(t, alice, ext.Signer)
		assert.Equal(t, registry.SignatureEd25519, ext.SignatureType)
		assert.Equal(t, signature, ext.Signature)
		assert.Equal(t, params.Era, ext.Params.Era)
		assert.Equal(t, params.Nonce, ext.Params.Nonce)
		assert.Equal(t, int64(0), ext.Params.Tip.Int64())
		assert.Equal(t, "balances.transferkeepalive", ext.Call.Key())
		assert.Equal(t, substrate.HashOf(data), ext.Hash())

		dest, err := registry.AccountOf(ext.Call.Args[0])
		require.NoError(t, err)
		assert.Equal(t, bob, dest)
		amount, err := registry.BigInt(ext.Call.Args[1])
		require.NoError(t, err)
		assert.Equal(t, int64(1000), amount.Int64())
	})

	t.Run("unsigned extrinsic", func(t *testing.T) {
		t.Parallel()

		set, err := reg.NewCall("Timestamp.set", uint64(1_650_000_000_000))
		require.NoError(t, err)
		encoded, err := reg.EncodeCall(set)
		require.NoError(t, err)
		body := append([]byte{0x04}, encoded...)
		data := append([]byte{byte(len(body) << 2)}, body...)

		ext, err := reg.DecodeExtrinsic(data)
		require.NoError(t, err)

		assert.False(t, ext.Signed)
		assert.Equal(t, "timestamp.set", ext.Call.Key())
	})

	t.Run("handles unsupported signature type", func(t *testing.T) {
		t.Parallel()

		_, err := reg.EncodeExtrinsic(encodedCall, alice, "bls", make([]byte, 64), params)
		assert.ErrorIs(t, err, registry.ErrUnsupportedSignature)
	})

	t.Run("handles invalid signature length", func(t *testing.T) {
		t.Parallel()

		_, err := reg.EncodeExtrinsic(encodedCall, alice, registry.SignatureEd25519, make([]byte, 65), params)
		assert.Error(t, err)
	})

	t.Run("handles length mismatch", func(t *testing.T) {
		t.Parallel()

		data, err := reg.EncodeExtrinsic(encodedCall, alice, registry.SignatureEd25519, make([]byte, 64), params)
		require.NoError(t, err)

		_, err = reg.DecodeExtrinsic(data[:len(data)-1])
		assert.Error(t, err)
	})

	t.Run("handles unknown method", func(t *testing.T) {
		t.Parallel()

		_, err := reg.NewCall("Balances.missing", bob)
		assert.Error(t, err)

		_, err = reg.NewCall("transfer", bob)
		assert.Error(t, err)

		_, err = reg.NewCall("Balances.transfer", bob)
		assert.Error(t, err)
	})
}

func TestRegistry_SigningPayload(t *testing.T) {
	reg := devNode(t)
	desc := reg.Descriptor()

	params := registry.Params{
		Era:        substrate.NewMortalEra(100, 64),
		Nonce:      1,
		Tip:        big.NewInt(0),
		Checkpoint: substrate.HashOf([]byte("checkpoint")),
	}

	t.Run("short payload", func(t *testing.T) {
		t.Parallel()

		call := []byte{6, 3}

		payload, err := reg.SigningPayload(call, params)
		require.NoError(t, err)

		// call, era, nonce, tip, app ID, spec version, tx version, genesis, checkpoint
		want := []byte{6, 3, 0x45, 0x02, 0x04, 0x00, 0x00, 30, 0, 0, 0, 1, 0, 0, 0}
		want = append(want, desc.Genesis[:]...)
		want = append(want, params.Checkpoint[:]...)
		assert.Equal(t, want, payload)
	})

	t.Run("immortal payload uses genesis", func(t *testing.T) {
		t.Parallel()

		immortal := params
		immortal.Era = substrate.ImmortalEra

		payload, err := reg.SigningPayload([]byte{6, 3}, immortal)
		require.NoError(t, err)

		assert.Equal(t, desc.Genesis[:], payload[len(payload)-32:])
	})

	t.Run("long payload is hashed", func(t *testing.T) {
		t.Parallel()

		call := bytes.Repeat([]byte{1}, 300)

		payload, err := reg.SigningPayload(call, params)
		require.NoError(t, err)

		assert.Len(t, payload, 32)
	})
}

func TestRegistry_DecodeEvents(t *testing.T) {
	reg := devNode(t)

	var data []byte
	data = append(data, 0x08)

	// ApplyExtrinsic(1): Balances.Transfer(alice, bob, 500)
	first := []byte{0x00, 1, 0, 0, 0, 6, 2}
	first = append(first, alice[:]...)
	first = append(first, bob[:]...)
	amount := make([]byte, 16)
	amount[0], amount[1] = 0xf4, 0x01
	first = append(first, amount...)
	first = append(first, 0x00)
	data = append(data, first...)

	// Finalization: PoAModule.EpochEnds(7)
	second := []byte{0x01, 12, 1, 7, 0, 0, 0, 0x00}
	data = append(data, second...)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		events, err := reg.DecodeEvents(data)
		require.NoError(t, err)
		require.Len(t, events, 2)

		transfer := events[0]
		assert.Equal(t, registry.PhaseApplyExtrinsic, transfer.Phase)
		assert.Equal(t, uint32(1), transfer.Extrinsic)
		assert.Equal(t, "balances.transfer", transfer.Key())
		assert.Equal(t, alice, transfer.Args[0])
		assert.Equal(t, bob, transfer.Args[1])
		assert.Equal(t, big.NewInt(500), transfer.Args[2])
		assert.Equal(t, first, transfer.Raw)
		assert.Equal(t, substrate.HashOf(first), transfer.Hash())

		epoch := events[1]
		assert.Equal(t, registry.PhaseFinalization, epoch.Phase)
		assert.Equal(t, "poamodule.epochends", epoch.Key())
		assert.Equal(t, uint64(7), epoch.Args[0])
		assert.Equal(t, second, epoch.Raw)
	})

	t.Run("empty events", func(t *testing.T) {
		t.Parallel()

		events, err := reg.DecodeEvents([]byte{0x00})

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("handles unknown event", func(t *testing.T) {
		t.Parallel()

		_, err := reg.DecodeEvents([]byte{0x04, 0x01, 12, 99, 0x00})
		assert.Error(t, err)
	})

	t.Run("handles truncated data", func(t *testing.T) {
		t.Parallel()

		_, err := reg.DecodeEvents(data[:len(data)-3])
		assert.Error(t, err)
	})
}

func TestRegistry_Address(t *testing.T) {
	reg := devNode(t)

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		address := reg.Address(alice)
		assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", address)

		id, err := reg.Account(address)
		require.NoError(t, err)
		assert.Equal(t, alice, id)
	})

	t.Run("handles invalid address", func(t *testing.T) {
		t.Parallel()

		_, err := reg.Account("not an address")
		assert.Error(t, err)
	})
}
