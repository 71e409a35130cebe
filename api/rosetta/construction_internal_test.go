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

package rosetta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/rosetta/request"
	"github.com/optakt/substrate-rosetta/rosetta/response"
	"github.com/optakt/substrate-rosetta/testing/mocks"
)

func TestConstruction_Preprocess(t *testing.T) {
	t.Parallel()

	req := request.Preprocess{
		NetworkID:  mocks.GenericNetwork,
		Operations: mocks.GenericOperations(),
	}

	t.Run("nominal case works offline", func(t *testing.T) {
		t.Parallel()

		var gotOperations []object.Operation
		construct := mocks.BaselineConstructor(t)
		construct.PreprocessFunc = func(operations []object.Operation) (object.Options, []identifier.Account, error) {
			gotOperations = operations
			return object.Options{From: mocks.GenericAddress(0)}, []identifier.Account{{Address: mocks.GenericAddress(0)}}, nil
		}

		api := setupConstruction(t, true, construct)
		ctx, rec := setupContext(t, req)

		err := api.Preprocess(ctx)
		require.NoError(t, err)

		var res response.Preprocess
		unpackResponse(t, rec, &res)
		assert.Equal(t, req.Operations, gotOperations)
		assert.Equal(t, mocks.GenericAddress(0), res.Options.From)
		assert.Equal(t, []identifier.Account{{Address: mocks.GenericAddress(0)}}, res.RequiredAccounts)
	})

	t.Run("handles invalid intent", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.PreprocessFunc = func([]object.Operation) (object.Options, []identifier.Account, error) {
			return object.Options{}, nil, failure.InvalidIntent{Description: failure.NewDescription("operation amounts do not balance")}
		}

		api := setupConstruction(t, false, construct)
		ctx, _ := setupContext(t, req)

		err := api.Preprocess(ctx)
		got := assertError(t, err, statusUnprocessableEntity, configuration.ErrorInvalidIntent)
		assert.Equal(t, "operation amounts do not balance", got.Description)
	})

	t.Run("handles unknown network", func(t *testing.T) {
		t.Parallel()

		unknown := req
		unknown.NetworkID = identifier.Network{Blockchain: "Avail", Network: "Goldberg"}

		api := setupConstruction(t, false, mocks.BaselineConstructor(t))
		ctx, _ := setupContext(t, unknown)

		err := api.Preprocess(ctx)
		assertError(t, err, statusUnprocessableEntity, configuration.ErrorInvalidNetwork)
	})
}

func TestConstruction_Metadata(t *testing.T) {
	t.Parallel()

	req := request.Metadata{
		NetworkID: mocks.GenericNetwork,
		Options:   object.Options{From: mocks.GenericAddress(0)},
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		api := setupConstruction(t, false, mocks.BaselineConstructor(t))
		ctx, rec := setupContext(t, req)

		err := api.Metadata(ctx)
		require.NoError(t, err)

		var res response.Metadata
		unpackResponse(t, rec, &res)
		assert.Equal(t, mocks.GenericMetadata(), res.Metadata)
	})

	t.Run("handles offline mode", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.MetadataFunc = func(object.Options) (object.Metadata, error) {
			return object.Metadata{}, failure.OfflineMode{Description: failure.NewDescription("metadata requires node access")}
		}

		api := setupConstruction(t, true, construct)
		ctx, _ := setupContext(t, req)

		err := api.Metadata(ctx)
		assertError(t, err, statusUnprocessableEntity, configuration.ErrorOfflineMode)
	})
}

func TestConstruction_Payloads(t *testing.T) {
	t.Parallel()

	req := request.Payloads{
		NetworkID:  mocks.GenericNetwork,
		Operations: mocks.GenericOperations(),
		Metadata:   mocks.GenericMetadata(),
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		var gotMetadata object.Metadata
		construct := mocks.BaselineConstructor(t)
		construct.PayloadsFunc = func(_ []object.Operation, metadata object.Metadata) (string, []object.SigningPayload, error) {
			gotMetadata = metadata
			return mocks.GenericUnsigned, []object.SigningPayload{{HexBytes: mocks.GenericHex}}, nil
		}

		api := setupConstruction(t, true, construct)
		ctx, rec := setupContext(t, req)

		err := api.Payloads(ctx)
		require.NoError(t, err)

		var res response.Payloads
		unpackResponse(t, rec, &res)
		assert.Equal(t, req.Metadata, gotMetadata)
		assert.Equal(t, mocks.GenericUnsigned, res.Transaction)
		require.Len(t, res.Payloads, 1)
		assert.Equal(t, mocks.GenericHex, res.Payloads[0].HexBytes)
	})

	t.Run("handles invalid block", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.PayloadsFunc = func([]object.Operation, object.Metadata) (string, []object.SigningPayload, error) {
			return "", nil, failure.InvalidBlock{Description: failure.NewDescription("invalid block hash")}
		}

		api := setupConstruction(t, false, construct)
		ctx, _ := setupContext(t, req)

		err := api.Payloads(ctx)
		assertError(t, err, statusUnprocessableEntity, configuration.ErrorInvalidBlock)
	})
}

func TestConstruction_Combine(t *testing.T) {
	t.Parallel()

	req := request.Combine{
		NetworkID:           mocks.GenericNetwork,
		UnsignedTransaction: mocks.GenericUnsigned,
		Signatures: []object.Signature{{
			SignatureType: "ed25519",
			HexBytes:      mocks.GenericHex,
		}},
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		api := setupConstruction(t, true, mocks.BaselineConstructor(t))
		ctx, rec := setupContext(t, req)

		err := api.Combine(ctx)
		require.NoError(t, err)

		var res response.Combine
		unpackResponse(t, rec, &res)
		assert.Equal(t, mocks.GenericSigned, res.SignedTransaction)
	})

	t.Run("handles invalid signature", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.CombineFunc = func(string, []object.Signature) (string, error) {
			return "", failure.InvalidSignature{Description: failure.NewDescription("signature does not verify")}
		}

		api := setupConstruction(t, false, construct)
		ctx, _ := setupContext(t, req)

		err := api.Combine(ctx)
		assertError(t, err, statusUnprocessableEntity, configuration.ErrorInvalidSignature)
	})
}

func TestConstruction_Parse(t *testing.T) {
	t.Parallel()

	req := request.Parse{
		NetworkID:   mocks.GenericNetwork,
		Signed:      true,
		Transaction: mocks.GenericSigned,
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		api := setupConstruction(t, true, mocks.BaselineConstructor(t))
		ctx, rec := setupContext(t, req)

		err := api.Parse(ctx)
		require.NoError(t, err)

		var res response.Parse
		unpackResponse(t, rec, &res)
		assert.Equal(t, mocks.GenericOperations(), res.Operations)
		assert.Equal(t, []identifier.Account{{Address: mocks.GenericAddress(0)}}, res.SignerIDs)
		require.NotNil(t, res.Metadata)
		assert.Equal(t, mocks.GenericMetadata(), *res.Metadata)
	})

	t.Run("handles unsupported extrinsic", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.ParseFunc = func(string, bool) ([]object.Operation, []identifier.Account, *object.Metadata, error) {
			return nil, nil, nil, failure.UnsupportedExtrinsic{
				Method:      "system.remark",
				Description: failure.NewDescription("extrinsic is not a transfer"),
			}
		}

		api := setupConstruction(t, false, construct)
		ctx, _ := setupContext(t, req)

		err := api.Parse(ctx)
		got := assertError(t, err, statusUnprocessableEntity, configuration.ErrorUnsupportedExtrinsic)
		assert.Equal(t, "system.remark", got.Details["method"])
	})

	t.Run("handles invalid payload", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.ParseFunc = func(string, bool) ([]object.Operation, []identifier.Account, *object.Metadata, error) {
			return nil, nil, nil, failure.InvalidPayload{Description: failure.NewDescription("could not decode transaction")}
		}

		api := setupConstruction(t, false, construct)
		ctx, _ := setupContext(t, req)

		err := api.Parse(ctx)
		assertError(t, err, statusUnprocessableEntity, configuration.ErrorInvalidPayload)
	})
}

func TestConstruction_Hash(t *testing.T) {
	t.Parallel()

	api := setupConstruction(t, true, mocks.BaselineConstructor(t))
	ctx, rec := setupContext(t, request.Hash{
		NetworkID:         mocks.GenericNetwork,
		SignedTransaction: mocks.GenericSigned,
	})

	err := api.Hash(ctx)
	require.NoError(t, err)

	var res response.Hash
	unpackResponse(t, rec, &res)
	assert.Equal(t, mocks.GenericHash(2).String(), res.TransactionID.Hash)
}

func TestConstruction_Submit(t *testing.T) {
	t.Parallel()

	req := request.Submit{
		NetworkID:         mocks.GenericNetwork,
		SignedTransaction: mocks.GenericSigned,
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		var gotSigned string
		construct := mocks.BaselineConstructor(t)
		construct.SubmitFunc = func(signed string) (identifier.Transaction, error) {
			gotSigned = signed
			return identifier.Transaction{Hash: mocks.GenericHash(2).String()}, nil
		}

		api := setupConstruction(t, false, construct)
		ctx, rec := setupContext(t, req)

		err := api.Submit(ctx)
		require.NoError(t, err)

		var res response.Submit
		unpackResponse(t, rec, &res)
		assert.Equal(t, mocks.GenericSigned, gotSigned)
		assert.Equal(t, mocks.GenericHash(2).String(), res.TransactionID.Hash)
	})

	t.Run("handles broadcast failure", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.SubmitFunc = func(string) (identifier.Transaction, error) {
			return identifier.Transaction{}, failure.Broadcast{
				Hash:        mocks.GenericHash(2).String(),
				Description: failure.NewDescription("node rejected transaction", failure.WithErr(mocks.GenericError)),
			}
		}

		api := setupConstruction(t, false, construct)
		ctx, _ := setupContext(t, req)

		err := api.Submit(ctx)
		got := assertError(t, err, statusBadGateway, configuration.ErrorBroadcastFailed)
		assert.Equal(t, mocks.GenericHash(2).String(), got.Details["hash"])
		assert.Equal(t, mocks.GenericError.Error(), got.Details["error"])
		assert.True(t, got.Retriable)
	})
}

func TestConstruction_Derive(t *testing.T) {
	t.Parallel()

	req := request.Derive{
		NetworkID: mocks.GenericNetwork,
		PublicKey: object.PublicKey{HexBytes: mocks.GenericHex, CurveType: "edwards25519"},
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		api := setupConstruction(t, true, mocks.BaselineConstructor(t))
		ctx, rec := setupContext(t, req)

		err := api.Derive(ctx)
		require.NoError(t, err)

		var res response.Derive
		unpackResponse(t, rec, &res)
		assert.Equal(t, mocks.GenericAddress(0), res.AccountID.Address)
	})

	t.Run("handles invalid key", func(t *testing.T) {
		t.Parallel()

		construct := mocks.BaselineConstructor(t)
		construct.DeriveFunc = func(object.PublicKey) (identifier.Account, error) {
			return identifier.Account{}, failure.InvalidKey{
				CurveType:   "edwards25519",
				Length:      4,
				Description: failure.NewDescription("invalid public key length"),
			}
		}

		api := setupConstruction(t, false, construct)
		ctx, _ := setupContext(t, req)

		err := api.Derive(ctx)
		got := assertError(t, err, statusUnprocessableEntity, configuration.ErrorInvalidKey)
		assert.Equal(t, "edwards25519", got.Details["curve_type"])
		assert.Equal(t, "4", got.Details["length"])
	})
}

func setupConstruction(t *testing.T, offline bool, construct *mocks.Constructor) *Construction {
	t.Helper()

	manager := setupManager(t, offline, mocks.BaselineRetriever(t), construct)

	return NewConstruction(mocks.BaselineValidator(t), manager)
}
