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

type Constructor struct {
	PreprocessFunc func(operations []object.Operation) (object.Options, []identifier.Account, error)
	MetadataFunc   func(options object.Options) (object.Metadata, error)
	PayloadsFunc   func(operations []object.Operation, metadata object.Metadata) (string, []object.SigningPayload, error)
	CombineFunc    func(unsigned string, signatures []object.Signature) (string, error)
	ParseFunc      func(transaction string, signed bool) ([]object.Operation, []identifier.Account, *object.Metadata, error)
	HashFunc       func(signed string) (identifier.Transaction, error)
	SubmitFunc     func(signed string) (identifier.Transaction, error)
	DeriveFunc     func(key object.PublicKey) (identifier.Account, error)
}

func BaselineConstructor(t *testing.T) *Constructor {
	t.Helper()

	c := Constructor{
		PreprocessFunc: func([]object.Operation) (object.Options, []identifier.Account, error) {
			return object.Options{From: GenericAddress(0)}, []identifier.Account{{Address: GenericAddress(0)}}, nil
		},
		MetadataFunc: func(object.Options) (object.Metadata, error) {
			return GenericMetadata(), nil
		},
		PayloadsFunc: func([]object.Operation, object.Metadata) (string, []object.SigningPayload, error) {
			payloads := []object.SigningPayload{{
				AccountID:     identifier.Account{Address: GenericAddress(0)},
				HexBytes:      GenericHex,
				SignatureType: "ed25519",
			}}
			return GenericUnsigned, payloads, nil
		},
		CombineFunc: func(string, []object.Signature) (string, error) {
			return GenericSigned, nil
		},
		ParseFunc: func(_ string, signed bool) ([]object.Operation, []identifier.Account, *object.Metadata, error) {
			var signers []identifier.Account
			if signed {
				signers = []identifier.Account{{Address: GenericAddress(0)}}
			}
			metadata := GenericMetadata()
			return GenericOperations(), signers, &metadata, nil
		},
		HashFunc: func(string) (identifier.Transaction, error) {
			return identifier.Transaction{Hash: GenericHash(2).String()}, nil
		},
		SubmitFunc: func(string) (identifier.Transaction, error) {
			return identifier.Transaction{Hash: GenericHash(2).String()}, nil
		},
		DeriveFunc: func(object.PublicKey) (identifier.Account, error) {
			return identifier.Account{Address: GenericAddress(0)}, nil
		},
	}

	return &c
}

func (c *Constructor) Preprocess(operations []object.Operation) (object.Options, []identifier.Account, error) {
	return c.PreprocessFunc(operations)
}

func (c *Constructor) Metadata(options object.Options) (object.Metadata, error) {
	return c.MetadataFunc(options)
}

func (c *Constructor) Payloads(operations []object.Operation, metadata object.Metadata) (string, []object.SigningPayload, error) {
	return c.PayloadsFunc(operations, metadata)
}

func (c *Constructor) Combine(unsigned string, signatures []object.Signature) (string, error) {
	return c.CombineFunc(unsigned, signatures)
}

func (c *Constructor) Parse(transaction string, signed bool) ([]object.Operation, []identifier.Account, *object.Metadata, error) {
	return c.ParseFunc(transaction, signed)
}

func (c *Constructor) Hash(signed string) (identifier.Transaction, error) {
	return c.HashFunc(signed)
}

func (c *Constructor) Submit(signed string) (identifier.Transaction, error) {
	return c.SubmitFunc(signed)
}

func (c *Constructor) Derive(key object.PublicKey) (identifier.Account, error) {
	return c.DeriveFunc(key)
}
