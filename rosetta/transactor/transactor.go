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

package transactor

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
)

// Codec encodes envelopes into deterministic bytes.
type Codec interface {
	Encode(value interface{}) ([]byte, error)
	Decode(data []byte, value interface{}) error
}

// Params are the parameters of a transfer envelope.
type Params struct {
	Sender      string
	Receiver    string
	Value       *big.Int
	Tip         *big.Int
	Nonce       uint64
	EraPeriod   uint64
	BlockNumber uint64
	BlockHash   substrate.Hash
}

// Transactor builds keep-alive transfers, derives their signing payloads and
// assembles them into signed extrinsics.
type Transactor struct {
	reg   *registry.Registry
	codec Codec
}

// New creates a transactor for the runtime of the given registry.
func New(reg *registry.Registry, codec Codec) *Transactor {

	t := Transactor{
		reg:   reg,
		codec: codec,
	}

	return &t
}

// Build creates an unsigned envelope for a transfer and returns it together
// with its signing payload. Building is deterministic.
func (t *Transactor) Build(params Params) (*Envelope, []byte, error) {

	for _, address := range []string{params.Sender, params.Receiver} {
		_, err := t.reg.Account(address)
		if err != nil {
			return nil, nil, failure.InvalidAccount{
				Description: failure.NewDescription(accountInvalid, failure.WithErr(err)),
				Address:     address,
			}
		}
	}

	tip := params.Tip
	if tip == nil {
		tip = new(big.Int)
	}
	if params.Value == nil || params.Value.Sign() < 0 || tip.Sign() < 0 {
		return nil, nil, failure.InvalidIntent{
			Description: failure.NewDescription(envelopeAmount),
		}
	}

	desc := t.reg.Descriptor()
	env := Envelope{
		Version:            EnvelopeVersion,
		Method:             TransferMethod,
		Sender:             params.Sender,
		Receiver:           params.Receiver,
		Value:              params.Value.String(),
		Tip:                tip.String(),
		Nonce:              params.Nonce,
		EraPeriod:          params.EraPeriod,
		BlockNumber:        params.BlockNumber,
		BlockHash:          params.BlockHash,
		GenesisHash:        desc.Genesis,
		SpecVersion:        desc.SpecVersion,
		TransactionVersion: desc.TransactionVersion,
	}

	payload, err := t.Payload(&env)
	if err != nil {
		return nil, nil, fmt.Errorf("could not derive signing payload: %w", err)
	}

	return &env, payload, nil
}

// Call returns the encoded call of the envelope.
func (t *Transactor) Call(env *Envelope) ([]byte, error) {

	err := t.check(env)
	if err != nil {
		return nil, err
	}

	receiver, err := t.reg.Account(env.Receiver)
	if err != nil {
		return nil, failure.InvalidAccount{
			Description: failure.NewDescription(accountInvalid, failure.WithErr(err)),
			Address:     env.Receiver,
		}
	}
	value, err := amount(env.Value)
	if err != nil {
		return nil, err
	}

	call, err := t.reg.NewCall(env.Method, receiver, value)
	if err != nil {
		return nil, fmt.Errorf("could not create call: %w", err)
	}
	data, err := t.reg.EncodeCall(call)
	if err != nil {
		return nil, fmt.Errorf("could not encode call: %w", err)
	}

	return data, nil
}

// Payload returns the signing payload of the envelope.
func (t *Transactor) Payload(env *Envelope) ([]byte, error) {

	call, err := t.Call(env)
	if err != nil {
		return nil, err
	}
	params, err := t.params(env)
	if err != nil {
		return nil, err
	}

	payload, err := t.reg.SigningPayload(call, params)
	if err != nil {
		return nil, fmt.Errorf("could not encode signing payload: %w", err)
	}

	return payload, nil
}

// Extrinsic returns the signed extrinsic of a signed envelope.
func (t *Transactor) Extrinsic(env *Envelope) ([]byte, error) {

	if !env.Signed() {
		return nil, failure.InvalidSignature{
			Description: failure.NewDescription(sigMissing),
		}
	}

	call, err := t.Call(env)
	if err != nil {
		return nil, err
	}
	params, err := t.params(env)
	if err != nil {
		return nil, err
	}
	signer, err := t.reg.Account(env.Signature.Signer)
	if err != nil {
		return nil, failure.InvalidAccount{
			Description: failure.NewDescription(accountInvalid, failure.WithErr(err)),
			Address:     env.Signature.Signer,
		}
	}

	data, err := t.reg.EncodeExtrinsic(call, signer, env.Signature.Type, env.Signature.Bytes, params)
	if err != nil {
		return nil, failure.InvalidSignature{
			Description: failure.NewDescription("could not encode signed extrinsic", failure.WithErr(err)),
		}
	}

	return data, nil
}

// Encode serializes the envelope as the hex encoding of its canonical CBOR
// representation.
func (t *Transactor) Encode(env *Envelope) (string, error) {
	data, err := t.codec.Encode(env)
	if err != nil {
		return "", fmt.Errorf("could not encode envelope: %w", err)
	}
	return hex.EncodeToString(data), nil
}

// Decode deserializes an envelope encoded with Encode.
func (t *Transactor) Decode(encoded string) (*Envelope, error) {

	data, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, failure.InvalidPayload{
			Description: failure.NewDescription(envelopeEncoding, failure.WithErr(err)),
			Encoded:     encoded,
		}
	}

	var env Envelope
	err = t.codec.Decode(data, &env)
	if err != nil {
		return nil, failure.InvalidPayload{
			Description: failure.NewDescription(envelopeEncoding, failure.WithErr(err)),
			Encoded:     encoded,
		}
	}

	if env.Version != EnvelopeVersion {
		return nil, failure.InvalidPayload{
			Description: failure.NewDescription(envelopeVersion,
				failure.WithInt("have", int(env.Version)),
				failure.WithInt("want", EnvelopeVersion),
			),
			Encoded: encoded,
		}
	}

	return &env, nil
}

// check verifies that the envelope can be turned into an extrinsic for the
// runtime of the registry.
func (t *Transactor) check(env *Envelope) error {

	if env.Method != TransferMethod {
		return failure.UnsupportedExtrinsic{
			Description: failure.NewDescription(methodInvalid),
			Method:      env.Method,
		}
	}

	desc := t.reg.Descriptor()
	if env.GenesisHash != desc.Genesis || env.SpecVersion != desc.SpecVersion || env.TransactionVersion != desc.TransactionVersion {
		return failure.InvalidPayload{
			Description: failure.NewDescription(envelopeRuntime,
				failure.WithHash("genesis", env.GenesisHash),
				failure.WithUint64("spec_version", uint64(env.SpecVersion)),
				failure.WithUint64("transaction_version", uint64(env.TransactionVersion)),
			),
		}
	}

	return nil
}

func (t *Transactor) params(env *Envelope) (registry.Params, error) {

	tip, err := amount(env.Tip)
	if err != nil {
		return registry.Params{}, err
	}

	era := substrate.ImmortalEra
	if env.EraPeriod > 0 {
		era = substrate.NewMortalEra(env.BlockNumber, env.EraPeriod)
	}

	params := registry.Params{
		Era:        era,
		Nonce:      env.Nonce,
		Tip:        tip,
		Checkpoint: env.BlockHash,
	}

	return params, nil
}

func amount(value string) (*big.Int, error) {
	number, ok := new(big.Int).SetString(value, 10)
	if !ok || number.Sign() < 0 {
		return nil, failure.InvalidPayload{
			Description: failure.NewDescription(envelopeAmount, failure.WithString("amount", value)),
		}
	}
	return number, nil
}
