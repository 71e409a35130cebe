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

package construction

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/rosetta/policy"
	"github.com/optakt/substrate-rosetta/rosetta/transactor"
)

var signatureTypes = map[string]string{
	SignatureEd25519:       registry.SignatureEd25519,
	SignatureSchnorrkel:    registry.SignatureSr25519,
	SignatureEcdsaRecovery: registry.SignatureEcdsa,
}

// Pipeline implements the construction flow for transfers of the native
// currency. Without a node, it runs in offline mode and the operations that
// need chain access fail with failure.OfflineMode.
type Pipeline struct {
	reg      *registry.Registry
	build    *transactor.Transactor
	node     Node
	currency identifier.Currency
}

// New creates a construction pipeline. The node may be nil in offline mode.
func New(reg *registry.Registry, build *transactor.Transactor, node Node) *Pipeline {

	desc := reg.Descriptor()
	p := Pipeline{
		reg:   reg,
		build: build,
		node:  node,
		currency: identifier.Currency{
			Symbol:   desc.TokenSymbol,
			Decimals: desc.TokenDecimals,
		},
	}

	return &p
}

// Preprocess validates the operations of a transfer and returns the options
// for the metadata request, as well as the account of every operation.
func (p *Pipeline) Preprocess(operations []object.Operation) (object.Options, []identifier.Account, error) {

	intent, err := p.build.DeriveIntent(operations)
	if err != nil {
		return object.Options{}, nil, fmt.Errorf("could not derive intent: %w", err)
	}

	options := object.Options{From: intent.From}
	required := make([]identifier.Account, 0, len(operations))
	for _, operation := range operations {
		required = append(required, operation.AccountID)
	}

	return options, required, nil
}

// Metadata returns the chain state a transfer from the given sender is built
// against: its next nonce and the last finalized block.
func (p *Pipeline) Metadata(options object.Options) (object.Metadata, error) {

	err := p.online()
	if err != nil {
		return object.Metadata{}, err
	}

	_, err = p.reg.Account(options.From)
	if err != nil {
		return object.Metadata{}, failure.InvalidAccount{
			Description: failure.NewDescription("sender address is invalid for network", failure.WithErr(err)),
			Address:     options.From,
		}
	}

	nonce, err := p.node.Nonce(options.From)
	if err != nil {
		return object.Metadata{}, fmt.Errorf("could not get nonce: %w", err)
	}
	hash, err := p.node.Finalized()
	if err != nil {
		return object.Metadata{}, fmt.Errorf("could not get finalized head: %w", err)
	}
	header, err := p.node.Header(hash)
	if err != nil {
		return object.Metadata{}, fmt.Errorf("could not get finalized header: %w", err)
	}

	metadata := object.Metadata{
		Nonce:       nonce,
		BlockHash:   hash.Hex(),
		BlockNumber: header.Number,
		EraPeriod:   EraPeriod,
	}

	return metadata, nil
}

// Payloads builds the unsigned transaction for the operations and returns it
// with the payload the sender needs to sign.
func (p *Pipeline) Payloads(operations []object.Operation, metadata object.Metadata) (string, []object.SigningPayload, error) {

	intent, err := p.build.DeriveIntent(operations)
	if err != nil {
		return "", nil, fmt.Errorf("could not derive intent: %w", err)
	}

	hash, err := substrate.ParseHash(metadata.BlockHash)
	if err != nil {
		return "", nil, failure.InvalidBlock{
			Description: failure.NewDescription("metadata block hash is not a valid hash",
				failure.WithString("hash", metadata.BlockHash),
				failure.WithErr(err),
			),
		}
	}

	params := transactor.Params{
		Sender:      intent.From,
		Receiver:    intent.To,
		Value:       intent.Amount,
		Nonce:       metadata.Nonce,
		EraPeriod:   metadata.EraPeriod,
		BlockNumber: metadata.BlockNumber,
		BlockHash:   hash,
	}
	env, payload, err := p.build.Build(params)
	if err != nil {
		return "", nil, fmt.Errorf("could not build transaction: %w", err)
	}

	unsigned, err := p.build.Encode(env)
	if err != nil {
		return "", nil, fmt.Errorf("could not encode transaction: %w", err)
	}

	payloads := []object.SigningPayload{{
		AccountID:     identifier.Account{Address: intent.From},
		HexBytes:      hex.EncodeToString(payload),
		SignatureType: SignatureEd25519,
	}}

	return unsigned, payloads, nil
}

// Combine attaches the signature of the sender to an unsigned transaction.
func (p *Pipeline) Combine(unsigned string, signatures []object.Signature) (string, error) {

	env, err := p.build.Decode(unsigned)
	if err != nil {
		return "", fmt.Errorf("could not decode transaction: %w", err)
	}

	// Verify that we do not already have a signature.
	if env.Signed() {
		return "", failure.InvalidSignature{
			Description: failure.NewDescription("transaction is already signed"),
		}
	}

	// We expect one signature for the one signer.
	if len(signatures) != 1 {
		return "", failure.InvalidSignature{
			Description: failure.NewDescription("invalid number of signatures",
				failure.WithInt("have", len(signatures)),
				failure.WithInt("want", 1),
			),
		}
	}
	signature := signatures[0]

	// Verify that the signature is for the payload of this transaction.
	payload, err := p.build.Payload(env)
	if err != nil {
		return "", fmt.Errorf("could not derive signing payload: %w", err)
	}
	if !strings.EqualFold(strings.TrimPrefix(signature.SigningPayload.HexBytes, "0x"), hex.EncodeToString(payload)) {
		return "", failure.InvalidSignature{
			Description: failure.NewDescription("signing payload does not match transaction"),
		}
	}

	// Verify that the signature belongs to the sender.
	signer := signature.SigningPayload.AccountID.Address
	if signer != env.Sender {
		return "", failure.InvalidSignature{
			Description: failure.NewDescription("invalid signer account",
				failure.WithString("have_signer", signer),
				failure.WithString("want_signer", env.Sender),
			),
		}
	}

	sigType, ok := signatureTypes[signature.SignatureType]
	if !ok {
		return "", failure.InvalidSignature{
			Description: failure.NewDescription("unsupported signature type",
				failure.WithString("signature_type", signature.SignatureType),
			),
		}
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(signature.HexBytes, "0x"))
	if err != nil {
		return "", failure.InvalidSignature{
			Description: failure.NewDescription("invalid signature encoding", failure.WithErr(err)),
		}
	}

	// Ed25519 signatures are verified against the sender account ID, which is
	// the public key of the sender.
	if sigType == registry.SignatureEd25519 {
		sender, err := p.reg.Account(env.Sender)
		if err != nil {
			return "", fmt.Errorf("could not decode sender: %w", err)
		}
		if len(sig) != ed25519.SignatureSize || !ed25519.Verify(sender[:], payload, sig) {
			return "", failure.InvalidSignature{
				Description: failure.NewDescription("signature verification failed",
					failure.WithString("signer", signer),
				),
			}
		}
	}

	env.Signature = &transactor.Signature{
		Signer: signer,
		Type:   sigType,
		Bytes:  sig,
	}

	// Make sure the signature can be encoded into an extrinsic before handing
	// out the signed transaction.
	_, err = p.build.Extrinsic(env)
	if err != nil {
		return "", fmt.Errorf("could not assemble signed extrinsic: %w", err)
	}

	signed, err := p.build.Encode(env)
	if err != nil {
		return "", fmt.Errorf("could not encode transaction: %w", err)
	}

	return signed, nil
}

// Parse returns the operations, the signers and the metadata of a
// transaction. It accepts both transactions created by this pipeline and
// 0x-prefixed hex-encoded extrinsics.
func (p *Pipeline) Parse(transaction string, signed bool) ([]object.Operation, []identifier.Account, *object.Metadata, error) {

	if strings.HasPrefix(transaction, "0x") {
		return p.parseExtrinsic(transaction, signed)
	}

	env, err := p.build.Decode(transaction)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not decode transaction: %w", err)
	}
	if env.Signed() != signed {
		return nil, nil, nil, failure.InvalidPayload{
			Description: failure.NewDescription("transaction signature does not match request",
				failure.WithString("signed", fmt.Sprint(env.Signed())),
			),
			Encoded: transaction,
		}
	}

	// Make sure the envelope describes a valid transaction for the runtime.
	_, err = p.build.Payload(env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not validate transaction: %w", err)
	}

	operations := p.transfer(env.Sender, env.Receiver, env.Value)

	var signers []identifier.Account
	if env.Signed() {
		signers = append(signers, identifier.Account{Address: env.Signature.Signer})
	}

	metadata := object.Metadata{
		Nonce:       env.Nonce,
		BlockHash:   env.BlockHash.Hex(),
		BlockNumber: env.BlockNumber,
		EraPeriod:   env.EraPeriod,
	}

	return operations, signers, &metadata, nil
}

func (p *Pipeline) parseExtrinsic(transaction string, signed bool) ([]object.Operation, []identifier.Account, *object.Metadata, error) {

	data, err := hex.DecodeString(strings.TrimPrefix(transaction, "0x"))
	if err != nil {
		return nil, nil, nil, failure.InvalidPayload{
			Description: failure.NewDescription("invalid extrinsic encoding", failure.WithErr(err)),
			Encoded:     transaction,
		}
	}
	ext, err := p.reg.DecodeExtrinsic(data)
	if err != nil {
		return nil, nil, nil, failure.InvalidPayload{
			Description: failure.NewDescription("could not decode extrinsic", failure.WithErr(err)),
			Encoded:     transaction,
		}
	}
	if ext.Signed != signed {
		return nil, nil, nil, failure.InvalidPayload{
			Description: failure.NewDescription("extrinsic signature does not match request",
				failure.WithString("signed", fmt.Sprint(ext.Signed)),
			),
			Encoded: transaction,
		}
	}

	if policy.MethodOf(ext.Call.Key()) == policy.UnknownMethod {
		return nil, nil, nil, failure.UnsupportedExtrinsic{
			Description: failure.NewDescription("only transfers can be parsed"),
			Method:      ext.Call.Method(),
		}
	}
	if len(ext.Call.Args) < 2 {
		return nil, nil, nil, failure.InvalidPayload{
			Description: failure.NewDescription("missing transfer arguments"),
			Encoded:     transaction,
		}
	}
	receiver, err := registry.AccountOf(ext.Call.Args[0])
	if err != nil {
		return nil, nil, nil, failure.InvalidPayload{
			Description: failure.NewDescription("invalid transfer destination", failure.WithErr(err)),
			Encoded:     transaction,
		}
	}
	value, err := registry.BigInt(ext.Call.Args[1])
	if err != nil {
		return nil, nil, nil, failure.InvalidPayload{
			Description: failure.NewDescription("invalid transfer amount", failure.WithErr(err)),
			Encoded:     transaction,
		}
	}

	// Unsigned extrinsics carry no sender, so only the credit can be known.
	sender := ""
	var signers []identifier.Account
	if ext.Signed {
		sender = p.reg.Address(ext.Signer)
		signers = append(signers, identifier.Account{Address: sender})
	}
	operations := p.transfer(sender, p.reg.Address(receiver), value.String())

	metadata := object.Metadata{
		Nonce:     ext.Params.Nonce,
		EraPeriod: ext.Params.Era.Period,
	}

	return operations, signers, &metadata, nil
}

// Hash returns the identifier of a signed transaction.
func (p *Pipeline) Hash(signed string) (identifier.Transaction, error) {

	data, err := p.extrinsic(signed)
	if err != nil {
		return identifier.Transaction{}, err
	}

	return identifier.Transaction{Hash: substrate.HashOf(data).String()}, nil
}

// Submit broadcasts a signed transaction and returns its identifier.
func (p *Pipeline) Submit(signed string) (identifier.Transaction, error) {

	err := p.online()
	if err != nil {
		return identifier.Transaction{}, err
	}

	data, err := p.extrinsic(signed)
	if err != nil {
		return identifier.Transaction{}, err
	}
	hash := substrate.HashOf(data)

	_, err = p.node.Submit(data)
	if err != nil {
		return identifier.Transaction{}, failure.Broadcast{
			Description: failure.NewDescription("node rejected transaction", failure.WithErr(err)),
			Hash:        hash.String(),
		}
	}

	return identifier.Transaction{Hash: hash.String()}, nil
}

// Derive returns the account for a public key. Ed25519 and sr25519 public keys
// are account IDs, while compressed secp256k1 public keys are hashed into one.
func (p *Pipeline) Derive(key object.PublicKey) (identifier.Account, error) {

	data, err := hex.DecodeString(strings.TrimPrefix(key.HexBytes, "0x"))
	if err != nil {
		return identifier.Account{}, failure.InvalidKey{
			Description: failure.NewDescription("invalid public key encoding", failure.WithErr(err)),
			CurveType:   key.CurveType,
			Length:      len(key.HexBytes),
		}
	}

	var id substrate.AccountID
	switch {
	case (key.CurveType == CurveEdwards25519 || key.CurveType == CurveEd25519 || key.CurveType == CurveSchnorrkel) && len(data) == substrate.HashLength:
		copy(id[:], data)
	case key.CurveType == CurveSecp256k1 && len(data) == 33:
		id = blake2b.Sum256(data)
	default:
		return identifier.Account{}, failure.InvalidKey{
			Description: failure.NewDescription("unsupported public key"),
			CurveType:   key.CurveType,
			Length:      len(data),
		}
	}

	return identifier.Account{Address: p.reg.Address(id)}, nil
}

// extrinsic returns the extrinsic bytes of a signed transaction, which is
// either a signed envelope or a 0x-prefixed hex-encoded signed extrinsic.
func (p *Pipeline) extrinsic(signed string) ([]byte, error) {

	if strings.HasPrefix(signed, "0x") {
		data, err := hex.DecodeString(strings.TrimPrefix(signed, "0x"))
		if err != nil {
			return nil, failure.InvalidPayload{
				Description: failure.NewDescription("invalid extrinsic encoding", failure.WithErr(err)),
				Encoded:     signed,
			}
		}
		ext, err := p.reg.DecodeExtrinsic(data)
		if err != nil {
			return nil, failure.InvalidPayload{
				Description: failure.NewDescription("invalid extrinsic", failure.WithErr(err)),
				Encoded:     signed,
			}
		}
		if !ext.Signed {
			return nil, failure.InvalidPayload{
				Description: failure.NewDescription("extrinsic is not signed"),
				Encoded:     signed,
			}
		}
		return data, nil
	}

	env, err := p.build.Decode(signed)
	if err != nil {
		return nil, fmt.Errorf("could not decode transaction: %w", err)
	}
	data, err := p.build.Extrinsic(env)
	if err != nil {
		return nil, fmt.Errorf("could not assemble extrinsic: %w", err)
	}

	return data, nil
}

// transfer returns the operations of a transfer. Without sender, only the
// credit operation is returned.
func (p *Pipeline) transfer(sender string, receiver string, value string) []object.Operation {

	var operations []object.Operation
	if sender != "" {
		operations = append(operations, object.Operation{
			ID:        identifier.Operation{Index: 0},
			Type:      configuration.OperationTransfer,
			AccountID: identifier.Account{Address: sender},
			Amount:    object.Amount{Value: "-" + value, Currency: p.currency},
		})
	}
	operations = append(operations, object.Operation{
		ID:        identifier.Operation{Index: uint(len(operations))},
		Type:      configuration.OperationTransfer,
		AccountID: identifier.Account{Address: receiver},
		Amount:    object.Amount{Value: value, Currency: p.currency},
	})

	return operations
}

func (p *Pipeline) online() error {
	if p.node == nil {
		return failure.OfflineMode{
			Description: failure.NewDescription("construction endpoint requires node access"),
		}
	}
	return nil
}
