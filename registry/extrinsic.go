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

package registry

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

const (
	extrinsicVersion = 4
	signedBit        = 0b1000_0000
)

// Signature types of extrinsic signatures.
const (
	SignatureEd25519 = "ed25519"
	SignatureSr25519 = "sr25519"
	SignatureEcdsa   = "ecdsa"
)

// ErrUnsupportedSignature is returned for signature types that cannot be
// encoded in an extrinsic.
var ErrUnsupportedSignature = errors.New("unsupported signature type")

var signatureTypes = []struct {
	name   string
	length int
}{
	{name: SignatureEd25519, length: 64},
	{name: SignatureSr25519, length: 64},
	{name: SignatureEcdsa, length: 65},
}

// Extrinsic is a decoded extrinsic. For unsigned extrinsics, only the call is
// set.
type Extrinsic struct {
	Signed        bool
	Signer        substrate.AccountID
	SignatureType string
	Signature     []byte
	Params        Params
	Call          *Call
	Raw           []byte
}

// Hash returns the extrinsic hash, which is the blake2b-256 hash of its full
// encoding.
func (e *Extrinsic) Hash() substrate.Hash {
	return substrate.HashOf(e.Raw)
}

// NewCall creates a call for the given "Pallet.call" method, checking that it
// exists and that the number of arguments matches.
func (r *Registry) NewCall(method string, args ...Value) (*Call, error) {
	palletName, callName, err := splitMethod(method)
	if err != nil {
		return nil, err
	}
	p, err := r.lookupPallet(palletName)
	if err != nil {
		return nil, err
	}
	e, ok := p.methods[callName]
	if !ok {
		return nil, fmt.Errorf("unknown call (%s)", method)
	}
	if len(args) != len(e.args) {
		return nil, fmt.Errorf("invalid number of arguments for %s (have: %d, want: %d)", method, len(args), len(e.args))
	}
	call := Call{Pallet: p.name, Name: e.name, Args: args}
	return &call, nil
}

// EncodeCall returns the encoding of a call.
func (r *Registry) EncodeCall(call *Call) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := r.encodeCall(scale.NewEncoder(buf), call)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCall decodes an encoded call.
func (r *Registry) DecodeCall(data []byte) (*Call, error) {
	reader := bytes.NewReader(data)
	call, err := r.decodeCall(scale.NewDecoder(reader))
	if err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, fmt.Errorf("trailing bytes after call (count: %d)", reader.Len())
	}
	return call, nil
}

// EncodeExtrinsic returns the length-prefixed encoding of a signed extrinsic
// for the given encoded call, signer and signature.
func (r *Registry) EncodeExtrinsic(call []byte, signer substrate.AccountID, sigType string, signature []byte, params Params) ([]byte, error) {

	sigIndex := -1
	for i, candidate := range signatureTypes {
		if candidate.name == sigType {
			sigIndex = i
			break
		}
	}
	if sigIndex < 0 {
		return nil, fmt.Errorf("%w (%s)", ErrUnsupportedSignature, sigType)
	}
	if len(signature) != signatureTypes[sigIndex].length {
		return nil, fmt.Errorf("invalid %s signature length (have: %d, want: %d)", sigType, len(signature), signatureTypes[sigIndex].length)
	}

	body := &bytes.Buffer{}
	enc := scale.NewEncoder(body)
	body.WriteByte(extrinsicVersion | signedBit)
	body.WriteByte(0)
	body.Write(signer[:])
	body.WriteByte(byte(sigIndex))
	body.Write(signature)
	err := r.encodeExtra(enc, params)
	if err != nil {
		return nil, err
	}
	body.Write(call)

	return prefixLength(body.Bytes())
}

// DecodeExtrinsic decodes a length-prefixed extrinsic, as it is included in
// blocks.
func (r *Registry) DecodeExtrinsic(data []byte) (*Extrinsic, error) {

	reader := bytes.NewReader(data)
	dec := scale.NewDecoder(reader)

	length, err := decodeLength(dec)
	if err != nil {
		return nil, fmt.Errorf("could not decode extrinsic length: %w", err)
	}
	if length != reader.Len() {
		return nil, fmt.Errorf("extrinsic length mismatch (have: %d, want: %d)", reader.Len(), length)
	}

	version, err := dec.ReadOneByte()
	if err != nil {
		return nil, err
	}
	if version&^signedBit != extrinsicVersion {
		return nil, fmt.Errorf("unsupported extrinsic version (%d)", version&^signedBit)
	}

	ext := Extrinsic{
		Signed: version&signedBit != 0,
		Params: Params{Tip: new(big.Int)},
		Raw:    data,
	}

	if ext.Signed {
		address, err := decodeAddress(dec)
		if err != nil {
			return nil, fmt.Errorf("could not decode signer: %w", err)
		}
		ext.Signer, err = AccountOf(address)
		if err != nil {
			return nil, fmt.Errorf("could not decode signer: %w", err)
		}

		sigIndex, err := dec.ReadOneByte()
		if err != nil {
			return nil, err
		}
		if int(sigIndex) >= len(signatureTypes) {
			return nil, fmt.Errorf("%w (index: %d)", ErrUnsupportedSignature, sigIndex)
		}
		ext.SignatureType = signatureTypes[sigIndex].name
		ext.Signature = make([]byte, signatureTypes[sigIndex].length)
		err = dec.Read(ext.Signature)
		if err != nil {
			return nil, err
		}

		ext.Params, err = r.decodeExtra(dec)
		if err != nil {
			return nil, err
		}
	}

	ext.Call, err = r.decodeCall(dec)
	if err != nil {
		return nil, fmt.Errorf("could not decode call: %w", err)
	}
	if reader.Len() != 0 {
		return nil, fmt.Errorf("trailing bytes after extrinsic (count: %d)", reader.Len())
	}

	return &ext, nil
}

func prefixLength(body []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := encodeLength(scale.NewEncoder(buf), len(body))
	if err != nil {
		return nil, err
	}
	buf.Write(body)
	return buf.Bytes(), nil
}
