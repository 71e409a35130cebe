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
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"golang.org/x/crypto/blake2b"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// Signing payloads longer than this are hashed before signing.
const maxPayloadLength = 256

// Params holds the per-transaction values of the signed extensions. The
// checkpoint is the hash of the block the era starts at, or the genesis hash
// for immortal transactions. Without asset ID, fees are paid in the native
// currency.
type Params struct {
	Era        substrate.Era
	Nonce      uint64
	Tip        *big.Int
	AppID      uint64
	AssetID    *uint32
	Checkpoint substrate.Hash
}

// extension describes one signed extension: the extra data it adds to the
// extrinsic and the additional data it only adds to the signing payload.
type extension struct {
	extra      func(enc *scale.Encoder, p Params) error
	parse      func(dec *scale.Decoder, p *Params) error
	additional func(enc *scale.Encoder, d substrate.Descriptor, p Params) error
}

var extensions = map[string]extension{
	"CheckNonZeroSender": {},
	"CheckWeight":        {},
	"CheckSpecVersion": {
		additional: func(enc *scale.Encoder, d substrate.Descriptor, _ Params) error {
			return enc.Encode(d.SpecVersion)
		},
	},
	"CheckTxVersion": {
		additional: func(enc *scale.Encoder, d substrate.Descriptor, _ Params) error {
			return enc.Encode(d.TransactionVersion)
		},
	},
	"CheckGenesis": {
		additional: func(enc *scale.Encoder, d substrate.Descriptor, _ Params) error {
			return enc.Write(d.Genesis[:])
		},
	},
	"CheckMortality": mortality,
	"CheckEra":       mortality,
	"CheckNonce": {
		extra: func(enc *scale.Encoder, p Params) error {
			return enc.EncodeUintCompact(*new(big.Int).SetUint64(p.Nonce))
		},
		parse: func(dec *scale.Decoder, p *Params) error {
			nonce, err := decodeCompact64(dec)
			p.Nonce = nonce
			return err
		},
	},
	"ChargeTransactionPayment": {
		extra: encodeTip,
		parse: decodeTip,
	},
	"ChargeAssetTxPayment": {
		extra: func(enc *scale.Encoder, p Params) error {
			err := encodeTip(enc, p)
			if err != nil {
				return err
			}
			if p.AssetID == nil {
				return enc.PushByte(0)
			}
			err = enc.PushByte(1)
			if err != nil {
				return err
			}
			return enc.Encode(*p.AssetID)
		},
		parse: func(dec *scale.Decoder, p *Params) error {
			err := decodeTip(dec, p)
			if err != nil {
				return err
			}
			some, err := dec.ReadOneByte()
			if err != nil {
				return err
			}
			switch some {
			case 0:
				return nil
			case 1:
				var id uint32
				err = dec.Decode(&id)
				p.AssetID = &id
				return err
			default:
				return fmt.Errorf("invalid asset option (%d)", some)
			}
		},
	},
	"CheckAppId": {
		extra: func(enc *scale.Encoder, p Params) error {
			return enc.EncodeUintCompact(*new(big.Int).SetUint64(p.AppID))
		},
		parse: func(dec *scale.Decoder, p *Params) error {
			id, err := decodeCompact64(dec)
			p.AppID = id
			return err
		},
	},
}

var mortality = extension{
	extra: func(enc *scale.Encoder, p Params) error {
		return enc.Write(p.Era.Bytes())
	},
	parse: func(dec *scale.Decoder, p *Params) error {
		first, err := dec.ReadOneByte()
		if err != nil {
			return err
		}
		if first == 0 {
			p.Era = substrate.ImmortalEra
			return nil
		}
		second, err := dec.ReadOneByte()
		if err != nil {
			return err
		}
		era, err := substrate.ParseEra([]byte{first, second})
		p.Era = era
		return err
	},
	additional: func(enc *scale.Encoder, d substrate.Descriptor, p Params) error {
		if p.Era.Immortal() {
			return enc.Write(d.Genesis[:])
		}
		return enc.Write(p.Checkpoint[:])
	},
}

// SigningPayload returns the bytes an account signs for the given encoded
// call: the call, followed by the extra and the additional data of all signed
// extensions, in order. Payloads longer than 256 bytes are replaced by their
// blake2b-256 hash.
func (r *Registry) SigningPayload(call []byte, params Params) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.Write(call)
	enc := scale.NewEncoder(buf)

	err := r.encodeExtra(enc, params)
	if err != nil {
		return nil, err
	}
	for _, ext := range r.extensions {
		if ext.additional == nil {
			continue
		}
		err = ext.additional(enc, r.descriptor, params)
		if err != nil {
			return nil, fmt.Errorf("could not encode additional signed data: %w", err)
		}
	}

	payload := buf.Bytes()
	if len(payload) > maxPayloadLength {
		hash := blake2b.Sum256(payload)
		return hash[:], nil
	}

	return payload, nil
}

func (r *Registry) encodeExtra(enc *scale.Encoder, params Params) error {
	for _, ext := range r.extensions {
		if ext.extra == nil {
			continue
		}
		err := ext.extra(enc, params)
		if err != nil {
			return fmt.Errorf("could not encode signed extra data: %w", err)
		}
	}
	return nil
}

func (r *Registry) decodeExtra(dec *scale.Decoder) (Params, error) {
	params := Params{Tip: new(big.Int)}
	for _, ext := range r.extensions {
		if ext.parse == nil {
			continue
		}
		err := ext.parse(dec, &params)
		if err != nil {
			return Params{}, fmt.Errorf("could not decode signed extra data: %w", err)
		}
	}
	return params, nil
}

func encodeTip(enc *scale.Encoder, p Params) error {
	tip := p.Tip
	if tip == nil {
		tip = new(big.Int)
	}
	return enc.EncodeUintCompact(*tip)
}

func decodeTip(dec *scale.Decoder, p *Params) error {
	tip, err := dec.DecodeUintCompact()
	p.Tip = tip
	return err
}

func decodeCompact64(dec *scale.Decoder) (uint64, error) {
	number, err := dec.DecodeUintCompact()
	if err != nil {
		return 0, err
	}
	if !number.IsUint64() {
		return 0, fmt.Errorf("compact integer overflows 64 bits (%s)", number)
	}
	return number.Uint64(), nil
}
