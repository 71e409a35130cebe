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
	"github.com/optakt/substrate-rosetta/models/substrate"
)

// EnvelopeVersion is the only supported version of the envelope format.
const EnvelopeVersion = 1

// TransferMethod is the only call that envelopes are built for.
const TransferMethod = "Balances.transfer_keep_alive"

// Envelope is everything needed to derive the signing payload and the signed
// extrinsic of a transfer without access to the chain. Amounts are decimal
// strings in the smallest currency unit.
type Envelope struct {
	Version            uint8          `cbor:"version"`
	Method             string         `cbor:"method"`
	Sender             string         `cbor:"sender"`
	Receiver           string         `cbor:"receiver"`
	Value              string         `cbor:"value"`
	Tip                string         `cbor:"tip"`
	Nonce              uint64         `cbor:"nonce"`
	EraPeriod          uint64         `cbor:"era_period"`
	BlockNumber        uint64         `cbor:"block_number"`
	BlockHash          substrate.Hash `cbor:"block_hash"`
	GenesisHash        substrate.Hash `cbor:"genesis_hash"`
	SpecVersion        uint32         `cbor:"spec_version"`
	TransactionVersion uint32         `cbor:"transaction_version"`
	Signature          *Signature     `cbor:"signature,omitempty"`
}

// Signature is the signature attached to a signed envelope.
type Signature struct {
	Signer string `cbor:"signer"`
	Type   string `cbor:"type"`
	Bytes  []byte `cbor:"bytes"`
}

// Signed returns whether a signature is attached to the envelope.
func (e *Envelope) Signed() bool {
	return e.Signature != nil
}
