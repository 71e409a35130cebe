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

// Curve types of public keys. CurveEd25519 is accepted as another name for
// CurveEdwards25519.
const (
	CurveEdwards25519 = "edwards25519"
	CurveEd25519      = "ed25519"
	CurveSchnorrkel   = "schnorrkel"
	CurveSecp256k1    = "secp256k1"
)

// Signature types of signing payloads and signatures.
const (
	SignatureEd25519       = "ed25519"
	SignatureSchnorrkel    = "schnorrkel"
	SignatureEcdsaRecovery = "ecdsa_recovery"
)

// EraPeriod is the number of blocks constructed transactions are valid for.
const EraPeriod = 64
