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

package substrate

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// HashLength is the length of block hashes, extrinsic hashes and account IDs.
const HashLength = 32

// Hash is a 256-bit hash as used for blocks, extrinsics and event records.
type Hash [HashLength]byte

// ZeroHash is the empty hash.
var ZeroHash Hash

// HashOf returns the blake2b-256 digest of the given bytes.
func HashOf(data []byte) Hash {
	return blake2b.Sum256(data)
}

// ParseHash parses a hex-encoded hash, with or without the 0x prefix.
func ParseHash(s string) (Hash, error) {
	var hash Hash
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return ZeroHash, fmt.Errorf("could not decode hash hex: %w", err)
	}
	if len(data) != HashLength {
		return ZeroHash, fmt.Errorf("invalid hash length (have: %d, want: %d)", len(data), HashLength)
	}
	copy(hash[:], data)
	return hash, nil
}

// Hex returns the 0x-prefixed hexadecimal representation of the hash, which
// is the form used by the node and by Rosetta block identifiers.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// String returns the hexadecimal representation of the hash without prefix,
// which is the form used by Rosetta transaction identifiers.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	hash, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = hash
	return nil
}
