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
	"encoding/binary"

	"github.com/OneOfOne/xxhash"
	"golang.org/x/crypto/blake2b"
)

// Storage hashers supported for map keys.
const (
	HasherIdentity         = "Identity"
	HasherTwox64Concat     = "Twox64Concat"
	HasherTwox128          = "Twox128"
	HasherTwox256          = "Twox256"
	HasherBlake2_128       = "Blake2_128"
	HasherBlake2_128Concat = "Blake2_128Concat"
	HasherBlake2_256       = "Blake2_256"
)

var hashers = map[string]func([]byte) []byte{
	HasherIdentity: func(data []byte) []byte {
		return data
	},
	HasherTwox64Concat: func(data []byte) []byte {
		return append(twox(data, 1), data...)
	},
	HasherTwox128: func(data []byte) []byte {
		return twox(data, 2)
	},
	HasherTwox256: func(data []byte) []byte {
		return twox(data, 4)
	},
	HasherBlake2_128: blake2b128,
	HasherBlake2_128Concat: func(data []byte) []byte {
		return append(blake2b128(data), data...)
	},
	HasherBlake2_256: func(data []byte) []byte {
		hash := blake2b.Sum256(data)
		return hash[:]
	},
}

// twox concatenates little-endian xxhash64 digests of the data with seeds 0
// to rounds-1.
func twox(data []byte, rounds int) []byte {
	out := make([]byte, 8*rounds)
	for seed := 0; seed < rounds; seed++ {
		binary.LittleEndian.PutUint64(out[8*seed:], xxhash.Checksum64S(data, uint64(seed)))
	}
	return out
}

func blake2b128(data []byte) []byte {
	// The digest size is valid, so the constructor cannot fail.
	h, _ := blake2b.New(16, nil)
	_, _ = h.Write(data)
	return h.Sum(nil)
}
