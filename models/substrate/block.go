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

// Header is the subset of a block header the translation needs.
type Header struct {
	Hash       Hash   `cbor:"hash"`
	ParentHash Hash   `cbor:"parent_hash"`
	Number     uint64 `cbor:"number"`
}

// Block is a block header with its opaque, SCALE-encoded extrinsics.
type Block struct {
	Header     Header   `cbor:"header"`
	Extrinsics [][]byte `cbor:"extrinsics"`
}
