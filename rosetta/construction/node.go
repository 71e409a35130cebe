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
	"github.com/optakt/substrate-rosetta/models/substrate"
)

// Node gives access to the chain state needed to construct transactions, and
// broadcasts signed extrinsics.
type Node interface {
	Nonce(address string) (uint64, error)
	Finalized() (substrate.Hash, error)
	Header(hash substrate.Hash) (*substrate.Header, error)
	Submit(extrinsic []byte) (substrate.Hash, error)
}
