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

package policy

import (
	"math/big"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// State gives access to the chain state some policies depend on.
type State interface {
	Emission(at substrate.Hash, epoch uint64) (*big.Int, error)
	FreeBalance(height uint64, account substrate.AccountID) (*big.Int, error)
}

// Addresses converts account IDs into addresses.
type Addresses interface {
	Address(id substrate.AccountID) string
}
