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

package mocks

import (
	"math/big"
	"testing"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

type State struct {
	EmissionFunc    func(at substrate.Hash, epoch uint64) (*big.Int, error)
	FreeBalanceFunc func(height uint64, account substrate.AccountID) (*big.Int, error)
}

func BaselineState(t *testing.T) *State {
	t.Helper()

	s := State{
		EmissionFunc: func(substrate.Hash, uint64) (*big.Int, error) {
			return GenericAmount(0), nil
		},
		FreeBalanceFunc: func(uint64, substrate.AccountID) (*big.Int, error) {
			return GenericAmount(0), nil
		},
	}

	return &s
}

func (s *State) Emission(at substrate.Hash, epoch uint64) (*big.Int, error) {
	return s.EmissionFunc(at, epoch)
}

func (s *State) FreeBalance(height uint64, account substrate.AccountID) (*big.Int, error) {
	return s.FreeBalanceFunc(height, account)
}
