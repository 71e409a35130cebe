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
	"fmt"
	"math/big"

	"github.com/optakt/substrate-rosetta/registry"
)

// resolveTransfer moves arg[2] from arg[0] to arg[1].
func resolveTransfer(p *Policy, _ Context, args []registry.Value) (*Resolution, error) {
	err := checkArgs(args, 3)
	if err != nil {
		return nil, err
	}
	from, err := p.address(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	to, err := p.address(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid receiver: %w", err)
	}
	amount, err := registry.BigInt(args[2])
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return &Resolution{Debit: from, Credit: to, Amount: amount}, nil
}

// resolveFeesGiven credits the fees in arg[2] to arg[0].
func resolveFeesGiven(p *Policy, _ Context, args []registry.Value) (*Resolution, error) {
	err := checkArgs(args, 3)
	if err != nil {
		return nil, err
	}
	to, err := p.address(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid receiver: %w", err)
	}
	amount, err := registry.BigInt(args[2])
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return &Resolution{Credit: to, Amount: amount}, nil
}

// resolveCredit credits arg[1] to arg[0].
func resolveCredit(p *Policy, _ Context, args []registry.Value) (*Resolution, error) {
	err := checkArgs(args, 2)
	if err != nil {
		return nil, err
	}
	to, err := p.address(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid account: %w", err)
	}
	amount, err := registry.BigInt(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return &Resolution{Credit: to, Amount: amount}, nil
}

// resolveEpochEnds credits the treasury share of the emission of the epoch in
// arg[0] to the treasury.
func resolveEpochEnds(p *Policy, ctx Context, args []registry.Value) (*Resolution, error) {
	err := checkArgs(args, 1)
	if err != nil {
		return nil, err
	}
	epoch, err := registry.Uint64(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid epoch: %w", err)
	}
	amount, err := p.emission(ctx, epoch)
	if err != nil {
		return nil, err
	}
	return &Resolution{Credit: p.treasury, Amount: amount}, nil
}

// resolveBalanceSet credits the difference between the new free balance in
// arg[1] and the free balance of arg[0] at the parent block. The amount is
// negative when the balance was lowered.
func resolveBalanceSet(p *Policy, ctx Context, args []registry.Value) (*Resolution, error) {
	err := checkArgs(args, 2)
	if err != nil {
		return nil, err
	}
	id, err := registry.AccountOf(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid account: %w", err)
	}
	free, err := registry.BigInt(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid free balance: %w", err)
	}
	previous := new(big.Int)
	if ctx.Height > 0 {
		previous, err = p.state.FreeBalance(ctx.Height-1, id)
		if err != nil {
			return nil, fmt.Errorf("could not get previous free balance: %w", err)
		}
	}
	amount := new(big.Int).Sub(free, previous)
	return &Resolution{Credit: p.addresses.Address(id), Amount: amount}, nil
}

// resolveMethodTransfer moves arg[1] from the signer to the multi-address in
// arg[0].
func resolveMethodTransfer(p *Policy, ctx Context, args []registry.Value) (*Resolution, error) {
	err := checkArgs(args, 2)
	if err != nil {
		return nil, err
	}
	if ctx.Signer == "" {
		return nil, fmt.Errorf("missing signer")
	}
	to, err := p.address(args[0])
	if err != nil {
		return nil, fmt.Errorf("invalid destination: %w", err)
	}
	amount, err := registry.BigInt(args[1])
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return &Resolution{Debit: ctx.Signer, Credit: to, Amount: amount}, nil
}
