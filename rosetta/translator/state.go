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

package translator

import (
	"fmt"
	"math/big"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
)

// Balance returns the free balance of an account at the given block.
func (t *Translator) Balance(blockID identifier.Block, account identifier.Account) (identifier.Block, []object.Amount, error) {

	completed, header, err := t.complete(blockID)
	if err != nil {
		return identifier.Block{}, nil, err
	}

	id, err := t.reg.Account(account.Address)
	if err != nil {
		return identifier.Block{}, nil, failure.InvalidAccount{
			Description: failure.NewDescription("account address is invalid for network",
				failure.WithErr(err),
			),
			Address: account.Address,
		}
	}

	free, err := t.free(header.Hash, id)
	if err != nil {
		return identifier.Block{}, nil, fmt.Errorf("could not get free balance: %w", err)
	}

	amounts := []object.Amount{{
		Value:    free.String(),
		Currency: t.currency,
	}}

	return completed, amounts, nil
}

// Emission returns the amount credited to the treasury at the end of the given
// epoch.
func (t *Translator) Emission(at substrate.Hash, epoch uint64) (*big.Int, error) {

	key, err := t.reg.StorageKey("PoAModule", "Epochs", epoch)
	if err != nil {
		return nil, fmt.Errorf("could not derive epoch key: %w", err)
	}
	data, err := t.chain.Storage(key, at)
	if err != nil {
		return nil, fmt.Errorf("could not read epoch details: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no details for epoch %d", epoch)
	}
	value, err := t.reg.DecodeStorage("PoAModule", "Epochs", data)
	if err != nil {
		return nil, fmt.Errorf("could not decode epoch details: %w", err)
	}

	details, ok := value.(registry.Struct)
	if !ok {
		return nil, fmt.Errorf("unexpected epoch details type (%T)", value)
	}
	amount, ok := details.Field("emission_for_treasury")
	if !ok {
		return nil, fmt.Errorf("missing treasury emission in epoch details")
	}

	return registry.BigInt(amount)
}

// FreeBalance returns the free balance of an account at the given height.
func (t *Translator) FreeBalance(height uint64, account substrate.AccountID) (*big.Int, error) {
	hash, err := t.chain.BlockHash(height)
	if err != nil {
		return nil, fmt.Errorf("could not get block hash: %w", err)
	}
	return t.free(hash, account)
}

func (t *Translator) free(hash substrate.Hash, account substrate.AccountID) (*big.Int, error) {

	key, err := t.reg.StorageKey("System", "Account", account)
	if err != nil {
		return nil, fmt.Errorf("could not derive account key: %w", err)
	}
	data, err := t.chain.Storage(key, hash)
	if err != nil {
		return nil, fmt.Errorf("could not read account info: %w", err)
	}

	// Accounts without info have never been endowed.
	if len(data) == 0 {
		return new(big.Int), nil
	}

	value, err := t.reg.DecodeStorage("System", "Account", data)
	if err != nil {
		return nil, fmt.Errorf("could not decode account info: %w", err)
	}
	info, ok := value.(registry.Struct)
	if !ok {
		return nil, fmt.Errorf("unexpected account info type (%T)", value)
	}
	accountData, ok := info.Field("data")
	if !ok {
		return nil, fmt.Errorf("missing data in account info")
	}
	balances, ok := accountData.(registry.Struct)
	if !ok {
		return nil, fmt.Errorf("unexpected account data type (%T)", accountData)
	}
	free, ok := balances.Field("free")
	if !ok {
		return nil, fmt.Errorf("missing free balance in account data")
	}

	return registry.BigInt(free)
}

func (t *Translator) timestamp(hash substrate.Hash) (int64, error) {

	key, err := t.reg.StorageKey("Timestamp", "Now")
	if err != nil {
		return 0, fmt.Errorf("could not derive timestamp key: %w", err)
	}
	data, err := t.chain.Storage(key, hash)
	if err != nil {
		return 0, fmt.Errorf("could not read timestamp: %w", err)
	}
	if len(data) == 0 {
		return 0, nil
	}
	value, err := t.reg.DecodeStorage("Timestamp", "Now", data)
	if err != nil {
		return 0, fmt.Errorf("could not decode timestamp: %w", err)
	}
	milliseconds, err := registry.Uint64(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp: %w", err)
	}

	return int64(milliseconds), nil
}
