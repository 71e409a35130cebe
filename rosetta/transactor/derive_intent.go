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
	"math/big"

	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/object"
)

// Intent is a transfer of an amount from one account to another.
type Intent struct {
	From   string
	To     string
	Amount *big.Int
}

// DeriveIntent derives a transaction Intent from two operations given as input.
// Specified operations should be symmetrical, a deposit and a withdrawal from two
// different accounts. At the moment, the only fields taken into account are the
// account IDs, amounts, currencies and type of operation.
func (t *Transactor) DeriveIntent(operations []object.Operation) (*Intent, error) {

	// Verify that we have exactly two operations.
	if len(operations) != 2 {
		return nil, failure.InvalidIntent{
			Description: failure.NewDescription(opsInvalid,
				failure.WithInt("have", len(operations)),
				failure.WithInt("want", 2),
			),
		}
	}

	// Parse amounts.
	amounts := make([]*big.Int, 0, len(operations))
	for _, op := range operations {
		amount, ok := new(big.Int).SetString(op.Amount.Value, 10)
		if !ok {
			return nil, failure.InvalidIntent{
				Description: failure.NewDescription(opAmountUnparseable,
					failure.WithString("amount", op.Amount.Value),
				),
			}
		}
		amounts = append(amounts, amount)
	}

	// Verify that the amounts match.
	if new(big.Int).Add(amounts[0], amounts[1]).Sign() != 0 {
		return nil, failure.InvalidIntent{
			Description: failure.NewDescription(opsAmountsMismatch,
				failure.WithString("first_amount", operations[0].Amount.Value),
				failure.WithString("second_amount", operations[1].Amount.Value),
			),
		}
	}

	// The send operation is the one with the negative amount. As the amounts
	// cancel out, the other one is then positive.
	var send, receive object.Operation
	var amount *big.Int
	switch {
	case amounts[0].Sign() < 0:
		send, receive = operations[0], operations[1]
		amount = amounts[1]
	case amounts[1].Sign() < 0:
		send, receive = operations[1], operations[0]
		amount = amounts[0]
	default:
		return nil, failure.InvalidIntent{
			Description: failure.NewDescription(opsNoWithdrawal,
				failure.WithString("first_amount", operations[0].Amount.Value),
				failure.WithString("second_amount", operations[1].Amount.Value),
			),
		}
	}

	// Validate the currencies specified for deposit and withdrawal.
	desc := t.reg.Descriptor()
	for _, op := range []object.Operation{send, receive} {
		currency := op.Amount.Currency
		if currency.Symbol != desc.TokenSymbol || currency.Decimals != desc.TokenDecimals {
			return nil, failure.InvalidIntent{
				Description: failure.NewDescription(currencyInvalid,
					failure.WithString("symbol", currency.Symbol),
					failure.WithInt("decimals", int(currency.Decimals)),
				),
			}
		}
	}

	// Validate that the specified operations are transfers.
	if send.Type != configuration.OperationTransfer || receive.Type != configuration.OperationTransfer {
		return nil, failure.InvalidIntent{
			Description: failure.NewDescription(opTypeInvalid,
				failure.WithString("withdrawal_type", send.Type),
				failure.WithString("deposit_type", receive.Type),
			),
		}
	}

	// Validate the sender and the receiver addresses.
	for _, address := range []string{send.AccountID.Address, receive.AccountID.Address} {
		_, err := t.reg.Account(address)
		if err != nil {
			return nil, failure.InvalidAccount{
				Description: failure.NewDescription(accountInvalid, failure.WithErr(err)),
				Address:     address,
			}
		}
	}
	if send.AccountID.Address == receive.AccountID.Address {
		return nil, failure.InvalidIntent{
			Description: failure.NewDescription(opsAccountsMismatch,
				failure.WithString("account", send.AccountID.Address),
			),
		}
	}

	intent := Intent{
		From:   send.AccountID.Address,
		To:     receive.AccountID.Address,
		Amount: amount,
	}

	return &intent, nil
}
