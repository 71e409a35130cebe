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
	"errors"
	"fmt"
	"math/big"

	"github.com/hashicorp/go-multierror"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/rosetta/policy"
)

var (
	timestampSet     = registry.Key("Timestamp", "set")
	extrinsicSuccess = registry.Key("System", "ExtrinsicSuccess")
	extrinsicFailed  = registry.Key("System", "ExtrinsicFailed")
)

type result struct {
	transaction *object.Transaction
	fee         *object.Operation
	diagnostics []error
}

func (t *Translator) extrinsic(header *substrate.Header, ext *registry.Extrinsic, events []*registry.Event) result {

	var res result
	if ext.Call == nil || ext.Call.Key() == timestampSet {
		return res
	}

	ctx := policy.Context{
		Height: header.Number,
		Hash:   header.Hash,
	}
	if ext.Signed {
		ctx.Signer = t.reg.Address(ext.Signer)
	}

	status, paysFee := classify(events)

	var operations []object.Operation
	switch status {

	case configuration.StatusSuccess:
		var diagnostics *multierror.Error
		for _, event := range events {
			key := event.Key()
			if key == extrinsicSuccess || key == extrinsicFailed {
				continue
			}
			resolution, err := t.policy.Resolve(ctx, key, event.Args)
			if err != nil {
				diagnostics = t.diagnose(diagnostics, event, err)
				continue
			}
			operations = t.operations(operations, resolution, status)
		}
		if diagnostics != nil {
			res.diagnostics = diagnostics.Errors
		}

	default:
		// Events of unsuccessful extrinsics do not describe the intended balance
		// changes, so we derive them from the call arguments instead.
		resolution, err := t.policy.ResolveMethod(ctx, ext.Call.Key(), ext.Call.Args)
		var unsupported failure.UnsupportedExtrinsic
		switch {
		case errors.As(err, &unsupported):
		case err != nil:
			res.diagnostics = append(res.diagnostics, fmt.Errorf("could not resolve call (%s): %w", ext.Call.Key(), err))
		default:
			operations = t.operations(operations, resolution, status)
		}
	}

	if ext.Signed && paysFee {
		fee := new(big.Int).Neg(t.quote(header, ext))
		operation := t.operation(0, configuration.OperationFee, configuration.StatusSuccess, ctx.Signer, fee)
		res.fee = &operation
	}

	if len(operations) > 0 {
		res.transaction = &object.Transaction{
			ID:         identifier.Transaction{Hash: ext.Hash().String()},
			Operations: operations,
		}
	}

	return res
}

// quote returns the fee of an extrinsic, as estimated by the node against the
// parent block state. It defaults to zero when the node cannot estimate it.
func (t *Translator) quote(header *substrate.Header, ext *registry.Extrinsic) *big.Int {
	fee, err := t.chain.FeeQuote(ext.Raw, header.ParentHash)
	if err != nil {
		t.log.Debug().
			Err(err).
			Uint64("height", header.Number).
			Str("extrinsic", ext.Hash().String()).
			Msg("could not get fee quote, defaulting to zero")
		t.record.QuoteFallback()
		return new(big.Int)
	}
	return fee
}

// operations appends the operations of a resolution with dense indices, the
// debit operation first.
func (t *Translator) operations(operations []object.Operation, res *policy.Resolution, status string) []object.Operation {
	typ := res.Kind.Operation()
	if res.Debit != "" {
		debit := new(big.Int).Neg(res.Amount)
		operations = append(operations, t.operation(len(operations), typ, status, res.Debit, debit))
	}
	operations = append(operations, t.operation(len(operations), typ, status, res.Credit, res.Amount))
	return operations
}

func (t *Translator) operation(index int, typ string, status string, address string, amount *big.Int) object.Operation {
	return object.Operation{
		ID:        identifier.Operation{Index: uint(index)},
		Type:      typ,
		Status:    status,
		AccountID: identifier.Account{Address: address},
		Amount: object.Amount{
			Value:    amount.String(),
			Currency: t.currency,
		},
	}
}

// classify derives the status of an extrinsic from its events, and whether
// its dispatch info says it pays fees.
func classify(events []*registry.Event) (string, bool) {
	status := configuration.StatusUnknown
	paysFee := false
	for _, event := range events {
		switch event.Key() {
		case extrinsicSuccess:
			status = configuration.StatusSuccess
		case extrinsicFailed:
			status = configuration.StatusFailure
		default:
			continue
		}
		for _, arg := range event.Args {
			if pays(arg) {
				paysFee = true
			}
		}
	}
	return status, paysFee
}

func pays(arg registry.Value) bool {
	info, ok := arg.(registry.Struct)
	if !ok {
		return false
	}
	value, ok := info.Field("pays_fee")
	if !ok {
		return false
	}
	variant, ok := value.(registry.Variant)
	return ok && variant.Name == "Yes"
}
