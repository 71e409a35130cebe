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

package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/request"
)

// Field names are mandatory arguments for the `ReportError` method of the
// validator library. They are added to the details of the returned failure.
const (
	blockchainField  = "blockchain"
	networkField     = "network"
	blockHashField   = "block_hash"
	addressField     = "address"
	txField          = "transaction_identifier"
	currencyField    = "currency"
	transactionField = "transaction"
	signaturesField  = "signatures"
	operationsField  = "operations"
	keyField         = "hex_bytes"
	curveField       = "curve_type"
	senderField      = "from"
	metadataField    = "metadata"
)

func networkValidator(sl validator.StructLevel) {
	network := sl.Current().Interface().(identifier.Network)
	if network.Blockchain == "" {
		sl.ReportError(network.Blockchain, blockchainField, blockchainField, blockchainEmpty, "")
	}
	if network.Network == "" {
		sl.ReportError(network.Network, networkField, networkField, networkEmpty, "")
	}
}

func blockValidator(sl validator.StructLevel) {
	block := sl.Current().Interface().(identifier.Block)
	if block.Hash == "" {
		return
	}
	_, err := substrate.ParseHash(block.Hash)
	if err != nil {
		sl.ReportError(block.Hash, blockHashField, blockHashField, blockInvalid, "")
	}
}

func accountValidator(sl validator.StructLevel) {
	account := sl.Current().Interface().(identifier.Account)
	if account.Address == "" {
		sl.ReportError(account.Address, addressField, addressField, addressEmpty, "")
	}
}

func transactionValidator(sl validator.StructLevel) {
	transaction := sl.Current().Interface().(identifier.Transaction)
	if transaction.Hash == "" {
		sl.ReportError(transaction.Hash, txField, txField, txHashEmpty, "")
		return
	}
	_, err := substrate.ParseHash(transaction.Hash)
	if err != nil {
		sl.ReportError(transaction.Hash, txField, txField, txHashInvalid, "")
	}
}

func balanceValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Balance)
	for _, currency := range req.Currencies {
		if currency.Symbol == "" {
			sl.ReportError(req.Currencies, currencyField, currencyField, currenciesInvalid, "")
			return
		}
	}
}

func preprocessValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Preprocess)
	if len(req.Operations) == 0 {
		sl.ReportError(req.Operations, operationsField, operationsField, operationsEmpty, "")
	}
}

func metadataValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Metadata)
	if req.Options.From == "" {
		sl.ReportError(req.Options.From, senderField, senderField, senderEmpty, "")
	}
}

func payloadsValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Payloads)
	if len(req.Operations) == 0 {
		sl.ReportError(req.Operations, operationsField, operationsField, operationsEmpty, "")
	}
	_, err := substrate.ParseHash(req.Metadata.BlockHash)
	if err != nil {
		sl.ReportError(req.Metadata.BlockHash, metadataField, metadataField, metadataInvalid, "")
	}
}

func combineValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Combine)
	if req.UnsignedTransaction == "" {
		sl.ReportError(req.UnsignedTransaction, transactionField, transactionField, txBodyEmpty, "")
	}
	if len(req.Signatures) == 0 {
		sl.ReportError(req.Signatures, signaturesField, signaturesField, signaturesEmpty, "")
	}
}

func parseValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Parse)
	if req.Transaction == "" {
		sl.ReportError(req.Transaction, transactionField, transactionField, txBodyEmpty, "")
	}
}

func hashValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Hash)
	if req.SignedTransaction == "" {
		sl.ReportError(req.SignedTransaction, transactionField, transactionField, txBodyEmpty, "")
	}
}

func submitValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Submit)
	if req.SignedTransaction == "" {
		sl.ReportError(req.SignedTransaction, transactionField, transactionField, txBodyEmpty, "")
	}
}

func deriveValidator(sl validator.StructLevel) {
	req := sl.Current().Interface().(request.Derive)
	if req.PublicKey.HexBytes == "" {
		sl.ReportError(req.PublicKey.HexBytes, keyField, keyField, keyEmpty, "")
	}
	if req.PublicKey.CurveType == "" {
		sl.ReportError(req.PublicKey.CurveType, curveField, curveField, curveEmpty, "")
	}
}
