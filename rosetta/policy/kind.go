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
	"strings"

	"github.com/optakt/substrate-rosetta/rosetta/configuration"
)

// Kind is the closed set of events that change balances.
type Kind uint8

const (
	Unknown Kind = iota
	Transfer
	FeesGiven
	Reserved
	Unreserved
	Endowed
	EpochEnds
	BalanceSet
)

var kinds = map[string]Kind{
	"balances.transfer":      Transfer,
	"poamodule.txnfeesgiven": FeesGiven,
	"balances.reserved":      Reserved,
	"balances.unreserved":    Unreserved,
	"balances.endowed":       Endowed,
	"poamodule.epochends":    EpochEnds,
	"balances.balanceset":    BalanceSet,
}

var kindNames = map[Kind]string{
	Unknown:    "unknown",
	Transfer:   "transfer",
	FeesGiven:  "fees_given",
	Reserved:   "reserved",
	Unreserved: "unreserved",
	Endowed:    "endowed",
	EpochEnds:  "epoch_ends",
	BalanceSet: "balance_set",
}

var operations = map[Kind]string{
	Transfer:   configuration.OperationTransfer,
	FeesGiven:  configuration.OperationFee,
	Reserved:   configuration.OperationReserve,
	Unreserved: configuration.OperationUnreserve,
	Endowed:    configuration.OperationEndowment,
	EpochEnds:  configuration.OperationEmission,
	BalanceSet: configuration.OperationBalanceSet,
}

// KindOf returns the kind for a normalized event key, such as
// "balances.transfer". Keys are matched case-insensitively.
func KindOf(key string) Kind {
	return kinds[strings.ToLower(key)]
}

func (k Kind) String() string {
	name, ok := kindNames[k]
	if !ok {
		return kindNames[Unknown]
	}
	return name
}

// Operation returns the Rosetta operation type for the kind.
func (k Kind) Operation() string {
	return operations[k]
}

// Method is the closed set of extrinsic methods whose arguments describe a
// transfer, used when the extrinsic did not succeed.
type Method uint8

const (
	UnknownMethod Method = iota
	MethodTransfer
	MethodTransferKeepAlive
	MethodTransferAllowDeath
)

var methodKeys = map[string]Method{
	"balances.transfer":           MethodTransfer,
	"balances.transferkeepalive":  MethodTransferKeepAlive,
	"balances.transferallowdeath": MethodTransferAllowDeath,
}

// MethodOf returns the method for a normalized call key, such as
// "balances.transferkeepalive".
func MethodOf(key string) Method {
	return methodKeys[strings.ToLower(key)]
}

// Operation returns the Rosetta operation type for the method.
func (m Method) Operation() string {
	if m == UnknownMethod {
		return ""
	}
	return configuration.OperationTransfer
}
