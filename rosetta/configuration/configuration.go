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

package configuration

import (
	"github.com/optakt/substrate-rosetta/rosetta/meta"
)

// Versions reported by the network options endpoint.
const (
	RosettaVersion    = "1.4.10"
	MiddlewareVersion = "0.1.0"
)

// Operation statuses.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
	StatusUnknown = "UNKNOWN"
)

// Operation types.
const (
	OperationTransfer   = "Transfer"
	OperationFee        = "Fee"
	OperationReserve    = "Reserve"
	OperationUnreserve  = "Unreserve"
	OperationEndowment  = "Endowment"
	OperationEmission   = "Emission"
	OperationBalanceSet = "BalanceSet"
)

// Configuration holds the static Rosetta options that are shared by all
// networks.
type Configuration struct {
	version    meta.Version
	statuses   []meta.StatusDefinition
	operations []string
	errors     []meta.ErrorDefinition
}

// New creates the configuration for the given node version.
func New(nodeVersion string) *Configuration {

	version := meta.Version{
		RosettaVersion:    RosettaVersion,
		NodeVersion:       nodeVersion,
		MiddlewareVersion: MiddlewareVersion,
	}

	statuses := []meta.StatusDefinition{
		{Status: StatusSuccess, Successful: true},
		{Status: StatusFailure, Successful: false},
		{Status: StatusUnknown, Successful: false},
	}

	operations := []string{
		OperationTransfer,
		OperationFee,
		OperationReserve,
		OperationUnreserve,
		OperationEndowment,
		OperationEmission,
		OperationBalanceSet,
	}

	errors := []meta.ErrorDefinition{
		ErrorInternal,
		ErrorInvalidEncoding,
		ErrorInvalidFormat,
		ErrorInvalidNetwork,
		ErrorInvalidAccount,
		ErrorInvalidCurrency,
		ErrorInvalidBlock,
		ErrorInvalidTransaction,
		ErrorUnknownBlock,
		ErrorUnknownCurrency,
		ErrorUnknownTransaction,
		ErrorInvalidIntent,
		ErrorInvalidPayload,
		ErrorUnsupportedExtrinsic,
		ErrorInvalidSignature,
		ErrorInvalidKey,
		ErrorOfflineMode,
		ErrorBroadcastFailed,
	}

	c := Configuration{
		version:    version,
		statuses:   statuses,
		operations: operations,
		errors:     errors,
	}

	return &c
}

func (c *Configuration) Version() meta.Version {
	return c.version
}

func (c *Configuration) Statuses() []meta.StatusDefinition {
	return c.statuses
}

func (c *Configuration) Operations() []string {
	return c.operations
}

func (c *Configuration) Errors() []meta.ErrorDefinition {
	return c.errors
}
