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

// Error descriptions for common errors.
const (
	// Operations/intent errors.
	opsInvalid          = "invalid number of operations"
	opsAmountsMismatch  = "transfer amounts do not match"
	opsAccountsMismatch = "transfer sender and receiver are the same account"
	opsNoWithdrawal     = "transfer needs exactly one negative amount"
	currencyInvalid     = "invalid currency"
	opAmountUnparseable = "could not parse amount"
	opTypeInvalid       = "only transfer operations are supported"
	accountInvalid      = "account address is invalid for network"

	// Envelope errors.
	envelopeEncoding = "invalid envelope encoding"
	envelopeVersion  = "unsupported envelope version"
	envelopeRuntime  = "envelope was built for another runtime"
	envelopeAmount   = "invalid envelope amount"
	methodInvalid    = "only keep-alive transfers are supported"
	sigMissing       = "envelope is not signed"
)
