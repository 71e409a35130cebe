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

// Error descriptions for invalid requests.
const (
	blockchainEmpty   = "network identifier has empty blockchain field"
	networkEmpty      = "network identifier has empty network field"
	blockInvalid      = "block identifier has invalid hash field"
	addressEmpty      = "account identifier has empty address field"
	currenciesInvalid = "currency identifier has empty symbol field"
	txHashEmpty       = "transaction identifier has empty hash field"
	txHashInvalid     = "transaction identifier has invalid hash field"
	txBodyEmpty       = "transaction text is empty"
	signaturesEmpty   = "signature list is empty"
	operationsEmpty   = "operation list is empty"
	keyEmpty          = "public key has empty hex bytes field"
	curveEmpty        = "public key has empty curve type field"
	senderEmpty       = "options have empty sender field"
	metadataInvalid   = "metadata has invalid block hash field"
)
