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

var (
	ErrorInternal           = meta.ErrorDefinition{Code: 1, Message: "internal error", Retriable: false}
	ErrorInvalidEncoding    = meta.ErrorDefinition{Code: 2, Message: "invalid request encoding", Retriable: false}
	ErrorInvalidFormat      = meta.ErrorDefinition{Code: 3, Message: "invalid request format", Retriable: false}
	ErrorInvalidNetwork     = meta.ErrorDefinition{Code: 4, Message: "invalid network identifier", Retriable: false}
	ErrorInvalidAccount     = meta.ErrorDefinition{Code: 5, Message: "invalid account identifier", Retriable: false}
	ErrorInvalidCurrency    = meta.ErrorDefinition{Code: 6, Message: "invalid currency identifier", Retriable: false}
	ErrorInvalidBlock       = meta.ErrorDefinition{Code: 7, Message: "invalid block identifier", Retriable: false}
	ErrorInvalidTransaction = meta.ErrorDefinition{Code: 8, Message: "invalid transaction identifier", Retriable: false}
	ErrorUnknownBlock       = meta.ErrorDefinition{Code: 9, Message: "unknown block identifier", Retriable: true}
	ErrorUnknownCurrency    = meta.ErrorDefinition{Code: 10, Message: "unknown currency identifier", Retriable: false}
	ErrorUnknownTransaction = meta.ErrorDefinition{Code: 11, Message: "unknown block transaction", Retriable: false}

	// Construction API specific errors.
	ErrorInvalidIntent        = meta.ErrorDefinition{Code: 12, Message: "invalid transaction intent", Retriable: false}
	ErrorInvalidPayload       = meta.ErrorDefinition{Code: 13, Message: "invalid transaction payload", Retriable: false}
	ErrorUnsupportedExtrinsic = meta.ErrorDefinition{Code: 14, Message: "unsupported extrinsic", Retriable: false}
	ErrorInvalidSignature     = meta.ErrorDefinition{Code: 15, Message: "invalid transaction signature", Retriable: false}
	ErrorInvalidKey           = meta.ErrorDefinition{Code: 16, Message: "invalid public key", Retriable: false}
	ErrorOfflineMode          = meta.ErrorDefinition{Code: 17, Message: "endpoint unavailable in offline mode", Retriable: false}
	ErrorBroadcastFailed      = meta.ErrorDefinition{Code: 18, Message: "could not broadcast transaction", Retriable: true}
)
