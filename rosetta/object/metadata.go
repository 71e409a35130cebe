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

package object

// Metadata is the chain state a transaction is constructed against.
type Metadata struct {
	Nonce       uint64 `json:"nonce"`
	BlockHash   string `json:"block_hash"`
	BlockNumber uint64 `json:"block_number"`
	EraPeriod   uint64 `json:"era_period"`
}

// Options is forwarded from preprocess to the metadata request.
type Options struct {
	From string `json:"from"`
}
