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

package substrate

// Descriptor holds the static configuration of one supported network. It is
// loaded once at startup and never modified afterwards.
type Descriptor struct {
	Blockchain         string   `json:"blockchain" validate:"required"`
	Network            string   `json:"network" validate:"required"`
	NodeAddress        string   `json:"node_address"`
	Genesis            Hash     `json:"genesis"`
	Name               string   `json:"name"`
	SpecName           string   `json:"spec_name" validate:"required"`
	SpecVersion        uint32   `json:"spec_version" validate:"required"`
	TransactionVersion uint32   `json:"transaction_version" validate:"required"`
	SS58Format         uint16   `json:"ss58_format" validate:"lt=16384"`
	TokenDecimals      uint     `json:"token_decimals"`
	TokenSymbol        string   `json:"token_symbol" validate:"required"`
	Treasury           string   `json:"treasury"`
	SignedExtensions   []string `json:"signed_extensions" validate:"required,dive,required"`
}
