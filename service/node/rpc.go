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

package node

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// JSON-RPC methods the node adapter calls without a typed client.
const (
	methodBlockHash = "chain_getBlockHash"
	methodBlock     = "chain_getBlock"
	methodFeeQuote  = "payment_queryInfo"
	methodNonce     = "system_accountNextIndex"
	methodSubmit    = "author_submitExtrinsic"
)

type rpcHeader struct {
	ParentHash string `json:"parentHash"`
	Number     string `json:"number"`
}

type rpcBlock struct {
	Header     rpcHeader `json:"header"`
	Extrinsics []string  `json:"extrinsics"`
}

type rpcSignedBlock struct {
	Block rpcBlock `json:"block"`
}

type rpcFeeInfo struct {
	PartialFee json.RawMessage `json:"partialFee"`
}

// number parses a block number, which nodes return as a hex-encoded string.
func number(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
}

// balance parses a balance, which nodes return either as a decimal string, as
// a hex-encoded string or as a JSON number.
func balance(raw json.RawMessage) (*big.Int, error) {

	s := strings.Trim(string(raw), `"`)
	base := 10
	if strings.HasPrefix(s, "0x") {
		s = strings.TrimPrefix(s, "0x")
		base = 16
	}

	value, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid balance (%s)", string(raw))
	}

	return value, nil
}
