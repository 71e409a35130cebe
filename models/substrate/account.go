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

import (
	"encoding/hex"
)

// AccountID is the raw 32-byte identifier of an account. Its human-readable
// form is the SS58 address for the network's address format.
type AccountID [HashLength]byte

// AccountFromBytes copies the given bytes into an account ID. It returns false
// if the length does not match.
func AccountFromBytes(data []byte) (AccountID, bool) {
	var id AccountID
	if len(data) != len(id) {
		return id, false
	}
	copy(id[:], data)
	return id, true
}

func (a AccountID) String() string {
	return hex.EncodeToString(a[:])
}
