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

package registry

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// Value is a decoded SCALE value. Integers of up to 64 bits decode to uint64,
// while u128 and compact integers decode to *big.Int. Account IDs, hashes and
// eras decode to their substrate model types, byte vectors and byte arrays to
// []byte, and sequences and tuples to []Value. Options decode to nil or to
// their inner value. Named structs and enums decode to Struct and Variant.
type Value interface{}

// Struct is a decoded named struct.
type Struct struct {
	Names  []string
	Values []Value
}

// Field returns the value of the field with the given name.
func (s Struct) Field(name string) (Value, bool) {
	for i, n := range s.Names {
		if n == name {
			return s.Values[i], true
		}
	}
	return nil, false
}

// Variant is a decoded enum variant.
type Variant struct {
	Name   string
	Index  uint8
	Values []Value
}

// Call is a runtime call with its arguments.
type Call struct {
	Pallet string
	Name   string
	Args   []Value
}

// Method returns the qualified call name, as used to create calls.
func (c *Call) Method() string {
	return c.Pallet + "." + c.Name
}

// Key returns the normalized key of the call, which is the lower-cased pallet
// and call names, separated by a dot, with underscores removed.
func (c *Call) Key() string {
	return Key(c.Pallet, c.Name)
}

// Key normalizes a pallet name and a call or event name into a lookup key,
// so that "Balances" and "transfer_keep_alive" become
// "balances.transferkeepalive".
func Key(pallet string, name string) string {
	return strings.ToLower(pallet + "." + strings.ReplaceAll(name, "_", ""))
}

// BigInt converts an integer value into a big integer.
func BigInt(value Value) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case int:
		if v < 0 {
			return nil, fmt.Errorf("negative integer (%d)", v)
		}
		return big.NewInt(int64(v)), nil
	case int64:
		if v < 0 {
			return nil, fmt.Errorf("negative integer (%d)", v)
		}
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unexpected integer type (%T)", value)
	}
}

// Uint64 converts an integer value into an unsigned 64-bit integer.
func Uint64(value Value) (uint64, error) {
	number, err := BigInt(value)
	if err != nil {
		return 0, err
	}
	if !number.IsUint64() {
		return 0, fmt.Errorf("integer overflows 64 bits (%s)", number)
	}
	return number.Uint64(), nil
}

// AccountOf extracts the account ID from an account value or from the Id
// variant of a multi-address.
func AccountOf(value Value) (substrate.AccountID, error) {
	switch v := value.(type) {
	case substrate.AccountID:
		return v, nil
	case Variant:
		if v.Index != 0 || len(v.Values) != 1 {
			return substrate.AccountID{}, fmt.Errorf("unsupported address variant (%s)", v.Name)
		}
		return AccountOf(v.Values[0])
	case []byte:
		id, ok := substrate.AccountFromBytes(v)
		if !ok {
			return substrate.AccountID{}, fmt.Errorf("invalid account length (%d)", len(v))
		}
		return id, nil
	default:
		return substrate.AccountID{}, fmt.Errorf("unexpected account type (%T)", value)
	}
}
