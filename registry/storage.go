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
)

// StorageKey returns the key of a storage entry, which is the twox128 hash of
// the pallet prefix, followed by the twox128 hash of the entry name and, for
// maps, the hashed encoding of the map key.
func (r *Registry) StorageKey(pallet string, name string, key ...Value) ([]byte, error) {
	p, s, err := r.lookupStorage(pallet, name)
	if err != nil {
		return nil, err
	}

	out := append(twox([]byte(p.prefix), 2), twox([]byte(s.name), 2)...)

	if s.key == nil {
		if len(key) != 0 {
			return nil, fmt.Errorf("storage value %s.%s takes no key", pallet, name)
		}
		return out, nil
	}

	if len(key) != 1 {
		return nil, fmt.Errorf("storage map %s.%s needs exactly one key (have: %d)", pallet, name, len(key))
	}
	encoded, err := r.encodeNode(s.key, key[0])
	if err != nil {
		return nil, fmt.Errorf("could not encode storage key: %w", err)
	}

	return append(out, hashers[s.hasher](encoded)...), nil
}

// DecodeStorage decodes the raw value of a storage entry.
func (r *Registry) DecodeStorage(pallet string, name string, data []byte) (Value, error) {
	_, s, err := r.lookupStorage(pallet, name)
	if err != nil {
		return nil, err
	}
	if s.value == nil {
		return nil, fmt.Errorf("storage entry %s.%s has no value type", pallet, name)
	}
	return r.decodeNode(s.value, data)
}

func (r *Registry) lookupStorage(pallet string, name string) (*pallet, *storage, error) {
	p, err := r.lookupPallet(pallet)
	if err != nil {
		return nil, nil, err
	}
	s, ok := p.storage[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown storage entry (%s.%s)", pallet, name)
	}
	return p, s, nil
}
