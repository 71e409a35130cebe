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

// Schema is the JSON description of a runtime: its named types and the
// pallets with their indexed calls, events and storage entries. It is bound to
// exactly one spec version.
type Schema struct {
	SpecName    string                `json:"spec_name" validate:"required"`
	SpecVersion uint32                `json:"spec_version" validate:"required"`
	Types       map[string]Definition `json:"types" validate:"dive"`
	Pallets     []Pallet              `json:"pallets" validate:"required,dive"`
}

// Definition defines a named type as exactly one of an alias, a struct or an
// enum.
type Definition struct {
	Alias  string       `json:"alias,omitempty"`
	Struct []FieldDef   `json:"struct,omitempty" validate:"dive"`
	Enum   []VariantDef `json:"enum,omitempty" validate:"dive"`
}

type FieldDef struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type" validate:"required"`
}

// VariantDef is an enum variant. Without explicit index, the position of the
// variant in the enum is used.
type VariantDef struct {
	Name   string   `json:"name" validate:"required"`
	Index  *uint8   `json:"index,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// Pallet describes one runtime module. The storage prefix defaults to the
// pallet name.
type Pallet struct {
	Name    string       `json:"name" validate:"required"`
	Index   uint8        `json:"index"`
	Prefix  string       `json:"prefix,omitempty"`
	Calls   []EntryDef   `json:"calls,omitempty" validate:"dive"`
	Events  []EntryDef   `json:"events,omitempty" validate:"dive"`
	Storage []StorageDef `json:"storage,omitempty" validate:"dive"`
}

// EntryDef is a call or an event with its argument types. Without explicit
// index, the position of the entry in the pallet is used.
type EntryDef struct {
	Name  string   `json:"name" validate:"required"`
	Index *uint8   `json:"index,omitempty"`
	Args  []string `json:"args,omitempty"`
}

// StorageDef is a plain storage value, or a map when it has a key. Entries
// without type can only be read raw.
type StorageDef struct {
	Name   string `json:"name" validate:"required"`
	Hasher string `json:"hasher,omitempty" validate:"required_with=Key"`
	Key    string `json:"key,omitempty"`
	Type   string `json:"type,omitempty"`
}
