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
	"strconv"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// metadataVersion is the only version of runtime metadata with a portable
// type registry.
const metadataVersion = 14

// FromMetadata creates a registry from the SCALE metadata of a runtime, as
// returned by the state_getMetadata call of a node. The signed extensions
// listed in the metadata replace the ones of the descriptor. Calls, events and
// storage entries using types without SCALE support in the registry are left
// out and listed by Unsupported.
func FromMetadata(descriptor substrate.Descriptor, meta *types.Metadata) (*Registry, error) {

	if meta.Version != metadataVersion {
		return nil, fmt.Errorf("unsupported metadata version (have: %d, want: %d)", meta.Version, metadataVersion)
	}
	encoded, err := codec.Encode(meta)
	if err != nil {
		return nil, fmt.Errorf("could not encode metadata: %w", err)
	}

	v14 := &meta.AsMetadataV14
	c := newConverter(v14)
	schema := c.schema(v14, descriptor.SpecName, descriptor.SpecVersion)

	extensions := make([]string, 0, len(v14.Extrinsic.SignedExtensions))
	for _, ext := range v14.Extrinsic.SignedExtensions {
		extensions = append(extensions, string(ext.Identifier))
	}
	descriptor.SignedExtensions = extensions

	r, err := build(descriptor, schema, xxhash.Checksum64(encoded))
	if err != nil {
		return nil, err
	}
	r.unsupported = c.skipped

	return r, nil
}

// converter turns the portable type registry of metadata into type
// expressions. Composite and variant types become named definitions, called
// after the last segment of their path and suffixed with their type ID.
type converter struct {
	lookup  map[int64]*types.Si1Type
	call    int64
	exprs   map[int64]string
	types   map[string]Definition
	failed  map[int64]error
	added   []int64
	skipped []string
}

func newConverter(meta *types.MetadataV14) *converter {

	c := converter{
		lookup: make(map[int64]*types.Si1Type, len(meta.Lookup.Types)),
		call:   -1,
		exprs:  make(map[int64]string),
		types:  make(map[string]Definition),
		failed: make(map[int64]error),
	}
	for i := range meta.Lookup.Types {
		typ := &meta.Lookup.Types[i]
		c.lookup[typ.ID.Int64()] = &typ.Type
	}

	// The outer call enum of the runtime is the "Call" parameter of the
	// extrinsic type.
	outer, ok := c.lookup[meta.Extrinsic.Type.Int64()]
	if ok {
		for _, param := range outer.Params {
			if string(param.Name) == "Call" && param.HasType {
				c.call = param.Type.Int64()
			}
		}
	}

	return &c
}

func (c *converter) schema(meta *types.MetadataV14, name string, version uint32) Schema {

	schema := Schema{
		SpecName:    name,
		SpecVersion: version,
		Types:       c.types,
	}

	for i := range meta.Pallets {
		p := &meta.Pallets[i]
		pallet := Pallet{
			Name:  string(p.Name),
			Index: uint8(p.Index),
		}
		if p.HasCalls {
			pallet.Calls = c.entries(pallet.Name, p.Calls.Type.Int64())
		}
		if p.HasEvents {
			pallet.Events = c.entries(pallet.Name, p.Events.Type.Int64())
		}
		if p.HasStorage {
			pallet.Prefix = string(p.Storage.Prefix)
			for j := range p.Storage.Items {
				def, ok := c.storage(pallet.Name, &p.Storage.Items[j])
				if ok {
					pallet.Storage = append(pallet.Storage, def)
				}
			}
		}
		schema.Pallets = append(schema.Pallets, pallet)
	}

	return schema
}

// entries converts the variants of a call or event enum.
func (c *converter) entries(pallet string, id int64) []EntryDef {

	typ, ok := c.lookup[id]
	if !ok || !typ.Def.IsVariant {
		c.skipped = append(c.skipped, pallet)
		return nil
	}

	var entries []EntryDef
	for _, v := range typ.Def.Variant.Variants {
		checkpoint := len(c.added)
		args, err := c.fields(v.Fields)
		if err != nil {
			c.rollback(checkpoint)
			c.skipped = append(c.skipped, pallet+"."+string(v.Name))
			continue
		}
		index := uint8(v.Index)
		entries = append(entries, EntryDef{Name: string(v.Name), Index: &index, Args: args})
	}

	return entries
}

// storage converts a plain storage entry or a map with a single hasher.
func (c *converter) storage(pallet string, item *types.StorageEntryMetadataV14) (StorageDef, bool) {

	name := string(item.Name)
	checkpoint := len(c.added)
	def := StorageDef{Name: name}
	var err error

	switch {
	case item.Type.IsPlainType:
		def.Type, err = c.expr(item.Type.AsPlainType.Int64())

	case item.Type.IsMap && len(item.Type.AsMap.Hashers) == 1:
		var ok bool
		def.Hasher, ok = hasherName(item.Type.AsMap.Hashers[0])
		if !ok {
			err = fmt.Errorf("unsupported storage hasher")
			break
		}
		def.Key, err = c.expr(item.Type.AsMap.Key.Int64())
		if err != nil {
			break
		}
		def.Type, err = c.expr(item.Type.AsMap.Value.Int64())

	default:
		err = fmt.Errorf("unsupported storage entry type")
	}

	if err != nil {
		c.rollback(checkpoint)
		c.skipped = append(c.skipped, pallet+"."+name)
		return StorageDef{}, false
	}

	return def, true
}

// rollback forgets every type converted since the checkpoint, so that no
// definition refers to a type that could not be converted.
func (c *converter) rollback(checkpoint int) {
	for _, id := range c.added[checkpoint:] {
		delete(c.types, c.exprs[id])
		delete(c.exprs, id)
	}
	c.added = c.added[:checkpoint]
}

func (c *converter) expr(id int64) (string, error) {

	if id == c.call {
		return "Call", nil
	}
	expr, ok := c.exprs[id]
	if ok {
		return expr, nil
	}
	err, ok := c.failed[id]
	if ok {
		return "", err
	}
	typ, ok := c.lookup[id]
	if !ok {
		return "", fmt.Errorf("unknown type ID (%d)", id)
	}

	expr, err = c.convert(id, typ)
	if err != nil {
		delete(c.exprs, id)
		c.failed[id] = err
		return "", err
	}
	c.remember(id, expr)

	return expr, nil
}

func (c *converter) remember(id int64, expr string) {
	_, ok := c.exprs[id]
	if ok {
		return
	}
	c.exprs[id] = expr
	c.added = append(c.added, id)
}

func (c *converter) convert(id int64, typ *types.Si1Type) (string, error) {

	switch path(typ) {
	case "sp_core::crypto::AccountId32":
		return "AccountId", nil
	case "primitive_types::H256", "sp_core::hash::H256":
		return "H256", nil
	case "sp_runtime::multiaddress::MultiAddress":
		return "MultiAddress", nil
	case "sp_runtime::generic::era::Era":
		return "Era", nil
	case "Option":
		return c.option(typ)
	}

	def := &typ.Def
	switch {

	case def.IsPrimitive:
		return primitive(def.Primitive.Si0TypeDefPrimitive)

	case def.IsCompact:
		inner, err := c.compact(def.Compact.Type.Int64())
		if err != nil {
			return "", err
		}
		return "Compact<" + inner + ">", nil

	case def.IsSequence:
		elem, err := c.expr(def.Sequence.Type.Int64())
		if err != nil {
			return "", err
		}
		return "Vec<" + elem + ">", nil

	case def.IsArray:
		elem, err := c.expr(def.Array.Type.Int64())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[%s; %d]", elem, def.Array.Len), nil

	case def.IsTuple:
		items := make([]string, 0, len(def.Tuple))
		for i := range def.Tuple {
			item, err := c.expr(def.Tuple[i].Int64())
			if err != nil {
				return "", err
			}
			items = append(items, item)
		}
		return "(" + strings.Join(items, ",") + ")", nil

	case def.IsComposite:
		return c.composite(id, typ)

	case def.IsVariant:
		return c.variant(id, typ)

	default:
		return "", fmt.Errorf("unsupported type definition (id: %d)", id)
	}
}

// reserve names a composite or variant type before its fields are converted,
// so that recursive types refer to their own name.
func (c *converter) reserve(id int64, typ *types.Si1Type) string {
	base := "Type"
	if len(typ.Path) > 0 {
		base = string(typ.Path[len(typ.Path)-1])
	}
	name := base + strconv.FormatInt(id, 10)
	c.remember(id, name)
	return name
}

func (c *converter) composite(id int64, typ *types.Si1Type) (string, error) {

	name := c.reserve(id, typ)
	fields := typ.Def.Composite.Fields

	var def Definition
	switch {
	case len(fields) == 0:
		def.Alias = "()"
	case !fields[0].HasName:
		items, err := c.fields(fields)
		if err != nil {
			return "", err
		}
		def.Alias = items[0]
		if len(items) > 1 {
			def.Alias = "(" + strings.Join(items, ",") + ")"
		}
	default:
		for i, f := range fields {
			expr, err := c.expr(f.Type.Int64())
			if err != nil {
				return "", err
			}
			fieldName := string(f.Name)
			if !f.HasName {
				fieldName = "field" + strconv.Itoa(i)
			}
			def.Struct = append(def.Struct, FieldDef{Name: fieldName, Type: expr})
		}
	}
	c.types[name] = def

	return name, nil
}

func (c *converter) variant(id int64, typ *types.Si1Type) (string, error) {

	name := c.reserve(id, typ)

	// An enum without variants has no values, so an empty alias stands in
	// for it.
	var def Definition
	if len(typ.Def.Variant.Variants) == 0 {
		def.Alias = "()"
	}
	for _, v := range typ.Def.Variant.Variants {
		fields, err := c.fields(v.Fields)
		if err != nil {
			return "", err
		}
		index := uint8(v.Index)
		def.Enum = append(def.Enum, VariantDef{Name: string(v.Name), Index: &index, Fields: fields})
	}
	c.types[name] = def

	return name, nil
}

func (c *converter) option(typ *types.Si1Type) (string, error) {
	for _, v := range typ.Def.Variant.Variants {
		if string(v.Name) != "Some" || len(v.Fields) != 1 {
			continue
		}
		elem, err := c.expr(v.Fields[0].Type.Int64())
		if err != nil {
			return "", err
		}
		return "Option<" + elem + ">", nil
	}
	return "", fmt.Errorf("option without value variant")
}

// compact returns the integer type of a compact type, looking through
// single-field wrappers such as Perbill.
func (c *converter) compact(id int64) (string, error) {

	typ, ok := c.lookup[id]
	if !ok {
		return "", fmt.Errorf("unknown type ID (%d)", id)
	}

	switch {
	case typ.Def.IsPrimitive:
		switch typ.Def.Primitive.Si0TypeDefPrimitive {
		case types.IsU8, types.IsU16, types.IsU32, types.IsU64, types.IsU128:
			return primitive(typ.Def.Primitive.Si0TypeDefPrimitive)
		}
	case typ.Def.IsComposite && len(typ.Def.Composite.Fields) == 1:
		return c.compact(typ.Def.Composite.Fields[0].Type.Int64())
	}

	return "", fmt.Errorf("compact of unsupported type (id: %d)", id)
}

func (c *converter) fields(fields []types.Si1Field) ([]string, error) {
	exprs := make([]string, 0, len(fields))
	for _, f := range fields {
		expr, err := c.expr(f.Type.Int64())
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func path(typ *types.Si1Type) string {
	segments := make([]string, 0, len(typ.Path))
	for _, segment := range typ.Path {
		segments = append(segments, string(segment))
	}
	return strings.Join(segments, "::")
}

// primitive maps primitive types onto registry types with the same encoding.
// Signed integers decode as their two's complement, characters as their code
// point and strings as their UTF-8 bytes.
func primitive(p types.Si0TypeDefPrimitive) (string, error) {
	switch p {
	case types.IsBool:
		return "bool", nil
	case types.IsChar:
		return "u32", nil
	case types.IsStr:
		return "Bytes", nil
	case types.IsU8, types.IsI8:
		return "u8", nil
	case types.IsU16, types.IsI16:
		return "u16", nil
	case types.IsU32, types.IsI32:
		return "u32", nil
	case types.IsU64, types.IsI64:
		return "u64", nil
	case types.IsU128, types.IsI128:
		return "u128", nil
	case types.IsU256, types.IsI256:
		return "[u8; 32]", nil
	default:
		return "", fmt.Errorf("unknown primitive type (%d)", p)
	}
}

func hasherName(hasher types.StorageHasherV10) (string, bool) {
	switch {
	case hasher.IsBlake2_128:
		return HasherBlake2_128, true
	case hasher.IsBlake2_256:
		return HasherBlake2_256, true
	case hasher.IsBlake2_128Concat:
		return HasherBlake2_128Concat, true
	case hasher.IsTwox128:
		return HasherTwox128, true
	case hasher.IsTwox256:
		return HasherTwox256, true
	case hasher.IsTwox64Concat:
		return HasherTwox64Concat, true
	case hasher.IsIdentity:
		return HasherIdentity, true
	default:
		return "", false
	}
}
