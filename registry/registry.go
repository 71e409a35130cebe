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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/go-playground/validator/v10"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/ss58"
)

// Errors returned when building a registry.
var (
	ErrSpecMismatch     = errors.New("metadata does not match descriptor spec")
	ErrUnknownType      = errors.New("unknown type")
	ErrUnknownExtension = errors.New("unknown signed extension")
)

// Registry knows how to encode and decode the types, calls, events and
// storage entries of one runtime version. It is immutable after it is built
// and safe for concurrent use.
type Registry struct {
	descriptor  substrate.Descriptor
	fingerprint uint64
	types       map[string]*definition
	pallets     map[uint8]*pallet
	names       map[string]*pallet
	extensions  []extension
	unsupported []string
}

type definition struct {
	alias    *typeNode
	fields   []field
	variants []*variant
	indices  map[uint8]*variant
}

type field struct {
	name string
	typ  *typeNode
}

type variant struct {
	name   string
	index  uint8
	fields []*typeNode
}

type pallet struct {
	name    string
	prefix  string
	index   uint8
	calls   map[uint8]*entry
	methods map[string]*entry
	events  map[uint8]*entry
	storage map[string]*storage
}

type entry struct {
	name  string
	index uint8
	args  []*typeNode
}

type storage struct {
	name   string
	hasher string
	key    *typeNode
	value  *typeNode
}

// Build creates a registry for the runtime described by the given metadata.
// The metadata has to be a JSON schema matching the descriptor's spec name and
// version; every type it references and every signed extension of the
// descriptor has to be known.
func Build(descriptor substrate.Descriptor, metadata []byte) (*Registry, error) {

	var schema Schema
	err := json.Unmarshal(metadata, &schema)
	if err != nil {
		return nil, fmt.Errorf("could not decode metadata: %w", err)
	}

	return build(descriptor, schema, xxhash.Checksum64(metadata))
}

func build(descriptor substrate.Descriptor, schema Schema, fingerprint uint64) (*Registry, error) {

	resetCanonical()

	err := validator.New().Struct(schema)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	if schema.SpecName != descriptor.SpecName || schema.SpecVersion != descriptor.SpecVersion {
		return nil, fmt.Errorf("%w (have: %s/%d, want: %s/%d)", ErrSpecMismatch,
			schema.SpecName, schema.SpecVersion, descriptor.SpecName, descriptor.SpecVersion)
	}

	r := Registry{
		descriptor:  descriptor,
		fingerprint: fingerprint,
		types:       make(map[string]*definition, len(schema.Types)),
		pallets:     make(map[uint8]*pallet, len(schema.Pallets)),
		names:       make(map[string]*pallet, len(schema.Pallets)),
	}

	for name, def := range schema.Types {
		if _, ok := builtins[name]; ok {
			return nil, fmt.Errorf("type definition shadows builtin type (%s)", name)
		}
		resolved, err := r.definition(def)
		if err != nil {
			return nil, fmt.Errorf("could not resolve type definition (%s): %w", name, err)
		}
		r.types[name] = resolved
	}

	for _, def := range schema.Pallets {
		p, err := r.pallet(def)
		if err != nil {
			return nil, fmt.Errorf("could not resolve pallet (%s): %w", def.Name, err)
		}
		_, dup := r.pallets[p.index]
		if dup {
			return nil, fmt.Errorf("duplicate pallet index (%d)", p.index)
		}
		r.pallets[p.index] = p
		r.names[p.name] = p
	}

	for _, name := range descriptor.SignedExtensions {
		ext, ok := extensions[name]
		if !ok {
			return nil, fmt.Errorf("%w (%s)", ErrUnknownExtension, name)
		}
		r.extensions = append(r.extensions, ext)
	}

	err = r.check()
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// Descriptor returns the descriptor of the network the registry was built for.
func (r *Registry) Descriptor() substrate.Descriptor {
	return r.descriptor
}

// Fingerprint returns the hash of the metadata the registry was built from.
func (r *Registry) Fingerprint() uint64 {
	return r.fingerprint
}

// Unsupported returns the calls, events and storage entries of the runtime
// metadata that the registry could not represent.
func (r *Registry) Unsupported() []string {
	return r.unsupported
}

// Address returns the SS58 address of the given account for the network.
func (r *Registry) Address(id substrate.AccountID) string {
	// Encoding a 32-byte ID fails only for out-of-range formats, which are
	// rejected when loading the descriptor.
	address, _ := ss58.Encode(id[:], r.descriptor.SS58Format)
	return address
}

// Account returns the account ID for the given SS58 address. It fails if the
// address is malformed or uses a different address format than the network.
func (r *Registry) Account(address string) (substrate.AccountID, error) {
	format, pub, err := ss58.Decode(address)
	if err != nil {
		return substrate.AccountID{}, fmt.Errorf("could not decode address: %w", err)
	}
	if format != r.descriptor.SS58Format {
		return substrate.AccountID{}, fmt.Errorf("address format mismatch (have: %d, want: %d)", format, r.descriptor.SS58Format)
	}
	id, ok := substrate.AccountFromBytes(pub)
	if !ok {
		return substrate.AccountID{}, fmt.Errorf("address does not encode an account ID (length: %d)", len(pub))
	}
	return id, nil
}

// Encode encodes a value of the given type expression.
func (r *Registry) Encode(expr string, value Value) ([]byte, error) {
	typ, err := r.resolve(expr)
	if err != nil {
		return nil, err
	}
	return r.encodeNode(typ, value)
}

// Decode decodes a value of the given type expression. All of the data has to
// be consumed.
func (r *Registry) Decode(expr string, data []byte) (Value, error) {
	typ, err := r.resolve(expr)
	if err != nil {
		return nil, err
	}
	return r.decodeNode(typ, data)
}

func (r *Registry) encodeNode(typ *typeNode, value Value) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := r.encode(scale.NewEncoder(buf), typ, value)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Registry) decodeNode(typ *typeNode, data []byte) (Value, error) {
	reader := bytes.NewReader(data)
	value, err := r.decode(scale.NewDecoder(reader), typ)
	if err != nil {
		return nil, err
	}
	if reader.Len() != 0 {
		return nil, fmt.Errorf("trailing bytes after value (count: %d)", reader.Len())
	}
	return value, nil
}

func (r *Registry) resolve(expr string) (*typeNode, error) {
	typ, err := canonicalType(r.fingerprint, expr)
	if err != nil {
		return nil, err
	}
	err = r.checkNode(typ, 0)
	if err != nil {
		return nil, err
	}
	return typ, nil
}

func (r *Registry) definition(def Definition) (*definition, error) {
	var d definition
	set := 0

	if def.Alias != "" {
		set++
		alias, err := canonicalType(r.fingerprint, def.Alias)
		if err != nil {
			return nil, err
		}
		d.alias = alias
	}

	if len(def.Struct) > 0 {
		set++
		for _, f := range def.Struct {
			typ, err := canonicalType(r.fingerprint, f.Type)
			if err != nil {
				return nil, err
			}
			d.fields = append(d.fields, field{name: f.Name, typ: typ})
		}
	}

	if len(def.Enum) > 0 {
		set++
		d.indices = make(map[uint8]*variant, len(def.Enum))
		for i, v := range def.Enum {
			index := uint8(i)
			if v.Index != nil {
				index = *v.Index
			}
			_, dup := d.indices[index]
			if dup {
				return nil, fmt.Errorf("duplicate variant index (%d)", index)
			}
			resolved := variant{name: v.Name, index: index}
			for _, expr := range v.Fields {
				typ, err := canonicalType(r.fingerprint, expr)
				if err != nil {
					return nil, err
				}
				resolved.fields = append(resolved.fields, typ)
			}
			d.variants = append(d.variants, &resolved)
			d.indices[index] = &resolved
		}
	}

	if set != 1 {
		return nil, fmt.Errorf("definition needs exactly one of alias, struct or enum")
	}

	return &d, nil
}

func (r *Registry) pallet(def Pallet) (*pallet, error) {
	p := pallet{
		name:    def.Name,
		prefix:  def.Prefix,
		index:   def.Index,
		calls:   make(map[uint8]*entry, len(def.Calls)),
		methods: make(map[string]*entry, len(def.Calls)),
		events:  make(map[uint8]*entry, len(def.Events)),
		storage: make(map[string]*storage, len(def.Storage)),
	}
	if p.prefix == "" {
		p.prefix = p.name
	}

	for i, call := range def.Calls {
		e, err := r.entry(i, call)
		if err != nil {
			return nil, fmt.Errorf("could not resolve call (%s): %w", call.Name, err)
		}
		_, dup := p.calls[e.index]
		if dup {
			return nil, fmt.Errorf("duplicate call index (%d)", e.index)
		}
		p.calls[e.index] = e
		p.methods[e.name] = e
	}

	for i, event := range def.Events {
		e, err := r.entry(i, event)
		if err != nil {
			return nil, fmt.Errorf("could not resolve event (%s): %w", event.Name, err)
		}
		_, dup := p.events[e.index]
		if dup {
			return nil, fmt.Errorf("duplicate event index (%d)", e.index)
		}
		p.events[e.index] = e
	}

	for _, def := range def.Storage {
		s := storage{name: def.Name, hasher: def.Hasher}
		if def.Key != "" {
			_, ok := hashers[def.Hasher]
			if !ok {
				return nil, fmt.Errorf("unknown storage hasher (%s)", def.Hasher)
			}
			key, err := canonicalType(r.fingerprint, def.Key)
			if err != nil {
				return nil, err
			}
			s.key = key
		}
		if def.Type != "" {
			value, err := canonicalType(r.fingerprint, def.Type)
			if err != nil {
				return nil, err
			}
			s.value = value
		}
		p.storage[s.name] = &s
	}

	return &p, nil
}

func (r *Registry) entry(position int, def EntryDef) (*entry, error) {
	e := entry{name: def.Name, index: uint8(position)}
	if def.Index != nil {
		e.index = *def.Index
	}
	for _, expr := range def.Args {
		typ, err := canonicalType(r.fingerprint, expr)
		if err != nil {
			return nil, err
		}
		e.args = append(e.args, typ)
	}
	return &e, nil
}

// check verifies that all named types are defined and that no alias chain is
// circular.
func (r *Registry) check() error {
	for name, def := range r.types {
		err := r.checkDefinition(def, 0)
		if err != nil {
			return fmt.Errorf("invalid type definition (%s): %w", name, err)
		}
	}
	for _, p := range r.pallets {
		for _, e := range p.calls {
			err := r.checkNodes(e.args)
			if err != nil {
				return fmt.Errorf("invalid call (%s.%s): %w", p.name, e.name, err)
			}
		}
		for _, e := range p.events {
			err := r.checkNodes(e.args)
			if err != nil {
				return fmt.Errorf("invalid event (%s.%s): %w", p.name, e.name, err)
			}
		}
		for _, s := range p.storage {
			var nodes []*typeNode
			if s.value != nil {
				nodes = append(nodes, s.value)
			}
			if s.key != nil {
				nodes = append(nodes, s.key)
			}
			err := r.checkNodes(nodes)
			if err != nil {
				return fmt.Errorf("invalid storage entry (%s.%s): %w", p.name, s.name, err)
			}
		}
	}
	return nil
}

func (r *Registry) checkDefinition(def *definition, depth int) error {
	if def.alias != nil {
		return r.checkNode(def.alias, depth+1)
	}
	for _, f := range def.fields {
		err := r.checkNode(f.typ, 0)
		if err != nil {
			return err
		}
	}
	for _, v := range def.variants {
		err := r.checkNodes(v.fields)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) checkNodes(nodes []*typeNode) error {
	for _, node := range nodes {
		err := r.checkNode(node, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

// checkNode verifies a type node. The depth counts consecutive aliases, which
// cannot exceed the number of definitions without a cycle.
func (r *Registry) checkNode(typ *typeNode, depth int) error {
	if depth > len(r.types) {
		return fmt.Errorf("circular type alias")
	}
	switch typ.kind {
	case kindNamed:
		def, ok := r.types[typ.name]
		if !ok {
			return fmt.Errorf("%w (%s)", ErrUnknownType, typ.name)
		}
		if def.alias != nil {
			return r.checkNode(def.alias, depth+1)
		}
		return nil
	case kindCompact:
		elem, err := r.underlying(typ.elem)
		if err != nil {
			return err
		}
		if elem.kind != kindUint {
			return fmt.Errorf("compact of non-integer type (%s)", typ.elem.name)
		}
		return nil
	case kindVec, kindOption, kindArray:
		return r.checkNode(typ.elem, 0)
	case kindTuple:
		return r.checkNodes(typ.items)
	default:
		return nil
	}
}

// underlying follows aliases until it reaches a type that is not an alias.
func (r *Registry) underlying(typ *typeNode) (*typeNode, error) {
	for depth := 0; typ.kind == kindNamed; depth++ {
		def, ok := r.types[typ.name]
		if !ok {
			return nil, fmt.Errorf("%w (%s)", ErrUnknownType, typ.name)
		}
		if def.alias == nil || depth > len(r.types) {
			return typ, nil
		}
		typ = def.alias
	}
	return typ, nil
}

func (r *Registry) lookupPallet(name string) (*pallet, error) {
	p, ok := r.names[name]
	if !ok {
		return nil, fmt.Errorf("unknown pallet (%s)", name)
	}
	return p, nil
}

func splitMethod(method string) (string, string, error) {
	parts := strings.Split(method, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid method name (%s)", method)
	}
	return parts[0], parts[1], nil
}
