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

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// Maximum number of elements accepted for a decoded sequence, so that corrupt
// length prefixes do not cause huge allocations.
const maxSequence = 1 << 26

func (r *Registry) encode(enc *scale.Encoder, typ *typeNode, value Value) error {
	switch typ.kind {

	case kindNull:
		return nil

	case kindBool:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("unexpected value type for bool (%T)", value)
		}
		if b {
			return enc.PushByte(1)
		}
		return enc.PushByte(0)

	case kindUint:
		number, err := BigInt(value)
		if err != nil {
			return err
		}
		return encodeUint(enc, number, typ.size)

	case kindCompact:
		number, err := BigInt(value)
		if err != nil {
			return err
		}
		elem, err := r.underlying(typ.elem)
		if err != nil {
			return err
		}
		if number.BitLen() > elem.size*8 {
			return fmt.Errorf("compact value overflows u%d (%s)", elem.size*8, number)
		}
		return enc.EncodeUintCompact(*number)

	case kindBytes:
		data, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("unexpected value type for bytes (%T)", value)
		}
		err := encodeLength(enc, len(data))
		if err != nil {
			return err
		}
		return enc.Write(data)

	case kindVec:
		items, ok := value.([]Value)
		if !ok {
			return fmt.Errorf("unexpected value type for vector (%T)", value)
		}
		err := encodeLength(enc, len(items))
		if err != nil {
			return err
		}
		for _, item := range items {
			err = r.encode(enc, typ.elem, item)
			if err != nil {
				return err
			}
		}
		return nil

	case kindOption:
		if value == nil {
			return enc.PushByte(0)
		}
		err := enc.PushByte(1)
		if err != nil {
			return err
		}
		return r.encode(enc, typ.elem, value)

	case kindArray:
		if typ.elem.isByte() {
			data, ok := value.([]byte)
			if !ok || len(data) != typ.size {
				return fmt.Errorf("invalid value for byte array of length %d (%T)", typ.size, value)
			}
			return enc.Write(data)
		}
		items, ok := value.([]Value)
		if !ok || len(items) != typ.size {
			return fmt.Errorf("invalid value for array of length %d (%T)", typ.size, value)
		}
		for _, item := range items {
			err := r.encode(enc, typ.elem, item)
			if err != nil {
				return err
			}
		}
		return nil

	case kindTuple:
		items, ok := value.([]Value)
		if !ok || len(items) != len(typ.items) {
			return fmt.Errorf("invalid value for tuple of length %d (%T)", len(typ.items), value)
		}
		for i, item := range items {
			err := r.encode(enc, typ.items[i], item)
			if err != nil {
				return err
			}
		}
		return nil

	case kindAccount:
		id, err := AccountOf(value)
		if err != nil {
			return err
		}
		return enc.Write(id[:])

	case kindHash:
		hash, ok := value.(substrate.Hash)
		if !ok {
			return fmt.Errorf("unexpected value type for hash (%T)", value)
		}
		return enc.Write(hash[:])

	case kindEra:
		era, ok := value.(substrate.Era)
		if !ok {
			return fmt.Errorf("unexpected value type for era (%T)", value)
		}
		return enc.Write(era.Bytes())

	case kindCall:
		call, ok := value.(*Call)
		if !ok {
			return fmt.Errorf("unexpected value type for call (%T)", value)
		}
		return r.encodeCall(enc, call)

	case kindAddress:
		if v, ok := value.(Variant); ok && v.Index != 0 {
			return fmt.Errorf("unsupported address variant (%s)", v.Name)
		}
		id, err := AccountOf(value)
		if err != nil {
			return err
		}
		err = enc.PushByte(0)
		if err != nil {
			return err
		}
		return enc.Write(id[:])

	case kindNamed:
		return r.encodeNamed(enc, typ.name, value)

	default:
		return fmt.Errorf("unsupported type kind (%d)", typ.kind)
	}
}

func (r *Registry) encodeNamed(enc *scale.Encoder, name string, value Value) error {
	def, ok := r.types[name]
	if !ok {
		return fmt.Errorf("%w (%s)", ErrUnknownType, name)
	}

	if def.alias != nil {
		return r.encode(enc, def.alias, value)
	}

	if def.fields != nil {
		s, ok := value.(Struct)
		if !ok || len(s.Values) != len(def.fields) {
			return fmt.Errorf("invalid value for struct %s (%T)", name, value)
		}
		for i, f := range def.fields {
			err := r.encode(enc, f.typ, s.Values[i])
			if err != nil {
				return fmt.Errorf("could not encode field %s.%s: %w", name, f.name, err)
			}
		}
		return nil
	}

	v, ok := value.(Variant)
	if !ok {
		return fmt.Errorf("invalid value for enum %s (%T)", name, value)
	}
	var selected *variant
	for _, candidate := range def.variants {
		if candidate.name == v.Name {
			selected = candidate
			break
		}
	}
	if selected == nil {
		return fmt.Errorf("unknown variant %s.%s", name, v.Name)
	}
	if len(v.Values) != len(selected.fields) {
		return fmt.Errorf("invalid number of values for variant %s.%s (have: %d, want: %d)", name, v.Name, len(v.Values), len(selected.fields))
	}
	err := enc.PushByte(selected.index)
	if err != nil {
		return err
	}
	for i, typ := range selected.fields {
		err = r.encode(enc, typ, v.Values[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) encodeCall(enc *scale.Encoder, call *Call) error {
	p, err := r.lookupPallet(call.Pallet)
	if err != nil {
		return err
	}
	e, ok := p.methods[call.Name]
	if !ok {
		return fmt.Errorf("unknown call (%s)", call.Method())
	}
	if len(call.Args) != len(e.args) {
		return fmt.Errorf("invalid number of arguments for %s (have: %d, want: %d)", call.Method(), len(call.Args), len(e.args))
	}
	err = enc.Write([]byte{p.index, e.index})
	if err != nil {
		return err
	}
	for i, typ := range e.args {
		err = r.encode(enc, typ, call.Args[i])
		if err != nil {
			return fmt.Errorf("could not encode argument %d of %s: %w", i, call.Method(), err)
		}
	}
	return nil
}

func (r *Registry) decode(dec *scale.Decoder, typ *typeNode) (Value, error) {
	switch typ.kind {

	case kindNull:
		return nil, nil

	case kindBool:
		b, err := dec.ReadOneByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, fmt.Errorf("invalid bool byte (%d)", b)
		}

	case kindUint:
		return decodeUint(dec, typ.size)

	case kindCompact:
		number, err := dec.DecodeUintCompact()
		if err != nil {
			return nil, err
		}
		return number, nil

	case kindBytes:
		length, err := decodeLength(dec)
		if err != nil {
			return nil, err
		}
		data := make([]byte, length)
		if length == 0 {
			return data, nil
		}
		err = dec.Read(data)
		if err != nil {
			return nil, err
		}
		return data, nil

	case kindVec:
		length, err := decodeLength(dec)
		if err != nil {
			return nil, err
		}
		items := make([]Value, 0, capacity(length))
		for i := 0; i < length; i++ {
			item, err := r.decode(dec, typ.elem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case kindOption:
		flag, err := dec.ReadOneByte()
		if err != nil {
			return nil, err
		}
		switch flag {
		case 0:
			return nil, nil
		case 1:
			return r.decode(dec, typ.elem)
		default:
			return nil, fmt.Errorf("invalid option byte (%d)", flag)
		}

	case kindArray:
		if typ.elem.isByte() {
			data := make([]byte, typ.size)
			if typ.size == 0 {
				return data, nil
			}
			err := dec.Read(data)
			if err != nil {
				return nil, err
			}
			return data, nil
		}
		items := make([]Value, 0, typ.size)
		for i := 0; i < typ.size; i++ {
			item, err := r.decode(dec, typ.elem)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case kindTuple:
		items := make([]Value, 0, len(typ.items))
		for _, itemType := range typ.items {
			item, err := r.decode(dec, itemType)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case kindAccount:
		var id substrate.AccountID
		err := dec.Read(id[:])
		if err != nil {
			return nil, err
		}
		return id, nil

	case kindHash:
		var hash substrate.Hash
		err := dec.Read(hash[:])
		if err != nil {
			return nil, err
		}
		return hash, nil

	case kindEra:
		first, err := dec.ReadOneByte()
		if err != nil {
			return nil, err
		}
		if first == 0 {
			return substrate.ImmortalEra, nil
		}
		second, err := dec.ReadOneByte()
		if err != nil {
			return nil, err
		}
		return substrate.ParseEra([]byte{first, second})

	case kindCall:
		return r.decodeCall(dec)

	case kindAddress:
		return decodeAddress(dec)

	case kindNamed:
		return r.decodeNamed(dec, typ.name)

	default:
		return nil, fmt.Errorf("unsupported type kind (%d)", typ.kind)
	}
}

func (r *Registry) decodeNamed(dec *scale.Decoder, name string) (Value, error) {
	def, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrUnknownType, name)
	}

	if def.alias != nil {
		return r.decode(dec, def.alias)
	}

	if def.fields != nil {
		s := Struct{
			Names:  make([]string, 0, len(def.fields)),
			Values: make([]Value, 0, len(def.fields)),
		}
		for _, f := range def.fields {
			value, err := r.decode(dec, f.typ)
			if err != nil {
				return nil, fmt.Errorf("could not decode field %s.%s: %w", name, f.name, err)
			}
			s.Names = append(s.Names, f.name)
			s.Values = append(s.Values, value)
		}
		return s, nil
	}

	index, err := dec.ReadOneByte()
	if err != nil {
		return nil, err
	}
	selected, ok := def.indices[index]
	if !ok {
		return nil, fmt.Errorf("unknown variant index for %s (%d)", name, index)
	}
	v := Variant{Name: selected.name, Index: selected.index}
	for _, typ := range selected.fields {
		value, err := r.decode(dec, typ)
		if err != nil {
			return nil, fmt.Errorf("could not decode variant %s.%s: %w", name, selected.name, err)
		}
		v.Values = append(v.Values, value)
	}
	return v, nil
}

func (r *Registry) decodeCall(dec *scale.Decoder) (*Call, error) {
	var indices [2]byte
	err := dec.Read(indices[:])
	if err != nil {
		return nil, err
	}
	p, ok := r.pallets[indices[0]]
	if !ok {
		return nil, fmt.Errorf("unknown pallet index (%d)", indices[0])
	}
	e, ok := p.calls[indices[1]]
	if !ok {
		return nil, fmt.Errorf("unknown call index for pallet %s (%d)", p.name, indices[1])
	}
	call := Call{Pallet: p.name, Name: e.name, Args: make([]Value, 0, len(e.args))}
	for i, typ := range e.args {
		arg, err := r.decode(dec, typ)
		if err != nil {
			return nil, fmt.Errorf("could not decode argument %d of %s: %w", i, call.Method(), err)
		}
		call.Args = append(call.Args, arg)
	}
	return &call, nil
}

var addressVariants = []string{"Id", "Index", "Raw", "Address32", "Address20"}

func decodeAddress(dec *scale.Decoder) (Value, error) {
	index, err := dec.ReadOneByte()
	if err != nil {
		return nil, err
	}
	if int(index) >= len(addressVariants) {
		return nil, fmt.Errorf("unknown address variant (%d)", index)
	}
	v := Variant{Name: addressVariants[index], Index: index}
	var value Value
	switch index {
	case 0:
		var id substrate.AccountID
		err = dec.Read(id[:])
		value = id
	case 1:
		value, err = dec.DecodeUintCompact()
	case 2:
		var length int
		length, err = decodeLength(dec)
		if err == nil {
			data := make([]byte, length)
			if length > 0 {
				err = dec.Read(data)
			}
			value = data
		}
	case 3:
		data := make([]byte, 32)
		err = dec.Read(data)
		value = data
	case 4:
		data := make([]byte, 20)
		err = dec.Read(data)
		value = data
	}
	if err != nil {
		return nil, err
	}
	v.Values = []Value{value}
	return v, nil
}

func encodeUint(enc *scale.Encoder, number *big.Int, size int) error {
	if number.Sign() < 0 || number.BitLen() > size*8 {
		return fmt.Errorf("integer overflows u%d (%s)", size*8, number)
	}
	data := make([]byte, size)
	be := number.Bytes()
	for i, b := range be {
		data[len(be)-1-i] = b
	}
	return enc.Write(data)
}

func decodeUint(dec *scale.Decoder, size int) (Value, error) {
	data := make([]byte, size)
	err := dec.Read(data)
	if err != nil {
		return nil, err
	}
	if size <= 8 {
		var number uint64
		for i := size - 1; i >= 0; i-- {
			number = number<<8 | uint64(data[i])
		}
		return number, nil
	}
	be := make([]byte, size)
	for i, b := range data {
		be[size-1-i] = b
	}
	return new(big.Int).SetBytes(be), nil
}

func encodeLength(enc *scale.Encoder, length int) error {
	return enc.EncodeUintCompact(*big.NewInt(int64(length)))
}

func capacity(length int) int {
	if length > 1024 {
		return 1024
	}
	return length
}

func decodeLength(dec *scale.Decoder) (int, error) {
	length, err := dec.DecodeUintCompact()
	if err != nil {
		return 0, err
	}
	if !length.IsUint64() || length.Uint64() > maxSequence {
		return 0, fmt.Errorf("sequence length out of range (%s)", length)
	}
	return int(length.Uint64()), nil
}
