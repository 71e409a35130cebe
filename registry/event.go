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
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// Phase is the part of block execution an event was emitted in.
type Phase uint8

const (
	PhaseApplyExtrinsic Phase = iota
	PhaseFinalization
	PhaseInitialization
)

// Event is a decoded event record. The raw bytes are the full encoding of the
// record, including its phase and topics.
type Event struct {
	Phase     Phase
	Extrinsic uint32
	Pallet    string
	Name      string
	Args      []Value
	Topics    []substrate.Hash
	Raw       []byte
}

// Key returns the normalized event key, such as "balances.transfer".
func (e *Event) Key() string {
	return Key(e.Pallet, e.Name)
}

// Hash returns the blake2b-256 hash of the encoded event record.
func (e *Event) Hash() substrate.Hash {
	return substrate.HashOf(e.Raw)
}

// DecodeEvents decodes the vector of event records stored in System.Events.
func (r *Registry) DecodeEvents(data []byte) ([]*Event, error) {

	reader := bytes.NewReader(data)
	dec := scale.NewDecoder(reader)

	count, err := decodeLength(dec)
	if err != nil {
		return nil, fmt.Errorf("could not decode event count: %w", err)
	}

	events := make([]*Event, 0, capacity(count))
	for i := 0; i < count; i++ {
		start := len(data) - reader.Len()
		event, err := r.decodeEvent(dec)
		if err != nil {
			return nil, fmt.Errorf("could not decode event record %d: %w", i, err)
		}
		end := len(data) - reader.Len()
		event.Raw = data[start:end]
		events = append(events, event)
	}

	if reader.Len() != 0 {
		return nil, fmt.Errorf("trailing bytes after events (count: %d)", reader.Len())
	}

	return events, nil
}

func (r *Registry) decodeEvent(dec *scale.Decoder) (*Event, error) {

	var event Event
	phase, err := dec.ReadOneByte()
	if err != nil {
		return nil, err
	}
	switch Phase(phase) {
	case PhaseApplyExtrinsic:
		index, err := decodeUint(dec, 4)
		if err != nil {
			return nil, err
		}
		event.Extrinsic = uint32(index.(uint64))
	case PhaseFinalization, PhaseInitialization:
	default:
		return nil, fmt.Errorf("unknown event phase (%d)", phase)
	}
	event.Phase = Phase(phase)

	var indices [2]byte
	err = dec.Read(indices[:])
	if err != nil {
		return nil, err
	}
	p, ok := r.pallets[indices[0]]
	if !ok {
		return nil, fmt.Errorf("unknown pallet index (%d)", indices[0])
	}
	e, ok := p.events[indices[1]]
	if !ok {
		return nil, fmt.Errorf("unknown event index for pallet %s (%d)", p.name, indices[1])
	}
	event.Pallet = p.name
	event.Name = e.name

	for i, typ := range e.args {
		arg, err := r.decode(dec, typ)
		if err != nil {
			return nil, fmt.Errorf("could not decode argument %d of %s.%s: %w", i, p.name, e.name, err)
		}
		event.Args = append(event.Args, arg)
	}

	count, err := decodeLength(dec)
	if err != nil {
		return nil, fmt.Errorf("could not decode topic count: %w", err)
	}
	for i := 0; i < count; i++ {
		var topic substrate.Hash
		err = dec.Read(topic[:])
		if err != nil {
			return nil, err
		}
		event.Topics = append(event.Topics, topic)
	}

	return &event, nil
}
