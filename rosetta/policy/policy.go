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

package policy

import (
	"fmt"
	"math/big"
	"strconv"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
)

// Resolution is the balance change described by an event or a call. When
// there is a debit account, it loses the amount that the credit account gains.
type Resolution struct {
	Kind   Kind
	Debit  string
	Credit string
	Amount *big.Int
}

// Context is the block an event or call is resolved in, and the signer of the
// extrinsic, if any.
type Context struct {
	Height uint64
	Hash   substrate.Hash
	Signer string
}

type resolver func(p *Policy, ctx Context, args []registry.Value) (*Resolution, error)

var resolvers = map[Kind]resolver{
	Transfer:   resolveTransfer,
	FeesGiven:  resolveFeesGiven,
	Reserved:   resolveCredit,
	Unreserved: resolveCredit,
	Endowed:    resolveCredit,
	EpochEnds:  resolveEpochEnds,
	BalanceSet: resolveBalanceSet,
}

var methods = map[Method]resolver{
	MethodTransfer:           resolveMethodTransfer,
	MethodTransferKeepAlive:  resolveMethodTransfer,
	MethodTransferAllowDeath: resolveMethodTransfer,
}

// Policy resolves events and calls into balance changes.
type Policy struct {
	addresses Addresses
	state     State
	treasury  string
	emissions *lru.Cache
	group     singleflight.Group
}

// New creates a policy that credits emissions to the given treasury address.
func New(addresses Addresses, state State, treasury string, options ...Option) (*Policy, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	emissions, err := lru.New(cfg.EmissionCacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create emission cache: %w", err)
	}

	p := Policy{
		addresses: addresses,
		state:     state,
		treasury:  treasury,
		emissions: emissions,
	}

	return &p, nil
}

// Resolve returns the balance change described by the event with the given
// normalized key. Events without a policy result in a failure.UnknownEvent
// error.
func (p *Policy) Resolve(ctx Context, key string, args []registry.Value) (*Resolution, error) {
	kind := KindOf(key)
	resolve, ok := resolvers[kind]
	if !ok {
		return nil, failure.UnknownEvent{
			Description: failure.NewDescription("no balance policy for event",
				failure.WithUint64("height", ctx.Height),
			),
			Event: key,
		}
	}
	res, err := resolve(p, ctx, args)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s event: %w", kind, err)
	}
	res.Kind = kind
	return res, nil
}

// ResolveMethod returns the balance change described by the arguments of the
// call with the given normalized key, with the signer as debit account. Calls
// without a policy result in a failure.UnsupportedExtrinsic error.
func (p *Policy) ResolveMethod(ctx Context, key string, args []registry.Value) (*Resolution, error) {
	resolve, ok := methods[MethodOf(key)]
	if !ok {
		return nil, failure.UnsupportedExtrinsic{
			Description: failure.NewDescription("no balance policy for method",
				failure.WithUint64("height", ctx.Height),
			),
			Method: key,
		}
	}
	res, err := resolve(p, ctx, args)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s arguments: %w", key, err)
	}
	res.Kind = Transfer
	return res, nil
}

func (p *Policy) emission(ctx Context, epoch uint64) (*big.Int, error) {

	cached, ok := p.emissions.Get(epoch)
	if ok {
		return new(big.Int).Set(cached.(*big.Int)), nil
	}

	value, err, _ := p.group.Do(strconv.FormatUint(epoch, 10), func() (interface{}, error) {
		amount, err := p.state.Emission(ctx.Hash, epoch)
		if err != nil {
			return nil, err
		}
		p.emissions.Add(epoch, amount)
		return amount, nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not get emission for epoch %d: %w", epoch, err)
	}

	return new(big.Int).Set(value.(*big.Int)), nil
}

func (p *Policy) address(value registry.Value) (string, error) {
	id, err := registry.AccountOf(value)
	if err != nil {
		return "", err
	}
	return p.addresses.Address(id), nil
}

func checkArgs(args []registry.Value, count int) error {
	if len(args) < count {
		return fmt.Errorf("missing arguments (have: %d, want: %d)", len(args), count)
	}
	return nil
}
