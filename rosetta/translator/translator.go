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

package translator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/rosetta/policy"
)

// Translator translates the blocks of a Substrate chain into Rosetta blocks.
type Translator struct {
	log      zerolog.Logger
	reg      *registry.Registry
	chain    Chain
	policy   *policy.Policy
	record   Recorder
	currency identifier.Currency
	genesis  identifier.Block
}

// New creates a translator for the chain described by the given registry.
func New(log zerolog.Logger, reg *registry.Registry, chain Chain, options ...Option) (*Translator, error) {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	desc := reg.Descriptor()
	genesis := uint64(0)
	t := Translator{
		log:    log.With().Str("component", "translator").Str("network", desc.Network).Logger(),
		reg:    reg,
		chain:  chain,
		record: cfg.Recorder,
		currency: identifier.Currency{
			Symbol:   desc.TokenSymbol,
			Decimals: desc.TokenDecimals,
		},
		genesis: identifier.Block{
			Index: &genesis,
			Hash:  desc.Genesis.Hex(),
		},
	}

	p, err := policy.New(reg, &t, desc.Treasury, policy.WithEmissionCacheSize(cfg.EmissionCacheSize))
	if err != nil {
		return nil, fmt.Errorf("could not create operation policy: %w", err)
	}
	t.policy = p

	return &t, nil
}

// Currency returns the native currency of the chain.
func (t *Translator) Currency() identifier.Currency {
	return t.currency
}

// Genesis returns the identifier of the genesis block.
func (t *Translator) Genesis() identifier.Block {
	return t.genesis
}

// Current returns the identifier and the timestamp of the last finalized block.
func (t *Translator) Current() (identifier.Block, int64, error) {

	completed, header, err := t.complete(identifier.Block{})
	if err != nil {
		return identifier.Block{}, 0, err
	}

	timestamp, err := t.timestamp(header.Hash)
	if err != nil {
		return identifier.Block{}, 0, fmt.Errorf("could not get timestamp: %w", err)
	}

	return completed, timestamp, nil
}

// Block translates the block with the given identifier. An empty identifier
// refers to the last finalized block.
func (t *Translator) Block(id identifier.Block) (*object.Block, error) {

	completed, header, err := t.complete(id)
	if err != nil {
		return nil, err
	}

	timestamp, err := t.timestamp(header.Hash)
	if err != nil {
		return nil, fmt.Errorf("could not get timestamp: %w", err)
	}

	block := object.Block{
		ID:           completed,
		Timestamp:    timestamp,
		Transactions: []*object.Transaction{},
	}

	// The genesis block has no parent and executes no extrinsics.
	if header.Number == 0 {
		block.ParentID = completed
		return &block, nil
	}

	parent := header.Number - 1
	block.ParentID = identifier.Block{
		Index: &parent,
		Hash:  header.ParentHash.Hex(),
	}

	body, err := t.chain.Block(header.Hash)
	if err != nil {
		return nil, fmt.Errorf("could not get block body: %w", err)
	}

	events, err := t.events(header.Hash)
	if err != nil {
		return nil, fmt.Errorf("could not get events: %w", err)
	}

	transactions := t.transactions(header, body.Extrinsics, events)
	block.Transactions = transactions

	t.record.Translated(len(transactions))

	return &block, nil
}

// Transaction translates the transaction with the given identifier within the
// given block.
func (t *Translator) Transaction(blockID identifier.Block, txID identifier.Transaction) (*object.Transaction, error) {

	block, err := t.Block(blockID)
	if err != nil {
		return nil, err
	}

	hash := strings.TrimPrefix(strings.ToLower(txID.Hash), "0x")
	for _, transaction := range block.Transactions {
		if transaction.ID.Hash == hash {
			return transaction, nil
		}
	}

	return nil, failure.UnknownTransaction{
		Description: failure.NewDescription("transaction not found in block",
			failure.WithString("block", block.ID.Hash),
		),
		Hash: txID.Hash,
	}
}

// complete resolves the block hash from the index or the index from the hash,
// and checks that both match if both are given.
func (t *Translator) complete(id identifier.Block) (identifier.Block, *substrate.Header, error) {

	var hash substrate.Hash
	switch {

	case id.Index == nil && id.Hash == "":
		finalized, err := t.chain.Finalized()
		if err != nil {
			return identifier.Block{}, nil, fmt.Errorf("could not get finalized head: %w", err)
		}
		hash = finalized

	case id.Hash != "":
		parsed, err := substrate.ParseHash(id.Hash)
		if err != nil {
			return identifier.Block{}, nil, failure.InvalidBlock{
				Description: failure.NewDescription("block hash is not a valid hash",
					failure.WithString("hash", id.Hash),
					failure.WithErr(err),
				),
			}
		}
		hash = parsed

	default:
		found, err := t.chain.BlockHash(*id.Index)
		if errors.Is(err, substrate.ErrNotFound) {
			return identifier.Block{}, nil, failure.UnknownBlock{
				Description: failure.NewDescription("no block at height"),
				Index:       *id.Index,
			}
		}
		if err != nil {
			return identifier.Block{}, nil, fmt.Errorf("could not get block hash: %w", err)
		}
		hash = found
	}

	header, err := t.chain.Header(hash)
	if errors.Is(err, substrate.ErrNotFound) {
		return identifier.Block{}, nil, failure.UnknownBlock{
			Description: failure.NewDescription("no block with hash"),
			Hash:        hash.Hex(),
		}
	}
	if err != nil {
		return identifier.Block{}, nil, fmt.Errorf("could not get block header: %w", err)
	}

	if id.Index != nil && *id.Index != header.Number {
		return identifier.Block{}, nil, failure.InvalidBlock{
			Description: failure.NewDescription("block hash does not match block index",
				failure.WithUint64("index", *id.Index),
				failure.WithString("hash", id.Hash),
				failure.WithUint64("height", header.Number),
			),
		}
	}

	number := header.Number
	completed := identifier.Block{
		Index: &number,
		Hash:  hash.Hex(),
	}

	return completed, header, nil
}

func (t *Translator) events(hash substrate.Hash) ([]*registry.Event, error) {

	key, err := t.reg.StorageKey("System", "Events")
	if err != nil {
		return nil, fmt.Errorf("could not derive events key: %w", err)
	}
	data, err := t.chain.Storage(key, hash)
	if err != nil {
		return nil, fmt.Errorf("could not read events: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	events, err := t.reg.DecodeEvents(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode events: %w", err)
	}

	return events, nil
}

func (t *Translator) transactions(header *substrate.Header, extrinsics [][]byte, events []*registry.Event) []*object.Transaction {

	// Events emitted while applying an extrinsic belong to its transaction,
	// while all others become transactions of their own.
	applied := make(map[uint32][]*registry.Event)
	var system []*registry.Event
	for _, event := range events {
		if event.Phase == registry.PhaseApplyExtrinsic {
			applied[event.Extrinsic] = append(applied[event.Extrinsic], event)
			continue
		}
		system = append(system, event)
	}

	// An extrinsic that can not be decoded is skipped, so that a single
	// unknown call does not make the whole block unavailable.
	results := make([]result, len(extrinsics))
	var group errgroup.Group
	for index, data := range extrinsics {
		index, data := index, data
		group.Go(func() error {
			ext, err := t.reg.DecodeExtrinsic(data)
			if err != nil {
				t.record.Undecodable()
				results[index] = result{diagnostics: []error{fmt.Errorf("could not decode extrinsic %d: %w", index, err)}}
				return nil
			}
			results[index] = t.extrinsic(header, ext, applied[uint32(index)])
			return nil
		})
	}
	_ = group.Wait()

	var diagnostics *multierror.Error
	var fees []object.Operation
	transactions := make([]*object.Transaction, 0, len(extrinsics)+len(system))
	for _, result := range results {
		diagnostics = multierror.Append(diagnostics, result.diagnostics...)
		if result.fee != nil {
			fees = append(fees, *result.fee)
		}
		if result.transaction != nil {
			transactions = append(transactions, result.transaction)
		}
	}

	ctx := policy.Context{
		Height: header.Number,
		Hash:   header.Hash,
	}
	var first *object.Transaction
	for _, event := range system {
		res, err := t.policy.Resolve(ctx, event.Key(), event.Args)
		if err != nil {
			diagnostics = t.diagnose(diagnostics, event, err)
			continue
		}
		transaction := object.Transaction{
			ID:         identifier.Transaction{Hash: event.Hash().String()},
			Operations: t.operations(nil, res, configuration.StatusSuccess),
		}
		if first == nil {
			first = &transaction
		}
		transactions = append(transactions, &transaction)
	}

	// Fees are accounted for in the first system transaction of the block. When
	// there is none, they are not part of the translation.
	switch {
	case first != nil:
		for _, fee := range fees {
			fee.ID.Index = uint(len(first.Operations))
			first.Operations = append(first.Operations, fee)
		}
	case len(fees) > 0:
		t.log.Debug().
			Uint64("height", header.Number).
			Int("fees", len(fees)).
			Msg("skipping fees of block without system transaction")
	}

	err := diagnostics.ErrorOrNil()
	if err != nil {
		t.log.Warn().
			Uint64("height", header.Number).
			Err(err).
			Msg("could not resolve all events")
	}

	return transactions
}

// diagnose records an event that could not be resolved. Events without a
// policy are expected and only logged in debug mode, while other errors are
// added to the diagnostics.
func (t *Translator) diagnose(diagnostics *multierror.Error, event *registry.Event, err error) *multierror.Error {

	t.record.Unresolved(event.Key())

	var unknown failure.UnknownEvent
	if errors.As(err, &unknown) {
		t.log.Debug().Str("event", event.Key()).Msg("skipping event without balance policy")
		return diagnostics
	}

	return multierror.Append(diagnostics, fmt.Errorf("could not resolve event (%s): %w", event.Key(), err))
}
