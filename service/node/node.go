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

package node

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/client"
	"github.com/centrifuge/go-substrate-rpc-client/v4/rpc/chain"
	"github.com/centrifuge/go-substrate-rpc-client/v4/rpc/state"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

// Node gives access to the chain data of a Substrate node over JSON-RPC.
// Headers and blocks are immutable for a given hash, so they are cached.
// Headers, storage, metadata and runtime versions go through the typed chain
// and state clients; the other methods need raw calls, either because their
// results are nullable or because the typed extrinsic codec does not fit the
// signed extensions of the chain.
type Node struct {
	log    zerolog.Logger
	client client.Client
	chain  chain.Chain
	state  state.State
	cache  Cache
	codec  Codec
}

// New creates a node adapter on top of the given JSON-RPC client.
func New(log zerolog.Logger, cli client.Client, cache Cache, codec Codec) *Node {

	n := Node{
		log:    log.With().Str("component", "node").Logger(),
		client: cli,
		chain:  chain.NewChain(cli),
		state:  state.NewState(cli),
		cache:  cache,
		codec:  codec,
	}

	return &n
}

// BlockHash returns the hash of the canonical block at the given height.
func (n *Node) BlockHash(height uint64) (substrate.Hash, error) {

	var hash *string
	err := n.client.Call(&hash, methodBlockHash, height)
	if err != nil {
		return substrate.ZeroHash, fmt.Errorf("could not get block hash: %w", err)
	}
	if hash == nil {
		return substrate.ZeroHash, fmt.Errorf("no block at height %d: %w", height, substrate.ErrNotFound)
	}

	return substrate.ParseHash(*hash)
}

// Header returns the header of the block with the given hash.
func (n *Node) Header(hash substrate.Hash) (*substrate.Header, error) {

	key := "header/" + hash.Hex()
	var header substrate.Header
	if n.cached(key, &header) {
		return &header, nil
	}

	// A null header decodes into an empty one, and every existing block has
	// a non-zero extrinsics root.
	raw, err := n.chain.GetHeader(types.NewHash(hash[:]))
	if err != nil {
		return nil, fmt.Errorf("could not get header: %w", err)
	}
	if raw.ExtrinsicsRoot == (types.Hash{}) {
		return nil, fmt.Errorf("no header for block %x: %w", hash, substrate.ErrNotFound)
	}

	header = substrate.Header{
		Hash:       hash,
		ParentHash: substrate.Hash(raw.ParentHash),
		Number:     uint64(raw.Number),
	}

	n.store(key, header)

	return &header, nil
}

// Block returns the block with the given hash.
func (n *Node) Block(hash substrate.Hash) (*substrate.Block, error) {

	key := "block/" + hash.Hex()
	var block substrate.Block
	if n.cached(key, &block) {
		return &block, nil
	}

	var raw *rpcSignedBlock
	err := n.client.Call(&raw, methodBlock, hash.Hex())
	if err != nil {
		return nil, fmt.Errorf("could not get block: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("no block for hash %x: %w", hash, substrate.ErrNotFound)
	}

	header, err := convertHeader(hash, raw.Block.Header)
	if err != nil {
		return nil, fmt.Errorf("could not convert header: %w", err)
	}
	extrinsics := make([][]byte, 0, len(raw.Block.Extrinsics))
	for index, encoded := range raw.Block.Extrinsics {
		extrinsic, err := decodeHex(encoded)
		if err != nil {
			return nil, fmt.Errorf("could not decode extrinsic (index: %d): %w", index, err)
		}
		extrinsics = append(extrinsics, extrinsic)
	}

	block = substrate.Block{
		Header:     header,
		Extrinsics: extrinsics,
	}

	n.store(key, block)

	return &block, nil
}

// Storage returns the raw storage value for the key at the given block, or
// nil if there is no value.
func (n *Node) Storage(key []byte, at substrate.Hash) ([]byte, error) {

	data, err := n.state.GetStorageRaw(types.NewStorageKey(key), types.NewHash(at[:]))
	if err != nil {
		return nil, fmt.Errorf("could not get storage: %w", err)
	}
	if len(*data) == 0 {
		return nil, nil
	}

	return *data, nil
}

// Metadata returns the SCALE metadata of the runtime at the given block.
func (n *Node) Metadata(at substrate.Hash) (*types.Metadata, error) {

	meta, err := n.state.GetMetadata(types.NewHash(at[:]))
	if err != nil {
		return nil, fmt.Errorf("could not get metadata: %w", err)
	}

	return meta, nil
}

// RuntimeVersion returns the spec name and version of the runtime at the
// given block.
func (n *Node) RuntimeVersion(at substrate.Hash) (string, uint32, error) {

	version, err := n.state.GetRuntimeVersion(types.NewHash(at[:]))
	if err != nil {
		return "", 0, fmt.Errorf("could not get runtime version: %w", err)
	}

	return version.SpecName, uint32(version.SpecVersion), nil
}

// FeeQuote returns the partial fee the runtime charges for the extrinsic at
// the given block.
func (n *Node) FeeQuote(extrinsic []byte, at substrate.Hash) (*big.Int, error) {

	var info rpcFeeInfo
	err := n.client.Call(&info, methodFeeQuote, "0x"+hex.EncodeToString(extrinsic), at.Hex())
	if err != nil {
		return nil, fmt.Errorf("could not query fee info: %w", err)
	}

	fee, err := balance(info.PartialFee)
	if err != nil {
		return nil, fmt.Errorf("could not parse partial fee: %w", err)
	}

	return fee, nil
}

// Finalized returns the hash of the last finalized block.
func (n *Node) Finalized() (substrate.Hash, error) {

	hash, err := n.chain.GetFinalizedHead()
	if err != nil {
		return substrate.ZeroHash, fmt.Errorf("could not get finalized head: %w", err)
	}

	return substrate.Hash(hash), nil
}

// Nonce returns the next nonce of the account, including the transactions
// that are still in the pool.
func (n *Node) Nonce(address string) (uint64, error) {

	var nonce uint64
	err := n.client.Call(&nonce, methodNonce, address)
	if err != nil {
		return 0, fmt.Errorf("could not get account nonce: %w", err)
	}

	return nonce, nil
}

// Submit broadcasts a signed extrinsic and returns the hash reported by the
// node.
func (n *Node) Submit(extrinsic []byte) (substrate.Hash, error) {

	var hash string
	err := n.client.Call(&hash, methodSubmit, "0x"+hex.EncodeToString(extrinsic))
	if err != nil {
		return substrate.ZeroHash, fmt.Errorf("could not submit extrinsic: %w", err)
	}

	n.log.Info().Str("hash", hash).Int("size", len(extrinsic)).Msg("extrinsic submitted")

	return substrate.ParseHash(hash)
}

// Close closes the connection to the node.
func (n *Node) Close() error {
	n.client.Close()
	return nil
}

func (n *Node) cached(key string, value interface{}) bool {

	item, ok := n.cache.Get(key)
	if !ok {
		return false
	}
	data, ok := item.([]byte)
	if !ok {
		return false
	}

	err := n.codec.Unmarshal(data, value)
	if err != nil {
		n.log.Warn().Err(err).Str("key", key).Msg("could not decode cached item")
		return false
	}

	return true
}

func (n *Node) store(key string, value interface{}) {

	data, err := n.codec.Marshal(value)
	if err != nil {
		n.log.Warn().Err(err).Str("key", key).Msg("could not encode item for cache")
		return
	}

	_ = n.cache.Set(key, data, int64(len(data)))
}

func convertHeader(hash substrate.Hash, raw rpcHeader) (substrate.Header, error) {

	height, err := number(raw.Number)
	if err != nil {
		return substrate.Header{}, fmt.Errorf("invalid block number (%s): %w", raw.Number, err)
	}
	parent, err := substrate.ParseHash(raw.ParentHash)
	if err != nil {
		return substrate.Header{}, fmt.Errorf("invalid parent hash: %w", err)
	}

	header := substrate.Header{
		Hash:       hash,
		ParentHash: parent,
		Number:     height,
	}

	return header, nil
}

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
