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

package metrics

import (
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"

	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/network"
)

// Node times the requests made to a node.
type Node struct {
	node network.Node
	time *Time
}

func NewNode(node network.Node, time *Time) *Node {
	n := Node{
		node: node,
		time: time,
	}
	return &n
}

func (n *Node) BlockHash(height uint64) (substrate.Hash, error) {
	defer n.time.Duration("block_hash")()
	return n.node.BlockHash(height)
}

func (n *Node) Header(hash substrate.Hash) (*substrate.Header, error) {
	defer n.time.Duration("header")()
	return n.node.Header(hash)
}

func (n *Node) Block(hash substrate.Hash) (*substrate.Block, error) {
	defer n.time.Duration("block")()
	return n.node.Block(hash)
}

func (n *Node) Storage(key []byte, at substrate.Hash) ([]byte, error) {
	defer n.time.Duration("storage")()
	return n.node.Storage(key, at)
}

func (n *Node) FeeQuote(extrinsic []byte, at substrate.Hash) (*big.Int, error) {
	defer n.time.Duration("fee_quote")()
	return n.node.FeeQuote(extrinsic, at)
}

func (n *Node) Finalized() (substrate.Hash, error) {
	defer n.time.Duration("finalized")()
	return n.node.Finalized()
}

func (n *Node) Nonce(address string) (uint64, error) {
	defer n.time.Duration("nonce")()
	return n.node.Nonce(address)
}

func (n *Node) Submit(extrinsic []byte) (substrate.Hash, error) {
	defer n.time.Duration("submit")()
	return n.node.Submit(extrinsic)
}

func (n *Node) RuntimeVersion(at substrate.Hash) (string, uint32, error) {
	defer n.time.Duration("runtime_version")()
	return n.node.RuntimeVersion(at)
}

func (n *Node) Metadata(at substrate.Hash) (*types.Metadata, error) {
	defer n.time.Duration("metadata")()
	return n.node.Metadata(at)
}
