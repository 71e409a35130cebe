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

package mocks

import (
	"testing"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

type Node struct {
	NonceFunc     func(address string) (uint64, error)
	FinalizedFunc func() (substrate.Hash, error)
	HeaderFunc    func(hash substrate.Hash) (*substrate.Header, error)
	SubmitFunc    func(extrinsic []byte) (substrate.Hash, error)
}

func BaselineNode(t *testing.T) *Node {
	t.Helper()

	n := Node{
		NonceFunc: func(string) (uint64, error) {
			return GenericNonce, nil
		},
		FinalizedFunc: func() (substrate.Hash, error) {
			return GenericHash(0), nil
		},
		HeaderFunc: func(hash substrate.Hash) (*substrate.Header, error) {
			header := substrate.Header{
				Hash:       hash,
				ParentHash: GenericHash(1),
				Number:     GenericHeight,
			}
			return &header, nil
		},
		SubmitFunc: func(extrinsic []byte) (substrate.Hash, error) {
			return substrate.HashOf(extrinsic), nil
		},
	}

	return &n
}

func (n *Node) Nonce(address string) (uint64, error) {
	return n.NonceFunc(address)
}

func (n *Node) Finalized() (substrate.Hash, error) {
	return n.FinalizedFunc()
}

func (n *Node) Header(hash substrate.Hash) (*substrate.Header, error) {
	return n.HeaderFunc(hash)
}

func (n *Node) Submit(extrinsic []byte) (substrate.Hash, error) {
	return n.SubmitFunc(extrinsic)
}
