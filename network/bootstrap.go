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

package network

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/rs/zerolog"

	"github.com/optakt/substrate-rosetta/codec/zbor"
	"github.com/optakt/substrate-rosetta/models/substrate"
	"github.com/optakt/substrate-rosetta/networks"
	"github.com/optakt/substrate-rosetta/registry"
	"github.com/optakt/substrate-rosetta/rosetta/construction"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/transactor"
	"github.com/optakt/substrate-rosetta/rosetta/translator"
)

// Runtime gives access to the version and metadata of the runtime of a node.
type Runtime interface {
	RuntimeVersion(at substrate.Hash) (string, uint32, error)
	Metadata(at substrate.Hash) (*types.Metadata, error)
}

// Node is the chain access needed to serve both data and construction
// requests of a network.
type Node interface {
	translator.Chain
	construction.Node
	Runtime
}

// Bootstrap builds a network from a network file. Without node, the network
// only supports offline construction and its registry is built from the
// metadata schema of the file. With a node, the registry is built from the
// metadata of the runtime at the finalized head, which has to run the spec
// of the file.
func Bootstrap(log zerolog.Logger, file *networks.File, node Node, options ...translator.Option) (*Network, error) {

	log = log.With().Str("network", file.Network).Logger()

	var reg *registry.Registry
	var err error
	if node != nil {
		reg, err = fromRuntime(log, file, node)
	} else {
		reg, err = registry.Build(file.Descriptor, file.Metadata)
	}
	if err != nil {
		return nil, fmt.Errorf("could not build registry: %w", err)
	}

	var chain translator.Chain
	var access construction.Node
	if node != nil {
		chain = node
		access = node
	}

	retrieve, err := translator.New(log, reg, chain, options...)
	if err != nil {
		return nil, fmt.Errorf("could not create translator: %w", err)
	}

	build := transactor.New(reg, zbor.NewCodec())
	construct := construction.New(reg, build, access)

	network := Network{
		ID: identifier.Network{
			Blockchain: file.Blockchain,
			Network:    file.Network,
		},
		Retrieve:  retrieve,
		Construct: construct,
	}

	return &network, nil
}

func fromRuntime(log zerolog.Logger, file *networks.File, node Node) (*registry.Registry, error) {

	head, err := node.Finalized()
	if err != nil {
		return nil, fmt.Errorf("could not get finalized head: %w", err)
	}
	name, version, err := node.RuntimeVersion(head)
	if err != nil {
		return nil, fmt.Errorf("could not get runtime version: %w", err)
	}
	if name != file.SpecName || version != file.SpecVersion {
		return nil, fmt.Errorf("%w (have: %s/%d, want: %s/%d)", registry.ErrSpecMismatch, name, version, file.SpecName, file.SpecVersion)
	}
	meta, err := node.Metadata(head)
	if err != nil {
		return nil, fmt.Errorf("could not get runtime metadata: %w", err)
	}

	reg, err := registry.FromMetadata(file.Descriptor, meta)
	if err != nil {
		return nil, err
	}

	unsupported := reg.Unsupported()
	if len(unsupported) > 0 {
		log.Warn().Strs("entries", unsupported).Msg("runtime metadata has unsupported entries")
	}

	log.Info().Str("spec", name).Uint32("version", version).Hex("head", head[:]).Msg("registry built from runtime metadata")

	return reg, nil
}
