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

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

type Runtime struct {
	RuntimeVersionFunc func(at substrate.Hash) (string, uint32, error)
	MetadataFunc       func(at substrate.Hash) (*types.Metadata, error)
}

// BaselineRuntime returns a runtime that matches the development node
// descriptor, with the kitchensink metadata of the RPC client library.
func BaselineRuntime(t *testing.T) *Runtime {
	t.Helper()

	file := GenericFile(t)

	var meta types.Metadata
	err := codec.DecodeFromHex(types.MetadataV14Data, &meta)
	require.NoError(t, err)

	r := Runtime{
		RuntimeVersionFunc: func(substrate.Hash) (string, uint32, error) {
			return file.SpecName, file.SpecVersion, nil
		},
		MetadataFunc: func(substrate.Hash) (*types.Metadata, error) {
			return &meta, nil
		},
	}

	return &r
}

func (r *Runtime) RuntimeVersion(at substrate.Hash) (string, uint32, error) {
	return r.RuntimeVersionFunc(at)
}

func (r *Runtime) Metadata(at substrate.Hash) (*types.Metadata, error) {
	return r.MetadataFunc(at)
}
