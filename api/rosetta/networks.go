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

package rosetta

import (
	"github.com/optakt/substrate-rosetta/network"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
)

// Networks gives access to the supported networks. Online fails for all
// networks when the middleware runs in offline mode.
type Networks interface {
	List() []identifier.Network
	Lookup(id identifier.Network) (*network.Network, error)
	Online(id identifier.Network) (*network.Network, error)
}
