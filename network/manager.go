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

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
)

// Manager owns the supported networks. Networks are added once at startup
// and the manager is read-only afterwards.
type Manager struct {
	log      zerolog.Logger
	offline  bool
	order    []identifier.Network
	networks map[identifier.Network]*Network
}

// NewManager creates an empty network manager. In offline mode, only the
// construction endpoints that do not need node access are served.
func NewManager(log zerolog.Logger, offline bool) *Manager {

	m := Manager{
		log:      log.With().Str("component", "network_manager").Logger(),
		offline:  offline,
		networks: make(map[identifier.Network]*Network),
	}

	return &m
}

// Add registers a network with the manager.
func (m *Manager) Add(network *Network) error {

	_, ok := m.networks[network.ID]
	if ok {
		return fmt.Errorf("duplicate network (blockchain: %s, network: %s)", network.ID.Blockchain, network.ID.Network)
	}

	m.networks[network.ID] = network
	m.order = append(m.order, network.ID)

	m.log.Info().
		Str("blockchain", network.ID.Blockchain).
		Str("network", network.ID.Network).
		Bool("offline", m.offline).
		Msg("network added")

	return nil
}

// List returns the identifiers of all networks, in the order they were added.
func (m *Manager) List() []identifier.Network {
	networks := make([]identifier.Network, len(m.order))
	copy(networks, m.order)
	return networks
}

// Offline returns whether the manager runs without node access.
func (m *Manager) Offline() bool {
	return m.offline
}

// Lookup returns the network with the given identifier.
func (m *Manager) Lookup(id identifier.Network) (*Network, error) {

	network, ok := m.networks[id]
	if !ok {
		return nil, failure.InvalidNetwork{
			Description: failure.NewDescription("network not supported"),
			Blockchain:  id.Blockchain,
			Network:     id.Network,
		}
	}

	return network, nil
}

// Online returns the network with the given identifier, if the manager has
// node access.
func (m *Manager) Online(id identifier.Network) (*Network, error) {

	network, err := m.Lookup(id)
	if err != nil {
		return nil, err
	}

	if m.offline {
		return nil, failure.OfflineMode{
			Description: failure.NewDescription("endpoint requires node access",
				failure.WithString("network", id.Network),
			),
		}
	}

	return network, nil
}

// Close releases the node connections of all networks.
func (m *Manager) Close() error {

	var merr *multierror.Error
	for _, id := range m.order {
		network := m.networks[id]
		if network.Closer == nil {
			continue
		}
		err := network.Closer.Close()
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("could not close network %s: %w", id.Network, err))
		}
	}

	return merr.ErrorOrNil()
}
