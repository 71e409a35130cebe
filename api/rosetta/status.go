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
	"github.com/labstack/echo/v4"

	"github.com/optakt/substrate-rosetta/rosetta/request"
	"github.com/optakt/substrate-rosetta/rosetta/response"
)

// Status implements the /network/status endpoint of the Rosetta Data API.
// See https://www.rosetta-api.org/docs/NetworkApi.html#networkstatus
func (d *Data) Status(ctx echo.Context) error {

	var req request.Status
	err := ctx.Bind(&req)
	if err != nil {
		return unpackError(err)
	}

	err = d.validate.Request(req)
	if err != nil {
		return apiError(err)
	}

	net, err := d.networks.Online(req.NetworkID)
	if err != nil {
		return apiError(err)
	}

	current, timestamp, err := net.Retrieve.Current()
	if err != nil {
		return apiError(err)
	}

	// We expect the node to be an archive node, so the genesis block is also
	// the oldest block we can serve.
	genesis := net.Retrieve.Genesis()
	res := response.Status{
		CurrentBlockID:        current,
		CurrentBlockTimestamp: timestamp,
		OldestBlockID:         genesis,
		GenesisBlockID:        genesis,
		Peers:                 []struct{}{},
	}

	return ctx.JSON(statusOK, res)
}
