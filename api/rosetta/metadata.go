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

// Metadata implements the /construction/metadata endpoint of the Rosetta Construction API.
// It is the only construction endpoint besides submission that needs a node.
// See https://www.rosetta-api.org/docs/ConstructionApi.html#constructionmetadata
func (c *Construction) Metadata(ctx echo.Context) error {

	var req request.Metadata
	err := ctx.Bind(&req)
	if err != nil {
		return unpackError(err)
	}

	err = c.validate.Request(req)
	if err != nil {
		return apiError(err)
	}

	net, err := c.networks.Lookup(req.NetworkID)
	if err != nil {
		return apiError(err)
	}

	metadata, err := net.Construct.Metadata(req.Options)
	if err != nil {
		return apiError(err)
	}

	res := response.Metadata{
		Metadata: metadata,
	}

	return ctx.JSON(statusOK, res)
}
