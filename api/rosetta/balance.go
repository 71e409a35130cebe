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

	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/object"
	"github.com/optakt/substrate-rosetta/rosetta/request"
	"github.com/optakt/substrate-rosetta/rosetta/response"
)

// Balance implements the /account/balance endpoint of the Rosetta Data API.
// See https://www.rosetta-api.org/docs/AccountApi.html#accountbalance
func (d *Data) Balance(ctx echo.Context) error {

	var req request.Balance
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

	blockID, amounts, err := net.Retrieve.Balance(req.BlockID, req.AccountID)
	if err != nil {
		return apiError(err)
	}

	res := response.Balance{
		BlockID:  blockID,
		Balances: filter(amounts, req.Currencies),
	}

	return ctx.JSON(statusOK, res)
}

// filter keeps the amounts in the requested currencies. No requested
// currencies means all of them.
func filter(amounts []object.Amount, currencies []identifier.Currency) []object.Amount {
	if len(currencies) == 0 {
		return amounts
	}

	filtered := make([]object.Amount, 0, len(amounts))
	for _, amount := range amounts {
		for _, currency := range currencies {
			if amount.Currency.Symbol == currency.Symbol {
				filtered = append(filtered, amount)
				break
			}
		}
	}

	return filtered
}
