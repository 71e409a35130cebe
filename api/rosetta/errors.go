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
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/meta"
)

// Error represents an error as defined by the Rosetta API specification. It
// contains an error definition, which has an error code, error message and
// retriable flag that never change, as well as a description and a list of
// details to provide more granular error information.
// See: https://www.rosetta-api.org/docs/api_objects.html#error
type Error struct {
	meta.ErrorDefinition
	Description string                 `json:"description"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

func rosettaError(definition meta.ErrorDefinition, description failure.Description, fields ...failure.FieldFunc) Error {

	details := make(map[string]interface{})
	description.Fields.Iterate(func(key string, val interface{}) {
		details[key] = val
	})
	var extra failure.Fields
	for _, field := range fields {
		field(&extra)
	}
	extra.Iterate(func(key string, val interface{}) {
		details[key] = val
	})

	e := Error{
		ErrorDefinition: definition,
		Description:     description.Text,
		Details:         details,
	}

	return e
}

func internal(err error) Error {
	return rosettaError(
		configuration.ErrorInternal,
		failure.NewDescription("unexpected internal error", failure.WithErr(err)),
	)
}

// unpackError converts a request binding error into an API error.
func unpackError(err error) *echo.HTTPError {

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) && httpErr.Internal != nil {
		err = httpErr.Internal
	}

	return echo.NewHTTPError(statusBadRequest, rosettaError(
		configuration.ErrorInvalidEncoding,
		failure.NewDescription("request body is not valid JSON", failure.WithErr(err)),
	))
}

// apiError converts an error into an API error with the matching error
// definition and status code.
func apiError(err error) *echo.HTTPError {

	var invalidFormat failure.InvalidFormat
	if errors.As(err, &invalidFormat) {
		return echo.NewHTTPError(statusBadRequest, rosettaError(configuration.ErrorInvalidFormat, invalidFormat.Description))
	}

	var invalidNetwork failure.InvalidNetwork
	if errors.As(err, &invalidNetwork) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(
			configuration.ErrorInvalidNetwork,
			invalidNetwork.Description,
			failure.WithString("blockchain", invalidNetwork.Blockchain),
			failure.WithString("network", invalidNetwork.Network),
		))
	}
	var offlineMode failure.OfflineMode
	if errors.As(err, &offlineMode) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(configuration.ErrorOfflineMode, offlineMode.Description))
	}

	var invalidAccount failure.InvalidAccount
	if errors.As(err, &invalidAccount) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(
			configuration.ErrorInvalidAccount,
			invalidAccount.Description,
			failure.WithString("address", invalidAccount.Address),
		))
	}
	var invalidBlock failure.InvalidBlock
	if errors.As(err, &invalidBlock) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(configuration.ErrorInvalidBlock, invalidBlock.Description))
	}
	var unknownBlock failure.UnknownBlock
	if errors.As(err, &unknownBlock) {
		return echo.NewHTTPError(statusNotFound, rosettaError(
			configuration.ErrorUnknownBlock,
			unknownBlock.Description,
			failure.WithUint64("index", unknownBlock.Index),
			failure.WithString("hash", unknownBlock.Hash),
		))
	}
	var unknownTransaction failure.UnknownTransaction
	if errors.As(err, &unknownTransaction) {
		return echo.NewHTTPError(statusNotFound, rosettaError(
			configuration.ErrorUnknownTransaction,
			unknownTransaction.Description,
			failure.WithString("hash", unknownTransaction.Hash),
		))
	}

	var invalidIntent failure.InvalidIntent
	if errors.As(err, &invalidIntent) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(configuration.ErrorInvalidIntent, invalidIntent.Description))
	}
	var invalidPayload failure.InvalidPayload
	if errors.As(err, &invalidPayload) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(configuration.ErrorInvalidPayload, invalidPayload.Description))
	}
	var unsupportedExtrinsic failure.UnsupportedExtrinsic
	if errors.As(err, &unsupportedExtrinsic) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(
			configuration.ErrorUnsupportedExtrinsic,
			unsupportedExtrinsic.Description,
			failure.WithString("method", unsupportedExtrinsic.Method),
		))
	}
	var invalidSignature failure.InvalidSignature
	if errors.As(err, &invalidSignature) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(configuration.ErrorInvalidSignature, invalidSignature.Description))
	}
	var invalidKey failure.InvalidKey
	if errors.As(err, &invalidKey) {
		return echo.NewHTTPError(statusUnprocessableEntity, rosettaError(
			configuration.ErrorInvalidKey,
			invalidKey.Description,
			failure.WithString("curve_type", invalidKey.CurveType),
			failure.WithInt("length", invalidKey.Length),
		))
	}
	var broadcast failure.Broadcast
	if errors.As(err, &broadcast) {
		return echo.NewHTTPError(statusBadGateway, rosettaError(
			configuration.ErrorBroadcastFailed,
			broadcast.Description,
			failure.WithString("hash", broadcast.Hash),
		))
	}

	return echo.NewHTTPError(statusInternalServerError, internal(err))
}
