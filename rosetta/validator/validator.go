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

package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/optakt/substrate-rosetta/rosetta/failure"
	"github.com/optakt/substrate-rosetta/rosetta/identifier"
	"github.com/optakt/substrate-rosetta/rosetta/request"
)

// Validator checks that API requests are well-formed. It does not check them
// against chain state.
type Validator struct {
	validate *validator.Validate
}

// New creates a new request validator.
func New() *Validator {

	validate := validator.New()

	// Register custom validators for known types. We register a single type
	// per validator, so we can safely perform type assertion of the provided
	// `validator.StructLevel` to the correct type.
	validate.RegisterStructValidation(networkValidator, identifier.Network{})
	validate.RegisterStructValidation(blockValidator, identifier.Block{})
	validate.RegisterStructValidation(accountValidator, identifier.Account{})
	validate.RegisterStructValidation(transactionValidator, identifier.Transaction{})

	// Register custom top-level validators. These validate the entire request
	// object, compared to the ones above which validate a specific type within
	// the request.
	validate.RegisterStructValidation(balanceValidator, request.Balance{})
	validate.RegisterStructValidation(preprocessValidator, request.Preprocess{})
	validate.RegisterStructValidation(metadataValidator, request.Metadata{})
	validate.RegisterStructValidation(payloadsValidator, request.Payloads{})
	validate.RegisterStructValidation(combineValidator, request.Combine{})
	validate.RegisterStructValidation(parseValidator, request.Parse{})
	validate.RegisterStructValidation(hashValidator, request.Hash{})
	validate.RegisterStructValidation(submitValidator, request.Submit{})
	validate.RegisterStructValidation(deriveValidator, request.Derive{})

	v := Validator{
		validate: validate,
	}

	return &v
}

// Request validates the given request and returns a failure.InvalidFormat
// describing the first problem found.
func (v *Validator) Request(req interface{}) error {

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	// InvalidValidationError is returned by the validation library in cases of
	// invalid usage, such as passing a non-struct value.
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return fmt.Errorf("could not validate request: %w", err)
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return fmt.Errorf("unexpected validation error: %w", err)
	}

	// The tag of our custom validators is the description of the problem.
	first := errs[0]
	return failure.InvalidFormat{
		Description: failure.NewDescription(first.Tag(),
			failure.WithString("field", first.Field()),
		),
	}
}
