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

package networks

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

//go:embed devnode.json
var devNode []byte

// File is the content of a network file: the network descriptor, with the
// runtime metadata schema embedded under the "metadata" key.
type File struct {
	substrate.Descriptor
	Metadata json.RawMessage `json:"metadata" validate:"required"`
}

// DevNode returns the network file of the local development node.
func DevNode() []byte {
	return devNode
}

// Parse decodes and validates a network file.
func Parse(data []byte) (*File, error) {
	var file File
	err := json.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("could not decode network file: %w", err)
	}
	err = validator.New().Struct(file)
	if err != nil {
		return nil, fmt.Errorf("invalid network file: %w", err)
	}
	return &file, nil
}
