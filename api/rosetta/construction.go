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

// Construction implements the Rosetta Construction API.
// See https://www.rosetta-api.org/docs/construction_api_introduction.html
type Construction struct {
	validate Validator
	networks Networks
}

// NewConstruction creates a new instance of the Construction API.
func NewConstruction(validate Validator, networks Networks) *Construction {

	c := Construction{
		validate: validate,
		networks: networks,
	}

	return &c
}
