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
	"net/http"
)

// Rosetta clients expect every failed request to answer with status 500 and
// an error object, so by default all failure codes map onto it. Smart codes
// tell client errors, unknown chain data and rejections by the Substrate node
// apart, for clients that look at the status code.
var (
	statusOK                  = http.StatusOK
	statusBadRequest          = http.StatusInternalServerError
	statusNotFound            = http.StatusInternalServerError
	statusUnprocessableEntity = http.StatusInternalServerError
	statusInternalServerError = http.StatusInternalServerError
	statusBadGateway          = http.StatusInternalServerError
)

// EnableSmartCodes switches the API to descriptive status codes. It is called
// once at startup, before the server handles any request.
func EnableSmartCodes() {
	statusOK = http.StatusOK
	statusBadRequest = http.StatusBadRequest
	statusNotFound = http.StatusNotFound
	statusUnprocessableEntity = http.StatusUnprocessableEntity
	statusInternalServerError = http.StatusInternalServerError
	statusBadGateway = http.StatusBadGateway
}
