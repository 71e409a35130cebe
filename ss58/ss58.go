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

package ss58

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	checksumLength = 2
	maxFormat      = 1 << 14
)

var checksumPrefix = []byte("SS58PRE")

// Errors returned when decoding addresses.
var (
	ErrInvalidChecksum = errors.New("invalid address checksum")
	ErrInvalidLength   = errors.New("invalid address length")
	ErrInvalidPrefix   = errors.New("invalid address prefix")
)

// Encode returns the SS58 address of the given public key or account ID for
// the given address format.
func Encode(pub []byte, format uint16) (string, error) {
	if format >= maxFormat {
		return "", fmt.Errorf("address format out of range (format: %d)", format)
	}
	if len(pub) != 32 && len(pub) != 33 {
		return "", fmt.Errorf("unsupported payload length (length: %d): %w", len(pub), ErrInvalidLength)
	}

	data := append(prefix(format), pub...)
	data = append(data, checksum(data)...)

	return base58.Encode(data), nil
}

// Decode returns the address format and the public key or account ID encoded
// in the given SS58 address.
func Decode(address string) (uint16, []byte, error) {
	data, err := base58.Decode(address)
	if err != nil {
		return 0, nil, fmt.Errorf("could not decode base58: %w", err)
	}
	if len(data) < 2 {
		return 0, nil, ErrInvalidLength
	}

	var format uint16
	var offset int
	switch {
	case data[0] < 64:
		format = uint16(data[0])
		offset = 1
	case data[0] < 128:
		lower := (data[0] << 2) | (data[1] >> 6)
		upper := data[1] & 0b0011_1111
		format = uint16(lower) | uint16(upper)<<8
		offset = 2
	default:
		return 0, nil, ErrInvalidPrefix
	}

	payload := len(data) - offset - checksumLength
	if payload != 32 && payload != 33 {
		return 0, nil, ErrInvalidLength
	}

	body := data[:offset+payload]
	if !bytes.Equal(checksum(body), data[offset+payload:]) {
		return 0, nil, ErrInvalidChecksum
	}

	return format, body[offset:], nil
}

func prefix(format uint16) []byte {
	if format < 64 {
		return []byte{byte(format)}
	}

	first := byte((format&0b0000_0000_1111_1100)>>2) | 0b0100_0000
	second := byte(format>>8) | byte((format&0b0000_0000_0000_0011)<<6)

	return []byte{first, second}
}

func checksum(data []byte) []byte {
	hash := blake2b.Sum512(append(append([]byte{}, checksumPrefix...), data...))
	return hash[:checksumLength]
}
