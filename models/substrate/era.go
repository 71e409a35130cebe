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

package substrate

import (
	"fmt"
	"math/bits"
)

const (
	minEraPeriod = 4
	maxEraPeriod = 1 << 16
)

// Era is the validity window of a transaction. A zero period means the
// transaction is immortal.
type Era struct {
	Period uint64
	Phase  uint64
}

// ImmortalEra is valid forever.
var ImmortalEra = Era{}

// NewMortalEra creates an era that starts at the given block and lasts for
// roughly the given number of blocks. The period is rounded up to the next
// power of two within [4, 65536] and the phase is quantized accordingly.
func NewMortalEra(current uint64, period uint64) Era {
	if period == 0 {
		return ImmortalEra
	}

	p := uint64(maxEraPeriod)
	if period < maxEraPeriod {
		p = uint64(1) << bits.Len64(period-1)
	}
	if p < minEraPeriod {
		p = minEraPeriod
	}

	quantize := quantizeFactor(p)
	phase := current % p / quantize * quantize

	return Era{Period: p, Phase: phase}
}

// ParseEra decodes an era from its one-byte immortal or two-byte mortal form.
func ParseEra(data []byte) (Era, error) {
	if len(data) == 0 {
		return ImmortalEra, fmt.Errorf("missing era data")
	}
	if data[0] == 0 {
		return ImmortalEra, nil
	}
	if len(data) < 2 {
		return ImmortalEra, fmt.Errorf("missing second byte of mortal era")
	}

	encoded := uint64(data[0]) | uint64(data[1])<<8
	period := uint64(2) << (encoded % 16)
	phase := (encoded >> 4) * quantizeFactor(period)
	if period < minEraPeriod || phase >= period {
		return ImmortalEra, fmt.Errorf("invalid mortal era (period: %d, phase: %d)", period, phase)
	}

	return Era{Period: period, Phase: phase}, nil
}

// Immortal returns whether the era is immortal.
func (e Era) Immortal() bool {
	return e.Period == 0
}

// Bytes returns the SCALE encoding of the era.
func (e Era) Bytes() []byte {
	if e.Immortal() {
		return []byte{0}
	}

	low := bits.TrailingZeros64(e.Period) - 1
	if low < 1 {
		low = 1
	}
	if low > 15 {
		low = 15
	}
	encoded := uint16(low) | uint16(e.Phase/quantizeFactor(e.Period))<<4

	return []byte{byte(encoded), byte(encoded >> 8)}
}

// Birth returns the first block of the era containing the given block.
func (e Era) Birth(current uint64) uint64 {
	if e.Immortal() {
		return 0
	}
	if current < e.Phase {
		current = e.Phase
	}
	return (current-e.Phase)/e.Period*e.Period + e.Phase
}

func quantizeFactor(period uint64) uint64 {
	factor := period >> 12
	if factor < 1 {
		factor = 1
	}
	return factor
}
