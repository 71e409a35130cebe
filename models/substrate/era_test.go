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

package substrate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/substrate-rosetta/models/substrate"
)

func TestNewMortalEra(t *testing.T) {
	tests := []struct {
		name    string
		current uint64
		period  uint64
		want    substrate.Era
	}{
		{name: "default period", current: 100, period: 64, want: substrate.Era{Period: 64, Phase: 36}},
		{name: "period rounded up", current: 100, period: 50, want: substrate.Era{Period: 64, Phase: 36}},
		{name: "period clamped low", current: 7, period: 1, want: substrate.Era{Period: 4, Phase: 3}},
		{name: "period clamped high", current: 70000, period: 1 << 20, want: substrate.Era{Period: 65536, Phase: 4464}},
		{name: "immortal", current: 100, period: 0, want: substrate.ImmortalEra},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			got := substrate.NewMortalEra(test.current, test.period)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestEra_Bytes(t *testing.T) {
	t.Run("mortal era", func(t *testing.T) {
		t.Parallel()

		era := substrate.NewMortalEra(100, 64)
		assert.Equal(t, []byte{0x45, 0x02}, era.Bytes())
	})

	t.Run("immortal era", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []byte{0x00}, substrate.ImmortalEra.Bytes())
	})
}

func TestParseEra(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		for _, period := range []uint64{4, 64, 4096, 65536} {
			era := substrate.NewMortalEra(123456, period)

			got, err := substrate.ParseEra(era.Bytes())

			require.NoError(t, err)
			assert.Equal(t, era, got)
		}
	})

	t.Run("immortal era", func(t *testing.T) {
		t.Parallel()

		got, err := substrate.ParseEra([]byte{0x00})

		require.NoError(t, err)
		assert.True(t, got.Immortal())
	})

	t.Run("handles missing data", func(t *testing.T) {
		t.Parallel()

		_, err := substrate.ParseEra(nil)
		assert.Error(t, err)

		_, err = substrate.ParseEra([]byte{0x45})
		assert.Error(t, err)
	})

	t.Run("handles invalid period", func(t *testing.T) {
		t.Parallel()

		_, err := substrate.ParseEra([]byte{0x10, 0x00})
		assert.Error(t, err)
	})
}

func TestEra_Birth(t *testing.T) {
	era := substrate.NewMortalEra(100, 64)

	assert.Equal(t, uint64(100), era.Birth(100))
	assert.Equal(t, uint64(100), era.Birth(163))
	assert.Equal(t, uint64(164), era.Birth(164))
	assert.Equal(t, uint64(0), substrate.ImmortalEra.Birth(100))
}
