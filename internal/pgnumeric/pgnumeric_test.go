// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pgnumeric

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// The three vectors below are the worked examples from connector_arrow's
// postgres/decimal.rs test module, including the trailing-zero scale-7
// case that exercises a dscale wider than the NBASE group boundary.
func TestDecodeEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		raw     []byte
		unscale string
		scale   int16
	}{
		{
			name:    "positive",
			raw:     []byte{0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x0F, 0x6E, 0x04, 0xD2, 0x15, 0xE0},
			unscale: "3950123456",
			scale:   6,
		},
		{
			name:    "negative",
			raw:     []byte{0x00, 0x03, 0x00, 0x00, 0x40, 0x00, 0x00, 0x06, 0x0F, 0x6E, 0x04, 0xD2, 0x15, 0xE0},
			unscale: "-3950123456",
			scale:   6,
		},
		{
			name:    "trailing zero scale",
			raw:     []byte{0x00, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x07, 0x0F, 0x6E, 0x04, 0xD2, 0x15, 0xE0},
			unscale: "39501234560",
			scale:   7,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			num, scale, err := Decode(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.scale, scale)

			want, ok := new(big.Int).SetString(tc.unscale, 10)
			require.True(t, ok)
			require.Equal(t, want.String(), num.BigInt().String())

			got := Encode(num, tc.scale)
			require.Equal(t, tc.raw, got)
		})
	}
}

func TestDecodeRejectsSpecialValues(t *testing.T) {
	nan := []byte{0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00}
	_, _, err := Decode(nan)
	require.Error(t, err)
}

func TestDecodeZero(t *testing.T) {
	raw := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	num, scale, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, int32(0), scale)
	require.Equal(t, "0", num.BigInt().String())

	got := Encode(num, 0)
	require.Equal(t, raw, got)
}
