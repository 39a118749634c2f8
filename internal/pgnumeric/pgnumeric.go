// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pgnumeric encodes and decodes Postgres's binary NUMERIC wire
// format: a sign-magnitude sequence of base-10000 ("NBASE") digit groups.
// It is a direct port of connector_arrow's src/postgres/decimal.rs
// (itself adapted from the rust_decimal crate), rebuilt around
// decimal128.Num instead of Rust's i128/i256.
package pgnumeric

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"
)

const (
	signPositive = 0x0000
	signNegative = 0x4000
	signNaN      = 0xC000
	signPosInf   = 0xD000
	signNegInf   = 0xF000
)

var ten4 = big.NewInt(10000)

// Decode parses raw (the wire bytes of one Postgres NUMERIC datum) into an
// unscaled decimal128.Num and its dscale (digits right of the decimal
// point). NaN and the two infinities have no decimal128 representation and
// are reported as errors rather than silently truncated.
func Decode(raw []byte) (decimal128.Num, int32, error) {
	mantissa, scale, err := DecodeBigInt(raw)
	if err != nil {
		return decimal128.Num{}, 0, err
	}
	num, err := decimal128.FromBigInt(mantissa)
	if err != nil {
		return decimal128.Num{}, 0, fmt.Errorf("pgnumeric: decode: value out of decimal128 range: %w", err)
	}
	return num, scale, nil
}

// DecodeDecimal256 is Decode's Decimal256 counterpart, for NUMERIC values
// whose precision exceeds what decimal128 can hold.
func DecodeDecimal256(raw []byte) (decimal256.Num, int32, error) {
	mantissa, scale, err := DecodeBigInt(raw)
	if err != nil {
		return decimal256.Num{}, 0, err
	}
	num, err := decimal256.FromBigInt(mantissa)
	if err != nil {
		return decimal256.Num{}, 0, fmt.Errorf("pgnumeric: decode: value out of decimal256 range: %w", err)
	}
	return num, scale, nil
}

// DecodeBigInt parses raw the same way Decode does but returns the
// unscaled mantissa as an unbounded math/big.Int, shared by both the
// decimal128 and decimal256 paths above.
func DecodeBigInt(raw []byte) (*big.Int, int32, error) {
	if len(raw) < 8 {
		return nil, 0, fmt.Errorf("pgnumeric: decode: short buffer (%d bytes)", len(raw))
	}
	numGroups := int(binary.BigEndian.Uint16(raw[0:2]))
	weightFirst := int16(binary.BigEndian.Uint16(raw[2:4]))
	sign := binary.BigEndian.Uint16(raw[4:6])
	scale := int16(binary.BigEndian.Uint16(raw[6:8]))

	var negative bool
	switch sign {
	case signPositive:
	case signNegative:
		negative = true
	case signNaN, signPosInf, signNegInf:
		return nil, 0, fmt.Errorf("pgnumeric: decode: special value 0x%04x has no decimal representation", sign)
	default:
		return nil, 0, fmt.Errorf("pgnumeric: decode: invalid sign 0x%04x", sign)
	}

	want := 8 + numGroups*2
	if len(raw) < want {
		return nil, 0, fmt.Errorf("pgnumeric: decode: expected %d bytes for %d groups, got %d", want, numGroups, len(raw))
	}

	mantissa := new(big.Int)
	for i := 0; i < numGroups; i++ {
		group := binary.BigEndian.Uint16(raw[8+i*2 : 10+i*2])
		mantissa.Mul(mantissa, ten4)
		mantissa.Add(mantissa, big.NewInt(int64(group)))
	}

	// mantissa is value * 10000^(numGroups-1-weightFirst); rescale from that
	// implied digit count down (or up) to the requested dscale.
	impliedScale := (numGroups - 1 - int(weightFirst)) * 4
	switch diff := int(scale) - impliedScale; {
	case diff > 0:
		mantissa.Mul(mantissa, pow10(diff))
	case diff < 0:
		mantissa.Quo(mantissa, pow10(-diff))
	}

	if negative {
		mantissa.Neg(mantissa)
	}
	return mantissa, int32(scale), nil
}

// Encode renders value (unscaled) at the given dscale into Postgres's
// binary NUMERIC wire format, matching i128_to_sql.
func Encode(value decimal128.Num, scale int16) []byte {
	return EncodeBigInt(value.BigInt(), scale)
}

// EncodeDecimal256 is Encode's Decimal256 counterpart, matching i256_to_sql.
func EncodeDecimal256(value decimal256.Num, scale int16) []byte {
	return EncodeBigInt(value.BigInt(), scale)
}

// EncodeBigInt renders an arbitrary-precision unscaled mantissa at the
// given dscale into Postgres's binary NUMERIC wire format, shared by
// Encode and EncodeDecimal256.
func EncodeBigInt(data *big.Int, scale int16) []byte {
	neg := data.Sign() < 0
	if neg {
		data = new(big.Int).Neg(data)
	}

	scaleOffset := int(scale % 4)
	weight := -(int(scale))/4 - 1

	var groups []uint16
	if scaleOffset > 0 {
		multiplier := pow10(scaleOffset)
		q, rem := new(big.Int), new(big.Int)
		q.QuoRem(data, multiplier, rem)
		groups = append(groups, uint16(rem.Int64())*pow16(4-scaleOffset))
		data = q
	}

	zero := big.NewInt(0)
	for data.Cmp(zero) != 0 {
		q, rem := new(big.Int), new(big.Int)
		q.QuoRem(data, ten4, rem)
		groups = append(groups, uint16(rem.Int64()))
		data = q
		weight++
	}
	for i, j := 0, len(groups)-1; i < j; i, j = i+1, j-1 {
		groups[i], groups[j] = groups[j], groups[i]
	}
	if len(groups) == 0 {
		// Zero has no digit groups; Postgres sends it with weight 0.
		weight = 0
	}

	out := make([]byte, 8+len(groups)*2)
	binary.BigEndian.PutUint16(out[0:2], uint16(len(groups)))
	binary.BigEndian.PutUint16(out[2:4], uint16(int16(weight)))
	if neg {
		binary.BigEndian.PutUint16(out[4:6], signNegative)
	} else {
		binary.BigEndian.PutUint16(out[4:6], signPositive)
	}
	binary.BigEndian.PutUint16(out[6:8], uint16(scale))
	for i, g := range groups {
		binary.BigEndian.PutUint16(out[8+i*2:10+i*2], g)
	}
	return out
}

// Decimal128ToString renders an unscaled decimal128.Num at the given scale
// as a plain decimal literal ("-12.340"), the textual form SQLite and MySQL
// both store NUMERIC/DECIMAL values as when there's no native binary
// decimal column type to bind against.
func Decimal128ToString(value decimal128.Num, scale int32) string {
	data := value.BigInt()
	neg := data.Sign() < 0
	if neg {
		data.Neg(data)
	}
	digits := data.String()
	if scale <= 0 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	for len(digits) <= int(scale) {
		digits = "0" + digits
	}
	whole, frac := digits[:len(digits)-int(scale)], digits[len(digits)-int(scale):]
	out := whole + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func pow16(n int) uint16 {
	r := uint16(1)
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}
