// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/internal/pgnumeric"
)

func TestCopyHeaderAndTrailer(t *testing.T) {
	require.Equal(t, []byte("PGCOPY\n\xff\r\n\x00"), copyHeader[:11])
	require.Len(t, copyHeader, 19)
	require.Equal(t, []byte{0xff, 0xff}, copyTrailer)
}

func TestEncodeFieldInt32(t *testing.T) {
	pool := memory.NewGoAllocator()
	b := array.NewInt32Builder(pool)
	b.Append(42)
	arr := b.NewInt32Array()
	defer arr.Release()

	field := arrow.Field{Name: "n", Type: arrow.PrimitiveTypes.Int32}
	var buf bytes.Buffer
	isNull, err := encodeField(&buf, field, arr, 0)
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, []byte{0, 0, 0, 42}, buf.Bytes())
}

func TestEncodeFieldNull(t *testing.T) {
	pool := memory.NewGoAllocator()
	b := array.NewInt32Builder(pool)
	b.AppendNull()
	arr := b.NewInt32Array()
	defer arr.Release()

	field := arrow.Field{Name: "n", Type: arrow.PrimitiveTypes.Int32}
	var buf bytes.Buffer
	isNull, err := encodeField(&buf, field, arr, 0)
	require.NoError(t, err)
	require.True(t, isNull)
	require.Zero(t, buf.Len())
}

func TestEncodeFieldDate32RebasesToY2000(t *testing.T) {
	pool := memory.NewGoAllocator()
	b := array.NewDate32Builder(pool)
	b.Append(arrow.Date32(dur1970To2000Days + 5))
	arr := b.NewDate32Array()
	defer arr.Release()

	field := arrow.Field{Name: "d", Type: arrow.FixedWidthTypes.Date32}
	var buf bytes.Buffer
	isNull, err := encodeField(&buf, field, arr, 0)
	require.NoError(t, err)
	require.False(t, isNull)
	require.Equal(t, []byte{0, 0, 0, 5}, buf.Bytes())
}

func TestEncodeFieldDecimal128RoundTrips(t *testing.T) {
	mantissa, err := decimal128.FromBigInt(big.NewInt(395012))
	require.NoError(t, err)

	pool := memory.NewGoAllocator()
	dt := &arrow.Decimal128Type{Precision: 18, Scale: 2}
	b := array.NewDecimal128Builder(pool, dt)
	b.Append(mantissa)
	arr := b.NewDecimal128Array()
	defer arr.Release()

	field := arrow.Field{Name: "amount", Type: dt}
	var buf bytes.Buffer
	isNull, err := encodeField(&buf, field, arr, 0)
	require.NoError(t, err)
	require.False(t, isNull)

	decoded, scale, derr := pgnumeric.Decode(buf.Bytes())
	require.NoError(t, derr)
	require.Equal(t, int32(2), scale)
	require.Equal(t, mantissa.BigInt(), decoded.BigInt())
}

func TestEncodeFieldUnsupportedMonthInterval(t *testing.T) {
	pool := memory.NewGoAllocator()
	b := array.NewMonthIntervalBuilder(pool)
	b.Append(1)
	arr := b.NewMonthIntervalArray()
	defer arr.Release()

	field := arrow.Field{Name: "iv", Type: arrow.FixedWidthTypes.MonthInterval}
	var buf bytes.Buffer
	_, err := encodeField(&buf, field, arr, 0)
	require.ErrorIs(t, err, dbxport.ErrUnsupported)
}
