// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duckdb

import (
	"math/big"
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestCellForAppendInt32(t *testing.T) {
	pool := memory.NewGoAllocator()
	b := array.NewInt32Builder(pool)
	b.Append(7)
	b.AppendNull()
	arr := b.NewInt32Array()
	defer arr.Release()

	v, err := cellForAppend(arr, 0)
	require.NoError(t, err)
	require.Equal(t, int32(7), v)

	v, err = cellForAppend(arr, 1)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCellForAppendTimestamp(t *testing.T) {
	pool := memory.NewGoAllocator()
	dt := &arrow.TimestampType{Unit: arrow.Microsecond}
	b := array.NewTimestampBuilder(pool, dt)
	tm := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	ts, err := arrow.TimestampFromTime(tm, arrow.Microsecond)
	require.NoError(t, err)
	b.Append(ts)
	arr := b.NewTimestampArray()
	defer arr.Release()

	v, err := cellForAppend(arr, 0)
	require.NoError(t, err)
	require.True(t, v.(time.Time).Equal(tm))
}

func TestCellForAppendDate32Unsupported(t *testing.T) {
	pool := memory.NewGoAllocator()
	b := array.NewDate32Builder(pool)
	b.Append(arrow.Date32(19797))
	arr := b.NewDate32Array()
	defer arr.Release()

	_, err := cellForAppend(arr, 0)
	require.Error(t, err)
}

func TestCellForAppendDecimal128Unsupported(t *testing.T) {
	pool := memory.NewGoAllocator()
	dt := &arrow.Decimal128Type{Precision: 10, Scale: 2}
	b := array.NewDecimal128Builder(pool, dt)
	b.Append(decimal128.FromBigInt(big.NewInt(1234)))
	arr := b.NewDecimal128Array()
	defer arr.Release()

	_, err := cellForAppend(arr, 0)
	require.Error(t, err)
}

func TestCellForAppendString(t *testing.T) {
	pool := memory.NewGoAllocator()
	b := array.NewStringBuilder(pool)
	b.Append("hi")
	arr := b.NewStringArray()
	defer arr.Release()

	v, err := cellForAppend(arr, 0)
	require.NoError(t, err)
	require.Equal(t, "hi", v)
}
