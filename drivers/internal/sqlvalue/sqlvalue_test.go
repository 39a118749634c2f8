// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlvalue

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"
)

func TestCellInt64(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewInt64Builder(mem)
	b.Append(7)
	b.AppendNull()
	arr := b.NewArray()
	defer arr.Release()

	v, err := Cell(arr, 0)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)

	v, err = Cell(arr, 1)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCellString(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewStringBuilder(mem)
	b.Append("hi")
	arr := b.NewArray()
	defer arr.Release()

	v, err := Cell(arr, 0)
	require.NoError(t, err)
	require.Equal(t, "hi", v)
}

func TestCellDecimal128AsString(t *testing.T) {
	dt := &arrow.Decimal128Type{Precision: 10, Scale: 2}
	mem := memory.NewGoAllocator()
	b := array.NewDecimal128Builder(mem, dt)
	b.Append(decimal128.FromI64(12345))
	arr := b.NewArray()
	defer arr.Release()

	v, err := Cell(arr, 0)
	require.NoError(t, err)
	require.Equal(t, "123.45", v)
}

func TestCellDate32(t *testing.T) {
	mem := memory.NewGoAllocator()
	b := array.NewDate32Builder(mem)
	b.Append(arrow.Date32(0)) // epoch day
	arr := b.NewArray()
	defer arr.Release()

	v, err := Cell(arr, 0)
	require.NoError(t, err)
	require.Equal(t, "1970-01-01", v)
}
