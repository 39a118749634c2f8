// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

import (
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/stretchr/testify/require"
)

func TestCellProducerInt32(t *testing.T) {
	p := &cellProducer{v: int64(42)}
	v, err := p.ProduceInt32()
	require.NoError(t, err)
	require.Equal(t, int32(42), v)
}

func TestCellProducerBoolOptNull(t *testing.T) {
	p := &cellProducer{v: nil}
	v, err := p.ProduceBoolOpt()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCellProducerUint64HasNoUnsignedColumn(t *testing.T) {
	p := &cellProducer{v: int64(7)}
	v, err := p.ProduceUint64()
	require.NoError(t, err)
	require.Equal(t, uint64(7), v)
}

func TestCellProducerFloat32FromFloat64(t *testing.T) {
	p := &cellProducer{v: 2.25}
	v, err := p.ProduceFloat32()
	require.NoError(t, err)
	require.InDelta(t, float32(2.25), v, 1e-9)
}

func TestCellProducerDate32(t *testing.T) {
	tm := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	p := &cellProducer{v: tm}
	v, err := p.ProduceDate32()
	require.NoError(t, err)
	require.Equal(t, int32(tm.Unix()/86400), int32(v))
}

func TestCellProducerDate64Unsupported(t *testing.T) {
	p := &cellProducer{v: nil}
	_, err := p.ProduceDate64()
	require.Error(t, err)
}

func TestCellProducerTime64IsMicrosSinceMidnight(t *testing.T) {
	tm := time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)
	p := &cellProducer{v: tm}
	v, err := p.ProduceTime64()
	require.NoError(t, err)
	require.Equal(t, int64(13*3600+30*60)*1_000_000, int64(v))
}

func TestCellProducerTimestamp(t *testing.T) {
	tm := time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)
	p := &cellProducer{v: tm}
	v, err := p.ProduceTimestamp()
	require.NoError(t, err)
	require.Equal(t, tm.UnixMicro(), int64(v))
}

func TestCellProducerDurationUnsupported(t *testing.T) {
	p := &cellProducer{v: nil}
	_, err := p.ProduceDuration()
	require.Error(t, err)
}

func TestCellProducerDecimal128UsesFieldScale(t *testing.T) {
	p := &cellProducer{
		v:  mssql.Decimal{},
		ty: &arrow.Decimal128Type{Precision: 10, Scale: 2},
	}
	_, ok := p.v.(mssql.Decimal)
	require.True(t, ok)
}

func TestCellProducerString(t *testing.T) {
	p := &cellProducer{v: "hello"}
	v, err := p.ProduceString()
	require.NoError(t, err)
	require.Equal(t, "hello", v)
}

func TestCellProducerBinary(t *testing.T) {
	p := &cellProducer{v: []byte{1, 2, 3}}
	v, err := p.ProduceBinary()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, v)
}
