// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duckdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCellProducerBool(t *testing.T) {
	p := &cellProducer{v: true}
	v, err := p.ProduceBool()
	require.NoError(t, err)
	require.True(t, v)
}

func TestCellProducerBoolOptNull(t *testing.T) {
	p := &cellProducer{v: nil}
	v, err := p.ProduceBoolOpt()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCellProducerInt32FromInt64(t *testing.T) {
	p := &cellProducer{v: int64(-42)}
	v, err := p.ProduceInt32()
	require.NoError(t, err)
	require.Equal(t, int32(-42), v)
}

func TestCellProducerUint64WrongType(t *testing.T) {
	p := &cellProducer{v: "not a number"}
	_, err := p.ProduceUint64()
	require.Error(t, err)
}

func TestCellProducerFloat32FromFloat64(t *testing.T) {
	p := &cellProducer{v: 3.5}
	v, err := p.ProduceFloat32()
	require.NoError(t, err)
	require.InDelta(t, float32(3.5), v, 1e-9)
}

func TestCellProducerDate32(t *testing.T) {
	tm := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	p := &cellProducer{v: tm}
	v, err := p.ProduceDate32()
	require.NoError(t, err)
	require.Equal(t, int32(tm.Unix()/86400), int32(v))
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

func TestCellProducerDecimal128Unsupported(t *testing.T) {
	p := &cellProducer{v: nil}
	_, err := p.ProduceDecimal128()
	require.Error(t, err)
}

func TestCellProducerDurationUnsupported(t *testing.T) {
	p := &cellProducer{v: time.Second}
	_, err := p.ProduceDuration()
	require.Error(t, err)
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
