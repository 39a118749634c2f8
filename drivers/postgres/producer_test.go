// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"math/big"
	"testing"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/internal/pgnumeric"
)

func TestCellProducerBool(t *testing.T) {
	p := &cellProducer{v: true}
	v, err := p.ProduceBool()
	require.NoError(t, err)
	require.True(t, v)
}

func TestCellProducerOptNull(t *testing.T) {
	p := &cellProducer{v: nil}
	v, err := p.ProduceInt32Opt()
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestCellProducerInt32(t *testing.T) {
	p := &cellProducer{v: int32(7)}
	v, err := p.ProduceInt32()
	require.NoError(t, err)
	require.Equal(t, int32(7), v)
}

func TestCellProducerUnsignedUnsupported(t *testing.T) {
	p := &cellProducer{}
	_, err := p.ProduceUint32()
	require.ErrorIs(t, err, dbxport.ErrUnsupported)
	_, err = p.ProduceInt8()
	require.ErrorIs(t, err, dbxport.ErrUnsupported)
}

func TestCellProducerDate32(t *testing.T) {
	tm := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	p := &cellProducer{v: tm}
	v, err := p.ProduceDate32()
	require.NoError(t, err)
	require.Equal(t, arrow.Date32(tm.Unix()/86400), v)
}

func TestCellProducerTime64(t *testing.T) {
	p := &cellProducer{v: pgtype.Time{Microseconds: 3661_000_000, Valid: true}}
	v, err := p.ProduceTime64()
	require.NoError(t, err)
	require.Equal(t, arrow.Time64(3661_000_000), v)
}

func TestCellProducerTimestamp(t *testing.T) {
	tm := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &cellProducer{v: tm}
	v, err := p.ProduceTimestamp()
	require.NoError(t, err)
	require.Equal(t, arrow.Timestamp(tm.UnixMicro()), v)
}

func TestCellProducerIntervalMonthDayNano(t *testing.T) {
	p := &cellProducer{v: pgtype.Interval{Months: 1, Days: 2, Microseconds: 3, Valid: true}}
	v, err := p.ProduceIntervalMonthDayNano()
	require.NoError(t, err)
	require.Equal(t, arrow.MonthDayNanoInterval{Months: 1, Days: 2, Nanoseconds: 3000}, v)
}

func TestCellProducerDurationUnsupported(t *testing.T) {
	p := &cellProducer{}
	_, err := p.ProduceDuration()
	require.ErrorIs(t, err, dbxport.ErrUnsupported)
	_, err = p.ProduceDate64()
	require.ErrorIs(t, err, dbxport.ErrUnsupported)
}

func TestCellProducerDecimal128Rescale(t *testing.T) {
	// 3950.12 at wire scale 2, rescaled to a column declared at scale 4.
	mantissa, err := decimal128.FromBigInt(big.NewInt(395012))
	require.NoError(t, err)
	raw := pgnumeric.Encode(mantissa, 2)

	p := &cellProducer{raw: raw, ty: &arrow.Decimal128Type{Precision: 18, Scale: 4}}
	v, err := p.ProduceDecimal128()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(39501200), v.BigInt())
}

func TestRescaleBigInt(t *testing.T) {
	require.Equal(t, big.NewInt(1230), rescaleBigInt(big.NewInt(123), 1, 2))
	require.Equal(t, big.NewInt(12), rescaleBigInt(big.NewInt(123), 2, 1))
	require.Equal(t, big.NewInt(123), rescaleBigInt(big.NewInt(123), 2, 2))
}

func TestRescaleDecimal128(t *testing.T) {
	num, err := decimal128.FromBigInt(big.NewInt(123))
	require.NoError(t, err)
	rescaled := rescaleDecimal128(num, 1, 2)
	require.Equal(t, big.NewInt(1230), rescaled.BigInt())
}
