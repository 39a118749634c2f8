// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"fmt"
	"math/big"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"
	"github.com/jackc/pgx/v5/pgtype"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/internal/pgnumeric"
	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// cellProducer adapts one already-decoded pgx row cell into a
// transport.Producer, the Go analogue of query.rs's CellRef (a (Row, col)
// pair implementing ProduceTy per CTS variant). Everything but NUMERIC is
// served from pgx's own decode of the value (v); NUMERIC is re-decoded
// from the column's raw wire bytes via pgnumeric, since pgx's own
// pgtype.Numeric has no direct path to a decimal128/256.Num.
type cellProducer struct {
	v   any
	raw []byte
	ty  arrow.DataType
}

var _ transport.Producer = (*cellProducer)(nil)

func errType(method string, v any) error {
	return fmt.Errorf("drivers/postgres: %s: unexpected value type %T: %w", method, v, dbxport.ErrUnsupported)
}

func (p *cellProducer) ProduceBool() (bool, error) {
	v, ok := p.v.(bool)
	if !ok {
		return false, errType("ProduceBool", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceBoolOpt() (*bool, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceBool()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceInt8() (int8, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceInt8: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceInt8Opt() (*int8, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceInt8Opt: %w", dbxport.ErrUnsupported)
}

func (p *cellProducer) ProduceInt16() (int16, error) {
	v, ok := p.v.(int16)
	if !ok {
		return 0, errType("ProduceInt16", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceInt16Opt() (*int16, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceInt16()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceInt32() (int32, error) {
	v, ok := p.v.(int32)
	if !ok {
		return 0, errType("ProduceInt32", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceInt32Opt() (*int32, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceInt32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceInt64() (int64, error) {
	v, ok := p.v.(int64)
	if !ok {
		return 0, errType("ProduceInt64", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceInt64Opt() (*int64, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceInt64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Postgres has no native unsigned integer type, so nothing on the read
// path ever needs these -- matching query.rs's impl_produce_unsupported!
// list for UInt8/16/32/64.
func (p *cellProducer) ProduceUint8() (uint8, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceUint8: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceUint8Opt() (*uint8, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceUint8Opt: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceUint16() (uint16, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceUint16: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceUint16Opt() (*uint16, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceUint16Opt: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceUint32() (uint32, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceUint32: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceUint32Opt() (*uint32, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceUint32Opt: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceUint64() (uint64, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceUint64: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceUint64Opt() (*uint64, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceUint64Opt: %w", dbxport.ErrUnsupported)
}

func (p *cellProducer) ProduceFloat32() (float32, error) {
	v, ok := p.v.(float32)
	if !ok {
		return 0, errType("ProduceFloat32", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceFloat32Opt() (*float32, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceFloat32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceFloat64() (float64, error) {
	v, ok := p.v.(float64)
	if !ok {
		return 0, errType("ProduceFloat64", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceFloat64Opt() (*float64, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceFloat64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Postgres's date/timestamp binary wire format counts from 2000-01-01
// (query.rs's DUR_1970_TO_2000_SEC rebasing), but pgx's default decode
// already re-bases values onto time.Time (Unix epoch) for us, so no
// manual 2000-epoch arithmetic is needed here.

func (p *cellProducer) ProduceDate32() (arrow.Date32, error) {
	t, ok := p.v.(time.Time)
	if !ok {
		return 0, errType("ProduceDate32", p.v)
	}
	days := t.UTC().Unix() / 86400
	return arrow.Date32(days), nil
}

func (p *cellProducer) ProduceDate32Opt() (*arrow.Date32, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceDate32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceDate64() (arrow.Date64, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceDate64: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceDate64Opt() (*arrow.Date64, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceDate64Opt: %w", dbxport.ErrUnsupported)
}

func (p *cellProducer) ProduceTime32() (arrow.Time32, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceTime32: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceTime32Opt() (*arrow.Time32, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceTime32Opt: %w", dbxport.ErrUnsupported)
}

func (p *cellProducer) ProduceTime64() (arrow.Time64, error) {
	t, ok := p.v.(pgtype.Time)
	if !ok {
		return 0, errType("ProduceTime64", p.v)
	}
	return arrow.Time64(t.Microseconds), nil
}

func (p *cellProducer) ProduceTime64Opt() (*arrow.Time64, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceTime64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceTimestamp() (arrow.Timestamp, error) {
	t, ok := p.v.(time.Time)
	if !ok {
		return 0, errType("ProduceTimestamp", p.v)
	}
	return arrow.Timestamp(t.UnixMicro()), nil
}

func (p *cellProducer) ProduceTimestampOpt() (*arrow.Timestamp, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceTimestamp()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceDuration() (arrow.Duration, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceDuration: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceDurationOpt() (*arrow.Duration, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceDurationOpt: %w", dbxport.ErrUnsupported)
}

func (p *cellProducer) ProduceIntervalMonths() (arrow.MonthInterval, error) {
	return 0, fmt.Errorf("drivers/postgres: ProduceIntervalMonths: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalMonthsOpt() (*arrow.MonthInterval, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceIntervalMonthsOpt: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalDayTime() (arrow.DayTimeInterval, error) {
	return arrow.DayTimeInterval{}, fmt.Errorf("drivers/postgres: ProduceIntervalDayTime: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalDayTimeOpt() (*arrow.DayTimeInterval, error) {
	return nil, fmt.Errorf("drivers/postgres: ProduceIntervalDayTimeOpt: %w", dbxport.ErrUnsupported)
}

// ProduceIntervalMonthDayNano is the one interval shape query.rs supports
// reading (IntervalMonthDayMicros -> nanoseconds = micros * 1000).
func (p *cellProducer) ProduceIntervalMonthDayNano() (arrow.MonthDayNanoInterval, error) {
	iv, ok := p.v.(pgtype.Interval)
	if !ok {
		return arrow.MonthDayNanoInterval{}, errType("ProduceIntervalMonthDayNano", p.v)
	}
	nanos := iv.Microseconds * 1000
	return arrow.MonthDayNanoInterval{Months: iv.Months, Days: iv.Days, Nanoseconds: nanos}, nil
}

func (p *cellProducer) ProduceIntervalMonthDayNanoOpt() (*arrow.MonthDayNanoInterval, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceIntervalMonthDayNano()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceBinary() ([]byte, error) {
	v, ok := p.v.([]byte)
	if !ok {
		return nil, errType("ProduceBinary", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceBinaryOpt() ([]byte, error) {
	if p.v == nil {
		return nil, nil
	}
	return p.ProduceBinary()
}

func (p *cellProducer) ProduceString() (string, error) {
	v, ok := p.v.(string)
	if !ok {
		return "", errType("ProduceString", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceStringOpt() (*string, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceString()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ProduceDecimal128 decodes the column's raw NUMERIC wire bytes directly
// (pgx's pgtype.Numeric has no lossless path to decimal128.Num), then
// rescales to the target field's declared scale -- needed because a bare
// "numeric" column (no precision/scale declared) can carry a different
// dscale per row.
func (p *cellProducer) ProduceDecimal128() (decimal128.Num, error) {
	num, wireScale, err := pgnumeric.Decode(p.raw)
	if err != nil {
		return decimal128.Num{}, fmt.Errorf("drivers/postgres: ProduceDecimal128: %w", err)
	}
	dt, ok := p.ty.(*arrow.Decimal128Type)
	if !ok {
		return num, nil
	}
	return rescaleDecimal128(num, wireScale, dt.Scale), nil
}

func (p *cellProducer) ProduceDecimal128Opt() (*decimal128.Num, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceDecimal128()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceDecimal256() (decimal256.Num, error) {
	mantissa, wireScale, err := pgnumeric.DecodeBigInt(p.raw)
	if err != nil {
		return decimal256.Num{}, fmt.Errorf("drivers/postgres: ProduceDecimal256: %w", err)
	}
	if dt, ok := p.ty.(*arrow.Decimal256Type); ok && dt.Scale != wireScale {
		mantissa = rescaleBigInt(mantissa, wireScale, dt.Scale)
	}
	num, err := decimal256.FromBigInt(mantissa)
	if err != nil {
		return decimal256.Num{}, fmt.Errorf("drivers/postgres: ProduceDecimal256: %w", err)
	}
	return num, nil
}

func (p *cellProducer) ProduceDecimal256Opt() (*decimal256.Num, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceDecimal256()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func rescaleDecimal128(num decimal128.Num, from, to int32) decimal128.Num {
	if from == to {
		return num
	}
	rescaled, err := decimal128.FromBigInt(rescaleBigInt(num.BigInt(), from, to))
	if err != nil {
		return num
	}
	return rescaled
}

func rescaleBigInt(v *big.Int, from, to int32) *big.Int {
	diff := to - from
	if diff == 0 {
		return v
	}
	out := new(big.Int).Set(v)
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(abs32(diff))), nil)
	if diff > 0 {
		return out.Mul(out, p)
	}
	return out.Quo(out, p)
}

func abs32(n int32) int32 {
	if n < 0 {
		return -n
	}
	return n
}
