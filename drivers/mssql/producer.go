// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"
	mssql "github.com/denisenkom/go-mssqldb"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// cellProducer adapts one value already decoded by go-mssqldb's
// database/sql driver into a transport.Producer. The supported set below
// mirrors sources/mssql/mod.rs's impl_produce! macro invocation (u8, i16,
// i32, i64, IntN, f32, f64, FloatN, bool, str, []byte, Decimal,
// NaiveDateTime, NaiveDate, NaiveTime, DateTime<Utc>) translated to the
// concrete Go types go-mssqldb actually returns from Scan: int64, float64,
// bool, []byte, string, time.Time, and mssql.Decimal.
type cellProducer struct {
	v  any
	ty arrow.DataType
}

var _ transport.Producer = (*cellProducer)(nil)

func errType(method string, v any) error {
	return fmt.Errorf("drivers/mssql: %s: unexpected value type %T: %w", method, v, dbxport.ErrUnsupported)
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

func (p *cellProducer) produceInt64() (int64, error) {
	switch v := p.v.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	}
	return 0, errType("produceInt64", p.v)
}

func (p *cellProducer) ProduceInt8() (int8, error) {
	v, err := p.produceInt64()
	return int8(v), err
}
func (p *cellProducer) ProduceInt8Opt() (*int8, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceInt8()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceInt16() (int16, error) {
	v, err := p.produceInt64()
	return int16(v), err
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
	v, err := p.produceInt64()
	return int32(v), err
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

func (p *cellProducer) ProduceInt64() (int64, error) { return p.produceInt64() }
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

// produceUint64 widens from int64, since go-mssqldb has no unsigned
// integer type (tinyint is the only unsigned SQL Server type, and it
// still scans as int64) -- there is no uint64 column to round-trip here.
func (p *cellProducer) produceUint64() (uint64, error) {
	v, err := p.produceInt64()
	if err != nil {
		return 0, errType("produceUint64", p.v)
	}
	return uint64(v), nil
}

func (p *cellProducer) ProduceUint8() (uint8, error) {
	v, err := p.produceUint64()
	return uint8(v), err
}
func (p *cellProducer) ProduceUint8Opt() (*uint8, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceUint8()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceUint16() (uint16, error) {
	v, err := p.produceUint64()
	return uint16(v), err
}
func (p *cellProducer) ProduceUint16Opt() (*uint16, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceUint16()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceUint32() (uint32, error) {
	v, err := p.produceUint64()
	return uint32(v), err
}
func (p *cellProducer) ProduceUint32Opt() (*uint32, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceUint32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceUint64() (uint64, error) { return p.produceUint64() }
func (p *cellProducer) ProduceUint64Opt() (*uint64, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceUint64()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceFloat32() (float32, error) {
	switch v := p.v.(type) {
	case float32:
		return v, nil
	case float64:
		return float32(v), nil
	}
	return 0, errType("ProduceFloat32", p.v)
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

func (p *cellProducer) produceTime() (time.Time, error) {
	v, ok := p.v.(time.Time)
	if !ok {
		return time.Time{}, errType("produceTime", p.v)
	}
	return v, nil
}

func (p *cellProducer) ProduceDate32() (arrow.Date32, error) {
	t, err := p.produceTime()
	if err != nil {
		return 0, err
	}
	return arrow.Date32(t.UTC().Unix() / 86400), nil
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

// ProduceDate64 has no SQL Server counterpart in sources/mssql/mod.rs's
// Produce table (only NaiveDate, which maps to Date32 above).
func (p *cellProducer) ProduceDate64() (arrow.Date64, error) {
	return 0, fmt.Errorf("drivers/mssql: ProduceDate64: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceDate64Opt() (*arrow.Date64, error) {
	return nil, fmt.Errorf("drivers/mssql: ProduceDate64Opt: %w", dbxport.ErrUnsupported)
}

func (p *cellProducer) ProduceTime32() (arrow.Time32, error) {
	t, err := p.produceTime()
	if err != nil {
		return 0, err
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return arrow.Time32(t.Sub(midnight).Milliseconds()), nil
}
func (p *cellProducer) ProduceTime32Opt() (*arrow.Time32, error) {
	if p.v == nil {
		return nil, nil
	}
	v, err := p.ProduceTime32()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *cellProducer) ProduceTime64() (arrow.Time64, error) {
	t, err := p.produceTime()
	if err != nil {
		return 0, err
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return arrow.Time64(t.Sub(midnight).Nanoseconds() / 1000), nil
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
	t, err := p.produceTime()
	if err != nil {
		return 0, err
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

// SQL Server has no duration or interval column types, matching
// sources/mssql/mod.rs's Produce table, which never covers them either.
func (p *cellProducer) ProduceDuration() (arrow.Duration, error) {
	return 0, fmt.Errorf("drivers/mssql: ProduceDuration: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceDurationOpt() (*arrow.Duration, error) {
	return nil, fmt.Errorf("drivers/mssql: ProduceDurationOpt: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalMonths() (arrow.MonthInterval, error) {
	return 0, fmt.Errorf("drivers/mssql: ProduceIntervalMonths: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalMonthsOpt() (*arrow.MonthInterval, error) {
	return nil, fmt.Errorf("drivers/mssql: ProduceIntervalMonthsOpt: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalDayTime() (arrow.DayTimeInterval, error) {
	return arrow.DayTimeInterval{}, fmt.Errorf("drivers/mssql: ProduceIntervalDayTime: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalDayTimeOpt() (*arrow.DayTimeInterval, error) {
	return nil, fmt.Errorf("drivers/mssql: ProduceIntervalDayTimeOpt: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalMonthDayNano() (arrow.MonthDayNanoInterval, error) {
	return arrow.MonthDayNanoInterval{}, fmt.Errorf("drivers/mssql: ProduceIntervalMonthDayNano: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceIntervalMonthDayNanoOpt() (*arrow.MonthDayNanoInterval, error) {
	return nil, fmt.Errorf("drivers/mssql: ProduceIntervalMonthDayNanoOpt: %w", dbxport.ErrUnsupported)
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

// produceDecimal mirrors sources/mssql/mod.rs's Produce<rust_decimal::Decimal>
// arm: go-mssqldb scans DECIMAL/NUMERIC/MONEY/SMALLMONEY columns as
// mssql.Decimal, whose String method renders the exact base-10 value
// tiberius's Decimal carries -- parsed back through decimal128.FromString
// rather than routed through float64, which would lose precision.
func (p *cellProducer) produceDecimal() (decimal128.Num, error) {
	d, ok := p.v.(mssql.Decimal)
	if !ok {
		return decimal128.Num{}, errType("produceDecimal", p.v)
	}
	precision, scale := int32(38), int32(0)
	if dt, ok := p.ty.(*arrow.Decimal128Type); ok {
		precision, scale = dt.Precision, dt.Scale
	}
	num, err := decimal128.FromString(d.String(), precision, scale)
	if err != nil {
		return decimal128.Num{}, fmt.Errorf("drivers/mssql: produceDecimal: %w", err)
	}
	return num, nil
}

func (p *cellProducer) ProduceDecimal128() (decimal128.Num, error) {
	return p.produceDecimal()
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

// SQL Server has no column type wide enough to need Decimal256; unsupported
// symmetric with the read side never needing it either.
func (p *cellProducer) ProduceDecimal256() (decimal256.Num, error) {
	return decimal256.Num{}, fmt.Errorf("drivers/mssql: ProduceDecimal256: %w", dbxport.ErrUnsupported)
}
func (p *cellProducer) ProduceDecimal256Opt() (*decimal256.Num, error) {
	return nil, fmt.Errorf("drivers/mssql: ProduceDecimal256Opt: %w", dbxport.ErrUnsupported)
}
