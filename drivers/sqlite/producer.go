// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"

	"github.com/ClusterCockpit/cc-dbxport"
)

// cellProducer implements transport.Producer over one already-scanned
// database/sql value. mattn/go-sqlite3 hands back Go's own dynamic types
// (int64, float64, []byte, string, nil) per SQLite's storage classes, so
// unlike the other drivers there is no wire-level decoding here -- only
// dispatch from Go's dynamic type to the CTS-shaped Produce call the
// transport dispatcher asked for. Grounded on
// original_source/connector_arrow/src/rewrite/sqlite.rs's
// ProduceTy<T>::produce (`row.get_unwrap::<usize, T>(col)`), the rusqlite
// equivalent of Go's own `rows.Scan`.
type cellProducer struct {
	v any // the raw scanned value; nil means SQL NULL
}

func (c *cellProducer) unsupported(kind string) error {
	return fmt.Errorf("drivers/sqlite: %w: cannot produce %s from SQLite's dynamic storage classes", dbxport.ErrUnsupported, kind)
}

// errNull reports a NULL cell reaching a non-nullable Produce* call. Per
// spec §4.2, produce() must fail on NULL rather than substitute a zero
// value -- only the Opt variants may return nil.
func (c *cellProducer) errNull() error {
	return fmt.Errorf("drivers/sqlite: unexpected NULL for non-nullable column")
}

func (c *cellProducer) ProduceBool() (bool, error) {
	v, err := c.ProduceBoolOpt()
	if err != nil {
		return false, err
	}
	if v == nil {
		return false, c.errNull()
	}
	return *v, nil
}

func (c *cellProducer) ProduceBoolOpt() (*bool, error) {
	if c.v == nil {
		return nil, nil
	}
	n, ok := c.v.(int64)
	if !ok {
		return nil, c.unsupported("bool")
	}
	b := n != 0
	return &b, nil
}

func (c *cellProducer) ProduceInt8() (int8, error) {
	v, err := c.ProduceInt8Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceInt8Opt() (*int8, error) {
	n, ok, err := c.asInt64()
	if err != nil || !ok {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	v := int8(*n)
	return &v, nil
}

func (c *cellProducer) ProduceInt16() (int16, error) {
	v, err := c.ProduceInt16Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceInt16Opt() (*int16, error) {
	n, ok, err := c.asInt64()
	if err != nil || !ok {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	v := int16(*n)
	return &v, nil
}

func (c *cellProducer) ProduceInt32() (int32, error) {
	v, err := c.ProduceInt32Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceInt32Opt() (*int32, error) {
	n, ok, err := c.asInt64()
	if err != nil || !ok {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	v := int32(*n)
	return &v, nil
}

func (c *cellProducer) ProduceInt64() (int64, error) {
	v, err := c.ProduceInt64Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceInt64Opt() (*int64, error) {
	return c.asInt64()
}

func (c *cellProducer) asInt64() (*int64, bool, error) {
	if c.v == nil {
		return nil, true, nil
	}
	n, ok := c.v.(int64)
	if !ok {
		return nil, false, c.unsupported("integer")
	}
	return &n, true, nil
}

func (c *cellProducer) ProduceUint8() (uint8, error)          { return 0, c.unsupported("uint8") }
func (c *cellProducer) ProduceUint8Opt() (*uint8, error)      { return nil, c.unsupported("uint8") }
func (c *cellProducer) ProduceUint16() (uint16, error)        { return 0, c.unsupported("uint16") }
func (c *cellProducer) ProduceUint16Opt() (*uint16, error)    { return nil, c.unsupported("uint16") }
func (c *cellProducer) ProduceUint32() (uint32, error)        { return 0, c.unsupported("uint32") }
func (c *cellProducer) ProduceUint32Opt() (*uint32, error)    { return nil, c.unsupported("uint32") }
func (c *cellProducer) ProduceUint64() (uint64, error)        { return 0, c.unsupported("uint64") }
func (c *cellProducer) ProduceUint64Opt() (*uint64, error)    { return nil, c.unsupported("uint64") }

func (c *cellProducer) ProduceFloat32() (float32, error) { return 0, c.unsupported("float32") }
func (c *cellProducer) ProduceFloat32Opt() (*float32, error) {
	return nil, c.unsupported("float32")
}

func (c *cellProducer) ProduceFloat64() (float64, error) {
	v, err := c.ProduceFloat64Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceFloat64Opt() (*float64, error) {
	if c.v == nil {
		return nil, nil
	}
	f, ok := c.v.(float64)
	if !ok {
		return nil, c.unsupported("float64")
	}
	return &f, nil
}

func (c *cellProducer) ProduceDate32() (arrow.Date32, error) { return 0, c.unsupported("date32") }
func (c *cellProducer) ProduceDate32Opt() (*arrow.Date32, error) {
	return nil, c.unsupported("date32")
}
func (c *cellProducer) ProduceDate64() (arrow.Date64, error) { return 0, c.unsupported("date64") }
func (c *cellProducer) ProduceDate64Opt() (*arrow.Date64, error) {
	return nil, c.unsupported("date64")
}
func (c *cellProducer) ProduceTime32() (arrow.Time32, error) { return 0, c.unsupported("time32") }
func (c *cellProducer) ProduceTime32Opt() (*arrow.Time32, error) {
	return nil, c.unsupported("time32")
}
func (c *cellProducer) ProduceTime64() (arrow.Time64, error) { return 0, c.unsupported("time64") }
func (c *cellProducer) ProduceTime64Opt() (*arrow.Time64, error) {
	return nil, c.unsupported("time64")
}
func (c *cellProducer) ProduceTimestamp() (arrow.Timestamp, error) {
	return 0, c.unsupported("timestamp")
}
func (c *cellProducer) ProduceTimestampOpt() (*arrow.Timestamp, error) {
	return nil, c.unsupported("timestamp")
}
func (c *cellProducer) ProduceDuration() (arrow.Duration, error) { return 0, c.unsupported("duration") }
func (c *cellProducer) ProduceDurationOpt() (*arrow.Duration, error) {
	return nil, c.unsupported("duration")
}
func (c *cellProducer) ProduceIntervalMonths() (arrow.MonthInterval, error) {
	return 0, c.unsupported("interval_months")
}
func (c *cellProducer) ProduceIntervalMonthsOpt() (*arrow.MonthInterval, error) {
	return nil, c.unsupported("interval_months")
}
func (c *cellProducer) ProduceIntervalDayTime() (arrow.DayTimeInterval, error) {
	return arrow.DayTimeInterval{}, c.unsupported("interval_day_time")
}
func (c *cellProducer) ProduceIntervalDayTimeOpt() (*arrow.DayTimeInterval, error) {
	return nil, c.unsupported("interval_day_time")
}
func (c *cellProducer) ProduceIntervalMonthDayNano() (arrow.MonthDayNanoInterval, error) {
	return arrow.MonthDayNanoInterval{}, c.unsupported("interval_month_day_nano")
}
func (c *cellProducer) ProduceIntervalMonthDayNanoOpt() (*arrow.MonthDayNanoInterval, error) {
	return nil, c.unsupported("interval_month_day_nano")
}

func (c *cellProducer) ProduceBinary() ([]byte, error) {
	v, err := c.ProduceBinaryOpt()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, c.errNull()
	}
	return v, nil
}
func (c *cellProducer) ProduceBinaryOpt() ([]byte, error) {
	if c.v == nil {
		return nil, nil
	}
	b, ok := c.v.([]byte)
	if !ok {
		return nil, c.unsupported("binary")
	}
	return b, nil
}

func (c *cellProducer) ProduceString() (string, error) {
	v, err := c.ProduceStringOpt()
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceStringOpt() (*string, error) {
	if c.v == nil {
		return nil, nil
	}
	switch s := c.v.(type) {
	case string:
		return &s, nil
	case []byte:
		str := string(s)
		return &str, nil
	default:
		return nil, c.unsupported("string")
	}
}

func (c *cellProducer) ProduceDecimal128() (decimal128.Num, error) {
	return decimal128.Num{}, c.unsupported("decimal128")
}
func (c *cellProducer) ProduceDecimal128Opt() (*decimal128.Num, error) {
	return nil, c.unsupported("decimal128")
}
func (c *cellProducer) ProduceDecimal256() (decimal256.Num, error) {
	return decimal256.Num{}, c.unsupported("decimal256")
}
func (c *cellProducer) ProduceDecimal256Opt() (*decimal256.Num, error) {
	return nil, c.unsupported("decimal256")
}
