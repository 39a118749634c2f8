// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
)

// cellProducer implements transport.Producer over one database/sql value
// scanned from a MySQL row. go-sql-driver/mysql hands numeric and string
// columns back as []byte unless the column already resolved to an int64
// or float64, so cellProducer type-switches both forms the way
// original_source/connector_arrow/src/mysql/query.rs's
// ProduceTy<'_, $t>::produce dispatches over mysql::Value's variants.
type cellProducer struct {
	v any
}

func (c *cellProducer) unsupported(kind string) error {
	return fmt.Errorf("drivers/mysql: %w: cannot produce %s", dbxport.ErrUnsupported, kind)
}

// errNull reports a NULL cell reaching a non-nullable Produce* call. Per
// spec §4.2, produce() must fail on NULL rather than substitute a zero
// value -- only the Opt variants may return nil.
func (c *cellProducer) errNull() error {
	return fmt.Errorf("drivers/mysql: unexpected NULL for non-nullable column")
}

func (c *cellProducer) asInt64() (*int64, error) {
	switch v := c.v.(type) {
	case nil:
		return nil, nil
	case int64:
		return &v, nil
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("drivers/mysql: parse integer %q: %w", v, err)
		}
		return &n, nil
	default:
		return nil, c.unsupported("integer")
	}
}

func (c *cellProducer) asFloat64() (*float64, error) {
	switch v := c.v.(type) {
	case nil:
		return nil, nil
	case float64:
		return &v, nil
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return nil, fmt.Errorf("drivers/mysql: parse float %q: %w", v, err)
		}
		return &f, nil
	default:
		return nil, c.unsupported("float")
	}
}

func (c *cellProducer) asString() (*string, error) {
	switch v := c.v.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case []byte:
		s := string(v)
		return &s, nil
	default:
		return nil, c.unsupported("string")
	}
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
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
	}
	b := *n != 0
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
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
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
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
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
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
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
func (c *cellProducer) ProduceInt64Opt() (*int64, error) { return c.asInt64() }

func (c *cellProducer) ProduceUint8() (uint8, error) {
	v, err := c.ProduceUint8Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceUint8Opt() (*uint8, error) {
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
	}
	v := uint8(*n)
	return &v, nil
}

func (c *cellProducer) ProduceUint16() (uint16, error) {
	v, err := c.ProduceUint16Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceUint16Opt() (*uint16, error) {
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
	}
	v := uint16(*n)
	return &v, nil
}

func (c *cellProducer) ProduceUint32() (uint32, error) {
	v, err := c.ProduceUint32Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceUint32Opt() (*uint32, error) {
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
	}
	v := uint32(*n)
	return &v, nil
}

func (c *cellProducer) ProduceUint64() (uint64, error) {
	v, err := c.ProduceUint64Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceUint64Opt() (*uint64, error) {
	n, err := c.asInt64()
	if err != nil || n == nil {
		return nil, err
	}
	v := uint64(*n)
	return &v, nil
}

func (c *cellProducer) ProduceFloat32() (float32, error) {
	v, err := c.ProduceFloat32Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceFloat32Opt() (*float32, error) {
	f, err := c.asFloat64()
	if err != nil || f == nil {
		return nil, err
	}
	v := float32(*f)
	return &v, nil
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
func (c *cellProducer) ProduceFloat64Opt() (*float64, error) { return c.asFloat64() }

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

func (c *cellProducer) ProduceTime64() (arrow.Time64, error) {
	v, err := c.ProduceTime64Opt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceTime64Opt() (*arrow.Time64, error) {
	if c.v == nil {
		return nil, nil
	}
	b, ok := c.v.([]byte)
	if !ok {
		return nil, c.unsupported("time64")
	}
	d, err := time.ParseDuration(normalizeMySQLDuration(string(b)))
	if err != nil {
		return nil, fmt.Errorf("drivers/mysql: parse TIME %q: %w", b, err)
	}
	v := arrow.Time64(d.Microseconds())
	return &v, nil
}

func (c *cellProducer) ProduceTimestamp() (arrow.Timestamp, error) {
	v, err := c.ProduceTimestampOpt()
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, c.errNull()
	}
	return *v, nil
}
func (c *cellProducer) ProduceTimestampOpt() (*arrow.Timestamp, error) {
	if c.v == nil {
		return nil, nil
	}
	var t time.Time
	switch v := c.v.(type) {
	case time.Time:
		t = v
	case []byte:
		parsed, err := time.Parse("2006-01-02 15:04:05.999999", string(v))
		if err != nil {
			return nil, fmt.Errorf("drivers/mysql: parse datetime %q: %w", v, err)
		}
		t = parsed
	default:
		return nil, c.unsupported("timestamp")
	}
	ts := arrow.Timestamp(t.UnixMicro())
	return &ts, nil
}

func (c *cellProducer) ProduceDuration() (arrow.Duration, error) {
	return 0, c.unsupported("duration")
}
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
	return append([]byte(nil), b...), nil
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
func (c *cellProducer) ProduceStringOpt() (*string, error) { return c.asString() }

func (c *cellProducer) ProduceDecimal128() (decimal128.Num, error) {
	v, err := c.ProduceDecimal128Opt()
	if v == nil {
		return decimal128.Num{}, err
	}
	return *v, err
}
func (c *cellProducer) ProduceDecimal128Opt() (*decimal128.Num, error) {
	return nil, c.unsupported("decimal128 (use the string-bytes decimal DESCRIBE string instead)")
}
func (c *cellProducer) ProduceDecimal256() (decimal256.Num, error) {
	return decimal256.Num{}, c.unsupported("decimal256")
}
func (c *cellProducer) ProduceDecimal256Opt() (*decimal256.Num, error) {
	return nil, c.unsupported("decimal256")
}

// normalizeMySQLDuration turns MySQL's "-838:59:59" TIME text into a
// Go-parseable duration string ("-838h59m59s").
func normalizeMySQLDuration(s string) string {
	neg := ""
	if len(s) > 0 && s[0] == '-' {
		neg = "-"
		s = s[1:]
	}
	var h, m, sec string
	parts := splitTime(s)
	if len(parts) == 3 {
		h, m, sec = parts[0], parts[1], parts[2]
	}
	return fmt.Sprintf("%s%sh%sm%ss", neg, h, m, sec)
}

func splitTime(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
