// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package arrowcol

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"
)

// builderConsumer implements transport.Consumer over a single column's
// array.Builder. One is created per column in NewRowWriter; the concrete
// builder type is fixed for the lifetime of the writer, so every method
// below does exactly one type assertion and either appends or reports a
// schema mismatch.
type builderConsumer struct {
	builder array.Builder
	field   arrow.Field
}

func (c *builderConsumer) mismatch(want string) error {
	return fmt.Errorf("arrowcol: column %q: builder is %T, cannot consume %s", c.field.Name, c.builder, want)
}

func (c *builderConsumer) ConsumeNull(ty arrow.DataType) error {
	c.builder.AppendNull()
	return nil
}

func (c *builderConsumer) ConsumeBool(ty arrow.DataType, v bool) error {
	b, ok := c.builder.(*array.BooleanBuilder)
	if !ok {
		return c.mismatch("bool")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeBoolOpt(ty arrow.DataType, v *bool) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeBool(ty, *v)
}

func (c *builderConsumer) ConsumeInt8(ty arrow.DataType, v int8) error {
	b, ok := c.builder.(*array.Int8Builder)
	if !ok {
		return c.mismatch("int8")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeInt8Opt(ty arrow.DataType, v *int8) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeInt8(ty, *v)
}

func (c *builderConsumer) ConsumeInt16(ty arrow.DataType, v int16) error {
	b, ok := c.builder.(*array.Int16Builder)
	if !ok {
		return c.mismatch("int16")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeInt16Opt(ty arrow.DataType, v *int16) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeInt16(ty, *v)
}

func (c *builderConsumer) ConsumeInt32(ty arrow.DataType, v int32) error {
	b, ok := c.builder.(*array.Int32Builder)
	if !ok {
		return c.mismatch("int32")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeInt32Opt(ty arrow.DataType, v *int32) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeInt32(ty, *v)
}

func (c *builderConsumer) ConsumeInt64(ty arrow.DataType, v int64) error {
	b, ok := c.builder.(*array.Int64Builder)
	if !ok {
		return c.mismatch("int64")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeInt64Opt(ty arrow.DataType, v *int64) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeInt64(ty, *v)
}

func (c *builderConsumer) ConsumeUint8(ty arrow.DataType, v uint8) error {
	b, ok := c.builder.(*array.Uint8Builder)
	if !ok {
		return c.mismatch("uint8")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeUint8Opt(ty arrow.DataType, v *uint8) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeUint8(ty, *v)
}

func (c *builderConsumer) ConsumeUint16(ty arrow.DataType, v uint16) error {
	b, ok := c.builder.(*array.Uint16Builder)
	if !ok {
		return c.mismatch("uint16")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeUint16Opt(ty arrow.DataType, v *uint16) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeUint16(ty, *v)
}

func (c *builderConsumer) ConsumeUint32(ty arrow.DataType, v uint32) error {
	b, ok := c.builder.(*array.Uint32Builder)
	if !ok {
		return c.mismatch("uint32")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeUint32Opt(ty arrow.DataType, v *uint32) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeUint32(ty, *v)
}

func (c *builderConsumer) ConsumeUint64(ty arrow.DataType, v uint64) error {
	b, ok := c.builder.(*array.Uint64Builder)
	if !ok {
		return c.mismatch("uint64")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeUint64Opt(ty arrow.DataType, v *uint64) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeUint64(ty, *v)
}

func (c *builderConsumer) ConsumeFloat32(ty arrow.DataType, v float32) error {
	b, ok := c.builder.(*array.Float32Builder)
	if !ok {
		return c.mismatch("float32")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeFloat32Opt(ty arrow.DataType, v *float32) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeFloat32(ty, *v)
}

func (c *builderConsumer) ConsumeFloat64(ty arrow.DataType, v float64) error {
	b, ok := c.builder.(*array.Float64Builder)
	if !ok {
		return c.mismatch("float64")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeFloat64Opt(ty arrow.DataType, v *float64) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeFloat64(ty, *v)
}

func (c *builderConsumer) ConsumeDate32(ty arrow.DataType, v arrow.Date32) error {
	b, ok := c.builder.(*array.Date32Builder)
	if !ok {
		return c.mismatch("date32")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeDate32Opt(ty arrow.DataType, v *arrow.Date32) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeDate32(ty, *v)
}

func (c *builderConsumer) ConsumeDate64(ty arrow.DataType, v arrow.Date64) error {
	b, ok := c.builder.(*array.Date64Builder)
	if !ok {
		return c.mismatch("date64")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeDate64Opt(ty arrow.DataType, v *arrow.Date64) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeDate64(ty, *v)
}

func (c *builderConsumer) ConsumeTime32(ty arrow.DataType, v arrow.Time32) error {
	b, ok := c.builder.(*array.Time32Builder)
	if !ok {
		return c.mismatch("time32")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeTime32Opt(ty arrow.DataType, v *arrow.Time32) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeTime32(ty, *v)
}

func (c *builderConsumer) ConsumeTime64(ty arrow.DataType, v arrow.Time64) error {
	b, ok := c.builder.(*array.Time64Builder)
	if !ok {
		return c.mismatch("time64")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeTime64Opt(ty arrow.DataType, v *arrow.Time64) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeTime64(ty, *v)
}

func (c *builderConsumer) ConsumeTimestamp(ty arrow.DataType, v arrow.Timestamp) error {
	b, ok := c.builder.(*array.TimestampBuilder)
	if !ok {
		return c.mismatch("timestamp")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeTimestampOpt(ty arrow.DataType, v *arrow.Timestamp) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeTimestamp(ty, *v)
}

func (c *builderConsumer) ConsumeDuration(ty arrow.DataType, v arrow.Duration) error {
	b, ok := c.builder.(*array.DurationBuilder)
	if !ok {
		return c.mismatch("duration")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeDurationOpt(ty arrow.DataType, v *arrow.Duration) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeDuration(ty, *v)
}

func (c *builderConsumer) ConsumeIntervalMonths(ty arrow.DataType, v arrow.MonthInterval) error {
	b, ok := c.builder.(*array.MonthIntervalBuilder)
	if !ok {
		return c.mismatch("interval_months")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeIntervalMonthsOpt(ty arrow.DataType, v *arrow.MonthInterval) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeIntervalMonths(ty, *v)
}

func (c *builderConsumer) ConsumeIntervalDayTime(ty arrow.DataType, v arrow.DayTimeInterval) error {
	b, ok := c.builder.(*array.DayTimeIntervalBuilder)
	if !ok {
		return c.mismatch("interval_day_time")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeIntervalDayTimeOpt(ty arrow.DataType, v *arrow.DayTimeInterval) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeIntervalDayTime(ty, *v)
}

func (c *builderConsumer) ConsumeIntervalMonthDayNano(ty arrow.DataType, v arrow.MonthDayNanoInterval) error {
	b, ok := c.builder.(*array.MonthDayNanoIntervalBuilder)
	if !ok {
		return c.mismatch("interval_month_day_nano")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeIntervalMonthDayNanoOpt(ty arrow.DataType, v *arrow.MonthDayNanoInterval) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeIntervalMonthDayNano(ty, *v)
}

func (c *builderConsumer) ConsumeBinary(ty arrow.DataType, v []byte) error {
	switch b := c.builder.(type) {
	case *array.BinaryBuilder:
		b.Append(v)
		return nil
	case *array.FixedSizeBinaryBuilder:
		fsb, ok := ty.(*arrow.FixedSizeBinaryType)
		if ok && len(v) != fsb.ByteWidth {
			return fmt.Errorf("arrowcol: column %q: fixed-size binary width %d, got %d bytes", c.field.Name, fsb.ByteWidth, len(v))
		}
		b.Append(v)
		return nil
	default:
		return c.mismatch("binary")
	}
}

func (c *builderConsumer) ConsumeBinaryOpt(ty arrow.DataType, v []byte) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeBinary(ty, v)
}

func (c *builderConsumer) ConsumeString(ty arrow.DataType, v string) error {
	switch b := c.builder.(type) {
	case *array.StringBuilder:
		b.Append(v)
		return nil
	case *array.LargeStringBuilder:
		b.Append(v)
		return nil
	default:
		return c.mismatch("string")
	}
}

func (c *builderConsumer) ConsumeStringOpt(ty arrow.DataType, v *string) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeString(ty, *v)
}

func (c *builderConsumer) ConsumeDecimal128(ty arrow.DataType, v decimal128.Num) error {
	b, ok := c.builder.(*array.Decimal128Builder)
	if !ok {
		return c.mismatch("decimal128")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeDecimal128Opt(ty arrow.DataType, v *decimal128.Num) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeDecimal128(ty, *v)
}

func (c *builderConsumer) ConsumeDecimal256(ty arrow.DataType, v decimal256.Num) error {
	b, ok := c.builder.(*array.Decimal256Builder)
	if !ok {
		return c.mismatch("decimal256")
	}
	b.Append(v)
	return nil
}

func (c *builderConsumer) ConsumeDecimal256Opt(ty arrow.DataType, v *decimal256.Num) error {
	if v == nil {
		c.builder.AppendNull()
		return nil
	}
	return c.ConsumeDecimal256(ty, *v)
}
