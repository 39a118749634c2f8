// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport moves one cell at a time between a driver-side Producer
// and an Arrow-side Consumer, dispatched by the cell's Canonical Type System
// variant. It is the Go rendering of connector_arrow's
// rewrite/transport.rs: rather than a trait-object per (type, nullability)
// pair, Go gets one wide Producer/Consumer interface pair and a single
// type-switch dispatcher.
package transport

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/decimal256"
)

// Producer reads the current cell of a driver cursor. A given Producer
// implementation only ever needs the methods that correspond to the CTS
// variants its driver actually emits; the rest can return ErrUnsupported.
//
// Binary/LargeBinary/FixedSizeBinary share ProduceBinary: Arrow's offset
// width is a storage detail, not part of the driver-native representation.
// Utf8/LargeUtf8 share ProduceString for the same reason.
type Producer interface {
	ProduceBool() (bool, error)
	ProduceBoolOpt() (*bool, error)

	ProduceInt8() (int8, error)
	ProduceInt8Opt() (*int8, error)
	ProduceInt16() (int16, error)
	ProduceInt16Opt() (*int16, error)
	ProduceInt32() (int32, error)
	ProduceInt32Opt() (*int32, error)
	ProduceInt64() (int64, error)
	ProduceInt64Opt() (*int64, error)

	ProduceUint8() (uint8, error)
	ProduceUint8Opt() (*uint8, error)
	ProduceUint16() (uint16, error)
	ProduceUint16Opt() (*uint16, error)
	ProduceUint32() (uint32, error)
	ProduceUint32Opt() (*uint32, error)
	ProduceUint64() (uint64, error)
	ProduceUint64Opt() (*uint64, error)

	ProduceFloat32() (float32, error)
	ProduceFloat32Opt() (*float32, error)
	ProduceFloat64() (float64, error)
	ProduceFloat64Opt() (*float64, error)

	ProduceDate32() (arrow.Date32, error)
	ProduceDate32Opt() (*arrow.Date32, error)
	ProduceDate64() (arrow.Date64, error)
	ProduceDate64Opt() (*arrow.Date64, error)

	ProduceTime32() (arrow.Time32, error)
	ProduceTime32Opt() (*arrow.Time32, error)
	ProduceTime64() (arrow.Time64, error)
	ProduceTime64Opt() (*arrow.Time64, error)

	ProduceTimestamp() (arrow.Timestamp, error)
	ProduceTimestampOpt() (*arrow.Timestamp, error)

	ProduceDuration() (arrow.Duration, error)
	ProduceDurationOpt() (*arrow.Duration, error)

	ProduceIntervalMonths() (arrow.MonthInterval, error)
	ProduceIntervalMonthsOpt() (*arrow.MonthInterval, error)
	ProduceIntervalDayTime() (arrow.DayTimeInterval, error)
	ProduceIntervalDayTimeOpt() (*arrow.DayTimeInterval, error)
	ProduceIntervalMonthDayNano() (arrow.MonthDayNanoInterval, error)
	ProduceIntervalMonthDayNanoOpt() (*arrow.MonthDayNanoInterval, error)

	// ProduceBinary returns nil for SQL NULL on the Opt path; a non-nil,
	// zero-length slice is a distinct empty-but-present value.
	ProduceBinary() ([]byte, error)
	ProduceBinaryOpt() ([]byte, error)

	ProduceString() (string, error)
	ProduceStringOpt() (*string, error)

	ProduceDecimal128() (decimal128.Num, error)
	ProduceDecimal128Opt() (*decimal128.Num, error)
	ProduceDecimal256() (decimal256.Num, error)
	ProduceDecimal256Opt() (*decimal256.Num, error)
}

// Consumer receives a transported cell and is responsible for placing it
// wherever it belongs (an Arrow builder, a driver bind parameter, ...). ty
// is the field's concrete arrow.DataType, passed so one Consumer
// implementation can disambiguate FixedSizeBinary widths, decimal
// precision/scale, and timestamp/duration/time units without needing a
// method per width.
type Consumer interface {
	ConsumeNull(ty arrow.DataType) error

	ConsumeBool(ty arrow.DataType, v bool) error
	ConsumeBoolOpt(ty arrow.DataType, v *bool) error

	ConsumeInt8(ty arrow.DataType, v int8) error
	ConsumeInt8Opt(ty arrow.DataType, v *int8) error
	ConsumeInt16(ty arrow.DataType, v int16) error
	ConsumeInt16Opt(ty arrow.DataType, v *int16) error
	ConsumeInt32(ty arrow.DataType, v int32) error
	ConsumeInt32Opt(ty arrow.DataType, v *int32) error
	ConsumeInt64(ty arrow.DataType, v int64) error
	ConsumeInt64Opt(ty arrow.DataType, v *int64) error

	ConsumeUint8(ty arrow.DataType, v uint8) error
	ConsumeUint8Opt(ty arrow.DataType, v *uint8) error
	ConsumeUint16(ty arrow.DataType, v uint16) error
	ConsumeUint16Opt(ty arrow.DataType, v *uint16) error
	ConsumeUint32(ty arrow.DataType, v uint32) error
	ConsumeUint32Opt(ty arrow.DataType, v *uint32) error
	ConsumeUint64(ty arrow.DataType, v uint64) error
	ConsumeUint64Opt(ty arrow.DataType, v *uint64) error

	ConsumeFloat32(ty arrow.DataType, v float32) error
	ConsumeFloat32Opt(ty arrow.DataType, v *float32) error
	ConsumeFloat64(ty arrow.DataType, v float64) error
	ConsumeFloat64Opt(ty arrow.DataType, v *float64) error

	ConsumeDate32(ty arrow.DataType, v arrow.Date32) error
	ConsumeDate32Opt(ty arrow.DataType, v *arrow.Date32) error
	ConsumeDate64(ty arrow.DataType, v arrow.Date64) error
	ConsumeDate64Opt(ty arrow.DataType, v *arrow.Date64) error

	ConsumeTime32(ty arrow.DataType, v arrow.Time32) error
	ConsumeTime32Opt(ty arrow.DataType, v *arrow.Time32) error
	ConsumeTime64(ty arrow.DataType, v arrow.Time64) error
	ConsumeTime64Opt(ty arrow.DataType, v *arrow.Time64) error

	ConsumeTimestamp(ty arrow.DataType, v arrow.Timestamp) error
	ConsumeTimestampOpt(ty arrow.DataType, v *arrow.Timestamp) error

	ConsumeDuration(ty arrow.DataType, v arrow.Duration) error
	ConsumeDurationOpt(ty arrow.DataType, v *arrow.Duration) error

	ConsumeIntervalMonths(ty arrow.DataType, v arrow.MonthInterval) error
	ConsumeIntervalMonthsOpt(ty arrow.DataType, v *arrow.MonthInterval) error
	ConsumeIntervalDayTime(ty arrow.DataType, v arrow.DayTimeInterval) error
	ConsumeIntervalDayTimeOpt(ty arrow.DataType, v *arrow.DayTimeInterval) error
	ConsumeIntervalMonthDayNano(ty arrow.DataType, v arrow.MonthDayNanoInterval) error
	ConsumeIntervalMonthDayNanoOpt(ty arrow.DataType, v *arrow.MonthDayNanoInterval) error

	ConsumeBinary(ty arrow.DataType, v []byte) error
	ConsumeBinaryOpt(ty arrow.DataType, v []byte) error

	ConsumeString(ty arrow.DataType, v string) error
	ConsumeStringOpt(ty arrow.DataType, v *string) error

	ConsumeDecimal128(ty arrow.DataType, v decimal128.Num) error
	ConsumeDecimal128Opt(ty arrow.DataType, v *decimal128.Num) error
	ConsumeDecimal256(ty arrow.DataType, v decimal256.Num) error
	ConsumeDecimal256Opt(ty arrow.DataType, v *decimal256.Num) error
}

// Transport moves one cell of field from p to c, dispatched on field's type
// ID and nullability. It is the single place that knows how CTS variants map
// onto Producer/Consumer method pairs; drivers and row writers never
// type-switch on arrow.DataType themselves.
func Transport(field arrow.Field, p Producer, c Consumer) error {
	ty := field.Type
	if field.Nullable {
		return transportOpt(ty, p, c)
	}
	return transportReq(ty, p, c)
}

func transportReq(ty arrow.DataType, p Producer, c Consumer) error {
	switch ty.ID() {
	case arrow.NULL:
		// A non-nullable Null-typed field is a degenerate schema; there is
		// no non-null value a Null column can ever hold.
		return fmt.Errorf("transport: column of type Null cannot be non-nullable")
	case arrow.BOOL:
		v, err := p.ProduceBool()
		if err != nil {
			return err
		}
		return c.ConsumeBool(ty, v)
	case arrow.INT8:
		v, err := p.ProduceInt8()
		if err != nil {
			return err
		}
		return c.ConsumeInt8(ty, v)
	case arrow.INT16:
		v, err := p.ProduceInt16()
		if err != nil {
			return err
		}
		return c.ConsumeInt16(ty, v)
	case arrow.INT32:
		v, err := p.ProduceInt32()
		if err != nil {
			return err
		}
		return c.ConsumeInt32(ty, v)
	case arrow.INT64:
		v, err := p.ProduceInt64()
		if err != nil {
			return err
		}
		return c.ConsumeInt64(ty, v)
	case arrow.UINT8:
		v, err := p.ProduceUint8()
		if err != nil {
			return err
		}
		return c.ConsumeUint8(ty, v)
	case arrow.UINT16:
		v, err := p.ProduceUint16()
		if err != nil {
			return err
		}
		return c.ConsumeUint16(ty, v)
	case arrow.UINT32:
		v, err := p.ProduceUint32()
		if err != nil {
			return err
		}
		return c.ConsumeUint32(ty, v)
	case arrow.UINT64:
		v, err := p.ProduceUint64()
		if err != nil {
			return err
		}
		return c.ConsumeUint64(ty, v)
	case arrow.FLOAT32:
		v, err := p.ProduceFloat32()
		if err != nil {
			return err
		}
		return c.ConsumeFloat32(ty, v)
	case arrow.FLOAT64:
		v, err := p.ProduceFloat64()
		if err != nil {
			return err
		}
		return c.ConsumeFloat64(ty, v)
	case arrow.DATE32:
		v, err := p.ProduceDate32()
		if err != nil {
			return err
		}
		return c.ConsumeDate32(ty, v)
	case arrow.DATE64:
		v, err := p.ProduceDate64()
		if err != nil {
			return err
		}
		return c.ConsumeDate64(ty, v)
	case arrow.TIME32:
		v, err := p.ProduceTime32()
		if err != nil {
			return err
		}
		return c.ConsumeTime32(ty, v)
	case arrow.TIME64:
		v, err := p.ProduceTime64()
		if err != nil {
			return err
		}
		return c.ConsumeTime64(ty, v)
	case arrow.TIMESTAMP:
		v, err := p.ProduceTimestamp()
		if err != nil {
			return err
		}
		return c.ConsumeTimestamp(ty, v)
	case arrow.DURATION:
		v, err := p.ProduceDuration()
		if err != nil {
			return err
		}
		return c.ConsumeDuration(ty, v)
	case arrow.INTERVAL_MONTHS:
		v, err := p.ProduceIntervalMonths()
		if err != nil {
			return err
		}
		return c.ConsumeIntervalMonths(ty, v)
	case arrow.INTERVAL_DAY_TIME:
		v, err := p.ProduceIntervalDayTime()
		if err != nil {
			return err
		}
		return c.ConsumeIntervalDayTime(ty, v)
	case arrow.INTERVAL_MONTH_DAY_NANO:
		v, err := p.ProduceIntervalMonthDayNano()
		if err != nil {
			return err
		}
		return c.ConsumeIntervalMonthDayNano(ty, v)
	case arrow.BINARY, arrow.LARGE_BINARY, arrow.FIXED_SIZE_BINARY:
		v, err := p.ProduceBinary()
		if err != nil {
			return err
		}
		return c.ConsumeBinary(ty, v)
	case arrow.STRING, arrow.LARGE_STRING:
		v, err := p.ProduceString()
		if err != nil {
			return err
		}
		return c.ConsumeString(ty, v)
	case arrow.DECIMAL128:
		v, err := p.ProduceDecimal128()
		if err != nil {
			return err
		}
		return c.ConsumeDecimal128(ty, v)
	case arrow.DECIMAL256:
		v, err := p.ProduceDecimal256()
		if err != nil {
			return err
		}
		return c.ConsumeDecimal256(ty, v)
	default:
		return fmt.Errorf("transport: %w: %s", errUnsupportedType, ty)
	}
}

func transportOpt(ty arrow.DataType, p Producer, c Consumer) error {
	switch ty.ID() {
	case arrow.NULL:
		return c.ConsumeNull(ty)
	case arrow.BOOL:
		v, err := p.ProduceBoolOpt()
		if err != nil {
			return err
		}
		return c.ConsumeBoolOpt(ty, v)
	case arrow.INT8:
		v, err := p.ProduceInt8Opt()
		if err != nil {
			return err
		}
		return c.ConsumeInt8Opt(ty, v)
	case arrow.INT16:
		v, err := p.ProduceInt16Opt()
		if err != nil {
			return err
		}
		return c.ConsumeInt16Opt(ty, v)
	case arrow.INT32:
		v, err := p.ProduceInt32Opt()
		if err != nil {
			return err
		}
		return c.ConsumeInt32Opt(ty, v)
	case arrow.INT64:
		v, err := p.ProduceInt64Opt()
		if err != nil {
			return err
		}
		return c.ConsumeInt64Opt(ty, v)
	case arrow.UINT8:
		v, err := p.ProduceUint8Opt()
		if err != nil {
			return err
		}
		return c.ConsumeUint8Opt(ty, v)
	case arrow.UINT16:
		v, err := p.ProduceUint16Opt()
		if err != nil {
			return err
		}
		return c.ConsumeUint16Opt(ty, v)
	case arrow.UINT32:
		v, err := p.ProduceUint32Opt()
		if err != nil {
			return err
		}
		return c.ConsumeUint32Opt(ty, v)
	case arrow.UINT64:
		v, err := p.ProduceUint64Opt()
		if err != nil {
			return err
		}
		return c.ConsumeUint64Opt(ty, v)
	case arrow.FLOAT32:
		v, err := p.ProduceFloat32Opt()
		if err != nil {
			return err
		}
		return c.ConsumeFloat32Opt(ty, v)
	case arrow.FLOAT64:
		v, err := p.ProduceFloat64Opt()
		if err != nil {
			return err
		}
		return c.ConsumeFloat64Opt(ty, v)
	case arrow.DATE32:
		v, err := p.ProduceDate32Opt()
		if err != nil {
			return err
		}
		return c.ConsumeDate32Opt(ty, v)
	case arrow.DATE64:
		v, err := p.ProduceDate64Opt()
		if err != nil {
			return err
		}
		return c.ConsumeDate64Opt(ty, v)
	case arrow.TIME32:
		v, err := p.ProduceTime32Opt()
		if err != nil {
			return err
		}
		return c.ConsumeTime32Opt(ty, v)
	case arrow.TIME64:
		v, err := p.ProduceTime64Opt()
		if err != nil {
			return err
		}
		return c.ConsumeTime64Opt(ty, v)
	case arrow.TIMESTAMP:
		v, err := p.ProduceTimestampOpt()
		if err != nil {
			return err
		}
		return c.ConsumeTimestampOpt(ty, v)
	case arrow.DURATION:
		v, err := p.ProduceDurationOpt()
		if err != nil {
			return err
		}
		return c.ConsumeDurationOpt(ty, v)
	case arrow.INTERVAL_MONTHS:
		v, err := p.ProduceIntervalMonthsOpt()
		if err != nil {
			return err
		}
		return c.ConsumeIntervalMonthsOpt(ty, v)
	case arrow.INTERVAL_DAY_TIME:
		v, err := p.ProduceIntervalDayTimeOpt()
		if err != nil {
			return err
		}
		return c.ConsumeIntervalDayTimeOpt(ty, v)
	case arrow.INTERVAL_MONTH_DAY_NANO:
		v, err := p.ProduceIntervalMonthDayNanoOpt()
		if err != nil {
			return err
		}
		return c.ConsumeIntervalMonthDayNanoOpt(ty, v)
	case arrow.BINARY, arrow.LARGE_BINARY, arrow.FIXED_SIZE_BINARY:
		v, err := p.ProduceBinaryOpt()
		if err != nil {
			return err
		}
		return c.ConsumeBinaryOpt(ty, v)
	case arrow.STRING, arrow.LARGE_STRING:
		v, err := p.ProduceStringOpt()
		if err != nil {
			return err
		}
		return c.ConsumeStringOpt(ty, v)
	case arrow.DECIMAL128:
		v, err := p.ProduceDecimal128Opt()
		if err != nil {
			return err
		}
		return c.ConsumeDecimal128Opt(ty, v)
	case arrow.DECIMAL256:
		v, err := p.ProduceDecimal256Opt()
		if err != nil {
			return err
		}
		return c.ConsumeDecimal256Opt(ty, v)
	default:
		return fmt.Errorf("transport: %w: %s", errUnsupportedType, ty)
	}
}
