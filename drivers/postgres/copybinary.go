// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/internal/pgnumeric"
)

// copyHeader is the fixed 19-byte preamble of Postgres's binary COPY
// format: signature, flags (no OIDs, no compression), zero-length header
// extension.
var copyHeader = func() []byte {
	var b bytes.Buffer
	b.WriteString("PGCOPY\n\xff\r\n\x00")
	binary.Write(&b, binary.BigEndian, int32(0))
	binary.Write(&b, binary.BigEndian, int32(0))
	return b.Bytes()
}()

// copyTrailer is the two-byte field-count sentinel (-1) that ends a COPY
// binary stream.
var copyTrailer = []byte{0xff, 0xff}

// durationToY2000Micros is the offset, in microseconds, subtracted from a
// time since the Unix epoch to rebase it onto Postgres's 2000-01-01 epoch,
// matching query.rs/append.rs's DUR_1970_TO_2000_SEC
// rebasing (here applied in the opposite direction, for writes).
const durationToY2000Micros = int64(10957) * 24 * 60 * 60 * 1_000_000

// encodeField appends one cell's binary COPY payload (no length prefix)
// to scratch, grounded on append.rs's impl_consume_ty! table. It reports
// isNull=true for SQL NULL and Arrow's Null type, matching to_sql's check
// on `self.array.is_null(row) || matches!(field.data_type(), Null)`.
func encodeField(scratch *bytes.Buffer, field arrow.Field, arr arrow.Array, row int) (isNull bool, err error) {
	if arr.IsNull(row) || field.Type.ID() == arrow.NULL {
		return true, nil
	}

	switch a := arr.(type) {
	case *array.Boolean:
		if a.Value(row) {
			scratch.WriteByte(1)
		} else {
			scratch.WriteByte(0)
		}
	case *array.Int8:
		writeInt16(scratch, int16(a.Value(row)))
	case *array.Int16:
		writeInt16(scratch, a.Value(row))
	case *array.Int32:
		writeInt32(scratch, a.Value(row))
	case *array.Int64:
		writeInt64(scratch, a.Value(row))
	case *array.Uint8:
		writeInt16(scratch, int16(a.Value(row)))
	case *array.Uint16:
		writeInt32(scratch, int32(a.Value(row)))
	case *array.Uint32:
		writeInt64(scratch, int64(a.Value(row)))
	case *array.Uint64:
		// No signed 8-byte integer can hold the full uint64 range, so this
		// is written as NUMERIC(*,0), matching append.rs's ConsumeTy<UInt64Type>.
		scratch.Write(pgnumeric.EncodeBigInt(new(big.Int).SetUint64(a.Value(row)), 0))
	case *array.Float32:
		writeInt32(scratch, int32(math.Float32bits(a.Value(row))))
	case *array.Float64:
		writeInt64(scratch, int64(math.Float64bits(a.Value(row))))
	case *array.Date32:
		writeInt32(scratch, int32(a.Value(row))-dur1970To2000Days)
	case *array.Time32:
		micros, uerr := time32Micros(field.Type, a.Value(row))
		if uerr != nil {
			return false, uerr
		}
		writeInt64(scratch, micros)
	case *array.Time64:
		micros, uerr := time64Micros(field.Type, a.Value(row))
		if uerr != nil {
			return false, uerr
		}
		writeInt64(scratch, micros)
	case *array.Timestamp:
		micros, uerr := timestampMicros(field.Type, a.Value(row))
		if uerr != nil {
			return false, uerr
		}
		writeInt64(scratch, micros-durationToY2000Micros)
	case *array.String:
		scratch.WriteString(a.Value(row))
	case *array.LargeString:
		scratch.WriteString(a.Value(row))
	case *array.Binary:
		scratch.Write(a.Value(row))
	case *array.LargeBinary:
		scratch.Write(a.Value(row))
	case *array.FixedSizeBinary:
		scratch.Write(a.Value(row))
	case *array.Decimal128:
		dt := field.Type.(*arrow.Decimal128Type)
		scratch.Write(pgnumeric.Encode(a.Value(row), int16(dt.Scale)))
	case *array.Decimal256:
		dt := field.Type.(*arrow.Decimal256Type)
		scratch.Write(pgnumeric.EncodeDecimal256(a.Value(row), int16(dt.Scale)))
	default:
		return false, fmt.Errorf("drivers/postgres: appender: column %q: %w (%s)", field.Name, dbxport.ErrUnsupported, field.Type)
	}
	return false, nil
}

func writeInt16(b *bytes.Buffer, v int16) { binary.Write(b, binary.BigEndian, v) }
func writeInt32(b *bytes.Buffer, v int32) { binary.Write(b, binary.BigEndian, v) }
func writeInt64(b *bytes.Buffer, v int64) { binary.Write(b, binary.BigEndian, v) }

const dur1970To2000Days = 10957

func time32Micros(ty arrow.DataType, v arrow.Time32) (int64, error) {
	t, ok := ty.(*arrow.Time32Type)
	if !ok {
		return 0, fmt.Errorf("drivers/postgres: appender: not a time32 type: %s", ty)
	}
	switch t.Unit {
	case arrow.Second:
		return int64(v) * 1_000_000, nil
	case arrow.Millisecond:
		return int64(v) * 1_000, nil
	}
	return 0, fmt.Errorf("drivers/postgres: appender: unsupported time32 unit %s: %w", ty, dbxport.ErrUnsupported)
}

func time64Micros(ty arrow.DataType, v arrow.Time64) (int64, error) {
	t, ok := ty.(*arrow.Time64Type)
	if !ok {
		return 0, fmt.Errorf("drivers/postgres: appender: not a time64 type: %s", ty)
	}
	switch t.Unit {
	case arrow.Microsecond:
		return int64(v), nil
	case arrow.Nanosecond:
		return int64(v) / 1_000, nil
	}
	return 0, fmt.Errorf("drivers/postgres: appender: unsupported time64 unit %s: %w", ty, dbxport.ErrUnsupported)
}

func timestampMicros(ty arrow.DataType, v arrow.Timestamp) (int64, error) {
	t, ok := ty.(*arrow.TimestampType)
	if !ok {
		return 0, fmt.Errorf("drivers/postgres: appender: not a timestamp type: %s", ty)
	}
	switch t.Unit {
	case arrow.Second:
		return int64(v) * 1_000_000, nil
	case arrow.Millisecond:
		return int64(v) * 1_000, nil
	case arrow.Microsecond:
		return int64(v), nil
	case arrow.Nanosecond:
		return int64(v) / 1_000, nil
	}
	return 0, fmt.Errorf("drivers/postgres: appender: unsupported timestamp unit %s: %w", ty, dbxport.ErrUnsupported)
}
