// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coltype

import (
	"strconv"

	"github.com/apache/arrow/go/v17/arrow"
)

// postgresToArrow maps pg_catalog type names to CTS variants, grounded on
// original_source/connector_arrow/src/postgres/types.rs's
// type_db_into_arrow (the actual per-name table lives in that crate's
// mod.rs, not retrieved into this pack, so the entries below are rebuilt
// from the standard pg_type catalog names Postgres itself reports via
// `Type::name()`).
var postgresToArrow = map[string]arrow.DataType{
	"bool":        arrow.FixedWidthTypes.Boolean,
	"int2":        arrow.PrimitiveTypes.Int16,
	"int4":        arrow.PrimitiveTypes.Int32,
	"int8":        arrow.PrimitiveTypes.Int64,
	"float4":      arrow.PrimitiveTypes.Float32,
	"float8":      arrow.PrimitiveTypes.Float64,
	"text":        arrow.BinaryTypes.String,
	"varchar":     arrow.BinaryTypes.String,
	"bpchar":      arrow.BinaryTypes.String,
	"name":        arrow.BinaryTypes.String,
	"json":        arrow.BinaryTypes.String,
	"jsonb":       arrow.BinaryTypes.String,
	"uuid":        arrow.BinaryTypes.String,
	"bytea":       arrow.BinaryTypes.Binary,
	"date":        arrow.FixedWidthTypes.Date32,
	"time":        arrow.FixedWidthTypes.Time64us,
	"timetz":      arrow.FixedWidthTypes.Time64us,
	"timestamp":   arrow.FixedWidthTypes.Timestamp_us,
	"timestamptz": arrow.FixedWidthTypes.Timestamp_us,
	"interval":    arrow.FixedWidthTypes.MonthDayNanoInterval,
}

// PostgresFieldType maps a pg_type name to a CTS type. numeric/decimal
// types are handled separately by PostgresNumericType since they need
// precision/scale from pg_attribute's atttypmod, not just the bare name.
func PostgresFieldType(dbType string) (arrow.DataType, bool) {
	ty, ok := postgresToArrow[dbType]
	return ty, ok
}

// PostgresNumericType builds the Decimal128 (or Decimal256, for precision
// beyond what Decimal128 can hold) type for a NUMERIC(precision,scale)
// column. Postgres allows NUMERIC with no declared precision ("NUMERIC"
// bare); callers pass precision<=0 for that case and get Decimal128(38,0)
// as the widest lossless default the spec's Decimal128 variant supports.
func PostgresNumericType(precision, scale int32) arrow.DataType {
	if precision <= 0 {
		precision = 38
	}
	if precision > 38 {
		return &arrow.Decimal256Type{Precision: precision, Scale: scale}
	}
	return &arrow.Decimal128Type{Precision: precision, Scale: scale}
}

// PostgresDBType is the reverse mapping used by SchemaEdit.TableCreate,
// grounded on postgres/schema.rs's table_create (type_arrow_into_db).
func PostgresDBType(ty arrow.DataType) (string, bool) {
	switch t := ty.(type) {
	case *arrow.BooleanType:
		return "boolean", true
	case *arrow.Int8Type, *arrow.Int16Type, *arrow.Uint8Type:
		return "smallint", true
	case *arrow.Int32Type:
		return "integer", true
	case *arrow.Int64Type:
		return "bigint", true
	case *arrow.Uint16Type:
		return "integer", true
	case *arrow.Uint32Type:
		return "bigint", true
	case *arrow.Uint64Type:
		return "numeric(20,0)", true
	case *arrow.Float32Type:
		return "real", true
	case *arrow.Float64Type:
		return "double precision", true
	case *arrow.Decimal128Type:
		return decimalDDL(t.Precision, t.Scale), true
	case *arrow.Decimal256Type:
		return decimalDDL(t.Precision, t.Scale), true
	case *arrow.StringType, *arrow.LargeStringType:
		return "text", true
	case *arrow.BinaryType, *arrow.LargeBinaryType, *arrow.FixedSizeBinaryType:
		return "bytea", true
	case *arrow.Date32Type, *arrow.Date64Type:
		return "date", true
	case *arrow.Time32Type, *arrow.Time64Type:
		return "time", true
	case *arrow.TimestampType:
		if t.TimeZone != "" {
			return "timestamptz", true
		}
		return "timestamp", true
	case *arrow.MonthIntervalType, *arrow.DayTimeIntervalType, *arrow.MonthDayNanoIntervalType:
		return "interval", true
	default:
		return "", false
	}
}

func decimalDDL(precision, scale int32) string {
	return "numeric(" + strconv.Itoa(int(precision)) + "," + strconv.Itoa(int(scale)) + ")"
}
