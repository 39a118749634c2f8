// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coltype

import (
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
)

// DuckDBFieldType maps one of DuckDB's `DESCRIBE`/catalog type names to a
// CTS type. DuckDB's own storage format is columnar Arrow-adjacent, so its
// type names map almost one-to-one; grounded on the variant catalog
// original_source/connector_arrow/src/duckdb/append.rs enumerates. This is
// the read-side mapping only: of the types it returns, the date, time,
// interval and decimal ones are refused by drivers/duckdb's appender
// (the impl_consume_unsupported! list of duckdb/append.rs).
func DuckDBFieldType(dbType string) (arrow.DataType, bool) {
	name := strings.ToUpper(strings.TrimSpace(dbType))
	if m := decimalRe.FindStringSubmatch(strings.ToLower(name)); m != nil {
		p, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		return &arrow.Decimal128Type{Precision: int32(p), Scale: int32(s)}, true
	}
	switch name {
	case "BOOLEAN", "BOOL":
		return arrow.FixedWidthTypes.Boolean, true
	case "TINYINT":
		return arrow.PrimitiveTypes.Int8, true
	case "SMALLINT":
		return arrow.PrimitiveTypes.Int16, true
	case "INTEGER":
		return arrow.PrimitiveTypes.Int32, true
	case "BIGINT":
		return arrow.PrimitiveTypes.Int64, true
	case "UTINYINT":
		return arrow.PrimitiveTypes.Uint8, true
	case "USMALLINT":
		return arrow.PrimitiveTypes.Uint16, true
	case "UINTEGER":
		return arrow.PrimitiveTypes.Uint32, true
	case "UBIGINT":
		return arrow.PrimitiveTypes.Uint64, true
	case "FLOAT":
		return arrow.PrimitiveTypes.Float32, true
	case "DOUBLE":
		return arrow.PrimitiveTypes.Float64, true
	case "VARCHAR", "TEXT":
		return arrow.BinaryTypes.String, true
	case "BLOB":
		return arrow.BinaryTypes.Binary, true
	case "DATE":
		return arrow.FixedWidthTypes.Date32, true
	case "TIME":
		return arrow.FixedWidthTypes.Time64us, true
	case "TIMESTAMP":
		return arrow.FixedWidthTypes.Timestamp_us, true
	case "INTERVAL":
		return arrow.FixedWidthTypes.MonthDayNanoInterval, true
	default:
		return nil, false
	}
}

// DuckDBDBType is the reverse of DuckDBFieldType, for SchemaEdit.TableCreate.
func DuckDBDBType(ty arrow.DataType) (string, bool) {
	switch t := ty.(type) {
	case *arrow.BooleanType:
		return "BOOLEAN", true
	case *arrow.Int8Type:
		return "TINYINT", true
	case *arrow.Int16Type:
		return "SMALLINT", true
	case *arrow.Int32Type:
		return "INTEGER", true
	case *arrow.Int64Type:
		return "BIGINT", true
	case *arrow.Uint8Type:
		return "UTINYINT", true
	case *arrow.Uint16Type:
		return "USMALLINT", true
	case *arrow.Uint32Type:
		return "UINTEGER", true
	case *arrow.Uint64Type:
		return "UBIGINT", true
	case *arrow.Float32Type:
		return "FLOAT", true
	case *arrow.Float64Type:
		return "DOUBLE", true
	case *arrow.Decimal128Type:
		return decimalDDL(t.Precision, t.Scale), true
	case *arrow.StringType, *arrow.LargeStringType:
		return "VARCHAR", true
	case *arrow.BinaryType, *arrow.LargeBinaryType, *arrow.FixedSizeBinaryType:
		return "BLOB", true
	case *arrow.Date32Type, *arrow.Date64Type:
		return "DATE", true
	case *arrow.Time32Type, *arrow.Time64Type:
		return "TIME", true
	case *arrow.TimestampType:
		return "TIMESTAMP", true
	case *arrow.MonthIntervalType, *arrow.DayTimeIntervalType, *arrow.MonthDayNanoIntervalType:
		return "INTERVAL", true
	default:
		return "", false
	}
}
