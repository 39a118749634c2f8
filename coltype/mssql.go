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

// MSSQLFieldType maps a column's `sys.types` name (as reported by
// `*sql.ColumnType.DatabaseTypeName()` through denisenkom/go-mssqldb) to a
// CTS type. No teacher or pack file covers MS SQL's catalog directly; this
// table is built from the engine's own documented type names, following
// the same "name string -> CTS" shape every other driver in this package
// uses.
func MSSQLFieldType(dbType string) (arrow.DataType, bool) {
	name := strings.ToLower(strings.TrimSpace(dbType))
	if m := decimalRe.FindStringSubmatch(name); m != nil {
		p, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		return &arrow.Decimal128Type{Precision: int32(p), Scale: int32(s)}, true
	}
	switch {
	case name == "bit":
		return arrow.FixedWidthTypes.Boolean, true
	case name == "tinyint":
		return arrow.PrimitiveTypes.Uint8, true
	case name == "smallint":
		return arrow.PrimitiveTypes.Int16, true
	case name == "int":
		return arrow.PrimitiveTypes.Int32, true
	case name == "bigint":
		return arrow.PrimitiveTypes.Int64, true
	case name == "real":
		return arrow.PrimitiveTypes.Float32, true
	case name == "float":
		return arrow.PrimitiveTypes.Float64, true
	case name == "varchar", name == "nvarchar", name == "char", name == "nchar", name == "text", name == "ntext":
		return arrow.BinaryTypes.String, true
	case name == "varbinary", name == "binary", name == "image":
		return arrow.BinaryTypes.Binary, true
	case name == "date":
		return arrow.FixedWidthTypes.Date32, true
	case name == "time":
		return arrow.FixedWidthTypes.Time64ns, true
	case name == "datetime", name == "datetime2", name == "smalldatetime":
		return arrow.FixedWidthTypes.Timestamp_ns, true
	case name == "datetimeoffset":
		return arrow.FixedWidthTypes.Timestamp_ns, true
	default:
		return nil, false
	}
}

// MSSQLDBType is the reverse of MSSQLFieldType, for SchemaEdit.TableCreate.
func MSSQLDBType(ty arrow.DataType) (string, bool) {
	switch t := ty.(type) {
	case *arrow.BooleanType:
		return "bit", true
	case *arrow.Int8Type, *arrow.Uint8Type:
		return "tinyint", true
	case *arrow.Int16Type:
		return "smallint", true
	case *arrow.Int32Type:
		return "int", true
	case *arrow.Int64Type:
		return "bigint", true
	case *arrow.Float32Type:
		return "real", true
	case *arrow.Float64Type:
		return "float", true
	case *arrow.Decimal128Type:
		return "decimal(" + strconv.Itoa(int(t.Precision)) + "," + strconv.Itoa(int(t.Scale)) + ")", true
	case *arrow.StringType, *arrow.LargeStringType:
		return "nvarchar(max)", true
	case *arrow.BinaryType, *arrow.LargeBinaryType, *arrow.FixedSizeBinaryType:
		return "varbinary(max)", true
	case *arrow.Date32Type, *arrow.Date64Type:
		return "date", true
	case *arrow.Time32Type, *arrow.Time64Type:
		return "time", true
	case *arrow.TimestampType:
		return "datetime2", true
	default:
		return "", false
	}
}
