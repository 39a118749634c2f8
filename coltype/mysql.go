// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coltype

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
)

// decimalRe pulls precision/scale out of MySQL's "decimal(10,2)" /
// "numeric(10,2)" type strings.
var decimalRe = regexp.MustCompile(`^(?:decimal|numeric)\((\d+),(\d+)\)`)

// MySQLFieldType maps one column of a `DESCRIBE table` result (dbType is
// the raw "Type" string, e.g. "int(11)", "varchar(255)", "decimal(10,2)")
// into the Canonical Type System, grounded on
// original_source/connector_arrow/src/mysql/types.rs's ColumnType match
// (ported from MySQL's wire-protocol type codes to its textual DESCRIBE
// vocabulary, which is what database/sql drivers actually expose).
//
// Date/time handling resolves spec.md's open question in favor of the
// Rust original's second option: DATE/DATETIME/TIMESTAMP all become
// Timestamp(Microsecond, UTC) rather than staying textual, so downstream
// consumers get a real temporal type instead of a string to re-parse.
func MySQLFieldType(dbType string) (arrow.DataType, bool) {
	name := strings.ToLower(strings.TrimSpace(dbType))

	if m := decimalRe.FindStringSubmatch(name); m != nil {
		precision, _ := strconv.Atoi(m[1])
		scale, _ := strconv.Atoi(m[2])
		return &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}, true
	}

	switch {
	case name == "tinyint(1)" || strings.HasPrefix(name, "bool"):
		return arrow.FixedWidthTypes.Boolean, true
	case strings.HasPrefix(name, "tinyint"):
		return arrow.PrimitiveTypes.Int8, true
	case strings.HasPrefix(name, "smallint"):
		return arrow.PrimitiveTypes.Int16, true
	case strings.HasPrefix(name, "mediumint"), strings.HasPrefix(name, "int"):
		return arrow.PrimitiveTypes.Int32, true
	case strings.HasPrefix(name, "bigint"):
		return arrow.PrimitiveTypes.Int64, true
	case strings.HasPrefix(name, "float"):
		return arrow.PrimitiveTypes.Float32, true
	case strings.HasPrefix(name, "double"):
		return arrow.PrimitiveTypes.Float64, true
	case strings.HasPrefix(name, "date") || strings.HasPrefix(name, "datetime") || strings.HasPrefix(name, "timestamp"):
		return arrow.FixedWidthTypes.Timestamp_us, true
	case strings.HasPrefix(name, "time"):
		return arrow.FixedWidthTypes.Time64us, true
	case strings.HasPrefix(name, "year"):
		return arrow.PrimitiveTypes.Int16, true
	case strings.HasPrefix(name, "varchar"), strings.HasPrefix(name, "char"),
		strings.HasPrefix(name, "text"), strings.HasPrefix(name, "json"),
		strings.HasPrefix(name, "enum"), strings.HasPrefix(name, "set"):
		return arrow.BinaryTypes.String, true
	case strings.Contains(name, "blob"), strings.HasPrefix(name, "binary"), strings.HasPrefix(name, "varbinary"):
		return arrow.BinaryTypes.Binary, true
	default:
		return nil, false
	}
}

// MySQLDBType is the reverse of MySQLFieldType: the DDL column type to use
// in a CREATE TABLE statement for ty (spec §4.6's Schema Edit), grounded on
// mysql/schema.rs's table_create.
func MySQLDBType(ty arrow.DataType) (string, bool) {
	switch t := ty.(type) {
	case *arrow.BooleanType:
		return "tinyint(1)", true
	case *arrow.Int8Type:
		return "tinyint", true
	case *arrow.Int16Type:
		return "smallint", true
	case *arrow.Int32Type:
		return "int", true
	case *arrow.Int64Type:
		return "bigint", true
	case *arrow.Uint8Type:
		return "tinyint unsigned", true
	case *arrow.Uint16Type:
		return "smallint unsigned", true
	case *arrow.Uint32Type:
		return "int unsigned", true
	case *arrow.Uint64Type:
		return "bigint unsigned", true
	case *arrow.Float32Type:
		return "float", true
	case *arrow.Float64Type:
		return "double", true
	case *arrow.TimestampType:
		return "datetime(6)", true
	case *arrow.Time32Type, *arrow.Time64Type:
		return "time(6)", true
	case *arrow.Decimal128Type:
		return "decimal(" + strconv.Itoa(int(t.Precision)) + "," + strconv.Itoa(int(t.Scale)) + ")", true
	case *arrow.StringType, *arrow.LargeStringType:
		return "text", true
	case *arrow.BinaryType, *arrow.LargeBinaryType, *arrow.FixedSizeBinaryType:
		return "blob", true
	default:
		return "", false
	}
}
