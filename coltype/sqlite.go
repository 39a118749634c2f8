// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coltype

import (
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
)

// SQLiteStorageClass names the five storage classes SQLite's dynamic type
// system actually stores values as (https://www.sqlite.org/datatype3.html).
type SQLiteStorageClass string

const (
	SQLiteInteger SQLiteStorageClass = "integer"
	SQLiteReal    SQLiteStorageClass = "real"
	SQLiteText    SQLiteStorageClass = "text"
	SQLiteBlob    SQLiteStorageClass = "blob"
	SQLiteNull    SQLiteStorageClass = "null"
)

// SQLiteFieldType picks a CTS type for a SQLite column, first from its
// declared type affinity (declType, as written in CREATE TABLE) and, should
// that be absent or unrecognized, from the storage class of the first
// non-null value observed (firstVal). Declared-type rules are grounded on
// https://www.sqlite.org/datatype3.html#affname via
// rewrite/sqlite.rs::convert_decl_name; the storage-class fallback is
// rewrite/sqlite.rs::convert_datatype. Unlike the Rust original, declType
// empty/unrecognized combined with firstVal == SQLiteNull does not fail:
// per spec, a column observed as entirely null defaults to a Null-typed,
// all-null column instead of an unconvertible-schema error. SQLiteFieldType
// therefore never returns ok=false for that combination; ok=false is
// reserved for genuinely unreachable cases and kept in the return shape for
// symmetry with the other drivers' field-type lookups.
func SQLiteFieldType(declType string, firstVal SQLiteStorageClass) (arrow.DataType, bool) {
	if ty, ok := sqliteDeclType(declType); ok {
		return ty, true
	}
	return sqliteStorageClassType(firstVal)
}

func sqliteDeclType(declType string) (arrow.DataType, bool) {
	name := strings.ToLower(strings.TrimSpace(declType))
	if name == "" {
		return nil, false
	}
	switch name {
	case "int4":
		return arrow.PrimitiveTypes.Int32, true
	case "int2":
		return arrow.PrimitiveTypes.Int16, true
	case "boolean", "bool":
		return arrow.FixedWidthTypes.Boolean, true
	}
	switch {
	case strings.Contains(name, "int"):
		return arrow.PrimitiveTypes.Int64, true
	case strings.Contains(name, "char"), strings.Contains(name, "clob"), strings.Contains(name, "text"):
		return arrow.BinaryTypes.LargeString, true
	case strings.Contains(name, "real"), strings.Contains(name, "floa"), strings.Contains(name, "doub"):
		return arrow.PrimitiveTypes.Float64, true
	case strings.Contains(name, "blob"):
		return arrow.BinaryTypes.LargeBinary, true
	}
	return nil, false
}

func sqliteStorageClassType(class SQLiteStorageClass) (arrow.DataType, bool) {
	switch class {
	case SQLiteInteger:
		return arrow.PrimitiveTypes.Int64, true
	case SQLiteReal:
		return arrow.PrimitiveTypes.Float64, true
	case SQLiteText:
		return arrow.BinaryTypes.LargeString, true
	case SQLiteBlob:
		return arrow.BinaryTypes.LargeBinary, true
	default:
		// first value was NULL (or there was no first value at all): the
		// column's type cannot be inferred from data, so it defaults to
		// Null rather than failing.
		return &arrow.NullType{}, true
	}
}
