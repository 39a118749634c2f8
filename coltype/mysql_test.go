// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coltype

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/require"
)

func TestMySQLFieldTypeIntegers(t *testing.T) {
	cases := map[string]arrow.DataType{
		"tinyint(4)":   arrow.PrimitiveTypes.Int8,
		"smallint(6)":  arrow.PrimitiveTypes.Int16,
		"int(11)":      arrow.PrimitiveTypes.Int32,
		"bigint(20)":   arrow.PrimitiveTypes.Int64,
		"tinyint(1)":   arrow.FixedWidthTypes.Boolean,
		"decimal(10,2)": &arrow.Decimal128Type{Precision: 10, Scale: 2},
	}
	for dbType, want := range cases {
		got, ok := MySQLFieldType(dbType)
		require.True(t, ok, dbType)
		require.Equal(t, want, got, dbType)
	}
}

func TestMySQLFieldTypeUnknown(t *testing.T) {
	_, ok := MySQLFieldType("geometry")
	require.False(t, ok)
}

func TestMySQLDBTypeRoundTrip(t *testing.T) {
	ddl, ok := MySQLDBType(arrow.PrimitiveTypes.Int32)
	require.True(t, ok)
	require.Equal(t, "int", ddl)

	ddl, ok = MySQLDBType(&arrow.Decimal128Type{Precision: 12, Scale: 4})
	require.True(t, ok)
	require.Equal(t, "decimal(12,4)", ddl)
}
