// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/require"
)

func TestNumericPrecisionScale(t *testing.T) {
	// Postgres packs NUMERIC(12,4) as ((12<<16)|4)+4.
	typmod := int32(((12 << 16) | 4) + 4)
	p, s := numericPrecisionScale(typmod)
	require.Equal(t, int32(12), p)
	require.Equal(t, int32(4), s)
}

func TestNumericPrecisionScaleUndeclared(t *testing.T) {
	p, s := numericPrecisionScale(-1)
	require.Zero(t, p)
	require.Zero(t, s)
}

func TestOidNameKnownType(t *testing.T) {
	// 23 is the well-known OID for pg_type "int4".
	require.Equal(t, "int4", oidName(23))
}

func TestOidNameUnknownFallsBackToOidNumber(t *testing.T) {
	require.Equal(t, "oid(999999999)", oidName(999999999))
}

func TestFieldTypeNumericUsesPrecisionScale(t *testing.T) {
	typmod := int32(((10 << 16) | 2) + 4)
	ty, ok, err := fieldType(1700 /* numeric */, typmod)
	require.NoError(t, err)
	require.True(t, ok)
	dt, isDecimal := ty.(*arrow.Decimal128Type)
	require.True(t, isDecimal)
	require.Equal(t, int32(10), dt.Precision)
	require.Equal(t, int32(2), dt.Scale)
}
