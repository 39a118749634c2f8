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

func TestSQLiteFieldTypeDeclAffinity(t *testing.T) {
	ty, ok := SQLiteFieldType("INTEGER", SQLiteNull)
	require.True(t, ok)
	require.Equal(t, arrow.INT64, ty.ID())

	ty, ok = SQLiteFieldType("VARCHAR(255)", SQLiteNull)
	require.True(t, ok)
	require.Equal(t, arrow.LARGE_STRING, ty.ID())

	ty, ok = SQLiteFieldType("BOOLEAN", SQLiteNull)
	require.True(t, ok)
	require.Equal(t, arrow.BOOL, ty.ID())
}

func TestSQLiteFieldTypeStorageClassFallback(t *testing.T) {
	ty, ok := SQLiteFieldType("", SQLiteInteger)
	require.True(t, ok)
	require.Equal(t, arrow.INT64, ty.ID())

	ty, ok = SQLiteFieldType("", SQLiteReal)
	require.True(t, ok)
	require.Equal(t, arrow.FLOAT64, ty.ID())

	ty, ok = SQLiteFieldType("", SQLiteNull)
	require.True(t, ok)
	require.Equal(t, arrow.NULL, ty.ID())
}
