// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"context"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/require"
)

func TestStatementStartInfersSchemaAndReplaysRows(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	_, err := c.db.ExecContext(ctx, `CREATE TABLE t (id INTEGER, label TEXT, score REAL)`)
	require.NoError(t, err)
	_, err = c.db.ExecContext(ctx, `INSERT INTO t VALUES (1, 'a', 1.5), (2, 'b', 2.5), (3, NULL, NULL)`)
	require.NoError(t, err)

	stmt, err := c.Prepare(ctx, `SELECT id, label, score FROM t ORDER BY id`)
	require.NoError(t, err)
	defer stmt.Close()

	reader, err := stmt.Start(ctx)
	require.NoError(t, err)
	defer reader.Close()

	sch := reader.Schema()
	require.Equal(t, 3, sch.NumFields())
	require.Equal(t, arrow.INT64, sch.Field(0).Type.ID())
	require.Equal(t, arrow.LARGE_STRING, sch.Field(1).Type.ID())
	require.Equal(t, arrow.FLOAT64, sch.Field(2).Type.ID())

	rows := 0
	for reader.NextRow() {
		rows++
	}
	require.NoError(t, reader.Err())
	require.Equal(t, 3, rows)
}

func TestStatementStartEmptyResultNoDeclaredType(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	// A computed column with no declared type and no rows (the WHERE 0
	// guarantees emptiness) gives the schema inference neither a type
	// affinity nor a first-row storage class to fall back on, so it
	// defaults to Null rather than failing.
	stmt, err := c.Prepare(ctx, `SELECT NULL AS x WHERE 0`)
	require.NoError(t, err)
	defer stmt.Close()

	reader, err := stmt.Start(ctx)
	require.NoError(t, err)
	require.Equal(t, arrow.NULL, reader.Schema().Field(0).Type.ID())
	require.True(t, reader.Schema().Field(0).Nullable)
}

func TestStatementDoubleStartRejected(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	_, err := c.db.ExecContext(ctx, `CREATE TABLE u (id INTEGER)`)
	require.NoError(t, err)
	_, err = c.db.ExecContext(ctx, `INSERT INTO u VALUES (1)`)
	require.NoError(t, err)

	stmt, err := c.Prepare(ctx, `SELECT id FROM u`)
	require.NoError(t, err)
	defer stmt.Close()

	_, err = stmt.Start(ctx)
	require.NoError(t, err)

	_, err = stmt.Start(ctx)
	require.Error(t, err)
}
