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

	dbxport "github.com/ClusterCockpit/cc-dbxport"
)

func openMemory(t *testing.T) *Connector {
	t.Helper()
	c, err := Connect(context.Background(), "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestTableCreateGetDrop(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	sch := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	table := dbxport.TableIdent{Name: "widgets"}
	require.NoError(t, c.SchemaEdit().TableCreate(ctx, table, sch))

	got, err := c.SchemaGet().TableGet(ctx, table)
	require.NoError(t, err)
	require.Equal(t, 2, got.NumFields())
	require.Equal(t, "id", got.Field(0).Name)
	require.Equal(t, "name", got.Field(1).Name)

	tables, err := c.SchemaGet().TableList(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	require.Equal(t, "widgets", tables[0].Name)

	require.NoError(t, c.SchemaEdit().TableDrop(ctx, table))

	_, err = c.SchemaGet().TableGet(ctx, table)
	require.Error(t, err)
}

func TestTableCreateAlreadyExists(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	sch := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
	}, nil)
	table := dbxport.TableIdent{Name: "dupe"}

	require.NoError(t, c.SchemaEdit().TableCreate(ctx, table, sch))
	err := c.SchemaEdit().TableCreate(ctx, table, sch)
	require.Error(t, err)
	require.True(t, dbxport.IsTableExists(err))
}

func TestTableDropNonexistent(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	err := c.SchemaEdit().TableDrop(ctx, dbxport.TableIdent{Name: "ghost"})
	require.Error(t, err)
	require.True(t, dbxport.IsTableNonexistent(err))
}
