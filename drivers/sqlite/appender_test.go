// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"context"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
)

func buildIntStringRecord(mem memory.Allocator, sch *arrow.Schema, ids []int64, names []string) arrow.Record {
	idB := array.NewInt64Builder(mem)
	nameB := array.NewBuilder(mem, sch.Field(1).Type).(*array.StringBuilder)
	for i := range ids {
		idB.Append(ids[i])
		nameB.Append(names[i])
	}
	idArr := idB.NewArray()
	nameArr := nameB.NewArray()
	defer idArr.Release()
	defer nameArr.Release()
	return array.NewRecord(sch, []arrow.Array{idArr, nameArr}, int64(len(ids)))
}

func TestAppenderMultiBatchFlushAcrossGroupBoundary(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	sch := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: false},
	}, nil)
	table := dbxport.TableIdent{Name: "loaded"}
	require.NoError(t, c.SchemaEdit().TableCreate(ctx, table, sch))

	app, err := c.Appender(ctx, table.Name, sch)
	require.NoError(t, err)

	mem := memory.NewGoAllocator()
	// Two records straddling the default 30-row group size so Append
	// exercises an in-flight flush, not just the final Finish flush.
	first := buildIntStringRecord(mem, sch, seqInt64(1, 20), seqStrings(1, 20))
	second := buildIntStringRecord(mem, sch, seqInt64(21, 10), seqStrings(21, 10))
	defer first.Release()
	defer second.Release()

	require.NoError(t, app.Append(ctx, first))
	require.NoError(t, app.Append(ctx, second))
	require.NoError(t, app.Finish(ctx))
	require.NoError(t, app.Close())

	var count int
	require.NoError(t, c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM loaded`))
	require.Equal(t, 30, count)
}

func TestAppenderCloseWithoutFinishRollsBack(t *testing.T) {
	c := openMemory(t)
	ctx := context.Background()

	sch := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: false},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: false},
	}, nil)
	table := dbxport.TableIdent{Name: "aborted"}
	require.NoError(t, c.SchemaEdit().TableCreate(ctx, table, sch))

	app, err := c.Appender(ctx, table.Name, sch)
	require.NoError(t, err)

	mem := memory.NewGoAllocator()
	rec := buildIntStringRecord(mem, sch, seqInt64(1, 5), seqStrings(1, 5))
	defer rec.Release()

	require.NoError(t, app.Append(ctx, rec))
	require.NoError(t, app.Close())

	var count int
	require.NoError(t, c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM aborted`))
	require.Equal(t, 0, count)
}

func seqInt64(start int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = start + int64(i)
	}
	return out
}

func seqStrings(start int, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "row"
	}
	return out
}
