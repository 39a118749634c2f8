// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
)

// fakeAppender records every record it is asked to append; it implements
// dbxport.Appender directly so Wrap's behavior can be checked without a
// live driver.
type fakeAppender struct {
	rows int
}

func (a *fakeAppender) Append(ctx context.Context, rec arrow.Record) error {
	a.rows += int(rec.NumRows())
	return nil
}
func (a *fakeAppender) Finish(ctx context.Context) error { return nil }
func (a *fakeAppender) Close() error                     { return nil }

type fakeConnector struct {
	appender *fakeAppender
}

func (c *fakeConnector) Prepare(ctx context.Context, sql string) (dbxport.Statement, error) {
	return nil, nil
}
func (c *fakeConnector) SchemaGet() dbxport.SchemaGet   { return nil }
func (c *fakeConnector) SchemaEdit() dbxport.SchemaEdit { return nil }
func (c *fakeConnector) Appender(ctx context.Context, table string, schema *arrow.Schema) (dbxport.Appender, error) {
	return c.appender, nil
}
func (c *fakeConnector) Close() error { return nil }

func TestWrapAppenderCountsRowsAndBatches(t *testing.T) {
	pool := memory.NewGoAllocator()
	ib := array.NewInt32Builder(pool)
	ib.Append(1)
	ib.Append(2)
	ib.Append(3)
	col := ib.NewInt32Array()
	defer col.Release()

	sch := arrow.NewSchema([]arrow.Field{{Name: "n", Type: arrow.PrimitiveTypes.Int32}}, nil)
	rec := array.NewRecord(sch, []arrow.Array{col}, 3)
	defer rec.Release()

	inner := &fakeConnector{appender: &fakeAppender{}}
	wrapped := Wrap(inner, "faketest")

	a, err := wrapped.Appender(context.Background(), "t", sch)
	require.NoError(t, err)
	require.NoError(t, a.Append(context.Background(), rec))
	require.NoError(t, a.Finish(context.Background()))

	require.Equal(t, 3, inner.appender.rows)
	require.Equal(t, float64(3), testutil.ToFloat64(rowsAppended.WithLabelValues("faketest")))
	require.Equal(t, float64(1), testutil.ToFloat64(batchesFlushed.WithLabelValues("faketest")))
}
