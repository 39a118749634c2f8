// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dbxport

import (
	"context"
	"errors"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/require"
)

// fakeReader yields len(values) rows of a single int32 column, transporting
// each cell directly via the Consumer's ConsumeInt32 rather than going
// through a transport.Producer -- QueryOne/QueryMany only depend on
// ResultReader's shape, not on any particular driver's cell conversion.
type fakeReader struct {
	schema *arrow.Schema
	values []int32
	pos    int
}

func (r *fakeReader) Schema() *arrow.Schema { return r.schema }

func (r *fakeReader) NextRow() bool {
	if r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeReader) NextCell(col int, c Consumer) error {
	field := r.schema.Field(col)
	return c.ConsumeInt32(field.Type, r.values[r.pos-1])
}

func (r *fakeReader) Err() error   { return nil }
func (r *fakeReader) Close() error { return nil }

type fakeStatement struct {
	schema *arrow.Schema
	values []int32
}

func (s *fakeStatement) Start(ctx context.Context, args ...any) (ResultReader, error) {
	return &fakeReader{schema: s.schema, values: s.values}, nil
}
func (s *fakeStatement) Close() error { return nil }

type fakeQueryConnector struct {
	schema *arrow.Schema
	values []int32
	closed bool
}

func (c *fakeQueryConnector) Prepare(ctx context.Context, sql string) (Statement, error) {
	return &fakeStatement{schema: c.schema, values: c.values}, nil
}
func (c *fakeQueryConnector) SchemaGet() SchemaGet   { return nil }
func (c *fakeQueryConnector) SchemaEdit() SchemaEdit { return nil }
func (c *fakeQueryConnector) Appender(ctx context.Context, table string, schema *arrow.Schema) (Appender, error) {
	return nil, errors.New("not implemented")
}
func (c *fakeQueryConnector) Close() error { c.closed = true; return nil }

func newFakeConnector(values []int32) *fakeQueryConnector {
	schema := arrow.NewSchema([]arrow.Field{{Name: "n", Type: arrow.PrimitiveTypes.Int32}}, nil)
	return &fakeQueryConnector{schema: schema, values: values}
}

func TestQueryOneCollectsAllRows(t *testing.T) {
	conn := newFakeConnector([]int32{1, 2, 3})
	records, err := QueryOne(context.Background(), conn, "select n from t")
	require.NoError(t, err)

	var total int64
	for _, rec := range records {
		total += rec.NumRows()
		rec.Release()
	}
	require.Equal(t, int64(3), total)
}

func TestQueryOneEmptyResult(t *testing.T) {
	conn := newFakeConnector(nil)
	records, err := QueryOne(context.Background(), conn, "select n from t where 1 = 0")
	require.NoError(t, err)
	for _, rec := range records {
		rec.Release()
	}
	require.Empty(t, records)
}

func TestQueryManyRunsEveryQueryOnItsOwnConnection(t *testing.T) {
	var opened int
	connFactory := func(ctx context.Context) (Connector, error) {
		opened++
		return newFakeConnector([]int32{1, 2}), nil
	}

	results, err := QueryMany(context.Background(), connFactory, []string{"q1", "q2", "q3"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, 3, opened)

	for _, recs := range results {
		for _, rec := range recs {
			rec.Release()
		}
	}
}

func TestQueryManyPropagatesConnectError(t *testing.T) {
	connFactory := func(ctx context.Context) (Connector, error) {
		return nil, errors.New("connect boom")
	}

	_, err := QueryMany(context.Background(), connFactory, []string{"q1"})
	require.Error(t, err)
}
