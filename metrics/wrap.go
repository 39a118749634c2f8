// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"time"

	"github.com/apache/arrow/go/v17/arrow"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
)

// Wrap decorates inner with the counters/histograms declared in
// metrics.go, labeled by name (conventionally the driver package name:
// "postgres", "mysql", "sqlite", "duckdb", "mssql"). It changes no
// behavior -- every call is forwarded unchanged -- so wrapping is always
// safe to add or remove around any dbxport.Connector.
func Wrap(inner dbxport.Connector, name string) dbxport.Connector {
	return &connector{inner: inner, name: name}
}

type connector struct {
	inner dbxport.Connector
	name  string
}

var _ dbxport.Connector = (*connector)(nil)

func (c *connector) Prepare(ctx context.Context, sql string) (dbxport.Statement, error) {
	stmt, err := c.inner.Prepare(ctx, sql)
	if err != nil {
		return nil, err
	}
	return &statement{inner: stmt, name: c.name}, nil
}

func (c *connector) SchemaGet() dbxport.SchemaGet   { return c.inner.SchemaGet() }
func (c *connector) SchemaEdit() dbxport.SchemaEdit { return c.inner.SchemaEdit() }

func (c *connector) Appender(ctx context.Context, table string, schema *arrow.Schema) (dbxport.Appender, error) {
	a, err := c.inner.Appender(ctx, table, schema)
	if err != nil {
		return nil, err
	}
	return &appender{inner: a, name: c.name}, nil
}

func (c *connector) Close() error { return c.inner.Close() }

type statement struct {
	inner dbxport.Statement
	name  string
}

var _ dbxport.Statement = (*statement)(nil)

func (s *statement) Start(ctx context.Context, args ...any) (dbxport.ResultReader, error) {
	begin := time.Now()
	r, err := s.inner.Start(ctx, args...)
	queryDuration.WithLabelValues(s.name).Observe(since(begin))
	if err != nil {
		readErrors.WithLabelValues(s.name).Inc()
		return nil, err
	}
	return &resultReader{inner: r, name: s.name}, nil
}

func (s *statement) Close() error { return s.inner.Close() }

type resultReader struct {
	inner dbxport.ResultReader
	name  string
}

var _ dbxport.ResultReader = (*resultReader)(nil)

func (r *resultReader) Schema() *arrow.Schema { return r.inner.Schema() }

func (r *resultReader) NextRow() bool {
	ok := r.inner.NextRow()
	if ok {
		rowsProduced.WithLabelValues(r.name).Inc()
	} else if r.inner.Err() != nil {
		readErrors.WithLabelValues(r.name).Inc()
	}
	return ok
}

func (r *resultReader) NextCell(col int, c dbxport.Consumer) error {
	return r.inner.NextCell(col, c)
}

func (r *resultReader) Err() error { return r.inner.Err() }

func (r *resultReader) Close() error { return r.inner.Close() }

type appender struct {
	inner dbxport.Appender
	name  string
}

var _ dbxport.Appender = (*appender)(nil)

func (a *appender) Append(ctx context.Context, rec arrow.Record) error {
	begin := time.Now()
	err := a.inner.Append(ctx, rec)
	appendDuration.WithLabelValues(a.name).Observe(since(begin))
	if err != nil {
		appendErrors.WithLabelValues(a.name).Inc()
		return err
	}
	batchesFlushed.WithLabelValues(a.name).Inc()
	rowsAppended.WithLabelValues(a.name).Add(float64(rec.NumRows()))
	return nil
}

func (a *appender) Finish(ctx context.Context) error {
	begin := time.Now()
	err := a.inner.Finish(ctx)
	finishDuration.WithLabelValues(a.name).Observe(since(begin))
	if err != nil {
		appendErrors.WithLabelValues(a.name).Inc()
	}
	return err
}

func (a *appender) Close() error { return a.inner.Close() }
