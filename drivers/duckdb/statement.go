// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/coltype"
	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// Statement is the DuckDB dbxport.Statement. Unlike the Postgres facade,
// there is no native batched-cursor protocol to drive here: go-duckdb
// streams database/sql rows directly off the embedded engine, so Start
// just runs the query and wraps *sql.Rows.
type Statement struct {
	db      *sqlx.DB
	sql     string
	started bool
}

var _ dbxport.Statement = (*Statement)(nil)

func (s *Statement) Start(ctx context.Context, args ...any) (dbxport.ResultReader, error) {
	if s.started {
		return nil, fmt.Errorf("drivers/duckdb: statement already started: %s", s.sql)
	}
	s.started = true

	rows, err := s.db.QueryContext(ctx, s.sql, args...)
	if err != nil {
		return nil, fmt.Errorf("drivers/duckdb: start: %w", err)
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("drivers/duckdb: column types: %w", err)
	}

	fields := make([]arrow.Field, len(colTypes))
	for i, ct := range colTypes {
		ty, ok := fieldTypeFromColumnType(ct)
		if !ok {
			rows.Close()
			return nil, &dbxport.CannotConvertSchema{Connector: "duckdb", Column: ct.Name(), DBType: ct.DatabaseTypeName()}
		}
		nullable := true
		if n, ok := ct.Nullable(); ok {
			nullable = n
		}
		fields[i] = arrow.Field{Name: ct.Name(), Type: ty, Nullable: nullable}
	}

	return &resultReader{rows: rows, schema: arrow.NewSchema(fields, nil), fields: fields}, nil
}

func (s *Statement) Close() error { return nil }

// fieldTypeFromColumnType prefers the driver-reported precision/scale for
// DECIMAL columns, same rationale as the MySQL facade's equivalent helper,
// and otherwise delegates to coltype.DuckDBFieldType.
func fieldTypeFromColumnType(ct *sql.ColumnType) (arrow.DataType, bool) {
	name := ct.DatabaseTypeName()
	if precision, scale, ok := ct.DecimalSize(); ok {
		return &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}, true
	}
	return coltype.DuckDBFieldType(name)
}

// resultReader streams a DuckDB result set row by row, the same shape as
// the MySQL facade's.
type resultReader struct {
	rows   *sql.Rows
	schema *arrow.Schema
	fields []arrow.Field

	current []any
	err     error
}

var _ dbxport.ResultReader = (*resultReader)(nil)

func (r *resultReader) Schema() *arrow.Schema { return r.schema }

func (r *resultReader) NextRow() bool {
	if r.err != nil {
		return false
	}
	if !r.rows.Next() {
		r.err = r.rows.Err()
		return false
	}
	n := len(r.fields)
	dest := make([]any, n)
	ptrs := make([]any, n)
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.err = fmt.Errorf("drivers/duckdb: scan: %w", err)
		return false
	}
	r.current = dest
	return true
}

func (r *resultReader) NextCell(col int, c transport.Consumer) error {
	return transport.Transport(r.fields[col], &cellProducer{v: r.current[col]}, c)
}

func (r *resultReader) Err() error { return r.err }

func (r *resultReader) Close() error { return r.rows.Close() }
