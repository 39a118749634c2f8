// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

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

// Statement is the SQL Server dbxport.Statement. sources/mssql/mod.rs's
// MsSQLReader.fetch_until_schema runs the query once and reads column
// names/types straight off the resulting tiberius::QueryResult before any
// row is consumed; database/sql's ColumnType exposes the same metadata up
// front through go-mssqldb, so Start can stream directly like the MySQL
// facade rather than buffer like SQLite's.
type Statement struct {
	stmt    *sqlx.Stmt
	sql     string
	started bool
}

var _ dbxport.Statement = (*Statement)(nil)

func (s *Statement) Start(ctx context.Context, args ...any) (dbxport.ResultReader, error) {
	if s.started {
		return nil, fmt.Errorf("drivers/mssql: statement already started: %s", s.sql)
	}
	s.started = true

	rows, err := s.stmt.Stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("drivers/mssql: start: %w", err)
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("drivers/mssql: column types: %w", err)
	}

	fields := make([]arrow.Field, len(colTypes))
	for i, ct := range colTypes {
		ty, ok := fieldTypeFromColumnType(ct)
		if !ok {
			rows.Close()
			return nil, &dbxport.CannotConvertSchema{Connector: "mssql", Column: ct.Name(), DBType: ct.DatabaseTypeName()}
		}
		nullable := true
		if n, ok := ct.Nullable(); ok {
			nullable = n
		}
		fields[i] = arrow.Field{Name: ct.Name(), Type: ty, Nullable: nullable}
	}

	return &resultReader{rows: rows, schema: arrow.NewSchema(fields, nil), fields: fields}, nil
}

func (s *Statement) Close() error { return s.stmt.Close() }

// fieldTypeFromColumnType prefers the driver-reported precision/scale for
// DECIMAL/NUMERIC/MONEY columns, the same rationale as the MySQL facade's
// equivalent helper, and otherwise delegates to coltype.MSSQLFieldType.
func fieldTypeFromColumnType(ct *sql.ColumnType) (arrow.DataType, bool) {
	name := ct.DatabaseTypeName()
	if precision, scale, ok := ct.DecimalSize(); ok {
		return &arrow.Decimal128Type{Precision: int32(precision), Scale: int32(scale)}, true
	}
	return coltype.MSSQLFieldType(name)
}

// resultReader streams a SQL Server result set row by row, the same
// shape as the MySQL facade's -- unlike sources/mssql/mod.rs's
// MsSQLStream, which buffers DB_BUFFER_SIZE rows per fetch_batch call
// to amortize its tokio::Runtime::block_on cost, database/sql's driver
// already batches rows under the hood, so there is no need to replicate
// that buffering here.
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
		r.err = fmt.Errorf("drivers/mssql: scan: %w", err)
		return false
	}
	r.current = dest
	return true
}

func (r *resultReader) NextCell(col int, c transport.Consumer) error {
	field := r.fields[col]
	return transport.Transport(field, &cellProducer{v: r.current[col], ty: field.Type}, c)
}

func (r *resultReader) Err() error { return r.err }

func (r *resultReader) Close() error { return r.rows.Close() }
