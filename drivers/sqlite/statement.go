// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/arrowcol"
	"github.com/ClusterCockpit/cc-dbxport/coltype"
	"github.com/ClusterCockpit/cc-dbxport/rowio"
	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// Statement is the SQLite dbxport.Statement. It may be Start'ed exactly
// once, matching spec §5's Prepared -> Started(Reader) -> Drained
// lifecycle.
type Statement struct {
	stmt    *sqlx.Stmt
	sql     string
	started bool
}

var _ dbxport.Statement = (*Statement)(nil)

func (s *Statement) Start(ctx context.Context, args ...any) (dbxport.ResultReader, error) {
	if s.started {
		return nil, fmt.Errorf("drivers/sqlite: statement already started: %s", s.sql)
	}
	s.started = true

	rows, err := s.stmt.Stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("drivers/sqlite: start: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("drivers/sqlite: column types: %w", err)
	}
	n := len(colTypes)

	var buffered [][]any
	firstRow := make([]any, n)
	haveFirst := false

	for rows.Next() {
		dest := make([]any, n)
		ptrs := make([]any, n)
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("drivers/sqlite: scan: %w", err)
		}
		if !haveFirst {
			copy(firstRow, dest)
			haveFirst = true
		}
		buffered = append(buffered, dest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("drivers/sqlite: row iteration: %w", err)
	}

	fields := make([]arrow.Field, n)
	for i, ct := range colTypes {
		declType := ct.DatabaseTypeName()
		class := storageClassOf(firstRow[i])
		if !haveFirst {
			class = coltype.SQLiteNull
		}
		ty, ok := coltype.SQLiteFieldType(declType, class)
		if !ok {
			return nil, &dbxport.CannotConvertSchema{
				Connector: "sqlite",
				Column:    ct.Name(),
				DBType:    declType,
			}
		}
		fields[i] = arrow.Field{Name: ct.Name(), Type: ty, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	w := arrowcol.NewRowWriter(schema, 0)
	if err := w.PrepareForBatch(len(buffered)); err != nil {
		return nil, err
	}
	for _, row := range buffered {
		for col, field := range fields {
			p := &cellProducer{v: row[col]}
			if err := transport.Transport(field, p, w.Consumer(col)); err != nil {
				return nil, fmt.Errorf("drivers/sqlite: column %q: %w", field.Name, err)
			}
		}
		w.EndRow()
	}

	return &resultReader{PreloadedReader: rowio.NewPreloadedReader(schema, w.Finish())}, nil
}

func (s *Statement) Close() error { return s.stmt.Close() }

// storageClassOf infers a SQLite storage class from the Go value
// database/sql handed back for a dynamically-typed column, grounded on
// rewrite/sqlite.rs::convert_datatype's match over rusqlite's own
// Type enum.
func storageClassOf(v any) coltype.SQLiteStorageClass {
	switch v.(type) {
	case int64:
		return coltype.SQLiteInteger
	case float64:
		return coltype.SQLiteReal
	case string:
		return coltype.SQLiteText
	case []byte:
		return coltype.SQLiteBlob
	default:
		return coltype.SQLiteNull
	}
}

type resultReader struct {
	*rowio.PreloadedReader
}

var _ dbxport.ResultReader = (*resultReader)(nil)
