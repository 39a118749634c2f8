// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/drivers/internal/sqlvalue"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

// appender is the SQL Server dbxport.Appender. There is no destination
// counterpart to sources/mssql/mod.rs in the retrieved original_source,
// so this follows go-mssqldb's own documented bulk-insert convention
// instead of a ported Rust type: mssql.CopyIn builds a special query
// string that, once prepared, streams rows through SQL Server's native
// BULK INSERT wire protocol (tds bulk load token stream) rather than
// individual parameterized INSERTs -- closer in spirit to the Postgres
// facade's binary COPY stream than to the MySQL/SQLite batched-INSERT
// fallback.
type appender struct {
	tx       *sqlx.Tx
	stmt     *sqlx.Stmt
	colNames []string

	finished bool
}

var _ dbxport.Appender = (*appender)(nil)

func newAppender(ctx context.Context, db *sqlx.DB, table string, schema *arrow.Schema) (*appender, error) {
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("drivers/mssql: appender: begin: %w", err)
	}

	bulkQuery := mssql.CopyIn(table, mssql.BulkOptions{}, names...)
	stmt, err := tx.PreparexContext(ctx, bulkQuery)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("drivers/mssql: appender: prepare bulk insert into %s: %w", table, err)
	}

	return &appender{tx: tx, stmt: stmt, colNames: names}, nil
}

func (a *appender) Append(ctx context.Context, rec arrow.Record) error {
	if a.finished {
		return fmt.Errorf("drivers/mssql: appender: Append called after Finish")
	}
	nrows := int(rec.NumRows())
	ncols := int(rec.NumCols())
	for row := 0; row < nrows; row++ {
		values := make([]any, ncols)
		for col := 0; col < ncols; col++ {
			v, err := sqlvalue.Cell(rec.Column(col), row)
			if err != nil {
				return fmt.Errorf("drivers/mssql: appender: column %q: %w", a.colNames[col], err)
			}
			values[col] = v
		}
		if _, err := a.stmt.Stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("drivers/mssql: appender: stage row: %w", err)
		}
	}
	return nil
}

// Finish flushes the bulk-load token stream with a final, argument-less
// Exec (mssql.CopyIn's documented convention for ending the batch) and
// commits the transaction.
func (a *appender) Finish(ctx context.Context) error {
	if a.finished {
		return nil
	}
	a.finished = true
	if _, err := a.stmt.Stmt.ExecContext(ctx); err != nil {
		a.tx.Rollback()
		return fmt.Errorf("drivers/mssql: appender: flush bulk insert: %w", err)
	}
	if err := a.stmt.Close(); err != nil {
		a.tx.Rollback()
		return fmt.Errorf("drivers/mssql: appender: close statement: %w", err)
	}
	if err := a.tx.Commit(); err != nil {
		return fmt.Errorf("drivers/mssql: appender: commit: %w", err)
	}
	log.Debugf("drivers/mssql: appender: committed bulk insert")
	return nil
}

// Close rolls back the transaction if Finish was never called, matching
// spec §5's Open -> Committed appender lifecycle.
func (a *appender) Close() error {
	if a.finished {
		return nil
	}
	a.finished = true
	a.stmt.Close()
	return a.tx.Rollback()
}
