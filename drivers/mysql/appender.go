// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/config"
	"github.com/ClusterCockpit/cc-dbxport/drivers/internal/sqlvalue"
	"github.com/ClusterCockpit/cc-dbxport/escape"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

// appender is the MySQL dbxport.Appender. A direct port of
// mysql/append.rs's MySQLAppender: one transaction opened in new (START
// TRANSACTION), batched "INSERT INTO t VALUES (...),(...),..." statements
// of config.Keys.InsertGroupSize (30) rows each, a single COMMIT in
// Finish.
type appender struct {
	db       *sqlx.DB
	table    string
	colNames []string
	groupSize int

	tx       *sqlx.Tx
	pending  [][]any
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
		return nil, fmt.Errorf("drivers/mysql: appender: begin: %w", err)
	}
	return &appender{
		db:        db,
		table:     table,
		colNames:  names,
		groupSize: config.Keys.InsertGroupSize,
		tx:        tx,
	}, nil
}

func (a *appender) Append(ctx context.Context, rec arrow.Record) error {
	if a.finished {
		return fmt.Errorf("drivers/mysql: appender: Append called after Finish")
	}
	nrows := int(rec.NumRows())
	ncols := int(rec.NumCols())
	for row := 0; row < nrows; row++ {
		values := make([]any, ncols)
		for col := 0; col < ncols; col++ {
			v, err := sqlvalue.Cell(rec.Column(col), row)
			if err != nil {
				return fmt.Errorf("drivers/mysql: appender: column %q: %w", a.colNames[col], err)
			}
			values[col] = v
		}
		a.pending = append(a.pending, values)
		if len(a.pending) >= a.groupSize {
			if err := a.flush(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *appender) flush(ctx context.Context) error {
	if len(a.pending) == 0 {
		return nil
	}
	ib := sq.Insert(escape.Ident(escape.Backtick, a.table)).Columns(quotedNames(a.colNames)...)
	for _, row := range a.pending {
		ib = ib.Values(row...)
	}
	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("drivers/mysql: appender: build insert: %w", err)
	}
	if _, err := a.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("drivers/mysql: appender: insert %d rows into %s: %w", len(a.pending), a.table, err)
	}
	log.Debugf("drivers/mysql: appender: staged %d rows into %s", len(a.pending), a.table)
	a.pending = a.pending[:0]
	return nil
}

func (a *appender) Finish(ctx context.Context) error {
	if a.finished {
		return nil
	}
	if err := a.flush(ctx); err != nil {
		return err
	}
	if err := a.tx.Commit(); err != nil {
		return fmt.Errorf("drivers/mysql: appender: commit: %w", err)
	}
	a.finished = true
	return nil
}

// Close rolls back the transaction if Finish was never called, matching
// spec §5's Open -> Committed appender lifecycle.
func (a *appender) Close() error {
	if a.finished {
		return nil
	}
	a.finished = true
	return a.tx.Rollback()
}

func quotedNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = escape.Ident(escape.Backtick, n)
	}
	return out
}
