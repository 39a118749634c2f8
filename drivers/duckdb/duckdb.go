// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package duckdb is the DuckDB driver facade, grounded on
// original_source/connector_arrow/src/duckdb/*. DuckDB's own Rust crate
// hands back whole Arrow RecordBatches from query_arrow, but
// marcboeker/go-duckdb only exposes the embedded engine through
// database/sql (see other_examples' go-mizu-mizu DuckDB stores, which all
// open it via sql.Open("duckdb", path)), so reads here go through the
// ordinary Statement/ResultReader path like the MySQL facade. Writes stay
// close to the original: append.rs pushes rows one at a time through
// duckdb::Appender, and go-duckdb exposes that same native Appender type,
// so Appender here drives it directly instead of falling back to batched
// INSERT statements.
package duckdb

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"

	_ "github.com/marcboeker/go-duckdb"
)

// Connector is the DuckDB dbxport.Connector.
type Connector struct {
	db *sqlx.DB
}

var _ dbxport.Connector = (*Connector)(nil)

// Connect opens dsn (a file path, or ":memory:") through go-duckdb,
// pooled the way other_examples' drive store tunes its DuckDB connection
// (SetMaxOpenConns(10), SetMaxIdleConns(5)). Unlike the SQLite facade,
// DuckDB's embedded engine is safe for concurrent readers so there is no
// need to cap MaxOpenConns at 1.
func Connect(ctx context.Context, dsn string) (*Connector, error) {
	db, err := sqlx.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("drivers/duckdb: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("drivers/duckdb: ping: %w", err)
	}
	log.Debugf("drivers/duckdb: connected")
	return &Connector{db: db}, nil
}

func (c *Connector) Prepare(ctx context.Context, query string) (dbxport.Statement, error) {
	return &Statement{db: c.db, sql: query}, nil
}

func (c *Connector) SchemaGet() dbxport.SchemaGet   { return &schema{db: c.db} }
func (c *Connector) SchemaEdit() dbxport.SchemaEdit { return &schema{db: c.db} }

func (c *Connector) Appender(ctx context.Context, table string, sch *arrow.Schema) (dbxport.Appender, error) {
	return newAppender(ctx, c.db, table, sch)
}

func (c *Connector) Close() error { return c.db.Close() }
