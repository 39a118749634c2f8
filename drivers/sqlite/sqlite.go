// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sqlite is the SQLite driver facade: mattn/go-sqlite3 wrapped in
// qustavo/sqlhooks/v2 for query/latency logging, opened through jmoiron/sqlx,
// exactly as cc-backend's internal/repository/dbConnection.go registers
// "sqlite3WithHooks". Because SQLite's per-row dynamic typing means a
// result set's schema cannot be pinned down before every row has been
// seen, Statement.Start buffers the whole result into arrow.Records up
// front (rowio.PreloadedReader) rather than streaming -- the Go rendering
// of original_source/connector_arrow/src/rewrite/sqlite.rs's ArrowReader
// path.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/qustavo/sqlhooks/v2"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/drivers/internal/hooks"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

var registerOnce sync.Once

const driverName = "sqlite3WithHooks"

// Connect opens dsn (a SQLite file path or "file::memory:?cache=shared")
// through a hook-wrapped sqlite3 driver, registered exactly once per
// process -- mirroring dbConnection.go's sync.Once guard around
// sql.Register.
func Connect(ctx context.Context, dsn string) (*Connector, error) {
	registerOnce.Do(func() {
		sql.Register(driverName, sqlhooks.Wrap(&sqlite3.SQLiteDriver{}, &hooks.Hooks{}))
	})

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("drivers/sqlite: open %s: %w", dsn, err)
	}
	// SQLite does not multiplex writers across connections; one connection
	// keeps the facade's single-threaded-per-connection contract trivially
	// true (spec §5).
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("drivers/sqlite: ping %s: %w", dsn, err)
	}

	log.Debugf("drivers/sqlite: connected to %s", dsn)
	return &Connector{db: db}, nil
}

// Connector is the SQLite dbxport.Connector.
type Connector struct {
	db *sqlx.DB
}

var _ dbxport.Connector = (*Connector)(nil)

func (c *Connector) Prepare(ctx context.Context, query string) (dbxport.Statement, error) {
	stmt, err := c.db.PreparexContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("drivers/sqlite: prepare: %w", err)
	}
	return &Statement{stmt: stmt, sql: query}, nil
}

func (c *Connector) SchemaGet() dbxport.SchemaGet   { return &schema{db: c.db} }
func (c *Connector) SchemaEdit() dbxport.SchemaEdit { return &schema{db: c.db} }

func (c *Connector) Appender(ctx context.Context, table string, schema *arrow.Schema) (dbxport.Appender, error) {
	return newAppender(ctx, c.db, table, schema)
}

func (c *Connector) Close() error { return c.db.Close() }
