// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mysql is the MySQL/MariaDB driver facade: go-sql-driver/mysql
// opened through jmoiron/sqlx, pooled the way
// internal/repository/dbConnection.go tunes its MySQL branch
// (SetConnMaxLifetime/SetMaxOpenConns/SetMaxIdleConns), query-hooked the
// same way as the SQLite facade. Unlike SQLite, MySQL's DESCRIBE reports a
// result's column types up front, so Statement.Start streams rows straight
// through transport.Transport instead of buffering the whole result first
// -- the Go rendering of
// original_source/connector_arrow/src/mysql/query.rs's schema-first,
// batch-of-N ResultReader.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/qustavo/sqlhooks/v2"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/drivers/internal/hooks"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

var registerOnce sync.Once

const driverName = "mysqlWithHooks"

// Connect opens dsn (a go-sql-driver/mysql DSN, e.g.
// "user:pass@tcp(host:3306)/db") through a hook-wrapped mysql driver,
// registered once per process -- dbConnection.go's sync.Once guard around
// sql.Register, retargeted from cc-backend's sqlite3/mysql dual branch
// onto a single MySQL-only facade.
func Connect(ctx context.Context, dsn string) (*Connector, error) {
	registerOnce.Do(func() {
		sql.Register(driverName, sqlhooks.Wrap(&gomysql.MySQLDriver{}, &hooks.Hooks{}))
	})

	db, err := sqlx.Open(driverName, dsn+"?multiStatements=true")
	if err != nil {
		return nil, fmt.Errorf("drivers/mysql: open: %w", err)
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("drivers/mysql: ping: %w", err)
	}

	log.Debugf("drivers/mysql: connected")
	return &Connector{db: db}, nil
}

// Connector is the MySQL dbxport.Connector.
type Connector struct {
	db *sqlx.DB
}

var _ dbxport.Connector = (*Connector)(nil)

func (c *Connector) Prepare(ctx context.Context, query string) (dbxport.Statement, error) {
	stmt, err := c.db.PreparexContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("drivers/mysql: prepare: %w", err)
	}
	return &Statement{db: c.db, stmt: stmt, sql: query}, nil
}

func (c *Connector) SchemaGet() dbxport.SchemaGet   { return &schema{db: c.db} }
func (c *Connector) SchemaEdit() dbxport.SchemaEdit { return &schema{db: c.db} }

func (c *Connector) Appender(ctx context.Context, table string, schema *arrow.Schema) (dbxport.Appender, error) {
	return newAppender(ctx, c.db, table, schema)
}

func (c *Connector) Close() error { return c.db.Close() }
