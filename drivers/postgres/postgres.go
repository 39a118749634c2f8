// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package postgres is the Postgres facade of dbxport, grounded on
// original_source/connector_arrow/src/postgres/*: extended-protocol,
// cursor-batched queries for reads (pgx's default query mode already does
// Parse/Bind/Execute, and Statement wraps it in an explicit DECLARE/FETCH
// loop matching protocol_cursor.rs's CursorProtocol so
// config.Keys.CursorFetchSize has a real effect), and a hand-rolled binary
// COPY stream for writes (append.rs's PostgresAppender + BinaryCopyInWriter),
// since jackc/pgx/v5 has no stdlib shim in this pack and exposes the raw
// protocol directly through pgconn.PgConn.CopyFrom.
package postgres

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jackc/pgx/v5/pgxpool"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

// Connector is the dbxport.Connector backed by a pgxpool.Pool. Unlike the
// sqlx-backed drivers it is not a thin wrapper over database/sql: pgx's
// native API is what lets Statement use the extended protocol and
// Appender drive a raw binary COPY stream.
type Connector struct {
	pool *pgxpool.Pool
}

var _ dbxport.Connector = (*Connector)(nil)

// Connect opens a pool against dsn, capped at 10 connections to mirror the
// MaxOpenConns(10) tuning the other engine facades use.
func Connect(ctx context.Context, dsn string) (*Connector, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("drivers/postgres: parse dsn: %w", err)
	}
	cfg.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("drivers/postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("drivers/postgres: ping: %w", err)
	}
	log.Debugf("drivers/postgres: connected")
	return &Connector{pool: pool}, nil
}

func (c *Connector) Prepare(ctx context.Context, sql string) (dbxport.Statement, error) {
	return &Statement{pool: c.pool, sql: sql}, nil
}

func (c *Connector) SchemaGet() dbxport.SchemaGet { return &schema{pool: c.pool} }

func (c *Connector) SchemaEdit() dbxport.SchemaEdit { return &schema{pool: c.pool} }

func (c *Connector) Appender(ctx context.Context, table string, sch *arrow.Schema) (dbxport.Appender, error) {
	return newAppender(ctx, c.pool, table, sch)
}

func (c *Connector) Close() error {
	c.pool.Close()
	return nil
}
