// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/coltype"
	"github.com/ClusterCockpit/cc-dbxport/config"
	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// typeMap resolves OIDs to pg_type names for schema inference. It only
// needs the builtin registrations (no per-connection custom types), so one
// package-level map serves every Statement.
var typeMap = pgtype.NewMap()

// Statement is the Postgres dbxport.Statement. It reads through an explicit
// SQL cursor (DECLARE/FETCH), the Go analogue of protocol_cursor.rs's
// CursorProtocol, so that config.Keys.CursorFetchSize genuinely governs how
// many rows cross the wire per round trip instead of being a dead knob.
// pgx.Tx.Query always uses the extended protocol (Parse/Bind/Execute) unless
// QueryExecModeSimpleProtocol is requested, so both the DECLARE and the
// FETCH statements already get query.rs's "extended protocol" behavior for
// free.
type Statement struct {
	pool *pgxpool.Pool
	sql  string

	started bool
}

var _ dbxport.Statement = (*Statement)(nil)

func (s *Statement) Start(ctx context.Context, args ...any) (dbxport.ResultReader, error) {
	if s.started {
		return nil, fmt.Errorf("drivers/postgres: statement: Start called twice")
	}
	s.started = true

	fetchSize := config.Keys.CursorFetchSize
	if fetchSize <= 0 {
		fetchSize = 1000
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("drivers/postgres: statement: acquire: %w", err)
	}
	tx, err := conn.Begin(ctx)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("drivers/postgres: statement: begin: %w", err)
	}
	if _, err := tx.Exec(ctx, "DECLARE cc_dbxport_cursor NO SCROLL CURSOR FOR "+s.sql, args...); err != nil {
		tx.Rollback(ctx)
		conn.Release()
		return nil, fmt.Errorf("drivers/postgres: statement: declare cursor: %w", err)
	}

	r := &resultReader{conn: conn, tx: tx, fetchSize: fetchSize}
	if err := r.fetch(ctx); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (s *Statement) Close() error { return nil }

// fieldsFromDescriptions builds the Arrow schema for a result set from
// pgx's field descriptions, the Go analogue of query.rs's pg_stmt_to_arrow
// (which reads column types off the *prepared statement* instead -- pgx
// only exposes them once rows have started, which is equivalent here
// since Start always queries immediately).
func fieldsFromDescriptions(descs []pgconn.FieldDescription) ([]arrow.Field, error) {
	fields := make([]arrow.Field, len(descs))
	for i, d := range descs {
		ty, ok, err := fieldType(d.DataTypeOID, d.TypeModifier)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &dbxport.CannotConvertSchema{Connector: "postgres", Column: d.Name, DBType: oidName(d.DataTypeOID)}
		}
		fields[i] = arrow.Field{Name: d.Name, Type: ty, Nullable: true}
	}
	return fields, nil
}

// fieldType maps one column's OID/typmod pair to a CTS type, matching
// types.rs's pg_field_to_arrow + postgres/schema.rs's Type::from_oid path.
// typmod carries NUMERIC's precision/scale (encoded as
// ((precision<<16)|scale) + 4, per Postgres's atttypmod convention) and is
// ignored for every other type.
func fieldType(oid uint32, typmod int32) (arrow.DataType, bool, error) {
	name := oidName(oid)
	if name == "numeric" {
		precision, scale := numericPrecisionScale(typmod)
		return coltype.PostgresNumericType(precision, scale), true, nil
	}
	ty, ok := coltype.PostgresFieldType(name)
	return ty, ok, nil
}

func numericPrecisionScale(typmod int32) (int32, int32) {
	if typmod < 4 {
		return 0, 0
	}
	raw := typmod - 4
	return (raw >> 16) & 0xffff, raw & 0xffff
}

func oidName(oid uint32) string {
	if t, ok := typeMap.TypeForOID(oid); ok {
		return t.Name
	}
	return fmt.Sprintf("oid(%d)", oid)
}

// resultReader drives the "FETCH FORWARD n FROM cc_dbxport_cursor" loop
// started by Statement.Start, buffering one batch of rows at a time --
// the Go analogue of protocol_cursor.rs's PostgresBatchStream, just
// surfaced row-by-row through NextRow/NextCell like the other facades
// instead of pre-assembling fixed-size arrow.Records internally (that
// batching already lives in the shared rowio package).
type resultReader struct {
	conn      *pgxpool.Conn
	tx        pgx.Tx
	fetchSize int

	schema *arrow.Schema
	fields []arrow.Field

	rows      pgx.Rows
	current   []any
	raw       [][]byte
	exhausted bool
	err       error
}

var _ dbxport.ResultReader = (*resultReader)(nil)

// fetch executes one FETCH FORWARD batch, building the schema the first
// time it is called. It does not detect the end of the cursor itself:
// NextRow sets exhausted once a batch comes back shorter than fetchSize.
func (r *resultReader) fetch(ctx context.Context) error {
	if r.rows != nil {
		r.rows.Close()
	}
	rows, err := r.tx.Query(ctx, fmt.Sprintf("FETCH FORWARD %d FROM cc_dbxport_cursor", r.fetchSize))
	if err != nil {
		return fmt.Errorf("drivers/postgres: result reader: fetch: %w", err)
	}
	if r.schema == nil {
		fields, err := fieldsFromDescriptions(rows.FieldDescriptions())
		if err != nil {
			rows.Close()
			return err
		}
		r.fields = fields
		r.schema = arrow.NewSchema(fields, nil)
	}
	r.rows = rows
	return nil
}

func (r *resultReader) Schema() *arrow.Schema { return r.schema }

func (r *resultReader) NextRow() bool {
	if r.exhausted {
		return false
	}
	if r.rows.Next() {
		values, err := r.rows.Values()
		if err != nil {
			r.err = fmt.Errorf("drivers/postgres: result reader: values: %w", err)
			return false
		}
		r.current = values
		r.raw = r.rows.RawValues()
		return true
	}
	if err := r.rows.Err(); err != nil {
		r.err = err
		return false
	}

	// Current batch drained: fetch the next one. A batch shorter than
	// fetchSize (including empty) means the cursor is exhausted.
	n := r.rows.CommandTag().RowsAffected()
	if n < int64(r.fetchSize) {
		r.exhausted = true
		return false
	}
	if err := r.fetch(context.Background()); err != nil {
		r.err = err
		return false
	}
	return r.NextRow()
}

func (r *resultReader) NextCell(col int, c dbxport.Consumer) error {
	field := r.fields[col]
	var raw []byte
	if col < len(r.raw) {
		raw = r.raw[col]
	}
	p := &cellProducer{v: r.current[col], raw: raw, ty: field.Type}
	return transport.Transport(field, p, c)
}

func (r *resultReader) Err() error { return r.err }

func (r *resultReader) Close() error {
	if r.rows != nil {
		r.rows.Close()
	}
	ctx := context.Background()
	r.tx.Rollback(ctx)
	r.conn.Release()
	return nil
}
