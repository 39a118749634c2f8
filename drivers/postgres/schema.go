// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/coltype"
	"github.com/ClusterCockpit/cc-dbxport/escape"
)

// Postgres SQLSTATE codes used to classify CREATE/DROP TABLE failures,
// matching postgres/schema.rs's match on SqlState::DUPLICATE_TABLE and
// SqlState::UNDEFINED_TABLE. The GlareDB message-substring special case
// from that file is not ported: this pack has no GlareDB-backed target to
// exercise it against, and matching on error text is a poor substitute
// for SQLSTATE when a real code is available.
const (
	sqlStateDuplicateTable = "42P07"
	sqlStateUndefinedTable = "42P01"
)

type schema struct {
	pool *pgxpool.Pool
}

var (
	_ dbxport.SchemaGet  = (*schema)(nil)
	_ dbxport.SchemaEdit = (*schema)(nil)
)

// TableList mirrors schema.rs's table_list: tables in the current search
// path schema only, ordinary tables ('r') only.
func (s *schema) TableList(ctx context.Context) ([]dbxport.TableIdent, error) {
	const query = `
		SELECT relname
		FROM pg_class
		JOIN pg_namespace ON (relnamespace = pg_namespace.oid)
		WHERE nspname = current_schema AND relkind = 'r'
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("drivers/postgres: table_list: %w", err)
	}
	defer rows.Close()

	var out []dbxport.TableIdent
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("drivers/postgres: table_list: %w", err)
		}
		out = append(out, dbxport.TableIdent{Name: name})
	}
	return out, rows.Err()
}

// TableGet mirrors schema.rs's table_get: pg_attribute joined to pg_class
// and pg_namespace, ordered by attnum, skipping dropped/system columns
// (attnum > 0 and atttypid > 0).
func (s *schema) TableGet(ctx context.Context, table dbxport.TableIdent) (*arrow.Schema, error) {
	const query = `
		SELECT attname, atttypid, atttypmod, attnotnull
		FROM pg_attribute
		JOIN pg_class ON (attrelid = pg_class.oid)
		JOIN pg_namespace ON (relnamespace = pg_namespace.oid)
		WHERE nspname = current_schema AND relname = $1 AND attnum > 0 AND atttypid > 0
		ORDER BY attnum
	`
	rows, err := s.pool.Query(ctx, query, table.Name)
	if err != nil {
		return nil, fmt.Errorf("drivers/postgres: table_get: %w", err)
	}
	defer rows.Close()

	var fields []arrow.Field
	for rows.Next() {
		var (
			name    string
			typid   uint32
			typmod  int32
			notNull bool
		)
		if err := rows.Scan(&name, &typid, &typmod, &notNull); err != nil {
			return nil, fmt.Errorf("drivers/postgres: table_get: %w", err)
		}
		ty, ok, err := fieldType(typid, typmod)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &dbxport.CannotConvertSchema{Connector: "postgres", Column: name, DBType: oidName(typid)}
		}
		fields = append(fields, arrow.Field{Name: name, Type: ty, Nullable: !notNull})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &dbxport.CannotConvertSchema{Connector: "postgres", Column: table.Name, DBType: "<table not found>"}
	}
	return arrow.NewSchema(fields, nil), nil
}

func (s *schema) TableCreate(ctx context.Context, table dbxport.TableIdent, sch *arrow.Schema) error {
	var cols []string
	for _, f := range sch.Fields() {
		ddl, ok := coltype.PostgresDBType(f.Type)
		if !ok {
			return &dbxport.TableCreateError{Table: table.Name, Connector: fmt.Errorf("cannot store arrow type %s in Postgres", f.Type)}
		}
		// A Null-typed column has no non-null value to reject, so it is
		// always nullable regardless of the field's declared Nullable bit
		// -- matching schema.rs's table_create (is_nullable check).
		notNull := ""
		if !f.Nullable && f.Type.ID() != arrow.NULL {
			notNull = " NOT NULL"
		}
		cols = append(cols, fmt.Sprintf("%s %s%s", escape.Ident(escape.DoubleQuote, f.Name), ddl, notNull))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", escape.Ident(escape.DoubleQuote, table.Name), strings.Join(cols, ","))
	_, err := s.pool.Exec(ctx, ddl)
	if err == nil {
		return nil
	}
	if sqlState(err) == sqlStateDuplicateTable {
		return &dbxport.TableCreateError{Table: table.Name, Exists: true}
	}
	return &dbxport.TableCreateError{Table: table.Name, Connector: err}
}

func (s *schema) TableDrop(ctx context.Context, table dbxport.TableIdent) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf("DROP TABLE %s", escape.Ident(escape.DoubleQuote, table.Name)))
	if err == nil {
		return nil
	}
	if sqlState(err) == sqlStateUndefinedTable {
		return &dbxport.TableDropError{Table: table.Name, Nonexistent: true}
	}
	return &dbxport.TableDropError{Table: table.Name, Connector: err}
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
