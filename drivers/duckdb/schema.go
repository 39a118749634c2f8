// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duckdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/coltype"
	"github.com/ClusterCockpit/cc-dbxport/escape"
)

type schema struct {
	db *sqlx.DB
}

var (
	_ dbxport.SchemaGet  = (*schema)(nil)
	_ dbxport.SchemaEdit = (*schema)(nil)
)

// TableList mirrors mod.rs/schema.rs's table_list: "SHOW TABLES".
func (s *schema) TableList(ctx context.Context) ([]dbxport.TableIdent, error) {
	rows, err := s.db.QueryxContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, fmt.Errorf("drivers/duckdb: table_list: %w", err)
	}
	defer rows.Close()

	var out []dbxport.TableIdent
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("drivers/duckdb: table_list: %w", err)
		}
		out = append(out, dbxport.TableIdent{Name: name})
	}
	return out, rows.Err()
}

// TableGet mirrors schema.rs's table_get: `SELECT * FROM "name" WHERE
// FALSE` to read the result schema without scanning any row. The Rust
// original reads that schema off query_arrow's native Arrow metadata;
// go-duckdb's database/sql surface only exposes
// sql.ColumnType.DatabaseTypeName(), so that feeds coltype.DuckDBFieldType
// instead.
func (s *schema) TableGet(ctx context.Context, table dbxport.TableIdent) (*arrow.Schema, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE FALSE", escape.Ident(escape.DoubleQuote, table.Name))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("drivers/duckdb: table_get: %w", err)
	}
	defer rows.Close()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("drivers/duckdb: table_get: %w", err)
	}

	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		ty, ok := coltype.DuckDBFieldType(c.DatabaseTypeName())
		if !ok {
			return nil, &dbxport.CannotConvertSchema{Connector: "duckdb", Column: c.Name(), DBType: c.DatabaseTypeName()}
		}
		nullable, _ := c.Nullable()
		fields[i] = arrow.Field{Name: c.Name(), Type: ty, Nullable: nullable}
	}
	return arrow.NewSchema(fields, nil), nil
}

// TableCreate/TableDrop classify failures by matching DuckDB's error text
// directly, the same way schema.rs's table_create/table_drop do -- the
// duckdb crate (and go-duckdb) surfaces catalog errors as plain strings,
// with no SQLSTATE-equivalent code to match on instead.
func (s *schema) TableCreate(ctx context.Context, table dbxport.TableIdent, sch *arrow.Schema) error {
	var cols []string
	for _, f := range sch.Fields() {
		ddl, ok := coltype.DuckDBDBType(f.Type)
		if !ok {
			return &dbxport.TableCreateError{Table: table.Name, Connector: fmt.Errorf("cannot store arrow type %s in DuckDB", f.Type)}
		}
		notNull := ""
		if !f.Nullable && f.Type.ID() != arrow.NULL {
			notNull = " NOT NULL"
		}
		cols = append(cols, fmt.Sprintf("%s %s%s", escape.Ident(escape.DoubleQuote, f.Name), ddl, notNull))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", escape.Ident(escape.DoubleQuote, table.Name), strings.Join(cols, ","))
	_, err := s.db.ExecContext(ctx, ddl)
	if err == nil {
		return nil
	}
	if isCatalogError(err, "already exists!") {
		return &dbxport.TableCreateError{Table: table.Name, Exists: true}
	}
	return &dbxport.TableCreateError{Table: table.Name, Connector: err}
}

func (s *schema) TableDrop(ctx context.Context, table dbxport.TableIdent) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", escape.Ident(escape.DoubleQuote, table.Name)))
	if err == nil {
		return nil
	}
	if isCatalogError(err, "does not exist!") {
		return &dbxport.TableDropError{Table: table.Name, Nonexistent: true}
	}
	return &dbxport.TableDropError{Table: table.Name, Connector: err}
}

func isCatalogError(err error, suffix string) bool {
	msg := err.Error()
	return strings.Contains(msg, "Catalog Error") && strings.Contains(msg, "Table") && strings.Contains(msg, suffix)
}
