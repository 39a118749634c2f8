// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

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

func (s *schema) TableList(ctx context.Context) ([]dbxport.TableIdent, error) {
	rows, err := s.db.QueryxContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, fmt.Errorf("drivers/sqlite: table_list: %w", err)
	}
	defer rows.Close()

	var out []dbxport.TableIdent
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("drivers/sqlite: table_list: %w", err)
		}
		out = append(out, dbxport.TableIdent{Name: name})
	}
	return out, rows.Err()
}

func (s *schema) TableGet(ctx context.Context, table dbxport.TableIdent) (*arrow.Schema, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", escape.Ident(escape.DoubleQuote, table.Name))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("drivers/sqlite: table_get: %w", err)
	}
	defer rows.Close()

	var fields []arrow.Field
	for rows.Next() {
		var (
			cid       int
			name      string
			declType  string
			notNull   int
			dfltValue any
			pk        int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("drivers/sqlite: table_get: %w", err)
		}
		ty, ok := coltype.SQLiteFieldType(declType, coltype.SQLiteNull)
		if !ok {
			return nil, &dbxport.CannotConvertSchema{Connector: "sqlite", Column: name, DBType: declType}
		}
		fields = append(fields, arrow.Field{Name: name, Type: ty, Nullable: notNull == 0})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, &dbxport.CannotConvertSchema{Connector: "sqlite", Column: table.Name, DBType: "<table not found>"}
	}
	return arrow.NewSchema(fields, nil), nil
}

func (s *schema) TableCreate(ctx context.Context, table dbxport.TableIdent, sch *arrow.Schema) error {
	var cols []string
	for _, f := range sch.Fields() {
		ddl, ok := sqliteDDLType(f.Type)
		if !ok {
			return &dbxport.TableCreateError{Table: table.Name, Connector: fmt.Errorf("cannot store arrow type %s in SQLite", f.Type)}
		}
		notNull := ""
		if !f.Nullable {
			notNull = " NOT NULL"
		}
		cols = append(cols, fmt.Sprintf("%s %s%s", escape.Ident(escape.DoubleQuote, f.Name), ddl, notNull))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", escape.Ident(escape.DoubleQuote, table.Name), strings.Join(cols, ", "))
	_, err := s.db.ExecContext(ctx, ddl)
	if err == nil {
		return nil
	}
	if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.Code == sqlite3.ErrError && strings.Contains(err.Error(), "already exists") {
		return &dbxport.TableCreateError{Table: table.Name, Exists: true}
	}
	return &dbxport.TableCreateError{Table: table.Name, Connector: err}
}

func (s *schema) TableDrop(ctx context.Context, table dbxport.TableIdent) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", escape.Ident(escape.DoubleQuote, table.Name)))
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return &dbxport.TableDropError{Table: table.Name, Nonexistent: true}
	}
	return &dbxport.TableDropError{Table: table.Name, Connector: err}
}

// sqliteDDLType picks the declared-type keyword to use in CREATE TABLE for
// an Arrow type, following SQLite's type-affinity rules so values read
// back out get re-inferred the same way they went in.
func sqliteDDLType(ty arrow.DataType) (string, bool) {
	switch ty.(type) {
	case *arrow.BooleanType:
		return "BOOLEAN", true
	case *arrow.Int8Type, *arrow.Int16Type, *arrow.Int32Type, *arrow.Int64Type:
		return "INTEGER", true
	case *arrow.Float32Type, *arrow.Float64Type:
		return "REAL", true
	case *arrow.StringType, *arrow.LargeStringType:
		return "TEXT", true
	case *arrow.BinaryType, *arrow.LargeBinaryType, *arrow.FixedSizeBinaryType:
		return "BLOB", true
	default:
		return "", false
	}
}
