// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/coltype"
	"github.com/ClusterCockpit/cc-dbxport/escape"
)

// MS SQL error numbers used to classify CREATE/DROP TABLE failures; 2714
// is "There is already an object named '%s' in the database", 3701 is
// "Cannot drop the table '%s', because it does not exist". There is no
// schema.rs equivalent for MS SQL in the retrieved original_source (only
// sources/mssql/mod.rs's read path), so these are the engine's own
// documented error numbers rather than a ported table.
const (
	msgObjectExists    = 2714
	msgCannotDropTable = 3701
)

type schema struct {
	db *sqlx.DB
}

var (
	_ dbxport.SchemaGet  = (*schema)(nil)
	_ dbxport.SchemaEdit = (*schema)(nil)
)

func (s *schema) TableList(ctx context.Context) ([]dbxport.TableIdent, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT TABLE_SCHEMA, TABLE_NAME FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_TYPE = 'BASE TABLE'")
	if err != nil {
		return nil, fmt.Errorf("drivers/mssql: table_list: %w", err)
	}
	defer rows.Close()

	var out []dbxport.TableIdent
	for rows.Next() {
		var tableSchema, name string
		if err := rows.Scan(&tableSchema, &name); err != nil {
			return nil, fmt.Errorf("drivers/mssql: table_list: %w", err)
		}
		out = append(out, dbxport.TableIdent{Schema: tableSchema, Name: name})
	}
	return out, rows.Err()
}

func (s *schema) TableGet(ctx context.Context, table dbxport.TableIdent) (*arrow.Schema, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE 1 = 0", qualifiedIdent(table))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("drivers/mssql: table_get: %w", err)
	}
	defer rows.Close()

	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("drivers/mssql: table_get: %w", err)
	}

	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		ty, ok := fieldTypeFromColumnType(c)
		if !ok {
			return nil, &dbxport.CannotConvertSchema{Connector: "mssql", Column: c.Name(), DBType: c.DatabaseTypeName()}
		}
		nullable, _ := c.Nullable()
		fields[i] = arrow.Field{Name: c.Name(), Type: ty, Nullable: nullable}
	}
	return arrow.NewSchema(fields, nil), nil
}

func (s *schema) TableCreate(ctx context.Context, table dbxport.TableIdent, sch *arrow.Schema) error {
	var cols []string
	for _, f := range sch.Fields() {
		ddl, ok := coltype.MSSQLDBType(f.Type)
		if !ok {
			return &dbxport.TableCreateError{Table: table.Name, Connector: fmt.Errorf("cannot store arrow type %s in SQL Server", f.Type)}
		}
		notNull := ""
		if !f.Nullable {
			notNull = " NOT NULL"
		}
		cols = append(cols, fmt.Sprintf("%s %s%s", escape.Ident(escape.Bracket, f.Name), ddl, notNull))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", qualifiedIdent(table), strings.Join(cols, ","))
	_, err := s.db.ExecContext(ctx, ddl)
	if err == nil {
		return nil
	}
	if mssqlErrorNumber(err) == msgObjectExists {
		return &dbxport.TableCreateError{Table: table.Name, Exists: true}
	}
	return &dbxport.TableCreateError{Table: table.Name, Connector: err}
}

func (s *schema) TableDrop(ctx context.Context, table dbxport.TableIdent) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", qualifiedIdent(table)))
	if err == nil {
		return nil
	}
	if mssqlErrorNumber(err) == msgCannotDropTable {
		return &dbxport.TableDropError{Table: table.Name, Nonexistent: true}
	}
	return &dbxport.TableDropError{Table: table.Name, Connector: err}
}

func qualifiedIdent(table dbxport.TableIdent) string {
	return escape.QualifiedIdent(escape.Bracket, table.Schema, table.Name)
}

func mssqlErrorNumber(err error) int32 {
	if mssqlErr, ok := err.(mssql.Error); ok {
		return mssqlErr.Number
	}
	return 0
}
