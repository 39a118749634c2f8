// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/coltype"
	"github.com/ClusterCockpit/cc-dbxport/escape"
)

// MySQL error numbers used to classify CREATE/DROP TABLE failures,
// matching mysql/schema.rs's table_create/table_drop match on
// mysql::Error::MySqlError(e) where e.code is 1050/1051.
const (
	erTableExistsError = 1050
	erBadTable         = 1051
)

type schema struct {
	db *sqlx.DB
}

var (
	_ dbxport.SchemaGet  = (*schema)(nil)
	_ dbxport.SchemaEdit = (*schema)(nil)
)

func (s *schema) TableList(ctx context.Context) ([]dbxport.TableIdent, error) {
	rows, err := s.db.QueryxContext(ctx, "SHOW TABLES")
	if err != nil {
		return nil, fmt.Errorf("drivers/mysql: table_list: %w", err)
	}
	defer rows.Close()

	var out []dbxport.TableIdent
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("drivers/mysql: table_list: %w", err)
		}
		out = append(out, dbxport.TableIdent{Name: name})
	}
	return out, rows.Err()
}

func (s *schema) TableGet(ctx context.Context, table dbxport.TableIdent) (*arrow.Schema, error) {
	query := fmt.Sprintf("DESCRIBE %s", escape.Ident(escape.Backtick, table.Name))
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("drivers/mysql: table_get: %w", err)
	}
	defer rows.Close()

	var fields []arrow.Field
	for rows.Next() {
		var (
			name, dbType, null string
			key, extra         any
			defaultValue       any
		)
		if err := rows.Scan(&name, &dbType, &null, &key, &defaultValue, &extra); err != nil {
			return nil, fmt.Errorf("drivers/mysql: table_get: %w", err)
		}
		ty, ok := coltype.MySQLFieldType(dbType)
		if !ok {
			return nil, &dbxport.CannotConvertSchema{Connector: "mysql", Column: name, DBType: dbType}
		}
		fields = append(fields, arrow.Field{Name: name, Type: ty, Nullable: strings.EqualFold(null, "YES")})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return arrow.NewSchema(fields, nil), nil
}

func (s *schema) TableCreate(ctx context.Context, table dbxport.TableIdent, sch *arrow.Schema) error {
	var cols []string
	for _, f := range sch.Fields() {
		ddl, ok := coltype.MySQLDBType(f.Type)
		if !ok {
			return &dbxport.TableCreateError{Table: table.Name, Connector: fmt.Errorf("cannot store arrow type %s in MySQL", f.Type)}
		}
		notNull := ""
		if !f.Nullable {
			notNull = " NOT NULL"
		}
		cols = append(cols, fmt.Sprintf("%s %s%s", escape.Ident(escape.Backtick, f.Name), ddl, notNull))
	}

	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", escape.Ident(escape.Backtick, table.Name), strings.Join(cols, ","))
	_, err := s.db.ExecContext(ctx, ddl)
	if err == nil {
		return nil
	}
	if myErr, ok := err.(*gomysql.MySQLError); ok && myErr.Number == erTableExistsError {
		return &dbxport.TableCreateError{Table: table.Name, Exists: true}
	}
	return &dbxport.TableCreateError{Table: table.Name, Connector: err}
}

func (s *schema) TableDrop(ctx context.Context, table dbxport.TableIdent) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE %s", escape.Ident(escape.Backtick, table.Name)))
	if err == nil {
		return nil
	}
	if myErr, ok := err.(*gomysql.MySQLError); ok && myErr.Number == erBadTable {
		return &dbxport.TableDropError{Table: table.Name, Nonexistent: true}
	}
	return &dbxport.TableDropError{Table: table.Name, Connector: err}
}
