// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/jmoiron/sqlx"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// appender is the DuckDB dbxport.Appender. A direct port of
// append.rs's DuckDBAppender: rather than building parameterized INSERT
// statements like the MySQL/SQLite facades, it drives duckdb::Appender's
// native row-at-a-time interface, which go-duckdb exposes as
// goduckdb.Appender through the same raw *sql.Conn the rest of the
// package pools.
type appender struct {
	conn  *sqlx.Conn
	inner *goduckdb.Appender

	table    string
	fields   []arrow.Field
	finished bool
}

var _ dbxport.Appender = (*appender)(nil)

func newAppender(ctx context.Context, db *sqlx.DB, table string, schema *arrow.Schema) (*appender, error) {
	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("drivers/duckdb: appender: conn: %w", err)
	}

	var inner *goduckdb.Appender
	err = conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("drivers/duckdb: appender: unexpected driver conn type %T", driverConn)
		}
		a, err := goduckdb.NewAppenderFromConn(c, "", table)
		if err != nil {
			return err
		}
		inner = a
		return nil
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("drivers/duckdb: appender: open: %w", err)
	}

	log.Debugf("drivers/duckdb: appender: opened on %s", table)
	return &appender{conn: conn, inner: inner, table: table, fields: schema.Fields()}, nil
}

func (a *appender) Append(ctx context.Context, rec arrow.Record) error {
	if a.finished {
		return fmt.Errorf("drivers/duckdb: appender: Append called after Finish")
	}
	nrows := int(rec.NumRows())
	ncols := int(rec.NumCols())
	for row := 0; row < nrows; row++ {
		values := make([]driver.Value, ncols)
		for col := 0; col < ncols; col++ {
			v, err := cellForAppend(rec.Column(col), row)
			if err != nil {
				return fmt.Errorf("drivers/duckdb: appender: column %q: %w", a.fields[col].Name, err)
			}
			values[col] = v
		}
		if err := a.inner.AppendRow(values...); err != nil {
			return fmt.Errorf("drivers/duckdb: appender: append row into %s: %w", a.table, err)
		}
	}
	return nil
}

func (a *appender) Finish(ctx context.Context) error {
	if a.finished {
		return nil
	}
	a.finished = true
	if err := a.inner.Close(); err != nil {
		a.conn.Close()
		return fmt.Errorf("drivers/duckdb: appender: close: %w", err)
	}
	return a.conn.Close()
}

// Close abandons the appender without flushing, matching spec §5's Open
// -> Committed lifecycle when Finish is never reached. duckdb::Appender
// has no explicit rollback, so a best-effort Close is all that's
// available.
func (a *appender) Close() error {
	if a.finished {
		return nil
	}
	a.finished = true
	a.inner.Close()
	return a.conn.Close()
}

// cellForAppend mirrors append.rs's ConsumeTy dispatch table: the types
// it lists as supported for duckdb::Appender are converted here, and the
// types its impl_consume_unsupported! macro call lists (Date32, Date64,
// Time32/Time64 of every unit, Duration of every unit, all three Interval
// kinds, and both Decimal128/Decimal256) are refused the same way.
func cellForAppend(arr arrow.Array, row int) (any, error) {
	if arr.IsNull(row) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(row), nil
	case *array.Int8:
		return a.Value(row), nil
	case *array.Int16:
		return a.Value(row), nil
	case *array.Int32:
		return a.Value(row), nil
	case *array.Int64:
		return a.Value(row), nil
	case *array.Uint8:
		return a.Value(row), nil
	case *array.Uint16:
		return a.Value(row), nil
	case *array.Uint32:
		return a.Value(row), nil
	case *array.Uint64:
		return a.Value(row), nil
	case *array.Float32:
		return a.Value(row), nil
	case *array.Float64:
		return a.Value(row), nil
	case *array.String:
		return a.Value(row), nil
	case *array.LargeString:
		return a.Value(row), nil
	case *array.Binary:
		return append([]byte(nil), a.Value(row)...), nil
	case *array.LargeBinary:
		return append([]byte(nil), a.Value(row)...), nil
	case *array.FixedSizeBinary:
		return append([]byte(nil), a.Value(row)...), nil
	case *array.Timestamp:
		dt := a.DataType().(*arrow.TimestampType)
		t, err := a.Value(row).ToTime(dt.Unit)
		if err != nil {
			return nil, fmt.Errorf("drivers/duckdb: timestamp: %w", err)
		}
		return t, nil
	default:
		return nil, unsupportedCell(arr.DataType())
	}
}

func unsupportedCell(ty arrow.DataType) error {
	switch ty.(type) {
	case *arrow.Date32Type, *arrow.Date64Type,
		*arrow.Time32Type, *arrow.Time64Type,
		*arrow.DurationType,
		*arrow.MonthIntervalType, *arrow.DayTimeIntervalType, *arrow.MonthDayNanoIntervalType,
		*arrow.Decimal128Type, *arrow.Decimal256Type:
		return fmt.Errorf("drivers/duckdb: appender: %s columns cannot be appended: %w", ty, dbxport.ErrUnsupported)
	default:
		return fmt.Errorf("drivers/duckdb: appender: unsupported arrow type %s: %w", ty, dbxport.ErrUnsupported)
	}
}
