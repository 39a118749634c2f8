// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sqlvalue converts one cell of an arrow.Record into a plain Go
// value a database/sql driver can bind as a query parameter. It backs the
// SQLite and MySQL appenders, both of which build ordinary parameterized
// multi-row INSERT statements (spec §4.5) rather than a driver-specific
// bulk-load wire format.
package sqlvalue

import (
	"fmt"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/ClusterCockpit/cc-dbxport/internal/pgnumeric"
)

// Cell extracts row's value from arr as a database/sql bind parameter. nil
// represents SQL NULL.
func Cell(arr arrow.Array, row int) (any, error) {
	if arr.IsNull(row) {
		return nil, nil
	}
	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(row), nil
	case *array.Int8:
		return int64(a.Value(row)), nil
	case *array.Int16:
		return int64(a.Value(row)), nil
	case *array.Int32:
		return int64(a.Value(row)), nil
	case *array.Int64:
		return a.Value(row), nil
	case *array.Uint8:
		return int64(a.Value(row)), nil
	case *array.Uint16:
		return int64(a.Value(row)), nil
	case *array.Uint32:
		return int64(a.Value(row)), nil
	case *array.Uint64:
		return int64(a.Value(row)), nil
	case *array.Float32:
		return float64(a.Value(row)), nil
	case *array.Float64:
		return a.Value(row), nil
	case *array.String:
		return a.Value(row), nil
	case *array.Binary:
		return append([]byte(nil), a.Value(row)...), nil
	case *array.FixedSizeBinary:
		return append([]byte(nil), a.Value(row)...), nil
	case *array.Date32:
		return epoch.AddDate(0, 0, int(a.Value(row))).Format("2006-01-02"), nil
	case *array.Date64:
		return time.UnixMilli(int64(a.Value(row))).UTC().Format("2006-01-02"), nil
	case *array.Time32:
		return formatTime32(a, row), nil
	case *array.Time64:
		return formatTime64(a, row), nil
	case *array.Timestamp:
		return formatTimestamp(a, row)
	case *array.Decimal128:
		dt := a.DataType().(*arrow.Decimal128Type)
		return pgnumeric.Decimal128ToString(a.Value(row), dt.Scale), nil
	default:
		return nil, fmt.Errorf("sqlvalue: cannot bind %T as a query parameter", arr)
	}
}

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

func formatTime32(a *array.Time32, row int) any {
	dt := a.DataType().(*arrow.Time32Type)
	v := a.Value(row)
	switch dt.Unit {
	case arrow.Second:
		return time.Duration(v) * time.Second
	default:
		return time.Duration(v) * time.Millisecond
	}
}

func formatTime64(a *array.Time64, row int) any {
	dt := a.DataType().(*arrow.Time64Type)
	v := a.Value(row)
	switch dt.Unit {
	case arrow.Microsecond:
		return time.Duration(v) * time.Microsecond
	default:
		return time.Duration(v)
	}
}

func formatTimestamp(a *array.Timestamp, row int) (any, error) {
	dt := a.DataType().(*arrow.TimestampType)
	t, err := a.Value(row).ToTime(dt.Unit)
	if err != nil {
		return nil, fmt.Errorf("sqlvalue: timestamp: %w", err)
	}
	return t, nil
}
