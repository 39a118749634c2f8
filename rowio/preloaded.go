// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rowio

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// PreloadedReader replays a set of already-built arrow.Records as a
// RowsReader. SQLite's per-row dynamic typing means a column's type can only
// be pinned down after every row has been seen (see drivers/sqlite's
// Statement.Start); rather than teach every caller of RowsReader
// about that, the SQLite facade buffers the whole result set into Records
// up front and serves it back out through this adaptor, so QueryOne and
// Appender callers see the same cursor shape regardless of driver.
type PreloadedReader struct {
	schema  *arrow.Schema
	records []arrow.Record
	recIdx  int
	rowIdx  int64
	err     error
}

// NewPreloadedReader wraps records (all must share schema) as a RowsReader.
func NewPreloadedReader(schema *arrow.Schema, records []arrow.Record) *PreloadedReader {
	return &PreloadedReader{schema: schema, records: records, recIdx: 0, rowIdx: -1}
}

func (r *PreloadedReader) Schema() *arrow.Schema { return r.schema }

func (r *PreloadedReader) NextRow() bool {
	if r.err != nil {
		return false
	}
	for r.recIdx < len(r.records) {
		rec := r.records[r.recIdx]
		if r.rowIdx+1 < rec.NumRows() {
			r.rowIdx++
			return true
		}
		r.recIdx++
		r.rowIdx = -1
	}
	return false
}

func (r *PreloadedReader) Err() error { return r.err }

func (r *PreloadedReader) Close() error { return nil }

func (r *PreloadedReader) NextCell(col int, c transport.Consumer) error {
	rec := r.records[r.recIdx]
	arr := rec.Column(col)
	ty := r.schema.Field(col).Type
	row := int(r.rowIdx)

	if arr.IsNull(row) {
		return c.ConsumeNull(ty)
	}

	switch a := arr.(type) {
	case *array.Boolean:
		return c.ConsumeBoolOpt(ty, ptrBool(a.Value(row)))
	case *array.Int8:
		return c.ConsumeInt8Opt(ty, ptrInt8(a.Value(row)))
	case *array.Int16:
		return c.ConsumeInt16Opt(ty, ptrInt16(a.Value(row)))
	case *array.Int32:
		return c.ConsumeInt32Opt(ty, ptrInt32(a.Value(row)))
	case *array.Int64:
		return c.ConsumeInt64Opt(ty, ptrInt64(a.Value(row)))
	case *array.Uint8:
		return c.ConsumeUint8Opt(ty, ptrUint8(a.Value(row)))
	case *array.Uint16:
		return c.ConsumeUint16Opt(ty, ptrUint16(a.Value(row)))
	case *array.Uint32:
		return c.ConsumeUint32Opt(ty, ptrUint32(a.Value(row)))
	case *array.Uint64:
		return c.ConsumeUint64Opt(ty, ptrUint64(a.Value(row)))
	case *array.Float32:
		return c.ConsumeFloat32Opt(ty, ptrFloat32(a.Value(row)))
	case *array.Float64:
		return c.ConsumeFloat64Opt(ty, ptrFloat64(a.Value(row)))
	case *array.Date32:
		return c.ConsumeDate32Opt(ty, ptrDate32(a.Value(row)))
	case *array.Date64:
		return c.ConsumeDate64Opt(ty, ptrDate64(a.Value(row)))
	case *array.Time32:
		return c.ConsumeTime32Opt(ty, ptrTime32(a.Value(row)))
	case *array.Time64:
		return c.ConsumeTime64Opt(ty, ptrTime64(a.Value(row)))
	case *array.Timestamp:
		return c.ConsumeTimestampOpt(ty, ptrTimestamp(a.Value(row)))
	case *array.Duration:
		return c.ConsumeDurationOpt(ty, ptrDuration(a.Value(row)))
	case *array.Binary:
		b := append([]byte(nil), a.Value(row)...)
		return c.ConsumeBinaryOpt(ty, b)
	case *array.FixedSizeBinary:
		b := append([]byte(nil), a.Value(row)...)
		return c.ConsumeBinaryOpt(ty, b)
	case *array.LargeBinary:
		b := append([]byte(nil), a.Value(row)...)
		return c.ConsumeBinaryOpt(ty, b)
	case *array.String:
		return c.ConsumeStringOpt(ty, ptrString(a.Value(row)))
	case *array.LargeString:
		return c.ConsumeStringOpt(ty, ptrString(a.Value(row)))
	case *array.Decimal128:
		v := a.Value(row)
		return c.ConsumeDecimal128Opt(ty, &v)
	default:
		return fmt.Errorf("rowio: preloaded: column %d: %w (%T)", col, transportErrUnsupported, arr)
	}
}

var transportErrUnsupported = fmt.Errorf("unsupported array type for replay")

func ptrBool(v bool) *bool                         { return &v }
func ptrInt8(v int8) *int8                         { return &v }
func ptrInt16(v int16) *int16                      { return &v }
func ptrInt32(v int32) *int32                      { return &v }
func ptrInt64(v int64) *int64                      { return &v }
func ptrUint8(v uint8) *uint8                      { return &v }
func ptrUint16(v uint16) *uint16                   { return &v }
func ptrUint32(v uint32) *uint32                   { return &v }
func ptrUint64(v uint64) *uint64                   { return &v }
func ptrFloat32(v float32) *float32                { return &v }
func ptrFloat64(v float64) *float64                { return &v }
func ptrDate32(v arrow.Date32) *arrow.Date32       { return &v }
func ptrDate64(v arrow.Date64) *arrow.Date64       { return &v }
func ptrTime32(v arrow.Time32) *arrow.Time32       { return &v }
func ptrTime64(v arrow.Time64) *arrow.Time64       { return &v }
func ptrTimestamp(v arrow.Timestamp) *arrow.Timestamp { return &v }
func ptrDuration(v arrow.Duration) *arrow.Duration { return &v }
func ptrString(v string) *string                   { return &v }
