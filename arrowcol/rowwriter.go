// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package arrowcol buffers row-major cells produced by a driver Producer
// into columnar Arrow builders and flushes them into arrow.Records once a
// size threshold is crossed. It is the Go rendering of connector_arrow's
// rewrite/util/row_writer.rs ArrowRowWriter/Organizer.
package arrowcol

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// DefaultMinBatchSize is the row count at which RowWriter.EndRow flushes
// the in-progress batch before growing further, matching the
// teacher's "bundle inserts, don't let one structure grow unbounded"
// instinct from internal/repository/transaction.go. The value itself
// (1024) is spec §6's documented default for min_batch_size.
const DefaultMinBatchSize = 1024

// RowWriter accumulates rows column-by-column and periodically flushes
// complete arrow.Records. Callers reserve capacity with PrepareForBatch,
// then for each row Transport each cell through Consumer(i) and call
// EndRow; Finish returns every record built.
type RowWriter struct {
	schema       *arrow.Schema
	mem          memory.Allocator
	builders     []array.Builder
	consumers    []transport.Consumer
	rows         int
	minBatchSize int
	batches      []arrow.Record
}

// NewRowWriter creates a RowWriter for schema. minBatchSize <= 0 selects
// DefaultMinBatchSize.
func NewRowWriter(schema *arrow.Schema, minBatchSize int) *RowWriter {
	if minBatchSize <= 0 {
		minBatchSize = DefaultMinBatchSize
	}
	mem := memory.NewGoAllocator()
	builders := make([]array.Builder, schema.NumFields())
	consumers := make([]transport.Consumer, schema.NumFields())
	for i, f := range schema.Fields() {
		b := array.NewBuilder(mem, f.Type)
		builders[i] = b
		consumers[i] = &builderConsumer{builder: b, field: f}
	}
	return &RowWriter{
		schema:       schema,
		mem:          mem,
		builders:     builders,
		consumers:    consumers,
		minBatchSize: minBatchSize,
	}
}

// Schema returns the RecordBatch schema this writer builds toward.
func (w *RowWriter) Schema() *arrow.Schema { return w.schema }

// PrepareForBatch reports the RowWriter is about to receive rows; it
// reserves builder capacity for up to n more rows. It never flushes:
// batches are emitted by EndRow once minBatchSize rows have accumulated,
// and by Finish.
func (w *RowWriter) PrepareForBatch(n int) error {
	if n < 0 {
		return fmt.Errorf("arrowcol: PrepareForBatch: negative row count %d", n)
	}
	for _, b := range w.builders {
		b.Reserve(n)
	}
	return nil
}

// Consumer returns the transport.Consumer that writes into column col of the
// row currently being assembled.
func (w *RowWriter) Consumer(col int) transport.Consumer { return w.consumers[col] }

// EndRow marks one full row as written and flushes a completed batch if the
// configured threshold was reached.
func (w *RowWriter) EndRow() {
	w.rows++
	if w.rows >= w.minBatchSize {
		w.flush()
	}
}

// ShouldFlush reports whether the writer has accumulated at least
// minBatchSize rows since the last flush.
func (w *RowWriter) ShouldFlush() bool { return w.rows >= w.minBatchSize }

func (w *RowWriter) flush() {
	if w.rows == 0 {
		return
	}
	cols := make([]arrow.Array, len(w.builders))
	for i, b := range w.builders {
		cols[i] = b.NewArray()
	}
	rec := array.NewRecord(w.schema, cols, int64(w.rows))
	for _, c := range cols {
		c.Release()
	}
	w.batches = append(w.batches, rec)
	w.rows = 0
}

// Finish flushes any partial batch and returns every arrow.Record produced
// so far. The RowWriter must not be used afterward.
func (w *RowWriter) Finish() []arrow.Record {
	w.flush()
	out := w.batches
	w.batches = nil
	return out
}
