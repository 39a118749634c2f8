// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package rowio supplies the row/cell reader adaptor shapes shared by every
// driver facade, plus a helper to collect a cursor into arrow.Records. It
// mirrors connector_arrow's rewrite/data_store.rs (the RowsReader /
// RowReader / CellReader trio) and rewrite/util/arrow_reader.rs (the
// preloaded-batch reader used when a driver cannot report its schema before
// all rows have been seen).
package rowio

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// RowsReader is the minimal cursor shape every driver ResultReader
// implements: advance a row, transport one of its cells, report the schema.
// dbxport.ResultReader declares the same four methods; this interface lets
// driver-internal helpers (CollectRowsToArrow, PreloadedReader) depend on
// the shape without importing the root package.
type RowsReader interface {
	Schema() *arrow.Schema
	NextRow() bool
	NextCell(col int, c transport.Consumer) error
	Err() error
}

// CollectRowsToArrow drains r entirely, transporting every cell into a
// arrowcol.RowWriter-compatible sink and returning every record produced.
// It is the Go analogue of connector_arrow's `collect_rows_to_arrow`.
func CollectRowsToArrow(r RowsReader, newWriter func(schema *arrow.Schema) RowWriterLike) ([]arrow.Record, error) {
	schema := r.Schema()
	w := newWriter(schema)
	n := schema.NumFields()

	for r.NextRow() {
		if err := w.PrepareForBatch(1); err != nil {
			return nil, err
		}
		for col := 0; col < n; col++ {
			if err := r.NextCell(col, w.Consumer(col)); err != nil {
				return nil, fmt.Errorf("rowio: collect: column %d: %w", col, err)
			}
		}
		w.EndRow()
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("rowio: collect: %w", err)
	}
	return w.Finish(), nil
}

// RowWriterLike is the subset of arrowcol.RowWriter that CollectRowsToArrow
// needs; kept as an interface here so rowio does not need to import
// arrowcol just to call four methods.
type RowWriterLike interface {
	PrepareForBatch(n int) error
	Consumer(col int) transport.Consumer
	EndRow()
	Finish() []arrow.Record
}
