// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package dbxport

import (
	"context"
	"fmt"
	"sync"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
	"github.com/ClusterCockpit/cc-dbxport/transport"
)

// Consumer is the sink side of the Canonical Type System transport
// (transport.Consumer), re-exported here so driver-facing code can
// implement dbxport.ResultReader without importing the transport package
// directly for this one type.
type Consumer = transport.Consumer

// Connector is the per-engine facade: one instance per open connection. It is
// not safe for concurrent use by multiple goroutines (spec §5: single-
// threaded cooperative per connection, no cross-connection coordination).
type Connector interface {
	// Prepare parses sql and returns a Statement in the Prepared state.
	Prepare(ctx context.Context, sql string) (Statement, error)

	// SchemaGet returns the schema reader for table introspection.
	SchemaGet() SchemaGet

	// SchemaEdit returns the schema mutator for table creation/drop.
	SchemaEdit() SchemaEdit

	// Appender opens a bulk-load Appender for table, validated against schema.
	Appender(ctx context.Context, table string, schema *arrow.Schema) (Appender, error)

	// Close releases the underlying connection. Closing a Connector with a
	// live Statement or Appender is a caller error; drivers should roll back
	// whatever can still be rolled back and return an error.
	Close() error
}

// Statement models the Prepared -> Started(Reader) -> Drained lifecycle
// (spec §5). Start may only be called once; calling it twice returns an
// error instead of silently re-running the statement.
type Statement interface {
	// Start executes the statement and returns a ResultReader positioned
	// before the first row. args are bound to the statement's placeholders.
	Start(ctx context.Context, args ...any) (ResultReader, error)

	// Close releases resources. Safe to call in any state.
	Close() error
}

// ResultReader iterates rows of a single result set and knows the Arrow
// schema of that result set once rows are available.
type ResultReader interface {
	// Schema returns the Arrow schema inferred or declared for this result
	// set. For drivers whose schema depends on observed data (SQLite), this
	// may only be accurate after the reader is fully drained.
	Schema() *arrow.Schema

	// NextRow advances to the next row. It returns false once the result
	// set is exhausted (the Drained state); call Err after a false return to
	// distinguish end-of-data from a read error.
	NextRow() bool

	// NextCell transports the cell at column index col of the current row
	// into consumer c using the driver's Producer for that cell.
	NextCell(col int, c Consumer) error

	// Err returns the first error encountered by NextRow/NextCell, if any.
	Err() error

	// Close releases the underlying cursor.
	Close() error
}

// Appender models the Open -> Committed bulk-load lifecycle (spec §5). An
// Appender that is dropped without a call to Finish must roll back whatever
// rows it has already staged; drivers implement this via Close.
type Appender interface {
	// Append stages one Arrow record for loading. Implementations may batch
	// internally per spec §4.5's batching rules (e.g. MySQL/SQLite default
	// group size of 30 rows per INSERT).
	Append(ctx context.Context, rec arrow.Record) error

	// Finish commits all staged rows and transitions the Appender to
	// Committed. Calling Finish twice is an error.
	Finish(ctx context.Context) error

	// Close rolls back any uncommitted rows if Finish was never called, and
	// always releases underlying resources. Safe to call after Finish.
	Close() error
}

// TableIdent names a table, optionally schema-qualified.
type TableIdent struct {
	Schema string
	Name   string
}

func (t TableIdent) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// SchemaGet is the read side of schema introspection (spec §4.6).
type SchemaGet interface {
	// TableList returns every table visible to the current connection.
	TableList(ctx context.Context) ([]TableIdent, error)

	// TableGet returns the Arrow schema of an existing table.
	TableGet(ctx context.Context, table TableIdent) (*arrow.Schema, error)
}

// SchemaEdit is the write side of schema introspection (spec §4.6).
type SchemaEdit interface {
	// TableCreate issues CREATE TABLE for schema under table, returning a
	// *TableCreateError when the table already exists.
	TableCreate(ctx context.Context, table TableIdent, schema *arrow.Schema) error

	// TableDrop issues DROP TABLE, returning a *TableDropError when the
	// table does not exist.
	TableDrop(ctx context.Context, table TableIdent) error
}

// QueryOne runs sql against conn and collects every resulting batch into
// memory, per spec §9's top-level `query_one`.
func QueryOne(ctx context.Context, conn Connector, sql string, args ...any) ([]arrow.Record, error) {
	stmt, err := conn.Prepare(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("dbxport: query_one: prepare: %w", err)
	}
	defer stmt.Close()

	reader, err := stmt.Start(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("dbxport: query_one: start: %w", err)
	}
	defer reader.Close()

	log.Debugf("dbxport: query_one: %s", sql)
	records, err := collectRowsToArrow(reader)
	if err != nil {
		return nil, fmt.Errorf("dbxport: query_one: %w", err)
	}
	return records, nil
}

// QueryMany runs each of queries against its own connection, opened via
// connFactory, concurrently. This is the Go rendering of connector_arrow's
// rayon-parallel `query_many`: concurrency is whole-query dispatch, never
// intra-query partitioning (spec's Non-goals still exclude partitioned
// parallel reads).
func QueryMany(ctx context.Context, connFactory func(ctx context.Context) (Connector, error), queries []string) ([][]arrow.Record, error) {
	results := make([][]arrow.Record, len(queries))
	errs := make([]error, len(queries))

	var wg sync.WaitGroup
	wg.Add(len(queries))
	for i, q := range queries {
		go func(i int, q string) {
			defer wg.Done()
			conn, err := connFactory(ctx)
			if err != nil {
				errs[i] = fmt.Errorf("dbxport: query_many[%d]: connect: %w", i, err)
				return
			}
			defer conn.Close()

			recs, err := QueryOne(ctx, conn, q)
			if err != nil {
				errs[i] = fmt.Errorf("dbxport: query_many[%d]: %w", i, err)
				return
			}
			results[i] = recs
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
