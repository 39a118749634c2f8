// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/jackc/pgx/v5/pgxpool"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/escape"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

// appender streams rows straight onto the wire as Postgres's binary COPY
// format, a direct port of append.rs's PostgresAppender: "COPY BINARY
// table FROM stdin" plus a hand-encoded tuple per row (append.rs uses the
// postgres crate's BinaryCopyInWriter; pgx/v5 exposes the raw protocol
// through pgconn.PgConn.CopyFrom(io.Reader), so we build the same wire
// bytes ourselves via an io.Pipe feeding a background CopyFrom call).
type appender struct {
	table  string
	fields []arrow.Field

	conn    *pgxpool.Conn
	pw      *io.PipeWriter
	copyErr chan error

	scratch  bytes.Buffer
	row      bytes.Buffer
	finished bool
}

var _ dbxport.Appender = (*appender)(nil)

func newAppender(ctx context.Context, pool *pgxpool.Pool, table string, sch *arrow.Schema) (*appender, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("drivers/postgres: appender: acquire: %w", err)
	}

	pr, pw := io.Pipe()
	copySQL := fmt.Sprintf("COPY %s FROM STDIN (FORMAT binary)", escape.Ident(escape.DoubleQuote, table))
	copyErr := make(chan error, 1)
	go func() {
		_, err := conn.Conn().PgConn().CopyFrom(ctx, pr, copySQL)
		copyErr <- err
	}()

	if _, err := pw.Write(copyHeader); err != nil {
		conn.Release()
		return nil, fmt.Errorf("drivers/postgres: appender: write header: %w", <-copyErr)
	}

	return &appender{
		table:   table,
		fields:  sch.Fields(),
		conn:    conn,
		pw:      pw,
		copyErr: copyErr,
	}, nil
}

func (a *appender) Append(ctx context.Context, rec arrow.Record) error {
	if a.finished {
		return fmt.Errorf("drivers/postgres: appender: Append called after Finish")
	}
	nrows := int(rec.NumRows())
	ncols := int(rec.NumCols())

	for row := 0; row < nrows; row++ {
		a.row.Reset()
		binary.Write(&a.row, binary.BigEndian, int16(ncols))
		for col := 0; col < ncols; col++ {
			a.scratch.Reset()
			isNull, err := encodeField(&a.scratch, a.fields[col], rec.Column(col), row)
			if err != nil {
				return fmt.Errorf("drivers/postgres: appender: column %q: %w", a.fields[col].Name, err)
			}
			if isNull {
				binary.Write(&a.row, binary.BigEndian, int32(-1))
				continue
			}
			binary.Write(&a.row, binary.BigEndian, int32(a.scratch.Len()))
			a.row.Write(a.scratch.Bytes())
		}
		if _, err := a.pw.Write(a.row.Bytes()); err != nil {
			return fmt.Errorf("drivers/postgres: appender: write row: %w", err)
		}
	}
	log.Debugf("drivers/postgres: appender: streamed %d rows into %s", nrows, a.table)
	return nil
}

func (a *appender) Finish(ctx context.Context) error {
	if a.finished {
		return nil
	}
	a.finished = true
	if _, err := a.pw.Write(copyTrailer); err != nil {
		a.conn.Release()
		return fmt.Errorf("drivers/postgres: appender: write trailer: %w", err)
	}
	if err := a.pw.Close(); err != nil {
		a.conn.Release()
		return fmt.Errorf("drivers/postgres: appender: close pipe: %w", err)
	}
	err := <-a.copyErr
	a.conn.Release()
	if err != nil {
		return fmt.Errorf("drivers/postgres: appender: copy: %w", err)
	}
	return nil
}

// Close aborts the in-flight COPY if Finish was never called: closing the
// pipe with an error makes pgconn's CopyFrom see a read failure and abort
// the command, so nothing staged gets committed (COPY has no separate
// transaction to roll back -- it is one statement, atomic by itself).
func (a *appender) Close() error {
	if a.finished {
		return nil
	}
	a.finished = true
	a.pw.CloseWithError(errors.New("drivers/postgres: appender: closed without Finish"))
	<-a.copyErr
	a.conn.Release()
	return nil
}
