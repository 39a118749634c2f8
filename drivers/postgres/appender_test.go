// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"
)

// TestAppenderAppendEncodesRowFrame exercises Append's row-framing logic
// (field count + per-column length-prefixed or -1 null markers) without a
// live connection: only pw/fields are wired, matching what Append actually
// touches (Finish/Close additionally release the pooled conn).
func TestAppenderAppendEncodesRowFrame(t *testing.T) {
	pool := memory.NewGoAllocator()
	ib := array.NewInt32Builder(pool)
	ib.Append(7)
	ib.AppendNull()
	icol := ib.NewInt32Array()
	defer icol.Release()

	sch := arrow.NewSchema([]arrow.Field{{Name: "n", Type: arrow.PrimitiveTypes.Int32, Nullable: true}}, nil)
	rec := array.NewRecord(sch, []arrow.Array{icol}, 2)
	defer rec.Release()

	pr, pw := io.Pipe()
	var got bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&got, pr)
		close(done)
	}()

	a := &appender{table: "t", fields: sch.Fields(), pw: pw}
	require.NoError(t, a.Append(context.Background(), rec))
	pw.Close()
	<-done

	// Row 1: field count 1, then length 4 + value 7.
	require.Equal(t, []byte{0, 1, 0, 0, 0, 4, 0, 0, 0, 7}, got.Bytes()[:10])
	// Row 2: field count 1, then -1 (null).
	require.Equal(t, []byte{0, 1, 0xff, 0xff, 0xff, 0xff}, got.Bytes()[10:])
}
