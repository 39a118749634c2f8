// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestSqlStateExtractsPgErrorCode(t *testing.T) {
	err := &pgconn.PgError{Code: sqlStateDuplicateTable}
	require.Equal(t, sqlStateDuplicateTable, sqlState(err))
}

func TestSqlStateWrappedError(t *testing.T) {
	err := fmtErrorf(&pgconn.PgError{Code: sqlStateUndefinedTable})
	require.Equal(t, sqlStateUndefinedTable, sqlState(err))
}

func TestSqlStateNonPgError(t *testing.T) {
	require.Equal(t, "", sqlState(errors.New("boom")))
}

func fmtErrorf(pgErr *pgconn.PgError) error {
	return errors.Join(errors.New("wrapped"), pgErr)
}
