// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mssql

import (
	"errors"
	"testing"

	mssql "github.com/denisenkom/go-mssqldb"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/stretchr/testify/require"
)

func TestMssqlErrorNumberExtractsNumber(t *testing.T) {
	err := mssql.Error{Number: msgObjectExists}
	require.Equal(t, int32(msgObjectExists), mssqlErrorNumber(err))
}

func TestMssqlErrorNumberNonMssqlError(t *testing.T) {
	require.Equal(t, int32(0), mssqlErrorNumber(errors.New("boom")))
}

func TestQualifiedIdentWithSchema(t *testing.T) {
	got := qualifiedIdent(dbxport.TableIdent{Schema: "dbo", Name: "events"})
	require.Equal(t, "[dbo].[events]", got)
}

func TestQualifiedIdentWithoutSchema(t *testing.T) {
	got := qualifiedIdent(dbxport.TableIdent{Name: "events"})
	require.Equal(t, "[events]", got)
}
