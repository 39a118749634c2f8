// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duckdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsCatalogErrorAlreadyExists(t *testing.T) {
	err := errors.New(`Catalog Error: Table with name "t" already exists!`)
	require.True(t, isCatalogError(err, "already exists!"))
}

func TestIsCatalogErrorDoesNotExist(t *testing.T) {
	err := errors.New(`Catalog Error: Table with name t does not exist!`)
	require.True(t, isCatalogError(err, "does not exist!"))
}

func TestIsCatalogErrorUnrelated(t *testing.T) {
	err := errors.New("connection refused")
	require.False(t, isCatalogError(err, "already exists!"))
}

func TestIsCatalogErrorWrongSuffix(t *testing.T) {
	err := errors.New(`Catalog Error: Table with name "t" already exists!`)
	require.False(t, isCatalogError(err, "does not exist!"))
}
