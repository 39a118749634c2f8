// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectorsRegistryCoversEveryDriver(t *testing.T) {
	for _, name := range []string{"postgres", "mysql", "sqlite", "duckdb", "mssql"} {
		_, ok := connectors[name]
		require.Truef(t, ok, "missing registry entry for %q", name)
	}
	require.Len(t, connectors, 5)
}

func TestDriverNamesListsEveryRegisteredDriver(t *testing.T) {
	names := driverNames()
	for key := range connectors {
		require.True(t, strings.Contains(names, key), "driverNames() %q missing %q", names, key)
	}
}
