// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command dbxport is a small demo CLI: open a connector by driver name and
// DSN, run one query through dbxport.QueryOne, and print the row/batch
// counts read back. It mirrors cmd/cc-backend's flag-parsing and .env
// loading style (main.go/cli.go, runtimeEnv.LoadEnv), but loads .env via
// the real github.com/joho/godotenv instead of a hand-rolled reader.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	dbxport "github.com/ClusterCockpit/cc-dbxport"
	"github.com/ClusterCockpit/cc-dbxport/drivers/duckdb"
	"github.com/ClusterCockpit/cc-dbxport/drivers/mssql"
	"github.com/ClusterCockpit/cc-dbxport/drivers/mysql"
	"github.com/ClusterCockpit/cc-dbxport/drivers/postgres"
	"github.com/ClusterCockpit/cc-dbxport/drivers/sqlite"
	"github.com/ClusterCockpit/cc-dbxport/metrics"
	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

// connectors maps a -driver flag value to the Connect func of the matching
// drivers/ package. Every facade shares the (ctx, dsn) -> (*Connector, error)
// shape, so a registry of closures is all that's needed here -- no
// reflection, no factory interface.
var connectors = map[string]func(ctx context.Context, dsn string) (dbxport.Connector, error){
	"postgres": func(ctx context.Context, dsn string) (dbxport.Connector, error) { return postgres.Connect(ctx, dsn) },
	"mysql":    func(ctx context.Context, dsn string) (dbxport.Connector, error) { return mysql.Connect(ctx, dsn) },
	"sqlite":   func(ctx context.Context, dsn string) (dbxport.Connector, error) { return sqlite.Connect(ctx, dsn) },
	"duckdb":   func(ctx context.Context, dsn string) (dbxport.Connector, error) { return duckdb.Connect(ctx, dsn) },
	"mssql":    func(ctx context.Context, dsn string) (dbxport.Connector, error) { return mssql.Connect(ctx, dsn) },
}

func driverNames() string {
	names := make([]string, 0, len(connectors))
	for name := range connectors {
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

func main() {
	var flagDriver, flagDSN, flagQuery, flagEnvFile, flagLogLevel string
	var flagMetrics bool
	flag.StringVar(&flagDriver, "driver", "", fmt.Sprintf("Database driver to use: one of %s", driverNames()))
	flag.StringVar(&flagDSN, "dsn", "", "Driver-native connection string; may also be set via the DBXPORT_DSN .env/environment variable")
	flag.StringVar(&flagQuery, "query", "", "SQL query to run")
	flag.StringVar(&flagEnvFile, "env", "./.env", "Path to a .env file to load before resolving -dsn")
	flag.StringVar(&flagLogLevel, "loglevel", "info", "Sets the logging level: [debug, info, warn, err, crit]")
	flag.BoolVar(&flagMetrics, "metrics", false, "Wrap the connector with the metrics package's Prometheus instrumentation")
	flag.Parse()

	log.SetLogLevel(flagLogLevel)

	if err := godotenv.Load(flagEnvFile); err != nil && !os.IsNotExist(err) {
		log.Fatalf("dbxport: loading %s failed: %s", flagEnvFile, err.Error())
	}

	if flagDSN == "" {
		flagDSN = os.Getenv("DBXPORT_DSN")
	}

	if flagDriver == "" || flagDSN == "" || flagQuery == "" {
		flag.Usage()
		log.Fatalf("dbxport: -driver, -dsn (or DBXPORT_DSN) and -query are all required")
	}

	connect, ok := connectors[flagDriver]
	if !ok {
		log.Fatalf("dbxport: unknown driver %q, expected one of %s", flagDriver, driverNames())
	}

	ctx := context.Background()
	conn, err := connect(ctx, flagDSN)
	if err != nil {
		log.Fatalf("dbxport: connect: %s", err.Error())
	}
	if flagMetrics {
		conn = metrics.Wrap(conn, flagDriver)
	}
	defer conn.Close()

	records, err := dbxport.QueryOne(ctx, conn, flagQuery)
	if err != nil {
		log.Fatalf("dbxport: query: %s", err.Error())
	}

	rows := 0
	for _, rec := range records {
		rows += int(rec.NumRows())
		rec.Release()
	}
	log.Printf("dbxport: %d batch(es), %d row(s) total", len(records), rows)
}
