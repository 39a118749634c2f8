// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics is an optional Prometheus instrumentation layer around
// dbxport.Connector, following the promauto registration style of
// internal/staging/stage/metrics.go from the retrieved pack (counters and
// histograms declared as package vars via promauto.NewCounterVec/
// NewHistogramVec, labeled per table/connector rather than per call).
// cc-backend's own prometheus import
// (internal/metricdata/prometheus.go) only ever queries a remote
// Prometheus server, so it has nothing to ground a self-exposed metrics
// package on; this is built from the DBAShand-cdc-sink-redshift pattern
// instead.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// connectorLabel names the dimension every metric in this package is
// broken down by: the driver name passed to Wrap (e.g. "postgres",
// "duckdb", "mssql").
var connectorLabel = []string{"connector"}

// LatencyBuckets covers sub-millisecond single-row appends up through
// multi-second batch flushes, wide enough for both the row-at-a-time
// DuckDB/MSSQL appenders and the 30-row batched MySQL/SQLite inserts.
var LatencyBuckets = []float64{
	.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

var (
	rowsProduced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dbxport_rows_produced_total",
		Help: "number of rows read from a ResultReader",
	}, connectorLabel)

	rowsAppended = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dbxport_rows_appended_total",
		Help: "number of rows staged through an Appender",
	}, connectorLabel)

	batchesFlushed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dbxport_batches_flushed_total",
		Help: "number of arrow.Record batches passed to Appender.Append",
	}, connectorLabel)

	appendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dbxport_append_duration_seconds",
		Help:    "time spent in one Appender.Append call",
		Buckets: LatencyBuckets,
	}, connectorLabel)

	finishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dbxport_append_finish_duration_seconds",
		Help:    "time spent committing an Appender via Finish",
		Buckets: LatencyBuckets,
	}, connectorLabel)

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dbxport_statement_start_duration_seconds",
		Help:    "time spent in Statement.Start before the first row is available",
		Buckets: LatencyBuckets,
	}, connectorLabel)

	appendErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dbxport_append_errors_total",
		Help: "number of Appender.Append/Finish calls that returned an error",
	}, connectorLabel)

	readErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dbxport_read_errors_total",
		Help: "number of Statement.Start/ResultReader calls that returned an error",
	}, connectorLabel)
)

func since(t time.Time) float64 { return time.Since(t).Seconds() }
