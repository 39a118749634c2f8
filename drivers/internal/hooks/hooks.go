// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hooks instruments query latency for the sqlhooks-wrapped
// drivers (SQLite, MySQL, MS SQL), adapted from cc-backend's
// internal/repository/hooks.go: same Before/After shape, same log calls,
// generalized to any driver registration rather than one hardcoded to
// sqlite3.
package hooks

import (
	"context"
	"time"

	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

type queryTimingKey struct{}

// Hooks satisfies qustavo/sqlhooks/v2's Hooks interface.
type Hooks struct{}

// Before logs the query text and args, and stashes a start time for After.
func (h *Hooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	log.Debugf("SQL query %s %q", query, args)
	return context.WithValue(ctx, queryTimingKey{}, time.Now()), nil
}

// After logs how long the query took since Before ran.
func (h *Hooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	begin, _ := ctx.Value(queryTimingKey{}).(time.Time)
	log.Debugf("Took: %s", time.Since(begin))
	return ctx, nil
}
