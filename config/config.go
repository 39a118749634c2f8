// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the small set of batching tunables this library
// exposes, in the shape of cc-backend's internal/config: a package-level
// Keys value with sane defaults, an Init that overlays a JSON file on top of
// them, validated against a JSON Schema before anything is accepted.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ClusterCockpit/cc-dbxport/pkg/log"
)

// ProgramConfig is the full set of tunables a caller may override. Connect
// strings are never part of this struct -- spec keeps those driver-native
// and passed by the caller verbatim.
type ProgramConfig struct {
	// MinBatchSize is the row count at which a RowWriter flushes a pending
	// arrow.Record (spec §4.4's "flush threshold").
	MinBatchSize int `json:"min_batch_size"`

	// InsertGroupSize is the number of rows bundled into one multi-row
	// INSERT statement by the SQLite/MySQL appenders (spec §4.5).
	InsertGroupSize int `json:"insert_group_size"`

	// CursorFetchSize is the number of rows a driver is asked to prefetch
	// per round trip where the underlying client library supports it
	// (only the Postgres facade reads it).
	CursorFetchSize int `json:"cursor_fetch_size"`
}

// Keys holds the active configuration. It is safe to read concurrently once
// Init has returned; Init itself must be called before any Connector is
// opened.
var Keys = ProgramConfig{
	MinBatchSize:    1024,
	InsertGroupSize: 30,
	CursorFetchSize: 1000,
}

// configSchema is the JSON Schema every config file is validated against
// before being merged into Keys, mirroring pkg/schema.Validate's role for
// cc-backend's own program config.
const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"min_batch_size": {"type": "integer", "minimum": 1},
		"insert_group_size": {"type": "integer", "minimum": 1},
		"cursor_fetch_size": {"type": "integer", "minimum": 1}
	},
	"additionalProperties": false
}`

// Init reads and validates path, if non-empty, and overlays it onto the
// defaults in Keys. An empty path leaves the defaults untouched.
func Init(path string) error {
	if path == "" {
		log.Debugf("config: no config file given, using defaults")
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := Validate(raw); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	log.Infof("config: loaded %s", path)
	return nil
}
