// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package dbxport moves relational data between heterogeneous SQL engines and
// an in-memory Arrow columnar representation.
package dbxport

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that do not carry driver-specific detail.
var (
	// ErrNoResultSets is returned by Statement.Start when the executed
	// statement produced no result set (e.g. a DDL or DML statement run
	// through a path that expects rows back).
	ErrNoResultSets = errors.New("dbxport: statement produced no result sets")

	// ErrMultipleResultSets is returned when a driver reports more than one
	// result set and the caller asked for exactly one.
	ErrMultipleResultSets = errors.New("dbxport: statement produced multiple result sets")

	// ErrUnsupported is returned by Producer/Consumer implementations that
	// are asked to transport a CTS variant they do not implement for a given
	// driver. It is a distinct kind from a schema mismatch: the type is
	// valid CTS, the driver just never learned to move it.
	ErrUnsupported = errors.New("dbxport: unsupported type for this driver")
)

// CannotConvertSchema is returned when a driver-native type has no mapping
// into the Canonical Type System at all (not even a lossy one).
type CannotConvertSchema struct {
	Connector string
	Column    string
	DBType    string
}

func (e *CannotConvertSchema) Error() string {
	return fmt.Sprintf("dbxport/%s: column %q: cannot convert db type %q to a canonical type", e.Connector, e.Column, e.DBType)
}

// DataSchemaMismatch is returned when a row's runtime shape disagrees with
// the schema the reader committed to earlier (e.g. SQLite's per-row dynamic
// typing surfaces a storage class incompatible with the inferred column
// type).
type DataSchemaMismatch struct {
	Column   string
	Expected string
	Got      string
}

func (e *DataSchemaMismatch) Error() string {
	return fmt.Sprintf("dbxport: column %q: schema expected %s, row produced %s", e.Column, e.Expected, e.Got)
}

// DataOutOfRange is returned when a value is representable in the source
// type but cannot be losslessly carried by the destination CTS variant (a
// decimal whose precision exceeds Decimal256, a uint64 that overflows
// int64, and so on).
type DataOutOfRange struct {
	Column string
	Value  string
	Target string
}

func (e *DataOutOfRange) Error() string {
	return fmt.Sprintf("dbxport: column %q: value %s out of range for %s", e.Column, e.Value, e.Target)
}

// NotSupported reports a connector/feature combination that is intentionally
// unimplemented, as distinct from ErrUnsupported's per-cell granularity.
type NotSupported struct {
	Connector string
	Feature   string
}

func (e *NotSupported) Error() string {
	return fmt.Sprintf("dbxport/%s: %s is not supported", e.Connector, e.Feature)
}

// IncompatibleSchema is returned by Appender/SchemaEdit operations when the
// caller's Arrow schema cannot be reconciled with a table's declared schema.
type IncompatibleSchema struct {
	Table   string
	Message string
	Hint    string
}

func (e *IncompatibleSchema) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("dbxport: table %q: %s", e.Table, e.Message)
	}
	return fmt.Sprintf("dbxport: table %q: %s (%s)", e.Table, e.Message, e.Hint)
}

// TableCreateError wraps failures from SchemaEdit.TableCreate. Exactly one of
// Exists or Connector is set.
type TableCreateError struct {
	Table     string
	Exists    bool
	Connector error
}

func (e *TableCreateError) Error() string {
	if e.Exists {
		return fmt.Sprintf("dbxport: table %q already exists", e.Table)
	}
	return fmt.Sprintf("dbxport: create table %q: %v", e.Table, e.Connector)
}

func (e *TableCreateError) Unwrap() error { return e.Connector }

// TableDropError wraps failures from SchemaEdit.TableDrop. Exactly one of
// Nonexistent or Connector is set.
type TableDropError struct {
	Table       string
	Nonexistent bool
	Connector   error
}

func (e *TableDropError) Error() string {
	if e.Nonexistent {
		return fmt.Sprintf("dbxport: table %q does not exist", e.Table)
	}
	return fmt.Sprintf("dbxport: drop table %q: %v", e.Table, e.Connector)
}

func (e *TableDropError) Unwrap() error { return e.Connector }

// IsTableExists reports whether err is (or wraps) a TableCreateError for an
// already-existing table.
func IsTableExists(err error) bool {
	var tce *TableCreateError
	return errors.As(err, &tce) && tce.Exists
}

// IsTableNonexistent reports whether err is (or wraps) a TableDropError for a
// table that was never there.
func IsTableNonexistent(err error) bool {
	var tde *TableDropError
	return errors.As(err, &tde) && tde.Nonexistent
}
