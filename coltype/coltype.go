// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package coltype maps each driver's native type names onto the Canonical
// Type System, realized here as concrete arrow.DataType values, and back.
// Every per-driver mapping in this package is partial in one direction or
// the other (spec §4.2): a db type the driver doesn't know about in its
// type-name table is rejected with CannotConvertSchema rather than guessed.
package coltype

import "github.com/apache/arrow/go/v17/arrow"

// MetadataDBType is the arrow.Field metadata key FieldWithDBType uses to
// record the original native type name (grounded on
// original_source/connector_arrow/src/postgres/types.rs's
// METADATA_DB_TYPE, which does the same for Postgres types with no Arrow
// equivalent).
const MetadataDBType = "dbxport.db_type"

// FieldWithDBType builds an arrow.Field carrying its originating db type
// name as metadata. No driver facade in this module calls it: each one
// rejects an unmapped db type with CannotConvertSchema instead of falling
// back to arrow.Binary.
func FieldWithDBType(name string, ty arrow.DataType, nullable bool, dbType string) arrow.Field {
	return arrow.Field{
		Name:     name,
		Type:     ty,
		Nullable: nullable,
		Metadata: arrow.NewMetadata([]string{MetadataDBType}, []string{dbType}),
	}
}
