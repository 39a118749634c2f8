// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package escape quotes table and column identifiers the way each engine's
// SQL dialect requires, per spec §4.6's "portable identifier escaping".
package escape

import "strings"

// Dialect picks the quoting rule for one engine.
type Dialect int

const (
	// DoubleQuote is the ANSI-standard rule: wrap in "..." and double any
	// embedded ". Used by Postgres, SQLite and DuckDB.
	DoubleQuote Dialect = iota
	// Backtick wraps in `...` and doubles any embedded backtick. Used by
	// MySQL.
	Backtick
	// Bracket wraps in [...] and doubles any embedded ]. Used by MS SQL.
	Bracket
)

// Ident quotes name for dialect d.
func Ident(d Dialect, name string) string {
	switch d {
	case Backtick:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case Bracket:
		return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// QualifiedIdent quotes schema.name, omitting the schema segment when empty.
func QualifiedIdent(d Dialect, schema, name string) string {
	if schema == "" {
		return Ident(d, name)
	}
	return Ident(d, schema) + "." + Ident(d, name)
}
