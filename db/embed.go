// Package db provides the embedded local storage schema.
package db

import _ "embed"

// Schema contains the DDL statements for the client's session tables.
//
//go:embed schema.sql
var Schema string
