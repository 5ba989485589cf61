// Package records embeds the PostgreSQL schema for conversation records.
package records

import "embed"

//go:embed *.sql
var Migrations embed.FS
