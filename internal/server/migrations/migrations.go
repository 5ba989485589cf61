// Package migrations embeds the PostgreSQL schema of the analysis gateway.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
