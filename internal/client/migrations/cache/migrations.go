// Package cache embeds the SQLite schema of the local results cache.
package cache

import "embed"

//go:embed *.sql
var Migrations embed.FS
