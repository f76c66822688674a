// Package migrations embeds the PostgreSQL save-game schema.
package migrations

import "embed"

// FS holds the golang-migrate up and down files.
//
//go:embed *.sql
var FS embed.FS
