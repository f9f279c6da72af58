// Package migrations embeds SQL migration files for the SQLite store.
package migrations

import "embed"

// FS contains the numbered *.up.sql files, applied in name order.
//
//go:embed *.sql
var FS embed.FS
