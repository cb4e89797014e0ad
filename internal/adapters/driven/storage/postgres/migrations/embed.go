// Package migrations embeds the SQL schema of the Postgres store.
package migrations

import "embed"

// FS holds the numbered *.up.sql files, applied in order.
//
//go:embed *.sql
var FS embed.FS
