// Package migrations embeds the Tango naming database schema into the binary.
//
// The files follow the YYYYMMDD_HHMMSS_description.up.sql convention
// understood by database.DB.Migrate and database.DB.CheckMigrations.
package migrations

import "embed"

// FS holds every migration file at its root.
//
//go:embed *.sql
var FS embed.FS
