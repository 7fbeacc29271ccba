// Package database provides SQLite connectivity for the sqlite naming
// database backend.
//
// The Tango naming database is normally a MySQL server. sardana2xls reads a
// SQLite copy of the tables it needs (device, property_device,
// property_attribute_device), created by the embedded migrations and filled
// from a JSON dump or by an external sync job.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql. Read-only
// connections use CheckMigrations instead of Migrate.
package database
