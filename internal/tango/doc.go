// Package tango reads Sardana device configuration from a Tango naming database.
//
// The naming database is reached through the Database interface. Two
// implementations ship with the package:
//
//   - SQLDatabase reads the device, property_device and
//     property_attribute_device tables from a SQLite copy of the naming
//     database, opened with the infrastructure/database package.
//   - MemoryDatabase serves a JSON dump held in memory. It backs the
//     "fixture" backend and the tests.
//
// Adapter layers the queries the export needs on top of a Database:
// newline-joined property values, optional lookups, the non-default
// property list and memorized attribute values.
//
// Usage:
//
//	dump, err := tango.LoadDump("tangodb.json")
//	if err != nil {
//	    return err
//	}
//	adapter := tango.NewAdapter(tango.NewMemoryDatabase(dump))
//	axis, ok, err := adapter.LookupProperty(ctx, "motor/ctrl01/1", "Axis")
package tango
