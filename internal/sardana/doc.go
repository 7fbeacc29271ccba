// Package sardana classifies the devices of a Sardana Pool and formats them
// as report rows.
//
// Build reads every device registered under the Pool/<pool> and
// MacroServer/<pool> server instances once, indexes them and returns an
// immutable Inventory:
//
//   - aliases: device name to alias (a unique mapping)
//   - ids: Sardana element id to device name, and back
//   - ctrl_id, motor_role_ids, pseudo_motor_role_ids and elements: device
//     name to the element ids it references
//   - instruments: the Pool InstrumentList and an id to name index
//
// Cross-references resolve id to name to alias. A miss at any stage gives
// an empty cell and is passed to the MissReporter; the row is still produced.
//
// Usage:
//
//	inv, err := sardana.Build(ctx, adapter, "B108A",
//	    sardana.WithLogger(log),
//	    sardana.WithMissReporter(reporter),
//	)
//	if err != nil {
//	    return err
//	}
//	rows, err := inv.MotorRows(ctx)
package sardana
