// Package influxdb records sardana2xls export runs in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Every export writes
// one point per inventory category and one point describing the run:
//
//	sardana_inventory,pool=B108A,category=motors count=4i
//	sardana_export,pool=B108A misses=3i,duration_ms=12.5,run_id="..."
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.WriteInventory(ctx, influxdb.Inventory{Pool: "B108A", Counts: counts})
//
// # Error Handling
//
// Writes use the blocking write API, so failures are returned to the caller
// instead of going through an asynchronous error callback.
package influxdb
