// Package config handles loading and validating sardana2xls configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with environment variables (TANGO_HOST, SARDANA2XLS_*)
//   - Validation of required fields
//   - Default value handling
//
// Sensitive values (MQTT password, InfluxDB token) should be set via
// environment variables rather than the config file.
//
// Usage:
//
//	cfg, err := config.Load("sardana2xls.yaml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.TangoAddress())
package config
