package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Naming database backends.
const (
	BackendSQLite  = "sqlite"
	BackendFixture = "fixture"
)

// Config is the root configuration structure for sardana2xls.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Tango    TangoConfig    `yaml:"tango"`
	Database DatabaseConfig `yaml:"database"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
}

// TangoConfig describes the naming database the export reads from.
type TangoConfig struct {
	// Host and Port identify the naming database. TANGO_HOST (host:port)
	// overrides both.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Backend selects how devices are read: "sqlite" reads the Tango schema
	// from Database.Path, "fixture" loads a JSON dump from Fixture.
	Backend string `yaml:"backend"`
	Fixture string `yaml:"fixture"`
}

// DatabaseConfig contains SQLite database settings for the sqlite backend.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`

	// ReadOnly opens an existing, already migrated database without write
	// access. Seeding is not possible in this mode.
	ReadOnly bool `yaml:"read_only"`
}

// ExportConfig controls the generated workbook.
type ExportConfig struct {
	// Template is an optional workbook copied for every export.
	// When empty the built-in sheet layout is generated.
	Template string `yaml:"template"`

	// OutputDir is where <pool>.xlsx is written. Empty means the working directory.
	OutputDir string `yaml:"output_dir"`

	// HeaderRows is the number of rows above the first data row of each sheet.
	HeaderRows int `yaml:"header_rows"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MQTTConfig contains MQTT broker settings for export notifications.
type MQTTConfig struct {
	Enabled     bool             `yaml:"enabled"`
	Broker      MQTTBrokerConfig `yaml:"broker"`
	Auth        MQTTAuthConfig   `yaml:"auth"`
	QoS         int              `yaml:"qos"`
	TopicPrefix string           `yaml:"topic_prefix"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// InfluxDBConfig contains InfluxDB connection settings for inventory metrics.
type InfluxDBConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults), skipped when path is empty
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern SARDANA2XLS_SECTION_KEY, for example
// SARDANA2XLS_DATABASE_PATH. TANGO_HOST sets the naming database address.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Tango: TangoConfig{
			Host:    "localhost",
			Port:    10000,
			Backend: BackendSQLite,
		},
		Database: DatabaseConfig{
			Path:        "./data/tangodb.db",
			BusyTimeout: 5,
		},
		Export: ExportConfig{
			HeaderRows: 1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "sardana2xls",
			},
			QoS:         1,
			TopicPrefix: "sardana2xls",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TANGO_HOST"); v != "" {
		host, port, err := ParseTangoHost(v)
		if err != nil {
			return err
		}
		cfg.Tango.Host = host
		cfg.Tango.Port = port
	}

	if v := os.Getenv("SARDANA2XLS_TANGO_BACKEND"); v != "" {
		cfg.Tango.Backend = v
	}
	if v := os.Getenv("SARDANA2XLS_TANGO_FIXTURE"); v != "" {
		cfg.Tango.Fixture = v
	}

	// Database
	if v := os.Getenv("SARDANA2XLS_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("SARDANA2XLS_DATABASE_READ_ONLY"); v != "" {
		readOnly, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SARDANA2XLS_DATABASE_READ_ONLY %q: %w", v, err)
		}
		cfg.Database.ReadOnly = readOnly
	}

	// Export
	if v := os.Getenv("SARDANA2XLS_EXPORT_TEMPLATE"); v != "" {
		cfg.Export.Template = v
	}
	if v := os.Getenv("SARDANA2XLS_EXPORT_OUTPUT_DIR"); v != "" {
		cfg.Export.OutputDir = v
	}

	// Logging
	if v := os.Getenv("SARDANA2XLS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// MQTT
	if v := os.Getenv("SARDANA2XLS_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SARDANA2XLS_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SARDANA2XLS_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("SARDANA2XLS_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	return nil
}

// ParseTangoHost splits a TANGO_HOST value ("host:port") into its parts.
// Only the first entry of a comma-separated list is used.
func ParseTangoHost(value string) (string, int, error) {
	first, _, _ := strings.Cut(value, ",")
	host, portStr, ok := strings.Cut(strings.TrimSpace(first), ":")
	if !ok || host == "" {
		return "", 0, fmt.Errorf("invalid TANGO_HOST %q: expected host:port", value)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid TANGO_HOST %q: %w", value, err)
	}
	return host, port, nil
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Tango validation
	if c.Tango.Host == "" {
		errs = append(errs, "tango.host is required")
	}
	if c.Tango.Port < 1 || c.Tango.Port > 65535 {
		errs = append(errs, "tango.port must be between 1 and 65535")
	}
	switch c.Tango.Backend {
	case BackendSQLite:
		if c.Database.Path == "" {
			errs = append(errs, "database.path is required for the sqlite backend")
		}
	case BackendFixture:
		if c.Tango.Fixture == "" {
			errs = append(errs, "tango.fixture is required for the fixture backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("tango.backend must be %q or %q", BackendSQLite, BackendFixture))
	}

	// Export validation
	if c.Export.HeaderRows < 0 {
		errs = append(errs, "export.header_rows must be >= 0")
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt is enabled")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return errors.New("configuration errors: " + strings.Join(errs, "; "))
	}

	return nil
}

// TangoAddress returns the naming database address as host:port.
func (c *Config) TangoAddress() string {
	return fmt.Sprintf("%s:%d", c.Tango.Host, c.Tango.Port)
}
