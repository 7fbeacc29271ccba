package tango

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nerrad567/sardana2xls/internal/infrastructure/database"
)

// SQLDatabase reads the Tango schema tables from a SQLite database.
// The schema is created by the migrations package.
type SQLDatabase struct {
	db   *database.DB
	host string
	port int
}

// Compile-time check.
var _ Database = (*SQLDatabase)(nil)

// NewSQLDatabase wraps an open database. host and port are reported as the
// naming database address until LoadSource or Seed finds the address the
// data was dumped from.
func NewSQLDatabase(db *database.DB, host string, port int) *SQLDatabase {
	return &SQLDatabase{db: db, host: host, port: port}
}

// DeviceNames returns the devices of class under server, sorted by name.
func (s *SQLDatabase) DeviceNames(ctx context.Context, server, class string) ([]string, error) {
	query := `
		SELECT name
		FROM device
		WHERE server = ? COLLATE NOCASE AND class = ? COLLATE NOCASE
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, server, class)
	if err != nil {
		return nil, fmt.Errorf("querying device names: %w", err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// DeviceClasses returns every device under server with its class, sorted by name.
func (s *SQLDatabase) DeviceClasses(ctx context.Context, server string) ([]DeviceClass, error) {
	query := `
		SELECT name, class
		FROM device
		WHERE server = ? COLLATE NOCASE
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, server)
	if err != nil {
		return nil, fmt.Errorf("querying device classes: %w", err)
	}
	defer rows.Close()

	var out []DeviceClass
	for rows.Next() {
		var dc DeviceClass
		if err := rows.Scan(&dc.Name, &dc.Class); err != nil {
			return nil, fmt.Errorf("scanning device class: %w", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device classes: %w", err)
	}
	return out, nil
}

// Property returns the values of a device property in stored order.
func (s *SQLDatabase) Property(ctx context.Context, device, name string) ([]string, error) {
	query := `
		SELECT value
		FROM property_device
		WHERE device = ? COLLATE NOCASE AND name = ? COLLATE NOCASE
		ORDER BY count`

	rows, err := s.db.QueryContext(ctx, query, device, name)
	if err != nil {
		return nil, fmt.Errorf("querying property %s/%s: %w", device, name, err)
	}
	defer rows.Close()

	values, err := scanStrings(rows)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// PropertyNames returns the sorted property names of device matching pattern.
func (s *SQLDatabase) PropertyNames(ctx context.Context, device, pattern string) ([]string, error) {
	query := `
		SELECT DISTINCT name
		FROM property_device
		WHERE device = ? COLLATE NOCASE AND name LIKE ? ESCAPE '\'
		ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, device, likePattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("querying property names of %s: %w", device, err)
	}
	defer rows.Close()

	return scanStrings(rows)
}

// AliasFromDevice returns the alias of device.
func (s *SQLDatabase) AliasFromDevice(ctx context.Context, device string) (string, error) {
	query := `SELECT alias FROM device WHERE name = ? COLLATE NOCASE`

	var alias sql.NullString
	err := s.db.QueryRowContext(ctx, query, device).Scan(&alias)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrAliasNotFound, device)
		}
		return "", fmt.Errorf("querying alias of %s: %w", device, err)
	}
	if !alias.Valid || alias.String == "" {
		return "", fmt.Errorf("%w: %s", ErrAliasNotFound, device)
	}
	return alias.String, nil
}

// AttributeProperties returns the rows for the attribute property name,
// ordered by attribute and value position.
func (s *SQLDatabase) AttributeProperties(ctx context.Context, device, name string) ([]AttributeValue, error) {
	query := `
		SELECT attribute, value
		FROM property_attribute_device
		WHERE device = ? COLLATE NOCASE AND name = ?
		ORDER BY attribute, count`

	rows, err := s.db.QueryContext(ctx, query, device, name)
	if err != nil {
		return nil, fmt.Errorf("querying attribute properties of %s: %w", device, err)
	}
	defer rows.Close()

	var out []AttributeValue
	for rows.Next() {
		var av AttributeValue
		if err := rows.Scan(&av.Attribute, &av.Value); err != nil {
			return nil, fmt.Errorf("scanning attribute property: %w", err)
		}
		out = append(out, av)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attribute properties: %w", err)
	}
	return out, nil
}

// LoadSource replaces the configured address with the one recorded by the
// last Seed of a dump that carried host and port. It reports whether a
// recorded address was found.
func (s *SQLDatabase) LoadSource(ctx context.Context) (bool, error) {
	var host string
	var port int
	err := s.db.QueryRowContext(ctx,
		"SELECT host, port FROM dump_source WHERE id = 1",
	).Scan(&host, &port)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading dump source: %w", err)
	}
	s.host, s.port = host, port
	return true, nil
}

// Host returns the naming database host.
func (s *SQLDatabase) Host() string { return s.host }

// Port returns the naming database port.
func (s *SQLDatabase) Port() int { return s.port }

// Seed writes every device of a dump in one transaction. Devices already
// present are replaced along with their properties. When the dump carries
// host and port they are recorded as the source address.
func (s *SQLDatabase) Seed(ctx context.Context, d *Dump) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	for i := range d.Devices {
		if err := seedDevice(ctx, tx, &d.Devices[i]); err != nil {
			return fmt.Errorf("seeding %s: %w", d.Devices[i].Name, err)
		}
	}

	if d.Host != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO dump_source (id, host, port, seeded_at)
			VALUES (1, ?, ?, ?)`,
			d.Host, d.Port, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("recording dump source: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	if d.Host != "" {
		s.host, s.port = d.Host, d.Port
	}
	return nil
}

func seedDevice(ctx context.Context, tx *sql.Tx, dev *DumpDevice) error {
	for _, table := range []string{"property_device", "property_attribute_device"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE device = ? COLLATE NOCASE", dev.Name,
		); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	var alias sql.NullString
	if dev.Alias != "" {
		alias = sql.NullString{String: dev.Alias, Valid: true}
	}
	domain, family, member := splitDeviceName(dev.Name)

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO device (name, alias, domain, family, member, server, class)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		dev.Name, alias, domain, family, member, dev.Server, dev.Class,
	); err != nil {
		return fmt.Errorf("inserting device: %w", err)
	}

	for name, values := range dev.Properties {
		for i, v := range values {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO property_device (device, name, count, value) VALUES (?, ?, ?, ?)",
				dev.Name, name, i+1, v,
			); err != nil {
				return fmt.Errorf("inserting property %s: %w", name, err)
			}
		}
	}

	for attr, props := range dev.AttributeProperties {
		for name, values := range props {
			for i, v := range values {
				if _, err := tx.ExecContext(ctx, `
					INSERT INTO property_attribute_device (device, attribute, name, count, value)
					VALUES (?, ?, ?, ?, ?)`,
					dev.Name, attr, name, i+1, v,
				); err != nil {
					return fmt.Errorf("inserting attribute property %s/%s: %w", attr, name, err)
				}
			}
		}
	}
	return nil
}

// splitDeviceName splits "domain/family/member". Missing parts are empty.
func splitDeviceName(name string) (domain, family, member string) {
	parts := strings.SplitN(name, "/", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[0], parts[1], parts[2]
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}
