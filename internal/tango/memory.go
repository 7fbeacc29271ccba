package tango

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// MemoryDatabase serves a Dump held in memory.
// It is read-only and safe for concurrent use after construction.
type MemoryDatabase struct {
	host    string
	port    int
	devices map[string]*DumpDevice // keyed by lower-cased name
}

// Compile-time check.
var _ Database = (*MemoryDatabase)(nil)

// NewMemoryDatabase indexes a validated dump.
func NewMemoryDatabase(d *Dump) *MemoryDatabase {
	m := &MemoryDatabase{
		host:    d.Host,
		port:    d.Port,
		devices: make(map[string]*DumpDevice, len(d.Devices)),
	}
	for i := range d.Devices {
		dev := &d.Devices[i]
		m.devices[strings.ToLower(dev.Name)] = dev
	}
	return m
}

// LoadMemoryDatabase reads a JSON dump file into a MemoryDatabase.
func LoadMemoryDatabase(path string) (*MemoryDatabase, error) {
	d, err := LoadDump(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryDatabase(d), nil
}

// DeviceNames returns the devices of class under server, sorted by name.
func (m *MemoryDatabase) DeviceNames(ctx context.Context, server, class string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var names []string
	for _, dev := range m.devices {
		if strings.EqualFold(dev.Server, server) && strings.EqualFold(dev.Class, class) {
			names = append(names, dev.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// DeviceClasses returns every device under server with its class, sorted by name.
func (m *MemoryDatabase) DeviceClasses(ctx context.Context, server string) ([]DeviceClass, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []DeviceClass
	for _, dev := range m.devices {
		if strings.EqualFold(dev.Server, server) {
			out = append(out, DeviceClass{Name: dev.Name, Class: dev.Class})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Property returns a copy of the property values, or an empty slice.
func (m *MemoryDatabase) Property(ctx context.Context, device, name string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dev, ok := m.devices[strings.ToLower(device)]
	if !ok {
		return []string{}, nil
	}
	for prop, values := range dev.Properties {
		if strings.EqualFold(prop, name) {
			return append([]string{}, values...), nil
		}
	}
	return []string{}, nil
}

// PropertyNames returns the sorted property names of device matching pattern.
func (m *MemoryDatabase) PropertyNames(ctx context.Context, device, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dev, ok := m.devices[strings.ToLower(device)]
	if !ok {
		return nil, nil
	}

	var names []string
	for prop := range dev.Properties {
		if matchWildcard(pattern, prop) {
			names = append(names, prop)
		}
	}
	sort.Strings(names)
	return names, nil
}

// AliasFromDevice returns the alias of device.
func (m *MemoryDatabase) AliasFromDevice(ctx context.Context, device string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dev, ok := m.devices[strings.ToLower(device)]
	if !ok || dev.Alias == "" {
		return "", fmt.Errorf("%w: %s", ErrAliasNotFound, device)
	}
	return dev.Alias, nil
}

// AttributeProperties returns the rows for the attribute property name,
// ordered by attribute and value position.
func (m *MemoryDatabase) AttributeProperties(ctx context.Context, device, name string) ([]AttributeValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dev, ok := m.devices[strings.ToLower(device)]
	if !ok {
		return nil, nil
	}

	attributes := make([]string, 0, len(dev.AttributeProperties))
	for attr := range dev.AttributeProperties {
		attributes = append(attributes, attr)
	}
	sort.Strings(attributes)

	var rows []AttributeValue
	for _, attr := range attributes {
		for prop, values := range dev.AttributeProperties[attr] {
			if prop != name {
				continue
			}
			for _, v := range values {
				rows = append(rows, AttributeValue{Attribute: attr, Value: v})
			}
		}
	}
	return rows, nil
}

// Host returns the naming database host recorded in the dump.
func (m *MemoryDatabase) Host() string { return m.host }

// Port returns the naming database port recorded in the dump.
func (m *MemoryDatabase) Port() int { return m.port }
