package tango

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MemorizedValueProperty is the attribute property holding memorized values.
const MemorizedValueProperty = "__value"

// DefaultProperties are set by Sardana itself and left out of PropertyList.
var DefaultProperties = []string{
	"id",
	"ctrl_id",
	"motor_role_ids",
	"pseudo_motor_role_ids",
	"type",
	"library",
	"klass",
	"__SubDevices",
}

// excludedMemorized are memorized attributes Sardana restores on its own.
var excludedMemorized = []string{"DialPosition", "PowerOn"}

// Adapter wraps a Database with the queries the export needs.
type Adapter struct {
	db Database
}

// NewAdapter creates an Adapter over db.
func NewAdapter(db Database) *Adapter {
	return &Adapter{db: db}
}

// Database returns the wrapped database.
func (a *Adapter) Database() Database {
	return a.db
}

// DeviceNames returns the devices of class under server.
func (a *Adapter) DeviceNames(ctx context.Context, server, class string) ([]string, error) {
	names, err := a.db.DeviceNames(ctx, server, class)
	if err != nil {
		return nil, fmt.Errorf("listing %s devices of %s: %w", class, server, err)
	}
	return names, nil
}

// DeviceClasses returns every device under server with its class.
func (a *Adapter) DeviceClasses(ctx context.Context, server string) ([]DeviceClass, error) {
	classes, err := a.db.DeviceClasses(ctx, server)
	if err != nil {
		return nil, fmt.Errorf("listing devices of %s: %w", server, err)
	}
	return classes, nil
}

// PropertyValue returns a property as one string. Multiple values are
// joined with a newline.
// Returns ErrPropertyNotFound when the property has no value.
func (a *Adapter) PropertyValue(ctx context.Context, device, name string) (string, error) {
	values, err := a.db.Property(ctx, device, name)
	if err != nil {
		return "", fmt.Errorf("reading property %s of %s: %w", name, device, err)
	}
	if len(values) == 0 {
		return "", fmt.Errorf("%w: %s of %s", ErrPropertyNotFound, name, device)
	}
	return strings.Join(values, "\n"), nil
}

// LookupProperty is PropertyValue with an explicit optional result.
// A missing property returns ok=false and no error.
func (a *Adapter) LookupProperty(ctx context.Context, device, name string) (string, bool, error) {
	value, err := a.PropertyValue(ctx, device, name)
	if errors.Is(err, ErrPropertyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// PropertyValues returns the raw values of a property.
func (a *Adapter) PropertyValues(ctx context.Context, device, name string) ([]string, error) {
	values, err := a.db.Property(ctx, device, name)
	if err != nil {
		return nil, fmt.Errorf("reading property %s of %s: %w", name, device, err)
	}
	return values, nil
}

// PropertyList returns the names of the properties of device that are not
// in DefaultProperties.
func (a *Adapter) PropertyList(ctx context.Context, device string) ([]string, error) {
	names, err := a.db.PropertyNames(ctx, device, "*")
	if err != nil {
		return nil, fmt.Errorf("listing properties of %s: %w", device, err)
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(DefaultProperties, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// Properties returns "name:value" for every property in PropertyList.
func (a *Adapter) Properties(ctx context.Context, device string) ([]string, error) {
	names, err := a.PropertyList(ctx, device)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		value, ok, err := a.LookupProperty(ctx, device, n)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, n+":"+value)
	}
	return out, nil
}

// Alias returns the alias of device, with ok=false when it has none.
func (a *Adapter) Alias(ctx context.Context, device string) (string, bool, error) {
	alias, err := a.db.AliasFromDevice(ctx, device)
	if errors.Is(err, ErrAliasNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading alias of %s: %w", device, err)
	}
	return alias, true, nil
}

// MemorizedAttributes returns "attribute:value" for the memorized
// attributes of device, leaving out DialPosition and PowerOn.
func (a *Adapter) MemorizedAttributes(ctx context.Context, device string) ([]string, error) {
	rows, err := a.db.AttributeProperties(ctx, device, MemorizedValueProperty)
	if err != nil {
		return nil, fmt.Errorf("reading memorized attributes of %s: %w", device, err)
	}

	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if slices.Contains(excludedMemorized, r.Attribute) {
			continue
		}
		out = append(out, r.Attribute+":"+r.Value)
	}
	return out, nil
}

// Address returns the naming database address as host:port.
func (a *Adapter) Address() string {
	return a.db.Host() + ":" + strconv.Itoa(a.db.Port())
}
