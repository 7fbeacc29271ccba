package tango

import (
	"context"
	"strings"
)

// Database is the subset of the Tango naming database client used by the export.
type Database interface {
	// DeviceNames returns the devices of class registered under a server
	// instance such as "Pool/B108A", sorted by name.
	DeviceNames(ctx context.Context, server, class string) ([]string, error)

	// DeviceClasses returns every device registered under a server instance
	// together with its class, sorted by name.
	DeviceClasses(ctx context.Context, server string) ([]DeviceClass, error)

	// Property returns the raw values of a device property.
	// An undefined property yields an empty slice and no error.
	Property(ctx context.Context, device, name string) ([]string, error)

	// PropertyNames returns the names of the properties defined on a device
	// matching pattern, where "*" matches any run of characters.
	PropertyNames(ctx context.Context, device, pattern string) ([]string, error)

	// AliasFromDevice returns the alias of a device.
	// Returns ErrAliasNotFound when the device has none.
	AliasFromDevice(ctx context.Context, device string) (string, error)

	// AttributeProperties returns the (attribute, value) rows stored for an
	// attribute property name on a device.
	AttributeProperties(ctx context.Context, device, name string) ([]AttributeValue, error)

	// Host and Port identify the naming database.
	Host() string
	Port() int
}

// DeviceClass pairs a device name with its class.
type DeviceClass struct {
	Name  string
	Class string
}

// AttributeValue is one attribute property row.
type AttributeValue struct {
	Attribute string
	Value     string
}

// matchWildcard reports whether name matches a Tango wildcard pattern.
// Only "*" is special. Matching ignores case, as the naming database does.
func matchWildcard(pattern, name string) bool {
	pattern = strings.ToLower(pattern)
	name = strings.ToLower(name)

	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == name
	}

	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]

	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		idx := strings.Index(name, part)
		if idx < 0 {
			return false
		}
		name = name[idx+len(part):]
	}
	return len(name) >= len(last) && strings.HasSuffix(name, last)
}

// likePattern converts a Tango wildcard pattern to a SQL LIKE pattern
// escaped with backslash.
func likePattern(pattern string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`, "*", "%")
	return r.Replace(pattern)
}
