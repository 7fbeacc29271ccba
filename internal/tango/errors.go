package tango

import "errors"

// Domain errors for the tango package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, tango.ErrPropertyNotFound) {
//	    // property not defined on the device
//	}
var (
	// ErrPropertyNotFound is returned when a device property has no value.
	ErrPropertyNotFound = errors.New("tango: property not found")

	// ErrAliasNotFound is returned when a device has no alias.
	ErrAliasNotFound = errors.New("tango: alias not found")

	// ErrInvalidDump is returned when a JSON dump cannot be used.
	ErrInvalidDump = errors.New("tango: invalid dump")
)
