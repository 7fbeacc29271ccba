package sardana

import "errors"

// Domain errors for the sardana package.
var (
	// ErrPoolNotFound is returned when Pool/<pool> has no Pool device.
	ErrPoolNotFound = errors.New("sardana: pool device not found")

	// ErrMacroServerNotFound is returned when MacroServer/<pool> has no MacroServer device.
	ErrMacroServerNotFound = errors.New("sardana: macroserver device not found")

	// ErrUnresolved wraps every resolution miss passed to a MissReporter.
	ErrUnresolved = errors.New("sardana: unresolved reference")

	// ErrInvalidID is reported for an id property entry that is not a number.
	ErrInvalidID = errors.New("sardana: invalid element id")
)
