package report

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sheet positions.
const (
	SheetGlobal = iota
	SheetServers
	SheetDoors
	SheetControllers
	SheetMotors
	SheetPseudoMotors
	SheetIORegisters
	SheetChannels
	SheetMeasurementGroups
	SheetAcquisition
	SheetUnused
	SheetInstruments

	// SheetCount is the number of sheets a workbook must have.
	SheetCount
)

// Fixed data rows of the servers sheet, counted below the header rows.
const (
	ServersPoolRow        = 0
	ServersMacroServerRow = 1
)

//go:embed layout.yaml
var defaultLayout []byte

// Layout describes the sheets of a generated workbook.
type Layout struct {
	// HeaderRows is the number of lines above the first data row.
	HeaderRows int           `yaml:"header_rows"`
	Sheets     []SheetLayout `yaml:"sheets"`
}

// SheetLayout is one sheet of a Layout.
type SheetLayout struct {
	Name    string   `yaml:"name"`
	Headers []string `yaml:"headers"`
}

// DefaultLayout returns the embedded layout.
func DefaultLayout() (*Layout, error) {
	return ParseLayout(defaultLayout)
}

// ParseLayout decodes and validates a YAML layout.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate checks the sheet count, names and header rows.
func (l *Layout) Validate() error {
	if len(l.Sheets) != SheetCount {
		return fmt.Errorf("%w: %d sheets, want %d", ErrInvalidLayout, len(l.Sheets), SheetCount)
	}
	if l.HeaderRows < 0 {
		return fmt.Errorf("%w: negative header_rows", ErrInvalidLayout)
	}

	seen := make(map[string]bool, len(l.Sheets))
	for i, s := range l.Sheets {
		if s.Name == "" {
			return fmt.Errorf("%w: sheet %d has no name", ErrInvalidLayout, i)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: duplicate sheet %q", ErrInvalidLayout, s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}
