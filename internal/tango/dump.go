package tango

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Dump is a JSON snapshot of the naming database.
//
// Example:
//
//	{
//	  "host": "tangodb01",
//	  "port": 10000,
//	  "devices": [
//	    {
//	      "name": "motor/ctrl01/1",
//	      "class": "Motor",
//	      "server": "Pool/B108A",
//	      "alias": "mot01",
//	      "properties": {"id": ["12"], "ctrl_id": ["3"], "Axis": ["1"]},
//	      "attribute_properties": {"Offset": {"__value": ["0.5"]}}
//	    }
//	  ]
//	}
type Dump struct {
	Host    string       `json:"host"`
	Port    int          `json:"port"`
	Devices []DumpDevice `json:"devices"`
}

// DumpDevice is one device of a Dump.
type DumpDevice struct {
	Name       string              `json:"name"`
	Class      string              `json:"class"`
	Server     string              `json:"server"`
	Alias      string              `json:"alias,omitempty"`
	Properties map[string][]string `json:"properties,omitempty"`

	// AttributeProperties maps attribute -> property name -> values.
	AttributeProperties map[string]map[string][]string `json:"attribute_properties,omitempty"`
}

// LoadDump reads and validates a JSON dump from a file.
func LoadDump(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dump: %w", err)
	}
	defer f.Close()

	return ParseDump(f)
}

// ParseDump decodes and validates a JSON dump.
func ParseDump(r io.Reader) (*Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidDump, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks that device names and aliases are unique and that every
// device has a class and a server.
func (d *Dump) Validate() error {
	names := make(map[string]bool, len(d.Devices))
	aliases := make(map[string]string)

	for i, dev := range d.Devices {
		if dev.Name == "" {
			return fmt.Errorf("%w: device %d has no name", ErrInvalidDump, i)
		}
		if dev.Class == "" || dev.Server == "" {
			return fmt.Errorf("%w: device %s needs class and server", ErrInvalidDump, dev.Name)
		}

		key := strings.ToLower(dev.Name)
		if names[key] {
			return fmt.Errorf("%w: duplicate device %s", ErrInvalidDump, dev.Name)
		}
		names[key] = true

		if dev.Alias == "" {
			continue
		}
		if other, ok := aliases[dev.Alias]; ok {
			return fmt.Errorf("%w: alias %s used by %s and %s", ErrInvalidDump, dev.Alias, other, dev.Name)
		}
		aliases[dev.Alias] = dev.Name
	}
	return nil
}
