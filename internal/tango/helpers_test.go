package tango

import (
	"context"
	"errors"
)

func testDump() *Dump {
	return &Dump{
		Host: "tangodb01",
		Port: 10000,
		Devices: []DumpDevice{
			{
				Name:   "pool/b108a/1",
				Class:  "Pool",
				Server: "Pool/B108A",
				Alias:  "Pool_B108A",
				Properties: map[string][]string{
					"PoolPath": {"/opt/ctrls", "/home/ctrls"},
				},
			},
			{
				Name:   "motor/ctrl01/1",
				Class:  "Motor",
				Server: "Pool/B108A",
				Alias:  "mot01",
				Properties: map[string][]string{
					"id":      {"12"},
					"ctrl_id": {"3"},
					"Axis":    {"1"},
					"Sleep":   {"0.1"},
				},
				AttributeProperties: map[string]map[string][]string{
					"Offset":       {"__value": {"0.5"}, "unit": {"mm"}},
					"DialPosition": {"__value": {"12.0"}},
					"PowerOn":      {"__value": {"1"}},
					"Sign":         {"__value": {"-1"}},
				},
			},
			{
				Name:   "controller/ctrl01/1",
				Class:  "Controller",
				Server: "Pool/B108A",
				Properties: map[string][]string{
					"id":      {"3"},
					"type":    {"Motor"},
					"library": {"IcePAPCtrl.py"},
					"klass":   {"IcepapController"},
					"Host":    {"icepap01"},
					"Port":    {"5000"},
				},
			},
			{
				Name:   "ms/b108a/1",
				Class:  "MacroServer",
				Server: "MacroServer/B108A",
			},
		},
	}
}

// failingDatabase returns err from every query.
type failingDatabase struct {
	err error
}

var errBackend = errors.New("backend down")

func (f failingDatabase) DeviceNames(context.Context, string, string) ([]string, error) {
	return nil, f.err
}

func (f failingDatabase) DeviceClasses(context.Context, string) ([]DeviceClass, error) {
	return nil, f.err
}

func (f failingDatabase) Property(context.Context, string, string) ([]string, error) {
	return nil, f.err
}

func (f failingDatabase) PropertyNames(context.Context, string, string) ([]string, error) {
	return nil, f.err
}

func (f failingDatabase) AliasFromDevice(context.Context, string) (string, error) {
	return "", f.err
}

func (f failingDatabase) AttributeProperties(context.Context, string, string) ([]AttributeValue, error) {
	return nil, f.err
}

func (failingDatabase) Host() string { return "" }
func (failingDatabase) Port() int    { return 0 }
