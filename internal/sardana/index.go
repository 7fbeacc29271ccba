package sardana

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/sardana2xls/internal/mapping"
	"github.com/nerrad567/sardana2xls/internal/tango"
)

// Sardana property names read by the index builders.
const (
	PropID                 = "id"
	PropCtrlID             = "ctrl_id"
	PropMotorRoleIDs       = "motor_role_ids"
	PropPseudoMotorRoleIDs = "pseudo_motor_role_ids"
	PropElements           = "elements"
	PropInstrumentList     = "InstrumentList"
	PropInstrumentID       = "instrument_id"
	PropAxis               = "Axis"
)

// adminClass is the class of the per-server admin device.
const adminClass = "DServer"

// instrumentFields is the number of InstrumentList entries per instrument:
// class, name, id.
const instrumentFields = 3

// Instrument is one entry of the Pool InstrumentList property.
type Instrument struct {
	Class string
	Name  string

	// ID is the Sardana id, or the 1-based list position when the list
	// carries no usable id.
	ID int
}

// Elements returns every device under server with its class, leaving out
// the DServer admin device.
func Elements(ctx context.Context, a *tango.Adapter, server string) ([]tango.DeviceClass, error) {
	all, err := a.DeviceClasses(ctx, server)
	if err != nil {
		return nil, err
	}

	out := make([]tango.DeviceClass, 0, len(all))
	for _, dc := range all {
		if dc.Class == adminClass {
			continue
		}
		out = append(out, dc)
	}
	return out, nil
}

// BuildAliasIndex maps device name to alias. Devices without an alias are absent.
func BuildAliasIndex(ctx context.Context, a *tango.Adapter, elements []tango.DeviceClass) (*mapping.UniqueMap[string, string], error) {
	aliases := mapping.NewUniqueMap[string, string]()
	for _, el := range elements {
		alias, ok, err := a.Alias(ctx, el.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			aliases.Set(el.Name, alias)
		}
	}
	return aliases, nil
}

// BuildIDIndex maps the Sardana id property to device name. Devices with no
// id are skipped; a non-numeric id is reported and skipped.
func BuildIDIndex(ctx context.Context, a *tango.Adapter, elements []tango.DeviceClass, report MissReporter) (*mapping.BiMap[int, string], error) {
	ids := mapping.NewBiMap[int, string]()
	for _, el := range elements {
		raw, ok, err := a.LookupProperty(ctx, el.Name, PropID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			reportMiss(report, fmt.Errorf("%w: %s %s=%q", ErrInvalidID, el.Name, PropID, raw))
			continue
		}
		ids.Set(id, el.Name)
	}
	return ids, nil
}

// BuildPropertyIndex maps device name to the ids listed in prop. Entries may
// hold several ids separated by ";". Devices without the property are absent.
func BuildPropertyIndex(ctx context.Context, a *tango.Adapter, elements []tango.DeviceClass, prop string, report MissReporter) (map[string][]int, error) {
	index := make(map[string][]int)
	for _, el := range elements {
		values, err := a.PropertyValues(ctx, el.Name, prop)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			continue
		}

		ids := make([]int, 0, len(values))
		for _, v := range values {
			for _, entry := range strings.Split(v, ";") {
				entry = strings.TrimSpace(entry)
				if entry == "" {
					continue
				}
				id, err := strconv.Atoi(entry)
				if err != nil {
					reportMiss(report, fmt.Errorf("%w: %s %s=%q", ErrInvalidID, el.Name, prop, entry))
					continue
				}
				ids = append(ids, id)
			}
		}
		index[el.Name] = ids
	}
	return index, nil
}

// BuildClassIndex maps device name to class.
func BuildClassIndex(elements []tango.DeviceClass) map[string]string {
	classes := make(map[string]string, len(elements))
	for _, el := range elements {
		classes[el.Name] = el.Class
	}
	return classes
}

// BuildInstrumentList reads the InstrumentList property of the Pool device,
// stored as flat class, name, id triplets.
func BuildInstrumentList(ctx context.Context, a *tango.Adapter, poolDevice string) ([]Instrument, error) {
	values, err := a.PropertyValues(ctx, poolDevice, PropInstrumentList)
	if err != nil {
		return nil, err
	}

	var list []Instrument
	for start := 0; start+1 < len(values); start += instrumentFields {
		inst := Instrument{
			Class: values[start],
			Name:  values[start+1],
			ID:    len(list) + 1,
		}
		if start+2 < len(values) {
			if id, err := strconv.Atoi(strings.TrimSpace(values[start+2])); err == nil {
				inst.ID = id
			}
		}
		list = append(list, inst)
	}
	return list, nil
}

// BuildInstrumentIndex maps instrument id to instrument name.
func BuildInstrumentIndex(list []Instrument) *mapping.BiMap[int, string] {
	index := mapping.NewBiMap[int, string]()
	for _, inst := range list {
		index.Set(inst.ID, inst.Name)
	}
	return index
}
