package sardana

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Row is one report line, one string per cell.
type Row = []string

// Column positions shared by the element rows (motor, pseudo-motor,
// IO register, channel).
const (
	colElementType = iota
	colElementPool
	colElementCtrl
	colElementAlias
	colElementDevice
	colElementAxis
)

// Column positions of controller and measurement group rows.
const (
	colCtrlType  = 0
	colCtrlAlias = 2
	colMGAlias   = 2
	colMGDesc    = 5
)

const doorDescription = "enter description"

// elementRow formats an axis-bearing element:
// type, pool, controller alias, alias, device, axis, instrument, description, attributes.
func (inv *Inventory) elementRow(ctx context.Context, name, typ string) (Row, error) {
	a := inv.adapter

	axis, _, err := a.LookupProperty(ctx, name, PropAxis)
	if err != nil {
		return nil, err
	}
	instrument, err := inv.instrument(ctx, name)
	if err != nil {
		return nil, err
	}
	attrs, err := a.MemorizedAttributes(ctx, name)
	if err != nil {
		return nil, err
	}

	return Row{
		typ,
		inv.PoolDevice,
		inv.controllerAlias(name),
		inv.alias(name),
		name,
		axis,
		instrument,
		"",
		strings.Join(attrs, ";"),
	}, nil
}

// MotorRow formats a motor or pseudo-motor; typ is "Motor" or "PseudoMotor".
func (inv *Inventory) MotorRow(ctx context.Context, name, typ string) (Row, error) {
	return inv.elementRow(ctx, name, typ)
}

// IORegisterRow formats an IO register.
func (inv *Inventory) IORegisterRow(ctx context.Context, name string) (Row, error) {
	return inv.elementRow(ctx, name, ClassIORegister)
}

// ChannelRow formats an acquisition channel; its class is the row type.
func (inv *Inventory) ChannelRow(ctx context.Context, ch Channel) (Row, error) {
	return inv.elementRow(ctx, ch.Name, ch.Class)
}

// ControllerRow formats a controller:
// type, pool, alias, library, class, properties, elements.
func (inv *Inventory) ControllerRow(ctx context.Context, name string) (Row, error) {
	a := inv.adapter

	fields := make(map[string]string, 3)
	for _, prop := range []string{"type", "library", "klass"} {
		v, _, err := a.LookupProperty(ctx, name, prop)
		if err != nil {
			return nil, err
		}
		fields[prop] = v
	}
	props, err := a.Properties(ctx, name)
	if err != nil {
		return nil, err
	}

	return Row{
		fields["type"],
		inv.PoolDevice,
		inv.alias(name),
		fields["library"],
		fields["klass"],
		strings.Join(props, ";"),
		inv.controllerElements(name, fields["type"]),
	}, nil
}

// controllerElements lists the motor aliases of a pseudo-motor controller.
func (inv *Inventory) controllerElements(name, ctrlType string) string {
	if ctrlType != ClassPseudoMotor {
		return ""
	}
	return strings.Join(inv.resolveAliases(name, inv.MotorIDs[name]), ";")
}

// MeasurementGroupRow formats a measurement group:
// "MeasurementGroup", pool, alias, device, channels, description.
func (inv *Inventory) MeasurementGroupRow(name string) Row {
	return Row{
		ClassMeasurementGroup,
		inv.PoolDevice,
		inv.alias(name),
		name,
		strings.Join(inv.resolveAliases(name, inv.ChannelIDs[name]), ";"),
		"",
	}
}

// DoorRow formats a door:
// MacroServer server, MacroServer device, description, alias, device.
func (inv *Inventory) DoorRow(ctx context.Context, name string) (Row, error) {
	alias, err := inv.deviceAlias(ctx, name)
	if err != nil {
		return nil, err
	}
	return Row{inv.MSServer, inv.MacroServer, doorDescription, alias, name}, nil
}

// InstrumentRow formats an instrument: "Instrument", pool, name, class.
func (inv *Inventory) InstrumentRow(inst Instrument) Row {
	return Row{"Instrument", inv.PoolDevice, inst.Name, inst.Class}
}

// PoolRow formats the Pool server line:
// "Pool", db address, server, description, alias, device, PoolPath.
func (inv *Inventory) PoolRow(ctx context.Context) (Row, error) {
	alias, err := inv.deviceAlias(ctx, inv.PoolDevice)
	if err != nil {
		return nil, err
	}
	poolPath, _, err := inv.adapter.LookupProperty(ctx, inv.PoolDevice, "PoolPath")
	if err != nil {
		return nil, err
	}
	return Row{ClassPool, inv.Address(), inv.PoolServer, "", alias, inv.PoolDevice, poolPath}, nil
}

// MacroServerRow formats the MacroServer server line:
// "MacroServer", db address, server, description, alias, device, MacroPath, PoolNames.
func (inv *Inventory) MacroServerRow(ctx context.Context) (Row, error) {
	alias, err := inv.deviceAlias(ctx, inv.MacroServer)
	if err != nil {
		return nil, err
	}
	macroPath, _, err := inv.adapter.LookupProperty(ctx, inv.MacroServer, "MacroPath")
	if err != nil {
		return nil, err
	}
	poolNames, _, err := inv.adapter.LookupProperty(ctx, inv.MacroServer, "PoolNames")
	if err != nil {
		return nil, err
	}
	return Row{
		ClassMacroServer, inv.Address(), inv.MSServer, "", alias, inv.MacroServer, macroPath, poolNames,
	}, nil
}

// GlobalRows returns the global sheet lines 0 to 4.
func (inv *Inventory) GlobalRows() []Row {
	return []Row{
		{"code", inv.Pool},
		{"name", inv.Pool},
		{"description"},
		{""},
		{"prefix", "p1"},
	}
}

// MotorRows formats every motor, sorted by controller alias then axis.
func (inv *Inventory) MotorRows(ctx context.Context) ([]Row, error) {
	return inv.axisRows(ctx, "motors", inv.Motors, func(name string) (Row, error) {
		return inv.MotorRow(ctx, name, ClassMotor)
	})
}

// PseudoRows formats every pseudo-motor, sorted by controller alias then axis.
func (inv *Inventory) PseudoRows(ctx context.Context) ([]Row, error) {
	return inv.axisRows(ctx, "pseudo motors", inv.Pseudos, func(name string) (Row, error) {
		return inv.MotorRow(ctx, name, ClassPseudoMotor)
	})
}

// IORegisterRows formats every IO register, sorted by controller alias then axis.
func (inv *Inventory) IORegisterRows(ctx context.Context) ([]Row, error) {
	return inv.axisRows(ctx, "ioregisters", inv.IORegisters, func(name string) (Row, error) {
		return inv.IORegisterRow(ctx, name)
	})
}

// ChannelRows formats every channel, sorted by controller alias then axis.
func (inv *Inventory) ChannelRows(ctx context.Context) ([]Row, error) {
	inv.logger.Info("Create channels")
	rows := make([]Row, 0, len(inv.Channels))
	for _, ch := range inv.Channels {
		row, err := inv.ChannelRow(ctx, ch)
		if err != nil {
			return nil, fmt.Errorf("formatting channel %s: %w", ch.Name, err)
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, compareAxisRows)
	return rows, nil
}

func (inv *Inventory) axisRows(ctx context.Context, label string, names []string, format func(string) (Row, error)) ([]Row, error) {
	inv.logger.Info("Create " + label)
	rows := make([]Row, 0, len(names))
	for _, name := range names {
		row, err := format(name)
		if err != nil {
			return nil, fmt.Errorf("formatting %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, compareAxisRows)
	return rows, nil
}

// ControllerRows formats every controller, sorted by type then alias.
func (inv *Inventory) ControllerRows(ctx context.Context) ([]Row, error) {
	inv.logger.Info("Create controllers")
	rows := make([]Row, 0, len(inv.Controllers))
	for _, name := range inv.Controllers {
		inv.logger.Debug("controller", "device", name)
		row, err := inv.ControllerRow(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("formatting controller %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(x, y Row) int {
		return cmpOr(
			cmp.Compare(x[colCtrlType], y[colCtrlType]),
			cmp.Compare(x[colCtrlAlias], y[colCtrlAlias]),
		)
	})
	return rows, nil
}

// MeasurementGroupRows formats every measurement group, sorted by alias.
func (inv *Inventory) MeasurementGroupRows() []Row {
	inv.logger.Info("Create measurement groups")
	rows := make([]Row, 0, len(inv.MeasurementGroups))
	for _, name := range inv.MeasurementGroups {
		rows = append(rows, inv.MeasurementGroupRow(name))
	}
	slices.SortStableFunc(rows, func(x, y Row) int {
		return cmpOr(
			cmp.Compare(x[colMGAlias], y[colMGAlias]),
			cmp.Compare(x[colMGDesc], y[colMGDesc]),
		)
	})
	return rows
}

// InstrumentRows formats the instruments in InstrumentList order.
func (inv *Inventory) InstrumentRows() []Row {
	inv.logger.Info("Create instruments")
	rows := make([]Row, 0, len(inv.Instruments))
	for _, inst := range inv.Instruments {
		rows = append(rows, inv.InstrumentRow(inst))
	}
	return rows
}

// DoorRows formats every door in device name order.
func (inv *Inventory) DoorRows(ctx context.Context) ([]Row, error) {
	inv.logger.Info("Create doors")
	rows := make([]Row, 0, len(inv.Doors))
	for _, name := range inv.Doors {
		row, err := inv.DoorRow(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("formatting door %s: %w", name, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// compareAxisRows orders element rows by controller alias, then axis.
func compareAxisRows(x, y Row) int {
	return cmpOr(
		cmp.Compare(x[colElementCtrl], y[colElementCtrl]),
		compareAxis(x[colElementAxis], y[colElementAxis]),
	)
}

// compareAxis orders integer axes numerically, before every non-integer
// axis. Non-integer axes, including a missing one, compare as text.
func compareAxis(x, y string) int {
	xi, errX := strconv.Atoi(x)
	yi, errY := strconv.Atoi(y)
	switch {
	case errX == nil && errY == nil:
		return cmp.Compare(xi, yi)
	case errX == nil:
		return -1
	case errY == nil:
		return 1
	default:
		return cmp.Compare(x, y)
	}
}

// alias returns the indexed alias of a Pool element, or "" with a miss.
func (inv *Inventory) alias(name string) string {
	alias, ok := inv.Aliases.Get(name)
	if !ok {
		reportMiss(inv.reporter, fmt.Errorf("%w: no alias for %s", ErrUnresolved, name))
	}
	return alias
}

// deviceAlias asks the database for the alias of a server device, or "" with a miss.
func (inv *Inventory) deviceAlias(ctx context.Context, name string) (string, error) {
	alias, ok, err := inv.adapter.Alias(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		reportMiss(inv.reporter, fmt.Errorf("%w: no alias for %s", ErrUnresolved, name))
	}
	return alias, nil
}

// resolveID follows id to device name to alias.
func (inv *Inventory) resolveID(id int) (string, error) {
	name, ok := inv.IDs.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: id %d", ErrUnresolved, id)
	}
	alias, ok := inv.Aliases.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: no alias for %s (id %d)", ErrUnresolved, name, id)
	}
	return alias, nil
}

// resolveAliases resolves every id referenced by owner, skipping misses.
func (inv *Inventory) resolveAliases(owner string, ids []int) []string {
	aliases := make([]string, 0, len(ids))
	for _, id := range ids {
		alias, err := inv.resolveID(id)
		if err != nil {
			reportMiss(inv.reporter, fmt.Errorf("%s: %w", owner, err))
			continue
		}
		aliases = append(aliases, alias)
	}
	return aliases
}

// controllerAlias resolves the first ctrl_id of an element, or "" with a miss.
func (inv *Inventory) controllerAlias(name string) string {
	ids := inv.CtrlIDs[name]
	if len(ids) == 0 {
		reportMiss(inv.reporter, fmt.Errorf("%w: %s has no %s", ErrUnresolved, name, PropCtrlID))
		return ""
	}
	alias, err := inv.resolveID(ids[0])
	if err != nil {
		reportMiss(inv.reporter, fmt.Errorf("controller of %s: %w", name, err))
		return ""
	}
	return alias
}

// instrument resolves instrument_id to an instrument name. A device without
// the property has no instrument; an id that does not resolve is a miss.
func (inv *Inventory) instrument(ctx context.Context, name string) (string, error) {
	raw, ok, err := inv.adapter.LookupProperty(ctx, name, PropInstrumentID)
	if err != nil || !ok {
		return "", err
	}

	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		reportMiss(inv.reporter, fmt.Errorf("%w: %s %s=%q", ErrInvalidID, name, PropInstrumentID, raw))
		return "", nil
	}
	instrument, ok := inv.InstrumentIndex.Get(id)
	if !ok {
		reportMiss(inv.reporter, fmt.Errorf("%w: instrument %d of %s", ErrUnresolved, id, name))
	}
	return instrument, nil
}
