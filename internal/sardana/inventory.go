package sardana

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nerrad567/sardana2xls/internal/mapping"
	"github.com/nerrad567/sardana2xls/internal/tango"
)

// Tango classes of the server devices.
const (
	ClassPool        = "Pool"
	ClassMacroServer = "MacroServer"
	ClassDoor        = "Door"
)

// Element classes under the Pool server.
const (
	ClassMotor            = "Motor"
	ClassPseudoMotor      = "PseudoMotor"
	ClassIORegister       = "IORegister"
	ClassMeasurementGroup = "MeasurementGroup"
)

// Logger defines the logging interface used by Build.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MissReporter receives resolution misses. Every error wraps ErrUnresolved
// or ErrInvalidID.
type MissReporter interface {
	Miss(err error)
}

// MissReporterFunc adapts a function to MissReporter.
type MissReporterFunc func(err error)

// Miss calls f(err).
func (f MissReporterFunc) Miss(err error) { f(err) }

func reportMiss(r MissReporter, err error) {
	if r != nil {
		r.Miss(err)
	}
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	logger   Logger
	reporter MissReporter
}

// WithLogger sets the logger used while building and formatting.
func WithLogger(l Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMissReporter sets where resolution misses go. By default they are
// logged at warn level.
func WithMissReporter(r MissReporter) Option {
	return func(o *buildOptions) {
		o.reporter = r
	}
}

// Channel is an acquisition channel and its class, which is also its row type.
type Channel struct {
	Name  string
	Class string
}

// Inventory is the indexed view of one Pool. It is built once by Build and
// not modified afterwards.
type Inventory struct {
	adapter  *tango.Adapter
	logger   Logger
	reporter MissReporter

	Pool        string
	PoolServer  string
	PoolDevice  string
	MSServer    string
	MacroServer string

	Aliases         *mapping.UniqueMap[string, string]
	IDs             *mapping.BiMap[int, string]
	CtrlIDs         map[string][]int
	MotorIDs        map[string][]int
	PseudoIDs       map[string][]int
	ChannelIDs      map[string][]int
	Classes         map[string]string
	MSClasses       map[string]string
	Instruments     []Instrument
	InstrumentIndex *mapping.BiMap[int, string]

	Controllers       []string
	Motors            []string
	Pseudos           []string
	IORegisters       []string
	MeasurementGroups []string
	Channels          []Channel
	MacroServers      []string
	Doors             []string
}

// Build queries the naming database for the devices of pool and indexes them.
// A missing Pool or MacroServer device is an error.
func Build(ctx context.Context, a *tango.Adapter, pool string, opts ...Option) (*Inventory, error) {
	o := buildOptions{logger: noopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.reporter == nil {
		log := o.logger
		o.reporter = MissReporterFunc(func(err error) {
			log.Warn("resolution miss", "error", err)
		})
	}

	inv := &Inventory{
		adapter:    a,
		logger:     o.logger,
		reporter:   o.reporter,
		Pool:       pool,
		PoolServer: "Pool/" + pool,
		MSServer:   "MacroServer/" + pool,
	}

	var err error
	if inv.PoolDevice, err = firstDevice(ctx, a, inv.PoolServer, ClassPool, ErrPoolNotFound); err != nil {
		return nil, err
	}
	inv.logger.Info("pool", "pool", pool, "server", inv.PoolServer, "device", inv.PoolDevice)

	if inv.MacroServer, err = firstDevice(ctx, a, inv.MSServer, ClassMacroServer, ErrMacroServerNotFound); err != nil {
		return nil, err
	}
	inv.logger.Info("macroserver", "server", inv.MSServer, "device", inv.MacroServer)

	if err := inv.index(ctx); err != nil {
		return nil, err
	}
	inv.classify()

	inv.logger.Debug("inventory built",
		"controllers", len(inv.Controllers),
		"motors", len(inv.Motors),
		"pseudos", len(inv.Pseudos),
		"ioregisters", len(inv.IORegisters),
		"channels", len(inv.Channels),
		"measurement_groups", len(inv.MeasurementGroups),
		"doors", len(inv.Doors),
	)
	return inv, nil
}

func firstDevice(ctx context.Context, a *tango.Adapter, server, class string, notFound error) (string, error) {
	names, err := a.DeviceNames(ctx, server, class)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: %s", notFound, server)
	}
	return names[0], nil
}

func (inv *Inventory) index(ctx context.Context) error {
	a := inv.adapter

	elements, err := Elements(ctx, a, inv.PoolServer)
	if err != nil {
		return err
	}
	msElements, err := Elements(ctx, a, inv.MSServer)
	if err != nil {
		return err
	}

	if inv.Aliases, err = BuildAliasIndex(ctx, a, elements); err != nil {
		return fmt.Errorf("building alias index: %w", err)
	}
	if inv.IDs, err = BuildIDIndex(ctx, a, elements, inv.reporter); err != nil {
		return fmt.Errorf("building id index: %w", err)
	}

	props := []struct {
		name string
		dst  *map[string][]int
	}{
		{PropCtrlID, &inv.CtrlIDs},
		{PropMotorRoleIDs, &inv.MotorIDs},
		{PropPseudoMotorRoleIDs, &inv.PseudoIDs},
		{PropElements, &inv.ChannelIDs},
	}
	for _, p := range props {
		if *p.dst, err = BuildPropertyIndex(ctx, a, elements, p.name, inv.reporter); err != nil {
			return fmt.Errorf("building %s index: %w", p.name, err)
		}
	}

	if inv.Instruments, err = BuildInstrumentList(ctx, a, inv.PoolDevice); err != nil {
		return fmt.Errorf("building instrument list: %w", err)
	}
	inv.InstrumentIndex = BuildInstrumentIndex(inv.Instruments)

	inv.Classes = BuildClassIndex(elements)
	inv.MSClasses = BuildClassIndex(msElements)
	return nil
}

func (inv *Inventory) classify() {
	for name, class := range inv.Classes {
		lower := strings.ToLower(class)
		switch {
		case lower == "controller":
			inv.Controllers = append(inv.Controllers, name)
		case class == ClassMotor:
			inv.Motors = append(inv.Motors, name)
		case class == ClassPseudoMotor:
			inv.Pseudos = append(inv.Pseudos, name)
		case class == ClassIORegister:
			inv.IORegisters = append(inv.IORegisters, name)
		case class == ClassMeasurementGroup:
			inv.MeasurementGroups = append(inv.MeasurementGroups, name)
		case strings.Contains(lower, "counter"), strings.Contains(lower, "channel"):
			inv.Channels = append(inv.Channels, Channel{Name: name, Class: class})
		}
	}

	for name, class := range inv.MSClasses {
		switch class {
		case ClassMacroServer:
			inv.MacroServers = append(inv.MacroServers, name)
		case ClassDoor:
			inv.Doors = append(inv.Doors, name)
		}
	}

	for _, list := range [][]string{
		inv.Controllers, inv.Motors, inv.Pseudos, inv.IORegisters,
		inv.MeasurementGroups, inv.MacroServers, inv.Doors,
	} {
		sort.Strings(list)
	}
	sort.Slice(inv.Channels, func(i, j int) bool {
		return inv.Channels[i].Name < inv.Channels[j].Name
	})
}

// Address returns the naming database address as host:port.
func (inv *Inventory) Address() string {
	return inv.adapter.Address()
}
