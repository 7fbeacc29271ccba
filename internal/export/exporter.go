package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/sardana2xls/internal/report"
	"github.com/nerrad567/sardana2xls/internal/sardana"
	"github.com/nerrad567/sardana2xls/internal/tango"
)

// fileExtension is appended to the pool name to form the output file name.
const fileExtension = ".xlsx"

// Logger defines the logging interface used by the exporter.
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

// Config controls where and how the workbook is written.
type Config struct {
	// Template is an optional workbook whose sheets are filled by position.
	Template string

	// OutputDir receives <pool>.xlsx. Empty means the working directory.
	OutputDir string

	// HeaderRows is the number of lines above the first data row of each sheet.
	HeaderRows int
}

// Exporter writes the inventory of a Pool into a workbook.
type Exporter struct {
	adapter   *tango.Adapter
	cfg       Config
	layout    *report.Layout
	logger    Logger
	reporter  sardana.MissReporter
	notifiers []Notifier
}

// NewExporter creates an exporter reading from a.
func NewExporter(a *tango.Adapter, cfg Config) (*Exporter, error) {
	if a == nil {
		return nil, ErrNilAdapter
	}

	layout, err := report.DefaultLayout()
	if err != nil {
		return nil, fmt.Errorf("loading workbook layout: %w", err)
	}
	layout.HeaderRows = cfg.HeaderRows

	return &Exporter{
		adapter: a,
		cfg:     cfg,
		layout:  layout,
		logger:  noopLogger{},
	}, nil
}

// SetLogger sets the logger for progress and notifier failures.
func (e *Exporter) SetLogger(l Logger) {
	if l != nil {
		e.logger = l
	}
}

// SetMissReporter sets where resolution misses go in addition to being
// counted. Without one they are logged at warn level.
func (e *Exporter) SetMissReporter(r sardana.MissReporter) {
	e.reporter = r
}

// AddNotifier registers n to receive the summary of every saved export.
func (e *Exporter) AddNotifier(n Notifier) {
	if n != nil {
		e.notifiers = append(e.notifiers, n)
	}
}

// OutputPath returns the file an export of pool is saved to.
func (e *Exporter) OutputPath(pool string) string {
	return filepath.Join(e.cfg.OutputDir, pool+fileExtension)
}

// Run exports pool and returns the summary of the saved workbook.
func (e *Exporter) Run(ctx context.Context, pool string) (*Summary, error) {
	if pool == "" {
		return nil, ErrEmptyPool
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Pool:      pool,
		Output:    e.OutputPath(pool),
		Counts:    make(map[string]int),
		StartedAt: time.Now(),
	}

	misses := sardana.MissReporterFunc(func(err error) {
		summary.Misses++
		if e.reporter != nil {
			e.reporter.Miss(err)
			return
		}
		e.logger.Warn("resolution miss", "error", err)
	})

	inv, err := sardana.Build(ctx, e.adapter, pool,
		sardana.WithLogger(e.logger),
		sardana.WithMissReporter(misses),
	)
	if err != nil {
		return nil, fmt.Errorf("building inventory: %w", err)
	}

	wb, err := report.Open(e.cfg.Template, e.layout)
	if err != nil {
		return nil, err
	}
	defer wb.Close() //nolint:errcheck // Saved workbook is already on disk

	if err := e.write(ctx, inv, wb, summary); err != nil {
		return nil, err
	}

	if err := wb.SaveAs(summary.Output); err != nil {
		return nil, err
	}
	summary.Duration = time.Since(summary.StartedAt)

	e.logger.Info("export saved",
		"pool", pool,
		"output", summary.Output,
		"rows", summary.Total(),
		"misses", summary.Misses,
		"duration", summary.Duration,
	)

	e.notify(ctx, *summary)
	return summary, nil
}

// rowStep produces the rows of one category.
type rowStep struct {
	category string
	sheet    int
	rows     func(context.Context) ([]sardana.Row, error)
}

// write fills every sheet in export order.
func (e *Exporter) write(ctx context.Context, inv *sardana.Inventory, wb *report.Workbook, s *Summary) error {
	err := writeSteps(ctx, wb, s, []rowStep{
		{CategoryMotors, report.SheetMotors, inv.MotorRows},
		{CategoryPseudoMotors, report.SheetPseudoMotors, inv.PseudoRows},
		{CategoryControllers, report.SheetControllers, inv.ControllerRows},
	})
	if err != nil {
		return err
	}

	if err := e.writeServers(ctx, inv, wb, s); err != nil {
		return err
	}

	for line, row := range inv.GlobalRows() {
		if err := wb.WriteLine(report.SheetGlobal, line, row); err != nil {
			return fmt.Errorf("writing global: %w", err)
		}
	}

	return writeSteps(ctx, wb, s, []rowStep{
		{CategoryIORegisters, report.SheetIORegisters, inv.IORegisterRows},
		{CategoryChannels, report.SheetChannels, inv.ChannelRows},
		{CategoryMeasurementGroups, report.SheetAcquisition, static(inv.MeasurementGroupRows)},
		{CategoryInstruments, report.SheetInstruments, static(inv.InstrumentRows)},
		{CategoryDoors, report.SheetDoors, inv.DoorRows},
	})
}

func static(rows func() []sardana.Row) func(context.Context) ([]sardana.Row, error) {
	return func(context.Context) ([]sardana.Row, error) {
		return rows(), nil
	}
}

func writeSteps(ctx context.Context, wb *report.Workbook, s *Summary, steps []rowStep) error {
	for _, step := range steps {
		rows, err := step.rows(ctx)
		if err != nil {
			return fmt.Errorf("creating %s: %w", step.category, err)
		}
		if err := wb.WriteRows(step.sheet, rows); err != nil {
			return fmt.Errorf("writing %s: %w", step.category, err)
		}
		s.Counts[step.category] = len(rows)
	}
	return nil
}

func (e *Exporter) writeServers(ctx context.Context, inv *sardana.Inventory, wb *report.Workbook, s *Summary) error {
	e.logger.Info("Create pool")
	pool, err := inv.PoolRow(ctx)
	if err != nil {
		return fmt.Errorf("creating pool: %w", err)
	}
	if err := wb.WriteRow(report.SheetServers, report.ServersPoolRow, pool); err != nil {
		return fmt.Errorf("writing pool: %w", err)
	}

	e.logger.Info("Create macroserver")
	ms, err := inv.MacroServerRow(ctx)
	if err != nil {
		return fmt.Errorf("creating macroserver: %w", err)
	}
	if err := wb.WriteRow(report.SheetServers, report.ServersMacroServerRow, ms); err != nil {
		return fmt.Errorf("writing macroserver: %w", err)
	}

	s.Counts[CategoryServers] = 2
	return nil
}

// notify hands s to every notifier. Failures are logged.
func (e *Exporter) notify(ctx context.Context, s Summary) {
	for _, n := range e.notifiers {
		if err := n.Notify(ctx, s); err != nil {
			e.logger.Error("export notification failed",
				"notifier", fmt.Sprintf("%T", n),
				"error", err,
			)
		}
	}
}
