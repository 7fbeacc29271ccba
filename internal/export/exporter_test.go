package export

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nerrad567/sardana2xls/internal/report"
	"github.com/nerrad567/sardana2xls/internal/sardana"
	"github.com/nerrad567/sardana2xls/internal/tango"
)

const testPool = "B108A"

func newTestExporter(t *testing.T, cfg Config) *Exporter {
	t.Helper()

	db, err := tango.LoadMemoryDatabase("../sardana/testdata/tangodb.json")
	require.NoError(t, err)

	e, err := NewExporter(tango.NewAdapter(db), cfg)
	require.NoError(t, err)
	return e
}

type recordingLogger struct {
	infos  []string
	warns  []string
	errors []string
}

func (l *recordingLogger) Debug(string, ...any)        {}
func (l *recordingLogger) Info(msg string, _ ...any)  { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.errors = append(l.errors, msg) }

func TestRun(t *testing.T) {
	dir := t.TempDir()
	e := newTestExporter(t, Config{OutputDir: dir, HeaderRows: 1})

	var notified []Summary
	e.AddNotifier(NotifierFunc(func(_ context.Context, s Summary) error {
		notified = append(notified, s)
		return nil
	}))

	summary, err := e.Run(context.Background(), testPool)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, testPool, summary.Pool)
	assert.Equal(t, filepath.Join(dir, "B108A.xlsx"), summary.Output)
	assert.Equal(t, 3, summary.Misses)
	assert.Equal(t, map[string]int{
		CategoryMotors:            4,
		CategoryPseudoMotors:      2,
		CategoryControllers:       4,
		CategoryServers:           2,
		CategoryIORegisters:       1,
		CategoryChannels:          2,
		CategoryMeasurementGroups: 2,
		CategoryInstruments:       3,
		CategoryDoors:             2,
	}, summary.Counts)
	assert.Equal(t, 22, summary.Total())
	assert.Positive(t, summary.Duration)

	require.Len(t, notified, 1)
	assert.Equal(t, summary.RunID, notified[0].RunID)

	f, err := excelize.OpenFile(summary.Output)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // Test cleanup

	cells := []struct {
		sheet, cell, want string
	}{
		{"Global", "A1", "code"},
		{"Global", "B2", testPool},
		{"Global", "B5", "p1"},
		{"Servers", "A2", "Pool"},
		{"Servers", "E2", "Pool_B108A_1"},
		{"Servers", "G2", "/opt/sardana/controllers\n/beamline/controllers"},
		{"Servers", "A3", "MacroServer"},
		{"Servers", "H3", "Pool_B108A_1"},
		{"Doors", "D3", "Door_B108A_2"},
		{"Controllers", "A1", "Type"},
		{"Controllers", "C5", "slitctrl01"},
		{"Controllers", "G5", "mot01;mot02"},
		{"Motors", "D2", "mot01"},
		{"Motors", "D5", "mot10"},
		{"Motors", "I2", "Offset:0.5;Sign:-1"},
		{"PseudoMotors", "G3", "/table"},
		{"IORegisters", "D2", "ior01"},
		{"Channels", "A2", "CTExpChannel"},
		{"Acquisition", "E2", "ct01;ct02"},
		{"Acquisition", "E3", "ct02"},
		{"MeasurementGroups", "A2", ""},
		{"Instruments", "C4", "/mirror"},
	}
	for _, c := range cells {
		got, err := f.GetCellValue(c.sheet, c.cell)
		require.NoError(t, err)
		assert.Equalf(t, c.want, got, "%s!%s", c.sheet, c.cell)
	}
}

func TestRunServersFollowHeaderRows(t *testing.T) {
	e := newTestExporter(t, Config{OutputDir: t.TempDir(), HeaderRows: 2})

	summary, err := e.Run(context.Background(), testPool)
	require.NoError(t, err)

	f, err := excelize.OpenFile(summary.Output)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // Test cleanup

	for cell, want := range map[string]string{
		"A1": "Type",
		"A3": "Pool",
		"A4": "MacroServer",
	} {
		got, err := f.GetCellValue("Servers", cell)
		require.NoError(t, err)
		assert.Equalf(t, want, got, "Servers!%s", cell)
	}
}

func TestRunMissReporter(t *testing.T) {
	e := newTestExporter(t, Config{OutputDir: t.TempDir(), HeaderRows: 1})

	var misses []error
	e.SetMissReporter(sardana.MissReporterFunc(func(err error) {
		misses = append(misses, err)
	}))
	log := &recordingLogger{}
	e.SetLogger(log)

	summary, err := e.Run(context.Background(), testPool)
	require.NoError(t, err)

	require.Len(t, misses, summary.Misses)
	for _, m := range misses {
		assert.ErrorIs(t, m, sardana.ErrUnresolved)
	}
	assert.Empty(t, log.warns, "misses go to the reporter")
	assert.Contains(t, log.infos, "Create motors")
	assert.Contains(t, log.infos, "export saved")
}

func TestRunNotifierFailureIsLogged(t *testing.T) {
	e := newTestExporter(t, Config{OutputDir: t.TempDir(), HeaderRows: 1})
	log := &recordingLogger{}
	e.SetLogger(log)

	calls := 0
	e.AddNotifier(NotifierFunc(func(context.Context, Summary) error {
		return errors.New("broker gone")
	}))
	e.AddNotifier(NotifierFunc(func(context.Context, Summary) error {
		calls++
		return nil
	}))

	_, err := e.Run(context.Background(), testPool)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "later notifiers still run")
	assert.Equal(t, []string{"export notification failed"}, log.errors)
	assert.Len(t, log.warns, 3, "misses are logged without a reporter")
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("empty pool", func(t *testing.T) {
		e := newTestExporter(t, Config{OutputDir: dir})
		_, err := e.Run(ctx, "")
		require.ErrorIs(t, err, ErrEmptyPool)
	})

	t.Run("unknown pool", func(t *testing.T) {
		e := newTestExporter(t, Config{OutputDir: dir})
		_, err := e.Run(ctx, "NOPE")
		require.ErrorIs(t, err, sardana.ErrPoolNotFound)
	})

	t.Run("template without enough sheets", func(t *testing.T) {
		template := filepath.Join(dir, "short.xlsx")
		f := excelize.NewFile()
		require.NoError(t, f.SaveAs(template))
		require.NoError(t, f.Close())

		e := newTestExporter(t, Config{Template: template, OutputDir: dir, HeaderRows: 1})
		_, err := e.Run(ctx, testPool)
		require.ErrorIs(t, err, report.ErrSheetNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		e := newTestExporter(t, Config{OutputDir: dir})
		_, err := e.Run(cancelled, testPool)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewExporterNilAdapter(t *testing.T) {
	_, err := NewExporter(nil, Config{})
	require.ErrorIs(t, err, ErrNilAdapter)
}

func TestOutputPath(t *testing.T) {
	e := newTestExporter(t, Config{})
	assert.Equal(t, "B108A.xlsx", e.OutputPath(testPool))

	e = newTestExporter(t, Config{OutputDir: "/tmp/out"})
	assert.Equal(t, "/tmp/out/B108A.xlsx", e.OutputPath(testPool))
}
