package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/sardana2xls/internal/export"
	"github.com/nerrad567/sardana2xls/internal/infrastructure/config"
	"github.com/nerrad567/sardana2xls/internal/infrastructure/database"
	"github.com/nerrad567/sardana2xls/internal/infrastructure/influxdb"
	"github.com/nerrad567/sardana2xls/internal/infrastructure/logging"
	"github.com/nerrad567/sardana2xls/internal/infrastructure/mqtt"
	"github.com/nerrad567/sardana2xls/internal/printer"
	"github.com/nerrad567/sardana2xls/internal/sardana"
	"github.com/nerrad567/sardana2xls/internal/tango"
	"github.com/nerrad567/sardana2xls/migrations"
)

// reportedError marks errors already printed by the printer package.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}

func isReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}

var errSeedReadOnly = errors.New("--seed cannot be used with database.read_only")

// runExport loads the configuration, opens the naming database and exports pool.
func runExport(ctx context.Context, opts *options, pool string) error {
	cfg, err := config.Load(opts.resolveConfigPath())
	if err != nil {
		return reported(printer.Error("Invalid configuration", err.Error(), []string{
			"Check the file passed with --config",
			"Check the SARDANA2XLS_* and TANGO_HOST environment variables",
		}))
	}

	log := logging.New(cfg.Logging, version)
	log.Info("starting sardana2xls",
		"version", version,
		"commit", commit,
		"build_date", date,
		"pool", pool,
	)

	db, closeDB, err := openNamingDatabase(ctx, cfg, opts.seedPath, log)
	if err != nil {
		return reported(printer.Error("Cannot open the naming database", err.Error(), nil))
	}
	defer closeDB()

	adapter := tango.NewAdapter(db)
	exporter, err := export.NewExporter(adapter, export.Config{
		Template:   cfg.Export.Template,
		OutputDir:  cfg.Export.OutputDir,
		HeaderRows: cfg.Export.HeaderRows,
	})
	if err != nil {
		return reported(printer.Error("Export failed", err.Error(), nil))
	}
	exporter.SetLogger(log)
	exporter.SetMissReporter(sardana.MissReporterFunc(func(err error) {
		printer.Warning("%v\n", err)
		log.Warn("resolution miss", "error", err)
	}))

	closeNotifiers := addNotifiers(ctx, cfg, exporter, log)
	defer closeNotifiers()

	printer.Step("Exporting pool %s from %s\n", pool, adapter.Address())
	summary, err := exporter.Run(ctx, pool)
	if err != nil {
		log.Error("export failed", "pool", pool, "error", err)
		return reported(exportError(pool, err))
	}

	printer.Success("Wrote %s (%d rows, %d unresolved)\n", summary.Output, summary.Total(), summary.Misses)
	return nil
}

func exportError(pool string, err error) error {
	switch {
	case errors.Is(err, sardana.ErrPoolNotFound):
		return printer.Error("Pool not found",
			fmt.Sprintf("No Pool device is registered under server Pool/%s.", pool),
			[]string{"Check the pool name", "Check that TANGO_HOST points at the right naming database"})
	case errors.Is(err, sardana.ErrMacroServerNotFound):
		return printer.Error("MacroServer not found",
			fmt.Sprintf("No MacroServer device is registered under server MacroServer/%s.", pool), nil)
	case errors.Is(err, context.Canceled):
		return printer.Error("Export cancelled", "", nil)
	default:
		return printer.Error("Export failed", err.Error(), nil)
	}
}

// openNamingDatabase returns the configured backend and a function releasing it.
func openNamingDatabase(ctx context.Context, cfg *config.Config, seedPath string, log *logging.Logger) (tango.Database, func(), error) {
	if cfg.Tango.Backend == config.BackendFixture {
		dump, err := tango.LoadDump(cfg.Tango.Fixture)
		if err != nil {
			return nil, nil, fmt.Errorf("loading fixture: %w", err)
		}
		if dump.Host == "" {
			dump.Host, dump.Port = cfg.Tango.Host, cfg.Tango.Port
		}
		log.Info("naming database fixture loaded", "path", cfg.Tango.Fixture, "devices", len(dump.Devices))
		return tango.NewMemoryDatabase(dump), func() {}, nil
	}

	if cfg.Database.ReadOnly && seedPath != "" {
		return nil, nil, errSeedReadOnly
	}

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
		ReadOnly:    cfg.Database.ReadOnly,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	closeDB := func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}

	if err := db.HealthCheck(ctx); err != nil {
		closeDB()
		return nil, nil, err
	}
	log.Info("database connected", "path", db.Path(), "read_only", cfg.Database.ReadOnly)

	if cfg.Database.ReadOnly {
		err = db.CheckMigrations(ctx, migrations.FS)
	} else {
		err = db.Migrate(ctx, migrations.FS)
	}
	if err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	sqlDB := tango.NewSQLDatabase(db, cfg.Tango.Host, cfg.Tango.Port)
	if seedPath != "" {
		dump, err := tango.LoadDump(seedPath)
		if err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("loading seed dump: %w", err)
		}
		if err := sqlDB.Seed(ctx, dump); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("seeding database: %w", err)
		}
		log.Info("database seeded", "path", seedPath, "devices", len(dump.Devices))
	}

	found, err := sqlDB.LoadSource(ctx)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	if found {
		log.Info("naming database address taken from seeded dump",
			"host", sqlDB.Host(),
			"port", sqlDB.Port(),
		)
	}
	return sqlDB, closeDB, nil
}

// healthChecker is implemented by the notifier clients.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
	Close() error
}

// checkNotifier verifies a freshly connected notifier client. An unhealthy
// client is closed and reported, and false is returned.
func checkNotifier(ctx context.Context, name string, c healthChecker, log *logging.Logger) bool {
	err := c.HealthCheck(ctx)
	if err == nil {
		return true
	}
	log.Warn(name+" unhealthy, notifier skipped", "error", err)
	printer.Warning("%s unhealthy: %v\n", name, err)
	if closeErr := c.Close(); closeErr != nil {
		log.Error("error closing notifier", "notifier", name, "error", closeErr)
	}
	return false
}

// addNotifiers registers the enabled notifiers and returns a function closing
// their connections. A notifier that cannot connect or fails its health check
// is skipped.
func addNotifiers(ctx context.Context, cfg *config.Config, e *export.Exporter, log *logging.Logger) func() {
	var closers []func() error

	if cfg.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			log.Warn("MQTT unavailable, export summary will not be published", "error", err)
			printer.Warning("MQTT unavailable: %v\n", err)
		} else if checkNotifier(ctx, "MQTT", client, log) {
			log.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"client_id", cfg.MQTT.Broker.ClientID,
			)
			e.AddNotifier(export.NewMQTTNotifier(client))
			closers = append(closers, client.Close)
		}
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			log.Warn("InfluxDB unavailable, inventory will not be recorded", "error", err)
			printer.Warning("InfluxDB unavailable: %v\n", err)
		} else if checkNotifier(ctx, "InfluxDB", client, log) {
			log.Info("InfluxDB connected",
				"url", cfg.InfluxDB.URL,
				"org", cfg.InfluxDB.Org,
				"bucket", cfg.InfluxDB.Bucket,
			)
			e.AddNotifier(export.NewInfluxNotifier(client))
			closers = append(closers, client.Close)
		}
	}

	return func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Error("error closing notifier", "error", err)
			}
		}
	}
}
