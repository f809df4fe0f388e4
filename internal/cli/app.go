package cli

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/crshop/attendance/internal/attendance/export"
	"github.com/crshop/attendance/internal/attendance/record"
	"github.com/crshop/attendance/internal/attendance/service"
	"github.com/crshop/attendance/internal/attendance/store/sqlite"
	"github.com/crshop/attendance/internal/clock"
	"github.com/crshop/attendance/internal/config"
	"github.com/crshop/attendance/internal/db"
	"github.com/crshop/attendance/internal/logging"
	"github.com/crshop/attendance/internal/metrics"
)

// app is the dependency graph shared by every command.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sql.DB
	writer   *db.Worker
	store    *sqlite.Store
	registry *prometheus.Registry
	session  *service.Session
}

func openApp(ctx context.Context, opts *RootOptions, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigCreated) {
			return nil, WrapExitError(ExitCommandError, "no config file", err)
		}
		return nil, WrapExitError(ExitCommandError, "invalid config", err)
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger := logging.Setup(logOut, level, cfg.LogFormat)

	logger.Info("opening database", "path", cfg.DatabasePath)
	sqlDB, err := db.Open(ctx, db.Config{Path: cfg.DatabasePath})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	writer := db.NewWorker(sqlDB)
	st := sqlite.New(sqlDB, writer)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	clk := clock.System{}
	sess := service.New(service.Dependencies{
		AdminPass: cfg.AdminPass,
		Factory:   record.NewFactory(clk),
		Store:     st,
		Exporter:  export.New(cfg.ExportDir, clk),
		Logger:    logger,
		Metrics:   metrics.New(reg),
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       sqlDB,
		writer:   writer,
		store:    st,
		registry: reg,
		session:  sess,
	}, nil
}

// Close stops the writer before closing the database so queued writes
// finish first.
func (a *app) Close() {
	a.writer.Close()
	if err := a.db.Close(); err != nil {
		a.logger.Error("error closing database", "err", err)
	}
}

func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
