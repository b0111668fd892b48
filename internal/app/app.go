// Package app wires the tracker, its platform providers, persistence and
// the web surface into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lcalzada-xor/wifitrack/internal/adapters/report"
	"github.com/lcalzada-xor/wifitrack/internal/adapters/storage"
	"github.com/lcalzada-xor/wifitrack/internal/adapters/web"
	"github.com/lcalzada-xor/wifitrack/internal/config"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/history"
	"github.com/lcalzada-xor/wifitrack/internal/core/services/tracker"
	"github.com/lcalzada-xor/wifitrack/internal/mock"
	"github.com/lcalzada-xor/wifitrack/internal/telemetry"
)

// Application is the facade holding the assembled components.
type Application struct {
	Config    *config.Config
	Tracker   *tracker.Tracker
	Store     *storage.SQLiteAdapter
	Recorder  *history.Recorder
	WebServer *web.Server

	platform *mock.Platform
}

// New creates an Application and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{Config: cfg}
	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	telemetry.InitMetrics()

	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("open sighting store: %w", err)
	}
	app.Store = store
	app.Recorder = history.NewRecorder(store, app.Config.HistorySize)

	// Real platform bindings live outside this process; the simulated
	// platform is the only provider wired here.
	if !app.Config.MockMode {
		slog.Warn("no platform providers available, falling back to mock mode")
	}
	app.platform = mock.NewPlatform()

	app.Tracker = tracker.New(tracker.Options{
		ScanInterval:   app.Config.ScanInterval,
		MaxScanAge:     app.Config.MaxScanAge,
		ConnectTimeout: app.Config.ConnectTimeout,
	}, app.platform, app.platform, app.platform, app.platform, app.platform)
	app.Tracker.SetSightingRecorder(app.Recorder)
	app.platform.Attach(app.Tracker)

	app.WebServer = web.NewServer(app.Config.Addr, app.Tracker, app.Store, report.NewPDFExporter())
	app.Tracker.AddListener(app.WebServer.WSManager)

	return nil
}

// Run starts every component and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	app.Recorder.Start(ctx)

	app.Tracker.Start()
	app.platform.Seed()

	err := app.WebServer.Run(ctx)

	app.Tracker.Stop()
	if cerr := app.Store.Close(); cerr != nil {
		slog.Warn("closing sighting store", "error", cerr)
	}
	return err
}
