// Package trackdesk wires the persistence and session core of the TrackDesk
// ticket tracker. Presentation surfaces (a webview shell, a TUI, another
// package in this module) call Open once, keep the App for the lifetime of
// the process, and drive the session manager, route guard and ticket store
// directly.
package trackdesk

import (
	"go.uber.org/zap"

	"github.com/Dcomputer22/trackdesk/internal/config"
	"github.com/Dcomputer22/trackdesk/internal/events"
	"github.com/Dcomputer22/trackdesk/internal/observability"
	"github.com/Dcomputer22/trackdesk/internal/session"
	"github.com/Dcomputer22/trackdesk/internal/storage"
	"github.com/Dcomputer22/trackdesk/internal/ticket"
)

// Form validation helpers for the signup and login boundaries, re-exported
// so presentation surfaces don't reach into internal packages.
var (
	ValidateRegistrationForm = session.ValidateRegistrationForm
	ValidateLoginForm        = session.ValidateLoginForm
)

// Store is the durable store contract the core persists through, re-exported
// so callers outside this module can implement their own backend and hand it
// to OpenWithStore.
type Store = storage.Store

// App bundles the wired core. All fields are ready to use after Open.
type App struct {
	Log      *zap.Logger
	Sessions *session.Manager
	Guard    *session.Guard
	Tickets  *ticket.Store
	Events   events.Dispatcher
	Metrics  *observability.Metrics

	// owned is set only when Open created the backing store itself;
	// injected stores stay the caller's to close.
	owned *storage.SQLite
}

// Open loads configuration from the environment, opens the durable store and
// wires the core. The caller owns the returned App and must Close it.
func Open() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("opened durable store", zap.String("path", cfg.Store.Path))

	app := newApp(cfg, logger, store)
	app.owned = store
	return app, nil
}

// OpenWithStore wires the core over a caller-provided store (a test double,
// or an alternative local backend). Configuration and logging still come
// from the environment; the caller keeps ownership of the store's lifecycle.
func OpenWithStore(store Store) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	return newApp(cfg, logger, store), nil
}

func newApp(cfg *config.Config, logger *zap.Logger, store storage.Store) *App {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	sessions := session.NewManager(session.Dependencies{
		Store:      store,
		Tokens:     session.NewTokenManager(cfg.Session.TokenSecret, cfg.Session.TokenTTL()),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	tickets := ticket.NewStore(ticket.Dependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	logger.Info("trackdesk core ready",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
	)

	return &App{
		Log:      logger,
		Sessions: sessions,
		Guard:    session.NewGuard(sessions),
		Tickets:  tickets,
		Events:   dispatcher,
		Metrics:  metrics,
	}
}

// Close flushes the logger and releases the durable store if Open created
// it. Injected stores are left open for their owner.
func (a *App) Close() error {
	_ = a.Log.Sync()
	if a.owned != nil {
		return a.owned.Close()
	}
	return nil
}
