// Package app assembles the task service from config: logger, local store,
// preferences, the configured seed source and the worker pool behind the
// non-blocking API.
package app

import (
	"context"
	"fmt"
	"io"

	"todo/internal/backend/dummyjson"
	"todo/internal/backend/googletasks"
	"todo/internal/backend/sqlstore"
	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/prefs"
	"todo/internal/service"
	"todo/internal/todo"
	"todo/internal/workerpool"
)

const (
	asyncWorkers = 2
	asyncQueue   = 64
)

// App is a ready task service that owns its store and worker pool.
type App struct {
	*todo.Manager
	store *sqlstore.Store
	pool  *workerpool.Pool
	async *todo.Async
}

// Open wires the service and runs first-run seeding to completion, so the
// first command already sees the seeded list. Logs go to logOut.
func Open(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	log := logging.New(logOut, cfg.Debug)

	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	p, err := prefs.Open(cfg.PrefsPath())
	if err != nil {
		return nil, &service.StorageError{Op: "open preferences", Err: err}
	}

	remote, err := remoteFor(ctx, cfg, p)
	if err != nil {
		return nil, err
	}

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver: cfg.Settings.Store.Driver,
		Path:   cfg.DatabasePath(),
		DSN:    cfg.Settings.Store.DSN,
		Logger: log.WithName("store"),
	})
	if err != nil {
		return nil, &service.StorageError{Op: "open store", Err: err}
	}

	m, err := todo.New(store, remote, p, log.WithName("service"))
	if err != nil {
		store.Close()
		return nil, err
	}
	if err := m.Init(ctx); err != nil {
		store.Close()
		return nil, err
	}
	if err := m.WaitSeeded(ctx); err != nil {
		store.Close()
		return nil, err
	}

	pool := workerpool.New(asyncWorkers, asyncQueue)
	async, err := todo.NewAsync(m, pool)
	if err != nil {
		pool.Close()
		store.Close()
		return nil, err
	}

	log.V(1).Info("service ready", "dir", cfg.Dir, "driver", cfg.Settings.Store.Driver)
	return &App{Manager: m, store: store, pool: pool, async: async}, nil
}

// Async returns the callback API. Its jobs run on the app's pool and finish
// before Close releases the store.
func (a *App) Async() *todo.Async {
	return a.async
}

// Close drains the worker pool, then releases the store.
func (a *App) Close() error {
	a.pool.Close()
	return a.store.Close()
}

// remoteFor returns the seed source for cfg, or nil when seeding is off or
// already done. Google Tasks needs a prior login only while a seed is pending.
func remoteFor(ctx context.Context, cfg *config.Config, p prefs.Store) (service.RemoteSource, error) {
	switch cfg.Settings.Remote.Source {
	case config.SourceNone:
		return nil, nil
	case config.SourceGoogleTasks:
		loaded, err := p.Bool(todo.KeyToDosIsLoaded)
		if err != nil {
			return nil, &service.StorageError{Op: "read seed flag", Err: err}
		}
		if loaded {
			return nil, nil
		}
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: %s not found in %s", config.ErrAuth, config.OAuthClientFile, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: todo login)", config.ErrAuth)
		}
		c, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrAuth, err)
		}
		return c, nil
	default:
		return dummyjson.New(cfg.Settings.Remote.URL, cfg.Settings.Remote.Timeout), nil
	}
}
