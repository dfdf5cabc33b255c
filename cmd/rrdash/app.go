package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/config"
	"github.com/garrettladley/rrdash/internal/db"
	"github.com/garrettladley/rrdash/internal/location"
	"github.com/garrettladley/rrdash/internal/metrics"
	postgresmigrations "github.com/garrettladley/rrdash/internal/migrations/postgres"
	"github.com/garrettladley/rrdash/internal/paths"
	"github.com/garrettladley/rrdash/internal/period"
	"github.com/garrettladley/rrdash/internal/reauth"
	"github.com/garrettladley/rrdash/internal/redis"
	"github.com/garrettladley/rrdash/internal/repository"
	"github.com/garrettladley/rrdash/internal/session"
	"github.com/garrettladley/rrdash/internal/storage"
	"github.com/garrettladley/rrdash/internal/xcontext"
	"github.com/garrettladley/rrdash/internal/xslog"
)

// app holds everything a command needs. Fields are opened once per process.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	sqlDB    *sql.DB
	backend  storage.Store
	session  *session.Store
	client   *rr.Client
	metrics  *metrics.Transport
	rules    period.Rules
	location *location.Location

	closers []func() error
}

type appOption func(*appConfig)

type appConfig struct {
	navigator reauth.Navigator
}

// withNavigator replaces the default location navigator, for the TUI.
func withNavigator(n reauth.Navigator) appOption {
	return func(c *appConfig) { c.navigator = n }
}

func newApp(ctx context.Context, opts ...appOption) (*app, context.Context, error) {
	var ac appConfig
	for _, opt := range opts {
		opt(&ac)
	}

	cfg, err := config.Read()
	if err != nil {
		return nil, ctx, fmt.Errorf("failed to read config: %w", err)
	}

	a := &app{cfg: cfg, location: location.New("/", nil)}

	if _, err := paths.EnsureDir(); err != nil {
		return nil, ctx, err
	}
	a.logger, err = a.openLogger()
	if err != nil {
		return nil, ctx, err
	}

	slog.SetDefault(a.logger)

	sessionID := session.NewID(time.Now())
	ctx = xslog.WithLogger(ctx, a.logger)
	ctx = xcontext.SetSessionID(ctx, sessionID)

	a.rules, err = period.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, ctx, fmt.Errorf("failed to load rules: %w", err)
	}

	if a.backend, err = a.openBackend(ctx); err != nil {
		a.close()
		return nil, ctx, err
	}
	a.session = session.Open(ctx, a.backend, a.logger)
	a.logger.DebugContext(ctx, "starting",
		xslog.Version(),
		xslog.SessionID(sessionID),
		xslog.Backend(string(cfg.Session.Backend)),
	)

	var navigator reauth.Navigator = a.location
	if ac.navigator != nil {
		navigator = ac.navigator
	}
	a.metrics = metrics.NewTransport()
	a.client = rr.New(cfg.APIURL, a.session,
		rr.WithTimeout(cfg.HTTPTimeout),
		rr.WithJar(a.session.Jar()),
		rr.WithNavigator(navigator),
		rr.WithMetrics(a.metrics),
	)

	return a, ctx, nil
}

func (a *app) openLogger() (*slog.Logger, error) {
	logPath, err := paths.Log()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	a.closers = append(a.closers, f.Close)
	return xslog.NewLogger(f, a.cfg.LogLevel), nil
}

// localDB opens the sqlite file on first use.
func (a *app) localDB(ctx context.Context) (*sql.DB, error) {
	if a.sqlDB != nil {
		return a.sqlDB, nil
	}
	dbPath, err := paths.DB()
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	a.sqlDB = sqlDB
	a.closers = append(a.closers, sqlDB.Close)
	return sqlDB, nil
}

func (a *app) openBackend(ctx context.Context) (storage.Store, error) {
	switch a.cfg.Session.Backend {
	case config.SessionBackendMemory:
		return storage.NewMemoryStore(), nil
	case config.SessionBackendRedis:
		client, err := redis.New(ctx, redis.Config{URL: a.cfg.Session.RedisURL})
		if err != nil {
			return nil, err
		}
		s := storage.NewRedisStore(storage.RedisConfig{Client: client})
		a.closers = append(a.closers, s.Close)
		return s, nil
	case config.SessionBackendSQLite, "":
		sqlDB, err := a.localDB(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewSQLiteStore(sqlDB), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", a.cfg.Session.Backend)
	}
}

// reports opens the report repository: postgres when DATABASE_URL is set,
// the local sqlite file otherwise.
func (a *app) reports(ctx context.Context) (repository.ReportRepository, error) {
	if url := a.cfg.Reports.DatabaseURL; url != "" {
		pool, err := pgxpool.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		if err := postgresmigrations.Apply(ctx, pool); err != nil {
			return nil, fmt.Errorf("failed to apply postgres migrations: %w", err)
		}
		return repository.NewPostgres(pool).Reports, nil
	}

	sqlDB, err := a.localDB(ctx)
	if err != nil {
		return nil, err
	}
	return repository.NewSQLite(sqlDB).Reports, nil
}

// expired reports whether a request during this command lost the session.
func (a *app) expired() bool {
	return a.location.Path() == location.LoginPath
}

func (a *app) close() {
	if a.metrics != nil && a.logger != nil {
		if snap, err := a.metrics.Snapshot(); err == nil && len(snap) > 0 {
			attrs := make([]any, 0, len(snap))
			for name, v := range snap {
				attrs = append(attrs, slog.Float64(name, v))
			}
			a.logger.Debug("transport metrics", attrs...)
		}
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	if err := errors.Join(errs...); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
}
