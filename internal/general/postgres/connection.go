package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"food-track/internal/general/config"
	"food-track/internal/general/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool builds a DSN from cfg, runs pending migrations, configures pgxpool,
// verifies connectivity, and returns the pool.
func NewPool(ctx context.Context, cfg config.Config, logger *logger.Logger) (*pgxpool.Pool, error) {
	start := time.Now()

	// build DSN
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.PostgresHost, strconv.Itoa(cfg.PostgresPort)),
		Path:   "/" + cfg.PostgresDB,
		User:   url.UserPassword(cfg.PostgresUser, cfg.PostgresPassword),
	}
	q := url.Values{}
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	dsn := u.String()

	// one-time sanity log (do not print the password)
	logger.Info(ctx, "db_config_check", "Effective DB connection parameters", map[string]any{
		"host":           cfg.PostgresHost,
		"port":           cfg.PostgresPort,
		"user":           cfg.PostgresUser,
		"database":       cfg.PostgresDB,
		"password_empty": cfg.PostgresPassword == "",
		"sslmode":        "disable",
	})

	if err := runMigrations(ctx, dsn, logger); err != nil {
		return nil, err
	}

	// ---- parse and tune pool config ----
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres parse dsn: %w", err)
	}

	// connection-level settings
	pcfg.ConnConfig.ConnectTimeout = 5 * time.Second
	if pcfg.ConnConfig.RuntimeParams == nil {
		pcfg.ConnConfig.RuntimeParams = make(map[string]string, 2)
	}
	pcfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	// pool hygiene (keep reasonable, simple defaults)
	pcfg.HealthCheckPeriod = 30 * time.Second
	pcfg.MaxConnIdleTime = 5 * time.Minute

	// create pool
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	// verify connectivity with a bounded timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	logger.Info(ctx, "db_connected", "Connected to PostgreSQL database", map[string]any{
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return pool, nil
}

// runMigrations applies pending migrations from ./migrations. "no change" is
// not an error.
func runMigrations(ctx context.Context, dsn string, logger *logger.Logger) error {
	cwd, _ := os.Getwd()
	mPath := filepath.Join(cwd, "migrations")

	if _, err := os.Stat(mPath); err != nil {
		logger.Warn(ctx, "migrations_missing", "No migrations directory found; skipping", err, map[string]any{"path": mPath})
		return nil
	}

	m, err := migrate.New("file://"+mPath, dsn)
	if err != nil {
		return fmt.Errorf("migrate init: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info(ctx, "migrations_noop", "No migrations to apply", nil)
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	logger.Info(ctx, "migrations_applied", "Database migrations applied", nil)
	return nil
}
