// Package database provides dialect-aware connection management for goprofile.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"     // MySQL driver
	_ "github.com/lib/pq"                  // PostgreSQL / Redshift driver
	_ "github.com/marcboeker/go-duckdb/v2" // DuckDB driver
	_ "github.com/microsoft/go-mssqldb"    // SQL Server driver
	_ "modernc.org/sqlite"                 // SQLite driver

	"github.com/dbsmedya/goprofile/internal/config"
	"github.com/dbsmedya/goprofile/internal/dialect"
)

// Manager handles the connection pool to the profiled source database.
// The pool is shared by all workers; it is sized so that every worker
// can hold its own connection for the lifetime of its unit of work.
type Manager struct {
	Source *sql.DB

	dialect dialect.Dialect
	config  *config.Config
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.Config) (*Manager, error) {
	d, ok := dialect.Parse(cfg.Source.Dialect)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q", cfg.Source.Dialect)
	}
	return &Manager{
		dialect: d,
		config:  cfg,
	}, nil
}

// Dialect returns the dialect of the managed source.
func (m *Manager) Dialect() dialect.Dialect {
	return m.dialect
}

// Connect establishes the connection pool to the source database.
func (m *Manager) Connect(ctx context.Context) error {
	db, err := m.connectWithRetry(ctx, &m.config.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	m.Source = db
	return nil
}

// Session returns the pool workers draw their connections from.
func (m *Manager) Session() *sql.DB {
	return m.Source
}

// connectWithRetry attempts to connect with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 3
	backoff := time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = m.connect(cfg)
		if err == nil {
			// Verify connection
			if pingErr := db.PingContext(ctx); pingErr == nil {
				return db, nil
			} else {
				db.Close()
				err = pingErr
			}
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}

// connect creates a database connection pool.
func (m *Manager) connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	driver, ok := m.dialect.DriverName()
	if !ok {
		return nil, fmt.Errorf("dialect %s has no bundled driver", m.dialect)
	}

	dsn, err := BuildDSN(m.dialect, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// The pool must fit one connection per worker plus the mapper.
	maxOpen := cfg.MaxConnections
	if min := m.config.Profiler.ThreadCount + 1; maxOpen < min {
		maxOpen = min
	}
	db.SetMaxOpenConns(maxOpen)
	if cfg.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConnections)
	}
	db.SetConnMaxLifetime(10 * time.Minute)

	return db, nil
}

// BuildDSN constructs a driver DSN from configuration for the given dialect.
func BuildDSN(d dialect.Dialect, cfg *config.DatabaseConfig) (string, error) {
	switch d {
	case dialect.MySQL:
		return buildMySQLDSN(cfg), nil
	case dialect.Postgres, dialect.Redshift:
		return buildPostgresDSN(cfg), nil
	case dialect.SQLite, dialect.DuckDB:
		return cfg.Path, nil
	case dialect.MSSQL:
		return buildMSSQLDSN(cfg), nil
	default:
		return "", fmt.Errorf("dialect %s has no bundled driver", d)
	}
}

// buildMySQLDSN renders user:password@tcp(host:port)/database?params.
func buildMySQLDSN(cfg *config.DatabaseConfig) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	params := "?parseTime=true"
	switch cfg.TLS {
	case "disable":
		params += "&tls=false"
	case "required":
		params += "&tls=true"
	case "preferred", "":
		params += "&tls=preferred"
	}

	return dsn + params
}

// buildPostgresDSN renders a lib/pq keyword/value DSN.
func buildPostgresDSN(cfg *config.DatabaseConfig) string {
	// lib/pq has no "prefer" mode, so "preferred" maps to require.
	sslmode := "require"
	if cfg.TLS == "disable" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, sslmode)
}

// buildMSSQLDSN renders a sqlserver:// URL DSN.
func buildMSSQLDSN(cfg *config.DatabaseConfig) string {
	query := url.Values{}
	if cfg.Database != "" {
		query.Set("database", cfg.Database)
	}
	switch cfg.TLS {
	case "disable":
		query.Set("encrypt", "disable")
	case "required":
		query.Set("encrypt", "true")
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Close closes the connection pool gracefully.
func (m *Manager) Close() error {
	if m.Source == nil {
		return nil
	}
	if err := m.Source.Close(); err != nil {
		return fmt.Errorf("source close: %w", err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.Source != nil {
		if err := m.Source.PingContext(ctx); err != nil {
			return fmt.Errorf("source ping failed: %w", err)
		}
	}
	return nil
}
