package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/instasorteo/contest-stats/internal/config"
)

// DSN builds the go-sql-driver/mysql connection string for cfg.
// Timestamps are parsed into time.Time and normalized to UTC, and every
// connection uses the configured utf8mb4 collation.
func DSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = hostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Collation = cfg.DBCollation
	return mc.FormatDSN()
}

// Open returns a new, unshared connection pool. The driver connects lazily,
// so connectivity errors surface on the first query.
func Open(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

// Migrate runs all pending up-migrations from cfg.MigrationsPath.
// It is idempotent: already-applied migrations are skipped.
func Migrate(cfg *config.Config) error {
	// golang-migrate's mysql driver wants the scheme prefix in front of the
	// driver DSN, and multi-statement files need multiStatements enabled.
	m, err := migrate.New(cfg.MigrationsPath, "mysql://"+DSN(cfg)+"&multiStatements=true")
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func hostPort(host, port string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	return net.JoinHostPort(host, port)
}
