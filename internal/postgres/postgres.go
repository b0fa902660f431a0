// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package postgres connects to PostgreSQL and applies schema migrations.
package postgres

import (
	"fmt"

	"github.com/absmach/deed/pkg/errors"
	"github.com/caarlos0/env/v10"
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	errConfig    = errors.New("failed to load postgres configuration")
	errConnect   = errors.New("failed to connect to postgres server")
	errMigration = errors.New("failed to apply migrations")
)

// Config defines the options that are used when connecting to a PostgreSQL instance.
type Config struct {
	Host        string `env:"HOST"          envDefault:"localhost"`
	Port        string `env:"PORT"          envDefault:"5432"`
	User        string `env:"USER"          envDefault:"deed"`
	Pass        string `env:"PASS"          envDefault:"deed"`
	Name        string `env:"NAME"          envDefault:"deed"`
	SSLMode     string `env:"SSL_MODE"      envDefault:"disable"`
	SSLCert     string `env:"SSL_CERT"      envDefault:""`
	SSLKey      string `env:"SSL_KEY"       envDefault:""`
	SSLRootCert string `env:"SSL_ROOT_CERT" envDefault:""`
}

// Setup loads the configuration from environment variables with prefix,
// connects and applies migrations.
func Setup(prefix string, migrations migrate.MemoryMigrationSource) (*sqlx.DB, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: prefix}); err != nil {
		return nil, errors.Wrap(errConfig, err)
	}
	return SetupWithConfig(migrations, cfg)
}

// SetupWithConfig connects using cfg and applies migrations.
func SetupWithConfig(migrations migrate.MemoryMigrationSource, cfg Config) (*sqlx.DB, error) {
	db, err := Connect(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := migrate.Exec(db.DB, "postgres", migrations, migrate.Up); err != nil {
		db.Close()
		return nil, errors.Wrap(errMigration, err)
	}

	return db, nil
}

// Connect creates a connection to the PostgreSQL instance.
func Connect(cfg Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.dsn())
	if err != nil {
		return nil, errors.Wrap(errConnect, err)
	}

	return db, nil
}

func (cfg Config) dsn() string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.Pass, cfg.SSLMode)

	// Empty values would swallow the next keyword.
	for _, opt := range []struct{ key, value string }{
		{"sslcert", cfg.SSLCert},
		{"sslkey", cfg.SSLKey},
		{"sslrootcert", cfg.SSLRootCert},
	} {
		if opt.value != "" {
			dsn += fmt.Sprintf(" %s=%s", opt.key, opt.value)
		}
	}

	return dsn
}
