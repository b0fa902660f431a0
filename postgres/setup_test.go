// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres_test

import (
	"context"
	"log"
	"os"
	"testing"

	pgclient "github.com/absmach/deed/internal/postgres"
	"github.com/absmach/deed/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"
)

var db *sqlx.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	cfg := []string{
		"POSTGRES_USER=test",
		"POSTGRES_PASSWORD=test",
		"POSTGRES_DB=test",
	}
	container, err := pool.Run("postgres", "16.2-alpine", cfg)
	if err != nil {
		log.Fatalf("Could not start container: %s", err)
	}

	port := container.GetPort("5432/tcp")

	dbConfig := pgclient.Config{
		Host:    "localhost",
		Port:    port,
		User:    "test",
		Pass:    "test",
		Name:    "test",
		SSLMode: "disable",
	}

	if err := pool.Retry(func() error {
		conn, err := pgclient.Connect(dbConfig)
		if err != nil {
			return err
		}
		return conn.Close()
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	if db, err = pgclient.SetupWithConfig(*postgres.Migration(), dbConfig); err != nil {
		log.Fatalf("Could not setup test DB connection: %s", err)
	}

	code := m.Run()

	// Defers will not be run when using os.Exit
	db.Close()
	if err := pool.Purge(container); err != nil {
		log.Fatalf("Could not purge container: %s", err)
	}

	os.Exit(code)
}

func cleanup(t *testing.T) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), "TRUNCATE issuer, requests, certificates")
	require.NoError(t, err)
}
