// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	migrate "github.com/rubenv/sql-migrate"
)

// Migration returns the schema of the PostgreSQL backed store.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "deed_1",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS issuer (
						singleton   BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
						name        VARCHAR(254) NOT NULL,
						certificate TEXT NOT NULL,
						key         TEXT NOT NULL,
						created_at  TIMESTAMP NOT NULL
					)`,
					`CREATE TABLE IF NOT EXISTS requests (
						subject      VARCHAR(254) PRIMARY KEY,
						csr          TEXT NOT NULL,
						submitted_at TIMESTAMP NOT NULL
					)`,
					`CREATE TABLE IF NOT EXISTS certificates (
						subject       VARCHAR(254) PRIMARY KEY,
						serial_number BIGINT NOT NULL,
						certificate   TEXT NOT NULL,
						issued_at     TIMESTAMP NOT NULL
					)`,
				},
				Down: []string{
					"DROP TABLE certificates",
					"DROP TABLE requests",
					"DROP TABLE issuer",
				},
			},
		},
	}
}
