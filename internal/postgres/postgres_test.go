// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDSN(t *testing.T) {
	cases := []struct {
		desc string
		cfg  Config
		dsn  string
	}{
		{
			desc: "without ssl files",
			cfg:  Config{Host: "localhost", Port: "5432", User: "deed", Pass: "secret", Name: "deed", SSLMode: "disable"},
			dsn:  "host=localhost port=5432 user=deed dbname=deed password=secret sslmode=disable",
		},
		{
			desc: "with ssl files",
			cfg:  Config{Host: "db", Port: "5433", User: "deed", Pass: "secret", Name: "ca", SSLMode: "verify-full", SSLRootCert: "/etc/ca.pem"},
			dsn:  "host=db port=5433 user=deed dbname=ca password=secret sslmode=verify-full sslrootcert=/etc/ca.pem",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.dsn, tc.cfg.dsn())
		})
	}
}
