// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/absmach/deed/internal/server"
	httpserver "github.com/absmach/deed/internal/server/http"
	"github.com/absmach/deed/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) string {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(lis.Addr().String())
	require.NoError(t, err)
	require.NoError(t, lis.Close())

	return port
}

func start(srv server.Server) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	return done
}

func TestStart(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	_, busyPort, err := net.SplitHostPort(busy.Addr().String())
	require.NoError(t, err)

	cases := []struct {
		desc    string
		port    string
		running bool
		err     bool
	}{
		{
			desc:    "stop on cancellation",
			port:    freePort(t),
			running: true,
		},
		{
			desc: "fail on busy port",
			port: busyPort,
			err:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg := server.Config{Host: "127.0.0.1", Port: tc.port}
			srv := httpserver.NewServer(ctx, cancel, "deed", cfg, http.NotFoundHandler(), mocks.NewMock())
			done := start(srv)

			if tc.running {
				addr := net.JoinHostPort(cfg.Host, cfg.Port)
				require.Eventually(t, func() bool {
					conn, err := net.Dial("tcp", addr)
					if err != nil {
						return false
					}
					conn.Close()
					return true
				}, time.Second, 10*time.Millisecond)
				cancel()
			}

			select {
			case err := <-done:
				if tc.err {
					assert.Error(t, err)
					assert.Error(t, ctx.Err(), "a failed server must cancel its context")
					return
				}
				assert.NoError(t, err)
			case <-time.After(10 * time.Second):
				t.Fatal("server did not return")
			}
		})
	}
}
