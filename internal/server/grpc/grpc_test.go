// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	grpcserver "github.com/absmach/deed/internal/server/grpc"
	"github.com/absmach/deed/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

func TestStartStopsOnCancel(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	srv := grpcserver.NewServerWithListener(ctx, cancel, "deed", lis, func(*grpc.Server) {}, mocks.NewMock())

	done := make(chan error, 1)
	go func() {
		done <- srv.Start()
	}()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}

	_, err = net.Dial("tcp", addr)
	assert.Error(t, err, "listener must be closed once Start returns")
}
