// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package client connects to a remote certificate store.
package client

import (
	"context"
	"io"
	"time"

	"github.com/absmach/deed"
	grpcapi "github.com/absmach/deed/api/grpc"
	"github.com/absmach/deed/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
)

// ErrSvcNotServing indicates that the remote health service did not report SERVING.
var ErrSvcNotServing = errors.New("service is not serving")

// Config locates a remote store.
type Config struct {
	URL     string        `env:"URL"     envDefault:"localhost:7012"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// NewStore dials cfg.URL and waits for the remote health service to report
// the store as serving. The returned closer releases the connection.
func NewStore(ctx context.Context, cfg Config, opts ...grpc.DialOption) (io.Closer, deed.Store, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)

	conn, err := grpc.NewClient(cfg.URL, opts...)
	if err != nil {
		return nil, nil, errors.Wrap(deed.ErrConnection, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	health := grpchealth.NewHealthClient(conn)
	resp, err := health.Check(ctx, &grpchealth.HealthCheckRequest{
		Service: deed.HealthServiceName,
	})
	if err != nil {
		conn.Close()
		return nil, nil, errors.Wrap(deed.ErrConnection, err)
	}
	if resp.GetStatus() != grpchealth.HealthCheckResponse_SERVING {
		conn.Close()
		return nil, nil, errors.Wrap(deed.ErrConnection, ErrSvcNotServing)
	}

	return conn, grpcapi.NewStore(conn, cfg.Timeout), nil
}
