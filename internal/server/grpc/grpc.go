// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/absmach/deed/internal/server"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type serviceRegister func(srv *grpc.Server)

type grpcServer struct {
	server.BaseServer
	server          *grpc.Server
	registerService serviceRegister
	health          *health.Server
	listener        net.Listener
}

var _ server.Server = (*grpcServer)(nil)

// NewServer returns a gRPC server named name. The health service reports
// name as SERVING once registerService has run.
func NewServer(ctx context.Context, cancel context.CancelFunc, name string, config server.Config, registerService serviceRegister, logger *slog.Logger) server.Server {
	baseServer := server.NewBaseServer(ctx, cancel, name, config, logger)
	baseServer.Protocol = "grpc"

	return &grpcServer{
		BaseServer:      baseServer,
		registerService: registerService,
	}
}

// NewServerWithListener is NewServer serving on an already bound listener.
func NewServerWithListener(ctx context.Context, cancel context.CancelFunc, name string, listener net.Listener, registerService serviceRegister, logger *slog.Logger) server.Server {
	baseServer := server.NewBaseServer(ctx, cancel, name, server.Config{}, logger)
	baseServer.Protocol = "grpc"
	baseServer.Address = listener.Addr().String()

	return &grpcServer{
		BaseServer:      baseServer,
		registerService: registerService,
		listener:        listener,
	}
}

func (s *grpcServer) Start() error {
	errCh := make(chan error, 1)

	listener := s.listener
	if listener == nil {
		var err error
		listener, err = net.Listen("tcp", s.Address)
		if err != nil {
			return fmt.Errorf("failed to listen on port %s: %w", s.Address, err)
		}
	}

	s.server = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	s.health = health.NewServer()
	grpchealth.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	s.registerService(s.server)
	s.health.SetServingStatus(s.Name, grpchealth.HealthCheckResponse_SERVING)

	s.Logger.Info(fmt.Sprintf("%s service gRPC server listening at %s without TLS", s.Name, s.Address))

	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case <-s.Ctx.Done():
		err := s.Stop()
		<-errCh
		return err
	case err := <-errCh:
		s.Cancel()
		return err
	}
}

func (s *grpcServer) Stop() error {
	defer s.Cancel()
	if s.server == nil {
		return nil
	}
	c := make(chan bool)
	go func() {
		defer close(c)
		s.health.Shutdown()
		s.server.GracefulStop()
	}()
	select {
	case <-c:
	case <-time.After(server.StopWaitTime):
		s.server.Stop()
	}
	s.Logger.Info(fmt.Sprintf("%s gRPC service shutdown at %s", s.Name, s.Address))

	return nil
}
