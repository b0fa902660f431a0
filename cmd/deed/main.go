// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains the certificate store server main function.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/deed"
	"github.com/absmach/deed/api"
	grpcapi "github.com/absmach/deed/api/grpc"
	httpapi "github.com/absmach/deed/api/http"
	"github.com/absmach/deed/filestore"
	jaegerClient "github.com/absmach/deed/internal/jaeger"
	pgclient "github.com/absmach/deed/internal/postgres"
	"github.com/absmach/deed/internal/prometheus"
	"github.com/absmach/deed/internal/server"
	grpcserver "github.com/absmach/deed/internal/server/grpc"
	httpserver "github.com/absmach/deed/internal/server/http"
	"github.com/absmach/deed/internal/uuid"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/postgres"
	"github.com/absmach/deed/tracing"
	"github.com/caarlos0/env/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const (
	svcName        = "deed"
	envPrefixHTTP  = "DEED_HTTP_"
	envPrefixGRPC  = "DEED_GRPC_"
	envPrefixDB    = "DEED_DB_"
	defSvcHTTPPort = "9012"
	defSvcGRPCPort = "7012"
)

type config struct {
	LogLevel     string  `env:"DEED_LOG_LEVEL"          envDefault:"info"`
	StoreBackend string  `env:"DEED_STORE_BACKEND"      envDefault:"fs"`
	StorePath    string  `env:"DEED_STORE_PATH"         envDefault:"ca-data"`
	Issuer       string  `env:"DEED_ISSUER"             envDefault:""`
	InstanceID   string  `env:"DEED_INSTANCE_ID"        envDefault:""`
	JaegerURL    url.URL `env:"DEED_JAEGER_URL"         envDefault:"http://localhost:4318/v1/traces"`
	TraceRatio   float64 `env:"DEED_JAEGER_TRACE_RATIO" envDefault:"1.0"`
}

var errUnknownBackend = errors.New("unknown store backend")

func main() {
	var exitCode int
	defer exitWithError(&exitCode)

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID, err = uuid.New().ID()
		if err != nil {
			log.Fatalf("failed to generate instance ID: %s", err)
		}
	}

	authority, closeStore, err := openAuthority(ctx, afero.NewOsFs(), cfg, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to open %s certificate store: %s", cfg.StoreBackend, err))
		exitCode = 1
		return
	}
	defer closeStore()

	var tracer trace.Tracer = noop.NewTracerProvider().Tracer(svcName)
	tp, err := jaegerClient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to init Jaeger: %s", err))
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error(fmt.Sprintf("Error shutting down tracer provider: %v", err))
			}
		}()
		tracer = tp.Tracer(svcName)
	}

	store := newStore(authority, tracer, logger)

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	grpcServerConfig := server.Config{Port: defSvcGRPCPort}
	if err := env.ParseWithOptions(&grpcServerConfig, env.Options{Prefix: envPrefixGRPC}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s gRPC server configuration : %s", svcName, err))
		exitCode = 1
		return
	}

	registerStoreServiceServer := func(srv *grpc.Server) {
		deed.RegisterStoreServiceServer(srv, grpcapi.NewServer(store))
	}
	gs := grpcserver.NewServer(ctx, cancel, deed.HealthServiceName, grpcServerConfig, registerStoreServiceServer, logger)

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, httpapi.MakeHandler(store, logger, svcName, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return gs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs, gs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
		exitCode = 1
	}
}

func exitWithError(code *int) {
	if *code != 0 {
		os.Exit(*code)
	}
}

// openAuthority opens the store of the configured backend. The returned
// function releases the resources held by the store.
func openAuthority(ctx context.Context, fs afero.Fs, cfg config, logger *slog.Logger) (deed.Authority, func(), error) {
	switch cfg.StoreBackend {
	case "fs":
		s, err := openStore(fs, cfg, logger)
		if err != nil {
			return nil, nil, errors.Wrap(fmt.Errorf("failed to open store at %s", cfg.StorePath), err)
		}
		return s, func() {}, nil
	case "postgres":
		db, err := pgclient.Setup(envPrefixDB, *postgres.Migration())
		if err != nil {
			return nil, nil, err
		}
		s, err := openDBStore(ctx, db, cfg.Issuer, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	default:
		return nil, nil, errors.Wrap(errUnknownBackend, fmt.Errorf("%q", cfg.StoreBackend))
	}
}

// openStore loads the store at cfg.StorePath, initializing it for cfg.Issuer
// when the path holds no store yet.
func openStore(fs afero.Fs, cfg config, logger *slog.Logger) (*filestore.Store, error) {
	s, err := filestore.FromPath(fs, cfg.StorePath, logger)
	switch {
	case err == nil:
		return s, nil
	case errors.Contains(err, deed.ErrNoIssuer) && cfg.Issuer != "":
		return filestore.New(fs, cfg.StorePath, cfg.Issuer, logger)
	default:
		return nil, err
	}
}

// openDBStore loads the store kept in db, initializing it for issuer when
// the database holds no store yet.
func openDBStore(ctx context.Context, db *sqlx.DB, issuer string, logger *slog.Logger) (*postgres.Store, error) {
	s, err := postgres.Open(ctx, db, logger)
	switch {
	case err == nil:
		return s, nil
	case errors.Contains(err, deed.ErrNoIssuer) && issuer != "":
		return postgres.New(ctx, db, issuer, logger)
	default:
		return nil, err
	}
}

func newStore(authority deed.Store, tracer trace.Tracer, logger *slog.Logger) deed.Store {
	store := api.LoggingMiddleware(authority, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	store = api.MetricsMiddleware(store, counter, latency)
	store = tracing.New(store, tracer)

	return store
}

func initLogger(levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return &slog.Logger{}, fmt.Errorf(`{"level":"error","message":"%s: %s","ts":"%s"}`, err, levelText, time.RFC3339Nano)
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(logHandler), nil
}
