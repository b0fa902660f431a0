// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"crypto/x509"
	"time"

	"github.com/absmach/deed"
	"github.com/go-kit/kit/metrics"
)

var _ deed.Store = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	store   deed.Store
}

// MetricsMiddleware instruments the certificate store by tracking request count and latency.
func MetricsMiddleware(store deed.Store, counter metrics.Counter, latency metrics.Histogram) deed.Store {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		store:   store,
	}
}

func (mm *metricsMiddleware) SubmitCertificateRequest(ctx context.Context, csr *x509.CertificateRequest) error {
	defer func(begin time.Time) {
		mm.counter.With("method", "submit_certificate_request").Add(1)
		mm.latency.With("method", "submit_certificate_request").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.store.SubmitCertificateRequest(ctx, csr)
}

func (mm *metricsMiddleware) GetCertificate(ctx context.Context, subject string) (*x509.Certificate, error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "get_certificate").Add(1)
		mm.latency.With("method", "get_certificate").Observe(time.Since(begin).Seconds())
	}(time.Now())
	return mm.store.GetCertificate(ctx, subject)
}
