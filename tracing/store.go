// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"crypto/x509"

	"github.com/absmach/deed"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ deed.Store = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	store  deed.Store
}

// New returns a certificate store with tracing capabilities.
func New(store deed.Store, tracer trace.Tracer) deed.Store {
	return &tracingMiddleware{tracer, store}
}

func (tm *tracingMiddleware) SubmitCertificateRequest(ctx context.Context, csr *x509.CertificateRequest) error {
	var subject string
	if csr != nil {
		subject = csr.Subject.CommonName
	}
	ctx, span := tm.tracer.Start(ctx, "submit_certificate_request", trace.WithAttributes(
		attribute.String("subject", subject),
	))
	defer span.End()
	return tm.store.SubmitCertificateRequest(ctx, csr)
}

func (tm *tracingMiddleware) GetCertificate(ctx context.Context, subject string) (*x509.Certificate, error) {
	ctx, span := tm.tracer.Start(ctx, "get_certificate", trace.WithAttributes(
		attribute.String("subject", subject),
	))
	defer span.End()
	return tm.store.GetCertificate(ctx, subject)
}
