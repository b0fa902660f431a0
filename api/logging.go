// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"crypto/x509"
	"fmt"
	"log/slog"
	"time"

	"github.com/absmach/deed"
)

var _ deed.Store = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	store  deed.Store
}

// LoggingMiddleware adds logging facilities to the certificate store.
func LoggingMiddleware(store deed.Store, logger *slog.Logger) deed.Store {
	return &loggingMiddleware{logger, store}
}

func (lm *loggingMiddleware) SubmitCertificateRequest(ctx context.Context, csr *x509.CertificateRequest) (err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method submit_certificate_request for subject %s took %s to complete", requestSubject(csr), time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.store.SubmitCertificateRequest(ctx, csr)
}

func (lm *loggingMiddleware) GetCertificate(ctx context.Context, subject string) (cert *x509.Certificate, err error) {
	defer func(begin time.Time) {
		message := fmt.Sprintf("Method get_certificate for subject %s took %s to complete", subject, time.Since(begin))
		if err != nil {
			lm.logger.Warn(fmt.Sprintf("%s with error: %s.", message, err))
			return
		}
		lm.logger.Info(message)
	}(time.Now())
	return lm.store.GetCertificate(ctx, subject)
}

func requestSubject(csr *x509.CertificateRequest) string {
	if csr == nil {
		return ""
	}
	return csr.Subject.CommonName
}
