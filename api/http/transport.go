// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/absmach/deed"
	"github.com/absmach/deed/internal/api"
	"github.com/absmach/deed/pkg/apiutil"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/pki"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// PEMContentType is the media type of PEM encoded certificates and requests.
	PEMContentType = "application/x-pem-file"

	subjectKey  = "subject"
	maxBodySize = 64 * 1024
)

var requestContentTypes = map[string]bool{
	PEMContentType:       true,
	"application/pkcs10": true,
	"application/x-pem":  true,
	"text/plain":         true,
}

// MakeHandler returns a HTTP handler for the read-only certificate API and
// request submission.
func MakeHandler(store deed.Store, logger *slog.Logger, svcName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	r := chi.NewRouter()

	r.Route("/certs", func(r chi.Router) {
		r.Post("/requests", kithttp.NewServer(
			submitEndpoint(store),
			decodeSubmit,
			api.EncodeResponse,
			opts...,
		).ServeHTTP)

		r.Get("/{subject}", kithttp.NewServer(
			viewCertEndpoint(store),
			decodeViewCert,
			encodeCertificate,
			opts...,
		).ServeHTTP)
	})

	r.Get("/health", api.Health(svcName, instanceID))
	r.Handle("/metrics", promhttp.Handler())

	return otelhttp.NewHandler(r, svcName)
}

func decodeViewCert(_ context.Context, r *http.Request) (any, error) {
	return viewCertReq{subject: chi.URLParam(r, subjectKey)}, nil
}

func decodeSubmit(_ context.Context, r *http.Request) (any, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !requestContentTypes[mediaType] {
			return nil, apiutil.ErrUnsupportedContentType
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	if len(body) > maxBodySize {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrBodyTooLarge)
	}
	if len(body) == 0 {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrEmptyBody)
	}

	csr, err := pki.DecodeRequest(body)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}

	return submitReq{csr: csr}, nil
}

func encodeCertificate(_ context.Context, w http.ResponseWriter, response any) error {
	res := response.(viewCertRes)

	w.Header().Set("Content-Type", PEMContentType)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(pki.EncodeCertificate(res.certificate))

	return err
}
