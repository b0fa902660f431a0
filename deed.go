// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package deed contains the certificate store contract shared by the local,
// filesystem backed store and the remote store reached over gRPC.
package deed

import (
	"context"
	"crypto/x509"
	"strings"
	"unicode"

	"github.com/absmach/deed/pkg/errors"
)

var (
	// ErrCertificateNotFound indicates that no certificate was issued for the subject.
	ErrCertificateNotFound = errors.New("certificate not found")

	// ErrBadCertificateRequest indicates a CSR that cannot be parsed or whose signature does not verify.
	ErrBadCertificateRequest = errors.New("bad certificate request")

	// ErrNoPendingRequest indicates that signing was requested for a subject without a pending CSR.
	ErrNoPendingRequest = errors.New("no pending certificate request")

	// ErrMalformedSubject indicates a subject name that cannot be used as a storage key.
	ErrMalformedSubject = errors.New("malformed subject")

	// ErrIssuerExists indicates an attempt to initialize a store that already has an issuer.
	ErrIssuerExists = errors.New("issuer already exists")

	// ErrNoIssuer indicates a store path without an issuer marker.
	ErrNoIssuer = errors.New("no issuer found")

	// ErrConnection indicates a transport failure while talking to a remote store.
	ErrConnection = errors.New("store connection failed")

	// ErrCreateEntity indicates a failure to persist a request or certificate.
	ErrCreateEntity = errors.New("failed to create entity")

	// ErrViewEntity indicates a failure to read persisted state.
	ErrViewEntity = errors.New("view entity failed")
)

// Store is the certificate store contract. Local and remote stores are
// interchangeable behind it.
//
//go:generate mockery --name Store --output=./mocks --filename store.go --quiet --note "Copyright (c) Abstract Machines"
type Store interface {
	// SubmitCertificateRequest stores csr as the pending request for its
	// subject, replacing any earlier one. It returns once the request is persisted.
	SubmitCertificateRequest(ctx context.Context, csr *x509.CertificateRequest) error

	// GetCertificate retrieves the certificate issued for subject.
	GetCertificate(ctx context.Context, subject string) (*x509.Certificate, error)
}

// Authority is a Store that holds the issuer key and signs pending requests.
//
//go:generate mockery --name Authority --output=./mocks --filename authority.go --quiet --note "Copyright (c) Abstract Machines"
type Authority interface {
	Store

	// SignRequest signs the pending request of subject, persists and returns
	// the certificate. The pending request is left in place.
	SignRequest(ctx context.Context, subject string) (*x509.Certificate, error)

	// Issuer returns the self-signed issuer certificate.
	Issuer() *x509.Certificate

	// IssuerName returns the subject name of the issuer.
	IssuerName() string

	// ListRequests returns the subjects with a pending request, sorted.
	ListRequests(ctx context.Context) ([]string, error)

	// ListCertificates returns the subjects with an issued certificate, sorted.
	// The issuer is not listed.
	ListCertificates(ctx context.Context) ([]string, error)
}

// ValidateSubject checks that subject is usable as a file name in the store.
// Surrounding whitespace and control characters are rejected so that a name
// reads back from disk exactly as it was written.
func ValidateSubject(subject string) error {
	switch {
	case subject == "",
		strings.HasPrefix(subject, "."),
		strings.TrimSpace(subject) != subject,
		strings.ContainsAny(subject, "/\\"),
		strings.IndexFunc(subject, unicode.IsControl) >= 0:
		return ErrMalformedSubject
	}
	return nil
}
