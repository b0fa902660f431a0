// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package pki provides the key and certificate primitives of the authority:
// key generation, CSR construction, self-signing and request signing.
package pki

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
)

const (
	// PrivateKeyBits is the size of generated RSA keys.
	PrivateKeyBits = 2048

	// SignatureAlgorithm is the only digest the authority signs with.
	SignatureAlgorithm = x509.SHA512WithRSA

	certValidityPeriod = time.Hour * 24 * 365
	clockSkew          = time.Minute * 5
)

// Issuer is the identity that signs certificate requests.
type Issuer struct {
	Certificate *x509.Certificate
	Key         crypto.Signer
}

// GenerateKey returns a fresh RSA key pair.
func GenerateKey() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, PrivateKeyBits)
}

// GenerateCertificateRequest builds a CSR binding subject to the public half of key.
func GenerateCertificateRequest(key crypto.Signer, subject string) (*x509.CertificateRequest, error) {
	template := &x509.CertificateRequest{
		Subject:            pkix.Name{CommonName: subject},
		SignatureAlgorithm: SignatureAlgorithm,
	}

	der, err := x509.CreateCertificateRequest(rand.Reader, template, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate request: %w", err)
	}

	return x509.ParseCertificateRequest(der)
}

// GenerateSelfSignedCertificate builds the root certificate of an authority
// named subject, signed by key itself.
func GenerateSelfSignedCertificate(key crypto.Signer, subject string) (*x509.Certificate, error) {
	csr, err := GenerateCertificateRequest(key, subject)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          SerialNumber(subject),
		Subject:               csr.Subject,
		NotBefore:             now.Add(-clockSkew),
		NotAfter:              now.Add(certValidityPeriod),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
		SignatureAlgorithm:    SignatureAlgorithm,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, csr.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to self-sign certificate: %w", err)
	}

	return x509.ParseCertificate(der)
}

// SignCertificateRequest signs csr as issuer using serial and records the
// issued certificate in the audit log.
func SignCertificateRequest(csr *x509.CertificateRequest, issuer Issuer, serial *big.Int, logger *slog.Logger) (*x509.Certificate, error) {
	if csr == nil {
		return nil, deed.ErrBadCertificateRequest
	}
	if err := csr.CheckSignature(); err != nil {
		return nil, errors.Wrap(deed.ErrBadCertificateRequest, err)
	}
	if issuer.Certificate == nil || issuer.Key == nil {
		return nil, deed.ErrNoIssuer
	}
	if logger == nil {
		logger = slog.Default()
	}

	now := time.Now()
	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               csr.Subject,
		NotBefore:             now.Add(-clockSkew),
		NotAfter:              now.Add(certValidityPeriod),
		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              csr.DNSNames,
		IPAddresses:           csr.IPAddresses,
		SignatureAlgorithm:    SignatureAlgorithm,
	}

	der, err := x509.CreateCertificate(rand.Reader, template, issuer.Certificate, csr.PublicKey, issuer.Key)
	if err != nil {
		return nil, errors.Wrap(deed.ErrBadCertificateRequest, err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, err
	}

	logger.Info("signed certificate",
		slog.String("subject", cert.Subject.CommonName),
		slog.String("issuer", cert.Issuer.CommonName),
		slog.String("serial", cert.SerialNumber.String()),
		slog.String("fingerprint", Fingerprint(cert)),
	)

	return cert, nil
}

// Fingerprint returns the colon separated SHA-256 digest of the DER certificate.
func Fingerprint(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)

	parts := make([]string, len(sum))
	for i, b := range sum {
		parts[i] = fmt.Sprintf("%02X", b)
	}

	return strings.Join(parts, ":")
}
