// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package pki

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
)

const (
	certificateBlock = "CERTIFICATE"
	requestBlock     = "CERTIFICATE REQUEST"
	rsaKeyBlock      = "RSA PRIVATE KEY"
	pkcs8KeyBlock    = "PRIVATE KEY"
)

var (
	// ErrInvalidPEM indicates data without the expected PEM block.
	ErrInvalidPEM = errors.New("invalid PEM data")

	// ErrUnsupportedKey indicates a private key that is not RSA.
	ErrUnsupportedKey = errors.New("unsupported private key type")
)

// EncodeCertificate returns the PEM form of cert, used both on disk and on the wire.
func EncodeCertificate(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: certificateBlock, Bytes: cert.Raw})
}

// DecodeCertificate parses a PEM encoded certificate.
func DecodeCertificate(data []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != certificateBlock {
		return nil, ErrInvalidPEM
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPEM, err)
	}

	return cert, nil
}

// EncodeRequest returns the PEM form of csr.
func EncodeRequest(csr *x509.CertificateRequest) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: requestBlock, Bytes: csr.Raw})
}

// DecodeRequest parses a PEM encoded CSR. Any failure is a bad certificate request.
func DecodeRequest(data []byte) (*x509.CertificateRequest, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != requestBlock {
		return nil, errors.Wrap(deed.ErrBadCertificateRequest, ErrInvalidPEM)
	}

	csr, err := x509.ParseCertificateRequest(block.Bytes)
	if err != nil {
		return nil, errors.Wrap(deed.ErrBadCertificateRequest, err)
	}

	return csr, nil
}

// EncodeKey returns the PKCS#1 PEM form of key.
func EncodeKey(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: rsaKeyBlock, Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

// DecodeKey parses a PEM encoded RSA private key in PKCS#1 or PKCS#8 form.
func DecodeKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEM
	}

	switch block.Type {
	case rsaKeyBlock:
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPEM, err)
		}
		return key, nil
	case pkcs8KeyBlock:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidPEM, err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrUnsupportedKey
		}
		return key, nil
	default:
		return nil, ErrInvalidPEM
	}
}
