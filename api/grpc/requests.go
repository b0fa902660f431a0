// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grpc

import (
	"crypto/x509"

	"github.com/absmach/deed"
)

type getCertificateReq struct {
	subject string
}

func (req getCertificateReq) validate() error {
	return deed.ValidateSubject(req.subject)
}

type getCertificateRes struct {
	certificate *x509.Certificate
}

type submitReq struct {
	csr *x509.CertificateRequest
}

func (req submitReq) validate() error {
	if req.csr == nil {
		return deed.ErrBadCertificateRequest
	}
	return deed.ValidateSubject(req.csr.Subject.CommonName)
}

type submitRes struct{}
