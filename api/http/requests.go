// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"crypto/x509"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/apiutil"
	"github.com/absmach/deed/pkg/errors"
)

type viewCertReq struct {
	subject string
}

func (req viewCertReq) validate() error {
	if req.subject == "" {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrMissingSubject)
	}
	if err := deed.ValidateSubject(req.subject); err != nil {
		return errors.Wrap(apiutil.ErrValidation, err)
	}
	return nil
}

type submitReq struct {
	csr *x509.CertificateRequest
}

func (req submitReq) validate() error {
	if req.csr == nil {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrEmptyBody)
	}
	if err := deed.ValidateSubject(req.csr.Subject.CommonName); err != nil {
		return errors.Wrap(apiutil.ErrValidation, err)
	}
	return nil
}
