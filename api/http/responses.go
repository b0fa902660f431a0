// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"crypto/x509"
	"net/http"

	"github.com/absmach/deed/internal/api"
)

var _ api.Response = (*submitRes)(nil)

type viewCertRes struct {
	certificate *x509.Certificate
}

type submitRes struct {
	subject string
}

func (res submitRes) Code() int {
	return http.StatusCreated
}

func (res submitRes) Headers() map[string]string {
	return map[string]string{
		"Location": "/certs/" + res.subject,
	}
}

func (res submitRes) Empty() bool {
	return true
}
