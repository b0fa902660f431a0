// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package http

import (
	"context"

	"github.com/absmach/deed"
	"github.com/go-kit/kit/endpoint"
)

func viewCertEndpoint(store deed.Store) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(viewCertReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		cert, err := store.GetCertificate(ctx, req.subject)
		if err != nil {
			return nil, err
		}

		return viewCertRes{certificate: cert}, nil
	}
}

func submitEndpoint(store deed.Store) endpoint.Endpoint {
	return func(ctx context.Context, request any) (response any, err error) {
		req := request.(submitReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		if err := store.SubmitCertificateRequest(ctx, req.csr); err != nil {
			return nil, err
		}

		return submitRes{subject: req.csr.Subject.CommonName}, nil
	}
}
