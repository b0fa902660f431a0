// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grpc

import (
	"context"

	"github.com/absmach/deed"
	"github.com/go-kit/kit/endpoint"
)

func getCertificateEndpoint(store deed.Store) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(getCertificateReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		cert, err := store.GetCertificate(ctx, req.subject)
		if err != nil {
			return nil, err
		}

		return getCertificateRes{certificate: cert}, nil
	}
}

func submitEndpoint(store deed.Store) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(submitReq)
		if err := req.validate(); err != nil {
			return nil, err
		}

		if err := store.SubmitCertificateRequest(ctx, req.csr); err != nil {
			return nil, err
		}

		return submitRes{}, nil
	}
}
