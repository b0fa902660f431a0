// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grpc

import (
	"context"
	"crypto/x509"
	"strings"
	"time"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/pki"
	"github.com/go-kit/kit/endpoint"
	kitgrpc "github.com/go-kit/kit/transport/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ deed.Store = (*grpcClient)(nil)

type grpcClient struct {
	timeout        time.Duration
	getCertificate endpoint.Endpoint
	submit         endpoint.Endpoint
}

// NewStore returns a deed.Store that forwards every call over conn.
func NewStore(conn *grpc.ClientConn, timeout time.Duration) deed.Store {
	return &grpcClient{
		getCertificate: kitgrpc.NewClient(
			conn,
			deed.StoreServiceName,
			"GetCertificate",
			encodeGetCertificateRequest,
			decodeGetCertificateResponse,
			wrapperspb.BytesValue{},
		).Endpoint(),

		submit: kitgrpc.NewClient(
			conn,
			deed.StoreServiceName,
			"SubmitCertificateRequest",
			encodeSubmitRequest,
			decodeSubmitResponse,
			emptypb.Empty{},
		).Endpoint(),

		timeout: timeout,
	}
}

func (c *grpcClient) GetCertificate(ctx context.Context, subject string) (*x509.Certificate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.getCertificate(ctx, getCertificateReq{subject: subject})
	if err != nil {
		return nil, decodeError(err)
	}

	return res.(getCertificateRes).certificate, nil
}

func (c *grpcClient) SubmitCertificateRequest(ctx context.Context, csr *x509.CertificateRequest) error {
	if csr == nil {
		return deed.ErrBadCertificateRequest
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := c.submit(ctx, submitReq{csr: csr}); err != nil {
		return decodeError(err)
	}

	return nil
}

func encodeGetCertificateRequest(_ context.Context, request any) (any, error) {
	req := request.(getCertificateReq)
	return wrapperspb.String(req.subject), nil
}

func decodeGetCertificateResponse(_ context.Context, response any) (any, error) {
	res := response.(*wrapperspb.BytesValue)
	cert, err := pki.DecodeCertificate(res.GetValue())
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}
	return getCertificateRes{certificate: cert}, nil
}

func encodeSubmitRequest(_ context.Context, request any) (any, error) {
	req := request.(submitReq)
	return wrapperspb.Bytes(pki.EncodeRequest(req.csr)), nil
}

func decodeSubmitResponse(_ context.Context, _ any) (any, error) {
	return submitRes{}, nil
}

func decodeError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return deed.ErrCertificateNotFound
	case codes.InvalidArgument:
		if strings.HasPrefix(st.Message(), deed.ErrMalformedSubject.Error()) {
			return deed.ErrMalformedSubject
		}
		return errors.Wrap(deed.ErrBadCertificateRequest, errors.New(st.Message()))
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return errors.Wrap(deed.ErrConnection, errors.New(st.Message()))
	default:
		return errors.New(st.Message())
	}
}
