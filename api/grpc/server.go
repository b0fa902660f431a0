// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grpc

import (
	"context"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/pki"
	kitgrpc "github.com/go-kit/kit/transport/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ deed.StoreServiceServer = (*grpcServer)(nil)

type grpcServer struct {
	getCertificate kitgrpc.Handler
	submit         kitgrpc.Handler
	deed.UnimplementedStoreServiceServer
}

// NewServer exposes store over the certificate store protocol.
func NewServer(store deed.Store) deed.StoreServiceServer {
	return &grpcServer{
		getCertificate: kitgrpc.NewServer(
			getCertificateEndpoint(store),
			decodeGetCertificateReq,
			encodeGetCertificateRes,
		),
		submit: kitgrpc.NewServer(
			submitEndpoint(store),
			decodeSubmitReq,
			encodeSubmitRes,
		),
	}
}

func decodeGetCertificateReq(_ context.Context, req any) (any, error) {
	return getCertificateReq{subject: req.(*wrapperspb.StringValue).GetValue()}, nil
}

func encodeGetCertificateRes(_ context.Context, res any) (any, error) {
	cert := res.(getCertificateRes).certificate
	return wrapperspb.Bytes(pki.EncodeCertificate(cert)), nil
}

func decodeSubmitReq(_ context.Context, req any) (any, error) {
	csr, err := pki.DecodeRequest(req.(*wrapperspb.BytesValue).GetValue())
	if err != nil {
		return nil, err
	}
	return submitReq{csr: csr}, nil
}

func encodeSubmitRes(_ context.Context, _ any) (any, error) {
	return &emptypb.Empty{}, nil
}

// GetCertificate returns the PEM encoded certificate of the requested subject.
func (g *grpcServer) GetCertificate(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_, res, err := g.getCertificate.ServeGRPC(ctx, req)
	if err != nil {
		return nil, encodeError(err)
	}
	return res.(*wrapperspb.BytesValue), nil
}

// SubmitCertificateRequest stores the PEM encoded CSR as a pending request.
func (g *grpcServer) SubmitCertificateRequest(ctx context.Context, req *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	_, res, err := g.submit.ServeGRPC(ctx, req)
	if err != nil {
		return nil, encodeError(err)
	}
	return res.(*emptypb.Empty), nil
}

func encodeError(err error) error {
	switch {
	case errors.Contains(err, nil):
		return nil
	case errors.Contains(err, deed.ErrBadCertificateRequest),
		errors.Contains(err, deed.ErrMalformedSubject):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Contains(err, deed.ErrCertificateNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Contains(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Contains(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Contains(err, deed.ErrCreateEntity),
		errors.Contains(err, deed.ErrViewEntity):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
