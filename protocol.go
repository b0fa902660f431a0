// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package deed

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// StoreServiceName is the fully qualified name of the certificate store RPC service.
	StoreServiceName = "deed.v1.CertificateStore"

	// HealthServiceName is the name a store server reports its serving status under.
	HealthServiceName = "deed"
)

const (
	StoreService_GetCertificate_FullMethodName           = "/" + StoreServiceName + "/GetCertificate"
	StoreService_SubmitCertificateRequest_FullMethodName = "/" + StoreServiceName + "/SubmitCertificateRequest"
)

// StoreServiceClient is the client API for the certificate store service.
//
// GetCertificate takes the subject name and answers with the PEM encoded
// certificate, or a NotFound status. SubmitCertificateRequest takes a PEM
// encoded CSR and answers with an empty message.
type StoreServiceClient interface {
	GetCertificate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	SubmitCertificateRequest(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type storeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewStoreServiceClient returns a raw protocol client over cc.
func NewStoreServiceClient(cc grpc.ClientConnInterface) StoreServiceClient {
	return &storeServiceClient{cc}
}

func (c *storeServiceClient) GetCertificate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, StoreService_GetCertificate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storeServiceClient) SubmitCertificateRequest(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, StoreService_SubmitCertificateRequest_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StoreServiceServer is the server API for the certificate store service.
// Implementations must embed UnimplementedStoreServiceServer.
type StoreServiceServer interface {
	GetCertificate(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	SubmitCertificateRequest(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error)
	mustEmbedUnimplementedStoreServiceServer()
}

// UnimplementedStoreServiceServer must be embedded to have forward compatible implementations.
type UnimplementedStoreServiceServer struct{}

func (UnimplementedStoreServiceServer) GetCertificate(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCertificate not implemented")
}

func (UnimplementedStoreServiceServer) SubmitCertificateRequest(context.Context, *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitCertificateRequest not implemented")
}

func (UnimplementedStoreServiceServer) mustEmbedUnimplementedStoreServiceServer() {}

// RegisterStoreServiceServer registers srv on s.
func RegisterStoreServiceServer(s grpc.ServiceRegistrar, srv StoreServiceServer) {
	s.RegisterService(&StoreService_ServiceDesc, srv)
}

func _StoreService_GetCertificate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServiceServer).GetCertificate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: StoreService_GetCertificate_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StoreServiceServer).GetCertificate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _StoreService_SubmitCertificateRequest_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServiceServer).SubmitCertificateRequest(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: StoreService_SubmitCertificateRequest_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(StoreServiceServer).SubmitCertificateRequest(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// StoreService_ServiceDesc is the grpc.ServiceDesc for the certificate store service.
var StoreService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: StoreServiceName,
	HandlerType: (*StoreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCertificate",
			Handler:    _StoreService_GetCertificate_Handler,
		},
		{
			MethodName: "SubmitCertificateRequest",
			Handler:    _StoreService_SubmitCertificateRequest_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "deed/v1/store.proto",
}
