// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package grpc_test

import (
	"bytes"
	"context"
	"crypto/x509"
	"net"
	"testing"
	"time"

	"github.com/absmach/deed"
	grpcapi "github.com/absmach/deed/api/grpc"
	"github.com/absmach/deed/filestore"
	"github.com/absmach/deed/mocks"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/pki"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const timeout = 5 * time.Second

func startServer(t *testing.T, store deed.Store) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	deed.RegisterStoreServiceServer(srv, grpcapi.NewServer(store))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func newRequest(t *testing.T, subject string) *x509.CertificateRequest {
	t.Helper()

	key, err := pki.GenerateKey()
	require.NoError(t, err)
	csr, err := pki.GenerateCertificateRequest(key, subject)
	require.NoError(t, err)

	return csr
}

func TestRemoteStoreMatchesLocal(t *testing.T) {
	local, err := filestore.New(afero.NewMemMapFs(), "/ca", "root-ca", mocks.NewMock())
	require.NoError(t, err)

	remote := grpcapi.NewStore(startServer(t, local), timeout)
	ctx := context.Background()

	csr := newRequest(t, "alice")
	require.NoError(t, remote.SubmitCertificateRequest(ctx, csr))

	pending, err := local.ListRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, pending)

	_, err = remote.GetCertificate(ctx, "alice")
	assert.True(t, errors.Contains(err, deed.ErrCertificateNotFound), "expected %v, got %v", deed.ErrCertificateNotFound, err)

	signed, err := local.SignRequest(ctx, "alice")
	require.NoError(t, err)

	cert, err := remote.GetCertificate(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, signed.Equal(cert))
	assert.Equal(t, "alice", cert.Subject.CommonName)
	assert.Equal(t, pki.GenSerial("alice"), cert.SerialNumber.Int64())

	localCert, err := local.GetCertificate(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, localCert.Equal(cert), "local and remote stores must agree")

	root, err := remote.GetCertificate(ctx, "root-ca")
	require.NoError(t, err)
	assert.True(t, local.Issuer().Equal(root))
}

func TestGetCertificate(t *testing.T) {
	store := new(mocks.Store)
	remote := grpcapi.NewStore(startServer(t, store), timeout)

	key, err := pki.GenerateKey()
	require.NoError(t, err)
	cert, err := pki.GenerateSelfSignedCertificate(key, "alice")
	require.NoError(t, err)

	cases := []struct {
		desc     string
		subject  string
		cert     *x509.Certificate
		storeErr error
		err      error
	}{
		{
			desc:    "get certificate successfully",
			subject: "alice",
			cert:    cert,
		},
		{
			desc:     "get missing certificate",
			subject:  "bob",
			storeErr: deed.ErrCertificateNotFound,
			err:      deed.ErrCertificateNotFound,
		},
		{
			desc:    "get certificate with malformed subject",
			subject: "../alice",
			err:     deed.ErrMalformedSubject,
		},
		{
			desc:     "get certificate with store failure",
			subject:  "carol",
			storeErr: errors.Wrap(deed.ErrViewEntity, errors.New("disk failure")),
			err:      errors.New("view entity failed : disk failure"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			call := store.On("GetCertificate", mock.Anything, tc.subject).Return(tc.cert, tc.storeErr)
			got, err := remote.GetCertificate(context.Background(), tc.subject)
			assert.True(t, errors.Contains(err, tc.err), "expected %v, got %v", tc.err, err)
			if tc.err == nil {
				assert.True(t, tc.cert.Equal(got))
			}
			call.Unset()
		})
	}
}

func TestSubmitCertificateRequest(t *testing.T) {
	store := new(mocks.Store)
	remote := grpcapi.NewStore(startServer(t, store), timeout)

	csr := newRequest(t, "alice")

	cases := []struct {
		desc     string
		csr      *x509.CertificateRequest
		storeErr error
		err      error
	}{
		{
			desc: "submit request successfully",
			csr:  csr,
		},
		{
			desc: "submit nil request",
			csr:  nil,
			err:  deed.ErrBadCertificateRequest,
		},
		{
			desc:     "submit request rejected by store",
			csr:      csr,
			storeErr: deed.ErrBadCertificateRequest,
			err:      deed.ErrBadCertificateRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			call := store.On("SubmitCertificateRequest", mock.Anything, mock.MatchedBy(func(got *x509.CertificateRequest) bool {
				return tc.csr != nil && bytes.Equal(got.Raw, tc.csr.Raw)
			})).Return(tc.storeErr)
			err := remote.SubmitCertificateRequest(context.Background(), tc.csr)
			assert.True(t, errors.Contains(err, tc.err), "expected %v, got %v", tc.err, err)
			call.Unset()
		})
	}
}

func TestSubmitMalformedPayload(t *testing.T) {
	store := new(mocks.Store)
	client := deed.NewStoreServiceClient(startServer(t, store))

	cases := []struct {
		desc    string
		payload []byte
	}{
		{
			desc:    "submit empty payload",
			payload: nil,
		},
		{
			desc:    "submit non PEM payload",
			payload: []byte("not a certificate request"),
		},
		{
			desc:    "submit certificate instead of request",
			payload: []byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := client.SubmitCertificateRequest(context.Background(), wrapperspb.Bytes(tc.payload))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	store.AssertNotCalled(t, "SubmitCertificateRequest", mock.Anything, mock.Anything)
}

func TestConnectionFailure(t *testing.T) {
	lis := bufconn.Listen(1024)
	require.NoError(t, lis.Close())

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	remote := grpcapi.NewStore(conn, 200*time.Millisecond)

	_, err = remote.GetCertificate(context.Background(), "alice")
	assert.True(t, errors.Contains(err, deed.ErrConnection), "expected %v, got %v", deed.ErrConnection, err)
}
