// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/absmach/deed"
	"github.com/absmach/deed/cli"
	"github.com/absmach/deed/filestore"
	"github.com/absmach/deed/mocks"
	"github.com/spf13/afero"
	"github.com/absmach/deed/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCAInit(t *testing.T) {
	dir := t.TempDir()
	initializer := func(issuer string) (cli.Authority, error) {
		return filestore.New(afero.NewOsFs(), dir, issuer, mocks.NewMock())
	}

	cases := []struct {
		desc        string
		args        []string
		initializer cli.Initializer
		output      []string
	}{
		{
			desc:        "initialize store",
			args:        []string{"ca", "init", issuerName},
			initializer: initializer,
			output:      []string{issuerName, "13:e5:c1:0f"},
		},
		{
			desc:        "initialize existing store",
			args:        []string{"ca", "init", "other-ca"},
			initializer: initializer,
			output:      []string{"error: ", "issuer already exists"},
		},
		{
			desc:   "initialize without local path",
			args:   []string{"ca", "init", issuerName},
			output: []string{"error: ", "requires a local path"},
		},
		{
			desc:        "initialize without issuer",
			args:        []string{"ca", "init"},
			initializer: initializer,
			output:      []string{"usage: "},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			cli.SetInitializer(tc.initializer)
			out := executeCommand(t, newRootCmd(), tc.args...)
			for _, o := range tc.output {
				assert.Contains(t, out, o)
			}
		})
	}
	cli.SetInitializer(nil)

	s, err := filestore.FromPath(afero.NewOsFs(), dir, mocks.NewMock())
	require.NoError(t, err)
	assert.Equal(t, issuerName, s.IssuerName())
}

func TestCASignRequest(t *testing.T) {
	s := newAuthority(t)
	submitRequest(t, s, "alice")

	cases := []struct {
		desc   string
		args   []string
		output string
	}{
		{
			desc:   "sign pending request",
			args:   []string{"ca", "sign-request", "alice"},
			output: aliceSerial,
		},
		{
			desc:   "sign request again",
			args:   []string{"ca", "sign-request", "alice"},
			output: aliceSerial,
		},
		{
			desc:   "sign missing request",
			args:   []string{"ca", "sign-request", "bob"},
			output: "no pending certificate request",
		},
		{
			desc:   "sign request with malformed subject",
			args:   []string{"ca", "sign-request", "../alice"},
			output: "malformed subject",
		},
		{
			desc:   "sign request without subject",
			args:   []string{"ca", "sign-request"},
			output: "usage: ",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			out := executeCommand(t, newRootCmd(), tc.args...)
			assert.Contains(t, out, tc.output)
		})
	}

	cert, err := s.GetCertificate(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", cert.Subject.CommonName)
	assert.True(t, cli.Failed())
}

func TestCARequiresLocalStore(t *testing.T) {
	cli.SetStore(new(mocks.Store))
	defer cli.SetStore(nil)

	for _, args := range [][]string{
		{"ca", "sign-request", "alice"},
		{"ca", "list"},
	} {
		out := executeCommand(t, newRootCmd(), args...)
		assert.Contains(t, out, "requires a local store", strings.Join(args, " "))
	}
}

func TestCAList(t *testing.T) {
	s := newAuthority(t)
	submitRequest(t, s, "bob")
	submitRequest(t, s, "alice")
	_, err := s.SignRequest(context.Background(), "alice")
	require.NoError(t, err)

	out := executeCommand(t, newRootCmd(), "ca", "list", "-r")

	var listing struct {
		Issuer       string   `json:"issuer"`
		Requests     []string `json:"requests"`
		Certificates []string `json:"certificates"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &listing))
	assert.Equal(t, issuerName, listing.Issuer)
	assert.Equal(t, []string{"alice", "bob"}, listing.Requests)
	assert.Equal(t, []string{"alice"}, listing.Certificates)
}

func TestCAStoreFailures(t *testing.T) {
	storeErr := errors.Wrap(deed.ErrViewEntity, errors.New("disk failure"))

	cases := []struct {
		desc   string
		args   []string
		setup  func(a *mocks.Authority)
		output string
	}{
		{
			desc: "sign request with store failure",
			args: []string{"ca", "sign-request", "alice"},
			setup: func(a *mocks.Authority) {
				a.On("SignRequest", mock.Anything, "alice").Return(nil, storeErr)
			},
			output: "disk failure",
		},
		{
			desc: "list with failing requests listing",
			args: []string{"ca", "list"},
			setup: func(a *mocks.Authority) {
				a.On("ListRequests", mock.Anything).Return(nil, storeErr)
			},
			output: "disk failure",
		},
		{
			desc: "list with failing certificates listing",
			args: []string{"ca", "list"},
			setup: func(a *mocks.Authority) {
				a.On("ListRequests", mock.Anything).Return([]string{"alice"}, nil)
				a.On("ListCertificates", mock.Anything).Return(nil, storeErr)
			},
			output: "disk failure",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			a := mocks.NewAuthority(t)
			tc.setup(a)
			cli.SetAuthority(a)
			defer cli.SetAuthority(nil)

			out := executeCommand(t, newRootCmd(), tc.args...)
			assert.Contains(t, out, "error: ")
			assert.Contains(t, out, tc.output)
		})
	}
}
