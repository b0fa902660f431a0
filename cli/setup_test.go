// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/absmach/deed/cli"
	"github.com/absmach/deed/filestore"
	"github.com/absmach/deed/mocks"
	"github.com/absmach/deed/pki"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issuerName  = "root-ca"
	aliceSerial = "63:84:e2:b2"
)

func executeCommand(t *testing.T, root *cobra.Command, args ...string) string {
	buffer := new(bytes.Buffer)
	root.SetOut(buffer)
	root.SetErr(buffer)
	root.SetArgs(args)
	err := root.Execute()
	assert.NoError(t, err, "Error executing command")
	return buffer.String()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{Use: "deed-cli"}
	rootCmd.AddCommand(cli.NewCACmd())
	rootCmd.AddCommand(cli.NewCertsCmds()...)

	return setFlags(rootCmd)
}

func setFlags(rootCmd *cobra.Command) *cobra.Command {
	// Root Flags
	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		false,
		"Enables raw output mode for easier parsing of output",
	)

	return rootCmd
}

func newAuthority(t *testing.T) *filestore.Store {
	t.Helper()

	s, err := filestore.New(afero.NewMemMapFs(), "/ca", issuerName, mocks.NewMock())
	require.NoError(t, err)
	cli.SetAuthority(s)

	return s
}

func submitRequest(t *testing.T, store *filestore.Store, subject string) {
	t.Helper()

	key, err := pki.GenerateKey()
	require.NoError(t, err)
	csr, err := pki.GenerateCertificateRequest(key, subject)
	require.NoError(t, err)
	require.NoError(t, store.SubmitCertificateRequest(context.Background(), csr))
}
