// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pki"
	"github.com/spf13/cobra"
)

var cmdCerts = []cobra.Command{
	{
		Use:   "new-key <subject> <key_path>",
		Short: "Generate key and request certificate",
		Long:  `Generates a private key, writes it to key_path readable by the owner only and submits a certificate request for the subject.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if store == nil {
				logErrorCmd(*cmd, errNoStore)
				return
			}
			if err := deed.ValidateSubject(args[0]); err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			key, err := pki.GenerateKey()
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			if err := saveToFile(args[1], pki.EncodeKey(key), keyFileMode); err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			csr, err := pki.GenerateCertificateRequest(key, args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := store.SubmitCertificateRequest(ctx, csr); err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logOKCmd(*cmd)
		},
	},
	{
		Use:   "request-cert <subject> <key_path>",
		Short: "Request certificate",
		Long:  `Submits a certificate request for the subject signed with the private key stored at key_path.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if store == nil {
				logErrorCmd(*cmd, errNoStore)
				return
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				logErrorCmd(*cmd, fmt.Errorf("failed to read key %s: %w", args[1], err))
				return
			}
			key, err := pki.DecodeKey(data)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			csr, err := pki.GenerateCertificateRequest(key, args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			if err := store.SubmitCertificateRequest(ctx, csr); err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logOKCmd(*cmd)
		},
	},
	{
		Use:   "get-cert <subject> <cert_path>",
		Short: "Get certificate",
		Long:  `Fetches the certificate issued for the subject and writes it to cert_path.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if store == nil {
				logErrorCmd(*cmd, errNoStore)
				return
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			cert, err := store.GetCertificate(ctx, args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			if err := saveToFile(args[1], pki.EncodeCertificate(cert), certFileMode); err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, viewCertificate(cert))
		},
	},
}

// NewCertsCmds returns the certificate commands of a store client.
func NewCertsCmds() []*cobra.Command {
	cmds := make([]*cobra.Command, len(cmdCerts))
	for i := range cmdCerts {
		cmds[i] = &cmdCerts[i]
	}

	return cmds
}
