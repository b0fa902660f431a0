// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/cobra"
)

type storeListing struct {
	Issuer       string   `json:"issuer"`
	Requests     []string `json:"requests"`
	Certificates []string `json:"certificates"`
}

var cmdCA = []cobra.Command{
	{
		Use:   "init <issuer>",
		Short: "Initialize certificate authority",
		Long:  `Creates a certificate store with a fresh issuer key and self-signed certificate. An existing store is never overwritten.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if initializer == nil {
				logErrorCmd(*cmd, errNoInitializer)
				return
			}
			a, err := initializer(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, viewCertificate(a.Issuer()))
		},
	},
	{
		Use:   "sign-request <subject>",
		Short: "Sign pending request",
		Long:  `Signs the pending certificate request of a subject and stores the issued certificate.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if authority == nil {
				logErrorCmd(*cmd, errLocalStoreOnly)
				return
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			cert, err := authority.SignRequest(ctx, args[0])
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, viewCertificate(cert))
		},
	},
	{
		Use:   "list",
		Short: "List requests and certificates",
		Long:  `Lists subjects with a pending request and subjects with an issued certificate.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}
			if authority == nil {
				logErrorCmd(*cmd, errLocalStoreOnly)
				return
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()
			requests, err := authority.ListRequests(ctx)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			certs, err := authority.ListCertificates(ctx)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			logJSONCmd(*cmd, storeListing{
				Issuer:       authority.IssuerName(),
				Requests:     requests,
				Certificates: certs,
			})
		},
	},
}

// NewCACmd returns the certificate authority administration command.
func NewCACmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "ca [init | sign-request | list]",
		Short: "Certificate authority administration",
		Long:  `Certificate authority administration: init, sign-request, list. Operates on a local store only.`,
	}

	for i := range cmdCA {
		cmd.AddCommand(&cmdCA[i])
	}

	return &cmd
}
