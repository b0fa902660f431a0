// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains cli main function to run the cli.
package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/absmach/deed/cli"
	"github.com/absmach/deed/client"
	"github.com/absmach/deed/filestore"
	pgclient "github.com/absmach/deed/internal/postgres"
	"github.com/absmach/deed/postgres"
	"github.com/absmach/deed/sdk"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	defCAPath   = "ca-data"
	envPrefixDB = "DEED_DB_"
)

func main() {
	var (
		cfg      cli.Config
		useDB    bool
		verbose  bool
		curl     bool
		insecure bool
		closer   io.Closer
	)

	// Root
	rootCmd := &cobra.Command{
		Use:   "deed-cli",
		Short: "Minimal certificate authority",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			cliConf, err := cli.ParseConfig(cfg)
			if err != nil {
				return err
			}

			out := io.Discard
			if verbose {
				out = os.Stderr
			}
			logger := slog.New(slog.NewJSONHandler(out, nil))

			if useDB {
				db, err := pgclient.Setup(envPrefixDB, *postgres.Migration())
				if err != nil {
					return err
				}
				closer = db
				cli.SetInitializer(func(issuer string) (cli.Authority, error) {
					return postgres.New(cmd.Context(), db, issuer, logger)
				})
				if cmd.Name() == "init" {
					return nil
				}
				s, err := postgres.Open(cmd.Context(), db, logger)
				if err != nil {
					return err
				}
				cli.SetAuthority(s)
				return nil
			}

			if cliConf.Path == "" && cmd.Parent() != nil && cmd.Parent().Name() == "ca" {
				cliConf.Path = defCAPath
			}

			if cliConf.Path != "" {
				fs := afero.NewOsFs()
				cli.SetInitializer(func(issuer string) (cli.Authority, error) {
					return filestore.New(fs, cliConf.Path, issuer, logger)
				})
				if cmd.Name() == "init" {
					return nil
				}
				s, err := filestore.FromPath(fs, cliConf.Path, logger)
				if err != nil {
					return err
				}
				cli.SetAuthority(s)
				return nil
			}

			if strings.HasPrefix(cliConf.URL, "http://") || strings.HasPrefix(cliConf.URL, "https://") {
				cli.SetStore(sdk.NewStore(sdk.Config{
					URL:             cliConf.URL,
					Timeout:         cli.Timeout,
					TLSVerification: !insecure,
					CurlFlag:        curl,
				}))
				return nil
			}

			c, s, err := client.NewStore(cmd.Context(), client.Config{URL: cliConf.URL, Timeout: cli.Timeout})
			if err != nil {
				return err
			}
			closer = c
			cli.SetStore(s)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if closer != nil {
				closer.Close()
			}
		},
		SilenceUsage: true,
	}

	// API commands
	caCmd := cli.NewCACmd()

	// Root Commands
	rootCmd.AddCommand(caCmd)
	rootCmd.AddCommand(cli.NewCertsCmds()...)

	rootCmd.PersistentFlags().StringVarP(
		&cfg.Path,
		"path",
		"d",
		cfg.Path,
		"Local certificate store path",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cfg.URL,
		"url",
		"u",
		cfg.URL,
		"Remote certificate store URL",
	)

	rootCmd.PersistentFlags().DurationVar(
		&cfg.Timeout,
		"timeout",
		cfg.Timeout,
		"Store operation timeout",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.ConfigPath,
		"config",
		"c",
		cli.ConfigPath,
		"Config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		cli.RawOutput,
		"Enables raw output mode for easier parsing of output",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&insecure,
		"insecure",
		"i",
		false,
		"Do not check the TLS certificate of an HTTPS store",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&curl,
		"curl",
		"x",
		false,
		"Convert HTTP request to cURL command",
	)

	rootCmd.PersistentFlags().BoolVar(
		&useDB,
		"db",
		false,
		"Use the PostgreSQL store configured by DEED_DB_* environment variables",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Log store operations to stderr",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
	if cli.Failed() {
		os.Exit(1)
	}
}
