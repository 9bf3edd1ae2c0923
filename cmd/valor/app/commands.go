// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the valor command-line application.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/stacklok/valor/cmd/valor/app/ui"
	"github.com/stacklok/valor/pkg/config"
	"github.com/stacklok/valor/pkg/logger"
)

// NewRootCmd creates a new root command for the valor CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "valor",
		DisableAutoGenTag: true,
		Short:             "Download and set up interview challenges",
		Long: `Valor downloads a single challenge from a challenges repository, copies it
to a directory of your choice and optionally installs its dependencies.

Run without a subcommand to pick a challenge interactively. The repository is
read from VALOR_CHALLENGES_REPO_URL, the config file or --repo-url.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Initialize()
		},
		RunE: interactiveCmdFunc,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the configuration file")
	rootCmd.PersistentFlags().String("repo-url", "", "URL of the challenges repository")
	rootCmd.PersistentFlags().String("branch", "", "Branch of the challenges repository")
	rootCmd.PersistentFlags().String("backend", "", "Fetch backend to use (git or go-git)")

	for key, flag := range map[string]string{
		"debug":         "debug",
		"config":        "config",
		"repo_url":      "repo-url",
		"branch":        "branch",
		"fetch_backend": "backend",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			logger.Errorf("Error binding %s flag: %v", flag, err)
		}
	}

	// Add subcommands
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Errors are reported by ReportError
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	return rootCmd
}

func interactiveCmdFunc(cmd *cobra.Command, _ []string) error {
	// #nosec G115: file descriptors fit in an int
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal, use 'valor get NAME' instead")
	}

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	presenter := ui.NewPresenter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	presenter.Header()

	pipeline, err := newPipeline(cfg, ui.NewTerminalPrompter(), presenter, runOptions{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	return runPipeline(cmd.Context(), pipeline)
}

// loadConfig builds the effective configuration from the global viper
// instance, which carries the bound persistent flags.
func loadConfig(validate bool) (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper(), config.LoadOptions{
		ConfigPath: viper.GetString("config"),
	})
	if err != nil {
		return nil, err
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}
