// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stacklok/valor/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the valor configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after defaults, the config file, the environment
and flags have been applied.`,
		Args: cobra.NoArgs,
		RunE: configShowCmdFunc,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show where the config file is read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return fmt.Errorf("failed to resolve config path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}

func configShowCmdFunc(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if src := cfg.Source(); src != "" {
		fmt.Fprintf(out, "# loaded from %s\n", src)
	}
	_, err = out.Write(data)
	return err
}
