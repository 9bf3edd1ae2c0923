// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/cobra"

	"github.com/stacklok/valor/cmd/valor/app/ui"
	"github.com/stacklok/valor/pkg/challenges"
	"github.com/stacklok/valor/pkg/installer"
)

type getOptions struct {
	dest           string
	install        bool
	force          bool
	packageManager string
}

func newGetCmd() *cobra.Command {
	opts := &getOptions{}

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "Download a challenge without prompting",
		Long: `Download the named challenge into a directory of the same name under --dest
(the current directory by default). Dependencies are installed with --install.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getCmdFunc(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dest, "dest", "d", "", "Parent directory for the challenge (default: current directory)")
	cmd.Flags().BoolVar(&opts.install, "install", false, "Install dependencies after copying")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Replace the destination if it already exists")
	cmd.Flags().StringVar(&opts.packageManager, "package-manager", "",
		"Package manager to install with (pnpm, yarn or npm; detected by default)")

	return cmd
}

func getCmdFunc(cmd *cobra.Command, name string, opts *getOptions) error {
	var pm installer.PackageManager
	if opts.packageManager != "" {
		parsed, err := installer.ParsePackageManager(opts.packageManager)
		if err != nil {
			return err
		}
		pm = parsed
	}

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	prompter := &challenges.StaticPrompter{
		Name:        name,
		Destination: opts.dest,
		Install:     opts.install,
		Overwrite:   opts.force,
	}
	pipeline, err := newPipeline(cfg, prompter, ui.NewPresenter(cmd.OutOrStdout(), cmd.ErrOrStderr()), runOptions{
		Force:          opts.force,
		PackageManager: pm,
		Stdout:         cmd.OutOrStdout(),
		Stderr:         cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	return runPipeline(cmd.Context(), pipeline)
}
