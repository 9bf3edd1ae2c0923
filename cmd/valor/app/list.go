// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stacklok/valor/cmd/valor/app/ui"
	"github.com/stacklok/valor/pkg/catalog"
	"github.com/stacklok/valor/pkg/repo"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// challengeListing is the JSON shape of one challenge.
type challengeListing struct {
	catalog.Challenge
	ReadmeURL string `json:"readme_url"`
}

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available challenges",
		Long:  `List the challenges found in the challenges directory of the configured repository.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listCmdFunc(cmd, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", FormatTable, "Output format (table or json)")

	return cmd
}

func listCmdFunc(cmd *cobra.Command, format string) error {
	if format != FormatTable && format != FormatJSON {
		return fmt.Errorf("unsupported format %q, must be %q or %q", format, FormatTable, FormatJSON)
	}

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	info, err := cfg.Repository()
	if err != nil {
		return err
	}
	cat, err := newCatalog(cfg)
	if err != nil {
		return err
	}

	list, err := cat.List(cmd.Context(), info, cfg.ChallengesDir)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		return printJSONListing(cmd.OutOrStdout(), info, cfg.GitHub.RawBase, list)
	}
	return ui.RenderChallengesTable(cmd.OutOrStdout(), list)
}

func printJSONListing(w io.Writer, info repo.Info, rawBase string, list []catalog.Challenge) error {
	out := make([]challengeListing, 0, len(list))
	for _, c := range list {
		out = append(out, challengeListing{
			Challenge: c,
			ReadmeURL: info.RawFileURL(rawBase, c.Path+"/README.md"),
		})
	}

	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
