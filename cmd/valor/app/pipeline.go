// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/stacklok/valor/cmd/valor/app/ui"
	"github.com/stacklok/valor/pkg/catalog"
	"github.com/stacklok/valor/pkg/challenges"
	"github.com/stacklok/valor/pkg/config"
	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/git"
	"github.com/stacklok/valor/pkg/installer"
	"github.com/stacklok/valor/pkg/logger"
	"github.com/stacklok/valor/pkg/materialize"
	"github.com/stacklok/valor/pkg/networking"
	"github.com/stacklok/valor/pkg/process"
	"github.com/stacklok/valor/pkg/versions"
	"github.com/stacklok/valor/pkg/workspace"
)

// runOptions carries the per-command settings that are not part of the
// configuration.
type runOptions struct {
	Force          bool
	PackageManager installer.PackageManager
	Stdout         io.Writer
	Stderr         io.Writer
}

func newCatalog(cfg *config.Config) (*catalog.GitHubCatalog, error) {
	client, err := networking.NewHttpClientBuilder().
		WithCABundle(cfg.CACertificatePath).
		WithUserAgent(versions.UserAgent()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return catalog.NewGitHubCatalog(client, cfg.GitHub.APIBase), nil
}

// newPipeline wires a Pipeline from the configuration.
func newPipeline(
	cfg *config.Config,
	prompter challenges.Prompter,
	notifier challenges.Notifier,
	opts runOptions,
) (*challenges.Pipeline, error) {
	info, err := cfg.Repository()
	if err != nil {
		return nil, err
	}
	cat, err := newCatalog(cfg)
	if err != nil {
		return nil, err
	}

	runner := process.NewExecRunner(cfg.CommandTimeout)
	fetcher, err := git.NewFetcher(cfg.FetchBackend, runner)
	if err != nil {
		return nil, err
	}
	preference, err := cfg.PackageManagerPreference()
	if err != nil {
		return nil, err
	}
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	settings := challenges.Settings{
		Repo:              info,
		CloneURL:          cfg.RepoURL,
		ChallengesDir:     cfg.ChallengesDir,
		Depth:             cfg.CloneDepth,
		Sparse:            cfg.Features.UseSparseCheckout,
		Exclude:           cfg.Exclusions(),
		InitGitRepository: cfg.Features.InitGitRepository,
		PackageManager:    opts.PackageManager,
		Force:             opts.Force,
	}
	deps := challenges.Dependencies{
		Catalog:      cat,
		Workspace:    workspace.NewManager(cfg.TempDirPrefix, ""),
		Fetcher:      fetcher,
		Materializer: materialize.NewOSCopier(),
		Installer: installer.New(runner,
			installer.WithPreference(preference),
			installer.WithOutput(stdout, stderr),
		),
		Initializer: git.NewInitializer(cfg.FetchBackend, runner),
		Prompter:    prompter,
		Notifier:    notifier,
	}
	return challenges.NewPipeline(settings, deps), nil
}

func runPipeline(ctx context.Context, pipeline *challenges.Pipeline) error {
	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Debugw("challenge pipeline failed",
			"run_id", pipeline.RunID(), "state", pipeline.State().String(), "error", err)
		if result != nil && result.Destination != "" {
			logger.Infof("The challenge was copied to %s", result.Destination)
		}
		return err
	}
	return nil
}

// ReportError prints err for the user. Classified pipeline errors are
// described with their guidance; anything else is printed as is.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if _, ok := errors.KindOf(err); ok {
		ui.NewPresenter(w, w).Failure(challenges.Describe(err))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
