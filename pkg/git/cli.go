// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/logger"
	"github.com/stacklok/valor/pkg/process"
)

const gitBinary = "git"

// CLIFetcher implements Fetcher with the git command line tool.
type CLIFetcher struct {
	runner process.Runner
}

// NewCLIFetcher creates a CLIFetcher running git through runner.
func NewCLIFetcher(runner process.Runner) *CLIFetcher {
	return &CLIFetcher{runner: runner}
}

// Fetch implements Fetcher.
func (f *CLIFetcher) Fetch(ctx context.Context, req FetchRequest) error {
	if err := req.Validate(); err != nil {
		return errors.NewFetchFailedError("invalid fetch request", err)
	}
	if !req.Sparse {
		return f.clone(ctx, req)
	}

	logger.Debugw("sparse fetching challenge", "path", req.Path, "branch", req.Branch)

	steps := []struct {
		desc string
		run  func() error
	}{
		{"initialize repository", func() error { return f.git(ctx, req.Dir, "init") }},
		{"add remote", func() error { return f.git(ctx, req.Dir, "remote", "add", RemoteName, req.URL) }},
		{"enable sparse checkout", func() error { return f.git(ctx, req.Dir, "config", "core.sparseCheckout", "true") }},
		{"write sparse-checkout patterns", func() error { return writeSparsePatterns(req) }},
		{"pull branch", func() error { return f.git(ctx, req.Dir, pullArgs(req)...) }},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			return errors.NewFetchFailedError(fmt.Sprintf("failed to %s", step.desc), err)
		}
	}
	return nil
}

func (f *CLIFetcher) clone(ctx context.Context, req FetchRequest) error {
	logger.Debugw("cloning repository", "branch", req.Branch, "depth", req.Depth)

	args := []string{"clone"}
	if req.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(req.Depth))
	}
	args = append(args, "--branch", req.Branch, req.URL, req.Dir)

	if err := f.git(ctx, "", args...); err != nil {
		return errors.NewFetchFailedError("failed to clone repository", err)
	}
	return nil
}

func (f *CLIFetcher) git(ctx context.Context, dir string, args ...string) error {
	return f.runner.Run(ctx, process.Command{Name: gitBinary, Args: args, Dir: dir})
}

func pullArgs(req FetchRequest) []string {
	args := []string{"pull", RemoteName, req.Branch}
	if req.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(req.Depth))
	}
	return args
}

// writeSparsePatterns declares the requested path as the only sub-tree to
// materialize.
func writeSparsePatterns(req FetchRequest) error {
	infoDir := filepath.Join(req.Dir, ".git", "info")
	if err := os.MkdirAll(infoDir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(infoDir, "sparse-checkout"), []byte(req.SparsePattern()+"\n"), 0o600)
}
