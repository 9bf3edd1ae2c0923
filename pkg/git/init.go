// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/stacklok/valor/pkg/process"
)

// InitialCommitMessage is the message of the commit recorded in a freshly
// initialized challenge.
const InitialCommitMessage = "Initial commit"

// Initializer turns a copied challenge into a new repository with one commit
// holding all of its files.
type Initializer interface {
	Init(ctx context.Context, dir string) error
}

// NewInitializer returns the Initializer matching the fetch backend.
func NewInitializer(backend string, runner process.Runner) Initializer {
	if backend == BackendGoGit {
		return NewGoGitInitializer()
	}
	return NewCLIInitializer(runner)
}

// CLIInitializer runs git init, add and commit.
type CLIInitializer struct {
	runner process.Runner
}

// NewCLIInitializer creates a CLIInitializer.
func NewCLIInitializer(runner process.Runner) *CLIInitializer {
	return &CLIInitializer{runner: runner}
}

// Init implements Initializer.
func (i *CLIInitializer) Init(ctx context.Context, dir string) error {
	for _, args := range [][]string{
		{"init"},
		{"add", "."},
		{"commit", "-m", InitialCommitMessage},
	} {
		if err := i.runner.Run(ctx, process.Command{Name: gitBinary, Args: args, Dir: dir}); err != nil {
			return fmt.Errorf("failed to initialize git repository: %w", err)
		}
	}
	return nil
}

// GoGitInitializer initializes the repository in-process.
type GoGitInitializer struct {
	// Author signs the initial commit
	Author object.Signature
}

// NewGoGitInitializer creates a GoGitInitializer with a neutral author.
func NewGoGitInitializer() *GoGitInitializer {
	return &GoGitInitializer{
		Author: object.Signature{Name: "valor", Email: "valor@localhost"},
	}
}

// Init implements Initializer.
func (i *GoGitInitializer) Init(_ context.Context, dir string) error {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}

	author := i.Author
	author.When = time.Now()
	if _, err := worktree.Commit(InitialCommitMessage, &git.CommitOptions{Author: &author}); err != nil {
		return fmt.Errorf("failed to create initial commit: %w", err)
	}
	return nil
}
