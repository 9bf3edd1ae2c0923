// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/stacklok/valor/pkg/errors"
	"github.com/stacklok/valor/pkg/logger"
)

// GoGitFetcher implements Fetcher in-process with go-git.
type GoGitFetcher struct{}

// NewGoGitFetcher creates a GoGitFetcher.
func NewGoGitFetcher() *GoGitFetcher {
	return &GoGitFetcher{}
}

// Fetch implements Fetcher.
func (*GoGitFetcher) Fetch(ctx context.Context, req FetchRequest) error {
	if err := req.Validate(); err != nil {
		return errors.NewFetchFailedError("invalid fetch request", err)
	}
	if !req.Sparse {
		return cloneBranch(ctx, req)
	}

	logger.Debugw("sparse fetching challenge", "path", req.Path, "branch", req.Branch, "backend", BackendGoGit)

	repo, err := git.PlainInit(req.Dir, false)
	if err != nil {
		return errors.NewFetchFailedError("failed to initialize repository", err)
	}

	if _, err := repo.CreateRemote(&config.RemoteConfig{
		Name: RemoteName,
		URLs: []string{req.URL},
	}); err != nil {
		return errors.NewFetchFailedError("failed to add remote", err)
	}

	branchRef := plumbing.NewBranchReferenceName(req.Branch)
	remoteRef := plumbing.NewRemoteReferenceName(RemoteName, req.Branch)
	refSpec := config.RefSpec(fmt.Sprintf("+%s:%s", branchRef, remoteRef))

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: RemoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Depth:      req.Depth,
		Tags:       git.NoTags,
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.NewFetchFailedError("failed to pull branch", err)
	}

	fetched, err := repo.Reference(remoteRef, true)
	if err != nil {
		return errors.NewFetchFailedError(fmt.Sprintf("branch %s not found on remote", req.Branch), err)
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, fetched.Hash())); err != nil {
		return errors.NewFetchFailedError("failed to create local branch", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return errors.NewFetchFailedError("failed to get worktree", err)
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Branch:                    branchRef,
		SparseCheckoutDirectories: []string{cleanPath(req.Path)},
	}); err != nil {
		return errors.NewFetchFailedError("failed to check out sparse tree", err)
	}

	return nil
}

func cloneBranch(ctx context.Context, req FetchRequest) error {
	logger.Debugw("cloning repository", "branch", req.Branch, "depth", req.Depth, "backend", BackendGoGit)

	_, err := git.PlainCloneContext(ctx, req.Dir, false, &git.CloneOptions{
		URL:           req.URL,
		ReferenceName: plumbing.NewBranchReferenceName(req.Branch),
		SingleBranch:  true,
		Depth:         req.Depth,
		Tags:          git.NoTags,
	})
	if err != nil {
		return errors.NewFetchFailedError("failed to clone repository", err)
	}
	return nil
}
