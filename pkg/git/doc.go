// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package git retrieves a single sub-tree of a remote repository into a local
// workspace, and optionally turns a copied challenge into a fresh repository.
//
// # Fetchers
//
// Two backends implement Fetcher:
//   - CLIFetcher shells out to the git binary through a process.Runner
//   - GoGitFetcher runs in-process on top of go-git
//
// Both follow the same sparse sequence in an empty directory: initialize a
// working copy, register the "origin" remote, restrict the checkout to the
// requested path and pull a shallow copy of one branch. With Sparse disabled
// the whole branch is cloned instead.
//
// A path that does not exist on the remote is not an error here. The checkout
// simply materializes nothing and the copy step reports the missing source.
//
// # Example Usage
//
//	fetcher := git.NewCLIFetcher(process.NewExecRunner(0))
//	err := fetcher.Fetch(ctx, git.FetchRequest{
//	    URL:    "https://github.com/acme/demo.git",
//	    Branch: "main",
//	    Path:   "challenges/foo",
//	    Dir:    workspaceDir,
//	    Depth:  1,
//	    Sparse: true,
//	})
//
// Every failure is reported as an errors.KindFetchFailed error wrapping the
// tool error.
package git
